package textmodel

// #region imports
import (
	"fmt"
)

// #endregion

// #region config

// PipelineConfig bundles the vectorizer grid point with the fixed
// classifier settings.
type PipelineConfig struct {
	Vectorizer VectorizerConfig
	Logistic   LogisticConfig
}

// #endregion config

// #region pipeline

// Pipeline is the text-vectorization + linear-classifier bundle the
// grid search fits and scores.
type Pipeline struct {
	cfg PipelineConfig
	vec *Vectorizer
	clf *Logistic
}

// NewPipeline creates an unfitted pipeline.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	return &Pipeline{
		cfg: cfg,
		vec: NewVectorizer(cfg.Vectorizer),
		clf: NewLogistic(cfg.Logistic),
	}
}

// Config returns the configuration the pipeline was built with.
func (p *Pipeline) Config() PipelineConfig { return p.cfg }

// Fit learns the vocabulary and the classifier weights from the
// training documents and their binary labels.
func (p *Pipeline) Fit(docs []string, labels []int) error {
	if err := p.vec.Fit(docs); err != nil {
		return fmt.Errorf("vectorizer: %w", err)
	}
	xs := p.vec.TransformAll(docs)
	if err := p.clf.Fit(xs, labels, p.vec.Dim()); err != nil {
		return fmt.Errorf("classifier: %w", err)
	}
	return nil
}

// Proba returns P(trigger) for each document.
func (p *Pipeline) Proba(docs []string) []float64 {
	out := make([]float64, len(docs))
	for i, doc := range docs {
		out[i] = p.clf.Proba(p.vec.Transform(doc))
	}
	return out
}

// Predict returns the discrete 0/1 label for each document.
func (p *Pipeline) Predict(docs []string) []int {
	out := make([]int, len(docs))
	for i, doc := range docs {
		out[i] = p.clf.Predict(p.vec.Transform(doc))
	}
	return out
}

// Score returns the ROC-AUC of the pipeline's probabilities against a
// labeled set.
func (p *Pipeline) Score(docs []string, labels []int) float64 {
	return RocAUC(p.Proba(docs), labels)
}

// #endregion pipeline
