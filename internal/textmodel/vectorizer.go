package textmodel

// #region imports
import (
	"errors"
	"math"
	"sort"
	"strings"
)

// #endregion

// #region config

// VectorizerConfig selects one point of the vectorizer grid.
type VectorizerConfig struct {
	NGramMax    int    // n-gram range is always (1, NGramMax)
	StopWords   string // StopCurated or StopStandard
	MaxFeatures int    // vocabulary cap, 0 = unlimited
	MinDF       int    // minimum document frequency
	MaxDFRatio  float64
}

// #endregion config

// #region vectorizer

// Vectorizer maps text onto tf-idf weighted word n-gram features. Fit
// learns the vocabulary and idf from training rows only; Transform
// projects arbitrary text onto the learned space.
type Vectorizer struct {
	cfg   VectorizerConfig
	stop  map[string]bool
	vocab map[string]int
	idf   []float64
}

// NewVectorizer creates an unfitted vectorizer.
func NewVectorizer(cfg VectorizerConfig) *Vectorizer {
	return &Vectorizer{cfg: cfg, stop: StopWordSet(cfg.StopWords)}
}

// Dim returns the learned vocabulary size.
func (v *Vectorizer) Dim() int { return len(v.vocab) }

// #endregion vectorizer

// #region fit

// Fit learns the vocabulary (document-frequency filtered and capped)
// and the smoothed idf weights from the training documents.
func (v *Vectorizer) Fit(docs []string) error {
	if len(docs) == 0 {
		return errors.New("fit on empty document set")
	}

	df := make(map[string]int)
	tf := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, term := range v.ngrams(doc) {
			tf[term]++
			if !seen[term] {
				seen[term] = true
				df[term]++
			}
		}
	}

	maxDF := int(v.cfg.MaxDFRatio * float64(len(docs)))
	if v.cfg.MaxDFRatio <= 0 {
		maxDF = len(docs)
	}

	var terms []string
	for term, d := range df {
		if d < v.cfg.MinDF || d > maxDF {
			continue
		}
		terms = append(terms, term)
	}

	// Cap by descending corpus frequency; lexicographic tie-break keeps
	// the vocabulary deterministic.
	sort.Slice(terms, func(i, j int) bool {
		if tf[terms[i]] != tf[terms[j]] {
			return tf[terms[i]] > tf[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if v.cfg.MaxFeatures > 0 && len(terms) > v.cfg.MaxFeatures {
		terms = terms[:v.cfg.MaxFeatures]
	}
	sort.Strings(terms)

	v.vocab = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	n := float64(len(docs))
	for i, term := range terms {
		v.vocab[term] = i
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	return nil
}

// #endregion fit

// #region transform

// Transform maps one document onto the learned space as a sparse
// feature vector: tf counts weighted by idf, L2 normalized.
func (v *Vectorizer) Transform(doc string) map[int]float64 {
	vec := make(map[int]float64)
	for _, term := range v.ngrams(doc) {
		if j, ok := v.vocab[term]; ok {
			vec[j]++
		}
	}
	var norm float64
	for j := range vec {
		vec[j] *= v.idf[j]
		norm += vec[j] * vec[j]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for j := range vec {
			vec[j] /= norm
		}
	}
	return vec
}

// TransformAll transforms a batch of documents.
func (v *Vectorizer) TransformAll(docs []string) []map[int]float64 {
	out := make([]map[int]float64, len(docs))
	for i, doc := range docs {
		out[i] = v.Transform(doc)
	}
	return out
}

// #endregion transform

// #region ngrams

// ngrams produces all word n-grams from length 1 through NGramMax over
// the stop-word filtered token sequence.
func (v *Vectorizer) ngrams(doc string) []string {
	tokens := Tokenize(doc, v.stop)
	nmax := v.cfg.NGramMax
	if nmax < 1 {
		nmax = 1
	}
	var grams []string
	for n := 1; n <= nmax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			grams = append(grams, strings.Join(tokens[i:i+n], " "))
		}
	}
	return grams
}

// #endregion ngrams
