package experiment

// #region imports
import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/sirupsen/logrus"

	"github.com/mgreene-ml/cashtrap/go-pipeline/internal/categories"
	"github.com/mgreene-ml/cashtrap/go-pipeline/internal/config"
	"github.com/mgreene-ml/cashtrap/go-pipeline/internal/dataset"
	"github.com/mgreene-ml/cashtrap/go-pipeline/internal/report"
	"github.com/mgreene-ml/cashtrap/go-pipeline/internal/sampler"
	"github.com/mgreene-ml/cashtrap/go-pipeline/internal/textmodel"
)

// #endregion

// #region outcome

// Outcome is the full result of one experiment run.
type Outcome struct {
	Config         config.Experiment
	Selection      categories.Selection
	SamplerMetrics sampler.Metrics

	BestConfig  textmodel.PipelineConfig
	BestCVScore float64
	TrainAUC    float64
	EvalAUC     float64

	Report           *report.Report
	SmallClassRecall float64

	// Degenerate marks a run whose training set was empty or
	// single-class (threshold above every category count). The run is
	// reported as-is, never masked.
	Degenerate       bool
	DegenerateReason string
}

// #endregion outcome

// #region run

// Run executes the single linear pipeline: load, select, sample,
// derive labels, grid search, evaluate. Deterministic for a fixed
// dataset + threshold + seed.
func Run(cfg config.Experiment, logger *logrus.Logger, pw progress.Writer) (*Outcome, error) {
	t, err := dataset.LoadCSV(cfg.DatasetPath)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"stage": "load",
		"rows":  t.Len(),
	}).Info("dataset loaded")

	return RunOnTable(t, cfg, logger, pw)
}

// RunOnTable executes the pipeline on an already loaded table.
func RunOnTable(t *dataset.Table, cfg config.Experiment, logger *logrus.Logger, pw progress.Writer) (*Outcome, error) {
	sel, filtered := categories.Select(t, cfg.Threshold)
	logger.WithFields(logrus.Fields{
		"stage":    "select",
		"filtered": filtered.Len(),
		"large":    len(sel.Large),
		"small":    len(sel.Small),
	}).Info("categories partitioned")

	rng := rand.New(rand.NewSource(cfg.Seed))
	result, err := sampler.New(rng).Draw(filtered, sel, cfg.Threshold)
	if err != nil {
		return nil, fmt.Errorf("sample: %w", err)
	}
	sampler.DeriveLabels(result.Train)
	sampler.DeriveLabels(result.Eval)
	logger.WithFields(logrus.Fields{
		"stage":      "sample",
		"train":      result.Train.Len(),
		"eval":       result.Eval.Len(),
		"duplicates": result.Metrics.DuplicateIDs,
	}).Info("balanced training set drawn")

	out := &Outcome{
		Config:         cfg,
		Selection:      sel,
		SamplerMetrics: result.Metrics,
	}

	trainDocs := lemmas(result.Train)
	trainLabels := sampler.Labels(result.Train)

	search, err := textmodel.GridSearch(trainDocs, trainLabels, textmodel.DefaultGrid(), cfg.CVFolds, cfg.Seed, pw)
	if errors.Is(err, textmodel.ErrEmptyTrainingSet) {
		out.Degenerate = true
		out.DegenerateReason = err.Error()
		logger.WithField("stage", "train").Warn("degenerate run: ", err)
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("grid search: %w", err)
	}

	out.BestConfig = search.Best.Config
	out.BestCVScore = search.Best.MeanScore
	out.TrainAUC = search.Pipeline.Score(trainDocs, trainLabels)
	logger.WithFields(logrus.Fields{
		"stage":     "train",
		"cv_score":  out.BestCVScore,
		"train_auc": out.TrainAUC,
	}).Info("best pipeline selected")

	rep, err := report.Build(search.Pipeline, result.Eval, sel.InTrainSet)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	out.Report = rep
	rep.TrainAUC = out.TrainAUC
	out.EvalAUC = rep.EvalAUC
	out.SmallClassRecall = rep.SmallClassRecall()
	logger.WithFields(logrus.Fields{
		"stage":              "evaluate",
		"eval_auc":           out.EvalAUC,
		"small_class_recall": out.SmallClassRecall,
	}).Info("evaluation complete")

	return out, nil
}

// lemmas extracts the model input text in row order.
func lemmas(t *dataset.Table) []string {
	out := make([]string, t.Len())
	for i, r := range t.Rows {
		out[i] = r.Lemmas
	}
	return out
}

// #endregion run
