package textmodel

// #region imports
import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync"

	"github.com/jedib0t/go-pretty/v6/progress"
)

// #endregion

// #region errors

// ErrEmptyTrainingSet indicates the training set is empty or carries a
// single class, so no meaningful model can be fitted. Degenerate
// threshold choices surface this instead of masking it.
var ErrEmptyTrainingSet = errors.New("training set is empty or single-class")

// #endregion errors

// #region grid

// Grid is the exhaustive hyperparameter grid.
type Grid struct {
	NGramMax    []int
	StopWords   []string
	MaxFeatures []int
	MinDF       int
	MaxDFRatio  float64
}

// DefaultGrid returns the fixed search space: unigram+bigram through
// unigram+5-gram, both stop-word lists, five vocabulary caps.
func DefaultGrid() Grid {
	return Grid{
		NGramMax:    []int{2, 3, 4, 5},
		StopWords:   []string{StopCurated, StopStandard},
		MaxFeatures: []int{500, 1000, 2000, 5000, 10000},
		MinDF:       2,
		MaxDFRatio:  0.99,
	}
}

// Combinations expands the grid in deterministic order.
func (g Grid) Combinations() []PipelineConfig {
	var combos []PipelineConfig
	for _, n := range g.NGramMax {
		for _, sw := range g.StopWords {
			for _, mf := range g.MaxFeatures {
				combos = append(combos, PipelineConfig{
					Vectorizer: VectorizerConfig{
						NGramMax:    n,
						StopWords:   sw,
						MaxFeatures: mf,
						MinDF:       g.MinDF,
						MaxDFRatio:  g.MaxDFRatio,
					},
					Logistic: DefaultLogisticConfig(),
				})
			}
		}
	}
	return combos
}

// #endregion grid

// #region results

// GridResult is the cross-validated score of one grid point.
type GridResult struct {
	Config     PipelineConfig
	MeanScore  float64
	FoldScores []float64
}

// SearchResult is the outcome of a grid search: the winning grid point
// refit on the full training set, plus every candidate's score.
type SearchResult struct {
	Best     GridResult
	All      []GridResult
	Pipeline *Pipeline
}

// #endregion results

// #region grid-search

// GridSearch exhaustively evaluates the grid by k-fold cross-validated
// ROC-AUC and refits the best configuration on the full training set.
// Folds come from a seeded shuffle, so the search is deterministic.
// Candidates evaluate concurrently in a bounded worker pool; results
// are aggregated by index, so parallelism is not observable outside.
func GridSearch(docs []string, labels []int, grid Grid, folds int, seed int64, pw progress.Writer) (*SearchResult, error) {
	if len(docs) == 0 || singleClass(labels) {
		return nil, ErrEmptyTrainingSet
	}
	if folds < 2 {
		return nil, fmt.Errorf("need at least 2 folds, got %d", folds)
	}
	if folds > len(docs) {
		folds = len(docs)
	}

	combos := grid.Combinations()
	foldIdx := makeFolds(len(docs), folds, seed)

	var tracker *progress.Tracker
	if pw != nil {
		tracker = &progress.Tracker{Message: "grid search", Total: int64(len(combos))}
		pw.AppendTracker(tracker)
	}

	results := make([]GridResult, len(combos))
	sem := make(chan struct{}, maxInt(1, runtime.NumCPU()))
	var wg sync.WaitGroup

	for i, cfg := range combos {
		wg.Add(1)
		go func(i int, cfg PipelineConfig) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[i] = crossValidate(docs, labels, cfg, foldIdx)
			if tracker != nil {
				tracker.Increment(1)
			}
		}(i, cfg)
	}
	wg.Wait()
	if tracker != nil {
		tracker.MarkAsDone()
	}

	best := -1
	for i, r := range results {
		if math.IsNaN(r.MeanScore) {
			continue
		}
		if best == -1 || r.MeanScore > results[best].MeanScore {
			best = i
		}
	}
	if best == -1 {
		return nil, ErrEmptyTrainingSet
	}

	pipeline := NewPipeline(results[best].Config)
	if err := pipeline.Fit(docs, labels); err != nil {
		return nil, fmt.Errorf("refit best config: %w", err)
	}

	return &SearchResult{Best: results[best], All: results, Pipeline: pipeline}, nil
}

// crossValidate scores one grid point as the mean ROC-AUC over the
// folds. Folds whose held-out slice is single-class score NaN and are
// excluded from the mean.
func crossValidate(docs []string, labels []int, cfg PipelineConfig, foldIdx [][]int) GridResult {
	res := GridResult{Config: cfg}

	var sum float64
	var valid int
	for f := range foldIdx {
		trainDocs, trainLabels, testDocs, testLabels := splitFold(docs, labels, foldIdx, f)

		score := math.NaN()
		if !singleClass(trainLabels) {
			p := NewPipeline(cfg)
			if err := p.Fit(trainDocs, trainLabels); err == nil {
				score = p.Score(testDocs, testLabels)
			}
		}
		res.FoldScores = append(res.FoldScores, score)
		if !math.IsNaN(score) {
			sum += score
			valid++
		}
	}

	if valid == 0 {
		res.MeanScore = math.NaN()
	} else {
		res.MeanScore = sum / float64(valid)
	}
	return res
}

// #endregion grid-search

// #region folds

// makeFolds shuffles row indices with a seeded generator and slices
// them into k nearly equal folds.
func makeFolds(n, k int, seed int64) [][]int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(n, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

	folds := make([][]int, k)
	for i, v := range idx {
		folds[i%k] = append(folds[i%k], v)
	}
	return folds
}

// splitFold assembles train/test slices with fold f held out.
func splitFold(docs []string, labels []int, folds [][]int, f int) ([]string, []int, []string, []int) {
	var trainDocs, testDocs []string
	var trainLabels, testLabels []int
	for i, fold := range folds {
		for _, j := range fold {
			if i == f {
				testDocs = append(testDocs, docs[j])
				testLabels = append(testLabels, labels[j])
			} else {
				trainDocs = append(trainDocs, docs[j])
				trainLabels = append(trainLabels, labels[j])
			}
		}
	}
	return trainDocs, trainLabels, testDocs, testLabels
}

func singleClass(labels []int) bool {
	if len(labels) == 0 {
		return true
	}
	first := labels[0]
	for _, y := range labels {
		if y != first {
			return false
		}
	}
	return true
}

// #endregion folds
