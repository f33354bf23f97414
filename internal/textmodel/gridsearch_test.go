package textmodel

import (
	"errors"
	"math"
	"testing"
)

// toyCorpus builds a separable text problem: trigger sentences mention
// sweep/trap vocabulary, nontrigger sentences do not.
func toyCorpus(n int) ([]string, []int) {
	trigger := []string{
		"cash trap period commence upon trigger event",
		"excess cash flow sweep into reserve account",
		"trigger event continue until cure condition satisfy",
	}
	nontrigger := []string{
		"notice deliver registered mail business day",
		"counterpart signature page execute original copy",
		"governing law state new york apply",
	}
	var docs []string
	var labels []int
	for i := 0; i < n; i++ {
		docs = append(docs, trigger[i%len(trigger)])
		labels = append(labels, 1)
		docs = append(docs, nontrigger[i%len(nontrigger)])
		labels = append(labels, 0)
	}
	return docs, labels
}

// smallGrid keeps test runtime down while exercising every grid axis.
func smallGrid() Grid {
	return Grid{
		NGramMax:    []int{1, 2},
		StopWords:   []string{StopCurated, StopStandard},
		MaxFeatures: []int{50, 200},
		MinDF:       1,
		MaxDFRatio:  0.99,
	}
}

func TestGridCombinationsOrderAndSize(t *testing.T) {
	combos := DefaultGrid().Combinations()
	if len(combos) != 4*2*5 {
		t.Fatalf("expected 40 combinations, got %d", len(combos))
	}
	if combos[0].Vectorizer.NGramMax != 2 || combos[0].Vectorizer.StopWords != StopCurated {
		t.Fatalf("unexpected first combination: %+v", combos[0].Vectorizer)
	}
	if combos[0].Vectorizer.MinDF != 2 || combos[0].Vectorizer.MaxDFRatio != 0.99 {
		t.Fatalf("fixed df settings not applied: %+v", combos[0].Vectorizer)
	}
}

func TestGridSearchFindsSeparatingModel(t *testing.T) {
	docs, labels := toyCorpus(12)

	res, err := GridSearch(docs, labels, smallGrid(), 3, 99, nil)
	if err != nil {
		t.Fatalf("GridSearch: %v", err)
	}
	if res.Best.MeanScore < 0.95 {
		t.Fatalf("expected near-perfect CV score on separable corpus, got %v", res.Best.MeanScore)
	}
	if score := res.Pipeline.Score(docs, labels); score < 0.99 {
		t.Fatalf("expected refit pipeline to separate the corpus, got AUC %v", score)
	}
	if len(res.All) != len(smallGrid().Combinations()) {
		t.Fatalf("expected a result per combination, got %d", len(res.All))
	}
}

func TestGridSearchDeterministicAcrossRuns(t *testing.T) {
	docs, labels := toyCorpus(8)

	a, err := GridSearch(docs, labels, smallGrid(), 3, 42, nil)
	if err != nil {
		t.Fatalf("GridSearch: %v", err)
	}
	b, err := GridSearch(docs, labels, smallGrid(), 3, 42, nil)
	if err != nil {
		t.Fatalf("GridSearch: %v", err)
	}

	if a.Best.Config != b.Best.Config {
		t.Fatalf("best configs differ: %+v vs %+v", a.Best.Config, b.Best.Config)
	}
	if a.Best.MeanScore != b.Best.MeanScore {
		t.Fatalf("best scores differ: %v vs %v", a.Best.MeanScore, b.Best.MeanScore)
	}
	for i := range a.All {
		if !scoresEqual(a.All[i].MeanScore, b.All[i].MeanScore) {
			t.Fatalf("combination %d scores differ: %v vs %v", i, a.All[i].MeanScore, b.All[i].MeanScore)
		}
	}
}

func TestGridSearchEmptyTrainingSet(t *testing.T) {
	_, err := GridSearch(nil, nil, smallGrid(), 3, 1, nil)
	if !errors.Is(err, ErrEmptyTrainingSet) {
		t.Fatalf("expected ErrEmptyTrainingSet, got %v", err)
	}
}

func TestGridSearchSingleClass(t *testing.T) {
	docs := []string{"alpha", "beta", "gamma"}
	_, err := GridSearch(docs, []int{1, 1, 1}, smallGrid(), 3, 1, nil)
	if !errors.Is(err, ErrEmptyTrainingSet) {
		t.Fatalf("expected ErrEmptyTrainingSet, got %v", err)
	}
}

func TestMakeFoldsPartition(t *testing.T) {
	folds := makeFolds(10, 3, 7)
	if len(folds) != 3 {
		t.Fatalf("expected 3 folds, got %d", len(folds))
	}
	seen := make(map[int]bool)
	total := 0
	for _, fold := range folds {
		total += len(fold)
		for _, i := range fold {
			if seen[i] {
				t.Fatalf("index %d appears in two folds", i)
			}
			seen[i] = true
		}
	}
	if total != 10 {
		t.Fatalf("expected 10 indices across folds, got %d", total)
	}
}

func scoresEqual(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b
}
