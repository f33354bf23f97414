package experiment

// #region imports
import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/mgreene-ml/cashtrap/go-pipeline/internal/config"
)

// #endregion

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture: the
// experiment parameters plus the results the run is expected to
// reproduce.
type Fixture struct {
	Description     string                  `json:"description"`
	DatasetPath     string                  `json:"dataset_path"`
	Threshold       int                     `json:"threshold"`
	Seed            int64                   `json:"seed"`
	CVFolds         int                     `json:"cv_folds"`
	ExpectedResults []FixtureExpectedResult `json:"expected_results"`

	// ExpectedRecall checks the headline metric within RecallTolerance
	// percentage points when set.
	ExpectedRecall  *float64 `json:"expected_small_class_recall,omitempty"`
	RecallTolerance float64  `json:"recall_tolerance,omitempty"`
}

// FixtureExpectedResult captures the expected report row per category.
type FixtureExpectedResult struct {
	Category         string `json:"category"`
	FullTestSet      int    `json:"full_test_set"`
	NumMisclassified int    `json:"num_misclassified"`
	InTrainSet       string `json:"in_train_set"` // "yes" | "no"
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// ToExperiment converts the fixture parameters to a run configuration.
// datasetOverride replaces the fixture's dataset path when non-empty.
func (f *Fixture) ToExperiment(datasetOverride string) config.Experiment {
	cfg := config.DefaultExperiment()
	cfg.DatasetPath = f.DatasetPath
	if datasetOverride != "" {
		cfg.DatasetPath = datasetOverride
	}
	cfg.Threshold = f.Threshold
	cfg.Seed = f.Seed
	if f.CVFolds >= 2 {
		cfg.CVFolds = f.CVFolds
	}
	return cfg
}

// #endregion fixture-loader

// #region compare

// ComparisonRow is one expected-vs-replayed check.
type ComparisonRow struct {
	Category string
	Field    string
	Expected string
	Got      string
	Match    bool
}

// Compare checks a run outcome against the fixture's expectations and
// reports per-field matches. The second return is true when every
// check passed.
func Compare(out *Outcome, f *Fixture) ([]ComparisonRow, bool) {
	var rows []ComparisonRow
	ok := true

	add := func(category, field, expected, got string) {
		match := expected == got
		if !match {
			ok = false
		}
		rows = append(rows, ComparisonRow{Category: category, Field: field, Expected: expected, Got: got, Match: match})
	}

	byCategory := make(map[string]int)
	if out.Report != nil {
		for i, r := range out.Report.Rows {
			byCategory[r.Category] = i
		}
	}

	for _, exp := range f.ExpectedResults {
		i, found := byCategory[exp.Category]
		if !found {
			add(exp.Category, "present", "yes", "no")
			continue
		}
		got := out.Report.Rows[i]
		add(exp.Category, "full_test_set", fmt.Sprint(exp.FullTestSet), fmt.Sprint(got.FullTestSet))
		add(exp.Category, "num_misclassified", fmt.Sprint(exp.NumMisclassified), fmt.Sprint(got.NumMisclassified))
		add(exp.Category, "in_train_set", exp.InTrainSet, yesNo(got.InTrainSet))
	}

	if f.ExpectedRecall != nil {
		tol := f.RecallTolerance
		if tol == 0 {
			tol = 0.1
		}
		match := !math.IsNaN(out.SmallClassRecall) && math.Abs(out.SmallClassRecall-*f.ExpectedRecall) <= tol
		if !match {
			ok = false
		}
		rows = append(rows, ComparisonRow{
			Category: "(headline)",
			Field:    "small_class_recall",
			Expected: fmt.Sprintf("%.1f±%.1f", *f.ExpectedRecall, tol),
			Got:      fmt.Sprintf("%.1f", out.SmallClassRecall),
			Match:    match,
		})
	}

	return rows, ok
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// #endregion compare
