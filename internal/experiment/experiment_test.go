package experiment

import (
	"io"
	"math"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/mgreene-ml/cashtrap/go-pipeline/internal/config"
	"github.com/mgreene-ml/cashtrap/go-pipeline/internal/dataset"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

var triggerLemmas = []string{
	"cash trap period commence upon trigger event occur",
	"excess cash flow sweep into lockbox reserve account",
	"trigger event continue until cure condition satisfy fully",
}

var boilerplateLemmas = []string{
	"notice deliver registered mail business day address",
	"counterpart signature page execute deliver original copy",
	"governing law state new york apply construe",
}

// synthTable builds a separable labeled table: two large trigger
// categories with 10 sentences each, one small category with 2, and a
// 20-sentence nontrigger pool.
func synthTable() *dataset.Table {
	t := &dataset.Table{Categories: append([]string(nil), dataset.CategoryColumns...)}
	add := func(category, lemmas string) {
		t.Rows = append(t.Rows, &dataset.SentenceRecord{
			ID:         len(t.Rows),
			Lemmas:     lemmas,
			Indicators: map[string]int{category: 1},
			Total:      1,
		})
	}
	for i := 0; i < 10; i++ {
		add("loan_default", triggerLemmas[i%len(triggerLemmas)])
		add("dscr_fall", triggerLemmas[(i+1)%len(triggerLemmas)])
	}
	for i := 0; i < 2; i++ {
		add("sff", triggerLemmas[i%len(triggerLemmas)])
	}
	for i := 0; i < 20; i++ {
		add(dataset.Nontrigger, boilerplateLemmas[i%len(boilerplateLemmas)])
	}
	return t
}

func synthConfig() config.Experiment {
	return config.Experiment{
		DatasetPath: "synthetic",
		Threshold:   3,
		Seed:        99,
		CVFolds:     3,
	}
}

func TestRunOnTableEndToEnd(t *testing.T) {
	out, err := RunOnTable(synthTable(), synthConfig(), quietLogger(), nil)
	if err != nil {
		t.Fatalf("RunOnTable: %v", err)
	}
	if out.Degenerate {
		t.Fatalf("unexpected degenerate run: %s", out.DegenerateReason)
	}

	if len(out.Selection.Large) != 2 {
		t.Fatalf("expected 2 large categories, got %v", out.Selection.Large)
	}
	if out.Selection.Large[0] != "loan_default" || out.Selection.Large[1] != "dscr_fall" {
		t.Fatalf("large categories out of canonical order: %v", out.Selection.Large)
	}

	m := out.SamplerMetrics
	if m.TriggerDrawn != 6 || m.NontriggerDrawn != 6 {
		t.Fatalf("expected 6 trigger and 6 nontrigger rows drawn, got %+v", m)
	}
	if m.PerCategory["loan_default"] != 3 || m.PerCategory["dscr_fall"] != 3 {
		t.Fatalf("expected 3 rows per large category, got %v", m.PerCategory)
	}

	if out.Report == nil {
		t.Fatal("expected a report on a non-degenerate run")
	}
	byName := make(map[string]int)
	for i, r := range out.Report.Rows {
		byName[r.Category] = i
	}
	checks := []struct {
		category string
		total    int
		inTrain  bool
	}{
		{"loan_default", 7, true},
		{"dscr_fall", 7, true},
		{"sff", 2, false},
		{dataset.Nontrigger, 14, true},
	}
	for _, c := range checks {
		row := out.Report.Rows[byName[c.category]]
		if row.FullTestSet != c.total {
			t.Fatalf("%s: expected %d evaluation occurrences, got %d", c.category, c.total, row.FullTestSet)
		}
		if row.InTrainSet != c.inTrain {
			t.Fatalf("%s: expected in_train_set=%v", c.category, c.inTrain)
		}
	}

	if math.IsNaN(out.BestCVScore) || out.BestCVScore < 0.9 {
		t.Fatalf("expected near-perfect CV score on separable corpus, got %v", out.BestCVScore)
	}
}

func TestRunOnTableLabelDerivation(t *testing.T) {
	table := synthTable()
	if _, err := RunOnTable(table, synthConfig(), quietLogger(), nil); err != nil {
		t.Fatalf("RunOnTable: %v", err)
	}
	for _, r := range table.Rows {
		want := 1
		if r.Indicators[dataset.Nontrigger] == 1 {
			want = 0
		}
		if r.IsTrigger != want {
			t.Fatalf("row %d: istrigger=%d, want %d", r.ID, r.IsTrigger, want)
		}
	}
}

func TestRunOnTableDeterministic(t *testing.T) {
	cfg := synthConfig()
	a, err := RunOnTable(synthTable(), cfg, quietLogger(), nil)
	if err != nil {
		t.Fatalf("RunOnTable: %v", err)
	}
	b, err := RunOnTable(synthTable(), cfg, quietLogger(), nil)
	if err != nil {
		t.Fatalf("RunOnTable: %v", err)
	}

	if a.BestConfig != b.BestConfig {
		t.Fatalf("best configs differ: %+v vs %+v", a.BestConfig, b.BestConfig)
	}
	if a.BestCVScore != b.BestCVScore || a.TrainAUC != b.TrainAUC {
		t.Fatalf("training scores differ across identical runs")
	}
	if len(a.Report.Rows) != len(b.Report.Rows) {
		t.Fatalf("report sizes differ: %d vs %d", len(a.Report.Rows), len(b.Report.Rows))
	}
	for i := range a.Report.Rows {
		ra, rb := a.Report.Rows[i], b.Report.Rows[i]
		if ra.Category != rb.Category || ra.FullTestSet != rb.FullTestSet || ra.NumMisclassified != rb.NumMisclassified {
			t.Fatalf("report row %d differs: %+v vs %+v", i, ra, rb)
		}
	}
}

func TestRunOnTableSeedChangesPartition(t *testing.T) {
	cfgA := synthConfig()
	cfgB := synthConfig()
	cfgB.Seed = 7

	a, err := RunOnTable(synthTable(), cfgA, quietLogger(), nil)
	if err != nil {
		t.Fatalf("RunOnTable: %v", err)
	}
	b, err := RunOnTable(synthTable(), cfgB, quietLogger(), nil)
	if err != nil {
		t.Fatalf("RunOnTable: %v", err)
	}

	// Drawn counts are seed-independent even when the partition moves.
	if a.SamplerMetrics.TriggerDrawn != b.SamplerMetrics.TriggerDrawn {
		t.Fatalf("trigger draw count changed with seed: %d vs %d",
			a.SamplerMetrics.TriggerDrawn, b.SamplerMetrics.TriggerDrawn)
	}
}

func TestRunOnTableDegenerateThreshold(t *testing.T) {
	cfg := synthConfig()
	cfg.Threshold = 1000

	out, err := RunOnTable(synthTable(), cfg, quietLogger(), nil)
	if err != nil {
		t.Fatalf("RunOnTable: %v", err)
	}
	if !out.Degenerate {
		t.Fatal("expected degenerate outcome when threshold exceeds every category count")
	}
	if out.DegenerateReason == "" {
		t.Fatal("degenerate outcome must carry a reason")
	}
	if out.Report != nil {
		t.Fatal("degenerate run must not produce a report")
	}
}
