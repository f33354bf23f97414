package main

// #region imports
import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/mgreene-ml/cashtrap/go-pipeline/internal/store"
)

// #endregion

// #region main

func main() {
	dbPath := flag.String("db", "", "path to the run store")
	runID := flag.String("run", "", "show a single run's stored report")
	limit := flag.Int("limit", 20, "show N most recent runs")
	jsonOut := flag.Bool("json", false, "output as JSON instead of a table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/runs.db [--run id] [--limit N] [--json]")
		os.Exit(2)
	}

	s, err := store.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	if *runID != "" {
		err = runDetailMode(s, *runID, *jsonOut)
	} else {
		err = runListMode(s, *limit, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

func runListMode(s *store.Store, limit int, jsonOut bool) error {
	runs, err := s.ListRuns(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stderr, "no runs found")
		return nil
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"run", "created", "threshold", "seed", "train_auc", "eval_auc", "small_class_recall"})
	for _, r := range runs {
		t.AppendRow(table.Row{
			r.RunID, r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Threshold, r.Seed,
			fmtScore(r.TrainAUC), fmtScore(r.EvalAUC), fmtScore(r.SmallClassRecall),
		})
	}
	t.Render()
	return nil
}

// #endregion list-mode

// #region detail-mode

func runDetailMode(s *store.Store, runID string, jsonOut bool) error {
	rec, err := s.GetRun(runID)
	if err != nil {
		return err
	}
	rows, err := s.ReportRows(runID)
	if err != nil {
		return err
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Run  store.RunRecord   `json:"run"`
			Rows []store.ReportRow `json:"report_rows"`
		}{rec, rows})
	}

	fmt.Printf("run %s  dataset=%s threshold=%d seed=%d\n", rec.RunID, rec.DatasetPath, rec.Threshold, rec.Seed)
	fmt.Printf("train AUC %s  eval AUC %s  small-class recall %s\n",
		fmtScore(rec.TrainAUC), fmtScore(rec.EvalAUC), fmtScore(rec.SmallClassRecall))
	if rec.BestConfigJSON != "" {
		fmt.Printf("best config: %s\n", rec.BestConfigJSON)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"category", "full_test_set", "num_misclassified", "percent_misclassified", "in_train_set"})
	for _, r := range rows {
		pct := "n/a"
		if !math.IsNaN(r.PercentMisclassified) {
			pct = fmt.Sprintf("%.1f", r.PercentMisclassified)
		}
		inTrain := "no"
		if r.InTrainSet {
			inTrain = "yes"
		}
		t.AppendRow(table.Row{r.Category, r.FullTestSet, r.NumMisclassified, pct, inTrain})
	}
	t.Render()
	return nil
}

func fmtScore(f float64) string {
	if math.IsNaN(f) {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", f)
}

// #endregion detail-mode
