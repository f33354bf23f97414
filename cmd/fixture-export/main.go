package main

// #region imports
import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/mgreene-ml/cashtrap/go-pipeline/internal/experiment"
	"github.com/mgreene-ml/cashtrap/go-pipeline/internal/store"
)

// #endregion

// #region main

func main() {
	dbPath := flag.String("db", "", "path to the run store")
	runID := flag.String("run", "", "run to export")
	outPath := flag.String("out", "", "output fixture JSON path")
	flag.Parse()

	if *dbPath == "" || *runID == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --db path/to/runs.db --run id --out path/to/fixture.json")
		os.Exit(2)
	}

	if err := run(*dbPath, *runID, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region export

// run converts one stored run into a replay fixture: the run's
// parameters plus its report rows as expected results.
func run(dbPath, runID, outPath string) error {
	s, err := store.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer s.Close()

	rec, err := s.GetRun(runID)
	if err != nil {
		return err
	}
	rows, err := s.ReportRows(runID)
	if err != nil {
		return err
	}

	f := experiment.Fixture{
		Description: fmt.Sprintf("exported from run %s", rec.RunID),
		DatasetPath: rec.DatasetPath,
		Threshold:   rec.Threshold,
		Seed:        rec.Seed,
	}
	for _, r := range rows {
		inTrain := "no"
		if r.InTrainSet {
			inTrain = "yes"
		}
		f.ExpectedResults = append(f.ExpectedResults, experiment.FixtureExpectedResult{
			Category:         r.Category,
			FullTestSet:      r.FullTestSet,
			NumMisclassified: r.NumMisclassified,
			InTrainSet:       inTrain,
		})
	}
	if !math.IsNaN(rec.SmallClassRecall) {
		recall := rec.SmallClassRecall
		f.ExpectedRecall = &recall
		f.RecallTolerance = 0.1
	}

	data, err := json.MarshalIndent(&f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write fixture: %w", err)
	}

	fmt.Printf("fixture written: %s (%d expected results)\n", outPath, len(f.ExpectedResults))
	return nil
}

// #endregion export
