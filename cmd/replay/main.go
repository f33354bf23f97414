package main

// #region imports
import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/mgreene-ml/cashtrap/go-pipeline/internal/experiment"
)

// #endregion

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to fixture JSON")
	csvPath := flag.String("csv", "", "dataset CSV override")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json [--csv dataset.csv]")
		os.Exit(2)
	}

	os.Exit(run(*fixturePath, *csvPath))
}

// #endregion main

// #region run

func run(fixturePath, csvPath string) int {
	f, err := experiment.LoadFixture(fixturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}

	cfg := f.ToExperiment(csvPath)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "fixture config: %v\n", err)
		return 2
	}

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	out, err := experiment.Run(cfg, logger, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "run: %v\n", err)
		return 2
	}
	if out.Degenerate {
		fmt.Fprintf(os.Stderr, "degenerate run: %s\n", out.DegenerateReason)
		return 1
	}

	rows, ok := experiment.Compare(out, f)
	printComparison(rows)
	if !ok {
		return 1
	}
	return 0
}

// #endregion run

// #region output

// printComparison outputs an expected-vs-replayed table.
func printComparison(rows []experiment.ComparisonRow) {
	fmt.Printf("%-26s| %-20s| %-12s| %-12s| %s\n", "Category", "Field", "Expected", "Replayed", "Match")
	fmt.Printf("%-26s+%-21s+%-13s+%-13s+%s\n",
		"--------------------------", "---------------------", "-------------", "-------------", "------")

	matches := 0
	for _, r := range rows {
		match := "DIFF"
		if r.Match {
			match = "OK"
			matches++
		}
		fmt.Printf("%-26s| %-20s| %-12s| %-12s| %s\n", r.Category, r.Field, r.Expected, r.Got, match)
	}

	fmt.Printf("\nSummary: %d checks, %d match, %d diverge\n", len(rows), matches, len(rows)-matches)
}

// #endregion output
