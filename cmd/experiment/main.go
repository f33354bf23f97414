package main

// #region imports
import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/sirupsen/logrus"

	"github.com/mgreene-ml/cashtrap/go-pipeline/internal/config"
	"github.com/mgreene-ml/cashtrap/go-pipeline/internal/experiment"
	"github.com/mgreene-ml/cashtrap/go-pipeline/internal/store"
)

// #endregion

// #region main

func main() {
	configPath := flag.String("config", "", "path to experiment YAML config")
	csvPath := flag.String("csv", "", "path to the labeled sentence CSV (overrides config)")
	threshold := flag.Int("threshold", 10, "occurrence-count cutoff defining a large category")
	seed := flag.Int64("seed", 99, "random seed for the balanced sampler and CV folds")
	dbPath := flag.String("db", "", "optional SQLite path to persist the run")
	quiet := flag.Bool("quiet", false, "log warnings only")
	flag.Parse()

	cfg, err := buildConfig(*configPath, *csvPath, *threshold, *seed, *dbPath, *quiet)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	logger := logrus.New()
	if cfg.Quiet {
		logger.SetLevel(logrus.WarnLevel)
	}

	pw := progress.NewWriter()
	pw.SetOutputWriter(os.Stderr)
	pw.SetUpdateFrequency(250 * time.Millisecond)
	go pw.Render()

	out, err := experiment.Run(cfg, logger, pw)
	pw.Stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if out.Degenerate {
		fmt.Printf("degenerate run: %s (threshold %d, no usable training set)\n",
			out.DegenerateReason, cfg.Threshold)
		os.Exit(0)
	}

	fmt.Printf("train AUC: %.3f  eval AUC: %.3f\n", out.TrainAUC, out.EvalAUC)
	out.Report.Render(os.Stdout)
	fmt.Println(out.Report.Headline())

	if cfg.DBPath != "" {
		if err := persist(cfg, out); err != nil {
			fmt.Fprintf(os.Stderr, "persist run: %v\n", err)
			os.Exit(1)
		}
	}
}

// #endregion main

// #region config

// buildConfig merges the optional YAML config with flag overrides.
func buildConfig(configPath, csvPath string, threshold int, seed int64, dbPath string, quiet bool) (config.Experiment, error) {
	cfg := config.DefaultExperiment()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return config.Experiment{}, err
		}
		cfg = loaded
	} else {
		cfg.Threshold = threshold
		cfg.Seed = seed
	}
	if csvPath != "" {
		cfg.DatasetPath = csvPath
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if quiet {
		cfg.Quiet = true
	}
	if err := cfg.Validate(); err != nil {
		return config.Experiment{}, err
	}
	return cfg, nil
}

// #endregion config

// #region persist

func persist(cfg config.Experiment, out *experiment.Outcome) error {
	s, err := store.NewStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer s.Close()

	bestJSON, err := json.Marshal(out.BestConfig)
	if err != nil {
		return fmt.Errorf("marshal best config: %w", err)
	}

	rec := store.RunRecord{
		RunID:            uuid.New().String(),
		DatasetPath:      cfg.DatasetPath,
		Threshold:        cfg.Threshold,
		Seed:             cfg.Seed,
		BestConfigJSON:   string(bestJSON),
		TrainAUC:         out.TrainAUC,
		EvalAUC:          out.EvalAUC,
		SmallClassRecall: out.SmallClassRecall,
	}

	rows := make([]store.ReportRow, len(out.Report.Rows))
	for i, r := range out.Report.Rows {
		rows[i] = store.ReportRow{
			Category:             r.Category,
			FullTestSet:          r.FullTestSet,
			NumMisclassified:     r.NumMisclassified,
			PercentMisclassified: r.PercentMisclassified,
			InTrainSet:           r.InTrainSet,
		}
	}

	if err := s.SaveRun(rec, rows); err != nil {
		return err
	}

	stages := map[string]string{
		"select":   fmt.Sprintf("large=%d small=%d", len(out.Selection.Large), len(out.Selection.Small)),
		"sample":   fmt.Sprintf("trigger=%d nontrigger=%d duplicates=%d", out.SamplerMetrics.TriggerDrawn, out.SamplerMetrics.NontriggerDrawn, out.SamplerMetrics.DuplicateIDs),
		"train":    fmt.Sprintf("cv_score=%.4f", out.BestCVScore),
		"evaluate": fmt.Sprintf("eval_auc=%.4f recall=%.1f", out.EvalAUC, out.SmallClassRecall),
	}
	for _, stage := range []string{"select", "sample", "train", "evaluate"} {
		if err := s.LogStage(rec.RunID, stage, stages[stage]); err != nil {
			return err
		}
	}
	fmt.Printf("run saved: %s\n", rec.RunID)
	return nil
}

// #endregion persist
