package config

// #region imports
import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// #endregion

// #region experiment

// Experiment is one pipeline run configuration: dataset, threshold,
// seed, cross-validation folds, and the optional run store.
type Experiment struct {
	DatasetPath string `yaml:"dataset_path"`
	Threshold   int    `yaml:"threshold"`
	Seed        int64  `yaml:"seed"`
	CVFolds     int    `yaml:"cv_folds"`
	DBPath      string `yaml:"db_path"`
	Quiet       bool   `yaml:"quiet"`
}

// DefaultExperiment returns the reference run parameters.
func DefaultExperiment() Experiment {
	return Experiment{
		Threshold: 10,
		Seed:      99,
		CVFolds:   3,
	}
}

// #endregion experiment

// #region load

// Load reads an experiment configuration from a YAML file, applying
// defaults for unset fields and environment overrides on top.
func Load(path string) (Experiment, error) {
	cfg := DefaultExperiment()

	data, err := os.ReadFile(path)
	if err != nil {
		return Experiment{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Experiment{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	envOverride(&cfg.DatasetPath, "CASHTRAP_DATASET")
	envOverride(&cfg.DBPath, "CASHTRAP_DB")
	if err := envOverrideInt(&cfg.Threshold, "CASHTRAP_THRESHOLD"); err != nil {
		return Experiment{}, err
	}

	if cfg.CVFolds == 0 {
		cfg.CVFolds = 3
	}
	if err := cfg.Validate(); err != nil {
		return Experiment{}, err
	}
	return cfg, nil
}

// Validate checks the configuration invariants.
func (c Experiment) Validate() error {
	if c.DatasetPath == "" {
		return fmt.Errorf("dataset_path is required")
	}
	if c.Threshold < 0 {
		return fmt.Errorf("threshold must be >= 0, got %d", c.Threshold)
	}
	if c.CVFolds < 2 {
		return fmt.Errorf("cv_folds must be >= 2, got %d", c.CVFolds)
	}
	return nil
}

// #endregion load

// #region env-helpers

func envOverride(field *string, key string) {
	if val := os.Getenv(key); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, key string) error {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, val, err)
	}
	*field = parsed
	return nil
}

// #endregion env-helpers
