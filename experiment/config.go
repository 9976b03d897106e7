// Package experiment wires the full benchmark together: load and clean
// the cytology table, hold out a stratified test partition, tune each
// enabled model family by repeated cross-validation, and evaluate the
// winners on both partitions.
package experiment

import (
	"github.com/YuminosukeSato/cytobench/modelselection"
	"github.com/YuminosukeSato/cytobench/pkg/errors"
)

// Default experiment parameters.
const (
	DefaultTrainFraction = 0.80
	DefaultSeed          = 42
	DefaultFolds         = 5
	DefaultRepeats       = 10
	DefaultMetric        = "roc_auc"
)

// DefaultModels is the model set trained when none is given. The naive
// Bayes family is implemented but off by default.
var DefaultModels = []string{"knn", "svm"}

// Config holds every knob of one benchmark run. The zero value is not
// usable; start from NewConfig.
type Config struct {
	DataPath      string
	OutDir        string // empty disables file artifacts
	TrainFraction float64
	Seed          uint64
	Folds         int
	Repeats       int
	Metric        string
	EnabledModels []string
	Workers       int // 0 means one worker per CPU
}

// NewConfig returns a config with the standard benchmark parameters for
// the given input table.
func NewConfig(dataPath string) Config {
	return Config{
		DataPath:      dataPath,
		TrainFraction: DefaultTrainFraction,
		Seed:          DefaultSeed,
		Folds:         DefaultFolds,
		Repeats:       DefaultRepeats,
		Metric:        DefaultMetric,
		EnabledModels: append([]string(nil), DefaultModels...),
	}
}

// Validate rejects configs the pipeline cannot run.
func (c *Config) Validate() error {
	if c.DataPath == "" {
		return errors.NewValidationError("data", "input table path is required", c.DataPath)
	}
	if c.TrainFraction <= 0 || c.TrainFraction >= 1 {
		return errors.NewValidationError("train-fraction", "must be in (0, 1)", c.TrainFraction)
	}
	if c.Folds < 2 {
		return errors.NewValidationError("folds", "must be at least 2", c.Folds)
	}
	if c.Repeats < 1 {
		return errors.NewValidationError("repeats", "must be at least 1", c.Repeats)
	}
	if c.Metric != DefaultMetric {
		return errors.NewValidationError("metric", "only roc_auc selection is supported", c.Metric)
	}
	if len(c.EnabledModels) == 0 {
		return errors.NewValidationError("models", "at least one model family is required", c.EnabledModels)
	}
	seen := map[string]bool{}
	for _, name := range c.EnabledModels {
		if _, err := modelselection.SpecByName(name); err != nil {
			return err
		}
		if seen[name] {
			return errors.NewValidationError("models", "duplicate model family", name)
		}
		seen[name] = true
	}
	return nil
}
