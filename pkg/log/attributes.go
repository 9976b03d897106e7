// Package log defines standard attribute keys for the benchmark pipeline.
//
// Using these keys consistently makes the cross-validation logs filterable:
// every fold-level event carries the same model/repeat/fold coordinates, so
// a single grid point's history can be reconstructed from the log stream.
package log

// Model and Operation Context
const (
	// ModelNameKey identifies the classifier family.
	// Examples: "KNN", "LinearSVC", "KernelNB"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "transform", "search", "evaluate"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "dataset", "preprocessing", "modelselection", "metrics"
	ComponentKey = "ml.component"

	// PhaseKey indicates the pipeline phase.
	// Examples: "load", "split", "search", "refit", "evaluation"
	PhaseKey = "ml.phase"
)

// Cross-Validation Coordinates
const (
	// RepeatKey is the zero-based repeat index of a resampling evaluation.
	RepeatKey = "cv.repeat"

	// FoldKey is the zero-based fold index within a repeat.
	FoldKey = "cv.fold"

	// GridPointKey is the string form of the hyperparameter tuple under
	// evaluation, e.g. "k=7" or "cost=2.8".
	GridPointKey = "cv.grid_point"

	// SeedKey is the random seed in effect for a randomized step.
	SeedKey = "cv.seed"
)

// Data Shape
const (
	// SamplesKey indicates the number of samples (rows) being processed.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns).
	FeaturesKey = "data.features"

	// SplitKey tags a row set with its origin: "training" or "test".
	SplitKey = "data.split"
)

// Metrics
const (
	// MetricNameKey names the selection or evaluation metric, e.g. "ROC".
	MetricNameKey = "metric.name"

	// MetricValueKey carries the metric value as a float.
	MetricValueKey = "metric.value"

	// DurationMsKey carries elapsed wall time in milliseconds.
	DurationMsKey = "duration.ms"
)
