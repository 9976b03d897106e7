// Package model provides the common interfaces implemented by every
// classifier family in the pipeline. The grid search trainer depends only
// on these, never on a concrete family.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Fitter is the interface for models that can be trained.
type Fitter interface {
	// Fit trains the model on features X (n_samples × n_features) and
	// integer class labels y.
	Fit(X mat.Matrix, y []int) error
}

// Predictor is the interface for models that can predict hard labels.
type Predictor interface {
	// Predict returns the most likely class label per row of X.
	Predict(X mat.Matrix) ([]int, error)
}

// Classifier is the capability every model family in the benchmark must
// provide: fit, hard labels, calibrated class probabilities, and the label
// set seen during fitting.
type Classifier interface {
	Fitter
	Predictor

	// PredictProba returns an n_samples × n_classes matrix of class
	// probabilities. Each row sums to 1 within numerical tolerance.
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes returns the unique classes seen during fitting, in sorted
	// order. Column j of PredictProba corresponds to Classes()[j].
	Classes() []int
}

// Cloner produces an unfitted copy carrying the same hyperparameters.
// The cross-validated trainer clones one prototype per fold so that fold
// fits share no mutable state.
type Cloner interface {
	CloneUnfitted() Classifier
}

// ParameterGetter is the interface for models that expose their parameters.
type ParameterGetter interface {
	// GetParams returns the model's hyperparameters.
	GetParams() map[string]interface{}
}

// WeightedModel is implemented by linear models that expose a learned
// weight per feature, from which variable importance can be ranked.
type WeightedModel interface {
	// FeatureWeights returns one learned weight per input feature.
	FeatureWeights() []float64
}
