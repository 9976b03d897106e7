// Package svm implements the linear support vector classifier family.
package svm

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cytobench/core/model"
	"github.com/YuminosukeSato/cytobench/pkg/errors"
)

// sigmoidClamp bounds the calibration exponent so math.Exp never
// overflows to Inf for rows far from the hyperplane.
const sigmoidClamp = 500.0

// LinearSVC is a binary linear SVM trained by full-batch subgradient
// descent on the L2-regularized hinge loss. The cost parameter C follows
// the usual convention: larger C means weaker regularization.
//
// Decision values are mapped to class probabilities with a sigmoid
// calibrated on the training scores (Platt scaling), so the model can
// participate in AUC-based selection alongside the probabilistic families.
type LinearSVC struct {
	state *model.StateManager

	// Hyperparameters
	C       float64 // Cost parameter (inverse regularization strength)
	maxIter int
	tol     float64

	// Model parameters
	coef      []float64
	intercept float64
	classes   []int
	nIter     int

	// Platt calibration parameters: P(y=1|f) = 1 / (1 + exp(a*f + b))
	plattA float64
	plattB float64
}

// LinearSVCOption is a functional option for LinearSVC.
type LinearSVCOption func(*LinearSVC)

// WithCost sets the cost parameter C.
func WithCost(c float64) LinearSVCOption {
	return func(m *LinearSVC) {
		m.C = c
	}
}

// WithSVCMaxIter sets the maximum number of subgradient epochs.
func WithSVCMaxIter(maxIter int) LinearSVCOption {
	return func(m *LinearSVC) {
		m.maxIter = maxIter
	}
}

// WithSVCTol sets the gradient-norm stopping tolerance.
func WithSVCTol(tol float64) LinearSVCOption {
	return func(m *LinearSVC) {
		m.tol = tol
	}
}

// NewLinearSVC creates a new LinearSVC with C=1.
func NewLinearSVC(opts ...LinearSVCOption) *LinearSVC {
	m := &LinearSVC{
		state:   model.NewStateManager(),
		C:       1.0,
		maxIter: 1000,
		tol:     1e-4,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Fit trains the classifier. y must contain exactly two distinct labels.
func (m *LinearSVC) Fit(X mat.Matrix, y []int) error {
	nSamples, nFeatures := X.Dims()
	if nSamples == 0 {
		return errors.NewModelError("LinearSVC.Fit", "empty data", errors.ErrEmptyData)
	}
	if len(y) != nSamples {
		return errors.NewDimensionError("LinearSVC.Fit", nSamples, len(y), 0)
	}
	if m.C <= 0 {
		return errors.NewValidationError("cost", "must be positive", m.C)
	}

	m.classes = uniqueSorted(y)
	if len(m.classes) != 2 {
		return errors.NewValueError("LinearSVC.Fit", "exactly two classes required")
	}

	// Signed targets: classes[0] -> -1, classes[1] -> +1.
	sign := make([]float64, nSamples)
	for i, label := range y {
		if label == m.classes[1] {
			sign[i] = 1
		} else {
			sign[i] = -1
		}
	}

	m.coef = make([]float64, nFeatures)
	m.intercept = 0
	lambda := 1.0 / (m.C * float64(nSamples))

	converged := false
	for iter := 0; iter < m.maxIter; iter++ {
		gradW := make([]float64, nFeatures)
		gradB := 0.0

		// Regularization term.
		for j := range gradW {
			gradW[j] = lambda * float64(nSamples) * m.coef[j]
		}

		// Hinge subgradient over margin violators.
		for i := 0; i < nSamples; i++ {
			f := m.intercept
			for j := 0; j < nFeatures; j++ {
				f += X.At(i, j) * m.coef[j]
			}
			if sign[i]*f < 1 {
				for j := 0; j < nFeatures; j++ {
					gradW[j] -= sign[i] * X.At(i, j)
				}
				gradB -= sign[i]
			}
		}

		for j := range gradW {
			gradW[j] /= float64(nSamples)
		}
		gradB /= float64(nSamples)

		learningRate := 1.0 / (1.0 + 0.1*float64(iter))
		for j := range m.coef {
			m.coef[j] -= learningRate * gradW[j]
		}
		m.intercept -= learningRate * gradB

		m.nIter = iter + 1

		if err := errors.CheckNumericalStability("LinearSVC.Fit", m.coef, iter); err != nil {
			return err
		}
		if err := errors.CheckScalar("LinearSVC.Fit", m.intercept, iter); err != nil {
			return err
		}

		maxGrad := math.Abs(gradB)
		for _, g := range gradW {
			if math.Abs(g) > maxGrad {
				maxGrad = math.Abs(g)
			}
		}
		if maxGrad < m.tol {
			converged = true
			break
		}
	}

	if !converged {
		errors.Warn(errors.NewConvergenceWarning("LinearSVC", m.maxIter, ""))
	}

	m.fitPlatt(X, sign)

	m.state.SetDimensions(nFeatures, nSamples)
	m.state.SetFitted()
	return nil
}

// DecisionFunction returns the signed distance to the separating
// hyperplane per row. Positive values favor Classes()[1].
func (m *LinearSVC) DecisionFunction(X mat.Matrix) ([]float64, error) {
	if !m.state.IsFitted() {
		return nil, errors.NewNotFittedError("LinearSVC", "DecisionFunction")
	}
	rows, cols := X.Dims()
	nFeatures, _ := m.state.GetDimensions()
	if cols != nFeatures {
		return nil, errors.NewDimensionError("LinearSVC.DecisionFunction", nFeatures, cols, 1)
	}

	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		f := m.intercept
		for j := 0; j < cols; j++ {
			f += X.At(i, j) * m.coef[j]
		}
		out[i] = f
	}
	return out, nil
}

// Predict returns the class on each side of the hyperplane.
func (m *LinearSVC) Predict(X mat.Matrix) ([]int, error) {
	decision, err := m.DecisionFunction(X)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(decision))
	for i, f := range decision {
		if f >= 0 {
			out[i] = m.classes[1]
		} else {
			out[i] = m.classes[0]
		}
	}
	return out, nil
}

// PredictProba returns Platt-calibrated class probabilities.
func (m *LinearSVC) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	decision, err := m.DecisionFunction(X)
	if err != nil {
		return nil, err
	}

	proba := mat.NewDense(len(decision), 2, nil)
	for i, f := range decision {
		z := errors.ClipValue(m.plattA*f+m.plattB, -sigmoidClamp, sigmoidClamp)
		p1 := 1.0 / (1.0 + math.Exp(z))
		proba.Set(i, 0, 1-p1)
		proba.Set(i, 1, p1)
	}
	return proba, nil
}

// Classes returns the two labels, sorted.
func (m *LinearSVC) Classes() []int {
	out := make([]int, len(m.classes))
	copy(out, m.classes)
	return out
}

// CloneUnfitted returns an unfitted copy with the same hyperparameters.
func (m *LinearSVC) CloneUnfitted() model.Classifier {
	return NewLinearSVC(WithCost(m.C), WithSVCMaxIter(m.maxIter), WithSVCTol(m.tol))
}

// FeatureWeights returns the learned weight per feature.
func (m *LinearSVC) FeatureWeights() []float64 {
	out := make([]float64, len(m.coef))
	copy(out, m.coef)
	return out
}

// Intercept returns the learned bias term.
func (m *LinearSVC) Intercept() float64 {
	return m.intercept
}

// NIter returns the number of epochs actually run.
func (m *LinearSVC) NIter() int {
	return m.nIter
}

// GetParams returns the model hyperparameters.
func (m *LinearSVC) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"cost":     m.C,
		"max_iter": m.maxIter,
		"tol":      m.tol,
	}
}

// fitPlatt calibrates the probability sigmoid on the training decision
// values by gradient descent on the log loss. sign holds -1/+1 targets.
func (m *LinearSVC) fitPlatt(X mat.Matrix, sign []float64) {
	nSamples, nFeatures := X.Dims()

	scores := make([]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		f := m.intercept
		for j := 0; j < nFeatures; j++ {
			f += X.At(i, j) * m.coef[j]
		}
		scores[i] = f
	}

	// Platt's target smoothing avoids saturated probabilities.
	nPos, nNeg := 0, 0
	for _, s := range sign {
		if s > 0 {
			nPos++
		} else {
			nNeg++
		}
	}
	hiTarget := (float64(nPos) + 1.0) / (float64(nPos) + 2.0)
	loTarget := 1.0 / (float64(nNeg) + 2.0)

	m.plattA = -1
	m.plattB = 0

	const plattIters = 200
	for iter := 0; iter < plattIters; iter++ {
		gradA, gradB := 0.0, 0.0
		for i, f := range scores {
			target := loTarget
			if sign[i] > 0 {
				target = hiTarget
			}
			z := errors.ClipValue(m.plattA*f+m.plattB, -sigmoidClamp, sigmoidClamp)
			p := 1.0 / (1.0 + math.Exp(z))
			diff := p - target
			// d p / d a = -f * p * (1-p); chain through log loss
			// reduces to (p - t) on the linear term.
			gradA += diff * -f
			gradB += diff * -1
		}
		gradA /= float64(nSamples)
		gradB /= float64(nSamples)

		learningRate := 1.0 / (1.0 + 0.05*float64(iter))
		m.plattA -= learningRate * gradA
		m.plattB -= learningRate * gradB
	}
}

func uniqueSorted(y []int) []int {
	seen := make(map[int]bool)
	var out []int
	for _, label := range y {
		if !seen[label] {
			seen[label] = true
			out = append(out, label)
		}
	}
	sort.Ints(out)
	return out
}
