// Package naive_bayes implements the Naive Bayes classifier family with
// per-feature Gaussian or kernel-density class-conditional estimates.
package naive_bayes

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cytobench/core/model"
	"github.com/YuminosukeSato/cytobench/pkg/errors"
)

// densityFloor keeps log densities finite for points far outside the
// training support.
const densityFloor = 1e-300

// KernelNB is a Naive Bayes classifier over continuous features. With
// UseKernel enabled each class-conditional feature density is a Gaussian
// kernel density estimate with Silverman bandwidth; otherwise a single
// Gaussian per class and feature is used. The Laplace parameter smooths
// the class priors.
type KernelNB struct {
	state *model.StateManager

	// UseKernel selects kernel density estimation over a plain Gaussian.
	UseKernel bool

	// Laplace is the additive smoothing applied to class priors.
	Laplace float64

	classes   []int
	logPriors []float64

	// Gaussian parameters, indexed [class][feature].
	means [][]float64
	stds  [][]float64

	// Kernel parameters: training values and bandwidth per class/feature.
	samples    [][][]float64
	bandwidths [][]float64
}

// KernelNBOption is a functional option for KernelNB.
type KernelNBOption func(*KernelNB)

// WithKernel toggles kernel density estimation.
func WithKernel(use bool) KernelNBOption {
	return func(m *KernelNB) {
		m.UseKernel = use
	}
}

// WithLaplace sets the prior smoothing parameter.
func WithLaplace(l float64) KernelNBOption {
	return func(m *KernelNB) {
		m.Laplace = l
	}
}

// NewKernelNB creates a new KernelNB. Kernel density estimation is on by
// default, Laplace smoothing is 0.
func NewKernelNB(opts ...KernelNBOption) *KernelNB {
	m := &KernelNB{
		state:     model.NewStateManager(),
		UseKernel: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Fit estimates priors and class-conditional densities.
func (m *KernelNB) Fit(X mat.Matrix, y []int) error {
	nSamples, nFeatures := X.Dims()
	if nSamples == 0 {
		return errors.NewModelError("KernelNB.Fit", "empty data", errors.ErrEmptyData)
	}
	if len(y) != nSamples {
		return errors.NewDimensionError("KernelNB.Fit", nSamples, len(y), 0)
	}
	if m.Laplace < 0 {
		return errors.NewValidationError("laplace", "must be non-negative", m.Laplace)
	}

	m.classes = uniqueSorted(y)
	nClasses := len(m.classes)
	if nClasses < 2 {
		return errors.NewValueError("KernelNB.Fit", "at least two classes required")
	}

	classIndex := make(map[int]int, nClasses)
	for c, label := range m.classes {
		classIndex[label] = c
	}

	counts := make([]float64, nClasses)
	rowsPerClass := make([][]int, nClasses)
	for i, label := range y {
		c := classIndex[label]
		counts[c]++
		rowsPerClass[c] = append(rowsPerClass[c], i)
	}

	// Smoothed priors.
	m.logPriors = make([]float64, nClasses)
	denom := float64(nSamples) + m.Laplace*float64(nClasses)
	for c := range m.logPriors {
		m.logPriors[c] = math.Log((counts[c] + m.Laplace) / denom)
	}

	m.means = make([][]float64, nClasses)
	m.stds = make([][]float64, nClasses)
	m.samples = make([][][]float64, nClasses)
	m.bandwidths = make([][]float64, nClasses)

	for c := range m.classes {
		rows := rowsPerClass[c]
		m.means[c] = make([]float64, nFeatures)
		m.stds[c] = make([]float64, nFeatures)
		m.samples[c] = make([][]float64, nFeatures)
		m.bandwidths[c] = make([]float64, nFeatures)

		for j := 0; j < nFeatures; j++ {
			values := make([]float64, len(rows))
			sum := 0.0
			for i, row := range rows {
				v := X.At(row, j)
				values[i] = v
				sum += v
			}
			mean := sum / float64(len(rows))

			sumSq := 0.0
			for _, v := range values {
				d := v - mean
				sumSq += d * d
			}
			std := math.Sqrt(sumSq / float64(len(rows)))
			if std < 1e-9 {
				std = 1e-9
			}

			m.means[c][j] = mean
			m.stds[c][j] = std

			if m.UseKernel {
				m.samples[c][j] = values
				// Silverman's rule of thumb.
				h := 1.06 * std * math.Pow(float64(len(values)), -0.2)
				if h < 1e-9 {
					h = 1e-9
				}
				m.bandwidths[c][j] = h
			}
		}
	}

	m.state.SetDimensions(nFeatures, nSamples)
	m.state.SetFitted()
	return nil
}

// Predict returns the maximum-posterior label per row.
func (m *KernelNB) Predict(X mat.Matrix) ([]int, error) {
	proba, err := m.PredictProba(X)
	if err != nil {
		return nil, err
	}
	rows, _ := proba.Dims()
	out := make([]int, rows)
	for i := 0; i < rows; i++ {
		best, bestP := 0, math.Inf(-1)
		for c := range m.classes {
			if p := proba.At(i, c); p > bestP {
				best, bestP = c, p
			}
		}
		out[i] = m.classes[best]
	}
	return out, nil
}

// PredictProba returns normalized class posteriors per row.
func (m *KernelNB) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !m.state.IsFitted() {
		return nil, errors.NewNotFittedError("KernelNB", "PredictProba")
	}
	rows, cols := X.Dims()
	nFeatures, _ := m.state.GetDimensions()
	if cols != nFeatures {
		return nil, errors.NewDimensionError("KernelNB.PredictProba", nFeatures, cols, 1)
	}

	nClasses := len(m.classes)
	proba := mat.NewDense(rows, nClasses, nil)
	logPost := make([]float64, nClasses)

	for i := 0; i < rows; i++ {
		for c := 0; c < nClasses; c++ {
			lp := m.logPriors[c]
			for j := 0; j < cols; j++ {
				lp += math.Log(math.Max(m.density(c, j, X.At(i, j)), densityFloor))
			}
			logPost[c] = lp
		}

		// Log-sum-exp normalization.
		maxLP := logPost[0]
		for _, lp := range logPost[1:] {
			if lp > maxLP {
				maxLP = lp
			}
		}
		sum := 0.0
		for c := range logPost {
			logPost[c] = math.Exp(logPost[c] - maxLP)
			sum += logPost[c]
		}
		for c := range logPost {
			proba.Set(i, c, logPost[c]/sum)
		}
	}
	return proba, nil
}

// Classes returns the labels seen during fitting, sorted.
func (m *KernelNB) Classes() []int {
	out := make([]int, len(m.classes))
	copy(out, m.classes)
	return out
}

// CloneUnfitted returns an unfitted copy with the same hyperparameters.
func (m *KernelNB) CloneUnfitted() model.Classifier {
	return NewKernelNB(WithKernel(m.UseKernel), WithLaplace(m.Laplace))
}

// GetParams returns the model hyperparameters.
func (m *KernelNB) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"usekernel": m.UseKernel,
		"laplace":   m.Laplace,
	}
}

// density evaluates the class-conditional density of feature j at v.
func (m *KernelNB) density(c, j int, v float64) float64 {
	if m.UseKernel {
		values := m.samples[c][j]
		h := m.bandwidths[c][j]
		sum := 0.0
		for _, x := range values {
			z := (v - x) / h
			sum += math.Exp(-0.5 * z * z)
		}
		return sum / (float64(len(values)) * h * math.Sqrt(2*math.Pi))
	}

	mean, std := m.means[c][j], m.stds[c][j]
	z := (v - mean) / std
	return math.Exp(-0.5*z*z) / (std * math.Sqrt(2*math.Pi))
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
