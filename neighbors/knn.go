// Package neighbors implements the k-nearest-neighbor classifier family.
package neighbors

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cytobench/core/model"
	"github.com/YuminosukeSato/cytobench/core/parallel"
	"github.com/YuminosukeSato/cytobench/pkg/errors"
)

// parallelThreshold is the row count below which prediction stays
// sequential; the goroutine overhead dominates for tiny batches.
const parallelThreshold = 64

// KNN is a brute-force k-nearest-neighbor classifier with majority vote.
// Class probabilities are the vote fractions among the k neighbors.
type KNN struct {
	state *model.StateManager

	// K is the number of neighbors consulted per query row.
	K int

	trainX  *mat.Dense
	trainY  []int
	classes []int
}

// KNNOption is a functional option for KNN.
type KNNOption func(*KNN)

// WithK sets the number of neighbors.
func WithK(k int) KNNOption {
	return func(m *KNN) {
		m.K = k
	}
}

// NewKNN creates a new KNN classifier. The default K is 5.
func NewKNN(opts ...KNNOption) *KNN {
	m := &KNN{
		state: model.NewStateManager(),
		K:     5,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Fit memorizes the training rows and labels.
func (m *KNN) Fit(X mat.Matrix, y []int) error {
	nSamples, nFeatures := X.Dims()
	if nSamples == 0 {
		return errors.NewModelError("KNN.Fit", "empty data", errors.ErrEmptyData)
	}
	if len(y) != nSamples {
		return errors.NewDimensionError("KNN.Fit", nSamples, len(y), 0)
	}
	if m.K < 1 {
		return errors.NewValidationError("k", "must be at least 1", m.K)
	}
	if m.K > nSamples {
		return errors.NewValidationError("k", "must not exceed the number of training samples", m.K)
	}

	m.trainX = mat.DenseCopyOf(X)
	m.trainY = make([]int, nSamples)
	copy(m.trainY, y)
	m.classes = uniqueSorted(y)

	m.state.SetDimensions(nFeatures, nSamples)
	m.state.SetFitted()
	return nil
}

// Predict returns the majority-vote label per row. Vote ties resolve to
// the smaller class label.
func (m *KNN) Predict(X mat.Matrix) ([]int, error) {
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

// PredictProba returns the neighbor vote fraction per class. Each query
// row is independent, so rows are scored in parallel.
func (m *KNN) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !m.state.IsFitted() {
		return nil, errors.NewNotFittedError("KNN", "PredictProba")
	}

	rows, cols := X.Dims()
	nFeatures, _ := m.state.GetDimensions()
	if cols != nFeatures {
		return nil, errors.NewDimensionError("KNN.PredictProba", nFeatures, cols, 1)
	}

	proba := mat.NewDense(rows, len(m.classes), nil)
	parallel.ParallelizeWithThreshold(rows, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			m.scoreRow(X, i, proba)
		}
	})
	return proba, nil
}

// Classes returns the labels seen during fitting, sorted.
func (m *KNN) Classes() []int {
	out := make([]int, len(m.classes))
	copy(out, m.classes)
	return out
}

// CloneUnfitted returns an unfitted copy with the same hyperparameters.
func (m *KNN) CloneUnfitted() model.Classifier {
	return NewKNN(WithK(m.K))
}

// GetParams returns the model hyperparameters.
func (m *KNN) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"k": m.K,
	}
}

type scoredNeighbor struct {
	dist  float64
	index int
}

// scoreRow writes the vote fractions for query row i into proba.
// Distance ties resolve by training-row index so the result does not
// depend on sort internals.
func (m *KNN) scoreRow(X mat.Matrix, i int, proba *mat.Dense) {
	trainRows, nFeatures := m.trainX.Dims()

	scored := make([]scoredNeighbor, trainRows)
	for t := 0; t < trainRows; t++ {
		sum := 0.0
		for j := 0; j < nFeatures; j++ {
			d := X.At(i, j) - m.trainX.At(t, j)
			sum += d * d
		}
		scored[t] = scoredNeighbor{dist: sum, index: t}
	}

	sort.Slice(scored, func(a, b int) bool {
		if scored[a].dist != scored[b].dist {
			return scored[a].dist < scored[b].dist
		}
		return scored[a].index < scored[b].index
	})

	votes := make(map[int]int, len(m.classes))
	for _, nb := range scored[:m.K] {
		votes[m.trainY[nb.index]]++
	}
	for c, class := range m.classes {
		proba.Set(i, c, float64(votes[class])/float64(m.K))
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
