// Package preprocessing provides the leakage-safe preprocessing steps of
// the pipeline: nearest-neighbor missing-value imputation followed by
// per-feature centering and scaling. Statistics are always computed from
// the data passed to Fit and never from held-out rows.
package preprocessing

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cytobench/core/model"
	"github.com/YuminosukeSato/cytobench/pkg/errors"
)

// KNNImputer fills missing values (NaN) with the mean of the nearest
// neighbors among the rows seen during Fit. Distances are Euclidean over
// the coordinates observed in both rows, rescaled to the full feature
// count, which keeps rows with different missingness patterns comparable.
type KNNImputer struct {
	model.BaseEstimator

	// NNeighbors is the number of neighbors averaged per missing cell.
	NNeighbors int

	train     *mat.Dense
	colMeans  []float64
	nFeatures int
}

// NewKNNImputer creates an imputer averaging over n neighbors.
// n below 1 falls back to 5.
func NewKNNImputer(n int) *KNNImputer {
	if n < 1 {
		n = 5
	}
	return &KNNImputer{NNeighbors: n}
}

// Fit stores the reference rows and the per-column observed means used as
// a fallback when no neighbor has the missing column observed.
func (im *KNNImputer) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("KNNImputer.Fit", "empty data", errors.ErrEmptyData)
	}

	im.train = mat.DenseCopyOf(X)
	im.nFeatures = c

	im.colMeans = make([]float64, c)
	for j := 0; j < c; j++ {
		sum, count := 0.0, 0
		for i := 0; i < r; i++ {
			v := X.At(i, j)
			if !math.IsNaN(v) {
				sum += v
				count++
			}
		}
		if count == 0 {
			return errors.NewValueError("KNNImputer.Fit",
				"a feature column has no observed values")
		}
		im.colMeans[j] = sum / float64(count)
	}

	im.SetFitted()
	return nil
}

// Transform returns a copy of X with every NaN replaced.
func (im *KNNImputer) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !im.IsFitted() {
		return nil, errors.NewNotFittedError("KNNImputer", "Transform")
	}

	r, c := X.Dims()
	if c != im.nFeatures {
		return nil, errors.NewDimensionError("KNNImputer.Transform", im.nFeatures, c, 1)
	}

	result := mat.DenseCopyOf(X)
	for i := 0; i < r; i++ {
		row := mat.Row(nil, i, X)
		if !hasNaN(row) {
			continue
		}
		for j := 0; j < c; j++ {
			if math.IsNaN(result.At(i, j)) {
				result.Set(i, j, im.imputeCell(row, j))
			}
		}
	}
	return result, nil
}

// FitTransform fits on X and transforms the same rows.
func (im *KNNImputer) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := im.Fit(X); err != nil {
		return nil, err
	}
	return im.Transform(X)
}

type neighbor struct {
	dist  float64
	value float64
}

// imputeCell averages the target column over the NNeighbors nearest
// reference rows that have that column observed.
func (im *KNNImputer) imputeCell(row []float64, col int) float64 {
	trainRows, nFeat := im.train.Dims()

	neighbors := make([]neighbor, 0, trainRows)
	for t := 0; t < trainRows; t++ {
		candidate := im.train.At(t, col)
		if math.IsNaN(candidate) {
			continue
		}

		// Distance over mutually observed coordinates, rescaled to the
		// full feature count (nan-Euclidean convention).
		sum, observed := 0.0, 0
		for j := 0; j < nFeat; j++ {
			a, b := row[j], im.train.At(t, j)
			if math.IsNaN(a) || math.IsNaN(b) {
				continue
			}
			d := a - b
			sum += d * d
			observed++
		}
		if observed == 0 {
			continue
		}
		dist := math.Sqrt(sum * float64(nFeat) / float64(observed))
		neighbors = append(neighbors, neighbor{dist: dist, value: candidate})
	}

	if len(neighbors) == 0 {
		return im.colMeans[col]
	}

	sort.Slice(neighbors, func(a, b int) bool {
		if neighbors[a].dist != neighbors[b].dist {
			return neighbors[a].dist < neighbors[b].dist
		}
		return neighbors[a].value < neighbors[b].value
	})

	k := im.NNeighbors
	if k > len(neighbors) {
		k = len(neighbors)
	}
	sum := 0.0
	for _, nb := range neighbors[:k] {
		sum += nb.value
	}
	return sum / float64(k)
}

func hasNaN(row []float64) bool {
	for _, v := range row {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
