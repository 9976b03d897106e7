// Package dataset loads and partitions the cytology specimen table used by
// the benchmark: one row per specimen, nine ordinal measurements scored
// 1-10, and a two-level class label (benign / malignant).
package dataset

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cytobench/pkg/errors"
)

// Label values. Probability column 1 of every classifier is the
// probability of the positive (malignant) class.
const (
	Benign    = 0
	Malignant = 1
)

// FeatureNames are the human-readable names assigned by Normalize, in
// column order.
var FeatureNames = []string{
	"ClumpThickness",
	"UniformityCellSize",
	"UniformityCellShape",
	"MarginalAdhesion",
	"SingleEpithelialCellSize",
	"BareNuclei",
	"BlandChromatin",
	"NormalNucleoli",
	"Mitoses",
}

// ClassNames maps label values to their display names.
var ClassNames = [2]string{"benign", "malignant"}

// Table is the immutable specimen table. X holds the nine measurements as
// float64 with NaN marking missing values. Labels holds Benign/Malignant
// per row. Construction goes through Load/Normalize; after that the table
// is read-only by convention.
type Table struct {
	IDs    []string
	X      *mat.Dense
	Labels []int
}

// NumRows returns the number of specimens.
func (t *Table) NumRows() int {
	if t.X == nil {
		return 0
	}
	r, _ := t.X.Dims()
	return r
}

// NumFeatures returns the number of measurement columns.
func (t *Table) NumFeatures() int {
	if t.X == nil {
		return 0
	}
	_, c := t.X.Dims()
	return c
}

// ClassCounts returns the number of benign and malignant rows.
func (t *Table) ClassCounts() [2]int {
	var counts [2]int
	for _, label := range t.Labels {
		counts[label]++
	}
	return counts
}

// Select returns a new table containing the given rows, copied in the
// order of indices.
func (t *Table) Select(indices []int) (*Table, error) {
	n := t.NumRows()
	for _, idx := range indices {
		if idx < 0 || idx >= n {
			return nil, errors.NewValueError("Table.Select", "row index out of range")
		}
	}

	_, cols := t.X.Dims()
	sub := &Table{
		IDs:    make([]string, len(indices)),
		X:      mat.NewDense(len(indices), cols, nil),
		Labels: make([]int, len(indices)),
	}
	for i, idx := range indices {
		sub.IDs[i] = t.IDs[idx]
		sub.Labels[i] = t.Labels[idx]
		for j := 0; j < cols; j++ {
			sub.X.Set(i, j, t.X.At(idx, j))
		}
	}
	return sub, nil
}

// MissingCount returns the number of NaN cells in the measurement matrix.
func (t *Table) MissingCount() int {
	rows, cols := t.X.Dims()
	count := 0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if math.IsNaN(t.X.At(i, j)) {
				count++
			}
		}
	}
	return count
}

// LabelsVector returns the labels as a float64 slice, for metric functions
// that operate on numeric vectors.
func (t *Table) LabelsVector() []float64 {
	out := make([]float64, len(t.Labels))
	for i, l := range t.Labels {
		out[i] = float64(l)
	}
	return out
}
