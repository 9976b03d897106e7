package dataset

import (
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cytobench/pkg/errors"
)

// missingMarkers are the cell values treated as a missing measurement.
var missingMarkers = map[string]bool{
	"?":  true,
	"":   true,
	"NA": true,
}

// Normalize converts the raw string table into the numeric specimen
// table: ordinal measurement codes become float64 (missing markers become
// NaN, never a category of their own), class codes 2/4 or their names
// become Benign/Malignant, and the columns take the readable names in
// FeatureNames. A DataConversionWarning is emitted for every column that
// contained missing markers.
func Normalize(raw *RawTable) (*Table, error) {
	n := len(raw.Records)
	if n == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "dataset: nothing to normalize")
	}

	table := &Table{
		IDs:    make([]string, n),
		X:      mat.NewDense(n, len(FeatureNames), nil),
		Labels: make([]int, n),
	}

	missingPerColumn := make([]int, len(FeatureNames))

	for i, rec := range raw.Records {
		if len(rec) != NumColumns {
			return nil, errors.NewDimensionError("Normalize", NumColumns, len(rec), 1)
		}

		table.IDs[i] = strings.TrimSpace(rec[0])

		for j := 0; j < len(FeatureNames); j++ {
			cell := strings.TrimSpace(rec[j+1])
			if missingMarkers[cell] {
				table.X.Set(i, j, math.NaN())
				missingPerColumn[j]++
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, errors.NewValidationError(FeatureNames[j],
					"measurement is not an ordinal code", cell)
			}
			table.X.Set(i, j, v)
		}

		label, err := parseLabel(rec[NumColumns-1])
		if err != nil {
			return nil, err
		}
		table.Labels[i] = label
	}

	for j, count := range missingPerColumn {
		if count > 0 {
			errors.Warn(errors.NewDataConversionWarning(FeatureNames[j],
				"ordinal code", "float64",
				"missing markers preserved as NaN"))
		}
	}

	return table, nil
}

// parseLabel accepts the raw 2/4 encoding or the class names.
func parseLabel(cell string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "2", ClassNames[Benign]:
		return Benign, nil
	case "4", ClassNames[Malignant]:
		return Malignant, nil
	default:
		return 0, errors.NewValidationError("class",
			"label must be 2/4 or benign/malignant", cell)
	}
}
