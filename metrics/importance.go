package metrics

import (
	"math"
	"sort"

	"github.com/YuminosukeSato/cytobench/pkg/errors"
)

// Importance is one feature's contribution score on the 0-100 scale.
type Importance struct {
	Feature string
	Score   float64
}

// VarImportance ranks features of a linear model by the magnitude of
// their learned weights, rescaled so the largest magnitude maps to 100
// and the smallest to 0. The result is sorted by descending score,
// name-ascending on ties.
func VarImportance(weights []float64, names []string) ([]Importance, error) {
	if len(weights) == 0 {
		return nil, errors.NewValueError("VarImportance", "empty weight vector")
	}
	if len(names) != len(weights) {
		return nil, errors.NewDimensionError("VarImportance", len(weights), len(names), 1)
	}

	minAbs, maxAbs := math.Inf(1), math.Inf(-1)
	for _, w := range weights {
		a := math.Abs(w)
		if a < minAbs {
			minAbs = a
		}
		if a > maxAbs {
			maxAbs = a
		}
	}

	span := maxAbs - minAbs
	out := make([]Importance, len(weights))
	for i, w := range weights {
		score := 100.0
		if span > 0 {
			score = (math.Abs(w) - minAbs) / span * 100
		}
		out[i] = Importance{Feature: names[i], Score: score}
	}

	sort.Slice(out, func(a, b int) bool {
		if out[a].Score != out[b].Score {
			return out[a].Score > out[b].Score
		}
		return out[a].Feature < out[b].Feature
	})
	return out, nil
}
