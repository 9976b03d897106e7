package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/cytobench/pkg/errors"
)

// ResampleSummary is the five-number summary plus mean of one model's
// fold-level metric values, for side-by-side comparison across models.
// N counts the valid (non-missing) cells that entered the summary.
type ResampleSummary struct {
	Model  string
	Min    float64
	Q1     float64
	Median float64
	Mean   float64
	Q3     float64
	Max    float64
	N      int
}

// Summarize reduces one model's resample scores. NaN cells (failed or
// degenerate fold fits) are dropped before summarizing, shrinking N
// rather than polluting the statistics.
func Summarize(model string, scores []float64) (ResampleSummary, error) {
	valid := make([]float64, 0, len(scores))
	for _, s := range scores {
		if !math.IsNaN(s) {
			valid = append(valid, s)
		}
	}
	if len(valid) == 0 {
		return ResampleSummary{}, errors.NewValueError("Summarize",
			"no valid resample scores for model "+model)
	}

	sort.Float64s(valid)
	return ResampleSummary{
		Model:  model,
		Min:    valid[0],
		Q1:     stat.Quantile(0.25, stat.Empirical, valid, nil),
		Median: stat.Quantile(0.50, stat.Empirical, valid, nil),
		Mean:   stat.Mean(valid, nil),
		Q3:     stat.Quantile(0.75, stat.Empirical, valid, nil),
		Max:    valid[len(valid)-1],
		N:      len(valid),
	}, nil
}

// SummarizeAll reduces several models' scores and returns the summaries
// sorted by model name for stable rendering.
func SummarizeAll(scoresByModel map[string][]float64) ([]ResampleSummary, error) {
	names := make([]string, 0, len(scoresByModel))
	for name := range scoresByModel {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]ResampleSummary, 0, len(names))
	for _, name := range names {
		summary, err := Summarize(name, scoresByModel[name])
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	return out, nil
}
