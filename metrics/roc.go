// Package metrics implements the evaluation side of the benchmark: ROC
// curves and AUC, confusion matrices, resample summaries, and variable
// importance rankings.
package metrics

import (
	"sort"

	"github.com/YuminosukeSato/cytobench/pkg/errors"
)

// ROCPoint is one operating point of a ROC curve.
type ROCPoint struct {
	FPR float64 // false positive rate
	TPR float64 // true positive rate
}

// ROC is a full curve plus its area. Points are ordered from (0,0) to
// (1,1) with monotonically non-decreasing coordinates.
type ROC struct {
	Points []ROCPoint
	AUC    float64
}

// ROCCurve computes the ROC curve and AUC from probability-of-positive
// scores and binary labels (0 negative, 1 positive). Rows with tied
// scores collapse into a single operating point, which makes the area
// exact under ties. If only one class is present the curve is undefined;
// an UndefinedMetricWarning is emitted and AUC 0.5 is returned with a
// diagonal curve.
func ROCCurve(scores, labels []float64) (*ROC, error) {
	n := len(scores)
	if n == 0 {
		return nil, errors.NewValueError("ROCCurve", "empty input")
	}
	if len(labels) != n {
		return nil, errors.NewDimensionError("ROCCurve", n, len(labels), 0)
	}

	nPos, nNeg := 0, 0
	for _, l := range labels {
		switch l {
		case 1:
			nPos++
		case 0:
			nNeg++
		default:
			return nil, errors.NewValueError("ROCCurve", "labels must be 0 or 1")
		}
	}
	if nPos == 0 || nNeg == 0 {
		missing := "positive"
		if nPos > 0 {
			missing = "negative"
		}
		errors.Warn(errors.NewUndefinedMetricWarning("ROC",
			"no "+missing+" samples", 0.5))
		return &ROC{
			Points: []ROCPoint{{0, 0}, {1, 1}},
			AUC:    0.5,
		}, nil
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	points := []ROCPoint{{0, 0}}
	tp, fp := 0, 0
	i := 0
	for i < n {
		// Sweep all rows sharing this score as one threshold step.
		threshold := scores[order[i]]
		for i < n && scores[order[i]] == threshold {
			if labels[order[i]] == 1 {
				tp++
			} else {
				fp++
			}
			i++
		}
		points = append(points, ROCPoint{
			FPR: float64(fp) / float64(nNeg),
			TPR: float64(tp) / float64(nPos),
		})
	}

	roc := &ROC{Points: points}
	for k := 1; k < len(points); k++ {
		a, b := points[k-1], points[k]
		roc.AUC += (b.FPR - a.FPR) * (a.TPR + b.TPR) / 2
	}
	return roc, nil
}

// AUC is a convenience wrapper returning only the area.
func AUC(scores, labels []float64) (float64, error) {
	roc, err := ROCCurve(scores, labels)
	if err != nil {
		return 0, err
	}
	return roc.AUC, nil
}
