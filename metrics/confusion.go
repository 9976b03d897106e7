package metrics

import (
	"fmt"
	"strings"

	"github.com/YuminosukeSato/cytobench/pkg/errors"
)

// ConfusionMatrix holds predicted-versus-observed counts for a two-class
// problem. Counts[p][o] is the number of rows predicted as class p and
// observed as class o. The positive class for sensitivity/specificity is
// class 1 (the second entry of ClassNames).
type ConfusionMatrix struct {
	Counts     [2][2]int
	ClassNames [2]string
}

// NewConfusionMatrix tabulates predictions against observations. Labels
// outside {0, 1} are rejected.
func NewConfusionMatrix(predicted, observed []int, classNames [2]string) (*ConfusionMatrix, error) {
	if len(predicted) == 0 {
		return nil, errors.NewValueError("NewConfusionMatrix", "empty input")
	}
	if len(predicted) != len(observed) {
		return nil, errors.NewDimensionError("NewConfusionMatrix", len(predicted), len(observed), 0)
	}

	cm := &ConfusionMatrix{ClassNames: classNames}
	for i := range predicted {
		p, o := predicted[i], observed[i]
		if p < 0 || p > 1 || o < 0 || o > 1 {
			return nil, errors.NewValueError("NewConfusionMatrix", "labels must be 0 or 1")
		}
		cm.Counts[p][o]++
	}
	return cm, nil
}

// Total returns the number of tabulated rows.
func (cm *ConfusionMatrix) Total() int {
	return cm.Counts[0][0] + cm.Counts[0][1] + cm.Counts[1][0] + cm.Counts[1][1]
}

// Accuracy is the fraction of rows on the diagonal.
func (cm *ConfusionMatrix) Accuracy() float64 {
	return float64(cm.Counts[0][0]+cm.Counts[1][1]) / float64(cm.Total())
}

// Sensitivity is the true positive rate for class 1. With no positive
// observations the rate is undefined; a warning is emitted and 0
// returned.
func (cm *ConfusionMatrix) Sensitivity() float64 {
	positives := cm.Counts[1][1] + cm.Counts[0][1]
	if positives == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("sensitivity",
			"no positive observations", 0))
	}
	return errors.SafeDivide(float64(cm.Counts[1][1]), float64(positives))
}

// Specificity is the true negative rate for class 0. With no negative
// observations the rate is undefined; a warning is emitted and 0
// returned.
func (cm *ConfusionMatrix) Specificity() float64 {
	negatives := cm.Counts[0][0] + cm.Counts[1][0]
	if negatives == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("specificity",
			"no negative observations", 0))
	}
	return errors.SafeDivide(float64(cm.Counts[0][0]), float64(negatives))
}

// String renders the matrix in the familiar reference layout:
// rows are predictions, columns are observations.
func (cm *ConfusionMatrix) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-12s %12s %12s\n", "Prediction", cm.ClassNames[0], cm.ClassNames[1])
	for p := 0; p < 2; p++ {
		fmt.Fprintf(&b, "%-12s %12d %12d\n", cm.ClassNames[p], cm.Counts[p][0], cm.Counts[p][1])
	}
	fmt.Fprintf(&b, "\nAccuracy    : %.4f\n", cm.Accuracy())
	fmt.Fprintf(&b, "Sensitivity : %.4f\n", cm.Sensitivity())
	fmt.Fprintf(&b, "Specificity : %.4f\n", cm.Specificity())
	return b.String()
}
