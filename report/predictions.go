// Package report turns fitted models into the benchmark's deliverables:
// per-row prediction records, text summaries, and ROC curve plots.
package report

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cytobench/core/model"
	"github.com/YuminosukeSato/cytobench/dataset"
	"github.com/YuminosukeSato/cytobench/pkg/errors"
	"github.com/YuminosukeSato/cytobench/preprocessing"
)

// PredictionRecord is one row's outcome under one model: the hard label,
// both class probabilities, and the observed truth. Split tags which
// partition the row came from ("train" or "test").
type PredictionRecord struct {
	RowID     string
	Model     string
	Split     string
	Predicted int
	Probs     [2]float64
	Observed  int
}

// Extract runs a fitted model over a table through its fitted pipeline
// and collects one record per row.
func Extract(clf model.Classifier, pipe *preprocessing.Pipeline, table *dataset.Table, modelName, split string) ([]PredictionRecord, error) {
	Xt, err := pipe.Transform(table.X)
	if err != nil {
		return nil, errors.Wrap(err, "transform for prediction extraction")
	}

	predicted, err := clf.Predict(Xt)
	if err != nil {
		return nil, err
	}
	probs, err := clf.PredictProba(Xt)
	if err != nil {
		return nil, err
	}

	cols := columnByClass(clf, probs)
	records := make([]PredictionRecord, table.NumRows())
	for i := range records {
		records[i] = PredictionRecord{
			RowID:     table.IDs[i],
			Model:     modelName,
			Split:     split,
			Predicted: predicted[i],
			Probs:     [2]float64{probs.At(i, cols[0]), probs.At(i, cols[1])},
			Observed:  table.Labels[i],
		}
	}
	return records, nil
}

// columnByClass maps class label c to its probability column. Both
// classifier families sort their class lists, so this is normally the
// identity, but the mapping is looked up rather than assumed.
func columnByClass(clf model.Classifier, probs mat.Matrix) [2]int {
	cols := [2]int{0, 1}
	for j, c := range clf.Classes() {
		if c == 0 || c == 1 {
			cols[c] = j
		}
	}
	return cols
}

// SplitRecords separates records into hard-label slices for confusion
// tabulation.
func SplitRecords(records []PredictionRecord) (predicted, observed []int) {
	predicted = make([]int, len(records))
	observed = make([]int, len(records))
	for i, r := range records {
		predicted[i] = r.Predicted
		observed[i] = r.Observed
	}
	return predicted, observed
}

// PositiveScores returns each record's probability of the malignant
// class, paired with the observed labels as floats, ready for ROC
// computation.
func PositiveScores(records []PredictionRecord) (scores, labels []float64) {
	scores = make([]float64, len(records))
	labels = make([]float64, len(records))
	for i, r := range records {
		scores[i] = r.Probs[1]
		labels[i] = float64(r.Observed)
	}
	return scores, labels
}
