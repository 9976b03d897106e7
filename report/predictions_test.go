package report

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cytobench/dataset"
	"github.com/YuminosukeSato/cytobench/neighbors"
	"github.com/YuminosukeSato/cytobench/preprocessing"
)

// fittedFixture returns a table with a fitted pipeline and classifier
// over trivially separable rows.
func fittedFixture(t *testing.T) (*dataset.Table, *preprocessing.Pipeline, *neighbors.KNN) {
	t.Helper()

	X := mat.NewDense(8, 2, []float64{
		0.1, 0.2,
		0.2, 0.1,
		0.3, 0.3,
		0.2, 0.2,
		5.1, 5.2,
		5.2, 5.1,
		5.3, 5.3,
		5.2, 5.2,
	})
	table := &dataset.Table{
		IDs:    []string{"1000025", "1002945", "1015425", "1016277", "1017023", "1017122", "1018099", "1018561"},
		X:      X,
		Labels: []int{0, 0, 0, 0, 1, 1, 1, 1},
	}

	pipe := preprocessing.NewStandardPipeline(3)
	Xt, err := pipe.FitTransform(table.X)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	clf := neighbors.NewKNN(neighbors.WithK(3))
	if err := clf.Fit(Xt, table.Labels); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	return table, pipe, clf
}

func TestExtract(t *testing.T) {
	table, pipe, clf := fittedFixture(t)

	records, err := Extract(clf, pipe, table, "knn", "train")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(records) != table.NumRows() {
		t.Fatalf("got %d records, want %d", len(records), table.NumRows())
	}

	for i, r := range records {
		if r.RowID != table.IDs[i] {
			t.Errorf("record %d RowID = %q, want %q", i, r.RowID, table.IDs[i])
		}
		if r.Model != "knn" || r.Split != "train" {
			t.Errorf("record %d tags = (%q, %q), want (knn, train)", i, r.Model, r.Split)
		}
		if r.Observed != table.Labels[i] {
			t.Errorf("record %d Observed = %d, want %d", i, r.Observed, table.Labels[i])
		}
		if r.Predicted != r.Observed {
			t.Errorf("record %d Predicted = %d on separable data, want %d", i, r.Predicted, r.Observed)
		}
		if sum := r.Probs[0] + r.Probs[1]; sum < 0.999 || sum > 1.001 {
			t.Errorf("record %d probabilities sum to %v, want 1", i, sum)
		}
	}
}

func TestSplitRecords(t *testing.T) {
	records := []PredictionRecord{
		{Predicted: 1, Observed: 0},
		{Predicted: 0, Observed: 0},
		{Predicted: 1, Observed: 1},
	}
	predicted, observed := SplitRecords(records)
	wantP, wantO := []int{1, 0, 1}, []int{0, 0, 1}
	for i := range records {
		if predicted[i] != wantP[i] || observed[i] != wantO[i] {
			t.Errorf("index %d: got (%d, %d), want (%d, %d)",
				i, predicted[i], observed[i], wantP[i], wantO[i])
		}
	}
}

func TestPositiveScores(t *testing.T) {
	records := []PredictionRecord{
		{Probs: [2]float64{0.8, 0.2}, Observed: 0},
		{Probs: [2]float64{0.1, 0.9}, Observed: 1},
	}
	scores, labels := PositiveScores(records)
	if scores[0] != 0.2 || scores[1] != 0.9 {
		t.Errorf("scores = %v, want [0.2 0.9]", scores)
	}
	if labels[0] != 0 || labels[1] != 1 {
		t.Errorf("labels = %v, want [0 1]", labels)
	}
}
