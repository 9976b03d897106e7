package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/YuminosukeSato/cytobench/dataset"
	"github.com/YuminosukeSato/cytobench/metrics"
	"github.com/YuminosukeSato/cytobench/modelselection"
	"github.com/YuminosukeSato/cytobench/pkg/errors"
)

// ModelReport bundles one model family's evaluation artifacts for
// rendering.
type ModelReport struct {
	Name       string
	BestPoint  modelselection.ParamPoint
	BestScore  float64
	Resamples  metrics.ResampleSummary
	TrainCM    *metrics.ConfusionMatrix
	TestCM     *metrics.ConfusionMatrix
	TestROC    *metrics.ROC
	Importance []metrics.Importance
}

// WriteText renders the full benchmark summary in the layout the
// console report uses.
func WriteText(w io.Writer, reports []ModelReport) error {
	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "=== %s ===\n", r.Name)
		fmt.Fprintf(w, "Best parameters : %s\n", r.BestPoint)
		fmt.Fprintf(w, "CV ROC AUC      : %.4f (mean of %d resamples)\n",
			r.BestScore, r.Resamples.N)
		fmt.Fprintf(w, "Test ROC AUC    : %.4f\n\n", r.TestROC.AUC)

		fmt.Fprintf(w, "Resample summary (ROC AUC)\n")
		fmt.Fprintf(w, "  min=%.4f q1=%.4f median=%.4f mean=%.4f q3=%.4f max=%.4f\n\n",
			r.Resamples.Min, r.Resamples.Q1, r.Resamples.Median,
			r.Resamples.Mean, r.Resamples.Q3, r.Resamples.Max)

		fmt.Fprintf(w, "Train confusion\n%s\n", r.TrainCM)
		fmt.Fprintf(w, "Test confusion\n%s", r.TestCM)

		if len(r.Importance) > 0 {
			fmt.Fprintf(w, "\nVariable importance\n")
			for _, imp := range r.Importance {
				fmt.Fprintf(w, "  %-26s %6.2f\n", imp.Feature, imp.Score)
			}
		}
	}
	return nil
}

// WriteResampleTable renders the cross-model resample comparison.
func WriteResampleTable(w io.Writer, summaries []metrics.ResampleSummary) {
	fmt.Fprintf(w, "%-8s %8s %8s %8s %8s %8s %8s %4s\n",
		"Model", "Min", "Q1", "Median", "Mean", "Q3", "Max", "N")
	for _, s := range summaries {
		fmt.Fprintf(w, "%-8s %8.4f %8.4f %8.4f %8.4f %8.4f %8.4f %4d\n",
			s.Model, s.Min, s.Q1, s.Median, s.Mean, s.Q3, s.Max, s.N)
	}
}

// WritePredictionsCSV exports prediction records with one row per
// (model, table row). Probability columns follow the class order
// benign, malignant.
func WritePredictionsCSV(w io.Writer, records []PredictionRecord) error {
	cw := csv.NewWriter(w)
	header := []string{"row_id", "model", "split", "predicted", "prob_benign", "prob_malignant", "observed"}
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "write predictions header")
	}
	for _, r := range records {
		row := []string{
			r.RowID,
			r.Model,
			r.Split,
			dataset.ClassNames[r.Predicted],
			strconv.FormatFloat(r.Probs[0], 'f', 6, 64),
			strconv.FormatFloat(r.Probs[1], 'f', 6, 64),
			dataset.ClassNames[r.Observed],
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, "write prediction row")
		}
	}
	cw.Flush()
	return errors.WithStack(cw.Error())
}
