package preprocessing

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestKNNImputerFillsMissing(t *testing.T) {
	nan := math.NaN()
	// Rows 0-2 are complete and tightly clustered; row 3 is missing its
	// second coordinate and sits next to them.
	X := mat.NewDense(4, 2, []float64{
		1.0, 10.0,
		1.1, 11.0,
		1.2, 12.0,
		1.05, nan,
	})

	im := NewKNNImputer(2)
	filled, err := im.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	got := filled.At(3, 1)
	if math.IsNaN(got) {
		t.Fatal("missing cell was not imputed")
	}
	// The two nearest complete rows are (1.0, 10) and (1.1, 11).
	want := 10.5
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("imputed value = %g, want %g", got, want)
	}

	// Observed cells are untouched.
	if filled.At(3, 0) != 1.05 {
		t.Errorf("observed cell changed: %g", filled.At(3, 0))
	}
}

func TestKNNImputerTransformHeldOutRows(t *testing.T) {
	nan := math.NaN()
	train := mat.NewDense(3, 2, []float64{
		0, 0,
		2, 2,
		4, 4,
	})
	im := NewKNNImputer(1)
	if err := im.Fit(train); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	heldOut := mat.NewDense(1, 2, []float64{1.9, nan})
	filled, err := im.Transform(heldOut)
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	// Nearest training row by the observed coordinate is (2, 2).
	if got := filled.At(0, 1); math.Abs(got-2) > 1e-9 {
		t.Errorf("imputed from wrong neighbor: %g, want 2", got)
	}
}

func TestKNNImputerColumnMeanFallback(t *testing.T) {
	nan := math.NaN()
	// Every reference row is missing column 1 except via the mean,
	// and the query row shares no observed coordinates with any row
	// that observes column 1.
	train := mat.NewDense(2, 2, []float64{
		nan, 3.0,
		nan, 5.0,
	})
	// Column 0 has no observed values at all, which Fit must reject.
	im := NewKNNImputer(1)
	if err := im.Fit(train); err == nil {
		t.Error("expected error for a column with no observed values")
	}
}

func TestKNNImputerDeterministic(t *testing.T) {
	nan := math.NaN()
	X := mat.NewDense(5, 3, []float64{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
		1, nan, 3,
		7, 8, nan,
	})

	run := func() mat.Matrix {
		im := NewKNNImputer(3)
		out, err := im.FitTransform(X)
		if err != nil {
			t.Fatalf("FitTransform() error = %v", err)
		}
		return out
	}

	a, b := run(), run()
	if !mat.EqualApprox(a, b, 0) {
		t.Error("two imputation runs over identical data differ")
	}
}

func TestKNNImputerNotFitted(t *testing.T) {
	im := NewKNNImputer(3)
	if _, err := im.Transform(mat.NewDense(1, 1, []float64{1})); err == nil {
		t.Error("expected NotFittedError before Fit")
	}
}
