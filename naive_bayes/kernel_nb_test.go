package naive_bayes

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func blobs() (*mat.Dense, []int) {
	X := mat.NewDense(8, 2, []float64{
		0.0, 0.2,
		0.3, 0.1,
		0.1, 0.0,
		0.2, 0.3,
		5.0, 5.2,
		5.3, 5.1,
		5.1, 5.0,
		5.2, 5.3,
	})
	y := []int{0, 0, 0, 0, 1, 1, 1, 1}
	return X, y
}

func TestKernelNBPredict(t *testing.T) {
	for _, useKernel := range []bool{true, false} {
		name := "gaussian"
		if useKernel {
			name = "kernel"
		}
		t.Run(name, func(t *testing.T) {
			X, y := blobs()
			m := NewKernelNB(WithKernel(useKernel))
			if err := m.Fit(X, y); err != nil {
				t.Fatalf("Fit() error = %v", err)
			}

			queries := mat.NewDense(2, 2, []float64{
				0.15, 0.15,
				5.15, 5.15,
			})
			pred, err := m.Predict(queries)
			if err != nil {
				t.Fatalf("Predict() error = %v", err)
			}
			if pred[0] != 0 || pred[1] != 1 {
				t.Errorf("Predict() = %v, want [0 1]", pred)
			}
		})
	}
}

func TestKernelNBProbabilitiesSumToOne(t *testing.T) {
	X, y := blobs()
	m := NewKernelNB(WithLaplace(1))
	if err := m.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	proba, err := m.PredictProba(X)
	if err != nil {
		t.Fatalf("PredictProba() error = %v", err)
	}
	rows, _ := proba.Dims()
	for i := 0; i < rows; i++ {
		sum := proba.At(i, 0) + proba.At(i, 1)
		if math.Abs(sum-1) > 1e-6 {
			t.Errorf("row %d probabilities sum to %g", i, sum)
		}
	}
}

func TestKernelNBLaplacePriors(t *testing.T) {
	// Imbalanced classes: smoothing must pull priors toward uniform.
	X := mat.NewDense(4, 1, []float64{0, 0.1, 0.2, 10})
	y := []int{0, 0, 0, 1}

	plain := NewKernelNB(WithLaplace(0))
	if err := plain.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	smoothed := NewKernelNB(WithLaplace(100))
	if err := smoothed.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	// A far-away query is dominated by the priors.
	gapPlain := plain.logPriors[0] - plain.logPriors[1]
	gapSmoothed := smoothed.logPriors[0] - smoothed.logPriors[1]
	if gapSmoothed >= gapPlain {
		t.Errorf("laplace smoothing did not shrink prior gap: %g vs %g", gapSmoothed, gapPlain)
	}
}

func TestKernelNBFarPointStaysFinite(t *testing.T) {
	X, y := blobs()
	m := NewKernelNB()
	if err := m.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	proba, err := m.PredictProba(mat.NewDense(1, 2, []float64{1e6, -1e6}))
	if err != nil {
		t.Fatalf("PredictProba() error = %v", err)
	}
	sum := proba.At(0, 0) + proba.At(0, 1)
	if math.IsNaN(sum) || math.Abs(sum-1) > 1e-6 {
		t.Errorf("degenerate posterior for far point: %g", sum)
	}
}

func TestKernelNBValidation(t *testing.T) {
	X, y := blobs()

	if err := NewKernelNB(WithLaplace(-1)).Fit(X, y); err == nil {
		t.Error("expected error for negative laplace")
	}
	if err := NewKernelNB().Fit(X, []int{0, 0, 0, 0, 0, 0, 0, 0}); err == nil {
		t.Error("expected error for a single class")
	}
}

func TestKernelNBNotFitted(t *testing.T) {
	m := NewKernelNB()
	if _, err := m.Predict(mat.NewDense(1, 2, nil)); err == nil {
		t.Error("expected NotFittedError before Fit")
	}
}

func TestKernelNBCloneUnfitted(t *testing.T) {
	m := NewKernelNB(WithKernel(false), WithLaplace(2.5))
	clone := m.CloneUnfitted()
	nb, ok := clone.(*KernelNB)
	if !ok {
		t.Fatalf("clone type = %T, want *KernelNB", clone)
	}
	if nb.UseKernel || nb.Laplace != 2.5 {
		t.Errorf("clone lost hyperparameters: %+v", nb.GetParams())
	}
}
