package errors

import (
	"strings"
	"testing"
)

func TestNotFittedError(t *testing.T) {
	err := NewNotFittedError("LinearSVC", "Predict")

	var nfe *NotFittedError
	if !As(err, &nfe) {
		t.Fatalf("expected NotFittedError, got %T", err)
	}
	if nfe.ModelName != "LinearSVC" || nfe.Method != "Predict" {
		t.Errorf("unexpected fields: %+v", nfe)
	}
	if !strings.Contains(err.Error(), "not fitted") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestDimensionError(t *testing.T) {
	tests := []struct {
		name string
		axis int
		want string
	}{
		{name: "row axis", axis: 0, want: "rows"},
		{name: "feature axis", axis: 1, want: "features"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDimensionError("KNN.Fit", 9, 7, tt.axis)
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("message %q does not mention %q", err.Error(), tt.want)
			}
			var de *DimensionError
			if !As(err, &de) {
				t.Fatalf("expected DimensionError, got %T", err)
			}
			if de.Expected != 9 || de.Got != 7 {
				t.Errorf("unexpected fields: %+v", de)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("train_fraction", "must be in (0, 1)", 1.5)
	var ve *ValidationError
	if !As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if ve.ParamName != "train_fraction" {
		t.Errorf("unexpected param name: %s", ve.ParamName)
	}
}

func TestDegenerateFoldError(t *testing.T) {
	err := NewDegenerateFoldError(3, 1, "malignant")
	var dfe *DegenerateFoldError
	if !As(err, &dfe) {
		t.Fatalf("expected DegenerateFoldError, got %T", err)
	}
	if dfe.Repeat != 3 || dfe.Fold != 1 || dfe.Class != "malignant" {
		t.Errorf("unexpected fields: %+v", dfe)
	}
}

func TestWarnHandler(t *testing.T) {
	var captured error
	SetWarningHandler(func(w error) { captured = w })
	defer SetWarningHandler(nil)

	w := NewConvergenceWarning("LinearSVC", 1000, "")
	Warn(w)

	if captured == nil {
		t.Fatal("warning handler was not invoked")
	}
	var cw *ConvergenceWarning
	if !As(captured, &cw) {
		t.Fatalf("expected ConvergenceWarning, got %T", captured)
	}
	if cw.Iterations != 1000 {
		t.Errorf("unexpected iterations: %d", cw.Iterations)
	}
}

func TestSafeExecuteRecoversPanic(t *testing.T) {
	err := SafeExecute("unit fit", func() error {
		panic("singular kernel matrix")
	})
	if err == nil {
		t.Fatal("expected error from recovered panic")
	}
	var pe *PanicError
	if !As(err, &pe) {
		t.Fatalf("expected PanicError, got %T", err)
	}
	if pe.Operation != "unit fit" {
		t.Errorf("unexpected operation: %s", pe.Operation)
	}
}

func TestSafeExecutePassesThroughError(t *testing.T) {
	sentinel := New("fit failed")
	err := SafeExecute("unit fit", func() error { return sentinel })
	if !Is(err, sentinel) {
		t.Errorf("expected sentinel error, got %v", err)
	}
}

func TestWrapPreservesIdentity(t *testing.T) {
	base := ErrDegenerateClass
	wrapped := Wrap(base, "while splitting fold 2")
	if !Is(wrapped, base) {
		t.Error("wrapped error lost identity")
	}
}
