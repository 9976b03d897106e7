package metrics

import (
	"math"
	"testing"
)

func TestAUC(t *testing.T) {
	tests := []struct {
		name    string
		labels  []float64
		scores  []float64
		want    float64
		wantErr bool
	}{
		{
			name:   "perfect classifier",
			labels: []float64{0, 0, 0, 1, 1, 1},
			scores: []float64{0.1, 0.2, 0.3, 0.7, 0.8, 0.9},
			want:   1.0,
		},
		{
			name:   "worst classifier",
			labels: []float64{0, 0, 0, 1, 1, 1},
			scores: []float64{0.9, 0.8, 0.7, 0.3, 0.2, 0.1},
			want:   0.0,
		},
		{
			name:   "random classifier",
			labels: []float64{0, 1, 0, 1},
			scores: []float64{0.5, 0.5, 0.5, 0.5},
			want:   0.5,
		},
		{
			name:   "typical case",
			labels: []float64{0, 0, 1, 1},
			scores: []float64{0.1, 0.4, 0.35, 0.8},
			want:   0.75,
		},
		{
			name:   "all positive labels",
			labels: []float64{1, 1, 1, 1},
			scores: []float64{0.1, 0.4, 0.35, 0.8},
			want:   0.5, // Undefined case, returns 0.5
		},
		{
			name:   "all negative labels",
			labels: []float64{0, 0, 0, 0},
			scores: []float64{0.1, 0.4, 0.35, 0.8},
			want:   0.5, // Undefined case, returns 0.5
		},
		{
			name:    "empty input",
			labels:  []float64{},
			scores:  []float64{},
			wantErr: true,
		},
		{
			name:    "length mismatch",
			labels:  []float64{0, 1},
			scores:  []float64{0.5},
			wantErr: true,
		},
		{
			name:    "invalid label",
			labels:  []float64{0, 2},
			scores:  []float64{0.5, 0.5},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AUC(tt.scores, tt.labels)
			if (err != nil) != tt.wantErr {
				t.Errorf("AUC() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("AUC() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestROCCurveShape(t *testing.T) {
	labels := []float64{0, 0, 1, 1, 0, 1}
	scores := []float64{0.2, 0.3, 0.6, 0.7, 0.5, 0.9}

	roc, err := ROCCurve(scores, labels)
	if err != nil {
		t.Fatalf("ROCCurve() error = %v", err)
	}

	first := roc.Points[0]
	last := roc.Points[len(roc.Points)-1]
	if first.FPR != 0 || first.TPR != 0 {
		t.Errorf("curve starts at (%g, %g), want (0, 0)", first.FPR, first.TPR)
	}
	if last.FPR != 1 || last.TPR != 1 {
		t.Errorf("curve ends at (%g, %g), want (1, 1)", last.FPR, last.TPR)
	}

	for i := 1; i < len(roc.Points); i++ {
		prev, cur := roc.Points[i-1], roc.Points[i]
		if cur.FPR < prev.FPR || cur.TPR < prev.TPR {
			t.Errorf("curve not monotone at point %d: (%g,%g) after (%g,%g)",
				i, cur.FPR, cur.TPR, prev.FPR, prev.TPR)
		}
	}
}

func TestROCCurveTiedScoresCollapse(t *testing.T) {
	// Four rows, one shared score: a single threshold step.
	labels := []float64{0, 1, 0, 1}
	scores := []float64{0.5, 0.5, 0.5, 0.5}

	roc, err := ROCCurve(scores, labels)
	if err != nil {
		t.Fatalf("ROCCurve() error = %v", err)
	}
	if len(roc.Points) != 2 {
		t.Errorf("got %d points, want 2 for fully tied scores", len(roc.Points))
	}
}
