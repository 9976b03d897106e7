package experiment

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeFixtureCSV generates a small synthetic specimen table in the
// benchmark's input format: benign rows score low, malignant rows score
// high, with a few missing cells marked "?".
func writeFixtureCSV(t *testing.T, nBenign, nMalignant int) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("id,clump_thickness,uniformity_cell_size,uniformity_cell_shape,marginal_adhesion,single_epithelial_cell_size,bare_nuclei,bland_chromatin,normal_nucleoli,mitoses,class\n")
	for i := 0; i < nBenign; i++ {
		v := 1 + i%3
		bare := fmt.Sprintf("%d", v)
		if i%11 == 3 {
			bare = "?"
		}
		fmt.Fprintf(&b, "%07d,%d,%d,%d,%d,%d,%s,%d,%d,%d,2\n",
			1000000+i, v, v, v+1, v, v, bare, v, v, 1)
	}
	for i := 0; i < nMalignant; i++ {
		v := 7 + i%3
		fmt.Fprintf(&b, "%07d,%d,%d,%d,%d,%d,%d,%d,%d,%d,4\n",
			2000000+i, v, v, v-1, v, v, v, v, v, v-5)
	}

	path := filepath.Join(t.TempDir(), "cytology.csv")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func smallConfig(path string) Config {
	cfg := NewConfig(path)
	cfg.Folds = 2
	cfg.Repeats = 1
	cfg.EnabledModels = []string{"knn", "svm"}
	cfg.Workers = 2
	return cfg
}

func TestRunnerRun(t *testing.T) {
	path := writeFixtureCSV(t, 40, 30)
	cfg := smallConfig(path)

	runner, err := NewRunner(cfg, quietLogger())
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	results, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(results.Reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(results.Reports))
	}
	if results.TrainRows+results.TestRows != 70 {
		t.Errorf("train+test rows = %d, want 70", results.TrainRows+results.TestRows)
	}

	for _, r := range results.Reports {
		if r.TestROC.AUC < 0.9 {
			t.Errorf("%s: test AUC = %v, want high on separable data", r.Name, r.TestROC.AUC)
		}
		if r.TestCM.Total() != results.TestRows {
			t.Errorf("%s: test confusion totals %d rows, want %d",
				r.Name, r.TestCM.Total(), results.TestRows)
		}
		if r.TrainCM.Total() != results.TrainRows {
			t.Errorf("%s: train confusion totals %d rows, want %d",
				r.Name, r.TrainCM.Total(), results.TrainRows)
		}
	}

	// Only the linear family reports importance.
	for _, r := range results.Reports {
		hasImportance := len(r.Importance) > 0
		if r.Name == "svm" && !hasImportance {
			t.Error("svm report missing variable importance")
		}
		if r.Name == "knn" && hasImportance {
			t.Error("knn report has variable importance, want none")
		}
	}

	// Every row of both partitions appears once per model.
	if want := 2 * 70; len(results.Predictions) != want {
		t.Errorf("got %d prediction records, want %d", len(results.Predictions), want)
	}
	if len(results.Resamples) != 2 {
		t.Errorf("got %d resample summaries, want 2", len(results.Resamples))
	}
}

func TestRunnerDeterministic(t *testing.T) {
	path := writeFixtureCSV(t, 30, 25)
	run := func() *Results {
		runner, err := NewRunner(smallConfig(path), quietLogger())
		if err != nil {
			t.Fatalf("NewRunner() error = %v", err)
		}
		results, err := runner.Run(context.Background())
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		return results
	}

	a, b := run(), run()
	for i := range a.Reports {
		if !reflect.DeepEqual(a.Reports[i].BestPoint, b.Reports[i].BestPoint) {
			t.Errorf("%s: best points differ between identical runs: %v vs %v",
				a.Reports[i].Name, a.Reports[i].BestPoint, b.Reports[i].BestPoint)
		}
		if a.Reports[i].BestScore != b.Reports[i].BestScore {
			t.Errorf("%s: best scores differ: %v vs %v",
				a.Reports[i].Name, a.Reports[i].BestScore, b.Reports[i].BestScore)
		}
	}
	if !reflect.DeepEqual(a.Predictions, b.Predictions) {
		t.Error("prediction records differ between identical runs")
	}
}

func TestRunnerWritesArtifacts(t *testing.T) {
	path := writeFixtureCSV(t, 30, 25)
	cfg := smallConfig(path)
	cfg.OutDir = filepath.Join(t.TempDir(), "out")
	cfg.EnabledModels = []string{"knn"}

	runner, err := NewRunner(cfg, quietLogger())
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for _, name := range []string{"summary.txt", "predictions.csv", "roc.png"} {
		info, err := os.Stat(filepath.Join(cfg.OutDir, name))
		if err != nil {
			t.Errorf("artifact %s missing: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("artifact %s is empty", name)
		}
	}
}

func TestRunnerCancelled(t *testing.T) {
	path := writeFixtureCSV(t, 30, 25)
	runner, err := NewRunner(smallConfig(path), quietLogger())
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := runner.Run(ctx); err == nil {
		t.Error("Run() expected error for a cancelled context")
	}
}

func TestNewRunnerRejectsBadConfig(t *testing.T) {
	cfg := NewConfig("")
	if _, err := NewRunner(cfg, quietLogger()); err == nil {
		t.Error("NewRunner() expected error for invalid config")
	}
}
