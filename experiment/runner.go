package experiment

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/YuminosukeSato/cytobench/core/model"
	"github.com/YuminosukeSato/cytobench/dataset"
	"github.com/YuminosukeSato/cytobench/metrics"
	"github.com/YuminosukeSato/cytobench/modelselection"
	"github.com/YuminosukeSato/cytobench/pkg/errors"
	"github.com/YuminosukeSato/cytobench/pkg/log"
	"github.com/YuminosukeSato/cytobench/preprocessing"
	"github.com/YuminosukeSato/cytobench/report"
)

// imputeNeighbors is the neighbor count of the in-fold missing value
// imputer.
const imputeNeighbors = 5

// Results collects everything one run produced, for the CLI to render
// and for callers embedding the pipeline.
type Results struct {
	Reports     []report.ModelReport
	Resamples   []metrics.ResampleSummary
	Predictions []report.PredictionRecord
	TestROCs    map[string]*metrics.ROC
	TrainRows   int
	TestRows    int
}

// Runner executes one configured benchmark run.
type Runner struct {
	cfg    Config
	logger *slog.Logger
}

// NewRunner validates the config and builds a runner.
func NewRunner(cfg Config, logger *slog.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{cfg: cfg, logger: logger}, nil
}

// Run executes the pipeline end to end. The context is checked between
// model families, so cancellation takes effect at the next family
// boundary.
func (r *Runner) Run(ctx context.Context) (*Results, error) {
	started := time.Now()

	table, err := dataset.Load(r.cfg.DataPath)
	if err != nil {
		return nil, err
	}
	counts := table.ClassCounts()
	r.logger.Info("table loaded",
		slog.String("path", r.cfg.DataPath),
		slog.Int(log.SamplesKey, table.NumRows()),
		slog.Int(log.FeaturesKey, table.NumFeatures()),
		slog.Int("benign", counts[dataset.Benign]),
		slog.Int("malignant", counts[dataset.Malignant]),
		slog.Int("missing_cells", table.MissingCount()))

	part, err := dataset.TrainTestSplit(table.Labels, r.cfg.TrainFraction, r.cfg.Seed)
	if err != nil {
		return nil, err
	}
	train, err := table.Select(part.Train)
	if err != nil {
		return nil, err
	}
	test, err := table.Select(part.Test)
	if err != nil {
		return nil, err
	}
	r.logger.Info("partitioned",
		slog.Uint64(log.SeedKey, r.cfg.Seed),
		slog.Int("train_rows", train.NumRows()),
		slog.Int("test_rows", test.NumRows()))

	results := &Results{
		TestROCs:  map[string]*metrics.ROC{},
		TrainRows: train.NumRows(),
		TestRows:  test.NumRows(),
	}
	scoresByModel := map[string][]float64{}

	for _, name := range r.cfg.EnabledModels {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "run cancelled")
		}

		spec, err := modelselection.SpecByName(name)
		if err != nil {
			return nil, err
		}

		gs := modelselection.NewGridSearchCV(
			spec,
			preprocessing.NewStandardPipeline(imputeNeighbors),
			r.cfg.Folds,
			r.cfg.Repeats,
			r.cfg.Seed,
			modelselection.WithWorkers(r.cfg.Workers),
			modelselection.WithLogger(r.logger),
		)
		search, err := gs.Run(train.X, train.Labels)
		if err != nil {
			return nil, errors.Wrapf(err, "tuning %s", name)
		}

		modelReport, records, err := r.evaluate(name, search, train, test)
		if err != nil {
			return nil, errors.Wrapf(err, "evaluating %s", name)
		}

		results.Reports = append(results.Reports, modelReport)
		results.Predictions = append(results.Predictions, records...)
		results.TestROCs[name] = modelReport.TestROC
		scoresByModel[name] = search.BestResamples()
	}

	results.Resamples, err = metrics.SummarizeAll(scoresByModel)
	if err != nil {
		return nil, err
	}

	if r.cfg.OutDir != "" {
		if err := r.writeArtifacts(results); err != nil {
			return nil, err
		}
	}

	r.logger.Info("run finished",
		slog.Int("models", len(results.Reports)),
		slog.Int64(log.DurationMsKey, time.Since(started).Milliseconds()))
	return results, nil
}

// evaluate scores one tuned family on both partitions.
func (r *Runner) evaluate(name string, search *modelselection.SearchResult, train, test *dataset.Table) (report.ModelReport, []report.PredictionRecord, error) {
	trainRecords, err := report.Extract(search.FinalModel, search.FinalPipeline, train, name, "train")
	if err != nil {
		return report.ModelReport{}, nil, err
	}
	testRecords, err := report.Extract(search.FinalModel, search.FinalPipeline, test, name, "test")
	if err != nil {
		return report.ModelReport{}, nil, err
	}

	trainP, trainO := report.SplitRecords(trainRecords)
	trainCM, err := metrics.NewConfusionMatrix(trainP, trainO, dataset.ClassNames)
	if err != nil {
		return report.ModelReport{}, nil, err
	}
	testP, testO := report.SplitRecords(testRecords)
	testCM, err := metrics.NewConfusionMatrix(testP, testO, dataset.ClassNames)
	if err != nil {
		return report.ModelReport{}, nil, err
	}

	scores, labels := report.PositiveScores(testRecords)
	testROC, err := metrics.ROCCurve(scores, labels)
	if err != nil {
		return report.ModelReport{}, nil, err
	}

	summary, err := metrics.Summarize(name, search.BestResamples())
	if err != nil {
		return report.ModelReport{}, nil, err
	}

	var importance []metrics.Importance
	if wm, ok := search.FinalModel.(model.WeightedModel); ok {
		importance, err = metrics.VarImportance(wm.FeatureWeights(), dataset.FeatureNames)
		if err != nil {
			return report.ModelReport{}, nil, err
		}
	}

	r.logger.Info("family evaluated",
		slog.String(log.ModelNameKey, name),
		slog.String(log.GridPointKey, search.BestPoint.String()),
		slog.Float64("cv_auc", search.BestScore),
		slog.Float64("test_auc", testROC.AUC),
		slog.Float64("test_accuracy", testCM.Accuracy()))

	modelReport := report.ModelReport{
		Name:       name,
		BestPoint:  search.BestPoint,
		BestScore:  search.BestScore,
		Resamples:  summary,
		TrainCM:    trainCM,
		TestCM:     testCM,
		TestROC:    testROC,
		Importance: importance,
	}
	return modelReport, append(trainRecords, testRecords...), nil
}

// writeArtifacts emits the file outputs: the text summary, the
// prediction table, and the ROC plot.
func (r *Runner) writeArtifacts(results *Results) error {
	if err := os.MkdirAll(r.cfg.OutDir, 0o755); err != nil {
		return errors.Wrap(err, "create output directory")
	}

	summaryPath := filepath.Join(r.cfg.OutDir, "summary.txt")
	if err := withFile(summaryPath, func(w io.Writer) error {
		if err := report.WriteText(w, results.Reports); err != nil {
			return err
		}
		fmt.Fprintln(w)
		report.WriteResampleTable(w, results.Resamples)
		return nil
	}); err != nil {
		return err
	}

	predsPath := filepath.Join(r.cfg.OutDir, "predictions.csv")
	if err := withFile(predsPath, func(w io.Writer) error {
		return report.WritePredictionsCSV(w, results.Predictions)
	}); err != nil {
		return err
	}

	rocPath := filepath.Join(r.cfg.OutDir, "roc.png")
	if err := report.SaveROCPlot(rocPath, results.TestROCs); err != nil {
		return err
	}

	r.logger.Info("artifacts written", slog.String("dir", r.cfg.OutDir))
	return nil
}

func withFile(path string, fn func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return errors.WithStack(f.Close())
}
