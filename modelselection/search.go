package modelselection

import (
	"log/slog"
	"math"
	"sync/atomic"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cytobench/core/model"
	"github.com/YuminosukeSato/cytobench/core/parallel"
	"github.com/YuminosukeSato/cytobench/dataset"
	"github.com/YuminosukeSato/cytobench/metrics"
	"github.com/YuminosukeSato/cytobench/pkg/errors"
	"github.com/YuminosukeSato/cytobench/pkg/log"
	"github.com/YuminosukeSato/cytobench/preprocessing"
)

// GridSearchCV tunes one model family with repeated stratified k-fold
// cross-validation, selecting the grid point with the highest mean ROC
// AUC. The preprocessing pipeline prototype is cloned and refitted
// inside every fold, so fold statistics never see test rows.
type GridSearchCV struct {
	Spec     ModelSpec
	Pipeline *preprocessing.Pipeline
	NSplits  int
	NRepeats int
	Seed     uint64
	Workers  int

	logger *slog.Logger
	nFits  atomic.Int64
}

// GridSearchOption configures a GridSearchCV.
type GridSearchOption func(*GridSearchCV)

// WithWorkers caps the number of concurrent fold fits. Zero or negative
// uses one worker per CPU.
func WithWorkers(workers int) GridSearchOption {
	return func(gs *GridSearchCV) { gs.Workers = workers }
}

// WithLogger replaces the default logger.
func WithLogger(logger *slog.Logger) GridSearchOption {
	return func(gs *GridSearchCV) { gs.logger = logger }
}

// NewGridSearchCV builds a tuner for one model family. nSplits and
// nRepeats below their minimums fall back to 5 and 10.
func NewGridSearchCV(spec ModelSpec, pipeline *preprocessing.Pipeline, nSplits, nRepeats int, seed uint64, opts ...GridSearchOption) *GridSearchCV {
	if nSplits < 2 {
		nSplits = 5
	}
	if nRepeats < 1 {
		nRepeats = 10
	}
	gs := &GridSearchCV{
		Spec:     spec,
		Pipeline: pipeline,
		NSplits:  nSplits,
		NRepeats: nRepeats,
		Seed:     seed,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(gs)
	}
	return gs
}

// SearchResult carries everything downstream reporting needs: the
// winning point, the per-unit score log, and a model plus pipeline
// refitted on the full training table.
type SearchResult struct {
	ModelName  string
	BestIndex  int
	BestPoint  ParamPoint
	BestScore  float64
	MeanScores []float64 // one mean per grid point, NaN when every unit failed

	// Scores[g][u] is grid point g's metric on resampling unit u,
	// u = repeat*NSplits + fold. NaN marks a failed or degenerate fit.
	Scores [][]float64

	FinalModel    model.Classifier
	FinalPipeline *preprocessing.Pipeline
	NFits         int
}

// BestResamples returns the winning grid point's per-unit scores, the
// input for the cross-model resample comparison.
func (r *SearchResult) BestResamples() []float64 {
	return r.Scores[r.BestIndex]
}

// NFits reports how many model fits have run so far: one per
// (grid point, repeat, fold) unit plus one final refit.
func (gs *GridSearchCV) NFits() int {
	return int(gs.nFits.Load())
}

// Run tunes the grid on features X and labels y, then refits the best
// point on all rows.
func (gs *GridSearchCV) Run(X mat.Matrix, y []int) (*SearchResult, error) {
	nSamples, _ := X.Dims()
	if nSamples != len(y) {
		return nil, errors.NewDimensionError("GridSearchCV.Run", nSamples, len(y), 0)
	}
	if len(gs.Spec.Grid) == 0 {
		return nil, errors.NewValueError("GridSearchCV.Run", "empty parameter grid")
	}

	splitter := NewRepeatedStratifiedKFold(gs.NSplits, gs.NRepeats, gs.Seed)
	folds, err := splitter.Split(y)
	if err != nil {
		return nil, err
	}

	// One prototype per grid point, built up front so a malformed grid
	// fails before any fold work starts. Cells clone their prototype.
	prototypes := make([]model.Classifier, len(gs.Spec.Grid))
	for g, point := range gs.Spec.Grid {
		prototypes[g], err = gs.Spec.Build(point)
		if err != nil {
			return nil, err
		}
	}

	nGrid := len(gs.Spec.Grid)
	nUnits := len(folds)
	scores := make([][]float64, nGrid)
	for g := range scores {
		scores[g] = make([]float64, nUnits)
	}

	gs.logger.Info("grid search started",
		slog.String(log.ModelNameKey, gs.Spec.Name),
		slog.Int("grid_points", nGrid),
		slog.Int("folds", gs.NSplits),
		slog.Int("repeats", gs.NRepeats),
		slog.Uint64(log.SeedKey, gs.Seed))

	// One task per (grid point, unit) cell. Each cell writes only its
	// own preallocated slot, so no locking is needed.
	total := nGrid * nUnits
	parallel.ParallelizeWorkers(gs.Workers, total, func(start, end int) {
		for cell := start; cell < end; cell++ {
			g, u := cell/nUnits, cell%nUnits
			scores[g][u] = gs.scoreCell(X, y, prototypes[g], gs.Spec.Grid[g], &folds[u])
		}
	})

	means := make([]float64, nGrid)
	for g := range means {
		means[g] = nanMean(scores[g])
	}

	bestIdx := -1
	for g, m := range means {
		if math.IsNaN(m) {
			continue
		}
		// Strict comparison keeps the earliest point on ties.
		if bestIdx < 0 || m > means[bestIdx] {
			bestIdx = g
		}
	}
	if bestIdx < 0 {
		return nil, errors.NewModelError("GridSearchCV.Run", gs.Spec.Name,
			errors.New("every grid point failed on every resampling unit"))
	}

	finalPipeline := gs.Pipeline.Clone()
	Xfinal, err := finalPipeline.FitTransform(X)
	if err != nil {
		return nil, errors.Wrap(err, "final preprocessing fit")
	}
	finalModel, err := gs.Spec.Build(gs.Spec.Grid[bestIdx])
	if err != nil {
		return nil, err
	}
	if err := finalModel.Fit(Xfinal, y); err != nil {
		return nil, errors.Wrap(err, "final model fit")
	}
	gs.nFits.Add(1)

	gs.logger.Info("grid search finished",
		slog.String(log.ModelNameKey, gs.Spec.Name),
		slog.String(log.GridPointKey, gs.Spec.Grid[bestIdx].String()),
		slog.String(log.MetricNameKey, "roc_auc"),
		slog.Float64(log.MetricValueKey, means[bestIdx]),
		slog.Int("fits", gs.NFits()))

	return &SearchResult{
		ModelName:     gs.Spec.Name,
		BestIndex:     bestIdx,
		BestPoint:     gs.Spec.Grid[bestIdx],
		BestScore:     means[bestIdx],
		MeanScores:    means,
		Scores:        scores,
		FinalModel:    finalModel,
		FinalPipeline: finalPipeline,
		NFits:         gs.NFits(),
	}, nil
}

// scoreCell fits one grid point on one fold and returns its ROC AUC on
// the held-out rows, or NaN when the fit fails or the fold is
// degenerate. Panics inside a fit are converted to errors so one bad
// cell cannot take down the whole search.
func (gs *GridSearchCV) scoreCell(X mat.Matrix, y []int, proto model.Classifier, point ParamPoint, fold *CVFold) float64 {
	var score float64
	err := errors.SafeExecute("grid search cell", func() error {
		trainX := takeRows(X, fold.TrainIndices)
		trainY := takeLabels(y, fold.TrainIndices)
		testX := takeRows(X, fold.TestIndices)
		testY := takeLabels(y, fold.TestIndices)

		// Both sides must carry both classes: a one-class training set
		// cannot fit a binary model, and a one-class test set has no
		// defined ROC, so either way the cell is recorded as missing.
		if c, missing := missingClass(trainY); missing {
			return errors.NewDegenerateFoldError(fold.Repeat, fold.Fold, dataset.ClassNames[c])
		}
		if c, missing := missingClass(testY); missing {
			return errors.NewDegenerateFoldError(fold.Repeat, fold.Fold, dataset.ClassNames[c])
		}

		pipe := gs.Pipeline.Clone()
		trainXt, err := pipe.FitTransform(trainX)
		if err != nil {
			return err
		}
		testXt, err := pipe.Transform(testX)
		if err != nil {
			return err
		}

		clf := cloneClassifier(proto)
		if err := clf.Fit(trainXt, trainY); err != nil {
			return err
		}
		gs.nFits.Add(1)

		probs, err := clf.PredictProba(testXt)
		if err != nil {
			return err
		}
		posScores, err := positiveColumn(clf, probs)
		if err != nil {
			return err
		}

		labels := make([]float64, len(testY))
		for i, l := range testY {
			labels[i] = float64(l)
		}
		score, err = metrics.AUC(posScores, labels)
		return err
	})
	if err != nil {
		gs.logger.Warn("resampling unit skipped",
			slog.String(log.ModelNameKey, gs.Spec.Name),
			slog.String(log.GridPointKey, point.String()),
			slog.Int(log.RepeatKey, fold.Repeat),
			slog.Int(log.FoldKey, fold.Fold),
			log.ErrAttr(err))
		return math.NaN()
	}
	return score
}

// cloneClassifier returns an unfitted instance safe for a concurrent
// fold fit. Every built-in family implements Cloner; a family that does
// not is reused directly and must then be stateless across fits.
func cloneClassifier(proto model.Classifier) model.Classifier {
	if c, ok := proto.(model.Cloner); ok {
		return c.CloneUnfitted()
	}
	return proto
}

// positiveColumn extracts the probability of class 1 for every row.
func positiveColumn(clf model.Classifier, probs mat.Matrix) ([]float64, error) {
	posCol := -1
	for j, c := range clf.Classes() {
		if c == 1 {
			posCol = j
			break
		}
	}
	if posCol < 0 {
		return nil, errors.NewValueError("positiveColumn", "model saw no positive class")
	}

	rows, _ := probs.Dims()
	out := make([]float64, rows)
	for i := range out {
		out[i] = probs.At(i, posCol)
	}
	return out, nil
}

// missingClass reports whether one of the two classes is absent.
func missingClass(labels []int) (int, bool) {
	var seen [2]bool
	for _, l := range labels {
		if l >= 0 && l < 2 {
			seen[l] = true
		}
	}
	for c, ok := range seen {
		if !ok {
			return c, true
		}
	}
	return 0, false
}

// nanMean averages the valid cells, returning NaN when none are valid.
func nanMean(values []float64) float64 {
	sum, n := 0.0, 0
	for _, v := range values {
		if !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

func takeRows(X mat.Matrix, indices []int) *mat.Dense {
	_, cols := X.Dims()
	out := mat.NewDense(len(indices), cols, nil)
	for i, row := range indices {
		for j := 0; j < cols; j++ {
			out.Set(i, j, X.At(row, j))
		}
	}
	return out
}

func takeLabels(y []int, indices []int) []int {
	out := make([]int, len(indices))
	for i, row := range indices {
		out[i] = y[row]
	}
	return out
}
