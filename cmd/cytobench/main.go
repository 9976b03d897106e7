// Command cytobench runs the cytology classification benchmark: it
// loads the specimen table, tunes the enabled model families under
// repeated stratified cross-validation, and prints the comparison
// report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/YuminosukeSato/cytobench/experiment"
	"github.com/YuminosukeSato/cytobench/pkg/log"
	"github.com/YuminosukeSato/cytobench/report"
)

func main() {
	dataPath := flag.String("data", "", "Path to the cytology CSV table")
	outDir := flag.String("out", "", "Directory for summary, predictions and ROC plot (empty skips files)")
	models := flag.String("models", strings.Join(experiment.DefaultModels, ","), "Comma-separated model families (knn|svm|nb)")
	trainFraction := flag.Float64("train-fraction", experiment.DefaultTrainFraction, "Fraction of rows held for training (0-1)")
	seed := flag.Uint64("seed", experiment.DefaultSeed, "Seed for the split and all cross-validation shuffles")
	folds := flag.Int("folds", experiment.DefaultFolds, "Cross-validation folds")
	repeats := flag.Int("repeats", experiment.DefaultRepeats, "Cross-validation repeats")
	workers := flag.Int("workers", 0, "Concurrent fold fits (0 = one per CPU)")
	logLevel := flag.String("log-level", "info", "Log level (debug|info|warn|error)")
	flag.Parse()

	log.SetupTextLogger(*logLevel)
	logger := slog.Default()

	cfg := experiment.NewConfig(*dataPath)
	cfg.OutDir = *outDir
	cfg.TrainFraction = *trainFraction
	cfg.Seed = *seed
	cfg.Folds = *folds
	cfg.Repeats = *repeats
	cfg.Workers = *workers
	if *models != "" {
		cfg.EnabledModels = strings.Split(*models, ",")
	}

	runner, err := experiment.NewRunner(cfg, logger)
	if err != nil {
		logger.Error("invalid configuration", log.ErrAttr(err))
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := runner.Run(ctx)
	if err != nil {
		logger.Error("run failed", log.ErrAttr(err))
		os.Exit(1)
	}

	if err := report.WriteText(os.Stdout, results.Reports); err != nil {
		logger.Error("report rendering failed", log.ErrAttr(err))
		os.Exit(1)
	}
	fmt.Println()
	report.WriteResampleTable(os.Stdout, results.Resamples)
}
