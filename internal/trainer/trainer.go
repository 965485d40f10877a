// Package trainer runs the end-to-end training job: load the raw table,
// clean it, hold out a stratified evaluation set, fit the encoder and
// model on the training partition only, evaluate on the holdout, and
// persist the pipeline artifact atomically.
package trainer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/crimson-sun/tenure/internal/artifact"
	"github.com/crimson-sun/tenure/internal/engine/classifier"
	"github.com/crimson-sun/tenure/internal/engine/cleaner"
	"github.com/crimson-sun/tenure/internal/engine/encoder"
	"github.com/crimson-sun/tenure/internal/engine/metrics"
	"github.com/crimson-sun/tenure/internal/frame"
	"github.com/crimson-sun/tenure/internal/schema"
	"github.com/crimson-sun/tenure/internal/store"
)

// Defaults for the holdout split. The seed is fixed so reruns over the
// same table are comparable.
const (
	DefaultTestFraction = 0.2
	DefaultSeed         = 42
)

// Config controls one training run.
type Config struct {
	ArtifactPath string
	TestFraction float64
	Seed         int64
	Model        classifier.Options
}

// Result summarizes a completed run.
type Result struct {
	RunID             uuid.UUID      `json:"run_id"`
	Version           uuid.UUID      `json:"version"`
	Rows              int            `json:"rows"`
	TrainRows         int            `json:"train_rows"`
	TestRows          int            `json:"test_rows"`
	DroppedNullLabels int            `json:"dropped_null_labels"`
	CleanIssues       int            `json:"clean_issues"`
	Evaluation        metrics.Report `json:"evaluation"`
	Duration          time.Duration  `json:"duration"`
}

// Trainer orchestrates training runs over one schema.
type Trainer struct {
	reg    *schema.Registry
	cfg    Config
	logger *slog.Logger
}

// New creates a Trainer. Zero config fields fall back to defaults.
func New(reg *schema.Registry, cfg Config, logger *slog.Logger) *Trainer {
	if cfg.TestFraction == 0 {
		cfg.TestFraction = DefaultTestFraction
	}
	if cfg.Seed == 0 {
		cfg.Seed = DefaultSeed
	}
	if cfg.Model.Epochs == 0 {
		cfg.Model = classifier.DefaultOptions()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Trainer{reg: reg, cfg: cfg, logger: logger}
}

// Run executes one training job against the given source and persists
// the artifact on success.
func (t *Trainer) Run(ctx context.Context, src store.Source) (*Result, error) {
	started := time.Now()
	runID := uuid.New()
	logger := t.logger.With("run_id", runID.String())
	logger.Info("training run started", "artifact_path", t.cfg.ArtifactPath)

	raw, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("trainer: load training data: %w", err)
	}
	logger.Info("raw table loaded", "rows", raw.NumRows(), "columns", raw.NumCols())

	cleaned, report, err := cleaner.New(t.reg).Clean(raw, cleaner.Training)
	if err != nil {
		return nil, fmt.Errorf("trainer: clean: %w", err)
	}

	cleaned, y, droppedNull := extractTarget(cleaned)
	if droppedNull > 0 {
		logger.Warn("rows without a usable label dropped", "count", droppedNull)
	}

	split, err := StratifiedSplit(y, t.cfg.TestFraction, t.cfg.Seed)
	if err != nil {
		return nil, err
	}

	feats := cleaned.Clone()
	feats.Drop(schema.TargetColumn, schema.IDColumn)
	trainFeats := feats.Take(split.Train)
	testFeats := feats.Take(split.Test)

	numeric, nominal, ordinal := t.reg.Partition(trainFeats.Names())
	XTrain, fitted, err := encoder.Fit(trainFeats, numeric, nominal, ordinal, t.reg.OrdinalOrders())
	if err != nil {
		return nil, fmt.Errorf("trainer: fit encoder: %w", err)
	}

	yTrain := take(y, split.Train)
	clf, err := classifier.Fit(XTrain, yTrain, t.cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("trainer: fit model: %w", err)
	}

	XTest, err := fitted.Transform(testFeats)
	if err != nil {
		return nil, fmt.Errorf("trainer: encode holdout: %w", err)
	}
	predTest, err := clf.Predict(XTest)
	if err != nil {
		return nil, fmt.Errorf("trainer: score holdout: %w", err)
	}
	eval, err := metrics.Evaluate(asInts(take(y, split.Test)), predTest)
	if err != nil {
		return nil, fmt.Errorf("trainer: evaluate holdout: %w", err)
	}

	pipe := artifact.New(fitted, clf)
	if err := artifact.Save(pipe, t.cfg.ArtifactPath); err != nil {
		return nil, fmt.Errorf("trainer: persist artifact: %w", err)
	}

	res := &Result{
		RunID:             runID,
		Version:           pipe.Version,
		Rows:              cleaned.NumRows(),
		TrainRows:         len(split.Train),
		TestRows:          len(split.Test),
		DroppedNullLabels: droppedNull,
		CleanIssues:       report.Total(),
		Evaluation:        eval,
		Duration:          time.Since(started),
	}
	logger.Info("training run finished",
		"version", pipe.Version.String(),
		"train_rows", res.TrainRows,
		"test_rows", res.TestRows,
		"clean_issues", res.CleanIssues,
		"accuracy", eval.Accuracy,
		"fbeta", eval.FBeta,
		"duration", res.Duration)
	return res, nil
}

// extractTarget pulls the numeric target out of the cleaned frame,
// dropping rows whose label did not map. Returns the filtered frame,
// the label vector and the count of dropped rows.
func extractTarget(f *frame.Frame) (*frame.Frame, []float64, int) {
	col, ok := f.Column(schema.TargetColumn)
	if !ok {
		return f, nil, 0
	}
	keep := make([]int, 0, col.Len())
	y := make([]float64, 0, col.Len())
	for i := 0; i < col.Len(); i++ {
		v, ok := col.Float(i)
		if !ok {
			continue
		}
		keep = append(keep, i)
		y = append(y, v)
	}
	dropped := col.Len() - len(keep)
	if dropped == 0 {
		return f, y, 0
	}
	return f.Take(keep), y, dropped
}

func take(y []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = y[j]
	}
	return out
}

func asInts(y []float64) []int {
	out := make([]int, len(y))
	for i, v := range y {
		out[i] = int(v)
	}
	return out
}
