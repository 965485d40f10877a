// Package scorer is the serving facade over the engine. It loads the
// pipeline artifact lazily on first use, shares one loaded engine across
// all callers, and keeps load failures retryable so a training run that
// lands the artifact later makes the service healthy without a restart.
package scorer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/crimson-sun/tenure/internal/artifact"
	"github.com/crimson-sun/tenure/internal/engine"
	"github.com/crimson-sun/tenure/internal/model"
	"github.com/crimson-sun/tenure/internal/schema"
)

// ErrModelNotReady reports that no trained artifact exists yet. Callers
// map it to an unavailable response rather than a failure.
var ErrModelNotReady = errors.New("scorer: no trained model artifact available")

// Scorer scores employee records against the latest loaded artifact.
type Scorer struct {
	reg    *schema.Registry
	path   string
	logger *slog.Logger

	mu    sync.Mutex
	eng   atomic.Pointer[engine.Engine]
	loads atomic.Int64
}

// New creates a Scorer reading its artifact from path. Nothing is loaded
// until the first prediction or Ready call.
func New(reg *schema.Registry, path string, logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{reg: reg, path: path, logger: logger}
}

// Predict scores records in order. ids runs parallel to records and
// tags each prediction; the model never sees it. The batch is
// all-or-nothing: one bad record fails the whole call.
func (s *Scorer) Predict(ctx context.Context, records []model.Employee, ids []string) ([]model.Prediction, error) {
	if len(records) != len(ids) {
		return nil, fmt.Errorf("scorer: %d records but %d identifiers", len(records), len(ids))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	eng, err := s.engine()
	if err != nil {
		return nil, err
	}

	scores, err := eng.ScoreBatch(records)
	if err != nil {
		return nil, err
	}

	out := make([]model.Prediction, len(scores))
	for i, sc := range scores {
		out[i] = model.Prediction{
			EmployeeID:  ids[i],
			Probability: sc.Probability,
			Class:       sc.Class,
		}
	}
	return out, nil
}

// PredictOne scores a single record.
func (s *Scorer) PredictOne(ctx context.Context, rec model.Employee, id string) (model.Prediction, error) {
	preds, err := s.Predict(ctx, []model.Employee{rec}, []string{id})
	if err != nil {
		return model.Prediction{}, err
	}
	return preds[0], nil
}

// Ready reports whether a model is loaded or loadable right now.
func (s *Scorer) Ready() bool {
	_, err := s.engine()
	return err == nil
}

// Reload drops the cached engine so the next call loads the artifact
// fresh. Called after a training run replaces the file.
func (s *Scorer) Reload() {
	s.mu.Lock()
	s.eng.Store(nil)
	s.mu.Unlock()
}

// LoadCount reports how many times the artifact has been read from disk.
func (s *Scorer) LoadCount() int64 { return s.loads.Load() }

// Version returns the loaded model version, or false when nothing is
// loaded yet. Never triggers a load.
func (s *Scorer) Version() (uuid.UUID, bool) {
	eng := s.eng.Load()
	if eng == nil {
		return uuid.Nil, false
	}
	return eng.Version(), true
}

// engine returns the shared engine, loading the artifact at most once
// per missing-or-reloaded state. The double-checked lock keeps the hot
// path lock-free while serializing loads; a failed load leaves the
// pointer nil so the next call tries again.
func (s *Scorer) engine() (*engine.Engine, error) {
	if eng := s.eng.Load(); eng != nil {
		return eng, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if eng := s.eng.Load(); eng != nil {
		return eng, nil
	}

	pipe, err := artifact.Load(s.path)
	if err != nil {
		// Absent and unloadable artifacts look the same to callers:
		// retry once training lands a good one.
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrModelNotReady
		}
		return nil, fmt.Errorf("%w: %w", ErrModelNotReady, err)
	}
	s.loads.Add(1)

	eng := engine.New(s.reg, pipe)
	s.eng.Store(eng)
	s.logger.Info("model artifact loaded",
		"path", s.path,
		"version", pipe.Version.String(),
		"trained_at", pipe.TrainedAt,
		"features", len(pipe.FeatureNames))
	return eng, nil
}
