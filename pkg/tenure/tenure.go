package tenure

import (
	"context"
	"errors"
	"fmt"

	"github.com/crimson-sun/tenure/internal/model"
	"github.com/crimson-sun/tenure/internal/schema"
	"github.com/crimson-sun/tenure/internal/scorer"
)

// ErrModelNotReady is returned when no trained artifact exists at the
// configured path. Scoring becomes possible as soon as a training run
// writes one; no restart is needed.
var ErrModelNotReady = errors.New("tenure: no trained model artifact available")

// Tenure scores employee records for attrition risk. Safe for
// concurrent use; create once and reuse.
type Tenure struct {
	scorer *scorer.Scorer
}

// New creates a Tenure instance. The artifact is not read here; the
// first Score call (or Ready) loads it.
func New(opts ...Option) (*Tenure, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	path := resolvePath(o)
	if path == "" {
		return nil, fmt.Errorf("tenure: empty artifact path")
	}
	return &Tenure{scorer: scorer.New(schema.Default(), path, o.logger)}, nil
}

// Score scores a single employee record. id tags the result and never
// influences the score.
func (t *Tenure) Score(ctx context.Context, rec Employee, id string) (Prediction, error) {
	preds, err := t.ScoreBatch(ctx, []Employee{rec}, []string{id})
	if err != nil {
		return Prediction{}, err
	}
	return preds[0], nil
}

// ScoreBatch scores records in order, all-or-nothing. ids runs parallel
// to recs.
func (t *Tenure) ScoreBatch(ctx context.Context, recs []Employee, ids []string) ([]Prediction, error) {
	internal := make([]model.Employee, len(recs))
	for i, r := range recs {
		internal[i] = internalEmployee(r)
	}
	preds, err := t.scorer.Predict(ctx, internal, ids)
	if err != nil {
		if errors.Is(err, scorer.ErrModelNotReady) {
			return nil, ErrModelNotReady
		}
		return nil, err
	}
	out := make([]Prediction, len(preds))
	for i, p := range preds {
		out[i] = publicPrediction(p)
	}
	return out, nil
}

// Ready reports whether a trained model can serve scores right now.
func (t *Tenure) Ready() bool {
	return t.scorer.Ready()
}

// Reload drops the cached model so the next score reads the artifact
// fresh. Call after replacing the artifact file.
func (t *Tenure) Reload() {
	t.scorer.Reload()
}
