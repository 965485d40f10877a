// Package engine orchestrates the clean, encode and score steps for a
// loaded pipeline artifact. It is stateless per call and safe for
// concurrent use once constructed.
package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/crimson-sun/tenure/internal/artifact"
	"github.com/crimson-sun/tenure/internal/engine/cleaner"
	"github.com/crimson-sun/tenure/internal/model"
	"github.com/crimson-sun/tenure/internal/schema"
)

// Score is the outcome for one employee record.
type Score struct {
	Probability float64
	Class       int
}

// Engine scores raw employee records through a fitted pipeline.
type Engine struct {
	reg   *schema.Registry
	clean *cleaner.Cleaner
	pipe  *artifact.Pipeline
}

// New wires a registry and a loaded artifact into a scoring engine.
func New(reg *schema.Registry, pipe *artifact.Pipeline) *Engine {
	return &Engine{
		reg:   reg,
		clean: cleaner.New(reg),
		pipe:  pipe,
	}
}

// Version reports which trained pipeline this engine serves.
func (e *Engine) Version() uuid.UUID { return e.pipe.Version }

// ScoreBatch scores records in input order. The whole batch shares one
// clean and encode pass; any failure rejects the entire batch, no
// partial results.
func (e *Engine) ScoreBatch(recs []model.Employee) ([]Score, error) {
	if len(recs) == 0 {
		return []Score{}, nil
	}

	f := model.FrameOf(recs)
	cleaned, _, err := e.clean.Clean(f, cleaner.Inference)
	if err != nil {
		return nil, fmt.Errorf("engine: clean batch: %w", err)
	}
	// The cleaner injects a placeholder target so inference tables match
	// the training shape. It is not a feature.
	cleaned.Drop(schema.TargetColumn, schema.IDColumn)

	X, err := e.pipe.Encoder.Transform(cleaned)
	if err != nil {
		return nil, fmt.Errorf("engine: encode batch: %w", err)
	}

	proba, err := e.pipe.Model.PredictProba(X)
	if err != nil {
		return nil, fmt.Errorf("engine: score batch: %w", err)
	}

	out := make([]Score, len(proba))
	for i, p := range proba {
		out[i] = Score{Probability: p}
		if p >= e.pipe.Model.Threshold {
			out[i].Class = 1
		}
	}
	return out, nil
}

// ScoreOne scores a single record.
func (e *Engine) ScoreOne(rec model.Employee) (Score, error) {
	scores, err := e.ScoreBatch([]model.Employee{rec})
	if err != nil {
		return Score{}, err
	}
	return scores[0], nil
}
