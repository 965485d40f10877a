// Package artifact persists the fitted pipeline (encoder state plus
// model coefficients) as a single versioned JSON file. Training and
// serving only ever exchange whole artifacts, never partial state.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/crimson-sun/tenure/internal/engine/classifier"
	"github.com/crimson-sun/tenure/internal/engine/encoder"
)

// Pipeline is the unit of deployment: everything serving needs to score
// a raw record exactly as training did.
type Pipeline struct {
	Version      uuid.UUID              `json:"version"`
	TrainedAt    time.Time              `json:"trained_at"`
	Encoder      *encoder.Fitted        `json:"encoder"`
	Model        *classifier.Classifier `json:"model"`
	FeatureNames []string               `json:"feature_names"`
}

// New stamps a fitted encoder and model with a fresh version.
func New(enc *encoder.Fitted, model *classifier.Classifier) *Pipeline {
	return &Pipeline{
		Version:      uuid.New(),
		TrainedAt:    time.Now().UTC(),
		Encoder:      enc,
		Model:        model,
		FeatureNames: enc.FeatureNames(),
	}
}

// Save writes the pipeline to path atomically: the JSON goes to a temp
// file in the same directory, then a rename swaps it in. A crash mid-save
// never leaves a truncated artifact for a serving process to load.
func Save(p *Pipeline, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("artifact: create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("artifact: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		tmp.Close()
		return fmt.Errorf("artifact: encode: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("artifact: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("artifact: close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("artifact: rename into place: %w", err)
	}
	return nil
}

// Load reads and validates a pipeline from path. The caller distinguishes
// a missing artifact via errors.Is(err, os.ErrNotExist).
func Load(path string) (*Pipeline, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("artifact: read %s: %w", path, err)
	}
	var p Pipeline
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("artifact: decode %s: %w", path, err)
	}
	if err := validate(&p); err != nil {
		return nil, fmt.Errorf("artifact: %s: %w", path, err)
	}
	return &p, nil
}

func validate(p *Pipeline) error {
	if p.Encoder == nil {
		return fmt.Errorf("missing encoder state")
	}
	if p.Model == nil {
		return fmt.Errorf("missing model coefficients")
	}
	if got, want := len(p.Model.Weights), p.Encoder.Width(); got != want {
		return fmt.Errorf("model has %d weights but encoder emits %d features", got, want)
	}
	if p.Version == uuid.Nil {
		return fmt.Errorf("missing version")
	}
	return nil
}
