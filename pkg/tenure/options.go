package tenure

import (
	"log/slog"
	"path/filepath"
)

type options struct {
	artifactDir  string
	artifactPath string
	logger       *slog.Logger
}

// Option configures a Tenure instance.
type Option func(*options)

// WithArtifactDir sets the directory holding the pipeline artifact.
// Expects: pipeline.json.
func WithArtifactDir(dir string) Option {
	return func(o *options) {
		o.artifactDir = dir
	}
}

// WithArtifactPath sets an explicit artifact file path, overriding
// WithArtifactDir.
func WithArtifactPath(path string) Option {
	return func(o *options) {
		o.artifactPath = path
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func defaultOptions() options {
	return options{}
}

// resolvePath determines the artifact path from the configured options.
func resolvePath(o options) string {
	if o.artifactPath != "" {
		return o.artifactPath
	}
	dir := o.artifactDir
	if dir == "" {
		dir = "models"
	}
	return filepath.Join(dir, "pipeline.json")
}
