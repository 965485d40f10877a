// Package store abstracts where raw employee tables come from. Sources
// register themselves by provider name; callers open one by config and
// get back a column frame ready for cleaning.
package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/crimson-sun/tenure/internal/frame"
)

// Source loads a raw employee table from a backing system. Columns come
// back untyped (strings where the origin is textual); the cleaner owns
// coercion.
type Source interface {
	// Load fetches the full table.
	Load(ctx context.Context) (*frame.Frame, error)

	// Close releases any held connections.
	Close() error
}

// Config holds provider-specific settings for opening a source.
type Config struct {
	Provider string
	// DSN is the connection string for database-backed providers.
	DSN string
	// Dir is the extract directory for file-backed providers.
	Dir string
	// Table overrides the default table name for database providers.
	Table string
}

// Constructor opens a Source from its config.
type Constructor func(ctx context.Context, cfg Config) (Source, error)

var registry = map[string]Constructor{}

// Register adds a source constructor under the given provider name.
// Called from provider package init functions.
func Register(name string, ctor Constructor) {
	registry[name] = ctor
}

// Open builds the source named by cfg.Provider.
func Open(ctx context.Context, cfg Config) (Source, error) {
	ctor, ok := registry[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("store: unknown provider %q (have %v)", cfg.Provider, Providers())
	}
	return ctor(ctx, cfg)
}

// Providers returns the registered provider names, sorted.
func Providers() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
