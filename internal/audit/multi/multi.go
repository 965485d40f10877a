// Package multi fans audit records out to several sinks. One failing
// sink does not stop delivery to the others.
package multi

import (
	"context"
	"errors"

	"github.com/crimson-sun/tenure/internal/audit"
)

// Multi delivers every record to every wrapped sink sequentially.
type Multi struct {
	sinks []audit.Sink
}

// New creates a Multi over the given sinks.
func New(sinks ...audit.Sink) *Multi {
	return &Multi{sinks: sinks}
}

// Write delivers the record to every sink, collecting errors.
func (m *Multi) Write(ctx context.Context, rec audit.Record) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Write(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink, collecting errors.
func (m *Multi) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
