// Package postgres loads the consolidated employee table from a
// PostgreSQL database and records prediction audit rows. It assumes the
// HR extracts have already been ingested into one wide table.
package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crimson-sun/tenure/internal/audit"
	"github.com/crimson-sun/tenure/internal/frame"
	"github.com/crimson-sun/tenure/internal/store"
)

// DefaultTable is the consolidated employee table written by ingest.
const DefaultTable = "employees"

func init() {
	store.Register("postgres", func(ctx context.Context, cfg store.Config) (store.Source, error) {
		table := cfg.Table
		if table == "" {
			table = DefaultTable
		}
		return Open(ctx, cfg.DSN, table)
	})
}

// Store is a database-backed employee source.
type Store struct {
	pool  *pgxpool.Pool
	table string
}

// Open connects to the database and verifies the connection.
func Open(ctx context.Context, dsn, table string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return &Store{pool: pool, table: table}, nil
}

// NewWithPool wraps an existing pool. The caller keeps ownership of the
// pool's lifecycle.
func NewWithPool(pool *pgxpool.Pool, table string) *Store {
	return &Store{pool: pool, table: table}
}

// Load fetches the whole employee table as a column frame. Numeric
// database types become float columns, everything else loads as
// strings; NULLs become frame nulls either way.
func (s *Store) Load(ctx context.Context) (*frame.Frame, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`SELECT * FROM %s`, s.table))
	if err != nil {
		return nil, fmt.Errorf("postgres: query %s: %w", s.table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	names := make([]string, len(fields))
	for i, fd := range fields {
		names[i] = fd.Name
	}

	cells := make([][]any, len(fields))
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		for c, v := range vals {
			cells[c] = append(cells[c], v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate %s: %w", s.table, err)
	}

	f := frame.New()
	for c, name := range names {
		if err := addColumn(f, name, cells[c]); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// AuditTable receives one row per served prediction.
const AuditTable = "api_prediction_logs"

// WriteAudit inserts a prediction audit row. Failures here must never
// fail the prediction that produced them; callers log and move on.
func (s *Store) WriteAudit(ctx context.Context, id string, modelVersion uuid.UUID, input []byte, probability float64, class int, outcome string, at time.Time) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (employee_id, model_version, input, probability, predicted_class, outcome, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, AuditTable)
	var payload any
	if len(input) > 0 {
		payload = string(input)
	}
	_, err := s.pool.Exec(ctx, query, id, modelVersion, payload, probability, class, outcome, at)
	if err != nil {
		return fmt.Errorf("postgres: insert audit row: %w", err)
	}
	return nil
}

// Ingest appends every row of a raw extract frame to the employee
// table. Used by the ingest job after the csvfile source has merged the
// extracts. Returns the number of rows written.
func (s *Store) Ingest(ctx context.Context, f *frame.Frame) (int64, error) {
	names := f.Names()
	if len(names) == 0 || f.NumRows() == 0 {
		return 0, nil
	}

	cols := make([]string, len(names))
	args := make([]string, len(names))
	for i, n := range names {
		cols[i] = n
		args[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		s.table, strings.Join(cols, ", "), strings.Join(args, ", "))

	batch := &pgx.Batch{}
	for r := 0; r < f.NumRows(); r++ {
		vals := make([]any, len(names))
		for c, n := range names {
			col, _ := f.Column(n)
			vals[c] = cell(col, r)
		}
		batch.Queue(query, vals...)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()
	for r := 0; r < f.NumRows(); r++ {
		if _, err := br.Exec(); err != nil {
			return int64(r), fmt.Errorf("postgres: ingest row %d: %w", r, err)
		}
	}
	return int64(f.NumRows()), nil
}

func cell(col *frame.Column, i int) any {
	if col.IsNull(i) {
		return nil
	}
	if col.Type == frame.Float {
		v, _ := col.Float(i)
		return v
	}
	v, _ := col.Str(i)
	return v
}

// AuditSink adapts the store into an audit.Sink writing to the
// prediction log table.
type AuditSink struct {
	s *Store
}

// Audit returns a sink backed by this store's connection pool.
func (s *Store) Audit() *AuditSink {
	return &AuditSink{s: s}
}

// Write inserts one audit row.
func (a *AuditSink) Write(ctx context.Context, rec audit.Record) error {
	version := uuid.Nil
	if rec.ModelVersion != "" {
		v, err := uuid.Parse(rec.ModelVersion)
		if err != nil {
			return fmt.Errorf("postgres: audit model version: %w", err)
		}
		version = v
	}
	return a.s.WriteAudit(ctx, rec.EmployeeID, version, rec.Input, rec.Probability, rec.Class, string(rec.Outcome), rec.Time)
}

// Close is a no-op; the owning Store closes the pool.
func (a *AuditSink) Close() error { return nil }

// addColumn types a result column from its values: all-numeric columns
// become floats, anything else round-trips as text.
func addColumn(f *frame.Frame, name string, vals []any) error {
	floats := make([]float64, len(vals))
	null := make([]bool, len(vals))
	numeric := true
	for i, v := range vals {
		if v == nil {
			null[i] = true
			continue
		}
		fv, ok := toFloat(v)
		if !ok {
			numeric = false
			break
		}
		floats[i] = fv
	}
	if numeric {
		return f.AddFloats(name, floats, null)
	}

	strs := make([]string, len(vals))
	for i, v := range vals {
		if v == nil {
			null[i] = true
			continue
		}
		null[i] = false
		strs[i] = fmt.Sprint(v)
	}
	return f.AddStrings(name, strs, null)
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case string:
		fv, err := strconv.ParseFloat(x, 64)
		return fv, err == nil
	default:
		return 0, false
	}
}
