// Package csvfile loads the raw employee table from the three HR CSV
// extracts: the core SIRH dump, the evaluation extract and the survey
// extract. The three files key their rows differently; rows are merged
// into one wide table per employee.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/crimson-sun/tenure/internal/frame"
	"github.com/crimson-sun/tenure/internal/schema"
	"github.com/crimson-sun/tenure/internal/store"
)

// Default extract file names as they arrive from the HR export job.
const (
	SIRHFile    = "extrait_sirh.csv"
	EvalFile    = "extrait_eval.csv"
	SondageFile = "extrait_sondage.csv"
)

// Key columns of the secondary extracts. Both embed the employee id
// behind a letter prefix; deriveKey recovers it for the join.
const (
	evalKey    = "eval_number"
	sondageKey = "code_sondage"
)

func init() {
	store.Register("csv", func(_ context.Context, cfg store.Config) (store.Source, error) {
		return New(cfg.Dir), nil
	})
}

// Source reads and merges the three extracts from one directory.
type Source struct {
	dir string
}

// New creates a Source over the given extract directory.
func New(dir string) *Source {
	return &Source{dir: dir}
}

// Load reads the three extracts and joins the evaluation and survey rows
// onto the SIRH rows by employee id. Employees absent from a secondary
// extract get nulls for its columns. All columns load as strings; the
// cleaner owns type coercion.
func (s *Source) Load(ctx context.Context) (*frame.Frame, error) {
	sirh, err := readExtract(filepath.Join(s.dir, SIRHFile))
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	eval, err := readExtract(filepath.Join(s.dir, EvalFile))
	if err != nil {
		return nil, err
	}
	sondage, err := readExtract(filepath.Join(s.dir, SondageFile))
	if err != nil {
		return nil, err
	}

	idIdx := sirh.columnIndex(schema.IDColumn)
	if idIdx < 0 {
		return nil, fmt.Errorf("csvfile: %s has no %s column", SIRHFile, schema.IDColumn)
	}

	evalByID, err := eval.indexBy(evalKey)
	if err != nil {
		return nil, err
	}
	sondageByID, err := sondage.indexBy(sondageKey)
	if err != nil {
		return nil, err
	}

	f := frame.New()
	for c, name := range sirh.header {
		vals := make([]string, len(sirh.rows))
		for r, row := range sirh.rows {
			vals[r] = row[c]
		}
		if err := f.AddStrings(name, vals, nil); err != nil {
			return nil, fmt.Errorf("csvfile: %w", err)
		}
	}
	if err := joinExtract(f, sirh, idIdx, eval, evalByID); err != nil {
		return nil, err
	}
	if err := joinExtract(f, sirh, idIdx, sondage, sondageByID); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Source) Close() error { return nil }

type extract struct {
	path   string
	header []string
	rows   [][]string
}

func readExtract(path string) (*extract, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csvfile: open extract: %w", err)
	}
	defer fh.Close()

	r := csv.NewReader(fh)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csvfile: parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csvfile: %s is empty", path)
	}
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}
	return &extract{path: path, header: header, rows: records[1:]}, nil
}

func (e *extract) columnIndex(name string) int {
	for i, h := range e.header {
		if h == name {
			return i
		}
	}
	return -1
}

func (e *extract) indexBy(key string) (map[string][]string, error) {
	idx := e.columnIndex(key)
	if idx < 0 {
		return nil, fmt.Errorf("csvfile: %s has no %s column", e.path, key)
	}
	byID := make(map[string][]string, len(e.rows))
	for _, row := range e.rows {
		byID[deriveKey(row[idx])] = row
	}
	return byID, nil
}

// joinExtract appends every column of ext to f, aligned to the SIRH row
// order via the employee id.
func joinExtract(f *frame.Frame, sirh *extract, idIdx int, ext *extract, byID map[string][]string) error {
	for c, name := range ext.header {
		vals := make([]string, len(sirh.rows))
		null := make([]bool, len(sirh.rows))
		for r, row := range sirh.rows {
			match, ok := byID[deriveKey(row[idIdx])]
			if !ok {
				null[r] = true
				continue
			}
			vals[r] = match[c]
		}
		if err := f.AddStrings(name, vals, null); err != nil {
			return fmt.Errorf("csvfile: merge %s: %w", ext.path, err)
		}
	}
	return nil
}

// deriveKey reduces an extract key to the bare employee id. The
// secondary extracts prefix the id ("E_1234", "S-1234"); only the
// digits join.
func deriveKey(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return strings.TrimSpace(raw)
	}
	return b.String()
}
