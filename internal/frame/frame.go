// Package frame implements a small column-oriented table with per-cell
// null tracking. It is the data structure handed between the cleaner,
// the encoder and the trainer: string columns for raw categorical text,
// float64 columns for everything numeric, and an explicit null mask so
// missing values survive type conversions instead of collapsing to zero.
package frame

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Type discriminates the physical storage of a column.
type Type int

const (
	String Type = iota
	Float
)

// Column is a single named column. Exactly one of Strings/Floats is
// populated, matching Type. Null has one entry per row.
type Column struct {
	Name    string
	Type    Type
	Strings []string
	Floats  []float64
	Null    []bool
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	if c.Type == String {
		return len(c.Strings)
	}
	return len(c.Floats)
}

// IsNull reports whether the cell at row i is missing.
func (c *Column) IsNull(i int) bool { return c.Null[i] }

// Float returns the float value at row i and whether it is present.
// Calling Float on a String column is a programming error.
func (c *Column) Float(i int) (float64, bool) {
	if c.Type != Float {
		panic(fmt.Sprintf("frame: Float on string column %q", c.Name))
	}
	if c.Null[i] {
		return 0, false
	}
	return c.Floats[i], true
}

// Str returns the string value at row i and whether it is present.
func (c *Column) Str(i int) (string, bool) {
	if c.Type != String {
		panic(fmt.Sprintf("frame: Str on float column %q", c.Name))
	}
	if c.Null[i] {
		return "", false
	}
	return c.Strings[i], true
}

func (c *Column) clone() *Column {
	out := &Column{Name: c.Name, Type: c.Type}
	out.Null = append([]bool(nil), c.Null...)
	if c.Type == String {
		out.Strings = append([]string(nil), c.Strings...)
	} else {
		out.Floats = append([]float64(nil), c.Floats...)
	}
	return out
}

// Frame is an ordered collection of equal-length columns.
type Frame struct {
	cols  []*Column
	index map[string]int
	rows  int
}

// New creates an empty frame.
func New() *Frame {
	return &Frame{index: make(map[string]int)}
}

// NumRows returns the row count.
func (f *Frame) NumRows() int { return f.rows }

// NumCols returns the column count.
func (f *Frame) NumCols() int { return len(f.cols) }

// Names returns the column names in insertion order.
func (f *Frame) Names() []string {
	out := make([]string, len(f.cols))
	for i, c := range f.cols {
		out[i] = c.Name
	}
	return out
}

// Has reports whether the frame contains a column with the given name.
func (f *Frame) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Column returns the named column, or false when absent.
func (f *Frame) Column(name string) (*Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.cols[i], true
}

func (f *Frame) add(c *Column) error {
	if _, dup := f.index[c.Name]; dup {
		return fmt.Errorf("frame: duplicate column %q", c.Name)
	}
	if len(f.cols) > 0 && c.Len() != f.rows {
		return fmt.Errorf("frame: column %q has %d rows, frame has %d", c.Name, c.Len(), f.rows)
	}
	if len(f.cols) == 0 {
		f.rows = c.Len()
	}
	if c.Null == nil {
		c.Null = make([]bool, c.Len())
	}
	if len(c.Null) != c.Len() {
		return fmt.Errorf("frame: column %q null mask has %d entries, want %d", c.Name, len(c.Null), c.Len())
	}
	f.index[c.Name] = len(f.cols)
	f.cols = append(f.cols, c)
	return nil
}

// AddStrings appends a string column. A nil null mask means no missing
// values; empty strings are NOT treated as nulls automatically.
func (f *Frame) AddStrings(name string, vals []string, null []bool) error {
	return f.add(&Column{Name: name, Type: String, Strings: vals, Null: null})
}

// AddFloats appends a float64 column.
func (f *Frame) AddFloats(name string, vals []float64, null []bool) error {
	return f.add(&Column{Name: name, Type: Float, Floats: vals, Null: null})
}

// SetFloats replaces an existing column with a float column of the same
// name, preserving its position. Used when cleaning converts a raw string
// column (label text, percentages, binary values) to numbers.
func (f *Frame) SetFloats(name string, vals []float64, null []bool) error {
	i, ok := f.index[name]
	if !ok {
		return fmt.Errorf("frame: no column %q to replace", name)
	}
	if len(vals) != f.rows {
		return fmt.Errorf("frame: replacement for %q has %d rows, frame has %d", name, len(vals), f.rows)
	}
	if null == nil {
		null = make([]bool, f.rows)
	}
	f.cols[i] = &Column{Name: name, Type: Float, Floats: vals, Null: null}
	return nil
}

// Drop removes the named columns. Unknown names are ignored.
func (f *Frame) Drop(names ...string) {
	doomed := make(map[string]bool, len(names))
	for _, n := range names {
		doomed[n] = true
	}
	kept := f.cols[:0]
	for _, c := range f.cols {
		if !doomed[c.Name] {
			kept = append(kept, c)
		}
	}
	f.cols = kept
	f.index = make(map[string]int, len(f.cols))
	for i, c := range f.cols {
		f.index[c.Name] = i
	}
	if len(f.cols) == 0 {
		f.rows = 0
	}
}

// Clone returns a deep copy. Mutating the clone never touches the
// original; the cleaner relies on this for its defensive-copy contract.
func (f *Frame) Clone() *Frame {
	out := New()
	for _, c := range f.cols {
		if err := out.add(c.clone()); err != nil {
			panic(err) // cannot happen: source frame is consistent
		}
	}
	return out
}

// Take returns a new frame containing the given rows, in the given order.
// Row indices may repeat.
func (f *Frame) Take(rows []int) *Frame {
	out := New()
	for _, c := range f.cols {
		nc := &Column{Name: c.Name, Type: c.Type, Null: make([]bool, len(rows))}
		if c.Type == String {
			nc.Strings = make([]string, len(rows))
			for j, i := range rows {
				nc.Strings[j] = c.Strings[i]
				nc.Null[j] = c.Null[i]
			}
		} else {
			nc.Floats = make([]float64, len(rows))
			for j, i := range rows {
				nc.Floats[j] = c.Floats[i]
				nc.Null[j] = c.Null[i]
			}
		}
		if err := out.add(nc); err != nil {
			panic(err)
		}
	}
	return out
}

// RowKey returns a canonical textual rendering of row i across all
// columns, used for exact-duplicate detection.
func (f *Frame) RowKey(i int) string {
	key := make([]byte, 0, 64)
	for _, c := range f.cols {
		if c.Null[i] {
			key = append(key, "\x00∅"...)
			continue
		}
		key = append(key, 0)
		if c.Type == String {
			key = append(key, c.Strings[i]...)
		} else {
			key = append(key, fmt.Sprintf("%g", c.Floats[i])...)
		}
	}
	return string(key)
}

// Matrix assembles the named float columns into a dense row-major matrix.
// Null cells are an error: by the time a matrix is needed, imputation
// must already have happened.
func (f *Frame) Matrix(cols []string) (*mat.Dense, error) {
	if f.rows == 0 || len(cols) == 0 {
		return nil, fmt.Errorf("frame: matrix over %d rows, %d columns", f.rows, len(cols))
	}
	m := mat.NewDense(f.rows, len(cols), nil)
	for j, name := range cols {
		c, ok := f.Column(name)
		if !ok {
			return nil, fmt.Errorf("frame: matrix column %q absent", name)
		}
		if c.Type != Float {
			return nil, fmt.Errorf("frame: matrix column %q is not numeric", name)
		}
		for i := 0; i < f.rows; i++ {
			if c.Null[i] {
				return nil, fmt.Errorf("frame: matrix column %q has a null at row %d", name, i)
			}
			m.Set(i, j, c.Floats[i])
		}
	}
	return m, nil
}
