// Package cleaner normalizes raw HR records into the canonical shape the
// encoder expects: numeric 0/1 target instead of label text, binary
// features mapped to floats, percentage strings parsed, administrative
// columns dropped, exact duplicates removed. The same cleaner runs at
// training and at inference time; the only difference is the label
// policy, controlled by Mode.
package cleaner

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/crimson-sun/tenure/internal/frame"
	"github.com/crimson-sun/tenure/internal/schema"
)

// Mode selects the label policy.
type Mode int

const (
	// Training requires the label and identifier columns; their absence
	// is a configuration error, not a data-quality issue.
	Training Mode = iota

	// Inference expects no label column and injects a placeholder
	// target so downstream logic is uniform with the training path.
	Inference
)

var (
	// ErrMissingLabel is returned when a training table carries neither
	// the textual label nor an already-derived numeric target.
	ErrMissingLabel = errors.New("cleaner: training data has no attrition label column")

	// ErrMissingID is returned when a training table has no employee
	// identifier column at all.
	ErrMissingID = errors.New("cleaner: training data has no identifier column")
)

// Report counts the recoverable data-quality issues encountered during a
// clean pass. None of them abort processing; affected cells become nulls
// and are imputed later by the encoder.
type Report struct {
	UnmappedLabels    int
	UnmappedBinary    map[string]int
	UnparsedPercents  map[string]int
	UnparsedNumerics  map[string]int
	DuplicatesDropped int
}

// Total returns the combined issue count across all categories.
func (r *Report) Total() int {
	n := r.UnmappedLabels + r.DuplicatesDropped
	for _, v := range r.UnmappedBinary {
		n += v
	}
	for _, v := range r.UnparsedPercents {
		n += v
	}
	for _, v := range r.UnparsedNumerics {
		n += v
	}
	return n
}

// Cleaner applies the canonicalization steps declared by the schema
// registry. Stateless and safe for concurrent use.
type Cleaner struct {
	reg *schema.Registry
}

// New creates a Cleaner over the given registry.
func New(reg *schema.Registry) *Cleaner {
	return &Cleaner{reg: reg}
}

// Clean canonicalizes a raw frame. The input is never mutated; all work
// happens on a deep copy. Recoverable issues are counted in the returned
// Report and logged; only structural problems (missing label or id in a
// training context) produce an error.
func (c *Cleaner) Clean(raw *frame.Frame, mode Mode) (*frame.Frame, *Report, error) {
	f := raw.Clone()
	rep := &Report{
		UnmappedBinary:   make(map[string]int),
		UnparsedPercents: make(map[string]int),
		UnparsedNumerics: make(map[string]int),
	}

	if mode == Training && !f.Has(schema.IDColumn) {
		return nil, nil, ErrMissingID
	}

	if err := c.deriveTarget(f, mode, rep); err != nil {
		return nil, nil, err
	}

	for _, feat := range c.reg.Features() {
		col, ok := f.Column(feat.Name)
		if !ok {
			continue
		}
		switch {
		case feat.Kind == schema.Binary && col.Type == frame.String:
			c.mapBinary(f, feat, col, rep)
		case feat.Kind == schema.Numeric && feat.Percent && col.Type == frame.String:
			c.parsePercent(f, feat.Name, col, rep)
		case feat.Kind == schema.Numeric && col.Type == frame.String:
			c.parseNumeric(f, feat.Name, col, rep)
		case feat.Kind == schema.Nominal || feat.Kind == schema.Ordinal:
			if col.Type == frame.String {
				normalizeStrings(col)
			}
		}
	}

	f.Drop(c.reg.DropList()...)

	if mode == Training {
		dropDuplicates(f, rep)
	}

	if n := rep.Total(); n > 0 {
		slog.Warn("cleaner: data-quality issues",
			"total", n,
			"unmapped_labels", rep.UnmappedLabels,
			"duplicates_dropped", rep.DuplicatesDropped)
	}
	return f, rep, nil
}

// deriveTarget converts the textual label to the numeric target, or
// injects a placeholder in inference mode. Unmapped label text becomes a
// null, never a silent zero.
func (c *Cleaner) deriveTarget(f *frame.Frame, mode Mode, rep *Report) error {
	if f.Has(schema.TargetColumn) {
		// Already canonical (e.g. data read back from the historical
		// store). The textual label, if still around, is redundant.
		f.Drop(schema.LabelColumn)
		return nil
	}

	col, ok := f.Column(schema.LabelColumn)
	if !ok {
		if mode == Training {
			return ErrMissingLabel
		}
		// Placeholder value, same for every row; it never reaches the
		// model, the scorer drops the target before transforming.
		placeholder := make([]float64, f.NumRows())
		return f.AddFloats(schema.TargetColumn, placeholder, nil)
	}
	if col.Type != frame.String {
		return fmt.Errorf("cleaner: label column %q is not text", schema.LabelColumn)
	}

	vals := make([]float64, f.NumRows())
	null := make([]bool, f.NumRows())
	for i := 0; i < f.NumRows(); i++ {
		s, present := col.Str(i)
		if !present {
			null[i] = true
			continue
		}
		v, ok := schema.LabelMapping[canonical(s)]
		if !ok {
			null[i] = true
			rep.UnmappedLabels++
			continue
		}
		vals[i] = v
	}
	if err := f.AddFloats(schema.TargetColumn, vals, null); err != nil {
		return err
	}
	f.Drop(schema.LabelColumn)
	return nil
}

func (c *Cleaner) mapBinary(f *frame.Frame, feat schema.Feature, col *frame.Column, rep *Report) {
	vals := make([]float64, col.Len())
	null := make([]bool, col.Len())
	for i := 0; i < col.Len(); i++ {
		s, present := col.Str(i)
		if !present {
			null[i] = true
			continue
		}
		v, ok := feat.Mapping[canonical(s)]
		if !ok {
			null[i] = true
			rep.UnmappedBinary[feat.Name]++
			continue
		}
		vals[i] = v
	}
	// SetFloats on a present column cannot fail.
	_ = f.SetFloats(feat.Name, vals, null)
}

// parsePercent converts "NN %" text to a float percentage. Unparseable
// cells become nulls and are counted, never raised.
func (c *Cleaner) parsePercent(f *frame.Frame, name string, col *frame.Column, rep *Report) {
	vals := make([]float64, col.Len())
	null := make([]bool, col.Len())
	for i := 0; i < col.Len(); i++ {
		s, present := col.Str(i)
		if !present {
			null[i] = true
			continue
		}
		s = strings.TrimSpace(strings.TrimSuffix(canonical(s), "%"))
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			null[i] = true
			rep.UnparsedPercents[name]++
			continue
		}
		vals[i] = v
	}
	_ = f.SetFloats(name, vals, null)
}

// parseNumeric coerces a declared-numeric column that arrived as text
// (the CSV ingestion path) into floats.
func (c *Cleaner) parseNumeric(f *frame.Frame, name string, col *frame.Column, rep *Report) {
	vals := make([]float64, col.Len())
	null := make([]bool, col.Len())
	for i := 0; i < col.Len(); i++ {
		s, present := col.Str(i)
		if !present {
			null[i] = true
			continue
		}
		s = canonical(s)
		if s == "" || s == "NA" || s == "NaN" {
			null[i] = true
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			null[i] = true
			rep.UnparsedNumerics[name]++
			continue
		}
		vals[i] = v
	}
	_ = f.SetFloats(name, vals, null)
}

// dropDuplicates removes exact-duplicate rows, keeping first occurrences.
func dropDuplicates(f *frame.Frame, rep *Report) {
	seen := make(map[string]bool, f.NumRows())
	keep := make([]int, 0, f.NumRows())
	for i := 0; i < f.NumRows(); i++ {
		key := f.RowKey(i)
		if seen[key] {
			rep.DuplicatesDropped++
			continue
		}
		seen[key] = true
		keep = append(keep, i)
	}
	if rep.DuplicatesDropped == 0 {
		return
	}
	*f = *f.Take(keep)
}

// normalizeStrings canonicalizes every present cell of a string column.
func normalizeStrings(col *frame.Column) {
	for i, s := range col.Strings {
		if !col.Null[i] {
			col.Strings[i] = canonical(s)
		}
	}
}

// canonical trims surrounding whitespace and applies NFC normalization so
// that vocabulary lookups don't depend on how the client composed its
// accented characters.
func canonical(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
