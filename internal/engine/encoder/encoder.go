// Package encoder turns canonical frames into fixed-width numeric feature
// matrices. Columns are handled by statistical kind: numeric columns are
// median-imputed and standardized, nominal columns mode-imputed and
// one-hot encoded with the reference level dropped, ordinal columns
// mode-imputed and integer-encoded against their declared order. The fit
// and transform phases are strictly separated: everything learned from
// data is learned once, at fit time, and frozen into the Fitted value.
package encoder

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/crimson-sun/tenure/internal/frame"
)

// UnknownOrdinal is the code assigned to an ordinal value that was not in
// the declared order. It is distinct from every real rank (ranks start
// at 0) so the model can tell "unknown" apart from "lowest".
const UnknownOrdinal = -1

var errEmptyFit = errors.New("encoder: fit on an empty frame")

// NumericSpec is the frozen per-column state for a numeric feature:
// the imputation value and the standardization moments, all computed
// from the fit data only.
type NumericSpec struct {
	Name   string  `json:"name"`
	Median float64 `json:"median"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
}

// NominalSpec is the frozen state for a one-hot encoded feature. Levels
// are the categories observed at fit time, sorted; Levels[0] is the
// dropped reference level and produces no indicator column.
type NominalSpec struct {
	Name   string   `json:"name"`
	Mode   string   `json:"mode"`
	Levels []string `json:"levels"`
}

// OrdinalSpec is the frozen state for an ordinal feature. Order comes
// from the schema registry, never from the data.
type OrdinalSpec struct {
	Name  string   `json:"name"`
	Mode  string   `json:"mode"`
	Order []string `json:"order"`
}

// Fitted is the immutable result of fitting the encoder: the column
// transform assignment and everything needed to reproduce the exact
// feature layout at transform time. It serializes as part of the
// pipeline artifact.
type Fitted struct {
	Numeric []NumericSpec `json:"numeric"`
	Nominal []NominalSpec `json:"nominal"`
	Ordinal []OrdinalSpec `json:"ordinal"`
	Names   []string      `json:"feature_names"`
}

// Width returns the encoded feature vector width.
func (ft *Fitted) Width() int { return len(ft.Names) }

// FeatureNames returns the output column names in matrix order.
func (ft *Fitted) FeatureNames() []string {
	return append([]string(nil), ft.Names...)
}

// Fit learns the column transforms from the given frame and returns the
// encoded training matrix along with the frozen transform. The column
// partition is supplied by the caller (derived from the schema registry,
// never from runtime dtypes); ordinal orders must cover every ordinal
// column or Fit fails with a configuration error.
//
// Fit is deterministic: the same input always yields the same column
// order and width.
func Fit(f *frame.Frame, numeric, nominal, ordinal []string, orders map[string][]string) (*mat.Dense, *Fitted, error) {
	if f.NumRows() == 0 {
		return nil, nil, errEmptyFit
	}
	ft := &Fitted{}

	for _, name := range numeric {
		col, ok := f.Column(name)
		if !ok {
			return nil, nil, fmt.Errorf("encoder: numeric column %q absent at fit", name)
		}
		if col.Type != frame.Float {
			return nil, nil, fmt.Errorf("encoder: numeric column %q is not a float column", name)
		}
		spec, err := fitNumeric(name, col)
		if err != nil {
			return nil, nil, err
		}
		ft.Numeric = append(ft.Numeric, spec)
	}

	for _, name := range nominal {
		col, ok := f.Column(name)
		if !ok {
			return nil, nil, fmt.Errorf("encoder: nominal column %q absent at fit", name)
		}
		if col.Type != frame.String {
			return nil, nil, fmt.Errorf("encoder: nominal column %q is not a string column", name)
		}
		spec, err := fitNominal(name, col)
		if err != nil {
			return nil, nil, err
		}
		ft.Nominal = append(ft.Nominal, spec)
	}

	for _, name := range ordinal {
		order, ok := orders[name]
		if !ok || len(order) == 0 {
			return nil, nil, fmt.Errorf("encoder: no declared order for ordinal column %q", name)
		}
		col, ok := f.Column(name)
		if !ok {
			return nil, nil, fmt.Errorf("encoder: ordinal column %q absent at fit", name)
		}
		if col.Type != frame.String {
			return nil, nil, fmt.Errorf("encoder: ordinal column %q is not a string column", name)
		}
		mode, err := stringMode(name, col)
		if err != nil {
			return nil, nil, err
		}
		ft.Ordinal = append(ft.Ordinal, OrdinalSpec{
			Name:  name,
			Mode:  mode,
			Order: append([]string(nil), order...),
		})
	}

	ft.Names = outputNames(ft)

	X, err := ft.Transform(f)
	if err != nil {
		return nil, nil, err
	}
	return X, ft, nil
}

// Transform encodes a frame against the frozen transform. It fails only
// when a column the transform expects is structurally absent or of the
// wrong type, never because of unseen categorical values, which map to
// all-zero indicators (nominal) or the unknown sentinel (ordinal).
func (ft *Fitted) Transform(f *frame.Frame) (*mat.Dense, error) {
	n := f.NumRows()
	if n == 0 {
		return nil, errors.New("encoder: transform on an empty frame")
	}
	X := mat.NewDense(n, ft.Width(), nil)
	j := 0

	for _, spec := range ft.Numeric {
		col, ok := f.Column(spec.Name)
		if !ok {
			return nil, fmt.Errorf("encoder: expected column %q absent at transform", spec.Name)
		}
		if col.Type != frame.Float {
			return nil, fmt.Errorf("encoder: expected column %q to be numeric", spec.Name)
		}
		std := spec.Std
		if std == 0 {
			std = 1
		}
		for i := 0; i < n; i++ {
			v, present := col.Float(i)
			if !present {
				v = spec.Median
			}
			X.Set(i, j, (v-spec.Mean)/std)
		}
		j++
	}

	for _, spec := range ft.Nominal {
		col, ok := f.Column(spec.Name)
		if !ok {
			return nil, fmt.Errorf("encoder: expected column %q absent at transform", spec.Name)
		}
		if col.Type != frame.String {
			return nil, fmt.Errorf("encoder: expected column %q to be text", spec.Name)
		}
		index := make(map[string]int, len(spec.Levels))
		for k, lvl := range spec.Levels {
			index[lvl] = k
		}
		width := len(spec.Levels) - 1
		for i := 0; i < n; i++ {
			s, present := col.Str(i)
			if !present {
				s = spec.Mode
			}
			// Reference level (k==0) and unseen categories both encode
			// as all zeros across the group.
			if k, seen := index[s]; seen && k > 0 {
				X.Set(i, j+k-1, 1)
			}
		}
		j += width
	}

	for _, spec := range ft.Ordinal {
		col, ok := f.Column(spec.Name)
		if !ok {
			return nil, fmt.Errorf("encoder: expected column %q absent at transform", spec.Name)
		}
		if col.Type != frame.String {
			return nil, fmt.Errorf("encoder: expected column %q to be text", spec.Name)
		}
		rank := make(map[string]int, len(spec.Order))
		for k, v := range spec.Order {
			rank[v] = k
		}
		for i := 0; i < n; i++ {
			s, present := col.Str(i)
			if !present {
				s = spec.Mode
			}
			code := UnknownOrdinal
			if k, seen := rank[s]; seen {
				code = k
			}
			X.Set(i, j, float64(code))
		}
		j++
	}

	return X, nil
}

func fitNumeric(name string, col *frame.Column) (NumericSpec, error) {
	observed := make([]float64, 0, col.Len())
	for i := 0; i < col.Len(); i++ {
		if v, present := col.Float(i); present {
			observed = append(observed, v)
		}
	}
	if len(observed) == 0 {
		return NumericSpec{}, fmt.Errorf("encoder: numeric column %q has no observed values", name)
	}
	sort.Float64s(observed)
	mid := len(observed) / 2
	median := observed[mid]
	if len(observed)%2 == 0 {
		median = (observed[mid-1] + observed[mid]) / 2
	}

	// Moments are computed over the imputed column, matching what the
	// model will actually see.
	imputed := make([]float64, col.Len())
	for i := 0; i < col.Len(); i++ {
		v, present := col.Float(i)
		if !present {
			v = median
		}
		imputed[i] = v
	}
	mean := stat.Mean(imputed, nil)
	std := stat.PopStdDev(imputed, nil)
	return NumericSpec{Name: name, Median: median, Mean: mean, Std: std}, nil
}

func fitNominal(name string, col *frame.Column) (NominalSpec, error) {
	mode, err := stringMode(name, col)
	if err != nil {
		return NominalSpec{}, err
	}
	uniq := make(map[string]bool)
	for i := 0; i < col.Len(); i++ {
		s, present := col.Str(i)
		if !present {
			s = mode
		}
		uniq[s] = true
	}
	levels := make([]string, 0, len(uniq))
	for s := range uniq {
		levels = append(levels, s)
	}
	sort.Strings(levels)
	return NominalSpec{Name: name, Mode: mode, Levels: levels}, nil
}

// stringMode returns the most frequent present value; ties break toward
// the lexicographically smallest value so fitting stays deterministic.
func stringMode(name string, col *frame.Column) (string, error) {
	counts := make(map[string]int)
	for i := 0; i < col.Len(); i++ {
		if s, present := col.Str(i); present {
			counts[s]++
		}
	}
	if len(counts) == 0 {
		return "", fmt.Errorf("encoder: column %q has no observed values", name)
	}
	best, bestN := "", -1
	for s, c := range counts {
		if c > bestN || (c == bestN && s < best) {
			best, bestN = s, c
		}
	}
	return best, nil
}

func outputNames(ft *Fitted) []string {
	var names []string
	for _, s := range ft.Numeric {
		names = append(names, s.Name)
	}
	for _, s := range ft.Nominal {
		for _, lvl := range s.Levels[1:] {
			names = append(names, s.Name+"_"+lvl)
		}
	}
	for _, s := range ft.Ordinal {
		names = append(names, s.Name)
	}
	return names
}
