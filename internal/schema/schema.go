package schema

import "fmt"

// Kind classifies a feature by its statistical type, which determines the
// imputation and encoding strategy applied to it. Kinds are declared here
// once and never re-detected from runtime data: a column's kind must be
// identical at training and at inference regardless of which values happen
// to be present in a given batch.
type Kind int

const (
	Numeric Kind = iota // continuous or count values, median-imputed and standardized
	Binary              // two-valued text, mapped to 0/1 before encoding
	Nominal             // closed vocabulary, no order, one-hot encoded
	Ordinal             // closed vocabulary with an explicit order, integer encoded
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Binary:
		return "binary"
	case Nominal:
		return "nominal"
	case Ordinal:
		return "ordinal"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Feature describes one raw input attribute.
type Feature struct {
	Name string
	Kind Kind

	// Mapping holds the text→number mapping for Binary features.
	Mapping map[string]float64

	// Order holds the explicit rank order for Ordinal features,
	// lowest first. Never alphabetical, never data-derived.
	Order []string

	// Vocab holds the allowed values for Nominal features.
	Vocab []string

	// Percent marks a Numeric feature that arrives as "NN %" text
	// and must be parsed to a float during cleaning.
	Percent bool
}

// Registry is the static feature schema consulted by both the cleaner and
// the encoder. It is built once at startup and read-only afterwards.
type Registry struct {
	features []Feature
	byName   map[string]*Feature
	dropped  map[string]bool
}

// New builds a Registry from a feature list and a set of non-feature
// columns to drop during cleaning. It fails if a declared ordinal feature
// has no order, which would otherwise surface much later as a fit-time
// panic inside the encoder.
func New(features []Feature, dropColumns []string) (*Registry, error) {
	r := &Registry{
		features: features,
		byName:   make(map[string]*Feature, len(features)),
		dropped:  make(map[string]bool, len(dropColumns)),
	}
	for i := range features {
		f := &r.features[i]
		if f.Kind == Ordinal && len(f.Order) == 0 {
			return nil, fmt.Errorf("schema: ordinal feature %q has no declared order", f.Name)
		}
		if f.Kind == Binary && len(f.Mapping) == 0 {
			return nil, fmt.Errorf("schema: binary feature %q has no declared mapping", f.Name)
		}
		if _, dup := r.byName[f.Name]; dup {
			return nil, fmt.Errorf("schema: duplicate feature %q", f.Name)
		}
		r.byName[f.Name] = f
	}
	for _, c := range dropColumns {
		r.dropped[c] = true
	}
	return r, nil
}

// Feature returns the schema entry for a named feature.
func (r *Registry) Feature(name string) (Feature, bool) {
	f, ok := r.byName[name]
	if !ok {
		return Feature{}, false
	}
	return *f, true
}

// Features returns all declared features in declaration order.
func (r *Registry) Features() []Feature {
	out := make([]Feature, len(r.features))
	copy(out, r.features)
	return out
}

// Dropped reports whether a column is on the fixed non-feature drop list.
func (r *Registry) Dropped(name string) bool {
	return r.dropped[name]
}

// DropList returns the declared non-feature columns.
func (r *Registry) DropList() []string {
	out := make([]string, 0, len(r.dropped))
	for _, f := range dropColumns {
		if r.dropped[f] {
			out = append(out, f)
		}
	}
	return out
}

// Partition splits the given column names into the three encoder classes.
// Binary features are mapped to 0/1 floats during cleaning, so by the time
// the encoder sees them they are numeric and are standardized with the
// rest of the numeric block. Columns not declared in the registry are
// ignored (the encoder never sees them; the cleaner drops them).
func (r *Registry) Partition(present []string) (numeric, nominal, ordinal []string) {
	for _, name := range present {
		f, ok := r.byName[name]
		if !ok {
			continue
		}
		switch f.Kind {
		case Numeric, Binary:
			numeric = append(numeric, name)
		case Nominal:
			nominal = append(nominal, name)
		case Ordinal:
			ordinal = append(ordinal, name)
		}
	}
	return numeric, nominal, ordinal
}

// OrdinalOrders returns the declared value order for every ordinal feature.
func (r *Registry) OrdinalOrders() map[string][]string {
	out := make(map[string][]string)
	for i := range r.features {
		f := &r.features[i]
		if f.Kind == Ordinal {
			order := make([]string, len(f.Order))
			copy(order, f.Order)
			out[f.Name] = order
		}
	}
	return out
}

// AllowedValues returns the closed value set for a Binary, Nominal or
// Ordinal feature, and false for Numeric features (which have none).
func (r *Registry) AllowedValues(name string) ([]string, bool) {
	f, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	switch f.Kind {
	case Binary:
		vals := make([]string, 0, len(f.Mapping))
		for v := range f.Mapping {
			vals = append(vals, v)
		}
		return vals, true
	case Nominal:
		return append([]string(nil), f.Vocab...), true
	case Ordinal:
		return append([]string(nil), f.Order...), true
	default:
		return nil, false
	}
}
