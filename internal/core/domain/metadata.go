package domain

import (
	"fmt"
	"sort"
)

// MetaKind discriminates the shapes nested document metadata can take.
type MetaKind int

const (
	// MetaAbsent marks metadata that does not exist (missing or
	// unparseable even after repair). The zero MetaValue is absent.
	MetaAbsent MetaKind = iota

	// MetaScalar is a terminal value: string, number or boolean.
	MetaScalar

	// MetaSequence is an ordered list of values.
	MetaSequence

	// MetaMapping is a key-value object.
	MetaMapping
)

// MetaValue is a tagged variant over arbitrarily nested document metadata.
// The flattening recursion pattern-matches on Kind explicitly instead of
// relying on runtime type inspection of interface values.
type MetaValue struct {
	// Kind selects which of the following fields is populated.
	Kind MetaKind

	// Scalar holds the terminal value when Kind is MetaScalar.
	Scalar any

	// Seq holds the elements when Kind is MetaSequence.
	Seq []MetaValue

	// Map holds the entries when Kind is MetaMapping.
	Map map[string]MetaValue
}

// Absent reports whether the value carries no metadata at all.
func (v MetaValue) Absent() bool { return v.Kind == MetaAbsent }

// Scalar wraps a terminal value.
func Scalar(v any) MetaValue { return MetaValue{Kind: MetaScalar, Scalar: v} }

// Sequence wraps an ordered list of values.
func Sequence(vs ...MetaValue) MetaValue { return MetaValue{Kind: MetaSequence, Seq: vs} }

// Mapping wraps a key-value object.
func Mapping(m map[string]MetaValue) MetaValue { return MetaValue{Kind: MetaMapping, Map: m} }

// FromAny converts a JSON-decoded value (map[string]any, []any, scalars)
// into the tagged representation. Nil becomes an absent value.
func FromAny(v any) MetaValue {
	switch t := v.(type) {
	case nil:
		return MetaValue{}
	case map[string]any:
		m := make(map[string]MetaValue, len(t))
		for k, child := range t {
			m[k] = FromAny(child)
		}
		return Mapping(m)
	case []any:
		seq := make([]MetaValue, 0, len(t))
		for _, child := range t {
			seq = append(seq, FromAny(child))
		}
		return MetaValue{Kind: MetaSequence, Seq: seq}
	default:
		return Scalar(t)
	}
}

// SortedKeys returns the mapping keys in deterministic order.
// Flattening iterates mappings through this so output is stable.
func (v MetaValue) SortedKeys() []string {
	keys := make([]string, 0, len(v.Map))
	for k := range v.Map {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String renders the value for the stringify-on-ambiguity path.
// Structured values render as their Go literal, matching what consumers
// see when a nested field survives as a flattened string.
func (v MetaValue) String() string {
	switch v.Kind {
	case MetaAbsent:
		return ""
	case MetaScalar:
		return fmt.Sprintf("%v", v.Scalar)
	case MetaSequence:
		parts := make([]any, 0, len(v.Seq))
		for _, e := range v.Seq {
			parts = append(parts, e.String())
		}
		return fmt.Sprintf("%v", parts)
	default:
		out := make(map[string]string, len(v.Map))
		for _, k := range v.SortedKeys() {
			out[k] = v.Map[k].String()
		}
		return fmt.Sprintf("%v", out)
	}
}
