// Package metadata flattens and canonicalizes the nested, inconsistently
// shaped metadata that the document-conversion pipeline attaches to each
// filing. The output is a flat snake_case key space of scalar values
// suitable for vector-store predicates.
package metadata

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/custodia-labs/lexrag-cli/internal/core/domain"
)

// Version tags normalizer output so downstream consumers can detect
// schema drift between indexing runs.
const Version = "universal_v2"

var (
	nonAlnum    = regexp.MustCompile(`[^a-z0-9]+`)
	underscores = regexp.MustCompile(`_+`)
	whitespace  = regexp.MustCompile(`\s+`)

	// camelBoundary finds a lowercase letter followed by an uppercase
	// letter, the seam where compound identifier-style names are split.
	camelBoundary = regexp.MustCompile(`(\p{Ll})(\p{Lu})`)

	deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Normalizer derives a flat, canonical metadata mapping from a document's
// raw nested metadata. It is stateless and safe for concurrent use.
type Normalizer struct {
	now func() time.Time
}

// New creates a normalizer.
func New() *Normalizer {
	return &Normalizer{now: time.Now}
}

// Normalize flattens meta into a single-level mapping with canonical keys
// and canonical scalar values, then appends the housekeeping fields
// indexed_at and indexing_version. Absent metadata yields a mapping with
// only the housekeeping fields: a document is indexable without metadata.
func (n *Normalizer) Normalize(meta domain.MetaValue) map[string]any {
	out := Flatten(meta)
	addSearchFields(out)
	out["indexed_at"] = n.now().UTC().Format(time.RFC3339)
	out["indexing_version"] = Version
	return out
}

// searchNameKeys are the party fields that get a _normalized companion.
var searchNameKeys = []string{"demandante", "demandado", "entidad"}

// addSearchFields derives the companion fields the query side uses as
// vector-store predicates: party names under <key>_normalized, the
// filing date under fecha_normalized in ISO form, the claim amount
// under cuantia_normalized as bare digits. A source field that cannot
// be reformatted keeps its canonical value under the companion key so
// the key space stays complete.
func addSearchFields(out map[string]any) {
	for _, key := range searchNameKeys {
		if v, ok := out[key].(string); ok && v != "" {
			out[key+"_normalized"] = CanonicalString(v)
		}
	}
	if v, ok := out["fecha"].(string); ok && v != "" {
		if iso, ok := CanonicalDate(v); ok {
			out["fecha_normalized"] = iso
		} else {
			out["fecha_normalized"] = v
		}
	}
	if v, ok := out["cuantia"]; ok {
		if digits := CanonicalAmount(scalarString(v)); digits != "" {
			out["cuantia_normalized"] = digits
		}
	}
}

// scalarString renders a scalar metadata value for digit extraction.
// Floats use the 'f' form so large amounts never pick up exponent
// digits.
func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Flatten recursively flattens a nested metadata value. Mapping keys are
// canonicalized and joined to their parent path with underscores;
// sequence elements use their index as a path segment; scalars terminate
// the recursion. No leaf present in the input is ever dropped: anything
// that cannot be represented as a scalar is stringified.
func Flatten(meta domain.MetaValue) map[string]any {
	out := make(map[string]any)
	flattenInto(out, "", meta)
	return out
}

func flattenInto(out map[string]any, prefix string, v domain.MetaValue) {
	switch v.Kind {
	case domain.MetaAbsent:
		return
	case domain.MetaScalar:
		key := prefix
		if key == "" {
			key = "value"
		}
		out[key] = CanonicalValue(v.Scalar)
	case domain.MetaSequence:
		for i, elem := range v.Seq {
			flattenInto(out, joinKey(prefix, fmt.Sprintf("%d", i)), elem)
		}
	case domain.MetaMapping:
		for _, rawKey := range v.SortedKeys() {
			flattenInto(out, joinKey(prefix, CanonicalKey(rawKey)), v.Map[rawKey])
		}
	}
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "_" + key
}

// CanonicalKey normalizes a metadata key: diacritics stripped, compound
// camelCase names split on their internal boundaries, lowercased, every
// non-alphanumeric run replaced by a single underscore, with no leading,
// trailing or repeated underscores in the result.
func CanonicalKey(key string) string {
	key = StripDiacritics(key)
	key = camelBoundary.ReplaceAllString(key, "${1}_${2}")
	key = strings.ToLower(key)
	key = nonAlnum.ReplaceAllString(key, "_")
	key = underscores.ReplaceAllString(key, "_")
	return strings.Trim(key, "_")
}

// CanonicalValue normalizes a scalar metadata value. Strings are
// diacritic-stripped, lowercased and whitespace-collapsed; numbers and
// booleans pass through unchanged. A structured value reaching this
// point is stringified rather than dropped.
func CanonicalValue(v any) any {
	switch t := v.(type) {
	case string:
		return CanonicalString(t)
	case bool, int, int64, float32, float64:
		return t
	case domain.MetaValue:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

// CanonicalString lowercases, strips diacritics and collapses whitespace.
func CanonicalString(s string) string {
	s = StripDiacritics(s)
	s = strings.ToLower(s)
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// StripDiacritics removes combining marks: "cuantía" becomes "cuantia".
func StripDiacritics(s string) string {
	out, _, err := transform.String(deaccent, s)
	if err != nil {
		return s
	}
	return out
}

// dateLayouts are the numeric date shapes found in the filings,
// day-first as written in Spanish.
var dateLayouts = []string{
	"2006-01-02",
	"2/1/2006",
	"2-1-2006",
	"2006/1/2",
	"2.1.2006",
}

var writtenDate = regexp.MustCompile(`^(\d{1,2}) de ([a-z]+) de (\d{4})$`)

var spanishMonths = map[string]time.Month{
	"enero": time.January, "febrero": time.February, "marzo": time.March,
	"abril": time.April, "mayo": time.May, "junio": time.June,
	"julio": time.July, "agosto": time.August,
	"septiembre": time.September, "setiembre": time.September,
	"octubre": time.October, "noviembre": time.November,
	"diciembre": time.December,
}

// CanonicalDate reformats a date mention to ISO form: "15/03/2024" and
// "15 de marzo de 2024" both become "2024-03-15". This is the single
// value space for fecha_normalized, shared by indexing and querying.
func CanonicalDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	if m := writtenDate.FindStringSubmatch(CanonicalString(s)); m != nil {
		if month, ok := spanishMonths[m[2]]; ok {
			day, _ := strconv.Atoi(m[1])
			year, _ := strconv.Atoi(m[3])
			if day >= 1 && day <= 31 {
				return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
			}
		}
	}
	return "", false
}

// CanonicalAmount strips a monetary mention down to its digits:
// "$238.984.000,00" becomes "23898400000". This is the single value
// space for cuantia_normalized, shared by indexing and querying.
func CanonicalAmount(v string) string {
	var b strings.Builder
	for _, r := range v {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
