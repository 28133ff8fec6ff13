package metadata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexrag-cli/internal/core/domain"
)

func fixedNormalizer() *Normalizer {
	return &Normalizer{now: func() time.Time {
		return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	}}
}

func TestCanonicalKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Nombre Empresa", "nombre_empresa"},
		{"TipoIdentificación", "tipo_identificacion"},
		{"Número_Identificación", "numero_identificacion"},
		{"Cuantía$", "cuantia"},
		{"nombresPersonaDemandante", "nombres_persona_demandante"},
		{"__ya__canonico__", "ya_canonico"},
		{"resolucionesRadicadosNumerosReferencias", "resoluciones_radicados_numeros_referencias"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalKey(tt.in))
		})
	}

	// Canonicalization is idempotent on its own output.
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanonicalKey(tt.want))
	}
}

func TestCanonicalValue(t *testing.T) {
	assert.Equal(t, "juan perez", CanonicalValue("JUAN  PÉREZ"))
	assert.Equal(t, "nury willelma", CanonicalValue("  NÚRY   WILLÉLMA  "))
	assert.Equal(t, 500000, CanonicalValue(500000))
	assert.Equal(t, 3.14, CanonicalValue(3.14))
	assert.Equal(t, true, CanonicalValue(true))
	assert.Equal(t, "", CanonicalValue(""))

	// Structured values are stringified, never dropped.
	nested := domain.Mapping(map[string]domain.MetaValue{"key": domain.Scalar("value")})
	s, ok := CanonicalValue(nested).(string)
	require.True(t, ok)
	assert.Contains(t, s, "key")
}

func TestFlatten_Nested(t *testing.T) {
	meta := domain.FromAny(map[string]any{
		"demandante": map[string]any{
			"persona": map[string]any{
				"nombres":   "MARÍA",
				"apellidos": "GARCÍA",
				"identificacion": map[string]any{
					"tipo":   "CC",
					"numero": "12345678",
				},
			},
			"empresa": map[string]any{
				"nombre": "EMPRESA ABC",
				"nit":    "900123456-7",
			},
		},
		"resoluciones": []any{
			map[string]any{"numero": "001", "fecha": "2024-01-01"},
			map[string]any{"numero": "002", "fecha": "2024-01-02"},
		},
	})

	flat := Flatten(meta)

	assert.Equal(t, "maria", flat["demandante_persona_nombres"])
	assert.Equal(t, "garcia", flat["demandante_persona_apellidos"])
	assert.Equal(t, "cc", flat["demandante_persona_identificacion_tipo"])
	assert.Equal(t, "12345678", flat["demandante_persona_identificacion_numero"])
	assert.Equal(t, "empresa abc", flat["demandante_empresa_nombre"])
	assert.Equal(t, "900123456-7", flat["demandante_empresa_nit"])
	assert.Equal(t, "001", flat["resoluciones_0_numero"])
	assert.Equal(t, "2024-01-01", flat["resoluciones_0_fecha"])
	assert.Equal(t, "002", flat["resoluciones_1_numero"])
}

func TestFlatten_SpecExample(t *testing.T) {
	meta := domain.FromAny(map[string]any{
		"demandante": map[string]any{"nombres": "JUAN", "apellidos": "PEREZ"},
	})
	flat := Flatten(meta)
	assert.Equal(t, "juan", flat["demandante_nombres"])
	assert.Equal(t, "perez", flat["demandante_apellidos"])
}

func TestFlatten_NoLeafDropped(t *testing.T) {
	meta := domain.FromAny(map[string]any{
		"a": "x",
		"b": map[string]any{"c": true, "d": []any{1.0, 2.0}},
		"e": []any{"primero", map[string]any{"f": "segundo"}},
	})
	flat := Flatten(meta)
	// 2 leaves under b, 2 under e, 1 at a.
	assert.Len(t, flat, 5)
	assert.Equal(t, true, flat["b_c"])
	assert.Equal(t, 1.0, flat["b_d_0"])
	assert.Equal(t, "primero", flat["e_0"])
	assert.Equal(t, "segundo", flat["e_1_f"])
}

func TestFlatten_CamelCaseKeys(t *testing.T) {
	meta := domain.FromAny(map[string]any{
		"demandante": map[string]any{
			"nombresPersonaDemandante":   "JUAN",
			"apellidosPersonaDemandante": "PÉREZ",
			"NombreEmpresaDemandante":    "ACME S.A.",
		},
	})
	flat := Flatten(meta)
	assert.Equal(t, "juan", flat["demandante_nombres_persona_demandante"])
	assert.Equal(t, "perez", flat["demandante_apellidos_persona_demandante"])
	assert.Equal(t, "acme s.a.", flat["demandante_nombre_empresa_demandante"])
}

func TestNormalize_Housekeeping(t *testing.T) {
	n := fixedNormalizer()
	out := n.Normalize(domain.FromAny(map[string]any{"demandante": "JUAN PÉREZ"}))

	assert.Equal(t, "juan perez", out["demandante"])
	assert.Equal(t, "2026-08-01T12:00:00Z", out["indexed_at"])
	assert.Equal(t, Version, out["indexing_version"])
}

func TestNormalize_SearchFields(t *testing.T) {
	n := fixedNormalizer()
	out := n.Normalize(domain.FromAny(map[string]any{
		"demandante":  "NÚRY WILLÉLMA ROMERO GÓMEZ",
		"demandado":   "BANCO POPULAR S.A.",
		"entidad":     "Juzgado Primero Civil",
		"fecha":       "15/03/2024",
		"cuantia":     "$238.984.000,00",
		"tipo_medida": "Embargo",
	}))

	// Companion fields carry the predicate keys the query side filters
	// on, in the same value space the extractor emits.
	assert.Equal(t, "nury willelma romero gomez", out["demandante_normalized"])
	assert.Equal(t, "banco popular s.a.", out["demandado_normalized"])
	assert.Equal(t, "juzgado primero civil", out["entidad_normalized"])
	assert.Equal(t, "2024-03-15", out["fecha_normalized"])
	assert.Equal(t, "23898400000", out["cuantia_normalized"])
	assert.Equal(t, "embargo", out["tipo_medida"])
}

func TestNormalize_SearchFields_NumericAmount(t *testing.T) {
	n := fixedNormalizer()
	out := n.Normalize(domain.FromAny(map[string]any{"cuantia": 238984000.0}))

	assert.Equal(t, "238984000", out["cuantia_normalized"])
}

func TestNormalize_SearchFields_UnparseableDate(t *testing.T) {
	n := fixedNormalizer()
	out := n.Normalize(domain.FromAny(map[string]any{"fecha": "sin fecha definida"}))

	// The companion key still exists so predicates never hit a hole in
	// the key space.
	assert.Equal(t, "sin fecha definida", out["fecha_normalized"])
}

func TestNormalize_SearchFields_AbsentSources(t *testing.T) {
	n := fixedNormalizer()
	out := n.Normalize(domain.FromAny(map[string]any{"radicado": "RCCI2150725299"}))

	assert.NotContains(t, out, "demandante_normalized")
	assert.NotContains(t, out, "fecha_normalized")
	assert.NotContains(t, out, "cuantia_normalized")
}

func TestCanonicalDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"15/03/2024", "2024-03-15"},
		{"5/3/2024", "2024-03-05"},
		{"15-03-2024", "2024-03-15"},
		{"2024-03-15", "2024-03-15"},
		{"15 de marzo de 2024", "2024-03-15"},
		{"1 de Enero de 2023", "2023-01-01"},
	}
	for _, tt := range tests {
		got, ok := CanonicalDate(tt.in)
		require.True(t, ok, "date: %s", tt.in)
		assert.Equal(t, tt.want, got, "date: %s", tt.in)
	}

	_, ok := CanonicalDate("la semana pasada")
	assert.False(t, ok)
}

func TestCanonicalAmount(t *testing.T) {
	assert.Equal(t, "23898400000", CanonicalAmount("$238.984.000,00"))
	assert.Equal(t, "5000000", CanonicalAmount("$5,000,000"))
	assert.Equal(t, "", CanonicalAmount("sin cuantía"))
}

func TestNormalize_AbsentMetadata(t *testing.T) {
	n := fixedNormalizer()
	out := n.Normalize(domain.MetaValue{})

	// A document with no metadata still gets the housekeeping fields.
	assert.Len(t, out, 2)
	assert.Equal(t, Version, out["indexing_version"])
}

func TestNormalize_Idempotent(t *testing.T) {
	n := fixedNormalizer()
	first := n.Normalize(domain.FromAny(map[string]any{
		"Demandante":  "NÚRY WILLÉLMA ROMERO GÓMEZ",
		"TipoMedida":  "Embargo",
		"cuantía":     "$238.984.000,00",
		"nestedField": map[string]any{"subField": "valor anidado"},
	}))

	// Re-normalizing already-canonical output is a no-op apart from the
	// housekeeping fields, which are recomputed identically here.
	roundTrip := make(map[string]any, len(first))
	for k, v := range first {
		roundTrip[k] = v
	}
	second := n.Normalize(domain.FromAny(roundTrip))
	assert.Equal(t, first, second)
}
