package query

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/lexrag-cli/internal/core/domain"
)

// maxChunkPreview caps how much of a chunk's text enters the prompt.
const maxChunkPreview = 500

const noContext = "No se encontraron documentos relevantes para la consulta."

// DefaultPromptTemplate frames the assembled context and the user's
// question for the language model. Answers stay grounded in the context
// and in Spanish.
const DefaultPromptTemplate = `Contexto: %s

Pregunta del usuario: %s

Instrucciones específicas:
- Si la pregunta busca un resumen, genera un resumen estructurado del expediente
- Si la pregunta es específica sobre contenido, responde basándote únicamente en el contexto proporcionado
- Si la pregunta es sobre metadatos (fechas, nombres, cuantías), extrae la información relevante
- Si la información no está en el contexto, responde: "No se encuentra en el expediente proporcionado."
- Responde en español de manera profesional y jurídica

Respuesta:
`

// AssembleContext renders ranked hits into the context block fed to the
// language model: each chunk truncated to a preview, prefixed with a
// position marker naming its source document.
func AssembleContext(hits []domain.SearchHit) string {
	if len(hits) == 0 {
		return noContext
	}

	parts := make([]string, 0, len(hits))
	for _, hit := range hits {
		text := hit.Text
		if runes := []rune(text); len(runes) > maxChunkPreview {
			text = string(runes[:maxChunkPreview]) + "..."
		}
		marker := fmt.Sprintf("[Chunk %v/%v del documento %s]",
			metaValue(hit.Metadata, "chunk_position"),
			metaValue(hit.Metadata, "total_chunks"),
			documentID(hit.Metadata))
		parts = append(parts, marker+"\n"+text)
	}
	return strings.Join(parts, "\n\n")
}

// BuildPrompt combines the assembled context with the raw query using
// the default template.
func BuildPrompt(contextBlock, queryText string) string {
	return BuildPromptFrom(DefaultPromptTemplate, contextBlock, queryText)
}

// BuildPromptFrom combines the assembled context with the raw query
// using a caller-supplied template with two %s placeholders.
func BuildPromptFrom(template, contextBlock, queryText string) string {
	return fmt.Sprintf(template, contextBlock, queryText)
}

// PrimarySource extracts provenance for the answer from the top hit.
func PrimarySource(hits []domain.SearchHit) domain.SourceInfo {
	if len(hits) == 0 {
		return domain.SourceInfo{DocumentID: "unknown"}
	}
	meta := hits[0].Metadata
	return domain.SourceInfo{
		DocumentID:  documentID(meta),
		Position:    metaInt(meta, "chunk_position"),
		TotalChunks: metaInt(meta, "total_chunks"),
	}
}

func documentID(meta map[string]any) string {
	if id, ok := meta["document_id"].(string); ok && id != "" {
		return id
	}
	return "unknown"
}

func metaValue(meta map[string]any, key string) any {
	if v, ok := meta[key]; ok {
		return v
	}
	return 0
}

func metaInt(meta map[string]any, key string) int {
	switch v := meta[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
