package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "simple words",
			text: "El demandante solicita embargo",
			want: []string{"el", "demandante", "solicita", "embargo"},
		},
		{
			name: "punctuation ignored",
			text: "cuantía: $1,000,000.00",
			want: []string{"cuantía", "1", "000", "000", "00"},
		},
		{
			name: "underscores kept",
			text: "document_id RCCI2150725299",
			want: []string{"document_id", "rcci2150725299"},
		},
		{
			name: "empty",
			text: "",
			want: []string{},
		},
		{
			name: "whitespace only",
			text: "  \n\t ",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.text))
		})
	}
}

func TestCount(t *testing.T) {
	assert.Equal(t, 4, Count("uno dos tres cuatro"))
	assert.Equal(t, 0, Count(""))
	assert.Equal(t, 0, Count("   "))

	// Count must agree with Tokenize.
	text := "EMBARGO decretado el 15/03/2024 por $500.000"
	assert.Equal(t, len(Tokenize(text)), Count(text))
}

func TestDeterministic(t *testing.T) {
	text := "El juzgado decretó la medida cautelar solicitada."
	first := Tokenize(text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Tokenize(text))
	}
}
