package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "menu", "menu"},
		{"accents", "Início", "inicio"},
		{"cedilla and tilde", "Certidão de Cobrança", "certidao de cobranca"},
		{"trim", "  SIM  ", "sim"},
		{"sentence", "Preciso da segunda via do meu IPTU", "preciso da segunda via do meu iptu"},
		{"mixed marks", "ÀÉÎÕÜ ç", "aeiou c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"", "oi", "Não", "NÃO QUERO", "opção 5.1", "Mudei de ideia!",
		"İstanbul", "ǅemal", "ﬁm", "çãõâêôáéíóú", "123.456.789-09", "  espaços  ",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestExtractDigits(t *testing.T) {
	assert.Equal(t, "12345678909", ExtractDigits("123.456.789-09"))
	assert.Equal(t, "", ExtractDigits("sem numeros"))
	assert.Equal(t, "2024", ExtractDigits("ano de 2024"))
}

func TestContainsLetters(t *testing.T) {
	assert.True(t, ContainsLetters("rua 7 de setembro"))
	assert.False(t, ContainsLetters("123.456/0001-90"))
	assert.False(t, ContainsLetters(""))
}

func TestContainsWord(t *testing.T) {
	assert.True(t, ContainsWord("sim, pode emitir", "sim"))
	assert.False(t, ContainsWord("simples nacional", "sim"))
	assert.True(t, ContainsWord("na verdade quero outra coisa", "na verdade"))
	assert.True(t, ContainsWord("ok.", "ok"))
	assert.False(t, ContainsWord("anything", ""))
}
