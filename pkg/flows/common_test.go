package flows

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"virtual-attendant-be/pkg/document"
	"virtual-attendant-be/pkg/store"
)

func TestParseTaxpayerType(t *testing.T) {
	tests := []struct {
		input string
		want  document.Kind
		ok    bool
	}{
		{"1", document.KindCPF, true},
		{"CPF", document.KindCPF, true},
		{"pessoa física", document.KindCPF, true},
		{"2", document.KindCNPJ, true},
		{"Pessoa Jurídica", document.KindCNPJ, true},
		{"minha empresa", document.KindCNPJ, true},
		{"3", "", false},
		{"talvez", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseTaxpayerType(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChoiceAndConfirmation(t *testing.T) {
	i, ok := Choice("2", 3)
	assert.True(t, ok)
	assert.Equal(t, 1, i)
	_, ok = Choice("0", 3)
	assert.False(t, ok)
	_, ok = Choice("abc", 3)
	assert.False(t, ok)

	yes, ok := Confirmation("Sim!")
	assert.True(t, ok)
	assert.True(t, yes)
	yes, ok = Confirmation("não")
	assert.True(t, ok)
	assert.False(t, yes)
	_, ok = Confirmation("amanhã")
	assert.False(t, ok)
}

func TestBRL(t *testing.T) {
	assert.Equal(t, "R$ 0,50", BRL(0.5))
	assert.Equal(t, "R$ 120,00", BRL(120))
	assert.Equal(t, "R$ 1.234,56", BRL(1234.56))
	assert.Equal(t, "R$ 1.000.000,00", BRL(1000000))
	assert.Equal(t, "-R$ 10,00", BRL(-10))
}

func TestJoinSplit(t *testing.T) {
	assert.Nil(t, Split(""))
	assert.Equal(t, []string{"a", "b"}, Split(Join([]string{"a", "b"})))
}

func TestInvalidDocumentHandlesEveryKind(t *testing.T) {
	for _, kind := range []document.Kind{document.KindCPF, document.KindInscription, "", "??"} {
		msg := InvalidDocument(kind)
		assert.Contains(t, msg, "inválido", string(kind))
	}
	assert.Contains(t, InvalidDocument(""), "Documento")
	assert.Contains(t, InvalidDocument(document.KindInscription), "Inscrição imobiliária")
}

func TestStoredKind(t *testing.T) {
	sess := store.NewSession("c1")
	_, ok := StoredKind(sess)
	assert.False(t, ok)

	sess.Set(KeyTaxpayerType, "CNPJ")
	kind, ok := StoredKind(sess)
	assert.True(t, ok)
	assert.Equal(t, document.KindCNPJ, kind)

	sess.State = store.At("DEBITOS", "awaiting_document")
	res := LostContext(sess)
	assert.True(t, sess.State.IsIdle())
	assert.Empty(t, sess.Scratch)
	assert.False(t, res.Declined)
}
