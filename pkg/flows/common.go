// Package flows holds the step helpers shared by the municipal flows.
package flows

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"virtual-attendant-be/pkg/catalog"
	"virtual-attendant-be/pkg/document"
	"virtual-attendant-be/pkg/flow"
	"virtual-attendant-be/pkg/reply"
	"virtual-attendant-be/pkg/store"
	"virtual-attendant-be/pkg/text"
)

// Scratch keys shared by more than one flow.
const (
	KeyTaxpayerType = "taxpayer_type"
	KeyDocument     = "document"
)

// Local is the municipality's wall clock.
var Local = time.FixedZone("BRT", -3*60*60)

const BackToMenu = "\n\nDigite *menu* para voltar ao início."

func TaxpayerPrompt() string {
	return "Para quem é a consulta?\n\n*1* - Pessoa física (CPF)\n*2* - Pessoa jurídica (CNPJ)"
}

// ParseTaxpayerType accepts the option number or the name of the kind.
func ParseTaxpayerType(input string) (document.Kind, bool) {
	n := strings.Trim(text.Normalize(input), " .")
	switch {
	case n == "1", n == "cpf", strings.Contains(n, "fisica"):
		return document.KindCPF, true
	case n == "2", n == "cnpj", strings.Contains(n, "juridica"), text.ContainsWord(n, "empresa"):
		return document.KindCNPJ, true
	}
	return "", false
}

func DocumentPrompt(kind document.Kind) string {
	switch kind {
	case document.KindCNPJ:
		return "Digite o *CNPJ* (somente números ou no formato 00.000.000/0000-00)."
	case document.KindInscription:
		return "Digite a *inscrição imobiliária* do imóvel (está no carnê do IPTU)."
	default:
		return "Digite o *CPF* (somente números ou no formato 000.000.000-00)."
	}
}

// InvalidDocument explains why input was rejected.
func InvalidDocument(kind document.Kind) string {
	label := kind.Label()
	if r, size := utf8.DecodeRuneInString(label); size > 0 {
		label = strings.ToUpper(string(r)) + label[size:]
	}
	return fmt.Sprintf("❌ %s inválido(a). Confira os números e tente novamente.\n\n%s",
		label, DocumentPrompt(kind))
}

// StoredKind returns the document kind chosen earlier in the flow.
func StoredKind(sess *store.Session) (document.Kind, bool) {
	kind := document.Kind(sess.Value(KeyTaxpayerType))
	return kind, kind.Known()
}

// LostContext ends a flow whose session is missing data an earlier step
// should have collected, and shows the main menu.
func LostContext(sess *store.Session) flow.Result {
	return flow.Terminal(sess, reply.Text(catalog.MainMenu()))
}

// Choice parses a 1-based pick among n numbered options.
func Choice(input string, n int) (int, bool) {
	s := strings.Trim(text.Normalize(input), " .)-*")
	s = strings.TrimPrefix(s, "opcao ")
	i, err := strconv.Atoi(s)
	if err != nil || i < 1 || i > n {
		return 0, false
	}
	return i - 1, true
}

// Confirmation reads a yes/no answer. ok is false when it is neither.
func Confirmation(input string) (yes, ok bool) {
	n := strings.Trim(text.Normalize(input), " .!")
	switch n {
	case "1", "s", "sim", "confirmo", "confirmar", "ok", "pode", "isso":
		return true, true
	case "2", "n", "nao", "cancelar", "cancela":
		return false, true
	}
	return false, false
}

func ConfirmationOptions() string {
	return "*1* - Sim, confirmar\n*2* - Não, cancelar"
}

// BRL formats v as Brazilian currency: R$ 1.234,56.
func BRL(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	out := "R$ " + b.String() + "," + frac
	if neg {
		out = "-" + out
	}
	return out
}

// Join and Split keep short lists in session scratch.
func Join(values []string) string { return strings.Join(values, "|") }

func Split(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, "|")
}
