// Package imovel looks up the real-estate register (BCI).
package imovel

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"virtual-attendant-be/internal/pkg/logger"
	"virtual-attendant-be/pkg/catalog"
	"virtual-attendant-be/pkg/document"
	"virtual-attendant-be/pkg/flow"
	"virtual-attendant-be/pkg/flows"
	"virtual-attendant-be/pkg/prefeitura"
	"virtual-attendant-be/pkg/reply"
	"virtual-attendant-be/pkg/store"
	"virtual-attendant-be/pkg/text"
)

const (
	StepSearch    store.Step = "awaiting_search"
	StepSelection store.Step = "awaiting_selection"
)

const (
	module = "FLOW_IMOVEL"

	keyOptions = "options"
	keyLabels  = "option_labels"

	// maxOptions bounds the list offered when an address matches several lots.
	maxOptions = 5
)

// streetWords mark free text as an address worth sending upstream.
var streetWords = []string{"rua", "r", "avenida", "av", "travessa", "tv", "alameda", "praca", "estrada", "rodovia", "largo", "quadra", "lote"}

type Flow struct {
	client  prefeitura.Client
	timeout time.Duration
	log     logger.ILogger
}

func New(client prefeitura.Client, timeout time.Duration, log logger.ILogger) *Flow {
	return &Flow{client: client, timeout: timeout, log: log}
}

func (f *Flow) ID() store.FlowID { return catalog.FlowImovel }

func (f *Flow) Title() string { return "Consulta de imóvel" }

func (f *Flow) Steps() []flow.StepSpec {
	return []flow.StepSpec{
		{Name: StepSearch, Blocking: false},
		{Name: StepSelection, Blocking: true},
	}
}

func (f *Flow) Start(_ context.Context, sess *store.Session, _ map[string]string) reply.Reply {
	flow.Advance(sess, f.ID(), StepSearch)
	return reply.Text("🏠 Consulta de imóvel (BCI).\n\n" + searchPrompt())
}

func (f *Flow) HandleStep(ctx context.Context, sess *store.Session, input string) flow.Result {
	switch sess.State.Step {
	case StepSearch:
		q, ok := parseQuery(input)
		if !ok {
			return flow.Declined()
		}
		return f.search(ctx, sess, q)

	case StepSelection:
		options := flows.Split(sess.Value(keyOptions))
		i, ok := flows.Choice(input, len(options))
		if !ok {
			return flow.Retry(reply.Text("Opção inválida.\n\n" + selectionPrompt(sess)))
		}
		return f.record(ctx, sess, options[i])
	}
	return flow.Terminal(sess, reply.Text(catalog.MainMenu()))
}

// parseQuery reads digits as an inscription and street-like text as an address.
func parseQuery(input string) (prefeitura.PropertyQuery, bool) {
	normalized := text.Normalize(input)
	if !text.ContainsLetters(normalized) {
		insc, err := document.Inscription(normalized)
		if err != nil {
			return prefeitura.PropertyQuery{}, false
		}
		return prefeitura.PropertyQuery{Inscription: insc}, true
	}
	for _, w := range streetWords {
		if text.ContainsWord(normalized, w) {
			return prefeitura.PropertyQuery{Address: normalized}, true
		}
	}
	return prefeitura.PropertyQuery{}, false
}

func (f *Flow) search(ctx context.Context, sess *store.Session, q prefeitura.PropertyQuery) flow.Result {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	found, err := f.client.SearchProperties(ctx, q)
	if errors.Is(err, prefeitura.ErrNotFound) || (err == nil && len(found) == 0) {
		return flow.Declined()
	}
	if err != nil {
		f.fail(sess, "Property search failed", err)
		return flow.ExternalFailure(sess, err)
	}

	if len(found) == 1 {
		return flow.Terminal(sess, reply.Text(renderRecord(found[0])))
	}

	if len(found) > maxOptions {
		found = found[:maxOptions]
	}
	ids := make([]string, len(found))
	labels := make([]string, len(found))
	for i, p := range found {
		ids[i] = p.Inscription
		labels[i] = fmt.Sprintf("%s - %s", p.Address, p.Neighborhood)
	}
	sess.Set(keyOptions, flows.Join(ids))
	sess.Set(keyLabels, flows.Join(labels))
	flow.Advance(sess, f.ID(), StepSelection)
	return flow.Handled(reply.Text(selectionPrompt(sess)))
}

func (f *Flow) record(ctx context.Context, sess *store.Session, inscription string) flow.Result {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	p, err := f.client.PropertyRecord(ctx, inscription)
	if err != nil {
		f.fail(sess, "Property record failed", err)
		return flow.ExternalFailure(sess, err)
	}
	return flow.Terminal(sess, reply.Text(renderRecord(*p)))
}

func (f *Flow) fail(sess *store.Session, msg string, err error) {
	f.log.Error(module, msg, map[string]interface{}{
		"caller_id": sess.CallerID,
		"error":     err.Error(),
	})
}

func renderRecord(p prefeitura.Property) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏠 *Boletim de Cadastro Imobiliário*\n\nInscrição: %s\nEndereço: %s", p.Inscription, p.Address)
	if p.Neighborhood != "" {
		fmt.Fprintf(&b, " - %s", p.Neighborhood)
	}
	if p.Use != "" {
		fmt.Fprintf(&b, "\nUso: %s", p.Use)
	}
	fmt.Fprintf(&b, "\nÁrea do terreno: %.2f m²\nÁrea construída: %.2f m²", p.LandArea, p.BuiltArea)
	if p.VenalValue > 0 {
		fmt.Fprintf(&b, "\nValor venal: %s\nIPTU estimado: %s",
			flows.BRL(p.VenalValue), flows.BRL(catalog.EstimateIPTU(p.Residential, p.VenalValue)))
	}
	b.WriteString(flows.BackToMenu)
	return b.String()
}

func searchPrompt() string {
	return "Digite a *inscrição imobiliária* (somente números) ou o *endereço* do imóvel, " +
		"por exemplo: Rua das Flores, 120."
}

func selectionPrompt(sess *store.Session) string {
	var b strings.Builder
	b.WriteString("Encontrei mais de um imóvel. Qual deles?\n\n")
	for i, l := range flows.Split(sess.Value(keyLabels)) {
		fmt.Fprintf(&b, "*%d* - %s\n", i+1, l)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (f *Flow) Prompt(sess *store.Session) reply.Reply {
	if sess.State.Step == StepSelection {
		return reply.Text(selectionPrompt(sess))
	}
	return reply.Text(searchPrompt())
}

func (f *Flow) Cancel(sess *store.Session) reply.Reply {
	flow.Finish(sess)
	return reply.Text("Consulta de imóvel cancelada." + flows.BackToMenu)
}
