// Package codigos answers questions about the ISS service list.
package codigos

import (
	"context"
	"fmt"
	"strings"

	"virtual-attendant-be/pkg/catalog"
	"virtual-attendant-be/pkg/flow"
	"virtual-attendant-be/pkg/flows"
	"virtual-attendant-be/pkg/reply"
	"virtual-attendant-be/pkg/store"
	"virtual-attendant-be/pkg/text"
)

const StepQuery store.Step = "awaiting_query"

const maxHits = 5

// Flow stays on its only step so the caller can look up several codes in a row.
type Flow struct{}

func New() *Flow { return &Flow{} }

func (f *Flow) ID() store.FlowID { return catalog.FlowCodigos }

func (f *Flow) Title() string { return "Códigos de serviço (ISS)" }

func (f *Flow) Steps() []flow.StepSpec {
	return []flow.StepSpec{{Name: StepQuery, Blocking: false}}
}

func (f *Flow) Start(_ context.Context, sess *store.Session, _ map[string]string) reply.Reply {
	flow.Advance(sess, f.ID(), StepQuery)
	return reply.Text("🧾 Códigos de serviço (ISS).\n\n" + prompt())
}

func (f *Flow) HandleStep(_ context.Context, sess *store.Session, input string) flow.Result {
	normalized := text.Normalize(input)

	if !text.ContainsLetters(normalized) {
		sc, ok := catalog.FindServiceCode(normalized)
		if !ok {
			return flow.Declined()
		}
		return flow.Handled(reply.Text(renderOne(sc) + "\n\n" + again()))
	}

	hits := catalog.SearchServiceCodes(normalized, maxHits)
	if len(hits) == 0 {
		return flow.Declined()
	}
	var b strings.Builder
	b.WriteString("Encontrei estes itens da lista de serviços:\n\n")
	for _, sc := range hits {
		b.WriteString(renderOne(sc))
		b.WriteString("\n")
	}
	b.WriteString("\n" + again())
	return flow.Handled(reply.Text(b.String()))
}

func renderOne(sc catalog.ServiceCode) string {
	return fmt.Sprintf("*%s* - %s (alíquota %s%%)", sc.Code, sc.Description, strings.Replace(fmt.Sprintf("%.1f", sc.Rate), ".", ",", 1))
}

func prompt() string {
	return "Digite o *código* do serviço (ex.: 17.19) ou descreva a atividade (ex.: contabilidade)."
}

func again() string {
	return "Consulte outro código ou digite *menu* para voltar ao início."
}

func (f *Flow) Prompt(*store.Session) reply.Reply {
	return reply.Text(prompt())
}

func (f *Flow) Cancel(sess *store.Session) reply.Reply {
	flow.Finish(sess)
	return reply.Text("Consulta de códigos encerrada." + flows.BackToMenu)
}
