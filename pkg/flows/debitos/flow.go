// Package debitos is the tax debt and second copy flow.
package debitos

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
	StepTaxpayerType store.Step = "awaiting_taxpayer_type"
	StepDocument     store.Step = "awaiting_document"
	StepYear         store.Step = "awaiting_year"
)

const module = "FLOW_DEBITOS"

type Flow struct {
	client  prefeitura.Client
	timeout time.Duration
	log     logger.ILogger
	now     func() time.Time
}

func New(client prefeitura.Client, timeout time.Duration, log logger.ILogger) *Flow {
	return &Flow{client: client, timeout: timeout, log: log, now: time.Now}
}

func (f *Flow) ID() store.FlowID { return catalog.FlowDebitos }

func (f *Flow) Title() string { return "Débitos e segunda via" }

func (f *Flow) Steps() []flow.StepSpec {
	return []flow.StepSpec{
		{Name: StepTaxpayerType, Blocking: true},
		{Name: StepDocument, Blocking: true},
		{Name: StepYear, Blocking: true},
	}
}

func (f *Flow) Start(_ context.Context, sess *store.Session, args map[string]string) reply.Reply {
	if kind, ok := flows.ParseTaxpayerType(args[flows.KeyTaxpayerType]); ok {
		sess.Set(flows.KeyTaxpayerType, string(kind))
		flow.Advance(sess, f.ID(), StepDocument)
		return reply.Text("📄 Consulta de débitos.\n\n" + flows.DocumentPrompt(kind))
	}
	flow.Advance(sess, f.ID(), StepTaxpayerType)
	return reply.Text("📄 Consulta de débitos e segunda via.\n\n" + flows.TaxpayerPrompt())
}

func (f *Flow) HandleStep(ctx context.Context, sess *store.Session, input string) flow.Result {
	switch sess.State.Step {
	case StepTaxpayerType:
		kind, ok := flows.ParseTaxpayerType(input)
		if !ok {
			return flow.Retry(reply.Text("Opção inválida.\n\n" + flows.TaxpayerPrompt()))
		}
		sess.Set(flows.KeyTaxpayerType, string(kind))
		flow.Advance(sess, f.ID(), StepDocument)
		return flow.Handled(reply.Text(flows.DocumentPrompt(kind)))

	case StepDocument:
		kind, ok := flows.StoredKind(sess)
		if !ok {
			return flows.LostContext(sess)
		}
		digits, err := document.Validate(kind, input)
		if err != nil {
			return flow.Retry(reply.Text(flows.InvalidDocument(kind)))
		}
		sess.Set(flows.KeyDocument, digits)
		flow.Advance(sess, f.ID(), StepYear)
		return flow.Handled(reply.Text(yearPrompt()))

	case StepYear:
		if _, ok := flows.StoredKind(sess); !ok || sess.Value(flows.KeyDocument) == "" {
			return flows.LostContext(sess)
		}
		year, ok := f.parseYear(input)
		if !ok {
			return flow.Retry(reply.Text(fmt.Sprintf("Ano inválido. Informe um exercício entre %d e %d.\n\n%s",
				document.FirstTaxYear, f.now().Year(), yearPrompt())))
		}
		return f.lookup(ctx, sess, year)
	}
	return flow.Terminal(sess, reply.Text(catalog.MainMenu()))
}

func (f *Flow) parseYear(input string) (int, bool) {
	if strings.TrimSpace(text.Normalize(input)) == "0" {
		return f.now().Year(), true
	}
	y, err := document.Year(input, f.now())
	return y, err == nil
}

func (f *Flow) lookup(ctx context.Context, sess *store.Session, year int) flow.Result {
	kind := document.Kind(sess.Value(flows.KeyTaxpayerType))
	doc := sess.Value(flows.KeyDocument)

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	report, err := f.client.Debts(ctx, kind, doc, year)
	if errors.Is(err, prefeitura.ErrNotFound) || (err == nil && len(report.Debts) == 0) {
		return flow.Terminal(sess, reply.Text(fmt.Sprintf(
			"✅ Nenhum débito encontrado para o %s %s no exercício %d.%s",
			kind.Label(), document.Mask(doc), year, flows.BackToMenu)))
	}
	if err != nil {
		f.log.Error(module, "Debt lookup failed", map[string]interface{}{
			"caller_id": sess.CallerID,
			"document":  document.Mask(doc),
			"year":      year,
			"error":     err.Error(),
		})
		return flow.ExternalFailure(sess, err)
	}

	body := renderReport(kind, report)
	if report.BoletoURL != "" {
		return flow.Terminal(sess, reply.Media(body, report.BoletoURL))
	}
	return flow.Terminal(sess, reply.Text(body))
}

func renderReport(kind document.Kind, r *prefeitura.DebtReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 Débitos do %s %s - exercício %d\n\n", kind.Label(), document.Mask(r.Document), r.Year)
	total := 0.0
	for _, d := range r.Debts {
		status := ""
		if d.Overdue {
			status = " (vencido)"
		}
		fmt.Fprintf(&b, "• %s - venc. %s - %s%s\n", d.Description, d.DueDate, flows.BRL(d.Amount), status)
		total += d.Amount
	}
	if r.Total > 0 {
		total = r.Total
	}
	fmt.Fprintf(&b, "\n*Total: %s*", flows.BRL(total))
	if r.BoletoURL != "" {
		b.WriteString("\n\nSegue o boleto para pagamento.")
	}
	b.WriteString(flows.BackToMenu)
	return b.String()
}

func yearPrompt() string {
	return "Informe o *ano* (exercício) da consulta, por exemplo 2024, ou *0* para o ano atual."
}

func (f *Flow) Prompt(sess *store.Session) reply.Reply {
	switch sess.State.Step {
	case StepDocument:
		return reply.Text(flows.DocumentPrompt(document.Kind(sess.Value(flows.KeyTaxpayerType))))
	case StepYear:
		return reply.Text(yearPrompt())
	default:
		return reply.Text(flows.TaxpayerPrompt())
	}
}

func (f *Flow) Cancel(sess *store.Session) reply.Reply {
	flow.Finish(sess)
	return reply.Text("Consulta de débitos cancelada." + flows.BackToMenu)
}
