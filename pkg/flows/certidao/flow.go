// Package certidao issues tax certificates.
package certidao

import (
	"context"
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
)

const (
	StepCertificateType store.Step = "awaiting_certificate_type"
	StepTaxpayerType    store.Step = "awaiting_taxpayer_type"
	StepDocument        store.Step = "awaiting_document"
	StepConfirmation    store.Step = "awaiting_confirmation"
)

const module = "FLOW_CERTIDAO"

// certificateTypes is the order the type menu lists them in.
var certificateTypes = []string{
	catalog.CertificateNegativa,
	catalog.CertificateValorVenal,
	catalog.CertificateImobiliaria,
}

type Flow struct {
	client  prefeitura.Client
	timeout time.Duration
	log     logger.ILogger
}

func New(client prefeitura.Client, timeout time.Duration, log logger.ILogger) *Flow {
	return &Flow{client: client, timeout: timeout, log: log}
}

func (f *Flow) ID() store.FlowID { return catalog.FlowCertidao }

func (f *Flow) Title() string { return "Certidões" }

func (f *Flow) Steps() []flow.StepSpec {
	return []flow.StepSpec{
		{Name: StepCertificateType, Blocking: true},
		{Name: StepTaxpayerType, Blocking: true},
		{Name: StepDocument, Blocking: true},
		{Name: StepConfirmation, Blocking: true},
	}
}

func (f *Flow) Start(_ context.Context, sess *store.Session, args map[string]string) reply.Reply {
	certType := args[catalog.ArgCertificateType]
	if _, ok := catalog.CertificateLabels[certType]; !ok {
		flow.Advance(sess, f.ID(), StepCertificateType)
		return reply.Text("📜 Emissão de certidões.\n\n" + typePrompt())
	}
	return f.chooseType(sess, certType).Reply
}

// chooseType records the certificate and moves to the step that collects its identifier.
func (f *Flow) chooseType(sess *store.Session, certType string) flow.Result {
	sess.Set(catalog.ArgCertificateType, certType)
	header := fmt.Sprintf("📜 %s\n\n", catalog.CertificateLabels[certType])

	if needsInscription(certType) {
		sess.Set(flows.KeyTaxpayerType, string(document.KindInscription))
		flow.Advance(sess, f.ID(), StepDocument)
		return flow.Handled(reply.Text(header + flows.DocumentPrompt(document.KindInscription)))
	}
	flow.Advance(sess, f.ID(), StepTaxpayerType)
	return flow.Handled(reply.Text(header + flows.TaxpayerPrompt()))
}

func needsInscription(certType string) bool {
	return certType == catalog.CertificateValorVenal || certType == catalog.CertificateImobiliaria
}

func (f *Flow) HandleStep(ctx context.Context, sess *store.Session, input string) flow.Result {
	switch sess.State.Step {
	case StepCertificateType:
		i, ok := flows.Choice(input, len(certificateTypes))
		if !ok {
			return flow.Retry(reply.Text("Opção inválida.\n\n" + typePrompt()))
		}
		return f.chooseType(sess, certificateTypes[i])

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
		flow.Advance(sess, f.ID(), StepConfirmation)
		return flow.Handled(reply.Text(confirmPrompt(sess)))

	case StepConfirmation:
		if _, ok := flows.StoredKind(sess); !ok || sess.Value(flows.KeyDocument) == "" {
			return flows.LostContext(sess)
		}
		yes, ok := flows.Confirmation(input)
		if !ok {
			return flow.Retry(reply.Text(confirmPrompt(sess)))
		}
		if !yes {
			return flow.Handled(f.Cancel(sess))
		}
		return f.issue(ctx, sess)
	}
	return flow.Terminal(sess, reply.Text(catalog.MainMenu()))
}

func (f *Flow) issue(ctx context.Context, sess *store.Session) flow.Result {
	certType := sess.Value(catalog.ArgCertificateType)
	kind := document.Kind(sess.Value(flows.KeyTaxpayerType))
	doc := sess.Value(flows.KeyDocument)

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	cert, err := f.client.IssueCertificate(ctx, certType, kind, doc)
	if err != nil {
		f.log.Error(module, "Certificate issuance failed", map[string]interface{}{
			"caller_id": sess.CallerID,
			"type":      certType,
			"document":  document.Mask(doc),
			"error":     err.Error(),
		})
		return flow.ExternalFailure(sess, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ %s emitida.\n\nNúmero: %s", catalog.CertificateLabels[certType], cert.Number)
	if cert.Status != "" {
		fmt.Fprintf(&b, "\nSituação: %s", statusLabel(cert.Status))
	}
	if cert.ValidUntil != "" {
		fmt.Fprintf(&b, "\nVálida até: %s", cert.ValidUntil)
	}
	b.WriteString(flows.BackToMenu)

	if cert.URL == "" {
		return flow.Terminal(sess, reply.Text(b.String()))
	}
	return flow.Terminal(sess, reply.Media(b.String(), cert.URL))
}

func statusLabel(status string) string {
	switch status {
	case prefeitura.StatusNegative:
		return "Negativa"
	case prefeitura.StatusPositive:
		return "Positiva (existem débitos em aberto)"
	case prefeitura.StatusPositiveNegative:
		return "Positiva com efeito de negativa"
	}
	return status
}

func typePrompt() string {
	var b strings.Builder
	b.WriteString("Qual certidão você precisa?\n\n")
	for i, t := range certificateTypes {
		fmt.Fprintf(&b, "*%d* - %s\n", i+1, catalog.CertificateLabels[t])
	}
	return strings.TrimRight(b.String(), "\n")
}

func confirmPrompt(sess *store.Session) string {
	kind := document.Kind(sess.Value(flows.KeyTaxpayerType))
	return fmt.Sprintf("Confirma a emissão da *%s* para %s %s?\n\n%s",
		catalog.CertificateLabels[sess.Value(catalog.ArgCertificateType)],
		kind.Label(), document.Mask(sess.Value(flows.KeyDocument)),
		flows.ConfirmationOptions())
}

func (f *Flow) Prompt(sess *store.Session) reply.Reply {
	switch sess.State.Step {
	case StepTaxpayerType:
		return reply.Text(flows.TaxpayerPrompt())
	case StepDocument:
		return reply.Text(flows.DocumentPrompt(document.Kind(sess.Value(flows.KeyTaxpayerType))))
	case StepConfirmation:
		return reply.Text(confirmPrompt(sess))
	default:
		return reply.Text(typePrompt())
	}
}

func (f *Flow) Cancel(sess *store.Session) reply.Reply {
	flow.Finish(sess)
	return reply.Text("Emissão de certidão cancelada." + flows.BackToMenu)
}
