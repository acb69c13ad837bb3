package catalog

import (
	"fmt"
	"strings"

	"virtual-attendant-be/pkg/intention"
)

// MenuOption is one row of the option-code table.
type MenuOption struct {
	Code   string
	Label  string
	Action intention.Action
	Args   map[string]string
	// Hidden options are valid codes that are not listed on the main menu.
	Hidden bool
}

// MenuOptions is the option-code table, in display order.
var MenuOptions = []MenuOption{
	{Code: "1", Label: "Débitos e segunda via (IPTU, taxas)", Action: intention.StartFlow(FlowDebitos)},
	{Code: "2", Label: "Certidões", Action: intention.StartFlow(FlowCertidao)},
	{Code: "2.1", Label: "Certidão Negativa de Débitos", Action: intention.StartFlow(FlowCertidao),
		Args: map[string]string{ArgCertificateType: CertificateNegativa}, Hidden: true},
	{Code: "2.2", Label: "Certidão de Valor Venal", Action: intention.StartFlow(FlowCertidao),
		Args: map[string]string{ArgCertificateType: CertificateValorVenal}, Hidden: true},
	{Code: "2.3", Label: "Certidão de Regularidade Imobiliária", Action: intention.StartFlow(FlowCertidao),
		Args: map[string]string{ArgCertificateType: CertificateImobiliaria}, Hidden: true},
	{Code: "3", Label: "Consulta de imóvel (BCI)", Action: intention.StartFlow(FlowImovel)},
	{Code: "4", Label: "Agendamento de atendimento presencial", Action: intention.StartFlow(FlowAgendamento)},
	{Code: "5", Label: "Códigos de serviço (ISS)", Action: intention.StartFlow(FlowCodigos)},
	{Code: "5.1", Label: "Horário de funcionamento", Action: ActionHorario, Hidden: true},
	{Code: "5.2", Label: "Falar com um atendente", Action: ActionAtendente, Hidden: true},
	{Code: "6", Label: "Horário e contatos", Action: ActionHorario},
}

// FindOption looks up code in the option table.
func FindOption(code string) (MenuOption, bool) {
	for _, o := range MenuOptions {
		if o.Code == code {
			return o, true
		}
	}
	return MenuOption{}, false
}

// MainMenu renders the idle menu.
func MainMenu() string {
	var b strings.Builder
	b.WriteString("Olá! Sou o atendente virtual da Prefeitura. Escolha uma opção:\n\n")
	writeOptions(&b)
	b.WriteString("\nVocê também pode escrever o que precisa, por exemplo: \"segunda via do IPTU\".")
	return b.String()
}

// NotUnderstood is the fallback reply.
func NotUnderstood() string {
	var b strings.Builder
	b.WriteString("Desculpe, não entendi. Estas são as opções disponíveis:\n\n")
	writeOptions(&b)
	b.WriteString("\nDigite o número da opção ou *menu* a qualquer momento.")
	return b.String()
}

func writeOptions(b *strings.Builder) {
	for _, o := range MenuOptions {
		if o.Hidden {
			continue
		}
		fmt.Fprintf(b, "*%s* - %s\n", o.Code, o.Label)
	}
}

// BusinessHours is the reply of ActionHorario.
func BusinessHours() string {
	return "🕘 Atendimento presencial: segunda a sexta, das 8h às 17h.\n" +
		"📍 Central de Atendimento ao Contribuinte - Praça da Matriz, 100.\n" +
		"☎️ Telefone: 156.\n\nDigite *menu* para voltar."
}

// HumanAttendant is the reply of ActionAtendente.
func HumanAttendant() string {
	return "Para falar com um atendente, ligue 156 (segunda a sexta, 8h às 17h) " +
		"ou agende um atendimento presencial pela opção *4*.\n\nDigite *menu* para voltar."
}
