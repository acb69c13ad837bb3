package catalog

import (
	"virtual-attendant-be/pkg/intention"
	"virtual-attendant-be/pkg/store"
)

// DefaultIntentions is the built-in intention list loaded at startup.
func DefaultIntentions() []intention.Intention {
	return []intention.Intention{
		{
			ID:    "DEBITOS",
			Label: "Débitos e segunda via",
			Keywords: []string{
				"debito", "divida", "iptu", "segunda via", "boleto", "guia",
				"pagar", "pagamento", "imposto", "atrasad", "parcela", "taxa do lixo",
			},
			Phrases: []string{
				"segunda via do iptu", "segunda via do meu iptu", "quanto devo",
				"debitos em aberto", "emitir boleto", "pagar o iptu",
			},
			Priority:    10,
			TargetState: store.State{Flow: FlowDebitos},
			Action:      intention.StartFlow(FlowDebitos),
		},
		// The generic entry only knows the word; the typed entries below carry the
		// phrases so a named certificate skips the type question.
		{
			ID:          "CERTIDAO",
			Label:       "Certidões",
			Keywords:    []string{"certidao", "certidoes"},
			Priority:    10,
			TargetState: store.State{Flow: FlowCertidao},
			Action:      intention.StartFlow(FlowCertidao),
		},
		{
			ID:       "CERTIDAO_NEGATIVA",
			Label:    CertificateLabels[CertificateNegativa],
			Keywords: []string{"negativa", "nada consta"},
			Phrases: []string{
				"certidao negativa", "certidao de debitos", "certidao negativa de debitos",
				"certidao de nada consta",
			},
			Priority:    12,
			TargetState: store.State{Flow: FlowCertidao},
			Action:      intention.StartFlow(FlowCertidao),
			Args:        map[string]string{ArgCertificateType: CertificateNegativa},
		},
		{
			ID:          "CERTIDAO_VALOR_VENAL",
			Label:       CertificateLabels[CertificateValorVenal],
			Keywords:    []string{"valor venal"},
			Phrases:     []string{"certidao de valor venal", "certidao do valor venal"},
			Priority:    12,
			TargetState: store.State{Flow: FlowCertidao},
			Action:      intention.StartFlow(FlowCertidao),
			Args:        map[string]string{ArgCertificateType: CertificateValorVenal},
		},
		{
			ID:       "CERTIDAO_IMOBILIARIA",
			Label:    CertificateLabels[CertificateImobiliaria],
			Keywords: []string{"regularidade imobiliaria", "regularidade"},
			Phrases: []string{
				"certidao de regularidade", "certidao de regularidade imobiliaria",
			},
			Priority:    12,
			TargetState: store.State{Flow: FlowCertidao},
			Action:      intention.StartFlow(FlowCertidao),
			Args:        map[string]string{ArgCertificateType: CertificateImobiliaria},
		},
		{
			ID:    "IMOVEL",
			Label: "Consulta de imóvel (BCI)",
			Keywords: []string{
				"bci", "imovel", "inscricao imobiliaria", "cadastro imobiliario",
				"lote", "terreno", "matricula",
			},
			Phrases: []string{
				"boletim de cadastro imobiliario", "dados do imovel", "consultar imovel",
				"ficha do imovel",
			},
			Priority:    8,
			TargetState: store.State{Flow: FlowImovel},
			Action:      intention.StartFlow(FlowImovel),
		},
		{
			ID:    "AGENDAMENTO",
			Label: "Agendamento presencial",
			Keywords: []string{
				"agendar", "agendamento", "marcar", "horario disponivel", "presencial", "atendimento presencial",
			},
			Phrases: []string{
				"marcar um horario", "agendar atendimento", "quero agendar", "agendar um horario",
			},
			Priority:    8,
			TargetState: store.State{Flow: FlowAgendamento},
			Action:      intention.StartFlow(FlowAgendamento),
		},
		{
			ID:    "CODIGO_SERVICO",
			Label: "Códigos de serviço (ISS)",
			Keywords: []string{
				"codigo de servico", "issqn", "imposto sobre servico", "lista de servicos", "cnae", "nota fiscal",
			},
			Phrases: []string{
				"codigo do servico", "qual o codigo", "item da lista de servicos",
			},
			Priority:    6,
			TargetState: store.State{Flow: FlowCodigos},
			Action:      intention.StartFlow(FlowCodigos),
		},
		{
			ID:    "ATENDENTE",
			Label: "Falar com um atendente",
			Keywords: []string{
				"atendente", "humano", "ouvidoria", "reclamacao",
			},
			Phrases: []string{
				"falar com alguem", "falar com um atendente", "atendimento humano",
			},
			Priority:    5,
			TargetState: store.Idle,
			Action:      ActionAtendente,
		},
		{
			ID:    "HORARIO_FUNCIONAMENTO",
			Label: "Horário e contatos",
			Keywords: []string{
				"horario de funcionamento", "endereco", "telefone", "contato", "abre", "fecha",
			},
			Phrases: []string{
				"que horas abre", "que horas fecha", "horario de atendimento",
			},
			Priority:    5,
			TargetState: store.Idle,
			Action:      ActionHorario,
		},
	}
}
