// Package catalog holds the static, read-only tables of the municipal attendant:
// menu option codes, the default intention list, the ISS service-code list,
// the IPTU rate table and the services that accept appointments.
package catalog

import "virtual-attendant-be/pkg/store"

// Flow identifiers of the domain step-flows.
const (
	FlowDebitos     store.FlowID = "DEBITOS"
	FlowCertidao    store.FlowID = "CERTIDAO"
	FlowImovel      store.FlowID = "IMOVEL"
	FlowAgendamento store.FlowID = "AGENDAMENTO"
	FlowCodigos     store.FlowID = "CODIGOS"
)

// Static actions answered directly by the router.
const (
	ActionHorario   = "INFO_HORARIO"
	ActionAtendente = "INFO_ATENDENTE"
)

// Scratch keys shared between menu codes and flows.
const (
	ArgCertificateType = "certificate_type"
	ArgTaxpayerType    = "taxpayer_type"
)

// Certificate kinds.
const (
	CertificateNegativa    = "NEGATIVA_DEBITOS"
	CertificateValorVenal  = "VALOR_VENAL"
	CertificateImobiliaria = "REGULARIDADE_IMOBILIARIA"
)

// CertificateLabels maps certificate kinds to caller-facing names.
var CertificateLabels = map[string]string{
	CertificateNegativa:    "Certidão Negativa de Débitos",
	CertificateValorVenal:  "Certidão de Valor Venal",
	CertificateImobiliaria: "Certidão de Regularidade Imobiliária",
}
