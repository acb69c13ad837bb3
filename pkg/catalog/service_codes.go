package catalog

import (
	"sort"
	"strings"

	"virtual-attendant-be/pkg/text"
)

// ServiceCode is an item of the municipal ISS service list.
type ServiceCode struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Rate        float64 `json:"rate"` // ISS aliquot, percent
}

// ServiceCodes is a subset of the national service list with local rates.
var ServiceCodes = []ServiceCode{
	{"1.01", "Análise e desenvolvimento de sistemas", 2.0},
	{"1.02", "Programação", 2.0},
	{"1.03", "Processamento, armazenamento ou hospedagem de dados", 2.0},
	{"1.05", "Licenciamento ou cessão de direito de uso de programas de computação", 2.0},
	{"1.07", "Suporte técnico em informática", 2.0},
	{"4.01", "Medicina e biomedicina", 3.0},
	{"4.03", "Hospitais, clínicas, laboratórios e congêneres", 3.0},
	{"4.12", "Odontologia", 3.0},
	{"4.23", "Psicologia", 3.0},
	{"6.01", "Barbearia, cabeleireiros, manicuros, pedicuros e congêneres", 3.0},
	{"6.04", "Ginástica, dança, esportes, natação, artes marciais e demais atividades físicas", 3.0},
	{"7.02", "Execução de obras de construção civil, hidráulica ou elétrica", 3.0},
	{"7.10", "Limpeza, manutenção e conservação de vias, imóveis e congêneres", 4.0},
	{"8.01", "Ensino regular pré-escolar, fundamental, médio e superior", 2.0},
	{"8.02", "Instrução, treinamento, orientação pedagógica e educacional", 3.0},
	{"9.01", "Hospedagem de qualquer natureza em hotéis e congêneres", 3.0},
	{"10.05", "Agenciamento, corretagem ou intermediação de bens móveis ou imóveis", 5.0},
	{"14.01", "Lubrificação, limpeza, revisão e conserto de máquinas e veículos", 3.0},
	{"17.01", "Assessoria ou consultoria de qualquer natureza", 5.0},
	{"17.02", "Datilografia, digitação, estenografia e apoio administrativo", 5.0},
	{"17.06", "Propaganda e publicidade", 5.0},
	{"17.12", "Administração em geral, inclusive de bens e negócios de terceiros", 5.0},
	{"17.19", "Contabilidade, inclusive serviços técnicos e auxiliares", 3.0},
	{"25.01", "Funerais e serviços funerários", 5.0},
}

// FindServiceCode returns the item with code. Codes like "101" match "1.01".
func FindServiceCode(code string) (ServiceCode, bool) {
	code = strings.TrimSpace(code)
	digits := text.ExtractDigits(code)
	for _, sc := range ServiceCodes {
		if sc.Code == code || (digits != "" && text.ExtractDigits(sc.Code) == digits) {
			return sc, true
		}
	}
	return ServiceCode{}, false
}

// SearchServiceCodes ranks items by how many query words their description contains.
func SearchServiceCodes(query string, limit int) []ServiceCode {
	words := significantWords(text.Normalize(query))
	if len(words) == 0 {
		return nil
	}

	type hit struct {
		sc    ServiceCode
		count int
	}
	var hits []hit
	for _, sc := range ServiceCodes {
		desc := text.Normalize(sc.Description)
		n := 0
		for _, w := range words {
			if strings.Contains(desc, w) {
				n++
			}
		}
		if n > 0 {
			hits = append(hits, hit{sc, n})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].count > hits[j].count })

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]ServiceCode, len(hits))
	for i, h := range hits {
		out[i] = h.sc
	}
	return out
}

var stopWords = map[string]bool{
	"de": true, "da": true, "do": true, "das": true, "dos": true, "e": true,
	"o": true, "a": true, "os": true, "as": true, "para": true, "com": true,
	"em": true, "no": true, "na": true, "um": true, "uma": true, "qual": true,
	"codigo": true, "servico": true, "servicos": true, "meu": true, "minha": true,
}

func significantWords(normalized string) []string {
	var out []string
	for _, tok := range text.Tokens(normalized) {
		tok = strings.Trim(tok, ".")
		if len(tok) < 3 || stopWords[tok] {
			continue
		}
		out = append(out, tok)
	}
	return out
}
