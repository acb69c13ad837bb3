// Package prefeitura talks to the municipal tax system: debts, certificates
// and the real-estate register.
package prefeitura

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"virtual-attendant-be/pkg/document"
	"virtual-attendant-be/pkg/upstream"
)

var ErrNotFound = upstream.ErrNotFound

type Debt struct {
	Description string  `json:"descricao"`
	Year        int     `json:"exercicio"`
	DueDate     string  `json:"vencimento"`
	Amount      float64 `json:"valor"`
	Overdue     bool    `json:"vencido"`
}

type DebtReport struct {
	Document  string  `json:"documento"`
	Year      int     `json:"exercicio"`
	Debts     []Debt  `json:"debitos"`
	Total     float64 `json:"total"`
	BoletoURL string  `json:"boleto_url"`
}

// Certificate status values.
const (
	StatusNegative         = "NEGATIVA"
	StatusPositive         = "POSITIVA"
	StatusPositiveNegative = "POSITIVA_COM_EFEITO_NEGATIVA"
)

type Certificate struct {
	Type       string `json:"tipo"`
	Number     string `json:"numero"`
	Status     string `json:"situacao"`
	ValidUntil string `json:"validade"`
	URL        string `json:"url"`
}

type Property struct {
	Inscription  string  `json:"inscricao"`
	Address      string  `json:"endereco"`
	Neighborhood string  `json:"bairro"`
	Use          string  `json:"uso"`
	LandArea     float64 `json:"area_terreno"`
	BuiltArea    float64 `json:"area_construida"`
	VenalValue   float64 `json:"valor_venal"`
	Residential  bool    `json:"residencial"`
}

// PropertyQuery searches by inscription when set, otherwise by address.
type PropertyQuery struct {
	Inscription string
	Address     string
}

// Client is what the flows need from the tax system.
type Client interface {
	Debts(ctx context.Context, kind document.Kind, doc string, year int) (*DebtReport, error)
	IssueCertificate(ctx context.Context, certType string, kind document.Kind, doc string) (*Certificate, error)
	SearchProperties(ctx context.Context, q PropertyQuery) ([]Property, error)
	PropertyRecord(ctx context.Context, inscription string) (*Property, error)
}

type HTTPClient struct {
	api *upstream.Client
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(baseURL, token string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{api: upstream.New("prefeitura", baseURL, token, timeout)}
}

func (c *HTTPClient) Debts(ctx context.Context, kind document.Kind, doc string, year int) (*DebtReport, error) {
	q := url.Values{}
	q.Set("tipo", string(kind))
	q.Set("documento", doc)
	q.Set("exercicio", strconv.Itoa(year))

	var out DebtReport
	if err := c.api.Do(ctx, http.MethodGet, "/debitos", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type certificateRequest struct {
	Type         string `json:"tipo"`
	TaxpayerType string `json:"tipo_contribuinte"`
	Document     string `json:"documento"`
}

func (c *HTTPClient) IssueCertificate(ctx context.Context, certType string, kind document.Kind, doc string) (*Certificate, error) {
	body := certificateRequest{Type: certType, TaxpayerType: string(kind), Document: doc}

	var out Certificate
	if err := c.api.Do(ctx, http.MethodPost, "/certidoes", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) SearchProperties(ctx context.Context, pq PropertyQuery) ([]Property, error) {
	q := url.Values{}
	if pq.Inscription != "" {
		q.Set("inscricao", pq.Inscription)
	} else {
		q.Set("endereco", pq.Address)
	}

	var out struct {
		Items []Property `json:"imoveis"`
	}
	if err := c.api.Do(ctx, http.MethodGet, "/imoveis", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *HTTPClient) PropertyRecord(ctx context.Context, inscription string) (*Property, error) {
	var out Property
	if err := c.api.Do(ctx, http.MethodGet, "/imoveis/"+url.PathEscape(inscription), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
