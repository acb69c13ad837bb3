package catalog

// ScheduledService is a desk service that accepts appointments.
type ScheduledService struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Duration int    `json:"duration_minutes"`
}

// ScheduledServices is listed, in order, by the scheduling flow.
var ScheduledServices = []ScheduledService{
	{ID: "IPTU", Label: "IPTU e taxas imobiliárias", Duration: 20},
	{ID: "ISS", Label: "ISS e nota fiscal de serviços", Duration: 30},
	{ID: "CADASTRO", Label: "Cadastro imobiliário (BCI)", Duration: 30},
	{ID: "PARCELAMENTO", Label: "Parcelamento de débitos", Duration: 40},
}
