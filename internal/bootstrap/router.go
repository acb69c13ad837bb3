package bootstrap

import (
	"context"
	"fmt"

	"virtual-attendant-be/internal/config"
	"virtual-attendant-be/internal/pkg/logger"
	"virtual-attendant-be/pkg/calendar"
	"virtual-attendant-be/pkg/catalog"
	"virtual-attendant-be/pkg/flow"
	"virtual-attendant-be/pkg/flows/agendamento"
	"virtual-attendant-be/pkg/flows/certidao"
	"virtual-attendant-be/pkg/flows/codigos"
	"virtual-attendant-be/pkg/flows/debitos"
	"virtual-attendant-be/pkg/flows/imovel"
	"virtual-attendant-be/pkg/intention"
	"virtual-attendant-be/pkg/prefeitura"
	"virtual-attendant-be/pkg/reply"
	"virtual-attendant-be/pkg/router"
	"virtual-attendant-be/pkg/store"
)

// RouterOptions maps the configured thresholds onto the router defaults.
func RouterOptions(cfg config.RouterConfig) router.Options {
	opts := router.DefaultOptions()
	opts.MinConfidence = cfg.MinConfidence
	opts.AmbiguityFloor = cfg.AmbiguityFloor
	opts.SingleIntent = cfg.SingleIntent
	opts.CloseMargin = cfg.CloseMargin
	opts.MaxCandidates = cfg.MaxCandidates
	return opts
}

// NewRouter wires the municipal flows, the static answers and the built-in
// intention catalog.
func NewRouter(
	cfg *config.Config,
	sessions store.SessionStore,
	pref prefeitura.Client,
	cal calendar.Client,
	log logger.ILogger,
) (*router.Router, error) {
	r := router.New(sessions, intention.NewCatalog(), log, RouterOptions(cfg.Router))

	timeout := cfg.Integrations.Timeout
	flows := []flow.Flow{
		debitos.New(pref, timeout, log),
		certidao.New(pref, timeout, log),
		imovel.New(pref, timeout, log),
		agendamento.New(cal, timeout, log),
		codigos.New(),
	}
	for _, f := range flows {
		if err := r.RegisterFlow(f); err != nil {
			return nil, err
		}
	}

	static := map[intention.Action]string{
		catalog.ActionHorario:   catalog.BusinessHours(),
		catalog.ActionAtendente: catalog.HumanAttendant(),
	}
	for action, body := range static {
		err := r.RegisterAction(action, func(context.Context, *store.Session, map[string]string) reply.Reply {
			return reply.Text(body)
		})
		if err != nil {
			return nil, err
		}
	}

	if err := r.LoadIntentions(catalog.DefaultIntentions()); err != nil {
		return nil, fmt.Errorf("load built-in intentions: %w", err)
	}
	return r, nil
}
