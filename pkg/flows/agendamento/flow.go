// Package agendamento books desk appointments.
package agendamento

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"virtual-attendant-be/internal/pkg/logger"
	"virtual-attendant-be/pkg/calendar"
	"virtual-attendant-be/pkg/catalog"
	"virtual-attendant-be/pkg/flow"
	"virtual-attendant-be/pkg/flows"
	"virtual-attendant-be/pkg/reply"
	"virtual-attendant-be/pkg/store"
)

const (
	StepService      store.Step = "awaiting_service"
	StepSlot         store.Step = "awaiting_slot"
	StepConfirmation store.Step = "awaiting_confirmation"
)

const (
	module = "FLOW_AGENDAMENTO"

	keyService   = "service"
	keySlots     = "slots"
	keySlotTimes = "slot_times"
	keySlot      = "slot"
	keySlotTime  = "slot_time"

	maxSlots = 5
)

type Flow struct {
	client  calendar.Client
	timeout time.Duration
	log     logger.ILogger
	now     func() time.Time
}

func New(client calendar.Client, timeout time.Duration, log logger.ILogger) *Flow {
	return &Flow{client: client, timeout: timeout, log: log, now: time.Now}
}

func (f *Flow) ID() store.FlowID { return catalog.FlowAgendamento }

func (f *Flow) Title() string { return "Agendamento presencial" }

func (f *Flow) Steps() []flow.StepSpec {
	return []flow.StepSpec{
		{Name: StepService, Blocking: true},
		{Name: StepSlot, Blocking: true},
		{Name: StepConfirmation, Blocking: true},
	}
}

func (f *Flow) Start(_ context.Context, sess *store.Session, _ map[string]string) reply.Reply {
	flow.Advance(sess, f.ID(), StepService)
	return reply.Text("📅 Agendamento de atendimento presencial.\n\n" + servicePrompt())
}

func (f *Flow) HandleStep(ctx context.Context, sess *store.Session, input string) flow.Result {
	switch sess.State.Step {
	case StepService:
		i, ok := flows.Choice(input, len(catalog.ScheduledServices))
		if !ok {
			return flow.Retry(reply.Text("Opção inválida.\n\n" + servicePrompt()))
		}
		return f.listSlots(ctx, sess, catalog.ScheduledServices[i])

	case StepSlot:
		ids := flows.Split(sess.Value(keySlots))
		times := flows.Split(sess.Value(keySlotTimes))
		i, ok := flows.Choice(input, len(ids))
		if !ok || i >= len(times) {
			return flow.Retry(reply.Text("Opção inválida.\n\n" + slotPrompt(sess)))
		}
		sess.Set(keySlot, ids[i])
		sess.Set(keySlotTime, times[i])
		flow.Advance(sess, f.ID(), StepConfirmation)
		return flow.Handled(reply.Text(confirmPrompt(sess)))

	case StepConfirmation:
		yes, ok := flows.Confirmation(input)
		if !ok {
			return flow.Retry(reply.Text(confirmPrompt(sess)))
		}
		if !yes {
			return flow.Handled(f.Cancel(sess))
		}
		return f.book(ctx, sess)
	}
	return flow.Terminal(sess, reply.Text(catalog.MainMenu()))
}

func (f *Flow) listSlots(ctx context.Context, sess *store.Session, svc catalog.ScheduledService) flow.Result {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	slots, err := f.client.AvailableSlots(ctx, svc.ID, f.now(), maxSlots)
	if err != nil {
		f.fail(sess, "Slot listing failed", err)
		return flow.ExternalFailure(sess, err)
	}
	if len(slots) == 0 {
		return flow.Terminal(sess, reply.Text(fmt.Sprintf(
			"😕 Não há horários disponíveis para %s nos próximos dias. Tente novamente amanhã.%s",
			svc.Label, flows.BackToMenu)))
	}
	if len(slots) > maxSlots {
		slots = slots[:maxSlots]
	}

	ids := make([]string, len(slots))
	times := make([]string, len(slots))
	for i, s := range slots {
		ids[i] = s.ID
		times[i] = s.Start.Format(time.RFC3339)
	}
	sess.Set(keyService, svc.ID)
	sess.Set(keySlots, flows.Join(ids))
	sess.Set(keySlotTimes, flows.Join(times))
	flow.Advance(sess, f.ID(), StepSlot)
	return flow.Handled(reply.Text(slotPrompt(sess)))
}

func (f *Flow) book(ctx context.Context, sess *store.Session) flow.Result {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	b, err := f.client.Book(ctx, sess.Value(keySlot), sess.CallerID, sess.Value(keyService))
	if errors.Is(err, calendar.ErrSlotTaken) {
		return flow.Terminal(sess, reply.Text(
			"Esse horário acabou de ser reservado por outra pessoa. Digite *4* para escolher um novo horário."))
	}
	if err != nil {
		f.fail(sess, "Booking failed", err)
		return flow.ExternalFailure(sess, err)
	}

	when := formatSlot(b.Slot.Start)
	if b.Slot.Start.IsZero() {
		when = formatStored(sess.Value(keySlotTime))
	}
	return flow.Terminal(sess, reply.Text(fmt.Sprintf(
		"✅ Agendamento confirmado!\n\nServiço: %s\nQuando: %s\nProtocolo: *%s*\n\n"+
			"Leve um documento com foto e chegue com 10 minutos de antecedência.%s",
		serviceLabel(sess.Value(keyService)), when, b.Protocol, flows.BackToMenu)))
}

func (f *Flow) fail(sess *store.Session, msg string, err error) {
	f.log.Error(module, msg, map[string]interface{}{
		"caller_id": sess.CallerID,
		"service":   sess.Value(keyService),
		"error":     err.Error(),
	})
}

func serviceLabel(id string) string {
	for _, s := range catalog.ScheduledServices {
		if s.ID == id {
			return s.Label
		}
	}
	return id
}

var weekdays = [...]string{"domingo", "segunda", "terça", "quarta", "quinta", "sexta", "sábado"}

func formatSlot(t time.Time) string {
	t = t.In(flows.Local)
	return fmt.Sprintf("%s, %s às %s", weekdays[t.Weekday()], t.Format("02/01"), t.Format("15:04"))
}

func formatStored(v string) string {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return v
	}
	return formatSlot(t)
}

func servicePrompt() string {
	var b strings.Builder
	b.WriteString("Qual atendimento você deseja agendar?\n\n")
	for i, s := range catalog.ScheduledServices {
		fmt.Fprintf(&b, "*%d* - %s\n", i+1, s.Label)
	}
	return strings.TrimRight(b.String(), "\n")
}

func slotPrompt(sess *store.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Horários disponíveis para %s:\n\n", serviceLabel(sess.Value(keyService)))
	for i, v := range flows.Split(sess.Value(keySlotTimes)) {
		fmt.Fprintf(&b, "*%d* - %s\n", i+1, formatStored(v))
	}
	return strings.TrimRight(b.String(), "\n")
}

func confirmPrompt(sess *store.Session) string {
	return fmt.Sprintf("Confirma o agendamento de *%s* para %s?\n\n%s",
		serviceLabel(sess.Value(keyService)), formatStored(sess.Value(keySlotTime)), flows.ConfirmationOptions())
}

func (f *Flow) Prompt(sess *store.Session) reply.Reply {
	switch sess.State.Step {
	case StepSlot:
		return reply.Text(slotPrompt(sess))
	case StepConfirmation:
		return reply.Text(confirmPrompt(sess))
	default:
		return reply.Text(servicePrompt())
	}
}

func (f *Flow) Cancel(sess *store.Session) reply.Reply {
	flow.Finish(sess)
	return reply.Text("Agendamento cancelado." + flows.BackToMenu)
}
