package agendamento

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virtual-attendant-be/internal/pkg/logger"
	"virtual-attendant-be/pkg/calendar"
	"virtual-attendant-be/pkg/store"
)

type fakeCalendar struct {
	slots    []calendar.Slot
	slotsErr error
	bookErr  error
	booked   string
	service  string
}

func (c *fakeCalendar) AvailableSlots(_ context.Context, service string, _ time.Time, limit int) ([]calendar.Slot, error) {
	c.service = service
	if c.slotsErr != nil {
		return nil, c.slotsErr
	}
	if len(c.slots) > limit {
		return c.slots[:limit], nil
	}
	return c.slots, nil
}

func (c *fakeCalendar) Book(_ context.Context, slotID, _, _ string) (*calendar.Booking, error) {
	if c.bookErr != nil {
		return nil, c.bookErr
	}
	c.booked = slotID
	return &calendar.Booking{ID: "b1", Protocol: "AG-2024-1"}, nil
}

// 2024-05-02 is a Thursday; 12:00 UTC is 09:00 in Brasília.
var thursday = time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)

func TestBookAppointment(t *testing.T) {
	c := &fakeCalendar{slots: []calendar.Slot{
		{ID: "s1", Start: thursday},
		{ID: "s2", Start: thursday.Add(time.Hour)},
	}}
	f := New(c, time.Second, logger.NewNopLogger())
	ctx := context.Background()
	sess := store.NewSession("5511999990000")

	f.Start(ctx, sess, nil)
	require.Equal(t, StepService, sess.State.Step)

	res := f.HandleStep(ctx, sess, "2")
	require.Equal(t, StepSlot, sess.State.Step)
	assert.Equal(t, "ISS", c.service)
	assert.Contains(t, res.Reply.Body, "*2* - quinta, 02/05 às 10:00")

	res = f.HandleStep(ctx, sess, "2")
	require.Equal(t, StepConfirmation, sess.State.Step)
	assert.Contains(t, res.Reply.Body, "quinta, 02/05 às 10:00")

	res = f.HandleStep(ctx, sess, "sim")
	assert.Equal(t, "s2", c.booked)
	assert.Contains(t, res.Reply.Body, "AG-2024-1")
	assert.Contains(t, res.Reply.Body, "quinta, 02/05 às 10:00")
	assert.True(t, sess.State.IsIdle())
	assert.Empty(t, sess.Scratch)
}

func TestNoSlots(t *testing.T) {
	f := New(&fakeCalendar{}, time.Second, logger.NewNopLogger())
	sess := store.NewSession("c1")
	f.Start(context.Background(), sess, nil)

	res := f.HandleStep(context.Background(), sess, "1")

	assert.Contains(t, res.Reply.Body, "Não há horários")
	assert.True(t, sess.State.IsIdle())
}

func TestCalendarFailures(t *testing.T) {
	tests := []struct {
		name     string
		client   *fakeCalendar
		contains string
	}{
		{
			name:     "slot taken",
			client:   &fakeCalendar{slots: []calendar.Slot{{ID: "s1", Start: thursday}}, bookErr: calendar.ErrSlotTaken},
			contains: "acabou de ser reservado",
		},
		{
			name:     "timeout",
			client:   &fakeCalendar{slots: []calendar.Slot{{ID: "s1", Start: thursday}}, bookErr: context.DeadlineExceeded},
			contains: "tente novamente",
		},
		{
			name:     "error",
			client:   &fakeCalendar{slots: []calendar.Slot{{ID: "s1", Start: thursday}}, bookErr: errors.New("500")},
			contains: "Não foi possível",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(tt.client, time.Second, logger.NewNopLogger())
			ctx := context.Background()
			sess := store.NewSession("c1")
			f.Start(ctx, sess, nil)
			f.HandleStep(ctx, sess, "1")
			f.HandleStep(ctx, sess, "1")

			res := f.HandleStep(ctx, sess, "1")

			assert.Contains(t, res.Reply.Body, tt.contains)
			assert.True(t, sess.State.IsIdle())
			assert.Empty(t, sess.Scratch)
		})
	}
}

func TestInvalidChoicesRetry(t *testing.T) {
	f := New(&fakeCalendar{slots: []calendar.Slot{{ID: "s1", Start: thursday}}}, time.Second, logger.NewNopLogger())
	ctx := context.Background()
	sess := store.NewSession("c1")
	f.Start(ctx, sess, nil)

	res := f.HandleStep(ctx, sess, "9")
	assert.Contains(t, res.Reply.Body, "Opção inválida")
	assert.Equal(t, StepService, sess.State.Step)

	f.HandleStep(ctx, sess, "1")
	before := sess.Clone()
	res = f.HandleStep(ctx, sess, "3")
	assert.Contains(t, res.Reply.Body, "Opção inválida")
	assert.Equal(t, before.Scratch, sess.Scratch)
	assert.Equal(t, StepSlot, sess.State.Step)
}
