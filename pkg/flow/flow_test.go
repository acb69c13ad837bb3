package flow

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"virtual-attendant-be/pkg/reply"
	"virtual-attendant-be/pkg/store"
)

type stubFlow struct{}

func (stubFlow) ID() store.FlowID { return "STUB" }
func (stubFlow) Steps() []StepSpec {
	return []StepSpec{{Name: "one", Blocking: true}, {Name: "two"}}
}
func (stubFlow) Start(context.Context, *store.Session, map[string]string) reply.Reply {
	return reply.Text("start")
}
func (stubFlow) HandleStep(context.Context, *store.Session, string) Result { return Declined() }
func (stubFlow) Prompt(*store.Session) reply.Reply { return reply.Text("prompt") }
func (stubFlow) Cancel(*store.Session) reply.Reply { return reply.Text("cancel") }

func TestLookup(t *testing.T) {
	f := stubFlow{}
	assert.Equal(t, store.Step("one"), First(f))
	assert.True(t, HasStep(f, "two"))
	assert.False(t, HasStep(f, "three"))

	spec, ok := Lookup(f, "one")
	assert.True(t, ok)
	assert.True(t, spec.Blocking)
}

func TestExternalFailureResetsSession(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "timeout", err: fmt.Errorf("debts: %w", context.DeadlineExceeded), want: TimeoutMessage},
		{name: "upstream error", err: errors.New("500"), want: FailureMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := store.NewSession("c1")
			Advance(sess, "STUB", "two")
			sess.Set("document", "123")

			res := ExternalFailure(sess, tt.err)

			assert.False(t, res.Declined)
			assert.Equal(t, tt.want, res.Reply.Body)
			assert.True(t, sess.State.IsIdle())
			assert.Empty(t, sess.Scratch)
		})
	}
}

func TestRetryKeepsState(t *testing.T) {
	sess := store.NewSession("c1")
	Advance(sess, "STUB", "one")
	sess.Set("k", "v")

	res := Retry(reply.Text("again"))

	assert.Equal(t, store.At("STUB", "one"), sess.State)
	assert.Equal(t, "v", sess.Value("k"))
	assert.Equal(t, "again", res.Reply.Body)
}
