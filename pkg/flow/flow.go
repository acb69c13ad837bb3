// Package flow defines the contract every multi-step conversation implements
// and the helpers flows use to move a session between steps.
package flow

import (
	"context"
	"errors"

	"virtual-attendant-be/pkg/reply"
	"virtual-attendant-be/pkg/store"
)

// StepSpec describes one step of a flow.
type StepSpec struct {
	Name store.Step
	// Blocking steps always consume the caller's message. Non-blocking steps
	// may decline it so the router keeps looking for a match.
	Blocking bool
}

// Flow collects fields over several turns and ends with a terminal action.
//
// Every method leaves sess with a fully resolved state: either a step of
// this flow or idle.
type Flow interface {
	ID() store.FlowID
	Steps() []StepSpec
	Start(ctx context.Context, sess *store.Session, args map[string]string) reply.Reply
	HandleStep(ctx context.Context, sess *store.Session, input string) Result
	// Prompt re-renders the current step, used when a caller resumes the flow.
	Prompt(sess *store.Session) reply.Reply
	Cancel(sess *store.Session) reply.Reply
}

// Result is the outcome of feeding one message to a step.
type Result struct {
	Reply    reply.Reply
	Declined bool
}

// Handled wraps r as a consumed result.
func Handled(r reply.Reply) Result {
	return Result{Reply: r}
}

// Declined tells the router the step found nothing to do with the message.
// Only non-blocking steps may decline.
func Declined() Result {
	return Result{Declined: true}
}

// Advance moves sess to step of flow, keeping scratch.
func Advance(sess *store.Session, flow store.FlowID, step store.Step) {
	sess.State = store.At(flow, step)
}

// Finish ends the flow: idle state, empty scratch.
func Finish(sess *store.Session) {
	sess.Reset()
}

// Retry re-prompts the current step. The session is left untouched.
func Retry(r reply.Reply) Result {
	return Handled(r)
}

// Terminal finishes the flow and answers with r.
func Terminal(sess *store.Session, r reply.Reply) Result {
	Finish(sess)
	return Handled(r)
}

const (
	TimeoutMessage = "⏳ O sistema da Prefeitura demorou para responder. " +
		"Por favor, tente novamente em alguns minutos.\n\nDigite *menu* para voltar ao início."
	FailureMessage = "⚠️ Não foi possível concluir sua solicitação agora. " +
		"Tente novamente mais tarde ou digite *menu* para voltar ao início."
)

// ExternalFailure maps an upstream error to a terminal reply and resets the
// session so the caller is never stuck mid-flow.
func ExternalFailure(sess *store.Session, err error) Result {
	if errors.Is(err, context.DeadlineExceeded) {
		return Terminal(sess, reply.Text(TimeoutMessage))
	}
	return Terminal(sess, reply.Text(FailureMessage))
}

// HasStep reports whether step belongs to f.
func HasStep(f Flow, step store.Step) bool {
	_, ok := Lookup(f, step)
	return ok
}

// Lookup returns the spec of step in f.
func Lookup(f Flow, step store.Step) (StepSpec, bool) {
	for _, s := range f.Steps() {
		if s.Name == step {
			return s, true
		}
	}
	return StepSpec{}, false
}

// First is the step a flow starts on.
func First(f Flow) store.Step {
	steps := f.Steps()
	if len(steps) == 0 {
		return ""
	}
	return steps[0].Name
}

// Title is the caller-facing name of f. Flows opt in by implementing Title() string.
func Title(f Flow) string {
	if t, ok := f.(interface{ Title() string }); ok {
		return t.Title()
	}
	return string(f.ID())
}
