package router

import (
	"fmt"
	"strings"

	"virtual-attendant-be/pkg/flow"
	"virtual-attendant-be/pkg/intention"
	"virtual-attendant-be/pkg/reply"
	"virtual-attendant-be/pkg/store"
)

const (
	contextNew    = 0
	contextResume = 1
	contextMenu   = 2
)

func offerDisambiguation(t *turn, strong []intention.Scored) {
	n := len(strong)
	if n > t.router.opts.MaxCandidates {
		n = t.router.opts.MaxCandidates
	}
	ids := make([]string, 0, n)
	labels := make([]string, 0, n)
	for _, s := range strong[:n] {
		ids = append(ids, s.IntentionID)
		labels = append(labels, t.label(s.IntentionID))
	}

	t.intentionID = strong[0].IntentionID
	t.confidence = strong[0].Confidence
	t.sess.Pending = &store.PendingChoice{Candidates: ids, Previous: t.sess.State}
	t.sess.State = store.At(store.FlowDisambiguation, store.StepAwaitingChoice)

	var b strings.Builder
	b.WriteString("Encontrei mais de um assunto na sua mensagem. Qual deles você procura?\n\n")
	for i, l := range labels {
		fmt.Fprintf(&b, "*%d* - %s\n", i+1, l)
	}
	b.WriteString("\nDigite o número da opção ou *menu* para voltar.")
	t.reply = reply.Text(b.String())
}

func offerContextChange(t *turn, next intention.Scored) {
	current := string(t.sess.State.Flow)
	if f, ok := t.router.flowFor(t.sess.State.Flow); ok {
		current = flow.Title(f)
	}

	t.intentionID = next.IntentionID
	t.confidence = next.Confidence
	t.sess.Pending = &store.PendingChoice{Candidates: []string{next.IntentionID}, Previous: t.sess.State}
	t.sess.State = store.At(store.FlowContextChange, store.StepAwaitingChoice)

	t.reply = reply.Text(fmt.Sprintf(
		"Você estava em *%s*. Parece que agora quer falar sobre *%s*.\n\n"+
			"*1* - Seguir com %s\n*2* - Continuar de onde parei\n*3* - Voltar ao menu principal",
		current, t.label(next.IntentionID), t.label(next.IntentionID),
	))
}

// resolvePendingChoice answers a disambiguation list or a context change
// prompt. Anything that is not a valid pick drops the prompt and the message
// is routed again from the state the caller was in before it.
func resolvePendingChoice(t *turn) bool {
	p := t.sess.Pending
	if p == nil || len(p.Candidates) == 0 {
		t.router.failSafe(t, "pending choice without candidates")
		return true
	}

	switch t.sess.State.Flow {
	case store.FlowDisambiguation:
		if i, ok := choiceIndex(t.normalized, len(p.Candidates)); ok {
			if t.adopt(p.Candidates[i], 0) {
				return true
			}
		}

	case store.FlowContextChange:
		choice, ok := choiceIndex(t.normalized, 3)
		if !ok && t.detect().Signal.IsConfirming && !t.detect().Signal.IsCanceling {
			choice, ok = contextNew, true
		}
		if ok {
			switch choice {
			case contextNew:
				if t.adopt(p.Candidates[0], 0) {
					return true
				}
			case contextResume:
				resume(t, p.Previous)
				return true
			case contextMenu:
				return resetToMenu(t)
			}
		}
	}

	t.sess.State = p.Previous.Canonical()
	t.sess.Pending = nil
	return false
}

func resume(t *turn, prev store.State) {
	t.sess.Pending = nil
	t.sess.State = prev
	f, ok := t.router.flowFor(prev.Flow)
	if !ok || !flow.HasStep(f, prev.Step) {
		t.router.failSafe(t, "cannot resume previous state")
		return
	}
	t.reply = f.Prompt(t.sess)
}

func (t *turn) label(id string) string {
	if in, ok := t.router.catalog.Get(id); ok && in.Label != "" {
		return in.Label
	}
	return id
}

