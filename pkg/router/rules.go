package router

import (
	"context"
	"sort"
	"strings"

	"virtual-attendant-be/pkg/catalog"
	"virtual-attendant-be/pkg/flow"
	"virtual-attendant-be/pkg/intention"
	"virtual-attendant-be/pkg/reply"
	"virtual-attendant-be/pkg/store"
)

const (
	ruleGlobalCommand = "global_command"
	rulePendingChoice = "pending_choice"
	ruleActiveFlow    = "active_flow"
	ruleMenuCode      = "menu_code"
	ruleCancelSignal  = "cancel_signal"
	ruleIntention     = "intention"
	ruleFallback      = "fallback"
	ruleFailSafe      = "fail_safe"
)

// rule is one row of the routing table. apply returns false to let the
// following rules look at the message.
type rule struct {
	name  string
	match func(t *turn) bool
	apply func(t *turn) bool
}

// defaultRules is evaluated top to bottom; the first rule that applies answers.
func defaultRules() []rule {
	return []rule{
		{name: ruleGlobalCommand, match: isGlobalCommand, apply: resetToMenu},
		{name: rulePendingChoice, match: hasPendingChoice, apply: resolvePendingChoice},
		{name: ruleActiveFlow, match: inFlow, apply: continueFlow},
		{name: ruleMenuCode, match: hasMenuCode, apply: dispatchMenuCode},
		{name: ruleCancelSignal, match: isCanceling, apply: cancelToMenu},
		{name: ruleIntention, match: hasConfidentIntention, apply: dispatchIntention},
		{name: ruleFallback, match: always, apply: notUnderstood},
	}
}

// turn carries one message through the rule table.
type turn struct {
	ctx        context.Context
	router     *Router
	sess       *store.Session
	raw        string
	normalized string
	before     store.State

	detected  bool
	detection intention.Detection
	option    catalog.MenuOption

	rule        string
	intentionID string
	confidence  float64
	reply       reply.Reply
}

func (t *turn) detect() intention.Detection {
	if !t.detected {
		t.detection = t.router.detector.Detect(t.raw, t.sess)
		t.detected = true
	}
	return t.detection
}

// midFlow reports whether a flow still owns the caller, which after the
// active_flow rule means a non-blocking step declined the message.
func (t *turn) midFlow() bool {
	s := t.sess.State
	return !s.IsIdle() && !s.IsRouterOwned()
}

// adopt moves the caller to an intention and runs its action. It returns
// false when the intention is no longer in the catalog.
func (t *turn) adopt(id string, confidence float64) bool {
	in, ok := t.router.catalog.Get(id)
	if !ok {
		return false
	}
	t.intentionID = in.ID
	t.confidence = confidence

	t.sess.Reset()
	t.sess.State = in.TargetState
	t.sess.PushHistory(in.ID)
	t.invoke(in.Action, in.Args)
	return true
}

func (t *turn) invoke(name intention.Action, args map[string]string) {
	fn, ok := t.router.action(name)
	if !ok {
		t.router.failSafe(t, "action "+string(name)+" is not registered")
		return
	}
	t.reply = fn(t.ctx, t.sess, copyArgs(args))
}

func copyArgs(args map[string]string) map[string]string {
	out := make(map[string]string, len(args))
	for k, v := range args {
		out[k] = v
	}
	return out
}

func always(*turn) bool { return true }

func isGlobalCommand(t *turn) bool {
	return t.router.commands[strings.Trim(t.normalized, punctuation)]
}

func resetToMenu(t *turn) bool {
	t.sess.Reset()
	t.reply = reply.Text(catalog.MainMenu())
	return true
}

func hasPendingChoice(t *turn) bool {
	return t.sess.State.IsRouterOwned()
}

func inFlow(t *turn) bool {
	return t.midFlow()
}

func continueFlow(t *turn) bool {
	state := t.sess.State
	f, ok := t.router.flowFor(state.Flow)
	if !ok {
		t.router.failSafe(t, "no flow registered for state")
		return true
	}
	spec, ok := flow.Lookup(f, state.Step)
	if !ok {
		t.router.failSafe(t, "step does not belong to flow")
		return true
	}

	res := f.HandleStep(t.ctx, t.sess, t.raw)
	if !res.Declined {
		t.reply = res.Reply
		return true
	}
	if spec.Blocking {
		t.router.log.Warn(module, "Blocking step declined a message", map[string]interface{}{
			"caller_id": t.sess.CallerID,
			"state":     state.String(),
		})
		t.reply = f.Prompt(t.sess)
		return true
	}
	return false
}

func hasMenuCode(t *turn) bool {
	opt, ok := findMenuCode(t.normalized, t.router.opts.Menu)
	if ok {
		t.option = opt
	}
	return ok
}

func dispatchMenuCode(t *turn) bool {
	t.sess.Reset()
	t.invoke(t.option.Action, t.option.Args)
	return true
}

func isCanceling(t *turn) bool {
	return t.detect().Signal.IsCanceling
}

func cancelToMenu(t *turn) bool {
	if t.midFlow() {
		if f, ok := t.router.flowFor(t.sess.State.Flow); ok {
			f.Cancel(t.sess)
		}
	}
	t.sess.Reset()
	t.reply = reply.Redirect()
	return true
}

func hasConfidentIntention(t *turn) bool {
	return t.detect().TopConfidence > t.router.opts.MinConfidence
}

func dispatchIntention(t *turn) bool {
	opts := t.router.opts
	cands := t.candidates()
	if len(cands) == 0 {
		return false
	}
	top := cands[0]

	var strong []intention.Scored
	for _, c := range cands {
		if c.Confidence >= opts.AmbiguityFloor {
			strong = append(strong, c)
		}
	}
	dominant := top.Confidence >= opts.SingleIntent &&
		(len(strong) < 2 || top.Confidence-strong[1].Confidence >= opts.CloseMargin)

	if len(strong) >= 2 && !dominant {
		offerDisambiguation(t, strong)
		return true
	}
	if t.midFlow() && t.detect().Signal.IsChangingTopic && !t.targetsCurrentFlow(top.IntentionID) {
		offerContextChange(t, top)
		return true
	}
	return t.adopt(top.IntentionID, top.Confidence)
}

// candidates are the intentions above the minimum, best confidence first.
func (t *turn) candidates() []intention.Scored {
	var out []intention.Scored
	for _, s := range t.detect().Scored {
		if s.Confidence > t.router.opts.MinConfidence {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	return out
}

func (t *turn) targetsCurrentFlow(id string) bool {
	in, ok := t.router.catalog.Get(id)
	return ok && in.TargetState.Flow == t.sess.State.Flow
}

func notUnderstood(t *turn) bool {
	if top, ok := t.detect().Top(); ok {
		t.confidence = top.Confidence
	}
	t.reply = reply.Text(catalog.NotUnderstood())
	return true
}
