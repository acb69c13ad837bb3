// Package router decides, for every caller message, which of the global
// commands, active flow, menu codes or detected intentions answers it.
package router

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"virtual-attendant-be/internal/pkg/logger"
	"virtual-attendant-be/pkg/catalog"
	"virtual-attendant-be/pkg/flow"
	"virtual-attendant-be/pkg/intention"
	"virtual-attendant-be/pkg/reply"
	"virtual-attendant-be/pkg/store"
	"virtual-attendant-be/pkg/text"
)

const module = "ROUTER"

var (
	ErrUnknownAction   = errors.New("action is not registered")
	ErrUnknownFlow     = errors.New("flow is not registered")
	ErrUnknownStep     = errors.New("step does not belong to flow")
	ErrStepNeedsStart  = errors.New("only the flow's start action can target a later step")
	ErrDuplicateFlow   = errors.New("flow already registered")
	ErrDuplicateAction = errors.New("action already registered")
	ErrEmptyCaller     = errors.New("caller id is required")
)

// ActionFunc answers an adopted intention or menu option. It may move the
// session into a flow; otherwise the session stays where the router put it.
type ActionFunc func(ctx context.Context, sess *store.Session, args map[string]string) reply.Reply

// Router is the only component that mutates sessions.
type Router struct {
	sessions store.SessionStore
	locks    *store.KeyedMutex
	detector *intention.Detector
	catalog  *intention.Catalog
	log      logger.ILogger
	opts     Options
	rules    []rule
	commands map[string]bool

	mu        sync.RWMutex
	flows     map[store.FlowID]flow.Flow
	actions   map[intention.Action]ActionFunc
	observers []TurnObserver
}

func New(sessions store.SessionStore, cat *intention.Catalog, log logger.ILogger, opts Options) *Router {
	opts = opts.withDefaults()
	if log == nil {
		log = logger.NewNopLogger()
	}
	r := &Router{
		sessions: sessions,
		locks:    store.NewKeyedMutex(),
		detector: intention.NewDetector(cat, opts.Weights, opts.Triggers),
		catalog:  cat,
		log:      log,
		opts:     opts,
		commands: make(map[string]bool, len(opts.GlobalCommands)),
		flows:    map[store.FlowID]flow.Flow{},
		actions:  map[intention.Action]ActionFunc{},
	}
	for _, c := range opts.GlobalCommands {
		r.commands[text.Normalize(c)] = true
	}
	r.rules = defaultRules()
	return r
}

// RegisterFlow makes f reachable through its start action.
func (r *Router) RegisterFlow(f flow.Flow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := f.ID()
	if _, ok := r.flows[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateFlow, id)
	}
	if len(f.Steps()) == 0 {
		return fmt.Errorf("flow %s has no steps", id)
	}
	action := intention.StartFlow(id)
	if _, ok := r.actions[action]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateAction, action)
	}
	r.flows[id] = f
	r.actions[action] = func(ctx context.Context, sess *store.Session, args map[string]string) reply.Reply {
		return f.Start(ctx, sess, args)
	}
	return nil
}

// RegisterAction binds a static handler, such as an informational reply.
func (r *Router) RegisterAction(name intention.Action, fn ActionFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.actions[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateAction, name)
	}
	r.actions[name] = fn
	return nil
}

// Observe subscribes o to every completed turn.
func (r *Router) Observe(o TurnObserver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, o)
}

// AddIntention validates in against the registered flows and actions and adds
// it to the catalog. It takes effect on the next routed message.
func (r *Router) AddIntention(in intention.Intention) error {
	in, err := r.resolveIntention(in)
	if err != nil {
		return err
	}
	return r.catalog.Add(in)
}

func (r *Router) RemoveIntention(id string) error {
	return r.catalog.Remove(id)
}

func (r *Router) Intentions() []intention.Intention {
	return r.catalog.All()
}

// LoadIntentions adds a startup list, stopping at the first invalid entry.
func (r *Router) LoadIntentions(list []intention.Intention) error {
	for _, in := range list {
		if err := r.AddIntention(in); err != nil {
			return fmt.Errorf("intention %s: %w", in.ID, err)
		}
	}
	return nil
}

func (r *Router) resolveIntention(in intention.Intention) (intention.Intention, error) {
	if err := intention.Validate(in); err != nil {
		return in, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.actions[in.Action]; !ok {
		return in, fmt.Errorf("%w: %s", ErrUnknownAction, in.Action)
	}

	target := in.TargetState.Canonical()
	if !target.IsIdle() {
		f, ok := r.flows[target.Flow]
		if !ok {
			return in, fmt.Errorf("%w: %s", ErrUnknownFlow, target.Flow)
		}
		first := flow.First(f)
		switch {
		case target.Step == "":
			target.Step = first
		case !flow.HasStep(f, target.Step):
			return in, fmt.Errorf("%w: %s", ErrUnknownStep, target)
		case target.Step != first && in.Action != intention.StartFlow(target.Flow):
			// later steps rely on scratch that only Start collects
			return in, fmt.Errorf("%w: %s with %s", ErrStepNeedsStart, target, in.Action)
		}
	}
	in.TargetState = target
	return in, nil
}

// Flows lists the registered flow ids, sorted.
func (r *Router) Flows() []store.FlowID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]store.FlowID, 0, len(r.flows))
	for id := range r.flows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (r *Router) flowFor(id store.FlowID) (flow.Flow, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.flows[id]
	return f, ok
}

func (r *Router) action(name intention.Action) (ActionFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.actions[name]
	return fn, ok
}

// Route answers one message from callerID. Messages from the same caller are
// processed one at a time; different callers run in parallel.
//
// A store failure is returned alongside a complete reply, so the host can
// still answer the caller.
func (r *Router) Route(ctx context.Context, callerID, raw string) (reply.Reply, error) {
	t, err := r.RouteTurn(ctx, callerID, raw)
	return t.Reply, err
}

// RouteTurn is Route returning the full turn record, including the state the
// caller was left in.
func (r *Router) RouteTurn(ctx context.Context, callerID, raw string) (Turn, error) {
	if callerID == "" {
		return Turn{Input: raw, Reply: reply.Text(catalog.NotUnderstood()), After: store.Idle}, ErrEmptyCaller
	}

	unlock := r.locks.Lock(callerID)
	defer unlock()

	start := r.opts.Now()
	var storeErr error

	stored, found, err := r.sessions.Get(ctx, callerID)
	if err != nil {
		r.log.Error(module, "Failed to load session", map[string]interface{}{"caller_id": callerID, "error": err.Error()})
		storeErr = fmt.Errorf("load session: %w", err)
	}
	if err != nil || !found || stored == nil {
		stored = store.NewSession(callerID)
	}

	sess := stored.Clone()
	sess.State = sess.State.Canonical()
	t := &turn{
		ctx:        ctx,
		router:     r,
		sess:       sess,
		raw:        raw,
		normalized: text.Normalize(raw),
		before:     sess.State,
	}

	r.runSafely(t)
	r.settle(t)

	sess.UpdatedAt = r.opts.Now()
	if err := r.sessions.Put(ctx, sess); err != nil {
		r.log.Error(module, "Failed to store session", map[string]interface{}{"caller_id": callerID, "error": err.Error()})
		storeErr = errors.Join(storeErr, fmt.Errorf("store session: %w", err))
	}

	r.log.Debug(module, "Turn routed", map[string]interface{}{
		"caller_id":  callerID,
		"rule":       t.rule,
		"intention":  t.intentionID,
		"confidence": t.confidence,
		"before":     t.before.String(),
		"after":      sess.State.String(),
	})

	record := Turn{
		CallerID:    callerID,
		Input:       raw,
		Normalized:  t.normalized,
		Rule:        t.rule,
		IntentionID: t.intentionID,
		Confidence:  t.confidence,
		Before:      t.before,
		After:       sess.State,
		Reply:       t.reply,
		Duration:    r.opts.Now().Sub(start),
		At:          start,
	}
	r.notify(ctx, record)

	return record, storeErr
}

// Detect exposes classification without touching the session, for diagnostics.
func (r *Router) Detect(message string, sess *store.Session) intention.Detection {
	return r.detector.Detect(message, sess)
}

// runSafely resets the caller to the main menu when a flow or action panics,
// so the turn is still answered and stored.
func (r *Router) runSafely(t *turn) {
	defer func() {
		if p := recover(); p != nil {
			t.rule = ruleFailSafe
			r.failSafe(t, fmt.Sprintf("panic: %v", p))
		}
	}()
	r.run(t)
}

func (r *Router) run(t *turn) {
	for _, rl := range r.rules {
		if !rl.match(t) {
			continue
		}
		if rl.apply(t) {
			t.rule = rl.name
			return
		}
	}
	// Only reached with a table that has no catch-all rule.
	t.rule = ruleFallback
	t.reply = reply.Text(catalog.NotUnderstood())
}

// settle checks that the turn left the session in a state something can
// handle. Anything else is reset to the main menu.
func (r *Router) settle(t *turn) {
	s := t.sess
	s.State = s.State.Canonical()

	switch {
	case s.State.IsIdle():
		s.Pending = nil
	case s.State.IsRouterOwned():
		if s.Pending == nil || len(s.Pending.Candidates) == 0 {
			r.failSafe(t, "pending choice without candidates")
		}
	default:
		f, ok := r.flowFor(s.State.Flow)
		if !ok || !flow.HasStep(f, s.State.Step) {
			r.failSafe(t, "turn resolved to an unknown state")
		}
	}

	if t.reply.IsZero() {
		t.reply = reply.Text(catalog.MainMenu())
	}
}

func (r *Router) failSafe(t *turn, reason string) {
	r.log.Warn(module, "Session reset to main menu", map[string]interface{}{
		"caller_id": t.sess.CallerID,
		"state":     t.sess.State.String(),
		"reason":    reason,
	})
	t.sess.Reset()
	t.reply = reply.Text(catalog.MainMenu())
}

func (r *Router) notify(ctx context.Context, t Turn) {
	r.mu.RLock()
	observers := r.observers
	r.mu.RUnlock()
	for _, o := range observers {
		o.ObserveTurn(ctx, t)
	}
}
