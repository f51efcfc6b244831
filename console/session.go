package console

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/erikmagkekse/nas-console/engine"
	"github.com/erikmagkekse/nas-console/menu"
	"github.com/erikmagkekse/nas-console/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Executor performs one backend call. *engine.Client implements it.
type Executor interface {
	Execute(ctx context.Context, method, endpoint string, body engine.Payload) (any, error)
}

// primarySlot addresses the draft; action slots use their index.
const primarySlot = -1

type slot struct {
	label    string
	method   string
	endpoint string
	body     string

	state        State
	busy         bool
	output       string
	message      string
	kind         string
	invocationID string
	duration     time.Duration

	// seq counts invocations; only the latest one may store its result.
	seq uint64
}

func (sl *slot) view() SlotView {
	return SlotView{
		Label:        sl.label,
		Method:       sl.method,
		Endpoint:     sl.endpoint,
		Body:         sl.body,
		State:        sl.state,
		Busy:         sl.busy,
		Output:       sl.output,
		Error:        sl.message,
		ErrorKind:    sl.kind,
		InvocationID: sl.invocationID,
		DurationMs:   sl.duration.Milliseconds(),
	}
}

// Session is the console state for one operator: the selected menu item, its primary
// request draft and one slot per declared action. Slots run independently and may
// overlap; nothing is queued or cancelled.
type Session struct {
	catalog *menu.Catalog
	exec    Executor

	mu      sync.Mutex
	item    *menu.Item
	primary *slot
	actions []*slot
}

func NewSession(catalog *menu.Catalog, exec Executor) *Session {
	return &Session{
		catalog: catalog,
		exec:    exec,
		primary: &slot{method: model.MethodGet, state: StateIdle},
	}
}

func (s *Session) Catalog() *menu.Catalog { return s.catalog }

// Select makes key the current item, replacing the draft and every action slot with
// freshly seeded ones. Calls still in flight for the old slots are not cancelled;
// their results are dropped when they land.
func (s *Session) Select(key string) error {
	item, ok := s.catalog.Lookup(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownItem, key)
	}

	req := item.DefaultRequest()
	primary := &slot{
		label:    item.APIKey(),
		method:   req.Method,
		endpoint: req.Endpoint,
		body:     seedText(req.Body),
		state:    StateIdle,
	}
	actions := make([]*slot, len(item.Actions))
	for i, a := range item.Actions {
		actions[i] = &slot{
			label:    a.Label,
			method:   a.Method,
			endpoint: a.Endpoint,
			body:     seedText(a.SamplePayload),
			state:    StateIdle,
		}
	}

	s.mu.Lock()
	s.item = &item
	s.primary = primary
	s.actions = actions
	s.mu.Unlock()

	log.Debug().Str("item", key).Int("actions", len(actions)).Msg("menu item selected")
	return nil
}

// Open selects key and immediately runs its primary request.
func (s *Session) Open(ctx context.Context, key string) (Outcome, error) {
	if err := s.Select(key); err != nil {
		return Outcome{}, err
	}
	return s.RunPrimary(ctx)
}

func seedText(v any) string {
	if v == nil {
		return ""
	}
	text, err := indentJSON(v)
	if err != nil {
		log.Warn().Err(err).Msg("cannot render sample payload")
		return ""
	}
	return text
}

// EditDraft replaces the method, endpoint and body text of the primary request.
func (s *Session) EditDraft(method, endpoint, body string) error {
	m, err := engine.NormalizeMethod(method)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.primary.method = m
	s.primary.endpoint = endpoint
	s.primary.body = body
	return nil
}

// PatchDraft overwrites only the non-nil fields of the primary request, reading and
// writing the draft under one lock so concurrent patches to different fields all land.
func (s *Session) PatchDraft(method, endpoint, body *string) error {
	var m string
	if method != nil {
		var err error
		if m, err = engine.NormalizeMethod(*method); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if method != nil {
		s.primary.method = m
	}
	if endpoint != nil {
		s.primary.endpoint = *endpoint
	}
	if body != nil {
		s.primary.body = *body
	}
	return nil
}

// EditAction replaces the payload text of action i.
func (s *Session) EditAction(i int, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, err := s.slot(i)
	if err != nil {
		return err
	}
	sl.body = body
	return nil
}

func (s *Session) RunPrimary(ctx context.Context) (Outcome, error) {
	return s.run(ctx, primarySlot)
}

func (s *Session) RunAction(ctx context.Context, i int) (Outcome, error) {
	if i < 0 {
		return Outcome{}, fmt.Errorf("%w: %d", ErrUnknownAction, i)
	}
	return s.run(ctx, i)
}

// caller holds s.mu
func (s *Session) slot(i int) (*slot, error) {
	if i == primarySlot {
		return s.primary, nil
	}
	if i < 0 || i >= len(s.actions) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAction, i)
	}
	return s.actions[i], nil
}

func (s *Session) run(ctx context.Context, i int) (out Outcome, err error) {
	s.mu.Lock()
	sl, err := s.slot(i)
	if err != nil {
		s.mu.Unlock()
		return Outcome{}, err
	}
	sl.seq++
	seq := sl.seq
	id := uuid.NewString()
	sl.state = StateRunning
	sl.busy = true
	sl.output, sl.message, sl.kind = "", "", ""
	sl.invocationID = id
	method, endpoint, text := sl.method, sl.endpoint, sl.body
	s.mu.Unlock()

	out = Outcome{InvocationID: id, State: StateFailed}
	start := time.Now()
	logger := log.With().Str("invocation", id).Str("slot", sl.label).Str("method", method).Str("endpoint", endpoint).Logger()

	defer func() {
		if r := recover(); r != nil {
			out.State = StateFailed
			out.Error = fmt.Sprintf("request panicked: %v", r)
			out.ErrorKind = ""
			out.Output = ""
		}
		out.Duration = time.Since(start)
		out.DurationMs = out.Duration.Milliseconds()
		out.Stale = !s.complete(sl, seq, out)

		ev := logger.Info()
		if out.State == StateFailed {
			ev = logger.Warn().Str("error", out.Error)
		}
		ev.Dur("duration", out.Duration).Bool("stale", out.Stale).Str("state", string(out.State)).Msg("request finished")
	}()

	payload, perr := engine.ParsePayload(text)
	if perr != nil {
		out.Error, out.ErrorKind = perr.Error(), engine.KindMalformedPayload
		return out, nil
	}

	logger.Debug().Msg("request started")
	result, xerr := s.exec.Execute(ctx, method, endpoint, payload)
	if xerr != nil {
		out.Error, out.ErrorKind = xerr.Error(), errorKind(xerr)
		return out, nil
	}
	out.State = StateSucceeded
	out.Output = Format(result)
	return out, nil
}

func errorKind(err error) string {
	switch {
	case engine.IsMalformedPayload(err):
		return engine.KindMalformedPayload
	case engine.IsTransport(err):
		return engine.KindTransport
	case engine.IsServerError(err):
		return engine.KindServer
	}
	return ""
}

// complete stores out on sl unless sl was replaced by a re-selection or invoked again
// since. Returns whether the result was stored.
func (s *Session) complete(sl *slot, seq uint64, out Outcome) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sl.seq != seq || !s.owns(sl) {
		return false
	}
	sl.busy = false
	sl.state = out.State
	sl.output = out.Output
	sl.message = out.Error
	sl.kind = out.ErrorKind
	sl.duration = out.Duration
	return true
}

// caller holds s.mu
func (s *Session) owns(sl *slot) bool {
	if s.primary == sl {
		return true
	}
	for _, a := range s.actions {
		if a == sl {
			return true
		}
	}
	return false
}

// View snapshots the session.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	actions := make([]SlotView, len(s.actions))
	for i, a := range s.actions {
		actions[i] = a.view()
	}
	return BuildView(s.item, s.primary.view(), actions)
}
