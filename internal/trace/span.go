package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var (
	globalSeq   atomic.Uint64
	globalSpans atomic.Uint64
)

// NextSeq returns a monotonically increasing sequence number.
func NextSeq() uint64 { return globalSeq.Add(1) }

// NextSpanID returns a unique span ID.
func NextSpanID() uint64 { return globalSpans.Add(1) }

// Span is one open begin/end pair.
type Span struct {
	tracer  Tracer
	ctx     SpanContext // own position, parent is one level up
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
}

// Begin opens a span under parent and emits its begin event. Spans whose
// scope the tracer level does not record are inert.
func Begin(t Tracer, scope Scope, name string, parent SpanContext) *Span {
	if t == nil || !t.Enabled() || !t.Level().records(scope) {
		return &Span{tracer: Nop, ctx: parent}
	}

	id := NextSpanID()
	now := time.Now()
	self := parent.child(id, name)

	t.Emit(&Event{
		Time:     now,
		Seq:      NextSeq(),
		Kind:     KindSpanBegin,
		Scope:    scope,
		SpanID:   id,
		ParentID: parent.SpanID,
		Depth:    parent.Depth,
		Path:     self.Path,
		Name:     name,
	})

	return &Span{
		tracer:  t,
		ctx:     self,
		parent:  parent.SpanID,
		scope:   scope,
		name:    name,
		started: now,
	}
}

// Start begins a span under the one stored in ctx and returns a context
// carrying the new span. Inert spans leave ctx unchanged.
func Start(ctx context.Context, scope Scope, name string) (*Span, context.Context) {
	s := Begin(FromContext(ctx), scope, name, CurrentSpan(ctx))
	if s.ID() == 0 {
		return s, ctx
	}
	return s, WithSpanContext(ctx, s.ctx)
}

// End emits the end event with detail and returns the span duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil || !s.tracer.Enabled() {
		return 0
	}

	dur := time.Since(s.started)
	s.tracer.Emit(&Event{
		Time:     time.Now(),
		Seq:      NextSeq(),
		Kind:     KindSpanEnd,
		Scope:    s.scope,
		SpanID:   s.ctx.SpanID,
		ParentID: s.parent,
		Depth:    s.ctx.Depth - 1,
		Path:     s.ctx.Path,
		Name:     s.name,
		Detail:   detail,
		Extra:    s.extra,
	})
	return dur
}

// WithExtra adds a key-value pair to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.tracer == nil || !s.tracer.Enabled() {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
	return s
}

// ID returns the span ID, 0 for inert spans.
func (s *Span) ID() uint64 {
	if s == nil || s.tracer == nil || !s.tracer.Enabled() {
		return 0
	}
	return s.ctx.SpanID
}

// Point emits an instant event under the span stored in ctx.
func Point(ctx context.Context, scope Scope, name, detail string) {
	t := FromContext(ctx)
	if !t.Enabled() || !t.Level().records(scope) {
		return
	}
	parent := CurrentSpan(ctx)
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      NextSeq(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent.SpanID,
		Depth:    parent.Depth,
		Path:     parent.child(0, name).Path,
		Name:     name,
		Detail:   detail,
	})
}
