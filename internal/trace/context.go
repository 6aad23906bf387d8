package trace

import "context"

type tracerKey struct{}

type spanKey struct{}

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches t to ctx. A nil tracer is stored as Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// SpanContext identifies the innermost open span of a context.
type SpanContext struct {
	SpanID uint64
	// Path joins span names from the root with '/', e.g.
	// "elaborate/resolve/file:top.yaml".
	Path  string
	Depth int
}

// child describes a span named name opened under sc.
func (sc SpanContext) child(id uint64, name string) SpanContext {
	path := name
	if sc.Path != "" {
		path = sc.Path + "/" + name
	}
	return SpanContext{SpanID: id, Path: path, Depth: sc.Depth + 1}
}

// CurrentSpan returns the span stored in ctx, zero outside any span.
func CurrentSpan(ctx context.Context) SpanContext {
	if ctx == nil {
		return SpanContext{}
	}
	if sc, ok := ctx.Value(spanKey{}).(SpanContext); ok {
		return sc
	}
	return SpanContext{}
}

// WithSpanContext stores sc as the innermost span of ctx.
func WithSpanContext(ctx context.Context, sc SpanContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, spanKey{}, sc)
}
