package trace

// MultiTracer sends every event to all of its tracers; `--trace-mode both`
// pairs a stream with a ring.
type MultiTracer struct {
	leveled
	tracers []Tracer
}

func NewMultiTracer(level Level, tracers ...Tracer) *MultiTracer {
	return &MultiTracer{leveled: leveled{level}, tracers: tracers}
}

func (t *MultiTracer) Emit(ev *Event) {
	for _, tr := range t.tracers {
		tr.Emit(ev)
	}
}

func (t *MultiTracer) Flush() error { return t.each(Tracer.Flush) }

func (t *MultiTracer) Close() error { return t.each(Tracer.Close) }

// each calls fn on every tracer and keeps the first error.
func (t *MultiTracer) each(fn func(Tracer) error) error {
	var first error
	for _, tr := range t.tracers {
		if err := fn(tr); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Ring finds the ring tracer inside tr, if there is one.
func Ring(tr Tracer) *RingTracer {
	switch t := tr.(type) {
	case *RingTracer:
		return t
	case *MultiTracer:
		for _, child := range t.tracers {
			if r := Ring(child); r != nil {
				return r
			}
		}
	}
	return nil
}
