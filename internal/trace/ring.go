package trace

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// RingTracer keeps the last events in memory for a dump after an internal
// error. At LevelError it stores every scope.
type RingTracer struct {
	leveled
	mu    sync.Mutex
	buf   []Event
	total uint64 // events ever stored; buf[total%len] is the next slot
}

// NewRingTracer keeps up to capacity events, 4096 when capacity <= 0.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingTracer{leveled: leveled{level}, buf: make([]Event, capacity)}
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.level.records(ev.Scope) {
		return
	}
	t.mu.Lock()
	t.buf[t.total%uint64(len(t.buf))] = *ev
	t.total++
	t.mu.Unlock()
}

// Snapshot returns the stored events oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := uint64(len(t.buf))
	if t.total <= n {
		return append([]Event(nil), t.buf[:t.total]...)
	}
	head := t.total % n
	out := make([]Event, 0, n)
	out = append(out, t.buf[head:]...)
	return append(out, t.buf[:head]...)
}

// Overwritten returns how many events were pushed out of the buffer.
func (t *RingTracer) Overwritten() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n := uint64(len(t.buf)); t.total > n {
		return t.total - n
	}
	return 0
}

// Dump writes the stored events to w, preceded by a count of lost ones.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	if lost := t.Overwritten(); lost > 0 && format != FormatNDJSON {
		if _, err := fmt.Fprintf(w, "... %d earlier event(s) overwritten\n", lost); err != nil {
			return err
		}
	}
	events := t.Snapshot()
	var start time.Time
	if len(events) > 0 {
		start = events[0].Time
	}
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format, start)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error { return nil }

func (t *RingTracer) Close() error { return nil }
