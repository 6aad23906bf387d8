package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	// KindPoint represents an instant event.
	KindPoint
)

// Scope indicates the granularity level of the event.
// Lower numeric values represent coarser events.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // one elaboration
	ScopeStage                   // resolve, build, atomize, verify
	ScopeFile                    // one design file in the import resolver
	ScopeModule                  // one module during atomization
)

// Event represents a single trace event.
type Event struct {
	Time     time.Time
	Seq      uint64 // global sequence number (monotonic)
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 if root
	Depth    int    // number of enclosing spans
	Path     string // e.g. "elaborate/atomize/module:amp"
	Name     string // e.g. "atomize", "file:lib/cells.yaml"
	Detail   string
	Extra    map[string]string
}
