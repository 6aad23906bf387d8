package trace

import (
	"fmt"
	"strings"
)

// enum maps command-line spellings to values. The first spelling of each
// value is its canonical name.
type enum[T comparable] struct {
	what  string
	names []string
	vals  []T
}

func (e enum[T]) parse(s string) (T, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range e.names {
		if n == s {
			return e.vals[i], nil
		}
	}
	var zero T
	return zero, fmt.Errorf("invalid %s: %q (expected: %s)", e.what, s, strings.Join(e.canonical(), "|"))
}

func (e enum[T]) name(v T) string {
	for i, x := range e.vals {
		if x == v {
			return e.names[i]
		}
	}
	return "unknown"
}

func (e enum[T]) canonical() []string {
	var out []string
	seen := make(map[T]bool, len(e.vals))
	for i, v := range e.vals {
		if !seen[v] && e.names[i] != "" {
			seen[v] = true
			out = append(out, e.names[i])
		}
	}
	return out
}

var levelNames = enum[Level]{
	what:  "trace level",
	names: []string{"off", "error", "stage", "phase", "detail", "debug"},
	vals:  []Level{LevelOff, LevelError, LevelStage, LevelStage, LevelDetail, LevelDebug},
}

var formatNames = enum[Format]{
	what:  "trace format",
	names: []string{"auto", "", "text", "ndjson", "json"},
	vals:  []Format{FormatAuto, FormatAuto, FormatText, FormatNDJSON, FormatNDJSON},
}

var modeNames = enum[StorageMode]{
	what:  "storage mode",
	names: []string{"stream", "ring", "both"},
	vals:  []StorageMode{ModeStream, ModeRing, ModeBoth},
}

var kindNames = enum[Kind]{
	what:  "event kind",
	names: []string{"begin", "end", "point"},
	vals:  []Kind{KindSpanBegin, KindSpanEnd, KindPoint},
}

var scopeNames = enum[Scope]{
	what:  "scope",
	names: []string{"driver", "stage", "file", "module"},
	vals:  []Scope{ScopeDriver, ScopeStage, ScopeFile, ScopeModule},
}

// ParseLevel accepts off|error|stage|detail|debug; "phase" means stage.
func ParseLevel(s string) (Level, error) { return levelNames.parse(s) }

// ParseFormat accepts auto|text|ndjson; "json" means ndjson.
func ParseFormat(s string) (Format, error) { return formatNames.parse(s) }

// ParseMode accepts stream|ring|both.
func ParseMode(s string) (StorageMode, error) { return modeNames.parse(s) }

func (l Level) String() string       { return levelNames.name(l) }
func (f Format) String() string      { return formatNames.name(f) }
func (m StorageMode) String() string { return modeNames.name(m) }
func (s Scope) String() string       { return scopeNames.name(s) }
func (k Kind) String() string        { return kindNames.name(k) }
