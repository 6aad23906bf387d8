package trace

import (
	"encoding/json"
	"maps"
	"slices"
	"strconv"
	"time"
)

// Format selects how events are written.
type Format uint8

const (
	FormatAuto   Format = iota // by file extension, text otherwise
	FormatText                 // indented, one line per event
	FormatNDJSON               // one JSON object per line
)

const ndjsonTime = "2006-01-02T15:04:05.000000Z07:00"

// FormatEvent renders ev. start anchors the elapsed column of the text
// format; NDJSON carries absolute time instead.
func FormatEvent(ev *Event, format Format, start time.Time) []byte {
	if format == FormatNDJSON {
		return appendNDJSON(nil, ev)
	}
	return appendText(nil, ev, start)
}

type wireEvent struct {
	Time     string            `json:"time"`
	Seq      uint64            `json:"seq"`
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope"`
	SpanID   uint64            `json:"span_id"`
	ParentID uint64            `json:"parent_id,omitempty"`
	Depth    int               `json:"depth"`
	Path     string            `json:"path"`
	Name     string            `json:"name"`
	Detail   string            `json:"detail,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

func appendNDJSON(dst []byte, ev *Event) []byte {
	data, err := json.Marshal(wireEvent{
		Time:     ev.Time.Format(ndjsonTime),
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		Depth:    ev.Depth,
		Path:     ev.Path,
		Name:     ev.Name,
		Detail:   ev.Detail,
		Extra:    ev.Extra,
	})
	if err != nil {
		return dst
	}
	dst = append(dst, data...)
	return append(dst, '\n')
}

var glyphs = map[Kind]string{
	KindSpanBegin: "→ ",
	KindSpanEnd:   "← ",
	KindPoint:     "• ",
}

// appendText writes "[elapsed] <indent><glyph>name (detail) {k=v, ...}".
func appendText(dst []byte, ev *Event, start time.Time) []byte {
	var elapsed time.Duration
	if !start.IsZero() {
		elapsed = ev.Time.Sub(start)
	}
	ms := strconv.FormatFloat(float64(elapsed)/float64(time.Millisecond), 'f', 3, 64)
	dst = append(dst, '[')
	for pad := 9 - len(ms); pad > 0; pad-- {
		dst = append(dst, ' ')
	}
	dst = append(dst, ms...)
	dst = append(dst, "ms] "...)
	for range ev.Depth {
		dst = append(dst, "  "...)
	}
	dst = append(dst, glyphs[ev.Kind]...)
	dst = append(dst, ev.Name...)
	if ev.Detail != "" {
		dst = append(dst, " ("...)
		dst = append(dst, ev.Detail...)
		dst = append(dst, ')')
	}
	if len(ev.Extra) > 0 {
		dst = append(dst, " {"...)
		for i, k := range slices.Sorted(maps.Keys(ev.Extra)) {
			if i > 0 {
				dst = append(dst, ", "...)
			}
			dst = append(dst, k...)
			dst = append(dst, '=')
			dst = append(dst, ev.Extra[k]...)
		}
		dst = append(dst, '}')
	}
	return append(dst, '\n')
}
