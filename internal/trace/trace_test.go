package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestStreamNDJSONNestsSpans(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelStage, FormatNDJSON)
	ctx := WithTracer(context.Background(), tr)

	outer, ctx := Start(ctx, ScopeDriver, "elaborate")
	inner, _ := Start(ctx, ScopeStage, "atomize")
	inner.WithExtra("modules", "3").End("")
	outer.End("ok")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d events, want 4:\n%s", len(lines), buf.String())
	}
	var ev struct {
		Kind     string            `json:"kind"`
		Name     string            `json:"name"`
		SpanID   uint64            `json:"span_id"`
		ParentID uint64            `json:"parent_id"`
		Depth    int               `json:"depth"`
		Path     string            `json:"path"`
		Extra    map[string]string `json:"extra"`
	}
	if err := json.Unmarshal([]byte(lines[2]), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Kind != "end" || ev.Name != "atomize" || ev.ParentID != outer.ID() || ev.Extra["modules"] != "3" ||
		ev.Depth != 1 || ev.Path != "elaborate/atomize" {
		t.Fatalf("unexpected inner end event: %+v", ev)
	}
}

func TestLevelFiltersScopes(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelStage, FormatText)
	Begin(tr, ScopeModule, "module:amp", SpanContext{}).End("")
	Begin(tr, ScopeFile, "file:a.yaml", SpanContext{}).End("")
	if buf.Len() != 0 {
		t.Fatalf("stage level leaked detail events:\n%s", buf.String())
	}
	Begin(tr, ScopeStage, "resolve", SpanContext{}).End("2 files")
	if !strings.Contains(buf.String(), "← resolve (2 files)") {
		t.Fatalf("missing end line:\n%s", buf.String())
	}
}

func TestRingKeepsLastEvents(t *testing.T) {
	r := NewRingTracer(3, LevelError)
	for _, name := range []string{"a", "b", "c", "d"} {
		Begin(r, ScopeModule, name, SpanContext{})
	}
	var got []string
	for _, ev := range r.Snapshot() {
		got = append(got, ev.Name)
	}
	if strings.Join(got, ",") != "b,c,d" {
		t.Fatalf("snapshot = %v, want b,c,d", got)
	}
	if r.Overwritten() != 1 {
		t.Fatalf("overwritten = %d, want 1", r.Overwritten())
	}
	var dump bytes.Buffer
	if err := r.Dump(&dump, FormatText); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(dump.String(), "... 1 earlier event(s) overwritten\n") || strings.Count(dump.String(), "→ ") != 3 {
		t.Fatalf("dump:\n%s", dump.String())
	}

	m := NewMultiTracer(LevelError, Nop, r)
	if Ring(m) != r {
		t.Fatalf("Ring did not find the ring tracer")
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"off": LevelOff, "phase": LevelStage, "DEBUG": LevelDebug} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestNopFromEmptyContext(t *testing.T) {
	span, ctx := Start(context.Background(), ScopeDriver, "x")
	if span.ID() != 0 || CurrentSpan(ctx).SpanID != 0 {
		t.Fatalf("nop tracer produced a span")
	}
	if span.End("") != 0 {
		t.Fatalf("nop span has a duration")
	}
}

func TestSpanContextPath(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithTracer(context.Background(), NewStreamTracer(&buf, LevelDebug, FormatText))

	outer, ctx := Start(ctx, ScopeDriver, "elaborate")
	stage, ctx := Start(ctx, ScopeStage, "atomize")
	sc := CurrentSpan(ctx)
	if sc.Path != "elaborate/atomize" || sc.Depth != 2 {
		t.Fatalf("span context = %+v", sc)
	}
	Point(ctx, ScopeModule, "module:amp", "")
	stage.End("")
	outer.End("")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	// отступ растёт с глубиной
	if !strings.Contains(lines[2], "]     • module:amp") {
		t.Fatalf("point line = %q", lines[2])
	}
	if !strings.Contains(lines[4], "] ← elaborate") {
		t.Fatalf("root end line = %q", lines[4])
	}
}

func TestEnumNames(t *testing.T) {
	if m, err := ParseMode("RING"); err != nil || m != ModeRing {
		t.Fatalf("ParseMode = %v, %v", m, err)
	}
	if f, err := ParseFormat("json"); err != nil || f != FormatNDJSON {
		t.Fatalf("ParseFormat = %v, %v", f, err)
	}
	if LevelStage.String() != "stage" || ScopeFile.String() != "file" || KindPoint.String() != "point" {
		t.Fatalf("unexpected canonical names")
	}
	_, err := ParseMode("disk")
	if err == nil || !strings.Contains(err.Error(), "expected: stream|ring|both") {
		t.Fatalf("ParseMode error = %v", err)
	}
	_, err = ParseLevel("loud")
	if err == nil || !strings.Contains(err.Error(), "off|error|stage|detail|debug") {
		t.Fatalf("ParseLevel error = %v", err)
	}
}

func TestNewPicksFormatFromPath(t *testing.T) {
	path := t.TempDir() + "/trace.ndjson"
	tr, err := New(Config{Level: LevelStage, OutputPath: path})
	if err != nil {
		t.Fatal(err)
	}
	st, ok := tr.(*StreamTracer)
	if !ok || st.format != FormatNDJSON {
		t.Fatalf("tracer = %#v", tr)
	}
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
	if tr, _ := New(Config{}); tr != Nop {
		t.Fatalf("level off must give Nop")
	}
	both, err := New(Config{Level: LevelError, Mode: ModeBoth, Output: &bytes.Buffer{}})
	if err != nil || Ring(both) == nil {
		t.Fatalf("both mode = %v, %v", both, err)
	}
}
