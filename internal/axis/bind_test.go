package axis

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"netc/internal/diag"
	"netc/internal/pattern"
	"netc/internal/source"
)

func mustExpand(t *testing.T, raw string, named map[string]string) *pattern.Expansion {
	t.Helper()
	var c diag.Collector
	exp, ok := pattern.Expand(raw, pattern.Options{Named: named}, &c)
	if !ok {
		t.Fatalf("expand %q: %v", raw, c.Items)
	}
	return exp
}

func TestBindBroadcastsOverExtraAxis(t *testing.T) {
	named := map[string]string{"rows": "<0,1>", "cols": "<0,1>"}
	net := mustExpand(t, "BUS<@cols>", named)
	ep := mustExpand(t, "U<@rows><@cols>.D", named)

	var c diag.Collector
	b, ok := BindOrPair(net, ep, source.NoSpan, &c)
	if !ok {
		t.Fatalf("bind failed: %v", c.Items)
	}
	if b.Mode != ModeAxis {
		t.Fatalf("mode = %v, want axis", b.Mode)
	}
	// U00 U01 U10 U11 -> BUS0 BUS1 BUS0 BUS1
	if diff := cmp.Diff([]int{0, 1, 0, 1}, b.NetIndex); diff != "" {
		t.Fatalf("bindings (-want +got):\n%s", diff)
	}
	perNet := map[int]int{}
	for _, idx := range b.NetIndex {
		perNet[idx]++
	}
	if perNet[0] != 2 || perNet[1] != 2 {
		t.Fatalf("expected two endpoints per net atom, got %v", perNet)
	}
}

func TestBindSharedAxisIsIdentity(t *testing.T) {
	named := map[string]string{"b": "[1:0]"}
	net := mustExpand(t, "D<@b>", named)
	ep := mustExpand(t, "X<@b>.A", named)
	b, ok := Bind(net, ep, source.NoSpan, &diag.Collector{})
	if !ok || b.NetIndex[0] != 0 || b.NetIndex[1] != 1 {
		t.Fatalf("binding = %+v ok=%v", b, ok)
	}
}

func TestBindAxisLengthMismatch(t *testing.T) {
	net := mustExpand(t, "N<@k>", map[string]string{"k": "<a,b>"})
	ep := mustExpand(t, "I<@k>.P", map[string]string{"k": "<a,b,c>"})

	var c diag.Collector
	b, ok := BindOrPair(net, ep, source.NoSpan, &c)
	if ok || len(b.NetIndex) != 0 {
		t.Fatalf("expected no bindings, got %+v", b)
	}
	if len(c.Items) != 1 || c.Items[0].Code != diag.AxsLengthMismatch {
		t.Fatalf("diagnostics = %v", c.Items)
	}
}

func TestBindMissingAxisNamesFirstMissing(t *testing.T) {
	named := map[string]string{"a": "<0,1>", "b": "<0,1>", "c": "<0,1>"}
	net := mustExpand(t, "N<@a><@c>", named)
	ep := mustExpand(t, "I<@b><@a>.P", named)

	var c diag.Collector
	if _, ok := Bind(net, ep, source.NoSpan, &c); ok {
		t.Fatalf("expected failure")
	}
	if len(c.Items) != 1 || c.Items[0].Code != diag.AxsMissingAxis {
		t.Fatalf("diagnostics = %v", c.Items)
	}
	if want := `axis "c"`; !strings.Contains(c.Items[0].Message, want) {
		t.Fatalf("message %q does not mention %s", c.Items[0].Message, want)
	}
}

func TestBindOrderMattersForSubsequence(t *testing.T) {
	named := map[string]string{"a": "<0,1>", "b": "<0,1>"}
	net := mustExpand(t, "N<@a><@b>", named)
	ep := mustExpand(t, "I<@b><@a>.P", named)
	var c diag.Collector
	if _, ok := Bind(net, ep, source.NoSpan, &c); ok {
		t.Fatalf("reordered axes must not match as a subsequence")
	}
}

func TestBindCoordinateMismatch(t *testing.T) {
	net := mustExpand(t, "N<@k>", map[string]string{"k": "<a,b>"})
	ep := mustExpand(t, "I<@k>.P", map[string]string{"k": "<a,z>"})
	var c diag.Collector
	if _, ok := Bind(net, ep, source.NoSpan, &c); ok {
		t.Fatalf("expected coordinate mismatch")
	}
	if c.Items[0].Code != diag.AxsCoordMismatch {
		t.Fatalf("codes = %v", c.Codes())
	}
}

func TestBindOrPairFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		net, ep  string
		mode     Mode
		want     []int
		failCode diag.Code
	}{
		{name: "scalar net", net: "VSS", ep: "M<1,2,3>.B", mode: ModeScalar, want: []int{0, 0, 0}},
		{name: "positional", net: "d[3:0]", ep: "R<a,b,c,d>.P", mode: ModePositional, want: []int{0, 1, 2, 3}},
		{name: "spliced", net: "a;b", ep: "X.P;Y.P", mode: ModePositional, want: []int{0, 1}},
		{name: "length mismatch", net: "d[1:0]", ep: "R<a,b,c>.P", failCode: diag.AxsExpansionLength},
		{name: "single endpoint on bus", net: "d[1:0]", ep: "R.P", failCode: diag.AxsExpansionLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c diag.Collector
			b, ok := BindOrPair(mustExpand(t, tt.net, nil), mustExpand(t, tt.ep, nil), source.NoSpan, &c)
			if tt.failCode != 0 {
				if ok || len(c.Items) != 1 || c.Items[0].Code != tt.failCode {
					t.Fatalf("ok=%v diagnostics=%v", ok, c.Items)
				}
				return
			}
			if !ok {
				t.Fatalf("unexpected failure: %v", c.Items)
			}
			if b.Mode != tt.mode {
				t.Fatalf("mode = %v, want %v", b.Mode, tt.mode)
			}
			if diff := cmp.Diff(tt.want, b.NetIndex); diff != "" {
				t.Fatalf("bindings (-want +got):\n%s", diff)
			}
		})
	}
}
