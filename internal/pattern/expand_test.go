package pattern

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"netc/internal/diag"
)

func expandOK(t *testing.T, raw string, opts Options) *Expansion {
	t.Helper()
	var c diag.Collector
	exp, ok := Expand(raw, opts, &c)
	if !ok {
		t.Fatalf("Expand(%q) failed: %v", raw, c.Items)
	}
	return exp
}

func TestExpandLiterals(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"in_<p,n>", []string{"in_p", "in_n"}},
		{"base<a,b,c>", []string{"basea", "baseb", "basec"}},
		{"data[3:0]", []string{"data3", "data2", "data1", "data0"}},
		{"data[0:3]", []string{"data0", "data1", "data2", "data3"}},
		{"VDD", []string{"VDD"}},
		{"M<P,N>_[1:0]", []string{"MP_1", "MP_0", "MN_1", "MN_0"}},
		{"A;B<1,2>", []string{"A", "B1", "B2"}},
		{"x[2:2]", []string{"x2"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			exp := expandOK(t, tt.raw, Options{})
			if diff := cmp.Diff(tt.want, exp.Literals()); diff != "" {
				t.Fatalf("literals mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExpandLiteralIsIdempotent(t *testing.T) {
	for _, raw := range []string{"VDD", "net_1", "data3"} {
		exp := expandOK(t, raw, Options{})
		if exp.Len() != 1 || exp.Atoms[0].Literal != raw {
			t.Fatalf("Expand(%q) = %v", raw, exp.Literals())
		}
		again := expandOK(t, exp.Atoms[0].Literal, Options{})
		if again.Atoms[0].Literal != raw {
			t.Fatalf("re-expansion changed %q", raw)
		}
	}
}

func TestExpandProvenance(t *testing.T) {
	exp := expandOK(t, "A;BUS<x,y>[1:0]", Options{})
	last := exp.Atoms[len(exp.Atoms)-1]
	if last.Literal != "BUSy0" || last.BaseName != "BUS" || last.SegmentIndex != 1 {
		t.Fatalf("unexpected atom %+v", last)
	}
	want := []Part{Literal("y"), Numeric(0)}
	if diff := cmp.Diff(want, last.Parts, cmp.AllowUnexported(Part{})); diff != "" {
		t.Fatalf("parts mismatch (-want +got):\n%s", diff)
	}
	if exp.Axes != nil {
		t.Fatalf("spliced expansion must not carry axes")
	}
}

func TestExpandDuplicateAtoms(t *testing.T) {
	var c diag.Collector
	exp, ok := Expand("A<0>;A<0>", Options{}, &c)
	if ok || exp != nil {
		t.Fatalf("expected failure, got %v", exp)
	}
	var found bool
	for _, d := range c.Items {
		if d.Code == diag.PatDuplicateAtoms {
			found = strings.Contains(d.Message, "duplicate")
		}
	}
	if !found {
		t.Fatalf("no duplicate diagnostic in %v", c.Items)
	}
}

func TestExpandDuplicateExamplesAreCapped(t *testing.T) {
	var c diag.Collector
	_, ok := Expand("n[0:6];n[0:6]", Options{}, &c)
	if ok {
		t.Fatalf("expected failure")
	}
	msg := c.Items[len(c.Items)-1].Message
	if !strings.Contains(msg, "n0, n1, n2, n3, n4") || !strings.Contains(msg, "(and 2 more)") {
		t.Fatalf("message = %q", msg)
	}
}

func TestExpandSizeGuard(t *testing.T) {
	var c diag.Collector
	exp, ok := Expand("a[0:9]b[0:9]c[0:9]", Options{MaxAtoms: 500}, &c)
	if ok || exp != nil {
		t.Fatalf("expected size guard to reject expansion")
	}
	if len(c.Items) != 1 || c.Items[0].Code != diag.PatTooManyAtoms {
		t.Fatalf("diagnostics = %v", c.Items)
	}

	c = diag.Collector{}
	if _, ok := Expand("a[0:9]b[0:9]", Options{MaxAtoms: 100}, &c); !ok {
		t.Fatalf("exactly max atoms must succeed: %v", c.Items)
	}

	c = diag.Collector{}
	if _, ok := Expand("a[0:9];b[0:9]", Options{MaxAtoms: 15}, &c); ok {
		t.Fatalf("limit applies across segments")
	}
}

func TestExpandHugeRangeRejectedEarly(t *testing.T) {
	for _, raw := range []string{
		"x[2000000000:0]",
		"d[9223372036854775807:0]",
		"d[0:9223372036854775807]",
		"d[9223372036854775807:9223372036854775806]",
	} {
		t.Run(raw, func(t *testing.T) {
			var c diag.Collector
			exp, ok := Expand(raw, Options{MaxAtoms: 1}, &c)
			if ok || exp != nil {
				t.Fatalf("expected failure")
			}
			if len(c.Items) != 1 || c.Items[0].Code != diag.PatTooManyAtoms {
				t.Fatalf("diagnostics = %v", c.Items)
			}
		})
	}

	var c diag.Collector
	Expand("d[9223372036854775807:0]", Options{}, &c)
	if len(c.Items) != 1 || !strings.Contains(c.Items[0].Message, "9223372036854775808 values") {
		t.Fatalf("diagnostics = %v", c.Items)
	}
}

func TestExpandRangeAtLimit(t *testing.T) {
	var c diag.Collector
	exp, ok := Expand("d[9223372036854775807:9223372036854775806]", Options{MaxAtoms: 2}, &c)
	if !ok || len(exp.Atoms) != 2 || exp.Atoms[1].Literal != "d9223372036854775806" {
		t.Fatalf("expansion = %+v, diagnostics = %v", exp, c.Items)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		raw  string
		opts Options
		code diag.Code
	}{
		{"a<>", Options{}, diag.PatEmptyGroup},
		{"a<x,,y>", Options{}, diag.PatEmptyItem},
		{"a<x,y", Options{}, diag.PatUnclosedGroup},
		{"a<x[1:0]>", Options{}, diag.PatNestedGroup},
		{"a[3]", Options{}, diag.PatInvalidRange},
		{"a[x:0]", Options{}, diag.PatInvalidRange},
		{"a>", Options{}, diag.PatUnexpectedClose},
		{"a;;b", Options{}, diag.PatEmptySegment},
		{"a;b", Options{NoSplice: true}, diag.PatSpliceNotAllowed},
		{"", Options{}, diag.PatEmptyExpression},
		{"a<@rows>", Options{}, diag.PatUnknownNamed},
		{"a<@rows>", Options{Named: map[string]string{"rows": "r<0,1>"}}, diag.PatInvalidNamed},
		{"a<@1x>", Options{}, diag.PatInvalidAxisName},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var c diag.Collector
			if _, ok := Expand(tt.raw, tt.opts, &c); ok {
				t.Fatalf("expected failure for %q", tt.raw)
			}
			if len(c.Items) == 0 || c.Items[0].Code != tt.code {
				t.Fatalf("codes = %v, want first %v", c.Codes(), tt.code)
			}
		})
	}
}

func TestSingleItemEnumerationWarns(t *testing.T) {
	var c diag.Collector
	exp, ok := Expand("A<0>", Options{}, &c)
	if !ok || exp.Len() != 1 || exp.Atoms[0].Literal != "A0" {
		t.Fatalf("expected A0, got %v ok=%v", exp, ok)
	}
	if len(c.Items) != 1 || c.Items[0].Severity != diag.SevWarning || c.Items[0].Code != diag.PatSingleItem {
		t.Fatalf("diagnostics = %v", c.Items)
	}
}

func TestNamedAxesMetadata(t *testing.T) {
	named := map[string]string{"rows": "<0,1>", "cols": "[1:0]"}
	exp := expandOK(t, "U<@rows><@cols>.D", Options{Named: named})
	if diff := cmp.Diff([]string{"U01.D", "U00.D", "U11.D", "U10.D"}, exp.Literals()); diff != "" {
		t.Fatalf("literals (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"rows", "cols"}, exp.AxisIDs()); diff != "" {
		t.Fatalf("axis ids (-want +got):\n%s", diff)
	}
	if !exp.FullyNamed() {
		t.Fatalf("expected fully named expansion")
	}
	cols := exp.Axes[1]
	if cols.Length != 2 || cols.Index[Numeric(1)] != 0 || cols.Index[Numeric(0)] != 1 {
		t.Fatalf("cols axis = %+v", cols)
	}
	if _, ok := exp.Axes[0].Index[Numeric(0)]; ok {
		t.Fatalf("enumeration values are literals, not numbers")
	}
}

func TestExpandEndpoint(t *testing.T) {
	var c diag.Collector
	_, eps, ok := ExpandEndpoint("M<P,N>.G", Options{}, &c)
	if !ok {
		t.Fatalf("unexpected failure: %v", c.Items)
	}
	if len(eps) != 2 || eps[0].Instance != "MP" || eps[1].Instance != "MN" || eps[1].Port != "G" {
		t.Fatalf("endpoints = %+v", eps)
	}

	for _, raw := range []string{"M1", "a.b.c", "x<a,b.c>.d"} {
		c = diag.Collector{}
		if _, _, ok := ExpandEndpoint(raw, Options{}, &c); ok {
			t.Fatalf("ExpandEndpoint(%q) should fail", raw)
		}
		if c.Items[len(c.Items)-1].Code != diag.PatEndpointSplit {
			t.Fatalf("codes = %v", c.Codes())
		}
	}
}

func TestRenderCompactsRuns(t *testing.T) {
	tests := []string{"data[3:0]", "in_<p,n>", "VDD", "A;B[0:1]"}
	want := []string{"data[3:0]", "in_<p,n>", "VDD", "A;B[0:1]"}
	for i, raw := range tests {
		exp := expandOK(t, raw, Options{})
		if got := Render(exp.Atoms); got != want[i] {
			t.Fatalf("Render(%q) = %q, want %q", raw, got, want[i])
		}
	}
}
