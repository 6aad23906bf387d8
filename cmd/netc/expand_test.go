package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"netc/internal/diag"
	"netc/internal/pattern"
)

func TestParseNamedFlags(t *testing.T) {
	got, err := parseNamedFlags([]string{"rows=<0,1>", " cols = [1:0] "})
	if err != nil {
		t.Fatalf("parseNamedFlags: %v", err)
	}
	want := map[string]string{"rows": "<0,1>", "cols": "[1:0]"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("named (-want +got):\n%s", diff)
	}

	for _, bad := range [][]string{{"rows"}, {"=<0,1>"}, {"a=<0,1>", "a=<2,3>"}} {
		if _, err := parseNamedFlags(bad); err == nil {
			t.Fatalf("parseNamedFlags(%q) succeeded", bad)
		}
	}
}

func TestExpandExpressionText(t *testing.T) {
	exp, _, bag := expandExpression("d[1:0];clk", nil, pattern.Options{})
	if exp == nil {
		t.Fatalf("expansion failed: %+v", bag.Items())
	}
	var buf bytes.Buffer
	if err := writeExpansion(&buf, exp, "text", false); err != nil {
		t.Fatalf("writeExpansion: %v", err)
	}
	if got := buf.String(); got != "d1\nd0\nclk\n" {
		t.Fatalf("text = %q", got)
	}

	buf.Reset()
	if err := writeExpansion(&buf, exp, "text", true); err != nil {
		t.Fatalf("writeExpansion: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "d[1:0];clk" {
		t.Fatalf("compact = %q", got)
	}
}

func TestExpandExpressionJSON(t *testing.T) {
	named := map[string]string{"rows": "<0,1>"}
	exp, _, bag := expandExpression("U<@rows>", named, pattern.Options{})
	if exp == nil {
		t.Fatalf("expansion failed: %+v", bag.Items())
	}
	var buf bytes.Buffer
	if err := writeExpansion(&buf, exp, "json", false); err != nil {
		t.Fatalf("writeExpansion: %v", err)
	}
	var got expansionJSON
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, buf.String())
	}
	if got.Expr != "U<@rows>" || got.Count != 2 || got.Spliced {
		t.Fatalf("payload = %+v", got)
	}
	if diff := cmp.Diff([]axisJSON{{ID: "rows", Length: 2}}, got.Axes); diff != "" {
		t.Fatalf("axes (-want +got):\n%s", diff)
	}
	if got.Atoms[1].Literal != "U1" || got.Atoms[1].BaseName != "U" {
		t.Fatalf("atom = %+v", got.Atoms[1])
	}
}

func TestExpandExpressionErrors(t *testing.T) {
	tests := []struct {
		raw   string
		named map[string]string
		opts  pattern.Options
		want  diag.Code
	}{
		{raw: "a;b", opts: pattern.Options{NoSplice: true}, want: diag.PatSpliceNotAllowed},
		{raw: "U<@rows>", want: diag.PatUnknownNamed},
		{raw: "U<@9x>", named: map[string]string{"9x": "<0,1>"}, want: diag.PatInvalidAxisName},
		{raw: "d[7:0]", opts: pattern.Options{MaxAtoms: 4}, want: diag.PatTooManyAtoms},
	}
	for _, tt := range tests {
		exp, fs, bag := expandExpression(tt.raw, tt.named, tt.opts)
		if exp != nil {
			t.Fatalf("%q: expected failure", tt.raw)
		}
		items := bag.Items()
		if len(items) == 0 || items[0].Code != tt.want {
			t.Fatalf("%q: diagnostics = %+v, want %v", tt.raw, items, tt.want)
		}
		if fs.Get(items[0].Primary.File) == nil {
			t.Fatalf("%q: diagnostic points outside the virtual files", tt.raw)
		}
	}
}
