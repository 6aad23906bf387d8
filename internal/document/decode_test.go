package document

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"netc/internal/diag"
	"netc/internal/source"
)

const ampYAML = `top: amp
imports:
  std: ./std.yaml
  pdk: pdk/devices.yaml
devices:
  nfet:
    ports: [D, G, S, B]
    parameters: {w: 1u, l: 180n}
    backends:
      ngspice: {template: "M{name} {ports} nch w={w} l={l}"}
modules:
  amp:
    parameters: {gain: 10}
    variables: {wn: 2u, wp: "{wn}"}
    patterns: {rows: "<0,1>", cols: "[1:0]"}
    instances:
      M<P,N>: "nfet w={wn} l=1u"
      U<@rows><@cols>: std.cell
    nets:
      $in_<p,n>: ["M<P,N>.G"]
      BUS<@cols>: ["U<@rows><@cols>.D"]
      VSS: ["!M<P,N>.B"]
    instance_defaults:
      nfet: {bindings: {B: VSS, S: VSS}}
`

func decode(t *testing.T, text string) (*Document, *source.FileSet, *diag.Collector) {
	t.Helper()
	fs := source.NewFileSet()
	var c diag.Collector
	doc := DecodeBytes(fs, "amp.yaml", []byte(text), &c)
	return doc, fs, &c
}

func TestDecodeKeepsOrderAndShape(t *testing.T) {
	doc, _, c := decode(t, ampYAML)
	if len(c.Items) != 0 {
		t.Fatalf("unexpected diagnostics: %v", c.Items)
	}
	if doc.Top == nil || doc.Top.Value != "amp" {
		t.Fatalf("top = %v", doc.Top)
	}
	var ns []string
	for _, imp := range doc.Imports {
		ns = append(ns, imp.Namespace.Value+"="+imp.Path.Value)
	}
	if diff := cmp.Diff([]string{"std=./std.yaml", "pdk=pdk/devices.yaml"}, ns); diff != "" {
		t.Fatalf("imports (-want +got):\n%s", diff)
	}

	dev := doc.Device("nfet")
	if dev == nil || len(dev.Ports) != 4 || dev.Ports[3].Value != "B" {
		t.Fatalf("device = %+v", dev)
	}
	if tmpl, ok := Lookup(dev.Backends[0].Fields, "template"); !ok || tmpl.Value != "M{name} {ports} nch w={w} l={l}" {
		t.Fatalf("template = %q", tmpl.Value)
	}

	mod := doc.Module("amp")
	if mod == nil {
		t.Fatalf("module amp missing")
	}
	if got := mod.Instances[1].Key.Value; got != "U<@rows><@cols>" {
		t.Fatalf("instance order: second = %q", got)
	}
	if len(mod.Nets) != 3 {
		t.Fatalf("nets = %d", len(mod.Nets))
	}
	in := mod.Nets[0]
	if !in.Port || in.Name.Value != "in_<p,n>" {
		t.Fatalf("port net = %+v", in)
	}
	vss := mod.Nets[2]
	if vss.Port || !vss.Endpoints[0].Suppressed || vss.Endpoints[0].Expr.Value != "M<P,N>.B" {
		t.Fatalf("VSS net = %+v", vss)
	}
	if len(mod.Defaults) != 1 || mod.Defaults[0].Ref.Value != "nfet" || len(mod.Defaults[0].Bindings) != 2 {
		t.Fatalf("defaults = %+v", mod.Defaults)
	}
}

func TestDecodeSpansPointAtText(t *testing.T) {
	doc, fs, _ := decode(t, ampYAML)
	f := fs.Get(doc.File)
	mod := doc.Module("amp")

	check := func(s Scalar) {
		t.Helper()
		if got := string(f.Content[s.Span.Start:s.Span.End]); got != s.Value {
			t.Fatalf("span text = %q, want %q", got, s.Value)
		}
	}
	check(mod.Name)
	check(mod.Instances[0].Key)
	check(mod.Instances[0].Value) // quoted
	check(mod.Nets[0].Name)       // '$' stripped
	check(mod.Nets[2].Endpoints[0].Expr)

	start, _ := fs.Resolve(mod.Nets[1].Name.Span)
	if start.Line != 21 || start.Col != 7 {
		t.Fatalf("BUS at %d:%d, want 21:7", start.Line, start.Col)
	}
}

func TestDecodeSpansAfterMultibyteText(t *testing.T) {
	text := "modules:\n  amp:\n    instances: {é1: nfet, X: nfet}\n    nets:\n      out: [\"é1.D\", \"X.G\"]\n"
	doc, fs, c := decode(t, text)
	if c.HasErrors() {
		t.Fatalf("diags: %v", c.Items)
	}
	f := fs.Get(doc.File)
	mod := doc.Module("amp")
	for _, s := range []Scalar{mod.Instances[1].Key, mod.Nets[0].Endpoints[1].Expr} {
		if got := string(f.Content[s.Span.Start:s.Span.End]); got != s.Value {
			t.Fatalf("span text = %q, want %q", got, s.Value)
		}
	}
	start, _ := fs.Resolve(mod.Instances[1].Key.Span)
	if start.Line != 3 || start.Col != 28 {
		t.Fatalf("X at %d:%d, want 3:28", start.Line, start.Col)
	}
}

func TestByteColumn(t *testing.T) {
	tests := []struct {
		text string
		col  int
		want uint32
	}{
		{"abc", 1, 1},
		{"abc", 3, 3},
		{"éa", 2, 3},
		{"日本x", 3, 7},
		{"ab", 3, 3},
		{"", 1, 1},
	}
	for _, tt := range tests {
		if got := byteColumn(tt.text, tt.col); got != tt.want {
			t.Errorf("byteColumn(%q, %d) = %d, want %d", tt.text, tt.col, got, tt.want)
		}
	}
}

func TestDecodeDiagnostics(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []diag.Code
	}{
		{
			name: "duplicate net",
			text: "modules:\n  m:\n    nets:\n      a: [x.p]\n      a: [y.p]\n",
			want: []diag.Code{diag.DocDuplicateKey},
		},
		{
			name: "unknown field",
			text: "modules:\n  m:\n    wires: {}\n",
			want: []diag.Code{diag.DocUnknownField},
		},
		{
			name: "shape",
			text: "modules: [a, b]\n",
			want: []diag.Code{diag.DocShape},
		},
		{
			name: "empty endpoint",
			text: "modules:\n  m:\n    nets:\n      a: [\"!\"]\n",
			want: []diag.Code{diag.DocInvalidEndpoint},
		},
		{
			name: "empty port name",
			text: "modules:\n  m:\n    nets:\n      $: [x.p]\n",
			want: []diag.Code{diag.DocEmptyName},
		},
		{
			name: "decomposed name",
			text: "modules:\n  m:\n    nets:\n      caf\u0065\u0301: [x.p]\n",
			want: []diag.Code{diag.DocNotNormalized},
		},
		{
			name: "syntax",
			text: "modules:\n  m: [\n",
			want: []diag.Code{diag.DocSyntax},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, c := decode(t, tt.text)
			if diff := cmp.Diff(tt.want, c.Codes()); diff != "" {
				t.Fatalf("codes (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeEmptyFile(t *testing.T) {
	doc, _, c := decode(t, "")
	if doc == nil || len(doc.Modules) != 0 || len(c.Items) != 0 {
		t.Fatalf("doc=%+v diags=%v", doc, c.Items)
	}
}

func TestDecodeSingleEndpointScalar(t *testing.T) {
	doc, _, c := decode(t, "modules:\n  m:\n    nets:\n      a: x.p\n")
	if len(c.Items) != 0 {
		t.Fatalf("diags: %v", c.Items)
	}
	if eps := doc.Modules[0].Nets[0].Endpoints; len(eps) != 1 || eps[0].Expr.Value != "x.p" {
		t.Fatalf("endpoints = %+v", eps)
	}
}
