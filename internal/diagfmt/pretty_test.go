package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"netc/internal/diag"
	"netc/internal/source"
)

const design = "modules:\n  amp:\n    nets:\n      a<1,2>: []\n      a1: []\n"

func duplicateNetBag(fs *source.FileSet, path string) *diag.Bag {
	fileID := fs.AddVirtual(path, []byte(design))
	bag := diag.NewBag(10)
	d := diag.New(diag.SevError, diag.IRDuplicateNet,
		source.Span{File: fileID, Start: 49, End: 51},
		`net "a1" is declared more than once in module "amp"`)
	d = d.WithNote(source.Span{File: fileID, Start: 32, End: 38}, "previous declaration")
	bag.Add(d)
	return bag
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	bag := duplicateNetBag(fs, "/home/user/project/rtl/amp.yaml")
	fs.SetBaseDir("/home/user/project")

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{name: "Absolute path", mode: PathModeAbsolute, contains: "/home/user/project/rtl/amp.yaml:5:7"},
		{name: "Relative path", mode: PathModeRelative, contains: "rtl/amp.yaml:5:7"},
		{name: "Basename only", mode: PathModeBasename, contains: "amp.yaml:5:7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR IR6001") {
				t.Errorf("Expected severity and code in output, got:\n%s", output)
			}
		})
	}
}

// TestPathModeAuto проверяет авто-режим выбора пути
func TestPathModeAuto(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{path: "amp.yaml", expected: "amp.yaml:5:7"},
		{path: "/very/long/absolute/path/to/some/nested/pdk/directory/amp.yaml", expected: " amp.yaml:5:7"},
	}
	for _, tt := range tests {
		fs := source.NewFileSet()
		bag := duplicateNetBag(fs, tt.path)
		var buf bytes.Buffer
		Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeAuto})
		if !strings.HasPrefix(buf.String(), strings.TrimSpace(tt.expected)) {
			t.Errorf("Expected output to start with %q, got:\n%s", tt.expected, buf.String())
		}
	}
}

func TestPrettySnippetAndNotes(t *testing.T) {
	fs := source.NewFileSet()
	bag := duplicateNetBag(fs, "amp.yaml")

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeBasename, ShowNotes: true})
	output := buf.String()

	want := []string{
		"4 |       a<1,2>: []",
		"5 |       a1: []",
		"  |       ^~\n",
		"note: amp.yaml:4:7: previous declaration",
		"  |       ^~~~~~\n",
	}
	for _, w := range want {
		if !strings.Contains(output, w) {
			t.Fatalf("expected %q in output, got:\n%s", w, output)
		}
	}

	buf.Reset()
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	if strings.Contains(buf.String(), "note:") {
		t.Fatalf("notes printed without ShowNotes:\n%s", buf.String())
	}
}

func TestPrettyUnlocatedAndDropped(t *testing.T) {
	fs := source.NewFileSet()
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevInfo, diag.ObsTimings, source.NoSpan, "timings (elaborate): total 1.00 ms").
		WithNote(source.NoSpan, `{"kind":"elaborate"}`))
	bag.Add(diag.New(diag.SevError, diag.SymNoTop, source.NoSpan, "dropped"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	output := buf.String()
	if !strings.HasPrefix(output, "<netc>: INFO OBS9001: timings") {
		t.Fatalf("unexpected header:\n%s", output)
	}
	if !strings.Contains(output, `note: {"kind":"elaborate"}`) {
		t.Fatalf("timings note missing:\n%s", output)
	}
	if !strings.Contains(output, "1 more diagnostic(s) not shown") {
		t.Fatalf("dropped counter missing:\n%s", output)
	}
}

func TestShort(t *testing.T) {
	fs := source.NewFileSet()
	bag := duplicateNetBag(fs, "amp.yaml")
	var buf bytes.Buffer
	Short(&buf, bag, fs, PathModeBasename)
	want := "amp.yaml:5:7: ERROR IR6001: net \"a1\" is declared more than once in module \"amp\"\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestPrettyColor(t *testing.T) {
	fs := source.NewFileSet()
	bag := duplicateNetBag(fs, "amp.yaml")
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Color: true, PathMode: PathModeBasename})
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected ANSI escapes with Color, got:\n%q", buf.String())
	}
}
