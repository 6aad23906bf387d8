package source

import "testing"

func TestFileSetResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("top.yaml", []byte("modules:\n  amp:\n    nets: {}\n"))

	start, end := fs.Resolve(Span{File: id, Start: 11, End: 14})
	if start.Line != 2 || start.Col != 3 {
		t.Fatalf("start = %+v, want 2:3", start)
	}
	if end.Line != 2 || end.Col != 6 {
		t.Fatalf("end = %+v, want 2:6", end)
	}

	f := fs.Get(id)
	if got := f.Line(2); got != "  amp:" {
		t.Fatalf("Line(2) = %q", got)
	}
	if got := f.Line(4); got != "" {
		t.Fatalf("Line(4) = %q, want empty", got)
	}
}

func TestOffsetOfRoundTrip(t *testing.T) {
	content := []byte("a: 1\nbb: 2\nccc: 3")
	idx := BuildLineIndex(content)
	for off := uint32(0); off < uint32(len(content)); off++ {
		pos := toLineCol(idx, off)
		if got := OffsetOf(idx, len(content), pos); got != off {
			t.Fatalf("OffsetOf(%+v) = %d, want %d", pos, got, off)
		}
	}
}

func TestNormalizeStripsBOMAndCRLF(t *testing.T) {
	content, flags := Normalize([]byte("\xEF\xBB\xBFa\r\nb\r\n"))
	if string(content) != "a\nb\n" {
		t.Fatalf("content = %q", content)
	}
	if flags&FileHadBOM == 0 || flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags = %b", flags)
	}
}

func TestSpanSubClamps(t *testing.T) {
	sp := Span{File: 1, Start: 10, End: 20}
	if got := sp.Sub(2, 5); got != (Span{File: 1, Start: 12, End: 15}) {
		t.Fatalf("Sub(2,5) = %v", got)
	}
	if got := sp.Sub(5, 50); got.End != 20 {
		t.Fatalf("Sub end not clamped: %v", got)
	}
	if got := NoSpan.Sub(1, 2); got != NoSpan {
		t.Fatalf("NoSpan.Sub = %v", got)
	}
}

func TestInternerReusesIDs(t *testing.T) {
	in := NewInterner()
	a := in.Intern("nfet")
	b := in.Intern("nfet")
	if a != b || a == NoStringID {
		t.Fatalf("ids = %d, %d", a, b)
	}
	if _, ok := in.Find("pfet"); ok {
		t.Fatalf("unexpected pfet")
	}
	if s := in.MustLookup(a); s != "nfet" {
		t.Fatalf("lookup = %q", s)
	}
}
