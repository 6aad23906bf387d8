package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"netc/internal/diag"
	"netc/internal/source"
)

type palette struct {
	err, warn, info, note, code, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		note:   mk(color.FgBlue),
		code:   mk(color.Bold),
		gutter: mk(color.FgHiBlack),
		caret:  mk(color.FgGreen, color.Bold),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее):
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//	  12 | line text
//	     |   ^~~~
//
// затем Notes, если ShowNotes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		sev := pal.severity(d.Severity)
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			location(fs, d.Primary, opts.PathMode),
			sev.Sprint(d.Severity.String()),
			pal.code.Sprint(d.Code.ID()),
			d.Message)
		writeSnippet(w, fs, d.Primary, int(opts.Context), pal)

		// тайминги всегда несут полезную нагрузку в заметке
		if !opts.ShowNotes && d.Code != diag.ObsTimings {
			continue
		}
		for _, n := range d.Notes {
			if !n.Span.IsKnown() {
				fmt.Fprintf(w, "  %s %s\n", pal.note.Sprint("note:"), n.Msg)
				continue
			}
			fmt.Fprintf(w, "  %s %s: %s\n", pal.note.Sprint("note:"), location(fs, n.Span, opts.PathMode), n.Msg)
			writeSnippet(w, fs, n.Span, 0, pal)
		}
	}
	if dropped := bag.Dropped(); dropped > 0 {
		fmt.Fprintf(w, "... %d more diagnostic(s) not shown (limit %d)\n", dropped, bag.Cap())
	}
}

func location(fs *source.FileSet, sp source.Span, mode PathMode) string {
	if !diag.Located(fs, sp) {
		return "<netc>"
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", formatPath(fs, sp.File, mode), start.Line, start.Col)
}

// writeSnippet prints the line of sp with context lines around it and a
// caret underline. Spans over several lines are underlined to the end of
// the first line.
func writeSnippet(w io.Writer, fs *source.FileSet, sp source.Span, context int, pal palette) {
	if !sp.IsKnown() {
		return
	}
	f := fs.Get(sp.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(sp)
	first := max(int(start.Line)-context, 1)
	last := int(start.Line) + context
	if total := len(f.LineIdx) + 1; last > total {
		last = total
	}
	width := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		text := f.Line(uint32(ln))
		fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprintf("%*d |", width+2, ln), text)
		if ln != int(start.Line) {
			continue
		}
		prefix := text[:min(int(start.Col)-1, len(text))]
		endCol := len(text) + 1
		if end.Line == start.Line {
			endCol = min(int(end.Col), len(text)+1)
		}
		marked := ""
		if endCol-1 > len(prefix) {
			marked = text[len(prefix) : endCol-1]
		}
		underline := "^" + strings.Repeat("~", max(runewidth.StringWidth(marked)-1, 0))
		fmt.Fprintf(w, "%s %s%s\n",
			pal.gutter.Sprintf("%*s |", width+2, ""),
			padTo(prefix),
			pal.caret.Sprint(underline))
	}
}

// padTo returns blanks as wide as s on screen, keeping tabs so the caret
// lines up with the source line.
func padTo(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return sb.String()
}

// Short prints one line per diagnostic.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, mode PathMode) {
	for _, d := range bag.Items() {
		fmt.Fprintf(w, "%s: %s %s: %s\n", location(fs, d.Primary, mode), d.Severity, d.Code.ID(), d.Message)
	}
}
