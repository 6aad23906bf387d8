package diagfmt

import (
	"encoding/json"
	"io"

	"netc/internal/diag"
	"netc/internal/source"
)

// Pos is a 1-based line/column pair.
type Pos struct {
	Line uint32 `json:"line"`
	Col  uint32 `json:"col"`
}

// Location always carries byte offsets; From/To only with IncludePositions.
type Location struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	From      *Pos   `json:"from,omitempty"`
	To        *Pos   `json:"to,omitempty"`
}

type NoteEntry struct {
	Message  string    `json:"message"`
	Location *Location `json:"location,omitempty"`
}

type Entry struct {
	Severity string      `json:"severity"`
	Code     string      `json:"code"`
	Title    string      `json:"title"`
	Message  string      `json:"message"`
	Location *Location   `json:"location,omitempty"`
	Notes    []NoteEntry `json:"notes,omitempty"`
}

// Report is the document `netc diag --format json` prints.
type Report struct {
	Diagnostics []Entry `json:"diagnostics"`
	Count       int     `json:"count"`
	// Dropped counts both items rejected by the bag limit and items cut by Max.
	Dropped int `json:"dropped,omitempty"`
}

type jsonBuilder struct {
	fs   *source.FileSet
	opts JSONOpts
}

func (b jsonBuilder) location(span source.Span) *Location {
	if !diag.Located(b.fs, span) {
		return nil
	}
	loc := &Location{
		File:      formatPath(b.fs, span.File, b.opts.PathMode),
		StartByte: span.Start,
		EndByte:   span.End,
	}
	if b.opts.IncludePositions {
		from, to := b.fs.Resolve(span)
		loc.From = &Pos{Line: from.Line, Col: from.Col}
		loc.To = &Pos{Line: to.Line, Col: to.Col}
	}
	return loc
}

func (b jsonBuilder) entry(d diag.Diagnostic) Entry {
	e := Entry{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Title:    d.Code.Title(),
		Message:  d.Message,
		Location: b.location(d.Primary),
	}
	// тайминги без заметок пустые
	if b.opts.IncludeNotes || d.Code == diag.ObsTimings {
		for _, n := range d.Notes {
			e.Notes = append(e.Notes, NoteEntry{Message: n.Msg, Location: b.location(n.Span)})
		}
	}
	return e
}

// BuildReport converts bag into a Report without encoding it.
func BuildReport(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) Report {
	items := bag.Items()
	shown := items
	if opts.Max > 0 && opts.Max < len(items) {
		shown = items[:opts.Max]
	}
	b := jsonBuilder{fs: fs, opts: opts}
	rep := Report{
		Diagnostics: make([]Entry, 0, len(shown)),
		Dropped:     bag.Dropped() + len(items) - len(shown),
	}
	for _, d := range shown {
		rep.Diagnostics = append(rep.Diagnostics, b.entry(d))
	}
	rep.Count = len(rep.Diagnostics)
	return rep
}

// JSON writes bag as an indented Report.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildReport(bag, fs, opts))
}
