package diag

import (
	"fmt"
	"sort"
	"strings"

	"netc/internal/source"
)

type shortDiagnostic struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatShort renders diagnostics into a stable, single-line-per-entry
// representation: `path:line:col: SEV CODE message`, sorted by position.
// Tests compare whole diagnostic sets through it.
func FormatShort(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if len(diags) == 0 {
		return ""
	}
	rendered := make([]shortDiagnostic, 0, len(diags))
	for i := range diags {
		d := &diags[i]
		rendered = append(rendered, renderShort(d.Severity, d.Code, d.Primary, d.Message, fs))
		if !includeNotes {
			continue
		}
		for _, note := range d.Notes {
			rendered = append(rendered, renderShort(SevInfo, d.Code, note.Span, "note: "+note.Msg, fs))
		}
	}
	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.Path != dj.Path {
			return di.Path < dj.Path
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		return di.Column < dj.Column
	})

	var sb strings.Builder
	for _, d := range rendered {
		if d.Path != "" {
			fmt.Fprintf(&sb, "%s:%d:%d: ", d.Path, d.Line, d.Column)
		}
		fmt.Fprintf(&sb, "%s %s %s\n", d.Severity, d.Code, d.Message)
	}
	return sb.String()
}

func renderShort(sev Severity, code Code, sp source.Span, msg string, fs *source.FileSet) shortDiagnostic {
	out := shortDiagnostic{
		Severity: sev.String(),
		Code:     code.ID(),
		Message:  msg,
	}
	if !Located(fs, sp) {
		return out
	}
	start, _ := fs.Resolve(sp)
	out.Path = fs.DisplayPath(sp.File)
	out.Line = start.Line
	out.Column = start.Col
	return out
}
