package diag

import (
	"netc/internal/source"
)

// Note points at a related location, e.g. the first declaration of a
// duplicated net. Span may be source.NoSpan.
type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Primary: primary, Message: msg}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

// WithNote returns a copy of d with one more note; d itself is unchanged.
func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	notes := make([]Note, len(d.Notes), len(d.Notes)+1)
	copy(notes, d.Notes)
	d.Notes = append(notes, Note{Span: sp, Msg: msg})
	return d
}

// Located reports whether sp points into a file loaded in fs. Renderers print
// a location only for located spans; cached diagnostics and limits are not.
func Located(fs *source.FileSet, sp source.Span) bool {
	return fs != nil && sp.IsKnown() && fs.Get(sp.File) != nil
}
