package diag

import "netc/internal/source"

// Reporter is the sink every stage reports into.
// BagReporter, DedupReporter, ErrorTracker and Collector implement it.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note)
}

// ReportBuilder collects notes for one diagnostic and hands it to a
// Reporter on Emit. A nil builder is a no-op.
type ReportBuilder struct {
	to   Reporter
	d    Diagnostic
	sent bool
}

// NewReportBuilder starts a diagnostic bound for r.
func NewReportBuilder(r Reporter, sev Severity, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{to: r, d: New(sev, code, primary, msg)}
}

func ReportError(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, code, primary, msg)
}

func ReportWarning(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevWarning, code, primary, msg)
}

func ReportInfo(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevInfo, code, primary, msg)
}

func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b != nil {
		b.d = b.d.WithNote(sp, msg)
	}
	return b
}

// Emit forwards the diagnostic once; later calls do nothing.
func (b *ReportBuilder) Emit() {
	if b == nil || b.sent {
		return
	}
	b.sent = true
	if b.to != nil {
		forward(b.to, b.d)
	}
}

// Diagnostic returns what has been built so far without emitting it.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.d
}

func forward(r Reporter, d Diagnostic) {
	r.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes)
}

func assemble(code Code, sev Severity, primary source.Span, msg string, notes []Note) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary, Notes: notes}
}

// BagReporter stores into Bag, subject to its limit.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r.Bag != nil {
		r.Bag.Add(assemble(code, sev, primary, msg, notes))
	}
}

// Collector keeps everything in memory without a limit. Tests and
// `netc expand` use it when no session Bag exists.
type Collector struct {
	Items []Diagnostic
}

func (c *Collector) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	c.Items = append(c.Items, assemble(code, sev, primary, msg, notes))
}

func (c *Collector) HasErrors() bool {
	for _, d := range c.Items {
		if d.Severity.IsError() {
			return true
		}
	}
	return false
}

// Codes lists collected codes in report order.
func (c *Collector) Codes() []Code {
	out := make([]Code, 0, len(c.Items))
	for _, d := range c.Items {
		out = append(out, d.Code)
	}
	return out
}

// ErrorTracker counts errors on the way to Next. A stage checks Errors()
// to decide whether its result can be handed on.
type ErrorTracker struct {
	Next   Reporter
	errors int
}

func (t *ErrorTracker) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if sev.IsError() {
		t.errors++
	}
	if t.Next != nil {
		t.Next.Report(code, sev, primary, msg, notes)
	}
}

func (t *ErrorTracker) Errors() int { return t.errors }
