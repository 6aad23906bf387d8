// Package atomize expands a patterned graph into literal nets, instances and
// endpoints and verifies the result.
package atomize

import (
	"fmt"

	"netc/internal/diag"
	"netc/internal/hier"
	"netc/internal/ids"
	"netc/internal/ir"
	"netc/internal/pattern"
)

// Options tunes expansion.
type Options struct {
	// MaxAtoms bounds every single expression; 0 means pattern.DefaultMaxAtoms.
	MaxAtoms int
}

// Atomize derives a fresh program from pg. Modules are processed in order
// and ids are taken from alloc as entities are materialized, so the same
// graph and a fresh allocator always give the same ids. Problems local to one
// expression or binding are reported and skipped; the program is returned
// only when no error was reported and it passes Verify.
func Atomize(pg *ir.PatternedGraph, alloc *ids.Allocator, opts Options, rep diag.Reporter) (*ir.Program, bool) {
	tracker := &diag.ErrorTracker{Next: rep}
	prog := ir.NewProgram()
	prog.Top = pg.Top
	for _, dev := range pg.Devices {
		prog.Devices[dev.ID] = dev
	}
	for _, pm := range pg.Modules {
		a := &moduleAtomizer{
			pg:    pg,
			pm:    pm,
			alloc: alloc,
			rep:   tracker,
			opts:  pattern.Options{MaxAtoms: opts.MaxAtoms, Named: pm.Named()},
		}
		prog.Modules[pm.ID] = a.run()
	}
	if tracker.Errors() > 0 {
		return nil, false
	}
	if !Verify(prog, tracker) {
		return nil, false
	}
	idx := hier.BuildIndex(prog)
	prog.EmitOrder = hier.EmitOrder(idx, hier.ToposortKahn(hier.BuildGraph(idx, prog)))
	return prog, true
}

func origin(expr *pattern.Expansion, id ids.ID, a pattern.Atom) *ir.PatternOrigin {
	if expr.Expr.IsLiteral() {
		return nil
	}
	return &ir.PatternOrigin{
		Expr:     id,
		Segment:  a.SegmentIndex,
		BaseName: a.BaseName,
		Parts:    a.Parts,
	}
}

func (a *moduleAtomizer) internalf(format string, args ...any) {
	diag.ReportError(a.rep, diag.IRInternalError, a.pm.Span, fmt.Sprintf(format, args...)).Emit()
}
