package pattern

import (
	"fmt"
	"strings"

	"netc/internal/diag"
)

// Atom is one literal produced by expanding an expression.
type Atom struct {
	Literal string
	// BaseName is the literal text of the segment before its first group.
	BaseName string
	// SegmentIndex is the splice segment that produced the atom.
	SegmentIndex int
	// Parts holds the substituted group values in left-to-right group order.
	Parts []Part
}

// AxisToken describes one group of a single-segment expression.
type AxisToken struct {
	// ID is the named pattern of the group, "" for inline groups.
	ID     string
	Length int
	// Index maps every group value to its ordinal.
	Index map[Part]int
}

// Expansion is the result of expanding one expression.
type Expansion struct {
	Expr  *Expression
	Atoms []Atom
	// Axes has one token per group; it is nil for spliced expressions.
	Axes []AxisToken
}

// Literals returns the atom literals in expansion order.
func (e *Expansion) Literals() []string {
	out := make([]string, len(e.Atoms))
	for i, a := range e.Atoms {
		out[i] = a.Literal
	}
	return out
}

// Len returns the number of atoms.
func (e *Expansion) Len() int { return len(e.Atoms) }

// Spliced reports whether the expression had more than one segment.
func (e *Expansion) Spliced() bool { return e.Expr != nil && e.Expr.Spliced() }

// AxisIDs returns the axis ids of all groups, "" for inline groups.
func (e *Expansion) AxisIDs() []string {
	out := make([]string, len(e.Axes))
	for i, a := range e.Axes {
		out[i] = a.ID
	}
	return out
}

// FullyNamed reports whether the expansion has at least one group and every
// group is a named axis.
func (e *Expansion) FullyNamed() bool {
	if e.Spliced() || len(e.Axes) == 0 {
		return false
	}
	for _, a := range e.Axes {
		if a.ID == "" {
			return false
		}
	}
	return true
}

// Expand parses and expands raw. On any error it returns no atoms.
func Expand(raw string, opts Options, rep diag.Reporter) (*Expansion, bool) {
	expr, ok := Parse(raw, opts, rep)
	if !ok {
		return nil, false
	}
	return ExpandParsed(expr, opts, rep)
}

// ExpandParsed expands an already parsed expression.
func ExpandParsed(expr *Expression, opts Options, rep diag.Reporter) (*Expansion, bool) {
	limit := opts.maxAtoms()
	var atoms []Atom
	for si, seg := range expr.Segments {
		segAtoms, ok := expandSegment(seg, si, limit-len(atoms))
		if !ok {
			diag.ReportError(rep, diag.PatTooManyAtoms, opts.Span,
				fmt.Sprintf("expansion of %q exceeds the limit of %d atoms", expr.Raw, limit)).Emit()
			return nil, false
		}
		atoms = append(atoms, segAtoms...)
	}
	if !checkDuplicates(expr, atoms, opts, rep) {
		return nil, false
	}
	out := &Expansion{Expr: expr, Atoms: atoms}
	if !expr.Spliced() {
		out.Axes = axisTokens(expr.Segments[0])
	}
	return out, true
}

type prefix struct {
	text  string
	parts []Part
}

// expandSegment computes the ordered cross-product of the segment's groups.
// It fails as soon as the running count would exceed budget.
func expandSegment(seg Segment, index, budget int) ([]Atom, bool) {
	current := []prefix{{}}
	for _, piece := range seg.Pieces {
		if piece.Group == nil {
			for i := range current {
				current[i].text += piece.Text
			}
			continue
		}
		items := piece.Group.Items
		if len(items) > 0 && len(current) > budget/len(items) {
			return nil, false
		}
		next := make([]prefix, 0, len(current)*len(items))
		for _, pre := range current {
			for _, item := range items {
				parts := make([]Part, len(pre.parts), len(pre.parts)+1)
				copy(parts, pre.parts)
				next = append(next, prefix{
					text:  pre.text + item.String(),
					parts: append(parts, item),
				})
			}
		}
		current = next
	}
	if len(current) > budget {
		return nil, false
	}
	base := seg.BaseName()
	atoms := make([]Atom, len(current))
	for i, pre := range current {
		atoms[i] = Atom{
			Literal:      pre.text,
			BaseName:     base,
			SegmentIndex: index,
			Parts:        pre.parts,
		}
	}
	return atoms, true
}

const maxDuplicateExamples = 5

func checkDuplicates(expr *Expression, atoms []Atom, opts Options, rep diag.Reporter) bool {
	seen := make(map[string]int, len(atoms))
	var dups []string
	for _, a := range atoms {
		seen[a.Literal]++
		if seen[a.Literal] == 2 {
			dups = append(dups, a.Literal)
		}
	}
	if len(dups) == 0 {
		return true
	}
	shown := dups
	if len(shown) > maxDuplicateExamples {
		shown = shown[:maxDuplicateExamples]
	}
	msg := fmt.Sprintf("expansion of %q produces duplicate atoms: %s", expr.Raw, strings.Join(shown, ", "))
	if rest := len(dups) - len(shown); rest > 0 {
		msg += fmt.Sprintf(" (and %d more)", rest)
	}
	diag.ReportError(rep, diag.PatDuplicateAtoms, opts.Span, msg).Emit()
	return false
}

func axisTokens(seg Segment) []AxisToken {
	groups := seg.Groups()
	out := make([]AxisToken, len(groups))
	for i, g := range groups {
		index := make(map[Part]int, len(g.Items))
		for ord, item := range g.Items {
			if _, dup := index[item]; !dup {
				index[item] = ord
			}
		}
		out[i] = AxisToken{ID: g.Axis, Length: len(g.Items), Index: index}
	}
	return out
}
