package axis

import (
	"fmt"
	"strconv"
	"strings"

	"netc/internal/diag"
	"netc/internal/pattern"
	"netc/internal/source"
)

// Mode records how a binding was computed.
type Mode uint8

const (
	// ModeScalar: the net has a single atom; every endpoint atom binds to it.
	ModeScalar Mode = iota + 1
	// ModeAxis: atoms were aligned through named axes.
	ModeAxis
	// ModePositional: equally long expansions were paired by index.
	ModePositional
)

func (m Mode) String() string {
	switch m {
	case ModeScalar:
		return "scalar"
	case ModeAxis:
		return "axis"
	case ModePositional:
		return "positional"
	}
	return "unknown"
}

// Binding maps endpoint atom i to net atom NetIndex[i].
type Binding struct {
	Mode     Mode
	NetIndex []int
}

// Eligible reports whether axis-aware matching applies: neither side is
// spliced or has inline groups, and both have at least one axis.
func Eligible(net, ep *pattern.Expansion) bool {
	return net.FullyNamed() && ep.FullyNamed()
}

// Bind aligns ep to net through their named axes. It returns false, with no
// bindings, when an axis is missing, lengths disagree or a coordinate has no
// net atom.
func Bind(net, ep *pattern.Expansion, span source.Span, rep diag.Reporter) (Binding, bool) {
	netIDs, epIDs := net.AxisIDs(), ep.AxisIDs()

	// (1) axes of the net are a subsequence of the endpoint's axes
	positions := make([]int, len(netIDs))
	j := 0
	for k, id := range netIDs {
		for j < len(epIDs) && epIDs[j] != id {
			j++
		}
		if j == len(epIDs) {
			diag.ReportError(rep, diag.AxsMissingAxis, span,
				fmt.Sprintf("axis %q of net %q is missing from endpoint %q (endpoint axes: %s)",
					id, net.Expr.Raw, ep.Expr.Raw, strings.Join(epIDs, ", "))).Emit()
			return Binding{}, false
		}
		positions[k] = j
		j++
	}

	// (2) shared axes must agree on length
	ok := true
	for k, pos := range positions {
		if nl, el := net.Axes[k].Length, ep.Axes[pos].Length; nl != el {
			diag.ReportError(rep, diag.AxsLengthMismatch, span,
				fmt.Sprintf("axis %q has length %d in net %q but %d in endpoint %q",
					netIDs[k], nl, net.Expr.Raw, el, ep.Expr.Raw)).Emit()
			ok = false
		}
	}
	if !ok {
		return Binding{}, false
	}

	// (3) coordinate -> net atom
	coords := make(map[string]int, net.Len())
	for i, a := range net.Atoms {
		key, found := coordinate(a.Parts, nil, net.Axes)
		if !found {
			diag.ReportError(rep, diag.AxsNamedValueMissed, span,
				fmt.Sprintf("net atom %q has a value outside its axes", a.Literal)).Emit()
			return Binding{}, false
		}
		if prev, dup := coords[key]; dup {
			diag.ReportError(rep, diag.AxsDuplicateCoord, span,
				fmt.Sprintf("net atoms %q and %q share one coordinate", net.Atoms[prev].Literal, a.Literal)).Emit()
			return Binding{}, false
		}
		coords[key] = i
	}

	// (4) endpoint atoms projected onto the net axes
	out := Binding{Mode: ModeAxis, NetIndex: make([]int, ep.Len())}
	for i, a := range ep.Atoms {
		key, found := coordinate(a.Parts, positions, net.Axes)
		idx, hit := coords[key]
		if !found || !hit {
			diag.ReportError(rep, diag.AxsCoordMismatch, span,
				fmt.Sprintf("endpoint atom %q has no matching atom in net %q", a.Literal, net.Expr.Raw)).Emit()
			return Binding{}, false
		}
		out.NetIndex[i] = idx
	}
	return out, true
}

// coordinate projects parts (taken at positions, or all parts when positions
// is nil) through the net axes' value indexes.
func coordinate(parts []pattern.Part, positions []int, axes []pattern.AxisToken) (string, bool) {
	var sb strings.Builder
	for k, axis := range axes {
		pos := k
		if positions != nil {
			pos = positions[k]
		}
		if pos >= len(parts) {
			return "", false
		}
		ord, ok := axis.Index[parts[pos]]
		if !ok {
			return "", false
		}
		sb.WriteString(strconv.Itoa(ord))
		sb.WriteByte(',')
	}
	return sb.String(), true
}

// BindOrPair applies the binding policy for one net/endpoint pair:
// a single-atom net takes every endpoint atom; eligible pairs are aligned by
// axis; otherwise the expansions must have equal length and are paired by
// index. A failed pair yields no bindings. A single-atom endpoint on a
// multi-atom net is a length mismatch, not a broadcast.
func BindOrPair(net, ep *pattern.Expansion, span source.Span, rep diag.Reporter) (Binding, bool) {
	if net.Len() == 1 {
		return Binding{Mode: ModeScalar, NetIndex: make([]int, ep.Len())}, true
	}
	if Eligible(net, ep) {
		return Bind(net, ep, span, rep)
	}
	// TODO: report differently shaped inline groups once a strict binding lint exists.
	if ep.Len() != net.Len() {
		diag.ReportError(rep, diag.AxsExpansionLength, span,
			fmt.Sprintf("net %q expands to %d atoms but endpoint %q expands to %d",
				net.Expr.Raw, net.Len(), ep.Expr.Raw, ep.Len())).Emit()
		return Binding{}, false
	}
	out := Binding{Mode: ModePositional, NetIndex: make([]int, ep.Len())}
	for i := range out.NetIndex {
		out.NetIndex[i] = i
	}
	return out, true
}
