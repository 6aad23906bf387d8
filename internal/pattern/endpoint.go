package pattern

import (
	"fmt"
	"strings"

	"netc/internal/diag"
)

// EndpointAtom is an expanded "<instance>.<port>" literal.
type EndpointAtom struct {
	Atom
	Instance string
	Port     string
}

// ExpandEndpoint expands an endpoint expression and splits every literal on
// its single '.'. Any literal with zero or several dots fails the whole
// expression.
func ExpandEndpoint(raw string, opts Options, rep diag.Reporter) (*Expansion, []EndpointAtom, bool) {
	exp, ok := Expand(raw, opts, rep)
	if !ok {
		return nil, nil, false
	}
	out := make([]EndpointAtom, 0, exp.Len())
	for _, a := range exp.Atoms {
		if strings.Count(a.Literal, ".") != 1 {
			diag.ReportError(rep, diag.PatEndpointSplit, opts.Span,
				fmt.Sprintf("endpoint %q (from %q) must contain exactly one '.'", a.Literal, raw)).Emit()
			return nil, nil, false
		}
		inst, port, _ := strings.Cut(a.Literal, ".")
		if inst == "" || port == "" {
			diag.ReportError(rep, diag.PatEndpointSplit, opts.Span,
				fmt.Sprintf("endpoint %q (from %q) needs both an instance and a port", a.Literal, raw)).Emit()
			return nil, nil, false
		}
		out = append(out, EndpointAtom{Atom: a, Instance: inst, Port: port})
	}
	return exp, out, true
}
