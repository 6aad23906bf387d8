package symbols

import (
	"fmt"
	"strings"

	"netc/internal/diag"
	"netc/internal/source"
)

// Bindings maps a namespace of a file to the file it imports.
type Bindings interface {
	Lookup(file source.FileID, namespace string) (source.FileID, bool)
}

// Resolver turns instance reference tokens into symbols.
type Resolver struct {
	DB       *ProgramDB
	Bindings Bindings
	Reporter diag.Reporter
}

// ResolveRef resolves token as written in file. A token without '.' must
// name exactly one module or device of file; "ns.name" goes through the
// import bound to ns and is looked up in that file's own table.
func (r *Resolver) ResolveRef(file source.FileID, token string, span source.Span) (*Symbol, bool) {
	ns, name, qualified := strings.Cut(token, ".")
	if !qualified {
		return r.resolveLocal(file, token, span)
	}
	if ns == "" || name == "" || strings.Contains(name, ".") {
		diag.ReportError(r.Reporter, diag.SymUnresolvedQualified, span,
			fmt.Sprintf("cannot resolve %q: expected <namespace>.<name>", token)).Emit()
		return nil, false
	}
	var target source.FileID
	found := false
	if r.Bindings != nil {
		target, found = r.Bindings.Lookup(file, ns)
	}
	if !found {
		diag.ReportError(r.Reporter, diag.SymUnresolvedQualified, span,
			fmt.Sprintf("cannot resolve %q: no import is bound to namespace %q", token, ns)).Emit()
		return nil, false
	}
	syms := r.DB.Lookup(target, name)
	switch len(syms) {
	case 0:
		diag.ReportError(r.Reporter, diag.SymUnresolvedQualified, span,
			fmt.Sprintf("cannot resolve %q: namespace %q has no module or device %q", token, ns, name)).Emit()
		return nil, false
	case 1:
		return syms[0], true
	default:
		r.ambiguous(token, span, syms)
		return nil, false
	}
}

func (r *Resolver) resolveLocal(file source.FileID, token string, span source.Span) (*Symbol, bool) {
	syms := r.DB.Lookup(file, token)
	switch len(syms) {
	case 0:
		diag.ReportError(r.Reporter, diag.SymUnresolved, span,
			fmt.Sprintf("unresolved reference %q: no module or device with this name in the file", token)).Emit()
		return nil, false
	case 1:
		return syms[0], true
	default:
		r.ambiguous(token, span, syms)
		return nil, false
	}
}

func (r *Resolver) ambiguous(token string, span source.Span, syms []*Symbol) {
	b := diag.ReportError(r.Reporter, diag.SymAmbiguous, span,
		fmt.Sprintf("ambiguous reference %q matches %d declarations", token, len(syms)))
	for _, s := range syms {
		b.WithNote(s.Span, fmt.Sprintf("candidate %s %s", s.Kind, s.ID))
	}
	b.Emit()
}
