package atomize

import (
	"fmt"

	"netc/internal/diag"
	"netc/internal/ids"
	"netc/internal/ir"
)

type resolvedDefault struct {
	port string
	net  *ir.Net
	decl ir.PatternedBinding
}

// applyDefaults binds default ports of every instance whose reference has
// instance_defaults. An explicit binding always wins; unless it was written
// with '!', overriding a default is reported as a warning.
func (a *moduleAtomizer) applyDefaults() {
	if len(a.pm.Defaults) == 0 {
		return
	}
	byRef := make(map[ids.ID][]resolvedDefault)
	for _, def := range a.pm.Defaults {
		for _, b := range def.Bindings {
			net, ok := a.defaultNet(b)
			if !ok {
				continue
			}
			byRef[def.Ref.ID] = append(byRef[def.Ref.ID], resolvedDefault{port: b.Port, net: net, decl: b})
		}
	}
	for _, inst := range a.instOrder {
		for _, d := range byRef[inst.Ref.ID] {
			key := portKey{inst: inst.ID, port: d.port}
			if explicit, ok := a.bound[key]; ok {
				if !a.suppressed[key] && explicit.Net != d.net.ID {
					diag.ReportWarning(a.rep, diag.IRDefaultOverride, explicit.Span,
						fmt.Sprintf("%s.%s is bound to %q, overriding the default %q",
							inst.Name, d.port, a.mod.Nets[explicit.Net].Name, d.net.Name)).
						WithNote(d.decl.Span, "default declared here").
						Emit()
				}
				continue
			}
			a.bound[key] = a.addEndpoint(d.net, inst, d.port, d.decl.Span, true)
		}
	}
}

// defaultNet resolves the literal net named by a default binding.
func (a *moduleAtomizer) defaultNet(b ir.PatternedBinding) (*ir.Net, bool) {
	e := a.expr(b.Net)
	if e == nil {
		return nil, false
	}
	exp, ok := a.expand(e, true)
	if !ok {
		return nil, false
	}
	if exp.Len() != 1 {
		diag.ReportError(a.rep, diag.PatNotLiteral, e.Span,
			fmt.Sprintf("default binding %s=%q must name a single net", b.Port, e.Raw)).Emit()
		return nil, false
	}
	name := exp.Atoms[0].Literal
	net, ok := a.nets[name]
	if !ok {
		diag.ReportError(a.rep, diag.IRUnknownDefaultNet, e.Span,
			fmt.Sprintf("default binding %s=%q names a net that module %q does not declare", b.Port, name, a.mod.Name)).Emit()
		return nil, false
	}
	return net, true
}
