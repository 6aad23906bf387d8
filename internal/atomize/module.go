package atomize

import (
	"fmt"

	"netc/internal/axis"
	"netc/internal/diag"
	"netc/internal/ids"
	"netc/internal/ir"
	"netc/internal/pattern"
	"netc/internal/source"
)

type moduleAtomizer struct {
	pg    *ir.PatternedGraph
	pm    *ir.PatternedModule
	alloc *ids.Allocator
	rep   diag.Reporter
	opts  pattern.Options

	mod       *ir.Module
	instances map[string]*ir.Instance
	nets      map[string]*ir.Net
	// bound records the explicit binding of every (instance, port).
	bound map[portKey]*ir.Endpoint
	// suppressed marks explicit bindings written with a leading '!'.
	suppressed map[portKey]bool
	// instOrder keeps instances in materialization order for defaults.
	instOrder []*ir.Instance
}

type portKey struct {
	inst ids.ID
	port string
}

func (a *moduleAtomizer) expr(id ids.ID) *ir.Expr {
	e := a.pg.Exprs.Get(id)
	if e == nil {
		a.internalf("module %q refers to unknown expression %s", a.pm.Name, id)
	}
	return e
}

func (a *moduleAtomizer) expand(e *ir.Expr, noSplice bool) (*pattern.Expansion, bool) {
	opts := a.opts
	opts.Span = e.Span
	opts.NoSplice = noSplice
	return pattern.Expand(e.Raw, opts, a.rep)
}

func (a *moduleAtomizer) run() *ir.Module {
	a.mod = ir.NewModule(a.pm.ID, a.pm.Name)
	a.mod.File = a.pm.File
	a.mod.Span = a.pm.Span
	a.mod.Parameters = a.pm.Parameters
	a.instances = make(map[string]*ir.Instance)
	a.nets = make(map[string]*ir.Net)
	a.bound = make(map[portKey]*ir.Endpoint)
	a.suppressed = make(map[portKey]bool)

	a.moduleName()
	for _, pi := range a.pm.Instances {
		a.instance(pi)
	}
	for _, pn := range a.pm.Nets {
		a.net(pn)
	}
	a.applyDefaults()
	return a.mod
}

func (a *moduleAtomizer) moduleName() {
	e := a.expr(a.pm.NameExpr)
	if e == nil {
		return
	}
	exp, ok := a.expand(e, true)
	if !ok {
		return
	}
	if exp.Len() != 1 {
		diag.ReportError(a.rep, diag.PatNotLiteral, e.Span,
			fmt.Sprintf("module name %q must expand to a single name, got %d", e.Raw, exp.Len())).Emit()
		return
	}
	a.mod.Name = exp.Atoms[0].Literal
}

func (a *moduleAtomizer) instance(pi ir.PatternedInstance) {
	e := a.expr(pi.Expr)
	if e == nil {
		return
	}
	exp, ok := a.expand(e, false)
	if !ok {
		return
	}
	n := exp.Len()

	// Each parameter expands to one value for all atoms or one per atom.
	type paramValues struct {
		name   string
		values []string
	}
	var params []paramValues
	for _, pp := range pi.Params {
		pe := a.expr(pp.Expr)
		if pe == nil {
			continue
		}
		pexp, ok := a.expand(pe, false)
		if !ok {
			continue
		}
		if pexp.Len() != 1 && pexp.Len() != n {
			diag.ReportError(a.rep, diag.AxsParamLength, pe.Span,
				fmt.Sprintf("parameter %s=%q expands to %d values but instance %q expands to %d",
					pp.Name, pe.Raw, pexp.Len(), e.Raw, n)).Emit()
			continue
		}
		params = append(params, paramValues{name: pp.Name, values: pexp.Literals()})
	}

	for i, atom := range exp.Atoms {
		inst := &ir.Instance{
			ID:     a.alloc.Next(ids.KindInstance),
			Name:   atom.Literal,
			Ref:    pi.Ref,
			Origin: origin(exp, e.ID, atom),
			Span:   e.Span,
		}
		for _, p := range params {
			v := p.values[0]
			if len(p.values) > 1 {
				v = p.values[i]
			}
			inst.Params = append(inst.Params, ir.Param{Name: p.name, Value: v})
		}
		a.mod.Instances[inst.ID] = inst
		if _, dup := a.instances[inst.Name]; !dup {
			a.instances[inst.Name] = inst
		}
		a.instOrder = append(a.instOrder, inst)
	}
}

func (a *moduleAtomizer) net(pn ir.PatternedNet) {
	e := a.expr(pn.Expr)
	if e == nil {
		return
	}
	exp, ok := a.expand(e, pn.Port)
	if !ok {
		return
	}
	netAtoms := make([]*ir.Net, exp.Len())
	for i, atom := range exp.Atoms {
		net := &ir.Net{
			ID:     a.alloc.Next(ids.KindNet),
			Name:   atom.Literal,
			Port:   pn.Port,
			Origin: origin(exp, e.ID, atom),
			Span:   e.Span,
		}
		a.mod.Nets[net.ID] = net
		if _, dup := a.nets[net.Name]; !dup {
			a.nets[net.Name] = net
		}
		if pn.Port {
			a.mod.Ports = append(a.mod.Ports, net.Name)
		}
		netAtoms[i] = net
	}
	for _, pe := range pn.Endpoints {
		a.endpoint(exp, netAtoms, pe)
	}
}

func (a *moduleAtomizer) endpoint(netExp *pattern.Expansion, netAtoms []*ir.Net, pe ir.PatternedEndpoint) {
	e := a.expr(pe.Expr)
	if e == nil {
		return
	}
	opts := a.opts
	opts.Span = e.Span
	epExp, atoms, ok := pattern.ExpandEndpoint(e.Raw, opts, a.rep)
	if !ok {
		return
	}
	binding, ok := axis.BindOrPair(netExp, epExp, e.Span, a.rep)
	if !ok {
		return
	}
	for i, atom := range atoms {
		net := netAtoms[binding.NetIndex[i]]
		inst, found := a.instances[atom.Instance]
		if !found {
			diag.ReportError(a.rep, diag.IRDanglingInstance, e.Span,
				fmt.Sprintf("endpoint %q references unknown instance %q", atom.Literal, atom.Instance)).Emit()
			continue
		}
		key := portKey{inst: inst.ID, port: atom.Port}
		if prev, dup := a.bound[key]; dup {
			if prev.Net != net.ID {
				diag.ReportError(a.rep, diag.IRPortBoundTwice, e.Span,
					fmt.Sprintf("port %s.%s is bound to %q and %q", inst.Name, atom.Port,
						a.mod.Nets[prev.Net].Name, net.Name)).
					WithNote(prev.Span, "first bound here").
					Emit()
			}
			continue
		}
		ep := a.addEndpoint(net, inst, atom.Port, e.Span, false)
		if pe.Suppressed {
			a.suppressed[key] = true
		}
		a.bound[key] = ep
	}
}

func (a *moduleAtomizer) addEndpoint(net *ir.Net, inst *ir.Instance, port string, span source.Span, fromDefault bool) *ir.Endpoint {
	ep := &ir.Endpoint{
		ID:       a.alloc.Next(ids.KindEndpoint),
		Net:      net.ID,
		Instance: inst.ID,
		Port:     port,
		Default:  fromDefault,
		Span:     span,
	}
	a.mod.Endpoints[ep.ID] = ep
	return ep
}
