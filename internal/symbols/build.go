package symbols

import (
	"fmt"
	"strings"

	"netc/internal/diag"
	"netc/internal/document"
	"netc/internal/ids"
	"netc/internal/ir"
	"netc/internal/pattern"
	"netc/internal/source"
)

// BuildInput is what BuildPatterned needs from the import graph.
type BuildInput struct {
	// Docs in deterministic file order, entry document first.
	Docs     []*document.Document
	DB       *ProgramDB
	Bindings Bindings
}

// BuildPatterned resolves every instance reference and allocates expression
// ids, walking files in order and each module's declarations in order.
// It returns nil when the top module cannot be determined or any error was
// reported while building.
func BuildPatterned(in BuildInput, alloc *ids.Allocator, rep diag.Reporter) (*ir.PatternedGraph, bool) {
	tracker := &diag.ErrorTracker{Next: rep}
	b := &builder{
		in:    in,
		alloc: alloc,
		rep:   tracker,
		res:   &Resolver{DB: in.DB, Bindings: in.Bindings, Reporter: tracker},
		graph: &ir.PatternedGraph{Exprs: ir.NewExprTable()},
	}
	if len(in.Docs) == 0 {
		diag.ReportError(tracker, diag.SymNoTop, source.NoSpan, "no design files").Emit()
		return nil, false
	}
	for _, doc := range in.Docs {
		b.file(doc)
	}
	b.top(in.Docs[0])
	if tracker.Errors() > 0 {
		return nil, false
	}
	return b.graph, true
}

type builder struct {
	in    BuildInput
	alloc *ids.Allocator
	rep   diag.Reporter
	res   *Resolver
	graph *ir.PatternedGraph
}

func (b *builder) file(doc *document.Document) {
	t := b.in.DB.Table(doc.File)
	if t == nil {
		diag.ReportError(b.rep, diag.IRInternalError, source.NoSpan,
			fmt.Sprintf("file %s has no symbol table", doc.Path)).Emit()
		return
	}
	for _, sym := range t.Symbols {
		switch sym.Kind {
		case SymbolModule:
			b.graph.Modules = append(b.graph.Modules, b.module(sym))
		case SymbolDevice:
			b.graph.Devices = append(b.graph.Devices, device(sym))
		}
	}
}

func device(sym *Symbol) *ir.Device {
	decl := sym.Device
	dev := &ir.Device{
		ID:         sym.ID,
		Name:       decl.Name.Value,
		Parameters: params(decl.Parameters),
		File:       sym.File,
		Span:       decl.Span,
	}
	for _, p := range decl.Ports {
		dev.Ports = append(dev.Ports, p.Value)
	}
	for _, be := range decl.Backends {
		dev.Backends = append(dev.Backends, ir.Backend{Name: be.Name.Value, Fields: params(be.Fields)})
	}
	return dev
}

func params(entries []document.Entry) []ir.Param {
	if len(entries) == 0 {
		return nil
	}
	out := make([]ir.Param, len(entries))
	for i, e := range entries {
		out[i] = ir.Param{Name: e.Key.Value, Value: e.Value.Value}
	}
	return out
}

func (b *builder) module(sym *Symbol) *ir.PatternedModule {
	decl := sym.Module
	exprs := b.graph.Exprs
	mod := &ir.PatternedModule{
		ID:         sym.ID,
		Name:       decl.Name.Value,
		File:       sym.File,
		Span:       decl.Span,
		Patterns:   params(decl.Patterns),
		Parameters: params(decl.Parameters),
	}
	mod.NameExpr = exprs.Add(b.alloc, ir.ExprModuleName, decl.Name.Value, decl.Name.Span)
	for _, p := range decl.Patterns {
		pattern.ValidateNamed(p.Key.Value, p.Value.Value, p.Value.Span, b.rep)
	}

	vars := NewSubstituter(decl.Variables, b.rep)
	for _, v := range decl.Variables {
		vars.Value(v.Key.Value)
	}

	for _, inst := range decl.Instances {
		pi, ok := b.instance(sym.File, inst, vars)
		if ok {
			mod.Instances = append(mod.Instances, pi)
		}
	}
	for _, net := range decl.Nets {
		pn := ir.PatternedNet{
			Expr: exprs.Add(b.alloc, ir.ExprNet, net.Name.Value, net.Name.Span),
			Port: net.Port,
		}
		for _, ep := range net.Endpoints {
			pn.Endpoints = append(pn.Endpoints, ir.PatternedEndpoint{
				Expr:       exprs.Add(b.alloc, ir.ExprEndpoint, ep.Expr.Value, ep.Expr.Span),
				Suppressed: ep.Suppressed,
			})
		}
		mod.Nets = append(mod.Nets, pn)
	}
	for _, def := range decl.Defaults {
		target, ok := b.res.ResolveRef(sym.File, def.Ref.Value, def.Ref.Span)
		if !ok {
			continue
		}
		pd := ir.PatternedDefault{Ref: refOf(target, def.Ref.Value), Span: def.Ref.Span}
		for _, bind := range def.Bindings {
			if !hasPort(target, bind.Key.Value) {
				diag.ReportError(b.rep, diag.IRDefaultUnknownPort, bind.Key.Span,
					fmt.Sprintf("%s %q has no port %q", target.Kind, def.Ref.Value, bind.Key.Value)).Emit()
				continue
			}
			pd.Bindings = append(pd.Bindings, ir.PatternedBinding{
				Port: bind.Key.Value,
				Net:  exprs.Add(b.alloc, ir.ExprDefault, bind.Value.Value, bind.Value.Span),
				Span: bind.Key.Span,
			})
		}
		mod.Defaults = append(mod.Defaults, pd)
	}
	return mod
}

// instance parses "<ref> key=value ..." and resolves ref.
func (b *builder) instance(file source.FileID, inst document.Entry, vars *Substituter) (ir.PatternedInstance, bool) {
	token := inst.Value
	fields := tokenFields(token.Value)
	if len(fields) == 0 {
		diag.ReportError(b.rep, diag.SymBadInstanceToken, token.Span,
			fmt.Sprintf("instance %q has an empty reference", inst.Key.Value)).Emit()
		return ir.PatternedInstance{}, false
	}
	ref := fields[0]
	target, ok := b.res.ResolveRef(file, ref.text, token.Span.Sub(ref.start, ref.end))
	if !ok {
		return ir.PatternedInstance{}, false
	}
	pi := ir.PatternedInstance{
		Expr: b.graph.Exprs.Add(b.alloc, ir.ExprInstance, inst.Key.Value, inst.Key.Span),
		Ref:  refOf(target, ref.text),
	}
	good := true
	for _, f := range fields[1:] {
		span := token.Span.Sub(f.start, f.end)
		key, value, found := strings.Cut(f.text, "=")
		if !found || key == "" {
			diag.ReportError(b.rep, diag.SymBadInstanceToken, span,
				fmt.Sprintf("instance parameter %q must be written as key=value", f.text)).Emit()
			good = false
			continue
		}
		if !hasParameter(target, key) {
			diag.ReportError(b.rep, diag.SymBadParameter, span,
				fmt.Sprintf("%s %q has no parameter %q", target.Kind, ref.text, key)).Emit()
			good = false
			continue
		}
		valueSpan := span.Sub(len(key)+1, len(f.text))
		subst, ok := vars.Substitute(value, valueSpan)
		if !ok {
			good = false
			continue
		}
		pi.Params = append(pi.Params, ir.PatternedParam{
			Name: key,
			Expr: b.graph.Exprs.Add(b.alloc, ir.ExprParam, subst, valueSpan),
		})
	}
	return pi, good
}

func refOf(sym *Symbol, token string) ir.Ref {
	kind := ir.RefModule
	if sym.Kind == SymbolDevice {
		kind = ir.RefDevice
	}
	return ir.Ref{Kind: kind, ID: sym.ID, Token: token}
}

func hasParameter(sym *Symbol, name string) bool {
	var entries []document.Entry
	switch sym.Kind {
	case SymbolModule:
		entries = sym.Module.Parameters
	case SymbolDevice:
		entries = sym.Device.Parameters
	}
	_, ok := document.Lookup(entries, name)
	return ok
}

func hasPort(sym *Symbol, port string) bool {
	switch sym.Kind {
	case SymbolDevice:
		for _, p := range sym.Device.Ports {
			if p.Value == port {
				return true
			}
		}
	case SymbolModule:
		// module ports are patterns; they are checked after atomization
		return true
	}
	return false
}

type field struct {
	text       string
	start, end int
}

func tokenFields(s string) []field {
	var out []field
	for i := 0; i < len(s); {
		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
		start := i
		for i < len(s) && s[i] != ' ' && s[i] != '\t' {
			i++
		}
		if i > start {
			out = append(out, field{text: s[start:i], start: start, end: i})
		}
	}
	return out
}

// top picks the top module: the entry file's "top" key, or its only module.
func (b *builder) top(entry *document.Document) {
	if entry.Top != nil {
		sym, ok := b.res.ResolveRef(entry.File, entry.Top.Value, entry.Top.Span)
		if !ok {
			diag.ReportError(b.rep, diag.SymUnresolvedTop, entry.Top.Span,
				fmt.Sprintf("top module %q cannot be resolved", entry.Top.Value)).Emit()
			return
		}
		if sym.Kind != SymbolModule {
			diag.ReportError(b.rep, diag.SymUnresolvedTop, entry.Top.Span,
				fmt.Sprintf("top %q is a device, not a module", entry.Top.Value)).Emit()
			return
		}
		b.graph.Top = sym.ID
		return
	}
	t := b.in.DB.Table(entry.File)
	var mods []*Symbol
	if t != nil {
		for _, s := range t.Symbols {
			if s.Kind == SymbolModule {
				mods = append(mods, s)
			}
		}
	}
	switch len(mods) {
	case 1:
		b.graph.Top = mods[0].ID
	case 0:
		diag.ReportError(b.rep, diag.SymNoTop, source.Span{File: entry.File},
			fmt.Sprintf("%s declares no module to elaborate", entry.Path)).Emit()
	default:
		diag.ReportError(b.rep, diag.SymNoTop, source.Span{File: entry.File},
			fmt.Sprintf("%s declares %d modules; set \"top\" to choose one", entry.Path, len(mods))).Emit()
	}
}
