package atomize

import (
	"fmt"
	"slices"

	"netc/internal/diag"
	"netc/internal/hier"
	"netc/internal/ir"
	"netc/internal/source"
)

// Verify checks the structural invariants of p: unique net and instance
// names per module, endpoints that resolve inside their module, references
// that resolve inside the program, ports that are unique and backed by nets,
// every instance port bound to at most one net, and no recursive
// instantiation. It reports every violation and returns false if any.
func Verify(p *ir.Program, rep diag.Reporter) bool {
	tracker := &diag.ErrorTracker{Next: rep}
	if _, ok := p.Modules[p.Top]; !ok {
		diag.ReportError(tracker, diag.IRUnresolvedRef, source.NoSpan,
			fmt.Sprintf("top module %q is not part of the program", p.Top)).Emit()
	}
	for _, mid := range p.ModuleIDs() {
		verifyModule(p, p.Modules[mid], tracker)
	}
	idx := hier.BuildIndex(p)
	hier.ReportCycles(idx, p, hier.ToposortKahn(hier.BuildGraph(idx, p)), tracker)
	return tracker.Errors() == 0
}

func verifyModule(p *ir.Program, m *ir.Module, rep diag.Reporter) {
	nets := make(map[string]*ir.Net, len(m.Nets))
	for _, id := range m.NetIDs() {
		n := m.Nets[id]
		if prev, dup := nets[n.Name]; dup {
			diag.ReportError(rep, diag.IRDuplicateNet, n.Span,
				fmt.Sprintf("net %q is declared more than once in module %q", n.Name, m.Name)).
				WithNote(prev.Span, "previous declaration").
				Emit()
			continue
		}
		nets[n.Name] = n
	}

	insts := make(map[string]*ir.Instance, len(m.Instances))
	for _, id := range m.InstanceIDs() {
		inst := m.Instances[id]
		if prev, dup := insts[inst.Name]; dup {
			diag.ReportError(rep, diag.IRDuplicateInstance, inst.Span,
				fmt.Sprintf("instance %q is declared more than once in module %q", inst.Name, m.Name)).
				WithNote(prev.Span, "previous declaration").
				Emit()
			continue
		}
		insts[inst.Name] = inst
		if !refExists(p, inst.Ref) {
			diag.ReportError(rep, diag.IRUnresolvedRef, inst.Span,
				fmt.Sprintf("instance %q references unknown %s %s (%q)", inst.Name, inst.Ref.Kind, inst.Ref.ID, inst.Ref.Token)).Emit()
		}
	}

	bound := make(map[portKey]*ir.Endpoint, len(m.Endpoints))
	for _, id := range m.EndpointIDs() {
		ep := m.Endpoints[id]
		if _, ok := m.Nets[ep.Net]; !ok {
			diag.ReportError(rep, diag.IRDanglingNet, ep.Span,
				fmt.Sprintf("endpoint %s references net %s, which module %q does not have", ep.ID, ep.Net, m.Name)).Emit()
			continue
		}
		inst, ok := m.Instances[ep.Instance]
		if !ok {
			diag.ReportError(rep, diag.IRDanglingInstance, ep.Span,
				fmt.Sprintf("endpoint %s references instance %s, which module %q does not have", ep.ID, ep.Instance, m.Name)).Emit()
			continue
		}
		if ports, known := definitionPorts(p, inst.Ref); known && !slices.Contains(ports, ep.Port) {
			diag.ReportError(rep, diag.IREndpointPort, ep.Span,
				fmt.Sprintf("%s %q has no port %q (instance %q)", inst.Ref.Kind, inst.Ref.Token, ep.Port, inst.Name)).Emit()
		}
		key := portKey{inst: ep.Instance, port: ep.Port}
		if prev, dup := bound[key]; dup && prev.Net != ep.Net {
			diag.ReportError(rep, diag.IRPortBoundTwice, ep.Span,
				fmt.Sprintf("port %s.%s is bound to %q and %q", inst.Name, ep.Port,
					m.Nets[prev.Net].Name, m.Nets[ep.Net].Name)).
				WithNote(prev.Span, "first bound here").
				Emit()
			continue
		}
		bound[key] = ep
	}

	seen := make(map[string]bool, len(m.Ports))
	for _, port := range m.Ports {
		if seen[port] {
			diag.ReportError(rep, diag.IRDuplicatePort, m.Span,
				fmt.Sprintf("port %q is listed twice in module %q", port, m.Name)).Emit()
			continue
		}
		seen[port] = true
		if _, ok := nets[port]; !ok {
			diag.ReportError(rep, diag.IRUnknownPort, m.Span,
				fmt.Sprintf("port %q of module %q is not one of its nets", port, m.Name)).Emit()
		}
	}
}

func refExists(p *ir.Program, ref ir.Ref) bool {
	switch ref.Kind {
	case ir.RefModule:
		_, ok := p.Modules[ref.ID]
		return ok
	case ir.RefDevice:
		_, ok := p.Devices[ref.ID]
		return ok
	}
	return false
}

func definitionPorts(p *ir.Program, ref ir.Ref) ([]string, bool) {
	switch ref.Kind {
	case ir.RefModule:
		if m, ok := p.Modules[ref.ID]; ok {
			return m.Ports, true
		}
	case ir.RefDevice:
		if d, ok := p.Devices[ref.ID]; ok {
			return d.Ports, true
		}
	}
	return nil, false
}
