package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"netc/internal/document"
	"netc/internal/ir"
	"netc/internal/source"
)

// CheckDocumentSpans verifies that every name and expression of doc points
// at its own text in sf. Prefix markers ('$', '!') are excluded from spans.
func CheckDocumentSpans(doc *document.Document, sf *source.File) error {
	if doc == nil || sf == nil {
		return fmt.Errorf("nil document or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	check := func(what string, s document.Scalar) error {
		sp := s.Span
		if sp.File != sf.ID {
			return fmt.Errorf("%s %q: span file mismatch: got=%d want=%d", what, s.Value, sp.File, sf.ID)
		}
		if sp.End < sp.Start || sp.End > lenContent {
			return fmt.Errorf("%s %q: span %v outside content", what, s.Value, sp)
		}
		if got := string(sf.Content[sp.Start:sp.End]); got != s.Value {
			return fmt.Errorf("%s: span text %q, want %q", what, got, s.Value)
		}
		return nil
	}
	for _, m := range doc.Modules {
		if err := check("module", m.Name); err != nil {
			return err
		}
		for _, inst := range m.Instances {
			if err := check("instance", inst.Key); err != nil {
				return err
			}
		}
		for _, n := range m.Nets {
			if err := check("net", n.Name); err != nil {
				return err
			}
			for _, ep := range n.Endpoints {
				if err := check("endpoint", ep.Expr); err != nil {
					return err
				}
			}
		}
	}
	for _, d := range doc.Devices {
		if err := check("device", d.Name); err != nil {
			return err
		}
	}
	return nil
}

// CheckProgram re-checks the structural invariants of an atomized program
// without going through the verifier, so tests can cross-check both.
func CheckProgram(p *ir.Program) error {
	if p == nil {
		return fmt.Errorf("nil program")
	}
	if _, ok := p.Modules[p.Top]; !ok {
		return fmt.Errorf("top %q is not a module", p.Top)
	}
	for _, mid := range p.ModuleIDs() {
		m := p.Modules[mid]
		if m.ID != mid {
			return fmt.Errorf("module %s stored under %s", m.ID, mid)
		}
		netNames := make(map[string]bool, len(m.Nets))
		for id, n := range m.Nets {
			if n.ID != id {
				return fmt.Errorf("%s: net %s stored under %s", m.Name, n.ID, id)
			}
			if netNames[n.Name] {
				return fmt.Errorf("%s: duplicate net %q", m.Name, n.Name)
			}
			netNames[n.Name] = true
		}
		instNames := make(map[string]bool, len(m.Instances))
		for _, inst := range m.Instances {
			if instNames[inst.Name] {
				return fmt.Errorf("%s: duplicate instance %q", m.Name, inst.Name)
			}
			instNames[inst.Name] = true
			_, isMod := p.Modules[inst.Ref.ID]
			_, isDev := p.Devices[inst.Ref.ID]
			if !isMod && !isDev {
				return fmt.Errorf("%s: instance %q references unknown %s", m.Name, inst.Name, inst.Ref.ID)
			}
		}
		for id, ep := range m.Endpoints {
			if _, ok := m.Nets[ep.Net]; !ok {
				return fmt.Errorf("%s: endpoint %s has dangling net %s", m.Name, id, ep.Net)
			}
			if _, ok := m.Instances[ep.Instance]; !ok {
				return fmt.Errorf("%s: endpoint %s has dangling instance %s", m.Name, id, ep.Instance)
			}
		}
		seenPorts := make(map[string]bool, len(m.Ports))
		for _, port := range m.Ports {
			if seenPorts[port] || !netNames[port] {
				return fmt.Errorf("%s: bad port %q", m.Name, port)
			}
			seenPorts[port] = true
		}
	}
	return nil
}
