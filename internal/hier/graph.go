package hier

import (
	"fmt"
	"slices"
	"strings"

	"netc/internal/diag"
	"netc/internal/ir"
)

// Graph has an edge from each module to every module it instantiates.
type Graph struct {
	Edges [][]ModuleID // Edges[from] = []to
	Indeg []int
}

// BuildGraph collects instantiation edges. References to devices or to
// modules outside the program are not edges; the verifier reports the latter.
func BuildGraph(idx Index, p *ir.Program) Graph {
	n := len(idx.IDToModule)
	g := Graph{
		Edges: make([][]ModuleID, n),
		Indeg: make([]int, n),
	}
	for from, mid := range idx.IDToModule {
		m := p.Modules[mid]
		seen := make(map[ModuleID]struct{})
		for _, iid := range m.InstanceIDs() {
			inst := m.Instances[iid]
			if inst.Ref.Kind != ir.RefModule {
				continue
			}
			to, ok := idx.ModuleToID[inst.Ref.ID]
			if !ok {
				continue
			}
			if _, dup := seen[to]; dup {
				continue
			}
			seen[to] = struct{}{}
			g.Edges[from] = append(g.Edges[from], to)
			g.Indeg[int(to)]++
		}
		if len(g.Edges[from]) > 1 {
			slices.Sort(g.Edges[from])
		}
	}
	return g
}

// ReportCycles emits one recursive-instantiation error per module on a cycle.
func ReportCycles(idx Index, p *ir.Program, topo *Topo, rep diag.Reporter) {
	if !topo.Cyclic || len(topo.Cycles) == 0 {
		return
	}
	names := make([]string, 0, len(topo.Cycles))
	for _, id := range topo.Cycles {
		names = append(names, p.Modules[idx.IDToModule[int(id)]].Name)
	}
	summary := strings.Join(names, ", ")
	for _, id := range topo.Cycles {
		m := p.Modules[idx.IDToModule[int(id)]]
		msg := fmt.Sprintf("module %q instantiates itself through %s", m.Name, summary)
		diag.ReportError(rep, diag.IRRecursiveInstance, m.Span, msg).Emit()
	}
}
