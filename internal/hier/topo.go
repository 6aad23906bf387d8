package hier

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"netc/internal/ids"
)

type Topo struct {
	Order   []ModuleID   // users before the modules they instantiate
	Batches [][]ModuleID // волны независимых модулей
	Cyclic  bool
	Cycles  []ModuleID // modules on an instantiation cycle
}

func toModuleID(i int) ModuleID {
	id, err := safecast.Conv[ModuleID](i)
	if err != nil {
		panic(fmt.Errorf("module id overflow: %w", err))
	}
	return id
}

func ToposortKahn(g Graph) *Topo {
	nodeCount := len(g.Edges)
	indeg := make([]int, len(g.Indeg))
	copy(indeg, g.Indeg)

	topo := &Topo{
		Order:   make([]ModuleID, 0, nodeCount),
		Batches: make([][]ModuleID, 0),
	}

	current := make([]ModuleID, 0, nodeCount)
	for i := range nodeCount {
		if indeg[i] == 0 {
			current = append(current, toModuleID(i))
		}
	}

	for len(current) > 0 {
		batch := make([]ModuleID, len(current))
		copy(batch, current)
		topo.Batches = append(topo.Batches, batch)

		next := make([]ModuleID, 0)
		for _, id := range batch {
			topo.Order = append(topo.Order, id)
			for _, to := range g.Edges[int(id)] {
				indeg[int(to)]--
				if indeg[int(to)] == 0 {
					next = append(next, to)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if len(topo.Order) != nodeCount {
		topo.Cyclic = true
		topo.Cycles = onCycles(g, indeg)
	}
	return topo
}

// onCycles narrows the nodes Kahn could not order down to those on a cycle
// by repeatedly dropping nodes with no edge back into the remaining set.
func onCycles(g Graph, indeg []int) []ModuleID {
	left := make([]bool, len(indeg))
	for i, d := range indeg {
		left[i] = d > 0
	}
	for changed := true; changed; {
		changed = false
		for i := range left {
			if !left[i] {
				continue
			}
			stays := false
			for _, to := range g.Edges[i] {
				if left[int(to)] {
					stays = true
					break
				}
			}
			if !stays {
				left[i] = false
				changed = true
			}
		}
	}
	var out []ModuleID
	for i, in := range left {
		if in {
			out = append(out, toModuleID(i))
		}
	}
	return out
}

// EmitOrder returns module ids leaf-first: every module comes after all the
// modules it instantiates. Modules on cycles are appended last.
func EmitOrder(idx Index, topo *Topo) []ids.ID {
	out := make([]ids.ID, 0, len(idx.IDToModule))
	for i := len(topo.Order) - 1; i >= 0; i-- {
		out = append(out, idx.IDToModule[int(topo.Order[i])])
	}
	if len(out) < len(idx.IDToModule) {
		placed := make(map[ModuleID]bool, len(topo.Order))
		for _, id := range topo.Order {
			placed[id] = true
		}
		for i, mid := range idx.IDToModule {
			if !placed[ModuleID(i)] { // #nosec G115 -- i indexes IDToModule
				out = append(out, mid)
			}
		}
	}
	return out
}
