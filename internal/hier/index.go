// Package hier orders the module instantiation hierarchy of a program.
package hier

import (
	"netc/internal/ids"
	"netc/internal/ir"
)

// ModuleID is a dense index into Index.
type ModuleID uint32

type Index struct {
	IDToModule []ids.ID
	ModuleToID map[ids.ID]ModuleID
}

// BuildIndex numbers the program's modules in id order.
func BuildIndex(p *ir.Program) Index {
	mods := p.ModuleIDs()
	idx := Index{
		IDToModule: mods,
		ModuleToID: make(map[ids.ID]ModuleID, len(mods)),
	}
	for i, id := range mods {
		idx.ModuleToID[id] = ModuleID(i) // #nosec G115 -- bounded by the module map
	}
	return idx
}
