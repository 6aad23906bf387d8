package hier

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"netc/internal/diag"
	"netc/internal/ids"
	"netc/internal/ir"
)

// program builds modules from "name -> children" pairs; ids follow argument order.
func program(t *testing.T, shape ...[]string) *ir.Program {
	t.Helper()
	p := ir.NewProgram()
	byName := map[string]ids.ID{}
	alloc := ids.NewAllocator()
	for _, s := range shape {
		id := alloc.Next(ids.KindModule)
		byName[s[0]] = id
		p.Modules[id] = ir.NewModule(id, s[0])
	}
	p.Devices["d1"] = &ir.Device{ID: "d1", Name: "res"}
	for _, s := range shape {
		m := p.Modules[byName[s[0]]]
		for _, child := range s[1:] {
			iid := alloc.Next(ids.KindInstance)
			ref := ir.Ref{Kind: ir.RefModule, ID: byName[child], Token: child}
			if child == "res" {
				ref = ir.Ref{Kind: ir.RefDevice, ID: "d1", Token: child}
			}
			m.Instances[iid] = &ir.Instance{ID: iid, Name: "X" + string(iid), Ref: ref}
		}
	}
	return p
}

func names(p *ir.Program, order []ids.ID) []string {
	out := make([]string, len(order))
	for i, id := range order {
		out[i] = p.Modules[id].Name
	}
	return out
}

func TestEmitOrderIsLeafFirst(t *testing.T) {
	p := program(t,
		[]string{"top", "amp", "bias", "res"},
		[]string{"amp", "cell", "cell"},
		[]string{"bias", "cell"},
		[]string{"cell", "res"},
		[]string{"unused"},
	)
	idx := BuildIndex(p)
	g := BuildGraph(idx, p)
	topo := ToposortKahn(g)
	if topo.Cyclic {
		t.Fatalf("unexpected cycle: %+v", topo)
	}
	if got := len(g.Edges[int(idx.ModuleToID["m2"])]); got != 1 {
		t.Fatalf("duplicate instantiations must collapse into one edge, got %d", got)
	}
	wantBatches := [][]string{{"top", "unused"}, {"amp", "bias"}, {"cell"}}
	var gotBatches [][]string
	for _, b := range topo.Batches {
		var row []string
		for _, id := range b {
			row = append(row, p.Modules[idx.IDToModule[int(id)]].Name)
		}
		gotBatches = append(gotBatches, row)
	}
	if diff := cmp.Diff(wantBatches, gotBatches); diff != "" {
		t.Fatalf("batches (-want +got):\n%s", diff)
	}
	want := []string{"cell", "bias", "amp", "unused", "top"}
	if diff := cmp.Diff(want, names(p, EmitOrder(idx, topo))); diff != "" {
		t.Fatalf("emit order (-want +got):\n%s", diff)
	}
}

func TestCyclesReportOnlyParticipants(t *testing.T) {
	p := program(t,
		[]string{"top", "a"},
		[]string{"a", "b"},
		[]string{"b", "a", "leaf"},
		[]string{"leaf"},
		[]string{"self", "self"},
	)
	idx := BuildIndex(p)
	topo := ToposortKahn(BuildGraph(idx, p))
	if !topo.Cyclic {
		t.Fatalf("expected a cycle")
	}
	var cyc []string
	for _, id := range topo.Cycles {
		cyc = append(cyc, p.Modules[idx.IDToModule[int(id)]].Name)
	}
	if diff := cmp.Diff([]string{"a", "b", "self"}, cyc); diff != "" {
		t.Fatalf("cycle members (-want +got):\n%s", diff)
	}

	var c diag.Collector
	ReportCycles(idx, p, topo, &c)
	if diff := cmp.Diff([]diag.Code{diag.IRRecursiveInstance, diag.IRRecursiveInstance, diag.IRRecursiveInstance}, c.Codes()); diff != "" {
		t.Fatalf("codes (-want +got):\n%s", diff)
	}

	order := EmitOrder(idx, topo)
	if len(order) != len(p.Modules) {
		t.Fatalf("emit order must list every module: %v", order)
	}
}
