package ir

import (
	"netc/internal/ids"
	"netc/internal/source"
)

// ExprKind says where an expression came from.
type ExprKind uint8

const (
	ExprModuleName ExprKind = iota + 1
	ExprNet
	ExprInstance
	ExprEndpoint
	ExprParam
	ExprDefault
)

func (k ExprKind) String() string {
	switch k {
	case ExprModuleName:
		return "module"
	case ExprNet:
		return "net"
	case ExprInstance:
		return "instance"
	case ExprEndpoint:
		return "endpoint"
	case ExprParam:
		return "param"
	case ExprDefault:
		return "default"
	}
	return "unknown"
}

// Expr is one raw pattern expression and its location.
type Expr struct {
	ID   ids.ID
	Kind ExprKind
	Raw  string
	Span source.Span
}

// ExprTable owns every expression of a patterned graph.
type ExprTable struct {
	byID  map[ids.ID]*Expr
	order []ids.ID
}

func NewExprTable() *ExprTable {
	return &ExprTable{byID: make(map[ids.ID]*Expr)}
}

// Add allocates an expression id for raw.
func (t *ExprTable) Add(alloc *ids.Allocator, kind ExprKind, raw string, span source.Span) ids.ID {
	id := alloc.Next(ids.KindExpr)
	t.byID[id] = &Expr{ID: id, Kind: kind, Raw: raw, Span: span}
	t.order = append(t.order, id)
	return id
}

// Get returns the expression with id, or nil.
func (t *ExprTable) Get(id ids.ID) *Expr {
	return t.byID[id]
}

func (t *ExprTable) Len() int { return len(t.order) }

// IDs returns expression ids in allocation order.
func (t *ExprTable) IDs() []ids.ID { return t.order }

// RefKind tells modules and devices apart.
type RefKind uint8

const (
	RefModule RefKind = iota + 1
	RefDevice
)

func (k RefKind) String() string {
	switch k {
	case RefModule:
		return "module"
	case RefDevice:
		return "device"
	}
	return "unknown"
}

// Ref is a resolved instance reference.
type Ref struct {
	Kind RefKind `json:"kind" msgpack:"k"`
	ID   ids.ID  `json:"id" msgpack:"i"`
	// Token is the text the reference was written as ("nfet", "std.cell").
	Token string `json:"token" msgpack:"t"`
}

// Param is a literal name/value pair.
type Param struct {
	Name  string `json:"name" msgpack:"n"`
	Value string `json:"value" msgpack:"v"`
}

// PatternedModule is one module before expansion.
type PatternedModule struct {
	ID   ids.ID
	Name string
	// NameExpr expands to the module's own name; modules use literal names
	// today, but the name still goes through the pattern checks.
	NameExpr ids.ID
	File     source.FileID
	Span     source.Span
	// Patterns holds named axis definitions in declaration order.
	Patterns   []Param
	Parameters []Param
	Nets       []PatternedNet
	Instances  []PatternedInstance
	Defaults   []PatternedDefault
}

// Named returns the named patterns as the map pattern.Options expects.
func (m *PatternedModule) Named() map[string]string {
	if len(m.Patterns) == 0 {
		return nil
	}
	out := make(map[string]string, len(m.Patterns))
	for _, p := range m.Patterns {
		out[p.Name] = p.Value
	}
	return out
}

type PatternedNet struct {
	Expr      ids.ID
	Port      bool
	Endpoints []PatternedEndpoint
}

type PatternedEndpoint struct {
	Expr       ids.ID
	Suppressed bool
}

type PatternedInstance struct {
	Expr   ids.ID
	Ref    Ref
	Params []PatternedParam
}

// PatternedParam is an instance parameter whose value may itself be a
// pattern expanding to one value or one value per instance atom.
type PatternedParam struct {
	Name string
	Expr ids.ID
}

// PatternedDefault applies port bindings to every instance of Ref.
type PatternedDefault struct {
	Ref      Ref
	Span     source.Span
	Bindings []PatternedBinding
}

type PatternedBinding struct {
	Port string
	// Net is a literal net expression.
	Net  ids.ID
	Span source.Span
}

// PatternedGraph is the resolved design ready for atomization.
type PatternedGraph struct {
	Top     ids.ID
	Modules []*PatternedModule
	Devices []*Device
	Exprs   *ExprTable
}

// Module returns the module with id, or nil.
func (g *PatternedGraph) Module(id ids.ID) *PatternedModule {
	for _, m := range g.Modules {
		if m.ID == id {
			return m
		}
	}
	return nil
}
