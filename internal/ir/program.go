package ir

import (
	"slices"

	"netc/internal/ids"
	"netc/internal/pattern"
	"netc/internal/source"
)

// PatternOrigin records which expression produced a literal name so
// emitters can re-render compact bus notation.
type PatternOrigin struct {
	Expr     ids.ID         `json:"expr" msgpack:"x"`
	Segment  int            `json:"segment" msgpack:"s"`
	BaseName string         `json:"base_name" msgpack:"b"`
	Parts    []pattern.Part `json:"parts,omitempty" msgpack:"p"`
}

// Program is the atomized graph.
type Program struct {
	Top     ids.ID             `json:"top" msgpack:"top"`
	Modules map[ids.ID]*Module `json:"modules" msgpack:"modules"`
	Devices map[ids.ID]*Device `json:"devices" msgpack:"devices"`
	// EmitOrder lists module ids leaf-first.
	EmitOrder []ids.ID `json:"emit_order" msgpack:"emit_order"`
}

func NewProgram() *Program {
	return &Program{
		Modules: make(map[ids.ID]*Module),
		Devices: make(map[ids.ID]*Device),
	}
}

// ModuleIDs returns module ids in allocation order.
func (p *Program) ModuleIDs() []ids.ID {
	return sortedKeys(p.Modules)
}

// DeviceIDs returns device ids in allocation order.
func (p *Program) DeviceIDs() []ids.ID {
	return sortedKeys(p.Devices)
}

// ModuleByName returns the first module called name.
func (p *Program) ModuleByName(name string) *Module {
	for _, id := range p.ModuleIDs() {
		if m := p.Modules[id]; m.Name == name {
			return m
		}
	}
	return nil
}

// Module is one atomized module.
type Module struct {
	ID   ids.ID        `json:"id" msgpack:"id"`
	Name string        `json:"name" msgpack:"name"`
	File source.FileID `json:"-" msgpack:"-"`
	Span source.Span   `json:"-" msgpack:"-"`
	// Ports are port net names in declaration order.
	Ports      []string             `json:"ports" msgpack:"ports"`
	Parameters []Param              `json:"parameters,omitempty" msgpack:"params"`
	Nets       map[ids.ID]*Net      `json:"nets" msgpack:"nets"`
	Instances  map[ids.ID]*Instance `json:"instances" msgpack:"instances"`
	Endpoints  map[ids.ID]*Endpoint `json:"endpoints" msgpack:"endpoints"`
}

func NewModule(id ids.ID, name string) *Module {
	return &Module{
		ID:        id,
		Name:      name,
		Nets:      make(map[ids.ID]*Net),
		Instances: make(map[ids.ID]*Instance),
		Endpoints: make(map[ids.ID]*Endpoint),
	}
}

func (m *Module) NetIDs() []ids.ID      { return sortedKeys(m.Nets) }
func (m *Module) InstanceIDs() []ids.ID { return sortedKeys(m.Instances) }
func (m *Module) EndpointIDs() []ids.ID { return sortedKeys(m.Endpoints) }

// NetByName returns the net called name, or nil.
func (m *Module) NetByName(name string) *Net {
	for _, id := range m.NetIDs() {
		if n := m.Nets[id]; n.Name == name {
			return n
		}
	}
	return nil
}

// InstanceByName returns the instance called name, or nil.
func (m *Module) InstanceByName(name string) *Instance {
	for _, id := range m.InstanceIDs() {
		if inst := m.Instances[id]; inst.Name == name {
			return inst
		}
	}
	return nil
}

// EndpointsOf returns the endpoints attached to instance inst, in id order.
func (m *Module) EndpointsOf(inst ids.ID) []*Endpoint {
	var out []*Endpoint
	for _, id := range m.EndpointIDs() {
		if ep := m.Endpoints[id]; ep.Instance == inst {
			out = append(out, ep)
		}
	}
	return out
}

type Net struct {
	ID     ids.ID         `json:"id" msgpack:"id"`
	Name   string         `json:"name" msgpack:"name"`
	Port   bool           `json:"port,omitempty" msgpack:"port"`
	Origin *PatternOrigin `json:"origin,omitempty" msgpack:"origin"`
	Span   source.Span    `json:"-" msgpack:"-"`
}

type Instance struct {
	ID     ids.ID         `json:"id" msgpack:"id"`
	Name   string         `json:"name" msgpack:"name"`
	Ref    Ref            `json:"ref" msgpack:"ref"`
	Params []Param        `json:"params,omitempty" msgpack:"params"`
	Origin *PatternOrigin `json:"origin,omitempty" msgpack:"origin"`
	Span   source.Span    `json:"-" msgpack:"-"`
}

// Endpoint connects one instance port to one net of the same module.
type Endpoint struct {
	ID       ids.ID `json:"id" msgpack:"id"`
	Net      ids.ID `json:"net" msgpack:"net"`
	Instance ids.ID `json:"instance" msgpack:"inst"`
	Port     string `json:"port" msgpack:"port"`
	// Default is set when the binding came from instance_defaults.
	Default bool        `json:"default,omitempty" msgpack:"default"`
	Span    source.Span `json:"-" msgpack:"-"`
}

// Backend is one named emitter template block of a device.
type Backend struct {
	Name   string  `json:"name" msgpack:"name"`
	Fields []Param `json:"fields" msgpack:"fields"`
}

// Device is a primitive; it is literal from the start.
type Device struct {
	ID         ids.ID        `json:"id" msgpack:"id"`
	Name       string        `json:"name" msgpack:"name"`
	Ports      []string      `json:"ports" msgpack:"ports"`
	Parameters []Param       `json:"parameters,omitempty" msgpack:"params"`
	Backends   []Backend     `json:"backends,omitempty" msgpack:"backends"`
	File       source.FileID `json:"-" msgpack:"-"`
	Span       source.Span   `json:"-" msgpack:"-"`
}

// HasPort reports whether port is declared by d.
func (d *Device) HasPort(port string) bool {
	return slices.Contains(d.Ports, port)
}

func sortedKeys[V any](m map[ids.ID]V) []ids.ID {
	out := make([]ids.ID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	slices.SortFunc(out, func(a, b ids.ID) int {
		switch {
		case ids.Less(a, b):
			return -1
		case ids.Less(b, a):
			return 1
		}
		return 0
	})
	return out
}
