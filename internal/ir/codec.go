package ir

import (
	"github.com/vmihailenco/msgpack/v5"

	"netc/internal/ids"
)

// Maps are written as id-ordered lists: msgpack walks generic maps in
// runtime order, and snapshots must be byte-identical across runs.

type programWire struct {
	Top       ids.ID    `msgpack:"top"`
	Modules   []*Module `msgpack:"modules"`
	Devices   []*Device `msgpack:"devices"`
	EmitOrder []ids.ID  `msgpack:"emit_order"`
}

type moduleWire struct {
	ID         ids.ID      `msgpack:"id"`
	Name       string      `msgpack:"name"`
	Ports      []string    `msgpack:"ports"`
	Parameters []Param     `msgpack:"params"`
	Nets       []*Net      `msgpack:"nets"`
	Instances  []*Instance `msgpack:"instances"`
	Endpoints  []*Endpoint `msgpack:"endpoints"`
}

func (p *Program) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(&programWire{
		Top:       p.Top,
		Modules:   inOrder(p.Modules),
		Devices:   inOrder(p.Devices),
		EmitOrder: p.EmitOrder,
	})
}

func (p *Program) DecodeMsgpack(dec *msgpack.Decoder) error {
	var w programWire
	if err := dec.Decode(&w); err != nil {
		return err
	}
	*p = Program{
		Top:       w.Top,
		Modules:   byID(w.Modules, func(m *Module) ids.ID { return m.ID }),
		Devices:   byID(w.Devices, func(d *Device) ids.ID { return d.ID }),
		EmitOrder: w.EmitOrder,
	}
	return nil
}

func (m *Module) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(&moduleWire{
		ID:         m.ID,
		Name:       m.Name,
		Ports:      m.Ports,
		Parameters: m.Parameters,
		Nets:       inOrder(m.Nets),
		Instances:  inOrder(m.Instances),
		Endpoints:  inOrder(m.Endpoints),
	})
}

func (m *Module) DecodeMsgpack(dec *msgpack.Decoder) error {
	var w moduleWire
	if err := dec.Decode(&w); err != nil {
		return err
	}
	*m = Module{
		ID:         w.ID,
		Name:       w.Name,
		Ports:      w.Ports,
		Parameters: w.Parameters,
		Nets:       byID(w.Nets, func(n *Net) ids.ID { return n.ID }),
		Instances:  byID(w.Instances, func(i *Instance) ids.ID { return i.ID }),
		Endpoints:  byID(w.Endpoints, func(e *Endpoint) ids.ID { return e.ID }),
	}
	return nil
}

func inOrder[V any](m map[ids.ID]V) []V {
	out := make([]V, 0, len(m))
	for _, id := range sortedKeys(m) {
		out = append(out, m[id])
	}
	return out
}

// byID always returns a non-nil map so decoded programs accept inserts.
func byID[T any](list []*T, key func(*T) ids.ID) map[ids.ID]*T {
	out := make(map[ids.ID]*T, len(list))
	for _, v := range list {
		if v != nil {
			out[key(v)] = v
		}
	}
	return out
}
