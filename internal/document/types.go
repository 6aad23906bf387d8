package document

import "netc/internal/source"

// Scalar is a string value together with the span of its text.
type Scalar struct {
	Value string
	Span  source.Span
}

// Entry is one key/value pair of an ordered mapping.
type Entry struct {
	Key   Scalar
	Value Scalar
}

// Import binds a namespace to an import path.
type Import struct {
	Namespace Scalar
	Path      Scalar
}

// Document is one decoded design file.
type Document struct {
	File    source.FileID
	Path    string
	Top     *Scalar
	Imports []Import
	Devices []*DeviceDecl
	Modules []*ModuleDecl
}

// DeviceDecl is a primitive with a port list and backend templates.
type DeviceDecl struct {
	Name       Scalar
	Ports      []Scalar
	Parameters []Entry
	Backends   []Backend
	Span       source.Span
}

// Backend holds the fields of one backend entry (template, model, ...).
type Backend struct {
	Name   Scalar
	Fields []Entry
}

// ModuleDecl is a pattern-bearing module body.
type ModuleDecl struct {
	Name       Scalar
	Parameters []Entry
	Variables  []Entry
	Patterns   []Entry
	// Instances maps an instance name expression to its "<ref> key=value" token.
	Instances []Entry
	Nets      []NetDecl
	Defaults  []DefaultDecl
	Span      source.Span
}

// NetDecl is a net expression and the endpoint expressions bound to it.
type NetDecl struct {
	Name Scalar
	// Port is set for nets declared as "$name"; Name has the '$' removed.
	Port      bool
	Endpoints []EndpointRef
}

// EndpointRef is one "<inst>.<port>" expression.
type EndpointRef struct {
	Expr Scalar
	// Suppressed is set by a leading '!': an explicit binding that overrides
	// a default does not warn.
	Suppressed bool
}

// DefaultDecl holds default port bindings for every instance of Ref.
type DefaultDecl struct {
	Ref      Scalar
	Bindings []Entry
}

// Module returns the module declared as name, or nil.
func (d *Document) Module(name string) *ModuleDecl {
	for _, m := range d.Modules {
		if m.Name.Value == name {
			return m
		}
	}
	return nil
}

// Device returns the device declared as name, or nil.
func (d *Document) Device(name string) *DeviceDecl {
	for _, dev := range d.Devices {
		if dev.Name.Value == name {
			return dev
		}
	}
	return nil
}

// Lookup returns the value of key in entries.
func Lookup(entries []Entry, key string) (Scalar, bool) {
	for _, e := range entries {
		if e.Key.Value == key {
			return e.Value, true
		}
	}
	return Scalar{}, false
}
