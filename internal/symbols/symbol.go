package symbols

import (
	"netc/internal/document"
	"netc/internal/ids"
	"netc/internal/source"
)

// SymbolKind classifies what a name refers to.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolModule
	SymbolDevice
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolModule:
		return "module"
	case SymbolDevice:
		return "device"
	default:
		return "invalid"
	}
}

// Symbol is a module or device declared at the top level of a file.
type Symbol struct {
	Kind SymbolKind
	ID   ids.ID
	Name source.StringID
	File source.FileID
	Span source.Span
	// Exactly one of Module and Device is set, matching Kind.
	Module *document.ModuleDecl
	Device *document.DeviceDecl
}
