package symbols

import (
	"fmt"

	"netc/internal/diag"
	"netc/internal/document"
	"netc/internal/ids"
	"netc/internal/source"
)

// Table holds the symbols of one file. A name may map to several symbols
// when a file declares it twice; lookups then report ambiguity.
type Table struct {
	File    source.FileID
	Symbols []*Symbol
	byName  map[source.StringID][]int
}

func newTable(file source.FileID) *Table {
	return &Table{File: file, byName: make(map[source.StringID][]int)}
}

func (t *Table) add(sym *Symbol) {
	t.byName[sym.Name] = append(t.byName[sym.Name], len(t.Symbols))
	t.Symbols = append(t.Symbols, sym)
}

// Lookup returns every symbol called name, in declaration order.
func (t *Table) Lookup(name source.StringID) []*Symbol {
	idx := t.byName[name]
	if len(idx) == 0 {
		return nil
	}
	out := make([]*Symbol, len(idx))
	for i, j := range idx {
		out[i] = t.Symbols[j]
	}
	return out
}

// ProgramDB is the global symbol table keyed by (file, name).
type ProgramDB struct {
	Strings *source.Interner
	tables  map[source.FileID]*Table
	order   []source.FileID
	byID    map[ids.ID]*Symbol
}

// NewProgramDB returns an empty database. If strings is nil, a fresh
// interner is allocated.
func NewProgramDB(strings *source.Interner) *ProgramDB {
	if strings == nil {
		strings = source.NewInterner()
	}
	return &ProgramDB{
		Strings: strings,
		tables:  make(map[source.FileID]*Table),
		byID:    make(map[ids.ID]*Symbol),
	}
}

// AddFile declares the modules and devices of doc, modules first, each group
// in declaration order. A name declared twice in one file is reported; both
// symbols are kept so references to the name stay ambiguous.
func (db *ProgramDB) AddFile(doc *document.Document, alloc *ids.Allocator, rep diag.Reporter) *Table {
	if t, ok := db.tables[doc.File]; ok {
		return t
	}
	t := newTable(doc.File)
	db.tables[doc.File] = t
	db.order = append(db.order, doc.File)

	first := make(map[source.StringID]*Symbol)
	declare := func(sym *Symbol) {
		if prev, dup := first[sym.Name]; dup {
			name := db.Strings.MustLookup(sym.Name)
			diag.ReportError(rep, diag.ImpDuplicateSymbol, sym.Span,
				fmt.Sprintf("%s %q is already declared as a %s in this file", sym.Kind, name, prev.Kind)).
				WithNote(prev.Span, "previous declaration").
				Emit()
		} else {
			first[sym.Name] = sym
		}
		t.add(sym)
		db.byID[sym.ID] = sym
	}
	for _, m := range doc.Modules {
		declare(&Symbol{
			Kind:   SymbolModule,
			ID:     alloc.Next(ids.KindModule),
			Name:   db.Strings.Intern(m.Name.Value),
			File:   doc.File,
			Span:   m.Name.Span,
			Module: m,
		})
	}
	for _, d := range doc.Devices {
		declare(&Symbol{
			Kind:   SymbolDevice,
			ID:     alloc.Next(ids.KindDevice),
			Name:   db.Strings.Intern(d.Name.Value),
			File:   doc.File,
			Span:   d.Name.Span,
			Device: d,
		})
	}
	return t
}

// Table returns the table of file, or nil.
func (db *ProgramDB) Table(file source.FileID) *Table {
	return db.tables[file]
}

// Files returns files in the order they were added.
func (db *ProgramDB) Files() []source.FileID {
	return db.order
}

// Symbol returns the symbol with id, or nil.
func (db *ProgramDB) Symbol(id ids.ID) *Symbol {
	return db.byID[id]
}

// Lookup returns the symbols called name in file.
func (db *ProgramDB) Lookup(file source.FileID, name string) []*Symbol {
	t := db.tables[file]
	if t == nil {
		return nil
	}
	sid, ok := db.Strings.Find(name)
	if !ok {
		return nil
	}
	return t.Lookup(sid)
}

// Validate checks internal consistency; it is meant for tests.
func (db *ProgramDB) Validate() error {
	if len(db.order) != len(db.tables) {
		return fmt.Errorf("file order has %d entries, tables %d", len(db.order), len(db.tables))
	}
	seen := 0
	for _, file := range db.order {
		t := db.tables[file]
		if t == nil {
			return fmt.Errorf("file %d has no table", file)
		}
		for _, sym := range t.Symbols {
			if sym.File != file {
				return fmt.Errorf("symbol %s is in table %d but belongs to file %d", sym.ID, file, sym.File)
			}
			if db.byID[sym.ID] != sym {
				return fmt.Errorf("symbol %s is not indexed by id", sym.ID)
			}
			seen++
		}
	}
	if seen != len(db.byID) {
		return fmt.Errorf("%d symbols indexed, %d in tables", len(db.byID), seen)
	}
	return nil
}
