package source

// StringID is a dense handle for an interned name. The zero id is "".
type StringID uint32

const NoStringID StringID = 0

// Interner stores each distinct name once per session.
type Interner struct {
	names []string
	ids   map[string]StringID
}

func NewInterner() *Interner {
	in := &Interner{ids: make(map[string]StringID)}
	in.names = append(in.names, "")
	in.ids[""] = NoStringID
	return in
}

// Intern returns the id of s, assigning the next one for a new name.
func (in *Interner) Intern(s string) StringID {
	id, ok := in.ids[s]
	if !ok {
		id = StringID(len(in.names))
		in.names = append(in.names, s)
		in.ids[s] = id
	}
	return id
}

// Find is Intern without insertion.
func (in *Interner) Find(s string) (StringID, bool) {
	id, ok := in.ids[s]
	return id, ok
}

func (in *Interner) Lookup(id StringID) (string, bool) {
	if uint64(id) < uint64(len(in.names)) {
		return in.names[id], true
	}
	return "", false
}

// MustLookup panics on an id this interner did not hand out.
func (in *Interner) MustLookup(id StringID) string {
	if s, ok := in.Lookup(id); ok {
		return s
	}
	panic("source: unknown string id")
}
