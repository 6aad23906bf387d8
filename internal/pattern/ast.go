package pattern

// GroupKind distinguishes the two group syntaxes.
type GroupKind uint8

const (
	GroupEnum  GroupKind = iota + 1 // <a,b,c> or <@name>
	GroupRange                      // [hi:lo]
)

// Group is one substitution site inside a segment.
type Group struct {
	Kind  GroupKind
	Items []Part
	// Axis is the named pattern this group came from ("" for inline groups).
	Axis string
	// Start and End are byte offsets of the group text in the expression.
	Start, End int
}

// Piece is either literal text or a group.
type Piece struct {
	Text  string
	Group *Group
}

// Segment is one ';'-separated part of an expression.
type Segment struct {
	Pieces []Piece
	Start  int
	End    int
}

// BaseName returns the literal text before the first group.
func (s Segment) BaseName() string {
	if len(s.Pieces) == 0 || s.Pieces[0].Group != nil {
		return ""
	}
	return s.Pieces[0].Text
}

// Groups returns the groups of the segment in left-to-right order.
func (s Segment) Groups() []*Group {
	out := make([]*Group, 0, len(s.Pieces))
	for _, p := range s.Pieces {
		if p.Group != nil {
			out = append(out, p.Group)
		}
	}
	return out
}

// Expression is a parsed pattern expression. It is immutable after Parse.
type Expression struct {
	Raw      string
	Segments []Segment
}

// IsLiteral reports whether the expression has no groups and no splice.
func (e *Expression) IsLiteral() bool {
	if len(e.Segments) != 1 {
		return false
	}
	return len(e.Segments[0].Groups()) == 0
}

// Spliced reports whether the expression has more than one segment.
func (e *Expression) Spliced() bool {
	return len(e.Segments) > 1
}
