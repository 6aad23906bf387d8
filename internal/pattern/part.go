package pattern

import "strconv"

// PartKind tags the value carried by a Part.
type PartKind uint8

const (
	PartLiteral PartKind = iota + 1
	PartNumeric
)

// Part is one substituted group value: a literal from an enumeration or an
// integer from a numeric range. Parts are comparable and usable as map keys;
// Literal("1") and Numeric(1) are different values.
type Part struct {
	kind PartKind
	str  string
	num  int
}

// Literal builds an enumeration part.
func Literal(s string) Part { return Part{kind: PartLiteral, str: s} }

// Numeric builds a range part.
func Numeric(n int) Part { return Part{kind: PartNumeric, num: n} }

func (p Part) Kind() PartKind { return p.kind }

// Str returns the literal value; it is empty for numeric parts.
func (p Part) Str() string { return p.str }

// Num returns the numeric value; it is zero for literal parts.
func (p Part) Num() int { return p.num }

// String renders the part the way it appears inside an atom.
func (p Part) String() string {
	switch p.kind {
	case PartLiteral:
		return p.str
	case PartNumeric:
		return strconv.Itoa(p.num)
	}
	return ""
}
