// Package axis binds the atoms of an endpoint expression to the atoms of the
// net expression they are listed under.
//
// When both expressions are built only from named patterns (<@name>), atoms
// are aligned by coordinate: the net's axes must appear, in order, among the
// endpoint's axes, and every endpoint atom binds to the net atom with the same
// values on those axes. This lets a net such as BUS<@cols> fan out to
// U<@rows><@cols>.D. Otherwise binding falls back to index-wise pairing of
// equally long expansions.
package axis
