// Package ids mints the stable identifiers used across one elaboration
// session. Identifiers are a kind prefix followed by a per-kind counter
// ("m1", "n12"), assigned strictly in declaration-encounter order.
package ids

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// Kind is the prefix of an identifier family.
type Kind byte

const (
	KindModule   Kind = 'm'
	KindDevice   Kind = 'd'
	KindInstance Kind = 'i'
	KindNet      Kind = 'n'
	KindEndpoint Kind = 'e'
	KindExpr     Kind = 'x'
)

func (k Kind) String() string {
	switch k {
	case KindModule:
		return "module"
	case KindDevice:
		return "device"
	case KindInstance:
		return "instance"
	case KindNet:
		return "net"
	case KindEndpoint:
		return "endpoint"
	case KindExpr:
		return "expr"
	}
	return "unknown"
}

// ID identifies one entity of the graph. The zero value means "no entity".
type ID string

// NoID marks an absent reference.
const NoID ID = ""

func (id ID) IsValid() bool { return id != NoID }

// Kind returns the family of id.
func (id ID) Kind() Kind {
	if id == NoID {
		return 0
	}
	return Kind(id[0])
}

// Seq returns the numeric part of id, or 0 for malformed ids.
func (id ID) Seq() uint32 {
	if len(id) < 2 {
		return 0
	}
	n, err := strconv.ParseUint(string(id[1:]), 10, 32)
	if err != nil {
		return 0
	}
	return uint32(n)
}

// Less orders ids by kind and then numerically, so "n2" < "n10".
func Less(a, b ID) bool {
	if a.Kind() != b.Kind() {
		return a.Kind() < b.Kind()
	}
	return a.Seq() < b.Seq()
}

// Allocator hands out identifiers. One allocator belongs to one session and
// is threaded through every stage that mints ids; it is not safe for
// concurrent use.
type Allocator struct {
	next map[Kind]uint32
}

// NewAllocator returns an allocator whose counters all start at 1.
func NewAllocator() *Allocator {
	return &Allocator{next: make(map[Kind]uint32, 6)}
}

// Next returns the next identifier of kind k.
func (a *Allocator) Next(k Kind) ID {
	n := a.next[k] + 1
	a.next[k] = n
	var sb strings.Builder
	sb.WriteByte(byte(k))
	sb.WriteString(strconv.FormatUint(uint64(n), 10))
	return ID(sb.String())
}

// Count returns how many ids of kind k were handed out.
func (a *Allocator) Count(k Kind) int {
	n, err := safecast.Conv[int](a.next[k])
	if err != nil {
		panic(fmt.Errorf("id counter overflow: %w", err))
	}
	return n
}
