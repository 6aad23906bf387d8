package diag

import (
	"cmp"
	"slices"

	"fortio.org/safecast"
)

// Bag is the bounded session store for diagnostics. Once the limit is hit
// further reports are counted but not kept; a rejected error still makes
// HasErrors true so a truncated run never looks clean.
type Bag struct {
	items []Diagnostic
	limit uint16
	lost  struct {
		total  int
		errors int
	}
}

func NewBag(max int) *Bag {
	limit, err := safecast.Conv[uint16](max)
	if err != nil {
		limit = ^uint16(0)
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(int(limit), 64)),
		limit: limit,
	}
}

// Add stores d unless the bag is full. It returns false for a rejected item.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) < int(b.limit) {
		b.items = append(b.items, d)
		return true
	}
	b.lost.total++
	if d.Severity.IsError() {
		b.lost.errors++
	}
	return false
}

func (b *Bag) Cap() uint16 { return b.limit }

// Dropped returns how many diagnostics were rejected by the limit.
func (b *Bag) Dropped() int { return b.lost.total }

func (b *Bag) Len() int { return len(b.items) }

// Items returns the backing slice. Callers must not modify it.
func (b *Bag) Items() []Diagnostic { return b.items }

func (b *Bag) any(pred func(Diagnostic) bool) bool {
	return slices.ContainsFunc(b.items, pred)
}

func (b *Bag) HasErrors() bool {
	return b.lost.errors > 0 || b.any(func(d Diagnostic) bool { return d.Severity.IsError() })
}

func (b *Bag) HasWarnings() bool {
	return b.any(func(d Diagnostic) bool { return d.Severity >= SevWarning })
}

// Count returns the number of kept diagnostics with exactly sev.
func (b *Bag) Count(sev Severity) int {
	n := 0
	for _, d := range b.items {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// Merge appends other's items, growing the limit so nothing from other is lost.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	if want := len(b.items) + len(other.items); want > int(b.limit) {
		if limit, err := safecast.Conv[uint16](want); err == nil {
			b.limit = limit
		}
	}
	for _, d := range other.items {
		b.Add(d)
	}
	b.lost.total += other.lost.total
	b.lost.errors += other.lost.errors
}

// Filter keeps only diagnostics for which keep returns true.
func (b *Bag) Filter(keep func(Diagnostic) bool) {
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool { return !keep(d) })
}

// Transform rewrites every diagnostic in place.
func (b *Bag) Transform(fn func(Diagnostic) Diagnostic) {
	for i, d := range b.items {
		b.items[i] = fn(d)
	}
}

// Sort orders by position first, then by severity (errors before warnings)
// and code, so output is stable across runs.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}

// Dedup drops repeats of the same code, primary span and message,
// keeping the first occurrence.
func (b *Bag) Dedup() {
	type key struct {
		code Code
		span string
		msg  string
	}
	seen := make(map[key]struct{}, len(b.items))
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool {
		k := key{d.Code, d.Primary.String(), d.Message}
		if _, dup := seen[k]; dup {
			return true
		}
		seen[k] = struct{}{}
		return false
	})
}
