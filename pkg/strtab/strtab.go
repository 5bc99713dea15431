// Package strtab interns property-name strings and tracks their reference
// counts. Interning guarantees that two equal names share one entry, so name
// comparison during property lookup is a single reference comparison.
package strtab

import (
	"math"

	"golang.org/x/text/unicode/norm"

	"veyron/pkg/heap"
)

type entry struct {
	text string
	refs uint32
}

// Table owns every interned string. Entries are freed when their reference
// count reaches zero.
type Table struct {
	arena *heap.Arena[entry]
	index map[string]heap.Ref
}

// NewTable creates an empty intern table.
func NewTable() *Table {
	return &Table{
		arena: heap.NewArena[entry](),
		index: make(map[string]heap.Ref, 64),
	}
}

// Intern returns a reference to the canonical entry for s, creating it with
// reference count 1 or bumping the count of an existing entry. Names are
// NFC-normalized first so canonically equal strings intern to one entry.
func (t *Table) Intern(s string) heap.Ref {
	s = norm.NFC.String(s)
	if r, ok := t.index[s]; ok {
		t.Ref(r)
		return r
	}
	r := t.arena.Alloc(entry{text: s, refs: 1})
	t.index[s] = r
	return r
}

// Ref takes an additional reference to an interned string.
// The count saturating at its maximum is a fatal resource-limit condition.
func (t *Table) Ref(r heap.Ref) {
	e := t.arena.Get(r)
	if e.refs >= math.MaxUint32 {
		panic("strtab: reference count limit reached")
	}
	e.refs++
}

// Deref releases one reference, freeing the entry when the count hits zero.
func (t *Table) Deref(r heap.Ref) {
	e := t.arena.Get(r)
	if e.refs == 0 {
		panic("strtab: dereference of a dead string")
	}
	e.refs--
	if e.refs == 0 {
		delete(t.index, e.text)
		t.arena.Free(r)
	}
}

// Text returns the string behind r.
func (t *Table) Text(r heap.Ref) string {
	return t.arena.Get(r).text
}

// RefCount returns the current reference count of r.
func (t *Table) RefCount(r heap.Ref) uint32 {
	return t.arena.Get(r).refs
}

// Live returns the number of interned entries.
func (t *Table) Live() int { return t.arena.Live() }
