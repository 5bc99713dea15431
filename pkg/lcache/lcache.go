// Package lcache implements the (descriptor, name) -> property lookup cache
// the object core consults before scanning a property list. It is a
// best-effort accelerator: a direct-mapped table with two ways per row that
// memoizes both positive and negative lookups. Entries may be displaced at any
// time, so a miss here only means "scan the list".
package lcache

import (
	"veyron/pkg/heap"
)

const (
	numRows = 128
	rowWays = 2
)

type entry struct {
	valid bool
	obj   heap.Ref
	name  heap.Ref
	prop  heap.Ref // Null memoizes a negative lookup
}

// Cache is a fixed-size lookup cache. Not a source of truth: every structural
// change to a descriptor's named properties must go through Invalidate.
type Cache struct {
	rows   [numRows][rowWays]entry
	victim [numRows]uint8 // round-robin replacement cursor per row

	hits   uint64
	misses uint64
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{}
}

func rowOf(obj, name heap.Ref) uint32 {
	// FNV-1a over the two reference keys.
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)
	h := uint64(offset64)
	for _, k := range [2]uint64{obj.Key(), name.Key()} {
		for i := 0; i < 8; i++ {
			h ^= (k >> (8 * i)) & 0xff
			h *= prime64
		}
	}
	return uint32(h % numRows)
}

// Lookup reports a memoized answer for (obj, name). found means the cache has
// an entry; prop is Null for a memoized negative lookup.
func (c *Cache) Lookup(obj, name heap.Ref) (prop heap.Ref, found bool) {
	row := &c.rows[rowOf(obj, name)]
	for i := range row {
		e := &row[i]
		if e.valid && e.obj == obj && e.name == name {
			c.hits++
			return e.prop, true
		}
	}
	c.misses++
	return heap.Null, false
}

// Insert memoizes the result of a scan; prop may be Null to record a negative
// lookup. Returns the property record displaced by the insertion (Null if
// none) so the caller can clear its registered flag.
func (c *Cache) Insert(obj, name, prop heap.Ref) (evicted heap.Ref) {
	row := &c.rows[rowOf(obj, name)]

	// Reuse an existing entry for the same key, or the first free way.
	way := -1
	for i := range row {
		e := &row[i]
		if e.valid && e.obj == obj && e.name == name {
			way = i
			break
		}
		if !e.valid && way < 0 {
			way = i
		}
	}
	if way < 0 {
		r := rowOf(obj, name)
		way = int(c.victim[r])
		c.victim[r] = uint8((way + 1) % rowWays)
	}

	e := &row[way]
	if e.valid && !e.prop.IsNull() && e.prop != prop {
		evicted = e.prop
	}
	*e = entry{valid: true, obj: obj, name: name, prop: prop}
	return evicted
}

// Invalidate drops stale entries after a structural change. With a non-null
// name it drops the entry for (obj, name); otherwise it drops every entry of
// obj that points at prop. Either name or prop must be given.
func (c *Cache) Invalidate(obj, name, prop heap.Ref) {
	if !name.IsNull() {
		row := &c.rows[rowOf(obj, name)]
		for i := range row {
			e := &row[i]
			if e.valid && e.obj == obj && e.name == name {
				e.valid = false
			}
		}
		return
	}
	if prop.IsNull() {
		panic("lcache: invalidate needs a name or a property")
	}
	for r := range c.rows {
		for i := range c.rows[r] {
			e := &c.rows[r][i]
			if e.valid && e.obj == obj && e.prop == prop {
				e.valid = false
			}
		}
	}
}

// Drop removes every entry belonging to obj. Used when a descriptor dies.
func (c *Cache) Drop(obj heap.Ref) {
	for r := range c.rows {
		for i := range c.rows[r] {
			e := &c.rows[r][i]
			if e.valid && e.obj == obj {
				e.valid = false
			}
		}
	}
}

// Stats returns the hit and miss counters. For debugging only.
func (c *Cache) Stats() (hits, misses uint64) {
	return c.hits, c.misses
}
