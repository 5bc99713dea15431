// Package heap provides the slab arenas and compact references the object
// representation is built on. A Ref stands in for a native pointer everywhere:
// it carries a slot index and a generation, and dereferencing a stale or null
// reference is caught instead of reading freed memory.
package heap

import (
	"fmt"

	"fortio.org/safecast"
)

type slot[T any] struct {
	gen  uint32
	live bool
	val  T
}

// Arena is a typed slab allocator. Freed slots are recycled through a free
// list; each recycle bumps the slot's generation so references into the old
// incarnation go stale instead of aliasing the new one.
type Arena[T any] struct {
	slots []slot[T]
	free  []uint32
	live  int
}

// NewArena creates an empty arena. Slot 0 is reserved as the null sentinel.
func NewArena[T any]() *Arena[T] {
	a := &Arena[T]{}
	a.slots = append(a.slots, slot[T]{}) // reserve 0 for Null
	return a
}

// Alloc stores v in a fresh or recycled slot and returns its reference.
func (a *Arena[T]) Alloc(v T) Ref {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		i, err := safecast.Conv[uint32](len(a.slots))
		if err != nil {
			panic(fmt.Errorf("heap: slot index overflow: %w", err))
		}
		idx = i
		a.slots = append(a.slots, slot[T]{})
	}
	s := &a.slots[idx]
	s.live = true
	s.val = v
	a.live++
	return Ref{slot: idx, gen: s.gen}
}

// Get dereferences r. The reference must be non-null and current; anything
// else is a caller bug.
func (a *Arena[T]) Get(r Ref) *T {
	p, ok := a.TryGet(r)
	if !ok {
		panic("heap: dereference of null or stale reference")
	}
	return p
}

// MustGet dereferences a non-nullable handle.
func (a *Arena[T]) MustGet(h Handle) *T { return a.Get(h.r) }

// TryGet dereferences r, reporting false for null or stale references.
func (a *Arena[T]) TryGet(r Ref) (*T, bool) {
	if r.IsNull() || int(r.slot) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[r.slot]
	if !s.live || s.gen != r.gen {
		return nil, false
	}
	return &s.val, true
}

// Free returns the slot behind r to the free list. Double frees and stale
// references are caller bugs.
func (a *Arena[T]) Free(r Ref) {
	if _, ok := a.TryGet(r); !ok {
		panic("heap: free of null or stale reference")
	}
	s := &a.slots[r.slot]
	var zero T
	s.val = zero
	s.live = false
	s.gen++
	a.free = append(a.free, r.slot)
	a.live--
}

// Live returns the number of live allocations.
func (a *Arena[T]) Live() int { return a.live }
