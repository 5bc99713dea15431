package lcache

import (
	"testing"

	"veyron/pkg/heap"
)

func refs(t *testing.T, n int) []heap.Ref {
	t.Helper()
	a := heap.NewArena[int]()
	out := make([]heap.Ref, n)
	for i := range out {
		out[i] = a.Alloc(i)
	}
	return out
}

func TestCache_InsertLookup(t *testing.T) {
	c := New()
	r := refs(t, 3)
	obj, name, prop := r[0], r[1], r[2]

	if _, found := c.Lookup(obj, name); found {
		t.Fatalf("expected empty cache to miss")
	}
	c.Insert(obj, name, prop)
	got, found := c.Lookup(obj, name)
	if !found || got != prop {
		t.Errorf("expected hit with the inserted record, found=%v got=%v", found, got)
	}
}

func TestCache_NegativeEntry(t *testing.T) {
	c := New()
	r := refs(t, 2)
	obj, name := r[0], r[1]

	c.Insert(obj, name, heap.Null)
	got, found := c.Lookup(obj, name)
	if !found {
		t.Fatalf("expected memoized negative lookup to hit")
	}
	if !got.IsNull() {
		t.Errorf("expected negative entry to carry the null record, got %v", got)
	}
}

func TestCache_InvalidateByName(t *testing.T) {
	c := New()
	r := refs(t, 3)
	obj, name, prop := r[0], r[1], r[2]

	c.Insert(obj, name, prop)
	c.Invalidate(obj, name, heap.Null)
	if _, found := c.Lookup(obj, name); found {
		t.Errorf("expected entry to be gone after invalidate by name")
	}
}

func TestCache_InvalidateByRecord(t *testing.T) {
	c := New()
	r := refs(t, 3)
	obj, name, prop := r[0], r[1], r[2]

	c.Insert(obj, name, prop)
	c.Invalidate(obj, heap.Null, prop)
	if _, found := c.Lookup(obj, name); found {
		t.Errorf("expected entry to be gone after invalidate by record")
	}
}

func TestCache_InsertReportsEvicted(t *testing.T) {
	c := New()
	// Same (obj, name) always maps to the same row, so overfilling one key's
	// row with distinct names is the portable way to force eviction: insert
	// until something is displaced.
	a := heap.NewArena[int]()
	obj := a.Alloc(0)
	props := make(map[heap.Ref]bool)
	sawEviction := false
	for i := 0; i < 4*numRows; i++ {
		name := a.Alloc(i)
		prop := a.Alloc(i + 1000)
		props[prop] = true
		if ev := c.Insert(obj, name, prop); !ev.IsNull() {
			if !props[ev] {
				t.Fatalf("evicted record %v was never inserted", ev)
			}
			sawEviction = true
		}
	}
	if !sawEviction {
		t.Errorf("expected at least one eviction after overfilling the cache")
	}
}

func TestCache_Drop(t *testing.T) {
	c := New()
	r := refs(t, 4)
	obj, other := r[0], r[1]

	c.Insert(obj, r[2], r[3])
	c.Insert(other, r[2], r[3])
	c.Drop(obj)
	if _, found := c.Lookup(obj, r[2]); found {
		t.Errorf("expected dropped descriptor's entries to be gone")
	}
	if _, found := c.Lookup(other, r[2]); !found {
		t.Errorf("expected other descriptor's entries to survive Drop")
	}
}

func TestCache_ReinsertSameKeyNoSelfEviction(t *testing.T) {
	c := New()
	r := refs(t, 3)
	obj, name, prop := r[0], r[1], r[2]

	c.Insert(obj, name, prop)
	if ev := c.Insert(obj, name, prop); !ev.IsNull() {
		t.Errorf("expected re-insert of the same record to evict nothing, got %v", ev)
	}
}
