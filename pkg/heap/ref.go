package heap

// Ref is a compact, nullable reference into an Arena. The zero value is the
// null reference; slot 0 of every arena is reserved so that a live reference
// never compares equal to Null.
type Ref struct {
	slot uint32
	gen  uint32
}

// Null is the "no target" sentinel.
var Null = Ref{}

// IsNull reports whether r is the null sentinel.
func (r Ref) IsNull() bool { return r.slot == 0 }

// Key packs the reference into a single word usable as a hash input.
func (r Ref) Key() uint64 { return uint64(r.slot) | uint64(r.gen)<<32 }

// Must converts a nullable reference into a non-nullable Handle.
// Calling it on a null reference is a caller bug.
func (r Ref) Must() Handle {
	if r.IsNull() {
		panic("heap: null reference where a target is required")
	}
	return Handle{r}
}

// Handle is the non-nullable flavor of Ref: it is constructed only from a
// non-null reference, so dereferencing it never needs a null check.
type Handle struct {
	r Ref
}

// Ref returns the underlying nullable reference.
func (h Handle) Ref() Ref { return h.r }
