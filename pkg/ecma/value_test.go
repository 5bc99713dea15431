package ecma

import (
	"testing"

	"veyron/pkg/heap"
)

func TestValue_Types(t *testing.T) {
	ctx := newTestContext()
	obj := ctx.NewObject(heap.Null, true, KindGeneral)

	for _, tc := range []struct {
		name string
		v    Value
		typ  ValueType
	}{
		{"undefined", Undefined, TypeUndefined},
		{"null", Null, TypeNull},
		{"boolean", Boolean(true), TypeBoolean},
		{"number", ctx.NewNumber(3.5), TypeNumber},
		{"string", StringValue(ctx.Names().Intern("s")), TypeString},
		{"object", ObjectValue(obj), TypeObject},
	} {
		if tc.v.Type() != tc.typ {
			t.Errorf("%s: type = %v, want %v", tc.name, tc.v.Type(), tc.typ)
		}
		if tc.v.Type().String() != tc.name {
			t.Errorf("%s: String() = %q", tc.name, tc.v.Type().String())
		}
	}
}

func TestValue_BooleanPayload(t *testing.T) {
	if !Boolean(true).AsBoolean() || Boolean(false).AsBoolean() {
		t.Errorf("expected boolean payloads to round-trip")
	}
	defer func() {
		if recover() == nil {
			t.Errorf("expected AsBoolean on undefined to panic")
		}
	}()
	Undefined.AsBoolean()
}

func TestCopyValue_NumberGetsFreshBox(t *testing.T) {
	ctx := newTestContext()
	v := ctx.NewNumber(7)
	c := ctx.CopyValue(v)
	if c.NumberRef() == v.NumberRef() {
		t.Errorf("expected the clone to get its own box")
	}
	if ctx.NumberValue(c) != 7 {
		t.Errorf("expected the clone to carry the same float")
	}
	// Mutating one box must not leak into the other.
	*ctx.numbers.Get(v.NumberRef()) = 9
	if ctx.NumberValue(c) != 7 {
		t.Errorf("expected boxes to be independent")
	}
	ctx.FreeValue(v)
	ctx.FreeValue(c)
	if ctx.numbers.Live() != 0 {
		t.Errorf("expected all boxes to be freed, %d left", ctx.numbers.Live())
	}
}

func TestCopyValue_StringAddsReference(t *testing.T) {
	ctx := newTestContext()
	v := StringValue(ctx.Names().Intern("s"))
	c := ctx.CopyValue(v)
	if c.StringRef() != v.StringRef() {
		t.Errorf("expected the clone to share the interned entry")
	}
	if got := ctx.Names().RefCount(v.StringRef()); got != 2 {
		t.Errorf("expected refcount 2 after clone, got %d", got)
	}
	ctx.FreeValue(c)
	ctx.FreeValue(v)
	if ctx.Names().Live() != 0 {
		t.Errorf("expected the entry to die with its last reference")
	}
}

func TestCopyValueIfNotObject_PassesObjectsThrough(t *testing.T) {
	ctx := newTestContext()
	obj := ctx.NewObject(heap.Null, true, KindGeneral)
	v := ObjectValue(obj)
	c := ctx.CopyValueIfNotObject(v)
	if c.ObjectRef() != obj {
		t.Errorf("expected the object reference to pass through")
	}
	if ctx.ObjectRefCount(obj) != 1 {
		t.Errorf("expected no reference to be taken")
	}
	ctx.FreeValueIfNotObject(c)
	if ctx.ObjectRefCount(obj) != 1 {
		t.Errorf("expected no reference to be released")
	}
}

func TestCopyValue_ObjectCountsReference(t *testing.T) {
	ctx := newTestContext()
	obj := ctx.NewObject(heap.Null, true, KindGeneral)
	v := ObjectValue(obj)
	c := ctx.CopyValue(v)
	if ctx.ObjectRefCount(obj) != 2 {
		t.Errorf("expected CopyValue to count the object reference")
	}
	ctx.FreeValue(c)
	if ctx.ObjectRefCount(obj) != 1 {
		t.Errorf("expected FreeValue to release the object reference")
	}
}
