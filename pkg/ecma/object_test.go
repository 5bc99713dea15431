package ecma

import (
	"math"
	"testing"

	"veyron/pkg/heap"
)

func TestIsLexicalEnvironment(t *testing.T) {
	ctx := NewContext(nil)

	obj := ctx.NewObject(heap.Null, true, KindGeneral)
	fn := ctx.NewObject(heap.Null, true, KindFunction)
	decl := ctx.NewDeclarativeEnv(heap.Null)
	bound := ctx.NewObjectBoundEnv(decl, obj.Must(), false)
	thisBound := ctx.NewObjectBoundEnv(decl, obj.Must(), true)

	for _, tc := range []struct {
		name  string
		ref   heap.Ref
		isEnv bool
	}{
		{"general object", obj, false},
		{"function object", fn, false},
		{"declarative env", decl, true},
		{"object-bound env", bound, true},
		{"this-bound env", thisBound, true},
	} {
		if got := ctx.IsLexicalEnvironment(tc.ref); got != tc.isEnv {
			t.Errorf("%s: IsLexicalEnvironment = %v, want %v", tc.name, got, tc.isEnv)
		}
	}
}

func TestNewObject_Defaults(t *testing.T) {
	ctx := NewContext(nil)
	proto := ctx.NewObject(heap.Null, true, KindGeneral)
	obj := ctx.NewObject(proto, true, KindGeneral)

	if ctx.ObjectRefCount(obj) != 1 {
		t.Errorf("expected refcount 1 on creation, got %d", ctx.ObjectRefCount(obj))
	}
	if !ctx.IsExtensible(obj) {
		t.Errorf("expected extensible flag to be set")
	}
	if ctx.IsBuiltin(obj) {
		t.Errorf("expected builtin flag to be clear")
	}
	if ctx.Prototype(obj) != proto {
		t.Errorf("expected stored prototype reference")
	}
	if !ctx.PropertyList(obj).IsNull() {
		t.Errorf("expected empty property list on creation")
	}
}

func TestNewObject_RejectsEnvKind(t *testing.T) {
	ctx := NewContext(nil)
	defer func() {
		if recover() == nil {
			t.Errorf("expected NewObject with an environment kind to panic")
		}
	}()
	ctx.NewObject(heap.Null, true, KindDeclarativeEnv)
}

func TestEnvironments_SharedSlots(t *testing.T) {
	ctx := NewContext(nil)
	outer := ctx.NewDeclarativeEnv(heap.Null)
	binding := ctx.NewObject(heap.Null, true, KindGeneral)

	env := ctx.NewObjectBoundEnv(outer, binding.Must(), true)
	if ctx.OuterEnvironment(env) != outer {
		t.Errorf("expected outer reference to be stored")
	}
	if ctx.BindingObject(env).Ref() != binding {
		t.Errorf("expected binding object to be stored")
	}
	if !ctx.ProvideThis(env) {
		t.Errorf("expected this-bound environment to provide this")
	}

	plain := ctx.NewObjectBoundEnv(outer, binding.Must(), false)
	if ctx.ProvideThis(plain) {
		t.Errorf("expected plain object-bound environment not to provide this")
	}
}

func TestObjectBoundEnv_RejectsEnvBinding(t *testing.T) {
	ctx := NewContext(nil)
	outer := ctx.NewDeclarativeEnv(heap.Null)
	inner := ctx.NewDeclarativeEnv(outer)
	defer func() {
		if recover() == nil {
			t.Errorf("expected binding to an environment to panic")
		}
	}()
	ctx.NewObjectBoundEnv(outer, inner.Must(), false)
}

func TestObjectBoundEnv_HasNoPropertyList(t *testing.T) {
	ctx := NewContext(nil)
	binding := ctx.NewObject(heap.Null, true, KindGeneral)
	env := ctx.NewObjectBoundEnv(heap.Null, binding.Must(), false)
	defer func() {
		if recover() == nil {
			t.Errorf("expected property-list access on a bound environment to panic")
		}
	}()
	ctx.PropertyList(env)
}

func TestDeclarativeEnv_HasPropertyList(t *testing.T) {
	ctx := NewContext(nil)
	env := ctx.NewDeclarativeEnv(heap.Null)
	if !ctx.PropertyList(env).IsNull() {
		t.Errorf("expected empty property list on a declarative environment")
	}
	name := ctx.Names().Intern("binding")
	prop := ctx.CreateNamedDataProperty(env, name, true, false, false)
	if ctx.FindNamedProperty(env, name) != prop {
		t.Errorf("expected declarative environment to hold named bindings")
	}
}

func TestExtensibleFlag_EnvironmentPanics(t *testing.T) {
	ctx := NewContext(nil)
	env := ctx.NewDeclarativeEnv(heap.Null)
	defer func() {
		if recover() == nil {
			t.Errorf("expected IsExtensible on an environment to panic")
		}
	}()
	ctx.IsExtensible(env)
}

func TestGCVisitedFlag(t *testing.T) {
	ctx := NewContext(nil)
	obj := ctx.NewObject(heap.Null, true, KindGeneral)
	if ctx.IsGCVisited(obj) {
		t.Errorf("expected gc-visited flag to start clear")
	}
	ctx.SetGCVisited(obj, true)
	if !ctx.IsGCVisited(obj) {
		t.Errorf("expected gc-visited flag to be set")
	}
	ctx.SetGCVisited(obj, false)
	if ctx.IsGCVisited(obj) {
		t.Errorf("expected gc-visited flag to be cleared")
	}
}

func TestRefObject_SaturationIsFatal(t *testing.T) {
	ctx := NewContext(nil)
	obj := ctx.NewObject(heap.Null, true, KindGeneral)
	ctx.objects.Get(obj).refs = math.MaxUint16
	defer func() {
		if recover() == nil {
			t.Errorf("expected RefObject at the counter maximum to panic, not wrap")
		}
	}()
	ctx.RefObject(obj)
}

func TestDerefObject_FreesPropertyList(t *testing.T) {
	ctx := NewContext(nil)
	obj := ctx.NewObject(heap.Null, true, KindGeneral)

	name := ctx.Names().Intern("x")
	ctx.CreateNamedDataProperty(obj, name, true, true, true)
	ctx.CreateInternalProperty(obj, InternalClass)

	liveProps := ctx.props.Live()
	if liveProps != 2 {
		t.Fatalf("expected 2 live property records, got %d", liveProps)
	}

	ctx.DerefObject(obj)
	if ctx.props.Live() != 0 {
		t.Errorf("expected property records to be released with the object, %d left", ctx.props.Live())
	}
	if ctx.objects.Live() != 0 {
		t.Errorf("expected the descriptor to be freed at refcount zero")
	}
	// The record's name reference died with it; only the caller's survives.
	if got := ctx.Names().RefCount(name); got != 1 {
		t.Errorf("expected name refcount 1 after teardown, got %d", got)
	}
}

func TestSetObjectKind(t *testing.T) {
	ctx := NewContext(nil)
	obj := ctx.NewObject(heap.Null, true, KindGeneral)
	ctx.SetObjectKind(obj, KindArray)
	if ctx.ObjectKind(obj) != KindArray {
		t.Errorf("expected kind to change to array")
	}
	defer func() {
		if recover() == nil {
			t.Errorf("expected SetObjectKind to an environment kind to panic")
		}
	}()
	ctx.SetObjectKind(obj, KindDeclarativeEnv)
}

func TestSetBuiltin(t *testing.T) {
	ctx := NewContext(nil)
	obj := ctx.NewObject(heap.Null, true, KindGeneral)
	ctx.SetBuiltin(obj)
	if !ctx.IsBuiltin(obj) {
		t.Errorf("expected builtin flag to be set")
	}
}
