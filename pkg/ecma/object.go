package ecma

import (
	"math"

	"veyron/pkg/heap"
)

// Kind discriminates object descriptors. Ordinary-object kinds occupy the low
// range and lexical-environment kinds the high range, so "is this an
// environment" is a single comparison.
type Kind uint8

const (
	KindGeneral Kind = iota
	KindFunction
	KindArray
	KindBoundFunction

	// Environment kinds start here; keep them last.
	KindDeclarativeEnv
	KindObjectBoundEnv
	KindThisBoundEnv
)

// IsEnvironment reports whether the kind is a lexical-environment kind.
func (k Kind) IsEnvironment() bool { return k >= KindDeclarativeEnv }

// Object is a descriptor for either an ordinary object or a lexical
// environment, chosen by kind. The two reference slots are shared between the
// variants: protoOrOuter holds the prototype of an object or the outer
// reference of an environment; propsOrBinding holds the property-list head of
// an object or declarative environment, or the binding object of an
// object-bound environment. The kind-asserting accessors below are the only
// way through.
type Object struct {
	kind       Kind
	builtin    bool
	extensible bool
	gcVisited  bool
	refs       uint16

	protoOrOuter   heap.Ref
	propsOrBinding heap.Ref
}

// NewObject allocates an ordinary-object descriptor with the given prototype
// (which may be null), extensible flag and kind. Reference count starts at 1.
func (ctx *Context) NewObject(prototype heap.Ref, extensible bool, kind Kind) heap.Ref {
	if kind.IsEnvironment() {
		panic("ecma: NewObject with an environment kind")
	}
	return ctx.objects.Alloc(Object{
		kind:         kind,
		extensible:   extensible,
		refs:         1,
		protoOrOuter: prototype,
	})
}

// NewDeclarativeEnv allocates a declarative lexical environment with the
// given outer environment (null when not nested). Reference count starts at 1.
func (ctx *Context) NewDeclarativeEnv(outer heap.Ref) heap.Ref {
	return ctx.objects.Alloc(Object{
		kind:         KindDeclarativeEnv,
		refs:         1,
		protoOrOuter: outer,
	})
}

// NewObjectBoundEnv allocates an object-bound lexical environment. The
// binding object must be an ordinary object; provideThis selects the
// this-bound variant. The binding object occupies the property-list slot, so
// this environment kind has no property list.
func (ctx *Context) NewObjectBoundEnv(outer heap.Ref, binding heap.Handle, provideThis bool) heap.Ref {
	if ctx.IsLexicalEnvironment(binding.Ref()) {
		panic("ecma: binding object is a lexical environment")
	}
	kind := KindObjectBoundEnv
	if provideThis {
		kind = KindThisBoundEnv
	}
	return ctx.objects.Alloc(Object{
		kind:           kind,
		refs:           1,
		protoOrOuter:   outer,
		propsOrBinding: binding.Ref(),
	})
}

// IsLexicalEnvironment reports whether the descriptor is a lexical
// environment. It is a pure function of the kind.
func (ctx *Context) IsLexicalEnvironment(obj heap.Ref) bool {
	return ctx.objects.Get(obj).kind.IsEnvironment()
}

// ObjectKind returns the descriptor's kind.
func (ctx *Context) ObjectKind(obj heap.Ref) Kind {
	return ctx.objects.Get(obj).kind
}

// SetObjectKind changes an ordinary object's kind. Environments never change
// kind, and an object never becomes one.
func (ctx *Context) SetObjectKind(obj heap.Ref, kind Kind) {
	o := ctx.objects.Get(obj)
	if o.kind.IsEnvironment() || kind.IsEnvironment() {
		panic("ecma: SetObjectKind on or to an environment")
	}
	o.kind = kind
}

// IsExtensible returns the [[Extensible]] flag. Objects only.
func (ctx *Context) IsExtensible(obj heap.Ref) bool {
	o := ctx.objects.Get(obj)
	if o.kind.IsEnvironment() {
		panic("ecma: IsExtensible on an environment")
	}
	return o.extensible
}

// SetExtensible sets the [[Extensible]] flag. Objects only.
func (ctx *Context) SetExtensible(obj heap.Ref, extensible bool) {
	o := ctx.objects.Get(obj)
	if o.kind.IsEnvironment() {
		panic("ecma: SetExtensible on an environment")
	}
	o.extensible = extensible
}

// IsBuiltin reports whether the object is a built-in object. Objects only.
func (ctx *Context) IsBuiltin(obj heap.Ref) bool {
	o := ctx.objects.Get(obj)
	if o.kind.IsEnvironment() {
		panic("ecma: IsBuiltin on an environment")
	}
	return o.builtin
}

// SetBuiltin marks an ordinary object as built-in.
func (ctx *Context) SetBuiltin(obj heap.Ref) {
	o := ctx.objects.Get(obj)
	if o.kind.IsEnvironment() {
		panic("ecma: SetBuiltin on an environment")
	}
	o.builtin = true
}

// Prototype returns an object's prototype reference, null when absent.
func (ctx *Context) Prototype(obj heap.Ref) heap.Ref {
	o := ctx.objects.Get(obj)
	if o.kind.IsEnvironment() {
		panic("ecma: Prototype on an environment")
	}
	return o.protoOrOuter
}

// OuterEnvironment returns an environment's outer reference, null at the
// chain's end.
func (ctx *Context) OuterEnvironment(env heap.Ref) heap.Ref {
	o := ctx.objects.Get(env)
	if !o.kind.IsEnvironment() {
		panic("ecma: OuterEnvironment on an ordinary object")
	}
	return o.protoOrOuter
}

// BindingObject returns the binding object of an object-bound environment.
func (ctx *Context) BindingObject(env heap.Ref) heap.Handle {
	o := ctx.objects.Get(env)
	if o.kind != KindObjectBoundEnv && o.kind != KindThisBoundEnv {
		panic("ecma: BindingObject on a non-bound descriptor")
	}
	return o.propsOrBinding.Must()
}

// ProvideThis reports whether an object-bound environment provides `this`.
func (ctx *Context) ProvideThis(env heap.Ref) bool {
	o := ctx.objects.Get(env)
	if o.kind != KindObjectBoundEnv && o.kind != KindThisBoundEnv {
		panic("ecma: ProvideThis on a non-bound descriptor")
	}
	return o.kind == KindThisBoundEnv
}

// propertyListSlot guards access to the shared slot: only ordinary objects
// and declarative environments carry a property list.
func (ctx *Context) propertyListSlot(obj heap.Ref) *Object {
	o := ctx.objects.Get(obj)
	if o.kind.IsEnvironment() && o.kind != KindDeclarativeEnv {
		panic("ecma: property list on an object-bound environment")
	}
	return o
}

// PropertyList returns the head of the descriptor's property list.
func (ctx *Context) PropertyList(obj heap.Ref) heap.Ref {
	return ctx.propertyListSlot(obj).propsOrBinding
}

func (ctx *Context) setPropertyList(obj heap.Ref, head heap.Ref) {
	ctx.propertyListSlot(obj).propsOrBinding = head
}

// IsGCVisited returns the collector's mark flag.
func (ctx *Context) IsGCVisited(obj heap.Ref) bool {
	return ctx.objects.Get(obj).gcVisited
}

// SetGCVisited sets or clears the collector's mark flag.
func (ctx *Context) SetGCVisited(obj heap.Ref, visited bool) {
	ctx.objects.Get(obj).gcVisited = visited
}

// ObjectRefCount returns the descriptor's reference count.
func (ctx *Context) ObjectRefCount(obj heap.Ref) uint16 {
	return ctx.objects.Get(obj).refs
}

// RefObject takes one reference to the descriptor. Counter exhaustion is
// fatal: continuing would corrupt the count.
func (ctx *Context) RefObject(obj heap.Ref) {
	o := ctx.objects.Get(obj)
	if o.refs >= math.MaxUint16 {
		panic("ecma: object reference count limit reached")
	}
	o.refs++
}

// DerefObject releases one reference. At zero the descriptor's property list
// is released property by property and the descriptor itself is freed; stale
// lookup-cache entries for the descriptor are dropped first so a recycled
// record address can never satisfy a lookup.
func (ctx *Context) DerefObject(obj heap.Ref) {
	o := ctx.objects.Get(obj)
	if o.refs == 0 {
		panic("ecma: dereference of a dead object")
	}
	o.refs--
	if o.refs > 0 {
		return
	}

	ctx.cache.Drop(obj)
	if !o.kind.IsEnvironment() || o.kind == KindDeclarativeEnv {
		for prop := o.propsOrBinding; !prop.IsNull(); {
			next := ctx.props.Get(prop).next
			ctx.FreeProperty(obj, prop)
			prop = next
		}
	}
	ctx.objects.Free(obj)
}
