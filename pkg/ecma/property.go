package ecma

import (
	"veyron/pkg/bytecode"
	"veyron/pkg/heap"
)

// PropertyKind discriminates the three property record kinds.
type PropertyKind uint8

const (
	PropertyData PropertyKind = iota
	PropertyAccessor
	PropertyInternal
)

// PropertyFlags is the packed attribute byte of a named property.
type PropertyFlags uint8

const (
	FlagWritable PropertyFlags = 1 << iota
	FlagEnumerable
	FlagConfigurable
	// FlagLCached marks records currently registered in the lookup cache so
	// removal can skip the cache walk when the record was never memoized.
	FlagLCached
)

// InternalKind identifies an engine-private slot.
type InternalKind uint8

const (
	// InternalPrototype and InternalExtensible mirror state stored in the
	// descriptor itself; they are never present in a property list.
	InternalPrototype InternalKind = iota
	InternalExtensible

	InternalScope               // lexical environment reference
	InternalParametersMap       // object reference
	InternalClass               // inline enum tag
	InternalBuiltinID           // inline integer
	InternalPrimitiveString     // interned string reference
	InternalPrimitiveNumber     // boxed number reference
	InternalPrimitiveBoolean    // inline boolean
	InternalCode                // function bytecode block
	InternalRegExpCode          // regexp bytecode block, may be absent
	InternalNativeHandle        // external pointer
	InternalNativeCode          // external pointer
	InternalFreeCallback        // external pointer
	InternalBoundTarget         // object reference, uncounted
	InternalBoundThis           // a full value
	InternalBoundArgs           // value collection, may be absent
	InternalNumberIndexedValues // value collection
	InternalStringIndexedValues // value collection

	internalKindCount
)

// internalPayload is one fixed slot whose live field is decided by the
// owning record's internal kind.
type internalPayload struct {
	ref  heap.Ref
	val  Value
	bits uint32
	code *bytecode.Code
	ext  any
}

// Property is one record in a descriptor's singly-linked property list.
// Which fields are live depends on kind: named records carry a name plus a
// value (data) or an accessor-pair reference (accessor); internal records
// carry an internal kind and its payload.
type Property struct {
	kind  PropertyKind
	flags PropertyFlags
	next  heap.Ref

	name    heap.Ref
	value   Value
	pair    heap.Ref
	intKind InternalKind
	payload internalPayload
}

// accessorPair is the shared getter/setter holder of an accessor property.
// Both ends are nullable object references, never owned by the pair.
type accessorPair struct {
	getter heap.Ref
	setter heap.Ref
}

func (ctx *Context) prop(prop heap.Ref) *Property { return ctx.props.Get(prop) }

func (ctx *Context) namedProp(prop heap.Ref) *Property {
	p := ctx.props.Get(prop)
	if p.kind == PropertyInternal {
		panic("ecma: named-property operation on an internal property")
	}
	return p
}

func (ctx *Context) dataProp(prop heap.Ref) *Property {
	p := ctx.props.Get(prop)
	if p.kind != PropertyData {
		panic("ecma: operation requires a named data property")
	}
	return p
}

func (ctx *Context) accessorProp(prop heap.Ref) *Property {
	p := ctx.props.Get(prop)
	if p.kind != PropertyAccessor {
		panic("ecma: operation requires a named accessor property")
	}
	return p
}

func (ctx *Context) internalProp(prop heap.Ref) *Property {
	p := ctx.props.Get(prop)
	if p.kind != PropertyInternal {
		panic("ecma: operation requires an internal property")
	}
	return p
}

// PropertyKindOf returns the record's kind.
func (ctx *Context) PropertyKindOf(prop heap.Ref) PropertyKind {
	return ctx.props.Get(prop).kind
}

// NextProperty returns the next record in the owning list, null at the end.
// The collector walks lists through PropertyList and this.
func (ctx *Context) NextProperty(prop heap.Ref) heap.Ref {
	return ctx.props.Get(prop).next
}

// PropertyName returns the interned name of a named property.
func (ctx *Context) PropertyName(prop heap.Ref) heap.Ref {
	return ctx.namedProp(prop).name
}

func (ctx *Context) link(obj, prop heap.Ref) {
	p := ctx.props.Get(prop)
	p.next = ctx.PropertyList(obj)
	ctx.setPropertyList(obj, prop)
}

// assertContains checks that prop is reachable from obj's list. Deleting or
// mutating a record through the wrong descriptor is a caller bug.
func (ctx *Context) assertContains(obj, prop heap.Ref) {
	for cur := ctx.PropertyList(obj); !cur.IsNull(); cur = ctx.props.Get(cur).next {
		if cur == prop {
			return
		}
	}
	panic("ecma: property does not belong to the descriptor")
}

// CreateInternalProperty creates an internal property of the given kind with
// a zero payload and prepends it to the descriptor's list. At most one
// internal property of a kind may exist per descriptor.
func (ctx *Context) CreateInternalProperty(obj heap.Ref, kind InternalKind) heap.Ref {
	if !ctx.FindInternalProperty(obj, kind).IsNull() {
		panic("ecma: duplicate internal property")
	}
	prop := ctx.props.Alloc(Property{
		kind:    PropertyInternal,
		intKind: kind,
	})
	ctx.link(obj, prop)
	return prop
}

// FindInternalProperty returns the internal property of the given kind, null
// when absent. The prototype and extensible mirrors live in the descriptor
// and are never found here.
func (ctx *Context) FindInternalProperty(obj heap.Ref, kind InternalKind) heap.Ref {
	if kind == InternalPrototype || kind == InternalExtensible {
		panic("ecma: prototype/extensible are stored in the descriptor")
	}
	if kind >= internalKindCount {
		panic("ecma: internal property kind out of range")
	}
	for cur := ctx.PropertyList(obj); !cur.IsNull(); cur = ctx.props.Get(cur).next {
		p := ctx.props.Get(cur)
		if p.kind == PropertyInternal && p.intKind == kind {
			return cur
		}
	}
	return heap.Null
}

// GetInternalProperty is FindInternalProperty with a must-exist postcondition.
func (ctx *Context) GetInternalProperty(obj heap.Ref, kind InternalKind) heap.Ref {
	prop := ctx.FindInternalProperty(obj, kind)
	if prop.IsNull() {
		panic("ecma: internal property missing")
	}
	return prop
}

// CreateNamedDataProperty creates a named data property with the given
// attributes and an undefined value, prepends it to the list and invalidates
// the lookup cache for the name. The record takes its own reference to name.
// No property with the name may already exist.
func (ctx *Context) CreateNamedDataProperty(obj, name heap.Ref, writable, enumerable, configurable bool) heap.Ref {
	if !ctx.FindNamedProperty(obj, name).IsNull() {
		panic("ecma: duplicate named property")
	}
	ctx.names.Ref(name)

	var flags PropertyFlags
	if writable {
		flags |= FlagWritable
	}
	if enumerable {
		flags |= FlagEnumerable
	}
	if configurable {
		flags |= FlagConfigurable
	}
	prop := ctx.props.Alloc(Property{
		kind:  PropertyData,
		flags: flags,
		name:  name,
		value: Undefined,
	})
	ctx.link(obj, prop)
	ctx.cache.Invalidate(obj, name, heap.Null)
	return prop
}

// CreateNamedAccessorProperty creates a named accessor property with a fresh
// getter/setter holder. The getter and setter are assigned only after the
// record is linked into the list: the setters assert the record is reachable
// from the descriptor.
func (ctx *Context) CreateNamedAccessorProperty(obj, name heap.Ref, getter, setter heap.Ref, enumerable, configurable bool) heap.Ref {
	if !ctx.FindNamedProperty(obj, name).IsNull() {
		panic("ecma: duplicate named property")
	}
	ctx.names.Ref(name)

	var flags PropertyFlags
	if enumerable {
		flags |= FlagEnumerable
	}
	if configurable {
		flags |= FlagConfigurable
	}
	prop := ctx.props.Alloc(Property{
		kind:  PropertyAccessor,
		flags: flags,
		name:  name,
		pair:  ctx.pairs.Alloc(accessorPair{}),
	})
	ctx.link(obj, prop)

	ctx.SetAccessorGetter(obj, prop, getter)
	ctx.SetAccessorSetter(obj, prop, setter)

	ctx.cache.Invalidate(obj, name, heap.Null)
	return prop
}

// FindNamedProperty returns the named (data or accessor) property for name,
// null when absent. The lookup cache is consulted first and its answers are
// trusted; on a miss the list is scanned and the result, found or not, is
// reported back so repeated lookups hit.
func (ctx *Context) FindNamedProperty(obj, name heap.Ref) heap.Ref {
	if prop, found := ctx.cache.Lookup(obj, name); found {
		return prop
	}

	result := heap.Null
	for cur := ctx.PropertyList(obj); !cur.IsNull(); cur = ctx.props.Get(cur).next {
		p := ctx.props.Get(cur)
		if p.kind == PropertyInternal {
			continue
		}
		// Names are interned, so comparison is reference equality.
		if p.name == name {
			result = cur
			break
		}
	}

	if evicted := ctx.cache.Insert(obj, name, result); !evicted.IsNull() {
		ctx.props.Get(evicted).flags &^= FlagLCached
	}
	if !result.IsNull() {
		ctx.props.Get(result).flags |= FlagLCached
	}
	return result
}

// GetNamedProperty is FindNamedProperty with a must-exist postcondition.
func (ctx *Context) GetNamedProperty(obj, name heap.Ref) heap.Ref {
	prop := ctx.FindNamedProperty(obj, name)
	if prop.IsNull() {
		panic("ecma: named property missing")
	}
	return prop
}

// GetNamedDataProperty is GetNamedProperty restricted to data properties.
func (ctx *Context) GetNamedDataProperty(obj, name heap.Ref) heap.Ref {
	prop := ctx.GetNamedProperty(obj, name)
	if ctx.props.Get(prop).kind != PropertyData {
		panic("ecma: named property is not a data property")
	}
	return prop
}

// DeleteProperty unlinks prop from the descriptor's list and releases it.
// The record must be owned by the descriptor.
func (ctx *Context) DeleteProperty(obj, prop heap.Ref) {
	prev := heap.Null
	for cur := ctx.PropertyList(obj); !cur.IsNull(); {
		next := ctx.props.Get(cur).next
		if cur == prop {
			ctx.FreeProperty(obj, prop)
			if prev.IsNull() {
				ctx.setPropertyList(obj, next)
			} else {
				ctx.props.Get(prev).next = next
			}
			return
		}
		prev = cur
		cur = next
	}
	panic("ecma: delete of a property the descriptor does not own")
}

// FreeProperty releases the record's owned payload and the record itself
// without touching the list links. Used by DeleteProperty and by whole-list
// teardown, where relinking would be wasted work.
func (ctx *Context) FreeProperty(obj, prop heap.Ref) {
	switch ctx.props.Get(prop).kind {
	case PropertyData:
		ctx.freeNamedDataProperty(obj, prop)
	case PropertyAccessor:
		ctx.freeNamedAccessorProperty(obj, prop)
	default:
		ctx.freeInternalProperty(prop)
	}
}

func (ctx *Context) invalidateRecord(obj, prop heap.Ref) {
	// Skip the cache walk when the record was never memoized.
	if ctx.props.Get(prop).flags&FlagLCached != 0 {
		ctx.cache.Invalidate(obj, heap.Null, prop)
	}
}

func (ctx *Context) freeNamedDataProperty(obj, prop heap.Ref) {
	p := ctx.dataProp(prop)
	ctx.invalidateRecord(obj, prop)
	ctx.names.Deref(p.name)
	ctx.FreeValueIfNotObject(p.value)
	ctx.props.Free(prop)
}

func (ctx *Context) freeNamedAccessorProperty(obj, prop heap.Ref) {
	p := ctx.accessorProp(prop)
	ctx.invalidateRecord(obj, prop)
	ctx.names.Deref(p.name)
	// The getter and setter objects stay alive through the collector's
	// reachability graph; only the holder itself is ours.
	ctx.pairs.Free(p.pair)
	ctx.props.Free(prop)
}

func (ctx *Context) freeInternalProperty(prop heap.Ref) {
	p := ctx.internalProp(prop)
	switch p.intKind {
	case InternalNumberIndexedValues, InternalStringIndexedValues:
		ctx.FreeCollection(p.payload.ref, true)

	case InternalPrimitiveString:
		ctx.names.Deref(p.payload.ref)

	case InternalPrimitiveNumber:
		ctx.numbers.Free(p.payload.ref)

	case InternalNativeHandle, InternalNativeCode, InternalFreeCallback:
		if ctx.freeExternal != nil {
			ctx.freeExternal(p.intKind, p.payload.ext)
		}

	case InternalBoundThis:
		ctx.FreeValueIfNotObject(p.payload.val)

	case InternalBoundArgs:
		if !p.payload.ref.IsNull() {
			ctx.FreeCollection(p.payload.ref, false)
		}

	case InternalCode:
		ctx.code.Deref(p.payload.code)

	case InternalRegExpCode:
		// Absent until the pattern is first compiled.
		if p.payload.code != nil {
			ctx.code.Deref(p.payload.code)
		}

	case InternalPrimitiveBoolean, InternalScope, InternalParametersMap,
		InternalClass, InternalBuiltinID, InternalBoundTarget:
		// Inline payloads and uncounted references: nothing to release.

	default:
		panic("ecma: release of an unknown internal property kind")
	}
	ctx.props.Free(prop)
}
