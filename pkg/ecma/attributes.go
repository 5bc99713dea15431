package ecma

import (
	"veyron/pkg/heap"
)

// NamedDataValue returns the value field of a named data property. The value
// stays owned by the record.
func (ctx *Context) NamedDataValue(prop heap.Ref) Value {
	return ctx.dataProp(prop).value
}

// setNamedDataValue overwrites the value field without releasing the old
// value; callers own the exchange.
func (ctx *Context) setNamedDataValue(prop heap.Ref, v Value) {
	ctx.dataProp(prop).value = v
}

// AssignNamedDataValue assigns a new value to a data property owned by obj.
// When both the old and new value are numeric the existing box is mutated in
// place, saving a reallocation; otherwise the old value is released (object
// references excepted) and a counted copy of the new value stored.
func (ctx *Context) AssignNamedDataValue(obj, prop heap.Ref, v Value) {
	p := ctx.dataProp(prop)
	ctx.assertContains(obj, prop)

	if v.IsNumber() && p.value.IsNumber() {
		*ctx.numbers.Get(p.value.NumberRef()) = *ctx.numbers.Get(v.NumberRef())
		return
	}
	ctx.FreeValueIfNotObject(p.value)
	p.value = ctx.CopyValueIfNotObject(v)
}

// AccessorGetter returns the getter object of an accessor property, null
// when absent.
func (ctx *Context) AccessorGetter(prop heap.Ref) heap.Ref {
	return ctx.pairs.Get(ctx.accessorProp(prop).pair).getter
}

// AccessorSetter returns the setter object of an accessor property, null
// when absent.
func (ctx *Context) AccessorSetter(prop heap.Ref) heap.Ref {
	return ctx.pairs.Get(ctx.accessorProp(prop).pair).setter
}

// SetAccessorGetter points the accessor's getter at target (null allowed).
// The record must already be linked into obj's list.
func (ctx *Context) SetAccessorGetter(obj, prop heap.Ref, target heap.Ref) {
	p := ctx.accessorProp(prop)
	ctx.assertContains(obj, prop)
	ctx.pairs.Get(p.pair).getter = target
}

// SetAccessorSetter points the accessor's setter at target (null allowed).
// The record must already be linked into obj's list.
func (ctx *Context) SetAccessorSetter(obj, prop heap.Ref, target heap.Ref) {
	p := ctx.accessorProp(prop)
	ctx.assertContains(obj, prop)
	ctx.pairs.Get(p.pair).setter = target
}

// IsPropertyWritable returns the writable attribute of a data property.
func (ctx *Context) IsPropertyWritable(prop heap.Ref) bool {
	return ctx.dataProp(prop).flags&FlagWritable != 0
}

// SetPropertyWritable sets the writable attribute of a data property.
func (ctx *Context) SetPropertyWritable(prop heap.Ref, writable bool) {
	p := ctx.dataProp(prop)
	if writable {
		p.flags |= FlagWritable
	} else {
		p.flags &^= FlagWritable
	}
}

// IsPropertyEnumerable returns the enumerable attribute of a named property.
func (ctx *Context) IsPropertyEnumerable(prop heap.Ref) bool {
	return ctx.namedProp(prop).flags&FlagEnumerable != 0
}

// SetPropertyEnumerable sets the enumerable attribute of a named property.
func (ctx *Context) SetPropertyEnumerable(prop heap.Ref, enumerable bool) {
	p := ctx.namedProp(prop)
	if enumerable {
		p.flags |= FlagEnumerable
	} else {
		p.flags &^= FlagEnumerable
	}
}

// IsPropertyConfigurable returns the configurable attribute of a named
// property.
func (ctx *Context) IsPropertyConfigurable(prop heap.Ref) bool {
	return ctx.namedProp(prop).flags&FlagConfigurable != 0
}

// SetPropertyConfigurable sets the configurable attribute of a named
// property.
func (ctx *Context) SetPropertyConfigurable(prop heap.Ref, configurable bool) {
	p := ctx.namedProp(prop)
	if configurable {
		p.flags |= FlagConfigurable
	} else {
		p.flags &^= FlagConfigurable
	}
}

// IsPropertyLCached reports whether the record is registered in the lookup
// cache.
func (ctx *Context) IsPropertyLCached(prop heap.Ref) bool {
	return ctx.namedProp(prop).flags&FlagLCached != 0
}
