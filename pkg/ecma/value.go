package ecma

import (
	"veyron/pkg/heap"
)

// ValueType discriminates the language values a property can hold.
type ValueType uint8

const (
	TypeUndefined ValueType = iota
	TypeNull
	TypeBoolean
	TypeNumber
	TypeString
	TypeObject
)

// String returns a human-readable name for the value type.
func (vt ValueType) String() string {
	switch vt {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBoolean:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a language value. Numbers are boxed in the context's number arena
// so assignment can overwrite the box in place; strings are intern-table
// references; objects are descriptor references. The zero value is undefined.
type Value struct {
	typ ValueType
	b   bool
	ref heap.Ref
}

// Undefined and Null are the simple constant values.
var (
	Undefined = Value{typ: TypeUndefined}
	Null      = Value{typ: TypeNull}
)

// Boolean makes a boolean value.
func Boolean(b bool) Value { return Value{typ: TypeBoolean, b: b} }

// StringValue wraps an interned string reference. The caller's reference
// moves into the value.
func StringValue(r heap.Ref) Value { return Value{typ: TypeString, ref: r.Must().Ref()} }

// ObjectValue wraps a descriptor reference. Object references carried inside
// values are never owned by the value slot; the collector's reachability
// graph keeps the object alive.
func ObjectValue(r heap.Ref) Value { return Value{typ: TypeObject, ref: r.Must().Ref()} }

// NewNumber boxes f and returns a number value owning the box.
func (ctx *Context) NewNumber(f float64) Value {
	return Value{typ: TypeNumber, ref: ctx.numbers.Alloc(f)}
}

// Type returns the value's type.
func (v Value) Type() ValueType { return v.typ }

func (v Value) IsUndefined() bool { return v.typ == TypeUndefined }
func (v Value) IsNumber() bool    { return v.typ == TypeNumber }
func (v Value) IsString() bool    { return v.typ == TypeString }
func (v Value) IsObject() bool    { return v.typ == TypeObject }

// AsBoolean returns the boolean payload.
func (v Value) AsBoolean() bool {
	if v.typ != TypeBoolean {
		panic("ecma: value is not a boolean")
	}
	return v.b
}

// StringRef returns the interned string behind a string value.
func (v Value) StringRef() heap.Ref {
	if v.typ != TypeString {
		panic("ecma: value is not a string")
	}
	return v.ref
}

// ObjectRef returns the descriptor behind an object value.
func (v Value) ObjectRef() heap.Ref {
	if v.typ != TypeObject {
		panic("ecma: value is not an object")
	}
	return v.ref
}

// NumberRef returns the box behind a number value. Two number values sharing
// a box alias the same storage.
func (v Value) NumberRef() heap.Ref {
	if v.typ != TypeNumber {
		panic("ecma: value is not a number")
	}
	return v.ref
}

// NumberValue reads the float behind a number value's box.
func (ctx *Context) NumberValue(v Value) float64 {
	return *ctx.numbers.Get(v.NumberRef())
}

// CopyValue clones v, taking ownership of the clone: numbers get a fresh box,
// strings gain a reference, objects gain a descriptor reference.
func (ctx *Context) CopyValue(v Value) Value {
	switch v.typ {
	case TypeNumber:
		return ctx.NewNumber(*ctx.numbers.Get(v.ref))
	case TypeString:
		ctx.names.Ref(v.ref)
		return v
	case TypeObject:
		ctx.RefObject(v.ref)
		return v
	default:
		return v
	}
}

// CopyValueIfNotObject clones v like CopyValue except that object references
// pass through uncounted: value slots never own live objects.
func (ctx *Context) CopyValueIfNotObject(v Value) Value {
	if v.typ == TypeObject {
		return v
	}
	return ctx.CopyValue(v)
}

// FreeValue releases whatever v owns: the number box, a string reference or
// an object reference.
func (ctx *Context) FreeValue(v Value) {
	switch v.typ {
	case TypeNumber:
		ctx.numbers.Free(v.ref)
	case TypeString:
		ctx.names.Deref(v.ref)
	case TypeObject:
		ctx.DerefObject(v.ref)
	}
}

// FreeValueIfNotObject releases v unless it is an object reference, which the
// value slot never owned in the first place.
func (ctx *Context) FreeValueIfNotObject(v Value) {
	if v.typ == TypeObject {
		return
	}
	ctx.FreeValue(v)
}
