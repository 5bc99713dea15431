package ecma

import (
	"veyron/pkg/bytecode"
	"veyron/pkg/heap"
)

// Internal property payload accessors. Each pair is restricted to the kinds
// whose payload really is of that shape; mixing them up is a caller bug.

func (k InternalKind) payloadIsRef() bool {
	switch k {
	case InternalScope, InternalParametersMap, InternalPrimitiveString,
		InternalPrimitiveNumber, InternalBoundTarget, InternalBoundArgs,
		InternalNumberIndexedValues, InternalStringIndexedValues:
		return true
	}
	return false
}

func (k InternalKind) payloadIsUint() bool {
	switch k {
	case InternalClass, InternalBuiltinID, InternalPrimitiveBoolean:
		return true
	}
	return false
}

func (k InternalKind) payloadIsCode() bool {
	return k == InternalCode || k == InternalRegExpCode
}

func (k InternalKind) payloadIsExternal() bool {
	switch k {
	case InternalNativeHandle, InternalNativeCode, InternalFreeCallback:
		return true
	}
	return false
}

// InternalKindOf returns the internal kind of an internal property.
func (ctx *Context) InternalKindOf(prop heap.Ref) InternalKind {
	return ctx.internalProp(prop).intKind
}

// InternalRef returns the reference payload of a reference-valued kind.
func (ctx *Context) InternalRef(prop heap.Ref) heap.Ref {
	p := ctx.internalProp(prop)
	if !p.intKind.payloadIsRef() {
		panic("ecma: internal property payload is not a reference")
	}
	return p.payload.ref
}

// SetInternalRef stores a reference payload. Ownership follows the kind's
// release rule, not this call: counted payloads must arrive already counted.
func (ctx *Context) SetInternalRef(prop heap.Ref, r heap.Ref) {
	p := ctx.internalProp(prop)
	if !p.intKind.payloadIsRef() {
		panic("ecma: internal property payload is not a reference")
	}
	p.payload.ref = r
}

// InternalUint returns the inline integer payload.
func (ctx *Context) InternalUint(prop heap.Ref) uint32 {
	p := ctx.internalProp(prop)
	if !p.intKind.payloadIsUint() {
		panic("ecma: internal property payload is not an integer")
	}
	return p.payload.bits
}

// SetInternalUint stores an inline integer payload.
func (ctx *Context) SetInternalUint(prop heap.Ref, v uint32) {
	p := ctx.internalProp(prop)
	if !p.intKind.payloadIsUint() {
		panic("ecma: internal property payload is not an integer")
	}
	p.payload.bits = v
}

// InternalValue returns the value payload of a bound-this slot.
func (ctx *Context) InternalValue(prop heap.Ref) Value {
	p := ctx.internalProp(prop)
	if p.intKind != InternalBoundThis {
		panic("ecma: internal property payload is not a value")
	}
	return p.payload.val
}

// SetInternalValue stores the value payload of a bound-this slot. Ownership
// of v moves into the record.
func (ctx *Context) SetInternalValue(prop heap.Ref, v Value) {
	p := ctx.internalProp(prop)
	if p.intKind != InternalBoundThis {
		panic("ecma: internal property payload is not a value")
	}
	p.payload.val = v
}

// InternalCodeBlock returns the bytecode payload, nil when not yet set.
func (ctx *Context) InternalCodeBlock(prop heap.Ref) *bytecode.Code {
	p := ctx.internalProp(prop)
	if !p.intKind.payloadIsCode() {
		panic("ecma: internal property payload is not bytecode")
	}
	return p.payload.code
}

// SetInternalCodeBlock stores a bytecode payload; one reference to the block
// moves into the record and is given back on release.
func (ctx *Context) SetInternalCodeBlock(prop heap.Ref, c *bytecode.Code) {
	p := ctx.internalProp(prop)
	if !p.intKind.payloadIsCode() {
		panic("ecma: internal property payload is not bytecode")
	}
	p.payload.code = c
}

// InternalExternal returns the external-pointer payload.
func (ctx *Context) InternalExternal(prop heap.Ref) any {
	p := ctx.internalProp(prop)
	if !p.intKind.payloadIsExternal() {
		panic("ecma: internal property payload is not external")
	}
	return p.payload.ext
}

// SetInternalExternal stores an external-pointer payload; the release hook
// installed on the context sees it when the record dies.
func (ctx *Context) SetInternalExternal(prop heap.Ref, v any) {
	p := ctx.internalProp(prop)
	if !p.intKind.payloadIsExternal() {
		panic("ecma: internal property payload is not external")
	}
	p.payload.ext = v
}
