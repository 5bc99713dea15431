package ecma

import (
	"veyron/pkg/heap"
)

// PropertyDescriptor is the detached, ownership-carrying snapshot of property
// state that moves across the boundary to the object-model algorithms
// ([[DefineOwnProperty]] and friends). Every field comes with a defined flag;
// an empty descriptor has them all false.
type PropertyDescriptor struct {
	ValueDefined bool
	Value        Value

	WritableDefined bool
	Writable        bool

	EnumerableDefined bool
	Enumerable        bool

	ConfigurableDefined bool
	Configurable        bool

	GetDefined bool
	Getter     heap.Ref

	SetDefined bool
	Setter     heap.Ref
}

// EmptyPropertyDescriptor returns a descriptor with every defined flag false
// and neutral defaults.
func EmptyPropertyDescriptor() PropertyDescriptor {
	return PropertyDescriptor{Value: Undefined}
}

// PropertyDescriptorFromProperty snapshots a live named property. Enumerable
// and configurable are always defined; data records add a counted clone of
// the value and the writable flag, accessor records add the getter and setter
// with a descriptor reference taken on each non-null end. The caller owns the
// result and must release it with FreePropertyDescriptor on every path that
// does not pass ownership on.
func (ctx *Context) PropertyDescriptorFromProperty(prop heap.Ref) PropertyDescriptor {
	p := ctx.namedProp(prop)

	desc := EmptyPropertyDescriptor()
	desc.Enumerable = p.flags&FlagEnumerable != 0
	desc.EnumerableDefined = true
	desc.Configurable = p.flags&FlagConfigurable != 0
	desc.ConfigurableDefined = true

	if p.kind == PropertyData {
		desc.Value = ctx.CopyValue(p.value)
		desc.ValueDefined = true
		desc.Writable = p.flags&FlagWritable != 0
		desc.WritableDefined = true
	} else {
		pair := ctx.pairs.Get(p.pair)
		desc.Getter = pair.getter
		desc.GetDefined = true
		if !desc.Getter.IsNull() {
			ctx.RefObject(desc.Getter)
		}
		desc.Setter = pair.setter
		desc.SetDefined = true
		if !desc.Setter.IsNull() {
			ctx.RefObject(desc.Setter)
		}
	}
	return desc
}

// FreePropertyDescriptor releases everything the descriptor owns and resets
// it to the empty state.
func (ctx *Context) FreePropertyDescriptor(desc *PropertyDescriptor) {
	if desc.ValueDefined {
		ctx.FreeValue(desc.Value)
	}
	if desc.GetDefined && !desc.Getter.IsNull() {
		ctx.DerefObject(desc.Getter)
	}
	if desc.SetDefined && !desc.Setter.IsNull() {
		ctx.DerefObject(desc.Setter)
	}
	*desc = EmptyPropertyDescriptor()
}
