package ecma

import (
	"veyron/pkg/heap"
)

// Collection is a growable list of values used by the collection-valued
// internal property kinds (indexed array storage, bound arguments).
type Collection struct {
	values []Value
}

// NewCollection allocates an empty collection.
func (ctx *Context) NewCollection() heap.Ref {
	return ctx.colls.Alloc(Collection{})
}

// AppendToCollection appends v; ownership of v moves into the collection.
func (ctx *Context) AppendToCollection(coll heap.Ref, v Value) {
	c := ctx.colls.Get(coll)
	c.values = append(c.values, v)
}

// CollectionValues returns the stored values without taking references.
func (ctx *Context) CollectionValues(coll heap.Ref) []Value {
	return ctx.colls.Get(coll).values
}

// CollectionLen returns the number of stored values.
func (ctx *Context) CollectionLen(coll heap.Ref) int {
	return len(ctx.colls.Get(coll).values)
}

// FreeCollection releases the collection. With freeValues the stored values
// are released too (object references excepted, as everywhere); without it
// only the container dies, for collections whose values were never counted.
func (ctx *Context) FreeCollection(coll heap.Ref, freeValues bool) {
	if freeValues {
		for _, v := range ctx.colls.Get(coll).values {
			ctx.FreeValueIfNotObject(v)
		}
	}
	ctx.colls.Free(coll)
}
