// Package ecma implements the object and property representation of the
// engine: object/environment descriptors, the three property record kinds,
// property-list operations, the detached property-descriptor bridge, and the
// ownership rules for values stored in properties. Execution, parsing and the
// tracing collector live above and beside this layer; they all operate on the
// representation defined here.
package ecma

import (
	"veyron/pkg/bytecode"
	"veyron/pkg/heap"
	"veyron/pkg/strtab"
)

// LookupCache is the contract this core expects from the external lookup
// accelerator. It is never a source of truth: Lookup may be stale or empty
// and the caller falls back to a list scan.
//
// Insert memoizes a scan result (prop may be Null for a negative lookup) and
// returns the record it displaced, Null if none, so the caller can clear the
// displaced record's registered flag. Invalidate must be called on every
// structural change to a descriptor's named properties.
type LookupCache interface {
	Lookup(obj, name heap.Ref) (prop heap.Ref, found bool)
	Insert(obj, name, prop heap.Ref) (evicted heap.Ref)
	Invalidate(obj, name, prop heap.Ref)
	Drop(obj heap.Ref)
}

// nopCache satisfies LookupCache when no accelerator is wired in.
type nopCache struct{}

func (nopCache) Lookup(obj, name heap.Ref) (heap.Ref, bool) { return heap.Null, false }
func (nopCache) Insert(obj, name, prop heap.Ref) heap.Ref   { return heap.Null }
func (nopCache) Invalidate(obj, name, prop heap.Ref)        {}
func (nopCache) Drop(obj heap.Ref)                          {}

// ExternalReleaser is invoked when an internal property holding an external
// pointer (native handle, native code, free callback) is released.
type ExternalReleaser func(kind InternalKind, payload any)

// Context owns the arenas behind every descriptor, property record, accessor
// pair, boxed number and value collection, plus the collaborators the core
// talks to: the intern table, the lookup cache and the code space. All
// mutation is single-threaded by contract; the host serializes calls.
type Context struct {
	objects *heap.Arena[Object]
	props   *heap.Arena[Property]
	pairs   *heap.Arena[accessorPair]
	numbers *heap.Arena[float64]
	colls   *heap.Arena[Collection]

	names *strtab.Table
	cache LookupCache
	code  *bytecode.Space

	freeExternal ExternalReleaser
}

// NewContext creates a context with fresh arenas. cache may be nil, in which
// case every lookup falls through to the list scan.
func NewContext(cache LookupCache) *Context {
	if cache == nil {
		cache = nopCache{}
	}
	names := strtab.NewTable()
	return &Context{
		objects: heap.NewArena[Object](),
		props:   heap.NewArena[Property](),
		pairs:   heap.NewArena[accessorPair](),
		numbers: heap.NewArena[float64](),
		colls:   heap.NewArena[Collection](),
		names:   names,
		cache:   cache,
		code:    bytecode.NewSpace(names),
	}
}

// Names returns the intern table backing property names and string values.
func (ctx *Context) Names() *strtab.Table { return ctx.names }

// Code returns the code space managing bytecode block lifetimes.
func (ctx *Context) Code() *bytecode.Space { return ctx.code }

// SetExternalReleaser installs the hook invoked when external-pointer
// internal properties are released.
func (ctx *Context) SetExternalReleaser(f ExternalReleaser) { ctx.freeExternal = f }
