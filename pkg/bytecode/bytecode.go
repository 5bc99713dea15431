// Package bytecode manages reference-counted compiled-code blocks: function
// bytecode produced by the compiler and regexp bytecode produced by the
// pattern front end. A block may be shared by several literal tables and
// closures, so its lifetime is tracked with an explicit saturating counter.
package bytecode

import (
	"math"

	"fortio.org/safecast"

	"veyron/pkg/heap"
	"veyron/pkg/strtab"
)

// Flags describes the payload of a code block.
type Flags uint16

const (
	// FlagFunction marks compiled-function payloads; blocks without it hold
	// other compiled payloads such as regexp bytecode.
	FlagFunction Flags = 1 << iota
)

// Code is one compiled-code block. For functions, the literal table is split
// into a constant region (owned by the literal storage, never released here)
// and a code-reference region whose entries were reference-counted when they
// were attached -- except entries that point back at the block itself, which
// are stored without a count and must be skipped on release.
type Code struct {
	refs  uint16
	flags Flags
	units uint32 // allocation size recorded by the producer

	ops      []byte
	consts   []heap.Ref // constant-literal region: interned strings
	subCodes []*Code    // code-reference region

	pattern heap.Ref // non-function payloads: interned source pattern

	released bool
}

// IsFunction reports whether the block holds compiled-function bytecode.
func (c *Code) IsFunction() bool { return c.flags&FlagFunction != 0 }

// Refs returns the current reference count.
func (c *Code) Refs() uint16 { return c.refs }

// Released reports whether the block has been returned to the allocator.
func (c *Code) Released() bool { return c.released }

// Ops returns the instruction bytes.
func (c *Code) Ops() []byte { return c.ops }

// ConstLiterals returns the constant-literal region.
func (c *Code) ConstLiterals() []heap.Ref { return c.consts }

// SubCodes returns the code-reference region of the literal table.
func (c *Code) SubCodes() []*Code { return c.subCodes }

// Space owns the lifetime bookkeeping for code blocks: the intern table that
// backs their string payloads and an account of heap units returned to the
// external allocator.
type Space struct {
	names      *strtab.Table
	freedUnits uint64
}

// NewSpace creates a code space over the given intern table.
func NewSpace(names *strtab.Table) *Space {
	if names == nil {
		panic("bytecode: nil intern table")
	}
	return &Space{names: names}
}

// FreedUnits returns the total allocation units handed back on final derefs.
func (s *Space) FreedUnits() uint64 { return s.freedUnits }

// NewFunction allocates a compiled-function block with reference count 1.
// consts is the constant-literal region; sub-codes are attached afterwards
// through AttachSubCode so their counting stays uniform.
func (s *Space) NewFunction(ops []byte, consts []heap.Ref, units int) *Code {
	u, err := safecast.Conv[uint32](units)
	if err != nil {
		panic("bytecode: block size out of range")
	}
	return &Code{
		refs:   1,
		flags:  FlagFunction,
		units:  u,
		ops:    ops,
		consts: consts,
	}
}

// AttachSubCode appends child to parent's code-reference region. A non-self
// child costs one reference; a self-reference is stored uncounted, which is
// exactly why Deref skips it later.
func (s *Space) AttachSubCode(parent, child *Code) {
	if !parent.IsFunction() {
		panic("bytecode: literal table on a non-function block")
	}
	if parent.released || child.released {
		panic("bytecode: attach on a released block")
	}
	if child != parent {
		s.Ref(child)
	}
	parent.subCodes = append(parent.subCodes, child)
}

// Ref takes one reference to the block. Exhausting the counter is a fatal
// resource-limit condition, not an error the caller can handle.
func (s *Space) Ref(c *Code) {
	if c.released {
		panic("bytecode: ref of a released block")
	}
	if c.refs >= math.MaxUint16 {
		panic("bytecode: reference count limit reached")
	}
	c.refs++
}

// Deref releases one reference. On the last one the block's owned payloads go
// first: every entry of a function's code-reference region except
// self-references, or the pattern string of a regexp payload. Then the block
// itself is returned to the allocator with its recorded size.
func (s *Space) Deref(c *Code) {
	if c.released {
		panic("bytecode: deref of a released block")
	}
	if c.refs == 0 {
		panic("bytecode: deref of a dead block")
	}
	c.refs--
	if c.refs > 0 {
		return
	}

	if c.IsFunction() {
		for _, sub := range c.subCodes {
			// Self references were stored uncounted; skip them.
			if sub != c {
				s.Deref(sub)
			}
		}
	} else if !c.pattern.IsNull() {
		s.names.Deref(c.pattern)
	}

	c.released = true
	c.ops = nil
	c.consts = nil
	c.subCodes = nil
	s.freedUnits += uint64(c.units)
}
