package state

import (
	"github.com/LayneInNL/dmf/internal/attrs"
	"github.com/LayneInNL/dmf/internal/object"
	"github.com/LayneInNL/dmf/internal/value"
)

// Resolver is the concrete attrs.Resolver backing a transfer function
// running at one (label, context) program point: object identity
// (function/class/heap-object lookup and binding) goes through the
// process-wide Registry, while instance attribute namespaces go through
// Heap keyed by (heap id, Ctx) — Ctx is fixed for the lifetime of a
// Resolver, so every ReadDict/WriteDict call implicitly reads and
// writes the right context's copy.
type Resolver struct {
	Registry *Registry
	Heap     *Heap
	Ctx      Context
}

var _ attrs.Resolver = (*Resolver)(nil)

// NewResolver builds a Resolver scoped to ctx.
func NewResolver(reg *Registry, heap *Heap, ctx Context) *Resolver {
	return &Resolver{Registry: reg, Heap: heap, Ctx: ctx}
}

// Objects resolves every concrete identifier v carries — heap objects,
// functions, classes — to the Registry entries they denote. v.IsAny()
// is the caller's responsibility to special-case first, same as
// internal/attrs itself does; Any has no concrete objects to enumerate.
func (r *Resolver) Objects(v *value.Value) []object.Object {
	if v.IsAny() {
		return nil
	}
	var out []object.Object
	for _, id := range v.HeapIDs() {
		if o, ok := r.Registry.Object(id); ok {
			out = append(out, o)
		}
	}
	for _, id := range v.FuncIDs() {
		if fn, ok := r.Registry.Function(id); ok {
			out = append(out, fn)
		}
	}
	for id := range v.Classes() {
		if c, ok := r.Registry.Class(id); ok {
			out = append(out, c)
		}
	}
	return out
}

// ReadDict returns the attribute namespace of the instance allocated at
// heapID, under this Resolver's context.
func (r *Resolver) ReadDict(heapID value.HeapID) *value.Namespace {
	return r.Heap.Read(SiteKey(heapID, r.Ctx))
}

// WriteDict replaces the attribute namespace of the instance allocated
// at heapID, under this Resolver's context.
func (r *Resolver) WriteDict(heapID value.HeapID, ns *value.Namespace) {
	r.Heap.Write(SiteKey(heapID, r.Ctx), ns)
}

// Bind registers obj in the Registry under heapID, context-independent
// (the bound method/descriptor object a given (site, function) pair
// resolves to does not vary by calling context).
func (r *Resolver) Bind(heapID value.HeapID, obj object.Object) {
	r.Registry.Bind(heapID, obj)
}
