package state

import (
	"sync"

	"github.com/LayneInNL/dmf/internal/object"
	"github.com/LayneInNL/dmf/internal/value"
)

// Registry is the process-wide table of object identities: every
// AnalysisFunction/ArtificialFunction keyed by its FuncID, every
// AnalysisClass/ArtificialClass keyed by its ClassID, and every other
// heap-resident object (instances, bound methods, properties, supers,
// pending descriptor calls) keyed by its HeapID. Unlike Heap, which
// holds an instance's per-context attribute namespace, Registry answers
// "what object does this identifier denote" — a question with one
// context-independent answer, since the same allocation site always
// names the same object even when its attributes vary by context.
//
// Populated by the CFG-lowering/classdef and call transfer functions as
// they allocate functions, classes, and instances; read by
// internal/attrs through the Resolver below to turn a Value's
// components back into concrete objects.
type Registry struct {
	mu      sync.RWMutex
	funcs   map[value.FuncID]*object.Function
	classes map[value.ClassID]*object.Class
	objects map[value.HeapID]object.Object
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		funcs:   map[value.FuncID]*object.Function{},
		classes: map[value.ClassID]*object.Class{},
		objects: map[value.HeapID]object.Object{},
	}
}

// DefineFunction registers fn under its own FuncID.
func (r *Registry) DefineFunction(fn *object.Function) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[fn.FuncID] = fn
}

// DefineClass registers c under its own ClassID.
func (r *Registry) DefineClass(c *object.Class) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classes[c.ClassID] = c
}

// Bind registers obj under heap identifier id — used both for a
// freshly allocated instance (id is its own allocation-site label) and
// for the synthetic identifiers internal/attrs mints for bound methods
// and descriptor calls.
func (r *Registry) Bind(id value.HeapID, obj object.Object) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.objects[id] = obj
}

// Function looks up a registered function by id.
func (r *Registry) Function(id value.FuncID) (*object.Function, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[id]
	return fn, ok
}

// Class looks up a registered class by id.
func (r *Registry) Class(id value.ClassID) (*object.Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.classes[id]
	return c, ok
}

// Object looks up a registered heap object by id.
func (r *Registry) Object(id value.HeapID) (object.Object, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.objects[id]
	return o, ok
}
