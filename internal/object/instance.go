package object

import (
	"github.com/google/uuid"

	"github.com/LayneInNL/dmf/internal/value"
)

// Instance models an AnalysisInstance, ArtificialInstance, or
// TypeshedInstance. AnalysisInstance/TypeshedInstance attribute
// namespaces live in the heap keyed by (HeapID, context) — this struct
// only carries the allocation-site identifier the heap is keyed on.
// ArtificialInstance is a canonical singleton instead: Singleton holds
// its one shared namespace directly, with HeapID left zero.
type Instance struct {
	id     uuid.UUID
	Origin Kind
	Class  *Class

	HeapID    value.HeapID
	Singleton *value.Namespace
}

// NewHeapInstance constructs an AnalysisInstance or TypeshedInstance
// backed by a heap-resident namespace.
func NewHeapInstance(origin Kind, class *Class, heapID value.HeapID) *Instance {
	return &Instance{id: newID(), Origin: origin, Class: class, HeapID: heapID}
}

// NewSingletonInstance constructs the canonical ArtificialInstance of a
// built-in type, e.g. the abstract Int instance.
func NewSingletonInstance(class *Class) *Instance {
	return &Instance{id: newID(), Origin: ArtificialInstanceKind, Class: class, Singleton: value.NewNamespace()}
}

func (i *Instance) ID() uuid.UUID { return i.id }
func (i *Instance) Kind() Kind    { return i.Origin }
