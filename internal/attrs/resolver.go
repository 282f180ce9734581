// Package attrs implements the generic attribute read/write protocol
// shared by instances, classes, and super proxies: MRO lookup of class
// variables, implicit method binding, and descriptor dispatch
// (property, classmethod, staticmethod, and the generic __get__/__set__
// fallback).
package attrs

import (
	"hash/fnv"

	"github.com/LayneInNL/dmf/internal/object"
	"github.com/LayneInNL/dmf/internal/value"
)

// Resolver is the engine-provided bridge from abstract value components
// back to concrete objects: Objects turns a Value's heap/function
// identifiers into the Object they denote, ReadDict/WriteDict access an
// instance's heap-resident namespace, and Bind registers a freshly
// minted method or descriptor-call record under a synthetic heap
// identifier so later steps can resolve it the same way.
type Resolver interface {
	Objects(v *value.Value) []object.Object
	ReadDict(heapID value.HeapID) *value.Namespace
	WriteDict(heapID value.HeapID, ns *value.Namespace)
	Bind(heapID value.HeapID, obj object.Object)
}

// SiteKey derives a deterministic synthetic heap identifier for an
// object minted while resolving an attribute access at CFG label site
// against some discriminant (typically identityHash of the underlying
// function or descriptor). Determinism matters for the fixed point:
// the same (site, discriminant) must always produce the same
// identifier, so revisiting the same program point converges onto the
// same bound-method/descriptor object instead of minting a fresh one
// every iteration.
func SiteKey(site value.HeapID, discriminant int) value.HeapID {
	return site*1000003 + discriminant
}

func identityHash(o object.Object) int {
	h := fnv.New32a()
	id := o.ID()
	h.Write(id[:])
	return int(h.Sum32())
}

func bind(r Resolver, site value.HeapID, disc object.Object, obj object.Object) *value.Value {
	key := SiteKey(site, identityHash(disc))
	r.Bind(key, obj)
	v := value.New()
	v.InjectHeap(key)
	return v
}
