package object

import (
	"github.com/google/uuid"

	"github.com/LayneInNL/dmf/internal/value"
)

// MROAny is the tail sentinel standing in for an unknown rest-of-MRO: a
// class whose own bases could not be resolved to any concrete set.
// Lookups walking into it must return Any rather than keep iterating.
var MROAny = &Class{Name: "<mro-any>"}

// Class models a class object: AnalysisClass (user-defined),
// ArtificialClass (host-modeled builtin), or TypeshedClass (stub-
// declared). Bases is a list of candidate concrete base-lists — a base
// expression evaluating to several possible classes under different
// paths multiplies out into one candidate per combination; BasesAny
// collapses all of that uncertainty into the single MRO [self, MROAny].
// ClassID is the class identifier a Value's class component keys on:
// the classdef's CFG label for an AnalysisClass, or a registry-assigned
// stable id (outside the CFG label space) otherwise.
type Class struct {
	id      uuid.UUID
	Origin  Kind
	Name    string
	ClassID value.ClassID

	Bases    [][]*Class
	BasesAny bool

	Dict *value.Namespace

	// Fallback is consulted by attribute lookup when name is absent from
	// Dict, used by typeshed classes whose stub re-exports another
	// class's members (tp_fallback in the model this is grounded on).
	Fallback *Class

	mro [][]*Class // cached by mro.LinearizeAll via SetMRO; nil until computed
}

// NewClass constructs a class with the given origin kind and base-list
// candidates. Use NewBasesAnyClass when the bases themselves are
// unresolved.
func NewClass(name string, origin Kind, classID value.ClassID, bases [][]*Class) *Class {
	return &Class{id: newID(), Origin: origin, Name: name, ClassID: classID, Bases: bases, Dict: value.NewNamespace()}
}

// NewBasesAnyClass constructs a class whose bases could not be resolved
// at all.
func NewBasesAnyClass(name string, origin Kind, classID value.ClassID) *Class {
	return &Class{id: newID(), Origin: origin, Name: name, ClassID: classID, BasesAny: true, Dict: value.NewNamespace()}
}

func (c *Class) ID() uuid.UUID { return c.id }
func (c *Class) Kind() Kind    { return c.Origin }

// MRO returns the cached linearization set by SetMRO, or nil if it has
// not been computed yet (mro.LinearizeAll computes it lazily on first
// attribute lookup that needs it).
func (c *Class) MRO() [][]*Class { return c.mro }

// SetMRO caches a computed linearization. Called by internal/mro, kept
// as a plain setter here so this package never imports internal/mro.
func (c *Class) SetMRO(mro [][]*Class) { c.mro = mro }
