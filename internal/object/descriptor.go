package object

import (
	"github.com/google/uuid"

	"github.com/LayneInNL/dmf/internal/value"
)

// Property models a `property` instance: the fget/fset/fdel functions
// registered by @property / @x.setter / @x.deleter, each a Value since
// the decorated name may resolve to more than one function under
// uncertainty.
type Property struct {
	id               uuid.UUID
	FGet, FSet, FDel *value.Value
}

// NewProperty constructs an empty property; FGet/FSet/FDel start as
// bottom values and are filled in as decorators are processed.
func NewProperty() *Property {
	return &Property{id: newID(), FGet: value.New(), FSet: value.New(), FDel: value.New()}
}

func (p *Property) ID() uuid.UUID { return p.id }
func (p *Property) Kind() Kind    { return PropertyKind }

// Classmethod models a `classmethod` wrapper: attribute access binds
// Func with the owning class (not the instance) as receiver.
type Classmethod struct {
	id   uuid.UUID
	Func *value.Value
}

func NewClassmethod(fn *value.Value) *Classmethod {
	return &Classmethod{id: newID(), Func: fn}
}

func (c *Classmethod) ID() uuid.UUID { return c.id }
func (c *Classmethod) Kind() Kind    { return ClassmethodKind }

// Staticmethod models a `staticmethod` wrapper: attribute access
// returns Func unbound.
type Staticmethod struct {
	id   uuid.UUID
	Func *value.Value
}

func NewStaticmethod(fn *value.Value) *Staticmethod {
	return &Staticmethod{id: newID(), Func: fn}
}

func (s *Staticmethod) ID() uuid.UUID { return s.id }
func (s *Staticmethod) Kind() Kind    { return StaticmethodKind }

// Super is the proxy a `super()` call produces: attribute reads skip to
// MRO[StartIndex:] of Instance's own class and bind discovered
// functions as methods of Instance, not of the proxy.
type Super struct {
	id         uuid.UUID
	Class      *Class
	Instance   Object
	StartIndex int
	MRO        []*Class
}

// NewSuper builds a super proxy. startIndex is conventionally
// 1+index_of(class) in instance's own MRO, so lookups begin just past
// the class super() was called from.
func NewSuper(class *Class, instance Object, mro []*Class, startIndex int) *Super {
	return &Super{id: newID(), Class: class, Instance: instance, MRO: mro, StartIndex: startIndex}
}

func (s *Super) ID() uuid.UUID { return s.id }
func (s *Super) Kind() Kind    { return SuperKind }

// DescriptorGetter is a pending descriptor invocation produced by
// attribute read when a class variable's type defines __get__ (or is a
// property's fget): the engine resolves it as an ordinary call on its
// next inter-procedural step.
type DescriptorGetter struct {
	id         uuid.UUID
	Func       *value.Value
	Descriptor *value.Value
	Instance   *value.Value
	Owner      *value.Value
}

func NewDescriptorGetter(fn, descriptor, instance, owner *value.Value) *DescriptorGetter {
	return &DescriptorGetter{id: newID(), Func: fn, Descriptor: descriptor, Instance: instance, Owner: owner}
}

func (d *DescriptorGetter) ID() uuid.UUID { return d.id }
func (d *DescriptorGetter) Kind() Kind    { return DescriptorGetterKind }

// DescriptorSetter mirrors DescriptorGetter for attribute write through
// a data descriptor's __set__ (or a property's fset).
type DescriptorSetter struct {
	id         uuid.UUID
	Func       *value.Value
	Descriptor *value.Value
	Instance   *value.Value
	Value      *value.Value
}

func NewDescriptorSetter(fn, descriptor, instance, val *value.Value) *DescriptorSetter {
	return &DescriptorSetter{id: newID(), Func: fn, Descriptor: descriptor, Instance: instance, Value: val}
}

func (d *DescriptorSetter) ID() uuid.UUID { return d.id }
func (d *DescriptorSetter) Kind() Kind    { return DescriptorSetterKind }
