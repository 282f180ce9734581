// Package value implements the abstract value lattice: the join of a set
// of heap-object identifiers, a set of primitive type tags, a set of
// function identifiers, and a mapping from class identifiers to their
// namespaces, plus the Any top element that subsumes every other shape.
package value

import (
	"fmt"
	"strings"

	"golang.org/x/tools/container/intsets"
)

// HeapID identifies an allocation site (a CFG label) whose instances a
// Value may abstractly denote.
type HeapID = int

// FuncID identifies the allocation site of a function definition.
type FuncID = int

// ClassID identifies the allocation site of a class definition.
type ClassID = int

// PrimTag is a bitmask over the primitive type tags {None, Bool, Num,
// Str, Bytes}; a Value may carry any subset of them at once.
type PrimTag uint8

const (
	NoneTag PrimTag = 1 << iota
	BoolTag
	NumTag
	StrTag
	BytesTag
)

func (t PrimTag) String() string {
	names := []struct {
		tag  PrimTag
		name string
	}{
		{NoneTag, "None"}, {BoolTag, "Bool"}, {NumTag, "Num"}, {StrTag, "Str"}, {BytesTag, "Bytes"},
	}
	var parts []string
	for _, n := range names {
		if t&n.tag != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "|")
}

// Value is the abstract value lattice element described by the data
// model: a join of heap identifiers, primitive tags, function
// identifiers, and class identifiers each paired with a namespace,
// plus the Any top. The zero Value is bottom.
type Value struct {
	any bool

	heapIDs intsets.Sparse
	prims   PrimTag
	funcIDs intsets.Sparse
	classes map[ClassID]*Namespace
}

// New returns the bottom value (denotes nothing).
func New() *Value {
	return &Value{}
}

// Any returns the top value, subsuming every other shape.
func Any() *Value {
	return &Value{any: true}
}

// IsAny reports whether v is the top element.
func (v *Value) IsAny() bool { return v.any }

// IsBottom reports whether v denotes nothing.
func (v *Value) IsBottom() bool {
	return !v.any && v.heapIDs.IsEmpty() && v.prims == 0 && v.funcIDs.IsEmpty() && len(v.classes) == 0
}

// InjectHeap adds a heap-object identifier to v.
func (v *Value) InjectHeap(id HeapID) {
	if v.any {
		return
	}
	v.heapIDs.Insert(id)
}

// InjectPrim adds one or more primitive type tags to v.
func (v *Value) InjectPrim(tag PrimTag) {
	if v.any {
		return
	}
	v.prims |= tag
}

// InjectFunc adds a function identifier to v.
func (v *Value) InjectFunc(id FuncID) {
	if v.any {
		return
	}
	v.funcIDs.Insert(id)
}

// InjectClass merges ns into the namespace tracked for class id,
// cloning ns on first insertion so the caller's copy stays independent.
func (v *Value) InjectClass(id ClassID, ns *Namespace) {
	if v.any {
		return
	}
	if v.classes == nil {
		v.classes = map[ClassID]*Namespace{}
	}
	if existing, ok := v.classes[id]; ok {
		existing.Join(ns)
		return
	}
	v.classes[id] = ns.Clone()
}

// HeapIDs returns the heap identifiers v denotes.
func (v *Value) HeapIDs() []HeapID {
	return v.heapIDs.AppendTo(nil)
}

// HasPrim reports whether v carries tag, or is Any.
func (v *Value) HasPrim(tag PrimTag) bool {
	return v.any || v.prims&tag != 0
}

// PrimTags returns the primitive tags v carries directly (empty for Any).
func (v *Value) PrimTags() PrimTag { return v.prims }

// FuncIDs returns the function identifiers v denotes.
func (v *Value) FuncIDs() []FuncID {
	return v.funcIDs.AppendTo(nil)
}

// Classes returns the class-identifier -> namespace mapping v carries.
// The caller must not mutate the returned namespaces.
func (v *Value) Classes() map[ClassID]*Namespace { return v.classes }

// ClassNamespace returns the namespace tracked for a single class id.
func (v *Value) ClassNamespace(id ClassID) (*Namespace, bool) {
	ns, ok := v.classes[id]
	return ns, ok
}

// Subset reports whether v ⊑ other.
func (v *Value) Subset(other *Value) bool {
	if other.any {
		return true
	}
	if v.any {
		return false
	}
	if !v.heapIDs.SubsetOf(&other.heapIDs) {
		return false
	}
	if v.prims & ^other.prims != 0 {
		return false
	}
	if !v.funcIDs.SubsetOf(&other.funcIDs) {
		return false
	}
	for id, ns := range v.classes {
		ons, ok := other.classes[id]
		if !ok || !ns.Subset(ons) {
			return false
		}
	}
	return true
}

// Join mutates v in place into v ⊔ other.
func (v *Value) Join(other *Value) {
	if v.any {
		return
	}
	if other.any {
		v.becomeAny()
		return
	}
	v.heapIDs.UnionWith(&other.heapIDs)
	v.prims |= other.prims
	v.funcIDs.UnionWith(&other.funcIDs)
	for id, ns := range other.classes {
		v.InjectClass(id, ns)
	}
}

func (v *Value) becomeAny() {
	v.any = true
	v.heapIDs = intsets.Sparse{}
	v.funcIDs = intsets.Sparse{}
	v.prims = 0
	v.classes = nil
}

// Clone returns an independent deep copy of v.
func (v *Value) Clone() *Value {
	if v.any {
		return Any()
	}
	cp := &Value{prims: v.prims}
	cp.heapIDs.Copy(&v.heapIDs)
	cp.funcIDs.Copy(&v.funcIDs)
	if len(v.classes) > 0 {
		cp.classes = make(map[ClassID]*Namespace, len(v.classes))
		for id, ns := range v.classes {
			cp.classes[id] = ns.Clone()
		}
	}
	return cp
}

// Or returns a ⊔ b without mutating either argument.
func Or(a, b *Value) *Value {
	cp := a.Clone()
	cp.Join(b)
	return cp
}

func (v *Value) String() string {
	if v.any {
		return "Any"
	}
	if v.IsBottom() {
		return "Bottom"
	}
	var parts []string
	if !v.heapIDs.IsEmpty() {
		parts = append(parts, fmt.Sprintf("heap%v", v.heapIDs.AppendTo(nil)))
	}
	if v.prims != 0 {
		parts = append(parts, v.prims.String())
	}
	if !v.funcIDs.IsEmpty() {
		parts = append(parts, fmt.Sprintf("func%v", v.funcIDs.AppendTo(nil)))
	}
	for id := range v.classes {
		parts = append(parts, fmt.Sprintf("class#%d", id))
	}
	return strings.Join(parts, " | ")
}
