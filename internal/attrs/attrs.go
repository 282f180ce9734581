package attrs

import (
	"github.com/LayneInNL/dmf/internal/mro"
	"github.com/LayneInNL/dmf/internal/object"
	"github.com/LayneInNL/dmf/internal/value"
)

// findInMRO walks every candidate MRO of c looking for name, joining
// the result across candidates: one MRO branch may bind name at a
// different class than another when bases were themselves uncertain.
// Each branch stops at the first class binding name; reaching
// object.MROAny before such a class makes that branch's contribution Any.
func findInMRO(c *object.Class, name string) *value.Value {
	result := value.New()
	for _, candidate := range mro.LinearizeAll(c) {
		for _, cls := range candidate {
			if cls == object.MROAny {
				result.Join(value.Any())
				break
			}
			if v, ok := cls.Dict.Get(name); ok {
				result.Join(v)
				break
			}
			if cls.Fallback != nil {
				if v, ok := cls.Fallback.Dict.Get(name); ok {
					result.Join(v)
					break
				}
			}
		}
	}
	return result
}

func instanceDict(inst *object.Instance, r Resolver) *value.Namespace {
	if inst.Singleton != nil {
		return inst.Singleton
	}
	return r.ReadDict(inst.HeapID)
}

func writeInstanceDict(inst *object.Instance, r Resolver, ns *value.Namespace) {
	if inst.Singleton != nil {
		inst.Singleton = ns
		return
	}
	r.WriteDict(inst.HeapID, ns)
}

// GetAttr reads name off every concrete object objs denotes, joining
// (direct-result, pending-descriptor-call) pairs across all of them.
// site is the CFG label of the attribute-access expression, used to
// deterministically mint any freshly-bound method/descriptor object.
func GetAttr(objs *value.Value, name string, site value.HeapID, r Resolver) (res, descr *value.Value) {
	if objs.IsAny() {
		return value.Any(), value.Any()
	}
	res, descr = value.New(), value.New()
	for _, o := range r.Objects(objs) {
		rv, dv := getAttrOne(o, name, site, r)
		res.Join(rv)
		descr.Join(dv)
	}
	return res, descr
}

func getAttrOne(o object.Object, name string, site value.HeapID, r Resolver) (*value.Value, *value.Value) {
	switch t := o.(type) {
	case *object.Instance:
		return genericGetAttr(t, name, site, r)
	case *object.Class:
		return typeGetAttr(t, name, site, r)
	case *object.Super:
		return superGetAttr(t, name, site, r)
	case *object.Module:
		res := value.New()
		if v, ok := t.Dict.Get(name); ok {
			res.Join(v)
		}
		return res, value.New()
	default:
		// Functions and already-bound methods carry no settable
		// attribute protocol modeled here.
		return value.New(), value.New()
	}
}

// resolveClassVar walks v one identifier at a time — rather than the
// collapsed object list r.Objects(v) would give, which loses which
// component each object came from — so handle can be asked per
// identifier whether it fully accounted for that piece of v. Whatever
// handle leaves unclaimed (a plain class variable, a nested class
// reference, or v's own Any/primitive component) comes back as a
// pass-through value for the caller to join into its result: a class
// variable the switch in genericGetAttr/typeGetAttr doesn't specially
// bind or unwrap is otherwise just an ordinary attribute value.
func resolveClassVar(v *value.Value, r Resolver, handle func(object.Object) bool) *value.Value {
	if v.IsAny() {
		return value.Any()
	}
	passthrough := value.New()
	if p := v.PrimTags(); p != 0 {
		passthrough.InjectPrim(p)
	}
	for _, hid := range v.HeapIDs() {
		single := value.New()
		single.InjectHeap(hid)
		if !anyClaimed(r.Objects(single), handle) {
			passthrough.InjectHeap(hid)
		}
	}
	for _, fid := range v.FuncIDs() {
		single := value.New()
		single.InjectFunc(fid)
		if !anyClaimed(r.Objects(single), handle) {
			passthrough.InjectFunc(fid)
		}
	}
	for cid, ns := range v.Classes() {
		single := value.New()
		single.InjectClass(cid, ns)
		if !anyClaimed(r.Objects(single), handle) {
			passthrough.InjectClass(cid, ns)
		}
	}
	return passthrough
}

func anyClaimed(objs []object.Object, handle func(object.Object) bool) bool {
	claimed := false
	for _, o := range objs {
		if handle(o) {
			claimed = true
		}
	}
	return claimed
}

// genericGetAttr implements instance attribute read: MRO class
// variables are consulted for method binding / descriptor dispatch,
// then the instance's own dict, per §4.2's GenericGetAttr contract.
func genericGetAttr(inst *object.Instance, name string, site value.HeapID, r Resolver) (*value.Value, *value.Value) {
	res, descr := value.New(), value.New()

	classVars := findInMRO(inst.Class, name)
	res.Join(resolveClassVar(classVars, r, func(cv object.Object) bool {
		switch d := cv.(type) {
		case *object.Function:
			res.Join(bind(r, site, d, object.NewMethod(d, inst)))
			return true
		case *object.Property:
			for _, fgetObj := range r.Objects(d.FGet) {
				if fn, ok := fgetObj.(*object.Function); ok {
					instVal := value.New()
					instVal.InjectHeap(identityHeapOf(inst, r))
					descr.Join(bind(r, site, fn, object.NewDescriptorGetter(funcValue(fn, r), descriptorValue(d, r), instVal, classValue(inst.Class, r))))
				}
			}
			return true
		case *object.Classmethod:
			for _, fnObj := range r.Objects(d.Func) {
				if fn, ok := fnObj.(*object.Function); ok {
					res.Join(bind(r, site, fn, object.NewMethod(fn, inst.Class)))
				}
			}
			return true
		case *object.Staticmethod:
			res.Join(d.Func)
			return true
		default:
			// Generic __get__ fallback: consult the class variable's own
			// type for a __get__ method and, if found, emit a descriptor
			// call record the same way a property's fget is emitted.
			cvClass := classOf(cv)
			if cvClass == nil {
				return false
			}
			gets := findInMRO(cvClass, "__get__")
			handled := false
			for _, getObj := range r.Objects(gets) {
				if fn, ok := getObj.(*object.Function); ok {
					descrVal := value.New()
					if hid, ok := heapIDOf(cv); ok {
						descrVal.InjectHeap(hid)
					}
					instVal := value.New()
					instVal.InjectHeap(identityHeapOf(inst, r))
					descr.Join(bind(r, site, fn, object.NewDescriptorGetter(funcValue(fn, r), descrVal, instVal, classValue(inst.Class, r))))
					handled = true
				}
			}
			return handled
		}
	}))

	if dict := instanceDict(inst, r); dict != nil {
		if v, ok := dict.Get(name); ok {
			res.Join(v)
		}
	}
	return res, descr
}

// typeGetAttr implements class-level attribute read (type_getattro):
// classmethod binds to the class itself, staticmethod unwraps, property
// instances are returned as themselves (class-level access does not
// invoke fget), everything else falls back to the generic __get__
// lookup with instance=None.
func typeGetAttr(c *object.Class, name string, site value.HeapID, r Resolver) (*value.Value, *value.Value) {
	res, descr := value.New(), value.New()

	classVars := findInMRO(c, name)
	res.Join(resolveClassVar(classVars, r, func(cv object.Object) bool {
		switch d := cv.(type) {
		case *object.Function:
			res.Join(funcValue(d, r))
			return true
		case *object.Classmethod:
			for _, fnObj := range r.Objects(d.Func) {
				if fn, ok := fnObj.(*object.Function); ok {
					res.Join(bind(r, site, fn, object.NewMethod(fn, c)))
				}
			}
			return true
		case *object.Staticmethod:
			res.Join(d.Func)
			return true
		default:
			// A property is not special-cased here: class-level access
			// to a property does not invoke fget, it returns the
			// property object itself, so it is left for the
			// pass-through path below exactly like a plain class
			// variable.
			cvClass := classOf(cv)
			if cvClass == nil {
				return false
			}
			gets := findInMRO(cvClass, "__get__")
			handled := false
			for _, getObj := range r.Objects(gets) {
				if fn, ok := getObj.(*object.Function); ok {
					descrVal := value.New()
					if hid, ok := heapIDOf(cv); ok {
						descrVal.InjectHeap(hid)
					}
					descr.Join(bind(r, site, fn, object.NewDescriptorGetter(funcValue(fn, r), descrVal, value.New(), classValue(c, r))))
					handled = true
				}
			}
			return handled
		}
	}))

	// c.Dict is not consulted separately: findInMRO already visits c
	// itself first in its own MRO, so classVars already carries
	// whatever c.Dict.Get(name) would.
	return res, descr
}

// superGetAttr skips to the instance's real class's MRO starting at
// StartIndex and binds any found function as a method of the original
// instance, not of the proxy.
func superGetAttr(s *object.Super, name string, site value.HeapID, r Resolver) (*value.Value, *value.Value) {
	res := value.New()
	for i := s.StartIndex; i < len(s.MRO); i++ {
		cls := s.MRO[i]
		if cls == object.MROAny {
			return value.Any(), value.Any()
		}
		v, ok := cls.Dict.Get(name)
		if !ok {
			continue
		}
		for _, cv := range r.Objects(v) {
			if fn, ok := cv.(*object.Function); ok {
				res.Join(bind(r, site, fn, object.NewMethod(fn, s.Instance)))
			} else {
				res.Join(v)
			}
		}
		break
	}
	return res, value.New()
}

// SetAttr mirrors GetAttr: a data descriptor found via the MRO emits a
// pending AnalysisDescriptorSetter; otherwise val is joined directly
// into the instance's own dict.
func SetAttr(objs *value.Value, name string, val *value.Value, site value.HeapID, r Resolver) *value.Value {
	if objs.IsAny() {
		return value.Any()
	}
	descr := value.New()
	for _, o := range r.Objects(objs) {
		inst, ok := o.(*object.Instance)
		if !ok {
			continue
		}
		descr.Join(genericSetAttr(inst, name, val, site, r))
	}
	return descr
}

func genericSetAttr(inst *object.Instance, name string, val *value.Value, site value.HeapID, r Resolver) *value.Value {
	descr := value.New()
	dataDescriptor := false

	classVars := findInMRO(inst.Class, name)
	for _, cv := range r.Objects(classVars) {
		switch d := cv.(type) {
		case *object.Property:
			dataDescriptor = true
			for _, fsetObj := range r.Objects(d.FSet) {
				if fn, ok := fsetObj.(*object.Function); ok {
					instVal := value.New()
					instVal.InjectHeap(identityHeapOf(inst, r))
					descr.Join(bind(r, site, fn, object.NewDescriptorSetter(funcValue(fn, r), descriptorValue(d, r), instVal, val)))
				}
			}
		default:
			if cvClass := classOf(cv); cvClass != nil {
				sets := findInMRO(cvClass, "__set__")
				for _, setObj := range r.Objects(sets) {
					if fn, ok := setObj.(*object.Function); ok {
						dataDescriptor = true
						descrVal := value.New()
						if hid, ok := heapIDOf(cv); ok {
							descrVal.InjectHeap(hid)
						}
						instVal := value.New()
						instVal.InjectHeap(identityHeapOf(inst, r))
						descr.Join(bind(r, site, fn, object.NewDescriptorSetter(funcValue(fn, r), descrVal, instVal, val)))
					}
				}
			}
		}
	}

	// A data descriptor (property, or a class variable whose type
	// defines __set__) takes over the write entirely; the instance's
	// own dict is only touched when no data descriptor claimed it.
	if dataDescriptor {
		return descr
	}

	dict := instanceDict(inst, r)
	if dict == nil {
		dict = value.NewNamespace()
	}
	if prev, ok := dict.Get(name); ok {
		merged := prev.Clone()
		merged.Join(val)
		dict.Set(name, merged)
	} else {
		dict.Set(name, val.Clone())
	}
	writeInstanceDict(inst, r, dict)

	return descr
}

func classOf(o object.Object) *object.Class {
	switch t := o.(type) {
	case *object.Instance:
		return t.Class
	default:
		return nil
	}
}

func heapIDOf(o object.Object) (value.HeapID, bool) {
	if inst, ok := o.(*object.Instance); ok && inst.Singleton == nil {
		return inst.HeapID, true
	}
	return 0, false
}

// identityHeapOf returns a stable heap identifier standing in for inst
// in freshly-built descriptor-record values: its own HeapID for a
// heap-resident instance, or a synthetic one derived from its identity
// for a canonical singleton (which has none).
func identityHeapOf(inst *object.Instance, r Resolver) value.HeapID {
	if inst.Singleton == nil {
		return inst.HeapID
	}
	return SiteKey(0, identityHash(inst))
}

func funcValue(fn *object.Function, r Resolver) *value.Value {
	v := value.New()
	v.InjectFunc(fn.FuncID)
	return v
}

func classValue(c *object.Class, r Resolver) *value.Value {
	v := value.New()
	v.InjectClass(c.ClassID, c.Dict)
	return v
}

func descriptorValue(d *object.Property, r Resolver) *value.Value {
	v := value.New()
	v.InjectHeap(SiteKey(0, identityHash(d)))
	return v
}
