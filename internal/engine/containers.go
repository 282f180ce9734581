package engine

import (
	"github.com/LayneInNL/dmf/internal/cfg"
	"github.com/LayneInNL/dmf/internal/config"
	"github.com/LayneInNL/dmf/internal/object"
	"github.com/LayneInNL/dmf/internal/state"
	"github.com/LayneInNL/dmf/internal/value"
)

// Reserved FuncIDs for the container bootstrap's native methods, outside
// the CFG label space (negative) so they can never collide with an
// AnalysisFunction's entry label.
const (
	containerIterFuncID value.FuncID = -1000 - iota
	containerNextFuncID
)

// containerClassID gives each built-in container kind a stable,
// negative ClassID (disjoint from any classdef's CFG label, which is
// always positive).
func containerClassID(k cfg.ContainerKind) value.ClassID {
	return -100 - int(k)
}

// bootstrapContainers registers the four literal container kinds as
// ArtificialClass objects with a minimal __iter__/__next__ protocol, so
// the for/comprehension desugaring's __iter__+__next__ calls (and a
// subscript's __getitem__) resolve to something concrete; no other
// package adds methods to these classes.
//
// __iter__ returns its receiver unchanged (needs no heap access, so it
// is exactly precise). __next__/__getitem__ return Any: NativeFn's
// signature is deliberately pure value-in/value-out with no Heap/Ctx
// access, so a precise "join of every element ever stored" result would
// require heap-aware dispatch the engine does not special-case for
// these bootstrap classes — see DESIGN.md. Elements ARE still recorded
// into the instance's own dict at construction time (execMakeContainer),
// where attribute reads on the instance see them, even though the
// iteration protocol itself does not consult them.
func (e *Engine) bootstrapContainers() {
	e.containerClasses = map[cfg.ContainerKind]*object.Class{}

	iterFn := object.NewArtificialFunction("__iter__", containerIterFuncID, func(args []*value.Value, kwargs map[string]*value.Value) (*value.Value, error) {
		if len(args) > 0 {
			return args[0].Clone(), nil
		}
		return value.New(), nil
	})
	nextFn := object.NewArtificialFunction("__next__", containerNextFuncID, func(args []*value.Value, kwargs map[string]*value.Value) (*value.Value, error) {
		return value.Any(), nil
	})
	e.Registry.DefineFunction(iterFn)
	e.Registry.DefineFunction(nextFn)

	iterVal, getVal := value.New(), value.New()
	iterVal.InjectFunc(iterFn.FuncID)
	getVal.InjectFunc(nextFn.FuncID)

	names := map[cfg.ContainerKind]string{
		cfg.ListKind:  "list",
		cfg.TupleKind: "tuple",
		cfg.SetKind:   "set",
		cfg.DictKind:  "dict",
	}
	for _, k := range []cfg.ContainerKind{cfg.ListKind, cfg.TupleKind, cfg.SetKind, cfg.DictKind} {
		cls := object.NewClass(names[k], object.ArtificialClassKind, containerClassID(k), nil)
		cls.Dict.Set(config.IterMethodName, iterVal)
		cls.Dict.Set(config.NextMethodName, getVal)
		cls.Dict.Set("__getitem__", getVal)
		cls.Dict.Set("__setitem__", value.New())
		e.Registry.DefineClass(cls)
		e.containerClasses[k] = cls
	}
}

// execMakeContainer allocates a heap instance of the literal's
// container class at this instruction's own site (label*container-slot,
// since MakeContainer is a plain Instr with no Label of its own — idx
// disambiguates multiple literals sharing one block) and records the
// (smashed-together) element/key/value contribution into its dict.
func (e *Engine) execMakeContainer(n cfg.MakeContainer, frame *state.Frame, r *state.Resolver, label cfg.Label, idx int) {
	site := containerSite(label, idx)
	cls := e.containerClasses[n.Kind]

	var inst *object.Instance
	if existing, ok := e.Registry.Object(site); ok {
		if ei, ok := existing.(*object.Instance); ok {
			inst = ei
		}
	}
	if inst == nil {
		inst = object.NewHeapInstance(object.AnalysisInstanceKind, cls, site)
		e.Registry.Bind(site, inst)
	}

	elem := value.New()
	for _, v := range n.Elems {
		elem.Join(e.read(frame, v))
	}
	key := value.New()
	for _, v := range n.Keys {
		key.Join(e.read(frame, v))
	}

	dict := r.ReadDict(site)
	if dict == nil {
		dict = value.NewNamespace()
	}
	mergeInto(dict, "$elem", elem)
	if n.Kind == cfg.DictKind {
		mergeInto(dict, "$key", key)
	}
	r.WriteDict(site, dict)

	instVal := value.New()
	instVal.InjectHeap(site)
	frame.SetLocal(string(n.Dst), instVal)
}

func mergeInto(ns *value.Namespace, name string, v *value.Value) {
	if v.IsBottom() {
		return
	}
	if prev, ok := ns.Get(name); ok {
		merged := prev.Clone()
		merged.Join(v)
		ns.Set(name, merged)
	} else {
		ns.Set(name, v.Clone())
	}
}

// containerSite derives a heap allocation site for one MakeContainer
// instruction. Negative, so it can never collide with a real (always
// positive) CFG label used as some other allocation site.
func containerSite(label cfg.Label, idx int) value.HeapID {
	return -(label*1000 + idx + 1)
}
