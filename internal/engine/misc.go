package engine

import (
	"github.com/LayneInNL/dmf/internal/cfg"
	"github.com/LayneInNL/dmf/internal/object"
	"github.com/LayneInNL/dmf/internal/state"
	"github.com/LayneInNL/dmf/internal/value"
)

// execImport binds Dst to the module's namespace-as-a-class-like value
// via e.Modules (internal/typeshed's ingest stage), degrading to Any
// when no resolver is installed or the module path isn't found —
// matching spec §7's failure policy for an unresolvable import.
func (e *Engine) execImport(n cfg.ImportInstr, frame *state.Frame) {
	if e.Modules == nil {
		frame.SetLocal(string(n.Dst), value.Any())
		return
	}
	v, ok := e.Modules.ResolveModule(n.ModulePath)
	if !ok {
		frame.SetLocal(string(n.Dst), value.Any())
		return
	}
	frame.SetLocal(string(n.Dst), v.Clone())
}

func (e *Engine) execImportFrom(n cfg.ImportFromInstr, frame *state.Frame) {
	if e.Modules == nil {
		frame.SetLocal(string(n.Dst), value.Any())
		return
	}
	v, ok := e.Modules.ResolveFrom(n.ModulePath, n.Level, n.Name)
	if !ok {
		frame.SetLocal(string(n.Dst), value.Any())
		return
	}
	frame.SetLocal(string(n.Dst), v.Clone())
}

// execMakeFunc materializes a function value from a lowered def: an
// AnalysisFunction registered (idempotently, keyed by EntryLabel) with
// its default-argument values evaluated once, in the CURRENT frame, at
// def time.
func (e *Engine) execMakeFunc(n cfg.MakeFunc, frame *state.Frame) {
	fi, ok := e.Prog.Funcs[n.EntryLabel]
	if !ok {
		frame.SetLocal(string(n.Dst), value.New())
		return
	}

	fn, ok := e.Registry.Function(n.EntryLabel)
	if !ok {
		defaults := make([]*value.Value, len(fi.Params))
		for i, param := range fi.Params {
			if param.HasDefault {
				defaults[i] = e.read(frame, param.Default).Clone()
			}
		}
		fn = object.NewAnalysisFunction(fi.Name, fi.Entry, fi.Exit, defaults)
		e.Registry.DefineFunction(fn)
	}

	v := value.New()
	v.InjectFunc(fn.FuncID)
	frame.SetLocal(string(n.Dst), v)
}

// propertySite derives a heap identifier for a MakeProperty site,
// disjoint from both containerSite's range and attrs.SiteKey's
// typically-large-positive range.
func propertySite(label cfg.Label, idx int) value.HeapID {
	return -(5_000_000_000 + int(label)*1000 + idx)
}

// execMakeProperty builds or extends a property object from the
// fget/fset/fdel Vars an @property/@x.setter/@x.deleter normalization
// already populated in this block's locals. Extending means the Dst
// name was already bound to a property from an earlier MakeProperty in
// the same def sequence (the @x.setter form): the existing descriptor's
// slots are joined with whatever of FGet/FSet/FDel is newly provided
// here, rather than allocating a second property object.
func (e *Engine) execMakeProperty(n cfg.MakeProperty, frame *state.Frame, r *state.Resolver, label cfg.Label, idx int) {
	var prop *object.Property
	if existing, ok := frame.Get(string(n.Dst)); ok && !existing.IsAny() {
		for _, o := range r.Objects(existing) {
			if p, ok := o.(*object.Property); ok {
				prop = p
				break
			}
		}
	}

	site := propertySite(label, idx)
	if prop == nil {
		if existing, ok := e.Registry.Object(site); ok {
			if p, ok := existing.(*object.Property); ok {
				prop = p
			}
		}
	}
	if prop == nil {
		prop = object.NewProperty()
		e.Registry.Bind(site, prop)
	}

	if n.FGet != "" {
		prop.FGet.Join(e.read(frame, n.FGet))
	}
	if n.FSet != "" {
		prop.FSet.Join(e.read(frame, n.FSet))
	}
	if n.FDel != "" {
		prop.FDel.Join(e.read(frame, n.FDel))
	}

	v := value.New()
	v.InjectHeap(site)
	frame.SetLocal(string(n.Dst), v)
}
