package engine

import (
	"github.com/LayneInNL/dmf/internal/cfg"
	"github.com/LayneInNL/dmf/internal/object"
	"github.com/LayneInNL/dmf/internal/state"
)

// execMakeClass runs a classdef's two-phase body: the class object is
// registered (if not already, from a prior visit to this exact
// classdef) up front so a method referencing its own class by name
// inside the body resolves, then the body is invoked exactly like a
// zero-argument call to its own Entry/Exit — a contClassBody
// continuation reads the body's final Locals as the Dict once it exits.
func (e *Engine) execMakeClass(t cfg.MakeClass, ws *state.State, r *state.Resolver, p point) {
	frame := ws.Stack.Top()
	bases, basesAny := e.resolveBases(t.Bases, frame, r)

	if _, ok := e.Registry.Class(t.ClassLabel); !ok {
		var cls *object.Class
		if basesAny {
			cls = object.NewBasesAnyClass(t.Name, object.AnalysisClassKind, t.ClassLabel)
		} else {
			cls = object.NewClass(t.Name, object.AnalysisClassKind, t.ClassLabel, bases)
		}
		e.Registry.DefineClass(cls)
	}

	fi, ok := e.Prog.Funcs[t.ClassLabel]
	if !ok {
		e.seed(t.Next, p.ctx, ws)
		return
	}

	bodyFrame := state.NewFrame(nil, e.globals, e.builtins)
	callerDepth := len(ws.Stack)
	bodyStack := ws.Stack.Push(bodyFrame)
	bodyState := &state.State{Stack: bodyStack, Heap: ws.Heap}

	calleeCtx := p.ctx.Extend(p.label, e.Config.ContextDepth)
	e.flows.Record(p.label, cfg.ClassdefKind, t.Name)
	e.seed(fi.Entry, calleeCtx, bodyState)
	e.registerContinuation(fi.Exit, calleeCtx, &continuation{
		Kind:        contClassBody,
		CallerLabel: p.label,
		CallerCtx:   p.ctx,
		Dst:         t.Dst,
		Next:        t.Next,
		StackDepth:  callerDepth,
		ClassLabel:  t.ClassLabel,
		ClassName:   t.Name,
		Bases:       bases,
	})
}

// resolveBases evaluates a classdef's base-expression Vars into the
// cartesian product of their candidate concrete classes. An Any base, a
// base resolving to no concrete class, or a combination count that would
// blow up (capped at 8) all collapse to basesAny — the same
// "unresolved bases" shape mro.LinearizeAll already handles via
// object.MROAny.
func (e *Engine) resolveBases(baseVars []cfg.Var, frame *state.Frame, r *state.Resolver) ([][]*object.Class, bool) {
	if len(baseVars) == 0 {
		return nil, false
	}
	perPos := make([][]*object.Class, len(baseVars))
	for i, bv := range baseVars {
		val := e.read(frame, bv)
		if val.IsAny() {
			return nil, true
		}
		for _, o := range r.Objects(val) {
			if c, ok := o.(*object.Class); ok {
				perPos[i] = append(perPos[i], c)
			}
		}
		if len(perPos[i]) == 0 {
			return nil, true
		}
	}

	combos := [][]*object.Class{{}}
	for _, candidates := range perPos {
		var next [][]*object.Class
		for _, combo := range combos {
			for _, c := range candidates {
				nc := make([]*object.Class, len(combo), len(combo)+1)
				copy(nc, combo)
				nc = append(nc, c)
				next = append(next, nc)
			}
		}
		combos = next
		if len(combos) > 8 {
			return nil, true
		}
	}
	return combos, false
}
