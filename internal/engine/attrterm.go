package engine

import (
	"github.com/LayneInNL/dmf/internal/attrs"
	"github.com/LayneInNL/dmf/internal/cfg"
	"github.com/LayneInNL/dmf/internal/object"
	"github.com/LayneInNL/dmf/internal/state"
	"github.com/LayneInNL/dmf/internal/value"
)

// execGetAttr joins the direct (non-descriptor) part of the attribute
// read into Dst synchronously, then — for any pending descriptor call
// attrs.GetAttr produced — invokes the descriptor's getter function,
// whose own result joins into the same Dst once its call converges
// (contGetter).
func (e *Engine) execGetAttr(t cfg.GetAttrTerm, ws *state.State, r *state.Resolver, p point) {
	frame := ws.Stack.Top()
	objVal := e.read(frame, t.Obj)
	site := p.label

	if objVal.IsAny() {
		e.joinDst(ws, t.Dst, value.Any())
		e.seed(t.Next, p.ctx, ws)
		return
	}

	res, descr := attrs.GetAttr(objVal, t.Name, site, r)
	e.joinDst(ws, t.Dst, res)

	if !descr.IsBottom() {
		for _, do := range r.Objects(descr) {
			if dg, ok := do.(*object.DescriptorGetter); ok {
				e.invokeDescriptorGetter(dg, ws, r, p, t.Dst, t.Next)
			}
		}
	}
	e.seed(t.Next, p.ctx, ws)
}

// execSetAttr mirrors execGetAttr for attribute write: a data descriptor
// found via SetAttr takes over the write entirely (its __set__/fset runs
// as an ordinary call, mutating state only through whatever it itself
// writes via the shared Heap — no value flows back to Dst).
func (e *Engine) execSetAttr(t cfg.SetAttrTerm, ws *state.State, r *state.Resolver, p point) {
	frame := ws.Stack.Top()
	objVal := e.read(frame, t.Obj)
	val := e.read(frame, t.Val)
	site := p.label

	if objVal.IsAny() {
		e.seed(t.Next, p.ctx, ws)
		return
	}

	descr := attrs.SetAttr(objVal, t.Name, val, site, r)
	if !descr.IsBottom() {
		for _, do := range r.Objects(descr) {
			if ds, ok := do.(*object.DescriptorSetter); ok {
				e.invokeDescriptorSetter(ds, ws, r, p, t.Next)
			}
		}
	}
	e.seed(t.Next, p.ctx, ws)
}

// invokeDescriptorGetter calls d.Func with the descriptor's recorded
// Instance as the sole argument — exactly property's fget(self) calling
// convention, and an approximation of the full three-argument
// descriptor protocol for a custom __get__ (see DESIGN.md).
func (e *Engine) invokeDescriptorGetter(d *object.DescriptorGetter, ws *state.State, r *state.Resolver, p point, dst cfg.Var, next cfg.Label) {
	for _, fo := range r.Objects(d.Func) {
		fn, ok := fo.(*object.Function)
		if !ok {
			continue
		}
		args := []*value.Value{d.Instance}

		if fn.Origin == object.ArtificialFunctionKind {
			if fn.Native == nil {
				continue
			}
			result, err := fn.Native(args, nil)
			if err != nil || result == nil {
				continue
			}
			e.joinDst(ws, dst, result)
			continue
		}

		fi, ok := e.Prog.Funcs[fn.EntryLabel]
		if !ok {
			continue
		}
		calleeCtx := p.ctx.Extend(p.label, e.Config.ContextDepth)
		locals := bindParams(fi, args, nil, fn.Defaults)
		calleeFrame := state.NewFrame(nil, e.globals, e.builtins)
		calleeFrame.Locals = locals

		callerDepth := len(ws.Stack)
		calleeStack := ws.Stack.Push(calleeFrame)
		calleeState := &state.State{Stack: calleeStack, Heap: ws.Heap}

		e.seed(fi.Entry, calleeCtx, calleeState)
		e.registerContinuation(fi.Exit, calleeCtx, &continuation{
			Kind:        contGetter,
			CallerLabel: p.label,
			CallerCtx:   p.ctx,
			Dst:         dst,
			Next:        next,
			StackDepth:  callerDepth,
		})
	}
}

// invokeDescriptorSetter calls d.Func with (Instance, Value) — property's
// fset(self, value) calling convention.
func (e *Engine) invokeDescriptorSetter(d *object.DescriptorSetter, ws *state.State, r *state.Resolver, p point, next cfg.Label) {
	for _, fo := range r.Objects(d.Func) {
		fn, ok := fo.(*object.Function)
		if !ok {
			continue
		}
		args := []*value.Value{d.Instance, d.Value}

		if fn.Origin == object.ArtificialFunctionKind {
			if fn.Native != nil {
				fn.Native(args, nil)
			}
			continue
		}

		fi, ok := e.Prog.Funcs[fn.EntryLabel]
		if !ok {
			continue
		}
		calleeCtx := p.ctx.Extend(p.label, e.Config.ContextDepth)
		locals := bindParams(fi, args, nil, fn.Defaults)
		calleeFrame := state.NewFrame(nil, e.globals, e.builtins)
		calleeFrame.Locals = locals

		callerDepth := len(ws.Stack)
		calleeStack := ws.Stack.Push(calleeFrame)
		calleeState := &state.State{Stack: calleeStack, Heap: ws.Heap}

		e.seed(fi.Entry, calleeCtx, calleeState)
		e.registerContinuation(fi.Exit, calleeCtx, &continuation{
			Kind:        contSetter,
			CallerLabel: p.label,
			CallerCtx:   p.ctx,
			Next:        next,
			StackDepth:  callerDepth,
		})
	}
}
