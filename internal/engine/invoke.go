package engine

import (
	"github.com/LayneInNL/dmf/internal/attrs"
	"github.com/LayneInNL/dmf/internal/cfg"
	"github.com/LayneInNL/dmf/internal/config"
	"github.com/LayneInNL/dmf/internal/object"
	"github.com/LayneInNL/dmf/internal/state"
	"github.com/LayneInNL/dmf/internal/value"
)

// execInvoke dispatches the unified call primitive over whatever
// concrete objects the callee Value resolves to: native functions
// complete synchronously, analysis functions/methods push a callee
// frame and register a contCall continuation, and a resolved class
// allocates an instance and routes through its __init__ (contSpecialInit).
func (e *Engine) execInvoke(t cfg.Invoke, ws *state.State, r *state.Resolver, p point) {
	frame := ws.Stack.Top()
	calleeVal := e.read(frame, t.Callee)
	args, kwargs := e.resolveArgs(frame, t.Args, t.Kwargs)

	if calleeVal.IsAny() {
		e.joinDst(ws, t.Dst, value.Any())
		e.flows.Record(p.label, t.Kind, "<any>")
		e.seed(t.Next, p.ctx, ws)
		return
	}

	objs := r.Objects(calleeVal)
	if len(objs) == 0 {
		// Nothing concrete resolved (e.g. a name that was never actually
		// bound along this path) — degrade to a synchronous no-op rather
		// than stall the continuation forever.
		e.seed(t.Next, p.ctx, ws)
		return
	}

	for _, o := range objs {
		switch callee := o.(type) {
		case *object.Function:
			e.invokeFunction(callee, nil, args, kwargs, ws, r, p, t)
		case *object.Method:
			e.invokeFunction(callee.Func, callee.Receiver, args, kwargs, ws, r, p, t)
		case *object.Class:
			e.invokeClass(callee, args, kwargs, ws, r, p, t)
		default:
			// Not callable under this model (e.g. a plain instance with
			// no __call__ modeled) — contributes nothing to Dst.
		}
	}
}

// resolveArgs reads Args/Kwargs Vars out of the caller's frame.
func (e *Engine) resolveArgs(frame *state.Frame, argVars []cfg.Var, kwargVars map[string]cfg.Var) ([]*value.Value, map[string]*value.Value) {
	args := make([]*value.Value, len(argVars))
	for i, v := range argVars {
		args[i] = e.read(frame, v)
	}
	var kwargs map[string]*value.Value
	if len(kwargVars) > 0 {
		kwargs = make(map[string]*value.Value, len(kwargVars))
		for name, v := range kwargVars {
			kwargs[name] = e.read(frame, v)
		}
	}
	return args, kwargs
}

func (e *Engine) joinDst(ws *state.State, dst cfg.Var, v *value.Value) {
	if dst == "" {
		return
	}
	frame := ws.Stack.Top()
	prev, ok := frame.Get(string(dst))
	joined := v.Clone()
	if ok {
		joined.Join(prev)
	}
	frame.SetLocal(string(dst), joined)
}

// invokeFunction handles both an ArtificialFunction (synchronous native
// call) and an AnalysisFunction/Method (stack push + continuation).
// receiver, when non-nil, is prepended as the implicit first positional
// argument (self/cls), matching ordinary Python method binding.
func (e *Engine) invokeFunction(fn *object.Function, receiver object.Object, args []*value.Value, kwargs map[string]*value.Value, ws *state.State, r *state.Resolver, p point, t cfg.Invoke) {
	if receiver != nil {
		bound := make([]*value.Value, 0, len(args)+1)
		recvVal := value.New()
		if hid, ok := heapIDOfObject(receiver); ok {
			recvVal.InjectHeap(hid)
		} else if cls, ok := receiver.(*object.Class); ok {
			recvVal.InjectClass(cls.ClassID, cls.Dict)
		}
		bound = append(bound, recvVal)
		bound = append(bound, args...)
		args = bound
	}

	if fn.Origin == object.ArtificialFunctionKind {
		if fn.Native == nil {
			e.seed(t.Next, p.ctx, ws)
			return
		}
		result, err := fn.Native(args, kwargs)
		if err != nil {
			e.seed(t.Next, p.ctx, ws)
			return
		}
		if result == nil {
			result = value.New()
		}
		e.joinDst(ws, t.Dst, result)
		e.seed(t.Next, p.ctx, ws)
		return
	}

	fi, ok := e.Prog.Funcs[fn.EntryLabel]
	if !ok {
		e.seed(t.Next, p.ctx, ws)
		return
	}

	calleeCtx := p.ctx.Extend(p.label, e.Config.ContextDepth)
	locals := bindParams(fi, args, kwargs, fn.Defaults)
	calleeFrame := state.NewFrame(nil, e.globals, e.builtins)
	calleeFrame.Locals = locals

	callerDepth := len(ws.Stack)
	calleeStack := ws.Stack.Push(calleeFrame)
	calleeState := &state.State{Stack: calleeStack, Heap: ws.Heap}

	e.flows.Record(p.label, t.Kind, fi.Name)
	e.seed(fi.Entry, calleeCtx, calleeState)
	e.registerContinuation(fi.Exit, calleeCtx, &continuation{
		Kind:        contCall,
		CallerLabel: p.label,
		CallerCtx:   p.ctx,
		Dst:         t.Dst,
		Next:        t.Next,
		StackDepth:  callerDepth,
	})
}

// invokeClass allocates an instance at the call site, routes it through
// __init__ if one resolves, and otherwise joins the bare instance into
// Dst immediately.
func (e *Engine) invokeClass(cls *object.Class, args []*value.Value, kwargs map[string]*value.Value, ws *state.State, r *state.Resolver, p point, t cfg.Invoke) {
	site := p.label
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

	instVal := value.New()
	instVal.InjectHeap(site)

	// Resolved off the instance (not the class) so a found __init__ auto-
	// binds as a Method via genericGetAttr's Function case, mirroring
	// ordinary attribute-driven method dispatch rather than a special-cased
	// constructor lookup.
	initVal, _ := attrs.GetAttr(instVal, config.InitMethodName, site, r)
	initFns := objectsCallable(r, initVal)
	if len(initFns) == 0 {
		e.joinDst(ws, t.Dst, instVal)
		e.seed(t.Next, p.ctx, ws)
		return
	}

	for _, io := range initFns {
		switch init := io.(type) {
		case *object.Function:
			e.invokeSpecialInit(init, instVal, args, kwargs, ws, r, p, t)
		case *object.Method:
			e.invokeSpecialInit(init.Func, instVal, args, kwargs, ws, r, p, t)
		}
	}
}

func objectsCallable(r *state.Resolver, v *value.Value) []object.Object {
	if v.IsAny() {
		return nil
	}
	return r.Objects(v)
}

// invokeSpecialInit mirrors invokeFunction's analysis-function path but
// registers a contSpecialInit continuation that substitutes the
// precomputed instance value for __init__'s own (irrelevant) return.
func (e *Engine) invokeSpecialInit(fn *object.Function, instVal *value.Value, args []*value.Value, kwargs map[string]*value.Value, ws *state.State, r *state.Resolver, p point, t cfg.Invoke) {
	bound := make([]*value.Value, 0, len(args)+1)
	bound = append(bound, instVal)
	bound = append(bound, args...)

	if fn.Origin == object.ArtificialFunctionKind {
		if fn.Native != nil {
			fn.Native(bound, kwargs)
		}
		e.joinDst(ws, t.Dst, instVal)
		e.seed(t.Next, p.ctx, ws)
		return
	}

	fi, ok := e.Prog.Funcs[fn.EntryLabel]
	if !ok {
		e.joinDst(ws, t.Dst, instVal)
		e.seed(t.Next, p.ctx, ws)
		return
	}

	calleeCtx := p.ctx.Extend(p.label, e.Config.ContextDepth)
	locals := bindParams(fi, bound, kwargs, fn.Defaults)
	calleeFrame := state.NewFrame(nil, e.globals, e.builtins)
	calleeFrame.Locals = locals

	callerDepth := len(ws.Stack)
	calleeStack := ws.Stack.Push(calleeFrame)
	calleeState := &state.State{Stack: calleeStack, Heap: ws.Heap}

	e.flows.Record(p.label, cfg.SpecialInitKind, fi.Name)
	e.seed(fi.Entry, calleeCtx, calleeState)
	e.registerContinuation(fi.Exit, calleeCtx, &continuation{
		Kind:        contSpecialInit,
		CallerLabel: p.label,
		CallerCtx:   p.ctx,
		Dst:         t.Dst,
		Next:        t.Next,
		StackDepth:  callerDepth,
		Instance:    instVal,
	})
}

func heapIDOfObject(o object.Object) (value.HeapID, bool) {
	if inst, ok := o.(*object.Instance); ok && inst.Singleton == nil {
		return inst.HeapID, true
	}
	return 0, false
}

// bindParams builds the callee's initial Locals namespace from resolved
// positional/keyword argument values, approximating *args/**kwargs as a
// single smashed-together value per the documented unpacking
// simplification.
func bindParams(fi *cfg.FuncInfo, positional []*value.Value, kwargs map[string]*value.Value, defaults []*value.Value) *value.Namespace {
	ns := value.NewNamespace()
	posIdx := 0
	for i, param := range fi.Params {
		switch {
		case param.IsVararg:
			acc := value.New()
			for ; posIdx < len(positional); posIdx++ {
				acc.Join(positional[posIdx])
			}
			ns.Set(param.Name, acc)
		case param.IsKwarg:
			acc := value.New()
			for _, v := range kwargs {
				acc.Join(v)
			}
			ns.Set(param.Name, acc)
		default:
			var v *value.Value
			if kv, ok := kwargs[param.Name]; ok {
				v = kv
			} else if posIdx < len(positional) {
				v = positional[posIdx]
				posIdx++
			} else if defaults != nil && i < len(defaults) && defaults[i] != nil {
				v = defaults[i]
			} else {
				v = value.New()
			}
			ns.Set(param.Name, v.Clone())
		}
	}
	return ns
}
