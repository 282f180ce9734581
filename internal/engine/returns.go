package engine

import (
	"github.com/LayneInNL/dmf/internal/object"
	"github.com/LayneInNL/dmf/internal/state"
	"github.com/LayneInNL/dmf/internal/value"
)

// resumeFromReturn restores the caller's frame chain from st (a state
// reached at the continuation's registered callee exit), writes the
// call's contribution into Dst, and seeds the continuation's resume
// point. Restoring means truncating st.Stack back down to the caller's
// pre-call depth — recovering the caller's own frame chain by slice,
// sharing whatever frame pointers were never touched by the callee —
// then CloneTop'ing that slice so the write below never mutates a frame
// object some other stored Λ entry still references.
//
// Each firing contributes only its own partial result; repeated
// firings (as the callee's own state grows across worklist iterations)
// rely on seed's own Namespace-level Join to accumulate monotonically
// at the continuation's target point, so no value is read back out of
// Dst here before writing.
func (e *Engine) resumeFromReturn(st *state.State, c *continuation) {
	if st == nil || st.Bottom() || len(st.Stack) < c.StackDepth || c.StackDepth == 0 {
		return
	}
	truncated := st.Stack[:c.StackDepth]
	newStack := truncated.CloneTop()
	callerFrame := newStack.Top()

	switch c.Kind {
	case contCall:
		calleeFrame := st.Stack.Top()
		result := calleeFrame.ReturnValue
		if result == nil {
			result = value.New()
		}
		if c.Dst != "" {
			callerFrame.SetLocal(string(c.Dst), result.Clone())
		}
	case contSpecialInit:
		if c.Dst != "" && c.Instance != nil {
			callerFrame.SetLocal(string(c.Dst), c.Instance.Clone())
		}
	case contClassBody:
		calleeLocals := st.Stack.Top().Locals
		classVal := e.finishClass(c, calleeLocals)
		if c.Dst != "" {
			callerFrame.SetLocal(string(c.Dst), classVal)
		}
	case contGetter:
		calleeFrame := st.Stack.Top()
		result := calleeFrame.ReturnValue
		if result == nil {
			result = value.New()
		}
		if c.Dst != "" {
			callerFrame.SetLocal(string(c.Dst), result.Clone())
		}
	case contSetter:
		// The setter's body already performed whatever attribute writes
		// it makes through the shared Heap; no value flows back to Dst.
	}

	newState := &state.State{Stack: newStack, Heap: st.Heap}
	e.seed(c.Next, c.CallerCtx, newState)
}

// finishClass gets-or-creates the registered Class for a MakeClass
// continuation and joins the class body's own final locals into its
// Dict — idempotent across repeated firings as the body's state grows.
func (e *Engine) finishClass(c *continuation, locals *value.Namespace) *value.Value {
	cls, ok := e.Registry.Class(c.ClassLabel)
	if !ok {
		cls = object.NewClass(c.ClassName, object.AnalysisClassKind, c.ClassLabel, c.Bases)
		e.Registry.DefineClass(cls)
	}
	if locals != nil {
		cls.Dict.Join(locals)
	}
	v := value.New()
	v.InjectClass(cls.ClassID, cls.Dict)
	return v
}
