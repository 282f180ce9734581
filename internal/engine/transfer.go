package engine

import (
	"github.com/LayneInNL/dmf/internal/cfg"
	"github.com/LayneInNL/dmf/internal/state"
	"github.com/LayneInNL/dmf/internal/value"
)

// step runs one worklist entry to completion: every Instr in its block
// against a CloneTop'd working copy of the stored state, then the
// block's single Terminator, then fires any continuation waiting on
// this exact (label, ctx) — the mechanism class-body and function exits
// resume their caller through.
func (e *Engine) step(p point) {
	block := e.Prog.Blocks[p.label]
	if block == nil {
		return
	}
	stored := e.Query(p.label, p.ctx)
	if stored == nil || stored.Bottom() {
		return
	}
	ws := stored.CloneTop()
	resolver := state.NewResolver(e.Registry, ws.Heap, p.ctx)
	frame := ws.Stack.Top()

	for i, instr := range block.Instrs {
		e.execInstr(instr, frame, resolver, p.label, i)
	}
	e.execTerm(block.Term, ws, resolver, p)

	if conts, ok := e.pending[contKey(p)]; ok {
		st := e.Query(p.label, p.ctx)
		for _, c := range conts {
			e.resumeFromReturn(st, c)
		}
	}
}

func (e *Engine) execInstr(instr cfg.Instr, frame *state.Frame, r *state.Resolver, label cfg.Label, idx int) {
	switch n := instr.(type) {
	case cfg.AssignConst:
		frame.SetLocal(string(n.Dst), n.Const.Clone())
	case cfg.Move:
		v := e.read(frame, n.Src)
		frame.SetLocal(string(n.Dst), v.Clone())
	case cfg.BinOp:
		lv := e.read(frame, n.L)
		rv := e.read(frame, n.R)
		frame.SetLocal(string(n.Dst), binOpResult(n.Op, lv, rv))
	case cfg.UnaryOp:
		xv := e.read(frame, n.X)
		frame.SetLocal(string(n.Dst), unaryOpResult(n.Op, xv))
	case cfg.MakeContainer:
		e.execMakeContainer(n, frame, r, label, idx)
	case cfg.DeleteName:
		frame.Locals.Delete(n.Name)
	case cfg.ImportInstr:
		e.execImport(n, frame)
	case cfg.ImportFromInstr:
		e.execImportFrom(n, frame)
	case cfg.MakeFunc:
		e.execMakeFunc(n, frame)
	case cfg.MakeProperty:
		e.execMakeProperty(n, frame, r, label, idx)
	}
}

// read resolves a Var against the frame, treating a never-assigned name
// as bottom rather than panicking — e.g. a conditionally-assigned
// variable on the branch that never set it.
func (e *Engine) read(frame *state.Frame, v cfg.Var) *value.Value {
	got, ok := frame.Get(string(v))
	if !ok {
		return value.New()
	}
	return got
}

func (e *Engine) execTerm(term cfg.Terminator, ws *state.State, r *state.Resolver, p point) {
	switch t := term.(type) {
	case cfg.Jump:
		e.seed(t.Next, p.ctx, ws)
	case cfg.CondJump:
		e.seed(t.Then, p.ctx, ws)
		e.seed(t.Else, p.ctx, ws)
	case cfg.ReturnTerm:
		frame := ws.Stack.Top()
		if t.Value != "" {
			frame.ReturnValue = e.read(frame, t.Value).Clone()
		} else if frame.ReturnValue == nil {
			frame.ReturnValue = noneValue()
		}
		e.seed(t.Exit, p.ctx, ws)
	case cfg.Halt:
		// No successor; any caller waiting on this exact point resumes
		// via the pending-continuation check step() runs after execTerm.
	case cfg.Invoke:
		e.execInvoke(t, ws, r, p)
	case cfg.GetAttrTerm:
		e.execGetAttr(t, ws, r, p)
	case cfg.SetAttrTerm:
		e.execSetAttr(t, ws, r, p)
	case cfg.MakeClass:
		e.execMakeClass(t, ws, r, p)
	}
}

func noneValue() *value.Value {
	v := value.New()
	v.InjectPrim(value.NoneTag)
	return v
}

// binOpResult computes a BinOp's abstract result from the primitive
// tags of its operands only; an operand carrying a heap/func/class
// component contributes Any to the result rather than triggering an
// inter-procedural __op__ dispatch — BinOp is a straight-line Instr,
// not a terminator, so it cannot install a new inter-procedural edge
// the way GetAttrTerm/Invoke can. Only the magic methods already routed
// through an attribute access (subscript, iteration) get real dispatch.
func binOpResult(op string, l, r *value.Value) *value.Value {
	out := value.New()
	if l.IsAny() || r.IsAny() {
		return value.Any()
	}
	if hasNonPrim(l) || hasNonPrim(r) {
		out.Join(value.Any())
		return out
	}
	switch op {
	case "==", "!=", "<", ">", "<=", ">=", "in", "not in", "is", "is not", "and", "or":
		out.InjectPrim(value.BoolTag)
	case "+":
		if l.HasPrim(value.StrTag) && r.HasPrim(value.StrTag) {
			out.InjectPrim(value.StrTag)
		}
		if l.HasPrim(value.NumTag) || r.HasPrim(value.NumTag) {
			out.InjectPrim(value.NumTag)
		}
	default:
		out.InjectPrim(value.NumTag)
	}
	return out
}

func unaryOpResult(op string, x *value.Value) *value.Value {
	if x.IsAny() {
		return value.Any()
	}
	out := value.New()
	switch op {
	case "not":
		out.InjectPrim(value.BoolTag)
	default:
		if hasNonPrim(x) {
			return value.Any()
		}
		out.InjectPrim(value.NumTag)
	}
	return out
}

func hasNonPrim(v *value.Value) bool {
	return len(v.HeapIDs()) > 0 || len(v.FuncIDs()) > 0 || len(v.Classes()) > 0
}
