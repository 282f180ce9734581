package cfg

import (
	"sort"

	"github.com/LayneInNL/dmf/internal/ast"
	"github.com/LayneInNL/dmf/internal/diag"
	"github.com/LayneInNL/dmf/internal/token"
	"github.com/LayneInNL/dmf/internal/value"
)

// Lowerer holds the mutable state of one module's lowering pass: the
// program being built, label/temp allocators, and the loop-target stack
// break/continue consult.
type Lowerer struct {
	prog      *Program
	nextLabel Label
	nextTemp  int
	diags     diag.Bag
	file      string

	cur     *Block
	ownerFn Label // entry label of the function/classbody currently being lowered; 0 at module level

	loops []loopCtx
}

type loopCtx struct {
	breakLabel, continueLabel Label
}

// Lower builds the whole-module Program for mod. Malformed constructs
// that the lowering does not handle are recorded as
// diag.NotImplemented and lowered to an Any-valued stand-in rather than
// aborting the rest of the file, matching spec §4.1's Failure policy.
func Lower(file string, mod *ast.Module) (*Program, []*diag.DiagnosticError) {
	l := &Lowerer{
		prog: &Program{
			Blocks:    map[Label]*Block{},
			Funcs:     map[Label]*FuncInfo{},
			Classes:   map[Label]*ClassInfo{},
			BlockFunc: map[Label]Label{},
		},
		file: file,
	}
	entry := l.newLabel()
	l.prog.ModuleEntry = entry
	l.cur = l.newBlockAt(entry)
	l.lowerStmts(mod.Body, map[string]bool{})
	exit := l.newLabel()
	l.jumpTo(exit)
	l.cur = l.newBlockAt(exit)
	l.cur.Term = Halt{}
	l.prog.ModuleExit = exit
	return l.prog, l.diags.All()
}

func (l *Lowerer) newLabel() Label {
	l.nextLabel++
	return l.nextLabel
}

func (l *Lowerer) newTemp() Var {
	l.nextTemp++
	return Var("_var" + itoa(l.nextTemp))
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func (l *Lowerer) newBlockAt(lbl Label) *Block {
	b := &Block{Label: lbl}
	l.prog.Blocks[lbl] = b
	l.prog.BlockFunc[lbl] = l.ownerFn
	l.cur = b
	return b
}

func (l *Lowerer) emit(i Instr) {
	l.cur.Instrs = append(l.cur.Instrs, i)
}

// jumpTo finishes the current block with an unconditional Jump, unless
// it was already finished by something else (a return, raise, or nested
// control construct).
func (l *Lowerer) jumpTo(next Label) {
	if l.cur.Term == nil {
		l.cur.Term = Jump{Next: next}
	}
}

func (l *Lowerer) report(pos token.Position, detail string) {
	l.diags.Add(diag.NotImplemented(pos, nil, detail))
}

// bindName writes src into name, honoring any `global`/`nonlocal`
// declaration recorded for the current function (internal/engine
// resolves this via FuncInfo.Globals at transfer time: both global and
// nonlocal targets the module's globals here, a deliberate scope
// reduction since frames do not carry real lexical closures — see
// DESIGN.md).
func (l *Lowerer) bindName(name string, src Var) {
	l.emit(Move{Dst: Var(name), Src: src})
}

func constValue(tag value.PrimTag) *value.Value {
	v := value.New()
	v.InjectPrim(tag)
	return v
}

// ---- statement dispatch ----

func (l *Lowerer) lowerStmts(stmts []ast.Statement, globals map[string]bool) {
	for _, st := range stmts {
		if l.cur.Term != nil {
			// Unreachable code after a return/raise/break/continue in
			// this block; stop lowering into it (a fresh block would be
			// needed to hold it, but nothing can jump there).
			return
		}
		l.lowerStmt(st, globals)
	}
}

func (l *Lowerer) lowerStmt(st ast.Statement, globals map[string]bool) {
	switch n := st.(type) {
	case *ast.ExpressionStatement:
		l.lowerExpr(n.Expression)
	case *ast.AssignStatement:
		l.lowerAssign(n, globals)
	case *ast.AnnAssignStatement:
		// The annotation itself is never evaluated as a type; a bare
		// `name: Type` with no initializer is a declaration with no
		// runtime effect.
		if n.Value != nil {
			src := l.lowerExpr(n.Value)
			l.assignTo(n.Target, src)
		}
	case *ast.AugAssignStatement:
		l.lowerAugAssign(n, globals)
	case *ast.ReturnStatement:
		var v Var
		if n.Value != nil {
			v = l.lowerExpr(n.Value)
		}
		l.cur.Term = ReturnTerm{Value: v, Exit: l.currentExit()}
	case *ast.PassStatement:
		// no-op
	case *ast.BreakStatement:
		if len(l.loops) == 0 {
			l.report(n.Pos(), "break outside loop")
			return
		}
		l.cur.Term = Jump{Next: l.loops[len(l.loops)-1].breakLabel}
	case *ast.ContinueStatement:
		if len(l.loops) == 0 {
			l.report(n.Pos(), "continue outside loop")
			return
		}
		l.cur.Term = Jump{Next: l.loops[len(l.loops)-1].continueLabel}
	case *ast.IfStatement:
		l.lowerIf(n, globals)
	case *ast.WhileStatement:
		l.lowerWhile(n, globals)
	case *ast.ForStatement:
		l.lowerFor(n, globals)
	case *ast.WithStatement:
		l.lowerWith(n, globals)
	case *ast.TryStatement:
		l.lowerTry(n, globals)
	case *ast.RaiseStatement:
		l.lowerRaise(n)
	case *ast.AssertStatement:
		l.lowerAssert(n, globals)
	case *ast.FunctionDef:
		l.lowerFunctionDefStmt(n, globals)
	case *ast.ClassDef:
		l.lowerClassDef(n, globals)
	case *ast.ImportStatement:
		for _, alias := range n.Names {
			name := alias.Alias
			if name == "" {
				name = topLevelComponent(alias.Path)
			}
			dst := l.newTemp()
			l.emit(ImportInstr{Dst: dst, ModulePath: alias.Path})
			l.bindName(name, dst)
		}
	case *ast.ImportFromStatement:
		for _, alias := range n.Names {
			name := alias.Alias
			if name == "" {
				name = alias.Path
			}
			dst := l.newTemp()
			l.emit(ImportFromInstr{Dst: dst, ModulePath: n.Module, Level: n.Level, Name: alias.Path})
			l.bindName(name, dst)
		}
	case *ast.GlobalStatement:
		for _, name := range n.Names {
			globals[name] = true
		}
		if fi := l.prog.Funcs[l.ownerFn]; fi != nil {
			for _, name := range n.Names {
				fi.Globals[name] = true
			}
		}
	case *ast.NonlocalStatement:
		// Nonlocal is folded into the same global-routing table as
		// `global`: frames do not carry a real enclosing-scope link, so
		// the closest sound approximation is to route the write to the
		// module's globals rather than silently keeping it local.
		for _, name := range n.Names {
			globals[name] = true
		}
		if fi := l.prog.Funcs[l.ownerFn]; fi != nil {
			for _, name := range n.Names {
				fi.Globals[name] = true
			}
		}
	case *ast.DeleteStatement:
		for _, target := range n.Targets {
			if id, ok := target.(*ast.Identifier); ok {
				l.emit(DeleteName{Name: id.Name})
			} else {
				l.report(target.Pos(), "delete of non-name target")
			}
		}
	case *ast.UnsupportedNode:
		l.report(n.Pos(), n.Detail)
	default:
		l.report(st.Pos(), "unrecognized statement")
	}
}

// currentExit returns the Exit label of the function (or class body)
// currently being lowered, or the module exit at top level.
func (l *Lowerer) currentExit() Label {
	if fi := l.prog.Funcs[l.ownerFn]; fi != nil {
		return fi.Exit
	}
	return l.prog.ModuleExit
}

func topLevelComponent(dotted string) string {
	for i := 0; i < len(dotted); i++ {
		if dotted[i] == '.' {
			return dotted[:i]
		}
	}
	return dotted
}

// ---- assignment ----

func (l *Lowerer) lowerAssign(n *ast.AssignStatement, globals map[string]bool) {
	src := l.lowerExpr(n.Value)
	for _, target := range n.Targets {
		l.assignTo(target, src)
	}
}

// assignTo implements one assignment target: a plain name, an attribute
// write (setter family), a subscript write (__setitem__ magic), or a
// tuple/list target (each element rebound to the same value — real
// per-element unpacking of a heap-tracked container is not modeled,
// documented simplification).
func (l *Lowerer) assignTo(target ast.Expression, src Var) {
	switch t := target.(type) {
	case *ast.Identifier:
		l.bindName(t.Name, src)
	case *ast.AttributeExpression:
		objVar := l.lowerExpr(t.Value)
		next := l.newLabel()
		l.cur.Term = SetAttrTerm{Obj: objVar, Name: t.Attr, Val: src, Next: next}
		l.newBlockAt(next)
	case *ast.SubscriptExpression:
		objVar := l.lowerExpr(t.Value)
		idxVar := l.lowerExpr(t.Index)
		method := l.emitGetAttr(objVar, "__setitem__")
		l.emitCall(method, []Var{idxVar, src}, nil, MagicKind)
	case *ast.TupleExpression:
		for _, el := range t.Elements {
			l.assignTo(el, src)
		}
	case *ast.ListExpression:
		for _, el := range t.Elements {
			l.assignTo(el, src)
		}
	case *ast.StarExpression:
		l.assignTo(t.Value, src)
	default:
		l.report(target.Pos(), "unsupported assignment target")
	}
}

func (l *Lowerer) lowerAugAssign(n *ast.AugAssignStatement, globals map[string]bool) {
	cur := l.lowerExpr(n.Target)
	rhs := l.lowerExpr(n.Value)
	dst := l.newTemp()
	l.emit(BinOp{Dst: dst, Op: n.Op, L: cur, R: rhs})
	l.assignTo(n.Target, dst)
}

// ---- call / attribute helpers shared by statement and expression lowering ----

func (l *Lowerer) emitCall(callee Var, args []Var, kwargs map[string]Var, kind InvokeKind) Var {
	dst := l.newTemp()
	next := l.newLabel()
	l.cur.Term = Invoke{Callee: callee, Args: args, Kwargs: kwargs, Dst: dst, Kind: kind, Next: next}
	l.newBlockAt(next)
	return dst
}

func (l *Lowerer) emitGetAttr(obj Var, name string) Var {
	dst := l.newTemp()
	next := l.newLabel()
	l.cur.Term = GetAttrTerm{Obj: obj, Name: name, Dst: dst, Next: next}
	l.newBlockAt(next)
	return dst
}

// ---- if / while / for ----

func (l *Lowerer) lowerIf(n *ast.IfStatement, globals map[string]bool) {
	cond := l.lowerExpr(n.Test)
	thenLbl, elseLbl, joinLbl := l.newLabel(), l.newLabel(), l.newLabel()
	l.cur.Term = CondJump{Cond: cond, Then: thenLbl, Else: elseLbl}

	l.newBlockAt(thenLbl)
	l.lowerStmts(n.Body, globals)
	l.jumpTo(joinLbl)

	l.newBlockAt(elseLbl)
	l.lowerStmts(n.Orelse, globals)
	l.jumpTo(joinLbl)

	l.newBlockAt(joinLbl)
}

func (l *Lowerer) lowerWhile(n *ast.WhileStatement, globals map[string]bool) {
	headLbl, bodyLbl, afterLbl := l.newLabel(), l.newLabel(), l.newLabel()
	l.jumpTo(headLbl)

	l.newBlockAt(headLbl)
	cond := l.lowerExpr(n.Test)
	l.cur.Term = CondJump{Cond: cond, Then: bodyLbl, Else: afterLbl}

	l.loops = append(l.loops, loopCtx{breakLabel: afterLbl, continueLabel: headLbl})
	l.newBlockAt(bodyLbl)
	l.lowerStmts(n.Body, globals)
	l.jumpTo(headLbl)
	l.loops = l.loops[:len(l.loops)-1]

	l.newBlockAt(afterLbl)
	l.lowerStmts(n.Orelse, globals)
}

// lowerFor desugars `for target in iter: body` to `_it = iter(expr);
// while True: try: target = next(_it) except StopIteration: break; body`
// per spec §4.1. StopIteration is approximated structurally (no
// exception-typed routing is modeled yet): next() is called and the
// loop always has both a continuation (body) and an exit edge, so the
// analysis still visits both "more elements" and "exhausted" paths.
func (l *Lowerer) lowerFor(n *ast.ForStatement, globals map[string]bool) {
	iterExpr := l.lowerExpr(n.Iter)
	iterFn := l.emitGetAttr(iterExpr, "__iter__")
	iterator := l.emitCall(iterFn, nil, nil, MagicKind)

	headLbl, bodyLbl, afterLbl := l.newLabel(), l.newLabel(), l.newLabel()
	l.jumpTo(headLbl)

	l.newBlockAt(headLbl)
	nextFn := l.emitGetAttr(iterator, "__next__")
	item := l.emitCall(nextFn, nil, nil, MagicKind)
	// Both continuing with item bound and stopping are live successors
	// of this point; a fresh bool temp stands in for the unmodeled
	// StopIteration test.
	cond := l.newTemp()
	l.emit(AssignConst{Dst: cond, Const: constValue(value.BoolTag)})
	l.cur.Term = CondJump{Cond: cond, Then: bodyLbl, Else: afterLbl}

	l.loops = append(l.loops, loopCtx{breakLabel: afterLbl, continueLabel: headLbl})
	l.newBlockAt(bodyLbl)
	l.assignTo(n.Target, item)
	l.lowerStmts(n.Body, globals)
	l.jumpTo(headLbl)
	l.loops = l.loops[:len(l.loops)-1]

	l.newBlockAt(afterLbl)
	l.lowerStmts(n.Orelse, globals)
}

// lowerWith desugars a (possibly multi-item) with statement into nested
// single-item forms, each an explicit __enter__/__exit__ call pair per
// spec §4.1.
func (l *Lowerer) lowerWith(n *ast.WithStatement, globals map[string]bool) {
	l.lowerWithItems(n.Items, n.Body, globals)
}

func (l *Lowerer) lowerWithItems(items []ast.WithItem, body []ast.Statement, globals map[string]bool) {
	if len(items) == 0 {
		l.lowerStmts(body, globals)
		return
	}
	item := items[0]
	ctxVar := l.lowerExpr(item.ContextExpr)
	enterFn := l.emitGetAttr(ctxVar, "__enter__")
	bound := l.emitCall(enterFn, nil, nil, MagicKind)
	if item.OptionalVar != nil {
		l.assignTo(item.OptionalVar, bound)
	}
	l.lowerWithItems(items[1:], body, globals)
	exitFn := l.emitGetAttr(ctxVar, "__exit__")
	noneVar := l.newTemp()
	l.emit(AssignConst{Dst: noneVar, Const: constValue(value.NoneTag)})
	l.emitCall(exitFn, []Var{noneVar, noneVar, noneVar}, nil, MagicKind)
}

// lowerTry approximates try/except/finally: the body and every handler
// are lowered as unconditionally-joined alternatives (no
// exception-type-sensitive routing is modeled — an abstract interpreter
// without a tracked exception channel cannot distinguish "handler N
// catches" from "doesn't" any more precisely than this). Each handler is
// a branch taken from the try's entry, a fresh bool temp standing in for
// the untested match as in lowerFor; the body falls through into
// orelse; handlers and orelse join at the block that runs finally.
// finally is lowered once, on that join only: a return, raise, break or
// continue inside the try leaves without passing through it.
func (l *Lowerer) lowerTry(n *ast.TryStatement, globals map[string]bool) {
	bodyLbl, orelseLbl, afterLbl := l.newLabel(), l.newLabel(), l.newLabel()
	hLbls := make([]Label, len(n.Handlers))
	for i := range n.Handlers {
		hLbls[i] = l.newLabel()
		nextLbl, cond := l.newLabel(), l.newTemp()
		l.emit(AssignConst{Dst: cond, Const: constValue(value.BoolTag)})
		l.cur.Term = CondJump{Cond: cond, Then: hLbls[i], Else: nextLbl}
		l.newBlockAt(nextLbl)
	}
	l.jumpTo(bodyLbl)
	l.newBlockAt(bodyLbl)
	l.lowerStmts(n.Body, globals)
	l.jumpTo(orelseLbl)

	for i, h := range n.Handlers {
		l.newBlockAt(hLbls[i])
		if h.Name != "" {
			excVar := l.newTemp()
			l.emit(AssignConst{Dst: excVar, Const: value.Any()})
			l.bindName(h.Name, excVar)
		}
		l.lowerStmts(h.Body, globals)
		l.jumpTo(afterLbl)
	}

	l.newBlockAt(orelseLbl)
	l.lowerStmts(n.Orelse, globals)
	l.jumpTo(afterLbl)

	l.newBlockAt(afterLbl)
	l.lowerStmts(n.Finally, globals)
}

func (l *Lowerer) lowerRaise(n *ast.RaiseStatement) {
	if n.Exc != nil {
		l.lowerExpr(n.Exc)
	}
	// A raise has no successor this lowering tracks (the unmodeled
	// exception channel is the only thing that could resume execution);
	// the block ends with Halt, so neither an enclosing try's handlers
	// nor its finally are reached from this point.
	l.cur.Term = Halt{}
}

// lowerAssert desugars `assert test, msg` to `if not test: raise
// AssertionError(msg)` per spec §4.1; the raise side is not otherwise
// reachable so only the pass-through path is wired forward.
func (l *Lowerer) lowerAssert(n *ast.AssertStatement, globals map[string]bool) {
	cond := l.lowerExpr(n.Test)
	notCond := l.newTemp()
	l.emit(UnaryOp{Dst: notCond, Op: "not", X: cond})
	raiseLbl, contLbl := l.newLabel(), l.newLabel()
	l.cur.Term = CondJump{Cond: notCond, Then: raiseLbl, Else: contLbl}

	l.newBlockAt(raiseLbl)
	if n.Msg != nil {
		l.lowerExpr(n.Msg)
	}
	l.cur.Term = Halt{}

	l.newBlockAt(contLbl)
}

// ---- function / class definitions ----

func (l *Lowerer) lowerFunctionDefStmt(fd *ast.FunctionDef, globals map[string]bool) {
	fnVar := l.lowerFunctionDef(fd)
	cur := fnVar
	for i := len(fd.Decorators) - 1; i >= 0; i-- {
		decoVar := l.lowerExpr(fd.Decorators[i])
		cur = l.emitCall(decoVar, []Var{cur}, nil, CallKind)
	}
	l.bindName(fd.Name, cur)
}

// lowerFunctionDef lowers fd's body into its own entry/exit labels,
// registers a FuncInfo, and emits a MakeFunc in the CURRENT (defining)
// block returning the function value — it does not itself bind fd.Name
// or apply decorators, so lambdas and property accessors can reuse it.
func (l *Lowerer) lowerFunctionDef(fd *ast.FunctionDef) Var {
	entry := l.newLabel()
	exit := l.newLabel()

	params := make([]Param, 0, len(fd.Params))
	for _, p := range fd.Params {
		param := Param{Name: p.Name, IsVararg: p.IsVararg, IsKwarg: p.IsKwarg}
		if p.Default != nil {
			param.Default = l.lowerExpr(p.Default)
			param.HasDefault = true
		}
		params = append(params, param)
	}

	l.prog.Funcs[entry] = &FuncInfo{Name: fd.Name, Params: params, Entry: entry, Exit: exit, Globals: map[string]bool{}}

	savedCur, savedOwner := l.cur, l.ownerFn
	l.ownerFn = entry
	l.newBlockAt(entry)
	l.lowerStmts(fd.Body, l.prog.Funcs[entry].Globals)
	if l.cur.Term == nil {
		l.cur.Term = ReturnTerm{Value: "", Exit: exit}
	}
	l.newBlockAt(exit)
	l.cur.Term = Halt{}
	l.ownerFn = savedOwner
	l.cur = savedCur

	dst := l.newTemp()
	l.emit(MakeFunc{Dst: dst, EntryLabel: entry})
	return dst
}

type propertyParts struct {
	fget, fset, fdel Var
}

// detectPropertyDecorator recognizes the idiomatic @property /
// @x.setter / @x.deleter trio (spec §4.1's "property/setter/deleter
// collection" normalization); any other decorator combination falls
// through to the generic `name = decorator(name)` path.
func detectPropertyDecorator(fd *ast.FunctionDef) (kind string, target string, ok bool) {
	if len(fd.Decorators) != 1 {
		return "", "", false
	}
	switch d := fd.Decorators[0].(type) {
	case *ast.Identifier:
		if d.Name == "property" {
			return "get", fd.Name, true
		}
	case *ast.AttributeExpression:
		if id, isID := d.Value.(*ast.Identifier); isID && id.Name == fd.Name {
			switch d.Attr {
			case "setter":
				return "set", fd.Name, true
			case "deleter":
				return "del", fd.Name, true
			}
		}
	}
	return "", "", false
}

func (l *Lowerer) lowerClassBody(stmts []ast.Statement, globals map[string]bool) {
	props := map[string]*propertyParts{}
	var order []string
	for _, st := range stmts {
		if fd, isFn := st.(*ast.FunctionDef); isFn {
			if kind, target, matched := detectPropertyDecorator(fd); matched {
				fnVar := l.lowerFunctionDef(fd)
				parts := props[target]
				if parts == nil {
					parts = &propertyParts{}
					props[target] = parts
					order = append(order, target)
				}
				switch kind {
				case "get":
					parts.fget = fnVar
				case "set":
					parts.fset = fnVar
				case "del":
					parts.fdel = fnVar
				}
				continue
			}
		}
		l.lowerStmt(st, globals)
	}
	sort.Strings(order)
	for _, name := range order {
		parts := props[name]
		dst := l.newTemp()
		l.emit(MakeProperty{Dst: dst, FGet: parts.fget, FSet: parts.fset, FDel: parts.fdel})
		l.bindName(name, dst)
	}
}

func (l *Lowerer) lowerClassDef(n *ast.ClassDef, globals map[string]bool) {
	baseVars := make([]Var, 0, len(n.Bases))
	for _, b := range n.Bases {
		baseVars = append(baseVars, l.lowerExpr(b))
	}

	classLabel := l.newLabel()
	bodyExit := l.newLabel()
	l.prog.Classes[classLabel] = &ClassInfo{Name: n.Name, Entry: classLabel, Exit: bodyExit}
	l.prog.Funcs[classLabel] = &FuncInfo{Name: "<classbody:" + n.Name + ">", Entry: classLabel, Exit: bodyExit, Globals: map[string]bool{}}

	dst := l.newTemp()
	cont := l.newLabel()
	l.cur.Term = MakeClass{Name: n.Name, Bases: baseVars, ClassLabel: classLabel, Dst: dst, Next: cont}

	savedOwner := l.ownerFn
	l.ownerFn = classLabel
	l.newBlockAt(classLabel)
	l.lowerClassBody(n.Body, l.prog.Funcs[classLabel].Globals)
	if l.cur.Term == nil {
		l.cur.Term = ReturnTerm{Value: "", Exit: bodyExit}
	}
	l.newBlockAt(bodyExit)
	l.cur.Term = Halt{}
	l.ownerFn = savedOwner

	l.newBlockAt(cont)
	cur := dst
	for i := len(n.Decorators) - 1; i >= 0; i-- {
		decoVar := l.lowerExpr(n.Decorators[i])
		cur = l.emitCall(decoVar, []Var{cur}, nil, CallKind)
	}
	l.bindName(n.Name, cur)
}
