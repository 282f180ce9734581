package cfg

import (
	"github.com/LayneInNL/dmf/internal/ast"
	"github.com/LayneInNL/dmf/internal/value"
)

// lowerExpr decomposes an expression into three-address form, returning
// the Var holding its value. Every non-trivial sub-expression is routed
// through a fresh temp rather than inlined, matching spec §4.1's
// three-address normalization.
func (l *Lowerer) lowerExpr(e ast.Expression) Var {
	switch n := e.(type) {
	case *ast.Identifier:
		return Var(n.Name)
	case *ast.IntLiteral, *ast.FloatLiteral:
		dst := l.newTemp()
		l.emit(AssignConst{Dst: dst, Const: constValue(value.NumTag)})
		return dst
	case *ast.StringLiteral:
		dst := l.newTemp()
		l.emit(AssignConst{Dst: dst, Const: constValue(value.StrTag)})
		return dst
	case *ast.BytesLiteral:
		dst := l.newTemp()
		l.emit(AssignConst{Dst: dst, Const: constValue(value.BytesTag)})
		return dst
	case *ast.BoolLiteral:
		dst := l.newTemp()
		l.emit(AssignConst{Dst: dst, Const: constValue(value.BoolTag)})
		return dst
	case *ast.NoneLiteral:
		dst := l.newTemp()
		l.emit(AssignConst{Dst: dst, Const: constValue(value.NoneTag)})
		return dst
	case *ast.EllipsisLiteral:
		dst := l.newTemp()
		l.emit(AssignConst{Dst: dst, Const: value.Any()})
		return dst
	case *ast.BinaryExpression:
		lv := l.lowerExpr(n.Left)
		rv := l.lowerExpr(n.Right)
		dst := l.newTemp()
		l.emit(BinOp{Dst: dst, Op: n.Op, L: lv, R: rv})
		return dst
	case *ast.UnaryExpression:
		xv := l.lowerExpr(n.Operand)
		dst := l.newTemp()
		l.emit(UnaryOp{Dst: dst, Op: n.Op, X: xv})
		return dst
	case *ast.BoolOpExpression:
		return l.lowerBoolOp(n)
	case *ast.ConditionalExpression:
		return l.lowerConditional(n)
	case *ast.CallExpression:
		return l.lowerCall(n)
	case *ast.AttributeExpression:
		objVar := l.lowerExpr(n.Value)
		return l.emitGetAttr(objVar, n.Attr)
	case *ast.SubscriptExpression:
		objVar := l.lowerExpr(n.Value)
		idxVar := l.lowerExpr(n.Index)
		method := l.emitGetAttr(objVar, "__getitem__")
		return l.emitCall(method, []Var{idxVar}, nil, MagicKind)
	case *ast.ListExpression:
		return l.lowerContainer(ListKind, n.Elements, nil)
	case *ast.TupleExpression:
		return l.lowerContainer(TupleKind, n.Elements, nil)
	case *ast.SetExpression:
		return l.lowerContainer(SetKind, n.Elements, nil)
	case *ast.DictExpression:
		elems := make([]ast.Expression, len(n.Entries))
		keys := make([]ast.Expression, len(n.Entries))
		for i, ent := range n.Entries {
			keys[i] = ent.Key
			elems[i] = ent.Value
		}
		return l.lowerContainer(DictKind, elems, keys)
	case *ast.ComprehensionExpression:
		return l.lowerComprehension(n)
	case *ast.LambdaExpression:
		return l.lowerLambda(n)
	case *ast.StarExpression:
		// A bare *expr in value position (only meaningful inside a call's
		// argument list, handled directly by lowerCall) degrades to its
		// unpacked operand; real splat semantics are not modeled.
		return l.lowerExpr(n.Value)
	case *ast.UnsupportedNode:
		l.report(n.Pos(), n.Detail)
		dst := l.newTemp()
		l.emit(AssignConst{Dst: dst, Const: value.Any()})
		return dst
	default:
		l.report(e.Pos(), "unrecognized expression")
		dst := l.newTemp()
		l.emit(AssignConst{Dst: dst, Const: value.Any()})
		return dst
	}
}

// lowerBoolOp desugars short-circuiting `and`/`or` chains into nested
// ifs per spec §4.1: `a and b` becomes `t = a; if truthy(t): t = b`, `a
// or b` becomes `t = a; if not truthy(t): t = b` — Values is left-folded
// so 3+ operand chains desugar to nested pairs.
func (l *Lowerer) lowerBoolOp(n *ast.BoolOpExpression) Var {
	if len(n.Values) == 0 {
		dst := l.newTemp()
		l.emit(AssignConst{Dst: dst, Const: value.Any()})
		return dst
	}
	acc := l.lowerExpr(n.Values[0])
	for _, rest := range n.Values[1:] {
		result := l.newTemp()
		l.emit(Move{Dst: result, Src: acc})

		testVar := result
		if n.Op == "or" {
			nt := l.newTemp()
			l.emit(UnaryOp{Dst: nt, Op: "not", X: result})
			testVar = nt
		}

		evalLbl, joinLbl := l.newLabel(), l.newLabel()
		l.cur.Term = CondJump{Cond: testVar, Then: evalLbl, Else: joinLbl}

		l.newBlockAt(evalLbl)
		rv := l.lowerExpr(rest)
		l.emit(Move{Dst: result, Src: rv})
		l.jumpTo(joinLbl)

		l.newBlockAt(joinLbl)
		acc = result
	}
	return acc
}

// lowerConditional lowers `body if test else orelse`.
func (l *Lowerer) lowerConditional(n *ast.ConditionalExpression) Var {
	cond := l.lowerExpr(n.Test)
	dst := l.newTemp()
	thenLbl, elseLbl, joinLbl := l.newLabel(), l.newLabel(), l.newLabel()
	l.cur.Term = CondJump{Cond: cond, Then: thenLbl, Else: elseLbl}

	l.newBlockAt(thenLbl)
	bv := l.lowerExpr(n.Body)
	l.emit(Move{Dst: dst, Src: bv})
	l.jumpTo(joinLbl)

	l.newBlockAt(elseLbl)
	ov := l.lowerExpr(n.Orelse)
	l.emit(Move{Dst: dst, Src: ov})
	l.jumpTo(joinLbl)

	l.newBlockAt(joinLbl)
	return dst
}

// lowerCall lowers a call expression's callee and arguments, then emits
// the unified Invoke terminator. Starred positional arguments pass
// through their unpacked operand (see StarExpression in lowerExpr); a
// fully faithful *args spread is not modeled.
func (l *Lowerer) lowerCall(n *ast.CallExpression) Var {
	calleeVar := l.lowerExpr(n.Func)
	args := make([]Var, 0, len(n.Args))
	for _, a := range n.Args {
		args = append(args, l.lowerExpr(a))
	}
	var kwargs map[string]Var
	if len(n.Keywords) > 0 {
		kwargs = make(map[string]Var, len(n.Keywords))
		for name, expr := range n.Keywords {
			kwargs[name] = l.lowerExpr(expr)
		}
	}
	return l.emitCall(calleeVar, args, kwargs, CallKind)
}

// lowerContainer lowers a literal container; elements are each lowered
// to an atom but never recursively decomposed beyond that one level
// (spec §4.1's "elements are NOT decomposed" rule).
func (l *Lowerer) lowerContainer(kind ContainerKind, elems, keys []ast.Expression) Var {
	elemVars := make([]Var, len(elems))
	for i, e := range elems {
		elemVars[i] = l.lowerExpr(e)
	}
	var keyVars []Var
	if keys != nil {
		keyVars = make([]Var, len(keys))
		for i, k := range keys {
			keyVars[i] = l.lowerExpr(k)
		}
	}
	dst := l.newTemp()
	l.emit(MakeContainer{Dst: dst, Kind: kind, Elems: elemVars, Keys: keyVars})
	return dst
}

// lowerComprehension desugars every comprehension form to an
// accumulator loop per spec §4.1: build an empty container, then for
// each clause's target/iter/ifs nest a for-loop (reusing lowerFor's
// __iter__/__next__ protocol) guarded by the ifs, appending Elt (or
// Key/Elt for dict) each time through. Generator comprehensions are
// approximated as building a List (laziness is not modeled).
func (l *Lowerer) lowerComprehension(n *ast.ComprehensionExpression) Var {
	kind := ListKind
	appendMethod := "append"
	switch n.Kind {
	case ast.SetComp:
		kind = SetKind
		appendMethod = "add"
	case ast.DictComp:
		kind = DictKind
	case ast.GeneratorComp:
		kind = ListKind
		appendMethod = "append"
	}

	acc := l.newTemp()
	l.emit(MakeContainer{Dst: acc, Kind: kind})

	var build func(idx int)
	build = func(idx int) {
		if idx == len(n.Clauses) {
			if n.Kind == ast.DictComp {
				kv := l.lowerExpr(n.Key)
				vv := l.lowerExpr(n.Elt)
				setFn := l.emitGetAttr(acc, "__setitem__")
				l.emitCall(setFn, []Var{kv, vv}, nil, MagicKind)
			} else {
				ev := l.lowerExpr(n.Elt)
				appendFn := l.emitGetAttr(acc, appendMethod)
				l.emitCall(appendFn, []Var{ev}, nil, MagicKind)
			}
			return
		}
		clause := n.Clauses[idx]
		iterVar := l.lowerExpr(clause.Iter)
		iterFn := l.emitGetAttr(iterVar, "__iter__")
		iterator := l.emitCall(iterFn, nil, nil, MagicKind)

		headLbl, bodyLbl, afterLbl := l.newLabel(), l.newLabel(), l.newLabel()
		l.jumpTo(headLbl)
		l.newBlockAt(headLbl)
		nextFn := l.emitGetAttr(iterator, "__next__")
		item := l.emitCall(nextFn, nil, nil, MagicKind)
		cond := l.newTemp()
		l.emit(AssignConst{Dst: cond, Const: constValue(value.BoolTag)})
		l.cur.Term = CondJump{Cond: cond, Then: bodyLbl, Else: afterLbl}

		l.loops = append(l.loops, loopCtx{breakLabel: afterLbl, continueLabel: headLbl})
		l.newBlockAt(bodyLbl)
		l.assignTo(clause.Target, item)
		l.lowerComprehensionIfs(clause.Ifs, func() { build(idx + 1) })
		l.jumpTo(headLbl)
		l.loops = l.loops[:len(l.loops)-1]

		l.newBlockAt(afterLbl)
	}
	build(0)
	return acc
}

func (l *Lowerer) lowerComprehensionIfs(ifs []ast.Expression, body func()) {
	if len(ifs) == 0 {
		body()
		return
	}
	cond := l.lowerExpr(ifs[0])
	thenLbl, afterLbl := l.newLabel(), l.newLabel()
	l.cur.Term = CondJump{Cond: cond, Then: thenLbl, Else: afterLbl}
	l.newBlockAt(thenLbl)
	l.lowerComprehensionIfs(ifs[1:], body)
	l.jumpTo(afterLbl)
	l.newBlockAt(afterLbl)
}

// lowerLambda lowers an anonymous function exactly like a def whose
// single statement is `return <Body>`.
func (l *Lowerer) lowerLambda(n *ast.LambdaExpression) Var {
	params := make([]*ast.Parameter, len(n.Params))
	copy(params, n.Params)
	fd := &ast.FunctionDef{
		Token:  n.Token,
		Name:   "<lambda>",
		Params: params,
		Body:   []ast.Statement{&ast.ReturnStatement{Token: n.Token, Value: n.Body}},
	}
	return l.lowerFunctionDef(fd)
}
