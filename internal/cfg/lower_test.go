package cfg

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LayneInNL/dmf/internal/ast"
	"github.com/LayneInNL/dmf/internal/token"
)

func tok(kind token.Kind, lexeme string) token.Token {
	return token.Token{Kind: kind, Lexeme: lexeme, Pos: token.Position{File: "t.py", Line: 1}}
}

func ident(name string) *ast.Identifier {
	return &ast.Identifier{Token: tok(token.IDENT, name), Name: name}
}

// TestLowerPlainAssignProducesMove verifies a bare `x = y` lowers to a
// single Move into x with no inter-procedural terminator needed.
func TestLowerPlainAssignProducesMove(t *testing.T) {
	mod := &ast.Module{
		File: "t.py",
		Body: []ast.Statement{
			&ast.AssignStatement{
				Token:   tok(token.ASSIGN, "="),
				Targets: []ast.Expression{ident("x")},
				Value:   ident("y"),
			},
		},
	}
	prog, errs := Lower("t.py", mod)
	require.Empty(t, errs)
	require.NotNil(t, prog)

	entry := prog.Blocks[prog.ModuleEntry]
	require.Len(t, entry.Instrs, 1)
	mv, ok := entry.Instrs[0].(Move)
	require.True(t, ok)
	require.Equal(t, Var("x"), mv.Dst)
	require.Equal(t, Var("y"), mv.Src)
}

// TestLowerIfStatementBranchesAndJoins verifies an if/else lowers to a
// CondJump with both arms rejoining at a common successor block.
func TestLowerIfStatementBranchesAndJoins(t *testing.T) {
	mod := &ast.Module{
		File: "t.py",
		Body: []ast.Statement{
			&ast.IfStatement{
				Token: tok(token.IF, "if"),
				Test:  ident("cond"),
				Body: []ast.Statement{
					&ast.AssignStatement{Targets: []ast.Expression{ident("a")}, Value: ident("cond")},
				},
				Orelse: []ast.Statement{
					&ast.AssignStatement{Targets: []ast.Expression{ident("a")}, Value: ident("cond")},
				},
			},
		},
	}
	prog, errs := Lower("t.py", mod)
	require.Empty(t, errs)

	entry := prog.Blocks[prog.ModuleEntry]
	cj, ok := entry.Term.(CondJump)
	require.True(t, ok)

	thenBlock := prog.Blocks[cj.Then]
	elseBlock := prog.Blocks[cj.Else]
	require.NotNil(t, thenBlock)
	require.NotNil(t, elseBlock)

	thenJump, ok := thenBlock.Term.(Jump)
	require.True(t, ok)
	elseJump, ok := elseBlock.Term.(Jump)
	require.True(t, ok)
	require.Equal(t, thenJump.Next, elseJump.Next)
}

// TestLowerCallExpressionEmitsInvoke verifies a call expression ends its
// block with a unified Invoke terminator carrying the lowered args.
func TestLowerCallExpressionEmitsInvoke(t *testing.T) {
	mod := &ast.Module{
		File: "t.py",
		Body: []ast.Statement{
			&ast.ExpressionStatement{
				Expression: &ast.CallExpression{
					Func: ident("f"),
					Args: []ast.Expression{ident("x")},
				},
			},
		},
	}
	prog, errs := Lower("t.py", mod)
	require.Empty(t, errs)

	entry := prog.Blocks[prog.ModuleEntry]
	inv, ok := entry.Term.(Invoke)
	require.True(t, ok)
	require.Equal(t, Var("f"), inv.Callee)
	require.Equal(t, []Var{"x"}, inv.Args)
	require.Equal(t, CallKind, inv.Kind)
}

// TestLowerFunctionDefRegistersFuncInfo verifies a def statement
// registers a FuncInfo reachable by its MakeFunc's EntryLabel, and binds
// the resulting function value to the def's name.
func TestLowerFunctionDefRegistersFuncInfo(t *testing.T) {
	mod := &ast.Module{
		File: "t.py",
		Body: []ast.Statement{
			&ast.FunctionDef{
				Name:   "greet",
				Params: []*ast.Parameter{{Name: "who"}},
				Body: []ast.Statement{
					&ast.ReturnStatement{Value: ident("who")},
				},
			},
		},
	}
	prog, errs := Lower("t.py", mod)
	require.Empty(t, errs)

	entry := prog.Blocks[prog.ModuleEntry]
	require.Len(t, entry.Instrs, 2)
	mf, ok := entry.Instrs[0].(MakeFunc)
	require.True(t, ok)
	bindMv, ok := entry.Instrs[1].(Move)
	require.True(t, ok)
	require.Equal(t, Var("greet"), bindMv.Dst)
	require.Equal(t, mf.Dst, bindMv.Src)

	fi, ok := prog.Funcs[mf.EntryLabel]
	require.True(t, ok)
	require.Equal(t, "greet", fi.Name)
	require.Len(t, fi.Params, 1)
	require.Equal(t, "who", fi.Params[0].Name)

	body := prog.Blocks[fi.Entry]
	ret, ok := body.Term.(ReturnTerm)
	require.True(t, ok)
	require.Equal(t, Var("who"), ret.Value)
	require.Equal(t, fi.Exit, ret.Exit)
}

// TestLowerClassDefEmitsMakeClass verifies a classdef lowers to a
// MakeClass terminator and registers a two-phase ClassInfo whose body is
// also registered in Funcs under the same label, so the engine's generic
// call machinery can run it.
func TestLowerClassDefEmitsMakeClass(t *testing.T) {
	mod := &ast.Module{
		File: "t.py",
		Body: []ast.Statement{
			&ast.ClassDef{
				Name: "C",
				Body: []ast.Statement{
					&ast.PassStatement{},
				},
			},
		},
	}
	prog, errs := Lower("t.py", mod)
	require.Empty(t, errs)

	entry := prog.Blocks[prog.ModuleEntry]
	mc, ok := entry.Term.(MakeClass)
	require.True(t, ok)
	require.Equal(t, "C", mc.Name)

	ci, ok := prog.Classes[mc.ClassLabel]
	require.True(t, ok)
	require.Equal(t, mc.ClassLabel, ci.Entry)

	fi, ok := prog.Funcs[mc.ClassLabel]
	require.True(t, ok)
	require.Equal(t, ci.Exit, fi.Exit)
}

// TestLowerPropertyDecoratorsCollapseToMakeProperty verifies the
// @property / @x.setter pair is collected into a single MakeProperty
// rather than left as two independent function bindings.
func TestLowerPropertyDecoratorsCollapseToMakeProperty(t *testing.T) {
	getter := &ast.FunctionDef{
		Name:       "x",
		Decorators: []ast.Expression{ident("property")},
		Body:       []ast.Statement{&ast.ReturnStatement{Value: ident("self")}},
	}
	setter := &ast.FunctionDef{
		Name: "x",
		Decorators: []ast.Expression{
			&ast.AttributeExpression{Value: ident("x"), Attr: "setter"},
		},
		Body: []ast.Statement{&ast.PassStatement{}},
	}
	mod := &ast.Module{
		File: "t.py",
		Body: []ast.Statement{
			&ast.ClassDef{Name: "C", Body: []ast.Statement{getter, setter}},
		},
	}
	prog, errs := Lower("t.py", mod)
	require.Empty(t, errs)

	entry := prog.Blocks[prog.ModuleEntry]
	mc, ok := entry.Term.(MakeClass)
	require.True(t, ok)
	body := prog.Blocks[mc.ClassLabel]

	var sawProperty bool
	for _, instr := range body.Instrs {
		if _, ok := instr.(MakeProperty); ok {
			sawProperty = true
		}
		if mf, ok := instr.(MakeFunc); ok {
			_ = mf
		}
	}
	require.True(t, sawProperty, "expected the getter/setter pair to collapse into one MakeProperty")
}

// TestLowerSubscriptReusesGetAttrAndCall verifies obj[idx] lowers
// through __getitem__ attribute access plus an ordinary call rather
// than a bespoke magic-dispatch terminator.
func TestLowerSubscriptReusesGetAttrAndCall(t *testing.T) {
	mod := &ast.Module{
		File: "t.py",
		Body: []ast.Statement{
			&ast.ExpressionStatement{
				Expression: &ast.SubscriptExpression{Value: ident("obj"), Index: ident("idx")},
			},
		},
	}
	prog, errs := Lower("t.py", mod)
	require.Empty(t, errs)

	entry := prog.Blocks[prog.ModuleEntry]
	ga, ok := entry.Term.(GetAttrTerm)
	require.True(t, ok)
	require.Equal(t, "__getitem__", ga.Name)

	next := prog.Blocks[ga.Next]
	inv, ok := next.Term.(Invoke)
	require.True(t, ok)
	require.Equal(t, MagicKind, inv.Kind)
}

// TestLowerForLoopDesugarsToIteratorProtocol verifies `for x in it: ...`
// lowers through explicit __iter__/__next__ calls rather than a native
// loop terminator.
func TestLowerForLoopDesugarsToIteratorProtocol(t *testing.T) {
	mod := &ast.Module{
		File: "t.py",
		Body: []ast.Statement{
			&ast.ForStatement{
				Target: ident("x"),
				Iter:   ident("xs"),
				Body: []ast.Statement{
					&ast.ExpressionStatement{Expression: ident("x")},
				},
			},
		},
	}
	prog, errs := Lower("t.py", mod)
	require.Empty(t, errs)

	entry := prog.Blocks[prog.ModuleEntry]
	ga, ok := entry.Term.(GetAttrTerm)
	require.True(t, ok)
	require.Equal(t, "__iter__", ga.Name)
}

// TestLowerUnsupportedNodeRecordsDiagnosticInsteadOfAborting verifies an
// UnsupportedNode statement degrades to a recorded diagnostic and
// lowering continues with the rest of the module.
func TestLowerUnsupportedNodeRecordsDiagnosticInsteadOfAborting(t *testing.T) {
	mod := &ast.Module{
		File: "t.py",
		Body: []ast.Statement{
			&ast.UnsupportedNode{Detail: "match statement"},
			&ast.AssignStatement{Targets: []ast.Expression{ident("x")}, Value: ident("y")},
		},
	}
	prog, errs := Lower("t.py", mod)
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Message, "match statement")

	entry := prog.Blocks[prog.ModuleEntry]
	require.Len(t, entry.Instrs, 1)
	_, ok := entry.Instrs[0].(Move)
	require.True(t, ok)
}
