package typeshed

import (
	"github.com/LayneInNL/dmf/internal/ast"
	"github.com/LayneInNL/dmf/internal/config"
)

// evalGuard best-effort evaluates a stub file's `if` test against the
// active LanguageVersion/Platform, recognizing the two forms typeshed
// actually uses: `sys.version_info` compared against a tuple literal,
// and `sys.platform` compared against a string literal. Anything else
// returns ok=false, and the caller takes BOTH branches — a sound
// over-approximation (duplicate bindings just get merged/overwritten)
// rather than risk silently dropping a real declaration behind a guard
// this evaluator doesn't understand.
func evalGuard(test ast.Expression, cfgCtx *config.Context) (result bool, ok bool) {
	bin, isBin := test.(*ast.BinaryExpression)
	if !isBin {
		return false, false
	}

	if isSysAttr(bin.Left, "version_info") {
		want, isTuple := tupleInts(bin.Right)
		if !isTuple {
			return false, false
		}
		return compareVersion(cfgCtx.LanguageVersion, bin.Op, want), true
	}
	if isSysAttr(bin.Left, "platform") {
		str, isStr := bin.Right.(*ast.StringLiteral)
		if !isStr {
			return false, false
		}
		return comparePlatform(cfgCtx.Platform, bin.Op, str.Value), true
	}
	return false, false
}

func isSysAttr(e ast.Expression, attr string) bool {
	a, ok := e.(*ast.AttributeExpression)
	if !ok || a.Attr != attr {
		return false
	}
	id, ok := a.Value.(*ast.Identifier)
	return ok && id.Name == "sys"
}

func tupleInts(e ast.Expression) ([]int, bool) {
	tup, ok := e.(*ast.TupleExpression)
	if !ok {
		return nil, false
	}
	out := make([]int, 0, len(tup.Elements))
	for _, el := range tup.Elements {
		lit, ok := el.(*ast.IntLiteral)
		if !ok {
			return nil, false
		}
		out = append(out, int(lit.Value))
	}
	return out, true
}

func compareVersion(v config.LanguageVersion, op string, want []int) bool {
	major, minor := v.Major, v.Minor
	var wantMajor, wantMinor int
	if len(want) > 0 {
		wantMajor = want[0]
	}
	if len(want) > 1 {
		wantMinor = want[1]
	}
	got := [2]int{major, minor}
	w := [2]int{wantMajor, wantMinor}
	lt := got[0] < w[0] || (got[0] == w[0] && got[1] < w[1])
	eq := got == w
	switch op {
	case ">=":
		return !lt
	case ">":
		return !lt && !eq
	case "<=":
		return lt || eq
	case "<":
		return lt
	case "==":
		return eq
	case "!=":
		return !eq
	default:
		return false
	}
}

func comparePlatform(platform, op, want string) bool {
	switch op {
	case "==":
		return platform == want
	case "!=":
		return platform != want
	default:
		return false
	}
}
