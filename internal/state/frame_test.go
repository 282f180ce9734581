package state

import (
	"testing"

	"github.com/LayneInNL/dmf/internal/value"
)

func numVal() *value.Value {
	v := value.New()
	v.InjectPrim(value.NumTag)
	return v
}

func strVal() *value.Value {
	v := value.New()
	v.InjectPrim(value.StrTag)
	return v
}

func TestFrameGetFollowsLEGB(t *testing.T) {
	builtins := value.NewNamespace()
	builtins.Set("len", numVal())
	globals := value.NewNamespace()
	globals.Set("g", strVal())

	outer := NewFrame(nil, globals, builtins)
	outer.SetLocal("enclosed", numVal())
	inner := NewFrame(outer, globals, builtins)
	inner.SetLocal("local", strVal())

	if _, ok := inner.Get("local"); !ok {
		t.Error("expected to find a frame's own local")
	}
	if _, ok := inner.Get("enclosed"); !ok {
		t.Error("expected to find an enclosing frame's local")
	}
	if _, ok := inner.Get("g"); !ok {
		t.Error("expected to find a module global")
	}
	if _, ok := inner.Get("len"); !ok {
		t.Error("expected to find a builtin")
	}
	if _, ok := inner.Get("missing"); ok {
		t.Error("expected lookup of an unbound name to fail")
	}
}

func TestFrameLocalShadowsEnclosingAndGlobal(t *testing.T) {
	builtins := value.NewNamespace()
	globals := value.NewNamespace()
	globals.Set("x", numVal())

	outer := NewFrame(nil, globals, builtins)
	outer.SetLocal("x", numVal())
	inner := NewFrame(outer, globals, builtins)
	inner.SetLocal("x", strVal())

	v, ok := inner.Get("x")
	if !ok {
		t.Fatal("expected x to resolve")
	}
	if v.HasPrim(value.NumTag) {
		t.Error("inner frame's own local should shadow the enclosing frame's binding")
	}
	if !v.HasPrim(value.StrTag) {
		t.Error("expected inner's locally bound value")
	}
}

func TestFrameCloneIsIndependent(t *testing.T) {
	globals, builtins := value.NewNamespace(), value.NewNamespace()
	f := NewFrame(nil, globals, builtins)
	f.SetLocal("x", numVal())

	cp := f.Clone()
	cp.SetLocal("x", strVal())

	orig, _ := f.Get("x")
	clone, _ := cp.Get("x")
	if !orig.HasPrim(value.NumTag) || orig.HasPrim(value.StrTag) {
		t.Error("mutating the clone's locals should not affect the original")
	}
	if !clone.HasPrim(value.StrTag) {
		t.Error("clone should carry its own mutated value")
	}
}

func TestFrameJoinMergesReturnValue(t *testing.T) {
	globals, builtins := value.NewNamespace(), value.NewNamespace()
	a := NewFrame(nil, globals, builtins)
	a.ReturnValue = numVal()
	b := NewFrame(nil, globals, builtins)
	b.ReturnValue = strVal()

	a.Join(b)
	if !a.ReturnValue.HasPrim(value.NumTag) || !a.ReturnValue.HasPrim(value.StrTag) {
		t.Errorf("joined return value should carry both tags, got %v", a.ReturnValue)
	}
}

func TestFrameSubset(t *testing.T) {
	globals, builtins := value.NewNamespace(), value.NewNamespace()
	small := NewFrame(nil, globals, builtins)
	small.SetLocal("x", numVal())
	big := NewFrame(nil, globals, builtins)
	merged := numVal()
	merged.Join(strVal())
	big.SetLocal("x", merged)

	if !small.Subset(big) {
		t.Error("expected small ⊑ big")
	}
	if big.Subset(small) {
		t.Error("expected big ⋢ small")
	}
}
