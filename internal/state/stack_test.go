package state

import (
	"testing"

	"github.com/LayneInNL/dmf/internal/value"
)

func TestStackPushPopLeavesOriginalUntouched(t *testing.T) {
	globals, builtins := value.NewNamespace(), value.NewNamespace()
	base := Stack{NewFrame(nil, globals, builtins)}
	pushed := base.Push(NewFrame(base.Top(), globals, builtins))

	if len(base) != 1 {
		t.Errorf("Push should not mutate the original stack, got length %d", len(base))
	}
	if len(pushed) != 2 {
		t.Errorf("expected pushed stack of length 2, got %d", len(pushed))
	}
	popped := pushed.Pop()
	if len(popped) != 1 || popped.Top() != base.Top() {
		t.Error("Pop should return to the caller's frame")
	}
}

func TestStackCloneTopIsIndependentOfRestOfStack(t *testing.T) {
	globals, builtins := value.NewNamespace(), value.NewNamespace()
	callerFrame := NewFrame(nil, globals, builtins)
	callerFrame.SetLocal("x", numVal())
	calleeFrame := NewFrame(nil, globals, builtins)
	calleeFrame.SetLocal("y", numVal())
	s := Stack{callerFrame, calleeFrame}

	cp := s.CloneTop()
	cp.Top().SetLocal("y", strVal())

	if cp[0] != s[0] {
		t.Error("CloneTop should share every frame but the top by reference")
	}
	v, _ := s.Top().Get("y")
	if v.HasPrim(value.StrTag) {
		t.Error("mutating the cloned top frame leaked into the original stack")
	}
}

func TestStackJoinAndSubset(t *testing.T) {
	globals, builtins := value.NewNamespace(), value.NewNamespace()
	a := Stack{NewFrame(nil, globals, builtins)}
	a.Top().SetLocal("x", numVal())
	b := Stack{NewFrame(nil, globals, builtins)}
	b.Top().SetLocal("x", strVal())

	if a.Subset(b) {
		t.Error("a should not be a subset of b before joining")
	}
	a.Join(b)
	v, _ := a.Top().Get("x")
	if !v.HasPrim(value.NumTag) || !v.HasPrim(value.StrTag) {
		t.Errorf("joined stack top should carry both tags, got %v", v)
	}
}

func TestStackSubsetRequiresEqualDepth(t *testing.T) {
	globals, builtins := value.NewNamespace(), value.NewNamespace()
	shallow := Stack{NewFrame(nil, globals, builtins)}
	deep := Stack{NewFrame(nil, globals, builtins), NewFrame(nil, globals, builtins)}
	if shallow.Subset(deep) || deep.Subset(shallow) {
		t.Error("stacks of different call depth should be incomparable")
	}
}
