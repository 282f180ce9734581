package state

import (
	"testing"

	"github.com/LayneInNL/dmf/internal/value"
)

func TestNewStateSeedsSingleFrameAndEmptyHeap(t *testing.T) {
	entry := NewFrame(nil, value.NewNamespace(), value.NewNamespace())
	s := NewState(entry)
	if len(s.Stack) != 1 || s.Stack.Top() != entry {
		t.Error("NewState should seed a single-frame stack pointing at entry")
	}
	if s.Bottom() {
		t.Error("a freshly seeded state should not be bottom")
	}
}

func TestStateBottomOnNilOrEmptyStack(t *testing.T) {
	var nilState *State
	if !nilState.Bottom() {
		t.Error("a nil state should be bottom")
	}
	empty := &State{Stack: Stack{}, Heap: NewHeap()}
	if !empty.Bottom() {
		t.Error("a state with an empty stack should be bottom")
	}
}

func TestStateCloneTopSharesHeapPointer(t *testing.T) {
	entry := NewFrame(nil, value.NewNamespace(), value.NewNamespace())
	s := NewState(entry)
	cp := s.CloneTop()
	if cp.Heap != s.Heap {
		t.Error("CloneTop should share the same Heap pointer")
	}
	if cp.Stack.Top() == s.Stack.Top() {
		t.Error("CloneTop should duplicate the top frame")
	}
}

func TestStateCloneIsFullyIndependent(t *testing.T) {
	entry := NewFrame(nil, value.NewNamespace(), value.NewNamespace())
	entry.SetLocal("x", numVal())
	s := NewState(entry)
	key := SiteKey(1, RootContext())
	s.Heap.Read(key).Set("y", numVal())

	cp := s.Clone()
	if cp.Heap == s.Heap {
		t.Error("Clone should not share the Heap pointer")
	}
	cp.Stack.Top().SetLocal("x", strVal())
	cpY, _ := cp.Heap.Read(key).Get("y")
	cpY.Join(strVal())

	origX, _ := s.Stack.Top().Get("x")
	origY, _ := s.Heap.Read(key).Get("y")
	if origX.HasPrim(value.StrTag) {
		t.Error("mutating the clone's stack should not affect the original")
	}
	if origY.HasPrim(value.StrTag) {
		t.Error("mutating the clone's heap should not affect the original")
	}
}

func TestStateJoinAndSubset(t *testing.T) {
	entryA := NewFrame(nil, value.NewNamespace(), value.NewNamespace())
	entryA.SetLocal("x", numVal())
	a := NewState(entryA)

	entryB := NewFrame(nil, value.NewNamespace(), value.NewNamespace())
	entryB.SetLocal("x", strVal())
	b := NewState(entryB)

	if a.Subset(b) {
		t.Error("a should not be a subset of b before joining")
	}
	joined := Or(a, b)
	v, _ := joined.Stack.Top().Get("x")
	if !v.HasPrim(value.NumTag) || !v.HasPrim(value.StrTag) {
		t.Errorf("Or(a, b) should carry both tags, got %v", v)
	}
	if !a.Subset(joined) || !b.Subset(joined) {
		t.Error("both operands should be ⊑ their join")
	}

	origX, _ := a.Stack.Top().Get("x")
	if origX.HasPrim(value.StrTag) {
		t.Error("Or should not mutate its operands")
	}
}
