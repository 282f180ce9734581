package value

import "testing"

func TestSubsetBottomAndAny(t *testing.T) {
	bot := New()
	any := Any()

	if !bot.Subset(any) {
		t.Error("bottom should be ⊑ Any")
	}
	if any.Subset(bot) {
		t.Error("Any should not be ⊑ bottom")
	}
	if !bot.Subset(bot) {
		t.Error("⊑ should be reflexive on bottom")
	}
	if !any.Subset(any) {
		t.Error("⊑ should be reflexive on Any")
	}
}

func TestJoinUnionsComponents(t *testing.T) {
	a := New()
	a.InjectHeap(1)
	a.InjectPrim(NoneTag)

	b := New()
	b.InjectHeap(2)
	b.InjectPrim(BoolTag)
	b.InjectFunc(7)

	a.Join(b)

	if !a.HasPrim(NoneTag) || !a.HasPrim(BoolTag) {
		t.Errorf("expected both prim tags after join, got %v", a.PrimTags())
	}
	heaps := a.HeapIDs()
	if len(heaps) != 2 {
		t.Errorf("expected 2 heap ids after join, got %v", heaps)
	}
	if len(a.FuncIDs()) != 1 {
		t.Errorf("expected 1 func id after join, got %v", a.FuncIDs())
	}
}

func TestJoinWithAnyAbsorbs(t *testing.T) {
	a := New()
	a.InjectHeap(1)
	a.Join(Any())
	if !a.IsAny() {
		t.Error("joining with Any should make the receiver Any")
	}
}

func TestAnyAbsorbsFurtherInjection(t *testing.T) {
	a := Any()
	a.InjectHeap(5)
	a.InjectPrim(NumTag)
	if len(a.HeapIDs()) != 0 || a.PrimTags() != 0 {
		t.Error("Any must stay Any; injections into it are no-ops")
	}
}

func TestSubsetIsAsymmetricAfterOneSidedInjection(t *testing.T) {
	a := New()
	a.InjectPrim(NumTag)
	b := New()
	b.InjectPrim(NumTag | StrTag)

	if !a.Subset(b) {
		t.Error("{Num} should be ⊑ {Num, Str}")
	}
	if b.Subset(a) {
		t.Error("{Num, Str} should not be ⊑ {Num}")
	}
}

func TestInjectClassMergesNamespacesByIdentifier(t *testing.T) {
	a := New()
	nsA := NewNamespace()
	nsA.Set("x", func() *Value { v := New(); v.InjectPrim(NumTag); return v }())
	a.InjectClass(1, nsA)

	b := New()
	nsB := NewNamespace()
	nsB.Set("y", func() *Value { v := New(); v.InjectPrim(StrTag); return v }())
	b.InjectClass(1, nsB)

	a.Join(b)

	merged, ok := a.ClassNamespace(1)
	if !ok {
		t.Fatal("expected class 1 to be present after join")
	}
	if _, ok := merged.Get("x"); !ok {
		t.Error("merged namespace should retain 'x' from the first class")
	}
	if _, ok := merged.Get("y"); !ok {
		t.Error("merged namespace should pick up 'y' from the joined class")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	a := New()
	a.InjectHeap(1)
	b := a.Clone()
	b.InjectHeap(2)

	if len(a.HeapIDs()) != 1 {
		t.Error("mutating a clone must not affect the original")
	}
}

func TestOrDoesNotMutateArguments(t *testing.T) {
	a := New()
	a.InjectPrim(NoneTag)
	b := New()
	b.InjectPrim(BoolTag)

	c := Or(a, b)

	if a.HasPrim(BoolTag) || b.HasPrim(NoneTag) {
		t.Error("Or must not mutate its arguments")
	}
	if !c.HasPrim(NoneTag) || !c.HasPrim(BoolTag) {
		t.Error("Or's result should carry both tags")
	}
}
