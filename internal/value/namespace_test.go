package value

import "testing"

func numValue() *Value {
	v := New()
	v.InjectPrim(NumTag)
	return v
}

func TestNamespaceSubset(t *testing.T) {
	n := NewNamespace()
	n.Set("x", numValue())

	other := NewNamespace()
	other.Set("x", numValue())
	other.Set("y", numValue())

	if !n.Subset(other) {
		t.Error("a namespace missing a binding other has should still be ⊑ as long as shared bindings are ⊑")
	}
	if other.Subset(n) {
		t.Error("other has a binding n lacks, so other should not be ⊑ n")
	}
}

func TestNamespaceJoinAddsAndMerges(t *testing.T) {
	n := NewNamespace()
	n.Set("x", numValue())

	other := NewNamespace()
	strVal := New()
	strVal.InjectPrim(StrTag)
	other.Set("x", strVal)
	other.Set("y", numValue())

	n.Join(other)

	x, _ := n.Get("x")
	if !x.HasPrim(NumTag) || !x.HasPrim(StrTag) {
		t.Errorf("joined binding for x should carry both tags, got %v", x)
	}
	if _, ok := n.Get("y"); !ok {
		t.Error("join should adopt bindings only present in the other namespace")
	}
}

func TestNamespaceCloneIndependence(t *testing.T) {
	n := NewNamespace()
	n.Set("x", numValue())
	cp := n.Clone()

	strVal := New()
	strVal.InjectPrim(StrTag)
	cp.Set("x", strVal)

	x, _ := n.Get("x")
	if x.HasPrim(StrTag) {
		t.Error("mutating a clone's binding must not affect the original namespace")
	}
}

func TestNamespaceDelete(t *testing.T) {
	n := NewNamespace()
	n.Set("x", numValue())
	n.Delete("x")
	if _, ok := n.Get("x"); ok {
		t.Error("deleted binding should no longer be present")
	}
}
