package state

import (
	"testing"

	"github.com/LayneInNL/dmf/internal/value"
)

func TestHeapReadLazilyAllocatesEmptyNamespace(t *testing.T) {
	h := NewHeap()
	key := SiteKey(1, RootContext())
	ns := h.Read(key)
	if ns == nil {
		t.Fatal("Read should never return nil")
	}
	if v, ok := ns.Get("x"); ok {
		t.Errorf("freshly allocated namespace should be empty, found %v", v)
	}
	if h.Read(key) != ns {
		t.Error("repeated Read of the same key should return the same namespace instance")
	}
}

func TestHeapWriteReplacesNamespace(t *testing.T) {
	h := NewHeap()
	key := SiteKey(1, RootContext())
	ns := value.NewNamespace()
	ns.Set("x", numVal())
	h.Write(key, ns)
	if h.Read(key) != ns {
		t.Error("Write should install the given namespace outright")
	}
}

func TestHeapDistinguishesContexts(t *testing.T) {
	h := NewHeap()
	a := SiteKey(1, Context{1})
	b := SiteKey(1, Context{2})
	h.Read(a).Set("x", numVal())
	h.Read(b).Set("x", strVal())

	va, _ := h.Read(a).Get("x")
	vb, _ := h.Read(b).Get("x")
	if !va.HasPrim(value.NumTag) || va.HasPrim(value.StrTag) {
		t.Error("distinct contexts at the same site should not share a namespace")
	}
	if !vb.HasPrim(value.StrTag) {
		t.Error("context b's write should be visible under context b")
	}
}

func TestHeapJoinMirrorsPerInstanceFieldJoin(t *testing.T) {
	key := SiteKey(1, RootContext())
	h1 := NewHeap()
	h1.Read(key).Set("x", numVal())
	h2 := NewHeap()
	h2.Read(key).Set("x", strVal())

	h1.Join(h2)
	v, _ := h1.Read(key).Get("x")
	if !v.HasPrim(value.NumTag) || !v.HasPrim(value.StrTag) {
		t.Errorf("joined heap should carry both tags at the shared key, got %v", v)
	}
}

func TestHeapJoinAdoptsKeysOnlyInOther(t *testing.T) {
	onlyInOther := SiteKey(2, RootContext())
	h1 := NewHeap()
	h2 := NewHeap()
	h2.Read(onlyInOther).Set("y", numVal())

	h1.Join(h2)
	if _, ok := h1.singletons[onlyInOther]; !ok {
		t.Error("Join should adopt keys present only in other")
	}
	h1.Read(onlyInOther).Set("y", strVal())
	v, _ := h2.Read(onlyInOther).Get("y")
	if v.HasPrim(value.StrTag) {
		t.Error("adopted namespace should be cloned, not shared with other")
	}
}

func TestHeapSubsetAndClone(t *testing.T) {
	key := SiteKey(1, RootContext())
	small := NewHeap()
	small.Read(key).Set("x", numVal())
	big := small.Clone()
	widened, _ := big.Read(key).Get("x")
	widened.Join(strVal())

	if !small.Subset(big) {
		t.Error("expected small ⊑ big after clone-and-widen")
	}
	if big.Subset(small) {
		t.Error("expected big ⋢ small")
	}

	smallVal, _ := small.Read(key).Get("x")
	if smallVal.HasPrim(value.StrTag) {
		t.Error("Clone should be independent of the original")
	}
}
