package state

import (
	"testing"

	"github.com/LayneInNL/dmf/internal/attrs"
	"github.com/LayneInNL/dmf/internal/object"
	"github.com/LayneInNL/dmf/internal/value"
)

func heapVal(id value.HeapID) *value.Value {
	v := value.New()
	v.InjectHeap(id)
	return v
}

// TestResolverDrivesGetAttrBindsMethodPerContext exercises the real
// Registry+Heap+Resolver wiring end to end: a method bound off the same
// instance under two different contexts gets two independently keyed
// heap dicts, but resolves through the shared, context-independent
// Registry to the same underlying function.
func TestResolverDrivesGetAttrBindsMethodPerContext(t *testing.T) {
	reg := NewRegistry()
	fn := object.NewAnalysisFunction("greet", 10, 20, nil)
	reg.DefineFunction(fn)

	cls := object.NewClass("C", object.AnalysisClassKind, 1, nil)
	cls.Dict.Set("greet", func() *value.Value {
		v := value.New()
		v.InjectFunc(fn.FuncID)
		return v
	}())
	reg.DefineClass(cls)

	inst := object.NewHeapInstance(object.AnalysisInstanceKind, cls, 100)
	reg.Bind(100, inst)

	heap := NewHeap()
	rCtx1 := NewResolver(reg, heap, Context{1})
	rCtx2 := NewResolver(reg, heap, Context{2})

	res1, descr1 := attrs.GetAttr(heapVal(100), "greet", 999, rCtx1)
	if !descr1.IsBottom() {
		t.Errorf("expected no pending descriptor, got %v", descr1)
	}
	objs1 := rCtx1.Objects(res1)
	if len(objs1) != 1 {
		t.Fatalf("expected exactly one resolved object under ctx1, got %d", len(objs1))
	}
	m1, ok := objs1[0].(*object.Method)
	if !ok {
		t.Fatalf("expected *object.Method, got %T", objs1[0])
	}
	if m1.Func != fn || m1.Receiver != object.Object(inst) {
		t.Errorf("method under ctx1 did not bind to the registered function/instance")
	}

	res2, _ := attrs.GetAttr(heapVal(100), "greet", 999, rCtx2)
	objs2 := rCtx2.Objects(res2)
	m2 := objs2[0].(*object.Method)
	if m2.Func != fn {
		t.Error("both contexts should resolve the bound method to the same underlying function")
	}

	if res1.HeapIDs()[0] != res2.HeapIDs()[0] {
		t.Error("binding a method is context-independent: both contexts should mint the same synthetic heap id")
	}
}

// TestResolverDrivesSetAttrWritesContextKeyedDict verifies that a plain
// attribute write through the Resolver lands in the Heap entry keyed by
// (instance site, resolver's context), and is invisible to a Resolver
// scoped to a different context.
func TestResolverDrivesSetAttrWritesContextKeyedDict(t *testing.T) {
	reg := NewRegistry()
	cls := object.NewClass("C", object.AnalysisClassKind, 2, nil)
	reg.DefineClass(cls)
	inst := object.NewHeapInstance(object.AnalysisInstanceKind, cls, 200)
	reg.Bind(200, inst)

	heap := NewHeap()
	rCtx1 := NewResolver(reg, heap, Context{1})
	rCtx2 := NewResolver(reg, heap, Context{2})

	n := value.New()
	n.InjectPrim(value.NumTag)
	descr := attrs.SetAttr(heapVal(200), "count", n, 1, rCtx1)
	if !descr.IsBottom() {
		t.Errorf("expected no pending descriptor for a plain write, got %v", descr)
	}

	got, ok := rCtx1.ReadDict(200).Get("count")
	if !ok || !got.HasPrim(value.NumTag) {
		t.Error("expected count to be visible through ctx1's dict")
	}
	if _, ok := rCtx2.ReadDict(200).Get("count"); ok {
		t.Error("a write under ctx1 should not be visible through ctx2's dict")
	}
}
