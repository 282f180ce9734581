package attrs

import (
	"testing"

	"github.com/LayneInNL/dmf/internal/object"
	"github.com/LayneInNL/dmf/internal/value"
)

// fakeResolver is a minimal in-memory Resolver: heap ids resolve through
// a plain map populated either by the test fixture or by Bind, function
// and class ids resolve through their own maps, and instance dicts live
// in a third map keyed by heap id.
type fakeResolver struct {
	heap    map[value.HeapID]object.Object
	funcs   map[value.FuncID]*object.Function
	classes map[value.ClassID]*object.Class
	dicts   map[value.HeapID]*value.Namespace
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		heap:    map[value.HeapID]object.Object{},
		funcs:   map[value.FuncID]*object.Function{},
		classes: map[value.ClassID]*object.Class{},
		dicts:   map[value.HeapID]*value.Namespace{},
	}
}

func (r *fakeResolver) Objects(v *value.Value) []object.Object {
	var out []object.Object
	for _, id := range v.HeapIDs() {
		if o, ok := r.heap[id]; ok {
			out = append(out, o)
		}
	}
	for _, id := range v.FuncIDs() {
		if f, ok := r.funcs[id]; ok {
			out = append(out, f)
		}
	}
	for id := range v.Classes() {
		if c, ok := r.classes[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

func (r *fakeResolver) ReadDict(heapID value.HeapID) *value.Namespace {
	ns, ok := r.dicts[heapID]
	if !ok {
		ns = value.NewNamespace()
		r.dicts[heapID] = ns
	}
	return ns
}

func (r *fakeResolver) WriteDict(heapID value.HeapID, ns *value.Namespace) {
	r.dicts[heapID] = ns
}

func (r *fakeResolver) Bind(heapID value.HeapID, obj object.Object) {
	r.heap[heapID] = obj
}

func heapVal(id value.HeapID) *value.Value {
	v := value.New()
	v.InjectHeap(id)
	return v
}

func funcVal(id value.FuncID) *value.Value {
	v := value.New()
	v.InjectFunc(id)
	return v
}

func asMethod(t *testing.T, objs []object.Object) *object.Method {
	t.Helper()
	if len(objs) != 1 {
		t.Fatalf("expected exactly one resolved object, got %d", len(objs))
	}
	m, ok := objs[0].(*object.Method)
	if !ok {
		t.Fatalf("expected *object.Method, got %T", objs[0])
	}
	return m
}

func TestGenericGetAttrBindsMethod(t *testing.T) {
	r := newFakeResolver()
	fn := object.NewAnalysisFunction("foo", 10, 20, nil)
	r.funcs[fn.FuncID] = fn

	cls := object.NewClass("C", object.AnalysisClassKind, 1, nil)
	cls.Dict.Set("foo", funcVal(fn.FuncID))

	inst := object.NewHeapInstance(object.AnalysisInstanceKind, cls, 100)
	r.heap[100] = inst

	res, descr := GetAttr(heapVal(100), "foo", 999, r)

	if !descr.IsBottom() {
		t.Errorf("expected no pending descriptor, got %v", descr)
	}
	m := asMethod(t, r.Objects(res))
	if m.Func != fn {
		t.Errorf("bound method's Func = %v, want %v", m.Func, fn)
	}
	if m.Receiver != object.Object(inst) {
		t.Errorf("bound method's Receiver = %v, want %v", m.Receiver, inst)
	}
}

func TestGenericGetAttrBindingIsDeterministicAcrossCalls(t *testing.T) {
	r := newFakeResolver()
	fn := object.NewAnalysisFunction("foo", 10, 20, nil)
	r.funcs[fn.FuncID] = fn
	cls := object.NewClass("C", object.AnalysisClassKind, 1, nil)
	cls.Dict.Set("foo", funcVal(fn.FuncID))
	inst := object.NewHeapInstance(object.AnalysisInstanceKind, cls, 100)
	r.heap[100] = inst

	res1, _ := GetAttr(heapVal(100), "foo", 999, r)
	res2, _ := GetAttr(heapVal(100), "foo", 999, r)
	if res1.HeapIDs()[0] != res2.HeapIDs()[0] {
		t.Errorf("revisiting the same (site, function) minted a different heap id: %v vs %v", res1, res2)
	}
}

func TestPropertyGetterEmitsDescriptor(t *testing.T) {
	r := newFakeResolver()
	fget := object.NewAnalysisFunction("getter", 30, 40, nil)
	r.funcs[fget.FuncID] = fget

	prop := object.NewProperty()
	prop.FGet.Join(funcVal(fget.FuncID))
	r.heap[200] = prop

	cls := object.NewClass("C", object.AnalysisClassKind, 2, nil)
	cls.Dict.Set("x", heapVal(200))

	inst := object.NewHeapInstance(object.AnalysisInstanceKind, cls, 101)
	r.heap[101] = inst

	res, descr := GetAttr(heapVal(101), "x", 5000, r)
	if !res.IsBottom() {
		t.Errorf("property access with no instance-dict override should resolve to nothing directly, got %v", res)
	}

	objs := r.Objects(descr)
	if len(objs) != 1 {
		t.Fatalf("expected exactly one pending descriptor, got %d", len(objs))
	}
	dg, ok := objs[0].(*object.DescriptorGetter)
	if !ok {
		t.Fatalf("expected *object.DescriptorGetter, got %T", objs[0])
	}
	if dg.Instance.HeapIDs()[0] != 101 {
		t.Errorf("descriptor's bound instance = %v, want heap id 101", dg.Instance)
	}
	if _, ok := dg.Owner.ClassNamespace(2); !ok {
		t.Errorf("descriptor's owner should carry class id 2, got %v", dg.Owner)
	}
}

func TestClassmethodBindsToClassNotInstance(t *testing.T) {
	r := newFakeResolver()
	fn := object.NewAnalysisFunction("make", 50, 60, nil)
	r.funcs[fn.FuncID] = fn

	cls := object.NewClass("C", object.AnalysisClassKind, 3, nil)
	r.classes[3] = cls
	cm := object.NewClassmethod(funcVal(fn.FuncID))
	r.heap[300] = cm
	cls.Dict.Set("make", heapVal(300))

	classVal := value.New()
	classVal.InjectClass(3, cls.Dict)

	res, descr := GetAttr(classVal, "make", 42, r)
	if !descr.IsBottom() {
		t.Errorf("expected no pending descriptor, got %v", descr)
	}
	m := asMethod(t, r.Objects(res))
	if m.Receiver != object.Object(cls) {
		t.Errorf("classmethod should bind to the class, got receiver %v", m.Receiver)
	}
}

func TestStaticmethodUnwrapsToPlainFunction(t *testing.T) {
	r := newFakeResolver()
	fn := object.NewAnalysisFunction("util", 70, 80, nil)
	r.funcs[fn.FuncID] = fn

	sm := object.NewStaticmethod(funcVal(fn.FuncID))
	r.heap[400] = sm

	cls := object.NewClass("C", object.AnalysisClassKind, 4, nil)
	cls.Dict.Set("util", heapVal(400))
	inst := object.NewHeapInstance(object.AnalysisInstanceKind, cls, 102)
	r.heap[102] = inst

	res, descr := GetAttr(heapVal(102), "util", 7, r)
	if !descr.IsBottom() {
		t.Errorf("expected no pending descriptor, got %v", descr)
	}
	if len(res.FuncIDs()) != 1 || res.FuncIDs()[0] != fn.FuncID {
		t.Errorf("staticmethod access should resolve directly to the function, got %v", res)
	}
}

func TestSuperSkipsToBoundInstance(t *testing.T) {
	r := newFakeResolver()
	base := object.NewClass("Base", object.AnalysisClassKind, 5, nil)
	fn := object.NewAnalysisFunction("greet", 90, 95, nil)
	r.funcs[fn.FuncID] = fn
	base.Dict.Set("greet", funcVal(fn.FuncID))

	derived := object.NewClass("Derived", object.AnalysisClassKind, 6, [][]*object.Class{{base}})
	inst := object.NewHeapInstance(object.AnalysisInstanceKind, derived, 103)
	r.heap[103] = inst

	superMRO := []*object.Class{derived, base}
	sup := object.NewSuper(derived, inst, superMRO, 1)
	r.heap[500] = sup

	res, descr := GetAttr(heapVal(500), "greet", 11, r)
	if !descr.IsBottom() {
		t.Errorf("expected no pending descriptor, got %v", descr)
	}
	m := asMethod(t, r.Objects(res))
	if m.Receiver != object.Object(inst) {
		t.Errorf("super-bound method should bind to the original instance, not the proxy, got %v", m.Receiver)
	}
}

func TestGetAttrOnAnyPassesThrough(t *testing.T) {
	r := newFakeResolver()
	res, descr := GetAttr(value.Any(), "whatever", 0, r)
	if !res.IsAny() || !descr.IsAny() {
		t.Errorf("GetAttr on Any should return (Any, Any), got (%v, %v)", res, descr)
	}
}

func TestSetAttrPlainWriteGoesToInstanceDict(t *testing.T) {
	r := newFakeResolver()
	cls := object.NewClass("C", object.AnalysisClassKind, 7, nil)
	inst := object.NewHeapInstance(object.AnalysisInstanceKind, cls, 104)
	r.heap[104] = inst

	n := value.New()
	n.InjectPrim(value.NumTag)

	descr := SetAttr(heapVal(104), "count", n, 1, r)
	if !descr.IsBottom() {
		t.Errorf("expected no pending descriptor for a plain attribute write, got %v", descr)
	}

	dict := r.ReadDict(104)
	got, ok := dict.Get("count")
	if !ok {
		t.Fatal("expected count to be written into the instance's heap dict")
	}
	if !got.HasPrim(value.NumTag) {
		t.Errorf("written value lost its Num tag: %v", got)
	}
}

func TestSetAttrThroughPropertySetterEmitsDescriptor(t *testing.T) {
	r := newFakeResolver()
	fset := object.NewAnalysisFunction("setter", 110, 120, nil)
	r.funcs[fset.FuncID] = fset

	prop := object.NewProperty()
	prop.FSet.Join(funcVal(fset.FuncID))
	r.heap[600] = prop

	cls := object.NewClass("C", object.AnalysisClassKind, 8, nil)
	cls.Dict.Set("x", heapVal(600))
	inst := object.NewHeapInstance(object.AnalysisInstanceKind, cls, 105)
	r.heap[105] = inst

	n := value.New()
	n.InjectPrim(value.StrTag)

	descr := SetAttr(heapVal(105), "x", n, 2, r)
	objs := r.Objects(descr)
	if len(objs) != 1 {
		t.Fatalf("expected exactly one pending setter descriptor, got %d", len(objs))
	}
	ds, ok := objs[0].(*object.DescriptorSetter)
	if !ok {
		t.Fatalf("expected *object.DescriptorSetter, got %T", objs[0])
	}
	if !ds.Value.HasPrim(value.StrTag) {
		t.Errorf("descriptor setter lost the written value, got %v", ds.Value)
	}

	if _, ok := r.ReadDict(105).Get("x"); ok {
		t.Errorf("a property write should not also land in the instance's own dict")
	}
}
