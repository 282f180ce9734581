// Package builtins constructs the Namespace internal/engine consults as
// the last link in a frame's LEGB chain: the host-modeled free functions
// every program can call without an import, the same role
// internal/object's artificial classes (see internal/engine/containers.go)
// play for list/tuple/set/dict literals.
package builtins

import (
	"github.com/LayneInNL/dmf/internal/object"
	"github.com/LayneInNL/dmf/internal/state"
	"github.com/LayneInNL/dmf/internal/value"
)

// nextFuncID allocates from a reserved negative range, disjoint from
// internal/engine's container/property ranges and internal/typeshed's
// stub-object range (see those packages' own id-range comments).
var nextFuncID value.FuncID = -2_000_000_000

func allocFuncID() value.FuncID {
	nextFuncID--
	return nextFuncID
}

// New registers every builtin into registry and returns the Namespace
// binding each name to its function value. Registry is the same
// *state.Registry the Engine resolves FuncIDs against, so a builtin call
// dispatches through the ordinary Invoke machinery like any other call.
func New(registry *state.Registry) *value.Namespace {
	ns := value.NewNamespace()
	for _, b := range table {
		fn := object.NewArtificialFunction(b.name, allocFuncID(), b.native)
		registry.DefineFunction(fn)
		v := value.New()
		v.InjectFunc(fn.FuncID)
		ns.Set(b.name, v)
	}
	return ns
}

type builtin struct {
	name   string
	native object.NativeFn
}

func tagged(tag value.PrimTag) (*value.Value, error) {
	v := value.New()
	v.InjectPrim(tag)
	return v, nil
}

// table lists every free function the host models natively. Each native
// is stateless and Heap/Ctx-free, matching object.NativeFn's signature —
// container-reading builtins (len of an actual list) can't be more
// precise than "some Num" without a Heap handle, the same documented
// simplification internal/engine/containers.go makes for __iter__/__next__.
var table = []builtin{
	{"len", func(args []*value.Value, kwargs map[string]*value.Value) (*value.Value, error) {
		return tagged(value.NumTag)
	}},
	{"isinstance", func(args []*value.Value, kwargs map[string]*value.Value) (*value.Value, error) {
		return tagged(value.BoolTag)
	}},
	{"issubclass", func(args []*value.Value, kwargs map[string]*value.Value) (*value.Value, error) {
		return tagged(value.BoolTag)
	}},
	{"callable", func(args []*value.Value, kwargs map[string]*value.Value) (*value.Value, error) {
		return tagged(value.BoolTag)
	}},
	{"hasattr", func(args []*value.Value, kwargs map[string]*value.Value) (*value.Value, error) {
		return tagged(value.BoolTag)
	}},
	{"str", func(args []*value.Value, kwargs map[string]*value.Value) (*value.Value, error) {
		return tagged(value.StrTag)
	}},
	{"repr", func(args []*value.Value, kwargs map[string]*value.Value) (*value.Value, error) {
		return tagged(value.StrTag)
	}},
	{"abs", func(args []*value.Value, kwargs map[string]*value.Value) (*value.Value, error) {
		return tagged(value.NumTag)
	}},
	{"id", func(args []*value.Value, kwargs map[string]*value.Value) (*value.Value, error) {
		return tagged(value.NumTag)
	}},
	{"hash", func(args []*value.Value, kwargs map[string]*value.Value) (*value.Value, error) {
		return tagged(value.NumTag)
	}},
	{"ord", func(args []*value.Value, kwargs map[string]*value.Value) (*value.Value, error) {
		return tagged(value.NumTag)
	}},
	{"chr", func(args []*value.Value, kwargs map[string]*value.Value) (*value.Value, error) {
		return tagged(value.StrTag)
	}},
	// getattr/setattr/delattr, print, vars/globals/locals/dir, min/max/
	// sum, sorted/reversed, iter/next, open, and the numeric/container
	// constructors (int/float/bool/list/tuple/set/dict) all degrade to
	// Any: their result shape genuinely depends on an argument this
	// native signature can't see (no Heap/Registry access), the same
	// constraint object.NativeFn documents for __iter__/__next__.
	{"getattr", anyNative},
	{"setattr", anyNative},
	{"delattr", anyNative},
	{"print", anyNative},
	{"vars", anyNative},
	{"globals", anyNative},
	{"locals", anyNative},
	{"dir", anyNative},
	{"min", anyNative},
	{"max", anyNative},
	{"sum", anyNative},
	{"sorted", anyNative},
	{"reversed", anyNative},
	{"iter", anyNative},
	{"next", anyNative},
	{"open", anyNative},
	{"int", anyNative},
	{"float", anyNative},
	{"bool", anyNative},
	{"list", anyNative},
	{"tuple", anyNative},
	{"set", anyNative},
	{"dict", anyNative},
	{"range", anyNative},
	{"enumerate", anyNative},
	{"zip", anyNative},
	{"map", anyNative},
	{"filter", anyNative},
	{"type", anyNative},
	{"super", anyNative},
}

func anyNative(args []*value.Value, kwargs map[string]*value.Value) (*value.Value, error) {
	return value.Any(), nil
}
