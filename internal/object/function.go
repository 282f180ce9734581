package object

import (
	"github.com/google/uuid"

	"github.com/LayneInNL/dmf/internal/value"
)

// NativeFn is the transfer function signature an ArtificialFunction
// carries, implemented by internal/builtins. It receives already-
// resolved positional and keyword argument values and returns the
// abstract result (or an error for a host-modeled runtime exception).
type NativeFn func(args []*value.Value, kwargs map[string]*value.Value) (*value.Value, error)

// Function models an AnalysisFunction (user-defined, carrying its CFG
// entry/exit labels) or an ArtificialFunction (host-modeled, carrying a
// native transfer function instead of a body). FuncID is the function
// identifier a Value's function-id component stores: the entry label
// for an AnalysisFunction, or a registry-assigned stable id (outside
// the CFG label space) for an ArtificialFunction.
type Function struct {
	id     uuid.UUID
	Origin Kind
	Name   string
	FuncID value.FuncID

	EntryLabel int
	ExitLabel  int
	Defaults   []*value.Value

	Native NativeFn
}

// NewAnalysisFunction constructs a user-defined function tied to a CFG
// entry/exit label pair; its FuncID is the entry label itself.
func NewAnalysisFunction(name string, entry, exit int, defaults []*value.Value) *Function {
	return &Function{id: newID(), Origin: AnalysisFunctionKind, Name: name, FuncID: entry, EntryLabel: entry, ExitLabel: exit, Defaults: defaults}
}

// NewArtificialFunction constructs a host-modeled builtin function.
// funcID must be stable across the process and disjoint from the CFG
// label space (internal/builtins assigns these from a reserved range).
func NewArtificialFunction(name string, funcID value.FuncID, native NativeFn) *Function {
	return &Function{id: newID(), Origin: ArtificialFunctionKind, Name: name, FuncID: funcID, Native: native}
}

func (f *Function) ID() uuid.UUID { return f.id }
func (f *Function) Kind() Kind    { return f.Origin }

// Method is a bound (function, receiver) pair produced by the implicit
// __get__ of a function descriptor: AnalysisMethod/ArtificialMethod
// according to the underlying function's origin.
type Method struct {
	id       uuid.UUID
	Origin   Kind
	Func     *Function
	Receiver Object
}

// NewMethod binds fn to receiver, tagging the method's kind to match
// the function's origin.
func NewMethod(fn *Function, receiver Object) *Method {
	origin := AnalysisMethodKind
	if fn.Origin == ArtificialFunctionKind {
		origin = ArtificialMethodKind
	}
	return &Method{id: newID(), Origin: origin, Func: fn, Receiver: receiver}
}

func (m *Method) ID() uuid.UUID { return m.id }
func (m *Method) Kind() Kind    { return m.Origin }
