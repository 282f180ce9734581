package state

import "github.com/LayneInNL/dmf/internal/value"

// Frame is a single call's namespace: its own locals, a link to the
// lexically enclosing frame (for closures — the "E" of LEGB), and
// pointers to the defining module's global namespace and the shared
// builtins namespace. ReturnValue is the distinguished slot the exit
// label publishes a function's return value into, per spec §4.4
// ("Return").
type Frame struct {
	Locals   *value.Namespace
	Outer    *Frame
	Globals  *value.Namespace
	Builtins *value.Namespace

	ReturnValue *value.Value
}

// NewFrame builds a fresh, empty-locals frame. outer is nil for a
// module-level or non-closure call.
func NewFrame(outer *Frame, globals, builtins *value.Namespace) *Frame {
	return &Frame{Locals: value.NewNamespace(), Outer: outer, Globals: globals, Builtins: builtins}
}

// Get resolves name by LEGB: this frame's locals, then each enclosing
// frame's locals, then the module globals, then builtins.
func (f *Frame) Get(name string) (*value.Value, bool) {
	for fr := f; fr != nil; fr = fr.Outer {
		if v, ok := fr.Locals.Get(name); ok {
			return v, true
		}
	}
	if v, ok := f.Globals.Get(name); ok {
		return v, true
	}
	if v, ok := f.Builtins.Get(name); ok {
		return v, true
	}
	return nil, false
}

// SetLocal binds name in this frame's own locals.
func (f *Frame) SetLocal(name string, v *value.Value) {
	f.Locals.Set(name, v)
}

// SetGlobal binds name in the module's global namespace, for an
// explicit `global` declaration.
func (f *Frame) SetGlobal(name string, v *value.Value) {
	f.Globals.Set(name, v)
}

// Clone duplicates this frame's own locals and return slot; Outer,
// Globals, and Builtins are shared by reference, matching spec §3.4's
// ownership note that only the mutable top frame is duplicated on a
// transfer, everything reachable through it stays shared.
func (f *Frame) Clone() *Frame {
	cp := &Frame{Locals: f.Locals.Clone(), Outer: f.Outer, Globals: f.Globals, Builtins: f.Builtins}
	if f.ReturnValue != nil {
		cp.ReturnValue = f.ReturnValue.Clone()
	}
	return cp
}

// Join merges other into f in place: locals pointwise-join, return
// slots join (absent ⊔ v = v).
func (f *Frame) Join(other *Frame) {
	f.Locals.Join(other.Locals)
	switch {
	case f.ReturnValue == nil && other.ReturnValue != nil:
		f.ReturnValue = other.ReturnValue.Clone()
	case f.ReturnValue != nil && other.ReturnValue != nil:
		f.ReturnValue.Join(other.ReturnValue)
	}
}

// Subset reports whether f ⊑ other over locals and return slot.
func (f *Frame) Subset(other *Frame) bool {
	if !f.Locals.Subset(other.Locals) {
		return false
	}
	if f.ReturnValue == nil {
		return true
	}
	if other.ReturnValue == nil {
		return false
	}
	return f.ReturnValue.Subset(other.ReturnValue)
}
