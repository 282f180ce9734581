package value

// Namespace maps variable names to abstract values. It supports the
// pointwise ⊑ and ⊔ operations used both for a frame's locals/globals
// and for a first-class class object's attribute dict.
type Namespace struct {
	vars map[string]*Value
}

// NewNamespace returns an empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{vars: map[string]*Value{}}
}

// Get returns the value bound to name, if any.
func (n *Namespace) Get(name string) (*Value, bool) {
	v, ok := n.vars[name]
	return v, ok
}

// Set binds name to v, replacing any previous binding.
func (n *Namespace) Set(name string, v *Value) {
	if n.vars == nil {
		n.vars = map[string]*Value{}
	}
	n.vars[name] = v
}

// Delete removes name's binding, if present.
func (n *Namespace) Delete(name string) {
	delete(n.vars, name)
}

// Names returns the bound variable names in no particular order.
func (n *Namespace) Names() []string {
	names := make([]string, 0, len(n.vars))
	for name := range n.vars {
		names = append(names, name)
	}
	return names
}

// Subset reports whether n ⊑ other: every binding in n has a
// counterpart in other that is at least as large.
func (n *Namespace) Subset(other *Namespace) bool {
	for name, v := range n.vars {
		ov, ok := other.vars[name]
		if !ok || !v.Subset(ov) {
			return false
		}
	}
	return true
}

// Join merges other into n in place, joining values bound in both and
// adopting (by clone) bindings only other has.
func (n *Namespace) Join(other *Namespace) {
	if n.vars == nil {
		n.vars = map[string]*Value{}
	}
	for name, ov := range other.vars {
		if v, ok := n.vars[name]; ok {
			v.Join(ov)
		} else {
			n.vars[name] = ov.Clone()
		}
	}
}

// Clone returns an independent deep copy of n.
func (n *Namespace) Clone() *Namespace {
	cp := NewNamespace()
	for name, v := range n.vars {
		cp.vars[name] = v.Clone()
	}
	return cp
}
