package state

// State is the full abstract state at one program point: the call
// stack and the heap of instance namespaces, per spec §3.4. The engine
// lattice Λ maps (label, context) to State; join and ⊑ are pointwise
// over both components.
type State struct {
	Stack Stack
	Heap  *Heap
}

// NewState seeds the extremal state: a single frame pointing at the
// module's globals and builtins, and an empty heap.
func NewState(entry *Frame) *State {
	return &State{Stack: Stack{entry}, Heap: NewHeap()}
}

// Bottom reports whether s denotes the unreachable state (spec §3.5:
// "bottom is the empty map").
func (s *State) Bottom() bool {
	return s == nil || len(s.Stack) == 0
}

// CloneTop duplicates the mutable top frame; the heap is shared since
// Heap.Write/Read already give each (site, context) pair its own
// namespace, so sharing the Heap value and mutating specific keys does
// not entangle unrelated instances.
func (s *State) CloneTop() *State {
	return &State{Stack: s.Stack.CloneTop(), Heap: s.Heap}
}

// Clone returns a fully independent copy, used when a state is seeded
// into Λ rather than transiently built during one transfer.
func (s *State) Clone() *State {
	return &State{Stack: s.Stack.Clone(), Heap: s.Heap.Clone()}
}

// Join mutates s in place into s ⊔ other.
func (s *State) Join(other *State) {
	s.Stack.Join(other.Stack)
	s.Heap.Join(other.Heap)
}

// Subset reports whether s ⊑ other.
func (s *State) Subset(other *State) bool {
	return s.Stack.Subset(other.Stack) && s.Heap.Subset(other.Heap)
}

// Or returns a ⊔ b without mutating either argument.
func Or(a, b *State) *State {
	cp := a.Clone()
	cp.Join(b)
	return cp
}
