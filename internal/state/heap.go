package state

import "github.com/LayneInNL/dmf/internal/value"

// HeapKey identifies one instance's attribute namespace: the CFG
// allocation-site label the instance was created at, paired with the
// calling context that site was reached under — the same instantiation
// point analyzed under two different contexts gets two independent
// namespaces, per spec §3.4/§4.4's object-sensitivity.
type HeapKey struct {
	Site value.HeapID
	Ctx  string
}

// SiteKey builds the HeapKey for site under ctx.
func SiteKey(site value.HeapID, ctx Context) HeapKey {
	return HeapKey{Site: site, Ctx: ctx.Key()}
}

// Heap maps (allocation-site, context) to the namespace holding that
// instance's attributes, ported from original_source's Heap.singletons.
type Heap struct {
	singletons map[HeapKey]*value.Namespace
}

// NewHeap returns an empty heap.
func NewHeap() *Heap {
	return &Heap{singletons: map[HeapKey]*value.Namespace{}}
}

// Read returns the namespace for key, allocating an empty one on first
// access (mirroring write_ins_to_heap's lazy default).
func (h *Heap) Read(key HeapKey) *value.Namespace {
	ns, ok := h.singletons[key]
	if !ok {
		ns = value.NewNamespace()
		h.singletons[key] = ns
	}
	return ns
}

// Write installs ns as key's namespace outright, replacing whatever was
// there.
func (h *Heap) Write(key HeapKey, ns *value.Namespace) {
	h.singletons[key] = ns
}

// Subset reports whether h ⊑ other: every instance namespace in h has a
// counterpart in other that is at least as large.
func (h *Heap) Subset(other *Heap) bool {
	for key, ns := range h.singletons {
		ons, ok := other.singletons[key]
		if !ok || !ns.Subset(ons) {
			return false
		}
	}
	return true
}

// Join merges other into h in place, joining namespaces present in both
// and adopting (by clone) instances only other has.
func (h *Heap) Join(other *Heap) {
	for key, ns := range other.singletons {
		if existing, ok := h.singletons[key]; ok {
			existing.Join(ns)
		} else {
			h.singletons[key] = ns.Clone()
		}
	}
}

// Clone returns an independent deep copy of h.
func (h *Heap) Clone() *Heap {
	cp := NewHeap()
	for key, ns := range h.singletons {
		cp.singletons[key] = ns.Clone()
	}
	return cp
}
