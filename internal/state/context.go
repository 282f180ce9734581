// Package state implements the engine's per-program-point state: the
// call stack of frames, the heap of instance namespaces keyed by
// allocation site and calling context, and the State = (Stack, Heap)
// pair the lattice Λ maps every (label, context) to.
package state

import (
	"strconv"
	"strings"
)

// Context is a bounded-length tuple of recently-seen call-site labels,
// most-recent last. Only label tuples are implemented; no variant folds
// a heap address into the context. The zero value is the extremal empty
// context.
type Context []int

// RootContext is the context the module entry point runs under.
func RootContext() Context { return nil }

// Extend computes merge(label, context): context[-1:] + (label,)
// generalized to an arbitrary depth, keeping only the most recent
// depth-1 prior labels before appending label. depth <= 0 collapses to
// the empty context (a context-insensitive analysis).
func (c Context) Extend(label int, depth int) Context {
	if depth <= 0 {
		return nil
	}
	next := make(Context, 0, depth)
	keep := depth - 1
	if keep > len(c) {
		keep = len(c)
	}
	next = append(next, c[len(c)-keep:]...)
	next = append(next, label)
	return next
}

// Key returns a value usable as a map key component alongside a heap or
// CFG label; Context itself is a slice and so not comparable.
func (c Context) Key() string {
	if len(c) == 0 {
		return ""
	}
	parts := make([]string, len(c))
	for i, l := range c {
		parts[i] = strconv.Itoa(l)
	}
	return strings.Join(parts, ",")
}
