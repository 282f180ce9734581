// Package mro computes C3 linearizations over the object model's
// Class type. A class whose tp_bases names more than one candidate
// base-list (because a base expression may evaluate to several classes
// under different paths) linearizes to one MRO per candidate; a class
// with BasesAny linearizes to the single degenerate MRO [self, MROAny].
package mro

import (
	"fmt"

	"github.com/LayneInNL/dmf/internal/object"
)

// LinearizeAll computes every candidate MRO for c and caches the result
// on c via SetMRO, returning it. Safe to call repeatedly; only the
// first call does the work.
func LinearizeAll(c *object.Class) [][]*object.Class {
	if cached := c.MRO(); cached != nil {
		return cached
	}
	if c.BasesAny {
		result := [][]*object.Class{{c, object.MROAny}}
		c.SetMRO(result)
		return result
	}
	if len(c.Bases) == 0 {
		result := [][]*object.Class{{c}}
		c.SetMRO(result)
		return result
	}
	var result [][]*object.Class
	for _, candidate := range c.Bases {
		m, err := Linearize(c, candidate)
		if err != nil {
			// An illegal base ordering degrades to the unknown-tail MRO
			// rather than aborting the whole linearization: one bad
			// candidate must not poison the others.
			result = append(result, []*object.Class{c, object.MROAny})
			continue
		}
		result = append(result, m)
	}
	c.SetMRO(result)
	return result
}

// Linearize computes the C3 MRO of c given one concrete list of direct
// bases: [c] followed by the merge of each base's own MRO together with
// the base list itself.
func Linearize(c *object.Class, bases []*object.Class) ([]*object.Class, error) {
	if len(bases) == 0 {
		return []*object.Class{c}, nil
	}
	var toMerge [][]*object.Class
	for _, base := range bases {
		baseMROs := LinearizeAll(base)
		// A base with multiple candidate MROs of its own (itself
		// ambiguous) is linearized against its first candidate; the
		// ambiguity is already recorded on the base's own MRO() and
		// re-surfaces to callers that walk it directly.
		toMerge = append(toMerge, append([]*object.Class(nil), baseMROs[0]...))
	}
	toMerge = append(toMerge, append([]*object.Class(nil), bases...))

	merged, err := merge(toMerge)
	if err != nil {
		return nil, err
	}
	return append([]*object.Class{c}, merged...), nil
}

// merge implements the C3 merge step: repeatedly pick the first head
// of any list that does not appear in the tail of any other list,
// remove it everywhere, and recurse.
func merge(lists [][]*object.Class) ([]*object.Class, error) {
	lists = dropEmpty(lists)
	if len(lists) == 0 {
		return nil, nil
	}
	for _, candidateList := range lists {
		if len(candidateList) == 0 {
			continue
		}
		head := candidateList[0]
		if head == object.MROAny {
			return []*object.Class{head}, nil
		}
		if inAnyTail(lists, head) {
			continue
		}
		next := make([][]*object.Class, 0, len(lists))
		for _, l := range lists {
			next = append(next, removeFirst(l, head))
		}
		rest, err := merge(next)
		if err != nil {
			return nil, err
		}
		return append([]*object.Class{head}, rest...), nil
	}
	return nil, fmt.Errorf("mro: no legal linearization (inconsistent base ordering)")
}

func inAnyTail(lists [][]*object.Class, head *object.Class) bool {
	for _, l := range lists {
		for _, c := range l[1:] {
			if c == head {
				return true
			}
		}
	}
	return false
}

// removeFirst drops every occurrence of target, which is equivalent to
// dropping only the first for a well-formed MRO candidate list (a class
// appears at most once per linearization).
func removeFirst(l []*object.Class, target *object.Class) []*object.Class {
	out := make([]*object.Class, 0, len(l))
	for _, c := range l {
		if c == target {
			continue
		}
		out = append(out, c)
	}
	return out
}

func dropEmpty(lists [][]*object.Class) [][]*object.Class {
	out := make([][]*object.Class, 0, len(lists))
	for _, l := range lists {
		if len(l) > 0 {
			out = append(out, l)
		}
	}
	return out
}
