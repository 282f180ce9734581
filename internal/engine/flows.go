package engine

import "github.com/LayneInNL/dmf/internal/cfg"

// Flow is one discovered call/classdef/descriptor edge: the CFG label
// of the Invoke (or MakeClass) site, the edge family it belongs to, and
// the name of the callee that resolved there. Recorded for whatever
// concrete callee the worklist actually visited, so a call site with
// several possible callees across different contexts accumulates one
// Flow per distinct name.
type Flow struct {
	Site cfg.Label
	Kind cfg.InvokeKind
	Name string
}

// FlowTable accumulates the flows Engine.Flows returns, deduplicating
// by (site, kind, name) so a
// call site visited under many contexts contributes one entry per
// distinct resolved callee rather than one per worklist pass.
type FlowTable struct {
	seen map[string]bool
	all  []Flow
}

func newFlowTable() *FlowTable {
	return &FlowTable{seen: map[string]bool{}}
}

// Record adds (site, kind, name) if it hasn't been seen before.
func (ft *FlowTable) Record(site cfg.Label, kind cfg.InvokeKind, name string) {
	key := varIntKey(site) + "#" + kind.String() + "#" + name
	if ft.seen[key] {
		return
	}
	ft.seen[key] = true
	ft.all = append(ft.all, Flow{Site: site, Kind: kind, Name: name})
}

// All returns every distinct flow recorded so far, in discovery order.
func (ft *FlowTable) All() []Flow {
	return ft.all
}
