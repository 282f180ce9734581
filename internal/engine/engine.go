// Package engine runs the whole-program worklist fixed point over a
// lowered *cfg.Program: it maintains the lattice Λ mapping every
// reachable (CFG label, calling context) to its abstract state.State,
// installs inter-procedural edges on the fly as a call's callee
// concretely resolves, and publishes the discovered flows through
// Engine.Flows.
package engine

import (
	"github.com/LayneInNL/dmf/internal/cfg"
	"github.com/LayneInNL/dmf/internal/config"
	"github.com/LayneInNL/dmf/internal/diag"
	"github.com/LayneInNL/dmf/internal/object"
	"github.com/LayneInNL/dmf/internal/state"
	"github.com/LayneInNL/dmf/internal/value"
)

// ModuleResolver supplies the namespace an import binds to. internal/
// typeshed's ingest stage implements this; Engine degrades to Any when
// none is installed (or the requested module isn't found), matching
// spec §7's Failure policy for an unresolvable import.
type ModuleResolver interface {
	ResolveModule(path string) (*value.Value, bool)
	ResolveFrom(path string, level int, name string) (*value.Value, bool)
}

// point is one worklist entry: a CFG label paired with the calling
// context it is being analyzed under.
type point struct {
	label cfg.Label
	ctx   state.Context
}

func (p point) key() string { return p.ctx.Key() }

// contKind discriminates what a continuation does with
// the callee's result, mirroring spec §4.1's collapsed edge families.
type contKind int

const (
	contCall contKind = iota
	contClassBody
	contGetter
	contSetter
	contSpecialInit
)

// continuation is what happens at a caller's program point once the
// callee reaches its exit: where to resume (Next, under CallerCtx), how
// far to pop State.Stack back down to (StackDepth — the caller's own
// stack length, recorded before the callee frame was pushed), and how
// to interpret the callee's result (Dst, Kind, and kind-specific
// extras).
type continuation struct {
	Kind        contKind
	CallerLabel cfg.Label
	CallerCtx   state.Context
	Dst         cfg.Var
	Next        cfg.Label
	StackDepth  int

	// contClassBody extras.
	ClassLabel cfg.Label
	ClassName  string
	Bases      [][]*object.Class

	// contSpecialInit extra: the instance value to join into Dst instead
	// of the callee's own ReturnValue.
	Instance *value.Value
}

// Engine drives the fixed-point computation over one lowered Program.
type Engine struct {
	Prog     *cfg.Program
	Registry *state.Registry
	Heap     *state.Heap
	Config   *config.Context
	Modules  ModuleResolver
	Diags    diag.Bag

	lambda   map[cfg.Label]map[string]*state.State
	worklist []point
	queued   map[cfg.Label]map[string]bool

	pending map[string][]*continuation

	globals  *value.Namespace
	builtins *value.Namespace

	flows *FlowTable

	containerClasses map[cfg.ContainerKind]*object.Class
}

// New builds an Engine ready to seed and Run, with its own fresh
// Registry. globals/builtins are the module's top-level namespace and
// the shared builtins namespace (internal/builtins populates the latter
// before analysis starts).
func New(prog *cfg.Program, cfgCtx *config.Context, globals, builtins *value.Namespace) *Engine {
	return NewWithRegistry(prog, cfgCtx, globals, builtins, state.NewRegistry())
}

// NewWithRegistry builds an Engine against a caller-supplied Registry —
// used when another component (internal/typeshed's stub ingestion) must
// mint classes/functions into the exact same id space the Engine
// resolves against, rather than a private one of its own.
func NewWithRegistry(prog *cfg.Program, cfgCtx *config.Context, globals, builtins *value.Namespace, registry *state.Registry) *Engine {
	if cfgCtx == nil {
		cfgCtx = config.DefaultContext()
	}
	e := &Engine{
		Prog:     prog,
		Registry: registry,
		Heap:     state.NewHeap(),
		Config:   cfgCtx,
		lambda:   map[cfg.Label]map[string]*state.State{},
		queued:   map[cfg.Label]map[string]bool{},
		pending:  map[string][]*continuation{},
		globals:  globals,
		builtins: builtins,
		flows:    newFlowTable(),
	}
	e.bootstrapContainers()
	return e
}

// Flows returns the discovered-flows table accumulated so far.
func (e *Engine) Flows() *FlowTable { return e.flows }

// Run seeds the module entry and iterates the worklist to a fixed
// point.
func (e *Engine) Run() {
	entryFrame := state.NewFrame(nil, e.globals, e.builtins)
	entryState := &state.State{Stack: state.Stack{entryFrame}, Heap: e.Heap}
	e.seed(e.Prog.ModuleEntry, state.RootContext(), entryState)

	for len(e.worklist) > 0 {
		p := e.worklist[0]
		e.worklist = e.worklist[1:]
		e.setQueued(p, false)
		e.step(p)
	}
}

// Query returns the converged state at (label, ctx), or nil if that
// program point was never reached.
func (e *Engine) Query(label cfg.Label, ctx state.Context) *state.State {
	byCtx, ok := e.lambda[label]
	if !ok {
		return nil
	}
	return byCtx[ctx.Key()]
}

func (e *Engine) setQueued(p point, v bool) {
	m := e.queued[p.label]
	if m == nil {
		if !v {
			return
		}
		m = map[string]bool{}
		e.queued[p.label] = m
	}
	if v {
		m[p.key()] = true
	} else {
		delete(m, p.key())
	}
}

func (e *Engine) isQueued(p point) bool {
	m := e.queued[p.label]
	return m != nil && m[p.key()]
}

func (e *Engine) enqueue(p point) {
	if e.isQueued(p) {
		return
	}
	e.setQueued(p, true)
	e.worklist = append(e.worklist, p)
}

// seed joins st into Λ[label][ctx], enqueuing the point if the join
// changed anything (or it is the first state ever installed there).
func (e *Engine) seed(label cfg.Label, ctx state.Context, st *state.State) {
	byCtx := e.lambda[label]
	if byCtx == nil {
		byCtx = map[string]*state.State{}
		e.lambda[label] = byCtx
	}
	key := ctx.Key()
	existing, ok := byCtx[key]
	if !ok {
		byCtx[key] = st.Clone()
		e.enqueue(point{label: label, ctx: ctx})
		return
	}
	if st.Subset(existing) {
		return
	}
	existing.Join(st)
	e.enqueue(point{label: label, ctx: ctx})
}

// registerContinuation records cont against the callee's exit point and
// fires it immediately if that exit has already produced a state (a
// call installed after its callee already converged must not wait for
// the callee to "change" again — it never will).
func (e *Engine) registerContinuation(calleeExit cfg.Label, calleeCtx state.Context, cont *continuation) {
	p := point{label: calleeExit, ctx: calleeCtx}
	k := contKey(p)
	e.pending[k] = append(e.pending[k], cont)
	if st := e.Query(calleeExit, calleeCtx); st != nil {
		e.resumeFromReturn(st, cont)
	}
}

func contKey(p point) string {
	return p.ctx.Key() + "#" + varIntKey(p.label)
}

func varIntKey(label cfg.Label) string {
	// cfg.Label is an int alias; a small manual itoa avoids pulling in
	// strconv purely for map-key formatting this package already does by
	// hand in a couple of places.
	if label == 0 {
		return "0"
	}
	neg := label < 0
	if neg {
		label = -label
	}
	var buf [20]byte
	i := len(buf)
	for label > 0 {
		i--
		buf[i] = byte('0' + label%10)
		label /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
