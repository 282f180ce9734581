package engine

import (
	"github.com/LayneInNL/dmf/internal/cfg"
	"github.com/LayneInNL/dmf/internal/pipeline"
	"github.com/LayneInNL/dmf/internal/state"
	"github.com/LayneInNL/dmf/internal/typeshed"
	"github.com/LayneInNL/dmf/internal/value"
)

const extraKey = "engine.engine"

// Processor is the pipeline's fifth and final stage ("run-fixed-point"):
// it runs the worklist fixed point to completion over the Program
// internal/cfg lowered (cfg.Processor), against the Registry/builtins/
// stub resolver internal/typeshed's Processor stage set up, and
// publishes the converged Engine so a caller can Query a program point
// or read Flows() once Process returns.
type Processor struct{}

func (ep *Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	prog := cfg.ProgramFrom(ctx)
	if prog == nil {
		return ctx
	}

	registry := typeshed.RegistryFrom(ctx)
	if registry == nil {
		registry = state.NewRegistry()
	}
	builtinsNS := typeshed.BuiltinsFrom(ctx)
	if builtinsNS == nil {
		builtinsNS = value.NewNamespace()
	}

	e := NewWithRegistry(prog, ctx.Config, value.NewNamespace(), builtinsNS, registry)
	if resolver := typeshed.ResolverFrom(ctx); resolver != nil {
		e.Modules = resolver
	}
	e.Run()

	ctx.Extra[extraKey] = e
	return ctx
}

// EngineFrom retrieves the converged Engine a Processor stage built.
func EngineFrom(ctx *pipeline.PipelineContext) *Engine {
	e, _ := ctx.Extra[extraKey].(*Engine)
	return e
}
