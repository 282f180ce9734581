package typeshed

import (
	"github.com/LayneInNL/dmf/internal/builtins"
	"github.com/LayneInNL/dmf/internal/pipeline"
	"github.com/LayneInNL/dmf/internal/state"
	"github.com/LayneInNL/dmf/internal/typeshedcache"
	"github.com/LayneInNL/dmf/internal/value"
)

const (
	registryExtraKey = "typeshed.registry"
	resolverExtraKey = "typeshed.resolver"
	builtinsExtraKey = "typeshed.builtins"
)

// Processor is the pipeline's fourth stage ("ingest-stubs"): it builds
// the shared Registry internal/engine's fixed point mints every class,
// function, and stub object into, constructs the builtins namespace
// against that same Registry (internal/builtins), and wires a Typeshed
// resolver for on-demand stub ingestion as imports are encountered
// during analysis. Nothing is eagerly parsed here — a stub file is only
// read the first time something actually imports it.
type Processor struct {
	// Cache is consulted/populated for every stub this run ingests; nil
	// disables on-disk memoization.
	Cache *typeshedcache.Cache
}

func (tp *Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	registry := state.NewRegistry()
	builtinsNS := builtins.New(registry)
	resolver := New(registry, ctx.Config, tp.Cache, &ctx.Diagnostics)

	ctx.Extra[registryExtraKey] = registry
	ctx.Extra[resolverExtraKey] = resolver
	ctx.Extra[builtinsExtraKey] = builtinsNS
	return ctx
}

// RegistryFrom retrieves the shared Registry a Processor stage built.
func RegistryFrom(ctx *pipeline.PipelineContext) *state.Registry {
	r, _ := ctx.Extra[registryExtraKey].(*state.Registry)
	return r
}

// ResolverFrom retrieves the Typeshed resolver a Processor stage built.
func ResolverFrom(ctx *pipeline.PipelineContext) *Typeshed {
	t, _ := ctx.Extra[resolverExtraKey].(*Typeshed)
	return t
}

// BuiltinsFrom retrieves the builtins Namespace a Processor stage built.
func BuiltinsFrom(ctx *pipeline.PipelineContext) *value.Namespace {
	ns, _ := ctx.Extra[builtinsExtraKey].(*value.Namespace)
	return ns
}
