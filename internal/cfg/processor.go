package cfg

import (
	"github.com/LayneInNL/dmf/internal/pipeline"
)

// extraKey is the pipeline.PipelineContext.Extra key this stage
// publishes its result under.
const extraKey = "cfg.program"

// Processor is the pipeline's third stage: it consumes ctx.Module (left
// by parser.Processor) and produces a whole-module Program, published
// into ctx.Extra so later stages (internal/typeshed's stub-ingest
// processor, internal/engine's fixed-point processor) can retrieve it
// without internal/pipeline needing to import internal/cfg.
type Processor struct{}

func (cp *Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Module == nil {
		return ctx
	}
	prog, errs := Lower(ctx.FilePath, ctx.Module)
	ctx.Diagnostics.AddAll(errs)
	ctx.Extra[extraKey] = prog
	return ctx
}

// ProgramFrom retrieves the Program a Processor stage published into
// ctx, or nil if the stage has not run (or the file had no Module).
func ProgramFrom(ctx *pipeline.PipelineContext) *Program {
	prog, _ := ctx.Extra[extraKey].(*Program)
	return prog
}
