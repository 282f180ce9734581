package parser

import (
	"github.com/LayneInNL/dmf/internal/pipeline"
)

// Processor is the pipeline's second stage: it consumes ctx.Tokens (left
// by lexer.LexerProcessor) and produces ctx.Module.
type Processor struct{}

func (pp *Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Tokens == nil {
		return ctx
	}
	p := New(ctx.Tokens, ctx)
	ctx.Module = p.ParseModule(ctx.FilePath)
	return ctx
}
