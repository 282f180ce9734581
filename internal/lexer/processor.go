package lexer

import (
	"github.com/LayneInNL/dmf/internal/pipeline"
	"github.com/LayneInNL/dmf/internal/token"
)

// LexerProcessor is the pipeline's first stage: it turns ctx.Source into
// a fully materialized pipeline.TokenStream. Tokenizing eagerly (rather
// than lazily, token-by-token, as the parser asks) keeps the parser free
// to backtrack and peek arbitrarily far, which the Pratt expression
// parser and the indentation-block parser both need.
type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	lx := New(ctx.FilePath, ctx.Source)
	var toks []token.Token
	for {
		t := lx.NextToken()
		toks = append(toks, t)
		if t.Kind == token.EOF {
			break
		}
	}
	ctx.Tokens = pipeline.NewTokenStream(toks)
	return ctx
}
