package pipeline

import (
	"github.com/LayneInNL/dmf/internal/ast"
	"github.com/LayneInNL/dmf/internal/config"
	"github.com/LayneInNL/dmf/internal/diag"
	"github.com/LayneInNL/dmf/internal/token"
)

// TokenStream is a fully materialized token buffer with lookahead. Pipeline
// owns this type (rather than internal/lexer) so that internal/lexer and
// internal/parser can both depend on internal/pipeline for their
// Processor wiring without an import cycle.
type TokenStream struct {
	Tokens []token.Token
	pos    int
}

func NewTokenStream(tokens []token.Token) *TokenStream {
	return &TokenStream{Tokens: tokens}
}

// Next returns the current token and advances. Past the end it keeps
// returning the final (EOF) token.
func (s *TokenStream) Next() token.Token {
	t := s.Peek(0)
	if s.pos < len(s.Tokens)-1 {
		s.pos++
	}
	return t
}

// Peek returns the token n positions ahead of the cursor without
// consuming anything, clamped to the last token once exhausted.
func (s *TokenStream) Peek(n int) token.Token {
	i := s.pos + n
	if i >= len(s.Tokens) {
		i = len(s.Tokens) - 1
	}
	if i < 0 || len(s.Tokens) == 0 {
		return token.Token{Kind: token.EOF}
	}
	return s.Tokens[i]
}

// Processor is one stage of the pipeline: lex, parse, lower-to-CFG,
// ingest-stubs, run-fixed-point. Each stage reads and extends the same
// *PipelineContext and returns it, so later stages can see earlier
// diagnostics (spec-adjacent: a failed stage does not prevent later
// stages from reporting their own, independent diagnostics).
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext threads one source file's state through every stage.
type PipelineContext struct {
	FilePath string
	Source   string

	Tokens *TokenStream
	Module *ast.Module

	Config *config.Context

	Diagnostics diag.Bag

	// Extra is a stage-to-stage scratch area for values that don't
	// warrant their own named field (e.g. the lowered CFG, the computed
	// fixed point), keyed by a short stage-owned string.
	Extra map[string]any
}

func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{Source: source, Extra: make(map[string]any)}
}
