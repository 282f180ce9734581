// Package parser builds an *ast.Module from a pipeline.TokenStream using
// recursive descent for statements (indentation-delimited blocks) and a
// Pratt expression parser for the operator grammar, the same two-part
// split the teacher's own parser uses (statements_*.go driving block
// structure, expressions_core.go driving precedence climbing).
package parser

import (
	"fmt"

	"github.com/LayneInNL/dmf/internal/ast"
	"github.com/LayneInNL/dmf/internal/diag"
	"github.com/LayneInNL/dmf/internal/pipeline"
	"github.com/LayneInNL/dmf/internal/token"
)

// MaxRecursionDepth guards against stack overflow on deeply nested or
// adversarial input, mirroring the teacher parser's own recursion guard.
const MaxRecursionDepth = 500

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Precedence levels, lowest to highest binding.
const (
	LOWEST int = iota
	TERNARY
	LOR
	LAND
	NOT
	COMPARE
	BITOR
	BITXOR
	BITAND
	SHIFT
	SUM
	PRODUCT
	UNARY
	POWER
	CALL
)

var precedences = map[token.Kind]int{
	token.IF:          TERNARY,
	token.OR:          LOR,
	token.AND:         LAND,
	token.EQ:          COMPARE,
	token.NOTEQ:       COMPARE,
	token.LT:          COMPARE,
	token.GT:          COMPARE,
	token.LTE:         COMPARE,
	token.GTE:         COMPARE,
	token.IN:          COMPARE,
	token.IS:          COMPARE,
	token.NOT:         COMPARE, // only reached as an infix continuation of `x not in y`
	token.PIPE:        BITOR,
	token.CARET:       BITXOR,
	token.AMP:         BITAND,
	token.LSHIFT:      SHIFT,
	token.RSHIFT:      SHIFT,
	token.PLUS:        SUM,
	token.MINUS:       SUM,
	token.STAR:        PRODUCT,
	token.SLASH:       PRODUCT,
	token.DOUBLESLASH: PRODUCT,
	token.PERCENT:     PRODUCT,
	token.AT_OP:       PRODUCT,
	token.DOUBLESTAR:  POWER,
	token.LPAREN:      CALL,
	token.LBRACKET:    CALL,
	token.DOT:         CALL,
}

// Parser consumes a pipeline.TokenStream and produces an *ast.Module,
// recording recoverable problems into ctx.Diagnostics rather than
// aborting the parse: the spec treats unsupported syntax as a
// not-implemented-construct, not a hard failure.
type Parser struct {
	ctx    *pipeline.PipelineContext
	stream *pipeline.TokenStream

	cur  token.Token
	peek token.Token

	depth int

	prefixParseFns map[token.Kind]prefixParseFn
	infixParseFns  map[token.Kind]infixParseFn
}

func New(stream *pipeline.TokenStream, ctx *pipeline.PipelineContext) *Parser {
	p := &Parser{ctx: ctx, stream: stream}
	p.prefixParseFns = map[token.Kind]prefixParseFn{}
	p.infixParseFns = map[token.Kind]infixParseFn{}

	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseIntLiteral)
	p.registerPrefix(token.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.BYTES, p.parseBytesLiteral)
	p.registerPrefix(token.TRUE, p.parseBoolLiteral)
	p.registerPrefix(token.FALSE, p.parseBoolLiteral)
	p.registerPrefix(token.NONE, p.parseNoneLiteral)
	p.registerPrefix(token.ELLIPSIS, p.parseEllipsisLiteral)
	p.registerPrefix(token.MINUS, p.parseUnaryExpression)
	p.registerPrefix(token.PLUS, p.parseUnaryExpression)
	p.registerPrefix(token.TILDE, p.parseUnaryExpression)
	p.registerPrefix(token.NOT, p.parseUnaryExpression)
	p.registerPrefix(token.STAR, p.parseStarExpression)
	p.registerPrefix(token.LPAREN, p.parseParenOrTuple)
	p.registerPrefix(token.LBRACKET, p.parseListOrComprehension)
	p.registerPrefix(token.LBRACE, p.parseSetOrDictOrComprehension)
	p.registerPrefix(token.LAMBDA, p.parseLambda)

	p.registerInfix(token.PLUS, p.parseBinaryExpression)
	p.registerInfix(token.MINUS, p.parseBinaryExpression)
	p.registerInfix(token.STAR, p.parseBinaryExpression)
	p.registerInfix(token.SLASH, p.parseBinaryExpression)
	p.registerInfix(token.DOUBLESLASH, p.parseBinaryExpression)
	p.registerInfix(token.PERCENT, p.parseBinaryExpression)
	p.registerInfix(token.AT_OP, p.parseBinaryExpression)
	p.registerInfix(token.DOUBLESTAR, p.parseBinaryExpressionRightAssoc)
	p.registerInfix(token.EQ, p.parseBinaryExpression)
	p.registerInfix(token.NOTEQ, p.parseBinaryExpression)
	p.registerInfix(token.LT, p.parseBinaryExpression)
	p.registerInfix(token.GT, p.parseBinaryExpression)
	p.registerInfix(token.LTE, p.parseBinaryExpression)
	p.registerInfix(token.GTE, p.parseBinaryExpression)
	p.registerInfix(token.IN, p.parseBinaryExpression)
	p.registerInfix(token.IS, p.parseIsExpression)
	p.registerInfix(token.NOT, p.parseNotInExpression)
	p.registerInfix(token.PIPE, p.parseBinaryExpression)
	p.registerInfix(token.CARET, p.parseBinaryExpression)
	p.registerInfix(token.AMP, p.parseBinaryExpression)
	p.registerInfix(token.LSHIFT, p.parseBinaryExpression)
	p.registerInfix(token.RSHIFT, p.parseBinaryExpression)
	p.registerInfix(token.AND, p.parseBoolOpExpression)
	p.registerInfix(token.OR, p.parseBoolOpExpression)
	p.registerInfix(token.IF, p.parseConditionalExpression)
	p.registerInfix(token.LPAREN, p.parseCallExpression)
	p.registerInfix(token.LBRACKET, p.parseSubscriptExpression)
	p.registerInfix(token.DOT, p.parseAttributeExpression)

	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) registerPrefix(k token.Kind, fn prefixParseFn) { p.prefixParseFns[k] = fn }
func (p *Parser) registerInfix(k token.Kind, fn infixParseFn)   { p.infixParseFns[k] = fn }

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.stream.Next()
}

func (p *Parser) curIs(k token.Kind) bool  { return p.cur.Kind == k }
func (p *Parser) peekIs(k token.Kind) bool { return p.peek.Kind == k }

func (p *Parser) expect(k token.Kind) bool {
	if p.peekIs(k) {
		p.nextToken()
		return true
	}
	p.errorf("expected next token to be %v, got %v instead", k, p.peek.Kind)
	return false
}

// closeBracket consumes a closing delimiter that may already be the
// current token (an empty () / (), in a parameter or argument list with
// zero elements) or may still be the peek token (after the last element
// was parsed). Both shapes are valid exit states from the same loop, and
// both leave p.cur on the delimiter, the same position expect leaves.
func (p *Parser) closeBracket(k token.Kind) bool {
	if p.curIs(k) {
		return true
	}
	return p.expect(k)
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peek.Kind]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.cur.Kind]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) errorf(format string, args ...any) {
	p.ctx.Diagnostics.Add(diag.NotImplemented(p.cur.Pos, nil, fmt.Sprintf(format, args...)))
}

// skipNewlines consumes zero or more NEWLINE tokens at the current
// position, used wherever the grammar allows blank lines (module top
// level, inside brackets the lexer already elides them for).
func (p *Parser) skipNewlines() {
	for p.curIs(token.NEWLINE) {
		p.nextToken()
	}
}

// ParseModule parses the whole token stream into a Module. Recognized-
// but-unsupported statements and expressions degrade to
// ast.UnsupportedNode rather than aborting the parse, so that one bad
// construct does not prevent the rest of the file from feeding the CFG.
func (p *Parser) ParseModule(file string) *ast.Module {
	mod := &ast.Module{File: file}
	p.skipNewlines()
	for !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			mod.Body = append(mod.Body, stmt)
		}
		p.skipNewlines()
	}
	return mod
}
