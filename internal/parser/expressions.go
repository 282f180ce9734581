package parser

import (
	"strconv"

	"github.com/LayneInNL/dmf/internal/ast"
	"github.com/LayneInNL/dmf/internal/token"
)

func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > MaxRecursionDepth {
		p.errorf("expression too complex: recursion depth limit exceeded")
		return &ast.UnsupportedNode{Token: p.cur, Detail: "recursion depth exceeded"}
	}

	prefix := p.prefixParseFns[p.cur.Kind]
	if prefix == nil {
		p.errorf("no prefix parse function for %v found", p.cur.Kind)
		tok := p.cur
		p.nextToken()
		return &ast.UnsupportedNode{Token: tok, Detail: "unrecognized expression start"}
	}
	left := prefix()

	for !p.peekIs(token.NEWLINE) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peek.Kind]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.cur, Name: p.cur.Lexeme}
}

func (p *Parser) parseIntLiteral() ast.Expression {
	v, err := strconv.ParseInt(p.cur.Lexeme, 0, 64)
	if err != nil {
		p.errorf("could not parse %q as integer", p.cur.Lexeme)
	}
	return &ast.IntLiteral{Token: p.cur, Value: v}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	v, err := strconv.ParseFloat(p.cur.Lexeme, 64)
	if err != nil {
		p.errorf("could not parse %q as float", p.cur.Lexeme)
	}
	return &ast.FloatLiteral{Token: p.cur, Value: v}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	lit := &ast.StringLiteral{Token: p.cur, Value: p.cur.Lexeme}
	// Adjacent string literal concatenation, e.g. "a" "b".
	for p.peekIs(token.STRING) {
		p.nextToken()
		lit.Value += p.cur.Lexeme
	}
	return lit
}

func (p *Parser) parseBytesLiteral() ast.Expression {
	return &ast.BytesLiteral{Token: p.cur, Value: []byte(p.cur.Lexeme)}
}

func (p *Parser) parseBoolLiteral() ast.Expression {
	return &ast.BoolLiteral{Token: p.cur, Value: p.cur.Kind == token.TRUE}
}

func (p *Parser) parseNoneLiteral() ast.Expression {
	return &ast.NoneLiteral{Token: p.cur}
}

func (p *Parser) parseEllipsisLiteral() ast.Expression {
	return &ast.EllipsisLiteral{Token: p.cur}
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	tok := p.cur
	op := tok.Lexeme
	if tok.Kind == token.NOT {
		op = "not"
	}
	p.nextToken()
	operand := p.parseExpression(UNARY)
	return &ast.UnaryExpression{Token: tok, Op: op, Operand: operand}
}

func (p *Parser) parseStarExpression() ast.Expression {
	tok := p.cur
	p.nextToken()
	value := p.parseExpression(UNARY)
	return &ast.StarExpression{Token: tok, Value: value}
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	tok := p.cur
	op := p.cur.Lexeme
	if tok.Kind == token.IN {
		op = "in"
	}
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	return &ast.BinaryExpression{Token: tok, Op: op, Left: left, Right: right}
}

func (p *Parser) parseBinaryExpressionRightAssoc(left ast.Expression) ast.Expression {
	tok := p.cur
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence - 1)
	return &ast.BinaryExpression{Token: tok, Op: "**", Left: left, Right: right}
}

// parseIsExpression handles both `is` and `is not`.
func (p *Parser) parseIsExpression(left ast.Expression) ast.Expression {
	tok := p.cur
	op := "is"
	if p.peekIs(token.NOT) {
		p.nextToken()
		op = "is not"
	}
	precedence := precedences[token.IS]
	p.nextToken()
	right := p.parseExpression(precedence)
	return &ast.BinaryExpression{Token: tok, Op: op, Left: left, Right: right}
}

// parseNotInExpression handles the `not in` contextual operator, reached
// when NOT is registered as an infix continuation after `in` fails to
// match directly (x not in y).
func (p *Parser) parseNotInExpression(left ast.Expression) ast.Expression {
	tok := p.cur
	if !p.expect(token.IN) {
		return left
	}
	precedence := precedences[token.IN]
	p.nextToken()
	right := p.parseExpression(precedence)
	return &ast.BinaryExpression{Token: tok, Op: "not in", Left: left, Right: right}
}

func (p *Parser) parseBoolOpExpression(left ast.Expression) ast.Expression {
	tok := p.cur
	op := tok.Lexeme
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	if bo, ok := left.(*ast.BoolOpExpression); ok && bo.Op == op {
		bo.Values = append(bo.Values, right)
		return bo
	}
	return &ast.BoolOpExpression{Token: tok, Op: op, Values: []ast.Expression{left, right}}
}

func (p *Parser) parseConditionalExpression(body ast.Expression) ast.Expression {
	tok := p.cur // 'if'
	p.nextToken()
	test := p.parseExpression(TERNARY)
	if !p.expect(token.ELSE) {
		return body
	}
	p.nextToken()
	orelse := p.parseExpression(TERNARY - 1)
	return &ast.ConditionalExpression{Token: tok, Test: test, Body: body, Orelse: orelse}
}

func (p *Parser) parseParenOrTuple() ast.Expression {
	tok := p.cur
	p.nextToken()
	if p.curIs(token.RPAREN) {
		return &ast.TupleExpression{Token: tok, Elements: nil}
	}
	first := p.parseExpressionOrStar()
	if !p.peekIs(token.COMMA) {
		if !p.expect(token.RPAREN) {
			return first
		}
		return first
	}
	elems := []ast.Expression{first}
	for p.peekIs(token.COMMA) {
		p.nextToken()
		if p.peekIs(token.RPAREN) {
			break
		}
		p.nextToken()
		elems = append(elems, p.parseExpressionOrStar())
	}
	if !p.expect(token.RPAREN) {
		return &ast.TupleExpression{Token: tok, Elements: elems}
	}
	return &ast.TupleExpression{Token: tok, Elements: elems}
}

func (p *Parser) parseExpressionOrStar() ast.Expression {
	if p.curIs(token.STAR) {
		return p.parseStarExpression()
	}
	return p.parseExpression(LOWEST)
}

func (p *Parser) parseListOrComprehension() ast.Expression {
	tok := p.cur
	p.nextToken()
	if p.curIs(token.RBRACKET) {
		return &ast.ListExpression{Token: tok, Elements: nil}
	}
	first := p.parseExpressionOrStar()
	if p.peekIs(token.FOR) {
		p.nextToken()
		clauses := p.parseComprehensionClauses()
		if !p.expect(token.RBRACKET) {
			return &ast.UnsupportedNode{Token: tok, Detail: "unterminated list comprehension"}
		}
		return &ast.ComprehensionExpression{Token: tok, Kind: ast.ListComp, Elt: first, Clauses: clauses}
	}
	elems := []ast.Expression{first}
	for p.peekIs(token.COMMA) {
		p.nextToken()
		if p.peekIs(token.RBRACKET) {
			break
		}
		p.nextToken()
		elems = append(elems, p.parseExpressionOrStar())
	}
	if !p.expect(token.RBRACKET) {
		return &ast.ListExpression{Token: tok, Elements: elems}
	}
	return &ast.ListExpression{Token: tok, Elements: elems}
}

func (p *Parser) parseSetOrDictOrComprehension() ast.Expression {
	tok := p.cur
	p.nextToken()
	if p.curIs(token.RBRACE) {
		return &ast.DictExpression{Token: tok}
	}

	first := p.parseExpressionOrStar()

	if p.peekIs(token.COLON) {
		p.nextToken() // :
		p.nextToken()
		val := p.parseExpression(LOWEST)
		if p.peekIs(token.FOR) {
			p.nextToken()
			clauses := p.parseComprehensionClauses()
			if !p.expect(token.RBRACE) {
				return &ast.UnsupportedNode{Token: tok, Detail: "unterminated dict comprehension"}
			}
			return &ast.ComprehensionExpression{Token: tok, Kind: ast.DictComp, Key: first, Elt: val, Clauses: clauses}
		}
		entries := []ast.DictEntry{{Key: first, Value: val}}
		for p.peekIs(token.COMMA) {
			p.nextToken()
			if p.peekIs(token.RBRACE) {
				break
			}
			p.nextToken()
			k := p.parseExpression(LOWEST)
			if !p.expect(token.COLON) {
				break
			}
			p.nextToken()
			v := p.parseExpression(LOWEST)
			entries = append(entries, ast.DictEntry{Key: k, Value: v})
		}
		if !p.expect(token.RBRACE) {
			return &ast.DictExpression{Token: tok, Entries: entries}
		}
		return &ast.DictExpression{Token: tok, Entries: entries}
	}

	if p.peekIs(token.FOR) {
		p.nextToken()
		clauses := p.parseComprehensionClauses()
		if !p.expect(token.RBRACE) {
			return &ast.UnsupportedNode{Token: tok, Detail: "unterminated set comprehension"}
		}
		return &ast.ComprehensionExpression{Token: tok, Kind: ast.SetComp, Elt: first, Clauses: clauses}
	}

	elems := []ast.Expression{first}
	for p.peekIs(token.COMMA) {
		p.nextToken()
		if p.peekIs(token.RBRACE) {
			break
		}
		p.nextToken()
		elems = append(elems, p.parseExpressionOrStar())
	}
	if !p.expect(token.RBRACE) {
		return &ast.SetExpression{Token: tok, Elements: elems}
	}
	return &ast.SetExpression{Token: tok, Elements: elems}
}

// parseComprehensionClauses parses the `for target in iter [if cond]*`
// clause(s) following the first `for`, with p.cur positioned on the
// first clause's target.
func (p *Parser) parseComprehensionClauses() []ast.ComprehensionClause {
	var clauses []ast.ComprehensionClause
	for {
		target := p.parseTargetList()
		if !p.expect(token.IN) {
			break
		}
		p.nextToken()
		iter := p.parseExpression(TERNARY)
		clause := ast.ComprehensionClause{Target: target, Iter: iter}
		for p.peekIs(token.IF) {
			p.nextToken()
			p.nextToken()
			clause.Ifs = append(clause.Ifs, p.parseExpression(TERNARY))
		}
		clauses = append(clauses, clause)
		if p.peekIs(token.FOR) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	return clauses
}

// parseTargetList parses a for-loop/comprehension target: a single name,
// attribute, or subscript, or a tuple of them written with or without
// parens (for a, b in pairs).
func (p *Parser) parseTargetList() ast.Expression {
	tok := p.cur
	first := p.parseExpression(TERNARY)
	if !p.peekIs(token.COMMA) {
		return first
	}
	elems := []ast.Expression{first}
	for p.peekIs(token.COMMA) {
		p.nextToken()
		if p.peekIs(token.IN) {
			break
		}
		p.nextToken()
		elems = append(elems, p.parseExpression(TERNARY))
	}
	return &ast.TupleExpression{Token: tok, Elements: elems}
}

func (p *Parser) parseLambda() ast.Expression {
	tok := p.cur
	p.nextToken()
	var params []*ast.Parameter
	for !p.curIs(token.COLON) && !p.curIs(token.EOF) {
		params = append(params, p.parseParameter())
		if p.peekIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
		} else {
			break
		}
	}
	if !p.expect(token.COLON) {
		return &ast.UnsupportedNode{Token: tok, Detail: "malformed lambda"}
	}
	p.nextToken()
	body := p.parseExpression(LOWEST)
	return &ast.LambdaExpression{Token: tok, Params: params, Body: body}
}

func (p *Parser) parseParameter() *ast.Parameter {
	param := &ast.Parameter{}
	if p.curIs(token.DOUBLESTAR) {
		param.IsKwarg = true
		p.nextToken()
	} else if p.curIs(token.STAR) {
		param.IsVararg = true
		p.nextToken()
	}
	param.Name = p.cur.Lexeme
	if p.peekIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		p.parseExpression(LOWEST) // parameter annotation, not modeled
	}
	if p.peekIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		param.Default = p.parseExpression(LOWEST)
	}
	return param
}

func (p *Parser) parseCallExpression(fn ast.Expression) ast.Expression {
	tok := p.cur
	call := &ast.CallExpression{Token: tok, Func: fn, Keywords: map[string]ast.Expression{}}
	p.nextToken()
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		if p.curIs(token.IDENT) && p.peekIs(token.ASSIGN) {
			name := p.cur.Lexeme
			p.nextToken()
			p.nextToken()
			call.Keywords[name] = p.parseExpression(LOWEST)
		} else {
			call.Args = append(call.Args, p.parseExpressionOrStar())
		}
		if p.peekIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.closeBracket(token.RPAREN)
	return call
}

func (p *Parser) parseSubscriptExpression(value ast.Expression) ast.Expression {
	tok := p.cur
	p.nextToken()
	index := p.parseSliceOrExpression()
	p.closeBracket(token.RBRACKET)
	return &ast.SubscriptExpression{Token: tok, Value: value, Index: index}
}

// parseSliceOrExpression parses either a plain index expression or a
// `[start:stop:step]` slice, represented as a CallExpression to the
// pseudo-function "slice" so downstream stages don't need a dedicated
// node type for an operation that just dispatches through __getitem__.
// A part immediately followed (or preceded, when empty) by ':' may be
// omitted, so a leading ':' (a[:n]) must be recognized as part of the
// slice without being consumed as if it were an ordinary peek-ahead
// separator.
func (p *Parser) parseSliceOrExpression() ast.Expression {
	readPart := func() ast.Expression {
		if p.curIs(token.COLON) || p.curIs(token.RBRACKET) {
			return &ast.NoneLiteral{Token: p.cur}
		}
		return p.parseExpression(LOWEST)
	}

	parts := []ast.Expression{readPart()}
	isSlice := false
	for {
		if p.curIs(token.COLON) {
			isSlice = true
			p.nextToken()
			parts = append(parts, readPart())
			continue
		}
		if p.peekIs(token.COLON) {
			isSlice = true
			p.nextToken()
			p.nextToken()
			parts = append(parts, readPart())
			continue
		}
		break
	}
	if !isSlice {
		return parts[0]
	}
	tok := p.cur
	args := make([]ast.Expression, 3)
	for i := range args {
		args[i] = &ast.NoneLiteral{Token: tok}
	}
	for i, part := range parts {
		if i < 3 {
			args[i] = part
		}
	}
	return &ast.CallExpression{Token: tok, Func: &ast.Identifier{Token: tok, Name: "slice"}, Args: args, Keywords: map[string]ast.Expression{}}
}

func (p *Parser) parseAttributeExpression(value ast.Expression) ast.Expression {
	tok := p.cur
	if !p.expect(token.IDENT) {
		return value
	}
	return &ast.AttributeExpression{Token: tok, Value: value, Attr: p.cur.Lexeme}
}

