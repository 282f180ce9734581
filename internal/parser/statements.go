package parser

import (
	"github.com/LayneInNL/dmf/internal/ast"
	"github.com/LayneInNL/dmf/internal/token"
)

// parseStatement dispatches on the current token to one of the compound
// or simple statement forms. A simple statement leaves p.cur on its
// trailing NEWLINE/SEMICOLON (or on DEDENT/EOF when no NEWLINE precedes
// it) for the caller's block-iteration loop to consume; a compound
// statement leaves p.cur on the first token after its block.
func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Kind {
	case token.RETURN, token.RAISE, token.ASSERT, token.IMPORT, token.FROM, token.GLOBAL, token.NONLOCAL, token.DEL:
		// These parsers stop on their own last token; step onto the
		// trailing separator, as parseSimpleStatementLine does.
		defer func() {
			if !p.curIs(token.NEWLINE) && !p.curIs(token.SEMICOLON) &&
				(p.peekIs(token.NEWLINE) || p.peekIs(token.SEMICOLON) || p.peekIs(token.DEDENT) || p.peekIs(token.EOF)) {
				p.nextToken()
			}
		}()
	}
	switch p.cur.Kind {
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.DEF:
		return p.parseFunctionDef(nil)
	case token.CLASS:
		return p.parseClassDef(nil)
	case token.AT:
		return p.parseDecorated()
	case token.WITH:
		return p.parseWithStatement()
	case token.TRY:
		return p.parseTryStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.PASS:
		s := &ast.PassStatement{Token: p.cur}
		p.nextToken()
		return s
	case token.BREAK:
		s := &ast.BreakStatement{Token: p.cur}
		p.nextToken()
		return s
	case token.CONTINUE:
		s := &ast.ContinueStatement{Token: p.cur}
		p.nextToken()
		return s
	case token.RAISE:
		return p.parseRaiseStatement()
	case token.ASSERT:
		return p.parseAssertStatement()
	case token.IMPORT:
		return p.parseImportStatement()
	case token.FROM:
		return p.parseImportFromStatement()
	case token.GLOBAL:
		return p.parseGlobalStatement()
	case token.NONLOCAL:
		return p.parseNonlocalStatement()
	case token.DEL:
		return p.parseDeleteStatement()
	case token.NEWLINE, token.INDENT, token.DEDENT:
		p.nextToken()
		return nil
	default:
		return p.parseSimpleStatementLine()
	}
}

// parseBlock parses an indented suite: NEWLINE INDENT stmt+ DEDENT,
// falling back to a single simple statement on the same line (`if x: y`)
// when no INDENT follows — both are valid in this grammar.
func (p *Parser) parseBlock() []ast.Statement {
	if p.curIs(token.NEWLINE) {
		p.nextToken()
		if !p.curIs(token.INDENT) {
			p.errorf("expected an indented block")
			return nil
		}
		p.nextToken()
		var body []ast.Statement
		for !p.curIs(token.DEDENT) && !p.curIs(token.EOF) {
			if p.curIs(token.NEWLINE) {
				p.nextToken()
				continue
			}
			stmt := p.parseStatement()
			if stmt != nil {
				body = append(body, stmt)
			}
		}
		if p.curIs(token.DEDENT) {
			p.nextToken()
		}
		return body
	}
	// Same-line suite: one or more simple statements separated by ';'.
	var body []ast.Statement
	for {
		stmt := p.parseSimpleStatementLine()
		if stmt != nil {
			body = append(body, stmt)
		}
		if p.curIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}
		break
	}
	if p.curIs(token.NEWLINE) {
		p.nextToken()
	}
	return body
}

func (p *Parser) parseIfStatement() ast.Statement {
	tok := p.cur
	p.nextToken()
	test := p.parseExpression(LOWEST)
	if !p.expect(token.COLON) {
		return &ast.UnsupportedNode{Token: tok, Detail: "malformed if"}
	}
	p.nextToken()
	body := p.parseBlock()

	var orelse []ast.Statement
	if p.curIs(token.ELIF) {
		orelse = []ast.Statement{p.parseIfStatement()}
	} else if p.curIs(token.ELSE) {
		p.nextToken()
		if !p.expect(token.COLON) {
			return &ast.IfStatement{Token: tok, Test: test, Body: body}
		}
		p.nextToken()
		orelse = p.parseBlock()
	}
	return &ast.IfStatement{Token: tok, Test: test, Body: body, Orelse: orelse}
}

func (p *Parser) parseWhileStatement() ast.Statement {
	tok := p.cur
	p.nextToken()
	test := p.parseExpression(LOWEST)
	if !p.expect(token.COLON) {
		return &ast.UnsupportedNode{Token: tok, Detail: "malformed while"}
	}
	p.nextToken()
	body := p.parseBlock()
	var orelse []ast.Statement
	if p.curIs(token.ELSE) {
		p.nextToken()
		if p.expect(token.COLON) {
			p.nextToken()
			orelse = p.parseBlock()
		}
	}
	return &ast.WhileStatement{Token: tok, Test: test, Body: body, Orelse: orelse}
}

func (p *Parser) parseForStatement() ast.Statement {
	tok := p.cur
	p.nextToken()
	target := p.parseTargetList()
	if !p.expect(token.IN) {
		return &ast.UnsupportedNode{Token: tok, Detail: "malformed for"}
	}
	p.nextToken()
	iter := p.parseExpression(LOWEST)
	if !p.expect(token.COLON) {
		return &ast.UnsupportedNode{Token: tok, Detail: "malformed for"}
	}
	p.nextToken()
	body := p.parseBlock()
	var orelse []ast.Statement
	if p.curIs(token.ELSE) {
		p.nextToken()
		if p.expect(token.COLON) {
			p.nextToken()
			orelse = p.parseBlock()
		}
	}
	return &ast.ForStatement{Token: tok, Target: target, Iter: iter, Body: body, Orelse: orelse}
}

func (p *Parser) parseDecorated() ast.Statement {
	var decorators []ast.Expression
	for p.curIs(token.AT) {
		p.nextToken()
		decorators = append(decorators, p.parseExpression(LOWEST))
		if p.curIs(token.NEWLINE) {
			p.nextToken()
		}
	}
	switch p.cur.Kind {
	case token.DEF:
		return p.parseFunctionDef(decorators)
	case token.CLASS:
		return p.parseClassDef(decorators)
	default:
		tok := p.cur
		p.errorf("decorators must precede a function or class definition")
		return &ast.UnsupportedNode{Token: tok, Detail: "misplaced decorator"}
	}
}

func (p *Parser) parseFunctionDef(decorators []ast.Expression) ast.Statement {
	tok := p.cur // 'def'
	p.nextToken()
	name := p.cur.Lexeme
	if !p.expect(token.LPAREN) {
		return &ast.UnsupportedNode{Token: tok, Detail: "malformed function definition"}
	}
	p.nextToken()
	var params []*ast.Parameter
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		params = append(params, p.parseParameter())
		if p.peekIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	if !p.closeBracket(token.RPAREN) {
		return &ast.UnsupportedNode{Token: tok, Detail: "malformed function definition"}
	}
	if p.peekIs(token.ARROW) {
		p.nextToken()
		p.nextToken()
		p.parseExpression(LOWEST) // return annotation, not modeled
	}
	if !p.expect(token.COLON) {
		return &ast.UnsupportedNode{Token: tok, Detail: "malformed function definition"}
	}
	p.nextToken()
	body := p.parseBlock()
	return &ast.FunctionDef{Token: tok, Name: name, Params: params, Body: body, Decorators: decorators}
}

func (p *Parser) parseClassDef(decorators []ast.Expression) ast.Statement {
	tok := p.cur // 'class'
	p.nextToken()
	name := p.cur.Lexeme
	var bases []ast.Expression
	keywords := map[string]ast.Expression{}
	if p.peekIs(token.LPAREN) {
		p.nextToken()
		p.nextToken()
		for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
			if p.curIs(token.IDENT) && p.peekIs(token.ASSIGN) {
				kwName := p.cur.Lexeme
				p.nextToken()
				p.nextToken()
				keywords[kwName] = p.parseExpression(LOWEST)
			} else {
				bases = append(bases, p.parseExpression(LOWEST))
			}
			if p.peekIs(token.COMMA) {
				p.nextToken()
				p.nextToken()
				continue
			}
			break
		}
		p.closeBracket(token.RPAREN)
	}
	if !p.expect(token.COLON) {
		return &ast.UnsupportedNode{Token: tok, Detail: "malformed class definition"}
	}
	p.nextToken()
	body := p.parseBlock()
	return &ast.ClassDef{Token: tok, Name: name, Bases: bases, Keywords: keywords, Body: body, Decorators: decorators}
}

func (p *Parser) parseWithStatement() ast.Statement {
	tok := p.cur
	p.nextToken()
	var items []ast.WithItem
	for {
		ctxExpr := p.parseExpression(LOWEST)
		item := ast.WithItem{ContextExpr: ctxExpr}
		if p.peekIs(token.AS) {
			p.nextToken()
			p.nextToken()
			item.OptionalVar = p.parseExpression(LOWEST)
		}
		items = append(items, item)
		if p.peekIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	if !p.expect(token.COLON) {
		return &ast.UnsupportedNode{Token: tok, Detail: "malformed with"}
	}
	p.nextToken()
	body := p.parseBlock()
	return &ast.WithStatement{Token: tok, Items: items, Body: body}
}

func (p *Parser) parseTryStatement() ast.Statement {
	tok := p.cur
	p.nextToken()
	if !p.expect(token.COLON) {
		return &ast.UnsupportedNode{Token: tok, Detail: "malformed try"}
	}
	p.nextToken()
	body := p.parseBlock()

	var handlers []ast.ExceptHandler
	for p.curIs(token.EXCEPT) {
		hTok := p.cur
		p.nextToken()
		var typ ast.Expression
		name := ""
		if !p.curIs(token.COLON) {
			typ = p.parseExpression(LOWEST)
			if p.peekIs(token.AS) {
				p.nextToken()
				p.nextToken()
				name = p.cur.Lexeme
			}
		}
		if !p.expect(token.COLON) {
			break
		}
		p.nextToken()
		hBody := p.parseBlock()
		handlers = append(handlers, ast.ExceptHandler{Token: hTok, Type: typ, Name: name, Body: hBody})
	}

	var orelse []ast.Statement
	if p.curIs(token.ELSE) {
		p.nextToken()
		if p.expect(token.COLON) {
			p.nextToken()
			orelse = p.parseBlock()
		}
	}

	var finally []ast.Statement
	if p.curIs(token.FINALLY) {
		p.nextToken()
		if p.expect(token.COLON) {
			p.nextToken()
			finally = p.parseBlock()
		}
	}

	return &ast.TryStatement{Token: tok, Body: body, Handlers: handlers, Orelse: orelse, Finally: finally}
}

func (p *Parser) parseReturnStatement() ast.Statement {
	tok := p.cur
	p.nextToken()
	var val ast.Expression
	if !p.curIs(token.NEWLINE) && !p.curIs(token.SEMICOLON) && !p.curIs(token.EOF) && !p.curIs(token.DEDENT) {
		val = p.parseExpression(LOWEST)
	}
	return &ast.ReturnStatement{Token: tok, Value: val}
}

func (p *Parser) parseRaiseStatement() ast.Statement {
	tok := p.cur
	p.nextToken()
	var exc, cause ast.Expression
	if !p.curIs(token.NEWLINE) && !p.curIs(token.SEMICOLON) && !p.curIs(token.EOF) {
		exc = p.parseExpression(LOWEST)
		if p.peekIs(token.FROM) {
			p.nextToken()
			p.nextToken()
			cause = p.parseExpression(LOWEST)
		}
	}
	return &ast.RaiseStatement{Token: tok, Exc: exc, Cause: cause}
}

func (p *Parser) parseAssertStatement() ast.Statement {
	tok := p.cur
	p.nextToken()
	test := p.parseExpression(LOWEST)
	var msg ast.Expression
	if p.peekIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		msg = p.parseExpression(LOWEST)
	}
	return &ast.AssertStatement{Token: tok, Test: test, Msg: msg}
}

func (p *Parser) parseDottedName() string {
	name := p.cur.Lexeme
	for p.peekIs(token.DOT) {
		p.nextToken()
		p.nextToken()
		name += "." + p.cur.Lexeme
	}
	return name
}

func (p *Parser) parseImportStatement() ast.Statement {
	tok := p.cur
	p.nextToken()
	var names []ast.ImportAlias
	for {
		path := p.parseDottedName()
		alias := ""
		if p.peekIs(token.AS) {
			p.nextToken()
			p.nextToken()
			alias = p.cur.Lexeme
		}
		names = append(names, ast.ImportAlias{Path: path, Alias: alias})
		if p.peekIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	return &ast.ImportStatement{Token: tok, Names: names}
}

func (p *Parser) parseImportFromStatement() ast.Statement {
	tok := p.cur
	p.nextToken()
	level := 0
	for p.curIs(token.DOT) {
		level++
		p.nextToken()
	}
	module := ""
	if !p.curIs(token.IMPORT) {
		module = p.parseDottedName()
		p.nextToken()
	}
	if !p.curIs(token.IMPORT) {
		p.errorf("expected 'import' in from-import statement")
		return &ast.UnsupportedNode{Token: tok, Detail: "malformed from-import"}
	}
	p.nextToken()
	var names []ast.ImportAlias
	wildcard := p.curIs(token.STAR)
	if wildcard {
		names = append(names, ast.ImportAlias{Path: "*"})
	} else {
		paren := p.curIs(token.LPAREN)
		if paren {
			p.nextToken()
		}
		for {
			name := p.cur.Lexeme
			alias := ""
			if p.peekIs(token.AS) {
				p.nextToken()
				p.nextToken()
				alias = p.cur.Lexeme
			}
			names = append(names, ast.ImportAlias{Path: name, Alias: alias})
			if p.peekIs(token.COMMA) {
				p.nextToken()
				p.nextToken()
				continue
			}
			break
		}
		if paren {
			p.expect(token.RPAREN)
		}
	}
	return &ast.ImportFromStatement{Token: tok, Module: module, Level: level, Names: names}
}

func (p *Parser) parseGlobalStatement() ast.Statement {
	tok := p.cur
	p.nextToken()
	names := []string{p.cur.Lexeme}
	for p.peekIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		names = append(names, p.cur.Lexeme)
	}
	return &ast.GlobalStatement{Token: tok, Names: names}
}

func (p *Parser) parseNonlocalStatement() ast.Statement {
	tok := p.cur
	p.nextToken()
	names := []string{p.cur.Lexeme}
	for p.peekIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		names = append(names, p.cur.Lexeme)
	}
	return &ast.NonlocalStatement{Token: tok, Names: names}
}

func (p *Parser) parseDeleteStatement() ast.Statement {
	tok := p.cur
	p.nextToken()
	targets := []ast.Expression{p.parseExpression(LOWEST)}
	for p.peekIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		targets = append(targets, p.parseExpression(LOWEST))
	}
	return &ast.DeleteStatement{Token: tok, Targets: targets}
}

// parseSimpleStatementLine parses an expression statement, an assignment
// (possibly chained or augmented), then steps onto the statement's
// trailing NEWLINE/SEMICOLON (or DEDENT/EOF when no NEWLINE precedes
// it), which the caller consumes before looking at the next statement.
func (p *Parser) parseSimpleStatementLine() ast.Statement {
	tok := p.cur
	first := p.parseExpression(LOWEST)

	var stmt ast.Statement
	switch {
	case p.peekIs(token.COLON):
		p.nextToken()
		p.nextToken()
		annotation := p.parseExpression(LOWEST)
		var value ast.Expression
		if p.peekIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			value = p.parseExpression(LOWEST)
		}
		stmt = &ast.AnnAssignStatement{Token: tok, Target: first, Annotation: annotation, Value: value}
	case isAugAssignOp(p.peek.Kind):
		opTok := p.peek
		p.nextToken()
		op := opTok.Lexeme
		p.nextToken()
		value := p.parseExpression(LOWEST)
		stmt = &ast.AugAssignStatement{Token: tok, Target: first, Op: op, Value: value}
	case p.peekIs(token.ASSIGN):
		targets := []ast.Expression{first}
		var value ast.Expression
		for p.peekIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			value = p.parseExpression(LOWEST)
			if p.peekIs(token.ASSIGN) {
				targets = append(targets, value)
			}
		}
		stmt = &ast.AssignStatement{Token: tok, Targets: targets, Value: value}
	default:
		stmt = &ast.ExpressionStatement{Token: tok, Expression: first}
	}

	if p.peekIs(token.NEWLINE) || p.peekIs(token.SEMICOLON) || p.peekIs(token.DEDENT) || p.peekIs(token.EOF) {
		p.nextToken()
	}
	return stmt
}

func isAugAssignOp(k token.Kind) bool {
	switch k {
	case token.PLUSEQ, token.MINUSEQ, token.STAREQ, token.SLASHEQ:
		return true
	default:
		return false
	}
}
