package syntax

import (
	"cayc/ast"
	"cayc/common"
	"cayc/report"
	"cayc/types"
)

// if_stmt := 'if' '(' expr ')' stmt ['else' stmt] ;
func (p *Parser) parseIfStmt() *ast.IfStmt {
	startSpan := p.want(TOK_IF).Span

	p.want(TOK_LPAREN)
	cond := p.parseExpr()
	p.want(TOK_RPAREN)

	body := p.parseStmt()

	// The else binds to the nearest if: any else following the body of an
	// inner if has already been consumed by it.
	var elseStmt ast.ASTNode
	if p.has(TOK_ELSE) {
		p.next()
		elseStmt = p.parseStmt()
	}

	return &ast.IfStmt{
		ASTBase:   ast.NewASTBaseOver(startSpan, p.lookbehind.Span),
		Condition: cond,
		Body:      body,
		Else:      elseStmt,
	}
}

// while_loop := 'while' '(' expr ')' stmt ;
func (p *Parser) parseWhileLoop() *ast.WhileLoop {
	startSpan := p.want(TOK_WHILE).Span

	p.want(TOK_LPAREN)
	cond := p.parseExpr()
	p.want(TOK_RPAREN)

	body := p.parseStmt()

	return &ast.WhileLoop{
		LoopBase:  ast.LoopBase{ASTBase: ast.NewASTBaseOver(startSpan, body.Span())},
		Condition: cond,
		Body:      body,
	}
}

// do_while_loop := 'do' stmt 'while' '(' expr ')' ';' ;
func (p *Parser) parseDoWhileLoop() *ast.DoWhileLoop {
	startSpan := p.want(TOK_DO).Span

	body := p.parseStmt()

	p.want(TOK_WHILE)
	p.want(TOK_LPAREN)
	cond := p.parseExpr()
	p.want(TOK_RPAREN)

	endSpan := p.want(TOK_SEMI).Span

	return &ast.DoWhileLoop{
		LoopBase:  ast.LoopBase{ASTBase: ast.NewASTBaseOver(startSpan, endSpan)},
		Body:      body,
		Condition: cond,
	}
}

// for_loop := 'for' '(' (for_each_header | for_header) ')' stmt ;
// for_header := [for_init] ';' [expr] ';' [expr_list] ;
// for_init := var_decl | expr_list ;
// for_each_header := ['final'] type_label 'IDENT' ':' expr ;
func (p *Parser) parseForLoop() ast.ASTNode {
	startSpan := p.want(TOK_FOR).Span

	p.want(TOK_LPAREN)

	var init []ast.ASTNode
	if p.isDeclStart() {
		declStart := p.tok.Span

		constant := false
		if p.has(TOK_FINAL) {
			p.next()
			constant = true
		}

		typ := p.parseTypeLabel()
		nameTok := p.want(TOK_IDENT)

		if p.has(TOK_COLON) {
			return p.parseForEachLoop(startSpan, typ, constant, nameTok)
		}

		init = append(init, p.parseVarDeclRest(declStart, typ, constant, nameTok))
	} else if !p.has(TOK_SEMI) {
		for _, expr := range p.parseExprList() {
			init = append(init, &ast.ExprStmt{
				ASTBase: ast.NewASTBaseOn(expr.Span()),
				Expr:    expr,
			})
		}
	}

	p.want(TOK_SEMI)

	var cond ast.ASTExpr
	if !p.has(TOK_SEMI) {
		cond = p.parseExpr()
	}

	p.want(TOK_SEMI)

	var update []ast.ASTExpr
	if !p.has(TOK_RPAREN) {
		update = p.parseExprList()
	}

	p.want(TOK_RPAREN)

	body := p.parseStmt()

	return &ast.ForLoop{
		LoopBase:  ast.LoopBase{ASTBase: ast.NewASTBaseOver(startSpan, body.Span())},
		Init:      init,
		Condition: cond,
		Update:    update,
		Body:      body,
	}
}

// parseForEachLoop parses the remainder of a for-each loop after its iterator
// variable.
func (p *Parser) parseForEachLoop(startSpan *report.TextSpan, typ types.Type, constant bool, nameTok *Token) *ast.ForEachLoop {
	p.want(TOK_COLON)

	seq := p.parseExpr()

	p.want(TOK_RPAREN)

	body := p.parseStmt()

	return &ast.ForEachLoop{
		LoopBase: ast.LoopBase{ASTBase: ast.NewASTBaseOver(startSpan, body.Span())},
		IterVar: &common.Symbol{
			Name:     nameTok.Value,
			DefSpan:  nameTok.Span,
			Type:     typ,
			Storage:  common.StorageLocal,
			Constant: constant,
		},
		Sequence: seq,
		Body:     body,
	}
}

// expr_list := expr {',' expr} ;
func (p *Parser) parseExprList() []ast.ASTExpr {
	var exprs []ast.ASTExpr

	for {
		exprs = append(exprs, p.parseExpr())

		if p.has(TOK_COMMA) {
			p.next()
			continue
		}

		return exprs
	}
}

// -----------------------------------------------------------------------------

// switch_stmt := 'switch' '(' expr ')' '{' {switch_case} '}' ;
// switch_case := ('case' expr | 'default') ':' {stmt} ;
func (p *Parser) parseSwitchStmt() *ast.SwitchStmt {
	startSpan := p.want(TOK_SWITCH).Span

	p.want(TOK_LPAREN)
	value := p.parseExpr()
	p.want(TOK_RPAREN)

	p.want(TOK_LBRACE)

	var cases []*ast.SwitchCase
	hasDefault := false
	for !p.hasOneOf(TOK_RBRACE, TOK_EOF) {
		caseStart := p.tok.Span

		var caseValue ast.ASTExpr
		if p.has(TOK_DEFAULT) {
			p.next()

			if hasDefault {
				p.recError(caseStart, "switch has multiple default cases")
			}

			hasDefault = true
		} else {
			p.want(TOK_CASE)
			caseValue = p.parseExpr()
		}

		p.want(TOK_COLON)

		// Case bodies run until the next case label: fallthrough is preserved.
		var body []ast.ASTNode
		for !p.hasOneOf(TOK_CASE, TOK_DEFAULT, TOK_RBRACE, TOK_EOF) {
			if stmt := p.parseStmtRecover(); stmt != nil {
				body = append(body, stmt)
			}
		}

		cases = append(cases, &ast.SwitchCase{
			Span:  report.NewSpanOver(caseStart, p.lookbehind.Span),
			Value: caseValue,
			Body:  body,
		})
	}

	endSpan := p.want(TOK_RBRACE).Span

	return &ast.SwitchStmt{
		LoopBase: ast.LoopBase{ASTBase: ast.NewASTBaseOver(startSpan, endSpan)},
		Value:    value,
		Cases:    cases,
	}
}
