package syntax

import (
	"cayc/ast"
	"cayc/common"
	"cayc/report"
	"cayc/types"
)

// block := '{' {stmt} '}' ;
func (p *Parser) parseBlock() *ast.Block {
	startSpan := p.want(TOK_LBRACE).Span

	var stmts []ast.ASTNode
	for !p.hasOneOf(TOK_RBRACE, TOK_EOF) {
		if stmt := p.parseStmtRecover(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}

	endSpan := p.want(TOK_RBRACE).Span

	return &ast.Block{
		ASTBase: ast.NewASTBaseOver(startSpan, endSpan),
		Stmts:   stmts,
	}
}

// parseStmtRecover parses a statement.  If a syntax error occurs, the parser
// skips to the end of the statement and nil is returned.
func (p *Parser) parseStmtRecover() (stmt ast.ASTNode) {
	defer func() {
		if p.catchSyntaxError(recover()) {
			p.skipStmt()
			stmt = nil
		}
	}()

	return p.parseStmt()
}

// stmt := block | if_stmt | while_loop | do_while_loop | for_loop
// | switch_stmt | labeled_stmt | simple_stmt ';' | ';' ;
// simple_stmt := var_decl | break_stmt | continue_stmt | return_stmt | expr ;
func (p *Parser) parseStmt() ast.ASTNode {
	var stmt ast.ASTNode

	switch p.tok.Kind {
	case TOK_LBRACE:
		return p.parseBlock()
	case TOK_IF:
		return p.parseIfStmt()
	case TOK_WHILE:
		return p.parseWhileLoop()
	case TOK_DO:
		return p.parseDoWhileLoop()
	case TOK_FOR:
		return p.parseForLoop()
	case TOK_SWITCH:
		return p.parseSwitchStmt()
	case TOK_SEMI:
		// Empty statements are represented as empty blocks.
		p.next()
		return &ast.Block{ASTBase: ast.NewASTBaseOn(p.lookbehind.Span)}
	case TOK_BREAK, TOK_CONTINUE:
		stmt = p.parseBranchStmt()
	case TOK_RETURN:
		{
			p.next()
			startSpan := p.lookbehind.Span

			var value ast.ASTExpr
			if !p.has(TOK_SEMI) {
				value = p.parseExpr()
			}

			stmt = &ast.ReturnStmt{
				ASTBase: ast.NewASTBaseOver(startSpan, p.lookbehind.Span),
				Value:   value,
			}
		}
	case TOK_IDENT:
		if p.peek(1).Kind == TOK_COLON {
			return p.parseLabeledStmt()
		}

		fallthrough
	default:
		if p.isDeclStart() {
			stmt = p.parseVarDecl()
		} else {
			stmt = p.parseExprStmt()
		}
	}

	p.want(TOK_SEMI)
	return stmt
}

// labeled_stmt := 'IDENT' ':' stmt ;
func (p *Parser) parseLabeledStmt() ast.ASTNode {
	labelTok := p.want(TOK_IDENT)
	p.want(TOK_COLON)

	stmt := p.parseStmt()

	// Loops and switches carry their own labels so that they can be targeted.
	if labelable, ok := stmt.(ast.Labelable); ok && labelable.LoopLabel() == "" {
		labelable.SetLabel(labelTok.Value)
		return stmt
	}

	return &ast.LabeledStmt{
		ASTBase:   ast.NewASTBaseOver(labelTok.Span, stmt.Span()),
		Label:     labelTok.Value,
		LabelSpan: labelTok.Span,
		Stmt:      stmt,
	}
}

// break_stmt := 'break' ['IDENT'] ;
// continue_stmt := 'continue' ['IDENT'] ;
func (p *Parser) parseBranchStmt() *ast.BranchStmt {
	kwTok := p.tok
	p.next()

	branch := &ast.BranchStmt{IsContinue: kwTok.Kind == TOK_CONTINUE}

	if p.has(TOK_IDENT) {
		branch.Label = p.tok.Value
		branch.LabelSpan = p.tok.Span
		p.next()
	}

	branch.ASTBase = ast.NewASTBaseOver(kwTok.Span, p.lookbehind.Span)
	return branch
}

// -----------------------------------------------------------------------------

// var_decl := ['final'] type_label var_item {',' var_item} ;
// var_item := 'IDENT' ['=' initializer] ;
func (p *Parser) parseVarDecl() *ast.VarDecl {
	startSpan := p.tok.Span

	constant := false
	if p.has(TOK_FINAL) {
		p.next()
		constant = true
	}

	typ := p.parseTypeLabel()
	nameTok := p.want(TOK_IDENT)

	return p.parseVarDeclRest(startSpan, typ, constant, nameTok)
}

// parseVarDeclRest parses the remainder of a variable declaration after the
// name of its first variable.
func (p *Parser) parseVarDeclRest(startSpan *report.TextSpan, typ types.Type, constant bool, nameTok *Token) *ast.VarDecl {
	var vars []*ast.LocalVar
	for {
		lv := &ast.LocalVar{
			Sym: &common.Symbol{
				Name:     nameTok.Value,
				DefSpan:  nameTok.Span,
				Type:     typ,
				Storage:  common.StorageLocal,
				Constant: constant,
			},
		}

		if p.has(TOK_ASSIGN) {
			p.next()
			lv.Init = p.parseInitializer()
		}

		vars = append(vars, lv)

		if p.has(TOK_COMMA) {
			p.next()
			nameTok = p.want(TOK_IDENT)
			continue
		}

		break
	}

	return &ast.VarDecl{
		ASTBase: ast.NewASTBaseOver(startSpan, p.lookbehind.Span),
		Vars:    vars,
	}
}

// parseExprStmt parses an expression statement.
func (p *Parser) parseExprStmt() *ast.ExprStmt {
	expr := p.parseExpr()

	return &ast.ExprStmt{
		ASTBase: ast.NewASTBaseOn(expr.Span()),
		Expr:    expr,
	}
}
