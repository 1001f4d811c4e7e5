package syntax

import (
	"cayc/ast"
	"cayc/common"
	"cayc/report"
	"cayc/types"
)

// expr := assign_expr ;
// assign_expr := ternary_expr [assign_op assign_expr] ;
// assign_op := '=' | '+=' | '-=' | '*=' | '/=' | '%=' | '&=' | '|=' | '^='
// | '<<=' | '>>=' | '>>>=' ;
func (p *Parser) parseExpr() ast.ASTExpr {
	if p.isLambdaStart() {
		return p.parseLambda()
	}

	lhs := p.parseTernaryExpr()

	var compoundOp *common.AppliedOperator
	if p.has(TOK_ASSIGN) {
		p.next()
	} else if opKind, ok := compoundAssignOps[p.tok.Kind]; ok {
		compoundOp = newAppliedOper(opKind, p.tok)
		p.next()
	} else {
		return lhs
	}

	// Assignment is right associative.
	rhs := p.parseExpr()

	return &ast.AssignExpr{
		ExprBase:   ast.NewExprBase(report.NewSpanOver(lhs.Span(), rhs.Span())),
		Target:     lhs,
		Value:      rhs,
		CompoundOp: compoundOp,
	}
}

// ternary_expr := binop_expr ['?' expr ':' ternary_expr] ;
func (p *Parser) parseTernaryExpr() ast.ASTExpr {
	cond := p.parseBinOpExpr(0)

	if !p.has(TOK_QUESTION) {
		return cond
	}

	p.next()

	thenExpr := p.parseExpr()

	p.want(TOK_COLON)

	var elseExpr ast.ASTExpr
	if p.isLambdaStart() {
		elseExpr = p.parseLambda()
	} else {
		elseExpr = p.parseTernaryExpr()
	}

	return &ast.TernaryExpr{
		ExprBase:  ast.NewExprBase(report.NewSpanOver(cond.Span(), elseExpr.Span())),
		Condition: cond,
		Then:      thenExpr,
		Else:      elseExpr,
	}
}

// -----------------------------------------------------------------------------

// precTable is the operator precedence table for binary operators.  The table
// is ordered lowest to highest precedence: an operator's precedence is the
// index of its row.  All binary operators are left associative.
var precTable = [][]int{
	{TOK_LOR},
	{TOK_LAND},
	{TOK_BWOR},
	{TOK_BWXOR},
	{TOK_BWAND},
	{TOK_EQ, TOK_NEQ},
	{TOK_LT, TOK_GT, TOK_LTEQ, TOK_GTEQ},
	{TOK_LSHIFT, TOK_RSHIFT, TOK_URSHIFT},
	{TOK_PLUS, TOK_MINUS},
	{TOK_STAR, TOK_DIV, TOK_MOD},
}

// binaryPrec returns the precedence of the binary operator kind or -1 if kind
// is not a binary operator.
func binaryPrec(kind int) int {
	for prec, precLevel := range precTable {
		for _, opKind := range precLevel {
			if opKind == kind {
				return prec
			}
		}
	}

	return -1
}

// or_expr := and_expr {'||' and_expr} ;
// and_expr := bwor_expr {'&&' bwor_expr} ;
// bwor_expr := bwxor_expr {'|' bwxor_expr} ;
// bwxor_expr := bwand_expr {'^' bwand_expr} ;
// bwand_expr := eq_expr {'&' eq_expr} ;
// eq_expr := rel_expr {('==' | '!=') rel_expr} ;
// rel_expr := shift_expr {('<' | '>' | '<=' | '>=') shift_expr} ;
// shift_expr := arith_expr {('<<' | '>>' | '>>>') arith_expr} ;
// arith_expr := term {('+' | '-') term} ;
// term := unary_expr {('*' | '/' | '%') unary_expr} ;
func (p *Parser) parseBinOpExpr(minPrec int) ast.ASTExpr {
	lhs := p.parseUnaryExpr()

	for {
		prec := binaryPrec(p.tok.Kind)
		if prec < minPrec {
			return lhs
		}

		opTok := p.tok
		p.next()

		rhs := p.parseBinOpExpr(prec + 1)

		lhs = &ast.BinaryExpr{
			ExprBase: ast.NewExprBase(report.NewSpanOver(lhs.Span(), rhs.Span())),
			Op:       newAppliedOper(opTok.Kind, opTok),
			Lhs:      lhs,
			Rhs:      rhs,
		}
	}
}

// -----------------------------------------------------------------------------

// unary_expr := ('-' | '!' | '~') unary_expr | ('++' | '--') unary_expr
// | '(' base_type array_dims ')' unary_expr | postfix_expr ;
func (p *Parser) parseUnaryExpr() ast.ASTExpr {
	switch p.tok.Kind {
	case TOK_MINUS:
		{
			opTok := p.tok
			p.next()

			// Negation of a numeric literal is folded into the literal so that
			// the minimum values of int and long can be written.
			if p.hasOneOf(TOK_INTLIT, TOK_FLOATLIT) {
				litTok := p.tok
				p.next()

				lit := p.makeNumericLiteral(litTok, true, report.NewSpanOver(opTok.Span, litTok.Span))
				return p.parsePostfixOps(lit)
			}

			operand := p.parseUnaryExpr()

			return &ast.UnaryExpr{
				ExprBase: ast.NewExprBase(report.NewSpanOver(opTok.Span, operand.Span())),
				Op: &common.AppliedOperator{
					Kind: common.OP_NEG,
					Name: "-",
					Span: opTok.Span,
				},
				Operand: operand,
			}
		}
	case TOK_NOT, TOK_COMPL:
		{
			opTok := p.tok
			p.next()

			operand := p.parseUnaryExpr()

			return &ast.UnaryExpr{
				ExprBase: ast.NewExprBase(report.NewSpanOver(opTok.Span, operand.Span())),
				Op:       newAppliedOper(opTok.Kind, opTok),
				Operand:  operand,
			}
		}
	case TOK_INC, TOK_DEC:
		{
			opTok := p.tok
			p.next()

			operand := p.parseUnaryExpr()

			return &ast.IncDecExpr{
				ExprBase: ast.NewExprBase(report.NewSpanOver(opTok.Span, operand.Span())),
				Operand:  operand,
				IsInc:    opTok.Kind == TOK_INC,
				IsPrefix: true,
			}
		}
	case TOK_LPAREN:
		if isPrimTypeKeyword(p.peek(1).Kind) {
			return p.parseCastExpr()
		}
	}

	return p.parsePostfixOps(p.parseAtom())
}

// parseCastExpr parses a cast expression.  The parser must be positioned on
// the opening parenthesis.
func (p *Parser) parseCastExpr() ast.ASTExpr {
	startSpan := p.want(TOK_LPAREN).Span

	typ := p.parseTypeLabel()

	p.want(TOK_RPAREN)

	src := p.parseUnaryExpr()

	return &ast.CastExpr{
		ExprBase: ast.NewTypedExprBase(report.NewSpanOver(startSpan, src.Span()), typ),
		Src:      src,
	}
}

// postfix_expr := atom {postfix_op} ;
// postfix_op := args | '.' 'IDENT' [args] | '[' expr ']' | '++' | '--'
// | '::' 'IDENT' ;
func (p *Parser) parsePostfixOps(expr ast.ASTExpr) ast.ASTExpr {
	for {
		switch p.tok.Kind {
		case TOK_DOT:
			{
				p.next()
				nameTok := p.want(TOK_IDENT)

				if p.has(TOK_LPAREN) {
					args := p.parseArgs()

					expr = &ast.CallExpr{
						ExprBase:    ast.NewExprBase(report.NewSpanOver(expr.Span(), p.lookbehind.Span)),
						Receiver:    expr,
						Name:        nameTok.Value,
						NameSpan:    nameTok.Span,
						Args:        args,
						VarArgStart: -1,
					}
				} else {
					expr = &ast.FieldAccess{
						ExprBase: ast.NewExprBase(report.NewSpanOver(expr.Span(), nameTok.Span)),
						Receiver: expr,
						Name:     nameTok.Value,
						NameSpan: nameTok.Span,
					}
				}
			}
		case TOK_LBRACKET:
			{
				p.next()
				index := p.parseExpr()
				endSpan := p.want(TOK_RBRACKET).Span

				expr = &ast.ArrayAccess{
					ExprBase: ast.NewExprBase(report.NewSpanOver(expr.Span(), endSpan)),
					Array:    expr,
					Index:    index,
				}
			}
		case TOK_INC, TOK_DEC:
			p.next()

			expr = &ast.IncDecExpr{
				ExprBase: ast.NewExprBase(report.NewSpanOver(expr.Span(), p.lookbehind.Span)),
				Operand:  expr,
				IsInc:    p.lookbehind.Kind == TOK_INC,
			}
		case TOK_DCOLON:
			{
				p.next()
				nameTok := p.want(TOK_IDENT)

				expr = &ast.MethodRef{
					ExprBase:   ast.NewExprBase(report.NewSpanOver(expr.Span(), nameTok.Span)),
					Receiver:   expr,
					Method:     nameTok.Value,
					MethodSpan: nameTok.Span,
				}
			}
		default:
			return expr
		}
	}
}

// -----------------------------------------------------------------------------

// atom := 'INTLIT' | 'FLOATLIT' | 'CHARLIT' | 'STRINGLIT' | 'true' | 'false'
// | 'null' | 'this' | 'super' | 'IDENT' [args] | '(' expr ')' | new_expr
// | 'ERROR' ;
func (p *Parser) parseAtom() ast.ASTExpr {
	switch p.tok.Kind {
	case TOK_INTLIT, TOK_FLOATLIT:
		p.next()
		return p.makeNumericLiteral(p.lookbehind, false, p.lookbehind.Span)
	case TOK_CHARLIT:
		p.next()
		return &ast.Literal{
			ExprBase: ast.NewTypedExprBase(p.lookbehind.Span, types.PrimChar),
			Kind:     ast.LitChar,
			Text:     p.lookbehind.Value,
			IntValue: int64(p.lookbehind.IntValue),
		}
	case TOK_STRINGLIT:
		p.next()
		return &ast.Literal{
			ExprBase: ast.NewTypedExprBase(p.lookbehind.Span, types.String),
			Kind:     ast.LitString,
			Text:     p.lookbehind.Value,
			StrValue: p.lookbehind.Value,
		}
	case TOK_TRUE, TOK_FALSE:
		p.next()
		return &ast.Literal{
			ExprBase:  ast.NewTypedExprBase(p.lookbehind.Span, types.PrimBool),
			Kind:      ast.LitBool,
			Text:      p.lookbehind.Value,
			BoolValue: p.lookbehind.Kind == TOK_TRUE,
		}
	case TOK_NULL:
		p.next()
		return &ast.Literal{
			ExprBase: ast.NewTypedExprBase(p.lookbehind.Span, types.Null),
			Kind:     ast.LitNull,
			Text:     "null",
		}
	case TOK_ERROR:
		p.next()
		return &ast.BadExpr{ExprBase: ast.NewExprBase(p.lookbehind.Span)}
	case TOK_THIS:
		p.next()
		return &ast.This{ExprBase: ast.NewExprBase(p.lookbehind.Span)}
	case TOK_SUPER:
		p.next()
		return &ast.Super{ExprBase: ast.NewExprBase(p.lookbehind.Span)}
	case TOK_IDENT:
		{
			nameTok := p.tok
			p.next()

			if p.has(TOK_LPAREN) {
				args := p.parseArgs()

				return &ast.CallExpr{
					ExprBase:    ast.NewExprBase(report.NewSpanOver(nameTok.Span, p.lookbehind.Span)),
					Name:        nameTok.Value,
					NameSpan:    nameTok.Span,
					Args:        args,
					VarArgStart: -1,
				}
			}

			return &ast.Identifier{
				ExprBase: ast.NewExprBase(nameTok.Span),
				Name:     nameTok.Value,
			}
		}
	case TOK_LPAREN:
		{
			p.next()
			expr := p.parseExpr()
			p.want(TOK_RPAREN)

			return expr
		}
	case TOK_NEW:
		return p.parseNewExpr()
	}

	p.reject()
	return nil
}

// new_expr := 'new' ('IDENT' args | base_type new_array) ;
// new_array := '[' expr ']' {'[' expr ']'} array_dims | array_dims array_init ;
func (p *Parser) parseNewExpr() ast.ASTExpr {
	startSpan := p.want(TOK_NEW).Span

	if p.has(TOK_IDENT) && p.peek(1).Kind == TOK_LPAREN {
		nameTok := p.want(TOK_IDENT)
		args := p.parseArgs()

		return &ast.NewExpr{
			ExprBase:    ast.NewExprBase(report.NewSpanOver(startSpan, p.lookbehind.Span)),
			ClassName:   nameTok.Value,
			Args:        args,
			VarArgStart: -1,
		}
	}

	elemType := p.parseBaseType()

	if !p.has(TOK_LBRACKET) {
		p.reject()
	}

	// Initialized arrays have only unsized dimensions.
	if p.peek(1).Kind == TOK_RBRACKET {
		rank := p.parseArrayDims()
		return p.parseArrayInit(elemType, rank, startSpan)
	}

	var sizes []ast.ASTExpr
	for p.has(TOK_LBRACKET) && p.peek(1).Kind != TOK_RBRACKET {
		p.next()
		sizes = append(sizes, p.parseExpr())
		p.want(TOK_RBRACKET)
	}

	extraRank := p.parseArrayDims()

	return &ast.NewArray{
		ExprBase:  ast.NewExprBase(report.NewSpanOver(startSpan, p.lookbehind.Span)),
		ElemType:  elemType,
		Sizes:     sizes,
		ExtraRank: extraRank,
	}
}

// -----------------------------------------------------------------------------

// isLambdaStart returns whether the parser is positioned at the start of a
// lambda: either a single identifier or a parenthesized parameter list
// followed by an arrow.
func (p *Parser) isLambdaStart() bool {
	switch p.tok.Kind {
	case TOK_IDENT:
		return p.peek(1).Kind == TOK_ARROW
	case TOK_LPAREN:
		depth := 1
		for n := 1; ; n++ {
			switch p.peek(n).Kind {
			case TOK_LPAREN:
				depth++
			case TOK_RPAREN:
				depth--
				if depth == 0 {
					return p.peek(n+1).Kind == TOK_ARROW
				}
			case TOK_EOF, TOK_SEMI, TOK_LBRACE, TOK_RBRACE:
				return false
			}
		}
	}

	return false
}

// lambda := ('IDENT' | '(' [lambda_param {',' lambda_param}] ')') '->'
// (expr | block) ;
// lambda_param := [type_label] 'IDENT' ;
func (p *Parser) parseLambda() *ast.Lambda {
	startSpan := p.tok.Span

	var params []*ast.Param
	if p.has(TOK_IDENT) {
		nameTok := p.want(TOK_IDENT)
		params = append(params, &ast.Param{Name: nameTok.Value, Span: nameTok.Span})
	} else {
		p.want(TOK_LPAREN)

		if !p.has(TOK_RPAREN) {
			for {
				var typ types.Type
				if !(p.has(TOK_IDENT) && p.peek(1).Kind != TOK_IDENT && p.peek(1).Kind != TOK_LBRACKET) {
					typ = p.parseTypeLabel()
				}

				nameTok := p.want(TOK_IDENT)
				params = append(params, &ast.Param{Name: nameTok.Value, Span: nameTok.Span, Type: typ})

				if p.has(TOK_COMMA) {
					p.next()
					continue
				}

				break
			}
		}

		p.want(TOK_RPAREN)
	}

	p.want(TOK_ARROW)

	var body ast.ASTNode
	if p.has(TOK_LBRACE) {
		body = p.parseBlock()
	} else {
		body = p.parseExpr()
	}

	return &ast.Lambda{
		ExprBase: ast.NewExprBase(report.NewSpanOver(startSpan, body.Span())),
		Params:   params,
		Body:     body,
	}
}
