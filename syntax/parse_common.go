package syntax

import (
	"cayc/ast"
	"cayc/common"
	"cayc/report"
	"cayc/types"
)

// primTypes maps primitive type keywords to their types.
var primTypes = map[int]types.Type{
	TOK_INT:    types.PrimInt,
	TOK_LONG:   types.PrimLong,
	TOK_FLOAT:  types.PrimFloat,
	TOK_DOUBLE: types.PrimDouble,
	TOK_BOOL:   types.PrimBool,
	TOK_CHAR:   types.PrimChar,
	TOK_STRING: types.String,
}

// isPrimTypeKeyword returns whether kind is a builtin type keyword.
func isPrimTypeKeyword(kind int) bool {
	_, ok := primTypes[kind]
	return ok
}

// type_label := base_type {'[' ']'} ;
func (p *Parser) parseTypeLabel() types.Type {
	typ := p.parseBaseType()

	rank := p.parseArrayDims()
	if rank > 0 {
		return types.NewArray(typ, rank)
	}

	return typ
}

// base_type := 'int' | 'long' | 'float' | 'double' | 'bool' | 'char'
// | 'string' | 'IDENT' ;
func (p *Parser) parseBaseType() types.Type {
	if typ, ok := primTypes[p.tok.Kind]; ok {
		p.next()
		return typ
	}

	if p.has(TOK_VOID) {
		p.error(p.tok.Span, "void is only valid as a return type")
	}

	return &types.ClassType{Name: p.want(TOK_IDENT).Value}
}

// array_dims := {'[' ']'} ;
func (p *Parser) parseArrayDims() int {
	rank := 0
	for p.has(TOK_LBRACKET) && p.peek(1).Kind == TOK_RBRACKET {
		p.next()
		p.next()
		rank++
	}

	return rank
}

// isDeclStart returns whether the parser is positioned at the start of a
// local variable declaration: a type label followed by an identifier.
func (p *Parser) isDeclStart() bool {
	if p.has(TOK_FINAL) || isPrimTypeKeyword(p.tok.Kind) {
		return true
	}

	if !p.has(TOK_IDENT) {
		return false
	}

	// Skip any array dimensions.
	n := 1
	for p.peek(n).Kind == TOK_LBRACKET && p.peek(n+1).Kind == TOK_RBRACKET {
		n += 2
	}

	return p.peek(n).Kind == TOK_IDENT
}

// -----------------------------------------------------------------------------

// initializer := array_init | expr ;
func (p *Parser) parseInitializer() ast.ASTExpr {
	if p.has(TOK_LBRACE) {
		return p.parseArrayInit(nil, 0, p.tok.Span)
	}

	return p.parseExpr()
}

// array_init := '{' [initializer {',' initializer} [',']] '}' ;
func (p *Parser) parseArrayInit(elemType types.Type, rank int, startSpan *report.TextSpan) *ast.NewArray {
	p.want(TOK_LBRACE)

	var elems []ast.ASTExpr
	for !p.has(TOK_RBRACE) {
		elems = append(elems, p.parseInitializer())

		if p.has(TOK_COMMA) {
			p.next()
			continue
		}

		break
	}

	endSpan := p.want(TOK_RBRACE).Span

	return &ast.NewArray{
		ExprBase:  ast.NewExprBase(report.NewSpanOver(startSpan, endSpan)),
		ElemType:  elemType,
		ExtraRank: rank,
		Elements:  elems,
		HasInit:   true,
	}
}

// args := '(' [expr {',' expr}] ')' ;
func (p *Parser) parseArgs() []ast.ASTExpr {
	p.want(TOK_LPAREN)

	var args []ast.ASTExpr
	if !p.has(TOK_RPAREN) {
		for {
			args = append(args, p.parseExpr())

			if p.has(TOK_COMMA) {
				p.next()
				continue
			}

			break
		}
	}

	p.want(TOK_RPAREN)

	return args
}

// -----------------------------------------------------------------------------

// operatorKinds maps operator tokens to their operator kinds.
var operatorKinds = map[int]int{
	TOK_PLUS:    common.OP_ADD,
	TOK_MINUS:   common.OP_SUB,
	TOK_STAR:    common.OP_MUL,
	TOK_DIV:     common.OP_DIV,
	TOK_MOD:     common.OP_MOD,
	TOK_BWAND:   common.OP_BWAND,
	TOK_BWOR:    common.OP_BWOR,
	TOK_BWXOR:   common.OP_BWXOR,
	TOK_LSHIFT:  common.OP_SHL,
	TOK_RSHIFT:  common.OP_SHR,
	TOK_URSHIFT: common.OP_USHR,
	TOK_EQ:      common.OP_EQ,
	TOK_NEQ:     common.OP_NEQ,
	TOK_LT:      common.OP_LT,
	TOK_GT:      common.OP_GT,
	TOK_LTEQ:    common.OP_LTEQ,
	TOK_GTEQ:    common.OP_GTEQ,
	TOK_LAND:    common.OP_LAND,
	TOK_LOR:     common.OP_LOR,
	TOK_NOT:     common.OP_NOT,
	TOK_COMPL:   common.OP_COMPL,
}

// compoundAssignOps maps compound assignment tokens to the operator tokens
// they apply.
var compoundAssignOps = map[int]int{
	TOK_PLUS_ASSIGN:    TOK_PLUS,
	TOK_MINUS_ASSIGN:   TOK_MINUS,
	TOK_STAR_ASSIGN:    TOK_STAR,
	TOK_DIV_ASSIGN:     TOK_DIV,
	TOK_MOD_ASSIGN:     TOK_MOD,
	TOK_BWAND_ASSIGN:   TOK_BWAND,
	TOK_BWOR_ASSIGN:    TOK_BWOR,
	TOK_BWXOR_ASSIGN:   TOK_BWXOR,
	TOK_LSHIFT_ASSIGN:  TOK_LSHIFT,
	TOK_RSHIFT_ASSIGN:  TOK_RSHIFT,
	TOK_URSHIFT_ASSIGN: TOK_URSHIFT,
}

// newAppliedOper creates a new applied operator from the token of kind kind
// at opTok.
func newAppliedOper(kind int, opTok *Token) *common.AppliedOperator {
	name := opTok.Value
	if kind != opTok.Kind {
		// Trim the `=` off compound assignment operators.
		name = name[:len(name)-1]
	}

	return &common.AppliedOperator{
		Kind: operatorKinds[kind],
		Name: name,
		Span: opTok.Span,
	}
}

// -----------------------------------------------------------------------------

// makeNumericLiteral creates a literal from an integer or floating literal
// token.  negative indicates that a unary minus applied to the literal has
// been folded into it.
func (p *Parser) makeNumericLiteral(tok *Token, negative bool, span *report.TextSpan) *ast.Literal {
	text := tok.Value
	if negative {
		text = "-" + text
	}

	if tok.Kind == TOK_FLOATLIT {
		value := tok.FloatValue
		if negative {
			value = -value
		}

		return &ast.Literal{
			ExprBase:   ast.NewTypedExprBase(span, types.FloatLiteralType(tok.Suffix)),
			Kind:       ast.LitFloat,
			Text:       text,
			FloatValue: value,
		}
	}

	typ, err := types.IntLiteralType(tok.IntValue, negative, tok.Suffix)
	if err != nil {
		p.unit.Diagnostics.Add(report.LexicalError, span, "%s", err.Error())
		typ = types.PrimInt
	}

	// Conversion wraps 1 << 63 to the minimum long which is its own negation.
	value := int64(tok.IntValue)
	if negative {
		value = -value
	}

	return &ast.Literal{
		ExprBase: ast.NewTypedExprBase(span, typ),
		Kind:     ast.LitInt,
		Text:     text,
		IntValue: value,
	}
}
