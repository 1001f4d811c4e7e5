package syntax

import (
	"cayc/ast"
	"cayc/report"
	"cayc/types"
)

// file := {class_decl} 'EOF' ;
func (p *Parser) parseFile() []*ast.ClassDecl {
	var classes []*ast.ClassDecl

	for !p.has(TOK_EOF) {
		if class := p.parseClassDeclRecover(); class != nil {
			classes = append(classes, class)
		}
	}

	return classes
}

// parseClassDeclRecover parses a class declaration.  If a syntax error occurs
// outside of any member, the parser skips to the next class declaration and
// nil is returned.
func (p *Parser) parseClassDeclRecover() (class *ast.ClassDecl) {
	defer func() {
		if p.catchSyntaxError(recover()) {
			p.skipToClass()
			class = nil
		}
	}()

	return p.parseClassDecl()
}

// class_decl := {annotation} modifiers 'class' 'IDENT' '{' {member} '}' ;
// annotation := '@' 'IDENT' ;
func (p *Parser) parseClassDecl() *ast.ClassDecl {
	startSpan := p.tok.Span

	annots := make(map[string]*report.TextSpan)
	for p.has(TOK_ATSIGN) {
		p.next()

		nameTok := p.want(TOK_IDENT)
		if _, ok := annots[nameTok.Value]; ok {
			p.recError(nameTok.Span, "annotation %s specified multiple times", nameTok.Value)
		}

		annots[nameTok.Value] = nameTok.Span
	}

	mods := p.parseModifiers()

	p.want(TOK_CLASS)

	nameTok := p.want(TOK_IDENT)

	class := &ast.ClassDecl{
		Name:        nameTok.Value,
		NameSpan:    nameTok.Span,
		Modifiers:   mods,
		Annotations: annots,
	}

	p.want(TOK_LBRACE)

	for !p.hasOneOf(TOK_RBRACE, TOK_EOF) {
		p.parseMemberRecover(class)
	}

	endSpan := p.want(TOK_RBRACE).Span

	class.ASTBase = ast.NewASTBaseOver(startSpan, endSpan)
	return class
}

// modifiers := {'public' | 'private' | 'protected' | 'static' | 'final'
// | 'abstract' | 'native'} ;
func (p *Parser) parseModifiers() int {
	mods := 0

	for isModifier(p.tok.Kind) {
		mod := modifierBits[p.tok.Kind]
		if ast.HasModifier(mods, mod) {
			p.recError(p.tok.Span, "duplicate modifier `%s`", p.tok.Value)
		}

		mods |= mod
		p.next()
	}

	// At most one access modifier bit may be set.
	access := mods & (ast.ModPublic | ast.ModPrivate | ast.ModProtected)
	if access&(access-1) != 0 {
		p.recError(p.lookbehind.Span, "conflicting access modifiers")
	}

	return mods
}

// modifierBits maps modifier tokens to their modifier bits.
var modifierBits = map[int]int{
	TOK_PUBLIC:    ast.ModPublic,
	TOK_PRIVATE:   ast.ModPrivate,
	TOK_PROTECTED: ast.ModProtected,
	TOK_STATIC:    ast.ModStatic,
	TOK_FINAL:     ast.ModFinal,
	TOK_ABSTRACT:  ast.ModAbstract,
	TOK_NATIVE:    ast.ModNative,
}

// isModifier returns whether kind is a modifier keyword.
func isModifier(kind int) bool {
	_, ok := modifierBits[kind]
	return ok
}

// -----------------------------------------------------------------------------

// parseMemberRecover parses a class member and adds it to class.  If a syntax
// error occurs, the parser skips to the next member.
func (p *Parser) parseMemberRecover(class *ast.ClassDecl) {
	defer func() {
		if p.catchSyntaxError(recover()) {
			p.skipStmt()
		}
	}()

	p.parseMember(class)
}

// member := modifiers (ctor_decl | method_decl | field_decl) ;
func (p *Parser) parseMember(class *ast.ClassDecl) {
	startSpan := p.tok.Span
	mods := p.parseModifiers()

	// Constructors are named after their class.
	if p.has(TOK_IDENT) && p.tok.Value == class.Name && p.peek(1).Kind == TOK_LPAREN {
		class.Ctors = append(class.Ctors, p.parseCtorDecl(startSpan, mods))
		return
	}

	var typ types.Type
	if p.has(TOK_VOID) {
		p.next()
		typ = types.PrimVoid
	} else {
		typ = p.parseTypeLabel()
	}

	nameTok := p.want(TOK_IDENT)

	if p.has(TOK_LPAREN) {
		class.Methods = append(class.Methods, p.parseMethodDecl(startSpan, mods, typ, nameTok))
		return
	}

	if types.IsVoid(typ) {
		p.error(nameTok.Span, "field cannot have type void")
	}

	class.Fields = append(class.Fields, p.parseFieldDecl(startSpan, mods, typ, nameTok)...)
}

// ctor_decl := 'IDENT' '(' [params] ')' block ;
func (p *Parser) parseCtorDecl(startSpan *report.TextSpan, mods int) *ast.MethodDecl {
	nameTok := p.want(TOK_IDENT)

	if ast.HasModifier(mods, ast.ModStatic|ast.ModAbstract|ast.ModNative) {
		p.recError(nameTok.Span, "constructors cannot be static, abstract, or native")
	}

	params := p.parseParams()
	body := p.parseBlock()

	return &ast.MethodDecl{
		ASTBase:    ast.NewASTBaseOver(startSpan, body.Span()),
		Name:       nameTok.Value,
		NameSpan:   nameTok.Span,
		Modifiers:  mods,
		ReturnType: types.PrimVoid,
		Params:     params,
		Body:       body,
		IsCtor:     true,
	}
}

// method_decl := (type | 'void') 'IDENT' '(' [params] ')' (block | ';') ;
func (p *Parser) parseMethodDecl(startSpan *report.TextSpan, mods int, rtType types.Type, nameTok *Token) *ast.MethodDecl {
	params := p.parseParams()

	var body *ast.Block
	if p.has(TOK_SEMI) {
		p.next()

		if !ast.HasModifier(mods, ast.ModNative|ast.ModAbstract) {
			p.recError(nameTok.Span, "method %s must have a body", nameTok.Value)
		}
	} else {
		body = p.parseBlock()

		if ast.HasModifier(mods, ast.ModNative|ast.ModAbstract) {
			p.recError(nameTok.Span, "native and abstract methods cannot have a body")
		}
	}

	return &ast.MethodDecl{
		ASTBase:    ast.NewASTBaseOver(startSpan, p.lookbehind.Span),
		Name:       nameTok.Value,
		NameSpan:   nameTok.Span,
		Modifiers:  mods,
		ReturnType: rtType,
		Params:     params,
		Body:       body,
	}
}

// params := '(' [param {',' param}] ')' ;
// param := ['final'] type ['...'] 'IDENT' ;
func (p *Parser) parseParams() []*ast.Param {
	p.want(TOK_LPAREN)

	var params []*ast.Param
	paramNames := make(map[string]struct{})

	if !p.has(TOK_RPAREN) {
		for {
			if p.has(TOK_FINAL) {
				p.next()
			}

			typ := p.parseTypeLabel()

			variadic := false
			if p.has(TOK_ELLIPSIS) {
				p.next()

				variadic = true
				typ = types.NewArray(typ, 1)
			}

			nameTok := p.want(TOK_IDENT)
			if _, ok := paramNames[nameTok.Value]; ok {
				p.recError(nameTok.Span, "multiple parameters named %s", nameTok.Value)
			}

			paramNames[nameTok.Value] = struct{}{}

			params = append(params, &ast.Param{
				Name:     nameTok.Value,
				Span:     nameTok.Span,
				Type:     typ,
				Variadic: variadic,
			})

			if p.has(TOK_COMMA) {
				p.next()

				if variadic {
					p.recError(nameTok.Span, "variadic parameter must be the last parameter")
				}

				continue
			}

			break
		}
	}

	p.want(TOK_RPAREN)

	return params
}

// field_decl := var_item {',' var_item} ';' ;
// var_item := 'IDENT' ['=' initializer] ;
func (p *Parser) parseFieldDecl(startSpan *report.TextSpan, mods int, typ types.Type, nameTok *Token) []*ast.FieldDecl {
	if ast.HasModifier(mods, ast.ModAbstract|ast.ModNative) {
		p.recError(nameTok.Span, "fields cannot be abstract or native")
	}

	var fields []*ast.FieldDecl
	for {
		var init ast.ASTExpr
		if p.has(TOK_ASSIGN) {
			p.next()
			init = p.parseInitializer()
		}

		fields = append(fields, &ast.FieldDecl{
			ASTBase:   ast.NewASTBaseOver(startSpan, p.lookbehind.Span),
			Name:      nameTok.Value,
			NameSpan:  nameTok.Span,
			Modifiers: mods,
			Type:      typ,
			Init:      init,
		})

		if p.has(TOK_COMMA) {
			p.next()
			nameTok = p.want(TOK_IDENT)
			continue
		}

		break
	}

	p.want(TOK_SEMI)

	return fields
}
