package syntax

import (
	"cayc/depm"
	"cayc/report"
)

// NOTE: All parsing functions (that are not utility/API functions) are
// commented with the EBNF notation of the grammar they parse.

// Parser is the parser for a Cay source unit.  It is a recursive descent
// parser which produces an untyped AST: it performs no symbol lookups and no
// type checking beyond typing literals.  Syntax errors are raised as panics and
// recovered at statement (or member) granularity so that a single unit can
// report multiple errors in one pass.  All parsing functions assume that they
// begin with the parser centered on the first token of their production and
// consume all tokens of their production, leaving the parser on the next
// token.  Parsers are created once per unit.
type Parser struct {
	// The source unit being parsed.
	unit *depm.SourceUnit

	// The lexer this parser is reading tokens from.
	lexer *Lexer

	// The token the parser is positioned on.
	tok *Token

	// The token the parser was positioned on before it moved forward.
	lookbehind *Token

	// The tokens read ahead of the current token.
	lookahead []*Token
}

// NewParser creates a new parser for the given source unit.
func NewParser(unit *depm.SourceUnit) *Parser {
	return &Parser{
		unit:  unit,
		lexer: NewLexer(unit.Src),
	}
}

// Parse parses the source unit and stores the resulting class declarations in
// it.  Syntax errors are added to the unit's diagnostics.
func (p *Parser) Parse() {
	p.next()

	p.unit.Classes = p.parseFile()
}

// -----------------------------------------------------------------------------

// next moves the parser forward one token.
func (p *Parser) next() {
	p.lookbehind = p.tok

	if len(p.lookahead) > 0 {
		p.tok = p.lookahead[0]
		p.lookahead = p.lookahead[1:]
	} else {
		p.tok = p.fetch()
	}
}

// peek returns the token n tokens ahead of the parser's current token without
// moving the parser forward: peek(1) is the token after the current token.
func (p *Parser) peek(n int) *Token {
	for len(p.lookahead) < n {
		p.lookahead = append(p.lookahead, p.fetch())
	}

	return p.lookahead[n-1]
}

// fetch reads the next token from the lexer.  Error tokens are reported as
// lexical errors as soon as they are read.
func (p *Parser) fetch() *Token {
	tok := p.lexer.NextToken()
	if tok.Kind == TOK_ERROR {
		p.unit.Diagnostics.Add(report.LexicalError, tok.Span, "%s", tok.Message)
	}

	return tok
}

// has returns whether the parser is on a token of the given kind.
func (p *Parser) has(kind int) bool {
	return p.tok.Kind == kind
}

// hasOneOf returns whether the parser is on a token of one of the given kinds.
func (p *Parser) hasOneOf(kinds ...int) bool {
	for _, kind := range kinds {
		if p.tok.Kind == kind {
			return true
		}
	}

	return false
}

// want asserts that the parser is on a token of the given kind and moves the
// parser forward.  It returns the matched token.
func (p *Parser) want(kind int) *Token {
	if !p.has(kind) {
		if p.has(TOK_EOF) {
			p.error(p.tok.Span, "expected %s before end of file", tokenKindName(kind))
		}

		p.error(p.tok.Span, "expected %s but got `%s`", tokenKindName(kind), p.tok.Value)
	}

	tok := p.tok
	p.next()
	return tok
}

// -----------------------------------------------------------------------------

// reject raises an unexpected token error on the current token.
func (p *Parser) reject() {
	if p.has(TOK_EOF) {
		p.error(p.tok.Span, "unexpected end of file")
	}

	p.error(p.tok.Span, "unexpected token: `%s`", p.tok.Value)
}

// error raises a syntax error over the given span.  This function does not
// return: the error is recovered at the enclosing statement or member.  If the
// parser is on an error token, the token was already reported and the
// statement is abandoned without another diagnostic.
func (p *Parser) error(span *report.TextSpan, msg string, args ...interface{}) {
	if p.has(TOK_ERROR) {
		panic(errAbandoned)
	}

	panic(report.Raise(report.SyntaxError, span, msg, args...))
}

// errAbandoned unwinds to the enclosing statement or member without reporting
// anything.
var errAbandoned = &report.CompileError{Kind: report.LexicalError, Message: "abandoned after a malformed token"}

// recError records a syntax error without interrupting parsing.
func (p *Parser) recError(span *report.TextSpan, msg string, args ...interface{}) {
	p.unit.Diagnostics.Add(report.SyntaxError, span, msg, args...)
}

// -----------------------------------------------------------------------------

// catchSyntaxError recovers a syntax error panic and records it as a
// diagnostic.  It returns whether an error was caught.  It must be called
// directly by a deferred function.
func (p *Parser) catchSyntaxError(x interface{}) bool {
	if x == nil {
		return false
	}

	cerr, ok := x.(*report.CompileError)
	if !ok {
		panic(x)
	}

	if cerr != errAbandoned {
		p.unit.Diagnostics.AddError(cerr)
	}

	return true
}

// skipStmt skips to the end of the statement the parser is positioned within:
// past the next `;` or the closing brace of a block opened while skipping, or
// up to an unmatched `}` or the end of the file.
func (p *Parser) skipStmt() {
	depth := 0
	for {
		switch p.tok.Kind {
		case TOK_EOF:
			return
		case TOK_SEMI:
			p.next()
			if depth == 0 {
				return
			}
		case TOK_LBRACE:
			depth++
			p.next()
		case TOK_RBRACE:
			if depth == 0 {
				return
			}

			depth--
			p.next()
			if depth == 0 {
				return
			}
		default:
			p.next()
		}
	}
}

// skipToClass skips to the start of the next class declaration.  At least one
// token is always skipped.
func (p *Parser) skipToClass() {
	p.next()

	for !p.hasOneOf(TOK_EOF, TOK_CLASS, TOK_ATSIGN) && !isModifier(p.tok.Kind) {
		p.next()
	}
}
