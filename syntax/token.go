package syntax

import "cayc/report"

// Token represents a single lexical token.
type Token struct {
	// The kind of the token.  This must be one of the enumerated token kinds.
	Kind int

	// The string value of the token.  This may not directly correspond to its
	// source text: eg. the value of a string token is its unescaped contents.
	Value string

	// The text span over which the token exists.
	Span *report.TextSpan

	// The byte offset of the first character of the token.
	Offset int

	// The resolved value of an integer literal.
	IntValue uint64

	// The resolved value of a floating-point literal.
	FloatValue float64

	// The type suffix of a numeric literal or 0 if it has none.
	Suffix rune

	// The error message of an error token.
	Message string
}

// Enumeration of token kinds.
const (
	TOK_CLASS = iota
	TOK_VOID

	TOK_PUBLIC
	TOK_PRIVATE
	TOK_PROTECTED
	TOK_STATIC
	TOK_FINAL
	TOK_ABSTRACT
	TOK_NATIVE

	TOK_INT
	TOK_LONG
	TOK_FLOAT
	TOK_DOUBLE
	TOK_BOOL
	TOK_CHAR
	TOK_STRING

	TOK_IF
	TOK_ELSE
	TOK_WHILE
	TOK_FOR
	TOK_DO
	TOK_SWITCH
	TOK_CASE
	TOK_DEFAULT
	TOK_BREAK
	TOK_CONTINUE
	TOK_RETURN

	TOK_NEW
	TOK_THIS
	TOK_SUPER
	TOK_NULL
	TOK_TRUE
	TOK_FALSE

	TOK_PLUS
	TOK_MINUS
	TOK_STAR
	TOK_DIV
	TOK_MOD

	TOK_EQ
	TOK_NEQ
	TOK_LT
	TOK_GT
	TOK_LTEQ
	TOK_GTEQ

	TOK_BWAND
	TOK_BWOR
	TOK_BWXOR
	TOK_LSHIFT
	TOK_RSHIFT
	TOK_URSHIFT
	TOK_COMPL

	TOK_NOT
	TOK_LAND
	TOK_LOR

	TOK_ASSIGN
	TOK_PLUS_ASSIGN
	TOK_MINUS_ASSIGN
	TOK_STAR_ASSIGN
	TOK_DIV_ASSIGN
	TOK_MOD_ASSIGN
	TOK_BWAND_ASSIGN
	TOK_BWOR_ASSIGN
	TOK_BWXOR_ASSIGN
	TOK_LSHIFT_ASSIGN
	TOK_RSHIFT_ASSIGN
	TOK_URSHIFT_ASSIGN
	TOK_INC
	TOK_DEC

	TOK_LPAREN
	TOK_RPAREN
	TOK_LBRACE
	TOK_RBRACE
	TOK_LBRACKET
	TOK_RBRACKET
	TOK_COMMA
	TOK_DOT
	TOK_ELLIPSIS
	TOK_SEMI
	TOK_COLON
	TOK_DCOLON
	TOK_QUESTION
	TOK_ARROW
	TOK_ATSIGN

	TOK_IDENT
	TOK_INTLIT
	TOK_FLOATLIT
	TOK_CHARLIT
	TOK_STRINGLIT

	TOK_ERROR
	TOK_EOF
)

// tokenNames gives the display names of tokens which are not displayed by
// their value.
var tokenNames = map[int]string{
	TOK_IDENT:     "identifier",
	TOK_INTLIT:    "integer literal",
	TOK_FLOATLIT:  "floating literal",
	TOK_CHARLIT:   "char literal",
	TOK_STRINGLIT: "string literal",
	TOK_BOOL:      "`bool`",
	TOK_STRING:    "`string`",
	TOK_EOF:       "end of file",
}

// tokenKindName returns the display name of a token kind.
func tokenKindName(kind int) string {
	if name, ok := tokenNames[kind]; ok {
		return name
	}

	for pattern, pkind := range symbolPatterns {
		if pkind == kind {
			return "`" + pattern + "`"
		}
	}

	for pattern, pkind := range keywordPatterns {
		if pkind == kind {
			return "`" + pattern + "`"
		}
	}

	return "token"
}
