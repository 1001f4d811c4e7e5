package syntax

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"cayc/report"
)

// Lexer is responsible for tokenizing a source text.  Tokens are produced
// lazily.  The lexer never fails: malformed input is returned as an error
// token which the parser reports and skips.
type Lexer struct {
	src string
	pos int

	tokBuff *strings.Builder

	line, col                        int
	startLine, startCol, startOffset int
}

// NewLexer creates a new lexer for the given source text.
func NewLexer(src string) *Lexer {
	return &Lexer{
		src:     src,
		tokBuff: &strings.Builder{},
	}
}

// Reset moves the lexer back to the start of its source text.
func (l *Lexer) Reset() {
	l.pos = 0
	l.line, l.col = 0, 0
	l.tokBuff.Reset()
}

// Tokenize lexes the whole of src.  The returned tokens always end with
// exactly one EOF token.
func Tokenize(src string) []*Token {
	l := NewLexer(src)

	var toks []*Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)

		if tok.Kind == TOK_EOF {
			return toks
		}
	}
}

// NextToken retrieves the next token from the source text.  If the text has
// ended, this will be an EOF token.  Once the EOF token has been returned,
// all subsequent calls return another EOF token.
func (l *Lexer) NextToken() *Token {
	for {
		c := l.peek()
		if c == -1 {
			break
		}

		switch c {
		case '\n', '\t', ' ', '\r', '\v', '\f':
			l.skip()
		case '/':
			if tok := l.lexCommentOrDiv(); tok != nil {
				return tok
			}
		case '\'':
			return l.lexCharLit()
		case '"':
			return l.lexStringLit()
		default:
			if isDecimalDigit(c) || c == '.' && isDecimalDigit(l.peekAt(1)) {
				return l.lexNumericLit()
			} else if isFirstIdentChar(c) {
				return l.lexIdentOrKeyword()
			} else {
				return l.lexPunctOrOper()
			}
		}
	}

	l.mark()
	return l.makeToken(TOK_EOF)
}

// -----------------------------------------------------------------------------

// symbolPatterns maps symbol strings (patterns) to their punctuation/operator
// token kind.
var symbolPatterns = map[string]int{
	"+": TOK_PLUS,
	"-": TOK_MINUS,
	"*": TOK_STAR,
	// Division operator is handled with comment logic.
	"%": TOK_MOD,

	"&":   TOK_BWAND,
	"|":   TOK_BWOR,
	"^":   TOK_BWXOR,
	"~":   TOK_COMPL,
	"<<":  TOK_LSHIFT,
	">>":  TOK_RSHIFT,
	">>>": TOK_URSHIFT,

	"==": TOK_EQ,
	"!=": TOK_NEQ,
	"<":  TOK_LT,
	"<=": TOK_LTEQ,
	">":  TOK_GT,
	">=": TOK_GTEQ,

	"&&": TOK_LAND,
	"||": TOK_LOR,
	"!":  TOK_NOT,

	"=":    TOK_ASSIGN,
	"+=":   TOK_PLUS_ASSIGN,
	"-=":   TOK_MINUS_ASSIGN,
	"*=":   TOK_STAR_ASSIGN,
	"/=":   TOK_DIV_ASSIGN,
	"%=":   TOK_MOD_ASSIGN,
	"&=":   TOK_BWAND_ASSIGN,
	"|=":   TOK_BWOR_ASSIGN,
	"^=":   TOK_BWXOR_ASSIGN,
	"<<=":  TOK_LSHIFT_ASSIGN,
	">>=":  TOK_RSHIFT_ASSIGN,
	">>>=": TOK_URSHIFT_ASSIGN,
	"++":   TOK_INC,
	"--":   TOK_DEC,

	"(":   TOK_LPAREN,
	")":   TOK_RPAREN,
	"{":   TOK_LBRACE,
	"}":   TOK_RBRACE,
	"[":   TOK_LBRACKET,
	"]":   TOK_RBRACKET,
	",":   TOK_COMMA,
	".":   TOK_DOT,
	"...": TOK_ELLIPSIS,
	";":   TOK_SEMI,
	":":   TOK_COLON,
	"::":  TOK_DCOLON,
	"?":   TOK_QUESTION,
	"->":  TOK_ARROW,
	"@":   TOK_ATSIGN,
}

// lexPunctOrOper lexes a punctuation or operator symbol.
func (l *Lexer) lexPunctOrOper() *Token {
	l.mark()

	// `..` is not a token on its own so the ellipsis can't be found by
	// extending one rune at a time.
	if strings.HasPrefix(l.src[l.pos:], "...") {
		l.eat()
		l.eat()
		l.eat()
		return l.makeToken(TOK_ELLIPSIS)
	}

	c := l.eat()

	kind, ok := symbolPatterns[l.tokBuff.String()]
	if !ok {
		return l.makeErrorToken("unexpected character `%c`", c)
	}

	for {
		c := l.peek()
		if c == -1 {
			break
		}

		if _kind, ok := symbolPatterns[l.tokBuff.String()+string(c)]; ok {
			l.eat()
			kind = _kind
		} else {
			break
		}
	}

	return l.makeToken(kind)
}

// -----------------------------------------------------------------------------

// keywordPatterns maps keyword strings (patterns) to their keyword token kind.
var keywordPatterns = map[string]int{
	"class": TOK_CLASS,
	"void":  TOK_VOID,

	"public":    TOK_PUBLIC,
	"private":   TOK_PRIVATE,
	"protected": TOK_PROTECTED,
	"static":    TOK_STATIC,
	"final":     TOK_FINAL,
	"abstract":  TOK_ABSTRACT,
	"native":    TOK_NATIVE,

	"int":     TOK_INT,
	"long":    TOK_LONG,
	"float":   TOK_FLOAT,
	"double":  TOK_DOUBLE,
	"bool":    TOK_BOOL,
	"boolean": TOK_BOOL,
	"char":    TOK_CHAR,
	"string":  TOK_STRING,
	"String":  TOK_STRING,

	"if":       TOK_IF,
	"else":     TOK_ELSE,
	"while":    TOK_WHILE,
	"for":      TOK_FOR,
	"do":       TOK_DO,
	"switch":   TOK_SWITCH,
	"case":     TOK_CASE,
	"default":  TOK_DEFAULT,
	"break":    TOK_BREAK,
	"continue": TOK_CONTINUE,
	"return":   TOK_RETURN,

	"new":   TOK_NEW,
	"this":  TOK_THIS,
	"super": TOK_SUPER,
	"null":  TOK_NULL,
	"true":  TOK_TRUE,
	"false": TOK_FALSE,
}

// lexIdentOrKeyword lexes an identifier or a keyword.
func (l *Lexer) lexIdentOrKeyword() *Token {
	l.mark()
	l.eat()

	for {
		c := l.peek()
		if !isFirstIdentChar(c) && !isDecimalDigit(c) {
			break
		}

		l.eat()
	}

	var kind int
	if _kind, ok := keywordPatterns[l.tokBuff.String()]; ok {
		kind = _kind
	} else {
		kind = TOK_IDENT
	}

	return l.makeToken(kind)
}

// -----------------------------------------------------------------------------

// lexNumericLit lexes an integer or floating-point literal.  Digit separators
// are stripped and the value of the literal is resolved.  The value of the
// returned token is the literal's source text.
func (l *Lexer) lexNumericLit() *Token {
	l.mark()

	// digits accumulates the digits of the literal without separators.
	digits := strings.Builder{}

	// Determine the base of the literal.
	base := 10
	if l.peek() == '0' {
		switch l.peekAt(1) {
		case 'x', 'X':
			base = 16
		case 'b', 'B':
			base = 2
		case 'o', 'O':
			base = 8
		}

		if base != 10 {
			l.eat()
			l.eat()
		}
	}

	eatDigits := func(isDigit func(rune) bool) int {
		n := 0
		for {
			c := l.peek()
			if c == '_' {
				l.eat()
			} else if isDigit(c) {
				digits.WriteRune(l.eat())
				n++
			} else {
				return n
			}
		}
	}

	var isFloat bool
	switch base {
	case 2:
		eatDigits(func(c rune) bool { return c == '0' || c == '1' })
	case 8:
		eatDigits(func(c rune) bool { return '0' <= c && c <= '7' })
	case 16:
		eatDigits(isHexDigit)
	default:
		eatDigits(isDecimalDigit)

		// Fractional part.
		if l.peek() == '.' && isDecimalDigit(l.peekAt(1)) {
			digits.WriteRune(l.eat())
			eatDigits(isDecimalDigit)
			isFloat = true
		}

		// Exponent.
		if c := l.peek(); c == 'e' || c == 'E' {
			digits.WriteRune(l.eat())

			if c := l.peek(); c == '+' || c == '-' {
				digits.WriteRune(l.eat())
			}

			if eatDigits(isDecimalDigit) == 0 {
				l.eatIdentChars()
				return l.makeErrorToken("missing digits in exponent of floating literal")
			}

			isFloat = true
		}
	}

	if digits.Len() == 0 {
		l.eatIdentChars()
		return l.makeErrorToken("incomplete numeric literal")
	}

	if base != 10 && l.peek() == '.' && isDecimalDigit(l.peekAt(1)) {
		l.eat()
		l.eatIdentChars()
		return l.makeErrorToken("floating literal must be written in base 10")
	}

	// Type suffixes.  The float suffixes are hex digits so they are only
	// recognized for decimal literals.
	var suffix rune
	switch c := l.peek(); c {
	case 'l', 'L':
		if !isFloat {
			suffix = l.eat()
		}
	case 'f', 'F', 'd', 'D':
		if base == 10 {
			suffix = l.eat()
			isFloat = true
		}
	}

	// Any trailing identifier characters are malformed digits or suffixes.
	if c := l.peek(); isFirstIdentChar(c) || isDecimalDigit(c) {
		l.eatIdentChars()
		return l.makeErrorToken("malformed numeric literal `%s`", l.tokBuff.String())
	}

	if isFloat {
		value, err := strconv.ParseFloat(digits.String(), 64)
		if err != nil && !isRangeError(err) {
			return l.makeErrorToken("malformed floating literal `%s`", l.tokBuff.String())
		}

		tok := l.makeToken(TOK_FLOATLIT)
		tok.FloatValue = value
		tok.Suffix = suffix
		return tok
	}

	value, err := strconv.ParseUint(digits.String(), base, 64)
	if err != nil {
		if isRangeError(err) {
			return l.makeErrorToken("integer literal `%s` is too large", l.tokBuff.String())
		}

		return l.makeErrorToken("malformed integer literal `%s`", l.tokBuff.String())
	}

	tok := l.makeToken(TOK_INTLIT)
	tok.IntValue = value
	tok.Suffix = suffix
	return tok
}

// isRangeError returns whether err is a numeric conversion range error.
func isRangeError(err error) bool {
	if nerr, ok := err.(*strconv.NumError); ok {
		return nerr.Err == strconv.ErrRange
	}

	return false
}

// eatIdentChars consumes all the identifier characters at the lexer's position.
func (l *Lexer) eatIdentChars() {
	for c := l.peek(); isFirstIdentChar(c) || isDecimalDigit(c); c = l.peek() {
		l.eat()
	}
}

// -----------------------------------------------------------------------------

// lexStringLit lexes a string literal.  The value of the returned token is the
// unescaped contents of the string.
func (l *Lexer) lexStringLit() *Token {
	l.mark()
	l.eat()

	value := strings.Builder{}
	for {
		switch c := l.peek(); c {
		case -1, '\n':
			return l.makeErrorToken("unclosed string literal")
		case '"':
			l.eat()

			tok := l.makeToken(TOK_STRINGLIT)
			tok.Value = value.String()
			return tok
		case '\\':
			r, msg := l.eatEscapeSequence()
			if msg != "" {
				l.recoverLiteral('"')
				return l.makeErrorToken(msg)
			}

			value.WriteRune(r)
		default:
			value.WriteRune(l.eat())
		}
	}
}

// lexCharLit lexes a char literal.  The value of the returned token is the
// character itself.
func (l *Lexer) lexCharLit() *Token {
	l.mark()
	l.eat()

	var r rune
	switch c := l.peek(); c {
	case -1, '\n':
		return l.makeErrorToken("unclosed char literal")
	case '\'':
		l.eat()
		return l.makeErrorToken("empty char literal")
	case '\\':
		var msg string
		if r, msg = l.eatEscapeSequence(); msg != "" {
			l.recoverLiteral('\'')
			return l.makeErrorToken(msg)
		}
	default:
		r = l.eat()
	}

	switch l.peek() {
	case -1, '\n':
		return l.makeErrorToken("unclosed char literal")
	case '\'':
		l.eat()
	default:
		l.recoverLiteral('\'')
		return l.makeErrorToken("char literal cannot contain multiple characters")
	}

	if r > 0xff {
		return l.makeErrorToken("char literal `%s` does not fit in a single byte", l.tokBuff.String())
	}

	tok := l.makeToken(TOK_CHARLIT)
	tok.Value = string(r)
	tok.IntValue = uint64(r)
	return tok
}

// recoverLiteral skips the rest of a malformed literal up to and including its
// closing delimiter if it occurs before the end of the line.
func (l *Lexer) recoverLiteral(delim rune) {
	for {
		switch c := l.peek(); c {
		case -1, '\n':
			return
		case '\\':
			l.eat()
			if l.peek() != '\n' {
				l.eat()
			}
		default:
			l.eat()
			if c == delim {
				return
			}
		}
	}
}

// eatEscapeSequence consumes an escape sequence and returns the rune it
// denotes.  If the escape sequence is malformed, an error message is returned
// instead.
func (l *Lexer) eatEscapeSequence() (rune, string) {
	l.eat()

	c := l.peek()
	switch c {
	case -1, '\n':
		return 0, "expected escape sequence"
	case 'n':
		l.eat()
		return '\n', ""
	case 't':
		l.eat()
		return '\t', ""
	case 'r':
		l.eat()
		return '\r', ""
	case 'b':
		l.eat()
		return '\b', ""
	case 'f':
		l.eat()
		return '\f', ""
	case '0':
		l.eat()
		return 0, ""
	case '\\', '\'', '"':
		l.eat()
		return c, ""
	case 'u':
		l.eat()

		var r rune
		for i := 0; i < 4; i++ {
			c := l.peek()
			if !isHexDigit(c) {
				return 0, "unicode escape sequence requires 4 hexadecimal digits"
			}

			l.eat()
			r = r*16 + hexValue(c)
		}

		return r, ""
	default:
		return 0, fmt.Sprintf("unknown escape sequence: `\\%c`", c)
	}
}

// -----------------------------------------------------------------------------

// lexCommentOrDiv lexes a comment or a division token.  It returns nil if a
// comment was skipped.
func (l *Lexer) lexCommentOrDiv() *Token {
	l.mark()

	switch l.peekAt(1) {
	case '/':
		for c := l.peek(); c != '\n' && c != -1; c = l.peek() {
			l.skip()
		}
	case '*':
		l.eat()
		l.eat()

		for {
			c := l.eat()
			if c == -1 {
				return l.makeErrorToken("unclosed block comment")
			} else if c == '*' && l.peek() == '/' {
				l.eat()
				break
			}
		}

		l.tokBuff.Reset()
	case '=':
		l.eat()
		l.eat()
		return l.makeToken(TOK_DIV_ASSIGN)
	default:
		l.eat()
		return l.makeToken(TOK_DIV)
	}

	return nil
}

// -----------------------------------------------------------------------------

// mark sets the lexer's stored start position to its current position.
func (l *Lexer) mark() {
	l.startLine = l.line
	l.startCol = l.col
	l.startOffset = l.pos
}

// makeToken produces a new token of the given kind from the lexer's state and
// resets the lexer to begin building the next token.
func (l *Lexer) makeToken(kind int) *Token {
	value := l.tokBuff.String()
	l.tokBuff.Reset()

	return &Token{
		Kind:   kind,
		Value:  value,
		Span:   l.getSpan(),
		Offset: l.startOffset,
	}
}

// makeErrorToken produces an error token containing the text consumed so far.
func (l *Lexer) makeErrorToken(msg string, args ...interface{}) *Token {
	tok := l.makeToken(TOK_ERROR)
	tok.Message = fmt.Sprintf(msg, args...)
	return tok
}

// getSpan calculates a text span based on the lexer's current state.
func (l *Lexer) getSpan() *report.TextSpan {
	return &report.TextSpan{
		StartLine: l.startLine,
		StartCol:  l.startCol,
		EndLine:   l.line,
		EndCol:    l.col,
	}
}

// -----------------------------------------------------------------------------

// eat moves the lexer forward one rune and writes the rune to the token buffer.
// If the lexer is at the end of the source, -1 is returned.
func (l *Lexer) eat() rune {
	c := l.skip()
	if c != -1 {
		l.tokBuff.WriteRune(c)
	}

	return c
}

// skip moves the lexer forward one rune but does not write the rune to the
// token buffer.  If the lexer is at the end of the source, -1 is returned.
func (l *Lexer) skip() rune {
	if l.pos >= len(l.src) {
		return -1
	}

	c, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size
	l.updatePos(c)

	return c
}

// peek returns the next rune without moving the lexer forward.
func (l *Lexer) peek() rune {
	return l.peekAt(0)
}

// peekAt returns the rune n runes ahead of the lexer's position or -1 if the
// source ends before it.
func (l *Lexer) peekAt(n int) rune {
	pos := l.pos
	for {
		if pos >= len(l.src) {
			return -1
		}

		c, size := utf8.DecodeRuneInString(l.src[pos:])
		if n == 0 {
			return c
		}

		pos += size
		n--
	}
}

// updatePos updates the lexer's position based on input character.
func (l *Lexer) updatePos(c rune) {
	switch c {
	case '\n':
		l.line++
		l.col = 0
	case '\t':
		l.col += 4
	default:
		l.col++
	}
}

// -----------------------------------------------------------------------------

// isDecimalDigit returns whether c is a decimal digit.
func isDecimalDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

// isHexDigit returns whether  c is a hexadecimal digit.
func isHexDigit(c rune) bool {
	return isDecimalDigit(c) || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func hexValue(c rune) rune {
	switch {
	case isDecimalDigit(c):
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

// isFirstIdentChar returns whether c could be the first rune of an identifier.
func isFirstIdentChar(c rune) bool {
	return c != -1 && (unicode.IsLetter(c) || c == '_')
}
