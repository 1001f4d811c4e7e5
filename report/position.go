package report

import "fmt"

// TextSpan represents a range or "span" of source text.  Text spans are
// inclusive on the start and exclusive on the end column: the ending position
// is one past the last character in the span.  The line and column numbers are
// zero-indexed; they are displayed one-indexed.
type TextSpan struct {
	// The line and column beginning the text span.
	StartLine, StartCol int

	// The line and column ending the text span.
	EndLine, EndCol int
}

// NewSpanOver returns a new text span which spans over and between the two
// given text spans.
func NewSpanOver(start, end *TextSpan) *TextSpan {
	if start == nil {
		return end
	} else if end == nil {
		return start
	}

	return &TextSpan{
		StartLine: start.StartLine,
		StartCol:  start.StartCol,
		EndLine:   end.EndLine,
		EndCol:    end.EndCol,
	}
}

// Before returns whether span a begins before span b.
func (a *TextSpan) Before(b *TextSpan) bool {
	if a.StartLine == b.StartLine {
		return a.StartCol < b.StartCol
	}

	return a.StartLine < b.StartLine
}

func (a *TextSpan) String() string {
	return fmt.Sprintf("%d:%d", a.StartLine+1, a.StartCol+1)
}
