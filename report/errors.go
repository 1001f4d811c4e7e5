package report

import (
	"fmt"
)

// Enumeration of diagnostic kinds.
const (
	LexicalError = iota
	SyntaxError
	NameError
	TypeError
	OverloadError
	ControlFlowError
	PreprocessError
)

var kindNames = [...]string{
	LexicalError:     "lexical error",
	SyntaxError:      "syntax error",
	NameError:        "name error",
	TypeError:        "type error",
	OverloadError:    "overload error",
	ControlFlowError: "control flow error",
	PreprocessError:  "preprocessor error",
}

// KindName returns the display name of a diagnostic kind.
func KindName(kind int) string {
	if 0 <= kind && kind < len(kindNames) {
		return kindNames[kind]
	}

	return "error"
}

// -----------------------------------------------------------------------------

// CompileError is a compilation error raised while processing a single unit.
// Stages panic with it to abort the current statement or declaration; the
// panic is recovered by CatchErrors.
type CompileError struct {
	// The kind of the error: one of the enumerated diagnostic kinds.
	Kind int

	// The error message.
	Message string

	// The span over which the error occurs.
	Span *TextSpan
}

func (ce *CompileError) Error() string {
	if ce.Span == nil {
		return fmt.Sprintf("%s: %s", KindName(ce.Kind), ce.Message)
	}

	return fmt.Sprintf("%s: %s: %s", ce.Span, KindName(ce.Kind), ce.Message)
}

// Raise creates a new compile error.
func Raise(kind int, span *TextSpan, msg string, args ...interface{}) *CompileError {
	return &CompileError{Kind: kind, Message: fmt.Sprintf(msg, args...), Span: span}
}

// -----------------------------------------------------------------------------

// InternalError is an internal compiler error: a bug or unexpected condition in
// the compiler itself.  It is never reported as a diagnostic.
type InternalError struct {
	Message string
}

func (ie *InternalError) Error() string {
	return "internal compiler error: " + ie.Message
}

// ICE raises an internal compiler error.  These are not intended to ever
// happen: they propagate through CatchErrors untouched.
func ICE(msg string, args ...interface{}) {
	panic(&InternalError{Message: fmt.Sprintf(msg, args...)})
}

// -----------------------------------------------------------------------------

// CatchErrors catches any compile errors thrown by a `panic` during a stage of
// compilation and records them in diags.  Any other panic, including internal
// compiler errors, is re-raised.
// NB: This function must ALWAYS be deferred.
func CatchErrors(diags *Diagnostics) {
	if x := recover(); x != nil {
		if cerr, ok := x.(*CompileError); ok {
			diags.AddError(cerr)
		} else {
			panic(x)
		}
	}
}

// CatchICE converts a panicking internal compiler error into a Go error stored
// in err.  It must be deferred.
func CatchICE(err *error) {
	if x := recover(); x != nil {
		if ice, ok := x.(*InternalError); ok {
			*err = ice
		} else {
			panic(x)
		}
	}
}
