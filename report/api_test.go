package report

import (
	"bytes"
	"errors"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func span(line, col, endCol int) *TextSpan {
	return &TextSpan{StartLine: line, StartCol: col, EndLine: line, EndCol: endCol}
}

func TestDiagnosticsSorted(t *testing.T) {
	diags := &Diagnostics{}
	diags.Add(TypeError, span(3, 1, 2), "third")
	diags.Warn(ControlFlowError, span(1, 4, 5), "second")
	diags.Add(NameError, nil, "first")
	diags.Add(TypeError, span(1, 0, 1), "also second")

	var msgs []string
	for _, d := range diags.Sorted() {
		msgs = append(msgs, d.Message)
	}

	assert.Equal(t, []string{"first", "also second", "second", "third"}, msgs)
	assert.Equal(t, "third", diags.Items()[0].Message)
	assert.Equal(t, 3, diags.ErrorCount())
	assert.Equal(t, 4, diags.Len())
	assert.Len(t, diags.OfKind(TypeError), 2)
}

func TestDiagnosticString(t *testing.T) {
	d := &Diagnostic{Kind: TypeError, Severity: SevError, Message: "bad", Span: span(0, 4, 6)}
	assert.Equal(t, "1:5: type error: bad", d.String())

	w := &Diagnostic{Kind: ControlFlowError, Severity: SevWarning, Message: "unreachable code"}
	assert.Equal(t, "warning: unreachable code", w.String())
}

func TestCatchErrors(t *testing.T) {
	diags := &Diagnostics{}

	func() {
		defer CatchErrors(diags)
		panic(Raise(SyntaxError, span(0, 0, 1), "expected %s", "`;`"))
	}()

	require.Len(t, diags.Items(), 1)
	assert.Equal(t, "expected `;`", diags.Items()[0].Message)
	assert.True(t, diags.AnyErrors())
}

func TestCatchErrorsRethrowsICE(t *testing.T) {
	diags := &Diagnostics{}

	var err error
	func() {
		defer CatchICE(&err)

		func() {
			defer CatchErrors(diags)
			ICE("unexpected node %d", 3)
		}()
	}()

	require.Error(t, err)
	assert.Equal(t, "internal compiler error: unexpected node 3", err.Error())
	assert.False(t, diags.AnyErrors())
}

func TestCatchICERethrowsOtherPanics(t *testing.T) {
	assert.PanicsWithError(t, "boom", func() {
		var err error
		defer CatchICE(&err)
		panic(errors.New("boom"))
	})
}

func TestNewSpanOver(t *testing.T) {
	s := NewSpanOver(span(1, 2, 3), &TextSpan{StartLine: 4, StartCol: 0, EndLine: 5, EndCol: 7})
	assert.Equal(t, &TextSpan{StartLine: 1, StartCol: 2, EndLine: 5, EndCol: 7}, s)

	assert.Equal(t, span(1, 2, 3), NewSpanOver(nil, span(1, 2, 3)))
	assert.True(t, span(1, 2, 3).Before(span(1, 3, 4)))
	assert.False(t, span(2, 0, 1).Before(span(1, 3, 4)))
}

// -----------------------------------------------------------------------------

func TestReporterDisplaysDiagnostics(t *testing.T) {
	pterm.DisableColor()
	defer pterm.EnableColor()

	src := "class T {\n    int x = \"s\";\n}"

	diags := &Diagnostics{}
	diags.Add(TypeError, span(1, 12, 15), "cannot convert string to int")
	diags.Warn(ControlFlowError, span(1, 4, 7), "unused")

	buff := &bytes.Buffer{}
	r := NewReporter(buff, LogLevelVerbose)
	r.ReportDiagnostics("src/T.cay", src, diags)

	out := buff.String()
	assert.Contains(t, out, "src/T.cay:2:13: cannot convert string to int")
	assert.Contains(t, out, "2 | int x = \"s\";")
	assert.Contains(t, out, "  |         ^^^")
	assert.Contains(t, out, " warning ")

	buff.Reset()
	r = NewReporter(buff, LogLevelError)
	r.ReportDiagnostics("src/T.cay", src, diags)

	assert.Contains(t, buff.String(), "cannot convert string to int")
	assert.NotContains(t, buff.String(), "unused")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelSilent, ParseLogLevel("silent"))
	assert.Equal(t, LogLevelError, ParseLogLevel("error"))
	assert.Equal(t, LogLevelWarn, ParseLogLevel("warn"))
	assert.Equal(t, LogLevelVerbose, ParseLogLevel("verbose"))
	assert.Equal(t, LogLevelVerbose, ParseLogLevel("nonsense"))
}
