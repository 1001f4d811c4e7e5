package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = pterm.FgLightCyan
	InfoStyleBG    = pterm.NewStyle(pterm.BgCyan, pterm.FgBlack)
)

// displayICE displays an internal compiler error message.
func displayICE(w io.Writer, message string) {
	fmt.Fprintln(w, ErrorStyleBG.Sprint(" internal compiler error ")+" "+ErrorColorFG.Sprint(message))
	fmt.Fprint(w, "This error was not supposed to happen: please open an issue with the source that caused it.\n\n")
}

// displayFatal displays a fatal error message.
func displayFatal(w io.Writer, message string) {
	fmt.Fprintln(w, ErrorStyleBG.Sprint(" fatal error ")+" "+ErrorColorFG.Sprint(message))
	fmt.Fprintln(w)
}

// displayStdError displays a standard Go error.
func displayStdError(w io.Writer, reprPath string, err error) {
	fmt.Fprintf(w, "%s: %s %s\n\n", reprPath, ErrorStyleBG.Sprint(" error "), err)
}

// displayCompilationFinished displays the closing banner of compilation.
func displayCompilationFinished(w io.Writer, success bool, outputPath string) {
	if success {
		fmt.Fprintln(w, SuccessStyleBG.Sprint(" done ")+" "+SuccessColorFG.Sprint("output written to "+outputPath))
	} else {
		fmt.Fprintln(w, ErrorStyleBG.Sprint(" failed ")+" "+ErrorColorFG.Sprint("compilation did not complete"))
	}
}

// -----------------------------------------------------------------------------

// displayDiagnostic displays a compilation error or warning: a banner naming
// the kind and file, the positioned message, and the erroneous source text.
func displayDiagnostic(w io.Writer, reprPath, src string, d *Diagnostic) {
	displayBanner(w, reprPath, d)

	if d.Span == nil {
		fmt.Fprintf(w, "%s: %s\n\n", reprPath, d.Message)
		return
	}

	fmt.Fprintf(w, "%s:%d:%d: %s\n\n", reprPath, d.Line(), d.Column(), d.Message)
	displaySourceText(w, src, d.Span, d.Severity == SevError)
}

// displayBanner displays the banner on top of all compilation messages.
func displayBanner(w io.Writer, reprPath string, d *Diagnostic) {
	var label string
	if d.Severity == SevError {
		label = ErrorStyleBG.Sprint(" " + KindName(d.Kind) + " ")
	} else {
		label = WarnStyleBG.Sprint(" warning ")
	}

	fileName := filepath.Base(reprPath)

	bannerLen := pterm.GetTerminalWidth() / 2
	if bannerLen > 50 || bannerLen <= 0 {
		bannerLen = 50
	}

	dashCount := bannerLen - len(fileName) - len(KindName(d.Kind)) - 6
	if dashCount < 2 {
		dashCount = 2
	}

	fmt.Fprintf(w, "-- %s %s %s\n", label, strings.Repeat("-", dashCount), InfoColorFG.Sprint(fileName))
}

// displaySourceText displays a segment of source text defined by a text span
// with the span underlined by carets.
func displaySourceText(w io.Writer, src string, span *TextSpan, isErr bool) {
	srcLines := strings.Split(src, "\n")
	if span.StartLine >= len(srcLines) {
		return
	}

	endLine := span.EndLine
	if endLine >= len(srcLines) {
		endLine = len(srcLines) - 1
	}

	var lines []string
	for ln := span.StartLine; ln <= endLine; ln++ {
		lines = append(lines, strings.ReplaceAll(strings.TrimRight(srcLines[ln], "\r"), "\t", "    "))
	}

	// Calculate the minimum line indentation.
	minIndent := -1
	for _, line := range lines {
		indent := len(line) - len(strings.TrimLeft(line, " "))
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}

	maxLineNumLen := len(strconv.Itoa(endLine + 1))
	lineNumFmtStr := "%-" + strconv.Itoa(maxLineNumLen) + "v | "

	caretColor := ErrorColorFG
	if !isErr {
		caretColor = WarnColorFG
	}

	for i, line := range lines {
		fmt.Fprint(w, InfoColorFG.Sprintf(lineNumFmtStr, i+span.StartLine+1))
		fmt.Fprintln(w, line[minIndent:])

		prefix := 0
		if i == 0 {
			prefix = span.StartCol - minIndent
		}

		end := len(line)
		if i == len(lines)-1 && span.EndCol < end {
			end = span.EndCol
		}

		count := end - minIndent - prefix
		if prefix < 0 {
			prefix = 0
		}
		if count < 1 {
			count = 1
		}

		fmt.Fprint(w, strings.Repeat(" ", maxLineNumLen), " | ", strings.Repeat(" ", prefix))
		fmt.Fprintln(w, caretColor.Sprint(strings.Repeat("^", count)))
	}

	fmt.Fprintln(w)
}
