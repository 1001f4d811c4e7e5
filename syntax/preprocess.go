package syntax

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"cayc/depm"
	"cayc/report"
	"cayc/util"
)

// Preprocessor expands the directives of the source units of a program before
// they are lexed.  A directive occupies a whole line beginning with `#`:
//
//	#define NAME [value]
//	#include "path"
//	#ifdef NAME
//	#ifndef NAME
//	#endif
//	#error "message"
//	#warning "message"
//
// Directive lines and lines excluded by a conditional are blanked so that the
// lines of the expanded source match the original.  An included file becomes
// a unit of the program the first time it is included and every later include
// of it is ignored.  Macros defined by an included file remain defined in the
// including file.
type Preprocessor struct {
	prog *depm.Program

	// The directories searched for included files after the directory of the
	// including file.
	includeDirs []string

	// The absolute paths of the files that are units of the program.
	loaded map[string]bool
}

// NewPreprocessor creates a new preprocessor for prog.
func NewPreprocessor(prog *depm.Program, includeDirs []string) *Preprocessor {
	return &Preprocessor{
		prog:        prog,
		includeDirs: includeDirs,
		loaded:      make(map[string]bool),
	}
}

// Preprocess expands the units of the program.  Each unit given to the
// program starts with no macros defined.  Units for included files are added
// to the program.  Errors are added to the diagnostics of the unit containing
// the offending directive.
func (pp *Preprocessor) Preprocess() {
	roots := make([]*depm.SourceUnit, len(pp.prog.Units))
	copy(roots, pp.prog.Units)

	for _, unit := range roots {
		pp.loaded[absPath(unit.ReprPath)] = true
	}

	for _, unit := range roots {
		pp.expandUnit(unit, make(map[string]string), nil)
	}
}

// condFrame is an open `#ifdef` or `#ifndef`.
type condFrame struct {
	active bool
	span   *report.TextSpan
}

// unitExpansion is the state of the expansion of a single unit.
type unitExpansion struct {
	unit    *depm.SourceUnit
	defines map[string]string

	// The absolute paths of the files being expanded: the last one is the
	// unit's own.
	stack []string

	conds []condFrame
}

// skipping returns whether lines are currently excluded by a conditional.
func (ue *unitExpansion) skipping() bool {
	for _, frame := range ue.conds {
		if !frame.active {
			return true
		}
	}

	return false
}

func (ue *unitExpansion) error(span *report.TextSpan, msg string, args ...interface{}) {
	ue.unit.Diagnostics.Add(report.PreprocessError, span, msg, args...)
}

// expandUnit expands the directives and macros of a single unit in place.
func (pp *Preprocessor) expandUnit(unit *depm.SourceUnit, defines map[string]string, stack []string) {
	if len(defines) == 0 && !strings.Contains(unit.Src, "#") {
		return
	}

	ue := &unitExpansion{
		unit:    unit,
		defines: defines,
		stack:   append(stack, absPath(unit.ReprPath)),
	}

	lines := strings.Split(unit.Src, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#") {
			if ue.skipping() {
				lines[i] = ""
			} else {
				lines[i] = expandMacros(line, defines)
			}

			continue
		}

		start := strings.Index(line, "#")
		span := &report.TextSpan{
			StartLine: i,
			StartCol:  displayWidth(line[:start]),
			EndLine:   i,
			EndCol:    displayWidth(strings.TrimRight(line, " \t\r")),
		}

		lines[i] = ""
		pp.directive(ue, trimmed[1:], span)
	}

	for _, frame := range ue.conds {
		ue.error(frame.span, "conditional is never closed: missing `#endif`")
	}

	unit.Src = strings.Join(lines, "\n")
}

// directive processes a single directive: text is the directive line
// following the `#`.
func (pp *Preprocessor) directive(ue *unitExpansion, text string, span *report.TextSpan) {
	name, args := cutSpace(strings.TrimSpace(text))

	// Conditionals are tracked even when skipping so that they stay balanced.
	switch name {
	case "":
		return
	case "ifdef", "ifndef":
		ident, ok := directiveIdent(args)
		if !ok {
			ue.error(span, "`#%s` expects a macro name", name)
		}

		_, defined := ue.defines[ident]
		ue.conds = append(ue.conds, condFrame{active: defined == (name == "ifdef"), span: span})
		return
	case "endif":
		if args != "" {
			ue.error(span, "`#endif` takes no arguments")
		}

		if len(ue.conds) == 0 {
			ue.error(span, "`#endif` without a matching `#ifdef` or `#ifndef`")
		} else {
			ue.conds = ue.conds[:len(ue.conds)-1]
		}

		return
	}

	if ue.skipping() {
		return
	}

	switch name {
	case "define":
		macro, value := cutSpace(args)
		if macro == "" {
			ue.error(span, "`#define` expects a macro name")
		} else if strings.Contains(macro, "(") {
			ue.error(span, "function-like macros are not supported")
		} else if !isIdent(macro) {
			ue.error(span, "invalid macro name `%s`", macro)
		} else {
			ue.defines[macro] = expandMacros(value, ue.defines)
		}
	case "include":
		path, ok := directiveString(args)
		if !ok {
			ue.error(span, "`#include` expects a quoted path")
			return
		}

		pp.include(ue, path, span)
	case "error":
		msg, ok := directiveString(args)
		if !ok {
			ue.error(span, "`#error` expects a quoted message")
			return
		}

		ue.error(span, "%s", msg)
	case "warning":
		msg, ok := directiveString(args)
		if !ok {
			ue.error(span, "`#warning` expects a quoted message")
			return
		}

		ue.unit.Diagnostics.Warn(report.PreprocessError, span, "%s", msg)
	default:
		ue.error(span, "unknown directive `#%s`", name)
	}
}

// include makes the file at path a unit of the program and expands it with
// the macros of the including unit.
func (pp *Preprocessor) include(ue *unitExpansion, path string, span *report.TextSpan) {
	resolved, ok := pp.resolveInclude(ue.unit.ReprPath, path)
	if !ok {
		ue.error(span, "unable to find included file `%s`", path)
		return
	}

	key := absPath(resolved)
	if util.Contains(ue.stack, key) {
		ue.error(span, "circular include of `%s`", path)
		return
	}

	if pp.loaded[key] {
		return
	}

	buff, err := os.ReadFile(resolved)
	if err != nil {
		ue.error(span, "unable to read included file `%s`: %s", path, err)
		return
	}

	pp.loaded[key] = true

	unit := depm.NewSourceUnit(resolved, string(buff))
	pp.prog.AddUnit(unit)
	pp.expandUnit(unit, ue.defines, ue.stack)
}

// resolveInclude finds the file at path relative to the directory of the
// including file and then to each include directory.
func (pp *Preprocessor) resolveInclude(fromPath, path string) (string, bool) {
	if filepath.IsAbs(path) {
		return path, fileExists(path)
	}

	candidates := []string{filepath.Join(filepath.Dir(fromPath), path)}
	for _, dir := range pp.includeDirs {
		candidates = append(candidates, filepath.Join(dir, path))
	}

	for _, candidate := range candidates {
		if fileExists(candidate) {
			return candidate, true
		}
	}

	return "", false
}

// -----------------------------------------------------------------------------

// expandMacros replaces the identifiers of line that name macros with their
// values.  String literals, character literals and comments are left alone.
func expandMacros(line string, defines map[string]string) string {
	if len(defines) == 0 {
		return line
	}

	var sb strings.Builder
	runes := []rune(line)

	for i := 0; i < len(runes); {
		c := runes[i]

		switch {
		case c == '"' || c == '\'':
			j := i + 1
			for j < len(runes) && runes[j] != c {
				if runes[j] == '\\' {
					j++
				}

				j++
			}

			j = min(j+1, len(runes))
			sb.WriteString(string(runes[i:j]))
			i = j
		case c == '/' && i+1 < len(runes) && runes[i+1] == '/':
			sb.WriteString(string(runes[i:]))
			i = len(runes)
		case c == '/' && i+1 < len(runes) && runes[i+1] == '*':
			j := i + 2
			for j+1 < len(runes) && !(runes[j] == '*' && runes[j+1] == '/') {
				j++
			}

			j = min(j+2, len(runes))
			sb.WriteString(string(runes[i:j]))
			i = j
		case isFirstIdentChar(c):
			j := i + 1
			for j < len(runes) && isIdentChar(runes[j]) {
				j++
			}

			word := string(runes[i:j])
			if value, ok := defines[word]; ok {
				sb.WriteString(value)
			} else {
				sb.WriteString(word)
			}

			i = j
		case isDecimalDigit(c):
			// Skip whole numbers so that suffixes are not mistaken for macros.
			j := i + 1
			for j < len(runes) && (isIdentChar(runes[j]) || runes[j] == '.') {
				j++
			}

			sb.WriteString(string(runes[i:j]))
			i = j
		default:
			sb.WriteRune(c)
			i++
		}
	}

	return sb.String()
}

// cutSpace splits s at its first whitespace into a word and the trimmed rest.
func cutSpace(s string) (string, string) {
	if i := strings.IndexFunc(s, unicode.IsSpace); i >= 0 {
		return s[:i], strings.TrimSpace(s[i:])
	}

	return s, ""
}

// directiveIdent returns the identifier beginning the arguments of a
// directive.  Anything following it is ignored.
func directiveIdent(args string) (string, bool) {
	word, _ := cutSpace(args)
	return word, isIdent(word)
}

// directiveString returns the contents of the double-quoted string making up
// the arguments of a directive.
func directiveString(args string) (string, bool) {
	if len(args) < 2 || args[0] != '"' || args[len(args)-1] != '"' {
		return "", false
	}

	return args[1 : len(args)-1], true
}

func isIdent(s string) bool {
	for i, c := range s {
		if i == 0 && !isFirstIdentChar(c) || !isIdentChar(c) {
			return false
		}
	}

	return s != ""
}

func isIdentChar(c rune) bool {
	return isFirstIdentChar(c) || unicode.IsDigit(c)
}

// displayWidth returns the column reached after text: tabs are four columns
// wide as in the lexer.
func displayWidth(text string) int {
	width := 0
	for _, c := range text {
		if c == '\t' {
			width += 4
		} else {
			width++
		}
	}

	return width
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}

	return filepath.Clean(path)
}

func fileExists(path string) bool {
	finfo, err := os.Stat(path)
	return err == nil && !finfo.IsDir()
}
