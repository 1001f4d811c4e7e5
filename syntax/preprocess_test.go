package syntax

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cayc/depm"
	"cayc/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// preprocess expands the given units as a single program.
func preprocess(units ...*depm.SourceUnit) *depm.Program {
	prog := depm.NewProgram()
	for _, unit := range units {
		prog.AddUnit(unit)
	}

	NewPreprocessor(prog, nil).Preprocess()
	return prog
}

func preprocessSource(t *testing.T, src string) *depm.SourceUnit {
	t.Helper()

	unit := depm.NewSourceUnit("test.cay", src)
	preprocess(unit)
	return unit
}

func messages(diags []*report.Diagnostic) []string {
	msgs := make([]string, len(diags))
	for i, d := range diags {
		msgs[i] = d.Message
	}

	return msgs
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestPreprocessDefines(t *testing.T) {
	unit := preprocessSource(t, `#define MAX 10
#define LIMIT MAX * 2
class T {
	int a = MAX; int MAXIMUM = LIMIT;
	String s = "MAX"; // MAX
	char c = 'M'; long n = 10L;
}`)

	require.False(t, unit.Diagnostics.AnyErrors(), "%v", unit.Diagnostics.Items())
	assert.Equal(t, `

class T {
	int a = 10; int MAXIMUM = 10 * 2;
	String s = "MAX"; // MAX
	char c = 'M'; long n = 10L;
}`, unit.Src)
}

func TestPreprocessConditionals(t *testing.T) {
	unit := preprocessSource(t, `#define DEBUG
#ifdef DEBUG
a
#ifndef DEBUG
b
#endif
#endif
#ifdef RELEASE
c
#ifdef DEBUG
d
#endif
#error "not reported"
#endif
e`)

	require.False(t, unit.Diagnostics.AnyErrors(), "%v", unit.Diagnostics.Items())

	lines := strings.Split(unit.Src, "\n")
	require.Len(t, lines, 15)
	assert.Equal(t, []string{"", "", "a", "", "", "", "", "", "", "", "", "", "", "", "e"}, lines)
}

func TestPreprocessErrors(t *testing.T) {
	unit := preprocessSource(t, `#define
#define SQUARE(x) x * x
#pragma once
#error "stop here"
#warning "careful"
#include <io.cay>
#endif
	#ifdef
#ifndef OPEN`)

	diags := unit.Diagnostics.Items()
	assert.Equal(t, []string{
		"`#define` expects a macro name",
		"function-like macros are not supported",
		"unknown directive `#pragma`",
		"stop here",
		"careful",
		"`#include` expects a quoted path",
		"`#endif` without a matching `#ifdef` or `#ifndef`",
		"`#ifdef` expects a macro name",
		"conditional is never closed: missing `#endif`",
		"conditional is never closed: missing `#endif`",
	}, messages(diags))

	for _, d := range diags {
		assert.Equal(t, report.PreprocessError, d.Kind)
	}

	assert.Equal(t, report.SevWarning, diags[4].Severity)
	assert.Equal(t, 4, diags[3].Line())
	assert.Equal(t, 8, diags[8].Line())
	assert.Equal(t, 4, diags[7].Span.StartCol)
}

func TestPreprocessIncludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "lib", "Consts.cay"), "#define SIZE 4\nclass Consts { static int size() { return SIZE; } }")
	writeFile(t, filepath.Join(dir, "lib", "Util.cay"), "#include \"Consts.cay\"\nclass Util {}")

	main := depm.NewSourceUnit(filepath.Join(dir, "Main.cay"), `#include "lib/Consts.cay"
#include "lib/Util.cay"
#include "lib/Consts.cay"
class Main { int[] a = new int[SIZE]; }`)

	prog := preprocess(main)
	require.False(t, main.Diagnostics.AnyErrors(), "%v", main.Diagnostics.Items())

	// Each file becomes a single unit no matter how often it is included.
	require.Len(t, prog.Units, 3)
	assert.Equal(t, filepath.Join(dir, "lib", "Consts.cay"), prog.Units[1].ReprPath)
	assert.Equal(t, filepath.Join(dir, "lib", "Util.cay"), prog.Units[2].ReprPath)

	assert.Equal(t, "\n\n\nclass Main { int[] a = new int[4]; }", main.Src)
	assert.Equal(t, "\nclass Consts { static int size() { return 4; } }", prog.Units[1].Src)
}

func TestPreprocessIncludeErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "B.cay"), "#include \"A.cay\"\nclass B {}")

	a := depm.NewSourceUnit(filepath.Join(dir, "A.cay"), "#include \"B.cay\"\n#include \"Missing.cay\"\nclass A {}")
	prog := preprocess(a)

	require.Len(t, prog.Units, 2)
	assert.Equal(t, []string{"unable to find included file `Missing.cay`"}, messages(a.Diagnostics.Items()))
	assert.Equal(t, []string{"circular include of `A.cay`"}, messages(prog.Units[1].Diagnostics.Items()))
}

func TestPreprocessIncludeDirs(t *testing.T) {
	dir := t.TempDir()
	incDir := filepath.Join(dir, "include")
	writeFile(t, filepath.Join(incDir, "Shared.cay"), "class Shared {}")

	unit := depm.NewSourceUnit(filepath.Join(dir, "src", "Main.cay"), "#include \"Shared.cay\"\nclass Main {}")

	prog := depm.NewProgram()
	prog.AddUnit(unit)
	NewPreprocessor(prog, []string{incDir}).Preprocess()

	require.False(t, unit.Diagnostics.AnyErrors(), "%v", unit.Diagnostics.Items())
	require.Len(t, prog.Units, 2)
	assert.Equal(t, "class Shared {}", prog.Units[1].Src)
}

func TestPreprocessLeavesPlainSourceAlone(t *testing.T) {
	src := "class T {\r\n\tint x = 1;\r\n}"
	unit := preprocessSource(t, src)

	assert.Equal(t, src, unit.Src)
	assert.Zero(t, unit.Diagnostics.Len())
}
