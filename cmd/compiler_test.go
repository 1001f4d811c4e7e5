package cmd

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"cayc/depm"
	"cayc/report"

	"github.com/llir/llvm/asm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// compileOK compiles a single source text with an external runtime and returns
// its IR.  The source must compile without errors.
func compileOK(t *testing.T, src string) string {
	t.Helper()

	res, err := CompileSource("T.cay", src, Options{RequireEntry: true, Runtime: depm.RuntimeExternal})
	require.NoError(t, err)
	require.False(t, res.AnyErrors(), "%v", res.Diagnostics())
	require.NotNil(t, res.Module)

	ir := res.IR()
	requireValidIR(t, ir)

	return ir
}

// requireValidIR parses ir back with the LLVM assembly parser, which rejects
// redefined locals, references to missing blocks and malformed phis.
func requireValidIR(t *testing.T, ir string) {
	t.Helper()

	_, err := asm.ParseString("T.ll", ir)
	require.NoError(t, err, ir)
}

// definedFuncs returns the names of the functions defined in ir whose names
// begin with prefix.
func definedFuncs(ir, prefix string) []string {
	re := regexp.MustCompile(`(?m)^define [^@]*@"?(` + regexp.QuoteMeta(prefix) + `[^"(]*)"?\(`)

	var names []string
	for _, match := range re.FindAllStringSubmatch(ir, -1) {
		names = append(names, match[1])
	}

	return names
}

func TestCompileWhileLoop(t *testing.T) {
	ir := compileOK(t, `
class T {
	public static void main() {
		int i = 0;
		while (i < 10) {
			i = i + 1;
		}
	}
}`)

	assert.Equal(t, []string{"T.main$"}, definedFuncs(ir, "T."))
	assert.Regexp(t, `(?m)^cond\.\d+:`, ir)
	assert.Regexp(t, `(?m)^body\.\d+:`, ir)
	assert.Regexp(t, `(?m)^exit\.\d+:`, ir)
	assert.Contains(t, ir, "icmp slt i32")
	assert.Contains(t, ir, "define i32 @main()")
	assert.Contains(t, ir, "call void @T.main$()")
}

func TestCompileIsDeterministic(t *testing.T) {
	src := `
class T {
	static int twice(int x) { return x * 2; }

	public static void main() {
		String s = "a" + twice(3);
		println(s);
		println("a");
	}
}`

	assert.Equal(t, compileOK(t, src), compileOK(t, src))
}

func TestCompileShortCircuit(t *testing.T) {
	ir := compileOK(t, `
class T {
	public static void main() {
		int x = 1, y = 2;
		bool b = x > 0 && y > 0 || x == y;
		println(b);
	}
}`)

	assert.Regexp(t, `phi i1 \[`, ir)
	assert.Regexp(t, `(?m)^rhs\.\d+:`, ir)
	assert.Regexp(t, `(?m)^merge\.\d+:`, ir)
}

func TestCompileArrayBoundsCheck(t *testing.T) {
	ir := compileOK(t, `
class T {
	public static void main() {
		int[] a = new int[3];
		a[1] = 2;
		println(a.length);
	}
}`)

	assert.Contains(t, ir, "icmp uge i32")
	assert.Regexp(t, `(?m)^oob\.\d+:`, ir)
	assert.Regexp(t, `(?m)^inb\.\d+:`, ir)
	assert.Contains(t, ir, "call void @__cay_bounds_fail(")
	assert.Contains(t, ir, "@__cay_array_alloc(")
}

func TestCompileStringConcat(t *testing.T) {
	ir := compileOK(t, `
class T {
	public static void main() {
		String s = "n = " + 42;
		s += 1.5;
		println(s);
	}
}`)

	assert.Contains(t, ir, "call i8* @__cay_string_concat(")
	assert.Contains(t, ir, "call i8* @__cay_to_string_long(")
	assert.Contains(t, ir, "call i8* @__cay_to_string_double(")
}

func TestCompileSwitchFallthrough(t *testing.T) {
	ir := compileOK(t, `
class T {
	public static void main() {
		int x = 2, y = 0;
		switch (x) {
		case 1:
			y = 1;
		case 2:
			y = 2;
			break;
		default:
			y = 3;
		}
		println(y);
	}
}`)

	assert.Contains(t, ir, "switch i32")
	assert.Regexp(t, `(?m)^case\.\d+:`, ir)
	assert.Regexp(t, `(?m)^default\.\d+:`, ir)
}

func TestCompileClasses(t *testing.T) {
	ir := compileOK(t, `
class Point {
	static int created = 0;

	int x;
	int y = 1;

	Point(int x) { this.x = x; created++; }

	int sum() { return x + y; }
}

class Empty {}

class T {
	public static void main() {
		Point p = new Point(3);
		println(p.sum());
	}
}`)

	assert.ElementsMatch(t, []string{`Point.<init>$I`, "Point.sum$", "Point.<clinit>"}, definedFuncs(ir, "Point."))
	assert.Empty(t, definedFuncs(ir, "Empty."))
	assert.Contains(t, ir, "%Point = type { i32, i32 }")
	assert.Contains(t, ir, `call void @"Point.<clinit>"()`)
	assert.Contains(t, ir, "@calloc(")
}

func TestCompileUsedDefaultCtor(t *testing.T) {
	ir := compileOK(t, `
class Box {}

class T {
	public static void main() {
		Box b = new Box();
	}
}`)

	assert.Equal(t, []string{`Box.<init>$`}, definedFuncs(ir, "Box."))
}

func TestCompileEmbeddedRuntime(t *testing.T) {
	res, err := CompileSource("T.cay", `class T { public static void main() { println("hi"); } }`, Options{
		RequireEntry: true,
		Runtime:      depm.RuntimeEmbedded,
		Target:       "x86_64-pc-linux-gnu",
	})
	require.NoError(t, err)
	require.False(t, res.AnyErrors())

	ir := res.IR()
	requireValidIR(t, ir)
	assert.Contains(t, ir, `target triple = "x86_64-pc-linux-gnu"`)
	assert.Contains(t, ir, `source_filename = "T.cay"`)
	assert.NotEmpty(t, definedFuncs(ir, "__cay_string_concat"))
	assert.NotEmpty(t, definedFuncs(ir, "__cay_bounds_fail"))
}

// -----------------------------------------------------------------------------

func TestCompileReportsErrors(t *testing.T) {
	res, err := CompileSource("T.cay", `
class T {
	public static void main() {
		int x = "no";
		undefined();
	}
}`, Options{RequireEntry: true})
	require.NoError(t, err)

	assert.True(t, res.AnyErrors())
	assert.Nil(t, res.Module)
	assert.Empty(t, res.IR())

	diags := res.Diagnostics()
	require.Len(t, diags, 2)
	assert.Equal(t, report.TypeError, diags[0].Kind)
	assert.Equal(t, 4, diags[0].Line())
	assert.Equal(t, report.NameError, diags[1].Kind)
}

func TestCompileRequiresEntry(t *testing.T) {
	src := `class Lib { static int id(int x) { return x; } }`

	res, err := CompileSource("Lib.cay", src, Options{RequireEntry: true})
	require.NoError(t, err)
	require.True(t, res.AnyErrors())
	assert.Contains(t, res.Diagnostics()[0].Message, "no class declares")

	// IR may be produced for libraries.
	res, err = CompileSource("Lib.cay", src, Options{Runtime: depm.RuntimeExternal})
	require.NoError(t, err)
	require.False(t, res.AnyErrors())
	requireValidIR(t, res.IR())
	assert.NotContains(t, res.IR(), "@main()")
	assert.Equal(t, []string{"Lib.id$I"}, definedFuncs(res.IR(), "Lib."))
}

func TestCompileExplicitEntryErrors(t *testing.T) {
	src := `class Lib { static int id(int x) { return x; } }`

	// An explicitly named entry class is checked even for libraries.
	res, err := CompileSource("Lib.cay", src, Options{EntryClass: "Missing", Runtime: depm.RuntimeExternal})
	require.NoError(t, err)
	require.True(t, res.AnyErrors())
	assert.Nil(t, res.Module)
	assert.Equal(t, "entry class `Missing` does not exist", res.Diagnostics()[0].Message)

	res, err = CompileSource("Lib.cay", src, Options{EntryClass: "Lib", Runtime: depm.RuntimeExternal})
	require.NoError(t, err)
	require.True(t, res.AnyErrors())
	assert.Equal(t, "entry class Lib has no `public static void main()` method", res.Diagnostics()[0].Message)
	assert.Equal(t, 1, res.Diagnostics()[0].Line())
}

func TestCompileIncludes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Lib.cay"), []byte(`
#define FACTOR 3
class Lib { static int scale(int x) { return x * FACTOR; } }`), 0644))

	main := depm.NewSourceUnit(filepath.Join(dir, "Main.cay"), `#include "Lib.cay"
#ifndef FACTOR
#error "Lib.cay defines FACTOR"
#endif
class Main {
	public static void main() {
		println(Lib.scale(FACTOR));
	}
}`)

	res, err := CompileUnits([]*depm.SourceUnit{main}, Options{RequireEntry: true, Runtime: depm.RuntimeExternal})
	require.NoError(t, err)
	require.False(t, res.AnyErrors(), "%v", res.Diagnostics())
	requireValidIR(t, res.IR())

	require.Len(t, res.Program.Units, 2)
	assert.Equal(t, []string{"Lib.scale$I"}, definedFuncs(res.IR(), "Lib."))
	assert.Contains(t, res.IR(), "call i32 @Lib.scale$I(i32 3)")
}

func TestCompileUnits(t *testing.T) {
	units := []*depm.SourceUnit{
		depm.NewSourceUnit("A.cay", `class A { public static void main() { println(B.half(8)); } }`),
		depm.NewSourceUnit("B.cay", `class B { static int half(int x) { return x / 2; } }`),
	}

	res, err := CompileUnits(units, Options{RequireEntry: true, Runtime: depm.RuntimeExternal})
	require.NoError(t, err)
	require.False(t, res.AnyErrors(), "%v", res.Diagnostics())

	requireValidIR(t, res.IR())
	assert.Equal(t, "A", res.Program.Entry.Name)
	assert.Equal(t, []string{"B.half$I"}, definedFuncs(res.IR(), "B."))
}

func TestCompileUnitsSyntaxErrors(t *testing.T) {
	units := []*depm.SourceUnit{
		depm.NewSourceUnit("A.cay", `class A { public static void main() { int x = ; } }`),
		depm.NewSourceUnit("B.cay", `class B { static void f() { int y = "s"; } }`),
	}

	res, err := CompileUnits(units, Options{RequireEntry: true})
	require.NoError(t, err)

	assert.Nil(t, res.Module)
	assert.True(t, units[0].Diagnostics.AnyErrors())
	assert.Equal(t, report.SyntaxError, units[0].Diagnostics.Items()[0].Kind)

	// Units with syntax errors are not analyzed but the others are.
	assert.Len(t, units[0].Diagnostics.Items(), 1)
	require.True(t, units[1].Diagnostics.AnyErrors())
	assert.Equal(t, report.TypeError, units[1].Diagnostics.Items()[0].Kind)
}

func TestCompileNoUnits(t *testing.T) {
	_, err := CompileUnits(nil, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no source units")
}

// -----------------------------------------------------------------------------

func TestLoadBuildProfileSingleFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Hello.cay")
	require.NoError(t, os.WriteFile(src, []byte("class Hello {}"), 0644))

	bp, err := LoadBuildProfile(src, "")
	require.NoError(t, err)

	assert.Equal(t, "Hello", bp.Name)
	assert.Equal(t, []string{src}, bp.Sources)
	assert.Equal(t, filepath.Join(dir, "Hello"+exeExt()), bp.OutputPath)
	assert.Equal(t, filepath.Join(dir, "Hello.ll"), bp.IRPath())
	assert.Equal(t, depm.RuntimeEmbedded, bp.Runtime)

	_, err = LoadBuildProfile(src, "release")
	assert.Error(t, err)

	notes := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, nil, 0644))

	_, err = LoadBuildProfile(notes, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a Cay source file")
}

func TestLoadBuildProfileProject(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cay.toml"), []byte(`
name = "app"
entry = "Main"

[profile.release]
output = "bin/app"
opt-level = "O3"
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Main.cay"), []byte("class Main {}"), 0644))

	bp, err := LoadBuildProfile(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "app", bp.Name)
	assert.Equal(t, "Main", bp.Entry)
	assert.Equal(t, filepath.Join(dir, "out", "app"+exeExt()), bp.OutputPath)

	bp, err = LoadBuildProfile(dir, "release")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "bin", "app"), bp.OutputPath)
	assert.Equal(t, "O3", bp.OptLevel)

	_, err = LoadBuildProfile(dir, "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no profile named `missing`")
}

func TestLinkWithMissingClang(t *testing.T) {
	dir := t.TempDir()

	prof := depm.DefaultProfile()
	prof.Clang = filepath.Join(dir, "no-such-clang")

	err := linkExecutable(prof, filepath.Join(dir, "a.ll"), filepath.Join(dir, "a.out"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to run")
}
