package walk

import (
	"testing"

	"cayc/ast"
	"cayc/depm"
	"cayc/report"
	"cayc/syntax"
	"cayc/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// analyzeUnits parses, registers, and walks several source texts as a single
// program.  The sources must be free of syntax errors.
func analyzeUnits(t *testing.T, srcs ...string) *depm.Program {
	t.Helper()

	prog := depm.NewProgram()
	for _, src := range srcs {
		unit := depm.NewSourceUnit("test.cay", src)
		prog.AddUnit(unit)

		syntax.NewParser(unit).Parse()
		require.False(t, unit.Diagnostics.AnyErrors(), "%v", unit.Diagnostics.Items())
	}

	for _, unit := range prog.Units {
		RegisterDecls(prog, unit)
	}

	prog.Seal()

	for _, unit := range prog.Units {
		WalkUnit(prog, unit)
	}

	return prog
}

func analyze(t *testing.T, src string) *depm.SourceUnit {
	t.Helper()

	return analyzeUnits(t, src).Units[0]
}

func requireNoErrors(t *testing.T, unit *depm.SourceUnit) {
	t.Helper()

	require.False(t, unit.Diagnostics.AnyErrors(), "%v", unit.Diagnostics.Items())
}

// errorMessages returns the messages of all the errors in unit in source
// order.
func errorMessages(unit *depm.SourceUnit) []string {
	var msgs []string
	for _, d := range unit.Diagnostics.Sorted() {
		if d.Severity == report.SevError {
			msgs = append(msgs, d.Message)
		}
	}

	return msgs
}

// methodStmts returns the body of the named method of the first class.
func methodStmts(t *testing.T, unit *depm.SourceUnit, name string) []ast.ASTNode {
	t.Helper()

	for _, method := range unit.Classes[0].Methods {
		if method.Name == name {
			return method.Body.Stmts
		}
	}

	require.FailNow(t, "no method named "+name)
	return nil
}

func callAt(t *testing.T, stmts []ast.ASTNode, i int) *ast.CallExpr {
	t.Helper()

	es, ok := stmts[i].(*ast.ExprStmt)
	require.True(t, ok)

	call, ok := es.Expr.(*ast.CallExpr)
	require.True(t, ok)
	return call
}

// -----------------------------------------------------------------------------

func TestOverloadMostSpecific(t *testing.T) {
	unit := analyze(t, `
class T {
	static void f(int x) {}
	static void f(long x) {}
	static void f(double x) {}

	static void m() {
		f('a');
		f(1L);
		f(1.5f);
		f(2);
	}
}`)
	requireNoErrors(t, unit)

	stmts := methodStmts(t, unit, "m")
	want := []types.Type{types.PrimInt, types.PrimLong, types.PrimDouble, types.PrimInt}
	for i, typ := range want {
		call := callAt(t, stmts, i)
		require.NotNil(t, call.Method)
		assert.True(t, typ.Equals(call.Method.Params[0]), "call %d selected %s", i, call.Method.Signature())
		assert.Equal(t, -1, call.VarArgStart)
	}

	// The char argument is widened explicitly.
	cast, ok := callAt(t, stmts, 0).Args[0].(*ast.CastExpr)
	require.True(t, ok)
	assert.True(t, cast.Implicit)
}

func TestOverloadAmbiguous(t *testing.T) {
	unit := analyze(t, `
class T {
	static void f(int a, long b) {}
	static void f(long a, int b) {}

	static void m() { f(1, 1); }
}`)

	msgs := errorMessages(unit)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "call to `f` with (int, int) is ambiguous")
	assert.Equal(t, report.OverloadError, unit.Diagnostics.Items()[0].Kind)
}

func TestOverloadNoMatch(t *testing.T) {
	unit := analyze(t, `
class T {
	static void g(char c) {}

	static void m() { g(65); }
}`)

	msgs := errorMessages(unit)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "no overload of `g` matches (int)")
}

func TestOverloadVariadic(t *testing.T) {
	unit := analyze(t, `
class T {
	static int sum(int... xs) { return 0; }
	static void f(int x) {}
	static void f(int... xs) {}

	static void m() {
		sum(1, 2, 3);
		sum();
		sum(new int[] {1});
		f(1);
		f(1, 2);
	}
}`)
	requireNoErrors(t, unit)

	stmts := methodStmts(t, unit, "m")

	assert.Equal(t, 0, callAt(t, stmts, 0).VarArgStart)
	assert.Equal(t, 0, callAt(t, stmts, 1).VarArgStart)
	assert.Equal(t, -1, callAt(t, stmts, 2).VarArgStart)

	fixed := callAt(t, stmts, 3)
	assert.False(t, fixed.Method.Variadic)
	assert.Equal(t, -1, fixed.VarArgStart)

	expanded := callAt(t, stmts, 4)
	assert.True(t, expanded.Method.Variadic)
	assert.Equal(t, 0, expanded.VarArgStart)
}

func TestLiteralNarrowing(t *testing.T) {
	unit := analyze(t, `
class T {
	static void m() {
		char c = 65;
		float f = 1.5;
		long l = 7;
		char d = 300;
		int x = 5;
		char e = x;
		int y = 2.0;
	}
}`)

	assert.Equal(t, []string{
		"cannot convert int to char",
		"cannot convert int to char",
		"cannot convert double to int",
	}, errorMessages(unit))

	stmts := methodStmts(t, unit, "m")
	c := stmts[0].(*ast.VarDecl).Vars[0]
	assert.True(t, types.PrimChar.Equals(c.Init.Type()))

	l := stmts[2].(*ast.VarDecl).Vars[0]
	_, isCast := l.Init.(*ast.CastExpr)
	assert.True(t, isCast)
}

func TestStaticContext(t *testing.T) {
	unit := analyze(t, `
class T {
	int count;

	void inc() { count++; }

	static void m() {
		count = 1;
		this.inc();
		inc();
	}
}`)

	assert.Equal(t, []string{
		"cannot reference instance member `count` from a static context",
		"`this` cannot be used in a static context",
		"cannot reference instance member `inc` from a static context",
	}, errorMessages(unit))
}

func TestInstanceMembers(t *testing.T) {
	unit := analyze(t, `
class Counter {
	int count;
	static int total;

	Counter(int start) { count = start; }

	void inc() { count++; total++; }

	static void m() {
		Counter c = new Counter(2);
		c.inc();
		c.count = Counter.total;
	}
}`)
	requireNoErrors(t, unit)

	stmts := methodStmts(t, unit, "m")
	decl := stmts[0].(*ast.VarDecl).Vars[0]

	ne, ok := decl.Init.(*ast.NewExpr)
	require.True(t, ok)
	require.NotNil(t, ne.Ctor)
	assert.True(t, types.PrimInt.Equals(ne.Ctor.Params[0]))
}

func TestMissingReturn(t *testing.T) {
	unit := analyze(t, `
class T {
	static int f(int x) {
		if (x > 0) return 1;
	}

	static int g(int x) {
		if (x > 0) return 1; else return 2;
	}

	static int h() {
		while (true) {}
	}

	static int k(int x) {
		switch (x) {
		case 1: return 1;
		default: return 0;
		}
	}
}`)

	msgs := errorMessages(unit)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "is missing a return statement")
}

func TestUnreachableCodeWarns(t *testing.T) {
	unit := analyze(t, `
class T {
	static void m() {
		return;
		int x = 1;
	}
}`)
	requireNoErrors(t, unit)

	items := unit.Diagnostics.Items()
	require.Len(t, items, 1)
	assert.Equal(t, report.SevWarning, items[0].Severity)
	assert.Equal(t, "unreachable code", items[0].Message)
}

func TestLabels(t *testing.T) {
	unit := analyze(t, `
class T {
	static void m(int v) {
		outer: while (true) {
			inner: for (int i = 0; i < 3; i++) {
				if (i == 1) continue outer;
				break inner;
			}
			break outer;
		}

		sw: switch (v) {
		case 1:
			continue sw;
		}

		block: {
			break block;
		}

		break nowhere;
		break;
	}
}`)

	assert.Equal(t, []string{
		"cannot continue `sw`: label does not name a loop",
		"cannot break `block`: label does not name a loop or switch",
		"undefined label: `nowhere`",
		"break outside of a loop or switch",
	}, errorMessages(unit))

	stmts := methodStmts(t, unit, "m")
	outer := stmts[0].(*ast.WhileLoop)
	inner := outer.Body.(*ast.Block).Stmts[0].(*ast.ForLoop)

	cont := inner.Body.(*ast.Block).Stmts[0].(*ast.IfStmt).Body.(*ast.BranchStmt)
	assert.Equal(t, 0, cont.TargetIndex)

	brk := inner.Body.(*ast.Block).Stmts[1].(*ast.BranchStmt)
	assert.Equal(t, 1, brk.TargetIndex)
}

func TestDuplicateLabel(t *testing.T) {
	unit := analyze(t, `
class T {
	static void m() {
		a: while (true) {
			a: while (true) { break a; }
		}
	}
}`)

	assert.Equal(t, []string{"label `a` is already in use"}, errorMessages(unit))
}

func TestSwitchCases(t *testing.T) {
	unit := analyze(t, `
class T {
	static final int ONE = 1;

	static void m(char c, int n, int x) {
		switch (c) {
		case 'a':
		case 98:
			break;
		}

		switch (x) {
		case 1:
		case 1:
		case n:
			break;
		}
	}
}`)

	assert.Equal(t, []string{
		"duplicate case value: 1",
		"case value must be a constant expression",
	}, errorMessages(unit))

	stmts := methodStmts(t, unit, "m")
	sw := stmts[0].(*ast.SwitchStmt)
	assert.Equal(t, int64('a'), sw.Cases[0].ConstValue)
	assert.Equal(t, int64(98), sw.Cases[1].ConstValue)
}

func TestStringConcatenation(t *testing.T) {
	unit := analyze(t, `
class T {
	static void m() {
		String s = "n = " + 1;
		s += 2.5;
		s = s + 'c' + true;
		int bad = 1 + "x";
	}
}`)

	assert.Equal(t, []string{"cannot convert string to int"}, errorMessages(unit))

	stmts := methodStmts(t, unit, "m")
	init := stmts[0].(*ast.VarDecl).Vars[0].Init.(*ast.BinaryExpr)
	assert.True(t, init.IsConcat)
	assert.True(t, types.IsString(init.Type()))

	assign := stmts[1].(*ast.ExprStmt).Expr.(*ast.AssignExpr)
	assert.True(t, assign.IsConcat)
}

func TestInputAndStringBuiltins(t *testing.T) {
	unit := analyze(t, `
class T {
	static void m() {
		float f = readFloat();
		bool b = readBool();
		String s = "a-b".replace("-", "+");
		s.replace("x");
		s.replace('a', 'b');
	}
}`)

	assert.Equal(t, []string{
		"no overload of `replace` matches (string)",
		"cannot convert char to string",
	}, errorMessages(unit))

	stmts := methodStmts(t, unit, "m")
	read := stmts[0].(*ast.VarDecl).Vars[0].Init.(*ast.CallExpr)
	assert.Equal(t, ast.BuiltinReadFloat, read.Builtin)
	assert.True(t, types.PrimFloat.Equals(read.Type()))

	read = stmts[1].(*ast.VarDecl).Vars[0].Init.(*ast.CallExpr)
	assert.Equal(t, ast.BuiltinReadBool, read.Builtin)

	replace := stmts[2].(*ast.VarDecl).Vars[0].Init.(*ast.CallExpr)
	assert.Equal(t, ast.BuiltinStrReplace, replace.Builtin)
	assert.True(t, types.IsString(replace.Type()))
}

func TestArrays(t *testing.T) {
	unit := analyze(t, `
class T {
	static void m() {
		int[][] grid = new int[3][4];
		int n = grid.length + grid[0].length;
		grid[1][2] = n;
		for (int[] row : grid) {
			for (long v : row) {}
		}
		int[] bad = {1, "x"};
	}
}`)

	assert.Equal(t, []string{"cannot convert string to int"}, errorMessages(unit))

	stmts := methodStmts(t, unit, "m")
	assign := stmts[2].(*ast.ExprStmt).Expr.(*ast.AssignExpr)
	access := assign.Target.(*ast.ArrayAccess)
	assert.True(t, access.BoundsCheck)
	assert.True(t, types.PrimInt.Equals(access.Type()))

	each := stmts[3].(*ast.ForEachLoop)
	assert.NotNil(t, each.IndexSym)
	assert.NotNil(t, each.SeqSym)
}

func TestUndefinedNames(t *testing.T) {
	unit := analyze(t, `
class T {
	static void m() {
		x = 1;
		Foo f = null;
		T.nothing();
		int y = 1;
		int y = 2;
	}
}`)

	assert.Equal(t, []string{
		"undefined name: `x`",
		"undefined class: `Foo`",
		"class T has no method `nothing`",
		"variable `y` is already defined in this scope",
	}, errorMessages(unit))
}

func TestLambdasRejected(t *testing.T) {
	unit := analyze(t, `
class T {
	static void m() {
		int x = (a) -> a;
	}
}`)

	msgs := errorMessages(unit)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "no function types")
}

// -----------------------------------------------------------------------------

func TestCrossUnitReferences(t *testing.T) {
	prog := analyzeUnits(t,
		`class A { static int twice(int x) { return B.half(x) * 4; } }`,
		`class B { static int half(int x) { return x / 2; } }`,
	)

	for _, unit := range prog.Units {
		requireNoErrors(t, unit)
	}
}

func TestDuplicateClass(t *testing.T) {
	prog := analyzeUnits(t, `class A {}`, `class A {}`)

	assert.False(t, prog.Units[0].Diagnostics.AnyErrors())
	assert.Equal(t, []string{"multiple classes named `A`"}, errorMessages(prog.Units[1]))
}

func TestSelectEntry(t *testing.T) {
	single := analyzeUnits(t, `class A { public static void main() {} } class B {}`)
	require.Nil(t, SelectEntry(single, ""))
	assert.Equal(t, "A", single.Entry.Name)

	multi := analyzeUnits(t, `class A { public static void main() {} } class B { public static void main() {} }`)
	err := SelectEntry(multi, "")
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "multiple entry classes (A, B)")

	require.Nil(t, SelectEntry(multi, "B"))
	assert.Equal(t, "B", multi.Entry.Name)

	marked := analyzeUnits(t, `class A { public static void main() {} } @main class B { public static void main() {} }`)
	require.Nil(t, SelectEntry(marked, ""))
	assert.Equal(t, "B", marked.Entry.Name)

	none := analyzeUnits(t, `class A { static void main() {} }`)
	err = SelectEntry(none, "")
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "no class declares")

	err = SelectEntry(none, "Missing")
	require.NotNil(t, err)
	assert.Equal(t, "entry class `Missing` does not exist", err.Message)
}

func TestUnknownAnnotationsInSourceOrder(t *testing.T) {
	unit := analyze(t, `@Zed @main @Alpha @Mid class A { public static void main() {} }`)
	requireNoErrors(t, unit)

	var msgs []string
	for _, d := range unit.Diagnostics.Items() {
		msgs = append(msgs, d.Message)
	}

	assert.Equal(t, []string{
		"unknown annotation @Zed",
		"unknown annotation @Alpha",
		"unknown annotation @Mid",
	}, msgs)
}
