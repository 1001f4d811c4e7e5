package generate

import (
	"testing"

	"cayc/depm"
	"cayc/syntax"
	"cayc/walk"

	"github.com/llir/llvm/asm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// generate analyzes a single source text and generates its module with the
// embedded runtime.  The source must be free of errors and the generated
// module must parse back as valid LLVM assembly.
func generate(t *testing.T, src string) string {
	t.Helper()

	unit := depm.NewSourceUnit("T.cay", src)
	syntax.NewParser(unit).Parse()
	require.False(t, unit.Diagnostics.AnyErrors(), "%v", unit.Diagnostics.Items())

	prog := depm.NewProgram()
	prog.AddUnit(unit)

	walk.RegisterDecls(prog, unit)
	prog.Seal()
	walk.WalkUnit(prog, unit)
	require.Nil(t, walk.SelectEntry(prog, ""))
	require.False(t, unit.Diagnostics.AnyErrors(), "%v", unit.Diagnostics.Items())

	ir := Generate(prog, Options{Runtime: depm.RuntimeEmbedded, SourceName: "T.cay"}).String()

	_, err := asm.ParseString("T.ll", ir)
	require.NoError(t, err, ir)

	return ir
}

func TestGenerateParams(t *testing.T) {
	ir := generate(t, `
class T {
	static int add(int a, int b) { return a + b; }
	static double add(double a, double b) { return a + b; }

	int scale;

	int times(int a) { return a * scale; }

	public static void main() {
		println(add(1, 2));
		println(add(1.5, 2.5));
		T t = new T();
		println(t.times(4));
	}
}`)

	assert.Contains(t, ir, "%a.arg")
	assert.Contains(t, ir, "%b.arg")
	assert.Contains(t, ir, "%T* %this, i32 %a.arg")
	assert.Contains(t, ir, "%a.addr = alloca i32")
	assert.Contains(t, ir, "%a.addr = alloca double")
}

func TestGenerateVarArgs(t *testing.T) {
	ir := generate(t, `
class T {
	static int sum(int... xs) {
		int total = 0;
		for (int x : xs) {
			total += x;
		}
		return total;
	}

	public static void main() {
		println(sum());
		println(sum(1, 2, 3));
	}
}`)

	assert.Contains(t, ir, "@__cay_array_alloc(")
	assert.Contains(t, ir, "%xs.arg")
}

func TestGenerateLocalsNamedLikeBlocks(t *testing.T) {
	ir := generate(t, `
class T {
	public static void main() {
		int cond = 0;
		while (cond < 2) {
			int body = cond;
			cond++;
		}

		while (cond < 4) {
			int body = cond * 2;
			int exit = body;
			cond += exit;
		}

		int entry = cond;
		println(entry);
	}
}`)

	assert.Contains(t, ir, "%body.addr = alloca i32")
	assert.Contains(t, ir, "%body.addr.1 = alloca i32")
	assert.Contains(t, ir, "%entry.addr = alloca i32")
	assert.Regexp(t, `(?m)^body\.\d+:`, ir)
}

func TestGenerateUnreachableShortCircuit(t *testing.T) {
	ir := generate(t, `
class T {
	static bool f() { return false; }

	static int g() {
		return 1;
		bool x = true && f();
	}

	public static void main() {
		println(g());
	}
}`)

	assert.NotRegexp(t, `(?m)^rhs\.\d+:`, ir)
}

func TestGenerateLocalDeclaredAfterReturn(t *testing.T) {
	ir := generate(t, `
class T {
	static int pick(int k) {
		switch (k) {
		case 0:
			return 0;
			int y = 5;
		case 1:
			y = 2;
			return y;
		}

		return -1;
	}

	public static void main() {
		println(pick(1));
	}
}`)

	assert.Contains(t, ir, "%y.addr = alloca i32")
}

func TestGenerateInputAndReplace(t *testing.T) {
	ir := generate(t, `
class T {
	public static void main() {
		float f = readFloat();
		bool b = readBool();
		println("a-b-c".replace("-", "+"));
		println(f);
		println(b);
	}
}`)

	assert.Contains(t, ir, "define internal i8* @__cay_string_replace(i8* %s, i8* %target, i8* %repl)")
	assert.Contains(t, ir, "call i8* @__cay_string_replace(")
	assert.Contains(t, ir, `c"%f\00"`)
	assert.Contains(t, ir, "alloca float")
	assert.Regexp(t, `icmp ne i32 %\d+, 0`, ir)
}
