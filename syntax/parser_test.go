package syntax

import (
	"testing"

	"cayc/ast"
	"cayc/common"
	"cayc/depm"
	"cayc/report"
	"cayc/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseUnit(t *testing.T, src string) *depm.SourceUnit {
	t.Helper()

	unit := depm.NewSourceUnit("test.cay", src)
	NewParser(unit).Parse()
	return unit
}

// parseBody parses the statements of a method body.  The source must be
// free of syntax errors.
func parseBody(t *testing.T, body string) []ast.ASTNode {
	t.Helper()

	unit := parseUnit(t, "class T { void m() {\n"+body+"\n} }")
	require.False(t, unit.Diagnostics.AnyErrors(), "%v", unit.Diagnostics.Items())
	require.Len(t, unit.Classes, 1)
	require.Len(t, unit.Classes[0].Methods, 1)

	return unit.Classes[0].Methods[0].Body.Stmts
}

func parseExprStmt(t *testing.T, src string) ast.ASTExpr {
	t.Helper()

	stmts := parseBody(t, src+";")
	require.Len(t, stmts, 1)

	es, ok := stmts[0].(*ast.ExprStmt)
	require.True(t, ok, "expected expression statement, got %T", stmts[0])
	return es.Expr
}

// -----------------------------------------------------------------------------

func TestParseClassMembers(t *testing.T) {
	unit := parseUnit(t, `
@Entry
public class Main {
	static int count = 0, total;
	private String name;

	Main(String name) { this.name = name; }

	public static void main(String[] args) {}

	native static void print(int... xs);
}`)
	require.False(t, unit.Diagnostics.AnyErrors(), "%v", unit.Diagnostics.Items())
	require.Len(t, unit.Classes, 1)

	class := unit.Classes[0]
	assert.Equal(t, "Main", class.Name)
	assert.Contains(t, class.Annotations, "Entry")
	assert.NotZero(t, class.Modifiers&ast.ModPublic)

	require.Len(t, class.Fields, 3)
	assert.Equal(t, "count", class.Fields[0].Name)
	assert.Equal(t, "total", class.Fields[1].Name)
	assert.NotNil(t, class.Fields[0].Init)
	assert.Nil(t, class.Fields[1].Init)
	assert.True(t, types.IsString(class.Fields[2].Type))

	require.Len(t, class.Ctors, 1)
	assert.True(t, class.Ctors[0].IsCtor)

	require.Len(t, class.Methods, 2)
	mainMethod := class.Methods[0]
	assert.Equal(t, "main", mainMethod.Name)
	require.Len(t, mainMethod.Params, 1)
	assert.True(t, types.NewArray(types.String, 1).Equals(mainMethod.Params[0].Type))

	native := class.Methods[1]
	assert.Nil(t, native.Body)
	require.Len(t, native.Params, 1)
	assert.True(t, native.Params[0].Variadic)
}

func TestParsePrecedence(t *testing.T) {
	expr := parseExprStmt(t, "x = a + b * c << 1 < d || e && f")

	assign, ok := expr.(*ast.AssignExpr)
	require.True(t, ok)

	or, ok := assign.Value.(*ast.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, common.OP_LOR, or.Op.Kind)

	and, ok := or.Rhs.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, common.OP_LAND, and.Op.Kind)

	lt, ok := or.Lhs.(*ast.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, common.OP_LT, lt.Op.Kind)

	shl, ok := lt.Lhs.(*ast.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, common.OP_SHL, shl.Op.Kind)

	add, ok := shl.Lhs.(*ast.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, common.OP_ADD, add.Op.Kind)

	mul, ok := add.Rhs.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, common.OP_MUL, mul.Op.Kind)
}

func TestParseLeftAssociativity(t *testing.T) {
	expr := parseExprStmt(t, "a - b - c")

	outer, ok := expr.(*ast.BinaryExpr)
	require.True(t, ok)

	inner, ok := outer.Lhs.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, common.OP_SUB, inner.Op.Kind)

	_, ok = outer.Rhs.(*ast.Identifier)
	assert.True(t, ok)
}

func TestParseAssignmentRightAssociative(t *testing.T) {
	expr := parseExprStmt(t, "a = b += c")

	outer, ok := expr.(*ast.AssignExpr)
	require.True(t, ok)
	assert.Nil(t, outer.CompoundOp)

	inner, ok := outer.Value.(*ast.AssignExpr)
	require.True(t, ok)
	require.NotNil(t, inner.CompoundOp)
	assert.Equal(t, common.OP_ADD, inner.CompoundOp.Kind)
}

func TestParseTernaryNesting(t *testing.T) {
	expr := parseExprStmt(t, "x = a ? b : c ? d : e")

	assign := expr.(*ast.AssignExpr)
	outer, ok := assign.Value.(*ast.TernaryExpr)
	require.True(t, ok)

	_, ok = outer.Else.(*ast.TernaryExpr)
	assert.True(t, ok)
}

func TestParseNegativeLiterals(t *testing.T) {
	tests := []struct {
		src   string
		typ   types.Type
		value int64
	}{
		{"-2147483648", types.PrimInt, -2147483648},
		{"-9223372036854775808L", types.PrimLong, -9223372036854775808},
		{"2147483647", types.PrimInt, 2147483647},
		{"7L", types.PrimLong, 7},
	}

	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			expr := parseExprStmt(t, "x = "+test.src)

			lit, ok := expr.(*ast.AssignExpr).Value.(*ast.Literal)
			require.True(t, ok)
			assert.Equal(t, ast.LitInt, lit.Kind)
			assert.Equal(t, test.value, lit.IntValue)
			assert.True(t, test.typ.Equals(lit.Type()))
		})
	}
}

func TestParseIntLiteralOutOfRange(t *testing.T) {
	unit := parseUnit(t, "class T { void m() { x = 2147483648; } }")

	diags := unit.Diagnostics.Items()
	require.Len(t, diags, 1)
	assert.Equal(t, report.LexicalError, diags[0].Kind)
	assert.Contains(t, diags[0].Message, "out of range for int")
}

func TestParseCastAndPostfix(t *testing.T) {
	expr := parseExprStmt(t, "x = (long) a.b[i].c(1, 2)++")

	cast, ok := expr.(*ast.AssignExpr).Value.(*ast.CastExpr)
	require.True(t, ok)
	assert.True(t, types.PrimLong.Equals(cast.Type()))

	incdec, ok := cast.Src.(*ast.IncDecExpr)
	require.True(t, ok)
	assert.False(t, incdec.IsPrefix)

	call, ok := incdec.Operand.(*ast.CallExpr)
	require.True(t, ok)
	assert.Equal(t, "c", call.Name)
	assert.Len(t, call.Args, 2)

	access, ok := call.Receiver.(*ast.ArrayAccess)
	require.True(t, ok)

	_, ok = access.Array.(*ast.FieldAccess)
	assert.True(t, ok)
}

func TestParseDanglingElse(t *testing.T) {
	stmts := parseBody(t, "if (a) if (b) x(); else y();")
	require.Len(t, stmts, 1)

	outer, ok := stmts[0].(*ast.IfStmt)
	require.True(t, ok)
	assert.Nil(t, outer.Else)

	inner, ok := outer.Body.(*ast.IfStmt)
	require.True(t, ok)
	assert.NotNil(t, inner.Else)
}

func TestParseLabeledLoop(t *testing.T) {
	stmts := parseBody(t, "outer: for (int i = 0; i < 10; i++) { while (true) break outer; }")
	require.Len(t, stmts, 1)

	loop, ok := stmts[0].(*ast.ForLoop)
	require.True(t, ok)
	assert.Equal(t, "outer", loop.LoopLabel())
	require.Len(t, loop.Init, 1)
	require.Len(t, loop.Update, 1)
}

func TestParseLabeledBlock(t *testing.T) {
	stmts := parseBody(t, "done: { break done; }")
	require.Len(t, stmts, 1)

	labeled, ok := stmts[0].(*ast.LabeledStmt)
	require.True(t, ok)
	assert.Equal(t, "done", labeled.Label)
}

func TestParseForEachAndSwitch(t *testing.T) {
	stmts := parseBody(t, `
for (int x : xs) sum += x;
switch (c) {
case 1:
case 2:
	y();
	break;
default:
	z();
}`)
	require.Len(t, stmts, 2)

	each, ok := stmts[0].(*ast.ForEachLoop)
	require.True(t, ok)
	assert.Equal(t, "x", each.IterVar.Name)

	sw, ok := stmts[1].(*ast.SwitchStmt)
	require.True(t, ok)
	require.Len(t, sw.Cases, 3)
	assert.Empty(t, sw.Cases[0].Body)
	assert.Len(t, sw.Cases[1].Body, 2)
	assert.Nil(t, sw.Cases[2].Value)
}

func TestParseLambdasAndMethodRefs(t *testing.T) {
	assign := parseExprStmt(t, "f = x -> x + 1").(*ast.AssignExpr)
	lambda, ok := assign.Value.(*ast.Lambda)
	require.True(t, ok)
	require.Len(t, lambda.Params, 1)
	assert.Equal(t, "x", lambda.Params[0].Name)
	assert.Nil(t, lambda.Params[0].Type)
	assert.IsType(t, &ast.BinaryExpr{}, lambda.Body)

	assign = parseExprStmt(t, "g = (int a, b) -> { return a; }").(*ast.AssignExpr)
	lambda, ok = assign.Value.(*ast.Lambda)
	require.True(t, ok)
	require.Len(t, lambda.Params, 2)
	assert.Equal(t, types.PrimInt, lambda.Params[0].Type)
	assert.Nil(t, lambda.Params[1].Type)
	assert.IsType(t, &ast.Block{}, lambda.Body)

	assign = parseExprStmt(t, "h = () -> 0").(*ast.AssignExpr)
	lambda, ok = assign.Value.(*ast.Lambda)
	require.True(t, ok)
	assert.Empty(t, lambda.Params)

	assign = parseExprStmt(t, "r = Math::max").(*ast.AssignExpr)
	ref, ok := assign.Value.(*ast.MethodRef)
	require.True(t, ok)
	assert.Equal(t, "max", ref.Method)
	assert.Equal(t, "Math", ref.Receiver.(*ast.Identifier).Name)

	// A parenthesized expression is not a lambda.
	assign = parseExprStmt(t, "z = (a + b) * c").(*ast.AssignExpr)
	assert.IsType(t, &ast.BinaryExpr{}, assign.Value)
}

func TestParseArrays(t *testing.T) {
	stmts := parseBody(t, "int[][] grid = new int[3][]; int[] xs = {1, 2, 3}; xs = new int[] {4};")
	require.Len(t, stmts, 3)

	grid := stmts[0].(*ast.VarDecl).Vars[0]
	assert.True(t, types.NewArray(types.PrimInt, 2).Equals(grid.Sym.Type))

	newGrid, ok := grid.Init.(*ast.NewArray)
	require.True(t, ok)
	assert.Len(t, newGrid.Sizes, 1)
	assert.Equal(t, 1, newGrid.ExtraRank)

	xs := stmts[1].(*ast.VarDecl).Vars[0]
	init, ok := xs.Init.(*ast.NewArray)
	require.True(t, ok)
	assert.True(t, init.HasInit)
	assert.Len(t, init.Elements, 3)
}

func TestParseRecoversAtStatements(t *testing.T) {
	unit := parseUnit(t, `
class T {
	void m() {
		int x = ;
		x = 1;
		y = (2 + ;
		z();
	}

	void n() {}
}`)

	errs := unit.Diagnostics.Items()
	require.Len(t, errs, 2)
	for _, d := range errs {
		assert.Equal(t, report.SyntaxError, d.Kind)
	}

	assert.Equal(t, 4, errs[0].Line())
	assert.Equal(t, 6, errs[1].Line())

	require.Len(t, unit.Classes, 1)
	require.Len(t, unit.Classes[0].Methods, 2)
	assert.Len(t, unit.Classes[0].Methods[0].Body.Stmts, 2)
}

func TestParseRecoversAtClasses(t *testing.T) {
	unit := parseUnit(t, "class 1 {} class B {}")

	assert.True(t, unit.Diagnostics.AnyErrors())
	require.Len(t, unit.Classes, 1)
	assert.Equal(t, "B", unit.Classes[0].Name)
}

func TestParseReportsLexicalErrors(t *testing.T) {
	unit := parseUnit(t, `
class T {
	void m() {
		char c = 'ab';
		double d = 1e+;
		int 12abc = 3;
		x = 1;
	}
}`)

	// Each malformed token is reported once and no syntax errors follow.
	diags := unit.Diagnostics.Items()
	require.Len(t, diags, 3)
	for i, d := range diags {
		assert.Equal(t, report.LexicalError, d.Kind)
		assert.Equal(t, i+4, d.Line())
	}

	stmts := unit.Classes[0].Methods[0].Body.Stmts
	require.Len(t, stmts, 3)

	vd, ok := stmts[0].(*ast.VarDecl)
	require.True(t, ok)
	assert.IsType(t, &ast.BadExpr{}, vd.Vars[0].Init)
	assert.IsType(t, &ast.ExprStmt{}, stmts[2])
}
