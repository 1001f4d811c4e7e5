package walk

import (
	"cayc/ast"
	"cayc/common"
	"cayc/report"
	"cayc/types"
)

// isConstTrue returns whether expr is the literal `true`.
func isConstTrue(expr ast.ASTExpr) bool {
	if lit, ok := expr.(*ast.Literal); ok {
		return lit.Kind == ast.LitBool && lit.BoolValue
	}

	return false
}

// evalConst evaluates an integral constant expression: a literal or an
// operator or cast applied to constant expressions.  The expression must have
// already been walked.  The boolean is false if expr is not constant.
func (w *Walker) evalConst(expr ast.ASTExpr) (int64, bool) {
	switch v := expr.(type) {
	case *ast.Literal:
		if v.Kind == ast.LitInt || v.Kind == ast.LitChar {
			return v.IntValue, true
		}
	case *ast.CastExpr:
		if x, ok := w.evalConst(v.Src); ok {
			return truncConst(x, v.Type()), types.IsIntegral(v.Type())
		}
	case *ast.UnaryExpr:
		if x, ok := w.evalConst(v.Operand); ok {
			switch v.Op.Kind {
			case common.OP_NEG:
				return truncConst(-x, v.Type()), true
			case common.OP_COMPL:
				return truncConst(^x, v.Type()), true
			}
		}
	case *ast.BinaryExpr:
		if !types.IsIntegral(v.Type()) {
			return 0, false
		}

		x, ok := w.evalConst(v.Lhs)
		if !ok {
			return 0, false
		}

		y, ok := w.evalConst(v.Rhs)
		if !ok {
			return 0, false
		}

		return w.evalConstBinary(v, x, y)
	}

	return 0, false
}

// evalConstBinary applies a binary operator to two constant operands.
func (w *Walker) evalConstBinary(expr *ast.BinaryExpr, x, y int64) (int64, bool) {
	var result int64

	switch expr.Op.Kind {
	case common.OP_ADD:
		result = x + y
	case common.OP_SUB:
		result = x - y
	case common.OP_MUL:
		result = x * y
	case common.OP_DIV, common.OP_MOD:
		if y == 0 {
			w.error(report.TypeError, expr.Span(), "division by zero in constant expression")
		}

		if expr.Op.Kind == common.OP_DIV {
			result = x / y
		} else {
			result = x % y
		}
	case common.OP_BWAND:
		result = x & y
	case common.OP_BWOR:
		result = x | y
	case common.OP_BWXOR:
		result = x ^ y
	case common.OP_SHL:
		result = x << shiftCount(y, expr.Type())
	case common.OP_SHR:
		result = x >> shiftCount(y, expr.Type())
	case common.OP_USHR:
		if types.IsPrim(expr.Type(), types.PrimLong) {
			result = int64(uint64(x) >> shiftCount(y, expr.Type()))
		} else {
			result = int64(uint32(x) >> shiftCount(y, expr.Type()))
		}
	default:
		return 0, false
	}

	return truncConst(result, expr.Type()), true
}

// shiftCount masks a constant shift amount to the width of typ.
func shiftCount(y int64, typ types.Type) uint64 {
	if types.IsPrim(typ, types.PrimLong) {
		return uint64(y) & 63
	}

	return uint64(y) & 31
}

// truncConst wraps a constant value to the range of the integral type typ.
func truncConst(x int64, typ types.Type) int64 {
	switch {
	case types.IsPrim(typ, types.PrimInt):
		return int64(int32(x))
	case types.IsPrim(typ, types.PrimChar):
		return int64(uint8(x))
	}

	return x
}
