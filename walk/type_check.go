package walk

import (
	"cayc/ast"
	"cayc/report"
	"cayc/types"
)

// coerce converts expr to dest.  If the types are equal, expr is returned
// unchanged.  A `null` literal and an integral or floating literal whose value
// fits a narrower destination are re-typed.  Any other implicit conversion is
// made explicit by wrapping expr in an implicit cast.  If expr does not
// convert to dest, an error is reported.
func (w *Walker) coerce(expr ast.ASTExpr, dest types.Type) ast.ASTExpr {
	src := expr.Type()
	w.checkValue(expr)

	if src.Equals(dest) {
		return expr
	}

	if lit, ok := expr.(*ast.Literal); ok {
		if lit.Kind == ast.LitNull && types.IsReference(dest) {
			lit.NodeType = dest
			return lit
		}

		if !types.Cast(src, dest) && narrowLiteral(lit, dest) {
			return lit
		}
	}

	if types.Cast(src, dest) {
		return &ast.CastExpr{
			ExprBase: ast.NewTypedExprBase(expr.Span(), dest),
			Src:      expr,
			Implicit: true,
		}
	}

	w.error(report.TypeError, expr.Span(), "cannot convert %s to %s", src.Repr(), dest.Repr())
	return nil
}

// narrowLiteral re-types a numeric literal to the narrower type dest of the
// same family if its value fits in dest.  It returns whether the literal was
// re-typed.
func narrowLiteral(lit *ast.Literal, dest types.Type) bool {
	switch lit.Kind {
	case ast.LitInt:
		if types.IsPrim(lit.Type(), types.PrimInt) && types.IsIntegral(dest) && types.IntLiteralFits(lit.IntValue, dest) {
			lit.NodeType = dest
			return true
		}
	case ast.LitFloat:
		if types.IsPrim(lit.Type(), types.PrimDouble) && types.FloatLiteralFits(lit.FloatValue, dest) {
			lit.NodeType = dest
			return true
		}
	}

	return false
}

// checkValue checks that expr produces a value.
func (w *Walker) checkValue(expr ast.ASTExpr) {
	if types.IsVoid(expr.Type()) {
		w.error(report.TypeError, expr.Span(), "void value cannot be used in an expression")
	}
}

// -----------------------------------------------------------------------------

// walkInitializer walks the initializer of a variable or field of type dest.
// Bare array initializers take their type from dest.
func (w *Walker) walkInitializer(expr ast.ASTExpr, dest types.Type) ast.ASTExpr {
	if na, ok := expr.(*ast.NewArray); ok && na.HasInit && na.ElemType == nil {
		at, ok := dest.(*types.ArrayType)
		if !ok {
			w.error(report.TypeError, na.Span(), "array initializer cannot be used to initialize a value of type %s", dest.Repr())
		}

		w.walkArrayElements(na, at)
		return na
	}

	w.walkExpr(expr)
	return w.coerce(expr, dest)
}

// walkArrayElements walks the elements of an array initializer of type at.
func (w *Walker) walkArrayElements(na *ast.NewArray, at *types.ArrayType) {
	na.NodeType = at

	elemType := at.IndexType()
	for i, elem := range na.Elements {
		na.Elements[i] = w.walkInitializer(elem, elemType)
	}
}

// -----------------------------------------------------------------------------

// walkCastExpr walks an explicit cast.
func (w *Walker) walkCastExpr(ce *ast.CastExpr) {
	w.walkExpr(ce.Src)
	w.checkValue(ce.Src)
	w.checkType(ce.Type(), ce.Span())

	if !types.CanCastExplicit(ce.Src.Type(), ce.Type()) {
		w.error(report.TypeError, ce.Span(), "cannot cast %s to %s", ce.Src.Type().Repr(), ce.Type().Repr())
	}
}

// walkTernaryExpr walks a conditional expression.  The result type is the
// type both branches convert to.
func (w *Walker) walkTernaryExpr(te *ast.TernaryExpr) {
	te.Condition = w.walkCondition(te.Condition)

	w.walkExpr(te.Then)
	w.checkValue(te.Then)

	w.walkExpr(te.Else)
	w.checkValue(te.Else)

	thenType, elseType := te.Then.Type(), te.Else.Type()

	var resultType types.Type
	switch {
	case thenType.Equals(elseType):
		resultType = thenType
	case types.Cast(thenType, elseType):
		resultType = elseType
	case types.Cast(elseType, thenType):
		resultType = thenType
	default:
		w.error(
			report.TypeError,
			te.Span(),
			"branches of conditional expression have incompatible types: %s and %s",
			thenType.Repr(),
			elseType.Repr(),
		)
	}

	te.Then = w.coerce(te.Then, resultType)
	te.Else = w.coerce(te.Else, resultType)
	te.NodeType = resultType
}
