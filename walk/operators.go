package walk

import (
	"cayc/ast"
	"cayc/common"
	"cayc/report"
	"cayc/types"
)

// walkBinaryExpr walks a binary operator application.
func (w *Walker) walkBinaryExpr(be *ast.BinaryExpr) {
	w.walkExpr(be.Lhs)
	w.walkExpr(be.Rhs)

	be.NodeType, be.IsConcat = w.checkBinaryOp(be.Op, &be.Lhs, &be.Rhs)
}

// checkBinaryOp checks the application of the binary operator op to the
// operands lhs and rhs, and returns its result type and whether it is string
// concatenation.  The operands are coerced to the types the operator is
// computed in.
func (w *Walker) checkBinaryOp(op *common.AppliedOperator, lhs, rhs *ast.ASTExpr) (types.Type, bool) {
	w.checkValue(*lhs)
	w.checkValue(*rhs)

	lt, rt := (*lhs).Type(), (*rhs).Type()

	switch {
	case op.Kind == common.OP_LAND || op.Kind == common.OP_LOR:
		if !types.IsBool(lt) || !types.IsBool(rt) {
			w.operatorError(op, lt, rt)
		}

		return types.PrimBool, false
	case op.Kind == common.OP_ADD && (types.IsString(lt) || types.IsString(rt)):
		*lhs = w.checkConcatOperand(op, *lhs)
		*rhs = w.checkConcatOperand(op, *rhs)

		return types.String, true
	case op.Kind == common.OP_EQ || op.Kind == common.OP_NEQ:
		if types.IsBool(lt) && types.IsBool(rt) {
			return types.PrimBool, false
		}

		if types.IsReference(lt) && types.IsReference(rt) {
			if types.Cast(rt, lt) {
				*rhs = w.coerce(*rhs, lt)
			} else if types.Cast(lt, rt) {
				*lhs = w.coerce(*lhs, rt)
			} else {
				w.operatorError(op, lt, rt)
			}

			return types.PrimBool, false
		}

		w.promoteOperands(op, lhs, rhs)
		return types.PrimBool, false
	case common.IsComparison(op.Kind):
		w.promoteOperands(op, lhs, rhs)
		return types.PrimBool, false
	case common.IsShift(op.Kind):
		// Shift operands are promoted separately: the result has the type of
		// the left operand.
		lpt, lok := types.PromoteUnary(lt)
		rpt, rok := types.PromoteUnary(rt)
		if !lok || !rok || !lpt.IsIntegral() || !rpt.IsIntegral() {
			w.operatorError(op, lt, rt)
		}

		*lhs = w.coerce(*lhs, lpt)
		*rhs = w.coerce(*rhs, rpt)
		return lpt, false
	case common.IsBitwise(op.Kind):
		if types.IsBool(lt) && types.IsBool(rt) {
			return types.PrimBool, false
		}

		if !types.IsIntegral(lt) || !types.IsIntegral(rt) {
			w.operatorError(op, lt, rt)
		}

		return w.promoteOperands(op, lhs, rhs), false
	default:
		return w.promoteOperands(op, lhs, rhs), false
	}
}

// promoteOperands coerces both operands of a numeric operator to their
// promoted type and returns it.
func (w *Walker) promoteOperands(op *common.AppliedOperator, lhs, rhs *ast.ASTExpr) types.PrimitiveType {
	lt, rt := (*lhs).Type(), (*rhs).Type()

	pt, ok := types.Promote(lt, rt)
	if !ok {
		w.operatorError(op, lt, rt)
	}

	*lhs = w.coerce(*lhs, pt)
	*rhs = w.coerce(*rhs, pt)
	return pt
}

// checkConcatOperand checks an operand of string concatenation.  Primitive
// operands are converted to strings when the concatenation is generated.
func (w *Walker) checkConcatOperand(op *common.AppliedOperator, operand ast.ASTExpr) ast.ASTExpr {
	switch operand.Type().(type) {
	case types.StringType, types.PrimitiveType:
		return operand
	case types.NullType:
		return w.coerce(operand, types.String)
	}

	w.error(report.TypeError, operand.Span(), "operator `%s` cannot concatenate a value of type %s", op.Name, operand.Type().Repr())
	return nil
}

// operatorError reports an invalid application of a binary operator.
func (w *Walker) operatorError(op *common.AppliedOperator, lt, rt types.Type) {
	w.error(
		report.TypeError,
		op.Span,
		"operator `%s` cannot be applied to %s and %s",
		op.Name,
		lt.Repr(),
		rt.Repr(),
	)
}

// -----------------------------------------------------------------------------

// walkUnaryExpr walks a unary operator application.
func (w *Walker) walkUnaryExpr(ue *ast.UnaryExpr) {
	w.walkExpr(ue.Operand)
	w.checkValue(ue.Operand)

	operandType := ue.Operand.Type()

	switch ue.Op.Kind {
	case common.OP_NOT:
		if !types.IsBool(operandType) {
			w.unaryOperatorError(ue.Op, operandType)
		}

		ue.NodeType = types.PrimBool
	case common.OP_NEG, common.OP_COMPL:
		pt, ok := types.PromoteUnary(operandType)
		if !ok || (ue.Op.Kind == common.OP_COMPL && !pt.IsIntegral()) {
			w.unaryOperatorError(ue.Op, operandType)
		}

		ue.Operand = w.coerce(ue.Operand, pt)
		ue.NodeType = pt
	default:
		report.ICE("invalid unary operator kind: %d", ue.Op.Kind)
	}
}

// unaryOperatorError reports an invalid application of a unary operator.
func (w *Walker) unaryOperatorError(op *common.AppliedOperator, operandType types.Type) {
	w.error(report.TypeError, op.Span, "operator `%s` cannot be applied to %s", op.Name, operandType.Repr())
}

// walkIncDecExpr walks an increment or decrement.
func (w *Walker) walkIncDecExpr(incdec *ast.IncDecExpr) {
	w.walkExpr(incdec.Operand)
	w.checkAssignable(incdec.Operand)

	if !types.IsNumeric(incdec.Operand.Type()) {
		opName := "++"
		if !incdec.IsInc {
			opName = "--"
		}

		w.error(report.TypeError, incdec.Span(), "operator `%s` cannot be applied to %s", opName, incdec.Operand.Type().Repr())
	}

	incdec.NodeType = incdec.Operand.Type()
}

// -----------------------------------------------------------------------------

// walkAssignExpr walks an assignment or compound assignment.
func (w *Walker) walkAssignExpr(ae *ast.AssignExpr) {
	w.walkExpr(ae.Target)
	w.checkAssignable(ae.Target)

	targetType := ae.Target.Type()
	ae.NodeType = targetType

	w.walkExpr(ae.Value)

	if ae.CompoundOp == nil {
		ae.Value = w.coerce(ae.Value, targetType)
		return
	}

	// The target is evaluated once: it is never rewritten by the check.
	target := ae.Target
	opType, isConcat := w.checkBinaryOp(ae.CompoundOp, &target, &ae.Value)

	if isConcat {
		if !types.IsString(targetType) {
			w.error(report.TypeError, ae.Span(), "cannot assign string to %s", targetType.Repr())
		}

		ae.IsConcat = true
	} else if !types.CanCastExplicit(opType, targetType) {
		w.error(report.TypeError, ae.Span(), "cannot assign %s to %s", opType.Repr(), targetType.Repr())
	}

	ae.OpType = opType
}

// checkAssignable checks that expr can be assigned to.
func (w *Walker) checkAssignable(expr ast.ASTExpr) {
	if expr.Category() != ast.LValue {
		w.error(report.TypeError, expr.Span(), "cannot assign to an rvalue")
	}

	switch v := expr.(type) {
	case *ast.Identifier:
		if !v.Sym.Constant {
			return
		}

		if v.Sym.IsField() {
			w.checkFinalField(w.class.Fields[v.Sym.Name], expr.Span())
		} else {
			w.error(report.TypeError, expr.Span(), "cannot assign to final variable `%s`", v.Name)
		}
	case *ast.FieldAccess:
		if v.Field != nil {
			w.checkFinalField(v.Field, expr.Span())
		}
	}
}

// checkFinalField checks an assignment to a field.  Final instance fields may
// only be assigned by the constructors of their class.
func (w *Walker) checkFinalField(fi *common.FieldInfo, span *report.TextSpan) {
	if !fi.Final {
		return
	}

	if !fi.Static && w.method != nil && w.method.IsCtor && fi.Class == w.class.Name {
		return
	}

	w.error(report.TypeError, span, "cannot assign to final field `%s`", fi.Name)
}
