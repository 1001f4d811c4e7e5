package walk

import (
	"cayc/ast"
	"cayc/common"
	"cayc/report"
	"cayc/types"
)

// walkCondition walks the condition of a control flow statement.
func (w *Walker) walkCondition(cond ast.ASTExpr) ast.ASTExpr {
	w.walkExpr(cond)

	if !types.IsBool(cond.Type()) {
		w.error(report.TypeError, cond.Span(), "condition must be of type bool but got %s", cond.Type().Repr())
	}

	return cond
}

// walkIfStmt walks an if statement.
func (w *Walker) walkIfStmt(ifStmt *ast.IfStmt) bool {
	ifStmt.Condition = w.walkCondition(ifStmt.Condition)

	bodyTerminates := w.walkScopedStmt(ifStmt.Body)

	if ifStmt.Else == nil {
		return false
	}

	elseTerminates := w.walkScopedStmt(ifStmt.Else)

	return bodyTerminates && elseTerminates
}

// walkWhileLoop walks a while loop.
func (w *Walker) walkWhileLoop(loop *ast.WhileLoop) bool {
	loop.Condition = w.walkCondition(loop.Condition)

	w.checkLabel(loop.Label, loop.Span())
	bt := w.pushBranchTarget(loop.Label, true)
	defer w.popBranchTarget()

	w.walkScopedStmt(loop.Body)

	return isConstTrue(loop.Condition) && !bt.broken
}

// walkDoWhileLoop walks a do-while loop.
func (w *Walker) walkDoWhileLoop(loop *ast.DoWhileLoop) bool {
	w.checkLabel(loop.Label, loop.Span())
	bt := w.pushBranchTarget(loop.Label, true)

	bodyTerminates := w.walkScopedStmt(loop.Body)

	w.popBranchTarget()

	// The condition is outside the scope of the body.
	loop.Condition = w.walkCondition(loop.Condition)

	if bt.broken {
		return false
	}

	return isConstTrue(loop.Condition) || (bodyTerminates && !bt.continued)
}

// walkForLoop walks a C-style for loop.
func (w *Walker) walkForLoop(loop *ast.ForLoop) bool {
	// The loop header has its own scope.
	w.pushScope()
	defer w.popScope()

	for _, init := range loop.Init {
		w.walkStmt(init)
	}

	if loop.Condition != nil {
		loop.Condition = w.walkCondition(loop.Condition)
	}

	w.checkLabel(loop.Label, loop.Span())
	bt := w.pushBranchTarget(loop.Label, true)
	defer w.popBranchTarget()

	w.walkScopedStmt(loop.Body)

	for _, update := range loop.Update {
		w.walkExpr(update)
	}

	return (loop.Condition == nil || isConstTrue(loop.Condition)) && !bt.broken
}

// walkForEachLoop walks a for-each loop over an array.
func (w *Walker) walkForEachLoop(loop *ast.ForEachLoop) bool {
	w.walkExpr(loop.Sequence)

	at, ok := loop.Sequence.Type().(*types.ArrayType)
	if !ok {
		w.error(report.TypeError, loop.Sequence.Span(), "can only iterate over arrays, not %s", loop.Sequence.Type().Repr())
	}

	iv := loop.IterVar
	w.checkType(iv.Type, iv.DefSpan)

	if !types.Cast(at.IndexType(), iv.Type) {
		w.error(
			report.TypeError,
			iv.DefSpan,
			"cannot iterate over elements of type %s as %s",
			at.IndexType().Repr(),
			iv.Type.Repr(),
		)
	}

	w.pushScope()
	defer w.popScope()

	w.defineLocal(iv)

	// The hidden locals are never visible by name.
	loop.SeqSym = &common.Symbol{
		Name:    "$seq",
		DefSpan: loop.Sequence.Span(),
		Type:    at,
		Storage: common.StorageLocal,
	}

	loop.IndexSym = &common.Symbol{
		Name:    "$idx",
		DefSpan: loop.Sequence.Span(),
		Type:    types.PrimInt,
		Storage: common.StorageLocal,
	}

	w.checkLabel(loop.Label, loop.Span())
	w.pushBranchTarget(loop.Label, true)
	defer w.popBranchTarget()

	w.walkScopedStmt(loop.Body)

	return false
}

// -----------------------------------------------------------------------------

// walkSwitchStmt walks a switch statement.
func (w *Walker) walkSwitchStmt(sw *ast.SwitchStmt) bool {
	w.walkExpr(sw.Value)

	valueType := sw.Value.Type()
	if !types.IsPrim(valueType, types.PrimInt) && !types.IsPrim(valueType, types.PrimChar) {
		w.error(report.TypeError, sw.Value.Span(), "switch value must be of type int or char but got %s", valueType.Repr())
	}

	caseValues := make(map[int64]struct{})
	hasDefault := false
	for _, sc := range sw.Cases {
		if sc.IsDefault() {
			hasDefault = true
			continue
		}

		w.walkCaseValue(sc, valueType, caseValues)
	}

	w.checkLabel(sw.Label, sw.Span())
	bt := w.pushBranchTarget(sw.Label, false)
	defer w.popBranchTarget()

	// All the cases share a single scope.
	w.pushScope()
	defer w.popScope()

	lastTerminates := false
	for _, sc := range sw.Cases {
		// Empty cases fall through to the next case.
		if len(sc.Body) > 0 {
			lastTerminates = w.walkStmtList(sc.Body)
		}
	}

	return hasDefault && !bt.broken && lastTerminates
}

// walkCaseValue walks the value of a switch case.  It must be a constant of
// the switch value's type which no other case uses.
func (w *Walker) walkCaseValue(sc *ast.SwitchCase, valueType types.Type, caseValues map[int64]struct{}) {
	defer report.CatchErrors(w.unit.Diagnostics)

	w.walkExpr(sc.Value)
	sc.Value = w.coerce(sc.Value, valueType)

	value, ok := w.evalConst(sc.Value)
	if !ok {
		w.error(report.TypeError, sc.Value.Span(), "case value must be a constant expression")
	}

	if _, ok := caseValues[value]; ok {
		w.error(report.TypeError, sc.Value.Span(), "duplicate case value: %d", value)
	}

	caseValues[value] = struct{}{}
	sc.ConstValue = value
}
