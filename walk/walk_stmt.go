package walk

import (
	"cayc/ast"
	"cayc/report"
	"cayc/types"
	"cayc/util"
)

// walkBlock walks a block in a new scope.  It returns whether the block
// completes abruptly: whether control can never reach its end.
func (w *Walker) walkBlock(block *ast.Block) bool {
	w.pushScope()
	defer w.popScope()

	return w.walkStmtList(block.Stmts)
}

// walkStmtList walks a list of statements in the current scope.
func (w *Walker) walkStmtList(stmts []ast.ASTNode) bool {
	terminates, warned := false, false
	for _, stmt := range stmts {
		if terminates && !warned {
			// Only the first unreachable statement is reported.
			w.warn(report.ControlFlowError, stmt.Span(), "unreachable code")
			warned = true
		}

		if w.walkStmtRecover(stmt) {
			terminates = true
		}
	}

	return terminates
}

// walkStmtRecover walks a statement and catches any error that occurs while
// walking it so that walking can continue with the next statement.
func (w *Walker) walkStmtRecover(stmt ast.ASTNode) (terminates bool) {
	scopeDepth := len(w.localScopes)
	targetDepth := len(w.branchTargets)
	labelDepth := len(w.plainLabels)

	defer report.CatchErrors(w.unit.Diagnostics)

	// Unwind any scopes and labels left by an aborted statement.
	defer func() {
		w.localScopes = w.localScopes[:scopeDepth]
		w.branchTargets = w.branchTargets[:targetDepth]
		w.plainLabels = w.plainLabels[:labelDepth]
	}()

	return w.walkStmt(stmt)
}

// walkStmt walks a statement.  It returns whether the statement completes
// abruptly.
func (w *Walker) walkStmt(stmt ast.ASTNode) bool {
	switch v := stmt.(type) {
	case *ast.Block:
		return w.walkBlock(v)
	case *ast.VarDecl:
		w.walkVarDecl(v)
	case *ast.ExprStmt:
		w.walkExprStmt(v)
	case *ast.ReturnStmt:
		w.walkReturnStmt(v)
		return true
	case *ast.BranchStmt:
		w.walkBranchStmt(v)
		return true
	case *ast.IfStmt:
		return w.walkIfStmt(v)
	case *ast.WhileLoop:
		return w.walkWhileLoop(v)
	case *ast.DoWhileLoop:
		return w.walkDoWhileLoop(v)
	case *ast.ForLoop:
		return w.walkForLoop(v)
	case *ast.ForEachLoop:
		return w.walkForEachLoop(v)
	case *ast.SwitchStmt:
		return w.walkSwitchStmt(v)
	case *ast.LabeledStmt:
		return w.walkLabeledStmt(v)
	default:
		report.ICE("walking not implemented for statement %T", stmt)
	}

	return false
}

// walkScopedStmt walks the body of a control flow statement in its own scope.
func (w *Walker) walkScopedStmt(stmt ast.ASTNode) bool {
	w.pushScope()
	defer w.popScope()

	if _, ok := stmt.(*ast.VarDecl); ok {
		w.recError(report.SyntaxError, stmt.Span(), "variable declaration is not allowed here")
	}

	return w.walkStmtRecover(stmt)
}

// -----------------------------------------------------------------------------

// walkVarDecl walks a local variable declaration.
func (w *Walker) walkVarDecl(vd *ast.VarDecl) {
	for _, lv := range vd.Vars {
		w.walkLocalVar(lv)
	}
}

// walkLocalVar walks a single local variable.  The variable is defined even if
// its initializer contains errors so that later uses do not cascade.
func (w *Walker) walkLocalVar(lv *ast.LocalVar) {
	defer report.CatchErrors(w.unit.Diagnostics)

	// Locals are defined after their initializer: `int x = x;` is invalid.
	defer w.defineLocal(lv.Sym)

	if types.IsVoid(lv.Sym.Type) {
		w.error(report.TypeError, lv.Sym.DefSpan, "variable `%s` cannot have type void", lv.Sym.Name)
	}

	w.checkType(lv.Sym.Type, lv.Sym.DefSpan)

	if lv.Init != nil {
		lv.Init = w.walkInitializer(lv.Init, lv.Sym.Type)
	}
}

// walkExprStmt walks an expression statement.
func (w *Walker) walkExprStmt(es *ast.ExprStmt) {
	switch es.Expr.(type) {
	case *ast.AssignExpr, *ast.IncDecExpr, *ast.CallExpr, *ast.NewExpr:
	default:
		w.recError(report.SyntaxError, es.Span(), "expression is not a statement")
	}

	w.walkExpr(es.Expr)
}

// walkReturnStmt walks a return statement.
func (w *Walker) walkReturnStmt(rs *ast.ReturnStmt) {
	// Lambda bodies have no known return type: their values are only checked.
	if w.inLambda {
		if rs.Value != nil {
			w.walkExpr(rs.Value)
		}

		return
	}

	if w.enclosingReturnType == nil {
		w.error(report.ControlFlowError, rs.Span(), "return outside of a method")
	}

	if rs.Value == nil {
		if !types.IsVoid(w.enclosingReturnType) {
			w.error(report.TypeError, rs.Span(), "missing return value: method must return %s", w.enclosingReturnType.Repr())
		}

		return
	}

	if types.IsVoid(w.enclosingReturnType) {
		w.error(report.TypeError, rs.Value.Span(), "cannot return a value from a void method")
	}

	w.walkExpr(rs.Value)
	rs.Value = w.coerce(rs.Value, w.enclosingReturnType)
}

// -----------------------------------------------------------------------------

// walkBranchStmt walks a break or continue statement and resolves its target.
func (w *Walker) walkBranchStmt(bs *ast.BranchStmt) {
	kw := "break"
	if bs.IsContinue {
		kw = "continue"
	}

	if bs.Label == "" {
		for i := len(w.branchTargets) - 1; i > -1; i-- {
			if bt := w.branchTargets[i]; bt.isLoop || !bs.IsContinue {
				w.resolveBranch(bs, i)
				return
			}
		}

		if bs.IsContinue {
			w.error(report.ControlFlowError, bs.Span(), "continue outside of a loop")
		}

		w.error(report.ControlFlowError, bs.Span(), "break outside of a loop or switch")
	}

	for i := len(w.branchTargets) - 1; i > -1; i-- {
		if bt := w.branchTargets[i]; bt.label == bs.Label {
			if bs.IsContinue && !bt.isLoop {
				w.error(report.ControlFlowError, bs.LabelSpan, "cannot continue `%s`: label does not name a loop", bs.Label)
			}

			w.resolveBranch(bs, i)
			return
		}
	}

	if util.Contains(w.plainLabels, bs.Label) {
		w.error(report.ControlFlowError, bs.LabelSpan, "cannot %s `%s`: label does not name a loop or switch", kw, bs.Label)
	}

	w.error(report.ControlFlowError, bs.LabelSpan, "undefined label: `%s`", bs.Label)
}

// resolveBranch marks the branch target at index i as targeted by bs.
func (w *Walker) resolveBranch(bs *ast.BranchStmt, i int) {
	bs.TargetIndex = i

	if bs.IsContinue {
		w.branchTargets[i].continued = true
	} else {
		w.branchTargets[i].broken = true
	}
}

// walkLabeledStmt walks a labeled statement which is not a loop or switch.
func (w *Walker) walkLabeledStmt(ls *ast.LabeledStmt) bool {
	w.checkLabel(ls.Label, ls.LabelSpan)

	w.plainLabels = append(w.plainLabels, ls.Label)
	defer func() {
		w.plainLabels = w.plainLabels[:len(w.plainLabels)-1]
	}()

	return w.walkStmt(ls.Stmt)
}

// checkLabel checks that a label does not shadow an enclosing label.
func (w *Walker) checkLabel(label string, span *report.TextSpan) {
	if label == "" {
		return
	}

	for _, bt := range w.branchTargets {
		if bt.label == label {
			w.recError(report.ControlFlowError, span, "label `%s` is already in use", label)
			return
		}
	}

	if util.Contains(w.plainLabels, label) {
		w.recError(report.ControlFlowError, span, "label `%s` is already in use", label)
	}
}
