package generate

import (
	"cayc/ast"
	"cayc/report"

	"github.com/llir/llvm/ir/value"
)

// genBlock generates the statements of a block into the current basic block.
func (g *Generator) genBlock(block *ast.Block) {
	g.genStmtList(block.Stmts)
}

// genStmtList generates a list of statements.  Statements after a terminator
// are never reached and are not generated.  The locals they declare still get
// slots since the cases of a switch share a scope.
func (g *Generator) genStmtList(stmts []ast.ASTNode) {
	for _, stmt := range stmts {
		if !g.unreachable() {
			g.genStmt(stmt)
		} else if vd, ok := stmt.(*ast.VarDecl); ok {
			for _, lv := range vd.Vars {
				g.defineLocal(lv.Sym)
			}
		}
	}
}

// genStmt generates a single statement.
func (g *Generator) genStmt(stmt ast.ASTNode) {
	switch v := stmt.(type) {
	case *ast.Block:
		g.genBlock(v)
	case *ast.VarDecl:
		g.genVarDecl(v)
	case *ast.ExprStmt:
		g.genExprStmt(v.Expr)
	case *ast.ReturnStmt:
		g.genReturn(v)
	case *ast.BranchStmt:
		g.genBranch(v)
	case *ast.IfStmt:
		g.genIfStmt(v)
	case *ast.WhileLoop:
		g.genWhileLoop(v)
	case *ast.DoWhileLoop:
		g.genDoWhileLoop(v)
	case *ast.ForLoop:
		g.genForLoop(v)
	case *ast.ForEachLoop:
		g.genForEachLoop(v)
	case *ast.SwitchStmt:
		g.genSwitchStmt(v)
	case *ast.LabeledStmt:
		g.genStmt(v.Stmt)
	default:
		report.ICE("code generation for %T is not implemented", stmt)
	}
}

// genVarDecl generates a local variable declaration.  Each variable gets its
// own stack slot; variables without initializers are zeroed.
func (g *Generator) genVarDecl(vd *ast.VarDecl) {
	for _, lv := range vd.Vars {
		// The initializer is evaluated before the variable is in scope.
		var val value.Value
		if lv.Init != nil {
			val = g.genExpr(lv.Init)
		}

		slot := g.defineLocal(lv.Sym)
		if val == nil {
			val = zeroValue(slot.ElemType)
		}

		g.block.NewStore(val, slot)
	}
}

// genExprStmt generates an expression evaluated only for its side effects.
func (g *Generator) genExprStmt(expr ast.ASTExpr) {
	switch v := expr.(type) {
	case *ast.AssignExpr:
		g.genAssign(v)
	case *ast.IncDecExpr:
		g.genIncDec(v)
	default:
		g.genExpr(expr)
	}
}

// genReturn generates a return statement.
func (g *Generator) genReturn(rs *ast.ReturnStmt) {
	if rs.Value == nil {
		g.block.NewRet(nil)
	} else {
		g.block.NewRet(g.genExpr(rs.Value))
	}

	g.startDeadBlock()
}

// genBranch generates a break or continue statement.
func (g *Generator) genBranch(bs *ast.BranchStmt) {
	target := g.targets[bs.TargetIndex]

	if bs.IsContinue {
		g.block.NewBr(target.continueBlock)
	} else {
		g.block.NewBr(target.breakBlock)
	}

	g.startDeadBlock()
}
