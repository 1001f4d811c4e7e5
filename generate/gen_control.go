package generate

import (
	"cayc/ast"
	cytypes "cayc/types"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
)

// genIfStmt generates an if statement.
func (g *Generator) genIfStmt(is *ast.IfStmt) {
	cond := g.genExpr(is.Condition)

	thenBlock := g.newBlock("then")
	endBlock := g.newBlock("end")

	if is.Else == nil {
		g.block.NewCondBr(cond, thenBlock, endBlock)

		g.setBlock(thenBlock)
		g.genStmt(is.Body)
		g.branchTo(endBlock)
	} else {
		elseBlock := g.newBlock("else")
		g.block.NewCondBr(cond, thenBlock, elseBlock)

		g.setBlock(thenBlock)
		g.genStmt(is.Body)
		g.branchTo(endBlock)

		g.setBlock(elseBlock)
		g.genStmt(is.Else)
		g.branchTo(endBlock)
	}

	g.setBlock(endBlock)
}

// -----------------------------------------------------------------------------

// genWhileLoop generates a while loop.
func (g *Generator) genWhileLoop(loop *ast.WhileLoop) {
	condBlock := g.newBlock("cond")
	bodyBlock := g.newBlock("body")
	exitBlock := g.newBlock("exit")

	g.block.NewBr(condBlock)

	g.setBlock(condBlock)
	g.block.NewCondBr(g.genExpr(loop.Condition), bodyBlock, exitBlock)

	g.pushTarget(exitBlock, condBlock)
	g.setBlock(bodyBlock)
	g.genStmt(loop.Body)
	g.branchTo(condBlock)
	g.popTarget()

	g.setBlock(exitBlock)
}

// genDoWhileLoop generates a do-while loop.  The condition is evaluated after
// each iteration.
func (g *Generator) genDoWhileLoop(loop *ast.DoWhileLoop) {
	bodyBlock := g.newBlock("body")
	condBlock := g.newBlock("cond")
	exitBlock := g.newBlock("exit")

	g.block.NewBr(bodyBlock)

	g.pushTarget(exitBlock, condBlock)
	g.setBlock(bodyBlock)
	g.genStmt(loop.Body)
	g.branchTo(condBlock)
	g.popTarget()

	g.setBlock(condBlock)
	g.block.NewCondBr(g.genExpr(loop.Condition), bodyBlock, exitBlock)

	g.setBlock(exitBlock)
}

// genForLoop generates a C-style for loop.  A missing condition loops forever.
func (g *Generator) genForLoop(loop *ast.ForLoop) {
	for _, init := range loop.Init {
		g.genStmt(init)
	}

	condBlock := g.newBlock("cond")
	bodyBlock := g.newBlock("body")
	updateBlock := g.newBlock("update")
	exitBlock := g.newBlock("exit")

	g.block.NewBr(condBlock)

	g.setBlock(condBlock)
	if loop.Condition == nil {
		g.block.NewBr(bodyBlock)
	} else {
		g.block.NewCondBr(g.genExpr(loop.Condition), bodyBlock, exitBlock)
	}

	g.pushTarget(exitBlock, updateBlock)
	g.setBlock(bodyBlock)
	g.genStmt(loop.Body)
	g.branchTo(updateBlock)
	g.popTarget()

	g.setBlock(updateBlock)
	for _, update := range loop.Update {
		g.genExprStmt(update)
	}
	g.block.NewBr(condBlock)

	g.setBlock(exitBlock)
}

// genForEachLoop generates a for-each loop over an array.  The sequence is
// evaluated once and iterated with a hidden index counter.
func (g *Generator) genForEachLoop(loop *ast.ForEachLoop) {
	seq := g.genExpr(loop.Sequence)
	seqSlot := g.defineLocal(loop.SeqSym)
	g.block.NewStore(seq, seqSlot)

	idxSlot := g.defineLocal(loop.IndexSym)
	g.block.NewStore(i32(0), idxSlot)

	iterSlot := g.defineLocal(loop.IterVar)

	condBlock := g.newBlock("cond")
	bodyBlock := g.newBlock("body")
	updateBlock := g.newBlock("update")
	exitBlock := g.newBlock("exit")

	g.block.NewBr(condBlock)

	g.setBlock(condBlock)
	seq = g.block.NewLoad(seqSlot.ElemType, seqSlot)
	idx := g.block.NewLoad(idxSlot.ElemType, idxSlot)
	g.block.NewCondBr(g.block.NewICmp(enum.IPredSLT, idx, g.arrayLength(seq)), bodyBlock, exitBlock)

	g.setBlock(bodyBlock)
	at := loop.Sequence.Type().(*cytypes.ArrayType)
	elemType := g.convType(at.IndexType())
	elem := g.block.NewLoad(elemType, g.block.NewGetElementPtr(elemType, seq, idx))
	g.block.NewStore(g.genConvert(elem, at.IndexType(), loop.IterVar.Type), iterSlot)

	g.pushTarget(exitBlock, updateBlock)
	g.genStmt(loop.Body)
	g.branchTo(updateBlock)
	g.popTarget()

	g.setBlock(updateBlock)
	idx = g.block.NewLoad(idxSlot.ElemType, idxSlot)
	g.block.NewStore(g.block.NewAdd(idx, i32(1)), idxSlot)
	g.block.NewBr(condBlock)

	g.setBlock(exitBlock)
}

// -----------------------------------------------------------------------------

// genSwitchStmt generates a switch statement.  Each case that does not exit
// falls through into the block of the case after it.
func (g *Generator) genSwitchStmt(sw *ast.SwitchStmt) {
	val := g.genExpr(sw.Value)
	valType := g.convType(sw.Value.Type())

	exitBlock := g.newBlock("exit")

	caseBlocks := make([]*ir.Block, len(sw.Cases))
	var defaultBlock *ir.Block
	var cases []*ir.Case
	for i, sc := range sw.Cases {
		if sc.IsDefault() {
			caseBlocks[i] = g.newBlock("default")
			defaultBlock = caseBlocks[i]
		} else {
			caseBlocks[i] = g.newBlock("case")
			cases = append(cases, ir.NewCase(constInt(valType, truncChar(sw.Value.Type(), sc.ConstValue)), caseBlocks[i]))
		}
	}

	if defaultBlock == nil {
		defaultBlock = exitBlock
	}

	g.block.NewSwitch(val, defaultBlock, cases...)

	g.pushTarget(exitBlock, nil)
	for i, sc := range sw.Cases {
		g.setBlock(caseBlocks[i])
		g.genStmtList(sc.Body)

		if i < len(sw.Cases)-1 {
			g.branchTo(caseBlocks[i+1])
		} else {
			g.branchTo(exitBlock)
		}
	}
	g.popTarget()

	g.setBlock(exitBlock)
}

// truncChar converts a char constant to its signed 8-bit representation so
// that it is a valid i8 immediate.  Other constants are returned unchanged.
func truncChar(typ cytypes.Type, x int64) int64 {
	if cytypes.IsPrim(typ, cytypes.PrimChar) {
		return int64(int8(x))
	}

	return x
}
