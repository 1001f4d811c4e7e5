package generate

import (
	"cayc/ast"
	cytypes "cayc/types"

	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// arrayLength loads the length of an array from its header.
func (g *Generator) arrayLength(arr value.Value) value.Value {
	raw := g.block.NewBitCast(arr, types.I8Ptr)
	header := g.block.NewGetElementPtr(types.I8, raw, i64(-arrayHeaderSize))
	lenPtr := g.block.NewBitCast(header, types.NewPointer(types.I32))
	return g.block.NewLoad(types.I32, lenPtr)
}

// genBoundsCheck checks that 0 <= idx < length.  Generation continues in the
// block where the check passed.  Negative indices compare as large unsigned
// values so a single comparison covers both bounds.
func (g *Generator) genBoundsCheck(idx, length value.Value) {
	oobBlock := g.newBlock("oob")
	inbBlock := g.newBlock("inb")

	outOfBounds := g.block.NewICmp(enum.IPredUGE, idx, length)
	g.block.NewCondBr(outOfBounds, oobBlock, inbBlock)

	g.setBlock(oobBlock)
	g.callRuntime(rtBoundsFail, idx, length)
	g.block.NewUnreachable()

	g.setBlock(inbBlock)
}

// genElemPtr returns a pointer to the element of an array access.
func (g *Generator) genElemPtr(aa *ast.ArrayAccess) value.Value {
	arr := g.genExpr(aa.Array)
	idx := g.genExpr(aa.Index)

	if aa.BoundsCheck {
		g.genBoundsCheck(idx, g.arrayLength(arr))
	}

	return g.block.NewGetElementPtr(g.convType(aa.Type()), arr, idx)
}

// -----------------------------------------------------------------------------

// allocArray allocates a zeroed array of count elements of type elemType.
func (g *Generator) allocArray(count value.Value, elemType types.Type) value.Value {
	raw := g.callRuntime(rtArrayAlloc, g.block.NewSExt(count, types.I64), i64(sizeOf(elemType)))
	return g.block.NewBitCast(raw, types.NewPointer(elemType))
}

// genNewArray generates an array creation.
func (g *Generator) genNewArray(na *ast.NewArray) value.Value {
	at := na.Type().(*cytypes.ArrayType)

	if na.HasInit {
		elemType := g.convType(at.IndexType())
		arr := g.allocArray(i32(int64(len(na.Elements))), elemType)

		for i, elem := range na.Elements {
			val := g.genExpr(elem)
			g.block.NewStore(val, g.block.NewGetElementPtr(elemType, arr, i32(int64(i))))
		}

		return arr
	}

	// All dimensions are evaluated before anything is allocated.
	sizes := make([]value.Value, len(na.Sizes))
	for i, size := range na.Sizes {
		sizes[i] = g.genExpr(size)
	}

	return g.genSizedArray(at, sizes)
}

// genSizedArray allocates an array whose outer dimensions have the given
// sizes.  The inner arrays of each sized dimension are allocated in a loop;
// unsized dimensions are left null.
func (g *Generator) genSizedArray(at *cytypes.ArrayType, sizes []value.Value) value.Value {
	elemType := g.convType(at.IndexType())
	arr := g.allocArray(sizes[0], elemType)

	if len(sizes) == 1 {
		return arr
	}

	inner := at.IndexType().(*cytypes.ArrayType)

	idxSlot := g.newSlot(types.I32, "dim")
	g.block.NewStore(i32(0), idxSlot)

	condBlock := g.newBlock("cond")
	bodyBlock := g.newBlock("body")
	updateBlock := g.newBlock("update")
	exitBlock := g.newBlock("exit")

	g.block.NewBr(condBlock)

	g.setBlock(condBlock)
	idx := g.block.NewLoad(types.I32, idxSlot)
	g.block.NewCondBr(g.block.NewICmp(enum.IPredSLT, idx, sizes[0]), bodyBlock, exitBlock)

	g.setBlock(bodyBlock)
	sub := g.genSizedArray(inner, sizes[1:])
	g.block.NewStore(sub, g.block.NewGetElementPtr(elemType, arr, idx))
	g.block.NewBr(updateBlock)

	g.setBlock(updateBlock)
	next := g.block.NewAdd(g.block.NewLoad(types.I32, idxSlot), i32(1))
	g.block.NewStore(next, idxSlot)
	g.block.NewBr(condBlock)

	g.setBlock(exitBlock)
	return arr
}
