package generate

import (
	"cayc/ast"
	"cayc/common"
	"cayc/report"
	cytypes "cayc/types"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// genExpr generates an expression and returns its value.  The value of a call
// to a void method is the call instruction itself.
func (g *Generator) genExpr(expr ast.ASTExpr) value.Value {
	switch v := expr.(type) {
	case *ast.Literal:
		return g.genLiteral(v)
	case *ast.Identifier:
		return g.genLoad(expr)
	case *ast.This:
		return g.this
	case *ast.BinaryExpr:
		return g.genBinaryExpr(v)
	case *ast.UnaryExpr:
		return g.genUnaryExpr(v)
	case *ast.IncDecExpr:
		return g.genIncDec(v)
	case *ast.AssignExpr:
		return g.genAssign(v)
	case *ast.TernaryExpr:
		return g.genTernaryExpr(v)
	case *ast.CastExpr:
		return g.genConvert(g.genExpr(v.Src), v.Src.Type(), v.Type())
	case *ast.CallExpr:
		return g.genCall(v)
	case *ast.NewExpr:
		return g.genNewExpr(v)
	case *ast.FieldAccess:
		if v.IsArrayLength {
			return g.arrayLength(g.genExpr(v.Receiver))
		}

		return g.genLoad(expr)
	case *ast.ArrayAccess:
		return g.genLoad(expr)
	case *ast.NewArray:
		return g.genNewArray(v)
	}

	report.ICE("code generation for %T is not implemented", expr)
	return nil
}

// genLiteral generates a literal as an immediate constant.  String literals
// are pointers to interned constants.
func (g *Generator) genLiteral(lit *ast.Literal) value.Value {
	switch lit.Kind {
	case ast.LitString:
		return g.genStringConst(lit.StrValue)
	case ast.LitNull:
		return constant.NewNull(g.convType(lit.Type()).(*types.PointerType))
	case ast.LitBool:
		return constant.NewBool(lit.BoolValue)
	case ast.LitFloat:
		return floatConst(lit.Type(), lit.FloatValue)
	}

	// Int and char literals may have been narrowed or widened to any numeric
	// type during analysis.
	if pt := lit.Type().(cytypes.PrimitiveType); pt.IsFloating() {
		return floatConst(pt, float64(lit.IntValue))
	}

	return constInt(g.convType(lit.Type()), truncChar(lit.Type(), lit.IntValue))
}

// floatConst returns a floating-point constant of type typ.
func floatConst(typ cytypes.Type, x float64) constant.Constant {
	if cytypes.IsPrim(typ, cytypes.PrimFloat) {
		return constant.NewFloat(types.Float, float64(float32(x)))
	}

	return constant.NewFloat(types.Double, x)
}

// -----------------------------------------------------------------------------

// genLoad loads the value stored at an lvalue.
func (g *Generator) genLoad(expr ast.ASTExpr) value.Value {
	if id, ok := expr.(*ast.Identifier); ok && id.ClassName != "" {
		report.ICE("class name `%s` used as a value", id.ClassName)
	}

	ptr := g.genLValue(expr)
	return g.block.NewLoad(g.convType(expr.Type()), ptr)
}

// genLValue returns a pointer to the storage of an lvalue.
func (g *Generator) genLValue(expr ast.ASTExpr) value.Value {
	switch v := expr.(type) {
	case *ast.Identifier:
		switch v.Sym.Storage {
		case common.StorageLocal, common.StorageParam:
			return g.lookupSlot(v.Sym)
		default:
			return g.fieldPtr(g.symField(v.Sym), g.this)
		}
	case *ast.FieldAccess:
		if v.Field.Static {
			g.genIgnoredReceiver(v.Receiver)
			return g.fieldPtr(v.Field, nil)
		}

		return g.fieldPtr(v.Field, g.genExpr(v.Receiver))
	case *ast.ArrayAccess:
		return g.genElemPtr(v)
	}

	report.ICE("%T is not an lvalue", expr)
	return nil
}

// symField returns the field a field symbol refers to.
func (g *Generator) symField(sym *common.Symbol) *common.FieldInfo {
	if ci, ok := g.prog.LookupClass(sym.Owner); ok {
		if fi, ok := ci.Fields[sym.Name]; ok {
			return fi
		}
	}

	report.ICE("symbol `%s` does not refer to a field of `%s`", sym.Name, sym.Owner)
	return nil
}

// fieldPtr returns a pointer to a field.  obj is the object holding an
// instance field and is ignored for static fields.
func (g *Generator) fieldPtr(fi *common.FieldInfo, obj value.Value) value.Value {
	if fi.Static {
		return g.staticGlobals[fi]
	}

	return g.block.NewGetElementPtr(g.classStruct(fi.Class), obj, i32(0), i32(int64(fi.Index)))
}

// genIgnoredReceiver evaluates the receiver of a static member for its side
// effects.  Class names are not evaluated.
func (g *Generator) genIgnoredReceiver(recv ast.ASTExpr) {
	if recv == nil {
		return
	}

	if id, ok := recv.(*ast.Identifier); ok && id.ClassName != "" {
		return
	}

	g.genExpr(recv)
}

// -----------------------------------------------------------------------------

// genConvert converts val from the type src to the type dest.
func (g *Generator) genConvert(val value.Value, src, dest cytypes.Type) value.Value {
	if src.Equals(dest) {
		return val
	}

	if cytypes.IsReference(dest) {
		destType := g.convType(dest)
		if val.Type().Equal(destType) {
			return val
		}

		if _, ok := val.(*constant.Null); ok {
			return constant.NewNull(destType.(*types.PointerType))
		}

		return g.block.NewBitCast(val, destType)
	}

	spt, sok := src.(cytypes.PrimitiveType)
	dpt, dok := dest.(cytypes.PrimitiveType)
	if !sok || !dok {
		report.ICE("no conversion from %s to %s", src.Repr(), dest.Repr())
	}

	destType := convPrimType(dpt)
	switch {
	case spt.IsIntegral() && dpt.IsIntegral():
		if spt.Size() > dpt.Size() {
			return g.block.NewTrunc(val, destType)
		} else if spt == cytypes.PrimChar {
			// Chars are unsigned.
			return g.block.NewZExt(val, destType)
		}

		return g.block.NewSExt(val, destType)
	case spt.IsIntegral() && dpt.IsFloating():
		if spt == cytypes.PrimChar {
			return g.block.NewUIToFP(val, destType)
		}

		return g.block.NewSIToFP(val, destType)
	case spt.IsFloating() && dpt.IsIntegral():
		if dpt == cytypes.PrimChar {
			return g.block.NewTrunc(g.block.NewFPToSI(val, types.I32), destType)
		}

		return g.block.NewFPToSI(val, destType)
	case spt.IsFloating() && dpt.IsFloating():
		if spt == cytypes.PrimFloat {
			return g.block.NewFPExt(val, destType)
		}

		return g.block.NewFPTrunc(val, destType)
	}

	report.ICE("no conversion from %s to %s", src.Repr(), dest.Repr())
	return nil
}

// -----------------------------------------------------------------------------

// genBinaryExpr generates a binary operator application.
func (g *Generator) genBinaryExpr(be *ast.BinaryExpr) value.Value {
	switch {
	case be.Op.Kind == common.OP_LAND || be.Op.Kind == common.OP_LOR:
		return g.genShortCircuit(be)
	case be.IsConcat:
		return g.genConcat(g.genExpr(be.Lhs), be.Lhs.Type(), g.genExpr(be.Rhs), be.Rhs.Type())
	}

	lhs := g.genExpr(be.Lhs)
	rhs := g.genExpr(be.Rhs)
	return g.genBinaryOp(be.Op.Kind, lhs, rhs, be.Lhs.Type())
}

// genShortCircuit generates `&&` or `||`.  The right operand is only evaluated
// if the left operand does not determine the result.
func (g *Generator) genShortCircuit(be *ast.BinaryExpr) value.Value {
	isAnd := be.Op.Kind == common.OP_LAND

	lhs := g.genExpr(be.Lhs)
	lhsBlock := g.block

	rhsBlock := g.newBlock("rhs")
	endBlock := g.newBlock("merge")

	if isAnd {
		g.block.NewCondBr(lhs, rhsBlock, endBlock)
	} else {
		g.block.NewCondBr(lhs, endBlock, rhsBlock)
	}

	g.setBlock(rhsBlock)
	rhs := g.genExpr(be.Rhs)
	rhsEnd := g.block
	g.block.NewBr(endBlock)

	g.setBlock(endBlock)
	return g.block.NewPhi(
		ir.NewIncoming(constant.NewBool(!isAnd), lhsBlock),
		ir.NewIncoming(rhs, rhsEnd),
	)
}

// genBinaryOp generates a numeric, bitwise, or comparison operator.  Both
// operands are of the type operandType except for shifts whose right operand
// may be of a different integral type.
func (g *Generator) genBinaryOp(kind int, lhs, rhs value.Value, operandType cytypes.Type) value.Value {
	floating := false
	if pt, ok := operandType.(cytypes.PrimitiveType); ok {
		floating = pt.IsFloating()
	}

	switch kind {
	case common.OP_ADD:
		if floating {
			return g.block.NewFAdd(lhs, rhs)
		}

		return g.block.NewAdd(lhs, rhs)
	case common.OP_SUB:
		if floating {
			return g.block.NewFSub(lhs, rhs)
		}

		return g.block.NewSub(lhs, rhs)
	case common.OP_MUL:
		if floating {
			return g.block.NewFMul(lhs, rhs)
		}

		return g.block.NewMul(lhs, rhs)
	case common.OP_DIV:
		if floating {
			return g.block.NewFDiv(lhs, rhs)
		}

		return g.block.NewSDiv(lhs, rhs)
	case common.OP_MOD:
		if floating {
			return g.block.NewFRem(lhs, rhs)
		}

		return g.block.NewSRem(lhs, rhs)
	case common.OP_BWAND:
		return g.block.NewAnd(lhs, rhs)
	case common.OP_BWOR:
		return g.block.NewOr(lhs, rhs)
	case common.OP_BWXOR:
		return g.block.NewXor(lhs, rhs)
	case common.OP_SHL, common.OP_SHR, common.OP_USHR:
		return g.genShift(kind, lhs, rhs)
	case common.OP_EQ, common.OP_NEQ, common.OP_LT, common.OP_GT, common.OP_LTEQ, common.OP_GTEQ:
		return g.genComparison(kind, lhs, rhs, floating)
	}

	report.ICE("invalid binary operator kind: %d", kind)
	return nil
}

// genShift generates a shift.  The shift count is masked to the width of the
// shifted value.
func (g *Generator) genShift(kind int, lhs, rhs value.Value) value.Value {
	lhsType := lhs.Type().(*types.IntType)
	rhsType := rhs.Type().(*types.IntType)

	if rhsType.BitSize > lhsType.BitSize {
		rhs = g.block.NewTrunc(rhs, lhsType)
	} else if rhsType.BitSize < lhsType.BitSize {
		rhs = g.block.NewZExt(rhs, lhsType)
	}

	rhs = g.block.NewAnd(rhs, constInt(lhsType, int64(lhsType.BitSize-1)))

	switch kind {
	case common.OP_SHL:
		return g.block.NewShl(lhs, rhs)
	case common.OP_SHR:
		return g.block.NewAShr(lhs, rhs)
	default:
		return g.block.NewLShr(lhs, rhs)
	}
}

// genComparison generates a comparison operator.  Integers are compared as
// signed values and references by address.
func (g *Generator) genComparison(kind int, lhs, rhs value.Value, floating bool) value.Value {
	if floating {
		var pred enum.FPred
		switch kind {
		case common.OP_EQ:
			pred = enum.FPredOEQ
		case common.OP_NEQ:
			pred = enum.FPredUNE
		case common.OP_LT:
			pred = enum.FPredOLT
		case common.OP_GT:
			pred = enum.FPredOGT
		case common.OP_LTEQ:
			pred = enum.FPredOLE
		default:
			pred = enum.FPredOGE
		}

		return g.block.NewFCmp(pred, lhs, rhs)
	}

	if !lhs.Type().Equal(rhs.Type()) {
		rhs = g.block.NewBitCast(rhs, lhs.Type())
	}

	var pred enum.IPred
	switch kind {
	case common.OP_EQ:
		pred = enum.IPredEQ
	case common.OP_NEQ:
		pred = enum.IPredNE
	case common.OP_LT:
		pred = enum.IPredSLT
	case common.OP_GT:
		pred = enum.IPredSGT
	case common.OP_LTEQ:
		pred = enum.IPredSLE
	default:
		pred = enum.IPredSGE
	}

	return g.block.NewICmp(pred, lhs, rhs)
}

// genConcat generates string concatenation.  Primitive operands are converted
// to strings first.
func (g *Generator) genConcat(lhs value.Value, lhsType cytypes.Type, rhs value.Value, rhsType cytypes.Type) value.Value {
	return g.callRuntime(rtStringConcat, g.genToString(lhs, lhsType), g.genToString(rhs, rhsType))
}

// genToString converts a primitive or string value to a string.
func (g *Generator) genToString(val value.Value, typ cytypes.Type) value.Value {
	pt, ok := typ.(cytypes.PrimitiveType)
	if !ok {
		return val
	}

	switch pt {
	case cytypes.PrimBool:
		return g.callRuntime(rtToStringBool, val)
	case cytypes.PrimChar:
		return g.callRuntime(rtToStringChar, val)
	case cytypes.PrimInt:
		return g.callRuntime(rtToStringLong, g.block.NewSExt(val, types.I64))
	case cytypes.PrimLong:
		return g.callRuntime(rtToStringLong, val)
	case cytypes.PrimFloat:
		return g.callRuntime(rtToStringDouble, g.block.NewFPExt(val, types.Double))
	case cytypes.PrimDouble:
		return g.callRuntime(rtToStringDouble, val)
	}

	report.ICE("cannot convert %s to a string", typ.Repr())
	return nil
}

// -----------------------------------------------------------------------------

// genUnaryExpr generates a unary operator application.
func (g *Generator) genUnaryExpr(ue *ast.UnaryExpr) value.Value {
	operand := g.genExpr(ue.Operand)

	switch ue.Op.Kind {
	case common.OP_NOT:
		return g.block.NewXor(operand, constant.True)
	case common.OP_COMPL:
		return g.block.NewXor(operand, constInt(operand.Type(), -1))
	}

	if ue.Type().(cytypes.PrimitiveType).IsFloating() {
		return g.block.NewFNeg(operand)
	}

	return g.block.NewSub(constInt(operand.Type(), 0), operand)
}

// genIncDec generates an increment or decrement.  Its value is the stored
// value after the update if it is a prefix and before the update otherwise.
func (g *Generator) genIncDec(incdec *ast.IncDecExpr) value.Value {
	ptr := g.genLValue(incdec.Operand)
	typ := g.convType(incdec.Operand.Type())
	old := g.block.NewLoad(typ, ptr)

	var updated value.Value
	if incdec.Operand.Type().(cytypes.PrimitiveType).IsFloating() {
		one := constant.NewFloat(typ.(*types.FloatType), 1)
		if incdec.IsInc {
			updated = g.block.NewFAdd(old, one)
		} else {
			updated = g.block.NewFSub(old, one)
		}
	} else {
		one := constInt(typ, 1)
		if incdec.IsInc {
			updated = g.block.NewAdd(old, one)
		} else {
			updated = g.block.NewSub(old, one)
		}
	}

	g.block.NewStore(updated, ptr)

	if incdec.IsPrefix {
		return updated
	}

	return old
}

// genAssign generates an assignment and returns the assigned value.  The
// target of a compound assignment is evaluated once.
func (g *Generator) genAssign(ae *ast.AssignExpr) value.Value {
	ptr := g.genLValue(ae.Target)
	targetType := ae.Target.Type()

	if ae.CompoundOp == nil {
		val := g.genExpr(ae.Value)
		g.block.NewStore(val, ptr)
		return val
	}

	cur := g.block.NewLoad(g.convType(targetType), ptr)
	rhs := g.genExpr(ae.Value)

	var result value.Value
	if ae.IsConcat {
		result = g.genConcat(cur, targetType, rhs, ae.Value.Type())
	} else {
		lhs := g.genConvert(cur, targetType, ae.OpType)
		result = g.genConvert(g.genBinaryOp(ae.CompoundOp.Kind, lhs, rhs, ae.OpType), ae.OpType, targetType)
	}

	g.block.NewStore(result, ptr)
	return result
}

// genTernaryExpr generates a conditional expression.
func (g *Generator) genTernaryExpr(te *ast.TernaryExpr) value.Value {
	cond := g.genExpr(te.Condition)

	thenBlock := g.newBlock("then")
	elseBlock := g.newBlock("else")
	endBlock := g.newBlock("end")

	g.block.NewCondBr(cond, thenBlock, elseBlock)

	g.setBlock(thenBlock)
	thenVal := g.genConvert(g.genExpr(te.Then), te.Then.Type(), te.Type())
	thenEnd := g.block
	g.block.NewBr(endBlock)

	g.setBlock(elseBlock)
	elseVal := g.genConvert(g.genExpr(te.Else), te.Else.Type(), te.Type())
	elseEnd := g.block
	g.block.NewBr(endBlock)

	g.setBlock(endBlock)
	return g.block.NewPhi(ir.NewIncoming(thenVal, thenEnd), ir.NewIncoming(elseVal, elseEnd))
}
