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

// genCall generates a method call.
func (g *Generator) genCall(call *ast.CallExpr) value.Value {
	if call.Builtin != ast.BuiltinNone {
		return g.genBuiltinCall(call)
	}

	mi := call.Method

	var args []value.Value
	if mi.Static {
		g.genIgnoredReceiver(call.Receiver)
	} else if call.Receiver == nil {
		args = append(args, g.this)
	} else {
		args = append(args, g.genExpr(call.Receiver))
	}

	args = append(args, g.genArgs(mi, call.Args, call.VarArgStart)...)
	return g.block.NewCall(g.lookupFunc(mi), args...)
}

// lookupFunc returns the LLVM function of a method.
func (g *Generator) lookupFunc(mi *common.MethodInfo) *ir.Func {
	fn, ok := g.funcs[mi]
	if !ok {
		report.ICE("method %s.%s has no function", mi.Class, mi.Signature())
	}

	return fn
}

// genArgs generates the arguments to a method.  If varArgStart is not -1, the
// arguments from varArgStart on are packed into a new array.
func (g *Generator) genArgs(mi *common.MethodInfo, args []ast.ASTExpr, varArgStart int) []value.Value {
	if varArgStart < 0 {
		vals := make([]value.Value, len(args))
		for i, arg := range args {
			vals[i] = g.genExpr(arg)
		}

		return vals
	}

	vals := make([]value.Value, varArgStart, varArgStart+1)
	for i, arg := range args[:varArgStart] {
		vals[i] = g.genExpr(arg)
	}

	packed := make([]value.Value, len(args)-varArgStart)
	for i, arg := range args[varArgStart:] {
		packed[i] = g.genExpr(arg)
	}

	at := mi.Params[len(mi.Params)-1].(*cytypes.ArrayType)
	elemType := g.convType(at.IndexType())
	arr := g.allocArray(i32(int64(len(packed))), elemType)
	for i, val := range packed {
		g.block.NewStore(val, g.block.NewGetElementPtr(elemType, arr, i32(int64(i))))
	}

	return append(vals, arr)
}

// genNewExpr generates an object construction: a zeroed object is allocated
// and then initialized by the selected constructor.
func (g *Generator) genNewExpr(ne *ast.NewExpr) value.Value {
	st := g.classStruct(ne.ClassName)
	ptrType := types.NewPointer(st)

	// The size of the struct is the offset of the element after it.
	size := constant.NewPtrToInt(
		constant.NewGetElementPtr(st, constant.NewNull(ptrType), i32(1)),
		types.I64,
	)

	raw := g.callRuntime(rtCalloc, i64(1), size)
	obj := g.block.NewBitCast(raw, ptrType)

	g.usedCtors[ne.Ctor] = struct{}{}

	args := append([]value.Value{obj}, g.genArgs(ne.Ctor, ne.Args, ne.VarArgStart)...)
	g.block.NewCall(g.lookupFunc(ne.Ctor), args...)

	return obj
}

// -----------------------------------------------------------------------------

// genBuiltinCall generates a call to a builtin function or string method.
func (g *Generator) genBuiltinCall(call *ast.CallExpr) value.Value {
	switch call.Builtin {
	case ast.BuiltinPrint, ast.BuiltinPrintln:
		return g.genPrint(call)
	case ast.BuiltinReadInt:
		return g.genRead("readInt", "%d", types.I32)
	case ast.BuiltinReadLong:
		return g.genRead("readLong", "%lld", types.I64)
	case ast.BuiltinReadFloat:
		return g.genRead("readFloat", "%f", types.Float)
	case ast.BuiltinReadDouble:
		return g.genRead("readDouble", "%lf", types.Double)
	case ast.BuiltinReadChar:
		return g.genRead("readChar", "%c", types.I8)
	case ast.BuiltinReadBool:
		// Any non-zero integer is true.
		n := g.genRead("readBool", "%d", types.I32)
		return g.block.NewICmp(enum.IPredNE, n, i32(0))
	case ast.BuiltinReadLine:
		return g.genReadLine()
	}

	recv := g.genExpr(call.Receiver)
	args := make([]value.Value, len(call.Args))
	for i, arg := range call.Args {
		args[i] = g.genExpr(arg)
	}

	switch call.Builtin {
	case ast.BuiltinStrLength:
		return g.stringLength(recv)
	case ast.BuiltinStrCharAt:
		g.genBoundsCheck(args[0], g.stringLength(recv))
		return g.block.NewLoad(types.I8, g.block.NewGetElementPtr(types.I8, recv, args[0]))
	case ast.BuiltinStrSubstring:
		var end value.Value
		if len(args) == 2 {
			end = args[1]
		} else {
			end = g.stringLength(recv)
		}

		return g.callRuntime(rtSubstring, recv, args[0], end)
	case ast.BuiltinStrIndexOf:
		match := g.callRuntime(rtStrstr, recv, args[0])
		offset := g.block.NewSub(
			g.block.NewPtrToInt(match, types.I64),
			g.block.NewPtrToInt(recv, types.I64),
		)

		found := g.block.NewICmp(enum.IPredNE, match, constant.NewNull(types.I8Ptr))
		return g.block.NewSelect(found, g.block.NewTrunc(offset, types.I32), i32(-1))
	case ast.BuiltinStrEquals:
		// No string equals null.
		notNull := g.block.NewICmp(enum.IPredNE, args[0], constant.NewNull(types.I8Ptr))
		cmp := g.callRuntime(rtStrcmp, recv, g.nonNullString(args[0]))
		return g.block.NewAnd(notNull, g.block.NewICmp(enum.IPredEQ, cmp, i32(0)))
	case ast.BuiltinStrReplace:
		return g.callRuntime(rtStringReplace, recv, args[0], args[1])
	}

	report.ICE("invalid builtin kind: %d", call.Builtin)
	return nil
}

// stringLength returns the length of a string as an int.
func (g *Generator) stringLength(s value.Value) value.Value {
	return g.block.NewTrunc(g.callRuntime(rtStrlen, s), types.I32)
}

// genPrint generates `print` or `println` as a call to printf with a format
// chosen by the type of the argument.
func (g *Generator) genPrint(call *ast.CallExpr) value.Value {
	suffix, key := "", "print."
	if call.Builtin == ast.BuiltinPrintln {
		suffix, key = "\n", "println."
	}

	if len(call.Args) == 0 {
		return g.callRuntime(rtPrintf, g.genFormatConst("newline", "\n"))
	}

	arg := call.Args[0]
	val := g.genExpr(arg)

	var format string
	switch pt := arg.Type().(type) {
	case cytypes.PrimitiveType:
		switch pt {
		case cytypes.PrimBool:
			format = "%s"
			val = g.callRuntime(rtToStringBool, val)
		case cytypes.PrimChar:
			format = "%c"
			val = g.block.NewZExt(val, types.I32)
		case cytypes.PrimInt:
			format = "%d"
		case cytypes.PrimLong:
			format = "%lld"
		case cytypes.PrimFloat:
			format = "%g"
			val = g.block.NewFPExt(val, types.Double)
		default:
			format = "%g"
		}

		key += pt.Repr()
	default:
		format = "%s"
		key += "string"

		isNull := g.block.NewICmp(enum.IPredEQ, val, constant.NewNull(types.I8Ptr))
		val = g.block.NewSelect(isNull, g.genStringConst("null"), val)
	}

	return g.callRuntime(rtPrintf, g.genFormatConst(key, format+suffix), val)
}

// genRead generates a builtin reading a single value from standard input with
// scanf.
func (g *Generator) genRead(name, format string, typ types.Type) value.Value {
	slot := g.newSlot(typ, "read")
	g.block.NewStore(zeroValue(typ), slot)
	g.callRuntime(rtScanf, g.genFormatConst(name, format), slot)
	return g.block.NewLoad(typ, slot)
}

// readLineSize is the size of the buffer allocated by `readLine`.
const readLineSize = 1024

// genReadLine generates `readLine`: it reads up to the next newline into a new
// buffer and discards the newline.
func (g *Generator) genReadLine() value.Value {
	buff := g.callRuntime(rtMalloc, i64(readLineSize))
	g.storeNul(buff, i64(0))

	g.callRuntime(rtScanf, g.genFormatConst("readLine", "%1023[^\n]"), buff)
	g.callRuntime(rtScanf, g.genFormatConst("skipNewline", "%*c"))

	return buff
}
