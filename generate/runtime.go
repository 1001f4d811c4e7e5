package generate

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Names of the runtime functions.
const (
	rtPrintf  = "printf"
	rtSnprint = "snprintf"
	rtScanf   = "scanf"
	rtMalloc  = "malloc"
	rtCalloc  = "calloc"
	rtStrlen  = "strlen"
	rtStrcmp  = "strcmp"
	rtStrstr  = "strstr"
	rtExit    = "exit"
	rtMemcpy  = "llvm.memcpy.p0i8.p0i8.i64"

	rtStringConcat   = "__cay_string_concat"
	rtArrayAlloc     = "__cay_array_alloc"
	rtBoundsFail     = "__cay_bounds_fail"
	rtToStringLong   = "__cay_to_string_long"
	rtToStringDouble = "__cay_to_string_double"
	rtToStringBool   = "__cay_to_string_bool"
	rtToStringChar   = "__cay_to_string_char"
	rtSubstring      = "__cay_substring"
	rtStringReplace  = "__cay_string_replace"
)

// arrayHeaderSize is the number of bytes preceding the first element of an
// array.  The array length is stored as an i32 at the start of the header.
const arrayHeaderSize = 8

// declareRuntime declares the C library and Cay runtime functions used by
// generated code.
func (g *Generator) declareRuntime() {
	g.declareFunc(rtPrintf, types.I32, true, types.I8Ptr)
	g.declareFunc(rtSnprint, types.I32, true, types.I8Ptr, types.I64, types.I8Ptr)
	g.declareFunc(rtScanf, types.I32, true, types.I8Ptr)
	g.declareFunc(rtMalloc, types.I8Ptr, false, types.I64)
	g.declareFunc(rtCalloc, types.I8Ptr, false, types.I64, types.I64)
	g.declareFunc(rtStrlen, types.I64, false, types.I8Ptr)
	g.declareFunc(rtStrcmp, types.I32, false, types.I8Ptr, types.I8Ptr)
	g.declareFunc(rtStrstr, types.I8Ptr, false, types.I8Ptr, types.I8Ptr)
	g.declareFunc(rtExit, types.Void, false, types.I32).FuncAttrs = []ir.FuncAttribute{enum.FuncAttrNoReturn}
	g.declareFunc(rtMemcpy, types.Void, false, types.I8Ptr, types.I8Ptr, types.I64, types.I1)

	g.declareFunc(rtStringConcat, types.I8Ptr, false, types.I8Ptr, types.I8Ptr)
	g.declareFunc(rtArrayAlloc, types.I8Ptr, false, types.I64, types.I64)
	g.declareFunc(rtBoundsFail, types.Void, false, types.I32, types.I32).FuncAttrs = []ir.FuncAttribute{enum.FuncAttrNoReturn}
	g.declareFunc(rtToStringLong, types.I8Ptr, false, types.I64)
	g.declareFunc(rtToStringDouble, types.I8Ptr, false, types.Double)
	g.declareFunc(rtToStringBool, types.I8Ptr, false, types.I1)
	g.declareFunc(rtToStringChar, types.I8Ptr, false, types.I8)
	g.declareFunc(rtSubstring, types.I8Ptr, false, types.I8Ptr, types.I32, types.I32)
	g.declareFunc(rtStringReplace, types.I8Ptr, false, types.I8Ptr, types.I8Ptr, types.I8Ptr)
}

// declareFunc declares an external function.
func (g *Generator) declareFunc(name string, retType types.Type, variadic bool, paramTypes ...types.Type) *ir.Func {
	params := make([]*ir.Param, len(paramTypes))
	for i, pt := range paramTypes {
		params[i] = ir.NewParam("", pt)
	}

	fn := g.mod.NewFunc(name, retType, params...)
	fn.Sig.Variadic = variadic

	g.rt[name] = fn
	return fn
}

// callRuntime generates a call to a runtime function.
func (g *Generator) callRuntime(name string, args ...value.Value) value.Value {
	return g.block.NewCall(g.rt[name], args...)
}

// -----------------------------------------------------------------------------

// defineRuntime defines the bodies of the Cay runtime functions on top of the
// C library.
func (g *Generator) defineRuntime() {
	g.defineStringConcat()
	g.defineArrayAlloc()
	g.defineBoundsFail()
	g.defineToStringFormatted(rtToStringLong, "%lld", 24)
	g.defineToStringFormatted(rtToStringDouble, "%g", 32)
	g.defineToStringBool()
	g.defineToStringChar()
	g.defineSubstring()
	g.defineStringReplace()
}

// beginRuntimeFunc names the parameters of a runtime function and moves
// generation into its entry block.
func (g *Generator) beginRuntimeFunc(name string, paramNames ...string) *ir.Func {
	fn := g.rt[name]
	for i, pname := range paramNames {
		fn.Params[i].SetName(pname)
	}

	fn.Linkage = enum.LinkageInternal

	g.enclosingFunc = fn
	g.blockCounter = 0
	g.block = fn.NewBlock("entry")
	return fn
}

// nonNullString returns s or the empty string if s is null.
func (g *Generator) nonNullString(s value.Value) value.Value {
	isNull := g.block.NewICmp(enum.IPredEQ, s, constant.NewNull(types.I8Ptr))
	return g.block.NewSelect(isNull, g.genStringConst(""), s)
}

// copyBytes copies n bytes from src to dest.
func (g *Generator) copyBytes(dest, src, n value.Value) {
	g.callRuntime(rtMemcpy, dest, src, n, constant.False)
}

// storeNul stores a terminating NUL byte at offset n of s.
func (g *Generator) storeNul(s, n value.Value) {
	end := g.block.NewGetElementPtr(types.I8, s, n)
	g.block.NewStore(constant.NewInt(types.I8, 0), end)
}

// __cay_string_concat(a, b): a new string holding a followed by b.  Null
// strings are treated as empty.
func (g *Generator) defineStringConcat() {
	fn := g.beginRuntimeFunc(rtStringConcat, "a", "b")

	a := g.nonNullString(fn.Params[0])
	b := g.nonNullString(fn.Params[1])

	alen := g.callRuntime(rtStrlen, a)
	blen := g.callRuntime(rtStrlen, b)
	total := g.block.NewAdd(alen, blen)

	buff := g.callRuntime(rtMalloc, g.block.NewAdd(total, constant.NewInt(types.I64, 1)))
	g.copyBytes(buff, a, alen)
	g.copyBytes(g.block.NewGetElementPtr(types.I8, buff, alen), b, blen)
	g.storeNul(buff, total)

	g.block.NewRet(buff)
}

// __cay_array_alloc(count, elemSize): a zeroed array of count elements with
// its length stored in the array header.
func (g *Generator) defineArrayAlloc() {
	fn := g.beginRuntimeFunc(rtArrayAlloc, "count", "elemSize")
	count, elemSize := fn.Params[0], fn.Params[1]

	negBlock := fn.NewBlock("negative")
	allocBlock := fn.NewBlock("alloc")

	isNeg := g.block.NewICmp(enum.IPredSLT, count, constant.NewInt(types.I64, 0))
	g.block.NewCondBr(isNeg, negBlock, allocBlock)

	g.block = negBlock
	g.callRuntime(rtBoundsFail, g.block.NewTrunc(count, types.I32), constant.NewInt(types.I32, 0))
	g.block.NewUnreachable()

	g.block = allocBlock
	size := g.block.NewAdd(g.block.NewMul(count, elemSize), constant.NewInt(types.I64, arrayHeaderSize))
	raw := g.callRuntime(rtCalloc, size, constant.NewInt(types.I64, 1))

	lenPtr := g.block.NewBitCast(raw, types.NewPointer(types.I32))
	g.block.NewStore(g.block.NewTrunc(count, types.I32), lenPtr)

	g.block.NewRet(g.block.NewGetElementPtr(types.I8, raw, constant.NewInt(types.I64, arrayHeaderSize)))
}

// __cay_bounds_fail(index, length): reports an out of bounds access and exits.
func (g *Generator) defineBoundsFail() {
	fn := g.beginRuntimeFunc(rtBoundsFail, "index", "length")

	msg := g.genFormatConst("bounds", "index %d out of bounds for length %d\n")
	g.callRuntime(rtPrintf, msg, fn.Params[0], fn.Params[1])
	g.callRuntime(rtExit, constant.NewInt(types.I32, 1))
	g.block.NewUnreachable()
}

// defineToStringFormatted defines a to-string conversion formatting its
// argument with snprintf into a buffer of size bytes.
func (g *Generator) defineToStringFormatted(name, format string, size int64) {
	fn := g.beginRuntimeFunc(name, "x")

	buffSize := constant.NewInt(types.I64, size)
	buff := g.callRuntime(rtMalloc, buffSize)
	g.callRuntime(rtSnprint, buff, buffSize, g.genFormatConst(name[len("__cay_to_string_"):], format), fn.Params[0])

	g.block.NewRet(buff)
}

// __cay_to_string_bool(x): "true" or "false".
func (g *Generator) defineToStringBool() {
	fn := g.beginRuntimeFunc(rtToStringBool, "x")
	g.block.NewRet(g.block.NewSelect(fn.Params[0], g.genStringConst("true"), g.genStringConst("false")))
}

// __cay_to_string_char(x): a string of the single character x.
func (g *Generator) defineToStringChar() {
	fn := g.beginRuntimeFunc(rtToStringChar, "x")

	buff := g.callRuntime(rtMalloc, constant.NewInt(types.I64, 2))
	g.block.NewStore(fn.Params[0], buff)
	g.storeNul(buff, constant.NewInt(types.I64, 1))

	g.block.NewRet(buff)
}

// __cay_substring(s, begin, end): a new string holding the characters of s in
// [begin, end).
func (g *Generator) defineSubstring() {
	fn := g.beginRuntimeFunc(rtSubstring, "s", "begin", "end")
	s, begin, end := fn.Params[0], fn.Params[1], fn.Params[2]

	failBlock := fn.NewBlock("fail")
	copyBlock := fn.NewBlock("copy")

	length := g.block.NewTrunc(g.callRuntime(rtStrlen, s), types.I32)
	bad := g.block.NewOr(
		g.block.NewOr(
			g.block.NewICmp(enum.IPredSLT, begin, constant.NewInt(types.I32, 0)),
			g.block.NewICmp(enum.IPredSGT, end, length),
		),
		g.block.NewICmp(enum.IPredSGT, begin, end),
	)
	g.block.NewCondBr(bad, failBlock, copyBlock)

	g.block = failBlock
	g.callRuntime(rtBoundsFail, end, length)
	g.block.NewUnreachable()

	g.block = copyBlock
	n := g.block.NewSExt(g.block.NewSub(end, begin), types.I64)
	buff := g.callRuntime(rtMalloc, g.block.NewAdd(n, constant.NewInt(types.I64, 1)))
	g.copyBytes(buff, g.block.NewGetElementPtr(types.I8, s, g.block.NewSExt(begin, types.I64)), n)
	g.storeNul(buff, n)

	g.block.NewRet(buff)
}

// __cay_string_replace(s, target, repl): a new string with every occurrence of
// target in s replaced by repl, scanning left to right.  Null strings are
// treated as empty; an empty target leaves s unchanged.
func (g *Generator) defineStringReplace() {
	fn := g.beginRuntimeFunc(rtStringReplace, "s", "target", "repl")

	s := g.nonNullString(fn.Params[0])
	target := g.nonNullString(fn.Params[1])
	repl := g.nonNullString(fn.Params[2])

	slen := g.callRuntime(rtStrlen, s)
	tlen := g.callRuntime(rtStrlen, target)
	rlen := g.callRuntime(rtStrlen, repl)

	entryBlock := g.block
	sameBlock := fn.NewBlock("same")
	countBlock := fn.NewBlock("count")
	countedBlock := fn.NewBlock("counted")
	allocBlock := fn.NewBlock("alloc")
	scanBlock := fn.NewBlock("scan")
	matchBlock := fn.NewBlock("match")
	tailBlock := fn.NewBlock("tail")

	g.block.NewCondBr(g.block.NewICmp(enum.IPredEQ, tlen, constant.NewInt(types.I64, 0)), sameBlock, countBlock)

	g.block = sameBlock
	g.block.NewRet(s)

	// Count the occurrences to size the result.
	g.block = countBlock
	countPos := g.block.NewPhi(ir.NewIncoming(s, entryBlock))
	count := g.block.NewPhi(ir.NewIncoming(constant.NewInt(types.I64, 0), entryBlock))
	found := g.callRuntime(rtStrstr, countPos, target)
	g.block.NewCondBr(g.block.NewICmp(enum.IPredNE, found, constant.NewNull(types.I8Ptr)), countedBlock, allocBlock)

	g.block = countedBlock
	countPos.Incs = append(countPos.Incs, ir.NewIncoming(g.block.NewGetElementPtr(types.I8, found, tlen), countedBlock))
	count.Incs = append(count.Incs, ir.NewIncoming(g.block.NewAdd(count, constant.NewInt(types.I64, 1)), countedBlock))
	g.block.NewBr(countBlock)

	g.block = allocBlock
	size := g.block.NewAdd(slen, g.block.NewMul(count, g.block.NewSub(rlen, tlen)))
	buff := g.callRuntime(rtMalloc, g.block.NewAdd(size, constant.NewInt(types.I64, 1)))
	g.block.NewBr(scanBlock)

	// Copy the text before each occurrence followed by the replacement.
	g.block = scanBlock
	src := g.block.NewPhi(ir.NewIncoming(s, allocBlock))
	dest := g.block.NewPhi(ir.NewIncoming(buff, allocBlock))
	match := g.callRuntime(rtStrstr, src, target)
	g.block.NewCondBr(g.block.NewICmp(enum.IPredNE, match, constant.NewNull(types.I8Ptr)), matchBlock, tailBlock)

	g.block = matchBlock
	before := g.block.NewSub(g.block.NewPtrToInt(match, types.I64), g.block.NewPtrToInt(src, types.I64))
	g.copyBytes(dest, src, before)
	replDest := g.block.NewGetElementPtr(types.I8, dest, before)
	g.copyBytes(replDest, repl, rlen)
	src.Incs = append(src.Incs, ir.NewIncoming(g.block.NewGetElementPtr(types.I8, match, tlen), matchBlock))
	dest.Incs = append(dest.Incs, ir.NewIncoming(g.block.NewGetElementPtr(types.I8, replDest, rlen), matchBlock))
	g.block.NewBr(scanBlock)

	g.block = tailBlock
	rest := g.callRuntime(rtStrlen, src)
	g.copyBytes(dest, src, rest)
	g.storeNul(dest, rest)

	g.block.NewRet(buff)
}
