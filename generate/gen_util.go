package generate

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// genStringConst returns a pointer to an interned NUL-terminated string
// constant.  Each distinct string is emitted once as `@.str.N` in order of
// first use.
func (g *Generator) genStringConst(s string) value.Value {
	glob, ok := g.strings[s]
	if !ok {
		glob = g.newConstData(fmt.Sprintf(".str.%d", len(g.strings)), s)
		g.strings[s] = glob
	}

	return constPtr(glob)
}

// genFormatConst returns a pointer to the format string named key.
func (g *Generator) genFormatConst(key, format string) value.Value {
	glob, ok := g.formats[key]
	if !ok {
		glob = g.newConstData(".fmt."+key, format)
		g.formats[key] = glob
	}

	return constPtr(glob)
}

// newConstData defines a private constant global holding s as a C string.
func (g *Generator) newConstData(name, s string) *ir.Global {
	glob := g.mod.NewGlobalDef(name, constant.NewCharArrayFromString(s+"\x00"))
	glob.Linkage = enum.LinkagePrivate
	glob.UnnamedAddr = enum.UnnamedAddrUnnamedAddr
	glob.Immutable = true
	return glob
}

// constPtr returns an i8 pointer to the first byte of a constant char array.
func constPtr(glob *ir.Global) constant.Constant {
	zero := constant.NewInt(types.I64, 0)
	return constant.NewGetElementPtr(glob.ContentType, glob, zero, zero)
}

// -----------------------------------------------------------------------------

// constInt returns an integer constant of the LLVM integer type typ.
func constInt(typ types.Type, x int64) *constant.Int {
	return constant.NewInt(typ.(*types.IntType), x)
}

// i32 returns an i32 constant.
func i32(x int64) *constant.Int {
	return constant.NewInt(types.I32, x)
}

// i64 returns an i64 constant.
func i64(x int64) *constant.Int {
	return constant.NewInt(types.I64, x)
}
