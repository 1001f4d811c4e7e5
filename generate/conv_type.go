package generate

import (
	"cayc/report"
	cytypes "cayc/types"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

// convType converts a Cay type to its LLVM representation.  Strings are C
// strings, arrays are pointers to their first element, and objects are
// pointers to their class struct.
func (g *Generator) convType(typ cytypes.Type) types.Type {
	switch v := typ.(type) {
	case cytypes.PrimitiveType:
		return convPrimType(v)
	case cytypes.StringType, cytypes.NullType:
		return types.I8Ptr
	case *cytypes.ArrayType:
		return types.NewPointer(g.convType(v.IndexType()))
	case *cytypes.ClassType:
		return types.NewPointer(g.classStruct(v.Name))
	}

	report.ICE("type %s has no LLVM representation", typ.Repr())
	return nil
}

// convPrimType converts a primitive type to its LLVM representation.
func convPrimType(pt cytypes.PrimitiveType) types.Type {
	switch pt {
	case cytypes.PrimVoid:
		return types.Void
	case cytypes.PrimBool:
		return types.I1
	case cytypes.PrimChar:
		return types.I8
	case cytypes.PrimInt:
		return types.I32
	case cytypes.PrimLong:
		return types.I64
	case cytypes.PrimFloat:
		return types.Float
	default:
		return types.Double
	}
}

// classStruct returns the struct type of a class.
func (g *Generator) classStruct(name string) *types.StructType {
	st, ok := g.classTypes[name]
	if !ok {
		report.ICE("class %s has no struct type", name)
	}

	return st
}

// -----------------------------------------------------------------------------

// sizeOf returns the size in bytes of a value of the LLVM type typ stored in
// an array.
func sizeOf(typ types.Type) int64 {
	switch v := typ.(type) {
	case *types.IntType:
		if v.BitSize <= 8 {
			return 1
		}

		return int64(v.BitSize / 8)
	case *types.FloatType:
		if v.Kind == types.FloatKindFloat {
			return 4
		}

		return 8
	case *types.PointerType:
		return 8
	}

	report.ICE("size of %s is not known", typ)
	return 0
}

// zeroValue returns the zero value of an LLVM type.
func zeroValue(typ types.Type) constant.Constant {
	switch v := typ.(type) {
	case *types.IntType:
		return constant.NewInt(v, 0)
	case *types.FloatType:
		return constant.NewFloat(v, 0)
	case *types.PointerType:
		return constant.NewNull(v)
	}

	return constant.NewZeroInitializer(typ)
}
