package types

import (
	"strconv"
	"strings"

	"cayc/util"
)

// Type represents a Cay data type.
type Type interface {
	// Returns whether this type is structurally equal to the other type.
	Equals(other Type) bool

	// Returns the representative string for this type.
	Repr() string

	// Returns the erased type code of this type: the string used to
	// distinguish overloads in mangled names.
	Erasure() string
}

// Equals returns whether two types are equal.  Both types may be nil.
func Equals(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return a.Equals(b)
}

// -----------------------------------------------------------------------------

// PrimitiveType represents a primitive type.  This must be one of the
// enumerated primitive type values below.
type PrimitiveType int

// Enumeration of the different primitive types.  The numeric types are ordered
// by widening: each numeric type implicitly converts to all those after it.
const (
	PrimVoid PrimitiveType = iota
	PrimBool
	PrimChar
	PrimInt
	PrimLong
	PrimFloat
	PrimDouble
)

func (pt PrimitiveType) Equals(other Type) bool {
	if opt, ok := other.(PrimitiveType); ok {
		return pt == opt
	}

	return false
}

func (pt PrimitiveType) Repr() string {
	switch pt {
	case PrimVoid:
		return "void"
	case PrimBool:
		return "bool"
	case PrimChar:
		return "char"
	case PrimInt:
		return "int"
	case PrimLong:
		return "long"
	case PrimFloat:
		return "float"
	default:
		return "double"
	}
}

func (pt PrimitiveType) Erasure() string {
	return string("VZCIJFD"[pt])
}

// IsNumeric returns whether this primitive participates in numeric widening.
func (pt PrimitiveType) IsNumeric() bool {
	return PrimChar <= pt && pt <= PrimDouble
}

// IsIntegral returns whether this primitive is an integral type.
func (pt PrimitiveType) IsIntegral() bool {
	return PrimChar <= pt && pt <= PrimLong
}

// IsFloating returns whether this primitive type is a floating-point type.
func (pt PrimitiveType) IsFloating() bool {
	return pt == PrimFloat || pt == PrimDouble
}

// Size returns the size of the primitive in bytes.
func (pt PrimitiveType) Size() int {
	switch pt {
	case PrimVoid:
		return 0
	case PrimBool, PrimChar:
		return 1
	case PrimInt, PrimFloat:
		return 4
	default:
		return 8
	}
}

// -----------------------------------------------------------------------------

// StringType is the type of string references.
type StringType struct{}

// String is the single string type value.
var String Type = StringType{}

func (StringType) Equals(other Type) bool {
	_, ok := other.(StringType)
	return ok
}

func (StringType) Repr() string {
	return "string"
}

func (StringType) Erasure() string {
	return "S"
}

// -----------------------------------------------------------------------------

// ArrayType represents an array type.  Multi-dimensional arrays are encoded
// with a rank instead of nesting: the element type is never an array.
type ArrayType struct {
	// The element type of the innermost dimension.
	Elem Type

	// The number of dimensions.  This is always at least 1.
	Rank int
}

// NewArray creates an array of rank dimensions over elem.  If elem is itself
// an array, the ranks are combined.
func NewArray(elem Type, rank int) *ArrayType {
	if at, ok := elem.(*ArrayType); ok {
		return &ArrayType{Elem: at.Elem, Rank: at.Rank + rank}
	}

	return &ArrayType{Elem: elem, Rank: rank}
}

func (at *ArrayType) Equals(other Type) bool {
	if oat, ok := other.(*ArrayType); ok {
		return at.Rank == oat.Rank && at.Elem.Equals(oat.Elem)
	}

	return false
}

func (at *ArrayType) Repr() string {
	return at.Elem.Repr() + strings.Repeat("[]", at.Rank)
}

func (at *ArrayType) Erasure() string {
	return "A" + strconv.Itoa(at.Rank) + at.Elem.Erasure()
}

// IndexType returns the type produced by indexing into the array once.
func (at *ArrayType) IndexType() Type {
	if at.Rank == 1 {
		return at.Elem
	}

	return &ArrayType{Elem: at.Elem, Rank: at.Rank - 1}
}

// -----------------------------------------------------------------------------

// ClassType is a reference to a declared class.
type ClassType struct {
	Name string
}

func (ct *ClassType) Equals(other Type) bool {
	if oct, ok := other.(*ClassType); ok {
		return ct.Name == oct.Name
	}

	return false
}

func (ct *ClassType) Repr() string {
	return ct.Name
}

func (ct *ClassType) Erasure() string {
	return "L" + ct.Name + "_"
}

// -----------------------------------------------------------------------------

// NullType is the type of the `null` literal.  It is never the declared type
// of a variable: it only converts to reference types.
type NullType struct{}

// Null is the single null type value.
var Null Type = NullType{}

func (NullType) Equals(other Type) bool {
	_, ok := other.(NullType)
	return ok
}

func (NullType) Repr() string {
	return "null"
}

func (NullType) Erasure() string {
	return "N"
}

// -----------------------------------------------------------------------------

// IsPrim returns whether typ is the given primitive type.
func IsPrim(typ Type, pt PrimitiveType) bool {
	if tpt, ok := typ.(PrimitiveType); ok {
		return tpt == pt
	}

	return false
}

// IsVoid returns whether typ is void.
func IsVoid(typ Type) bool {
	return IsPrim(typ, PrimVoid)
}

// IsBool returns whether typ is bool.
func IsBool(typ Type) bool {
	return IsPrim(typ, PrimBool)
}

// IsString returns whether typ is string.
func IsString(typ Type) bool {
	_, ok := typ.(StringType)
	return ok
}

// IsNumeric returns whether typ is a numeric (or char) type.
func IsNumeric(typ Type) bool {
	if pt, ok := typ.(PrimitiveType); ok {
		return pt.IsNumeric()
	}

	return false
}

// IsIntegral returns whether typ is an integral (or char) type.
func IsIntegral(typ Type) bool {
	if pt, ok := typ.(PrimitiveType); ok {
		return pt.IsIntegral()
	}

	return false
}

// IsFloating returns whether typ is a floating-point type.
func IsFloating(typ Type) bool {
	if pt, ok := typ.(PrimitiveType); ok {
		return pt.IsFloating()
	}

	return false
}

// IsReference returns whether typ is represented as a pointer at runtime.
func IsReference(typ Type) bool {
	switch typ.(type) {
	case StringType, *ArrayType, *ClassType, NullType:
		return true
	}

	return false
}

// ReprList returns the comma separated representation of a list of types.
func ReprList(typs []Type) string {
	return strings.Join(util.Map(typs, Type.Repr), ", ")
}
