package types

import (
	"errors"
	"fmt"
	"math"
)

// IntLiteralType determines the type of an integer literal from its magnitude,
// its sign (when a unary minus was folded into it), and its suffix.  Integer
// literals default to int; a long literal must be marked with an `L` suffix.
func IntLiteralType(magnitude uint64, negative bool, suffix rune) (PrimitiveType, error) {
	switch suffix {
	case 'l', 'L':
		if magnitude > math.MaxInt64 && !(negative && magnitude == 1<<63) {
			return 0, errors.New("integer literal is too large for long")
		}

		return PrimLong, nil
	case 0:
		if magnitude > math.MaxInt32 && !(negative && magnitude == 1<<31) {
			return 0, fmt.Errorf("integer literal %d is out of range for int: add an `L` suffix to make it a long", magnitude)
		}

		return PrimInt, nil
	default:
		return 0, fmt.Errorf("invalid integer literal suffix: `%c`", suffix)
	}
}

// FloatLiteralType determines the type of a floating-point literal from its
// suffix.  Floating literals default to double.
func FloatLiteralType(suffix rune) PrimitiveType {
	switch suffix {
	case 'f', 'F':
		return PrimFloat
	default:
		return PrimDouble
	}
}

// -----------------------------------------------------------------------------

// IntLiteralFits returns whether an integer literal value can be re-typed to
// the narrower integral type dest.  Literal narrowing only happens within the
// integral family and only when the value is provably in range.
func IntLiteralFits(value int64, dest Type) bool {
	dpt, ok := dest.(PrimitiveType)
	if !ok {
		return false
	}

	switch dpt {
	case PrimChar:
		return 0 <= value && value <= math.MaxUint8
	case PrimInt:
		return math.MinInt32 <= value && value <= math.MaxInt32
	case PrimLong:
		return true
	}

	return false
}

// FloatLiteralFits returns whether a floating literal value can be re-typed to
// float without overflowing to infinity or underflowing to zero.
func FloatLiteralFits(value float64, dest Type) bool {
	dpt, ok := dest.(PrimitiveType)
	if !ok {
		return false
	}

	switch dpt {
	case PrimDouble:
		return true
	case PrimFloat:
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return true
		}

		f := float32(value)
		if math.IsInf(float64(f), 0) {
			return false
		}

		return value == 0 || f != 0
	}

	return false
}
