package types

// Cast returns whether src implicitly converts to dest.  Implicit conversions
// form a partial order: the identity, numeric widening along
// char -> int -> long -> float -> double, and null to any reference type.
func Cast(src, dest Type) bool {
	_, ok := ConversionDistance(src, dest)
	return ok
}

// ConversionDistance returns the number of implicit widening steps needed to
// convert src to dest.  The boolean is false if no implicit conversion exists.
func ConversionDistance(src, dest Type) (int, bool) {
	if src.Equals(dest) {
		return 0, true
	}

	switch v := src.(type) {
	case PrimitiveType:
		if dpt, ok := dest.(PrimitiveType); ok {
			return castPrimitiveType(v, dpt)
		}
	case NullType:
		if IsReference(dest) {
			return 1, true
		}
	}

	// All other conversions must be explicit or are invalid.
	return 0, false
}

// castPrimitiveType computes the widening distance between two primitives.
func castPrimitiveType(spt, dpt PrimitiveType) (int, bool) {
	if spt.IsNumeric() && dpt.IsNumeric() && spt <= dpt {
		return int(dpt - spt), true
	}

	return 0, false
}

// CanCastExplicit returns whether src may be converted to dest using source
// level cast syntax.  Any numeric types may be cast between one another; all
// implicit conversions are also valid explicit casts.
func CanCastExplicit(src, dest Type) bool {
	if Cast(src, dest) {
		return true
	}

	return IsNumeric(src) && IsNumeric(dest)
}

// -----------------------------------------------------------------------------

// Promote returns the common numeric type of two numeric operands: the wider of
// the two, but never narrower than int.  The boolean is false if either
// operand is not numeric.
func Promote(l, r Type) (PrimitiveType, bool) {
	lpt, ok := l.(PrimitiveType)
	if !ok || !lpt.IsNumeric() {
		return 0, false
	}

	rpt, ok := r.(PrimitiveType)
	if !ok || !rpt.IsNumeric() {
		return 0, false
	}

	res := lpt
	if rpt > res {
		res = rpt
	}

	if res < PrimInt {
		res = PrimInt
	}

	return res, true
}

// PromoteUnary returns the promoted type of a single numeric operand.
func PromoteUnary(t Type) (PrimitiveType, bool) {
	return Promote(t, t)
}
