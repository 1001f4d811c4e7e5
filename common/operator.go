package common

import "cayc/report"

// AppliedOperator is an operator as it is applied in source text.
type AppliedOperator struct {
	// The operator kind: one of the enumerated operator kinds below.
	Kind int

	// The source name of the operator (eg. `+`, `>>>`).
	Name string

	// The span of the operator token.
	Span *report.TextSpan
}

// Enumeration of operator kinds.
const (
	OP_ADD = iota
	OP_SUB
	OP_MUL
	OP_DIV
	OP_MOD

	OP_BWAND
	OP_BWOR
	OP_BWXOR
	OP_SHL
	OP_SHR
	OP_USHR

	OP_EQ
	OP_NEQ
	OP_LT
	OP_GT
	OP_LTEQ
	OP_GTEQ

	OP_LAND
	OP_LOR

	OP_NEG
	OP_NOT
	OP_COMPL
)

// IsComparison returns whether the operator kind produces a boolean from a
// comparison of its operands.
func IsComparison(kind int) bool {
	return OP_EQ <= kind && kind <= OP_GTEQ
}

// IsShift returns whether the operator kind is a bit shift.
func IsShift(kind int) bool {
	return OP_SHL <= kind && kind <= OP_USHR
}

// IsBitwise returns whether the operator kind is a bitwise logical operator.
func IsBitwise(kind int) bool {
	return OP_BWAND <= kind && kind <= OP_BWXOR
}
