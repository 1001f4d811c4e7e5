package ast

import (
	"cayc/common"
	"cayc/report"
	"cayc/types"
)

// Enumeration of literal kinds.
const (
	LitInt = iota
	LitFloat
	LitBool
	LitChar
	LitString
	LitNull
)

// Literal represents a literal value.
type Literal struct {
	ExprBase

	// The kind of literal.  This must be one of the enumerated literal kinds.
	Kind int

	// The source text of the literal.
	Text string

	// The value of the literal: only the field corresponding to its kind is
	// set.  Char literals store their value in IntValue.
	IntValue   int64
	FloatValue float64
	BoolValue  bool
	StrValue   string
}

// Identifier represents a named value: a local, a parameter, a field of the
// enclosing class, or the name of a class used as a static receiver.
type Identifier struct {
	ExprBase

	Name string

	// The symbol the identifier refers to.  This is set during analysis.
	Sym *common.Symbol

	// The class this identifier names when it is used as a static receiver.
	ClassName string
}

func (id *Identifier) Category() int {
	if id.ClassName != "" {
		return RValue
	}

	return LValue
}

// This represents the `this` keyword.
type This struct {
	ExprBase
}

// -----------------------------------------------------------------------------

// BinaryExpr represents a binary operator application.
type BinaryExpr struct {
	ExprBase

	Op       *common.AppliedOperator
	Lhs, Rhs ASTExpr

	// Whether the operator is string concatenation.  This is set during
	// analysis.
	IsConcat bool
}

// UnaryExpr represents a prefix unary operator application.
type UnaryExpr struct {
	ExprBase

	Op      *common.AppliedOperator
	Operand ASTExpr
}

// IncDecExpr represents an increment or decrement.
type IncDecExpr struct {
	ExprBase

	Operand  ASTExpr
	IsInc    bool
	IsPrefix bool
}

// AssignExpr represents an assignment or compound assignment.
type AssignExpr struct {
	ExprBase

	Target ASTExpr
	Value  ASTExpr

	// The compound operator.  This is nil for simple assignment.
	CompoundOp *common.AppliedOperator

	// Whether the compound operator is string concatenation.
	IsConcat bool

	// The type in which the compound operation is computed.  The result is
	// converted back to the type of the target.
	OpType types.Type
}

// TernaryExpr represents a conditional expression.
type TernaryExpr struct {
	ExprBase

	Condition  ASTExpr
	Then, Else ASTExpr
}

// CastExpr represents a type conversion.  The destination type is the type of
// the expression itself.
type CastExpr struct {
	ExprBase

	Src ASTExpr

	// Whether the cast was inserted by the compiler.
	Implicit bool
}

// -----------------------------------------------------------------------------

// Enumeration of builtin function kinds.
const (
	BuiltinNone = iota
	BuiltinPrint
	BuiltinPrintln
	BuiltinReadInt
	BuiltinReadLong
	BuiltinReadFloat
	BuiltinReadDouble
	BuiltinReadChar
	BuiltinReadBool
	BuiltinReadLine

	BuiltinStrLength
	BuiltinStrCharAt
	BuiltinStrSubstring
	BuiltinStrIndexOf
	BuiltinStrEquals
	BuiltinStrReplace
)

// CallExpr represents a method call.
type CallExpr struct {
	ExprBase

	// The (optional) receiver expression.
	Receiver ASTExpr

	Name     string
	NameSpan *report.TextSpan

	Args []ASTExpr

	// The selected method.  This is set during analysis and is nil for builtin
	// calls.
	Method *common.MethodInfo

	// The builtin being called, if any.
	Builtin int

	// The index of the first argument packed into the variadic parameter.  This
	// is -1 when the call does not expand variadic arguments.
	VarArgStart int
}

// NewExpr represents an object construction.
type NewExpr struct {
	ExprBase

	ClassName string
	Args      []ASTExpr

	// The selected constructor.
	Ctor *common.MethodInfo

	// The index of the first argument packed into the variadic parameter.
	VarArgStart int
}

// FieldAccess represents a member access: `x.y`.
type FieldAccess struct {
	ExprBase

	Receiver ASTExpr

	Name     string
	NameSpan *report.TextSpan

	// The accessed field.  This is nil for `.length` on arrays.
	Field *common.FieldInfo

	// Whether the access is the length of an array.
	IsArrayLength bool
}

func (fa *FieldAccess) Category() int {
	if fa.IsArrayLength {
		return RValue
	}

	return LValue
}

// ArrayAccess represents an array index operation.
type ArrayAccess struct {
	ExprBase

	Array ASTExpr
	Index ASTExpr

	// Whether the access requires a runtime bounds check.
	BoundsCheck bool
}

func (aa *ArrayAccess) Category() int {
	return LValue
}

// NewArray represents an array creation: either sized (`new T[n][m]`) or
// initialized (`new T[]{...}` or a bare `{...}`).
type NewArray struct {
	ExprBase

	// The element type as written.  This is nil for bare initializers until the
	// array type is known from context.
	ElemType types.Type

	// The size expressions of the sized dimensions.
	Sizes []ASTExpr

	// The number of trailing unsized dimensions: `new int[3][]` has one.
	ExtraRank int

	// The elements of an initialized array.
	Elements []ASTExpr

	// Whether the array has a literal initializer.
	HasInit bool
}

// -----------------------------------------------------------------------------

// Lambda represents an anonymous function.
type Lambda struct {
	ExprBase

	Params []*Param

	// The body: either an ASTExpr or a *Block.
	Body ASTNode
}

// MethodRef represents a method reference: `Class::method` or `x::method`.
type MethodRef struct {
	ExprBase

	// The class or receiver before the `::`.
	Receiver ASTExpr

	Method     string
	MethodSpan *report.TextSpan
}

// Super represents a use of the `super` keyword.
type Super struct {
	ExprBase
}

// BadExpr stands in for an expression made of a malformed token.  The error
// has already been reported by the time it is created.
type BadExpr struct {
	ExprBase
}
