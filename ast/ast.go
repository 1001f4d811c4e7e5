package ast

import (
	"cayc/report"
	"cayc/types"
)

// The abstract interface for all AST nodes.
type ASTNode interface {
	// The text span of the AST.
	Span() *report.TextSpan
}

// A utility base struct for all AST nodes.
type ASTBase struct {
	// The span over which the AST node occurs.
	span *report.TextSpan
}

// NewASTBaseOn creates a new AST base with the given span.
func NewASTBaseOn(span *report.TextSpan) ASTBase {
	return ASTBase{span: span}
}

// NewASTBaseOver creates a new AST base spanning over two spans.
func NewASTBaseOver(start, end *report.TextSpan) ASTBase {
	return ASTBase{span: report.NewSpanOver(start, end)}
}

func (ab ASTBase) Span() *report.TextSpan {
	return ab.span
}

// -----------------------------------------------------------------------------

// The abstract interface for all AST expressions.
type ASTExpr interface {
	ASTNode

	// The resolved type of the expression.  This is nil until the expression
	// has been walked.
	Type() types.Type

	// Whether or not the expression can be assigned to.
	Category() int
}

// Enumeration of value categories.
const (
	LValue = iota
	RValue
)

// The base struct for all AST expressions.
type ExprBase struct {
	ASTBase

	// The type of the node.  This is set during semantic analysis.
	NodeType types.Type
}

// NewExprBase creates a new expression base with the given span.
func NewExprBase(span *report.TextSpan) ExprBase {
	return ExprBase{ASTBase: NewASTBaseOn(span)}
}

// NewTypedExprBase creates a new expression base with a known type.
func NewTypedExprBase(span *report.TextSpan, typ types.Type) ExprBase {
	return ExprBase{ASTBase: NewASTBaseOn(span), NodeType: typ}
}

func (eb *ExprBase) Type() types.Type {
	return eb.NodeType
}

func (eb *ExprBase) Category() int {
	return RValue
}
