package ast

import (
	"cayc/common"
	"cayc/report"
)

// Block represents a list of AST statements.
type Block struct {
	ASTBase

	// The statements of the block.
	Stmts []ASTNode
}

// -----------------------------------------------------------------------------

// IfStmt represents an if statement.  Else-if chains are nested if statements
// in the else branch.
type IfStmt struct {
	ASTBase

	Condition ASTExpr
	Body      ASTNode

	// The (optional) else branch.
	Else ASTNode
}

// LoopBase is the base of all loops: loops may carry a label.
type LoopBase struct {
	ASTBase

	// The (optional) loop label.
	Label string
}

// LoopLabel returns the label of the loop.
func (lb *LoopBase) LoopLabel() string {
	return lb.Label
}

// SetLabel attaches a label to the loop.
func (lb *LoopBase) SetLabel(label string) {
	lb.Label = label
}

// WhileLoop represents a while loop.
type WhileLoop struct {
	LoopBase

	Condition ASTExpr
	Body      ASTNode
}

// ForLoop represents a C-style for loop.
type ForLoop struct {
	LoopBase

	// The (optional) initialization statements.
	Init []ASTNode

	// The (optional) loop condition.
	Condition ASTExpr

	// The (optional) update expressions.
	Update []ASTExpr

	Body ASTNode
}

// DoWhileLoop represents a do-while loop.
type DoWhileLoop struct {
	LoopBase

	Body      ASTNode
	Condition ASTExpr
}

// ForEachLoop represents a for-each loop over an array.
type ForEachLoop struct {
	LoopBase

	// The iterator variable.
	IterVar *common.Symbol

	// The sequence being iterated over.
	Sequence ASTExpr

	Body ASTNode

	// The hidden index counter symbol.  This is set during analysis.
	IndexSym *common.Symbol

	// The hidden symbol holding the evaluated sequence.
	SeqSym *common.Symbol
}

// SwitchStmt represents a switch statement.  Cases fall through into the case
// following them unless they are exited explicitly.
type SwitchStmt struct {
	LoopBase

	Value ASTExpr
	Cases []*SwitchCase
}

// SwitchCase is a single `case` or `default` clause.
type SwitchCase struct {
	Span *report.TextSpan

	// The case value.  This is nil for the default case.
	Value ASTExpr

	// The constant value of the case.  This is set during analysis.
	ConstValue int64

	Body []ASTNode
}

// IsDefault returns whether the case is the default case.
func (sc *SwitchCase) IsDefault() bool {
	return sc.Value == nil
}

// Labelable is implemented by statements which can carry a label and be the
// target of break or continue.
type Labelable interface {
	ASTNode

	LoopLabel() string
	SetLabel(label string)
}

// LabeledStmt is a labeled statement which is not a loop or a switch: such
// statements can be labeled but never targeted.
type LabeledStmt struct {
	ASTBase

	Label     string
	LabelSpan *report.TextSpan

	Stmt ASTNode
}
