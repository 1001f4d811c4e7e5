package ast

import (
	"cayc/common"
	"cayc/report"
)

// VarDecl represents a local variable declaration.
type VarDecl struct {
	ASTBase

	Vars []*LocalVar
}

// LocalVar is a single variable defined by a variable declaration.
type LocalVar struct {
	Sym *common.Symbol

	// The (optional) initializer.
	Init ASTExpr
}

// ExprStmt is an expression evaluated for its side effects.
type ExprStmt struct {
	ASTBase

	Expr ASTExpr
}

// ReturnStmt represents a return statement.
type ReturnStmt struct {
	ASTBase

	// The (optional) returned value.
	Value ASTExpr
}

// BranchStmt represents a break or continue statement.
type BranchStmt struct {
	ASTBase

	// Whether this is a continue statement (as opposed to a break).
	IsContinue bool

	// The (optional) label.
	Label     string
	LabelSpan *report.TextSpan

	// The index of the targeted loop or switch within the stack of enclosing
	// loops and switches, counting from the outermost.  This is set during
	// analysis.
	TargetIndex int
}
