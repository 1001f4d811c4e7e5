package ast

import (
	"cayc/common"
	"cayc/report"
	"cayc/types"
)

// Enumeration of declaration modifiers.  Modifiers are stored as a bit set.
const (
	ModPublic = 1 << iota
	ModPrivate
	ModProtected
	ModStatic
	ModFinal
	ModAbstract
	ModNative
)

// ClassDecl is the declaration of a class.
type ClassDecl struct {
	ASTBase

	Name     string
	NameSpan *report.TextSpan

	Modifiers int

	// The annotations applied to the class by name.
	Annotations map[string]*report.TextSpan

	// The members of the class in declaration order.
	Fields  []*FieldDecl
	Methods []*MethodDecl
	Ctors   []*MethodDecl

	// The registered class info.  This is set during declaration registration.
	Info *common.ClassInfo
}

// FieldDecl is the declaration of a single class field.
type FieldDecl struct {
	ASTBase

	Name     string
	NameSpan *report.TextSpan

	Modifiers int
	Type      types.Type

	// The (optional) field initializer.
	Init ASTExpr

	// The registered field info.
	Info *common.FieldInfo
}

// MethodDecl is the declaration of a method or constructor.
type MethodDecl struct {
	ASTBase

	Name     string
	NameSpan *report.TextSpan

	Modifiers  int
	ReturnType types.Type
	Params     []*Param

	// The body of the method.  This is nil for native and abstract methods.
	Body *Block

	// Whether the method is a constructor.
	IsCtor bool

	// The registered method info.
	Info *common.MethodInfo
}

// Param is a method or lambda parameter.
type Param struct {
	Name string
	Span *report.TextSpan

	// The parameter type.  This may be nil for untyped lambda parameters.  The
	// type of a variadic parameter is its array type.
	Type types.Type

	Variadic bool

	// The local symbol of the parameter.  This is set during analysis.
	Sym *common.Symbol
}

// HasModifier returns whether the modifier set mods contains mod.
func HasModifier(mods, mod int) bool {
	return mods&mod != 0
}
