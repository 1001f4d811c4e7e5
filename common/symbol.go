package common

import (
	"cayc/report"
	"cayc/types"
)

// Symbol represents a semantic symbol: a named value visible by lookup.  Local
// symbols live in the scope stacks of the walker; class members are wrapped in
// symbols when they are referenced without a receiver.
type Symbol struct {
	// The name of the symbol.
	Name string

	// Where the symbol was defined.
	DefSpan *report.TextSpan

	// The type of the value stored in the symbol.
	Type types.Type

	// The symbol's storage: where its value lives.  This must be one of the
	// enumerated storage kinds.
	Storage int

	// The name of the class owning the symbol if it is a field.
	Owner string

	// Whether or not the symbol is final.
	Constant bool
}

// Enumeration of symbol storage kinds.
const (
	StorageLocal = iota
	StorageParam
	StorageField
	StorageStatic
)

// IsField returns whether the symbol refers to a class member.
func (s *Symbol) IsField() bool {
	return s.Storage == StorageField || s.Storage == StorageStatic
}
