package depm

import (
	"cayc/ast"
	"cayc/report"
)

// SourceUnit represents a single Cay compilation unit: one source text.
type SourceUnit struct {
	// The number identifying the unit within its program.
	UnitNumber int

	// ReprPath is the representative path of the unit used in diagnostics.
	ReprPath string

	// Src is the source text of the unit.
	Src string

	// Classes is the list of class declarations that make up the unit.
	Classes []*ast.ClassDecl

	// Diagnostics is the list of diagnostics produced for the unit.
	Diagnostics *report.Diagnostics
}

// NewSourceUnit creates a new source unit.
func NewSourceUnit(reprPath, src string) *SourceUnit {
	return &SourceUnit{
		ReprPath:    reprPath,
		Src:         src,
		Diagnostics: &report.Diagnostics{},
	}
}
