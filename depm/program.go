package depm

import (
	"cayc/common"
	"cayc/report"
)

// Program is the compilation context shared by all the units being compiled
// together.  It has a two-phase lifecycle: during declaration registration
// classes are added to it; once it is sealed, it is read-only and may be
// shared between goroutines.
type Program struct {
	// Units is the list of source units in the program.
	Units []*SourceUnit

	// The global class table.
	classes map[string]*common.ClassInfo

	// The classes in the order they were registered.
	classOrder []*common.ClassInfo

	// Whether the program has been sealed.
	sealed bool

	// The entry class of the program.  This is set when the program is sealed
	// if an entry class can be determined.
	Entry *common.ClassInfo
}

// NewProgram creates a new program.
func NewProgram() *Program {
	return &Program{classes: make(map[string]*common.ClassInfo)}
}

// AddUnit adds a source unit to the program.
func (p *Program) AddUnit(unit *SourceUnit) {
	p.mustNotBeSealed()

	unit.UnitNumber = len(p.Units)
	p.Units = append(p.Units, unit)
}

// DefineClass adds a class to the global class table.  It returns false if a
// class by the same name already exists.
func (p *Program) DefineClass(ci *common.ClassInfo) bool {
	p.mustNotBeSealed()

	if _, ok := p.classes[ci.Name]; ok {
		return false
	}

	p.classes[ci.Name] = ci
	p.classOrder = append(p.classOrder, ci)
	return true
}

// LookupClass looks up a class by name.
func (p *Program) LookupClass(name string) (*common.ClassInfo, bool) {
	ci, ok := p.classes[name]
	return ci, ok
}

// Classes returns all the classes in registration order.
func (p *Program) Classes() []*common.ClassInfo {
	return p.classOrder
}

// Seal ends the declaration registration phase.
func (p *Program) Seal() {
	p.sealed = true
}

// Sealed returns whether the program has been sealed.
func (p *Program) Sealed() bool {
	return p.sealed
}

func (p *Program) mustNotBeSealed() {
	if p.sealed {
		report.ICE("attempted to modify a sealed program")
	}
}

// AnyErrors returns whether any unit in the program has errors.
func (p *Program) AnyErrors() bool {
	for _, unit := range p.Units {
		if unit.Diagnostics.AnyErrors() {
			return true
		}
	}

	return false
}
