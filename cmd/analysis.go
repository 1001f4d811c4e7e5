package cmd

import (
	"sync"

	"cayc/depm"
	"cayc/report"
	"cayc/syntax"
	"cayc/util"
	"cayc/walk"
)

// analyze preprocesses, parses and semantically analyzes all the units of a
// program.  Preprocessing may add units for included files.  Units are parsed
// and walked concurrently; the declarations of every unit are registered in
// between so that units may refer to each other's classes.  Internal compiler
// errors raised by any unit are returned.
func analyze(prog *depm.Program, includeDirs []string) error {
	syntax.NewPreprocessor(prog, includeDirs).Preprocess()

	if err := forEachUnit(prog.Units, parseUnit); err != nil {
		return err
	}

	// Units that failed to parse are registered so that other units can still
	// resolve their classes, but they are not walked.
	parsed := util.Filter(prog.Units, func(unit *depm.SourceUnit) bool {
		return !unit.Diagnostics.AnyErrors()
	})

	for _, unit := range prog.Units {
		walk.RegisterDecls(prog, unit)
	}

	prog.Seal()

	return forEachUnit(parsed, func(unit *depm.SourceUnit) {
		walk.WalkUnit(prog, unit)
	})
}

// parseUnit parses a single source unit.
func parseUnit(unit *depm.SourceUnit) {
	syntax.NewParser(unit).Parse()
}

// forEachUnit runs f for each unit in its own goroutine and waits for all of
// them to finish.  The first internal compiler error raised is returned.
func forEachUnit(units []*depm.SourceUnit, f func(unit *depm.SourceUnit)) error {
	errs := make([]error, len(units))

	wg := &sync.WaitGroup{}
	for i, unit := range units {
		wg.Add(1)

		go func(i int, unit *depm.SourceUnit) {
			defer wg.Done()
			defer report.CatchICE(&errs[i])

			f(unit)
		}(i, unit)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	return nil
}

// -----------------------------------------------------------------------------

// selectEntry determines the entry class of the program.  An error selecting
// it is added to the unit declaring the offending class or, if there is no
// such class, to the first unit.
func selectEntry(prog *depm.Program, entryClass string) {
	cerr := walk.SelectEntry(prog, entryClass)
	if cerr == nil {
		return
	}

	unitOf(prog, cerr.Span).Diagnostics.AddError(cerr)
}

// unitOf returns the unit declaring the class whose name is at span.
func unitOf(prog *depm.Program, span *report.TextSpan) *depm.SourceUnit {
	for _, unit := range prog.Units {
		for _, class := range unit.Classes {
			if span != nil && class.NameSpan == span {
				return unit
			}
		}
	}

	return prog.Units[0]
}
