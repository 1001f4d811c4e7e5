package cmd

import (
	"cayc/depm"
	"cayc/generate"
	"cayc/report"
	"cayc/walk"

	"github.com/llir/llvm/ir"
	"tlog.app/go/errors"
)

// Options configures a single compilation.
type Options struct {
	// Whether the program must have an entry point: this is true when building
	// an executable.
	RequireEntry bool

	// The (optional) name of the entry class.
	EntryClass string

	// The runtime mode: one of depm.RuntimeEmbedded or depm.RuntimeExternal.
	Runtime string

	// The (optional) target triple of the generated module.
	Target string

	// The directories searched for included files.
	IncludeDirs []string
}

// Result is the outcome of compiling a program.
type Result struct {
	// The compiled program including its annotated units.
	Program *depm.Program

	// The generated LLVM module.  This is nil if there were any errors.
	Module *ir.Module
}

// AnyErrors returns whether any errors were produced for any unit.
func (r *Result) AnyErrors() bool {
	return r.Program.AnyErrors()
}

// IR returns the textual LLVM IR of the generated module.
func (r *Result) IR() string {
	if r.Module == nil {
		return ""
	}

	return r.Module.String()
}

// Diagnostics returns all the diagnostics of the program in unit order and
// then source order.
func (r *Result) Diagnostics() []*report.Diagnostic {
	var diags []*report.Diagnostic
	for _, unit := range r.Program.Units {
		diags = append(diags, unit.Diagnostics.Sorted()...)
	}

	return diags
}

// -----------------------------------------------------------------------------

// CompileSource compiles a single source text named reprPath.  Only internal
// compiler errors are returned as errors: user errors are diagnostics in the
// result.
func CompileSource(reprPath, src string, opts Options) (*Result, error) {
	return CompileUnits([]*depm.SourceUnit{depm.NewSourceUnit(reprPath, src)}, opts)
}

// CompileUnits compiles several source units into a single program and LLVM
// module.  Each unit is parsed and its declarations registered before any unit
// is analyzed.
func CompileUnits(units []*depm.SourceUnit, opts Options) (res *Result, err error) {
	defer report.CatchICE(&err)

	if len(units) == 0 {
		return nil, errors.New("no source units to compile")
	}

	prog := depm.NewProgram()
	for _, unit := range units {
		prog.AddUnit(unit)
	}

	res = &Result{Program: prog}

	if err := analyze(prog, opts.IncludeDirs); err != nil {
		return res, err
	}

	if !prog.AnyErrors() {
		if opts.RequireEntry || opts.EntryClass != "" {
			selectEntry(prog, opts.EntryClass)
		} else {
			// Libraries get an entry point only if one is unambiguous.
			walk.SelectEntry(prog, "")
		}
	}

	if !prog.AnyErrors() {
		res.Module = generate.Generate(prog, generate.Options{
			Runtime:    opts.Runtime,
			Target:     opts.Target,
			SourceName: sourceName(prog),
		})
	}

	return res, nil
}

// sourceName returns the source name recorded in the module of a program.
func sourceName(prog *depm.Program) string {
	if len(prog.Units) == 1 {
		return prog.Units[0].ReprPath
	}

	return ""
}
