package cmd

import (
	"os"
	"path/filepath"

	"cayc/depm"
	"cayc/report"

	"github.com/kr/pretty"
	"tlog.app/go/errors"
)

// BuildOptions are the command-line options of a build.
type BuildOptions struct {
	// Whether to dump the annotated AST of each unit.
	DumpAST bool

	// Whether to produce an executable (as opposed to only LLVM IR).
	Executable bool
}

// Build compiles the sources of a build profile and writes its output.  It
// returns false if compilation failed: all errors have been reported.
func Build(bp *BuildProfile, opts BuildOptions) bool {
	report.ReportBeginPhase("Parsing")

	units, err := loadUnits(bp.Sources)
	if err != nil {
		report.ReportStdError(bp.Name, err)
		return false
	}

	report.ReportBeginPhase("Analyzing")

	res, err := CompileUnits(units, Options{
		RequireEntry: opts.Executable,
		EntryClass:   bp.Entry,
		Runtime:      bp.Runtime,
		Target:       bp.Target,
		IncludeDirs:  bp.IncludeDirs,
	})
	if err != nil {
		report.ReportEndPhase()
		report.ReportInternalError(err)
		return false
	}

	for _, unit := range res.Program.Units {
		report.ReportDiagnostics(unit.ReprPath, unit.Src, unit.Diagnostics)

		if opts.DumpAST {
			pretty.Println(unit.Classes)
		}
	}

	if res.Module == nil {
		report.ReportEndPhase()
		return false
	}

	report.ReportBeginPhase("Generating")

	irPath := bp.IRPath()
	if err := writeOutputFile(irPath, res.IR()); err != nil {
		report.ReportStdError(bp.Name, err)
		return false
	}

	if !opts.Executable {
		report.ReportEndPhase()
		return true
	}

	report.ReportBeginPhase("Linking")

	if err := linkExecutable(bp.Profile, irPath, bp.OutputPath); err != nil {
		report.ReportStdError(bp.Name, err)
		return false
	}

	if !bp.KeepIR {
		if err := os.Remove(irPath); err != nil {
			report.ReportStdError(bp.Name, errors.Wrap(err, "failed to remove `%s`", irPath))
			return false
		}
	}

	report.ReportEndPhase()
	return true
}

// loadUnits reads the source files at the given paths into source units.  The
// units are named by their paths relative to the working directory if
// possible.
func loadUnits(paths []string) ([]*depm.SourceUnit, error) {
	workDir, _ := os.Getwd()

	units := make([]*depm.SourceUnit, len(paths))
	for i, path := range paths {
		buff, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read source file `%s`", path)
		}

		reprPath := path
		if rel, err := filepath.Rel(workDir, path); err == nil && workDir != "" {
			reprPath = rel
		}

		units[i] = depm.NewSourceUnit(reprPath, string(buff))
	}

	return units, nil
}
