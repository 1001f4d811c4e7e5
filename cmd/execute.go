package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"cayc/common"
	"cayc/depm"
	"cayc/report"

	"github.com/ComedicChimera/olive"
)

// Execute is the main entry point for the `cayc` CLI utility.
func Execute() {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("cayc", "cayc is the compiler for the Cay language", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the compiler log level", false, []string{"silent", "error", "warn", "verbose"})
	logLvlArg.SetDefaultValue("verbose")

	buildCmd := cli.AddSubcommand("build", "compile source code to an executable", true)
	buildCmd.AddPrimaryArg("path", "the path to the project directory or source file to compile", true)
	buildCmd.AddStringArg("profile", "p", "the name of the profile to build", false)
	buildCmd.AddStringArg("outpath", "o", "the path to the output executable", false)
	buildCmd.AddStringArg("entry", "e", "the name of the entry class", false)
	buildCmd.AddFlag("dump-ast", "da", "pretty-print the annotated AST of each source file")

	irCmd := cli.AddSubcommand("ir", "compile source code to LLVM IR", true)
	irCmd.AddPrimaryArg("path", "the path to the project directory or source file to compile", true)
	irCmd.AddStringArg("profile", "p", "the name of the profile to build", false)
	irCmd.AddStringArg("outpath", "o", "the path to the output IR file", false)
	irCmd.AddFlag("dump-ast", "da", "pretty-print the annotated AST of each source file")

	linkCmd := cli.AddSubcommand("link", "compile LLVM IR to an executable", true)
	linkCmd.AddPrimaryArg("ir-path", "the path to the LLVM IR file", true)
	linkCmd.AddStringArg("outpath", "o", "the path to the output executable", false)
	linkCmd.AddStringArg("clang", "c", "the path to clang", false)

	cli.AddSubcommand("version", "print the Cay version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		report.InitReporter(report.LogLevelError)
		report.ReportFatal("CLI usage error: %s", err)
	}

	report.InitReporter(report.ParseLogLevel(result.Arguments["loglevel"].(string)))

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "build":
		execCompileCommand(subResult, true)
	case "ir":
		execCompileCommand(subResult, false)
	case "link":
		execLinkCommand(subResult)
	case "version":
		report.DisplayInfoMessage("Cay Version", common.CayVersion)
	}
}

// execCompileCommand executes the `build` or `ir` subcommand.
func execCompileCommand(result *olive.ArgParseResult, executable bool) {
	path, _ := result.PrimaryArg()

	bp, err := LoadBuildProfile(path, stringArg(result, "profile"))
	if err != nil {
		report.ReportFatal("%s", err)
	}

	if outPath := stringArg(result, "outpath"); outPath != "" {
		absOutPath, err := filepath.Abs(outPath)
		if err != nil {
			report.ReportFatal("error calculating absolute path: %s", err)
		}

		bp.OutputPath = absOutPath
		if !executable {
			bp.OutputPath = strings.TrimSuffix(absOutPath, ".ll") + exeExt()
		}
	}

	if entry := stringArg(result, "entry"); entry != "" {
		bp.Entry = entry
	}

	ok := Build(bp, BuildOptions{
		DumpAST:    result.HasFlag("dump-ast"),
		Executable: executable,
	})

	if executable {
		report.ReportCompilationFinished(bp.OutputPath)
	} else {
		report.ReportCompilationFinished(bp.IRPath())
	}

	if !ok {
		os.Exit(1)
	}
}

// execLinkCommand executes the `link` subcommand.
func execLinkCommand(result *olive.ArgParseResult) {
	irPath, _ := result.PrimaryArg()

	outPath := stringArg(result, "outpath")
	if outPath == "" {
		outPath = strings.TrimSuffix(irPath, filepath.Ext(irPath)) + exeExt()
	}

	prof := depm.DefaultProfile()
	if clang := stringArg(result, "clang"); clang != "" {
		prof.Clang = clang
	}

	report.ReportBeginPhase("Linking")

	if err := linkExecutable(prof, irPath, outPath); err != nil {
		report.ReportEndPhase()
		report.ReportFatal("%s", err)
	}

	report.ReportEndPhase()
	report.ReportCompilationFinished(outPath)
}

// stringArg returns the value of an optional string argument or the empty
// string if it was not given.
func stringArg(result *olive.ArgParseResult, name string) string {
	if val, ok := result.Arguments[name]; ok {
		return val.(string)
	}

	return ""
}
