package cmd

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"cayc/depm"

	"tlog.app/go/errors"
)

// linkExecutable compiles the LLVM IR file at irPath into an executable at
// outputPath using clang.  The C library is linked implicitly.
func linkExecutable(prof *depm.Profile, irPath, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return errors.Wrap(err, "unable to create output directory")
	}

	args := []string{"-" + prof.OptLevel, "-o", outputPath}
	if prof.Target != "" {
		args = append(args, "--target="+prof.Target)
	}

	// Clang warns about overriding the module's target triple.
	args = append(args, "-Wno-override-module", irPath)
	args = append(args, prof.LinkFlags...)

	clang := exec.Command(prof.Clang, args...)

	stderrBuff := bytes.Buffer{}
	clang.Stderr = &stderrBuff

	if err := clang.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			// Clang was found, but compilation or linking failed.
			return errors.New("link error:\n%s", strings.TrimSpace(stderrBuff.String()))
		}

		return errors.Wrap(err, "failed to run `%s`", prof.Clang)
	}

	return nil
}

// writeOutputFile writes the content of an output file creating its directory
// if necessary.
func writeOutputFile(fpath, content string) error {
	if err := os.MkdirAll(filepath.Dir(fpath), 0755); err != nil {
		return errors.Wrap(err, "unable to create output directory")
	}

	if err := os.WriteFile(fpath, []byte(content), 0644); err != nil {
		return errors.Wrap(err, "failed to write output file `%s`", fpath)
	}

	return nil
}
