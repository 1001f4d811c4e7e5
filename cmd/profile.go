package cmd

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"cayc/common"
	"cayc/depm"

	"tlog.app/go/errors"
)

// BuildProfile is the resolved configuration of a single build: the sources to
// compile and the profile options with command-line overrides applied.
type BuildProfile struct {
	// The name of the project or of the single source file being built.
	Name string

	// The absolute paths of the source files to compile.
	Sources []string

	// The (optional) entry class override.
	Entry string

	// The absolute path of the build output.
	OutputPath string

	// The selected project profile.
	*depm.Profile
}

// LoadBuildProfile loads the build profile for the project directory or single
// source file at path.  profileName selects a profile of the project; if it is
// empty the default profile is used.
func LoadBuildProfile(path, profileName string) (*BuildProfile, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, "error calculating absolute path of `%s`", path)
	}

	finfo, err := os.Stat(absPath)
	if err != nil {
		return nil, errors.Wrap(err, "unable to access `%s`", path)
	}

	if !finfo.IsDir() {
		if filepath.Ext(absPath) != common.CayFileExt {
			return nil, errors.New("`%s` is not a Cay source file", path)
		}

		if profileName != "" && profileName != depm.DefaultProfileName {
			return nil, errors.New("profile `%s` cannot be selected for a single source file", profileName)
		}

		name := strings.TrimSuffix(filepath.Base(absPath), common.CayFileExt)
		return &BuildProfile{
			Name:       name,
			Sources:    []string{absPath},
			OutputPath: filepath.Join(filepath.Dir(absPath), name+exeExt()),
			Profile:    depm.DefaultProfile(),
		}, nil
	}

	proj, err := depm.LoadProject(absPath)
	if err != nil {
		return nil, err
	}

	if len(proj.Sources) == 0 {
		return nil, errors.New("project `%s` has no source files", proj.Name)
	}

	if profileName == "" {
		profileName = depm.DefaultProfileName
	}

	prof, ok := proj.Profiles[profileName]
	if !ok {
		return nil, errors.New("project `%s` has no profile named `%s`", proj.Name, profileName)
	}

	outputPath := prof.Output
	if outputPath == "" {
		outputPath = filepath.Join("out", proj.Name+exeExt())
	}

	if !filepath.IsAbs(outputPath) {
		outputPath = filepath.Join(proj.AbsPath, outputPath)
	}

	return &BuildProfile{
		Name:       proj.Name,
		Sources:    proj.Sources,
		Entry:      proj.Entry,
		OutputPath: outputPath,
		Profile:    prof,
	}, nil
}

// IRPath returns the path the LLVM IR of the build is written to.
func (bp *BuildProfile) IRPath() string {
	return strings.TrimSuffix(bp.OutputPath, exeExt()) + ".ll"
}

// exeExt returns the extension of executables on the host platform.
func exeExt() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}

	return ""
}
