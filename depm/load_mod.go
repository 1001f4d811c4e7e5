package depm

import (
	"os"
	"path/filepath"
	"sort"

	"cayc/common"

	"github.com/pelletier/go-toml"
	"tlog.app/go/errors"
)

// Project is a Cay project as described by its project file.
type Project struct {
	// AbsPath is the absolute path to the project directory.
	AbsPath string

	Name string

	// Entry is the name of the entry class.  This may be empty in which case
	// the entry class is inferred.
	Entry string

	// Sources is the list of absolute paths to the project's source files.
	Sources []string

	// Profiles are the build profiles of the project by name.
	Profiles map[string]*Profile
}

// Profile is a build profile: a named set of compiler and backend options.
type Profile struct {
	Output    string   `toml:"output"`
	Runtime   string   `toml:"runtime"`
	OptLevel  string   `toml:"opt-level"`
	Target    string   `toml:"target"`
	Clang     string   `toml:"clang"`
	KeepIR    bool     `toml:"keep-ir"`
	LinkFlags []string `toml:"link-flags"`

	// IncludeDirs are searched for included files.  Relative directories are
	// relative to the project directory.
	IncludeDirs []string `toml:"include-dirs"`
}

// tomlProject represents a Cay project as it is encoded in TOML.
type tomlProject struct {
	Name     string              `toml:"name"`
	Entry    string              `toml:"entry"`
	Sources  []string            `toml:"sources"`
	Version  string              `toml:"cay-version"`
	Profiles map[string]*Profile `toml:"profile"`
}

// Enumeration of runtime modes.
const (
	RuntimeEmbedded = "embedded"
	RuntimeExternal = "external"
)

// DefaultProfileName is the name of the profile used when none is selected.
const DefaultProfileName = "debug"

// DefaultProfile returns the profile used when a project does not define one.
func DefaultProfile() *Profile {
	return &Profile{
		Runtime:  RuntimeEmbedded,
		OptLevel: "O0",
		Clang:    "clang",
	}
}

// LoadProject loads and validates the project in the directory at abspath.
func LoadProject(abspath string) (*Project, error) {
	buff, err := os.ReadFile(filepath.Join(abspath, common.CayProjectFileName))
	if err != nil {
		return nil, errors.Wrap(err, "unable to read project file in `%s`", abspath)
	}

	return ParseProject(abspath, buff)
}

// ParseProject parses the contents of a project file for the project in the
// directory at abspath.
func ParseProject(abspath string, buff []byte) (*Project, error) {
	tomlProj := &tomlProject{}
	if err := toml.Unmarshal(buff, tomlProj); err != nil {
		return nil, errors.Wrap(err, "error parsing project file in `%s`", abspath)
	}

	if tomlProj.Name == "" {
		return nil, errors.New("project in `%s` is missing a name", abspath)
	}

	proj := &Project{
		AbsPath:  abspath,
		Name:     tomlProj.Name,
		Entry:    tomlProj.Entry,
		Profiles: make(map[string]*Profile),
	}

	// Resolve the source globs.
	globs := tomlProj.Sources
	if len(globs) == 0 {
		globs = []string{"*" + common.CayFileExt}
	}

	seen := make(map[string]struct{})
	for _, glob := range globs {
		matches, err := filepath.Glob(filepath.Join(abspath, glob))
		if err != nil {
			return nil, errors.Wrap(err, "invalid source pattern `%s`", glob)
		}

		sort.Strings(matches)
		for _, match := range matches {
			if _, ok := seen[match]; !ok {
				seen[match] = struct{}{}
				proj.Sources = append(proj.Sources, match)
			}
		}
	}

	// Fill in the profile defaults.
	for name, prof := range tomlProj.Profiles {
		if err := validateProfile(name, prof); err != nil {
			return nil, err
		}

		for i, dir := range prof.IncludeDirs {
			if !filepath.IsAbs(dir) {
				prof.IncludeDirs[i] = filepath.Join(abspath, dir)
			}
		}

		proj.Profiles[name] = prof
	}

	if _, ok := proj.Profiles[DefaultProfileName]; !ok {
		proj.Profiles[DefaultProfileName] = DefaultProfile()
	}

	return proj, nil
}

// validateProfile checks a profile and fills in its default values.
func validateProfile(name string, prof *Profile) error {
	defaults := DefaultProfile()

	switch prof.Runtime {
	case "":
		prof.Runtime = defaults.Runtime
	case RuntimeEmbedded, RuntimeExternal:
	default:
		return errors.New("profile `%s`: unknown runtime mode `%s`", name, prof.Runtime)
	}

	switch prof.OptLevel {
	case "":
		prof.OptLevel = defaults.OptLevel
	case "O0", "O1", "O2", "O3", "Os", "Oz":
	default:
		return errors.New("profile `%s`: invalid optimization level `%s`", name, prof.OptLevel)
	}

	if prof.Clang == "" {
		prof.Clang = defaults.Clang
	}

	return nil
}
