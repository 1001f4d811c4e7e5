package depm

import (
	"os"
	"path/filepath"
	"testing"

	"cayc/common"
	"cayc/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		fpath := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(fpath), 0755))
		require.NoError(t, os.WriteFile(fpath, []byte(content), 0644))
	}
}

func TestLoadProject(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		common.CayProjectFileName: `
name = "demo"
entry = "Main"
sources = ["src/*.cay", "src/Main.cay"]

[profile.release]
opt-level = "O2"
runtime = "external"
keep-ir = true
link-flags = ["-lm"]
include-dirs = ["include", "/opt/cay/include"]
`,
		"src/Main.cay":  "class Main {}",
		"src/Util.cay":  "class Util {}",
		"src/notes.txt": "",
	})

	proj, err := LoadProject(dir)
	require.NoError(t, err)

	assert.Equal(t, "demo", proj.Name)
	assert.Equal(t, "Main", proj.Entry)
	assert.Equal(t, []string{
		filepath.Join(dir, "src", "Main.cay"),
		filepath.Join(dir, "src", "Util.cay"),
	}, proj.Sources)

	release := proj.Profiles["release"]
	require.NotNil(t, release)
	assert.Equal(t, "O2", release.OptLevel)
	assert.Equal(t, RuntimeExternal, release.Runtime)
	assert.Equal(t, "clang", release.Clang)
	assert.True(t, release.KeepIR)
	assert.Equal(t, []string{"-lm"}, release.LinkFlags)
	assert.Equal(t, []string{filepath.Join(dir, "include"), "/opt/cay/include"}, release.IncludeDirs)

	// A default profile is always available.
	assert.Equal(t, DefaultProfile(), proj.Profiles[DefaultProfileName])
}

func TestLoadProjectDefaultSources(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		common.CayProjectFileName: `name = "demo"`,
		"B.cay":                   "",
		"A.cay":                   "",
	})

	proj, err := LoadProject(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dir, "A.cay"), filepath.Join(dir, "B.cay")}, proj.Sources)
}

func TestParseProjectErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"missing name", `entry = "Main"`, "missing a name"},
		{"bad toml", `name = `, "error parsing project file"},
		{"bad runtime", "name = \"x\"\n[profile.debug]\nruntime = \"jit\"", "unknown runtime mode `jit`"},
		{"bad opt level", "name = \"x\"\n[profile.fast]\nopt-level = \"O9\"", "invalid optimization level `O9`"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseProject(t.TempDir(), []byte(test.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.msg)
		})
	}
}

func TestLoadProjectMissingFile(t *testing.T) {
	_, err := LoadProject(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to read project file")
}

// -----------------------------------------------------------------------------

func TestProgramClassTable(t *testing.T) {
	prog := NewProgram()

	a := common.NewClassInfo("A", nil)
	b := common.NewClassInfo("B", nil)

	assert.True(t, prog.DefineClass(b))
	assert.True(t, prog.DefineClass(a))
	assert.False(t, prog.DefineClass(common.NewClassInfo("A", nil)))

	ci, ok := prog.LookupClass("A")
	require.True(t, ok)
	assert.Same(t, a, ci)

	assert.Equal(t, []*common.ClassInfo{b, a}, prog.Classes())
}

func TestSealedProgramIsReadOnly(t *testing.T) {
	prog := NewProgram()
	prog.AddUnit(NewSourceUnit("a.cay", ""))
	prog.Seal()

	assert.True(t, prog.Sealed())

	var err error
	func() {
		defer report.CatchICE(&err)
		prog.DefineClass(common.NewClassInfo("A", nil))
	}()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "sealed program")
}

func TestProgramAnyErrors(t *testing.T) {
	prog := NewProgram()

	a := NewSourceUnit("a.cay", "")
	b := NewSourceUnit("b.cay", "")
	prog.AddUnit(a)
	prog.AddUnit(b)

	assert.Equal(t, 1, b.UnitNumber)

	b.Diagnostics.Warn(report.ControlFlowError, nil, "unreachable code")
	assert.False(t, prog.AnyErrors())

	b.Diagnostics.Add(report.NameError, nil, "undefined name: `x`")
	assert.True(t, prog.AnyErrors())
}
