// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/fang"

	"github.com/Meow0x7E/DoL-Mods/internal/config"
	"github.com/Meow0x7E/DoL-Mods/internal/project"
	"github.com/Meow0x7E/DoL-Mods/internal/testutil"
)

const twoFileProject = `
name:    "TestMod"
version: "1.0.0"
assets: [{category: "twee", dir: "assets.d/twee.d", extensions: ["twee"]}]
additionFiles: ["README.md"]
`

// staticConfig serves a fixed configuration.
type staticConfig struct {
	cfg  *config.Config
	path string
	err  error
}

func (s staticConfig) Load(context.Context, config.LoadOptions) (*config.Config, string, error) {
	return s.cfg, s.path, s.err
}

type runResult struct {
	stdout string
	stderr string
	err    error
}

// run executes the command tree with cfg and reports errors the way
// Execute does.
func run(t *testing.T, cfg *config.Config, args ...string) runResult {
	t.Helper()

	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	var stdout, stderr bytes.Buffer
	app := NewApp(Dependencies{
		Config: staticConfig{cfg: cfg},
		Stdin:  strings.NewReader(""),
		Stdout: &stdout,
		Stderr: &stderr,
	})
	root := NewRootCommand(app)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	if err != nil {
		app.handleError(&stderr, fang.Styles{}, err)
	}
	return runResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// newProject writes a small mod project and returns its directory.
func newProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{
		project.FileName:                 twoFileProject,
		"README.md":                      "# TestMod\n\nA test mod.",
		"src/assets.d/twee.d/start.twee": ":: Start\nHello",
		"src/assets.d/twee.d/notes.txt":  "not twee",
	})
	return dir
}

func archiveOf(dir string) string {
	return filepath.Join(dir, "build", "Meow0x7E-TestMod-v1.0.0.mod.zip")
}
