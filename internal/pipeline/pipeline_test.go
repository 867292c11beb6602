// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/Meow0x7E/DoL-Mods/internal/archive"
	"github.com/Meow0x7E/DoL-Mods/internal/compiler"
	"github.com/Meow0x7E/DoL-Mods/internal/project"
	"github.com/Meow0x7E/DoL-Mods/internal/testutil"
	"github.com/Meow0x7E/DoL-Mods/pkg/modpack"
)

const graphicPack = `
name:    "IGP"
version: "1.0.0"
plugins: [{kind: "beautySelector", modVersion: "v2.0.0"}]
dependencies: [{modName: "ModLoader", version: "^2.18.3"}]
imagePacks: [
	{name: "Original"},
	{name: "Wax", repoUrl: "https://example.invalid/wax.git"},
	{name: "Off", enable: false},
]
additionFiles: ["README.md"]
`

// loadProject writes a project file plus files under a fresh directory.
func loadProject(t *testing.T, cue string, files map[string]string) *project.Project {
	t.Helper()

	dir := t.TempDir()
	testutil.WriteTree(t, dir, files)
	testutil.MustWriteFile(t, filepath.Join(dir, project.FileName), cue)
	p, err := project.Load(dir)
	if err != nil {
		t.Fatalf("project.Load() failed: %v", err)
	}
	return p
}

func graphicPackProject(t *testing.T) *project.Project {
	t.Helper()
	return loadProject(t, graphicPack, map[string]string{
		"README.md":                       "# IGP",
		"img.d/Original/img/face/a.png":   "a",
		"img.d/Original/img/body.gif":     "b",
		"img.d/Original/img/notes.txt":    "ignored",
		"img.d/Original/LICENSE":          "license",
		"img.d/Wax/img/hair.svg":          "<svg/>",
		"img.d/Wax/.git/HEAD":             "ref",
		"img.d/Off/img/never.png":         "x",
	})
}

func TestRun_ImagePacks(t *testing.T) {
	t.Parallel()

	p := graphicPackProject(t)
	result, err := Run(context.Background(), Options{Project: p, Author: "Meow0x7E"})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	wantArchive := filepath.Join(p.Dir, "build", "Meow0x7E-IGP-v1.0.0.mod.zip")
	if result.ArchivePath != wantArchive {
		t.Errorf("ArchivePath = %q, want %q", result.ArchivePath, wantArchive)
	}
	if result.ManifestPath != filepath.Join(p.Dir, "build", "boot.json") {
		t.Errorf("ManifestPath = %q", result.ManifestPath)
	}
	if _, statErr := os.Stat(filepath.Join(p.Dir, "build", stagingDirName)); !errors.Is(statErr, os.ErrNotExist) {
		t.Error("staging directory should be removed")
	}
	if got := testutil.MustReadFile(t, result.ManifestPath); got != string(result.ManifestJSON) {
		t.Error("manifest on disk differs from the returned JSON")
	}

	index := testutil.MustReadFile(t, filepath.Join(p.Dir, "build", "img.d", "Original", "imgFileList.json"))
	if index != "[\n\t\"img/body.gif\",\n\t\"img/face/a.png\"\n]" {
		t.Errorf("Original index = %q", index)
	}

	entries := testutil.ZipEntries(t, wantArchive)
	want := []string{
		"boot.json",
		"img.d/Wax/imgFileList.json",
		"img.d/Original/imgFileList.json",
		"README.md",
		"img.d/Wax/img/hair.svg",
		"img.d/Original/LICENSE",
		"img.d/Original/img/body.gif",
		"img.d/Original/img/face/a.png",
		"img.d/Original/img/notes.txt",
	}
	if !slices.Equal(entries, want) {
		t.Fatalf("archive entries =\n%v\nwant\n%v", entries, want)
	}

	pm, err := archive.ReadManifest(wantArchive, "boot.json")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(pm.AdditionDir, []string{"img.d/Wax", "img.d/Original"}) {
		t.Errorf("additionDir = %v", pm.AdditionDir)
	}
	if readme, ok := pm.Readme(); !ok || readme != "README.md" {
		t.Errorf("Readme() = %q, %v", readme, ok)
	}
	deps := []modpack.Dependency{
		{ModName: "ModLoader", Version: "^2.18.3"},
		{ModName: modpack.BeautySelectorAddonName, Version: "v2.0.0"},
	}
	if !slices.Equal(pm.DependenceInfo, deps) {
		t.Errorf("dependenceInfo = %v, want %v", pm.DependenceInfo, deps)
	}

	plugins, err := pm.Plugins()
	if err != nil {
		t.Fatal(err)
	}
	selector, ok := plugins[0].(*modpack.BeautySelectorAddon)
	if !ok {
		t.Fatalf("plugin = %T", plugins[0])
	}
	wantTypes := []modpack.SelectorType{
		{Type: "Wax", ImgFileListFile: "img.d/Wax/imgFileList.json"},
		{Type: "Original", ImgFileListFile: "img.d/Original/imgFileList.json"},
	}
	if !slices.Equal(selector.Types(), wantTypes) {
		t.Errorf("selector types = %v, want %v", selector.Types(), wantTypes)
	}
}

func TestRun_DryRun(t *testing.T) {
	t.Parallel()

	p := graphicPackProject(t)
	result, err := Run(context.Background(), Options{Project: p, DryRun: true})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if result.ArchivePath != "" || result.ManifestPath != "" {
		t.Errorf("dry run produced paths %q %q", result.ArchivePath, result.ManifestPath)
	}
	if result.Plan == nil || result.Plan.Len() != 9 {
		t.Fatalf("Plan = %+v", result.Plan)
	}
	if !strings.Contains(string(result.ManifestJSON), `"type": "Wax"`) {
		t.Errorf("manifest JSON = %s", result.ManifestJSON)
	}
	if _, statErr := os.Stat(filepath.Join(p.Dir, "build")); !errors.Is(statErr, os.ErrNotExist) {
		t.Error("dry run should not create the build directory")
	}
}

func TestRun_OutputDirAndManifestName(t *testing.T) {
	t.Parallel()

	p := loadProject(t, `name: "Tiny", version: "0.1.0", additionFiles: ["readme.txt"]`, map[string]string{
		"readme.txt": "hi",
	})
	out := t.TempDir()
	result, err := Run(context.Background(), Options{
		Project:      p,
		OutputDir:    out,
		ManifestName: "manifest.json",
		Serializer:   modpack.Serializer{Indent: "  "},
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.ArchivePath != filepath.Join(out, "Tiny-v0.1.0.mod.zip") {
		t.Errorf("ArchivePath = %q", result.ArchivePath)
	}
	entries := testutil.ZipEntries(t, result.ArchivePath)
	if !slices.Equal(entries, []string{"manifest.json", "readme.txt"}) {
		t.Errorf("entries = %v", entries)
	}
	if !strings.Contains(string(result.ManifestJSON), "\n  \"name\": \"Tiny\"") {
		t.Errorf("indent not applied: %s", result.ManifestJSON)
	}
}

func TestRun_Scripts(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("skipping: test compiler uses sh")
	}

	p := loadProject(t, `
name: "YanLing"
version: "0.1.1"
scripts: [{unit: "script"}, {unit: "preload"}, {unit: "earlyload"}]
assets: [{category: "twee", dir: "assets.d/twee.d", extensions: ["twee"]}]
`, map[string]string{
		"src/typescript.d/script.d/index.ts":  "export {}",
		"src/typescript.d/preload.d/index.ts": "export {}",
		"src/assets.d/twee.d/Start.twee":      ":: Start",
	})

	// The stand-in compiler emits one file per unit and records the workspace.
	c := compiler.Compiler{Command: `sh -c 'mkdir -p build/javascript.d/$1.d && echo "// $0" > build/javascript.d/$1.d/Main.JS && echo "TSFILE: build/javascript.d/$1.d/Main.JS"' $PROJECT $UNIT`}
	result, err := Run(context.Background(), Options{Project: p, Compiler: c})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	m := result.Manifest
	paths := func(c modpack.Category) []string {
		var out []string
		for _, s := range m.Category(c) {
			out = append(out, s.Destination().RelativeDestination().String())
		}
		return out
	}
	if got := paths(modpack.CategoryScript); !slices.Equal(got, []string{"javascript.d/script.d/Main.JS"}) {
		t.Errorf("scriptFileList = %v", got)
	}
	if got := paths(modpack.CategoryPreload); !slices.Equal(got, []string{"javascript.d/preload.d/Main.JS"}) {
		t.Errorf("scriptFileList_preload = %v", got)
	}
	if got := paths(modpack.CategoryEarlyLoad); len(got) != 0 {
		t.Errorf("unit without sources should be skipped, got %v", got)
	}
	if got := paths(modpack.CategoryTwee); !slices.Equal(got, []string{"assets.d/twee.d/Start.twee"}) {
		t.Errorf("tweeFileList = %v", got)
	}
	if content := testutil.ZipFile(t, result.ArchivePath, "javascript.d/script.d/Main.JS"); !strings.Contains(content, "mod-YanLing") {
		t.Errorf("compiler saw workspace %q", content)
	}
}

func TestRun_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cue      string
		files    map[string]string
		compiler string
		phase    Phase
		resource string
		target   error
		posix    bool
	}{
		{
			name:     "compiler exits non-zero",
			cue:      `name: "M", version: "1", scripts: [{unit: "script"}]`,
			files:    map[string]string{"src/typescript.d/script.d/a.ts": ""},
			compiler: `sh -c 'echo boom >&2; exit 3'`,
			phase:    PhaseCompileScripts,
			resource: "script",
			target:   compiler.ErrExternalProcess,
			posix:    true,
		},
		{
			name:     "missing addition file",
			cue:      `name: "M", version: "1", additionFiles: ["README.md"]`,
			phase:    PhaseCollectAdditionFiles,
			resource: "README.md",
			target:   os.ErrNotExist,
		},
		{
			name:     "addition dir is a file",
			cue:      `name: "M", version: "1", additionDirs: ["data"]`,
			files:    map[string]string{"data": "not a dir"},
			phase:    PhaseCollectAdditionFiles,
			resource: "data",
		},
		{
			name:     "pack index collides with pack content",
			cue:      `name: "M", version: "1", plugins: [{kind: "beautySelector"}], imagePacks: [{name: "P"}]`,
			files:    map[string]string{"img.d/P/img/a.png": "", "img.d/P/imgFileList.json": "[]"},
			phase:    PhaseAssemble,
			resource: "img.d/P/imgFileList.json",
			target:   modpack.ErrDuplicateEntry,
		},
		{
			name:     "missing pack directory",
			cue:      `name: "M", version: "1", plugins: [{kind: "beautySelector"}], imagePacks: [{name: "P", repoUrl: "https://example.invalid/p.git"}]`,
			phase:    PhaseProcessImagePacks,
			resource: "P",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.posix && runtime.GOOS == "windows" {
				t.Skip("skipping: test compiler uses sh")
			}

			p := loadProject(t, tt.cue, tt.files)
			_, err := Run(context.Background(), Options{Project: p, Compiler: compiler.Compiler{Command: tt.compiler}})

			var pe *PhaseError
			if !errors.As(err, &pe) {
				t.Fatalf("Run() error = %v, want *PhaseError", err)
			}
			if pe.Phase != tt.phase || pe.Resource != tt.resource {
				t.Errorf("PhaseError = %s %q, want %s %q", pe.Phase, pe.Resource, tt.phase, tt.resource)
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("Run() error = %v, want %v in chain", err, tt.target)
			}

			build := filepath.Join(p.Dir, "build")
			for _, leftover := range []string{"boot.json", stagingDirName, "M-v1.mod.zip"} {
				if _, statErr := os.Stat(filepath.Join(build, leftover)); !errors.Is(statErr, os.ErrNotExist) {
					t.Errorf("%s left behind after failure", leftover)
				}
			}
		})
	}
}

func TestRun_Canceled(t *testing.T) {
	t.Parallel()

	p := graphicPackProject(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Options{Project: p})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestPhaseError_Error(t *testing.T) {
	t.Parallel()

	err := &PhaseError{Phase: PhaseCompileScripts, Category: "scriptFileList", Resource: "script", Err: errors.New("exit status 2")}
	if got, want := err.Error(), "compileScripts [scriptFileList] script: exit status 2"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	bare := &PhaseError{Phase: PhaseFinalize, Err: errors.New("x")}
	if got := bare.Error(); got != "finalize: x" {
		t.Errorf("Error() = %q", got)
	}
}

func TestUndiscovered(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	inside := filepath.Join(dir, "build", "javascript.d", "script.d", "main.js")
	loc, err := modpack.NewLocation(inside, "javascript.d/script.d/main.js")
	if err != nil {
		t.Fatal(err)
	}
	specs := []modpack.CopySpec{loc.CopySpec()}

	stray := filepath.Join(dir, "out", "Stray.JS")
	emitted := []string{
		inside,
		stray,
		filepath.Join(dir, "out", "main.d.ts"),
		filepath.Join(dir, "out", "main.js.map"),
	}
	if got := undiscovered(emitted, specs); !slices.Equal(got, []string{stray}) {
		t.Errorf("undiscovered() = %v, want [%s]", got, stray)
	}
	if got := undiscovered(nil, specs); len(got) != 0 {
		t.Errorf("undiscovered(nil) = %v", got)
	}
}
