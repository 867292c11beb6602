// SPDX-License-Identifier: MPL-2.0

package project

import (
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/Meow0x7E/DoL-Mods/internal/testutil"
	"github.com/Meow0x7E/DoL-Mods/pkg/cueutil"
	"github.com/Meow0x7E/DoL-Mods/pkg/modpack"
)

const graphicPackProject = `
name:    "Integrated-Graphic-Pack"
version: "1.0.0-Alpha"

plugins: [{kind: "beautySelector", modVersion: "v2.0.0"}]

dependencies: [
	{modName: "ModLoader", version: "^2.18.3"},
	{modName: "BeautySelectorAddon", version: "^2.0.0"},
]

imagePacks: [
	{name: "GameOriginalImagePack"},
	{name: "BEEESSS Wax", repoUrl: "https://gitgud.io/GTXMEGADUDE/beeesss-wax"},
	{name: "Tattoo", enable: false},
]
`

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, FileName), graphicPackProject)

	p, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if p.Name != "Integrated-Graphic-Pack" || p.Version != "1.0.0-Alpha" {
		t.Errorf("identity = %q %q", p.Name, p.Version)
	}
	if p.Dir != dir {
		t.Errorf("Dir = %q, want %q", p.Dir, dir)
	}
	if p.Workspace != "mod-Integrated-Graphic-Pack" {
		t.Errorf("Workspace default = %q", p.Workspace)
	}
	if p.BuildDir != "build" {
		t.Errorf("BuildDir default = %q", p.BuildDir)
	}
	if len(p.Dependencies) != 2 || p.Dependencies[1] != (modpack.Dependency{ModName: "BeautySelectorAddon", Version: "^2.0.0"}) {
		t.Errorf("Dependencies = %v", p.Dependencies)
	}

	enabled := p.EnabledImagePacks()
	if len(enabled) != 2 || enabled[0].Name != "GameOriginalImagePack" || enabled[1].Name != "BEEESSS Wax" {
		t.Fatalf("EnabledImagePacks() = %+v", enabled)
	}
	if enabled[1].Dir != "img.d/BEEESSS Wax" {
		t.Errorf("image pack dir default = %q", enabled[1].Dir)
	}
	if !slices.Equal(enabled[0].Extensions, []string{"gif", "svg", "png"}) {
		t.Errorf("image pack extensions default = %v", enabled[0].Extensions)
	}
	if enabled[0].IndexPath() != "img.d/GameOriginalImagePack/imgFileList.json" {
		t.Errorf("IndexPath() = %q", enabled[0].IndexPath())
	}

	plugin, err := p.Plugins[0].Build()
	if err != nil {
		t.Fatal(err)
	}
	if plugin.Kind() != modpack.KindBeautySelector || plugin.ModVersion() != "v2.0.0" {
		t.Errorf("plugin = %s %s", plugin.Kind(), plugin.ModVersion())
	}
}

func TestLoad_NotAProject(t *testing.T) {
	t.Parallel()

	_, err := Load(t.TempDir())
	if !errors.Is(err, ErrNotAProject) {
		t.Errorf("Load() error = %v, want ErrNotAProject", err)
	}
}

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	p, err := Parse([]byte(`
name: "YanLing"
version: "0.1.1"
scripts: [{unit: "script"}, {unit: "preload"}]
assets: [{category: "twee", dir: "assets.d/twee.d", extensions: ["twee"]}]
`), FileName)
	if err != nil {
		t.Fatal(err)
	}

	s := p.Scripts[0]
	if s.Source != "src/typescript.d/script.d" || s.Output != "build/javascript.d/script.d" {
		t.Errorf("script defaults = %+v", s)
	}
	if p.Scripts[1].Category() != modpack.CategoryPreload {
		t.Errorf("preload unit category = %s", p.Scripts[1].Category())
	}
	a := p.Assets[0]
	if a.Base != "src" || a.CaseInsensitive || a.ParsedCategory() != modpack.CategoryTwee {
		t.Errorf("asset defaults = %+v", a)
	}
	if len(p.AdditionFiles) != 0 || len(p.ImagePacks) != 0 {
		t.Errorf("list defaults = %v %v", p.AdditionFiles, p.ImagePacks)
	}
}

func TestParse_SchemaErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{"missing name", `version: "1"`},
		{"empty version", `name: "x", version: ""`},
		{"unknown field", `name: "x", version: "1", colour: "red"`},
		{"unknown category", `name: "x", version: "1", assets: [{category: "video", dir: "v"}]`},
		{"unknown unit", `name: "x", version: "1", scripts: [{unit: "late"}]`},
		{"absolute addition file", `name: "x", version: "1", additionFiles: ["/etc/passwd"]`},
		{"bad plugin kind", `name: "x", version: "1", plugins: [{kind: "magic"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.data), FileName)
			if !errors.Is(err, cueutil.ErrValidation) {
				t.Errorf("Parse() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		problem string
	}{
		{
			name:    "image packs without selector",
			data:    `name: "x", version: "1", imagePacks: [{name: "a"}]`,
			problem: "need a \"beautySelector\" plugin",
		},
		{
			name:    "duplicate image pack",
			data:    `name: "x", version: "1", plugins: [{kind: "beautySelector"}], imagePacks: [{name: "a"}, {name: "a"}]`,
			problem: "declared twice",
		},
		{
			name:    "duplicate script unit",
			data:    `name: "x", version: "1", scripts: [{unit: "script"}, {unit: "script"}]`,
			problem: "declared twice",
		},
		{
			name:    "escaping path",
			data:    `name: "x", version: "1", additionDirs: ["../outside"]`,
			problem: "escapes the archive root",
		},
		{
			name:    "raw plugin without identity",
			data:    `name: "x", version: "1", plugins: [{kind: "raw", modName: "TweeReplacer"}]`,
			problem: "needs modName",
		},
		{
			name:    "selector with foreign mod name",
			data:    `name: "x", version: "1", plugins: [{kind: "beautySelector", modName: "Other"}]`,
			problem: "cannot override modName",
		},
		{
			name:    "two selectors",
			data:    `name: "x", version: "1", plugins: [{kind: "beautySelector"}, {kind: "beautySelector"}]`,
			problem: "declared 2 times",
		},
		{
			name:    "invalid glob",
			data:    `name: "x", version: "1", assets: [{category: "img", dir: "img", include: ["[oops"]}]`,
			problem: "invalid glob",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.data), FileName)
			if !errors.Is(err, ErrInvalidProject) {
				t.Fatalf("Parse() error = %v, want ErrInvalidProject", err)
			}
			if !strings.Contains(err.Error(), tt.problem) {
				t.Errorf("error %q should mention %q", err, tt.problem)
			}
		})
	}
}

func TestRawPlugin(t *testing.T) {
	t.Parallel()

	p, err := Parse([]byte(`
name: "x"
version: "1"
plugins: [{
	kind: "raw"
	modName: "TweeReplacer"
	addonName: "TweeReplacerAddon"
	modVersion: "^1.0.0"
	params: [{passage: "Start", findString: "a", replace: "b"}]
}]
`), FileName)
	if err != nil {
		t.Fatal(err)
	}

	plugin, err := p.Plugins[0].Build()
	if err != nil {
		t.Fatal(err)
	}
	data, err := modpack.EncodePlugin(plugin)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"params":[{"findString":"a","passage":"Start","replace":"b"}]`) &&
		!strings.Contains(string(data), `"params":[{"passage":"Start","findString":"a","replace":"b"}]`) {
		t.Errorf("EncodePlugin() = %s", data)
	}
}

func TestArchiveName(t *testing.T) {
	t.Parallel()

	p := &Project{Name: "YanLing", Version: "0.1.1"}
	if got := p.ArchiveName("Meow0x7E"); got != "Meow0x7E-YanLing-v0.1.1.mod.zip" {
		t.Errorf("ArchiveName() = %q", got)
	}
	p.Author = "Someone"
	if got := p.ArchiveName("Meow0x7E"); got != "Someone-YanLing-v0.1.1.mod.zip" {
		t.Errorf("ArchiveName() with author = %q", got)
	}
	p.Author = ""
	if got := p.ArchiveName(""); got != "YanLing-v0.1.1.mod.zip" {
		t.Errorf("ArchiveName() without author = %q", got)
	}
}

func TestScriptUnit_OutputBase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		output, buildDir, base, sub string
	}{
		{"build/javascript.d/script.d", "build", "build", "javascript.d/script.d"},
		{"out/js/preload.d", "build", "out", "js/preload.d"},
		{"js.d", "build", ".", "js.d"},
		{"target/gen/js", "target/gen", "target/gen", "js"},
	}
	for _, tt := range tests {
		base, sub := ScriptUnit{Output: tt.output}.OutputBase(tt.buildDir)
		if base != tt.base || sub != tt.sub {
			t.Errorf("OutputBase(%q, %q) = %q, %q; want %q, %q", tt.output, tt.buildDir, base, sub, tt.base, tt.sub)
		}
	}
}

func TestAssetRule_Predicate(t *testing.T) {
	t.Parallel()

	rule := AssetRule{Extensions: []string{"png"}, CaseInsensitive: true, Exclude: []string{"**/raw/**"}}
	pred, err := rule.Predicate()
	if err != nil {
		t.Fatal(err)
	}

	accept := modpack.Entry{RelativePath: "img/a.PNG", IsRegular: true, Extension: "PNG"}
	excluded := modpack.Entry{RelativePath: "img/raw/a.png", IsRegular: true, Extension: "png"}
	dir := modpack.Entry{RelativePath: "img/x.png", IsRegular: false, Extension: "png"}
	if !pred(accept) {
		t.Error("predicate should accept img/a.PNG")
	}
	if pred(excluded) {
		t.Error("predicate should reject excluded path")
	}
	if pred(dir) {
		t.Error("predicate should reject non-regular entries")
	}
}
