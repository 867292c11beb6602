// SPDX-License-Identifier: MPL-2.0

package project

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Meow0x7E/DoL-Mods/pkg/cueutil"
	"github.com/Meow0x7E/DoL-Mods/pkg/modpack"
)

// FileName is the project file looked up in a project directory.
const FileName = "dolmod.cue"

const (
	// PluginKindBeautySelector declares the BeautySelectorAddon.
	PluginKindBeautySelector = "beautySelector"
	// PluginKindRaw declares any other addon verbatim.
	PluginKindRaw = "raw"
)

//go:embed project_schema.cue
var projectSchema []byte

var (
	// ErrNotAProject is returned when a directory has no project file.
	ErrNotAProject = errors.New("not a mod project")
	// ErrInvalidProject is the sentinel error wrapped by ValidationError.
	ErrInvalidProject = errors.New("invalid project")
)

type (
	// Project is a decoded dolmod.cue. Paths are relative to Dir.
	Project struct {
		Name      string `json:"name"`
		Version   string `json:"version"`
		Author    string `json:"author,omitempty"`
		Workspace string `json:"workspace"`
		BuildDir  string `json:"buildDir"`

		Dependencies []modpack.Dependency `json:"dependencies"`
		Plugins      []PluginSpec         `json:"plugins"`
		Scripts      []ScriptUnit         `json:"scripts"`
		Assets       []AssetRule          `json:"assets"`
		ImagePacks   []ImagePack          `json:"imagePacks"`

		AdditionFiles       []string `json:"additionFiles"`
		AdditionBinaryFiles []string `json:"additionBinaryFiles"`
		AdditionDirs        []string `json:"additionDirs"`

		// Dir is the absolute project directory.
		Dir string `json:"-"`
	}

	// PluginSpec declares an addon the mod uses.
	PluginSpec struct {
		Kind       string          `json:"kind"`
		ModName    string          `json:"modName,omitempty"`
		AddonName  string          `json:"addonName,omitempty"`
		ModVersion string          `json:"modVersion,omitempty"`
		Params     json.RawMessage `json:"params,omitempty"`
	}

	// ValidationError lists the problems that the schema cannot express.
	// It wraps ErrInvalidProject for errors.Is() compatibility.
	ValidationError struct {
		Path     string
		Problems []string
	}
)

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return fmt.Sprintf("%s: %s", e.Path, e.Problems[0])
	}
	return fmt.Sprintf("%s: %d problems:\n  %s", e.Path, len(e.Problems), strings.Join(e.Problems, "\n  "))
}

// Unwrap returns ErrInvalidProject for errors.Is() compatibility.
func (e *ValidationError) Unwrap() error { return ErrInvalidProject }

// Load reads and validates dir/dolmod.cue.
func Load(dir string) (*Project, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving project directory %q: %w", dir, err)
	}
	path := filepath.Join(absDir, FileName)
	if _, statErr := os.Stat(path); statErr != nil {
		if errors.Is(statErr, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s has no %s", ErrNotAProject, absDir, FileName)
		}
		return nil, fmt.Errorf("reading %s: %w", path, statErr)
	}

	result, err := cueutil.ParseFile[Project](projectSchema, path, "#Project")
	if err != nil {
		return nil, err
	}
	p := result.Value
	p.Dir = absDir
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Parse decodes project file content without touching the filesystem. Dir is
// left empty.
func Parse(data []byte, filename string) (*Project, error) {
	result, err := cueutil.ParseAndDecode[Project](projectSchema, data, "#Project", cueutil.WithFilename(filename))
	if err != nil {
		return nil, err
	}
	if err := result.Value.Validate(); err != nil {
		return nil, err
	}
	return result.Value, nil
}

// Validate checks the rules that span several fields.
func (p *Project) Validate() error {
	var problems []string
	addf := func(format string, args ...any) { problems = append(problems, fmt.Sprintf(format, args...)) }

	checkPath := func(field, value string) {
		if _, err := modpack.NormalizeRelative(value); err != nil {
			addf("%s: %v", field, err)
		}
	}
	checkPath("buildDir", p.BuildDir)

	units := make(map[string]bool)
	for i, s := range p.Scripts {
		if units[s.Unit] {
			addf("scripts[%d]: unit %q is declared twice", i, s.Unit)
		}
		units[s.Unit] = true
		checkPath(fmt.Sprintf("scripts[%d].source", i), s.Source)
		checkPath(fmt.Sprintf("scripts[%d].output", i), s.Output)
	}

	for i, a := range p.Assets {
		if _, err := modpack.ParseCategory(a.Category); err != nil {
			addf("assets[%d].category: %v", i, err)
		}
		checkPath(fmt.Sprintf("assets[%d].dir", i), a.Base+"/"+a.Dir)
		if _, err := a.Predicate(); err != nil {
			addf("assets[%d]: %v", i, err)
		}
	}

	packs := make(map[string]bool)
	enabled := 0
	for i, ip := range p.ImagePacks {
		if packs[ip.Name] {
			addf("imagePacks[%d]: name %q is declared twice", i, ip.Name)
		}
		packs[ip.Name] = true
		checkPath(fmt.Sprintf("imagePacks[%d].dir", i), ip.Dir)
		if ip.Enable {
			enabled++
		}
	}

	selectors := 0
	for i, pl := range p.Plugins {
		if pl.Kind == PluginKindBeautySelector {
			selectors++
		}
		if _, err := pl.Build(); err != nil {
			addf("plugins[%d]: %v", i, err)
		}
	}
	if selectors > 1 {
		addf("plugins: %s is declared %d times", PluginKindBeautySelector, selectors)
	}
	if enabled > 0 && selectors == 0 {
		addf("imagePacks: enabled image packs need a %q plugin", PluginKindBeautySelector)
	}

	for _, f := range []struct {
		name string
		list []string
	}{
		{"additionFiles", p.AdditionFiles},
		{"additionBinaryFiles", p.AdditionBinaryFiles},
		{"additionDirs", p.AdditionDirs},
	} {
		for i, v := range f.list {
			checkPath(fmt.Sprintf("%s[%d]", f.name, i), v)
		}
	}

	if len(problems) == 0 {
		return nil
	}
	path := FileName
	if p.Dir != "" {
		path = filepath.Join(p.Dir, FileName)
	}
	return &ValidationError{Path: path, Problems: problems}
}

// Path resolves a project-relative path.
func (p *Project) Path(rel string) string {
	return filepath.Join(p.Dir, filepath.FromSlash(rel))
}

// ArchiveName returns "<author>-<name>-v<version>.mod.zip". The project's own
// author wins over fallbackAuthor; with neither the prefix is dropped.
func (p *Project) ArchiveName(fallbackAuthor string) string {
	author := p.Author
	if author == "" {
		author = fallbackAuthor
	}
	base := fmt.Sprintf("%s-v%s.mod.zip", p.Name, p.Version)
	if author == "" {
		return base
	}
	return author + "-" + base
}

// EnabledImagePacks returns the enabled packs in declared order.
func (p *Project) EnabledImagePacks() []ImagePack {
	var out []ImagePack
	for _, ip := range p.ImagePacks {
		if ip.Enable {
			out = append(out, ip)
		}
	}
	return out
}

// Build converts the spec into a plugin declaration.
func (s PluginSpec) Build() (modpack.Plugin, error) {
	switch s.Kind {
	case PluginKindBeautySelector:
		if s.ModName != "" && s.ModName != modpack.BeautySelectorAddonName {
			return nil, fmt.Errorf("%s plugin cannot override modName (%q)", s.Kind, s.ModName)
		}
		if s.AddonName != "" && s.AddonName != modpack.BeautySelectorAddonName {
			return nil, fmt.Errorf("%s plugin cannot override addonName (%q)", s.Kind, s.AddonName)
		}
		return modpack.NewBeautySelector(s.ModVersion), nil
	case PluginKindRaw:
		if s.ModName == "" || s.AddonName == "" || s.ModVersion == "" {
			return nil, fmt.Errorf("%s plugin needs modName, addonName and modVersion", s.Kind)
		}
		return modpack.NewRawAddon(s.ModName, s.AddonName, s.ModVersion, s.Params)
	default:
		return nil, fmt.Errorf("unknown plugin kind %q", s.Kind)
	}
}
