// SPDX-License-Identifier: MPL-2.0

package modpack

import (
	"fmt"
	"slices"
	"strings"
)

// ReadmeToken is the case-insensitive file name prefix that marks the
// package description among the addition files.
const ReadmeToken = "readme"

// Manifest categories, in manifest field order.
const (
	CategoryInjectEarly Category = iota
	CategoryEarlyLoad
	CategoryPreload
	CategoryStyle
	CategoryScript
	CategoryTwee
	CategoryImage
	CategoryAdditionFile
	CategoryAdditionBinaryFile

	categoryCount
)

var categoryKeys = [categoryCount]string{
	CategoryInjectEarly:        "scriptFileList_inject_early",
	CategoryEarlyLoad:          "scriptFileList_earlyload",
	CategoryPreload:            "scriptFileList_preload",
	CategoryStyle:              "styleFileList",
	CategoryScript:             "scriptFileList",
	CategoryTwee:               "tweeFileList",
	CategoryImage:              "imgFileList",
	CategoryAdditionFile:       "additionFile",
	CategoryAdditionBinaryFile: "additionBinaryFile",
}

var categoryAliases = map[string]Category{
	"inject_early":       CategoryInjectEarly,
	"earlyload":          CategoryEarlyLoad,
	"preload":            CategoryPreload,
	"style":              CategoryStyle,
	"script":             CategoryScript,
	"twee":               CategoryTwee,
	"img":                CategoryImage,
	"additionFile":       CategoryAdditionFile,
	"additionBinaryFile": CategoryAdditionBinaryFile,
}

type (
	// Category is the role of a file in the package. The order of the
	// constants is the manifest field order.
	Category int

	// Manifest is the aggregate root of a packaging run: the mod identity, nine
	// ordered file lists, addition directories, plugin declarations and
	// dependencies. List order is significant and preserved end to end.
	//
	// A Manifest has a single writer. It is built by appends during a run and
	// frozen when serialized; appends after Freeze return ErrManifestFrozen.
	Manifest struct {
		Name    string
		Version string

		lists        [categoryCount][]CopySpec
		additionDirs []Location
		plugins      []Plugin
		dependencies []Dependency
		frozen       bool
	}
)

// Categories returns all categories in manifest order.
func Categories() []Category {
	out := make([]Category, categoryCount)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}

// ParseCategory accepts either the short name ("twee", "inject_early") or the
// manifest field name ("tweeFileList").
func ParseCategory(s string) (Category, error) {
	if c, ok := categoryAliases[s]; ok {
		return c, nil
	}
	for i, key := range categoryKeys {
		if key == s {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Valid reports whether c is one of the nine categories.
func (c Category) Valid() bool { return c >= 0 && c < categoryCount }

// Key returns the manifest field name of the category.
func (c Category) Key() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryKeys[c]
}

// String returns the manifest field name.
func (c Category) String() string { return c.Key() }

// Optional reports whether the category's field may be omitted when empty.
// Only the three script-timing lists are optional.
func (c Category) Optional() bool {
	return c == CategoryInjectEarly || c == CategoryEarlyLoad || c == CategoryPreload
}

// New creates an empty manifest.
func New(name, version string) *Manifest {
	return &Manifest{Name: name, Version: version}
}

// AddToCategory appends specs to the category's list.
func (m *Manifest) AddToCategory(c Category, specs ...CopySpec) error {
	if err := m.checkWritable(); err != nil {
		return err
	}
	if !c.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
	m.lists[c] = append(m.lists[c], specs...)
	return nil
}

// AddAuxiliaryDirectory appends a directory copied wholesale into the package.
func (m *Manifest) AddAuxiliaryDirectory(loc Location) error {
	if err := m.checkWritable(); err != nil {
		return err
	}
	m.additionDirs = append(m.additionDirs, loc)
	return nil
}

// AddPlugin appends a copy of a plugin declaration. Later changes to p do
// not reach the manifest.
func (m *Manifest) AddPlugin(p Plugin) error {
	if err := m.checkWritable(); err != nil {
		return err
	}
	if isNilPlugin(p) {
		return ErrNilPlugin
	}
	m.plugins = append(m.plugins, p.clone())
	return nil
}

// AppendSelectorTypes grows the type list of the declared
// BeautySelectorAddon.
func (m *Manifest) AppendSelectorTypes(types ...SelectorType) error {
	if err := m.checkWritable(); err != nil {
		return err
	}
	for _, p := range m.plugins {
		if b, ok := p.(*BeautySelectorAddon); ok {
			b.types = append(b.types, types...)
			return nil
		}
	}
	return ErrNoBeautySelector
}

func isNilPlugin(p Plugin) bool {
	switch v := p.(type) {
	case nil:
		return true
	case *BeautySelectorAddon:
		return v == nil
	case *RawAddon:
		return v == nil
	}
	return false
}

// AddDependency appends a dependency record.
func (m *Manifest) AddDependency(d Dependency) error {
	if err := m.checkWritable(); err != nil {
		return err
	}
	m.dependencies = append(m.dependencies, d)
	return nil
}

// Category returns a copy of the category's list.
func (m *Manifest) Category(c Category) []CopySpec {
	if !c.Valid() {
		return nil
	}
	return slices.Clone(m.lists[c])
}

// AdditionDirs returns a copy of the addition directory list.
func (m *Manifest) AdditionDirs() []Location { return slices.Clone(m.additionDirs) }

// Plugins returns copies of the declared plugins.
func (m *Manifest) Plugins() []Plugin {
	out := make([]Plugin, len(m.plugins))
	for i, p := range m.plugins {
		out[i] = p.clone()
	}
	return out
}

// Dependencies returns a copy of the dependency list.
func (m *Manifest) Dependencies() []Dependency { return slices.Clone(m.dependencies) }

// Plugin returns a copy of the first declared plugin of the given kind.
func (m *Manifest) Plugin(kind PluginKind) (Plugin, bool) {
	for _, p := range m.plugins {
		if p.Kind() == kind {
			return p.clone(), true
		}
	}
	return nil, false
}

// BeautySelector returns a copy of the declared BeautySelectorAddon, if any.
func (m *Manifest) BeautySelector() (*BeautySelectorAddon, bool) {
	p, ok := m.Plugin(KindBeautySelector)
	if !ok {
		return nil, false
	}
	b, ok := p.(*BeautySelectorAddon)
	return b, ok
}

// Len returns the number of file specs across all categories.
func (m *Manifest) Len() int {
	n := 0
	for _, l := range m.lists {
		n += len(l)
	}
	return n
}

// Freeze makes the manifest immutable.
func (m *Manifest) Freeze() { m.frozen = true }

// Frozen reports whether Freeze was called.
func (m *Manifest) Frozen() bool { return m.frozen }

func (m *Manifest) checkWritable() error {
	if m.frozen {
		return ErrManifestFrozen
	}
	return nil
}

// Readme returns the package description file: the first addition file whose
// name starts with ReadmeToken, compared case-insensitively.
func (m *Manifest) Readme() (CopySpec, bool) {
	for _, spec := range m.lists[CategoryAdditionFile] {
		if isReadme(spec.Destination().RelativeDestination().Base()) {
			return spec, true
		}
	}
	return CopySpec{}, false
}

// ReadmeOf applies the readme selection rule to plain paths and returns the
// index of the selected path, or -1.
func ReadmeOf(paths []string) int {
	for i, p := range paths {
		if isReadme(RelativePath(strings.ReplaceAll(p, `\`, "/")).Base()) {
			return i
		}
	}
	return -1
}

func isReadme(name string) bool {
	return len(name) >= len(ReadmeToken) && strings.EqualFold(name[:len(ReadmeToken)], ReadmeToken)
}
