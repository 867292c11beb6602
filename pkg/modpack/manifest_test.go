// SPDX-License-Identifier: MPL-2.0

package modpack

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
)

func specAt(t *testing.T, dir, rel string) CopySpec {
	t.Helper()
	loc, err := NewLocation(filepath.Join(dir, filepath.FromSlash(rel)), rel)
	if err != nil {
		t.Fatal(err)
	}
	return NewCopySpec(loc)
}

func TestCategory(t *testing.T) {
	t.Parallel()

	wantKeys := []string{
		"scriptFileList_inject_early",
		"scriptFileList_earlyload",
		"scriptFileList_preload",
		"styleFileList",
		"scriptFileList",
		"tweeFileList",
		"imgFileList",
		"additionFile",
		"additionBinaryFile",
	}
	cats := Categories()
	if len(cats) != len(wantKeys) {
		t.Fatalf("Categories() returned %d, want %d", len(cats), len(wantKeys))
	}
	for i, c := range cats {
		if c.Key() != wantKeys[i] {
			t.Errorf("category %d key = %q, want %q", i, c.Key(), wantKeys[i])
		}
		parsed, err := ParseCategory(c.Key())
		if err != nil || parsed != c {
			t.Errorf("ParseCategory(%q) = %v, %v", c.Key(), parsed, err)
		}
		wantOptional := i < 3
		if c.Optional() != wantOptional {
			t.Errorf("%s.Optional() = %v, want %v", c, c.Optional(), wantOptional)
		}
	}

	if c, err := ParseCategory("twee"); err != nil || c != CategoryTwee {
		t.Errorf("ParseCategory(twee) = %v, %v", c, err)
	}
	if _, err := ParseCategory("video"); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("ParseCategory(video) error = %v, want ErrUnknownCategory", err)
	}
	if Category(42).Valid() {
		t.Error("Category(42) should be invalid")
	}
}

func TestManifest_AddAndRead(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m := New("YanLing", "0.1.1")

	a := specAt(t, dir, "twee/a.twee")
	b := specAt(t, dir, "twee/b.twee")
	if err := m.AddToCategory(CategoryTwee, b, a); err != nil {
		t.Fatal(err)
	}

	got := m.Category(CategoryTwee)
	if len(got) != 2 || got[0] != b || got[1] != a {
		t.Errorf("Category() = %v, want insertion order [b a]", got)
	}
	got[0] = a
	if m.Category(CategoryTwee)[0] != b {
		t.Error("Category() must return a copy")
	}

	if err := m.AddToCategory(Category(-1), a); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("AddToCategory(invalid) error = %v", err)
	}

	sel := NewBeautySelector("")
	if err := m.AddPlugin(sel); err != nil {
		t.Fatal(err)
	}
	if err := m.AddDependency(DependencyOf(sel)); err != nil {
		t.Fatal(err)
	}
	found, ok := m.BeautySelector()
	if !ok || found == sel || found.ModVersion() != sel.ModVersion() {
		t.Errorf("BeautySelector() = %v, %v, want a copy of the added selector", found, ok)
	}
	if _, ok := m.Plugin(KindRaw); ok {
		t.Error("Plugin(KindRaw) should not be found")
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
}

func TestManifest_Freeze(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m := New("x", "1")
	m.Freeze()

	checks := map[string]error{
		"AddToCategory":         m.AddToCategory(CategoryStyle, specAt(t, dir, "a.css")),
		"AddAuxiliaryDirectory": m.AddAuxiliaryDirectory(MustLocation(dir, "dir")),
		"AddPlugin":             m.AddPlugin(NewBeautySelector("")),
		"AddDependency":         m.AddDependency(Dependency{ModName: "ModLoader", Version: "1"}),
		"AppendSelectorTypes":   m.AppendSelectorTypes(SelectorType{Type: "late"}),
	}
	for op, err := range checks {
		if !errors.Is(err, ErrManifestFrozen) {
			t.Errorf("%s on frozen manifest: error = %v, want ErrManifestFrozen", op, err)
		}
	}
	if m.Len() != 0 {
		t.Errorf("frozen manifest was modified, Len() = %d", m.Len())
	}
}

func TestManifest_FrozenPluginPayload(t *testing.T) {
	t.Parallel()

	m := New("IGP", "1.0.0")
	sel := NewBeautySelector("v2.0.0", SelectorType{Type: "BSA", ImgFileListFile: "img.d/BSA/imgFileList.json"})
	if err := m.AddPlugin(sel); err != nil {
		t.Fatal(err)
	}
	if err := m.AppendSelectorTypes(SelectorType{Type: "Wax", ImgFileListFile: "img.d/Wax/imgFileList.json"}); err != nil {
		t.Fatal(err)
	}

	s := Serializer{Indent: "\t"}
	first, err := s.Serialize(m)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Frozen() {
		t.Fatal("Serialize() should freeze the manifest")
	}

	// Neither the caller's selector nor the accessor copies reach the manifest.
	sel.AppendTypes(SelectorType{Type: "late", ImgFileListFile: "late.json"})
	if got, ok := m.BeautySelector(); ok {
		got.AppendTypes(SelectorType{Type: "later", ImgFileListFile: "later.json"})
	}
	for _, p := range m.Plugins() {
		if b, ok := p.(*BeautySelectorAddon); ok {
			b.AppendTypes(SelectorType{Type: "latest", ImgFileListFile: "latest.json"})
		}
	}
	if err := m.AppendSelectorTypes(SelectorType{Type: "late"}); !errors.Is(err, ErrManifestFrozen) {
		t.Errorf("AppendSelectorTypes() after Freeze error = %v, want ErrManifestFrozen", err)
	}

	second, err := s.Serialize(m)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("frozen manifest changed:\n%s\nthen\n%s", first, second)
	}
	got, _ := m.BeautySelector()
	if types := got.Types(); len(types) != 2 || types[1].Type != "Wax" {
		t.Errorf("selector types = %v, want [BSA Wax]", types)
	}
}

func TestManifest_AppendSelectorTypesWithoutSelector(t *testing.T) {
	t.Parallel()

	m := New("x", "1")
	if err := m.AddPlugin(mustRaw(t)); err != nil {
		t.Fatal(err)
	}
	if err := m.AppendSelectorTypes(SelectorType{Type: "a"}); !errors.Is(err, ErrNoBeautySelector) {
		t.Errorf("AppendSelectorTypes() error = %v, want ErrNoBeautySelector", err)
	}
}

func TestManifest_AddNilPlugin(t *testing.T) {
	t.Parallel()

	var nilSelector *BeautySelectorAddon
	var nilRaw *RawAddon
	for name, p := range map[string]Plugin{
		"untyped nil":   nil,
		"nil selector":  nilSelector,
		"nil raw addon": nilRaw,
	} {
		m := New("x", "1")
		if err := m.AddPlugin(p); !errors.Is(err, ErrNilPlugin) {
			t.Errorf("AddPlugin(%s) error = %v, want ErrNilPlugin", name, err)
		}
		if _, ok := m.BeautySelector(); ok {
			t.Errorf("AddPlugin(%s) must not declare a plugin", name)
		}
		if len(m.Plugins()) != 0 {
			t.Errorf("AddPlugin(%s) appended %v", name, m.Plugins())
		}
	}
}

func mustRaw(t *testing.T) *RawAddon {
	t.Helper()
	r, err := NewRawAddon("TweeReplacer", "TweeReplacerAddon", "^1.0.0", []byte(`{"passage":"Start"}`))
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestManifest_Readme(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		files []string
		want  string
	}{
		{"none", []string{"LICENSE", "img.d/x/imgFileList.json"}, ""},
		{"exact", []string{"LICENSE", "README.md"}, "README.md"},
		{"lower_case", []string{"docs/readme.txt"}, "docs/readme.txt"},
		{"mixed_case_first_wins", []string{"ReadMe.md", "README.md"}, "ReadMe.md"},
		{"prefix_only", []string{"README"}, "README"},
		{"not_a_prefix", []string{"my-readme.md"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			m := New("x", "1")
			for _, f := range tt.files {
				if err := m.AddToCategory(CategoryAdditionFile, specAt(t, dir, f)); err != nil {
					t.Fatal(err)
				}
			}
			// Readme selection only considers additionFile.
			if err := m.AddToCategory(CategoryTwee, specAt(t, dir, "README.twee")); err != nil {
				t.Fatal(err)
			}

			spec, ok := m.Readme()
			idx := ReadmeOf(tt.files)
			if tt.want == "" {
				if ok {
					t.Errorf("Readme() = %v, want none", spec)
				}
				if idx != -1 {
					t.Errorf("ReadmeOf() = %d, want -1", idx)
				}
				return
			}
			if !ok || spec.Destination().RelativeDestination().String() != tt.want {
				t.Errorf("Readme() = %v, %v, want %q", spec, ok, tt.want)
			}
			if idx < 0 || tt.files[idx] != tt.want {
				t.Errorf("ReadmeOf() = %d, want index of %q", idx, tt.want)
			}
		})
	}
}
