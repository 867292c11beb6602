// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"context"
	"path/filepath"
	"slices"
	"testing"

	"github.com/Meow0x7E/DoL-Mods/pkg/modpack"
)

func TestReadManifest(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	plan := buildPackage(t, root)
	dest := filepath.Join(root, "demo.mod.zip")
	if err := (Writer{}).Write(context.Background(), plan, dest); err != nil {
		t.Fatal(err)
	}

	pm, err := ReadManifest(dest, "boot.json")
	if err != nil {
		t.Fatalf("ReadManifest() failed: %v", err)
	}
	if pm.Name != "Demo" || pm.Version != "1.0.0" {
		t.Errorf("identity = %q %q", pm.Name, pm.Version)
	}
	readme, ok := pm.Readme()
	if !ok || readme != "README.md" {
		t.Errorf("Readme() = %q, %v", readme, ok)
	}

	// Every manifest entry must be present in the archive.
	names, err := ListEntries(dest)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range pm.Entries() {
		if !slices.Contains(names, e.String()) {
			t.Errorf("manifest entry %q missing from archive", e)
		}
	}
	for _, d := range pm.AdditionDir {
		if !slices.ContainsFunc(names, func(n string) bool { return len(n) > len(d) && n[:len(d)+1] == d+"/" }) {
			t.Errorf("addition dir %q has no archived files", d)
		}
	}
	if !slices.Equal(pm.Category(modpack.CategoryTwee), []modpack.PackagedEntry{"assets.d/twee.d/Intro.twee"}) {
		t.Errorf("twee = %v", pm.Category(modpack.CategoryTwee))
	}
}

func TestReadEntry_Errors(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if _, err := ReadEntry(filepath.Join(root, "none.zip"), "boot.json"); err == nil {
		t.Error("missing archive should fail")
	}

	plan := buildPackage(t, root)
	dest := filepath.Join(root, "demo.mod.zip")
	if err := (Writer{}).Write(context.Background(), plan, dest); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadEntry(dest, "missing.json"); err == nil {
		t.Error("missing entry should fail")
	}
	if _, err := ReadManifest(dest, "README.md"); err == nil {
		t.Error("non-JSON manifest should fail")
	}
}
