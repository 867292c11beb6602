// SPDX-License-Identifier: MPL-2.0

package modpack

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"slices"
)

const (
	// PlanCategoryManifest labels the manifest entry of a plan.
	PlanCategoryManifest = "manifest"
	// PlanCategoryAdditionDir labels files contributed by addition directories.
	PlanCategoryAdditionDir = "additionDir"
)

type (
	// PlanEntry is one file of the archive.
	PlanEntry struct {
		// Source is the absolute path read on the build host.
		Source string
		// ArchivePath is the slash-separated entry name inside the archive.
		ArchivePath string
		// Category is the manifest field that contributed the entry, or one of
		// PlanCategoryManifest and PlanCategoryAdditionDir.
		Category string
	}

	// Plan is the ordered list of archive entries derived from a manifest.
	Plan struct {
		Entries []PlanEntry
	}
)

// BuildPlan lays out the archive for m. The manifest file comes first under
// its base name, then every category in manifest order with each spec at its
// destination path, then the regular files of every addition directory in
// lexicographic order with their layout preserved, skipping version control
// metadata. Two entries claiming the same archive path fail with a
// *DuplicateEntryError.
func BuildPlan(m *Manifest, manifestFile string) (*Plan, error) {
	absManifest, err := filepath.Abs(manifestFile)
	if err != nil {
		return nil, fmt.Errorf("resolving manifest file %q: %w", manifestFile, err)
	}

	b := planBuilder{owners: make(map[string]string)}
	if err := b.add(PlanEntry{
		Source:      absManifest,
		ArchivePath: filepath.Base(absManifest),
		Category:    PlanCategoryManifest,
	}); err != nil {
		return nil, err
	}

	for _, c := range Categories() {
		for _, spec := range m.lists[c] {
			dest := spec.Destination()
			if err := dest.RelativeDestination().Validate(); err != nil {
				return nil, fmt.Errorf("%s: %w", c.Key(), err)
			}
			if err := b.add(PlanEntry{
				Source:      dest.Source(),
				ArchivePath: dest.RelativeDestination().String(),
				Category:    c.Key(),
			}); err != nil {
				return nil, err
			}
		}
	}

	for _, dir := range m.additionDirs {
		if err := b.addDir(dir); err != nil {
			return nil, err
		}
	}

	return &Plan{Entries: b.entries}, nil
}

// vcsDirs are never packaged from addition directories.
var vcsDirs = map[string]bool{".git": true, ".hg": true, ".svn": true}

type planBuilder struct {
	entries []PlanEntry
	owners  map[string]string
}

func (b *planBuilder) add(e PlanEntry) error {
	if first, ok := b.owners[e.ArchivePath]; ok {
		return &DuplicateEntryError{ArchivePath: e.ArchivePath, First: first, Second: describeEntry(e)}
	}
	b.owners[e.ArchivePath] = describeEntry(e)
	b.entries = append(b.entries, e)
	return nil
}

func (b *planBuilder) addDir(dir Location) error {
	root := dir.Source()
	prefix := dir.RelativeDestination().String()

	return filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("%s %s: %w", PlanCategoryAdditionDir, root, walkErr)
		}
		if d.IsDir() && p != root && vcsDirs[d.Name()] {
			return filepath.SkipDir
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return fmt.Errorf("relativizing %s: %w", p, err)
		}
		return b.add(PlanEntry{
			Source:      p,
			ArchivePath: path.Join(prefix, filepath.ToSlash(rel)),
			Category:    PlanCategoryAdditionDir,
		})
	})
}

func describeEntry(e PlanEntry) string {
	return e.Category + " " + e.Source
}

// Paths returns the sorted archive paths of the plan.
func (p *Plan) Paths() []string {
	out := make([]string, len(p.Entries))
	for i, e := range p.Entries {
		out[i] = e.ArchivePath
	}
	slices.Sort(out)
	return out
}

// Len returns the number of entries.
func (p *Plan) Len() int { return len(p.Entries) }
