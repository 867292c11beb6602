// SPDX-License-Identifier: MPL-2.0

package modpack

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

type (
	// Entry is the view of a filesystem entry handed to a Predicate.
	Entry struct {
		// Path is the absolute path of the entry.
		Path string
		// RelativePath is the slash-separated path relative to the discovery base.
		RelativePath string
		// IsRegular is true for regular files.
		IsRegular bool
		// Extension is the text after the last dot of the file name, without the
		// dot. Empty when the name has no dot.
		Extension string
	}

	// Predicate selects the entries Discover keeps.
	Predicate func(Entry) bool
)

// Discover walks baseDir/relativeSubpath in lexicographic order and returns a
// CopySpec for every entry accepted by pred. Each spec's origin is the
// absolute file path and its destination is the path relative to baseDir.
//
// A nil pred keeps regular files only. A missing subpath yields an empty
// result, not an error.
func Discover(baseDir, relativeSubpath string, pred Predicate) ([]CopySpec, error) {
	if pred == nil {
		pred = RegularFiles
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolving discovery base %q: %w", baseDir, err)
	}
	root := filepath.Join(absBase, filepath.FromSlash(relativeSubpath))

	if _, statErr := os.Stat(root); statErr != nil {
		if errors.Is(statErr, fs.ErrNotExist) {
			return []CopySpec{}, nil
		}
		return nil, fmt.Errorf("discovering %s: %w", root, statErr)
	}

	specs := []CopySpec{}
	walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if p == absBase {
			return nil
		}

		rel, relErr := filepath.Rel(absBase, p)
		if relErr != nil {
			return fmt.Errorf("relativizing %s: %w", p, relErr)
		}
		entry := Entry{
			Path:         p,
			RelativePath: filepath.ToSlash(rel),
			IsRegular:    d.Type().IsRegular(),
			Extension:    extension(d.Name()),
		}
		if !pred(entry) {
			return nil
		}

		loc, locErr := NewLocation(p, entry.RelativePath)
		if locErr != nil {
			return locErr
		}
		specs = append(specs, NewCopySpec(loc))
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("discovering %s: %w", root, walkErr)
	}

	return specs, nil
}

// extension mirrors the usual "file extension" notion: the text after the
// last dot, without the dot.
func extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return ""
	}
	return name[i+1:]
}

// RegularFiles accepts regular files only.
func RegularFiles(e Entry) bool { return e.IsRegular }

// ExtensionIs accepts regular files whose extension equals one of exts,
// compared case-sensitively.
func ExtensionIs(exts ...string) Predicate {
	return func(e Entry) bool {
		if !e.IsRegular {
			return false
		}
		for _, ext := range exts {
			if e.Extension == ext {
				return true
			}
		}
		return false
	}
}

// ExtensionFold is ExtensionIs with case-insensitive comparison.
func ExtensionFold(exts ...string) Predicate {
	return func(e Entry) bool {
		if !e.IsRegular {
			return false
		}
		for _, ext := range exts {
			if strings.EqualFold(e.Extension, ext) {
				return true
			}
		}
		return false
	}
}

// MatchGlobs accepts regular files whose base-relative path matches at least
// one include pattern (all files when include is empty) and no exclude
// pattern. Patterns use doublestar syntax ("**/*.png").
func MatchGlobs(include, exclude []string) (Predicate, error) {
	for _, pat := range append(append([]string{}, include...), exclude...) {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("invalid glob pattern %q", pat)
		}
	}
	return func(e Entry) bool {
		if !e.IsRegular {
			return false
		}
		for _, pat := range exclude {
			if ok, _ := doublestar.Match(pat, e.RelativePath); ok {
				return false
			}
		}
		if len(include) == 0 {
			return true
		}
		for _, pat := range include {
			if ok, _ := doublestar.Match(pat, e.RelativePath); ok {
				return true
			}
		}
		return false
	}, nil
}

// All accepts entries accepted by every non-nil predicate.
func All(preds ...Predicate) Predicate {
	return func(e Entry) bool {
		for _, p := range preds {
			if p != nil && !p(e) {
				return false
			}
		}
		return true
	}
}
