// SPDX-License-Identifier: MPL-2.0

package modpack

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

type (
	// RelativePath is a destination inside the package. A valid value is
	// relative, uses forward slashes, is already cleaned and never climbs above
	// the archive root. Obtain one through NormalizeRelative.
	RelativePath string

	// Location pairs an absolute source file on the build host with the
	// relative path the file takes inside the package. Locations are immutable
	// values; compare them with ==.
	Location struct {
		source string
		dest   RelativePath
	}
)

// String returns the string representation of the RelativePath.
func (p RelativePath) String() string { return string(p) }

// Base returns the last element of the path.
func (p RelativePath) Base() string { return path.Base(string(p)) }

// Dir returns all but the last element of the path, "." for top-level entries.
func (p RelativePath) Dir() string { return path.Dir(string(p)) }

// Join appends slash-separated elements and normalizes the result.
func (p RelativePath) Join(elem ...string) (RelativePath, error) {
	return NormalizeRelative(path.Join(append([]string{string(p)}, elem...)...))
}

// Validate returns an error if the RelativePath is not in canonical form.
func (p RelativePath) Validate() error {
	norm, err := NormalizeRelative(string(p))
	if err != nil {
		return err
	}
	if norm != p {
		return &InvalidPathError{Path: string(p), Reason: fmt.Sprintf("not canonical, expected %q", norm)}
	}
	return nil
}

// NormalizeRelative converts p into canonical relative form: backslashes
// become slashes, "." and ".." segments are resolved and a leading "./" is
// dropped. Empty, absolute and root-escaping paths are rejected with an
// *InvalidPathError.
func NormalizeRelative(p string) (RelativePath, error) {
	if strings.TrimSpace(p) == "" {
		return "", &InvalidPathError{Path: p, Reason: "must be non-empty"}
	}

	slashed := strings.ReplaceAll(p, `\`, "/")
	if path.IsAbs(slashed) || hasVolume(slashed) {
		return "", &InvalidPathError{Path: p, Reason: "must be relative to the archive root"}
	}

	cleaned := path.Clean(slashed)
	switch {
	case cleaned == ".":
		return "", &InvalidPathError{Path: p, Reason: "must name an entry below the archive root"}
	case cleaned == "..", strings.HasPrefix(cleaned, "../"):
		return "", &InvalidPathError{Path: p, Reason: "escapes the archive root"}
	}

	return RelativePath(cleaned), nil
}

// hasVolume reports whether p starts with a Windows drive letter ("C:").
func hasVolume(p string) bool {
	if len(p) < 2 || p[1] != ':' {
		return false
	}
	c := p[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// NewLocation creates a Location. The source is made absolute and the
// destination is normalized with NormalizeRelative.
func NewLocation(source, relativeDestination string) (Location, error) {
	if strings.TrimSpace(source) == "" {
		return Location{}, fmt.Errorf("location source must be non-empty")
	}
	abs, err := filepath.Abs(source)
	if err != nil {
		return Location{}, fmt.Errorf("resolving location source %q: %w", source, err)
	}
	dest, err := NormalizeRelative(relativeDestination)
	if err != nil {
		return Location{}, err
	}
	return Location{source: abs, dest: dest}, nil
}

// MustLocation is like NewLocation but panics on error. Intended for tests and
// static tables.
func MustLocation(source, relativeDestination string) Location {
	loc, err := NewLocation(source, relativeDestination)
	if err != nil {
		panic(err)
	}
	return loc
}

// Source returns the absolute path of the file on the build host.
func (l Location) Source() string { return l.source }

// RelativeDestination returns the path inside the package.
func (l Location) RelativeDestination() RelativePath { return l.dest }

// IsZero reports whether l is the zero Location.
func (l Location) IsZero() bool { return l == Location{} }

// CopySpec returns a CopySpec that ships l unchanged.
func (l Location) CopySpec() CopySpec { return NewCopySpec(l) }

// String renders the location as "source -> destination" for logs.
func (l Location) String() string {
	return l.source + " -> " + string(l.dest)
}
