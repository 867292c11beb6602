// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// MustMkdirAll creates a directory along with any necessary parents.
func MustMkdirAll(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("failed to create directory %s: %v", path, err)
	}
}

// MustWriteFile writes content to path, creating parent directories.
func MustWriteFile(t testing.TB, path, content string) {
	t.Helper()
	MustMkdirAll(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// MustReadFile returns the content of path.
func MustReadFile(t testing.TB, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

// WriteTree materializes files under root. Keys are slash-separated paths
// relative to root; values are file contents.
func WriteTree(t testing.TB, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		MustWriteFile(t, filepath.Join(root, filepath.FromSlash(rel)), content)
	}
}

// ZipEntries returns the entry names of a zip archive in archive order.
func ZipEntries(t testing.TB, archivePath string) []string {
	t.Helper()
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		t.Fatalf("failed to open archive %s: %v", archivePath, err)
	}
	defer MustClose(t, r)

	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names
}

// ZipFile returns the content of one archive entry.
func ZipFile(t testing.TB, archivePath, name string) string {
	t.Helper()
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		t.Fatalf("failed to open archive %s: %v", archivePath, err)
	}
	defer MustClose(t, r)

	idx := slices.IndexFunc(r.File, func(f *zip.File) bool { return f.Name == name })
	if idx < 0 {
		t.Fatalf("archive %s has no entry %q", archivePath, name)
	}
	rc, err := r.File[idx].Open()
	if err != nil {
		t.Fatalf("failed to open entry %q: %v", name, err)
	}
	defer MustClose(t, rc)

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("failed to read entry %q: %v", name, err)
	}
	return string(data)
}

// MustClose closes the given io.Closer.
func MustClose(t testing.TB, c io.Closer) {
	t.Helper()
	if err := c.Close(); err != nil {
		t.Fatalf("failed to close: %v", err)
	}
}
