// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"archive/zip"
	"fmt"
	"io"

	"github.com/Meow0x7E/DoL-Mods/pkg/modpack"
)

// maxEntrySize bounds how much of an entry ReadEntry loads.
const maxEntrySize = 16 << 20

// ListEntries returns the entry names of an archive in stored order.
func ListEntries(archivePath string) ([]string, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", archivePath, err)
	}
	defer func() { _ = r.Close() }()

	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names, nil
}

// ReadEntry returns the content of one entry.
func ReadEntry(archivePath, name string) ([]byte, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", archivePath, err)
	}
	defer func() { _ = r.Close() }()

	f, err := r.Open(name)
	if err != nil {
		return nil, fmt.Errorf("archive %s: %w", archivePath, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, maxEntrySize+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s from %s: %w", name, archivePath, err)
	}
	if len(data) > maxEntrySize {
		return nil, fmt.Errorf("entry %s in %s exceeds %d bytes", name, archivePath, maxEntrySize)
	}
	return data, nil
}

// ReadManifest decodes the manifest stored under manifestName.
func ReadManifest(archivePath, manifestName string) (*modpack.PackagedManifest, error) {
	data, err := ReadEntry(archivePath, manifestName)
	if err != nil {
		return nil, err
	}
	pm, err := modpack.DecodePackaged(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s from %s: %w", manifestName, archivePath, err)
	}
	return pm, nil
}
