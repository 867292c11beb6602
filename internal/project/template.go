// SPDX-License-Identifier: MPL-2.0

package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// ErrProjectExists is returned by Init when the directory already holds a
// project file.
var ErrProjectExists = errors.New("project file already exists")

// Template renders a starter dolmod.cue: twee files under src/assets.d/twee.d,
// one script unit and the ModLoader dependency.
func Template(name, version string) string {
	return fmt.Sprintf(`name:    %s
version: %s

dependencies: [
	{modName: "ModLoader", version: "^2.18.3"},
	{modName: "GameVersion", version: "^0.5.0.6"},
]

scripts: [
	{unit: "script"},
]

assets: [
	{category: "twee", dir: "assets.d/twee.d", extensions: ["twee"]},
	{category: "style", dir: "assets.d/style.d", extensions: ["css"]},
]

additionFiles: ["README.md"]
`, strconv.Quote(name), strconv.Quote(version))
}

// Init writes a starter project file into dir, creating dir if needed, and
// returns the file path. A README.md stub is added when dir has none, since
// the template ships it. Existing files are never overwritten.
func Init(dir, name, version string) (string, error) {
	// Reject names and versions the schema would refuse before touching disk.
	if _, err := Parse([]byte(Template(name, version)), FileName); err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating project directory: %w", err)
	}
	path := filepath.Join(dir, FileName)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrProjectExists, path)
		}
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := f.WriteString(Template(name, version)); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", path, err)
	}
	if err := writeIfAbsent(filepath.Join(dir, "README.md"), "# "+name+"\n"); err != nil {
		return "", err
	}
	return path, nil
}

func writeIfAbsent(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
