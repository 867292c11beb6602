// SPDX-License-Identifier: MPL-2.0

package modpack

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultIndent is the indentation of the shipped manifest.
const DefaultIndent = "\t"

type (
	// Serializer renders a Manifest to its canonical JSON form.
	//
	// The output is deterministic: field order follows the manifest, list
	// order is insertion order, HTML characters are not escaped and there is
	// no trailing newline. The three script-timing lists, addonPlugin and
	// dependenceInfo are omitted when empty; every other list is always
	// present, empty lists as [].
	Serializer struct {
		// Indent is the per-level indentation. Empty selects DefaultIndent.
		Indent string
	}

	// bootWire is the shipped manifest shape. Field order is part of the format.
	bootWire struct {
		Name               string       `json:"name"`
		Version            string       `json:"version"`
		InjectEarly        []CopySpec   `json:"scriptFileList_inject_early,omitempty"`
		EarlyLoad          []CopySpec   `json:"scriptFileList_earlyload,omitempty"`
		Preload            []CopySpec   `json:"scriptFileList_preload,omitempty"`
		StyleFileList      []CopySpec   `json:"styleFileList"`
		ScriptFileList     []CopySpec   `json:"scriptFileList"`
		TweeFileList       []CopySpec   `json:"tweeFileList"`
		ImgFileList        []CopySpec   `json:"imgFileList"`
		AdditionFile       []CopySpec   `json:"additionFile"`
		AdditionBinaryFile []CopySpec   `json:"additionBinaryFile"`
		AdditionDir        []string     `json:"additionDir"`
		AddonPlugin        []Plugin     `json:"addonPlugin,omitempty"`
		DependenceInfo     []Dependency `json:"dependenceInfo,omitempty"`
	}

	// PackagedManifest is the decoded form of a shipped manifest. It holds
	// package paths only; build-host origins are not recoverable.
	PackagedManifest struct {
		Name               string            `json:"name"`
		Version            string            `json:"version"`
		InjectEarly        []PackagedEntry   `json:"scriptFileList_inject_early,omitempty"`
		EarlyLoad          []PackagedEntry   `json:"scriptFileList_earlyload,omitempty"`
		Preload            []PackagedEntry   `json:"scriptFileList_preload,omitempty"`
		StyleFileList      []PackagedEntry   `json:"styleFileList"`
		ScriptFileList     []PackagedEntry   `json:"scriptFileList"`
		TweeFileList       []PackagedEntry   `json:"tweeFileList"`
		ImgFileList        []PackagedEntry   `json:"imgFileList"`
		AdditionFile       []PackagedEntry   `json:"additionFile"`
		AdditionBinaryFile []PackagedEntry   `json:"additionBinaryFile"`
		AdditionDir        []string          `json:"additionDir"`
		AddonPlugin        []json.RawMessage `json:"addonPlugin,omitempty"`
		DependenceInfo     []Dependency      `json:"dependenceInfo,omitempty"`
	}
)

// Serialize freezes m and renders it.
func (s Serializer) Serialize(m *Manifest) ([]byte, error) {
	m.Freeze()
	return s.encode(m.wire())
}

// WriteAndReturn serializes m, writes the bytes to destinationFile through a
// temporary file and a rename, and returns the bytes written. Parent
// directories are created as needed.
func (s Serializer) WriteAndReturn(m *Manifest, destinationFile string) ([]byte, error) {
	data, err := s.Serialize(m)
	if err != nil {
		return nil, err
	}
	if err := writeFileAtomic(destinationFile, data); err != nil {
		return nil, fmt.Errorf("writing manifest %s: %w", destinationFile, err)
	}
	return data, nil
}

// EncodeSpecs renders a list of specs as a JSON array of package paths. It is
// used for per-pack asset indices such as imgFileList.json.
func (s Serializer) EncodeSpecs(specs []CopySpec) ([]byte, error) {
	if specs == nil {
		specs = []CopySpec{}
	}
	return s.encode(specs)
}

func (s Serializer) indent() string {
	if s.Indent == "" {
		return DefaultIndent
	}
	return s.Indent
}

func (s Serializer) encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", s.indent())
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// wire projects the manifest onto its shipped shape.
func (m *Manifest) wire() bootWire {
	dirs := make([]string, len(m.additionDirs))
	for i, d := range m.additionDirs {
		dirs[i] = d.RelativeDestination().String()
	}
	return bootWire{
		Name:               m.Name,
		Version:            m.Version,
		InjectEarly:        m.lists[CategoryInjectEarly],
		EarlyLoad:          m.lists[CategoryEarlyLoad],
		Preload:            m.lists[CategoryPreload],
		StyleFileList:      nonNil(m.lists[CategoryStyle]),
		ScriptFileList:     nonNil(m.lists[CategoryScript]),
		TweeFileList:       nonNil(m.lists[CategoryTwee]),
		ImgFileList:        nonNil(m.lists[CategoryImage]),
		AdditionFile:       nonNil(m.lists[CategoryAdditionFile]),
		AdditionBinaryFile: nonNil(m.lists[CategoryAdditionBinaryFile]),
		AdditionDir:        dirs,
		AddonPlugin:        m.plugins,
		DependenceInfo:     m.dependencies,
	}
}

// MarshalJSON renders the compact shipped form.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	return marshalJSON(m.wire())
}

// UnmarshalJSON always fails: shipped manifests carry no origins. Use
// DecodePackaged instead.
func (m *Manifest) UnmarshalJSON([]byte) error {
	return &InformationLossError{Type: "Manifest"}
}

// DecodePackaged decodes a shipped manifest.
func DecodePackaged(data []byte) (*PackagedManifest, error) {
	var pm PackagedManifest
	if err := json.Unmarshal(data, &pm); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	return &pm, nil
}

// Category returns the entries of one category.
func (pm *PackagedManifest) Category(c Category) []PackagedEntry {
	switch c {
	case CategoryInjectEarly:
		return pm.InjectEarly
	case CategoryEarlyLoad:
		return pm.EarlyLoad
	case CategoryPreload:
		return pm.Preload
	case CategoryStyle:
		return pm.StyleFileList
	case CategoryScript:
		return pm.ScriptFileList
	case CategoryTwee:
		return pm.TweeFileList
	case CategoryImage:
		return pm.ImgFileList
	case CategoryAdditionFile:
		return pm.AdditionFile
	case CategoryAdditionBinaryFile:
		return pm.AdditionBinaryFile
	default:
		return nil
	}
}

// Entries returns the entries of every category in manifest order.
func (pm *PackagedManifest) Entries() []PackagedEntry {
	var out []PackagedEntry
	for _, c := range Categories() {
		out = append(out, pm.Category(c)...)
	}
	return out
}

// Readme returns the package description entry, if any.
func (pm *PackagedManifest) Readme() (PackagedEntry, bool) {
	paths := make([]string, len(pm.AdditionFile))
	for i, e := range pm.AdditionFile {
		paths[i] = e.String()
	}
	if i := ReadmeOf(paths); i >= 0 {
		return pm.AdditionFile[i], true
	}
	return "", false
}

// Plugins decodes the plugin declarations.
func (pm *PackagedManifest) Plugins() ([]Plugin, error) {
	out := make([]Plugin, 0, len(pm.AddonPlugin))
	for i, raw := range pm.AddonPlugin {
		p, err := DecodePlugin(raw)
		if err != nil {
			return nil, fmt.Errorf("addonPlugin[%d]: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func nonNil(specs []CopySpec) []CopySpec {
	if specs == nil {
		return []CopySpec{}
	}
	return specs
}

// marshalJSON is json.Marshal without HTML escaping.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// writeFileAtomic writes data to a sibling temp file and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath) // Best-effort cleanup
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath) // Best-effort cleanup
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath) // Best-effort cleanup
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath) // Best-effort cleanup
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}
