// SPDX-License-Identifier: MPL-2.0

package modpack

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RawAddon declares an addon without a dedicated variant. Params are kept as
// compacted JSON and emitted verbatim; nil params encode as null.
type RawAddon struct {
	modName    string
	addonName  string
	modVersion string
	params     json.RawMessage
}

// NewRawAddon creates a raw plugin declaration. params may be nil.
func NewRawAddon(modName, addonName, modVersion string, params json.RawMessage) (*RawAddon, error) {
	compacted, err := compactParams(params)
	if err != nil {
		return nil, fmt.Errorf("plugin %s/%s: params: %w", modName, addonName, err)
	}
	return &RawAddon{
		modName:    modName,
		addonName:  addonName,
		modVersion: modVersion,
		params:     compacted,
	}, nil
}

// RawAddonFor creates a raw declaration for an addon registered by dep's mod,
// taking the mod name and version constraint from dep.
func RawAddonFor(addonName string, dep Dependency, params json.RawMessage) (*RawAddon, error) {
	return NewRawAddon(dep.ModName, addonName, dep.Version, params)
}

// Kind implements Plugin.
func (*RawAddon) Kind() PluginKind { return KindRaw }

// ModName implements Plugin.
func (r *RawAddon) ModName() string { return r.modName }

// AddonName implements Plugin.
func (r *RawAddon) AddonName() string { return r.addonName }

// ModVersion implements Plugin.
func (r *RawAddon) ModVersion() string { return r.modVersion }

// Params implements Plugin.
func (r *RawAddon) Params() any {
	if r.params == nil {
		return nil
	}
	return r.params
}

func (r *RawAddon) clone() Plugin {
	c := *r
	c.params = bytes.Clone(r.params)
	return &c
}

// MarshalJSON encodes the declaration in the shared plugin wire shape.
func (r *RawAddon) MarshalJSON() ([]byte, error) { return EncodePlugin(r) }

// UnmarshalJSON decodes with DecodeRaw semantics.
func (r *RawAddon) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeRaw(data)
	if err != nil {
		return err
	}
	*r = *decoded
	return nil
}

// DecodeRaw decodes any plugin declaration as a *RawAddon. modName,
// addonName and modVersion are required; params is optional.
func DecodeRaw(data []byte) (*RawAddon, error) {
	fields, err := pluginFields(data)
	if err != nil {
		return nil, err
	}
	return decodeRaw(fields)
}

func decodeRaw(fields map[string]json.RawMessage) (*RawAddon, error) {
	const variant = "raw"

	modName, err := requireString(fields, variant, "modName")
	if err != nil {
		return nil, err
	}
	addonName, err := requireString(fields, variant, "addonName")
	if err != nil {
		return nil, err
	}
	modVersion, err := requireString(fields, variant, "modVersion")
	if err != nil {
		return nil, err
	}
	return NewRawAddon(modName, addonName, modVersion, fields["params"])
}

// compactParams normalizes params so equal payloads compare equal.
func compactParams(params json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(params)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return nil, err
	}
	return json.RawMessage(buf.Bytes()), nil
}
