// SPDX-License-Identifier: MPL-2.0

package modpack

import (
	"encoding/json"
	"fmt"
)

const (
	// KindRaw is a plugin declaration with an opaque params payload.
	KindRaw PluginKind = iota + 1
	// KindBeautySelector is the BeautySelectorAddon image-pack selector.
	KindBeautySelector
)

type (
	// PluginKind identifies a plugin variant. The set is closed: every kind has
	// exactly one implementation of Plugin in this package.
	PluginKind int

	// Plugin declares that the package uses and configures a runtime addon
	// registered by another mod. Implementations are *RawAddon and
	// *BeautySelectorAddon; the interface is sealed.
	Plugin interface {
		Kind() PluginKind
		// ModName is the mod that registers the addon.
		ModName() string
		// AddonName is the name the addon is registered under.
		AddonName() string
		// ModVersion is the version constraint on ModName.
		ModVersion() string
		// Params is the variant-specific payload, encoded as "params".
		Params() any

		// clone returns a copy sharing no mutable state with the receiver.
		clone() Plugin
	}

	// pluginWire is the shared wire shape. Field order is part of the format.
	pluginWire struct {
		ModName    string `json:"modName"`
		AddonName  string `json:"addonName"`
		ModVersion string `json:"modVersion"`
		Params     any    `json:"params"`
	}
)

// String returns the kind name.
func (k PluginKind) String() string {
	switch k {
	case KindRaw:
		return "raw"
	case KindBeautySelector:
		return "beautySelector"
	default:
		return fmt.Sprintf("PluginKind(%d)", int(k))
	}
}

// EncodePlugin renders p in the shared wire shape:
// {"modName", "addonName", "modVersion", "params"}.
func EncodePlugin(p Plugin) ([]byte, error) {
	switch p.Kind() {
	case KindRaw, KindBeautySelector:
		return marshalJSON(pluginWire{
			ModName:    p.ModName(),
			AddonName:  p.AddonName(),
			ModVersion: p.ModVersion(),
			Params:     p.Params(),
		})
	default:
		return nil, fmt.Errorf("encode plugin: unknown kind %s", p.Kind())
	}
}

// DecodePlugin decodes a plugin declaration, selecting the variant by its
// addonName. Declarations of addons without a dedicated variant decode as
// *RawAddon.
func DecodePlugin(data []byte) (Plugin, error) {
	fields, err := pluginFields(data)
	if err != nil {
		return nil, err
	}
	var addonName string
	if raw, ok := fields["addonName"]; ok {
		if err := json.Unmarshal(raw, &addonName); err != nil {
			return nil, fmt.Errorf("plugin: field %q: %w", "addonName", err)
		}
	}

	switch kindForAddon(addonName) {
	case KindBeautySelector:
		return decodeBeautySelector(fields)
	case KindRaw:
		return decodeRaw(fields)
	default:
		return nil, fmt.Errorf("plugin: no decoder for addon %q", addonName)
	}
}

// kindForAddon maps a registered addon name onto its variant.
func kindForAddon(addonName string) PluginKind {
	if addonName == BeautySelectorAddonName {
		return KindBeautySelector
	}
	return KindRaw
}

// pluginFields splits a plugin object into its raw top-level fields.
// Unknown fields are kept but never inspected.
func pluginFields(data []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("plugin: %w", err)
	}
	if fields == nil {
		return nil, fmt.Errorf("plugin: expected a JSON object, got null")
	}
	return fields, nil
}

// requireString reads a mandatory string field.
func requireString(fields map[string]json.RawMessage, variant, name string) (string, error) {
	raw, ok := fields[name]
	if !ok {
		return "", &MissingFieldError{Variant: variant, Field: name}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%s plugin: field %q: %w", variant, name, err)
	}
	return s, nil
}

// expectString reads a mandatory string field and checks it against want.
func expectString(fields map[string]json.RawMessage, variant, name, want string) error {
	got, err := requireString(fields, variant, name)
	if err != nil {
		return err
	}
	if got != want {
		return &SchemaMismatchError{Variant: variant, Field: name, Got: got, Want: want}
	}
	return nil
}
