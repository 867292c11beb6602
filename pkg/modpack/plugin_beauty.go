// SPDX-License-Identifier: MPL-2.0

package modpack

import (
	"encoding/json"
	"fmt"
	"slices"
)

const (
	// BeautySelectorAddonName is both the mod name and the addon name of the
	// image-pack selector.
	BeautySelectorAddonName = "BeautySelectorAddon"
	// DefaultBeautySelectorVersion is used when no version is given.
	DefaultBeautySelectorVersion = "^2.0.0"
)

type (
	// SelectorType points the selector at one image pack's file index.
	SelectorType struct {
		// Type is the image pack name shown by the selector.
		Type string `json:"type"`
		// ImgFileListFile is the in-package path of the pack's imgFileList.json.
		ImgFileListFile string `json:"imgFileListFile"`
	}

	// BeautySelectorAddon declares use of the BeautySelectorAddon. Its type list
	// usually grows across several discovery passes, one per image pack.
	BeautySelectorAddon struct {
		modVersion string
		types      []SelectorType
	}

	beautySelectorParams struct {
		Types []SelectorType `json:"types"`
	}
)

// NewBeautySelector creates a selector declaration. An empty modVersion
// selects DefaultBeautySelectorVersion.
func NewBeautySelector(modVersion string, types ...SelectorType) *BeautySelectorAddon {
	if modVersion == "" {
		modVersion = DefaultBeautySelectorVersion
	}
	return &BeautySelectorAddon{modVersion: modVersion, types: append([]SelectorType{}, types...)}
}

// Kind implements Plugin.
func (*BeautySelectorAddon) Kind() PluginKind { return KindBeautySelector }

// ModName implements Plugin.
func (*BeautySelectorAddon) ModName() string { return BeautySelectorAddonName }

// AddonName implements Plugin.
func (*BeautySelectorAddon) AddonName() string { return BeautySelectorAddonName }

// ModVersion implements Plugin.
func (b *BeautySelectorAddon) ModVersion() string { return b.modVersion }

// Params implements Plugin and returns {"types": [...]}.
func (b *BeautySelectorAddon) Params() any {
	return beautySelectorParams{Types: slices.Clone(b.types)}
}

func (b *BeautySelectorAddon) clone() Plugin {
	return &BeautySelectorAddon{modVersion: b.modVersion, types: slices.Clone(b.types)}
}

// Types returns a copy of the selector's type list.
func (b *BeautySelectorAddon) Types() []SelectorType { return slices.Clone(b.types) }

// AppendTypes adds entries to the end of the type list. Once the selector
// is added to a Manifest, grow it with Manifest.AppendSelectorTypes.
func (b *BeautySelectorAddon) AppendTypes(types ...SelectorType) {
	b.types = append(b.types, types...)
}

// MarshalJSON encodes the selector in the shared plugin wire shape.
func (b *BeautySelectorAddon) MarshalJSON() ([]byte, error) { return EncodePlugin(b) }

// UnmarshalJSON decodes with DecodeBeautySelector semantics.
func (b *BeautySelectorAddon) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeBeautySelector(data)
	if err != nil {
		return err
	}
	*b = *decoded
	return nil
}

// DecodeBeautySelector decodes a BeautySelectorAddon declaration. Both
// modName and addonName must equal BeautySelectorAddonName, otherwise a
// *SchemaMismatchError is returned. modVersion and params.types are required.
func DecodeBeautySelector(data []byte) (*BeautySelectorAddon, error) {
	fields, err := pluginFields(data)
	if err != nil {
		return nil, err
	}
	return decodeBeautySelector(fields)
}

func decodeBeautySelector(fields map[string]json.RawMessage) (*BeautySelectorAddon, error) {
	const variant = BeautySelectorAddonName

	if err := expectString(fields, variant, "modName", BeautySelectorAddonName); err != nil {
		return nil, err
	}
	if err := expectString(fields, variant, "addonName", BeautySelectorAddonName); err != nil {
		return nil, err
	}
	modVersion, err := requireString(fields, variant, "modVersion")
	if err != nil {
		return nil, err
	}

	rawParams, ok := fields["params"]
	if !ok {
		return nil, &MissingFieldError{Variant: variant, Field: "params"}
	}
	var params map[string]json.RawMessage
	if err := json.Unmarshal(rawParams, &params); err != nil {
		return nil, fmt.Errorf("%s plugin: field %q: %w", variant, "params", err)
	}
	rawTypes, ok := params["types"]
	if !ok {
		return nil, &MissingFieldError{Variant: variant, Field: "params.types"}
	}
	types := []SelectorType{}
	if err := json.Unmarshal(rawTypes, &types); err != nil {
		return nil, fmt.Errorf("%s plugin: field %q: %w", variant, "params.types", err)
	}
	if types == nil {
		types = []SelectorType{}
	}

	return &BeautySelectorAddon{modVersion: modVersion, types: types}, nil
}
