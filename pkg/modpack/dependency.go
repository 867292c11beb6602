// SPDX-License-Identifier: MPL-2.0

package modpack

// Dependency declares a required upstream mod. Version is an opaque
// constraint string ("^2.18.3"); it is compared and shown verbatim.
type Dependency struct {
	ModName string `json:"modName"`
	Version string `json:"version"`
}

// DependencyOf projects a plugin declaration onto the dependency on the mod
// that registers the plugin.
func DependencyOf(p Plugin) Dependency {
	return Dependency{ModName: p.ModName(), Version: p.ModVersion()}
}

// String renders the dependency as "name@constraint".
func (d Dependency) String() string { return d.ModName + "@" + d.Version }
