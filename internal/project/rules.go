// SPDX-License-Identifier: MPL-2.0

package project

import (
	"path"
	"strings"

	"github.com/Meow0x7E/DoL-Mods/pkg/modpack"
)

// ImageSubdir is the directory inside an image pack that is scanned for images.
const ImageSubdir = "img"

type (
	// ScriptUnit is a TypeScript workspace compiled into one script category.
	ScriptUnit struct {
		// Unit is one of inject_early, earlyload, preload, script.
		Unit string `json:"unit"`
		// Source is the TypeScript source directory; a unit whose source is
		// missing is skipped.
		Source string `json:"source"`
		// Output is where the compiler emits JavaScript.
		Output string `json:"output"`
	}

	// AssetRule collects files under Base/Dir into a category. Package paths
	// are relative to Base.
	AssetRule struct {
		Category        string   `json:"category"`
		Base            string   `json:"base"`
		Dir             string   `json:"dir"`
		Extensions      []string `json:"extensions"`
		CaseInsensitive bool     `json:"caseInsensitive"`
		Include         []string `json:"include"`
		Exclude         []string `json:"exclude"`
	}

	// ImagePack is a directory of images exposed through the
	// BeautySelectorAddon. Images live under Dir/img; the pack's index is
	// written to <buildDir>/<Dir>/imgFileList.json.
	ImagePack struct {
		Name       string   `json:"name"`
		Enable     bool     `json:"enable"`
		RepoURL    string   `json:"repoUrl"`
		Dir        string   `json:"dir"`
		Extensions []string `json:"extensions"`
	}
)

// Category returns the manifest category the unit's output goes to.
func (s ScriptUnit) Category() modpack.Category {
	switch s.Unit {
	case "inject_early":
		return modpack.CategoryInjectEarly
	case "earlyload":
		return modpack.CategoryEarlyLoad
	case "preload":
		return modpack.CategoryPreload
	default:
		return modpack.CategoryScript
	}
}

// OutputBase splits Output into the directory package paths are relative to
// and the subpath discovered below it. Outputs inside buildDir are relative
// to buildDir: "build/javascript.d/script.d" yields "build" and
// "javascript.d/script.d". Other outputs split at their first element.
func (s ScriptUnit) OutputBase(buildDir string) (base, subpath string) {
	clean := path.Clean(s.Output)
	bd := path.Clean(buildDir)
	if rest, ok := strings.CutPrefix(clean, bd+"/"); ok {
		return bd, rest
	}
	if before, after, ok := strings.Cut(clean, "/"); ok {
		return before, after
	}
	return ".", clean
}

// ParsedCategory returns the rule's category. Validate guarantees it parses.
func (r AssetRule) ParsedCategory() modpack.Category {
	c, _ := modpack.ParseCategory(r.Category)
	return c
}

// Predicate builds the discovery filter for the rule.
func (r AssetRule) Predicate() (modpack.Predicate, error) {
	preds := []modpack.Predicate{modpack.RegularFiles}
	if len(r.Extensions) > 0 {
		if r.CaseInsensitive {
			preds = append(preds, modpack.ExtensionFold(r.Extensions...))
		} else {
			preds = append(preds, modpack.ExtensionIs(r.Extensions...))
		}
	}
	if len(r.Include) > 0 || len(r.Exclude) > 0 {
		globs, err := modpack.MatchGlobs(r.Include, r.Exclude)
		if err != nil {
			return nil, err
		}
		preds = append(preds, globs)
	}
	return modpack.All(preds...), nil
}

// IndexPath is the package path of the pack's imgFileList.json.
func (ip ImagePack) IndexPath() string { return path.Join(ip.Dir, "imgFileList.json") }
