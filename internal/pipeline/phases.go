// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Meow0x7E/DoL-Mods/internal/project"
	"github.com/Meow0x7E/DoL-Mods/pkg/modpack"
)

func (r *run) compileScripts(ctx context.Context) error {
	for _, unit := range r.p.Scripts {
		var emitted []string
		category := unit.Category()
		source := r.p.Path(unit.Source)
		if _, err := os.Stat(source); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				r.logger.Debug("skipping script unit without sources", "unit", unit.Unit, "source", unit.Source)
				continue
			}
			return phaseErr(PhaseCompileScripts, category.Key(), unit.Unit, err)
		}

		if !r.opts.DryRun {
			result := r.opts.Compiler.Compile(ctx, r.p.Workspace, unit.Unit)
			r.logger.Info("compile", "unit", unit.Unit, "command", result.Args)
			if result.Output != "" {
				r.logger.Debug(result.Output)
			}
			if err := result.Failure(); err != nil {
				return phaseErr(PhaseCompileScripts, category.Key(), unit.Unit, err)
			}
			emitted = result.Outputs
		}

		base, subpath := unit.OutputBase(r.p.BuildDir)
		specs, err := modpack.Discover(r.p.Path(base), subpath,
			modpack.All(modpack.RegularFiles, modpack.ExtensionFold("js")))
		if err != nil {
			return phaseErr(PhaseCompileScripts, category.Key(), unit.Unit, err)
		}
		for _, file := range undiscovered(emitted, specs) {
			r.logger.Warn("compiler output outside the unit output directory, not packaged",
				"unit", unit.Unit, "file", file, "output", unit.Output)
		}
		if err := r.manifest.AddToCategory(category, specs...); err != nil {
			return phaseErr(PhaseCompileScripts, category.Key(), unit.Unit, err)
		}
	}
	return nil
}

// undiscovered returns the emitted JavaScript files that discovery did not
// pick up. Declaration files and source maps are never packaged.
func undiscovered(emitted []string, specs []modpack.CopySpec) []string {
	found := make(map[string]bool, len(specs))
	for _, s := range specs {
		found[filepath.Clean(s.Origin().Source())] = true
	}
	var missing []string
	for _, file := range emitted {
		if strings.EqualFold(filepath.Ext(file), ".js") && !found[filepath.Clean(file)] {
			missing = append(missing, file)
		}
	}
	return missing
}

func (r *run) collectAssets(context.Context) error {
	for _, rule := range r.p.Assets {
		category := rule.ParsedCategory()
		resource := path.Join(rule.Base, rule.Dir)
		pred, err := rule.Predicate()
		if err != nil {
			return phaseErr(PhaseCollectAssets, category.Key(), resource, err)
		}
		specs, err := modpack.Discover(r.p.Path(rule.Base), rule.Dir, pred)
		if err != nil {
			return phaseErr(PhaseCollectAssets, category.Key(), resource, err)
		}
		if len(specs) == 0 {
			r.logger.Warn("asset rule matched no files", "category", category.Key(), "dir", resource)
		}
		if err := r.manifest.AddToCategory(category, specs...); err != nil {
			return phaseErr(PhaseCollectAssets, category.Key(), resource, err)
		}
	}
	return nil
}

// processImagePacks indexes every enabled image pack. Packs are handled in
// reverse declaration order. Discovery runs concurrently; the manifest and
// the selector are only touched afterwards, in order.
func (r *run) processImagePacks(ctx context.Context) error {
	packs := r.p.EnabledImagePacks()
	if len(packs) == 0 {
		return nil
	}
	slices.Reverse(packs)

	if _, ok := r.manifest.BeautySelector(); !ok {
		return phaseErr(PhaseProcessImagePacks, modpack.CategoryAdditionFile.Key(), "",
			fmt.Errorf("image packs need the %s plugin", modpack.BeautySelectorAddonName))
	}

	found := make([][]modpack.CopySpec, len(packs))
	g, gctx := errgroup.WithContext(ctx)
	for i, pack := range packs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			specs, err := r.discoverPack(pack)
			if err != nil {
				return phaseErr(PhaseProcessImagePacks, modpack.PlanCategoryAdditionDir, pack.Name, err)
			}
			found[i] = specs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var pe *PhaseError
		if errors.As(err, &pe) {
			return pe
		}
		return phaseErr(PhaseProcessImagePacks, "", "", err)
	}

	for i, pack := range packs {
		if err := r.addPack(pack, found[i]); err != nil {
			return phaseErr(PhaseProcessImagePacks, modpack.CategoryAdditionFile.Key(), pack.Name, err)
		}
	}
	return nil
}

func (r *run) discoverPack(pack project.ImagePack) ([]modpack.CopySpec, error) {
	dir := r.p.Path(pack.Dir)
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && pack.RepoURL != "" {
			return nil, fmt.Errorf("%s is missing, clone %s into it: %w", pack.Dir, pack.RepoURL, err)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", pack.Dir)
	}
	return modpack.Discover(dir, project.ImageSubdir,
		modpack.All(modpack.RegularFiles, modpack.ExtensionIs(pack.Extensions...)))
}

func (r *run) addPack(pack project.ImagePack, specs []modpack.CopySpec) error {
	data, err := r.opts.Serializer.EncodeSpecs(specs)
	if err != nil {
		return err
	}
	indexFile := filepath.Join(r.buildDir, filepath.FromSlash(pack.IndexPath()))
	if !r.opts.DryRun {
		if err := os.MkdirAll(filepath.Dir(indexFile), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(indexFile, data, 0o644); err != nil {
			return err
		}
	}
	r.logger.Info("image pack", "name", pack.Name, "images", len(specs))

	index, err := modpack.NewLocation(indexFile, pack.IndexPath())
	if err != nil {
		return err
	}
	if err := r.manifest.AddToCategory(modpack.CategoryAdditionFile, index.CopySpec()); err != nil {
		return err
	}
	dir, err := modpack.NewLocation(r.p.Path(pack.Dir), pack.Dir)
	if err != nil {
		return err
	}
	if err := r.manifest.AddAuxiliaryDirectory(dir); err != nil {
		return err
	}
	return r.manifest.AppendSelectorTypes(modpack.SelectorType{Type: pack.Name, ImgFileListFile: pack.IndexPath()})
}

func (r *run) collectAdditionFiles(context.Context) error {
	files := []struct {
		category modpack.Category
		paths    []string
	}{
		{modpack.CategoryAdditionFile, r.p.AdditionFiles},
		{modpack.CategoryAdditionBinaryFile, r.p.AdditionBinaryFiles},
	}
	for _, f := range files {
		for _, rel := range f.paths {
			loc, err := r.existing(rel, false)
			if err != nil {
				return phaseErr(PhaseCollectAdditionFiles, f.category.Key(), rel, err)
			}
			if err := r.manifest.AddToCategory(f.category, loc.CopySpec()); err != nil {
				return phaseErr(PhaseCollectAdditionFiles, f.category.Key(), rel, err)
			}
		}
	}

	for _, rel := range r.p.AdditionDirs {
		loc, err := r.existing(rel, true)
		if err != nil {
			return phaseErr(PhaseCollectAdditionFiles, modpack.PlanCategoryAdditionDir, rel, err)
		}
		if err := r.manifest.AddAuxiliaryDirectory(loc); err != nil {
			return phaseErr(PhaseCollectAdditionFiles, modpack.PlanCategoryAdditionDir, rel, err)
		}
	}
	return nil
}

// existing resolves a project-relative path that must already exist.
func (r *run) existing(rel string, wantDir bool) (modpack.Location, error) {
	abs := r.p.Path(rel)
	info, err := os.Stat(abs)
	if err != nil {
		return modpack.Location{}, err
	}
	switch {
	case wantDir && !info.IsDir():
		return modpack.Location{}, fmt.Errorf("%s is not a directory", rel)
	case !wantDir && !info.Mode().IsRegular():
		return modpack.Location{}, fmt.Errorf("%s is not a regular file", rel)
	}
	return modpack.NewLocation(abs, rel)
}

func (r *run) serialize(context.Context) error {
	r.stagedPath = filepath.Join(r.stagingDir, r.opts.ManifestName)

	var (
		data []byte
		err  error
	)
	if r.opts.DryRun {
		data, err = r.opts.Serializer.Serialize(r.manifest)
	} else {
		data, err = r.opts.Serializer.WriteAndReturn(r.manifest, r.stagedPath)
	}
	if err != nil {
		return phaseErr(PhaseSerialize, "", r.opts.ManifestName, err)
	}
	r.result.ManifestJSON = data
	r.logger.Debug("manifest", "json", string(data))
	return nil
}

func (r *run) assemble(ctx context.Context) error {
	plan, err := modpack.BuildPlan(r.manifest, r.stagedPath)
	if err != nil {
		var dup *modpack.DuplicateEntryError
		resource := ""
		if errors.As(err, &dup) {
			resource = dup.ArchivePath
		}
		return phaseErr(PhaseAssemble, "", resource, err)
	}
	r.result.Plan = plan
	if r.opts.DryRun {
		return nil
	}

	dest := filepath.Join(r.outputDir(), r.p.ArchiveName(r.opts.Author))
	if err := r.opts.Archive.Write(ctx, plan, dest); err != nil {
		return phaseErr(PhaseAssemble, "", dest, err)
	}
	r.result.ArchivePath = dest
	return nil
}

// finalize moves the staged manifest into the build directory once the
// archive exists.
func (r *run) finalize(context.Context) error {
	if r.opts.DryRun {
		return nil
	}
	final := filepath.Join(r.buildDir, r.opts.ManifestName)
	if err := os.Rename(r.stagedPath, final); err != nil {
		_ = os.Remove(r.result.ArchivePath) // Best-effort cleanup
		r.result.ArchivePath = ""
		return phaseErr(PhaseFinalize, "", final, err)
	}
	r.result.ManifestPath = final
	r.logger.Info("built", "archive", r.result.ArchivePath, "entries", r.result.Plan.Len())
	return nil
}
