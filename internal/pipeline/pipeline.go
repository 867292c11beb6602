// SPDX-License-Identifier: MPL-2.0

// Package pipeline builds a mod package from a project.
//
// A build runs a fixed sequence of phases over a single manifest owned by the
// run: compile script units, collect assets, process image packs, collect
// addition files, serialize the manifest, assemble the archive and finalize.
// The first failing phase aborts the run and no manifest or archive is left
// behind.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/Meow0x7E/DoL-Mods/internal/archive"
	"github.com/Meow0x7E/DoL-Mods/internal/compiler"
	"github.com/Meow0x7E/DoL-Mods/internal/project"
	"github.com/Meow0x7E/DoL-Mods/pkg/modpack"
)

// DefaultManifestName is the manifest file name inside the archive.
const DefaultManifestName = "boot.json"

// stagingDirName holds the manifest until the archive is complete.
const stagingDirName = ".dolpack-staging"

type (
	// Options configures a build.
	Options struct {
		Project *project.Project
		// Compiler builds script units. An empty WorkDir selects the project
		// directory.
		Compiler   compiler.Compiler
		Serializer modpack.Serializer
		Archive    archive.Writer
		// ManifestName defaults to DefaultManifestName.
		ManifestName string
		// OutputDir receives the archive. Relative paths are resolved against
		// the project directory; empty selects the project's build directory.
		OutputDir string
		// Author prefixes the archive name when the project sets none.
		Author string
		// DryRun plans the archive without running the compiler or writing
		// any file. Script units are discovered from existing output.
		DryRun bool
		Logger *log.Logger
	}

	// Result describes a finished build.
	Result struct {
		Manifest     *modpack.Manifest
		ManifestJSON []byte
		// ManifestPath is where the manifest was left in the build directory.
		ManifestPath string
		Plan         *modpack.Plan
		// ArchivePath is empty for dry runs.
		ArchivePath string
	}

	run struct {
		opts     Options
		p        *project.Project
		logger   *log.Logger
		manifest *modpack.Manifest
		result   *Result

		buildDir   string
		stagingDir string
		stagedPath string
	}
)

// Run builds the project described by opts.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Project == nil {
		return nil, fmt.Errorf("pipeline: no project")
	}
	r, err := newRun(opts)
	if err != nil {
		return nil, err
	}
	defer r.cleanup()

	steps := []struct {
		phase Phase
		fn    func(context.Context) error
	}{
		{PhaseCompileScripts, r.compileScripts},
		{PhaseCollectAssets, r.collectAssets},
		{PhaseProcessImagePacks, r.processImagePacks},
		{PhaseCollectAdditionFiles, r.collectAdditionFiles},
		{PhaseSerialize, r.serialize},
		{PhaseAssemble, r.assemble},
		{PhaseFinalize, r.finalize},
	}
	for _, step := range steps {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, phaseErr(step.phase, "", "", ctxErr)
		}
		r.logger.Debug("phase", "name", step.phase)
		if stepErr := step.fn(ctx); stepErr != nil {
			return nil, stepErr
		}
	}
	return r.result, nil
}

func newRun(opts Options) (*run, error) {
	p := opts.Project
	if opts.ManifestName == "" {
		opts.ManifestName = DefaultManifestName
	}
	if opts.Compiler.WorkDir == "" {
		opts.Compiler.WorkDir = p.Dir
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.Archive.Logger == nil {
		opts.Archive.Logger = logger
	}

	m := modpack.New(p.Name, p.Version)
	declared := make(map[string]bool, len(p.Dependencies))
	for _, d := range p.Dependencies {
		if err := m.AddDependency(d); err != nil {
			return nil, err
		}
		declared[d.ModName] = true
	}
	for i, spec := range p.Plugins {
		plugin, err := spec.Build()
		if err != nil {
			return nil, fmt.Errorf("plugins[%d]: %w", i, err)
		}
		if err := m.AddPlugin(plugin); err != nil {
			return nil, err
		}
		// Every addon's providing mod must be a dependency.
		if !declared[plugin.ModName()] {
			if err := m.AddDependency(modpack.DependencyOf(plugin)); err != nil {
				return nil, err
			}
			declared[plugin.ModName()] = true
		}
	}

	buildDir := p.Path(p.BuildDir)
	return &run{
		opts:       opts,
		p:          p,
		logger:     logger,
		manifest:   m,
		result:     &Result{Manifest: m},
		buildDir:   buildDir,
		stagingDir: filepath.Join(buildDir, stagingDirName),
	}, nil
}

// outputDir resolves where the archive is written.
func (r *run) outputDir() string {
	switch {
	case r.opts.OutputDir == "":
		return r.buildDir
	case filepath.IsAbs(r.opts.OutputDir):
		return r.opts.OutputDir
	default:
		return r.p.Path(r.opts.OutputDir)
	}
}

func (r *run) cleanup() {
	if r.opts.DryRun {
		return
	}
	_ = os.RemoveAll(r.stagingDir) // Best-effort cleanup
}
