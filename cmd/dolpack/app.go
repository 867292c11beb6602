// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/Meow0x7E/DoL-Mods/internal/archive"
	"github.com/Meow0x7E/DoL-Mods/internal/compiler"
	"github.com/Meow0x7E/DoL-Mods/internal/config"
	"github.com/Meow0x7E/DoL-Mods/internal/pipeline"
	"github.com/Meow0x7E/DoL-Mods/internal/project"
	"github.com/Meow0x7E/DoL-Mods/pkg/modpack"
)

type (
	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, string, error)
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// App is the composition root of the CLI. The root command's pre-run
	// hook fills in the per-invocation state.
	App struct {
		Config ConfigProvider
		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer

		flags   rootFlagValues
		cfg     *config.Config
		cfgPath string
		logger  *log.Logger
	}

	rootFlagValues struct {
		verbose    bool
		configPath string
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Config == nil {
		deps.Config = config.Loader{}
	}
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	return &App{
		Config: deps.Config,
		stdin:  deps.Stdin,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
		cfg:    config.DefaultConfig(),
		logger: log.New(io.Discard),
	}
}

// init loads the configuration and builds the logger. A broken config file
// is reported as a warning and the defaults apply, except when --config
// names the file explicitly.
func (a *App) init(ctx context.Context) error {
	cfg, path, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.flags.configPath})
	if err != nil {
		if a.flags.configPath != "" {
			return err
		}
		fmt.Fprintln(a.stderr, warnStyle.Render("Warning: ")+formatErrorForDisplay(err, a.flags.verbose))
		cfg = config.DefaultConfig()
	}
	a.cfg = cfg
	a.cfgPath = path
	if cfg.UI.Verbose {
		a.flags.verbose = true
	}
	a.logger = newLogger(a.stderr, a.flags.verbose)
	return nil
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          config.AppName,
		ReportTimestamp: verbose,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// loadProject reads the project in dir and attaches a catalog guide to the
// failure.
func (a *App) loadProject(dir string) (*project.Project, error) {
	p, err := project.Load(dir)
	if err != nil {
		return nil, decorate(err, "load project", dir)
	}
	a.logger.Debug("project", "name", p.Name, "version", p.Version, "dir", p.Dir)
	return p, nil
}

// pipelineOptions maps the configuration onto a build of p.
func (a *App) pipelineOptions(p *project.Project, outputDir string, dryRun bool) pipeline.Options {
	if outputDir == "" {
		outputDir = a.cfg.OutputDir
	}
	return pipeline.Options{
		Project:      p,
		Compiler:     compiler.Compiler{Command: a.cfg.Compiler.Command},
		Serializer:   modpack.Serializer{Indent: string(a.cfg.Manifest.Indent)},
		Archive:      archive.Writer{Level: int(a.cfg.Archive.CompressionLevel), Logger: a.logger},
		ManifestName: a.cfg.Manifest.FileName.String(),
		OutputDir:    outputDir,
		Author:       a.cfg.Archive.Author,
		DryRun:       dryRun,
		Logger:       a.logger,
	}
}

// glamourStyle picks the markdown style for w from the configured scheme.
func (a *App) glamourStyle(w io.Writer) string {
	if !isTerminal(w) {
		return "notty"
	}
	switch a.cfg.UI.ColorScheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w any) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}
