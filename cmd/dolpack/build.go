// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Meow0x7E/DoL-Mods/internal/pipeline"
	"github.com/Meow0x7E/DoL-Mods/internal/project"
	"github.com/Meow0x7E/DoL-Mods/internal/watch"
)

type buildFlagValues struct {
	watch  bool
	dryRun bool
	output string
	author string
}

func newBuildCommand(app *App) *cobra.Command {
	var flags buildFlagValues
	buildCmd := &cobra.Command{
		Use:   "build [dir]",
		Short: "Build the mod package",
		Long: `Build the mod package of the project in dir (default: the current directory).

The manifest is left in the build directory and the archive is written to the
output directory. A failed build leaves neither behind.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := projectDir(args)
			if flags.watch {
				if flags.dryRun {
					return errors.New("--watch and --dry-run cannot be used together")
				}
				return runWatch(cmd.Context(), app, dir, flags)
			}
			return runBuild(cmd.Context(), app, dir, flags)
		},
	}

	buildCmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "rebuild whenever the project changes")
	buildCmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "plan the package without compiling or writing files")
	buildCmd.Flags().StringVarP(&flags.output, "output", "o", "", "archive output directory (default from config)")
	buildCmd.Flags().StringVar(&flags.author, "author", "", "archive name prefix when the project sets none")
	return buildCmd
}

func projectDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

func runBuild(ctx context.Context, app *App, dir string, flags buildFlagValues) error {
	p, err := app.loadProject(dir)
	if err != nil {
		return err
	}
	opts := app.pipelineOptions(p, flags.output, flags.dryRun)
	if flags.author != "" {
		opts.Author = flags.author
	}

	res, err := pipeline.Run(ctx, opts)
	if err != nil {
		return decorate(err, "build", p.Name)
	}

	if flags.dryRun {
		fmt.Fprintf(app.stdout, "%s %s v%s: %d entries (dry run, nothing written)\n",
			mutedStyle.Render("→"), p.Name, p.Version, res.Plan.Len())
		fmt.Fprintln(app.stdout, renderPlan(p, res))
		return nil
	}
	fmt.Fprintf(app.stdout, "%s Built %s (%d entries)\n",
		okStyle.Render("✓"), displayPath(res.ArchivePath), res.Plan.Len())
	fmt.Fprintf(app.stdout, "  %s %s\n", mutedStyle.Render("manifest:"), displayPath(res.ManifestPath))
	return nil
}

// runWatch builds once, then rebuilds on every change. The project file is
// reloaded each time, so edits to dolmod.cue take effect immediately.
func runWatch(ctx context.Context, app *App, dir string, flags buildFlagValues) error {
	p, err := app.loadProject(dir)
	if err != nil {
		return err
	}

	rebuild := func(ctx context.Context) {
		if buildErr := runBuild(ctx, app, dir, flags); buildErr != nil {
			fmt.Fprintln(app.stderr, warnStyle.Render("! ")+formatErrorForDisplay(buildErr, app.flags.verbose))
		}
	}
	rebuild(ctx)

	w, err := watch.New(watch.Config{
		BaseDir: p.Dir,
		Ignore:  watchIgnores(p, app.pipelineOptions(p, flags.output, false).OutputDir),
		Logger:  app.logger,
		OnChange: func(ctx context.Context, changed []string) error {
			fmt.Fprintf(app.stdout, "\n%s %d change(s): %s\n", mutedStyle.Render("→"), len(changed), summarize(changed))
			rebuild(ctx)
			return nil
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	fmt.Fprintf(app.stdout, "\n%s Watching %s for changes (Ctrl+C to stop)...\n", mutedStyle.Render("→"), displayPath(p.Dir))
	return w.Run(ctx)
}

// watchIgnores excludes everything the build writes inside the project.
func watchIgnores(p *project.Project, outputDir string) []string {
	ignores := []string{filepath.ToSlash(filepath.Clean(p.BuildDir)) + "/**"}
	for _, s := range p.Scripts {
		ignores = append(ignores, filepath.ToSlash(filepath.Clean(s.Output))+"/**")
	}
	out := outputDir
	if !filepath.IsAbs(out) {
		out = p.Path(out)
	}
	if rel, err := filepath.Rel(p.Dir, out); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
		ignores = append(ignores, filepath.ToSlash(rel)+"/**")
	}
	return ignores
}

func summarize(changed []string) string {
	const maxShown = 3
	if len(changed) <= maxShown {
		return strings.Join(changed, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(changed[:maxShown], ", "), len(changed)-maxShown)
}

// displayPath shortens path relative to the working directory when it lies
// below it.
func displayPath(path string) string {
	abs, err := filepath.Abs(".")
	if err != nil {
		return path
	}
	if rel, err := filepath.Rel(abs, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}
