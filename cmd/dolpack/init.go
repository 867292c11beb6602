// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/Meow0x7E/DoL-Mods/internal/project"
	"github.com/Meow0x7E/DoL-Mods/internal/tui"
)

const defaultInitVersion = "0.1.0"

// modNamePattern mirrors the characters ModLoader accepts in a mod name.
var modNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

type initFlagValues struct {
	name    string
	version string
	yes     bool
}

func newInitCommand(app *App) *cobra.Command {
	var flags initFlagValues
	initCmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a starter dolmod.cue",
		Long: `Create a starter dolmod.cue in dir (default: the current directory).

On a terminal the name and version are asked for; --name, --version and --yes
skip the prompts. An existing project file is never overwritten.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(app, projectDir(args), flags)
		},
	}
	initCmd.Flags().StringVar(&flags.name, "name", "", "mod name (default: the directory name)")
	initCmd.Flags().StringVar(&flags.version, "version", "", "mod version (default "+defaultInitVersion+")")
	initCmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "accept defaults without prompting")
	return initCmd
}

func runInit(app *App, dir string, flags initFlagValues) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	name := flags.name
	if name == "" {
		name = filepath.Base(absDir)
	}
	version := flags.version
	if version == "" {
		version = defaultInitVersion
	}

	prompt := !flags.yes && (flags.name == "" || flags.version == "") && isTerminal(app.stdin) && isTerminal(app.stdout)
	if prompt {
		if err := promptIdentity(app, &name, &version); err != nil {
			return err
		}
	} else if err := validateModName(name); err != nil {
		return fmt.Errorf("%w; pass --name", err)
	}

	path, err := project.Init(absDir, name, version)
	if err != nil {
		if errors.Is(err, project.ErrProjectExists) {
			return fmt.Errorf("%w. Edit it instead, or remove it first", err)
		}
		return decorate(err, "create project", absDir)
	}

	fmt.Fprintf(app.stdout, "%s Created %s\n", okStyle.Render("✓"), displayPath(path))
	fmt.Fprintln(app.stdout)
	fmt.Fprintln(app.stdout, mutedStyle.Render("Next steps:"))
	fmt.Fprintln(app.stdout, "  1. Put twee files under src/assets.d/twee.d and styles under src/assets.d/style.d")
	fmt.Fprintln(app.stdout, "  2. Run 'dolpack plan' to check the archive layout")
	fmt.Fprintln(app.stdout, "  3. Run 'dolpack build' to write the package")
	return nil
}

func promptIdentity(app *App, name, version *string) error {
	cfg := tui.DefaultConfig()
	cfg.Input = app.stdin
	cfg.Output = app.stdout

	answer, err := tui.Input(tui.InputOptions{
		Title:       "Mod name",
		Description: "Shown by the ModLoader and used in the archive name",
		Value:       *name,
		Validate:    validateModName,
		Config:      cfg,
	})
	if err != nil {
		return promptErr(err)
	}
	*name = answer

	answer, err = tui.Input(tui.InputOptions{
		Title:  "Version",
		Value:  *version,
		Config: cfg,
	})
	if err != nil {
		return promptErr(err)
	}
	*version = answer
	return nil
}

func promptErr(err error) error {
	if errors.Is(err, tui.ErrCancelled) {
		return errors.New("init canceled")
	}
	return err
}

func validateModName(name string) error {
	if !modNamePattern.MatchString(name) {
		return fmt.Errorf("invalid mod name %q", name)
	}
	return nil
}
