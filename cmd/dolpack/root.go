// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the dolpack command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dolpack",
		Short: "Package Degrees of Lewdity mods for the ModLoader",
		Long: titleStyle.Render("dolpack") + mutedStyle.Render(" - Package Degrees of Lewdity mods for the ModLoader") + `

dolpack reads a mod project (dolmod.cue), compiles its TypeScript units,
collects twee, style, image and addition files, indexes image packs for the
BeautySelectorAddon, and writes boot.json plus a <author>-<name>-v<version>.mod.zip.

` + mutedStyle.Render("Examples:") + `
  dolpack init --name MyMod     Create a starter dolmod.cue
  dolpack build                 Build the project in the current directory
  dolpack build --watch         Rebuild on every change
  dolpack plan                  Show the archive layout without writing it
  dolpack inspect build/*.zip   Summarize a built package`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.init(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.flags.configPath, "config", "", "config file (default is $HOME/.config/dolpack/config.cue)")

	rootCmd.SetIn(app.stdin)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.AddCommand(
		newBuildCommand(app),
		newPlanCommand(app),
		newInspectCommand(app),
		newInitCommand(app),
		newConfigCommand(app),
		newVersionCommand(app),
	)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with the command's status. It is called by
// main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(app.handleError),
	); err != nil {
		os.Exit(exitCode(err))
	}
}

func newVersionCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the dolpack version",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			_, err := fmt.Fprintf(app.stdout, "dolpack %s\n", getVersionString())
			return err
		},
	}
}
