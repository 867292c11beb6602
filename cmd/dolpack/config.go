// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Meow0x7E/DoL-Mods/internal/config"
)

// newConfigCommand creates the `dolpack config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage dolpack configuration",
		Long: `Manage dolpack configuration.

Configuration is stored in:
  - Linux: ~/.config/dolpack/config.cue
  - macOS: ~/Library/Application Support/dolpack/config.cue
  - Windows: %APPDATA%\dolpack\config.cue

Every key can be overridden with a DOLPACK_ environment variable, for
example DOLPACK_ARCHIVE_AUTHOR or DOLPACK_MANIFEST_INDENT.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			showConfig(app)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			path, created, err := config.CreateDefaultConfig("")
			if err != nil {
				return decorate(err, "create configuration", path)
			}
			if !created {
				fmt.Fprintf(app.stdout, "%s Config file already exists: %s\n", warnStyle.Render("!"), path)
				return nil
			}
			fmt.Fprintf(app.stdout, "%s Created %s\n", okStyle.Render("✓"), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			path, err := config.FilePath()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(app.stdout, path)
			return err
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			_, err := fmt.Fprint(app.stdout, config.GenerateCUE(app.cfg))
			return err
		},
	})

	return cfgCmd
}

func showConfig(app *App) {
	cfg := app.cfg
	w := app.stdout
	key := keyStyle.Render
	val := okStyle.Render

	fmt.Fprintln(w, titleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	if app.cfgPath != "" {
		fmt.Fprintf(w, "%s: %s\n", key("Config file"), app.cfgPath)
	} else {
		fmt.Fprintf(w, "%s: %s\n", key("Config file"), mutedStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", key("output_dir"), val(cfg.OutputDir))
	fmt.Fprintf(w, "%s:\n", key("manifest"))
	fmt.Fprintf(w, "  file_name: %s\n", val(cfg.Manifest.FileName.String()))
	fmt.Fprintf(w, "  indent: %s\n", val(strconv.Quote(string(cfg.Manifest.Indent))))
	fmt.Fprintf(w, "%s:\n", key("archive"))
	fmt.Fprintf(w, "  compression_level: %s\n", val(strconv.Itoa(int(cfg.Archive.CompressionLevel))))
	fmt.Fprintf(w, "  author: %s\n", val(strconv.Quote(cfg.Archive.Author)))
	fmt.Fprintf(w, "%s:\n", key("compiler"))
	fmt.Fprintf(w, "  command: %s\n", val(cfg.Compiler.Command))
	fmt.Fprintf(w, "%s:\n", key("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", val(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(w, "  verbose: %s\n", val(strconv.FormatBool(cfg.UI.Verbose)))
}
