// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Meow0x7E/DoL-Mods/internal/archive"
	"github.com/Meow0x7E/DoL-Mods/pkg/modpack"
)

type inspectFlagValues struct {
	readme   bool
	manifest bool
}

func newInspectCommand(app *App) *cobra.Command {
	var flags inspectFlagValues
	inspectCmd := &cobra.Command{
		Use:   "inspect <archive>",
		Short: "Summarize a built mod package",
		Long: `Summarize a built mod package: identity, entries per category, addons and
dependencies. Entries named by the manifest but absent from the archive are
reported and fail the command.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(app, args[0], flags)
		},
	}
	inspectCmd.Flags().BoolVar(&flags.readme, "readme", false, "render the package readme")
	inspectCmd.Flags().BoolVar(&flags.manifest, "manifest", false, "print the raw manifest")
	inspectCmd.MarkFlagsMutuallyExclusive("readme", "manifest")
	return inspectCmd
}

func runInspect(app *App, archivePath string, flags inspectFlagValues) error {
	manifestName := app.cfg.Manifest.FileName.String()

	if flags.manifest {
		data, err := archive.ReadEntry(archivePath, manifestName)
		if err != nil {
			return decorate(err, "read manifest", archivePath)
		}
		_, err = fmt.Fprintf(app.stdout, "%s\n", data)
		return err
	}

	pm, err := archive.ReadManifest(archivePath, manifestName)
	if err != nil {
		return decorate(err, "read manifest", archivePath)
	}

	if flags.readme {
		return printReadme(app, archivePath, pm)
	}

	entries, err := archive.ListEntries(archivePath)
	if err != nil {
		return decorate(err, "list entries", archivePath)
	}
	present := make(map[string]bool, len(entries))
	for _, e := range entries {
		present[e] = true
	}

	fmt.Fprintf(app.stdout, "%s %s\n", titleStyle.Render(pm.Name), mutedStyle.Render("v"+pm.Version))
	fmt.Fprintf(app.stdout, "%s %d\n\n", keyStyle.Render("archive entries:"), len(entries))

	counts := table.New().
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(int, int) lipgloss.Style { return tableCellStyle })
	var missing []string
	for _, c := range modpack.Categories() {
		list := pm.Category(c)
		if len(list) == 0 && c.Optional() {
			continue
		}
		counts.Row(c.Key(), strconv.Itoa(len(list)))
		for _, e := range list {
			if !present[e.String()] {
				missing = append(missing, e.String())
			}
		}
	}
	counts.Row("additionDir", strconv.Itoa(len(pm.AdditionDir)))
	fmt.Fprintln(app.stdout, counts.Render())

	if err := printAddons(app, pm); err != nil {
		return err
	}
	if len(pm.DependenceInfo) > 0 {
		fmt.Fprintln(app.stdout, keyStyle.Render("dependencies:"))
		for _, d := range pm.DependenceInfo {
			fmt.Fprintf(app.stdout, "  - %s %s\n", d.ModName, mutedStyle.Render(d.Version))
		}
	}

	if len(missing) > 0 {
		fmt.Fprintln(app.stderr, errStyle.Render("missing from archive:"))
		for _, m := range missing {
			fmt.Fprintf(app.stderr, "  - %s\n", m)
		}
		return &ExitError{Code: 1}
	}
	return nil
}

func printAddons(app *App, pm *modpack.PackagedManifest) error {
	plugins, err := pm.Plugins()
	if err != nil {
		return fmt.Errorf("decoding addons: %w", err)
	}
	if len(plugins) == 0 {
		return nil
	}
	fmt.Fprintln(app.stdout, keyStyle.Render("addons:"))
	for _, p := range plugins {
		fmt.Fprintf(app.stdout, "  - %s/%s %s\n", p.ModName(), p.AddonName(), mutedStyle.Render(p.ModVersion()))
		if bs, ok := p.(*modpack.BeautySelectorAddon); ok {
			names := make([]string, 0, len(bs.Types()))
			for _, t := range bs.Types() {
				names = append(names, t.Type)
			}
			if len(names) > 0 {
				fmt.Fprintf(app.stdout, "    %s %s\n", mutedStyle.Render("types:"), strings.Join(names, ", "))
			}
		}
	}
	return nil
}

func printReadme(app *App, archivePath string, pm *modpack.PackagedManifest) error {
	entry, ok := pm.Readme()
	if !ok {
		return fmt.Errorf("%s declares no readme", archivePath)
	}
	data, err := archive.ReadEntry(archivePath, entry.String())
	if err != nil {
		return decorate(err, "read readme", archivePath)
	}
	if !strings.EqualFold(path.Ext(entry.String()), ".md") {
		_, err = app.stdout.Write(data)
		return err
	}
	out, err := glamour.Render(string(data), app.glamourStyle(app.stdout))
	if err != nil {
		return fmt.Errorf("rendering %s: %w", entry, err)
	}
	_, err = fmt.Fprint(app.stdout, out)
	return err
}
