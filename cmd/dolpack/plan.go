// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Meow0x7E/DoL-Mods/internal/pipeline"
	"github.com/Meow0x7E/DoL-Mods/internal/project"
)

func newPlanCommand(app *App) *cobra.Command {
	var showManifest bool
	planCmd := &cobra.Command{
		Use:   "plan [dir]",
		Short: "Show the archive layout without building",
		Long: `Show every entry the package of the project in dir would contain, in
archive order, without running the compiler or writing any file.

Script units are taken from existing compiler output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.loadProject(projectDir(args))
			if err != nil {
				return err
			}
			res, err := pipeline.Run(cmd.Context(), app.pipelineOptions(p, "", true))
			if err != nil {
				return decorate(err, "plan", p.Name)
			}
			if showManifest {
				_, err := fmt.Fprintf(app.stdout, "%s\n", res.ManifestJSON)
				return err
			}
			fmt.Fprintln(app.stdout, titleStyle.Render(p.ArchiveName(app.cfg.Archive.Author)))
			fmt.Fprintln(app.stdout, renderPlan(p, res))
			return nil
		},
	}
	planCmd.Flags().BoolVar(&showManifest, "manifest", false, "print the manifest JSON instead of the layout")
	return planCmd
}

// renderPlan tabulates the archive entries with their sources relative to
// the project.
func renderPlan(p *project.Project, res *pipeline.Result) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("#", "ENTRY", "CATEGORY", "SOURCE").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})
	for i, e := range res.Plan.Entries {
		source := e.Source
		if rel, err := filepath.Rel(p.Dir, e.Source); err == nil {
			source = filepath.ToSlash(rel)
		}
		t.Row(strconv.Itoa(i+1), e.ArchivePath, e.Category, source)
	}
	return t.Render()
}
