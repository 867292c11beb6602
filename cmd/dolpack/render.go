// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/charmbracelet/fang"

	"github.com/Meow0x7E/DoL-Mods/internal/archive"
	"github.com/Meow0x7E/DoL-Mods/internal/compiler"
	"github.com/Meow0x7E/DoL-Mods/internal/issue"
	"github.com/Meow0x7E/DoL-Mods/internal/pipeline"
	"github.com/Meow0x7E/DoL-Mods/internal/project"
	"github.com/Meow0x7E/DoL-Mods/pkg/cueutil"
	"github.com/Meow0x7E/DoL-Mods/pkg/modpack"
)

// ExitError sets the process exit status. With a nil Err the command has
// already reported the failure and the error handler stays quiet.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// exitCode is the status Execute exits with for err.
func exitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// classifyError maps a failure onto its catalog guide. Zero means none.
func classifyError(err error) issue.Id {
	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.IssueID != 0 {
		return ae.IssueID
	}
	var pe *pipeline.PhaseError
	switch {
	case errors.Is(err, project.ErrNotAProject):
		return issue.ProjectNotFoundId
	case errors.Is(err, project.ErrInvalidProject), errors.Is(err, cueutil.ErrValidation):
		return issue.ProjectInvalidId
	case errors.Is(err, compiler.ErrExternalProcess):
		return issue.CompilerFailedId
	case errors.Is(err, modpack.ErrDuplicateEntry):
		return issue.DuplicateEntryId
	case errors.Is(err, archive.ErrArchiveWrite):
		return issue.ArchiveWriteFailedId
	case errors.As(err, &pe) && pe.Phase == pipeline.PhaseProcessImagePacks && errors.Is(err, fs.ErrNotExist):
		return issue.ImagePackMissingId
	case errors.Is(err, fs.ErrPermission):
		return issue.PermissionDeniedId
	default:
		return 0
	}
}

// decorate wraps err into an ActionableError linked to its guide. Errors
// that are already actionable pass through.
func decorate(err error, operation, resource string) error {
	var ae *issue.ActionableError
	if err == nil || errors.As(err, &ae) {
		return err
	}
	ctx := issue.NewErrorContext().
		WithOperation(operation).
		WithResource(resource).
		Wrap(err)
	if id := classifyError(err); id != 0 {
		ctx = ctx.WithIssue(id)
	}
	return ctx.BuildError()
}

// formatErrorForDisplay formats an error for user display. ActionableErrors
// render their suggestions, and in verbose mode their full error chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// handleError is the fang error handler: the error line, then the linked
// troubleshooting guide.
func (a *App) handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}

	if isTerminal(a.stderr) {
		fmt.Fprintln(w, styles.ErrorHeader.String())
	}
	fmt.Fprintln(w, errStyle.Render("Error: ")+formatErrorForDisplay(err, a.flags.verbose))

	id := classifyError(err)
	if id == 0 {
		return
	}
	guide, renderErr := issue.Get(id).Render(a.glamourStyle(a.stderr))
	if renderErr != nil {
		a.logger.Debug("render guide", "err", renderErr)
		return
	}
	fmt.Fprint(w, guide)
}
