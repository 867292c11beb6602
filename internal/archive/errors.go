// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"errors"
	"fmt"
)

// ErrArchiveWrite is the sentinel error wrapped by ArchiveWriteError.
var ErrArchiveWrite = errors.New("archive write failed")

// ArchiveWriteError reports a failure while producing an archive. Entry is
// empty when the failure is not tied to a single entry.
type ArchiveWriteError struct {
	Path  string
	Entry string
	Err   error
}

// Error implements the error interface.
func (e *ArchiveWriteError) Error() string {
	if e.Entry == "" {
		return fmt.Sprintf("writing archive %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("writing archive %s: entry %q: %v", e.Path, e.Entry, e.Err)
}

// Unwrap exposes both ErrArchiveWrite and the underlying cause.
func (e *ArchiveWriteError) Unwrap() []error { return []error{ErrArchiveWrite, e.Err} }
