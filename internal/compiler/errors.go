// SPDX-License-Identifier: MPL-2.0

package compiler

import (
	"errors"
	"fmt"
	"strings"
)

// ErrExternalProcess is the sentinel error wrapped by ExternalProcessFailure.
var ErrExternalProcess = errors.New("external process failed")

// ExternalProcessFailure reports a compiler run that did not succeed. Output
// is the captured process output; Err is set when the process never ran.
type ExternalProcessFailure struct {
	Unit     string
	ExitCode int
	Output   string
	Err      error
}

// Error implements the error interface.
func (e *ExternalProcessFailure) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("compiling %s: %v", e.Unit, e.Err)
	}
	msg := fmt.Sprintf("compiling %s: exit status %d", e.Unit, e.ExitCode)
	if tail := lastLine(e.Output); tail != "" {
		msg += ": " + tail
	}
	return msg
}

// Unwrap exposes ErrExternalProcess and, when set, the launch error.
func (e *ExternalProcessFailure) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrExternalProcess, e.Err}
	}
	return []error{ErrExternalProcess}
}

func lastLine(s string) string {
	s = strings.TrimRight(s, " \t\r\n")
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}
