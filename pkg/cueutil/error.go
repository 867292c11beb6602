// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// ErrValidation is the sentinel error wrapped by ValidationError.
var ErrValidation = errors.New("validation failed")

type (
	// Issue is one problem found in a CUE document.
	Issue struct {
		// Path is the JSON path of the offending value ("plugins[0].kind").
		// Empty for document-level problems such as syntax errors.
		Path    string
		Message string
	}

	// ValidationError reports every issue found in one file.
	// It wraps ErrValidation for errors.Is() compatibility.
	ValidationError struct {
		FilePath string
		Issues   []Issue
	}
)

// Error implements the error interface.
func (e *ValidationError) Error() string {
	lines := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		lines[i] = is.String()
	}
	if len(lines) == 1 {
		return fmt.Sprintf("%s: %s", e.FilePath, lines[0])
	}
	return fmt.Sprintf("%s: validation failed:\n  %s", e.FilePath, strings.Join(lines, "\n  "))
}

// Unwrap returns ErrValidation for errors.Is() compatibility.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// String renders "path: message", or just the message without a path.
func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// FormatError converts a CUE error into a *ValidationError whose issues carry
// JSON paths. Errors that are not CUE errors are wrapped with the file path.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	cueErrs := cueerrors.Errors(err)
	if len(cueErrs) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	issues := make([]Issue, 0, len(cueErrs))
	for _, e := range cueErrs {
		p := jsonPath(cueerrors.Path(e))
		msg := e.Error()
		// CUE sometimes repeats the path in the message.
		if p != "" && strings.HasPrefix(msg, p) {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, p), ":"))
		}
		issues = append(issues, Issue{Path: p, Message: msg})
	}
	return &ValidationError{FilePath: filePath, Issues: issues}
}

// jsonPath renders a CUE path (["plugins", "0", "kind"]) in JSON-path
// notation ("plugins[0].kind").
func jsonPath(path []string) string {
	var b strings.Builder
	for i, part := range path {
		switch {
		case i > 0 && isIndex(part):
			b.WriteString("[" + part + "]")
		case i > 0:
			b.WriteString("." + part)
		default:
			b.WriteString(part)
		}
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize fails when data is larger than maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", filename, len(data), maxSize)
	}
	return nil
}
