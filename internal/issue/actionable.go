// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// ActionableError is the user-facing form of a failure: the operation
	// dolpack was attempting, the project, file or archive involved, the
	// underlying cause, hints, and optionally the catalog guide to show.
	//
	//	err := issue.NewErrorContext().
	//		WithOperation("load project").
	//		WithResource("./dolmod.cue").
	//		WithSuggestion("Run 'dolpack init' to create one").
	//		WithIssue(issue.ProjectNotFoundId).
	//		Wrap(cause).
	//		BuildError()
	ActionableError struct {
		// Operation is a verb phrase such as "build" or "read manifest".
		Operation string
		// Resource names the project, file or archive involved (optional).
		Resource string
		// Suggestions are printed below the message (optional).
		Suggestions []string
		// Cause is the underlying error (optional).
		Cause error
		// IssueID links a catalog guide; zero means none.
		IssueID Id
	}

	// ErrorContext accumulates the parts of an ActionableError.
	ErrorContext struct {
		operation   string
		resource    string
		suggestions []string
		cause       error
		issueID     Id
	}
)

// NewErrorContext creates an empty ErrorContext.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// Error renders "failed to <operation>[: <resource>][: <cause>]".
func (e *ActionableError) Error() string {
	parts := []string{"failed to " + e.Operation}
	if e.Resource != "" {
		parts = append(parts, e.Resource)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the cause.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the message followed by one bulleted line per suggestion.
// In verbose mode the numbered cause chain is appended.
func (e *ActionableError) Format(verbose bool) string {
	var b strings.Builder
	b.WriteString(e.Error())

	if len(e.Suggestions) > 0 {
		b.WriteString("\n")
		for _, s := range e.Suggestions {
			b.WriteString("\n  • " + s)
		}
	}

	if chain := causeChain(e.Cause); verbose && len(chain) > 0 {
		b.WriteString("\n\nError chain:")
		for i, msg := range chain {
			fmt.Fprintf(&b, "\n  %d. %s", i+1, msg)
		}
	}
	return b.String()
}

// causeChain lists the messages from err down to its root cause. Errors
// wrapping several errors are followed through their last member, which
// holds the cause for the archive and compiler errors.
func causeChain(err error) []string {
	var chain []string
	for err != nil {
		chain = append(chain, err.Error())
		if multi, ok := err.(interface{ Unwrap() []error }); ok {
			errs := multi.Unwrap()
			if len(errs) == 0 {
				break
			}
			err = errs[len(errs)-1]
			continue
		}
		err = errors.Unwrap(err)
	}
	return chain
}

// WithOperation sets the operation, a verb phrase like "load project".
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.operation = op
	return c
}

// WithResource sets the project, file or archive involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.resource = res
	return c
}

// WithSuggestion appends a hint.
func (c *ErrorContext) WithSuggestion(sug string) *ErrorContext {
	c.suggestions = append(c.suggestions, sug)
	return c
}

// WithIssue links a catalog guide.
func (c *ErrorContext) WithIssue(id Id) *ErrorContext {
	c.issueID = id
	return c
}

// Wrap sets the cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.cause = err
	return c
}

// Build returns the ActionableError, or nil when no operation is set.
func (c *ErrorContext) Build() *ActionableError {
	if c.operation == "" {
		return nil
	}
	return &ActionableError{
		Operation:   c.operation,
		Resource:    c.resource,
		Suggestions: append([]string(nil), c.suggestions...),
		Cause:       c.cause,
		IssueID:     c.issueID,
	}
}

// BuildError is Build for return statements; it never returns a typed nil.
func (c *ErrorContext) BuildError() error {
	if ae := c.Build(); ae != nil {
		return ae
	}
	return nil
}
