// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/huh"
)

// InputOptions configures the Input prompt.
type InputOptions struct {
	// Title is the prompt displayed above the input.
	Title string
	// Description provides additional context below the title.
	Description string
	// Placeholder is shown while the input is empty.
	Placeholder string
	// Value is the initial value. An empty answer keeps it.
	Value string
	// Validate rejects an answer; the prompt is repeated until it passes.
	Validate func(string) error
	// Config holds common prompt configuration.
	Config Config
}

// Input asks for one line of text and returns the trimmed answer.
func Input(opts InputOptions) (string, error) {
	value := opts.Value
	field := huh.NewInput().
		Title(opts.Title).
		Description(opts.Description).
		Placeholder(opts.Placeholder).
		Value(&value).
		Validate(func(s string) error {
			s = strings.TrimSpace(s)
			if s == "" && opts.Value != "" {
				s = opts.Value
			}
			if opts.Validate == nil {
				return nil
			}
			return opts.Validate(s)
		})

	if err := runForm(newForm(opts.Config, field)); err != nil {
		return "", err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		value = opts.Value
	}
	return value, nil
}
