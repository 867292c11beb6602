// SPDX-License-Identifier: MPL-2.0

// Package tui wraps charmbracelet/huh prompts behind a small API so commands
// can ask for input without knowing whether a full terminal UI or the
// line-based accessible mode is in use.
package tui

import (
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/huh"
)

// Theme represents the visual theme for prompts.
type Theme string

const (
	// ThemeDefault uses the base huh theme.
	ThemeDefault Theme = "default"
	// ThemeCharm uses the Charm theme.
	ThemeCharm Theme = "charm"
	// ThemeDracula uses the Dracula theme.
	ThemeDracula Theme = "dracula"
	// ThemeCatppuccin uses the Catppuccin theme.
	ThemeCatppuccin Theme = "catppuccin"
	// ThemeBase16 uses the Base16 theme.
	ThemeBase16 Theme = "base16"
)

// ErrCancelled is returned when the user aborts a prompt.
var ErrCancelled = errors.New("prompt cancelled")

// Config holds common configuration for prompts.
type Config struct {
	// Theme specifies the visual theme to use.
	Theme Theme
	// Accessible replaces the terminal UI with plain line prompts.
	Accessible bool
	// Input is read for answers. Nil means os.Stdin.
	Input io.Reader
	// Output receives the prompts. Nil means os.Stdout.
	Output io.Writer
}

// DefaultConfig returns the Charm theme on the standard streams. Accessible
// mode is enabled when the ACCESSIBLE environment variable is set.
func DefaultConfig() Config {
	return Config{
		Theme:      ThemeCharm,
		Accessible: os.Getenv("ACCESSIBLE") != "",
		Input:      os.Stdin,
		Output:     os.Stdout,
	}
}

// IsValid reports whether t names a known theme.
func (t Theme) IsValid() bool {
	switch t {
	case ThemeDefault, ThemeCharm, ThemeDracula, ThemeCatppuccin, ThemeBase16:
		return true
	default:
		return false
	}
}

// getHuhTheme converts a Theme to a huh.Theme.
func getHuhTheme(t Theme) *huh.Theme {
	switch t {
	case ThemeCharm:
		return huh.ThemeCharm()
	case ThemeDracula:
		return huh.ThemeDracula()
	case ThemeCatppuccin:
		return huh.ThemeCatppuccin()
	case ThemeBase16:
		return huh.ThemeBase16()
	default:
		return huh.ThemeBase()
	}
}

// newForm applies cfg to a single-group form.
func newForm(cfg Config, fields ...huh.Field) *huh.Form {
	form := huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(getHuhTheme(cfg.Theme)).
		WithAccessible(cfg.Accessible)
	if cfg.Input != nil {
		form = form.WithInput(cfg.Input)
	}
	if cfg.Output != nil {
		form = form.WithOutput(cfg.Output)
	}
	return form
}

func runForm(form *huh.Form) error {
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrCancelled
		}
		return err
	}
	return nil
}
