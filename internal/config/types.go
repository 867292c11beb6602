// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Meow0x7E/DoL-Mods/internal/compiler"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidCompressionLevel is returned when a CompressionLevel is outside 1..9.
	ErrInvalidCompressionLevel = errors.New("invalid compression level")
	// ErrInvalidManifestFileName is returned when a ManifestFileName is not a bare JSON file name.
	ErrInvalidManifestFileName = errors.New("invalid manifest file name")
	// ErrInvalidIndent is returned when an Indent holds anything but spaces and tabs.
	ErrInvalidIndent = errors.New("invalid indent")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// CompressionLevel is a deflate level from 1 (fastest) to 9 (smallest).
	CompressionLevel int

	// InvalidCompressionLevelError wraps ErrInvalidCompressionLevel.
	InvalidCompressionLevelError struct {
		Value CompressionLevel
	}

	// ManifestFileName is the manifest's file name, e.g. "boot.json".
	ManifestFileName string

	// InvalidManifestFileNameError wraps ErrInvalidManifestFileName.
	InvalidManifestFileNameError struct {
		Value ManifestFileName
	}

	// Indent is the per-level JSON indentation of the manifest.
	Indent string

	// InvalidIndentError wraps ErrInvalidIndent.
	InvalidIndentError struct {
		Value Indent
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// OutputDir receives built archives; relative paths resolve against
		// the project directory.
		OutputDir string `json:"output_dir" mapstructure:"output_dir"`
		// Manifest configures the boot manifest
		Manifest ManifestConfig `json:"manifest" mapstructure:"manifest"`
		// Archive configures the package archive
		Archive ArchiveConfig `json:"archive" mapstructure:"archive"`
		// Compiler configures the TypeScript build
		Compiler CompilerConfig `json:"compiler" mapstructure:"compiler"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// ManifestConfig configures manifest output.
	ManifestConfig struct {
		FileName ManifestFileName `json:"file_name" mapstructure:"file_name"`
		Indent   Indent           `json:"indent" mapstructure:"indent"`
	}

	// ArchiveConfig configures archive output.
	ArchiveConfig struct {
		CompressionLevel CompressionLevel `json:"compression_level" mapstructure:"compression_level"`
		// Author prefixes archive names for projects that set none.
		Author string `json:"author" mapstructure:"author"`
	}

	// CompilerConfig configures the external compiler.
	CompilerConfig struct {
		Command string `json:"command" mapstructure:"command"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug logging and full error chains
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	for _, check := range []func() (bool, []error){
		c.UI.ColorScheme.IsValid,
		c.Archive.CompressionLevel.IsValid,
		c.Manifest.FileName.IsValid,
		c.Manifest.Indent.IsValid,
	} {
		if valid, fieldErrs := check(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		errs = append(errs, fmt.Errorf("output_dir must not be empty"))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return fmt.Sprintf("invalid config: %v", e.FieldErrors[0])
	}
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined schemes.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface.
func (e *InvalidCompressionLevelError) Error() string {
	return fmt.Sprintf("invalid compression level %d (valid: 1-9)", e.Value)
}

// Unwrap returns ErrInvalidCompressionLevel for errors.Is() compatibility.
func (e *InvalidCompressionLevelError) Unwrap() error { return ErrInvalidCompressionLevel }

// IsValid returns whether the level is within 1..9.
func (l CompressionLevel) IsValid() (bool, []error) {
	if l < 1 || l > 9 {
		return false, []error{&InvalidCompressionLevelError{Value: l}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidManifestFileNameError) Error() string {
	return fmt.Sprintf("invalid manifest file name %q (want a bare *.json name)", e.Value)
}

// Unwrap returns ErrInvalidManifestFileName for errors.Is() compatibility.
func (e *InvalidManifestFileNameError) Unwrap() error { return ErrInvalidManifestFileName }

// String returns the string representation of the ManifestFileName.
func (n ManifestFileName) String() string { return string(n) }

// IsValid returns whether the name is a bare file name ending in ".json".
func (n ManifestFileName) IsValid() (bool, []error) {
	s := string(n)
	if len(s) <= len(".json") || !strings.HasSuffix(s, ".json") || strings.ContainsAny(s, `/\`) {
		return false, []error{&InvalidManifestFileNameError{Value: n}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidIndentError) Error() string {
	return fmt.Sprintf("invalid indent %q (spaces and tabs only)", e.Value)
}

// Unwrap returns ErrInvalidIndent for errors.Is() compatibility.
func (e *InvalidIndentError) Unwrap() error { return ErrInvalidIndent }

// IsValid returns whether the indent holds spaces and tabs only.
func (i Indent) IsValid() (bool, []error) {
	if strings.Trim(string(i), " \t") != "" {
		return false, []error{&InvalidIndentError{Value: i}}
	}
	return true, nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		OutputDir: "build",
		Manifest: ManifestConfig{
			FileName: "boot.json",
			Indent:   "\t",
		},
		Archive: ArchiveConfig{
			CompressionLevel: 9,
			Author:           "Meow0x7E",
		},
		Compiler: CompilerConfig{
			Command: compiler.DefaultCommand,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
