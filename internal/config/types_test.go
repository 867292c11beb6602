// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
)

func TestColorScheme_IsValid(t *testing.T) {
	t.Parallel()

	for _, cs := range []ColorScheme{ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight} {
		if ok, errs := cs.IsValid(); !ok {
			t.Errorf("%q should be valid, got %v", cs, errs)
		}
	}
	ok, errs := ColorScheme("neon").IsValid()
	if ok || len(errs) != 1 || !errors.Is(errs[0], ErrInvalidColorScheme) {
		t.Errorf("IsValid(neon) = %v, %v", ok, errs)
	}
}

func TestCompressionLevel_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level CompressionLevel
		want  bool
	}{
		{0, false},
		{1, true},
		{6, true},
		{9, true},
		{10, false},
		{-1, false},
	}
	for _, tt := range tests {
		ok, errs := tt.level.IsValid()
		if ok != tt.want {
			t.Errorf("CompressionLevel(%d).IsValid() = %v", tt.level, ok)
		}
		if !ok && !errors.Is(errs[0], ErrInvalidCompressionLevel) {
			t.Errorf("CompressionLevel(%d) error should wrap ErrInvalidCompressionLevel", tt.level)
		}
	}
}

func TestManifestFileName_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name ManifestFileName
		want bool
	}{
		{"boot.json", true},
		{"mod.json", true},
		{".json", false},
		{"boot", false},
		{"boot.JSON", false},
		{"out/boot.json", false},
		{`out\boot.json`, false},
	}
	for _, tt := range tests {
		ok, errs := tt.name.IsValid()
		if ok != tt.want {
			t.Errorf("ManifestFileName(%q).IsValid() = %v", tt.name, ok)
		}
		if !ok && !errors.Is(errs[0], ErrInvalidManifestFileName) {
			t.Errorf("ManifestFileName(%q) error should wrap ErrInvalidManifestFileName", tt.name)
		}
	}
}

func TestIndent_IsValid(t *testing.T) {
	t.Parallel()

	for _, in := range []Indent{"", "\t", "  ", " \t "} {
		if ok, _ := in.IsValid(); !ok {
			t.Errorf("Indent(%q) should be valid", in)
		}
	}
	ok, errs := Indent("--").IsValid()
	if ok || !errors.Is(errs[0], ErrInvalidIndent) {
		t.Errorf("Indent(--).IsValid() = %v, %v", ok, errs)
	}
}

func TestConfig_IsValid(t *testing.T) {
	t.Parallel()

	if ok, errs := DefaultConfig().IsValid(); !ok {
		t.Fatalf("default config should be valid: %v", errs)
	}

	cfg := DefaultConfig()
	cfg.OutputDir = " "
	cfg.Archive.CompressionLevel = 0
	cfg.UI.ColorScheme = "neon"
	ok, errs := cfg.IsValid()
	if ok || len(errs) != 1 {
		t.Fatalf("IsValid() = %v, %v", ok, errs)
	}
	var ice *InvalidConfigError
	if !errors.As(errs[0], &ice) {
		t.Fatalf("error should be *InvalidConfigError, got %T", errs[0])
	}
	if len(ice.FieldErrors) != 3 {
		t.Errorf("FieldErrors = %v, want 3 entries", ice.FieldErrors)
	}
	if !errors.Is(errs[0], ErrInvalidConfig) {
		t.Error("InvalidConfigError should wrap ErrInvalidConfig")
	}
	if got := ice.Error(); got != "invalid config: 3 field error(s)" {
		t.Errorf("Error() = %q", got)
	}
}
