// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"

	"github.com/Meow0x7E/DoL-Mods/internal/issue"
	"github.com/Meow0x7E/DoL-Mods/pkg/cueutil"
)

const (
	// AppName is the application name.
	AppName = "dolpack"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides, e.g. DOLPACK_ARCHIVE_AUTHOR.
	EnvPrefix = "DOLPACK"
)

//go:embed config_schema.cue
var configSchema string

type (
	// LoadOptions selects the configuration source.
	LoadOptions struct {
		// ConfigFilePath is read exclusively when set; it must exist.
		ConfigFilePath string
		// ConfigDirPath replaces Dir() when looking for config.cue.
		ConfigDirPath string
	}

	// Loader resolves the effective configuration: built-in defaults, then
	// the CUE file, then DOLPACK_* environment variables. The zero value is
	// ready to use.
	Loader struct{}
)

// Dir is the per-user dolpack directory under os.UserConfigDir: %AppData%
// on Windows, ~/Library/Application Support on macOS and $XDG_CONFIG_HOME
// or ~/.config elsewhere.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// FilePath returns the default config file path inside Dir.
func FilePath() (string, error) {
	return fileIn("")
}

func fileIn(dir string) (string, error) {
	if dir == "" {
		var err error
		if dir, err = Dir(); err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// Load returns the effective configuration and the file it was read from,
// or "" when no file applied.
func (Loader) Load(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", fmt.Errorf("load config canceled: %w", err)
	}

	path := opts.ConfigFilePath
	if path == "" {
		var err error
		if path, err = fileIn(opts.ConfigDirPath); err != nil {
			return nil, "", err
		}
	}

	found, err := isRegularFile(path)
	if err != nil {
		return nil, "", cueLoadError(path, err)
	}
	if !found && opts.ConfigFilePath != "" {
		return nil, "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(path).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Use 'dolpack config show' to see the default configuration").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(fmt.Errorf("config file not found: %s", path)).
			BuildError()
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if found {
		values, err := readCUE(path)
		if err != nil {
			return nil, "", cueLoadError(path, err)
		}
		if err := v.MergeConfigMap(values); err != nil {
			return nil, "", fmt.Errorf("merging %s: %w", path, err)
		}
	} else {
		path = ""
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("decoding config: %w", err)
	}

	// DOLPACK_* values never pass through the schema.
	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithSuggestion("Check " + EnvPrefix + "_* environment variables").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(errs[0]).
			BuildError()
	}
	return &cfg, path, nil
}

func setDefaults(v *viper.Viper, defaults *Config) {
	for key, value := range map[string]any{
		"output_dir":                defaults.OutputDir,
		"manifest.file_name":        defaults.Manifest.FileName,
		"manifest.indent":           defaults.Manifest.Indent,
		"archive.compression_level": defaults.Archive.CompressionLevel,
		"archive.author":            defaults.Archive.Author,
		"compiler.command":          defaults.Compiler.Command,
		"ui.color_scheme":           defaults.UI.ColorScheme,
		"ui.verbose":                defaults.UI.Verbose,
	} {
		v.SetDefault(key, value)
	}
}

func cueLoadError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithSuggestion("Check that the file contains valid CUE syntax").
		WithSuggestion("Compare it with the output of 'dolpack config dump'").
		WithIssue(issue.ConfigLoadFailedId).
		Wrap(err).
		BuildError()
}

// readCUE checks a config file against #Config and returns its values as a
// nested map for viper. Fields stay optional, so the value is not required
// to be concrete, which rules out cueutil.ParseAndDecode.
func readCUE(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return nil, err
	}

	cctx := cuecontext.New()
	schema := cctx.CompileString(configSchema).LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("internal error: config schema: %w", err)
	}
	user := cctx.CompileBytes(data, cue.Filename(path))
	if err := user.Err(); err != nil {
		return nil, cueutil.FormatError(err, path)
	}

	unified := schema.Unify(user)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return nil, cueutil.FormatError(err, path)
	}
	var values map[string]any
	if err := unified.Decode(&values); err != nil {
		return nil, cueutil.FormatError(err, path)
	}
	return values, nil
}

// isRegularFile reports whether path names a file. A missing path is not an
// error; a directory or an unreadable path is.
func isRegularFile(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, err
	case info.IsDir():
		return false, fmt.Errorf("%s is a directory", path)
	}
	return true, nil
}

// CreateDefaultConfig writes the default config file unless one exists and
// returns its path. created reports whether a file was written.
func CreateDefaultConfig(dir string) (path string, created bool, err error) {
	if path, err = fileIn(dir); err != nil {
		return "", false, err
	}
	if found, statErr := isRegularFile(path); statErr != nil || found {
		return path, false, statErr
	}
	if err := Save(DefaultConfig(), path); err != nil {
		return "", false, err
	}
	return path, true, nil
}

// Save writes cfg as CUE to path.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateCUE renders cfg as a config.cue that loads back to the same values.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// dolpack configuration file\n\n")

	fmt.Fprintf(&sb, "output_dir: %q\n", cfg.OutputDir)

	sb.WriteString("\nmanifest: {\n")
	fmt.Fprintf(&sb, "\tfile_name: %q\n", cfg.Manifest.FileName)
	fmt.Fprintf(&sb, "\tindent: %q\n", cfg.Manifest.Indent)
	sb.WriteString("}\n")

	sb.WriteString("\narchive: {\n")
	fmt.Fprintf(&sb, "\tcompression_level: %d\n", cfg.Archive.CompressionLevel)
	fmt.Fprintf(&sb, "\tauthor: %q\n", cfg.Archive.Author)
	sb.WriteString("}\n")

	sb.WriteString("\ncompiler: {\n")
	fmt.Fprintf(&sb, "\tcommand: %q\n", cfg.Compiler.Command)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}
