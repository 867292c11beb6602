// SPDX-License-Identifier: MPL-2.0

// Package config handles dolpack configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/dolpack/config.cue (or the XDG equivalent on Linux,
// ~/Library/Application Support/dolpack/config.cue on macOS, %APPDATA%\dolpack\config.cue
// on Windows) and validated against the embedded config_schema.cue. Every key can be
// overridden from the environment with a DOLPACK_ prefix, dots replaced by underscores
// (DOLPACK_ARCHIVE_AUTHOR, DOLPACK_MANIFEST_INDENT).
package config
