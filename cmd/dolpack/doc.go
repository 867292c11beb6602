// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the dolpack command-line interface.
//
// The commands are thin Cobra handlers over internal/pipeline and
// internal/archive. Every handler receives an *App that carries the loaded
// configuration, the output writers and the logger, so tests can run a
// command tree against buffers.
package cmd
