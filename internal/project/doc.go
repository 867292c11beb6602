// SPDX-License-Identifier: MPL-2.0

// Package project loads mod project files (dolmod.cue).
//
// A project file names the mod, its dependencies and plugin declarations, and
// the rules that find its assets: TypeScript script units, discovery rules per
// manifest category, image packs and explicit addition files. The file is
// validated against an embedded CUE schema (project_schema.cue); rules that
// span fields are checked by Project.Validate.
package project
