// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates CUE documents against an embedded schema and
// decodes them into Go structs.
//
//	//go:embed project_schema.cue
//	var schema []byte
//
//	result, err := cueutil.ParseAndDecode[Project](schema, data, "#Project",
//	    cueutil.WithFilename("dolmod.cue"))
//
// Errors carry the JSON path of the offending field ("plugins[0].kind").
package cueutil
