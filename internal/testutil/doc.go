// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers for tests that fail the test on error
// instead of returning it.
//
// Helpers cover project fixtures (WriteTree, MustWriteFile, MustReadFile)
// and archive inspection (ZipEntries, ZipFile).
package testutil
