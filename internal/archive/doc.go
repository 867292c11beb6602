// SPDX-License-Identifier: MPL-2.0

// Package archive writes and reads mod package archives.
//
// A package is a deflated ZIP whose first entry is the boot manifest. Entry
// names are UTF-8, directories are implied by file names and never stored,
// and archives larger than 4 GiB fall back to zip64 records.
package archive
