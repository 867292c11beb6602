// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import "syscall"

// ReadDirectoryChangesW failures: too many open files, a watched directory
// handle that went away, and a failed notification buffer allocation.
var fatalErrnos = []syscall.Errno{4, 6, 8}
