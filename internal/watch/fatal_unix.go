// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import "syscall"

// inotify runs out of watches (ENOSPC, see fs.inotify.max_user_watches) or
// descriptors long before a large image pack tree is fully registered.
var fatalErrnos = []syscall.Errno{syscall.ENOSPC, syscall.EMFILE, syscall.ENFILE}
