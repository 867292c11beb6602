// SPDX-License-Identifier: MPL-2.0

package watch

import "errors"

// isFatalFsnotifyError reports whether a watcher error means the OS can no
// longer deliver events for the project tree. Anything else is logged and
// watching continues.
func isFatalFsnotifyError(err error) bool {
	for _, errno := range fatalErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}
