// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import "syscall"

// fatalErrnos are the ReadDirectoryChangesW failures after which no further
// events can be delivered: ERROR_TOO_MANY_OPEN_FILES (4), ERROR_INVALID_HANDLE
// (6, the watched directory went away) and ERROR_NOT_ENOUGH_MEMORY (8).
var fatalErrnos = []syscall.Errno{4, 6, 8}
