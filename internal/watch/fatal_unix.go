// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import "syscall"

// fatalErrnos are the inotify failures after which no further events can be
// delivered: the per-user watch limit (fs.inotify.max_user_watches), then
// the per-process and system-wide descriptor limits.
var fatalErrnos = []syscall.Errno{syscall.ENOSPC, syscall.EMFILE, syscall.ENFILE}
