// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"errors"
	"slices"
	"syscall"
)

// ErrWatcherBroken is wrapped by the error Run returns when the platform
// notification mechanism stopped working, typically because a watch or
// descriptor limit was reached.
var ErrWatcherBroken = errors.New("watch: watcher broken")

// isFatalFsnotifyError reports whether err wraps one of the platform's
// fatalErrnos.
func isFatalFsnotifyError(err error) bool {
	return slices.ContainsFunc(fatalErrnos, func(errno syscall.Errno) bool {
		return errors.Is(err, errno)
	})
}
