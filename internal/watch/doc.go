// SPDX-License-Identifier: MPL-2.0

// Package watch turns recursive fsnotify notifications for a directory tree
// into an ordered stream of Events.
//
// Every non-ignored directory under the base directory is registered at
// construction, and directories created later are registered as they
// appear. Files already present in such a directory are reported with
// synthesized Create events, since the notifications for them may have
// fired before the directory was watched. Events are delivered on a single
// buffered channel in receipt order; there is no debouncing or coalescing.
package watch
