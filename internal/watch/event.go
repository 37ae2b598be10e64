// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Filesystem operations carried by an Event. An event may carry several.
const (
	Create Op = 1 << iota
	Write
	Remove
	Rename
	Chmod
)

type (
	// Op is a set of filesystem operations.
	Op uint32

	// Event is one filesystem notification.
	Event struct {
		// Path is the absolute path of the affected file or directory.
		Path string
		Op   Op
	}
)

// Has reports whether o includes every operation in h.
func (o Op) Has(h Op) bool { return o&h == h }

// String renders the operations joined by "|", e.g. "CREATE|WRITE".
func (o Op) String() string {
	names := []struct {
		op   Op
		name string
	}{
		{Create, "CREATE"},
		{Write, "WRITE"},
		{Remove, "REMOVE"},
		{Rename, "RENAME"},
		{Chmod, "CHMOD"},
	}

	var parts []string
	for _, n := range names {
		if o.Has(n.op) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "NONE"
	}
	return strings.Join(parts, "|")
}

// String renders the event as "OP path".
func (e Event) String() string {
	return e.Op.String() + " " + e.Path
}

func opFromFsnotify(op fsnotify.Op) Op {
	var o Op
	if op.Has(fsnotify.Create) {
		o |= Create
	}
	if op.Has(fsnotify.Write) {
		o |= Write
	}
	if op.Has(fsnotify.Remove) {
		o |= Remove
	}
	if op.Has(fsnotify.Rename) {
		o |= Rename
	}
	if op.Has(fsnotify.Chmod) {
		o |= Chmod
	}
	return o
}
