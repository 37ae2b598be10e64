// SPDX-License-Identifier: MPL-2.0

// Package reactor rebuilds the manifest when project descriptors change.
//
// A Reactor consumes watch Events one at a time. An event qualifies when it
// touches a descriptor file under the content root outside the reserved
// directories; each qualifying event runs one full rebuild before the next
// event is read, so rebuilds never overlap.
package reactor
