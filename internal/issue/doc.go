// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// remediation suggestions. The issue catalog adds longer Markdown
// troubleshooting texts for the failures users hit most (missing content
// root, unwritable manifest, watcher limits), rendered with glamour.
package issue
