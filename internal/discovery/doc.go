// SPDX-License-Identifier: MPL-2.0

// Package discovery enumerates project descriptors under a content root.
//
// Scan lists the immediate children of the root, skips reserved
// subdirectories, and parses the descriptor file of every remaining child.
// Problems with a single child never abort the scan; they are returned as
// Diagnostic values so the CLI decides how to render them. Only an
// unreadable root is fatal.
//
// File organization:
//   - diagnostic.go: Diagnostic, Severity and the diagnostic codes
//   - scan.go: ScanOptions, Found, ScanResult and Scan
package discovery
