// SPDX-License-Identifier: MPL-2.0

// Package testutil holds test helpers that fail the test on error instead
// of returning it (MustMkdirAll, MustWriteFile, MustReadFile,
// MustRemoveAll), and Site, a fixture writer that lays out a content root,
// project descriptors, generated pages and public pages in a temporary
// directory.
package testutil
