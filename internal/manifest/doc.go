// SPDX-License-Identifier: MPL-2.0

// Package manifest builds the projects manifest: the list of every valid
// project descriptor under the content root, newest first, written as
// indented JSON for the site's runtime to import.
//
// Every build is a full regeneration. Per-project problems become warning
// diagnostics on the result; only root-level and output-level failures are
// returned as errors.
package manifest
