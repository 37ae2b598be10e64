// SPDX-License-Identifier: MPL-2.0

// Package entries resolves the bundler entry table: one key per page the
// bundler must build, mapped to its absolute source file.
//
// Three namespaces are merged in a fixed order: static entries from
// configuration, public pages (PublicPrefix + file stem) and buildable
// projects (ProjectPrefix + slug). A project is buildable when its
// descriptor parses, carries a string slug and its generated artifact
// exists. Validation is independent of the manifest: a project may be
// listed in one and not the other.
package entries
