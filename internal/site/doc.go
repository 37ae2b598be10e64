// SPDX-License-Identifier: MPL-2.0

// Package site holds the resolved, absolute layout of a site: where projects
// live, which names are reserved, where the manifest goes and how entry keys
// are formed. A Layout is built once from configuration and passed
// explicitly to every builder, resolver and reactor.
package site
