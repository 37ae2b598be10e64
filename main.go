// SPDX-License-Identifier: MPL-2.0

// Command sitegen generates the project manifest and bundler entry table
// for a multi-page static site.
package main

import "github.com/sitegen/sitegen/cmd/sitegen"

func main() {
	cmd.Execute()
}
