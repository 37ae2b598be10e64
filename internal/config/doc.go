// SPDX-License-Identifier: MPL-2.0

// Package config handles sitegen configuration using Viper with CUE as the file format.
//
// Configuration is read from sitegen.cue in the site root (or from the file
// named by --config). Every field is optional; defaults describe the
// conventional layout (projects/, public/, src/data/projects.json). The file
// is validated against an embedded CUE schema (config_schema.cue) before it
// is merged into Viper, and SITEGEN_* environment variables override both.
// Paths in the configuration are relative to the site root, which is the
// directory holding the configuration file.
package config
