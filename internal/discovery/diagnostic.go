// SPDX-License-Identifier: MPL-2.0

package discovery

import "fmt"

// SeverityWarning indicates a recoverable discovery warning.
const SeverityWarning Severity = "warning"

// Diagnostic codes emitted by this module. Builders and resolvers outside
// this package reuse the Diagnostic type with their own codes.
const (
	CodeDescriptorParseSkipped = "descriptor_parse_skipped"
	CodeDescriptorReadSkipped  = "descriptor_read_skipped"
	CodeDescriptorInvalid      = "descriptor_invalid"
	CodeDuplicateSlug          = "duplicate_slug"
	CodeEntrySlugMissing       = "entry_slug_missing"
	CodeEntryKeyCollision      = "entry_key_collision"
)

type (
	// Severity represents discovery diagnostic severity.
	Severity string

	// Diagnostic represents a structured discovery diagnostic that is returned
	// to callers (rather than written to stderr) for consistent rendering policy.
	Diagnostic struct {
		// Severity is the diagnostic level.
		Severity Severity
		// Code is a machine-readable identifier (e.g., "descriptor_parse_skipped").
		Code string
		// Message is the human-readable description.
		Message string
		// Path is the file path associated with this diagnostic (optional).
		Path string
		// Cause is the underlying error (optional, for programmatic inspection).
		Cause error
	}
)

// Warning builds a warning-level diagnostic.
func Warning(code, path string, cause error, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Path:     path,
		Cause:    cause,
	}
}

// String renders the diagnostic on one line.
func (d Diagnostic) String() string {
	if d.Path == "" {
		return fmt.Sprintf("%s [%s]: %s", d.Severity, d.Code, d.Message)
	}
	return fmt.Sprintf("%s [%s] %s: %s", d.Severity, d.Code, d.Path, d.Message)
}

// CountCode returns how many diagnostics carry the given code.
func CountCode(diags []Diagnostic, code string) int {
	n := 0
	for _, d := range diags {
		if d.Code == code {
			n++
		}
	}
	return n
}
