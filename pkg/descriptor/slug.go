// SPDX-License-Identifier: MPL-2.0

package descriptor

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// CreatedLayout is the reference layout of the created field.
const CreatedLayout = "2006-01-02"

var (
	// ErrInvalidSlug is the sentinel error wrapped by InvalidSlugError.
	ErrInvalidSlug = errors.New("invalid slug")
	// ErrInvalidCreatedDate is the sentinel error wrapped by InvalidCreatedDateError.
	ErrInvalidCreatedDate = errors.New("invalid created date")

	slugPattern    = regexp.MustCompile(`^[a-z0-9-]+$`)
	createdPattern = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2}$`)
	nonSlugRun     = regexp.MustCompile(`[^a-z0-9]+`)
)

type (
	// Slug is the URL-safe project identifier. Valid slugs match [a-z0-9-]+.
	Slug string

	// InvalidSlugError is returned when a Slug does not match the slug pattern.
	// It wraps ErrInvalidSlug for errors.Is() compatibility.
	InvalidSlugError struct {
		Value Slug
	}

	// CreatedDate is a YYYY-MM-DD date string. It is only ever compared as a
	// string; the fixed-width layout makes lexical order chronological.
	CreatedDate string

	// InvalidCreatedDateError is returned when a CreatedDate is not a real
	// calendar date in YYYY-MM-DD form.
	InvalidCreatedDateError struct {
		Value CreatedDate
		Cause error
	}
)

// String returns the slug as a plain string.
func (s Slug) String() string { return string(s) }

// Validate reports whether the slug matches the slug pattern.
func (s Slug) Validate() error {
	if !slugPattern.MatchString(string(s)) {
		return &InvalidSlugError{Value: s}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidSlugError) Error() string {
	return fmt.Sprintf("invalid slug %q (must be lowercase letters, numbers, and hyphens only)", e.Value)
}

// Unwrap returns ErrInvalidSlug.
func (e *InvalidSlugError) Unwrap() error { return ErrInvalidSlug }

// String returns the date as a plain string.
func (d CreatedDate) String() string { return string(d) }

// Validate reports whether the date is a real calendar date in YYYY-MM-DD form.
func (d CreatedDate) Validate() error {
	if !createdPattern.MatchString(string(d)) {
		return &InvalidCreatedDateError{Value: d}
	}
	if _, err := time.Parse(CreatedLayout, string(d)); err != nil {
		return &InvalidCreatedDateError{Value: d, Cause: err}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidCreatedDateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid created date %q: %v", e.Value, e.Cause)
	}
	return fmt.Sprintf("invalid created date %q (expected YYYY-MM-DD)", e.Value)
}

// Unwrap returns ErrInvalidCreatedDate.
func (e *InvalidCreatedDateError) Unwrap() error { return ErrInvalidCreatedDate }

// Slugify converts a project name to a URL-safe slug: lowercased, every run
// of characters outside [a-z0-9] collapsed to one hyphen, and leading or
// trailing hyphens removed. The result may be empty.
func Slugify(name string) Slug {
	s := nonSlugRun.ReplaceAllString(strings.ToLower(name), "-")
	return Slug(strings.Trim(s, "-"))
}
