// SPDX-License-Identifier: MPL-2.0

package descriptor

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/jsonc"
)

const (
	// FileName is the conventional descriptor file name.
	FileName = "project.json"

	// DefaultMaxFileSize bounds how much of a descriptor file is parsed.
	DefaultMaxFileSize = 1 << 20
)

var (
	// ErrNotAnObject is returned when a descriptor parses as JSON but its
	// top-level value is not an object.
	ErrNotAnObject = errors.New("descriptor is not a JSON object")
	// ErrFileTooLarge is returned when a descriptor exceeds DefaultMaxFileSize.
	ErrFileTooLarge = errors.New("descriptor file too large")
	// ErrInvalidDescriptor is the sentinel error wrapped by InvalidDescriptorError.
	ErrInvalidDescriptor = errors.New("invalid descriptor")

	knownFields = map[string]struct{}{
		"name":        {},
		"slug":        {},
		"description": {},
		"template":    {},
		"created":     {},
		"features":    {},
	}
)

type (
	// Raw is a parsed descriptor object before any field is interpreted.
	Raw map[string]any

	// Descriptor holds the typed fields of a project descriptor.
	//
	// FromRaw fills it without rejecting anything: a field of the wrong JSON
	// type is left at its zero value and recorded, and Validate reports it.
	Descriptor struct {
		Name        string
		Slug        Slug
		Description string
		Template    string
		Created     CreatedDate
		Features    map[string]bool
		// Extra holds every field not listed above (e.g. customPage).
		Extra map[string]any

		typeErrs []error
	}

	// InvalidDescriptorError lists every rule a descriptor violates.
	// It wraps ErrInvalidDescriptor for errors.Is() compatibility.
	InvalidDescriptorError struct {
		FieldErrors []error
	}

	// FieldTypeError is recorded when a known field has the wrong JSON type.
	FieldTypeError struct {
		Field string
		Want  string
		Got   any
	}
)

// Parse decodes descriptor bytes. Comments and trailing commas are stripped
// before decoding; anything that is not a single JSON object is an error.
func Parse(data []byte) (Raw, error) {
	if len(data) > DefaultMaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, len(data), DefaultMaxFileSize)
	}

	var v any
	if err := json.Unmarshal(jsonc.ToJSON(data), &v); err != nil {
		return nil, fmt.Errorf("parse descriptor: %w", err)
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotAnObject
	}
	return Raw(obj), nil
}

// SlugString returns the raw slug field when it is a non-empty string. It
// performs no pattern check.
func (r Raw) SlugString() (string, bool) {
	s, ok := r["slug"].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// FromRaw extracts the typed fields of raw.
func FromRaw(raw Raw) *Descriptor {
	d := &Descriptor{}

	d.Name = d.stringField(raw, "name")
	d.Slug = Slug(d.stringField(raw, "slug"))
	d.Description = d.stringField(raw, "description")
	d.Template = d.stringField(raw, "template")
	d.Created = CreatedDate(d.stringField(raw, "created"))

	if v, present := raw["features"]; present && v != nil {
		obj, ok := v.(map[string]any)
		if !ok {
			d.typeErrs = append(d.typeErrs, &FieldTypeError{Field: "features", Want: "object", Got: v})
		} else {
			d.Features = make(map[string]bool, len(obj))
			for key, enabled := range obj {
				b, ok := enabled.(bool)
				if !ok {
					d.typeErrs = append(d.typeErrs, &FieldTypeError{Field: "features." + key, Want: "boolean", Got: enabled})
					continue
				}
				d.Features[key] = b
			}
		}
	}

	for key, v := range raw {
		if _, known := knownFields[key]; known {
			continue
		}
		if d.Extra == nil {
			d.Extra = make(map[string]any)
		}
		d.Extra[key] = v
	}

	return d
}

func (d *Descriptor) stringField(raw Raw, field string) string {
	v, present := raw[field]
	if !present || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		d.typeErrs = append(d.typeErrs, &FieldTypeError{Field: field, Want: "string", Got: v})
		return ""
	}
	return s
}

// Validate checks the rules a descriptor must satisfy to be listed in the
// manifest: a non-empty name, a slug matching the slug pattern, a created
// date in YYYY-MM-DD form, and correctly typed optional fields.
func (d *Descriptor) Validate() error {
	var errs []error
	errs = append(errs, d.typeErrs...)

	if strings.TrimSpace(d.Name) == "" && !d.hasTypeErr("name") {
		errs = append(errs, errors.New("name is required"))
	}
	if !d.hasTypeErr("slug") {
		if d.Slug == "" {
			errs = append(errs, errors.New("slug is required"))
		} else if err := d.Slug.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if !d.hasTypeErr("created") {
		if d.Created == "" {
			errs = append(errs, errors.New("created is required"))
		} else if err := d.Created.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return &InvalidDescriptorError{FieldErrors: errs}
	}
	return nil
}

func (d *Descriptor) hasTypeErr(field string) bool {
	for _, err := range d.typeErrs {
		var fte *FieldTypeError
		if errors.As(err, &fte) && fte.Field == field {
			return true
		}
	}
	return false
}

// Error implements the error interface.
func (e *InvalidDescriptorError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid descriptor: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidDescriptor followed by the individual field
// errors, so errors.Is matches both the sentinel and e.g. ErrInvalidSlug.
func (e *InvalidDescriptorError) Unwrap() []error {
	return append([]error{ErrInvalidDescriptor}, e.FieldErrors...)
}

// Error implements the error interface.
func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("%s must be a %s, got %s", e.Field, e.Want, jsonTypeName(e.Got))
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
