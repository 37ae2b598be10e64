// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/sitegen/sitegen/pkg/descriptor"
)

type (
	// Project is the manifest projection of a valid descriptor.
	// Field order is the on-disk field order.
	Project struct {
		Slug        descriptor.Slug        `json:"slug"`
		Name        string                 `json:"name"`
		Description string                 `json:"description,omitempty"`
		Template    string                 `json:"template"`
		Created     descriptor.CreatedDate `json:"created"`
	}

	// Manifest is the document written to the manifest path.
	Manifest struct {
		Projects []Project `json:"projects"`
	}
)

// ProjectFrom projects a validated descriptor into a manifest row.
func ProjectFrom(d *descriptor.Descriptor) Project {
	return Project{
		Slug:        d.Slug,
		Name:        d.Name,
		Description: d.Description,
		Template:    d.Template,
		Created:     d.Created,
	}
}

// Render returns the exact bytes written for m: two-space indentation,
// no HTML escaping and a trailing newline.
func Render(m *Manifest) ([]byte, error) {
	out := m
	if out.Projects == nil {
		out = &Manifest{Projects: []Project{}}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// Slugs returns the project slugs in manifest order.
func (m *Manifest) Slugs() []string {
	slugs := make([]string, len(m.Projects))
	for i, p := range m.Projects {
		slugs[i] = p.Slug.String()
	}
	return slugs
}

// sortByCreatedDesc orders rows newest first. Equal dates keep their
// relative order.
func sortByCreatedDesc[T any](rows []T, created func(T) descriptor.CreatedDate) {
	slices.SortStableFunc(rows, func(a, b T) int {
		return strings.Compare(string(created(b)), string(created(a)))
	})
}
