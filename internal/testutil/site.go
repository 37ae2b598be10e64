// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"encoding/json"
	"path/filepath"
	"testing"
)

const (
	// ContentDir is the content root used by Site fixtures.
	ContentDir = "projects"
	// PublicDir is the public pages root used by Site fixtures.
	PublicDir = "public"
	// DescriptorName is the descriptor file name used by Site fixtures.
	DescriptorName = "project.json"
	// ArtifactName is the generated page file name used by Site fixtures.
	ArtifactName = "index.html"
)

// Site writes a site tree (content root, project directories, public pages)
// below a temporary directory.
type Site struct {
	t    testing.TB
	Root string
}

// NewSite creates an empty site with the content and public roots present.
func NewSite(t testing.TB) *Site {
	t.Helper()
	root := t.TempDir()
	MustMkdirAll(t, filepath.Join(root, ContentDir), 0o755)
	MustMkdirAll(t, filepath.Join(root, PublicDir), 0o755)
	return &Site{t: t, Root: root}
}

// ContentRoot returns the absolute content root.
func (s *Site) ContentRoot() string {
	return filepath.Join(s.Root, ContentDir)
}

// PublicRoot returns the absolute public pages root.
func (s *Site) PublicRoot() string {
	return filepath.Join(s.Root, PublicDir)
}

// ProjectDir returns the absolute path of the named project directory.
func (s *Site) ProjectDir(dir string) string {
	return filepath.Join(s.ContentRoot(), dir)
}

// Project writes a valid descriptor for slug into a directory of the same
// name. The template defaults to "basic".
func (s *Site) Project(slug, name, created string) string {
	s.t.Helper()
	return s.Descriptor(slug, map[string]any{
		"name":     name,
		"slug":     slug,
		"template": "basic",
		"created":  created,
	})
}

// Descriptor writes fields as the descriptor of dir and returns its path.
func (s *Site) Descriptor(dir string, fields map[string]any) string {
	s.t.Helper()
	data, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		s.t.Fatalf("failed to marshal descriptor for %s: %v", dir, err)
	}
	return s.RawDescriptor(dir, string(data))
}

// RawDescriptor writes content verbatim as the descriptor of dir.
func (s *Site) RawDescriptor(dir, content string) string {
	s.t.Helper()
	path := filepath.Join(s.ProjectDir(dir), DescriptorName)
	MustWriteFile(s.t, path, content)
	return path
}

// Artifact writes the generated page next to the descriptor of dir.
func (s *Site) Artifact(dir string) string {
	s.t.Helper()
	path := filepath.Join(s.ProjectDir(dir), ArtifactName)
	MustWriteFile(s.t, path, "<!doctype html>\n<title>"+dir+"</title>\n")
	return path
}

// PublicPage writes a file directly under the public root.
func (s *Site) PublicPage(name string) string {
	s.t.Helper()
	path := filepath.Join(s.PublicRoot(), name)
	MustWriteFile(s.t, path, "<!doctype html>\n")
	return path
}

// File writes content at a path relative to the site root.
func (s *Site) File(rel, content string) string {
	s.t.Helper()
	path := filepath.Join(s.Root, filepath.FromSlash(rel))
	MustWriteFile(s.t, path, content)
	return path
}
