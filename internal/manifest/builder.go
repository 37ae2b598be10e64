// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sitegen/sitegen/internal/discovery"
	"github.com/sitegen/sitegen/internal/issue"
	"github.com/sitegen/sitegen/internal/site"
	"github.com/sitegen/sitegen/pkg/descriptor"
)

type (
	// Option configures a Builder.
	Option func(*Builder)

	// Builder regenerates the manifest for one site layout.
	Builder struct {
		layout site.Layout
		dryRun bool
	}

	// BuildResult is the outcome of one build pass.
	BuildResult struct {
		Manifest *Manifest
		// Dirs[i] is the project directory of Manifest.Projects[i].
		Dirs        []string
		Diagnostics []discovery.Diagnostic
		// Path is the manifest file; nothing is written on a dry run.
		Path    string
		Written bool
	}

	row struct {
		project Project
		dir     string
		path    string
	}
)

// WithDryRun makes Build compute the manifest without writing it.
func WithDryRun(dryRun bool) Option {
	return func(b *Builder) { b.dryRun = dryRun }
}

// NewBuilder creates a Builder for layout.
func NewBuilder(layout site.Layout, opts ...Option) *Builder {
	b := &Builder{layout: layout}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build scans the content root, keeps every valid descriptor, orders the
// result newest first and writes it to the manifest path.
func (b *Builder) Build(ctx context.Context) (*BuildResult, error) {
	scan, err := discovery.Scan(ctx, b.layout.ScanOptions())
	if err != nil {
		return nil, err
	}

	result := &BuildResult{
		Path:        b.layout.ManifestPath,
		Diagnostics: scan.Diagnostics,
	}

	rows := make([]row, 0, len(scan.Descriptors))
	for _, found := range scan.Descriptors {
		d := descriptor.FromRaw(found.Raw)
		if err := d.Validate(); err != nil {
			result.Diagnostics = append(result.Diagnostics, discovery.Warning(
				discovery.CodeDescriptorInvalid, found.Path, err,
				"excluding project %s from manifest: %v", filepath.Base(found.Dir), err))
			continue
		}
		rows = append(rows, row{project: ProjectFrom(d), dir: found.Dir, path: found.Path})
	}

	result.Diagnostics = append(result.Diagnostics, duplicateSlugs(rows)...)

	sortByCreatedDesc(rows, func(r row) descriptor.CreatedDate { return r.project.Created })

	result.Manifest = &Manifest{Projects: make([]Project, len(rows))}
	result.Dirs = make([]string, len(rows))
	for i, r := range rows {
		result.Manifest.Projects[i] = r.project
		result.Dirs[i] = r.dir
	}

	if b.dryRun {
		return result, nil
	}

	data, err := Render(result.Manifest)
	if err != nil {
		return nil, err
	}
	if err := writeAtomic(b.layout.ManifestPath, data, 0o644); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("write manifest").
			WithResource(b.layout.ManifestPath).
			WithSuggestion("Check that the manifest directory is writable").
			WithSuggestion("Point manifest.path at a writable location in sitegen.cue").
			Wrap(err).
			BuildError()
	}
	result.Written = true

	return result, nil
}

// duplicateSlugs warns once per slug shared by more than one project,
// naming the second directory that claims it. Rows are in scan order.
func duplicateSlugs(rows []row) []discovery.Diagnostic {
	first := make(map[descriptor.Slug]string, len(rows))
	warned := make(map[descriptor.Slug]bool)

	var diags []discovery.Diagnostic
	for _, r := range rows {
		owner, seen := first[r.project.Slug]
		if !seen {
			first[r.project.Slug] = r.dir
			continue
		}
		if warned[r.project.Slug] {
			continue
		}
		warned[r.project.Slug] = true
		diags = append(diags, discovery.Warning(
			discovery.CodeDuplicateSlug, r.path, nil,
			"slug %q is used by both %s and %s; both are listed",
			r.project.Slug, filepath.Base(owner), filepath.Base(r.dir)))
	}
	return diags
}

// writeAtomic replaces path with data through a temporary file in the same
// directory, creating the directory when needed.
func writeAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temporary manifest: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temporary manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temporary manifest: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("set manifest permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace manifest: %w", err)
	}
	return nil
}
