// SPDX-License-Identifier: MPL-2.0

package entries

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sitegen/sitegen/internal/discovery"
	"github.com/sitegen/sitegen/internal/issue"
	"github.com/sitegen/sitegen/internal/site"
)

// Entry origins, in merge order.
const (
	OriginStatic  Origin = "static"
	OriginPublic  Origin = "public"
	OriginProject Origin = "project"
)

type (
	// Origin tells which namespace an entry came from.
	Origin string

	// Resolver computes the entry table for one site layout.
	Resolver struct {
		layout site.Layout
	}

	// Result is the resolved table plus the per-entry warnings.
	Result struct {
		Table Table
		// Origins records the namespace that produced each key.
		Origins     map[string]Origin
		Diagnostics []discovery.Diagnostic
	}
)

// NewResolver creates a Resolver for layout.
func NewResolver(layout site.Layout) *Resolver {
	return &Resolver{layout: layout}
}

// Resolve builds the entry table. Static entries are added first, then
// public pages, then projects; a later key replaces an earlier one and is
// reported as a collision.
func (r *Resolver) Resolve(ctx context.Context) (*Result, error) {
	result := &Result{
		Table:   make(Table),
		Origins: make(map[string]Origin),
	}

	for _, entry := range r.layout.Static {
		result.add(entry.Name, entry.Path, OriginStatic)
	}

	pages, err := r.publicPages()
	if err != nil {
		return nil, err
	}
	for _, page := range pages {
		stem := strings.TrimSuffix(filepath.Base(page), r.layout.PublicExt)
		result.add(r.layout.PublicPrefix+stem, page, OriginPublic)
	}

	scan, err := discovery.Scan(ctx, r.layout.ScanOptions())
	if err != nil {
		return nil, err
	}
	result.Diagnostics = append(result.Diagnostics, scan.Diagnostics...)

	for _, found := range scan.Descriptors {
		artifact := filepath.Join(found.Dir, r.layout.ArtifactName)
		if !isFile(artifact) {
			continue
		}

		slug, ok := found.Raw.SlugString()
		if !ok {
			result.Diagnostics = append(result.Diagnostics, discovery.Warning(
				discovery.CodeEntrySlugMissing, found.Path, nil,
				"skipping entry for %s: descriptor has no string slug", filepath.Base(found.Dir)))
			continue
		}
		result.add(r.layout.ProjectPrefix+slug, artifact, OriginProject)
	}

	return result, nil
}

func (res *Result) add(key, path string, origin Origin) {
	if prev, exists := res.Table[key]; exists {
		res.Diagnostics = append(res.Diagnostics, discovery.Warning(
			discovery.CodeEntryKeyCollision, path, nil,
			"entry %q from %s replaces %s", key, path, prev))
	}
	res.Table[key] = path
	res.Origins[key] = origin
}

// publicPages lists the page files directly under the public root in
// lexical order. Hidden files are ignored. A missing root yields nothing.
func (r *Resolver) publicPages() ([]string, error) {
	dirEntries, err := os.ReadDir(r.layout.PublicRoot)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, issue.NewErrorContext().
			WithOperation("list public pages").
			WithResource(r.layout.PublicRoot).
			WithSuggestion("Check that the directory is readable by the current user").
			Wrap(err).
			BuildError()
	}

	var pages []string
	for _, de := range dirEntries {
		name := de.Name()
		if strings.HasPrefix(name, ".") || filepath.Ext(name) != r.layout.PublicExt {
			continue
		}
		path := filepath.Join(r.layout.PublicRoot, name)
		if !isFile(path) {
			continue
		}
		pages = append(pages, path)
	}
	return pages, nil
}

// isFile reports whether path exists and, after following symlinks, is not
// a directory.
func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// String renders the origin name.
func (o Origin) String() string { return string(o) }

// Summary returns the number of entries per origin, for log output.
func (res *Result) Summary() string {
	counts := map[Origin]int{}
	for _, origin := range res.Origins {
		counts[origin]++
	}
	return fmt.Sprintf("%d static, %d public, %d project",
		counts[OriginStatic], counts[OriginPublic], counts[OriginProject])
}
