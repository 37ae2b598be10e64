// SPDX-License-Identifier: MPL-2.0

package site

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sitegen/sitegen/internal/config"
	"github.com/sitegen/sitegen/internal/discovery"
)

// ErrRelativeRoot is returned when a Layout is built from a non-absolute root.
var ErrRelativeRoot = errors.New("site root must be absolute")

type (
	// StaticEntry is a fixed entry point with an absolute path.
	StaticEntry struct {
		Name string
		Path string
	}

	// Layout is the absolute, validated view of a site on disk.
	Layout struct {
		// Root is the site root.
		Root string
		// ContentRoot holds one directory per project.
		ContentRoot string
		// DescriptorName is the per-project descriptor file name.
		DescriptorName string
		// ArtifactName is the generated page that makes a project buildable.
		ArtifactName string
		// Exclude lists reserved child directory names of ContentRoot.
		Exclude []string
		// PublicRoot holds loose static pages.
		PublicRoot string
		// PublicExt is the extension of pages under PublicRoot.
		PublicExt string
		// ManifestPath is the manifest output file.
		ManifestPath string
		// ProjectPrefix prefixes project entry keys.
		ProjectPrefix string
		// PublicPrefix prefixes public page entry keys.
		PublicPrefix string
		// Static entries are merged ahead of discovered ones, in order.
		Static []StaticEntry
		// EntriesOutput is where the entry table is written for the bundler.
		EntriesOutput string
	}
)

// FromConfig resolves every configured path against cfg.Root.
func FromConfig(cfg *config.Config) (Layout, error) {
	if !filepath.IsAbs(cfg.Root) {
		return Layout{}, fmt.Errorf("%w: %q", ErrRelativeRoot, cfg.Root)
	}

	static := make([]StaticEntry, 0, len(cfg.Entries.Static))
	for _, entry := range cfg.Entries.Static {
		static = append(static, StaticEntry{Name: entry.Name, Path: resolve(cfg.Root, entry.Path)})
	}

	return Layout{
		Root:           filepath.Clean(cfg.Root),
		ContentRoot:    resolve(cfg.Root, cfg.Content.Dir),
		DescriptorName: cfg.Content.Descriptor,
		ArtifactName:   cfg.Content.Artifact,
		Exclude:        slices.Clone(cfg.Content.Exclude),
		PublicRoot:     resolve(cfg.Root, cfg.Public.Dir),
		PublicExt:      cfg.Public.Ext,
		ManifestPath:   resolve(cfg.Root, cfg.Manifest.Path),
		ProjectPrefix:  cfg.Entries.ProjectPrefix,
		PublicPrefix:   cfg.Entries.PublicPrefix,
		Static:         static,
		EntriesOutput:  resolve(cfg.Root, cfg.Entries.Output),
	}, nil
}

// Default returns the conventional layout rooted at root.
func Default(root string) (Layout, error) {
	cfg := config.DefaultConfig()
	cfg.Root = root
	return FromConfig(cfg)
}

// ScanOptions returns the scanner options for the content root.
func (l Layout) ScanOptions() discovery.ScanOptions {
	return discovery.ScanOptions{
		Root:           l.ContentRoot,
		DescriptorName: l.DescriptorName,
		Exclude:        l.Exclude,
	}
}

// IsExcluded reports whether name is a reserved content root child.
func (l Layout) IsExcluded(name string) bool {
	return slices.Contains(l.Exclude, name)
}

// Rel returns path relative to the site root, or path itself when it lies
// outside the root. Used for display only.
func (l Layout) Rel(path string) string {
	rel, err := filepath.Rel(l.Root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

func resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}
