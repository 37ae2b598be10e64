// SPDX-License-Identifier: MPL-2.0

package site

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/sitegen/sitegen/internal/config"
)

func TestFromConfig_ResolvesAgainstRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	layout, err := Default(root)
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	checks := map[string][2]string{
		"ContentRoot":   {layout.ContentRoot, filepath.Join(root, "projects")},
		"PublicRoot":    {layout.PublicRoot, filepath.Join(root, "public")},
		"ManifestPath":  {layout.ManifestPath, filepath.Join(root, "src", "data", "projects.json")},
		"EntriesOutput": {layout.EntriesOutput, filepath.Join(root, ".sitegen", "entries.json")},
	}
	for name, c := range checks {
		if c[0] != c[1] {
			t.Errorf("%s = %q, want %q", name, c[0], c[1])
		}
	}

	if len(layout.Static) != 2 {
		t.Fatalf("Static = %+v, want 2 entries", layout.Static)
	}
	if layout.Static[0] != (StaticEntry{Name: "main", Path: filepath.Join(root, "index.html")}) {
		t.Errorf("Static[0] = %+v", layout.Static[0])
	}
	if layout.Static[1] != (StaticEntry{Name: "projectsIndex", Path: filepath.Join(root, "projects", "index.html")}) {
		t.Errorf("Static[1] = %+v", layout.Static[1])
	}
}

func TestFromConfig_AbsolutePathsKept(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	elsewhere := filepath.Join(t.TempDir(), "manifest.json")

	cfg := config.DefaultConfig()
	cfg.Root = root
	cfg.Manifest.Path = elsewhere

	layout, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig() error = %v", err)
	}
	if layout.ManifestPath != elsewhere {
		t.Errorf("ManifestPath = %q, want %q", layout.ManifestPath, elsewhere)
	}
}

func TestFromConfig_RelativeRoot(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Root = "site"
	if _, err := FromConfig(cfg); !errors.Is(err, ErrRelativeRoot) {
		t.Errorf("FromConfig() error = %v, want ErrRelativeRoot", err)
	}
}

func TestLayout_ScanOptionsAndExclude(t *testing.T) {
	t.Parallel()

	layout, err := Default(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	opts := layout.ScanOptions()
	if opts.Root != layout.ContentRoot || opts.DescriptorName != "project.json" {
		t.Errorf("ScanOptions() = %+v", opts)
	}
	if !layout.IsExcluded("_templates") || !layout.IsExcluded("_schema") {
		t.Error("reserved names should be excluded")
	}
	if layout.IsExcluded("templates") {
		t.Error("IsExcluded(templates) = true, want false")
	}
}

func TestLayout_Rel(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	layout, err := Default(root)
	if err != nil {
		t.Fatal(err)
	}

	if got := layout.Rel(filepath.Join(root, "projects", "a")); got != filepath.Join("projects", "a") {
		t.Errorf("Rel(inside) = %q", got)
	}
	outside := filepath.Join(filepath.Dir(root), "other")
	if got := layout.Rel(outside); got != outside {
		t.Errorf("Rel(outside) = %q, want %q", got, outside)
	}
}
