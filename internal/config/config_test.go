// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/sitegen/sitegen/internal/issue"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := FilePath(dir)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg, err := NewProvider().Load(t.Context(), LoadOptions{BaseDir: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := DefaultConfig()
	want.Root = dir
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("Load() = %+v, want %+v", cfg, want)
	}
	if cfg.Source != "" {
		t.Errorf("Source = %q, want empty", cfg.Source)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeConfig(t, dir, `
content: {
	dir: "work"
	exclude: ["_drafts"]
}
manifest: path: "data/work.json"
entries: static: [{name: "home", path: "home.html"}]
ui: verbose: true
`)

	cfg, err := NewProvider().Load(t.Context(), LoadOptions{BaseDir: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Content.Dir != "work" {
		t.Errorf("Content.Dir = %q, want %q", cfg.Content.Dir, "work")
	}
	if cfg.Content.Descriptor != "project.json" {
		t.Errorf("Content.Descriptor = %q, want default", cfg.Content.Descriptor)
	}
	if !reflect.DeepEqual(cfg.Content.Exclude, []string{"_drafts"}) {
		t.Errorf("Content.Exclude = %v, want [_drafts]", cfg.Content.Exclude)
	}
	if cfg.Manifest.Path != "data/work.json" {
		t.Errorf("Manifest.Path = %q", cfg.Manifest.Path)
	}
	if !reflect.DeepEqual(cfg.Entries.Static, []StaticEntry{{Name: "home", Path: "home.html"}}) {
		t.Errorf("Entries.Static = %+v", cfg.Entries.Static)
	}
	if !cfg.UI.Verbose {
		t.Error("UI.Verbose = false, want true")
	}
	if cfg.Source != path {
		t.Errorf("Source = %q, want %q", cfg.Source, path)
	}
}

func TestLoad_ExplicitFileSetsRoot(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "site")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := writeConfig(t, dir, `public: ext: ".htm"`)

	cfg, err := NewProvider().Load(t.Context(), LoadOptions{ConfigFilePath: path, BaseDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Root != dir {
		t.Errorf("Root = %q, want %q", cfg.Root, dir)
	}
	if cfg.Public.Ext != ".htm" {
		t.Errorf("Public.Ext = %q, want .htm", cfg.Public.Ext)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := NewProvider().Load(t.Context(), LoadOptions{
		ConfigFilePath: filepath.Join(t.TempDir(), "nope.cue"),
	})
	if err == nil {
		t.Fatal("Load() expected error for missing file")
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("error type = %T, want *issue.ActionableError", err)
	}
	if !ae.HasSuggestions() {
		t.Error("expected suggestions on missing config error")
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"ext without dot", `public: ext: "html"`, "public.ext"},
		{"descriptor with separator", `content: descriptor: "a/b.json"`, "content.descriptor"},
		{"unknown color scheme", `ui: color_scheme: "neon"`, "ui.color_scheme"},
		{"unknown field", `bogus: 1`, "bogus"},
		{"static entry without path", `entries: static: [{name: "x"}]`, "path"},
		{"syntax error", `content: {`, "sitegen.cue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			_, err := NewProvider().Load(t.Context(), LoadOptions{BaseDir: dir})
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoad_OverlappingPrefixesRejected(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, `entries: {project_prefix: "p-", public_prefix: "p-"}`)

	_, err := NewProvider().Load(t.Context(), LoadOptions{BaseDir: dir})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Load() error = %v, want ErrInvalidConfig", err)
	}
	if !errors.Is(err, ErrInvalidEntriesConfig) {
		t.Errorf("Load() error = %v, want ErrInvalidEntriesConfig in chain", err)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	// t.Setenv forbids t.Parallel.
	t.Setenv("SITEGEN_MANIFEST_PATH", "out/manifest.json")
	t.Setenv("SITEGEN_CONTENT_EXCLUDE", "_a,_b")

	dir := t.TempDir()
	writeConfig(t, dir, `manifest: path: "data/p.json"`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{BaseDir: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Manifest.Path != "out/manifest.json" {
		t.Errorf("Manifest.Path = %q, want env override", cfg.Manifest.Path)
	}
	if !reflect.DeepEqual(cfg.Content.Exclude, []string{"_a", "_b"}) {
		t.Errorf("Content.Exclude = %v, want [_a _b]", cfg.Content.Exclude)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if _, err := NewProvider().Load(ctx, LoadOptions{BaseDir: t.TempDir()}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestCreateDefaultConfig_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path, err := CreateDefaultConfig(dir, false)
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}

	cfg, err := NewProvider().Load(t.Context(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load() of generated config error = %v", err)
	}

	want := DefaultConfig()
	want.Root = dir
	want.Source = path
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("generated config loads as %+v, want %+v", cfg, want)
	}

	if _, err := CreateDefaultConfig(dir, false); !errors.Is(err, ErrConfigExists) {
		t.Errorf("second CreateDefaultConfig() error = %v, want ErrConfigExists", err)
	}
	if _, err := CreateDefaultConfig(dir, true); err != nil {
		t.Errorf("forced CreateDefaultConfig() error = %v", err)
	}
}

func TestConfig_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"defaults", func(*Config) {}, nil},
		{"empty content dir", func(c *Config) { c.Content.Dir = " " }, ErrInvalidConfig},
		{"artifact with separator", func(c *Config) { c.Content.Artifact = "a/index.html" }, ErrInvalidFileName},
		{"dot-dot exclude", func(c *Config) { c.Content.Exclude = []string{".."} }, ErrInvalidFileName},
		{"ext missing dot", func(c *Config) { c.Public.Ext = "html" }, ErrInvalidConfig},
		{"prefix nested", func(c *Config) { c.Entries.PublicPrefix = "project-pub-" }, ErrInvalidEntriesConfig},
		{"duplicate static", func(c *Config) {
			c.Entries.Static = append(c.Entries.Static, StaticEntry{Name: "main", Path: "x.html"})
		}, ErrInvalidEntriesConfig},
		{"bad color scheme", func(c *Config) { c.UI.ColorScheme = "neon" }, ErrInvalidColorScheme},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			valid, errs := cfg.IsValid()

			if tt.wantErr == nil {
				if !valid || len(errs) != 0 {
					t.Fatalf("IsValid() = %v, %v; want valid", valid, errs)
				}
				return
			}
			if valid {
				t.Fatal("IsValid() = true, want false")
			}
			if !errors.Is(errors.Join(errs...), tt.wantErr) {
				t.Errorf("IsValid() errors %v do not match %v", errs, tt.wantErr)
			}
		})
	}
}
