// SPDX-License-Identifier: MPL-2.0

package reactor

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sitegen/sitegen/internal/manifest"
	"github.com/sitegen/sitegen/internal/site"
	"github.com/sitegen/sitegen/internal/testutil"
	"github.com/sitegen/sitegen/internal/watch"
)

func TestReactor_WatchedSiteRebuildsManifest(t *testing.T) {
	t.Parallel()

	if testing.Short() {
		t.Skip("skipping filesystem watch test in short mode")
	}

	s := testutil.NewSite(t)
	s.Project("alpha", "Alpha", "2024-01-01")
	layout, err := site.Default(s.Root)
	if err != nil {
		t.Fatal(err)
	}

	testutil.MustMkdirAll(t, filepath.Join(layout.ContentRoot, "_templates"), 0o755)

	w, err := watch.New(WatchConfig(layout, nil))
	if err != nil {
		t.Fatalf("watch.New() error = %v", err)
	}

	builder := manifest.NewBuilder(layout)
	r := New(layout, func(ctx context.Context) error {
		_, err := builder.Build(ctx)
		return err
	})

	ctx, cancel := context.WithCancel(context.Background())
	watchErr := make(chan error, 1)
	runErr := make(chan error, 1)
	go func() { watchErr <- w.Run(ctx) }()
	go func() { runErr <- r.Run(ctx, w.Events()) }()
	t.Cleanup(func() {
		cancel()
		<-watchErr
		<-runErr
	})

	waitForManifest(t, layout.ManifestPath, `"alpha"`)

	s.Project("beta", "Beta", "2024-05-01")
	waitForManifest(t, layout.ManifestPath, `"beta"`)

	// Moving a project folder away reports only the folder itself.
	if err := os.Rename(filepath.Join(layout.ContentRoot, "alpha"), filepath.Join(t.TempDir(), "alpha")); err != nil {
		t.Fatal(err)
	}
	waitForManifestWithout(t, layout.ManifestPath, `"alpha"`)

	if err := os.Rename(filepath.Join(layout.ContentRoot, "beta"), filepath.Join(layout.ContentRoot, "_templates", "beta")); err != nil {
		t.Fatal(err)
	}
	waitForManifestWithout(t, layout.ManifestPath, `"beta"`)
}

func waitForManifestWithout(t *testing.T, path, unwanted string) {
	t.Helper()

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		data, err := os.ReadFile(path)
		if err == nil && !bytes.Contains(data, []byte(unwanted)) {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	data, _ := os.ReadFile(path)
	t.Fatalf("manifest still contains %s:\n%s", unwanted, strings.TrimSpace(string(data)))
}

func waitForManifest(t *testing.T, path, want string) {
	t.Helper()

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		data, err := os.ReadFile(path)
		if err == nil && bytes.Contains(data, []byte(want)) {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	data, _ := os.ReadFile(path)
	t.Fatalf("manifest never contained %s:\n%s", want, strings.TrimSpace(string(data)))
}
