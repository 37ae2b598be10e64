// SPDX-License-Identifier: MPL-2.0

package reactor

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sitegen/sitegen/internal/site"
	"github.com/sitegen/sitegen/internal/watch"
)

func testLayout(t *testing.T) site.Layout {
	t.Helper()
	layout, err := site.Default(t.TempDir())
	if err != nil {
		t.Fatalf("site.Default() error = %v", err)
	}
	return layout
}

// feed runs the reactor over evs until the channel is drained.
func feed(t *testing.T, r *Reactor, evs ...watch.Event) {
	t.Helper()

	ch := make(chan watch.Event, len(evs))
	for _, ev := range evs {
		ch <- ev
	}
	close(ch)

	if err := r.Run(t.Context(), ch); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestQualifies(t *testing.T) {
	t.Parallel()

	layout := testLayout(t)
	r := New(layout, func(context.Context) error { return nil })
	content := layout.ContentRoot

	tests := []struct {
		name string
		ev   watch.Event
		want bool
	}{
		{"project descriptor write", watch.Event{Path: filepath.Join(content, "foo", "project.json"), Op: watch.Write}, true},
		{"project descriptor create", watch.Event{Path: filepath.Join(content, "foo", "project.json"), Op: watch.Create}, true},
		{"project descriptor remove", watch.Event{Path: filepath.Join(content, "foo", "project.json"), Op: watch.Remove}, true},
		{"project descriptor rename", watch.Event{Path: filepath.Join(content, "foo", "project.json"), Op: watch.Rename}, true},
		{"nested descriptor", watch.Event{Path: filepath.Join(content, "foo", "bar", "project.json"), Op: watch.Write}, false},
		{"descriptor at content root", watch.Event{Path: filepath.Join(content, "project.json"), Op: watch.Write}, false},
		{"chmod only", watch.Event{Path: filepath.Join(content, "foo", "project.json"), Op: watch.Chmod}, false},
		{"templates descriptor", watch.Event{Path: filepath.Join(content, "_templates", "x", "project.json"), Op: watch.Write}, false},
		{"schema descriptor", watch.Event{Path: filepath.Join(content, "_schema", "project.json"), Op: watch.Create}, false},
		{"artifact", watch.Event{Path: filepath.Join(content, "foo", "index.html"), Op: watch.Write}, false},
		{"similar name", watch.Event{Path: filepath.Join(content, "foo", "project.json.bak"), Op: watch.Write}, false},
		{"outside content root", watch.Event{Path: filepath.Join(layout.Root, "other", "project.json"), Op: watch.Write}, false},
		{"sibling with prefix", watch.Event{Path: content + "-old" + string(filepath.Separator) + "project.json", Op: watch.Write}, false},
		{"excluded name deeper down", watch.Event{Path: filepath.Join(content, "foo", "_templates", "project.json"), Op: watch.Write}, false},
		{"project directory itself", watch.Event{Path: filepath.Join(content, "foo"), Op: watch.Rename}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := r.Qualifies(tt.ev); got != tt.want {
				t.Errorf("Qualifies(%v) = %v, want %v", tt.ev, got, tt.want)
			}
		})
	}
}

func TestWatchConfig(t *testing.T) {
	t.Parallel()

	layout := testLayout(t)
	cfg := WatchConfig(layout, nil)

	if cfg.BaseDir != layout.ContentRoot {
		t.Errorf("BaseDir = %q, want %q", cfg.BaseDir, layout.ContentRoot)
	}
	if !slices.Equal(cfg.Patterns, []string{"*/project.json"}) {
		t.Errorf("Patterns = %v, want [*/project.json]", cfg.Patterns)
	}
	if !slices.Equal(cfg.Ignore, []string{"_templates/**", "_schema/**"}) {
		t.Errorf("Ignore = %v, want [_templates/** _schema/**]", cfg.Ignore)
	}
}

func TestRun_DescriptorEventRebuildsOnce(t *testing.T) {
	t.Parallel()

	layout := testLayout(t)
	var calls atomic.Int32
	r := New(layout, func(context.Context) error {
		calls.Add(1)
		return nil
	})

	feed(t, r, watch.Event{Path: filepath.Join(layout.ContentRoot, "foo", "project.json"), Op: watch.Write})

	// One eager rebuild plus one for the event.
	if got := calls.Load(); got != 2 {
		t.Errorf("rebuild calls = %d, want 2", got)
	}
	stats := r.Stats()
	if stats != (Stats{Events: 1, Qualifying: 1, Rebuilds: 2}) {
		t.Errorf("Stats() = %+v", stats)
	}
}

func TestRun_ExcludedEventDoesNotRebuild(t *testing.T) {
	t.Parallel()

	layout := testLayout(t)
	var calls atomic.Int32
	r := New(layout, func(context.Context) error {
		calls.Add(1)
		return nil
	})

	feed(t, r,
		watch.Event{Path: filepath.Join(layout.ContentRoot, "_templates", "x", "project.json"), Op: watch.Write},
		watch.Event{Path: filepath.Join(layout.ContentRoot, "foo", "index.html"), Op: watch.Create},
	)

	if got := calls.Load(); got != 1 {
		t.Errorf("rebuild calls = %d, want only the eager one", got)
	}
	if stats := r.Stats(); stats.Events != 2 || stats.Qualifying != 0 {
		t.Errorf("Stats() = %+v", stats)
	}
}

func TestRun_EveryQualifyingEventRebuilds(t *testing.T) {
	t.Parallel()

	layout := testLayout(t)
	var calls atomic.Int32
	r := New(layout, func(context.Context) error {
		calls.Add(1)
		return nil
	})

	ev := watch.Event{Path: filepath.Join(layout.ContentRoot, "foo", "project.json"), Op: watch.Write}
	feed(t, r, ev, ev, ev)

	// No coalescing: three events, three rebuilds after the eager one.
	if got := calls.Load(); got != 4 {
		t.Errorf("rebuild calls = %d, want 4", got)
	}
}

func TestRun_RebuildErrorsDoNotStopLoop(t *testing.T) {
	t.Parallel()

	layout := testLayout(t)
	var calls atomic.Int32
	r := New(layout, func(context.Context) error {
		if calls.Add(1) <= 2 {
			return errors.New("disk full")
		}
		return nil
	})

	ev := watch.Event{Path: filepath.Join(layout.ContentRoot, "foo", "project.json"), Op: watch.Write}
	feed(t, r, ev, ev)

	if stats := r.Stats(); stats.Failures != 2 || stats.Rebuilds != 1 {
		t.Errorf("Stats() = %+v, want 2 failures and 1 rebuild", stats)
	}
}

func TestRun_ObserverSeesQualifyingEvents(t *testing.T) {
	t.Parallel()

	layout := testLayout(t)
	var seen []watch.Event
	r := New(layout, func(context.Context) error { return nil },
		WithObserver(func(ev watch.Event) { seen = append(seen, ev) }))

	want := watch.Event{Path: filepath.Join(layout.ContentRoot, "new", "project.json"), Op: watch.Create}
	feed(t, r,
		watch.Event{Path: filepath.Join(layout.ContentRoot, "new", "index.html"), Op: watch.Create},
		want,
	)

	if len(seen) != 1 || seen[0] != want {
		t.Errorf("observer saw %v, want [%v]", seen, want)
	}
}

func TestRun_ReturnsOnCancel(t *testing.T) {
	t.Parallel()

	layout := testLayout(t)
	r := New(layout, func(context.Context) error { return nil })

	ctx, cancel := context.WithCancel(t.Context())
	events := make(chan watch.Event)
	errCh := make(chan error, 1)
	go func() { errCh <- r.Run(ctx, events) }()

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Run() error = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
