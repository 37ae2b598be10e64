// SPDX-License-Identifier: MPL-2.0

package reactor

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sitegen/sitegen/internal/site"
	"github.com/sitegen/sitegen/internal/watch"

	"github.com/charmbracelet/log"
)

// mutatingOps are the operations that can change a descriptor's content.
const mutatingOps = watch.Create | watch.Write | watch.Remove | watch.Rename

type (
	// RebuildFunc runs one full rebuild pass.
	RebuildFunc func(ctx context.Context) error

	// Option configures a Reactor.
	Option func(*Reactor)

	// Stats is a snapshot of a Reactor's counters.
	Stats struct {
		// Events is every event read from the channel.
		Events uint64
		// Qualifying is the events that triggered a rebuild.
		Qualifying uint64
		// Rebuilds counts successful passes, the eager one included.
		Rebuilds uint64
		// Failures counts passes that returned an error.
		Failures uint64
	}

	// Reactor maps descriptor changes to rebuild passes.
	Reactor struct {
		layout   site.Layout
		rebuild  RebuildFunc
		logger   *log.Logger
		observer func(watch.Event)

		events     atomic.Uint64
		qualifying atomic.Uint64
		rebuilds   atomic.Uint64
		failures   atomic.Uint64
	}
)

// WithLogger sets the logger rebuild outcomes are reported to.
func WithLogger(logger *log.Logger) Option {
	return func(r *Reactor) { r.logger = logger }
}

// WithObserver registers fn to see every qualifying event before its
// rebuild runs.
func WithObserver(fn func(watch.Event)) Option {
	return func(r *Reactor) { r.observer = fn }
}

// New creates a Reactor for layout that calls rebuild on every qualifying
// event.
func New(layout site.Layout, rebuild RebuildFunc, opts ...Option) *Reactor {
	r := &Reactor{layout: layout, rebuild: rebuild}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}
	return r
}

// Qualifies reports whether ev should trigger a rebuild: its path is the
// descriptor of a direct, non-reserved child of the content root, and it
// creates, writes, removes or renames the file.
func (r *Reactor) Qualifies(ev watch.Event) bool {
	if ev.Op&mutatingOps == 0 {
		return false
	}

	rel, err := filepath.Rel(r.layout.ContentRoot, ev.Path)
	if err != nil {
		return false
	}

	dir, name, ok := strings.Cut(filepath.ToSlash(rel), "/")
	if !ok || dir == "." || dir == ".." || name != r.layout.DescriptorName {
		return false
	}
	return !r.layout.IsExcluded(dir)
}

// WatchConfig returns the watcher configuration matching Qualifies: the
// descriptor of every direct child of the content root, with the reserved
// directories ignored.
func WatchConfig(layout site.Layout, logger *log.Logger) watch.Config {
	ignores := make([]string, 0, len(layout.Exclude))
	for _, name := range layout.Exclude {
		ignores = append(ignores, name+"/**")
	}
	return watch.Config{
		BaseDir:  layout.ContentRoot,
		Patterns: []string{"*/" + layout.DescriptorName},
		Ignore:   ignores,
		Logger:   logger,
	}
}

// Run performs one eager rebuild, then reads events until ctx is done or
// the channel is closed. Rebuild failures are logged and counted; they do
// not end the loop. Run returns nil in both exit cases.
func (r *Reactor) Run(ctx context.Context, events <-chan watch.Event) error {
	r.runRebuild(ctx, "startup")

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			r.events.Add(1)
			if !r.Qualifies(ev) {
				continue
			}
			r.qualifying.Add(1)
			if r.observer != nil {
				r.observer(ev)
			}
			r.runRebuild(ctx, r.layout.Rel(ev.Path))
		}
	}
}

// Stats returns a snapshot of the counters.
func (r *Reactor) Stats() Stats {
	return Stats{
		Events:     r.events.Load(),
		Qualifying: r.qualifying.Load(),
		Rebuilds:   r.rebuilds.Load(),
		Failures:   r.failures.Load(),
	}
}

func (r *Reactor) runRebuild(ctx context.Context, trigger string) {
	if ctx.Err() != nil {
		return
	}

	start := time.Now()
	if err := r.rebuild(ctx); err != nil {
		r.failures.Add(1)
		r.logger.Error("rebuild failed", "trigger", trigger, "err", err)
		return
	}
	r.rebuilds.Add(1)
	r.logger.Info("manifest rebuilt", "trigger", trigger, "took", time.Since(start).Round(time.Millisecond))
}
