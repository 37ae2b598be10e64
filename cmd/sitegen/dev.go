// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sitegen/sitegen/internal/entries"
	"github.com/sitegen/sitegen/internal/issue"
	"github.com/sitegen/sitegen/internal/manifest"
	"github.com/sitegen/sitegen/internal/reactor"
	"github.com/sitegen/sitegen/internal/watch"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// restartOps are the changes that alter the set of project entries. The
// entry table is computed once per dev session, so these need a restart.
const restartOps = watch.Create | watch.Remove | watch.Rename

func newDevCommand(app *App, flags *rootFlags, prefs *renderPrefs) *cobra.Command {
	return &cobra.Command{
		Use:   "dev",
		Short: "Watch descriptors and rebuild the manifest on change",
		Long: `Write the entry table once, build the manifest, then watch the content
root and rebuild the manifest every time a descriptor is created, changed,
removed or renamed. Press Ctrl+C to stop.

The entry table is not recomputed while running; restart dev after adding
or removing a project.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := app.loadSession(ctx, flags)
			if err != nil {
				return err
			}
			prefs.apply(s)

			return app.runDev(ctx, s)
		},
	}
}

func (a *App) runDev(ctx context.Context, s *session) error {
	layout := s.layout

	resolved, err := entries.NewResolver(layout).Resolve(ctx)
	if err != nil {
		return newServiceError(err, 0, "")
	}
	a.Diagnostics.Render(ctx, resolved.Diagnostics, a.stderr)
	if err := resolved.Table.WriteFile(layout.EntriesOutput, entries.FormatJSON); err != nil {
		return newServiceError(err, issue.EntryOutputFailedId, "")
	}
	s.logger.Info("entry table written", "path", layout.Rel(layout.EntriesOutput), "entries", resolved.Summary())

	if info, err := os.Stat(layout.ContentRoot); err != nil || !info.IsDir() {
		if err == nil {
			err = fmt.Errorf("%s is not a directory", layout.ContentRoot)
		}
		return newServiceError(issue.NewErrorContext().
			WithOperation("scan content root").
			WithResource(layout.ContentRoot).
			WithSuggestion("Create the directory or set content.dir in sitegen.cue").
			Wrap(err).
			BuildError(), issue.ContentRootNotFoundId, "")
	}

	w, err := watch.New(reactor.WatchConfig(layout, s.logger))
	if err != nil {
		return newServiceError(err, 0, "")
	}

	builder := manifest.NewBuilder(layout)
	rebuild := func(ctx context.Context) error {
		result, err := builder.Build(ctx)
		if err != nil {
			return err
		}
		a.Diagnostics.Render(ctx, result.Diagnostics, a.stderr)
		s.logger.Debug("manifest contents", "projects", len(result.Manifest.Projects), "path", layout.Rel(result.Path))
		return nil
	}

	r := reactor.New(layout, rebuild,
		reactor.WithLogger(s.logger),
		reactor.WithObserver(func(ev watch.Event) {
			if ev.Op&restartOps != 0 {
				s.logger.Warn("project set changed; restart dev to refresh the entry table", "path", layout.Rel(ev.Path))
			}
		}),
	)

	s.logger.Info("watching for descriptor changes", "dir", layout.Rel(w.BaseDir()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := w.Run(gctx)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, watch.ErrWatcherBroken):
			return newServiceError(err, issue.WatchLimitReachedId, "")
		default:
			return newServiceError(err, 0, "")
		}
	})
	g.Go(func() error {
		return r.Run(gctx, w.Events())
	})
	err = g.Wait()

	stats := r.Stats()
	s.logger.Info("stopped",
		"events", stats.Events,
		"rebuilds", stats.Rebuilds,
		"failures", stats.Failures)

	return err
}
