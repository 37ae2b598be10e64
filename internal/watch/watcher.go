// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// defaultBuffer is the capacity of the Events channel.
const defaultBuffer = 64

// defaultIgnores lists path patterns that are always excluded from watching,
// regardless of user-supplied ignore patterns. These cover VCS metadata,
// dependency caches, editor swap files, and OS metadata files that generate
// high-frequency noise.
var defaultIgnores = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.DS_Store",
}

// ErrAlreadyStarted is returned when Run is called a second time.
var ErrAlreadyStarted = errors.New("watch: Run called more than once")

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// BaseDir is the root directory to watch. An empty value defaults to
		// the current working directory.
		BaseDir string

		// Patterns are doublestar-compatible glob patterns (e.g.,
		// "projects/*/project.json"), relative to BaseDir, that select which
		// files produce events. An empty slice passes every non-ignored path.
		Patterns []string

		// Ignore are additional doublestar-compatible glob patterns for paths
		// that never produce events. They are merged with the built-in
		// default ignores.
		Ignore []string

		// Buffer is the Events channel capacity. Zero or negative values fall
		// back to defaultBuffer.
		Buffer int

		// Logger receives non-fatal watcher problems. nil discards them.
		Logger *log.Logger
	}

	// Watcher forwards filesystem notifications under BaseDir as Events.
	// Run must be called exactly once.
	Watcher struct {
		cfg     Config
		fsw     *fsnotify.Watcher
		ignores []string
		logger  *log.Logger
		baseDir string
		events  chan Event
		started atomic.Bool

		// dirs and known are owned by New, then by the Run goroutine.
		dirs  map[string]struct{}
		known map[string]struct{}
	}
)

// New creates a Watcher from the given Config. It resolves BaseDir to an
// absolute path, initialises the underlying fsnotify watcher, and registers
// all non-ignored directories under BaseDir for monitoring.
func New(cfg Config) (*Watcher, error) {
	baseDir := cfg.BaseDir
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("watch: determine working directory: %w", err)
		}
		baseDir = wd
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve base directory: %w", err)
	}

	// Invalid globs fail here rather than silently never matching.
	if err := validatePatterns(cfg.Patterns, "watch"); err != nil {
		return nil, err
	}
	if err := validatePatterns(cfg.Ignore, "ignore"); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	buffer := cfg.Buffer
	if buffer <= 0 {
		buffer = defaultBuffer
	}

	w := &Watcher{
		cfg:     cfg,
		fsw:     fsw,
		ignores: slices.Concat(defaultIgnores, cfg.Ignore),
		logger:  logger,
		baseDir: absBase,
		events:  make(chan Event, buffer),
		dirs:    make(map[string]struct{}),
		known:   make(map[string]struct{}),
	}

	if err := w.addDirectories(); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			logger.Warn("close after init failure", "err", closeErr)
		}
		return nil, err
	}

	return w, nil
}

// BaseDir returns the absolute directory being watched.
func (w *Watcher) BaseDir() string {
	return w.baseDir
}

// Events returns the channel Events are delivered on. It is closed when Run
// returns.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Run blocks until ctx is cancelled, forwarding filesystem events in the
// order they are received. It returns nil on context cancellation and an
// error when the watcher breaks irrecoverably (e.g. the inotify watch limit
// is reached).
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	defer func() {
		close(w.events)
		if closeErr := w.fsw.Close(); closeErr != nil {
			w.logger.Warn("close fsnotify", "err", closeErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			if !w.handle(ctx, evt) {
				return nil
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("%w: %w", ErrWatcherBroken, err)
			}
			w.logger.Warn("fsnotify error", "err", err)
		}
	}
}

// handle filters and forwards one fsnotify event. It returns false when ctx
// ended while waiting for the consumer.
func (w *Watcher) handle(ctx context.Context, evt fsnotify.Event) bool {
	rel, ok := w.rel(evt.Name)
	if !ok || w.isIgnored(rel) {
		return true
	}

	// Directory registration does not depend on watch patterns.
	var created, vanished []string
	if evt.Has(fsnotify.Create) {
		created = w.maybeAddDir(evt.Name)
	}
	if evt.Has(fsnotify.Remove) || evt.Has(fsnotify.Rename) {
		vanished = w.forgetDir(evt.Name)
	}

	if w.matchesPatterns(rel) {
		if evt.Has(fsnotify.Remove) || evt.Has(fsnotify.Rename) {
			delete(w.known, evt.Name)
		} else {
			w.known[evt.Name] = struct{}{}
		}
		if !w.emit(ctx, Event{Path: evt.Name, Op: opFromFsnotify(evt.Op)}) {
			return false
		}
	}

	for _, path := range created {
		rel, ok := w.rel(path)
		if !ok || !w.matchesPatterns(rel) {
			continue
		}
		w.known[path] = struct{}{}
		if !w.emit(ctx, Event{Path: path, Op: Create}) {
			return false
		}
	}

	// A directory moved or deleted as a whole reports only its own path.
	for _, path := range vanished {
		if !w.emit(ctx, Event{Path: path, Op: Remove}) {
			return false
		}
	}
	return true
}

// forgetDir drops path and its subdirectories from the registered set when
// path was a watched directory. It returns the matching files that were
// known below it, sorted.
func (w *Watcher) forgetDir(path string) []string {
	if _, ok := w.dirs[path]; !ok {
		return nil
	}

	prefix := path + string(filepath.Separator)
	for dir := range w.dirs {
		if dir == path || strings.HasPrefix(dir, prefix) {
			delete(w.dirs, dir)
		}
	}

	var gone []string
	for file := range w.known {
		if strings.HasPrefix(file, prefix) {
			gone = append(gone, file)
			delete(w.known, file)
		}
	}
	slices.Sort(gone)
	return gone
}

func (w *Watcher) emit(ctx context.Context, ev Event) bool {
	select {
	case w.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// addDirectories walks BaseDir and adds every non-ignored directory to the
// fsnotify watcher. Pattern filtering is applied when events arrive.
func (w *Watcher) addDirectories() error {
	walkErr := filepath.WalkDir(w.baseDir, func(path string, d os.DirEntry, walkDirErr error) error {
		if walkDirErr != nil {
			// Inaccessible directories are skipped rather than aborting the walk.
			w.logger.Warn("skipping inaccessible path", "path", path, "err", walkDirErr)
			return nil //nolint:nilerr // intentional skip of inaccessible paths
		}

		rel, ok := w.rel(path)
		if !ok {
			return nil
		}
		if !d.IsDir() {
			if !w.isIgnored(rel) && w.matchesPatterns(rel) {
				w.known[path] = struct{}{}
			}
			return nil
		}
		if w.isIgnoredDir(rel) {
			return filepath.SkipDir
		}

		if addErr := w.fsw.Add(path); addErr != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, addErr)
		}
		w.dirs[path] = struct{}{}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("watch: walk directory tree: %w", walkErr)
	}
	return nil
}

// maybeAddDir registers path and every non-ignored directory below it when
// path is a directory created after the initial walk. It returns the files
// found inside, which may predate the registration.
func (w *Watcher) maybeAddDir(path string) []string {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return nil
	}

	var files []string
	walkErr := filepath.WalkDir(path, func(p string, d os.DirEntry, walkDirErr error) error {
		if walkDirErr != nil {
			return nil //nolint:nilerr // directory vanished or is unreadable
		}
		rel, ok := w.rel(p)
		if !ok {
			return nil
		}
		if !d.IsDir() {
			if !w.isIgnored(rel) {
				files = append(files, p)
			}
			return nil
		}
		if w.isIgnoredDir(rel) {
			return filepath.SkipDir
		}
		if addErr := w.fsw.Add(p); addErr != nil {
			w.logger.Warn("add new directory", "path", p, "err", addErr)
			return filepath.SkipDir
		}
		w.dirs[p] = struct{}{}
		return nil
	})
	if walkErr != nil {
		w.logger.Warn("walk new directory", "path", path, "err", walkErr)
	}
	return files
}

func (w *Watcher) rel(path string) (string, bool) {
	rel, err := filepath.Rel(w.baseDir, path)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// isIgnored returns true if the given path (relative to BaseDir) matches any
// ignore pattern.
func (w *Watcher) isIgnored(rel string) bool {
	return matchAny(w.ignores, filepath.ToSlash(rel))
}

// isIgnoredDir also tries rel with a trailing slash so "**/.git/**" matches
// the .git directory itself.
func (w *Watcher) isIgnoredDir(rel string) bool {
	return w.isIgnored(rel) || w.isIgnored(rel+"/")
}

// matchesPatterns returns true if the given path (relative to BaseDir) matches
// at least one of the configured watch patterns. When no patterns are
// configured, all paths match.
func (w *Watcher) matchesPatterns(rel string) bool {
	if len(w.cfg.Patterns) == 0 {
		return true
	}
	return matchAny(w.cfg.Patterns, filepath.ToSlash(rel))
}

func matchAny(patterns []string, path string) bool {
	for _, pat := range patterns {
		if matched, matchErr := doublestar.Match(pat, path); matchErr == nil && matched {
			return true
		}
	}
	return false
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}

// validatePatterns checks that every pattern in the slice is a valid doublestar
// glob. The label (e.g., "watch" or "ignore") is used in error messages.
func validatePatterns(patterns []string, label string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("watch: invalid %s pattern %q: %w", label, pat, doublestar.ErrBadPattern)
		}
	}
	return nil
}
