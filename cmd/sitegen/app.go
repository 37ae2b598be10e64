// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/sitegen/sitegen/internal/config"
	"github.com/sitegen/sitegen/internal/discovery"
	"github.com/sitegen/sitegen/internal/issue"
	"github.com/sitegen/sitegen/internal/site"

	"github.com/charmbracelet/log"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer; every command handler receives an App reference.
	App struct {
		Config      ConfigProvider
		Diagnostics DiagnosticRenderer
		stdout      io.Writer
		stderr      io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config      ConfigProvider
		Diagnostics DiagnosticRenderer
		Stdout      io.Writer
		Stderr      io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// DiagnosticRenderer renders structured diagnostics.
	DiagnosticRenderer interface {
		Render(ctx context.Context, diags []discovery.Diagnostic, stderr io.Writer)
	}

	// rootFlags are the persistent flags shared by every command.
	rootFlags struct {
		verbose    bool
		configPath string
		dir        string
	}

	// session is the per-invocation state derived from flags and config.
	session struct {
		cfg     *config.Config
		layout  site.Layout
		logger  *log.Logger
		verbose bool
	}

	defaultDiagnosticRenderer struct{}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Diagnostics == nil {
		deps.Diagnostics = &defaultDiagnosticRenderer{}
	}

	return &App{
		Config:      deps.Config,
		Diagnostics: deps.Diagnostics,
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
	}
}

// loadSession loads configuration for the flags and resolves the layout.
// The config file's ui.verbose applies when --verbose is not given.
func (a *App) loadSession(ctx context.Context, flags *rootFlags) (*session, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: flags.configPath,
		BaseDir:        flags.dir,
	})
	if err != nil {
		return nil, newServiceError(err, issue.ConfigLoadFailedId, "")
	}

	layout, err := site.FromConfig(cfg)
	if err != nil {
		return nil, newServiceError(err, issue.ConfigLoadFailedId, "")
	}

	verbose := flags.verbose || cfg.UI.Verbose
	return &session{
		cfg:     cfg,
		layout:  layout,
		logger:  newLogger(a.stderr, verbose),
		verbose: verbose,
	}, nil
}

// Render writes each diagnostic as a warning log line with its code and path.
func (r *defaultDiagnosticRenderer) Render(_ context.Context, diags []discovery.Diagnostic, stderr io.Writer) {
	if len(diags) == 0 {
		return
	}

	logger := newLogger(stderr, false)
	for _, diag := range diags {
		keyvals := []any{"code", diag.Code}
		if diag.Path != "" {
			keyvals = append(keyvals, "path", displayPath(diag.Path))
		}
		logger.Warn(diag.Message, keyvals...)
	}
}

// classifyError maps a failure to its issue catalog entry.
func classifyError(err error) issue.Id {
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		return 0
	}
	switch ae.Operation {
	case "scan content root":
		return issue.ContentRootNotFoundId
	case "write manifest":
		return issue.ManifestWriteFailedId
	case "write entry table":
		return issue.EntryOutputFailedId
	case "load configuration", "validate configuration":
		return issue.ConfigLoadFailedId
	default:
		return 0
	}
}

// displayPath shortens path relative to the working directory when it lies
// below it.
func displayPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil || !filepath.IsLocal(rel) {
		return path
	}
	return rel
}

// dedupeDiagnostics drops repeats of the same code and path, keeping the
// first occurrence. The manifest and entry passes scan the same tree, so
// scanner warnings appear in both.
func dedupeDiagnostics(diags []discovery.Diagnostic) []discovery.Diagnostic {
	type key struct{ code, path string }
	seen := make(map[key]bool, len(diags))
	out := make([]discovery.Diagnostic, 0, len(diags))
	for _, d := range diags {
		k := key{d.Code, d.Path}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, d)
	}
	return out
}
