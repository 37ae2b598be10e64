// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for sitegen.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// renderPrefs carries presentation settings from command execution to the
// fang error handler, which runs after the command returns.
type renderPrefs struct {
	verbose      bool
	glamourStyle string
}

// NewRootCommand builds the sitegen command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	cmd, _ := newRootCommand(app)
	return cmd
}

func newRootCommand(app *App) (*cobra.Command, *renderPrefs) {
	flags := &rootFlags{}
	prefs := &renderPrefs{glamourStyle: "dark"}

	rootCmd := &cobra.Command{
		Use:   "sitegen",
		Short: "Project manifest and entry point generator for multi-page sites",
		Long: TitleStyle.Render("sitegen") + SubtitleStyle.Render(" - project manifest and entry point generator") + `

sitegen discovers project directories (each holding a project.json
descriptor), writes a manifest of valid projects ordered newest first,
and computes the entry table a bundler needs to build every page.

` + SubtitleStyle.Render("Examples:") + `
  sitegen manifest             Write src/data/projects.json
  sitegen entries              Print the bundler entry table as JSON
  sitegen check --strict       Validate every project, fail on warnings
  sitegen dev                  Rebuild the manifest whenever a descriptor changes
  sitegen config init          Create sitegen.cue with the defaults`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			prefs.verbose = flags.verbose
		},
	}

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is ./sitegen.cue)")
	rootCmd.PersistentFlags().StringVarP(&flags.dir, "dir", "C", "", "site root (default is the working directory)")

	rootCmd.AddCommand(newManifestCommand(app, flags, prefs))
	rootCmd.AddCommand(newEntriesCommand(app, flags, prefs))
	rootCmd.AddCommand(newCheckCommand(app, flags, prefs))
	rootCmd.AddCommand(newDevCommand(app, flags, prefs))
	rootCmd.AddCommand(newConfigCommand(app, flags, prefs))

	return rootCmd, prefs
}

// apply records the session's presentation settings for error rendering.
func (p *renderPrefs) apply(s *session) {
	p.verbose = s.verbose
	if scheme := s.cfg.UI.ColorScheme.String(); scheme != "" {
		p.glamourStyle = scheme
	}
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the command tree and runs it with fang styling. It is
// called by main.main() and exits the process on failure.
func Execute() {
	app := NewApp(Dependencies{})
	rootCmd, prefs := newRootCommand(app)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler(&prefs.verbose, &prefs.glamourStyle)),
	); err != nil {
		os.Exit(exitCode(err))
	}
}
