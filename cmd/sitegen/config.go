// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sitegen/sitegen/internal/config"
	"github.com/sitegen/sitegen/internal/tableview"

	"github.com/spf13/cobra"
)

func newConfigCommand(app *App, flags *rootFlags, prefs *renderPrefs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage sitegen configuration",
		Long: `Inspect and create the sitegen configuration.

Configuration is read from sitegen.cue in the site root (or --config),
with defaults for every omitted field and SITEGEN_* environment
overrides (for example SITEGEN_MANIFEST_PATH).`,
	}

	cmd.AddCommand(newConfigShowCommand(app, flags, prefs))
	cmd.AddCommand(newConfigDumpCommand(app, flags, prefs))
	cmd.AddCommand(newConfigPathCommand(app, flags, prefs))
	cmd.AddCommand(newConfigInitCommand(flags))

	return cmd
}

func newConfigShowCommand(app *App, flags *rootFlags, prefs *renderPrefs) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.loadSession(cmd.Context(), flags)
			if err != nil {
				return err
			}
			prefs.apply(s)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, TitleStyle.Render("Configuration"))
			fmt.Fprintf(out, "%s %s\n", SubtitleStyle.Render("Root:  "), s.cfg.Root)
			source := s.cfg.Source
			if source == "" {
				source = "(defaults)"
			}
			fmt.Fprintf(out, "%s %s\n\n", SubtitleStyle.Render("Source:"), source)
			fmt.Fprintln(out, tableview.Render([]string{"Key", "Value"}, configRows(s.cfg)))
			return nil
		},
	}
}

func newConfigDumpCommand(app *App, flags *rootFlags, prefs *renderPrefs) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.loadSession(cmd.Context(), flags)
			if err != nil {
				return err
			}
			prefs.apply(s)

			fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(s.cfg))
			return nil
		},
	}
}

func newConfigPathCommand(app *App, flags *rootFlags, prefs *renderPrefs) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.loadSession(cmd.Context(), flags)
			if err != nil {
				return err
			}
			prefs.apply(s)

			if s.cfg.Source != "" {
				fmt.Fprintln(cmd.OutOrStdout(), s.cfg.Source)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), config.FilePath(s.cfg.Root))
			fmt.Fprintln(cmd.ErrOrStderr(), VerboseStyle.Render("(file does not exist; defaults are in effect)"))
			return nil
		},
	}
}

func newConfigInitCommand(flags *rootFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default sitegen.cue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := flags.dir
			if root == "" {
				wd, err := os.Getwd()
				if err != nil {
					return err
				}
				root = wd
			}
			root, err := filepath.Abs(root)
			if err != nil {
				return err
			}

			path, err := config.CreateDefaultConfig(root, force)
			if err != nil {
				if errors.Is(err, config.ErrConfigExists) {
					return fmt.Errorf("%w (use --force to overwrite)", err)
				}
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("✓")+" Created "+path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")

	return cmd
}

// configRows flattens cfg into dotted key/value rows in schema order.
func configRows(cfg *config.Config) [][]string {
	rows := [][]string{
		{"content.dir", cfg.Content.Dir},
		{"content.descriptor", cfg.Content.Descriptor},
		{"content.artifact", cfg.Content.Artifact},
		{"content.exclude", strings.Join(cfg.Content.Exclude, ", ")},
		{"public.dir", cfg.Public.Dir},
		{"public.ext", cfg.Public.Ext},
		{"manifest.path", cfg.Manifest.Path},
		{"entries.project_prefix", cfg.Entries.ProjectPrefix},
		{"entries.public_prefix", cfg.Entries.PublicPrefix},
		{"entries.output", cfg.Entries.Output},
	}
	for _, entry := range cfg.Entries.Static {
		rows = append(rows, []string{"entries.static." + entry.Name, entry.Path})
	}
	rows = append(rows,
		[]string{"ui.color_scheme", cfg.UI.ColorScheme.String()},
		[]string{"ui.verbose", fmt.Sprintf("%t", cfg.UI.Verbose)},
	)
	return rows
}
