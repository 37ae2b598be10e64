// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/sitegen/sitegen/internal/manifest"

	"github.com/spf13/cobra"
)

func newManifestCommand(app *App, flags *rootFlags, prefs *renderPrefs) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Regenerate the project manifest",
		Long: `Scan the content root, validate every descriptor and write the manifest
of valid projects ordered by creation date, newest first.

Invalid or unparsable descriptors are reported as warnings and left out;
they never fail the command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := app.loadSession(ctx, flags)
			if err != nil {
				return err
			}
			prefs.apply(s)

			result, err := manifest.NewBuilder(s.layout, manifest.WithDryRun(dryRun)).Build(ctx)
			if err != nil {
				return newServiceError(err, 0, "")
			}
			app.Diagnostics.Render(ctx, result.Diagnostics, app.stderr)

			if dryRun {
				data, err := manifest.Render(result.Manifest)
				if err != nil {
					return newServiceError(err, 0, "")
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			s.logger.Debug("manifest written", "path", s.layout.Rel(result.Path))
			fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("✓")+
				fmt.Sprintf(" Wrote %d project(s) to %s", len(result.Manifest.Projects), s.layout.Rel(result.Path)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the manifest instead of writing it")

	return cmd
}
