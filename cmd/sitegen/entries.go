// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/sitegen/sitegen/internal/entries"
	"github.com/sitegen/sitegen/internal/issue"

	"github.com/spf13/cobra"
)

func newEntriesCommand(app *App, flags *rootFlags, prefs *renderPrefs) *cobra.Command {
	var (
		formatName string
		output     string
	)

	formatNames := make([]string, 0, len(entries.Formats()))
	for _, f := range entries.Formats() {
		formatNames = append(formatNames, string(f))
	}

	cmd := &cobra.Command{
		Use:   "entries",
		Short: "Print the bundler entry table",
		Long: `Compute the entry table a bundler needs: the static entries from the
configuration, one entry per public page and one entry per project that
has a generated page.

Projects are included even when their descriptor fails validation, as
long as the descriptor names a slug and the page exists.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := entries.ParseFormat(formatName)
			if err != nil {
				return newServiceError(err, 0, "")
			}

			ctx := cmd.Context()
			s, err := app.loadSession(ctx, flags)
			if err != nil {
				return err
			}
			prefs.apply(s)

			result, err := entries.NewResolver(s.layout).Resolve(ctx)
			if err != nil {
				return newServiceError(err, 0, "")
			}
			app.Diagnostics.Render(ctx, result.Diagnostics, app.stderr)

			if output != "" {
				if err := result.Table.WriteFile(output, format); err != nil {
					return newServiceError(err, issue.EntryOutputFailedId, "")
				}
				fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("✓")+
					fmt.Sprintf(" Wrote %d entries (%s) to %s", len(result.Table), result.Summary(), output))
				return nil
			}

			data, err := result.Table.Encode(format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&formatName, "format", "f", string(entries.FormatJSON),
		"output format ("+strings.Join(formatNames, "|")+")")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the table to a file instead of stdout")

	return cmd
}
