// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/sitegen/sitegen/internal/discovery"
	"github.com/sitegen/sitegen/internal/entries"
	"github.com/sitegen/sitegen/internal/issue"
	"github.com/sitegen/sitegen/internal/manifest"
	"github.com/sitegen/sitegen/internal/site"
	"github.com/sitegen/sitegen/internal/tableview"
	"github.com/sitegen/sitegen/pkg/descriptor"

	"github.com/spf13/cobra"
)

type (
	// checkReport is the combined outcome of a manifest dry run and an entry
	// resolution over the same tree.
	checkReport struct {
		rows        []checkRow
		diagnostics []discovery.Diagnostic
		inManifest  int
		entries     *entries.Result
	}

	checkRow struct {
		dir      string
		slug     string
		manifest bool
		entry    string
		// suggestion is a replacement slug when the current one is invalid.
		suggestion descriptor.Slug
	}
)

func newCheckCommand(app *App, flags *rootFlags, prefs *renderPrefs) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate projects without writing anything",
		Long: `Scan and validate every project, resolve the entry table and report
which projects reach the manifest and which get a bundler entry. Nothing
is written.

With --strict the command fails when any warning was reported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := app.loadSession(ctx, flags)
			if err != nil {
				return err
			}
			prefs.apply(s)

			report, err := runCheck(ctx, s.layout)
			if err != nil {
				return newServiceError(err, 0, "")
			}

			renderCheckReport(cmd.OutOrStdout(), report)
			app.Diagnostics.Render(ctx, report.diagnostics, app.stderr)

			if strict && len(report.diagnostics) > 0 {
				return strictFailure(report.diagnostics)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any warning is reported")

	return cmd
}

// strictFailure builds the exit error for a strict check. Skipped
// descriptors point the user at the descriptor format.
func strictFailure(diags []discovery.Diagnostic) *ServiceError {
	var id issue.Id
	if discovery.CountCode(diags, discovery.CodeDescriptorParseSkipped) > 0 {
		id = issue.DescriptorParseErrorId
	}
	return newServiceError(&ExitError{
		Code: 1,
		Err:  fmt.Errorf("check failed: %d warning(s) in strict mode", len(diags)),
	}, id, "")
}

// runCheck scans the layout once per component, exactly as manifest and
// entries would, and joins the results per project directory.
func runCheck(ctx context.Context, layout site.Layout) (*checkReport, error) {
	scan, err := discovery.Scan(ctx, layout.ScanOptions())
	if err != nil {
		return nil, err
	}

	build, err := manifest.NewBuilder(layout, manifest.WithDryRun(true)).Build(ctx)
	if err != nil {
		return nil, err
	}

	resolved, err := entries.NewResolver(layout).Resolve(ctx)
	if err != nil {
		return nil, err
	}

	listed := make(map[string]bool, len(build.Dirs))
	for _, dir := range build.Dirs {
		listed[dir] = true
	}

	report := &checkReport{
		diagnostics: dedupeDiagnostics(append(build.Diagnostics, resolved.Diagnostics...)),
		inManifest:  len(build.Dirs),
		entries:     resolved,
	}

	for _, found := range scan.Descriptors {
		row := checkRow{
			dir:      filepath.Base(found.Dir),
			manifest: listed[found.Dir],
		}

		if slug, ok := found.Raw.SlugString(); ok {
			row.slug = slug
			key := layout.ProjectPrefix + slug
			artifact := filepath.Join(found.Dir, layout.ArtifactName)
			if resolved.Origins[key] == entries.OriginProject && resolved.Table[key] == artifact {
				row.entry = key
			}
		}

		d := descriptor.FromRaw(found.Raw)
		if d.Slug.Validate() != nil && d.Name != "" {
			row.suggestion = descriptor.Slugify(d.Name)
		}

		report.rows = append(report.rows, row)
	}

	return report, nil
}

func renderCheckReport(w io.Writer, report *checkReport) {
	if len(report.rows) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("No projects found."))
	} else {
		rows := make([][]string, 0, len(report.rows))
		for _, r := range report.rows {
			rows = append(rows, []string{r.dir, orDash(r.slug), yesNo(r.manifest), orDash(r.entry)})
		}
		fmt.Fprintln(w, tableview.Render([]string{"Directory", "Slug", "Manifest", "Entry"}, rows))

		for _, r := range report.rows {
			if r.suggestion == "" {
				continue
			}
			fmt.Fprintf(w, "%s %s: slug %q is invalid, try %s\n",
				WarningStyle.Render("•"), r.dir, r.slug, CmdStyle.Render(string(r.suggestion)))
		}
	}

	summary := fmt.Sprintf("%d project(s), %d in manifest, %d entries (%s), %d warning(s)",
		len(report.rows), report.inManifest, len(report.entries.Table), report.entries.Summary(), len(report.diagnostics))
	if len(report.diagnostics) == 0 {
		fmt.Fprintln(w, SuccessStyle.Render("✓")+" "+summary)
		return
	}
	fmt.Fprintln(w, WarningStyle.Render("!")+" "+summary)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
