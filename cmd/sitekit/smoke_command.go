package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sitekit/internal/config"
	"sitekit/internal/smoke"
)

func newSmokeCommand(ctx *commandContext) *cobra.Command {
	var siteDir string
	var skipScript bool

	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Validate the generated site before deploy",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			opts := smoke.OptionsFromConfig(cfg)
			if strings.TrimSpace(siteDir) != "" {
				expanded, err := config.ExpandPath(siteDir)
				if err != nil {
					return fmt.Errorf("resolve site dir: %w", err)
				}
				opts.SiteDir = expanded
				opts.DataDir = ""
			}
			if skipScript {
				opts.SkipScriptSyntax = true
			}

			report := smoke.New(opts, logger).Validate(cmd.Context())
			out := cmd.OutOrStdout()
			fmt.Fprint(out, renderSmokeReport(report, shouldColorize(out)))
			if report.Failed() {
				_, failed, _ := report.Counts()
				return fmt.Errorf("smoke validation failed: %d checks failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&siteDir, "site", "", "Site root to validate (default: paths.site_dir)")
	cmd.Flags().BoolVar(&skipScript, "skip-js", false, "Skip the node --check script syntax check")
	return cmd
}

func renderSmokeReport(report smoke.Report, colorize bool) string {
	var b strings.Builder
	label := report.Label
	if label == "" {
		label = "unknown"
	}
	fmt.Fprintln(&b, renderSectionHeader("Smoke "+label, colorize))
	for _, check := range report.Checks {
		fmt.Fprintln(&b, renderStatusLine(check.Name, smokeStatusKind(check.Status), check.Detail, colorize))
	}

	if failures := report.Failures(); len(failures) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, renderSectionHeader("Failures", colorize))
		for _, f := range failures {
			fmt.Fprintf(&b, "%s- %s\n", statusIndent, f)
		}
	}

	passed, failed, skipped := report.Counts()
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "%d passed, %d failed, %d skipped\n", passed, failed, skipped)
	return b.String()
}
