package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sitekit/internal/preflight"
	"sitekit/internal/thumbnails"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report directories, credentials, and optional capabilities",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			var lines []string
			lines = append(lines, renderSectionHeader("Configuration", colorize))
			configDetail := ctx.configPath
			if configDetail == "" {
				configDetail = "defaults"
			}
			lines = append(lines, renderStatusLine("Config", statusInfo, configDetail, colorize))

			lines = append(lines, "", renderSectionHeader("Checks", colorize))
			failed := 0
			for _, res := range preflight.RunAll(cmd.Context(), cfg, verify) {
				kind := statusOK
				if !res.Passed {
					kind = statusError
					failed++
				}
				lines = append(lines, renderStatusLine(res.Name, kind, res.Detail, colorize))
			}

			lines = append(lines, "", renderSectionHeader("Thumbnail scoring", colorize))
			detector, faceDetail := loadFaceDetector(cfg, nil)
			caps := thumbnails.NewCapabilities(cfg.Thumbnails.ImageAnalysis, detector, faceDetail)
			lines = append(lines, renderStatusLine("Stages", statusInfo, caps.Describe(), colorize))
			if !caps.FaceDetection {
				lines = append(lines, renderStatusLine("Faces", statusWarn, caps.FaceDetail, colorize))
			}
			lines = append(lines, renderStatusLine("Audit ledger", statusInfo, auditDetail(cfg.Audit.Enabled, cfg.Audit.Path), colorize))

			lines = append(lines, "", renderSectionHeader("Dependencies", colorize))
			lines = append(lines, dependencyLines(preflight.CheckSystemDeps(cfg), colorize)...)

			fmt.Fprintln(out, strings.Join(lines, "\n"))
			if failed > 0 {
				return fmt.Errorf("%d status checks failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&verify, "verify", false, "Ask the Vimeo API to verify the token")
	return cmd
}

func auditDetail(enabled bool, path string) string {
	if !enabled {
		return "disabled"
	}
	return path
}
