package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"sitekit/internal/catalog"
	"sitekit/internal/logging"
	"sitekit/internal/services"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var csvPath string
	var outDir string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Classify a vendor CSV export into the site's video manifests",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}
			logger = logging.NewComponentLogger(logger, "ingest")

			if strings.TrimSpace(csvPath) == "" {
				return services.Wrap(services.ErrValidation, "ingest", "flags", "--csv is required", nil)
			}
			if strings.TrimSpace(outDir) == "" {
				outDir = cfg.Paths.DataDir
			}

			videos, err := catalog.ReadCSVFile(csvPath)
			if err != nil {
				return err
			}
			summary, err := catalog.WriteManifests(outDir, videos)
			if err != nil {
				return err
			}
			logger.Info("manifests written",
				logging.String("csv", csvPath),
				logging.String("dir", outDir),
				logging.Int("videos", summary.All),
				logging.Int("classes", summary.Classes),
				logging.Int("moves", summary.Moves))

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				manifestColumns,
				[][]string{
					{catalog.FileAll, strconv.Itoa(summary.All)},
					{catalog.FileClasses, strconv.Itoa(summary.Classes)},
					{catalog.FileMoves, strconv.Itoa(summary.Moves)},
					{catalog.FileMarketing, strconv.Itoa(summary.Marketing)},
					{catalog.FileCategorySamples, strconv.Itoa(summary.CategorySamples)},
				},
			))
			if summary.Samples > 0 {
				fmt.Fprintf(out, "%d sample videos are listed only in %s\n", summary.Samples, catalog.FileAll)
			}
			fmt.Fprintf(out, "Wrote %d manifests to %s\n", len(summary.Files), outDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "Vendor CSV export")
	cmd.Flags().StringVar(&outDir, "out", "", "Manifest directory (default: paths.data_dir)")
	return cmd
}
