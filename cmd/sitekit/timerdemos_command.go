package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sitekit/internal/catalog"
	"sitekit/internal/smoke"
	"sitekit/internal/timerdemo"
)

func newTimerDemosCommand(ctx *commandContext) *cobra.Command {
	var movesPath string
	var outPath string

	cmd := &cobra.Command{
		Use:   "timer-demos",
		Short: "Generate the demo timelines shown by the timer previews",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(movesPath) == "" {
				movesPath = cfg.DataPath(catalog.FileMoves)
			}
			if strings.TrimSpace(outPath) == "" {
				outPath = cfg.DataPath(smoke.TimerDemosFile)
			}

			embeds, err := timerdemo.LoadMoves(movesPath)
			if err != nil {
				return err
			}
			doc, err := timerdemo.Generate(embeds)
			if err != nil {
				return fmt.Errorf("generate timer demos from %s: %w", movesPath, err)
			}
			if err := timerdemo.Write(outPath, doc); err != nil {
				return err
			}

			rows := make([][]string, 0, len(doc.Demos))
			for _, demo := range doc.Demos {
				rows = append(rows, []string{
					demo.ID,
					demo.Mode,
					fmt.Sprint(demo.Count(timerdemo.KindWork)),
					fmt.Sprint(demo.Count(timerdemo.KindRest)),
					fmt.Sprint(len(demo.Segments)),
					fmt.Sprint(demo.TotalSeconds()),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(demoColumns, rows))
			fmt.Fprintf(out, "Wrote %d demos to %s\n", len(doc.Demos), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&movesPath, "moves", "", "Move catalog (default: <data_dir>/videos_moves.json)")
	cmd.Flags().StringVar(&outPath, "out", "", "Output file (default: <data_dir>/timer_demos.json)")
	return cmd
}
