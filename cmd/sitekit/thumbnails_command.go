package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"sitekit/internal/audit"
	"sitekit/internal/config"
	"sitekit/internal/logging"
	"sitekit/internal/overrides"
	"sitekit/internal/services"
	"sitekit/internal/services/vimeo"
	"sitekit/internal/thumbnails"
	"sitekit/internal/videoids"
)

var errMissingToken = errors.New("vimeo token required (pass --token or set VIMEO_TOKEN)")

type thumbnailsFlags struct {
	input       string
	output      string
	token       string
	cacheDir    string
	limit       int
	workers     int
	onlyMissing bool
	noCache     bool
	fast        bool
}

func newThumbnailsCommand(ctx *commandContext) *cobra.Command {
	var flags thumbnailsFlags

	cmd := &cobra.Command{
		Use:   "thumbnails",
		Short: "Pick the best thumbnail for each video and write the override map",
		Long: "Reads video ids from --input (.json or .csv), lists the thumbnail candidates\n" +
			"of each video, picks one, and merges the picks into the override map at\n" +
			"--output. Per-video failures are logged and skipped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("cache-dir") {
				flags.cacheDir = cfg.Paths.CacheDir
			}
			if !cmd.Flags().Changed("workers") {
				flags.workers = cfg.Thumbnails.Workers
			}
			return runThumbnails(cmd, cfg, logger, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "Video id source (.json or .csv)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Override map to update")
	cmd.Flags().StringVar(&flags.token, "token", "", "Vimeo access token (default: vimeo.token, then VIMEO_TOKEN)")
	cmd.Flags().StringVar(&flags.cacheDir, "cache-dir", "", "Picture listing cache directory (default: paths.cache_dir)")
	cmd.Flags().IntVar(&flags.limit, "limit", 0, "Process at most N ids (0 = all)")
	cmd.Flags().IntVar(&flags.workers, "workers", 1, "Videos processed concurrently")
	cmd.Flags().BoolVar(&flags.onlyMissing, "only-missing", false, "Skip ids that already have an override")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "Ignore cached picture listings")
	cmd.Flags().BoolVar(&flags.fast, "fast", false, "Pick without downloading images")

	cmd.AddCommand(newThumbnailsHistoryCommand(ctx))
	return cmd
}

func runThumbnails(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, flags thumbnailsFlags) error {
	if strings.TrimSpace(flags.input) == "" {
		return services.Wrap(services.ErrValidation, "thumbnails", "flags", "--input is required", nil)
	}
	if strings.TrimSpace(flags.output) == "" {
		return services.Wrap(services.ErrValidation, "thumbnails", "flags", "--output is required", nil)
	}
	token := strings.TrimSpace(flags.token)
	if token == "" {
		token = cfg.Vimeo.Token
	}
	if token == "" {
		return services.Wrap(services.ErrConfiguration, "thumbnails", "resolve token", "", errMissingToken)
	}

	ids, err := videoids.ReadFile(flags.input)
	if err != nil {
		return err
	}
	existing, err := overrides.Load(flags.output)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	runCtx := logging.WithRunID(cmd.Context(), runID)
	logger = logging.WithContext(runCtx, logger)

	cache, err := thumbnails.OpenResponseCache(flags.cacheDir, logger)
	if err != nil {
		return err
	}
	defer cache.Close()

	client, err := vimeo.New(token, cfg.Vimeo.BaseURL, vimeo.WithTimeout(time.Duration(cfg.Vimeo.TimeoutSeconds)*time.Second))
	if err != nil {
		return err
	}

	detector, faceDetail := loadFaceDetector(cfg, logger)
	caps := thumbnails.NewCapabilities(cfg.Thumbnails.ImageAnalysis, detector, faceDetail)
	var fetcher thumbnails.ImageFetcher
	if caps.ImageAnalysis {
		fetcher = client
	}
	scorer := thumbnails.NewScorer(caps, fetcher, detector, logger)
	selector := thumbnails.NewSelector(scorer, cfg.Thumbnails.MaxScored, logger)
	lister := thumbnails.NewLister(client, cache, time.Duration(cfg.Vimeo.RequestDelayMS)*time.Millisecond, logger)

	builderOpts := []overrides.BuilderOption{overrides.WithRunID(runID)}
	if cfg.Audit.Enabled {
		store, err := audit.Open(cfg.Audit.Path)
		if err != nil {
			logging.WarnWithContext(logger, "audit ledger unavailable", "audit_open_failed",
				logging.Error(err),
				logging.String("path", cfg.Audit.Path),
				logging.String(logging.FieldErrorHint, "check audit.path or disable the ledger"),
				logging.String(logging.FieldImpact, "picks from this run are not recorded"))
		} else {
			defer store.Close()
			builderOpts = append(builderOpts, overrides.WithRecorder(store))
		}
	}

	logger.Info("thumbnail run starting",
		logging.String("input", flags.input),
		logging.String("output", flags.output),
		logging.Int("ids", len(ids)),
		logging.Int("existing", len(existing)),
		logging.String("capabilities", caps.Describe()),
		logging.Bool("fast", flags.fast))

	builder := overrides.NewBuilder(lister, selector, logger, builderOpts...)
	result, buildErr := builder.Build(runCtx, ids, existing, overrides.Options{
		OnlyMissing: flags.onlyMissing,
		UseCache:    !flags.noCache,
		Fast:        flags.fast,
		Limit:       flags.limit,
		Workers:     flags.workers,
	})
	if buildErr != nil && !errors.Is(buildErr, context.Canceled) && !errors.Is(buildErr, context.DeadlineExceeded) {
		return buildErr
	}

	if err := overrides.Write(flags.output, result.Map, cfg.Thumbnails.OverridesSchema, time.Now()); err != nil {
		return fmt.Errorf("write override map: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Wrote %d overrides to %s\n", len(result.Map), flags.output)
	fmt.Fprintf(out, "Processed %d of %d ids: %d picked, %d failed, %d skipped (run %s)\n",
		result.Processed, result.Total, result.Picked, len(result.Failures), result.Skipped, runID)
	return buildErr
}

// loadFaceDetector returns nil with a reason when the optional face stage
// cannot run. A broken cascade only degrades scoring.
func loadFaceDetector(cfg *config.Config, logger *slog.Logger) (thumbnails.FaceDetector, string) {
	if !cfg.Thumbnails.ImageAnalysis || strings.TrimSpace(cfg.Thumbnails.FaceCascade) == "" {
		return nil, ""
	}
	detector, err := thumbnails.LoadPigoDetector(cfg.Thumbnails.FaceCascade, cfg.Thumbnails.FaceMinSize, cfg.Thumbnails.FaceMinQuality)
	if err != nil {
		logging.WarnWithContext(logger, "face detection disabled", "face_cascade_unavailable",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check thumbnails.face_cascade"),
			logging.String(logging.FieldImpact, "faces are not scored"))
		return nil, err.Error()
	}
	return detector, ""
}

func newThumbnailsHistoryCommand(ctx *commandContext) *cobra.Command {
	var videoID string
	var runID string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded thumbnail decisions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := os.Stat(cfg.Audit.Path); err != nil {
				if errors.Is(err, os.ErrNotExist) {
					fmt.Fprintf(out, "No audit ledger at %s (set audit.enabled = true to record picks)\n", cfg.Audit.Path)
					return nil
				}
				return fmt.Errorf("stat audit ledger: %w", err)
			}
			store, err := audit.Open(cfg.Audit.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			decisions, err := store.Recent(cmd.Context(), audit.Filter{VideoID: videoID, RunID: runID, Limit: limit})
			if err != nil {
				return err
			}
			if len(decisions) == 0 {
				fmt.Fprintln(out, "No decisions recorded")
				return nil
			}
			fmt.Fprintln(out, renderTable(historyColumns, historyRows(decisions)))
			return nil
		},
	}

	cmd.Flags().StringVar(&videoID, "video", "", "Only decisions for this video id")
	cmd.Flags().StringVar(&runID, "run", "", "Only decisions from this run id")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum rows")
	return cmd
}

func historyRows(decisions []audit.Decision) [][]string {
	rows := make([][]string, 0, len(decisions))
	for _, d := range decisions {
		score := "-"
		if d.Score != nil {
			score = fmt.Sprintf("%.2f", *d.Score)
		}
		rows = append(rows, []string{
			d.RecordedAt.Local().Format("2006-01-02 15:04"),
			d.VideoID,
			d.Reason,
			score,
			fmt.Sprintf("%dx%d", d.Width, d.Height),
			yesNo(d.Active),
			d.URL,
		})
	}
	return rows
}
