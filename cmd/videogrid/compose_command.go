package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"videogrid/internal/config"
	"videogrid/internal/logging"
	"videogrid/internal/overlay"
	"videogrid/internal/pipeline"
	"videogrid/internal/preflight"
	"videogrid/internal/services"
)

func newComposeCommand(ctx *commandContext) *cobra.Command {
	var outputFlag string
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "compose [path[=LABEL] ...]",
		Short: "Compose eight clips into a 2x4 grid video",
		Long: `Compose eight clips into a 2x4 grid video.

Clips come from the [[clips]] entries of the configuration file unless eight
path[=LABEL] arguments are given. The first four clips form the top row. A
missing label is derived from the file name.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if len(args) > 0 {
				clips, err := parseClipArgs(args)
				if err != nil {
					return err
				}
				if err := cfg.SetClips(clips); err != nil {
					return err
				}
			}
			if err := cfg.ValidateClips(); err != nil {
				return fmt.Errorf("%w: %w", services.ErrConfiguration, err)
			}
			if output := strings.TrimSpace(outputFlag); output != "" {
				expanded, err := config.ExpandPath(output)
				if err != nil {
					return fmt.Errorf("resolve output path: %w", err)
				}
				cfg.Output.Path = expanded
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			if !skipPreflight {
				results := preflight.RunAll(cmd.Context(), cfg)
				if failed := preflight.Failed(results); len(failed) > 0 {
					fmt.Fprintln(out, renderPreflight(results, colorize))
					return fmt.Errorf("%w: %d preflight check(s) failed", services.ErrConfiguration, len(failed))
				}
			}

			lock, err := acquireOutputLock(cfg.LockPath())
			if err != nil {
				return err
			}
			defer func() { _ = lock.release() }()

			logger, err := ctx.logger()
			if err != nil {
				return err
			}
			runner, err := ctx.runner()
			if err != nil {
				return err
			}
			stamper, err := overlay.New(overlay.Options{
				Scale:        cfg.Label.Scale,
				Thickness:    cfg.Label.Thickness,
				MarginBottom: cfg.Label.MarginBottom,
			})
			if err != nil {
				return err
			}

			runID := uuid.NewString()
			runCtx := services.WithRunID(cmd.Context(), runID)
			mediaIO := pipeline.FFmpegIO{Runner: runner}
			driver := pipeline.New(pipeline.Options{
				OutputPath:     cfg.Output.Path,
				MaxSeconds:     cfg.Timeline.MaxSeconds,
				LoopFactor:     cfg.Timeline.LoopFactor,
				ProgressStride: cfg.Timeline.ProgressStride,
			}, mediaIO, mediaIO, stamper, logger)

			report, err := driver.Run(runCtx, clipSpecs(cfg.Clips))
			if err != nil {
				logging.ErrorWithContext(logging.WithContext(runCtx, logger), "composition failed", "composition_failed",
					logging.String(logging.FieldErrorKind, services.Kind(err)),
					logging.Error(err),
				)
				return err
			}

			writeReport(out, report, colorize)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Override output.path")
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip binary and file checks before composing")
	return cmd
}

func writeReport(out io.Writer, report pipeline.Report, colorize bool) {
	for _, line := range renderSectionHeader("Composition", colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, renderStatusLine("Output", statusOK, report.Output, colorize))
	fmt.Fprintln(out, renderStatusLine("Run", statusInfo, report.RunID, colorize))
	fmt.Fprintln(out, renderStatusLine("Grid", statusInfo,
		fmt.Sprintf("%dx%d @ %s fps, %d frames (%s)",
			report.Layout.Width, report.Layout.Height,
			formatRate(report.FrameRate), report.FramesWritten,
			formatSeconds(float64(report.FramesWritten)/report.FrameRate)),
		colorize))
	fmt.Fprintln(out, renderClipTable(report.Clips))
}
