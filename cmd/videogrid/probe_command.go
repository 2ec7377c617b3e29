package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"videogrid/internal/config"
	"videogrid/internal/pipeline"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "probe [path ...]",
		Short: "Show clip metadata and decode windows without composing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			clips := cfg.Clips
			if len(args) > 0 {
				parsed, err := parseClipArgs(args)
				if err != nil {
					return err
				}
				probeCfg := config.Default()
				if err := probeCfg.SetClips(parsed); err != nil {
					return err
				}
				clips = probeCfg.Clips
			}
			if len(clips) == 0 {
				return fmt.Errorf("no clips to probe; pass paths or configure [[clips]]")
			}

			runner, err := ctx.runner()
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(clips))
			var failures []string
			for i, clip := range clips {
				src, err := runner.Open(cmd.Context(), clip.Source)
				if err != nil {
					failures = append(failures, fmt.Sprintf("%s: %v", clip.Source, err))
					rows = append(rows, []string{fmt.Sprintf("%d", i+1), clip.Label, clip.Source, "-", "-", "-", "-", "-"})
					continue
				}
				meta := src.Metadata()
				_ = src.Close()
				readCap := pipeline.ReadCap(meta, cfg.Timeline.MaxSeconds)
				rows = append(rows, []string{
					fmt.Sprintf("%d", i+1),
					clip.Label,
					clip.Source,
					fmt.Sprintf("%dx%d", meta.Width, meta.Height),
					formatRate(meta.FrameRate),
					fmt.Sprintf("%d", meta.FrameCount),
					formatSeconds(meta.DurationSeconds()),
					fmt.Sprintf("%d", readCap),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Label", "Source", "Size", "FPS", "Frames", "Duration", "Read"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
			))
			if len(failures) > 0 {
				return fmt.Errorf("probe failed for %d clip(s):\n  %s", len(failures), strings.Join(failures, "\n  "))
			}
			return nil
		},
	}
}
