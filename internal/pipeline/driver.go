package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"videogrid/internal/frame"
	"videogrid/internal/grid"
	"videogrid/internal/logging"
	"videogrid/internal/services"
	"videogrid/internal/timeline"
)

const frameRateTolerance = 0.01

// Driver runs compositions. It holds no per-run state and may be reused.
type Driver struct {
	opts    Options
	sources SourceOpener
	sinks   SinkOpener
	stamper Stamper
	logger  *slog.Logger
}

// New constructs a Driver. Zero option values take the package defaults.
func New(opts Options, sources SourceOpener, sinks SinkOpener, stamper Stamper, logger *slog.Logger) *Driver {
	if opts.MaxSeconds <= 0 {
		opts.MaxSeconds = timeline.DefaultMaxSeconds
	}
	if opts.LoopFactor <= 0 {
		opts.LoopFactor = timeline.DefaultLoopFactor
	}
	if opts.ProgressStride <= 0 {
		opts.ProgressStride = 100
	}
	return &Driver{
		opts:    opts,
		sources: sources,
		sinks:   sinks,
		stamper: stamper,
		logger:  logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Run composes clips into the output file. Exactly grid.Cells clips are
// required; clip i lands in row i/4, column i%4.
func (d *Driver) Run(ctx context.Context, clips []ClipSpec) (Report, error) {
	start := time.Now()
	report := Report{Output: d.opts.OutputPath}
	if id, ok := services.RunIDFromContext(ctx); ok {
		report.RunID = id
	}
	logger := logging.WithContext(ctx, d.logger)

	if len(clips) != grid.Cells {
		return report, services.Wrap(services.ErrConfiguration, "pipeline", "validate clips",
			fmt.Sprintf("expected %d clips, got %d", grid.Cells, len(clips)), nil)
	}
	if d.sources == nil || d.sinks == nil {
		return report, services.Wrap(services.ErrConfiguration, "pipeline", "validate", "source and sink openers are required", nil)
	}

	logger.Info("composition started",
		logging.Int("clips", len(clips)),
		logging.String("output", d.opts.OutputPath),
		logging.Float64("max_seconds", d.opts.MaxSeconds),
		logging.Int("loop_factor", d.opts.LoopFactor),
	)

	decoded := make([]frame.Sequence, len(clips))
	counts := make([]int, len(clips))
	for i, clip := range clips {
		seq, clipReport, err := d.decodeClip(ctx, i, clip)
		if err != nil {
			return report, err
		}
		decoded[i] = seq
		counts[i] = len(seq)
		report.Clips = append(report.Clips, clipReport)
	}

	target := timeline.Target(counts, d.opts.LoopFactor)
	report.Target = target
	padded := make([]frame.Sequence, len(decoded))
	firsts := make([]*frame.RawFrame, len(decoded))
	for i, seq := range decoded {
		out, err := timeline.LoopAndPad(seq, d.opts.LoopFactor, target)
		if err != nil {
			return report, fmt.Errorf("clip %d: %w", i, err)
		}
		padded[i] = out
		firsts[i] = seq[0]
		report.Clips[i].Looped = timeline.LoopedLength(len(seq), d.opts.LoopFactor)
		report.Clips[i].Held = target - report.Clips[i].Looped
	}

	layout, err := grid.NewLayout(grid.Sizes(firsts))
	if err != nil {
		return report, err
	}
	report.Layout = layout

	fps, err := d.frameRate(logger, report.Clips)
	if err != nil {
		return report, err
	}
	report.FrameRate = fps

	logger.Info("grid layout resolved",
		logging.Int("width", layout.Width),
		logging.Int("height", layout.Height),
		logging.Int("row1_height", layout.RowHeights[0]),
		logging.Int("row2_height", layout.RowHeights[1]),
		logging.Float64("fps", fps),
		logging.Int("target_frames", target),
	)

	written, err := d.compose(ctx, logger, layout, padded, fps)
	report.FramesWritten = written
	if err != nil {
		return report, err
	}

	report.Duration = time.Since(start)
	logger.Info("composition completed",
		logging.String("output", d.opts.OutputPath),
		logging.Int("frames", written),
		logging.Float64("duration_seconds", roundTo(float64(target)/fps, 2)),
		logging.Float64("duration_minutes", roundTo(float64(target)/fps/60, 2)),
		logging.Duration("elapsed", report.Duration),
	)
	return report, nil
}

func (d *Driver) decodeClip(ctx context.Context, index int, clip ClipSpec) (frame.Sequence, ClipReport, error) {
	ctx = services.WithStage(services.WithClip(ctx, index), "decode")
	logger := logging.WithContext(ctx, d.logger)
	report := ClipReport{Index: index, Source: clip.Source, Label: clip.Label}

	if err := ctx.Err(); err != nil {
		return nil, report, err
	}

	src, err := d.sources.Open(ctx, clip.Source)
	if err != nil {
		return nil, report, classify(err, services.ErrSourceUnavailable, "open", clip.Source)
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil {
			logger.Warn("source close failed", logging.Error(closeErr))
		}
	}()

	meta := src.Metadata()
	report.Metadata = meta
	report.ReadCap = ReadCap(meta, d.opts.MaxSeconds)

	seq, err := src.ReadFrames(ctx, report.ReadCap)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, report, ctxErr
		}
		return nil, report, classify(err, services.ErrSourceUnavailable, "read frames", clip.Source)
	}
	report.Decoded = len(seq)
	if len(seq) == 0 {
		return nil, report, services.Wrap(services.ErrEmptySequence, "decode", "read frames",
			fmt.Sprintf("clip %d (%s) produced no frames", index, clip.Source), nil)
	}

	if d.stamper != nil {
		for _, f := range seq {
			d.stamper.Stamp(f, clip.Label)
		}
	}

	logger.Info("clip decoded",
		logging.String("label", clip.Label),
		logging.Int("frames", len(seq)),
		logging.Int("read_cap", report.ReadCap),
		logging.Int("width", seq[0].Width),
		logging.Int("height", seq[0].Height),
		logging.Float64("fps", meta.FrameRate),
	)
	return seq, report, nil
}

// frameRate picks the first clip's rate. Differing rates are only reported.
func (d *Driver) frameRate(logger *slog.Logger, clips []ClipReport) (float64, error) {
	fps := clips[0].Metadata.FrameRate
	if fps <= 0 || math.IsNaN(fps) || math.IsInf(fps, 0) {
		return 0, services.Wrap(services.ErrConfiguration, "pipeline", "frame rate",
			fmt.Sprintf("first clip %s reports no usable frame rate", clips[0].Source), nil)
	}
	for _, clip := range clips[1:] {
		if math.Abs(clip.Metadata.FrameRate-fps) > frameRateTolerance {
			logging.WarnWithContext(logger, "clip frame rate differs from output rate", "frame_rate_mismatch",
				logging.Alert("frame_rate_mismatch"),
				logging.Int(logging.FieldClip, clip.Index),
				logging.Float64("clip_fps", clip.Metadata.FrameRate),
				logging.Float64("output_fps", fps),
				logging.String(logging.FieldImpact, "clip plays at the output rate"),
			)
		}
	}
	return fps, nil
}

func (d *Driver) compose(ctx context.Context, logger *slog.Logger, layout grid.Layout, padded []frame.Sequence, fps float64) (int, error) {
	ctx = services.WithStage(ctx, "encode")
	logger = logger.With(logging.String(logging.FieldStage, "encode"))

	sink, err := d.sinks.Create(ctx, d.opts.OutputPath, layout.Width, layout.Height, fps)
	if err != nil {
		return 0, classify(err, services.ErrSinkUnavailable, "create", d.opts.OutputPath)
	}

	target := 0
	if len(padded) > 0 {
		target = len(padded[0])
	}
	sampler := logging.NewProgressSampler(d.opts.ProgressStride, target)
	cells := make([]*frame.RawFrame, len(padded))
	written := 0

	for t := 0; t < target; t++ {
		if err := ctx.Err(); err != nil {
			sink.Abort()
			return written, err
		}
		if sampler.ShouldLog(t) {
			logger.Info("composition progress",
				logging.Float64("percent", roundTo(sampler.Percent(t), 1)),
				logging.Int("frame", t),
				logging.Int("total", target),
			)
		}
		for i, seq := range padded {
			cells[i] = seq[t]
		}
		out, err := grid.Compose(layout, cells)
		if err != nil {
			sink.Abort()
			return written, fmt.Errorf("frame %d: %w", t, err)
		}
		if err := sink.WriteFrame(out); err != nil {
			sink.Abort()
			return written, classify(err, services.ErrSinkUnavailable, "write frame", d.opts.OutputPath)
		}
		written++
	}

	if err := sink.Close(); err != nil {
		sink.Abort()
		return written, classify(err, services.ErrSinkUnavailable, "close", d.opts.OutputPath)
	}
	return written, nil
}

// ReadCap bounds the decode window of a clip. A clip with an unknown frame
// count is read for the full window at its advertised rate.
func ReadCap(meta frame.Metadata, seconds float64) int {
	if meta.FrameCount <= 0 && meta.FrameRate > 0 {
		return int(meta.FrameRate * seconds)
	}
	return timeline.ReadCap(meta.FrameRate, meta.FrameCount, seconds)
}

// classify leaves already classified errors alone and tags the rest with marker.
func classify(err, marker error, operation, subject string) error {
	if err == nil {
		return nil
	}
	if services.Kind(err) != "unknown" || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	stage := "decode"
	if marker == services.ErrSinkUnavailable {
		stage = "encode"
	}
	return services.Wrap(marker, stage, operation, subject, err)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
