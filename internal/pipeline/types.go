package pipeline

import (
	"context"
	"time"

	"videogrid/internal/frame"
	"videogrid/internal/grid"
)

// ClipSpec names one input clip and the label burned into its frames.
type ClipSpec struct {
	Source string
	Label  string
}

// Source yields the metadata and decoded frames of one clip.
type Source interface {
	Metadata() frame.Metadata
	ReadFrames(ctx context.Context, maxFrames int) (frame.Sequence, error)
	Close() error
}

// Sink accepts composed frames in order.
type Sink interface {
	WriteFrame(f *frame.RawFrame) error
	Close() error
	// Abort releases the sink after a failure and removes partial output.
	Abort()
}

// SourceOpener opens clip sources.
type SourceOpener interface {
	Open(ctx context.Context, path string) (Source, error)
}

// SinkOpener creates the output sink.
type SinkOpener interface {
	Create(ctx context.Context, path string, width, height int, fps float64) (Sink, error)
}

// Stamper draws a label onto a frame in place.
type Stamper interface {
	Stamp(f *frame.RawFrame, label string)
}

// Options configures the duration policy and output of a run.
type Options struct {
	OutputPath     string
	MaxSeconds     float64
	LoopFactor     int
	ProgressStride int
}

// ClipReport summarizes what happened to one clip.
type ClipReport struct {
	Index    int
	Source   string
	Label    string
	Metadata frame.Metadata
	ReadCap  int
	Decoded  int
	Looped   int
	Held     int
}

// Report summarizes a finished (or failed) run.
type Report struct {
	RunID         string
	Clips         []ClipReport
	Target        int
	Layout        grid.Layout
	FrameRate     float64
	Output        string
	FramesWritten int
	Duration      time.Duration
}
