package pipeline

import (
	"context"

	"videogrid/internal/media/ffmpeg"
)

// FFmpegIO opens sources and sinks through an ffmpeg runner.
type FFmpegIO struct {
	Runner *ffmpeg.Runner
}

// Open implements SourceOpener.
func (f FFmpegIO) Open(ctx context.Context, path string) (Source, error) {
	src, err := f.Runner.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	return src, nil
}

// Create implements SinkOpener.
func (f FFmpegIO) Create(ctx context.Context, path string, width, height int, fps float64) (Sink, error) {
	sink, err := f.Runner.Create(ctx, path, width, height, fps)
	if err != nil {
		return nil, err
	}
	return sink, nil
}
