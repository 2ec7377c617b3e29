package ffmpeg

import (
	"errors"
	"fmt"
	"io"

	"videogrid/internal/frame"
	"videogrid/internal/media/ffprobe"
)

// ReadRawFrames splits an rgb24 byte stream into width×height frames. It
// stops at maxFrames or at end of stream; a truncated trailing frame is
// discarded.
func ReadRawFrames(r io.Reader, width, height, maxFrames int) (frame.Sequence, error) {
	size := frame.Size(width, height)
	if size <= 0 {
		return nil, fmt.Errorf("invalid frame geometry %dx%d", width, height)
	}
	frames := make(frame.Sequence, 0, min(maxFrames, 1024))
	for len(frames) < maxFrames {
		buf := make([]byte, size)
		if _, err := io.ReadFull(r, buf); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return frames, err
		}
		f, err := frame.FromBytes(width, height, buf)
		if err != nil {
			return frames, err
		}
		frames = append(frames, f)
	}
	return frames, nil
}

// MetadataFromProbe extracts clip metadata from the first video stream. Width
// and height describe frames as the decoder emits them, after autorotation.
func MetadataFromProbe(result ffprobe.Result) (frame.Metadata, error) {
	video, ok := result.VideoStream()
	if !ok {
		return frame.Metadata{}, errors.New("no video stream")
	}
	if video.Width <= 0 || video.Height <= 0 {
		return frame.Metadata{}, fmt.Errorf("video stream reports invalid size %dx%d", video.Width, video.Height)
	}
	width, height := video.DisplaySize()
	return frame.Metadata{
		FrameRate:  video.FrameRate(),
		FrameCount: video.FrameCount(result.DurationSeconds()),
		Width:      width,
		Height:     height,
	}, nil
}
