// Package ffmpeg decodes clips into raw rgb24 frames and encodes raw frames
// back into a muxed file by driving the ffmpeg executable.
//
// Command lines are assembled with github.com/u2takey/ffmpeg-go and executed
// through a package-level command constructor so tests can substitute a
// helper process. Clip metadata comes from the ffprobe wrapper.
//
// Key types:
//   - Runner: binaries and encoder settings shared by sources and sinks
//   - Source: one opened clip; a single bounded, non-restartable read
//   - Sink: one output file accepting frames in order
package ffmpeg
