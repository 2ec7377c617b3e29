// Package pipeline drives one composition run end to end.
//
// Driver.Run decodes the eight clips in order, stamps each clip's label on its
// frames, equalizes their lengths (loop, then hold the last frame), and streams
// the composed 2x4 grid frames into the output sink at the first clip's frame
// rate. Sources, the sink, and the label stamper are interfaces so tests can
// drive the whole run with in-memory fakes; FFmpegIO adapts the ffmpeg runner
// for production use.
package pipeline
