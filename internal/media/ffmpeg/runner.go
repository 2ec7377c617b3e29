package ffmpeg

import (
	"context"
	"os/exec"
	"strconv"
	"strings"

	ffmpeggo "github.com/u2takey/ffmpeg-go"

	"videogrid/internal/media/ffprobe"
)

var (
	commandContext = exec.CommandContext
	probe          = ffprobe.Inspect
)

const (
	DefaultCodec   = "mpeg4"
	DefaultFourCC  = "mp4v"
	DefaultPixFmt  = "yuv420p"
	DefaultQuality = 3
)

// Option configures a Runner.
type Option func(*Runner)

// WithFFmpegBinary overrides the ffmpeg executable.
func WithFFmpegBinary(binary string) Option {
	return func(r *Runner) {
		if binary = strings.TrimSpace(binary); binary != "" {
			r.ffmpeg = binary
		}
	}
}

// WithFFprobeBinary overrides the ffprobe executable.
func WithFFprobeBinary(binary string) Option {
	return func(r *Runner) {
		if binary = strings.TrimSpace(binary); binary != "" {
			r.ffprobe = binary
		}
	}
}

// WithEncoder sets the output codec and its fourcc tag.
func WithEncoder(codec, fourcc string) Option {
	return func(r *Runner) {
		if codec = strings.TrimSpace(codec); codec != "" {
			r.codec = codec
		}
		if fourcc = strings.TrimSpace(fourcc); fourcc != "" {
			r.fourcc = fourcc
		}
	}
}

// WithPixelFormat sets the output pixel format.
func WithPixelFormat(pixFmt string) Option {
	return func(r *Runner) {
		if pixFmt = strings.TrimSpace(pixFmt); pixFmt != "" {
			r.pixFmt = pixFmt
		}
	}
}

// WithQuality sets the encoder's fixed quantizer (-q:v). Zero leaves the
// encoder default.
func WithQuality(q int) Option {
	return func(r *Runner) {
		if q >= 0 {
			r.quality = q
		}
	}
}

// Runner holds the executables and encoder settings.
type Runner struct {
	ffmpeg  string
	ffprobe string
	codec   string
	fourcc  string
	pixFmt  string
	quality int
}

// New constructs a Runner using defaults.
func New(opts ...Option) *Runner {
	r := &Runner{
		ffmpeg:  "ffmpeg",
		ffprobe: "ffprobe",
		codec:   DefaultCodec,
		fourcc:  DefaultFourCC,
		pixFmt:  DefaultPixFmt,
		quality: DefaultQuality,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FFmpegBinary returns the configured ffmpeg executable.
func (r *Runner) FFmpegBinary() string { return r.ffmpeg }

// FFprobeBinary returns the configured ffprobe executable.
func (r *Runner) FFprobeBinary() string { return r.ffprobe }

// DecodeArgs builds the ffmpeg arguments that emit at most maxFrames rgb24
// frames of path on stdout.
func (r *Runner) DecodeArgs(path string, maxFrames int) []string {
	return ffmpeggo.Input(path).
		Output("pipe:", ffmpeggo.KwArgs{
			"frames:v": strconv.Itoa(maxFrames),
			"f":        "rawvideo",
			"pix_fmt":  "rgb24",
		}).
		GlobalArgs("-nostdin", "-hide_banner", "-loglevel", "error").
		GetArgs()
}

// EncodeArgs builds the ffmpeg arguments that read rgb24 frames from stdin and
// write path.
func (r *Runner) EncodeArgs(path string, width, height int, fps float64) []string {
	output := ffmpeggo.KwArgs{
		"c:v":     r.codec,
		"pix_fmt": r.pixFmt,
	}
	if r.fourcc != "" {
		output["tag:v"] = r.fourcc
	}
	if r.quality > 0 {
		output["q:v"] = strconv.Itoa(r.quality)
	}
	return ffmpeggo.Input("pipe:", ffmpeggo.KwArgs{
		"f":         "rawvideo",
		"pix_fmt":   "rgb24",
		"s":         strconv.Itoa(width) + "x" + strconv.Itoa(height),
		"framerate": strconv.FormatFloat(fps, 'f', -1, 64),
	}).
		Output(path, output).
		GlobalArgs("-hide_banner", "-loglevel", "error").
		OverWriteOutput().
		GetArgs()
}

func (r *Runner) command(ctx context.Context, args []string) *exec.Cmd {
	return commandContext(ctx, r.ffmpeg, args...) //nolint:gosec
}
