package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
	raw     []byte
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index        int    `json:"index"`
	CodecName    string `json:"codec_name"`
	CodecType    string `json:"codec_type"`
	CodecTag     string `json:"codec_tag_string"`
	Duration     string `json:"duration"`
	BitRate      string `json:"bit_rate"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	PixFmt       string `json:"pix_fmt"`
	RFrameRate   string `json:"r_frame_rate"`
	AvgFrameRate string `json:"avg_frame_rate"`
	NBFrames     string `json:"nb_frames"`

	Tags         map[string]string `json:"tags,omitempty"`
	SideDataList []SideData        `json:"side_data_list,omitempty"`
}

// SideData is one entry of a stream's side_data_list.
type SideData struct {
	SideDataType string  `json:"side_data_type"`
	Rotation     float64 `json:"rotation"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
	FormatName string `json:"format_name"`
}

// Inspect executes ffprobe against the provided path and decodes the JSON response.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect: %w: %s", err, strings.TrimSpace(string(output)))
	}

	return Parse(output)
}

// Parse decodes a raw ffprobe JSON payload.
func Parse(payload []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	result.raw = append([]byte(nil), payload...)
	return result, nil
}

// RawJSON returns the raw ffprobe JSON payload.
func (r Result) RawJSON() []byte {
	return append([]byte(nil), r.raw...)
}

// VideoStreamCount returns the number of video streams discovered.
func (r Result) VideoStreamCount() int {
	count := 0
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "video") {
			count++
		}
	}
	return count
}

// VideoStream returns the first video stream.
func (r Result) VideoStream() (Stream, bool) {
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "video") {
			return stream, true
		}
	}
	return Stream{}, false
}

// DurationSeconds returns the container duration in seconds, or 0 when unavailable.
func (r Result) DurationSeconds() float64 {
	return parseFloat(r.Format.Duration)
}

// SizeBytes returns the reported container size in bytes, or 0 when unavailable.
func (r Result) SizeBytes() int64 {
	size := parseFloat(r.Format.Size)
	if math.IsNaN(size) || size < 0 {
		return 0
	}
	return int64(size)
}

// BitRate returns the container bitrate in bits per second, or 0 when unavailable.
func (r Result) BitRate() int64 {
	rate := parseFloat(r.Format.BitRate)
	if math.IsNaN(rate) || rate < 0 {
		return 0
	}
	return int64(rate)
}

// FrameRate returns the stream's average frame rate, falling back to the
// real base frame rate. Zero means unknown.
func (s Stream) FrameRate() float64 {
	if rate := ParseRate(s.AvgFrameRate); rate > 0 {
		return rate
	}
	return ParseRate(s.RFrameRate)
}

// FrameCount returns nb_frames when reported, otherwise an estimate from
// duration and frame rate. Zero means unknown.
func (s Stream) FrameCount(containerDuration float64) int {
	if n, err := strconv.Atoi(strings.TrimSpace(s.NBFrames)); err == nil && n > 0 {
		return n
	}
	duration := parseFloat(s.Duration)
	if math.IsNaN(duration) || duration <= 0 {
		duration = containerDuration
	}
	rate := s.FrameRate()
	if math.IsNaN(duration) || duration <= 0 || rate <= 0 {
		return 0
	}
	return int(math.Round(duration * rate))
}

// Rotation returns the display rotation in degrees, normalized to [0, 360).
// The display matrix side data wins over the legacy rotate tag.
func (s Stream) Rotation() int {
	for _, sd := range s.SideDataList {
		if strings.EqualFold(sd.SideDataType, "Display Matrix") {
			return normalizeRotation(sd.Rotation)
		}
	}
	if tag, ok := s.Tags["rotate"]; ok {
		if deg := parseFloat(tag); !math.IsNaN(deg) {
			return normalizeRotation(deg)
		}
	}
	return 0
}

// DisplaySize returns the width and height of decoded frames once ffmpeg has
// applied the rotation, so quarter turns swap the stored dimensions.
func (s Stream) DisplaySize() (int, int) {
	switch s.Rotation() {
	case 90, 270:
		return s.Height, s.Width
	default:
		return s.Width, s.Height
	}
}

func normalizeRotation(deg float64) int {
	r := int(math.Round(deg)) % 360
	if r < 0 {
		r += 360
	}
	return r
}

// ParseRate parses ffprobe rationals such as "30000/1001" or plain numbers.
// Malformed values and zero denominators yield 0.
func ParseRate(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	num, den, found := strings.Cut(value, "/")
	n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	if !found {
		return max(n, 0)
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
	if err != nil || d == 0 || math.IsNaN(d) {
		return 0
	}
	return max(n/d, 0)
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}
