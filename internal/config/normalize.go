package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var upper = cases.Upper(language.Und)

func (c *Config) normalize() error {
	if err := c.normalizeOutput(); err != nil {
		return err
	}
	if err := c.normalizeClips(); err != nil {
		return err
	}
	c.normalizeFFmpeg()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeOutput() error {
	c.Output.Path = strings.TrimSpace(c.Output.Path)
	if c.Output.Path == "" {
		c.Output.Path = defaultOutputPath
	}
	var err error
	if c.Output.Path, err = expandPathFrom(c.baseDir, c.Output.Path); err != nil {
		return fmt.Errorf("output.path: %w", err)
	}
	c.Output.Codec = strings.TrimSpace(c.Output.Codec)
	if c.Output.Codec == "" {
		c.Output.Codec = defaultCodec
	}
	c.Output.FourCC = strings.TrimSpace(c.Output.FourCC)
	if c.Output.FourCC == "" {
		c.Output.FourCC = defaultFourCC
	}
	c.Output.PixelFormat = strings.ToLower(strings.TrimSpace(c.Output.PixelFormat))
	if c.Output.PixelFormat == "" {
		c.Output.PixelFormat = defaultPixelFormat
	}
	if c.Output.LockSuffix == "" {
		c.Output.LockSuffix = defaultLockFileSuffix
	}
	return nil
}

func (c *Config) normalizeClips() error {
	for i := range c.Clips {
		clip := &c.Clips[i]
		clip.Source = strings.TrimSpace(clip.Source)
		if clip.Source != "" {
			expanded, err := expandPathFrom(c.baseDir, clip.Source)
			if err != nil {
				return fmt.Errorf("clips[%d].source: %w", i, err)
			}
			clip.Source = expanded
		}
		clip.Label = strings.TrimSpace(clip.Label)
		if clip.Label == "" {
			clip.Label = DeriveLabel(clip.Source)
		}
	}
	return nil
}

func (c *Config) normalizeFFmpeg() {
	c.FFmpeg.FFmpegBinary = strings.TrimSpace(c.FFmpeg.FFmpegBinary)
	if value, ok := os.LookupEnv("VIDEOGRID_FFMPEG"); ok && strings.TrimSpace(value) != "" {
		c.FFmpeg.FFmpegBinary = strings.TrimSpace(value)
	}
	if c.FFmpeg.FFmpegBinary == "" {
		c.FFmpeg.FFmpegBinary = defaultFFmpegBinary
	}
	c.FFmpeg.FFprobeBinary = strings.TrimSpace(c.FFmpeg.FFprobeBinary)
	if value, ok := os.LookupEnv("VIDEOGRID_FFPROBE"); ok && strings.TrimSpace(value) != "" {
		c.FFmpeg.FFprobeBinary = strings.TrimSpace(value)
	}
	if c.FFmpeg.FFprobeBinary == "" {
		c.FFmpeg.FFprobeBinary = defaultFFprobeBinary
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.File = strings.TrimSpace(c.Logging.File)
}

// DeriveLabel builds a display label from a clip path: the upper-cased file
// stem, e.g. "clips/asl_vid3.mp4" -> "ASL_VID3".
func DeriveLabel(source string) string {
	base := filepath.Base(strings.TrimSpace(source))
	stem := strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		return defaultLabelFallback
	}
	return upper.String(stem)
}
