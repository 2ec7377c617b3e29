package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"videogrid/internal/config"
	"videogrid/internal/logging"
	"videogrid/internal/media/ffmpeg"
)

type commandContext struct {
	configFlag    *string
	logLevelFlag  *string
	logFormatFlag *string

	configOnce  sync.Once
	config      *config.Config
	configPath  string
	configFound bool
	configErr   error
}

func newCommandContext(configFlag, logLevelFlag, logFormatFlag *string) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		logLevelFlag:  logLevelFlag,
		logFormatFlag: logFormatFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(flagValue(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		if level := flagValue(c.logLevelFlag); level != "" {
			cfg.Logging.Level = strings.ToLower(level)
		}
		if format := flagValue(c.logFormatFlag); format != "" {
			cfg.Logging.Format = strings.ToLower(format)
		}
		c.config = cfg
		c.configPath = path
		c.configFound = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.NewFromConfig(cfg)
}

func (c *commandContext) runner() (*ffmpeg.Runner, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return ffmpeg.New(
		ffmpeg.WithFFmpegBinary(cfg.FFmpeg.FFmpegBinary),
		ffmpeg.WithFFprobeBinary(cfg.FFmpeg.FFprobeBinary),
		ffmpeg.WithEncoder(cfg.Output.Codec, cfg.Output.FourCC),
		ffmpeg.WithPixelFormat(cfg.Output.PixelFormat),
		ffmpeg.WithQuality(cfg.Output.Quality),
	), nil
}

func flagValue(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
