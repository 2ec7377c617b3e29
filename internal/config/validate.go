package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateLabel(); err != nil {
		return err
	}
	if err := c.validateTimeline(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if len(c.Clips) > 0 {
		if err := c.ValidateClips(); err != nil {
			return err
		}
	}
	return nil
}

// ValidateClips ensures exactly eight clips with sources are configured.
// Load only calls it when the file declares clips, since the command line
// may supply them instead.
func (c *Config) ValidateClips() error {
	if len(c.Clips) != requiredClipCount {
		return fmt.Errorf("clips: expected %d entries, got %d", requiredClipCount, len(c.Clips))
	}
	for i, clip := range c.Clips {
		if clip.Source == "" {
			return fmt.Errorf("clips[%d].source must be set", i)
		}
	}
	return nil
}

func (c *Config) validateOutput() error {
	if c.Output.Path == "" {
		return errors.New("output.path must be set")
	}
	if len(c.Output.FourCC) != 4 {
		return fmt.Errorf("output.fourcc must be exactly 4 characters, got %q", c.Output.FourCC)
	}
	if c.Output.Quality < 0 || c.Output.Quality > 31 {
		return errors.New("output.quality must be between 0 and 31")
	}
	if strings.ContainsAny(c.Output.LockSuffix, `/\`) {
		return errors.New("output.lock_suffix must not contain path separators")
	}
	return nil
}

func (c *Config) validateLabel() error {
	if c.Label.Scale <= 0 || c.Label.Scale > maxLabelScale {
		return fmt.Errorf("label.scale must be in (0, %d]", maxLabelScale)
	}
	if c.Label.Thickness <= 0 || c.Label.Thickness > maxLabelThickness {
		return fmt.Errorf("label.thickness must be in [1, %d]", maxLabelThickness)
	}
	if c.Label.MarginBottom <= 0 {
		return errors.New("label.margin_bottom must be positive")
	}
	return nil
}

func (c *Config) validateTimeline() error {
	if c.Timeline.MaxSeconds <= 0 {
		return errors.New("timeline.max_seconds must be positive")
	}
	if c.Timeline.LoopFactor <= 0 || c.Timeline.LoopFactor > maxLoopFactor {
		return fmt.Errorf("timeline.loop_factor must be in [1, %d]", maxLoopFactor)
	}
	if c.Timeline.ProgressStride <= 0 || c.Timeline.ProgressStride > maxProgressStrideLimit {
		return fmt.Errorf("timeline.progress_stride must be in [1, %d]", maxProgressStrideLimit)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
}
