package config

const (
	defaultOutputPath      = "output_grid.mp4"
	defaultCodec           = "mpeg4"
	defaultFourCC          = "mp4v"
	defaultPixelFormat     = "yuv420p"
	defaultQuality         = 3
	defaultLabelScale      = 3.6
	defaultLabelThickness  = 9
	defaultLabelMargin     = 30
	defaultMaxSeconds      = 15
	defaultLoopFactor      = 5
	defaultProgressStride  = 100
	defaultFFmpegBinary    = "ffmpeg"
	defaultFFprobeBinary   = "ffprobe"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultConfigLocation  = "~/.config/videogrid/config.toml"
	projectConfigFilename  = "videogrid.toml"
	requiredClipCount      = 8
	defaultLockFileSuffix  = ".lock"
	defaultLabelFallback   = "CLIP"
	maxLabelScale          = 50
	maxLabelThickness      = 200
	maxLoopFactor          = 1000
	maxProgressStrideLimit = 1 << 20
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Output: Output{
			Path:        defaultOutputPath,
			Codec:       defaultCodec,
			FourCC:      defaultFourCC,
			PixelFormat: defaultPixelFormat,
			Quality:     defaultQuality,
			LockSuffix:  defaultLockFileSuffix,
		},
		Label: Label{
			Scale:        defaultLabelScale,
			Thickness:    defaultLabelThickness,
			MarginBottom: defaultLabelMargin,
		},
		Timeline: Timeline{
			MaxSeconds:     defaultMaxSeconds,
			LoopFactor:     defaultLoopFactor,
			ProgressStride: defaultProgressStride,
		},
		FFmpeg: FFmpeg{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
