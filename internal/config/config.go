package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Clip pairs one input video with the label burned into its frames.
type Clip struct {
	Source string `toml:"source"`
	Label  string `toml:"label"`
}

// Output contains the composite file location and encoder settings.
type Output struct {
	Path        string `toml:"path"`
	Codec       string `toml:"codec"`
	FourCC      string `toml:"fourcc"`
	PixelFormat string `toml:"pixel_format"`
	Quality     int    `toml:"quality"`
	LockSuffix  string `toml:"lock_suffix"`
}

// Label contains the text overlay geometry.
type Label struct {
	// Scale multiplies the base cap height of 22px. Default: 3.6
	Scale float64 `toml:"scale"`
	// Thickness is the fill stroke width in pixels; the outline is two wider. Default: 9
	Thickness int `toml:"thickness"`
	// MarginBottom is the distance from the baseline to the bottom edge. Default: 30
	MarginBottom int `toml:"margin_bottom"`
}

// Timeline contains the duration equalization policy.
type Timeline struct {
	MaxSeconds     float64 `toml:"max_seconds"`
	LoopFactor     int     `toml:"loop_factor"`
	ProgressStride int     `toml:"progress_stride"`
}

// FFmpeg contains the external codec binaries.
type FFmpeg struct {
	FFmpegBinary  string `toml:"ffmpeg_binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Config encapsulates all configuration values for videogrid.
//
// Configuration sections by subsystem:
//   - Clips: ordered input list; positions 0-3 form the top row, 4-7 the bottom
//   - Output: composite path, codec, fourcc, pixel format and quality
//   - Label: overlay scale, stroke thickness and bottom margin
//   - Timeline: decode window, loop factor and progress stride
//   - FFmpeg: ffmpeg/ffprobe executables
//   - Logging: log format, level and optional file
type Config struct {
	Clips    []Clip   `toml:"clips"`
	Output   Output   `toml:"output"`
	Label    Label    `toml:"label"`
	Timeline Timeline `toml:"timeline"`
	FFmpeg   FFmpeg   `toml:"ffmpeg"`
	Logging  Logging  `toml:"logging"`

	baseDir string
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigLocation)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
		cfg.baseDir = filepath.Dir(resolvedPath)
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigLocation)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigFilename)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// SetClips replaces the configured clip list, normalizing it the same way
// Load does. Relative sources resolve against the working directory.
func (c *Config) SetClips(clips []Clip) error {
	c.Clips = append([]Clip(nil), clips...)
	saved := c.baseDir
	c.baseDir = ""
	defer func() { c.baseDir = saved }()
	return c.normalizeClips()
}

// LockPath returns the advisory lock file guarding the output.
func (c *Config) LockPath() string {
	return c.Output.Path + c.Output.LockSuffix
}

// OutputDir returns the directory that receives the composite file.
func (c *Config) OutputDir() string {
	return filepath.Dir(c.Output.Path)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// expandPathFrom expands pathValue, resolving relative paths against base
// when base is set.
func expandPathFrom(base, pathValue string) (string, error) {
	if base != "" && pathValue != "" && !strings.HasPrefix(pathValue, "~") && !filepath.IsAbs(pathValue) {
		pathValue = filepath.Join(base, pathValue)
	}
	return expandPath(pathValue)
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
