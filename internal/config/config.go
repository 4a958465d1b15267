package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	InputPath     string  `yaml:"input" env:"SPOTLIGHT_INPUT"`
	CoverPath     string  `yaml:"cover" env:"SPOTLIGHT_COVER"`
	OutputVideo   string  `yaml:"output" env:"SPOTLIGHT_OUTPUT"`
	IntroText     string  `yaml:"intro_text" env:"SPOTLIGHT_INTRO"`
	OutroText     string  `yaml:"outro_text" env:"SPOTLIGHT_OUTRO"`
	ScriptPath    string  `yaml:"script" env:"SPOTLIGHT_SCRIPT"`
	TotalDuration float64 `yaml:"duration" env:"SPOTLIGHT_DURATION"`
	Width         int     `yaml:"width" env:"SPOTLIGHT_WIDTH"`
	Height        int     `yaml:"height" env:"SPOTLIGHT_HEIGHT"`
	FPS           int     `yaml:"fps" env:"SPOTLIGHT_FPS"`
	Workers       int     `yaml:"workers" env:"SPOTLIGHT_WORKERS"`
	SegmentFrames int     `yaml:"segment_frames" env:"SPOTLIGHT_SEGMENT_FRAMES"`
	Smoothing     float64 `yaml:"smoothing" env:"SPOTLIGHT_SMOOTHING"`
	Perspective   float64 `yaml:"perspective" env:"SPOTLIGHT_PERSPECTIVE"`
	ImageSize     float64 `yaml:"image_size" env:"SPOTLIGHT_IMAGE_SIZE"`
	FontSize      float64 `yaml:"font_size" env:"SPOTLIGHT_FONT_SIZE"`
	Background    string  `yaml:"background" env:"SPOTLIGHT_BACKGROUND"`
	TextColor     string  `yaml:"text_color" env:"SPOTLIGHT_TEXT_COLOR"`
	DPI           int     `yaml:"dpi" env:"SPOTLIGHT_DPI"`
	FadeDuration  float64 `yaml:"fade" env:"SPOTLIGHT_FADE"`
	AudioPath     string  `yaml:"audio" env:"SPOTLIGHT_AUDIO"`
	Preset        string  `yaml:"preset" env:"SPOTLIGHT_PRESET"`
	VideoEncoder  string  `yaml:"encoder" env:"SPOTLIGHT_ENCODER"`
	Quality       int     `yaml:"quality" env:"SPOTLIGHT_QUALITY"`
	Debug         bool    `yaml:"debug" env:"SPOTLIGHT_DEBUG"`
	ShowStats     bool    `yaml:"stats" env:"SPOTLIGHT_STATS"`
	DumpPath      string  `yaml:"dump" env:"SPOTLIGHT_DUMP"`
	DumpSteps     int     `yaml:"dump_steps" env:"SPOTLIGHT_DUMP_STEPS"`
	Truncate      bool    `yaml:"truncate" env:"SPOTLIGHT_TRUNCATE"`
	Trim          string  `yaml:"trim" env:"SPOTLIGHT_TRIM"`
	TrimPadding   int     `yaml:"trim_padding" env:"SPOTLIGHT_TRIM_PADDING"`
	BuildVersion  string  `yaml:"-"`
}

type SegmentParams struct {
	Width, Height int
	FPS           int
	FirstFrame    int
	FrameCount    int
	TotalFrames   int
	FadeDuration  float64
	SegmentIndex  int
	SegmentCount  int
	Filter        string
}

// Duration returns the segment length in seconds
func (p SegmentParams) Duration() float64 {
	return float64(p.FrameCount) / float64(p.FPS)
}

// Default returns the configuration used when nothing else is specified
func Default() *Config {
	return &Config{
		IntroText:     "Every frame tells a story worth keeping",
		OutroText:     "Scroll back and watch it all again",
		TotalDuration: 12,
		Width:         1280,
		Height:        720,
		FPS:           30,
		Workers:       runtime.NumCPU(),
		SegmentFrames: 60,
		Smoothing:     0.1,
		Perspective:   2000,
		ImageSize:     300,
		FontSize:      48,
		Background:    "#0f0f0f",
		TextColor:     "#ffffff",
		DPI:           150,
		FadeDuration:  0.5,
		VideoEncoder:  "libx264",
		DumpSteps:     100,
		TrimPadding:   16,
	}
}

// Load reads a YAML config file on top of the defaults
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from SPOTLIGHT_* environment variables
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ApplyPreset switches the frame size to a named aspect preset
func (c *Config) ApplyPreset() error {
	switch c.Preset {
	case "":
	case "16:9":
		c.Width, c.Height = 1280, 720
	case "9:16":
		c.Width, c.Height = 720, 1280
	case "4:5":
		c.Width, c.Height = 1080, 1350
	default:
		return fmt.Errorf("unknown preset %q", c.Preset)
	}
	return nil
}

// Validate checks that the configuration can produce a video
func (c *Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("invalid frame size %dx%d", c.Width, c.Height)
	case c.Width%2 != 0 || c.Height%2 != 0:
		return fmt.Errorf("frame size %dx%d must be even for yuv420p", c.Width, c.Height)
	case c.FPS <= 0:
		return fmt.Errorf("invalid fps %d", c.FPS)
	case c.TotalDuration <= 0 && c.ScriptPath == "":
		return fmt.Errorf("invalid duration %.2f", c.TotalDuration)
	case c.Workers <= 0:
		return fmt.Errorf("invalid workers %d", c.Workers)
	case c.SegmentFrames <= 0:
		return fmt.Errorf("invalid segment size %d", c.SegmentFrames)
	case c.Perspective <= 0:
		return fmt.Errorf("invalid perspective %.1f", c.Perspective)
	case c.Smoothing < 0 || c.Smoothing > 1:
		return fmt.Errorf("smoothing %.2f out of [0,1]", c.Smoothing)
	}

	switch c.Trim {
	case "", "none", "edges":
	default:
		return fmt.Errorf("unknown trim mode %q", c.Trim)
	}

	switch c.VideoEncoder {
	case "libx264", "h264_videotoolbox", "h264_nvenc":
	default:
		return fmt.Errorf("unsupported encoder %q", c.VideoEncoder)
	}
	return nil
}
