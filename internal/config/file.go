package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config is the on-disk configuration of the demo.
type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Render     RenderConfig     `yaml:"render"`
	PostEffect PostEffectConfig `yaml:"post_effect"`
	Capture    CaptureConfig    `yaml:"capture"`
	Animation  AnimationConfig  `yaml:"animation"`
	Log        LogConfig        `yaml:"log"`
}

// WindowConfig describes the glfw window.
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	VSync  bool   `yaml:"vsync"`
}

// RenderConfig contains loop and clear settings.
type RenderConfig struct {
	FPSLimit   int       `yaml:"fps_limit"`
	ClearColor []float32 `yaml:"clear_color"`
}

// PostEffectConfig mirrors the post-effect parameter record.
type PostEffectConfig struct {
	ChromAmt        float32   `yaml:"chrom_amt"`
	BlurAmt         float32   `yaml:"blur_amt"`
	BlurRadius      float32   `yaml:"blur_radius"`
	Bokeh           bool      `yaml:"bokeh"`
	BokehFocalDepth float32   `yaml:"bokeh_focal_depth"`
	BokehFocalWidth float32   `yaml:"bokeh_focal_width"`
	ColorOffset     []float32 `yaml:"color_offset"`
	Noise           float32   `yaml:"noise"`
	Scanline        float32   `yaml:"scanline"`
	ScanlineCount   int32     `yaml:"scanline_count"`
}

// CaptureConfig controls GIF and screenshot output.
type CaptureConfig struct {
	GIFPath       string  `yaml:"gif_path"`
	ScreenshotDir string  `yaml:"screenshot_dir"`
	GIFScale      float64 `yaml:"gif_scale"`
	GIFDelay      int     `yaml:"gif_delay"` // hundredths of a second
	QueueSize     int     `yaml:"queue_size"`
}

// AnimationConfig tunes the frame update.
type AnimationConfig struct {
	// ZScaleLimit clamps the tan(t) z-scale term when > 0. Zero keeps the
	// raw, unbounded value.
	ZScaleLimit float32 `yaml:"z_scale_limit"`
}

// LogConfig selects the initial log level.
type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the configuration the demo ships with.
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  1024,
			Height: 768,
			Title:  "contours",
			VSync:  false,
		},
		Render: RenderConfig{
			FPSLimit:   60,
			ClearColor: []float32{1, 1, 1, 1},
		},
		PostEffect: PostEffectConfig{
			ChromAmt:        1,
			BlurAmt:         2,
			BlurRadius:      6,
			Bokeh:           true,
			BokehFocalDepth: 0.45,
			BokehFocalWidth: 0.4,
			ColorOffset:     []float32{1, 0.8, 1, 1},
			Noise:           0.3,
			Scanline:        0.04,
			ScanlineCount:   200,
		},
		Capture: CaptureConfig{
			GIFPath:       "test.gif",
			ScreenshotDir: ".",
			GIFScale:      0.5,
			GIFDelay:      3,
			QueueSize:     8,
		},
		Animation: AnimationConfig{
			ZScaleLimit: 0,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads a YAML file on top of the defaults. The defaults are
// always returned, together with an error when the file is missing or
// malformed.
func LoadConfig(filePath string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filePath)
	if err != nil {
		return cfg, fmt.Errorf("config file not found, using defaults: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), err
	}

	return cfg, nil
}

// SaveConfig writes cfg as YAML.
func SaveConfig(cfg *Config, filePath string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error serializing config: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// Validate rejects values the host cannot work with.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if len(c.Render.ClearColor) != 4 {
		return fmt.Errorf("render.clear_color needs 4 components, got %d", len(c.Render.ClearColor))
	}
	if len(c.PostEffect.ColorOffset) != 4 {
		return fmt.Errorf("post_effect.color_offset needs 4 components, got %d", len(c.PostEffect.ColorOffset))
	}
	if c.Capture.GIFPath == "" {
		return fmt.Errorf("capture.gif_path must not be empty")
	}
	if c.Capture.GIFScale <= 0 || c.Capture.GIFScale > 1 {
		return fmt.Errorf("capture.gif_scale must be in (0,1], got %v", c.Capture.GIFScale)
	}
	if c.Capture.QueueSize <= 0 {
		return fmt.Errorf("capture.queue_size must be positive, got %d", c.Capture.QueueSize)
	}
	if c.Animation.ZScaleLimit < 0 {
		return fmt.Errorf("animation.z_scale_limit must not be negative")
	}
	return nil
}
