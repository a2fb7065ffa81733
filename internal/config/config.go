// Package config handles application configuration loading and management.
package config

import (
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/Faultbox/wordsring/internal/engine/text"
	"github.com/Faultbox/wordsring/internal/logger"
	"github.com/Faultbox/wordsring/internal/ring"
)

// Config holds all application settings.
type Config struct {
	Ring     RingConfig     `yaml:"ring"`
	Text     TextConfig     `yaml:"text"`
	Regen    RegenConfig    `yaml:"regen"`
	Assets   AssetsConfig   `yaml:"assets"`
	Graphics GraphicsConfig `yaml:"graphics"`
	Share    ShareConfig    `yaml:"share"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// RingConfig holds the initial engraving and the placement offsets.
type RingConfig struct {
	Size  int    `yaml:"size"`
	Line1 string `yaml:"line1"`
	Line2 string `yaml:"line2"`
	// Link is a share link whose configuration replaces the fields above.
	Link string `yaml:"link"`

	EngraveOffset float32 `yaml:"engrave_offset"` // text radius beyond the inner radius
	BandOffset    float32 `yaml:"band_offset"`    // dark band radius beyond the inner radius
	Line1Offset   float32 `yaml:"line1_offset"`
	Line2Offset   float32 `yaml:"line2_offset"`
}

// TextConfig holds text extrusion settings.
type TextConfig struct {
	FontPath      string  `yaml:"font_path"` // empty = embedded Go Bold
	Size          float32 `yaml:"size"`
	Depth         float32 `yaml:"depth"`
	CurveSegments int     `yaml:"curve_segments"`
}

// RegenConfig holds rebuild scheduling settings.
type RegenConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// AssetsConfig holds asset locations.
type AssetsConfig struct {
	ShellDir       string `yaml:"shell_dir"`   // legacy JSON shells; empty = procedural
	Environment    string `yaml:"environment"` // environment texture; empty = generated
	MaxTextureSize int    `yaml:"max_texture_size"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
	Fullscreen      bool    `yaml:"fullscreen"`
	VSync           bool    `yaml:"vsync"`
	FPSLimit        int     `yaml:"fps_limit"`
	SpinSpeed       float32 `yaml:"spin_speed"`       // radians per frame
	DragSensitivity float32 `yaml:"drag_sensitivity"` // radians per pixel
	ScreenshotDir   string  `yaml:"screenshot_dir"`
}

// ShareConfig holds share link settings.
type ShareConfig struct {
	BaseURL string `yaml:"base_url"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"` // empty = console only
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Quiet      bool   `yaml:"quiet"` // no console output
}

// Default returns a Config with sensible default values.
func Default() *Config {
	layout := ring.DefaultLayout()
	opts := text.DefaultOptions()
	return &Config{
		Ring: RingConfig{
			Size:          int(ring.DefaultSize),
			EngraveOffset: layout.EngraveOffset,
			BandOffset:    layout.BandOffset,
			Line1Offset:   layout.Line1Offset,
			Line2Offset:   layout.Line2Offset,
		},
		Text: TextConfig{
			Size:          opts.Size,
			Depth:         opts.Depth,
			CurveSegments: opts.CurveSegments,
		},
		Regen: RegenConfig{
			Debounce: 250 * time.Millisecond,
		},
		Assets: AssetsConfig{
			MaxTextureSize: 2048,
		},
		Graphics: GraphicsConfig{
			Width:           1280,
			Height:          720,
			Fullscreen:      false,
			VSync:           true,
			FPSLimit:        0,
			SpinSpeed:       -0.01,
			DragSensitivity: 0.01,
			ScreenshotDir:   "screenshots",
		},
		Share: ShareConfig{
			BaseURL: "https://wordsring.app/",
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  20,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}

// Layout returns the ring placement offsets.
func (c *Config) Layout() ring.Layout {
	return ring.Layout{
		EngraveOffset: c.Ring.EngraveOffset,
		BandOffset:    c.Ring.BandOffset,
		Line1Offset:   c.Ring.Line1Offset,
		Line2Offset:   c.Ring.Line2Offset,
	}
}

// TextOptions returns the text extrusion options.
func (c *Config) TextOptions() text.Options {
	return text.Options{
		Size:          c.Text.Size,
		Depth:         c.Text.Depth,
		CurveSegments: c.Text.CurveSegments,
	}
}

// LoggerOptions returns the logger settings.
func (c *Config) LoggerOptions() logger.Options {
	file := logger.FileConfig{}
	if c.Logging.LogFile != "" {
		file = logger.DefaultFileConfig(c.Logging.LogFile)
		file.MaxSizeMB = c.Logging.MaxSizeMB
		file.MaxBackups = c.Logging.MaxBackups
		file.MaxAgeDays = c.Logging.MaxAgeDays
	}
	return logger.Options{
		Level:   c.Logging.Level,
		Console: !c.Logging.Quiet,
		File:    file,
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var err error
	if !ring.SizeIndex(c.Ring.Size).Valid() {
		err = multierr.Append(err, fmt.Errorf("ring.size %d: %w", c.Ring.Size, ring.ErrUnknownSize))
	}
	if c.Ring.BandOffset <= 0 || c.Ring.EngraveOffset <= c.Ring.BandOffset {
		err = multierr.Append(err, fmt.Errorf("ring offsets: engrave_offset (%v) must exceed band_offset (%v) > 0",
			c.Ring.EngraveOffset, c.Ring.BandOffset))
	}
	if c.Text.Size <= 0 || c.Text.Depth <= 0 {
		err = multierr.Append(err, fmt.Errorf("text size and depth must be positive"))
	}
	if c.Text.CurveSegments < 1 {
		err = multierr.Append(err, fmt.Errorf("text.curve_segments must be at least 1"))
	}
	if c.Regen.Debounce < 0 {
		err = multierr.Append(err, fmt.Errorf("regen.debounce must not be negative"))
	}
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("graphics size %dx%d is invalid", c.Graphics.Width, c.Graphics.Height))
	}
	if _, lerr := logger.ParseLevel(c.Logging.Level); lerr != nil {
		err = multierr.Append(err, fmt.Errorf("logging.level: %w", lerr))
	}
	return err
}
