package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagLine1      = flag.String("line1", "", "Initial text of line 1")
	flagLine2      = flag.String("line2", "", "Initial text of line 2")
	flagSize       = flag.Int("size", 0, "Initial ring size")
	flagLink       = flag.String("link", "", "Share link to open")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLine1 != "" {
		cfg.Ring.Line1 = *flagLine1
	}
	if *flagLine2 != "" {
		cfg.Ring.Line2 = *flagLine2
	}
	if *flagSize > 0 {
		cfg.Ring.Size = *flagSize
	}
	if *flagLink != "" {
		cfg.Ring.Link = *flagLink
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
}
