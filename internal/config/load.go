package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/wordsring/internal/ring"
	"github.com/Faultbox/wordsring/internal/sharelink"
)

// Environment overrides, applied between the config file and the flags.
const (
	EnvConfig   = "WORDSRING_CONFIG"
	EnvLogLevel = "WORDSRING_LOG_LEVEL"
	EnvShellDir = "WORDSRING_SHELL_DIR"
	EnvFont     = "WORDSRING_FONT"
)

// Load builds the configuration. Later sources win:
// defaults, config file, environment, flags.
func Load() (*Config, error) {
	cfg := Default()

	path := ConfigPath()
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Initial returns the configuration the session starts with. A share link,
// when set and valid, wins over the individual fields.
func (c *Config) Initial() ring.Configuration {
	if c.Ring.Link != "" {
		if cfg, ok := sharelink.Decode(c.Ring.Link); ok {
			return cfg
		}
	}
	cfg := ring.Configuration{
		Line1: c.Ring.Line1,
		Line2: c.Ring.Line2,
		Size:  ring.SizeIndex(c.Ring.Size),
	}
	if !cfg.Size.Valid() {
		cfg.Size = ring.DefaultSize
	}
	return cfg.Normalize()
}

// applyEnv copies the set WORDSRING_* variables into cfg.
func applyEnv(cfg *Config) {
	for name, dst := range map[string]*string{
		EnvLogLevel: &cfg.Logging.Level,
		EnvShellDir: &cfg.Assets.ShellDir,
		EnvFont:     &cfg.Text.FontPath,
	} {
		if v, ok := os.LookupEnv(name); ok {
			*dst = v
		}
	}
}

// findConfigFile returns the first existing config in the working
// directory or the user config directory.
func findConfigFile() string {
	for _, path := range []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "WordsRing")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "WordsRing")
		}
		return filepath.Join(home, "AppData", "Roaming", "WordsRing")
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "wordsring")
	}
	return filepath.Join(home, ".config", "wordsring")
}

// loadFromFile merges a YAML file over cfg. Unknown keys are errors so
// typos do not pass silently.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
