package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/multierr"

	"github.com/Faultbox/wordsring/internal/ring"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Ring.Size != 15 {
		t.Errorf("expected ring size 15, got %d", cfg.Ring.Size)
	}
	if cfg.Ring.EngraveOffset != 1.85 {
		t.Errorf("expected engrave offset 1.85, got %f", cfg.Ring.EngraveOffset)
	}
	if cfg.Text.Size != 2 || cfg.Text.Depth != 1 || cfg.Text.CurveSegments != 4 {
		t.Errorf("unexpected text defaults: %+v", cfg.Text)
	}
	if cfg.Regen.Debounce != 250*time.Millisecond {
		t.Errorf("expected debounce 250ms, got %v", cfg.Regen.Debounce)
	}
	if cfg.Graphics.Width != 1280 || cfg.Graphics.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if cfg.Graphics.SpinSpeed != -0.01 {
		t.Errorf("expected spin speed -0.01, got %f", cfg.Graphics.SpinSpeed)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
	if cfg.Layout() != ring.DefaultLayout() {
		t.Errorf("layout = %+v, want default", cfg.Layout())
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
ring:
  size: 18
  line1: "Forever"
  engrave_offset: 2.0

text:
  font_path: "/fonts/arial-bold.ttf"
  curve_segments: 8

regen:
  debounce: 400ms

assets:
  shell_dir: "jsonring"
  environment: "textures/studio.jpg"

graphics:
  width: 1920
  height: 1080
  fullscreen: true

logging:
  level: "debug"
  log_file: "wordsring.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Ring.Size != 18 || cfg.Ring.Line1 != "Forever" {
		t.Errorf("ring section not loaded: %+v", cfg.Ring)
	}
	if cfg.Ring.EngraveOffset != 2.0 {
		t.Errorf("expected engrave offset 2.0, got %f", cfg.Ring.EngraveOffset)
	}
	// Unset keys keep their defaults.
	if cfg.Ring.BandOffset != 1.7 {
		t.Errorf("expected band offset default 1.7, got %f", cfg.Ring.BandOffset)
	}
	if cfg.TextOptions().CurveSegments != 8 || cfg.TextOptions().Size != 2 {
		t.Errorf("text options = %+v", cfg.TextOptions())
	}
	if cfg.Regen.Debounce != 400*time.Millisecond {
		t.Errorf("expected debounce 400ms, got %v", cfg.Regen.Debounce)
	}
	if cfg.Assets.ShellDir != "jsonring" || cfg.Assets.Environment != "textures/studio.jpg" {
		t.Errorf("assets section = %+v", cfg.Assets)
	}
	if !cfg.Graphics.Fullscreen || cfg.Graphics.Width != 1920 {
		t.Errorf("graphics section = %+v", cfg.Graphics)
	}
	if cfg.Logging.LogFile != "wordsring.log" {
		t.Errorf("expected log file 'wordsring.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileStrict(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"empty file", "", false},
		{"comment only", "# nothing here\n", false},
		{"unknown key", "ring:\n  sise: 18\n", true},
		{"unknown section", "audio:\n  volume: 3\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			cfg := Default()
			err := loadFromFile(cfg, path)
			if (err != nil) != tt.wantErr {
				t.Errorf("loadFromFile error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && cfg.Ring.Size != Default().Ring.Size {
				t.Errorf("defaults changed: %+v", cfg.Ring)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvShellDir, "/srv/jsonring")

	cfg := Default()
	applyEnv(cfg)
	if cfg.Logging.Level != "warn" {
		t.Errorf("level = %q, want warn", cfg.Logging.Level)
	}
	if cfg.Assets.ShellDir != "/srv/jsonring" {
		t.Errorf("shell dir = %q", cfg.Assets.ShellDir)
	}
	if cfg.Text.FontPath != "" {
		t.Errorf("unset variable changed font path to %q", cfg.Text.FontPath)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Ring.Size = 99
	cfg.Text.CurveSegments = 0
	cfg.Graphics.Width = 0
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	if got := len(multierr.Errors(err)); got != 4 {
		t.Errorf("expected 4 errors, got %d: %v", got, err)
	}
	if !errors.Is(err, ring.ErrUnknownSize) {
		t.Errorf("expected ErrUnknownSize in %v", err)
	}
}

func TestLoggerOptions(t *testing.T) {
	cfg := Default()
	opts := cfg.LoggerOptions()
	if !opts.Console || opts.File.Path != "" || opts.Level != "info" {
		t.Errorf("default options = %+v", opts)
	}

	cfg.Logging.LogFile = "wordsring.log"
	cfg.Logging.MaxBackups = 7
	cfg.Logging.Quiet = true
	opts = cfg.LoggerOptions()
	if opts.Console {
		t.Error("quiet should disable the console")
	}
	if opts.File.Path != "wordsring.log" || opts.File.MaxBackups != 7 || opts.File.MaxSizeMB != 20 {
		t.Errorf("file options = %+v", opts.File)
	}
}

func TestInitial(t *testing.T) {
	cfg := Default()
	cfg.Ring.Line1 = "A"
	cfg.Ring.Line2 = "B"
	cfg.Ring.Size = 12
	if got := cfg.Initial(); got != (ring.Configuration{Line1: "A", Line2: "B", Size: 12}) {
		t.Errorf("Initial = %+v", got)
	}

	cfg.Ring.Link = `https://wordsring.app/?{"line1":"Link","line2":"","ringSize":"20"}`
	if got := cfg.Initial(); got != (ring.Configuration{Line1: "Link", Size: 20}) {
		t.Errorf("Initial with link = %+v", got)
	}

	cfg.Ring.Link = "?garbage"
	if got := cfg.Initial(); got.Line1 != "A" {
		t.Errorf("invalid link should fall back to fields, got %+v", got)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	if path := findConfigFile(); path != "" {
		// A user-level config may exist on the test machine.
		if filepath.Dir(path) != ConfigDir() {
			t.Errorf("expected no local config, got %s", path)
		}
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path != "./config.yaml" {
		t.Errorf("expected ./config.yaml, got %q", path)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Ring.Line1 = "Saved"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Ring.Line1 != "Saved" || loaded.Regen.Debounce != cfg.Regen.Debounce {
		t.Errorf("reloaded = %+v", loaded.Ring)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name: "text and size flags",
			setup: func() {
				*flagLine1 = "One"
				*flagLine2 = "Two"
				*flagSize = 21
			},
			verify: func(cfg *Config) {
				if cfg.Ring.Line1 != "One" || cfg.Ring.Line2 != "Two" || cfg.Ring.Size != 21 {
					t.Errorf("ring = %+v", cfg.Ring)
				}
			},
			teardown: func() {
				*flagLine1 = ""
				*flagLine2 = ""
				*flagSize = 0
			},
		},
		{
			name:  "link flag",
			setup: func() { *flagLink = `?{"line1":"L"}` },
			verify: func(cfg *Config) {
				if cfg.Initial().Line1 != "L" {
					t.Errorf("link not applied: %+v", cfg.Initial())
				}
			},
			teardown: func() { *flagLink = "" },
		},
		{
			name:  "windowed flag",
			setup: func() { *flagWindowed = true },
			verify: func(cfg *Config) {
				if cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() { *flagWindowed = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(cfg *Config) {
				if cfg.Graphics.Width != 2560 || cfg.Graphics.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
ring:
  size: 10
graphics:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width from flag, height and size from file.
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
	if cfg.Ring.Size != 10 {
		t.Errorf("expected size 10 from file, got %d", cfg.Ring.Size)
	}
}

func TestLoadEnvBelowFlags(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("logging:\n  level: error\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfig, configPath)
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("environment should override the file, got %q", cfg.Logging.Level)
	}

	*flagDebug = true
	defer func() { *flagDebug = false }()
	if cfg, err = Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("flags should override the environment, got %q", cfg.Logging.Level)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("ring:\n  size: 40\n"), 0644); err != nil {
		t.Fatal(err)
	}
	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); !errors.Is(err, ring.ErrUnknownSize) {
		t.Errorf("expected ErrUnknownSize, got %v", err)
	}
}
