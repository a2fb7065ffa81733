// Package assets loads fonts, textures, and ring shells, and caches shells
// so each variant is loaded at most once per session.
package assets

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/image/font/sfnt"

	"github.com/Faultbox/wordsring/internal/engine/shell"
	"github.com/Faultbox/wordsring/internal/engine/text"
	"github.com/Faultbox/wordsring/internal/engine/texture"
	"github.com/Faultbox/wordsring/internal/logger"
	"github.com/Faultbox/wordsring/internal/ring"
)

// Generated environment size and the default texture size limit.
const (
	EnvironmentWidth      = 512
	EnvironmentHeight     = 256
	DefaultMaxTextureSize = 2048
)

// Source supplies every asset the preview needs. Implementations must be
// safe for concurrent use; loads run off the event loop.
type Source interface {
	LoadFont(ctx context.Context) (*sfnt.Font, error)
	LoadTexture(ctx context.Context, path string) (*image.RGBA, error)
	LoadRingShell(ctx context.Context, key ring.ShellKey) (*shell.Shell, error)
}

// ShellLoader is the part of Source the shell cache depends on.
type ShellLoader interface {
	LoadRingShell(ctx context.Context, key ring.ShellKey) (*shell.Shell, error)
}

// LibraryOptions configures a Library.
type LibraryOptions struct {
	// FontPath is a TrueType/OpenType file. Empty selects the embedded Go Bold.
	FontPath string
	// ShellDir holds legacy JSON shells. Empty generates shells procedurally.
	ShellDir string
	// MaxTextureSize bounds the longer side of loaded textures.
	MaxTextureSize int
	Layout         ring.Layout
}

// Library is the filesystem-backed asset source.
type Library struct {
	opts LibraryOptions
	log  *zap.Logger
}

// NewLibrary creates an asset library.
func NewLibrary(opts LibraryOptions) *Library {
	if opts.MaxTextureSize <= 0 {
		opts.MaxTextureSize = DefaultMaxTextureSize
	}
	return &Library{
		opts: opts,
		log:  logger.Named("assets"),
	}
}

// LoadFont returns the configured font.
func (l *Library) LoadFont(ctx context.Context) (*sfnt.Font, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.opts.FontPath == "" {
		return text.DefaultFont()
	}
	f, err := text.LoadFontFile(l.opts.FontPath)
	if err != nil {
		return nil, err
	}
	l.log.Info("font loaded", zap.String("path", l.opts.FontPath))
	return f, nil
}

// LoadTexture decodes an environment texture, or generates the default one
// when path is empty.
func (l *Library) LoadTexture(ctx context.Context, path string) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if path == "" {
		return texture.SilverEnvironment(EnvironmentWidth, EnvironmentHeight), nil
	}
	img, err := LoadTextureFile(path, l.opts.MaxTextureSize)
	if err != nil {
		return nil, err
	}
	l.log.Info("texture loaded",
		zap.String("path", path),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()))
	return img, nil
}

// LoadRingShell reads the shell from ShellDir when the file exists and
// generates it otherwise.
func (l *Library) LoadRingShell(ctx context.Context, key ring.ShellKey) (*shell.Shell, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dims, err := l.opts.Layout.Dimensions(key.Size)
	if err != nil {
		return nil, fmt.Errorf("loading shell %s: %w", key, err)
	}

	if l.opts.ShellDir != "" {
		path := filepath.Join(l.opts.ShellDir, shell.FileName(key))
		band, err := shell.LoadLegacyFile(path)
		switch {
		case err == nil:
			l.log.Debug("shell loaded from file", zap.Stringer("key", key), zap.String("path", path))
			return shell.FromBand(key, dims, band), nil
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("loading shell %s: %w", key, err)
		}
		l.log.Debug("shell file missing, generating", zap.String("path", path))
	}

	s, err := shell.Generate(key, dims)
	if err != nil {
		return nil, err
	}
	l.log.Debug("shell generated", zap.Stringer("key", key), zap.Int("triangles", s.Band.TriangleCount()))
	return s, nil
}

// LoadTextureFile reads and decodes an image file, bounding its size.
func LoadTextureFile(path string, maxSize int) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading texture: %w", err)
	}
	img, err := texture.DecodeFile(data, path)
	if err != nil {
		return nil, fmt.Errorf("texture %s: %w", path, err)
	}
	return texture.Fit(img, maxSize), nil
}
