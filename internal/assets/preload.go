package assets

import (
	"context"
	"fmt"
	"image"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/wordsring/internal/engine/texture"
	"github.com/Faultbox/wordsring/internal/logger"
)

// Preloaded holds the startup assets.
type Preloaded struct {
	// Font is nil when it failed to load; text rendering is then disabled.
	Font *sfnt.Font
	// Texture is never nil; a failed load falls back to the generated one.
	Texture *image.RGBA
}

// Preload loads the font and environment texture concurrently. Asset
// failures are combined into the returned error while the result stays
// usable. Only context cancellation yields an unusable result.
func Preload(ctx context.Context, src Source, texturePath string) (Preloaded, error) {
	var out Preloaded
	var fontErr, texErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f, err := src.LoadFont(gctx)
		if cerr := gctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil {
			fontErr = fmt.Errorf("font: %w", err)
			return nil
		}
		out.Font = f
		return nil
	})
	g.Go(func() error {
		img, err := src.LoadTexture(gctx, texturePath)
		if cerr := gctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil {
			texErr = fmt.Errorf("texture %q: %w", texturePath, err)
			return nil
		}
		out.Texture = img
		return nil
	})
	if err := g.Wait(); err != nil {
		return Preloaded{}, err
	}

	log := logger.Named("assets")
	if out.Texture == nil {
		log.Warn("using generated environment texture", zap.Error(texErr))
		out.Texture = texture.SilverEnvironment(EnvironmentWidth, EnvironmentHeight)
	}
	if out.Font == nil {
		log.Error("font unavailable, text disabled", zap.Error(fontErr))
	}
	return out, multierr.Combine(fontErr, texErr)
}
