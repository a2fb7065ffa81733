// Package app wires configuration, assets, the rebuild scheduler, and the
// scene into one editing session.
package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/wordsring/internal/assets"
	"github.com/Faultbox/wordsring/internal/config"
	"github.com/Faultbox/wordsring/internal/engine/mesh"
	"github.com/Faultbox/wordsring/internal/engine/scene"
	"github.com/Faultbox/wordsring/internal/engine/shell"
	"github.com/Faultbox/wordsring/internal/engine/text"
	"github.com/Faultbox/wordsring/internal/logger"
	"github.com/Faultbox/wordsring/internal/regen"
	"github.com/Faultbox/wordsring/internal/ring"
	"github.com/Faultbox/wordsring/internal/sharelink"
)

// ErrNothingToExport is returned by ExportOBJ when the scene is empty.
var ErrNothingToExport = errors.New("scene is empty")

// Deps overrides the session's collaborators. Zero values select the
// defaults built from the configuration.
type Deps struct {
	Source     assets.Source
	Dispatcher *regen.Dispatcher
	Clock      regen.Clock
}

// Session is one interactive editing session. Except for Dispatcher, its
// methods must be called from the goroutine that drains the dispatcher.
type Session struct {
	id   string
	cfg  *config.Config
	log  *zap.Logger
	disp *regen.Dispatcher

	source   assets.Source
	shells   *assets.ShellCache
	sched    *regen.Scheduler
	composer *scene.Composer

	current   ring.Configuration
	env       *image.RGBA
	textOK    bool
	preloaded bool
	failures  map[regen.Target]error
	// shellFailedFor is the key of the recorded shell failure.
	shellFailedFor ring.ShellKey

	cancel context.CancelFunc
}

// New creates a session. Nothing is loaded until Start.
func New(cfg *config.Config, deps Deps) *Session {
	id := uuid.NewString()
	log := logger.Named("session").With(zap.String("session", id))

	if deps.Source == nil {
		deps.Source = assets.NewLibrary(assets.LibraryOptions{
			FontPath:       cfg.Text.FontPath,
			ShellDir:       cfg.Assets.ShellDir,
			MaxTextureSize: cfg.Assets.MaxTextureSize,
			Layout:         cfg.Layout(),
		})
	}
	if deps.Dispatcher == nil {
		deps.Dispatcher = regen.NewDispatcher()
	}

	s := &Session{
		id:       id,
		cfg:      cfg,
		log:      log,
		disp:     deps.Dispatcher,
		source:   deps.Source,
		shells:   assets.NewShellCache(deps.Source),
		composer: scene.NewComposer(scene.NewGroup()),
		failures: make(map[regen.Target]error),
	}
	s.sched = regen.New(regen.Options{
		Debounce: cfg.Regen.Debounce,
		Layout:   cfg.Layout(),
	}, regen.Deps{
		Dispatcher: s.disp,
		Clock:      deps.Clock,
		Shells:     s.shells,
		Callbacks: regen.Callbacks{
			ShellReady:  s.shellReady,
			LineReady:   s.lineReady,
			LineCleared: s.lineCleared,
			Failed:      s.failed,
		},
		Log: log.Named("regen"),
	})
	return s
}

// Start commits the initial configuration and begins loading the font and
// environment texture in the background. Preload results arrive through the
// dispatcher.
func (s *Session) Start(ctx context.Context, initial ring.Configuration) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.log.Info("session started", zap.Int("size", int(initial.Size)))
	s.update(initial)

	go func() {
		pre, err := assets.Preload(ctx, s.source, s.cfg.Assets.Environment)
		if ctx.Err() != nil {
			return
		}
		s.disp.Post(func() { s.preloadDone(pre, err) })
	}()
}

func (s *Session) preloadDone(pre assets.Preloaded, err error) {
	if err != nil {
		s.log.Warn("preload incomplete", zap.Error(err))
	}
	s.preloaded = true
	s.env = pre.Texture
	if pre.Font == nil {
		return
	}
	s.textOK = true
	s.sched.SetTextBuilder(text.NewBuilder(pre.Font, s.cfg.TextOptions()))
}

// Settled reports whether the scene reflects the committed configuration:
// startup assets are in, no rebuild is waiting, and the shell for the
// current size and mode is shown or has failed.
func (s *Session) Settled() bool {
	if !s.preloaded {
		return false
	}
	for _, t := range []regen.Target{regen.TargetShell, regen.TargetLine1, regen.TargetLine2} {
		if s.sched.Pending(t) {
			return false
		}
	}
	if s.Failure(regen.TargetShell) != nil {
		return true
	}
	sh := s.composer.Shell()
	return sh != nil && sh.Key == ring.KeyOf(s.current)
}

// WaitSettled drains the dispatcher on the calling goroutine until the
// session has settled. It is meant for headless use.
func (s *Session) WaitSettled(ctx context.Context) error {
	for {
		s.disp.Drain()
		if s.Settled() {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for rebuilds: %w", ctx.Err())
		case <-s.disp.Ready():
		}
	}
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Dispatcher returns the event queue the caller must drain.
func (s *Session) Dispatcher() *regen.Dispatcher {
	return s.disp
}

// Group returns the scene group being composed.
func (s *Session) Group() *scene.Group {
	return s.composer.Group()
}

// Shell returns the displayed ring shell, if any.
func (s *Session) Shell() *shell.Shell {
	return s.composer.Shell()
}

// Environment returns the environment texture, or nil before it has loaded.
func (s *Session) Environment() *image.RGBA {
	return s.env
}

// TextAvailable reports whether a font has loaded.
func (s *Session) TextAvailable() bool {
	return s.textOK
}

// Configuration returns the configuration as last edited.
func (s *Session) Configuration() ring.Configuration {
	return s.current
}

// Mode returns the committed line-count mode.
func (s *Session) Mode() ring.Mode {
	_, m := s.sched.Committed()
	return m
}

// Failure returns the last error of a target since its last success. A
// shell failure only counts while its size and mode are still selected.
func (s *Session) Failure(t regen.Target) error {
	err := s.failures[t]
	if t == regen.TargetShell && err != nil && s.shellFailedFor != ring.KeyOf(s.current) {
		return nil
	}
	return err
}

// Cache returns the shell cache.
func (s *Session) Cache() *assets.ShellCache {
	return s.shells
}

// SetLine replaces the text of one line.
func (s *Session) SetLine(l ring.Line, txt string) regen.Changes {
	return s.update(s.current.WithText(l, txt))
}

// SetSize changes the ring size.
func (s *Session) SetSize(size ring.SizeIndex) (regen.Changes, error) {
	if !size.Valid() {
		return regen.Changes{}, fmt.Errorf("size %d: %w", size, ring.ErrUnknownSize)
	}
	cfg := s.current
	cfg.Size = size
	return s.update(cfg), nil
}

// StepSize moves the ring size by delta entries of the size table.
func (s *Session) StepSize(delta int) regen.Changes {
	cfg := s.current
	cfg.Size = cfg.Size.Step(delta)
	return s.update(cfg)
}

// Clear empties both lines and keeps the size.
func (s *Session) Clear() regen.Changes {
	return s.update(ring.Configuration{Size: s.current.Size})
}

// ShareLink encodes the current configuration. An empty base uses the
// configured one.
func (s *Session) ShareLink(base string) string {
	if base == "" {
		base = s.cfg.Share.BaseURL
	}
	return sharelink.Encode(base, s.current)
}

// Apply loads a share link. Invalid links leave the session unchanged.
func (s *Session) Apply(link string) bool {
	cfg, ok := sharelink.Decode(link)
	if !ok {
		s.log.Debug("ignoring invalid share link")
		return false
	}
	s.update(cfg)
	return true
}

// ExportOBJ writes every displayed mesh, placed as in the scene.
func (s *Session) ExportOBJ(w io.Writer) error {
	nodes := s.Group().Nodes()
	if len(nodes) == 0 {
		return ErrNothingToExport
	}
	obj := mesh.NewOBJWriter(w)
	for _, n := range nodes {
		if err := obj.Add(n.Name, n.Mesh, n.Offset); err != nil {
			return fmt.Errorf("writing %s: %w", n.Name, err)
		}
	}
	if err := obj.Flush(); err != nil {
		return fmt.Errorf("flushing obj: %w", err)
	}
	s.log.Info("exported obj", zap.Int("objects", len(nodes)))
	return nil
}

// Close stops pending rebuilds and background loads.
func (s *Session) Close() {
	if s.cancel != nil {
		s.cancel()
	}
	s.sched.Close()
	s.log.Info("session closed", zap.Any("cache", s.shells.Stats()))
}

func (s *Session) update(cfg ring.Configuration) regen.Changes {
	ch := s.sched.Update(cfg)
	s.current, _ = s.sched.Committed()
	if ch.Size || ch.Mode {
		// A new key gets a fresh attempt.
		delete(s.failures, regen.TargetShell)
	}
	return ch
}

func (s *Session) shellReady(sh *shell.Shell) {
	delete(s.failures, regen.TargetShell)
	s.composer.ShowShell(sh)
}

func (s *Session) lineReady(lm regen.LineMesh) {
	delete(s.failures, regen.LineTarget(lm.Line))
	s.composer.ShowLine(lm.Line, lm.Mesh, lm.Offset)
}

func (s *Session) lineCleared(l ring.Line) {
	delete(s.failures, regen.LineTarget(l))
	s.composer.ClearLine(l)
}

func (s *Session) failed(t regen.Target, err error) {
	s.failures[t] = err
	if t == regen.TargetShell {
		s.shellFailedFor = ring.KeyOf(s.current)
	}
}
