// Package regen decides what to rebuild when the engraving configuration
// changes. Each of the ring shell and the two text lines has its own
// debounce timer, so a burst of edits to one target produces a single
// rebuild of that target only.
package regen

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/wordsring/internal/engine/deform"
	"github.com/Faultbox/wordsring/internal/engine/mesh"
	"github.com/Faultbox/wordsring/internal/engine/shell"
	"github.com/Faultbox/wordsring/internal/engine/text"
	"github.com/Faultbox/wordsring/internal/logger"
	"github.com/Faultbox/wordsring/internal/ring"
)

// DefaultDebounce is the quiet period before a rebuild fires.
const DefaultDebounce = 250 * time.Millisecond

// ErrNoFont is reported for line rebuilds while no font is available.
var ErrNoFont = errors.New("no font loaded")

// Target identifies an independently rebuilt element.
type Target int

const (
	TargetShell Target = iota
	TargetLine1
	TargetLine2
)

func (t Target) String() string {
	switch t {
	case TargetShell:
		return "shell"
	case TargetLine1:
		return "line1"
	case TargetLine2:
		return "line2"
	}
	return fmt.Sprintf("target(%d)", int(t))
}

// LineTarget maps a text line to its rebuild target.
func LineTarget(l ring.Line) Target {
	if l == ring.Line2 {
		return TargetLine2
	}
	return TargetLine1
}

// LineMesh is a finished text line ready for display.
type LineMesh struct {
	Line ring.Line
	Text string
	// Mesh is bent onto the engraving cylinder. Ownership passes to the receiver.
	Mesh *mesh.Mesh
	// Offset is the vertical placement of the line.
	Offset float32
}

// Callbacks receive rebuild results. All are invoked on the dispatcher
// goroutine. Nil callbacks are skipped.
type Callbacks struct {
	ShellReady  func(*shell.Shell)
	LineReady   func(LineMesh)
	LineCleared func(ring.Line)
	Failed      func(Target, error)
}

// ShellSource provides cached ring shells.
type ShellSource interface {
	Lookup(key ring.ShellKey) (*shell.Shell, bool)
	Get(ctx context.Context, key ring.ShellKey) (*shell.Shell, error)
}

// TextBuilder extrudes flat, centred text.
type TextBuilder interface {
	Build(s string) (*mesh.Mesh, error)
}

// Options tunes the scheduler.
type Options struct {
	Debounce time.Duration
	Layout   ring.Layout
}

// Deps are the scheduler's collaborators.
type Deps struct {
	Dispatcher *Dispatcher
	Clock      Clock
	Shells     ShellSource
	// Text may be nil until the font has loaded; see SetTextBuilder.
	Text      TextBuilder
	Callbacks Callbacks
	Log       *zap.Logger
}

// Changes reports what one Update detected.
type Changes struct {
	Size  bool
	Mode  bool
	Line1 bool
	Line2 bool
}

type pending struct {
	timer Timer
	gen   uint64
}

// Scheduler is the regeneration state machine. Its methods must be called
// from the dispatcher goroutine.
type Scheduler struct {
	opts  Options
	disp  *Dispatcher
	clock Clock
	cache ShellSource
	text  TextBuilder
	cb    Callbacks
	log   *zap.Logger
	ctx   context.Context

	committed   ring.Configuration
	mode        ring.Mode
	initialized bool

	timers map[Target]*pending
	gen    map[Target]uint64

	shownShell ring.ShellKey
	hasShell   bool
	shownLines map[ring.Line]bool
}

// New creates a scheduler. Nothing is built until the first Update.
func New(opts Options, deps Deps) *Scheduler {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if deps.Clock == nil {
		deps.Clock = RealClock{}
	}
	if deps.Log == nil {
		deps.Log = logger.Named("regen")
	}
	return &Scheduler{
		opts:       opts,
		disp:       deps.Dispatcher,
		clock:      deps.Clock,
		cache:      deps.Shells,
		text:       deps.Text,
		cb:         deps.Callbacks,
		log:        deps.Log,
		ctx:        context.Background(),
		timers:     make(map[Target]*pending),
		gen:        make(map[Target]uint64),
		shownLines: make(map[ring.Line]bool),
	}
}

// Update commits cfg and schedules the rebuilds it requires.
func (s *Scheduler) Update(cfg ring.Configuration) Changes {
	cfg = cfg.Normalize()
	mode := ring.ModeOf(cfg)

	first := !s.initialized
	ch := Changes{
		Size:  first || cfg.Size != s.committed.Size,
		Mode:  first || mode != s.mode,
		Line1: cfg.Line1 != s.committed.Line1,
		Line2: cfg.Line2 != s.committed.Line2,
	}

	// Commit before scheduling so every rebuild sees this snapshot or a newer one.
	s.committed, s.mode, s.initialized = cfg, mode, true

	reshape := ch.Size || ch.Mode
	if reshape {
		s.schedule(TargetShell)
	}

	for _, line := range []ring.Line{ring.Line1, ring.Line2} {
		target := LineTarget(line)
		lineChanged := ch.Line1
		if line == ring.Line2 {
			lineChanged = ch.Line2
		}

		if cfg.Text(line) == "" {
			s.cancel(target)
			s.clearLine(line)
			continue
		}
		if reshape || lineChanged {
			s.schedule(target)
		}
	}

	if reshape || ch.Line1 || ch.Line2 {
		s.log.Debug("configuration committed",
			zap.Int("size", int(cfg.Size)),
			zap.Stringer("mode", mode),
			zap.Bool("size_changed", ch.Size),
			zap.Bool("mode_changed", ch.Mode),
			zap.Bool("line1_changed", ch.Line1),
			zap.Bool("line2_changed", ch.Line2))
	}
	return ch
}

// SetTextBuilder installs the text builder once the font is available and
// schedules every non-empty line.
func (s *Scheduler) SetTextBuilder(b TextBuilder) {
	s.text = b
	if !s.initialized || b == nil {
		return
	}
	for _, line := range []ring.Line{ring.Line1, ring.Line2} {
		if s.committed.Text(line) != "" {
			s.schedule(LineTarget(line))
		}
	}
}

// Committed returns the latest committed configuration and its mode.
func (s *Scheduler) Committed() (ring.Configuration, ring.Mode) {
	return s.committed, s.mode
}

// Pending reports whether a rebuild of target is waiting on its timer.
func (s *Scheduler) Pending(target Target) bool {
	_, ok := s.timers[target]
	return ok
}

// Close stops all pending timers.
func (s *Scheduler) Close() {
	for target := range s.timers {
		s.cancel(target)
	}
}

// schedule arms target's timer, replacing any pending rebuild of it.
func (s *Scheduler) schedule(target Target) {
	if p, ok := s.timers[target]; ok {
		p.timer.Stop()
	}
	s.gen[target]++
	gen := s.gen[target]

	s.timers[target] = &pending{
		gen: gen,
		timer: s.clock.AfterFunc(s.opts.Debounce, func() {
			s.disp.Post(func() { s.fire(target, gen) })
		}),
	}
}

func (s *Scheduler) cancel(target Target) {
	if p, ok := s.timers[target]; ok {
		p.timer.Stop()
		delete(s.timers, target)
	}
}

// fire runs a rebuild unless its timer was re-armed or cancelled after the
// callback was already queued.
func (s *Scheduler) fire(target Target, gen uint64) {
	p, ok := s.timers[target]
	if !ok || p.gen != gen {
		return
	}
	delete(s.timers, target)

	switch target {
	case TargetShell:
		s.rebuildShell()
	case TargetLine1:
		s.rebuildLine(ring.Line1)
	case TargetLine2:
		s.rebuildLine(ring.Line2)
	}
}

func (s *Scheduler) rebuildShell() {
	key := ring.KeyOf(s.committed)
	if s.hasShell && s.shownShell == key {
		return
	}

	if sh, ok := s.cache.Lookup(key); ok {
		s.showShell(sh)
		return
	}

	s.log.Debug("loading shell", zap.Stringer("key", key))
	go func() {
		sh, err := s.cache.Get(s.ctx, key)
		s.disp.Post(func() { s.shellLoaded(key, sh, err) })
	}()
}

func (s *Scheduler) shellLoaded(key ring.ShellKey, sh *shell.Shell, err error) {
	if current := ring.KeyOf(s.committed); current != key {
		if err != nil {
			s.log.Warn("stale shell load failed", zap.Stringer("key", key), zap.Error(err))
			return
		}
		s.log.Debug("discarding stale shell", zap.Stringer("key", key), zap.Stringer("current", current))
		return
	}
	if err != nil {
		s.fail(TargetShell, fmt.Errorf("shell %s: %w", key, err))
		return
	}
	if s.hasShell && s.shownShell == key {
		return
	}
	s.showShell(sh)
}

func (s *Scheduler) showShell(sh *shell.Shell) {
	s.shownShell, s.hasShell = sh.Key, true
	s.log.Info("shell ready", zap.Stringer("key", sh.Key))
	if s.cb.ShellReady != nil {
		s.cb.ShellReady(sh)
	}
}

func (s *Scheduler) rebuildLine(line ring.Line) {
	cfg := s.committed
	txt := cfg.Text(line)
	if txt == "" {
		return
	}
	target := LineTarget(line)

	if s.text == nil {
		s.fail(target, ErrNoFont)
		return
	}
	dims, err := s.opts.Layout.Dimensions(cfg.Size)
	if err != nil {
		s.fail(target, err)
		return
	}

	start := time.Now()
	flat, err := s.text.Build(txt)
	if errors.Is(err, text.ErrNoGlyphs) {
		// Only blanks: nothing to engrave.
		s.clearLine(line)
		return
	}
	if err != nil {
		s.fail(target, fmt.Errorf("extruding %s: %w", line, err))
		return
	}

	if deform.Overflows(flat.Bounds, dims.Engrave) {
		s.log.Warn("text wraps more than half the ring",
			zap.Stringer("line", line),
			zap.Float64("angle", deform.MaxWrapAngle(flat.Bounds, dims.Engrave)),
			zap.Int("size", int(cfg.Size)))
	}

	lm := LineMesh{
		Line:   line,
		Text:   txt,
		Mesh:   deform.Bend(flat, dims.Engrave),
		Offset: s.opts.Layout.LineOffset(line, ring.ModeOf(cfg)),
	}
	s.shownLines[line] = true
	s.log.Debug("line rebuilt",
		zap.Stringer("line", line),
		zap.Int("triangles", lm.Mesh.TriangleCount()),
		zap.Duration("took", time.Since(start)))
	if s.cb.LineReady != nil {
		s.cb.LineReady(lm)
	}
}

func (s *Scheduler) clearLine(line ring.Line) {
	if !s.shownLines[line] {
		return
	}
	delete(s.shownLines, line)
	if s.cb.LineCleared != nil {
		s.cb.LineCleared(line)
	}
}

func (s *Scheduler) fail(target Target, err error) {
	s.log.Error("rebuild failed", zap.Stringer("target", target), zap.Error(err))
	if s.cb.Failed != nil {
		s.cb.Failed(target, err)
	}
}
