// Package main is the keyboard-driven ring preview.
//
// Typing edits the active line and Tab switches lines. Up and Down change
// the ring size and Escape clears both lines. F5 prints a share link, F12
// saves a screenshot, Ctrl+V opens a pasted link. Dragging with the mouse
// turns the ring and tilts it.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/wordsring/internal/app"
	"github.com/Faultbox/wordsring/internal/config"
	"github.com/Faultbox/wordsring/internal/engine/camera"
	"github.com/Faultbox/wordsring/internal/engine/input"
	"github.com/Faultbox/wordsring/internal/engine/render"
	"github.com/Faultbox/wordsring/internal/engine/window"
	"github.com/Faultbox/wordsring/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LoggerOptions()); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== WordsRing ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("preview error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("preview closed normally")
}

type preview struct {
	cfg      *config.Config
	win      *window.Window
	in       *input.Input
	renderer *render.Renderer
	session  *app.Session
	editor   *app.Editor
	cam      *camera.Camera
	table    *camera.Turntable

	envUploaded   bool
	shotRequested bool
	title         string
}

func run(cfg *config.Config) error {
	win, err := window.New(window.Config{
		Title:      "WordsRing",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer win.Close()

	r, err := render.NewRenderer()
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}
	defer r.Destroy()

	in := input.New()
	defer in.Close()

	session := app.New(cfg, app.Deps{})
	defer session.Close()

	table := camera.NewTurntable()
	table.SpinSpeed = cfg.Graphics.SpinSpeed
	table.DragSensitivity = cfg.Graphics.DragSensitivity

	p := &preview{
		cfg:      cfg,
		win:      win,
		in:       in,
		renderer: r,
		session:  session,
		editor:   app.NewEditor(session),
		cam:      camera.NewCamera(),
		table:    table,
	}

	session.Start(context.Background(), cfg.Initial())
	return p.loop()
}

func (p *preview) loop() error {
	var frameTime time.Duration
	if p.cfg.Graphics.FPSLimit > 0 {
		frameTime = time.Second / time.Duration(p.cfg.Graphics.FPSLimit)
	}

	for {
		start := time.Now()

		if p.in.Update() {
			return nil
		}
		for _, ev := range p.in.Events() {
			p.handle(ev)
		}

		// Rebuild results and preload completions land here.
		p.session.Dispatcher().Drain()

		if env := p.session.Environment(); env != nil && !p.envUploaded {
			p.renderer.SetEnvironment(env)
			p.envUploaded = true
		}

		p.table.Step()
		w, h := p.win.DrawableSize()
		render.Viewport(w, h)
		p.renderer.Draw(p.session.Group(), p.cam, p.table.ModelMatrix(), float32(w)/float32(max(h, 1)))
		if p.shotRequested {
			p.shotRequested = false
			p.screenshot(w, h)
		}
		p.win.SwapBuffers()
		p.updateTitle()

		if frameTime > 0 {
			if d := frameTime - time.Since(start); d > 0 {
				time.Sleep(d)
			}
		}
	}
}

func (p *preview) handle(ev input.Event) {
	switch ev.Type {
	case input.EventText:
		p.editor.Type(ev.Text)
	case input.EventKeyDown:
		switch ev.Key {
		case sdl.K_BACKSPACE:
			p.editor.Backspace()
		case sdl.K_TAB:
			p.editor.Toggle()
		case sdl.K_UP:
			p.editor.Grow()
		case sdl.K_DOWN:
			p.editor.Shrink()
		case sdl.K_ESCAPE:
			p.editor.Clear()
		case sdl.K_F5:
			fmt.Println(p.session.ShareLink(""))
		case sdl.K_F12:
			p.shotRequested = true
		case sdl.K_v:
			if ev.Ctrl {
				p.paste()
			}
		}
	case input.EventMouseDown:
		if ev.Button == sdl.BUTTON_LEFT {
			p.table.BeginDrag(float32(ev.MouseX), float32(ev.MouseY))
		}
	case input.EventMouseMove:
		p.table.DragTo(float32(ev.MouseX), float32(ev.MouseY))
	case input.EventMouseUp:
		p.table.EndDrag()
	}
}

// paste applies a share link from the clipboard, or types the clipboard
// text when it is not a link.
func (p *preview) paste() {
	text, err := sdl.GetClipboardText()
	if err != nil || text == "" {
		return
	}
	if !p.session.Apply(text) {
		p.editor.Type(text)
	}
}

// screenshot saves the back buffer before it is presented.
func (p *preview) screenshot(w, h int32) {
	path, err := render.SavePNG(render.ReadFramebuffer(w, h), p.cfg.Graphics.ScreenshotDir, "wordsring")
	if err != nil {
		logger.Error("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

func (p *preview) updateTitle() {
	cfg := p.session.Configuration()
	title := fmt.Sprintf("WordsRing  size %d  [%s] %q / %q", cfg.Size, p.editor.Active(), cfg.Line1, cfg.Line2)
	if !p.session.TextAvailable() {
		title += "  (no font)"
	}
	if title != p.title {
		p.win.SetTitle(title)
		p.title = title
	}
}
