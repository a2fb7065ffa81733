// Ring Studio - an ImGui editor for ring engravings.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/wordsring/internal/app"
	"github.com/Faultbox/wordsring/internal/config"
	"github.com/Faultbox/wordsring/internal/engine/camera"
	"github.com/Faultbox/wordsring/internal/engine/render"
	"github.com/Faultbox/wordsring/internal/engine/ui"
	"github.com/Faultbox/wordsring/internal/logger"
	"github.com/Faultbox/wordsring/internal/ring"
)

const (
	panelWidth   = 320
	statusHeight = 28
	messageTTL   = 4 * time.Second
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

	studio, err := newStudio(cfg)
	if err != nil {
		logger.Error("failed to start studio", zap.Error(err))
		os.Exit(1)
	}
	defer studio.Close()

	studio.Run()
}

// Studio is the editor state. All fields are touched only from the frame
// callback, which also drains the session dispatcher.
type Studio struct {
	cfg      *config.Config
	backend  *ui.Backend
	session  *app.Session
	renderer *render.Renderer
	target   *render.Target
	cam      *camera.Camera
	table    *camera.Turntable
	log      *zap.Logger

	line1 string
	line2 string
	link  string
	sizes []ring.SizeIndex

	envUploaded bool
	message     string
	messageAt   time.Time
	lastMouse   imgui.Vec2
}

func newStudio(cfg *config.Config) (*Studio, error) {
	backend, err := ui.NewBackend("Ring Studio", cfg.Graphics.Width, cfg.Graphics.Height)
	if err != nil {
		return nil, err
	}

	r, err := render.NewRenderer()
	if err != nil {
		return nil, err
	}
	target, err := render.NewTarget(640, 500)
	if err != nil {
		r.Destroy()
		return nil, err
	}

	table := camera.NewTurntable()
	table.SpinSpeed = cfg.Graphics.SpinSpeed
	table.DragSensitivity = cfg.Graphics.DragSensitivity

	s := &Studio{
		cfg:      cfg,
		backend:  backend,
		session:  app.New(cfg, app.Deps{}),
		renderer: r,
		target:   target,
		cam:      camera.NewCamera(),
		table:    table,
		log:      logger.Named("studio"),
		sizes:    ring.Sizes(),
	}

	s.session.Start(context.Background(), cfg.Initial())
	cur := s.session.Configuration()
	s.line1, s.line2 = cur.Line1, cur.Line2
	return s, nil
}

// Run enters the frame loop.
func (s *Studio) Run() {
	s.backend.Run(s.frame)
}

// Close releases GL resources and the session.
func (s *Studio) Close() {
	s.session.Close()
	s.target.Destroy()
	s.renderer.Destroy()
}

func (s *Studio) frame() {
	s.session.Dispatcher().Drain()
	if env := s.session.Environment(); env != nil && !s.envUploaded {
		s.renderer.SetEnvironment(env)
		s.envUploaded = true
	}

	pos, size := ui.Viewport()
	contentHeight := size.Y - statusHeight

	imgui.SetNextWindowPos(pos)
	imgui.SetNextWindowSize(imgui.NewVec2(panelWidth, contentHeight))
	if imgui.BeginV("Engraving", nil, imgui.WindowFlagsNoMove|imgui.WindowFlagsNoResize|imgui.WindowFlagsNoCollapse) {
		s.drawForm()
	}
	imgui.End()

	imgui.SetNextWindowPos(imgui.NewVec2(pos.X+panelWidth, pos.Y))
	imgui.SetNextWindowSize(imgui.NewVec2(size.X-panelWidth, contentHeight))
	if imgui.BeginV("Preview", nil, imgui.WindowFlagsNoMove|imgui.WindowFlagsNoResize|imgui.WindowFlagsNoCollapse|imgui.WindowFlagsNoScrollbar) {
		s.drawPreview()
	}
	imgui.End()

	imgui.SetNextWindowPos(imgui.NewVec2(pos.X, pos.Y+contentHeight))
	imgui.SetNextWindowSize(imgui.NewVec2(size.X, statusHeight))
	if imgui.BeginV("##status", nil, imgui.WindowFlagsNoDecoration|imgui.WindowFlagsNoMove) {
		s.drawStatus()
	}
	imgui.End()

	s.shortcuts()
}

// shortcuts mirrors the keys of the keyboard preview.
func (s *Studio) shortcuts() {
	switch {
	case ui.IsKeyPressed(imgui.KeyF5):
		s.copyLink()
	case ui.IsKeyPressed(imgui.KeyF12):
		s.screenshot()
	case ui.IsKeyPressed(imgui.KeyPageUp):
		s.session.StepSize(1)
	case ui.IsKeyPressed(imgui.KeyPageDown):
		s.session.StepSize(-1)
	}
}

func (s *Studio) copyLink() {
	s.link = s.session.ShareLink("")
	imgui.SetClipboardText(s.link)
	s.notify("Link copied to clipboard")
}

func (s *Studio) drawForm() {
	if imgui.InputTextWithHint("##line1", "Line 1", &s.line1, 0, nil) {
		s.session.SetLine(ring.Line1, s.line1)
	}
	if imgui.InputTextWithHint("##line2", "Line 2", &s.line2, 0, nil) {
		s.session.SetLine(ring.Line2, s.line2)
	}

	cur := s.session.Configuration()
	if imgui.BeginCombo("Size", sizeLabel(cur.Size)) {
		for _, size := range s.sizes {
			if imgui.SelectableBoolV(sizeLabel(size), size == cur.Size, 0, imgui.NewVec2(0, 0)) {
				if _, err := s.session.SetSize(size); err != nil {
					s.notify(err.Error())
				}
			}
		}
		imgui.EndCombo()
	}

	imgui.Separator()
	if imgui.Button("Get link") {
		s.copyLink()
	}
	imgui.SameLine()
	if imgui.Button("Clear") {
		s.session.Clear()
		s.line1, s.line2 = "", ""
	}
	imgui.SameLine()
	if imgui.Button("Export OBJ") {
		s.exportDialog()
	}
	imgui.SameLine()
	if imgui.Button("Save PNG") {
		s.screenshot()
	}

	if imgui.InputTextWithHint("##link", "Paste a share link", &s.link, imgui.InputTextFlagsEnterReturnsTrue, nil) {
		s.applyLink()
	}
	imgui.SameLine()
	if imgui.Button("Open") {
		s.applyLink()
	}

	imgui.Separator()
	imgui.TextDisabled(fmt.Sprintf("Mode: %s", s.session.Mode()))
	if !s.session.TextAvailable() {
		imgui.TextDisabled("Font unavailable, text disabled")
	}
}

func (s *Studio) applyLink() {
	if !s.session.Apply(s.link) {
		s.notify("Not a valid ring link")
		return
	}
	cur := s.session.Configuration()
	s.line1, s.line2 = cur.Line1, cur.Line2
}

func (s *Studio) drawPreview() {
	avail := imgui.ContentRegionAvail()
	w, h := int32(avail.X), int32(avail.Y)
	if w < 1 || h < 1 {
		return
	}
	s.target.Resize(w, h)

	s.table.Step()
	restore := s.target.Bind()
	s.renderer.Draw(s.session.Group(), s.cam, s.table.ModelMatrix(), s.target.Aspect())
	restore()

	ui.GLImage(s.target.ColorTexture(), avail)

	mouse := imgui.MousePos()
	dragging := imgui.IsItemHovered() && imgui.IsMouseDragging(imgui.MouseButtonLeft)
	switch {
	case dragging && !s.table.Dragging():
		s.table.BeginDrag(s.lastMouse.X, s.lastMouse.Y)
		s.table.DragTo(mouse.X, mouse.Y)
	case dragging:
		s.table.DragTo(mouse.X, mouse.Y)
	case s.table.Dragging():
		s.table.EndDrag()
	}
	s.lastMouse = mouse
}

func (s *Studio) drawStatus() {
	stats := s.session.Cache().Stats()
	imgui.Text(fmt.Sprintf("Shells cached: %d  hits %d  misses %d", s.session.Cache().Len(), stats.Hits, stats.Misses))
	if s.message != "" && time.Since(s.messageAt) < messageTTL {
		imgui.SameLine()
		imgui.Text("  " + s.message)
	}
}

// exportDialog asks for a path off the frame loop and posts the export back.
func (s *Studio) exportDialog() {
	disp := s.session.Dispatcher()
	go func() {
		filename, err := dialog.File().
			Filter("Wavefront OBJ", "obj").
			Title("Export Ring").
			SetStartFile("ring.obj").
			Save()
		if err != nil {
			if err != dialog.ErrCancelled {
				disp.Post(func() { s.notify(fmt.Sprintf("Dialog error: %v", err)) })
			}
			return
		}
		disp.Post(func() { s.export(filename) })
	}()
}

func (s *Studio) export(path string) {
	if !strings.EqualFold(filepath.Ext(path), ".obj") {
		path += ".obj"
	}
	f, err := os.Create(path)
	if err != nil {
		s.notify(fmt.Sprintf("Export failed: %v", err))
		return
	}
	err = s.session.ExportOBJ(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		s.log.Error("export failed", zap.String("path", path), zap.Error(err))
		s.notify(fmt.Sprintf("Export failed: %v", err))
		return
	}
	s.notify("Exported " + filepath.Base(path))
}

func (s *Studio) screenshot() {
	path, err := render.SavePNG(s.target.Snapshot(), s.cfg.Graphics.ScreenshotDir, "ring")
	if err != nil {
		s.notify(fmt.Sprintf("Screenshot failed: %v", err))
		return
	}
	s.notify("Saved " + path)
}

func (s *Studio) notify(msg string) {
	s.message, s.messageAt = msg, time.Now()
}

func sizeLabel(size ring.SizeIndex) string {
	d, ok := ring.Diameter(size)
	if !ok {
		return fmt.Sprintf("%d", size)
	}
	return fmt.Sprintf("%d (%.1f mm)", size, d)
}
