// Package main is the sky dome viewer: an orbit camera over a ground plane
// under a cubemap sky that follows the eye.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/skydome/internal/assets"
	"github.com/Faultbox/skydome/internal/config"
	"github.com/Faultbox/skydome/internal/engine/camera"
	"github.com/Faultbox/skydome/internal/engine/debug"
	"github.com/Faultbox/skydome/internal/engine/input"
	"github.com/Faultbox/skydome/internal/engine/renderer"
	"github.com/Faultbox/skydome/internal/engine/scene"
	"github.com/Faultbox/skydome/internal/engine/shader"
	"github.com/Faultbox/skydome/internal/engine/skydome"
	"github.com/Faultbox/skydome/internal/engine/window"
	"github.com/Faultbox/skydome/internal/logger"
)

const (
	windowTitle   = "Skydome"
	groundExtent  = 200
	groundCell    = 4
	screenshotDir = "screenshots"
)

func main() {
	config.ParseFlags()

	cfg, cfgPath, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Skydome viewer ===", zap.String("config", cfgPath))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, cfgPath); err != nil {
		logger.Error("viewer failed", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("viewer closed normally")
}

func run(ctx context.Context, cfg *config.Config, cfgPath string) error {
	win, err := window.New(window.Config{
		Title:      windowTitle,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer win.Close()

	width, height := win.GetSize()
	rend, err := renderer.New(renderer.Config{Width: width, Height: height, VSync: cfg.Graphics.VSync})
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}
	defer rend.Close()

	root := scene.NewGroup()

	ground, err := newGround(groundExtent, groundCell)
	if err != nil {
		return fmt.Errorf("creating ground: %w", err)
	}
	defer ground.StateSet().Release()
	root.AddChild(ground)

	mgr := assets.NewManager()
	defer mgr.Close()

	sky := startSky(cfg.Sky, skydome.Deps{
		Scene:    root,
		Compiler: shader.Compiler{},
		Uploader: renderer.Uploader{},
		Assets:   mgr,
	})
	if sky != nil {
		defer sky.Close()
	}

	var updates <-chan *config.Config
	if cfgPath != "" {
		updates, err = config.Watch(ctx, cfgPath)
		if err != nil {
			logger.Warn("config hot reload disabled", zap.Error(err))
		}
	}

	v := &viewer{
		cfg:     cfg,
		win:     win,
		rend:    rend,
		root:    root,
		sky:     sky,
		in:      input.New(),
		shots:   debug.NewScreenshotCapture(screenshotDir, "skydome"),
		updates: updates,
	}
	v.resetCamera()
	v.loop(ctx)
	return nil
}

// viewer owns the per-frame state of the main loop.
type viewer struct {
	cfg     *config.Config
	win     *window.Window
	rend    *renderer.Renderer
	root    *scene.Group
	sky     *skydome.Sky
	cam     *camera.OrbitCamera
	in      *input.Input
	shots   *debug.ScreenshotCapture
	updates <-chan *config.Config

	wantShot   bool
	frames     int
	lastTitle  uint32
	lastCulled int
}

func (v *viewer) loop(ctx context.Context) {
	for ctx.Err() == nil {
		if v.in.Update() {
			return
		}
		if !v.handleEvents() {
			return
		}
		v.moveCamera()
		v.applyConfigUpdates()

		// folder switches only happen between frames
		if v.sky != nil {
			v.sky.ApplyPending()
		}

		v.frame()
		v.win.SwapBuffers()
		v.updateTitle()
	}
}

// handleEvents processes this frame's discrete events. Returns false to quit.
func (v *viewer) handleEvents() bool {
	for _, e := range v.in.Events() {
		switch e.Type {
		case input.EventWindowResize:
			w, h := v.win.GetSize()
			v.rend.Resize(w, h)

		case input.EventKeyDown:
			if !v.handleKey(e.Key) {
				return false
			}
		}
	}
	return true
}

// handleKey runs a key binding. Returns false to quit. Sky bindings do
// nothing when the sky failed to start.
func (v *viewer) handleKey(key sdl.Scancode) bool {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		return false
	case sdl.SCANCODE_F2:
		if v.sky != nil {
			v.sky.SetEnabled(!v.sky.Enabled())
		}
	case sdl.SCANCODE_F5:
		if v.sky != nil {
			logger.Info("reloading sky", zap.String("folder", v.sky.Folder()))
			v.sky.Reload()
		}
	case sdl.SCANCODE_F11:
		v.dumpFaces()
	case sdl.SCANCODE_F12:
		v.wantShot = true
	case sdl.SCANCODE_HOME:
		v.resetCamera()
	}
	return true
}

func (v *viewer) resetCamera() {
	v.cam = camera.NewOrbitCamera()
	if v.cfg.Graphics.FOV > 0 {
		v.cam.FOV = v.cfg.Graphics.FOV
	}
}

func (v *viewer) moveCamera() {
	if v.in.IsButtonHeld(sdl.BUTTON_LEFT) || v.in.IsButtonHeld(sdl.BUTTON_RIGHT) {
		dx, dy := v.in.Drag()
		v.cam.HandleDrag(dx, dy)
	}
	if w := v.in.Wheel(); w != 0 {
		v.cam.HandleZoom(w)
	}

	forward := v.in.Axis(sdl.SCANCODE_W, sdl.SCANCODE_S)
	right := v.in.Axis(sdl.SCANCODE_D, sdl.SCANCODE_A)
	up := v.in.Axis(sdl.SCANCODE_E, sdl.SCANCODE_Q)
	if forward != 0 || right != 0 || up != 0 {
		v.cam.HandleMovement(forward, right, up)
	}
}

// applyConfigUpdates drains reloaded configs without blocking the frame.
func (v *viewer) applyConfigUpdates() {
	for {
		select {
		case next, ok := <-v.updates:
			if !ok {
				v.updates = nil
				return
			}
			logger.Info("config reloaded")
			if v.sky != nil {
				v.sky.ApplyConfig(next.Sky)
			}
			if next.Graphics.VSync != v.cfg.Graphics.VSync && v.win != nil {
				v.win.SetVSync(next.Graphics.VSync)
			}
			if next.Graphics.Fullscreen != v.cfg.Graphics.Fullscreen && v.win != nil {
				v.win.SetFullscreen(next.Graphics.Fullscreen)
			}
			if next.Graphics.FOV > 0 {
				v.cam.FOV = next.Graphics.FOV
			}
			v.cfg = next
		default:
			return
		}
	}
}

func (v *viewer) frame() {
	view := v.cam.ViewMatrix()
	proj := v.cam.ProjectionMatrix(v.rend.Aspect())

	cv := scene.NewCullVisitor(view, proj)
	list := cv.Traverse(v.root)
	v.lastCulled = cv.Stats().Culled

	v.rend.Begin()
	v.rend.Draw(list, view, proj)
	if v.wantShot {
		v.wantShot = false
		pixels, w, h := v.rend.ReadPixels()
		if path, err := v.shots.CaptureFromPixels(pixels, w, h); err != nil {
			logger.Error("screenshot failed", zap.Error(err))
		} else {
			logger.Info("screenshot saved", zap.String("path", path))
		}
	}
	v.rend.End()
	v.frames++
}

// dumpFaces writes the current cubemap unfolded as a cross.
func (v *viewer) dumpFaces() {
	if v.sky == nil {
		return
	}
	c := v.sky.Faces()
	if err := c.Validate(); err != nil {
		logger.Warn("dumping incomplete cubemap", zap.Error(err))
	}
	path, err := v.shots.CaptureCross(c)
	if err != nil {
		logger.Error("cubemap dump failed", zap.Error(err))
		return
	}
	logger.Info("cubemap dumped", zap.String("path", path))
}

func (v *viewer) updateTitle() {
	now := window.Ticks()
	if now-v.lastTitle < 1000 {
		return
	}
	stats := v.rend.Stats()
	v.win.SetTitle(fmt.Sprintf("%s | %d fps | %d draws | %d tris | %d culled | sky %s",
		windowTitle, v.frames, stats.DrawCalls, stats.Triangles, v.lastCulled, skyState(v.sky)))
	v.frames = 0
	v.lastTitle = now
}

func skyState(sky *skydome.Sky) string {
	switch {
	case sky == nil:
		return "failed"
	case sky.Enabled():
		return "on"
	}
	return "off"
}
