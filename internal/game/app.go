package game

import (
	"image"
	"time"

	"contours/internal/animation"
	"contours/internal/graphics"
	"contours/internal/graphics/renderer"
	"contours/internal/input"
	"contours/internal/logging"
	"contours/internal/profiling"
	"contours/internal/scene"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// slowFrame is the processing time above which a frame gets logged.
const slowFrame = 16 * time.Millisecond

// Capturer receives frames read back from the screen. Requests must not block.
type Capturer interface {
	RequestGIFFrame(img image.Image) bool
	RequestScreenshot(img image.Image) bool
}

type App struct {
	window       *glfw.Window
	inputManager *input.Manager
	scene        *scene.Scene
	renderer     *renderer.Renderer
	capture      Capturer
	animator     *animation.Animator
	log          logging.Logger

	fpsLimiter *FPSLimiter
	fps        fpsCounter
	start      time.Time
	lastTime   float64
	hideMouse  bool
	editor     bool
}

func NewApp(window *glfw.Window, im *input.Manager, s *scene.Scene, r *renderer.Renderer,
	c Capturer, opts animation.Options, log logging.Logger) *App {
	return &App{
		window:       window,
		inputManager: im,
		scene:        s,
		renderer:     r,
		capture:      c,
		animator:     animation.NewAnimator(opts),
		log:          log,
		fpsLimiter:   NewFPSLimiter(),
		start:        time.Now(),
		hideMouse:    !s.HideMouse,
	}
}

// Run drives frames until the update asks to finish or the window closes.
func (a *App) Run() {
	for !a.window.ShouldClose() {
		if a.tick() == animation.Finish {
			a.log.Infof("finish requested, leaving main loop")
			a.window.SetShouldClose(true)
		}
	}
}

func (a *App) tick() animation.Status {
	profiling.ResetFrame()
	startTick := time.Now()
	t := startTick.Sub(a.start).Seconds()
	a.lastTime = t

	func() {
		defer profiling.Track("glfw.PollEvents")()
		glfw.PollEvents()
	}()

	var res animation.Result
	func() {
		defer profiling.Track("update")()
		res = a.animator.Step(animation.Frame{
			Time:      t,
			Input:     a.inputManager.Snapshot(),
			Instances: a.scene.Item.Instances,
		})
		applyResult(a.scene, res, a.log)
	}()

	a.syncEditor()
	a.syncCursor()

	a.renderer.Render(a.scene, t, a.fps.Current())

	if res.CaptureGIF || res.Screenshot {
		a.readback(res)
	}

	func() {
		defer profiling.Track("glfw.SwapBuffers")()
		a.window.SwapBuffers()
	}()

	if fps, ok := a.fps.Tick(time.Now()); ok {
		a.log.Debugf("fps %d", fps)
	}

	if d := time.Since(startTick); d > slowFrame {
		a.log.Debugf("slow frame: %v. top tasks: %s", d, profiling.TopN(5))
	}

	a.inputManager.PostUpdate()

	iconified := a.window.GetAttrib(glfw.Iconified) == glfw.True
	a.fpsLimiter.Wait(iconified)

	return res.Status
}

// readback copies the finished frame once and hands it to the capture service.
func (a *App) readback(res animation.Result) {
	defer profiling.Track("capture.readback")()

	w, h := a.renderer.Size()
	img := graphics.ReadFramebuffer(w, h)
	if res.CaptureGIF {
		a.capture.RequestGIFFrame(img)
	}
	if res.Screenshot {
		a.capture.RequestScreenshot(img)
	}
}

func (a *App) syncCursor() {
	if a.scene.HideMouse == a.hideMouse {
		return
	}
	a.hideMouse = a.scene.HideMouse
	a.window.SetInputMode(glfw.CursorMode, cursorMode(a.hideMouse))
}

// RefreshRender repaints the last state while the window is being resized.
func (a *App) RefreshRender() {
	a.renderer.Render(a.scene, a.lastTime, a.fps.Current())
	a.window.SwapBuffers()
}

// applyResult writes the update's deltas into the scene. Apply errors leave
// the affected part unchanged and are only logged.
func applyResult(s *scene.Scene, res animation.Result, log logging.Logger) {
	if err := s.Apply(res.Delta); err != nil {
		log.Errorf("apply frame: %v", err)
	}
}

// syncEditor switches debug logging whenever the editor is toggled, so the
// configured level holds until the first toggle.
func (a *App) syncEditor() {
	if a.scene.ShowEditor == a.editor {
		return
	}
	a.editor = a.scene.ShowEditor
	a.log.SetDebug(a.editor)
	if a.editor {
		a.log.Infof("editor shown")
	} else {
		a.log.Infof("editor hidden")
	}
}

func cursorMode(hide bool) int {
	if hide {
		return glfw.CursorHidden
	}
	return glfw.CursorNormal
}

// fpsCounter counts frames over one-second windows.
type fpsCounter struct {
	frames  int
	last    time.Time
	current int
}

// Tick records a frame at now. It reports the new rate once a second.
func (c *fpsCounter) Tick(now time.Time) (int, bool) {
	if c.last.IsZero() {
		c.last = now
	}
	c.frames++
	if now.Sub(c.last) < time.Second {
		return c.current, false
	}
	c.current = c.frames
	c.frames = 0
	c.last = now
	return c.current, true
}

func (c *fpsCounter) Current() int {
	return c.current
}
