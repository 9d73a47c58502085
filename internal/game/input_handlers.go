package game

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func SetupInputHandlers(app *App) {
	window := app.window

	// Handle keyboard actions
	app.inputManager.SetKeyCallback(window)

	// The offscreen target follows the framebuffer, not the window size,
	// so high-DPI displays render at full resolution.
	window.SetFramebufferSizeCallback(func(w *glfw.Window, fbWidth, fbHeight int) {
		gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))
		app.renderer.UpdateViewport(fbWidth, fbHeight)
		app.log.Debugf("framebuffer resized to %dx%d", fbWidth, fbHeight)
	})

	// Refresh callback
	window.SetRefreshCallback(func(w *glfw.Window) {
		app.RefreshRender()
	})
}
