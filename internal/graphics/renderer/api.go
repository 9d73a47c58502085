package renderer

import (
	"contours/internal/graphics"
	"contours/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// RenderContext provides shared context for all renderables
type RenderContext struct {
	Camera *graphics.Camera
	Scene  *scene.Scene
	Time   float64
	FPS    int
	Width  int
	Height int
	View   mgl32.Mat4
	Proj   mgl32.Mat4
}

// Renderable interface defines the lifecycle for renderable features
type Renderable interface {
	Init() error
	Render(ctx RenderContext)
	Dispose()
	SetViewport(width, height int)
}

// Target is a renderable that scene passes draw into. Begin redirects
// drawing to it; Render then composites it onto the screen.
type Target interface {
	Renderable
	Begin(ctx RenderContext)
}
