package renderer

import (
	"contours/internal/graphics"
	"contours/internal/profiling"
	"contours/internal/scene"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Renderer draws the scene passes into the post-effect target, composites
// the target to the screen and finishes with the overlays.
type Renderer struct {
	target   Target
	passes   []Renderable
	overlays []Renderable
	camera   *graphics.Camera

	width, height int
}

// NewRenderer configures GL state and initializes every renderable.
func NewRenderer(width, height int, target Target, passes []Renderable, overlays []Renderable) (*Renderer, error) {
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	r := &Renderer{
		target:   target,
		passes:   passes,
		overlays: overlays,
		camera:   graphics.NewCamera(width, height),
		width:    width,
		height:   height,
	}

	for _, rr := range r.all() {
		if err := rr.Init(); err != nil {
			r.Dispose()
			return nil, err
		}
		rr.SetViewport(width, height)
	}

	return r, nil
}

func (r *Renderer) all() []Renderable {
	out := make([]Renderable, 0, len(r.passes)+len(r.overlays)+1)
	out = append(out, r.target)
	out = append(out, r.passes...)
	return append(out, r.overlays...)
}

// Render draws one frame of s at time t.
func (r *Renderer) Render(s *scene.Scene, t float64, fps int) {
	ctx := RenderContext{
		Camera: r.camera,
		Scene:  s,
		Time:   t,
		FPS:    fps,
		Width:  r.width,
		Height: r.height,
		View:   graphics.ViewMatrix(s.Camera),
		Proj:   r.camera.GetProjectionMatrix(),
	}

	func() {
		defer profiling.Track("renderer.scene")()
		r.target.Begin(ctx)
		for _, p := range r.passes {
			p.Render(ctx)
		}
	}()

	func() {
		defer profiling.Track("renderer.post")()
		r.target.Render(ctx)
	}()

	func() {
		defer profiling.Track("renderer.overlay")()
		for _, o := range r.overlays {
			o.Render(ctx)
		}
	}()
}

// Dispose cleans up all renderables in reverse order
func (r *Renderer) Dispose() {
	all := r.all()
	for i := len(all) - 1; i >= 0; i-- {
		all[i].Dispose()
	}
}

// GetCamera returns the camera instance
func (r *Renderer) GetCamera() *graphics.Camera {
	return r.camera
}

// UpdateViewport resizes the camera and every renderable.
func (r *Renderer) UpdateViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.width, r.height = width, height
	r.camera.SetViewport(width, height)
	for _, rr := range r.all() {
		rr.SetViewport(width, height)
	}
}

// Size returns the current framebuffer size.
func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}
