package editor

import (
	"fmt"
	"strings"

	"contours/internal/graphics"
	renderer "contours/internal/graphics/renderer"
	"contours/internal/profiling"
	"contours/internal/scene"
	"contours/internal/shaders"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// margin from the top-left corner of the window, in pixels
const margin = 10

// Editor is the debug overlay shown while the scene's editor flag is set.
type Editor struct {
	registry *shaders.Registry
	style    graphics.TextStyle

	shader  *graphics.Shader
	texture uint32
	vao     uint32
	vbo     uint32

	lastText string
	texW     int
	texH     int
	proj     mgl32.Mat4
}

// NewEditor creates the overlay with the default text style.
func NewEditor(reg *shaders.Registry) *Editor {
	return &Editor{registry: reg, style: graphics.DefaultTextStyle()}
}

// Init compiles the overlay program and allocates the quad.
func (e *Editor) Init() error {
	prog, err := e.registry.Lookup(shaders.EditorOverlay)
	if err != nil {
		return err
	}
	e.shader, err = graphics.NewShader(prog)
	if err != nil {
		return err
	}

	gl.GenVertexArrays(1, &e.vao)
	gl.GenBuffers(1, &e.vbo)
	gl.BindVertexArray(e.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, e.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 6*4*4, nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 4*4, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 4*4, 2*4)
	gl.BindVertexArray(0)
	return nil
}

func (e *Editor) SetViewport(width, height int) {
	e.proj = mgl32.Ortho(0, float32(width), float32(height), 0, -1, 1)
}

// Render draws the overlay when the editor is shown, re-rasterising the
// text only when it changed.
func (e *Editor) Render(ctx renderer.RenderContext) {
	if !ctx.Scene.ShowEditor {
		return
	}

	lines := Lines(ctx.Scene, ctx.Time, ctx.FPS, profiling.TopN(3))
	text := strings.Join(lines, "\n")
	if text != e.lastText || e.texture == 0 {
		e.upload(lines)
		e.lastText = text
	}

	gl.Disable(gl.DEPTH_TEST)
	defer gl.Enable(gl.DEPTH_TEST)

	e.shader.Use()
	e.shader.SetMatrix4("projection", &e.proj[0])
	e.shader.SetInt("overlay", 0)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, e.texture)
	gl.BindVertexArray(e.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (e *Editor) upload(lines []string) {
	img := graphics.RasterizeLines(lines, e.style)
	if e.texture == 0 {
		e.texture = graphics.UploadRGBA(img)
	} else {
		graphics.UpdateRGBA(e.texture, img)
	}

	size := img.Rect.Size()
	if size.X == e.texW && size.Y == e.texH {
		return
	}
	e.texW, e.texH = size.X, size.Y
	verts := QuadVertices(margin, margin, float32(size.X), float32(size.Y))
	gl.BindBuffer(gl.ARRAY_BUFFER, e.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(verts)*4, gl.Ptr(verts))
}

// Lines lists what the overlay shows for the current frame.
func Lines(s *scene.Scene, t float64, fps int, top string) []string {
	c := s.Camera
	lines := []string{
		fmt.Sprintf("time    %.1fs", t),
		fmt.Sprintf("fps     %d", fps),
		fmt.Sprintf("shader  %s", s.Item.Material.ShaderName),
		fmt.Sprintf("blur    %.1f", s.Post.BlurRadius),
		fmt.Sprintf("scan    %.2f", s.Post.Scanline),
		fmt.Sprintf("camera  %.1f %.1f %.1f", c.Pos[0], c.Pos[1], c.Pos[2]),
		fmt.Sprintf("pitch   %.3f", c.Rot.Pitch),
	}
	if top != "" {
		lines = append(lines, "slow    "+top)
	}
	return lines
}

// QuadVertices returns two triangles covering the rectangle, position then
// uv. v=0 is the top row of the image.
func QuadVertices(x, y, w, h float32) []float32 {
	return []float32{
		x, y, 0, 0,
		x + w, y, 1, 0,
		x + w, y + h, 1, 1,
		x, y, 0, 0,
		x + w, y + h, 1, 1,
		x, y + h, 0, 1,
	}
}

func (e *Editor) Dispose() {
	if e.texture != 0 {
		gl.DeleteTextures(1, &e.texture)
		e.texture = 0
	}
	if e.vao != 0 {
		gl.DeleteVertexArrays(1, &e.vao)
		e.vao = 0
	}
	if e.vbo != 0 {
		gl.DeleteBuffers(1, &e.vbo)
		e.vbo = 0
	}
	if e.shader != nil {
		e.shader.Delete()
		e.shader = nil
	}
}
