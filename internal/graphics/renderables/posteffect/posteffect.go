package posteffect

import (
	"fmt"

	"contours/internal/graphics"
	renderer "contours/internal/graphics/renderer"
	"contours/internal/scene"
	"contours/internal/shaders"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// quad covers clip space; uv follows GL texture orientation.
var quad = []float32{
	// position  // uv
	-1, -1, 0, 0,
	1, -1, 1, 0,
	1, 1, 1, 1,
	-1, -1, 0, 0,
	1, 1, 1, 1,
	-1, 1, 0, 1,
}

// PostEffect is the offscreen target the scene passes draw into. Render
// composites it to the default framebuffer with the post-effect program.
type PostEffect struct {
	registry   *shaders.Registry
	clearColor [4]float32

	shader *graphics.Shader

	fbo          uint32
	colorTexture uint32
	depthTexture uint32
	vao          uint32
	vbo          uint32

	width, height int
}

// NewPostEffect creates the target. clearColor is used for the offscreen clear.
func NewPostEffect(reg *shaders.Registry, clearColor [4]float32) *PostEffect {
	return &PostEffect{registry: reg, clearColor: clearColor}
}

// Init compiles the post program and sets up the quad. The framebuffer is
// allocated on the first SetViewport.
func (p *PostEffect) Init() error {
	prog, err := p.registry.Lookup(shaders.PostEffect)
	if err != nil {
		return err
	}
	p.shader, err = graphics.NewShader(prog)
	if err != nil {
		return err
	}

	gl.GenVertexArrays(1, &p.vao)
	gl.GenBuffers(1, &p.vbo)
	gl.BindVertexArray(p.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, p.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quad)*4, gl.Ptr(quad), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 4*4, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 4*4, 2*4)

	gl.BindVertexArray(0)
	return nil
}

// SetViewport reallocates the framebuffer attachments for the new size.
func (p *PostEffect) SetViewport(width, height int) {
	if width <= 0 || height <= 0 || (width == p.width && height == p.height && p.fbo != 0) {
		return
	}
	p.width, p.height = width, height
	p.deleteFramebuffer()
	if err := p.setupFramebuffer(); err != nil {
		// Render falls back to a direct draw while the target is unusable.
		p.deleteFramebuffer()
	}
}

func (p *PostEffect) setupFramebuffer() error {
	gl.GenFramebuffers(1, &p.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, p.fbo)

	gl.GenTextures(1, &p.colorTexture)
	gl.BindTexture(gl.TEXTURE_2D, p.colorTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(p.width), int32(p.height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, p.colorTexture, 0)

	// Depth is sampled by the bokeh pass, so it is a texture rather than a renderbuffer.
	gl.GenTextures(1, &p.depthTexture)
	gl.BindTexture(gl.TEXTURE_2D, p.depthTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT24, int32(p.width), int32(p.height), 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, p.depthTexture, 0)

	gl.BindTexture(gl.TEXTURE_2D, 0)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("framebuffer not complete: 0x%x", status)
	}
	return nil
}

func (p *PostEffect) deleteFramebuffer() {
	if p.fbo != 0 {
		gl.DeleteFramebuffers(1, &p.fbo)
		p.fbo = 0
	}
	if p.colorTexture != 0 {
		gl.DeleteTextures(1, &p.colorTexture)
		p.colorTexture = 0
	}
	if p.depthTexture != 0 {
		gl.DeleteTextures(1, &p.depthTexture)
		p.depthTexture = 0
	}
}

// Begin redirects drawing into the offscreen target and clears it.
func (p *PostEffect) Begin(ctx renderer.RenderContext) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, p.fbo)
	gl.Viewport(0, 0, int32(ctx.Width), int32(ctx.Height))
	c := p.clearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Render composites the offscreen target onto the default framebuffer.
func (p *PostEffect) Render(ctx renderer.RenderContext) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if p.fbo == 0 {
		return
	}

	gl.Viewport(0, 0, int32(ctx.Width), int32(ctx.Height))
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.Disable(gl.DEPTH_TEST)
	defer gl.Enable(gl.DEPTH_TEST)

	p.shader.Use()

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, p.colorTexture)
	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, p.depthTexture)
	gl.ActiveTexture(gl.TEXTURE0)

	u := UniformsFor(ctx.Scene.Post, ctx.Time, ctx.Width, ctx.Height)
	for name, v := range u.Ints {
		p.shader.SetInt(name, v)
	}
	for name, v := range u.Floats {
		switch len(v) {
		case 1:
			p.shader.SetFloat(name, v[0])
		case 2:
			p.shader.SetVector2(name, v[0], v[1])
		case 4:
			p.shader.SetVector4(name, v[0], v[1], v[2], v[3])
		}
	}

	gl.BindVertexArray(p.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(quad)/4))
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Uniforms is the full uniform set of the post program for one frame.
type Uniforms struct {
	Floats map[string][]float32
	Ints   map[string]int32
}

// UniformsFor maps the post-effect record to shader uniforms. Samplers are
// fixed to units 0 (color) and 1 (depth).
func UniformsFor(o scene.PostOptions, t float64, width, height int) Uniforms {
	bokeh := int32(0)
	if o.Bokeh {
		bokeh = 1
	}
	return Uniforms{
		Floats: map[string][]float32{
			"resolution":        {float32(width), float32(height)},
			"time":              {float32(t)},
			"chrom_amt":         {o.ChromAmt},
			"blur_amt":          {o.BlurAmt},
			"blur_radius":       {o.BlurRadius},
			"bokeh_focal_depth": {o.BokehFocalDepth},
			"bokeh_focal_width": {o.BokehFocalWidth},
			"color_offset":      {o.ColorOffset[0], o.ColorOffset[1], o.ColorOffset[2], o.ColorOffset[3]},
			"noise":             {o.Noise},
			"scanline":          {o.Scanline},
		},
		Ints: map[string]int32{
			"tex":            0,
			"depth_buf":      1,
			"bokeh":          bokeh,
			"scanline_count": o.ScanlineCount,
		},
	}
}

// Dispose cleans up OpenGL resources
func (p *PostEffect) Dispose() {
	p.deleteFramebuffer()
	if p.vao != 0 {
		gl.DeleteVertexArrays(1, &p.vao)
		p.vao = 0
	}
	if p.vbo != 0 {
		gl.DeleteBuffers(1, &p.vbo)
		p.vbo = 0
	}
	if p.shader != nil {
		p.shader.Delete()
		p.shader = nil
	}
}
