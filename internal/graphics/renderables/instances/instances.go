package instances

import (
	"fmt"

	"contours/internal/graphics"
	renderer "contours/internal/graphics/renderer"
	"contours/internal/logging"
	"contours/internal/mesh"
	"contours/internal/profiling"
	"contours/internal/scene"
	"contours/internal/shaders"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// FloatsPerInstance is the per-instance layout: position(3) rotation(4) scale(3).
const FloatsPerInstance = 10

// Attribute locations shared with the default vertex stage.
const (
	attribPosition      = 0
	attribNormal        = 1
	attribUV            = 2
	attribWorldPosition = 3
	attribWorldRotation = 4
	attribWorldScale    = 5
)

// Instances draws the render item's mesh once per instance transform with
// the program named by its material.
type Instances struct {
	registry *shaders.Registry
	log      logging.Logger
	vertices []mesh.Vertex

	programs map[string]*graphics.Shader
	missing  map[string]bool

	vao         uint32
	meshVBO     uint32
	instanceVBO uint32
	vertexCount int32

	buf []float32
}

// NewInstances creates the renderable for the given mesh.
func NewInstances(reg *shaders.Registry, vertices []mesh.Vertex, log logging.Logger) *Instances {
	return &Instances{
		registry: reg,
		log:      log,
		vertices: vertices,
		programs: make(map[string]*graphics.Shader),
		missing:  make(map[string]bool),
	}
}

// Init compiles every tessellated program in the registry and uploads the mesh.
func (r *Instances) Init() error {
	for _, name := range r.registry.Names() {
		p, err := r.registry.Lookup(name)
		if err != nil {
			return err
		}
		if !p.Tessellated() {
			continue
		}
		sh, err := graphics.NewShader(p)
		if err != nil {
			return err
		}
		r.programs[name] = sh
	}
	if len(r.programs) == 0 {
		return fmt.Errorf("no tessellated programs registered")
	}

	r.setupVAO()
	return nil
}

func (r *Instances) setupVAO() {
	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	verts := mesh.Flatten(r.vertices)
	r.vertexCount = int32(len(r.vertices))

	gl.GenBuffers(1, &r.meshVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.meshVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.STATIC_DRAW)

	stride := int32(mesh.FloatsPerVertex * 4)
	gl.EnableVertexAttribArray(attribPosition)
	gl.VertexAttribPointerWithOffset(attribPosition, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(attribNormal)
	gl.VertexAttribPointerWithOffset(attribNormal, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(attribUV)
	gl.VertexAttribPointerWithOffset(attribUV, 2, gl.FLOAT, false, stride, 6*4)

	gl.GenBuffers(1, &r.instanceVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.instanceVBO)

	istride := int32(FloatsPerInstance * 4)
	gl.EnableVertexAttribArray(attribWorldPosition)
	gl.VertexAttribPointerWithOffset(attribWorldPosition, 3, gl.FLOAT, false, istride, 0)
	gl.VertexAttribDivisor(attribWorldPosition, 1)
	gl.EnableVertexAttribArray(attribWorldRotation)
	gl.VertexAttribPointerWithOffset(attribWorldRotation, 4, gl.FLOAT, false, istride, 3*4)
	gl.VertexAttribDivisor(attribWorldRotation, 1)
	gl.EnableVertexAttribArray(attribWorldScale)
	gl.VertexAttribPointerWithOffset(attribWorldScale, 3, gl.FLOAT, false, istride, 7*4)
	gl.VertexAttribDivisor(attribWorldScale, 1)

	gl.BindVertexArray(0)
}

// Render uploads the current transforms and draws the instanced patches.
func (r *Instances) Render(ctx renderer.RenderContext) {
	item := &ctx.Scene.Item
	if len(item.Instances) == 0 {
		return
	}

	sh, ok := r.programs[item.Material.ShaderName]
	if !ok {
		if !r.missing[item.Material.ShaderName] {
			r.missing[item.Material.ShaderName] = true
			r.log.Warnf("no compiled program %q, skipping render item", item.Material.ShaderName)
		}
		return
	}

	func() {
		defer profiling.Track("renderer.uploadInstances")()
		r.buf = PackInstances(r.buf[:0], item.Instances)
		gl.BindBuffer(gl.ARRAY_BUFFER, r.instanceVBO)
		gl.BufferData(gl.ARRAY_BUFFER, len(r.buf)*4, gl.Ptr(r.buf), gl.STREAM_DRAW)
	}()

	sh.Use()
	sh.SetMatrix4("projection_matrix", &ctx.Proj[0])
	sh.SetMatrix4("modelview_matrix", &ctx.View[0])
	sh.SetFloat("time", float32(ctx.Time))

	gl.BindVertexArray(r.vao)
	gl.PatchParameteri(gl.PATCH_VERTICES, 3)
	gl.DrawArraysInstanced(gl.PATCHES, 0, r.vertexCount, int32(len(item.Instances)))
	gl.BindVertexArray(0)
}

// PackInstances appends the transforms to dst in instance buffer layout.
// Rotation is written as (x, y, z, w).
func PackInstances(dst []float32, ts []scene.Transform) []float32 {
	for _, t := range ts {
		dst = append(dst,
			t.Pos[0], t.Pos[1], t.Pos[2],
			t.Rot.V[0], t.Rot.V[1], t.Rot.V[2], t.Rot.W,
			t.Scale[0], t.Scale[1], t.Scale[2],
		)
	}
	return dst
}

// Dispose cleans up OpenGL resources
func (r *Instances) Dispose() {
	for _, sh := range r.programs {
		sh.Delete()
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
	if r.meshVBO != 0 {
		gl.DeleteBuffers(1, &r.meshVBO)
		r.meshVBO = 0
	}
	if r.instanceVBO != 0 {
		gl.DeleteBuffers(1, &r.instanceVBO)
		r.instanceVBO = 0
	}
}

func (r *Instances) SetViewport(width, height int) {}
