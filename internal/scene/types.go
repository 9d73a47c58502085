package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"contours/internal/mesh"
)

// Transform places one instance of the shared mesh.
type Transform struct {
	Pos   mgl32.Vec3
	Rot   mgl32.Quat
	Scale mgl32.Vec3
}

// Euler is a camera rotation in radians.
type Euler struct {
	Pitch float32
	Yaw   float32
	Roll  float32
}

// Camera is the single active view.
type Camera struct {
	Pos mgl32.Vec3
	Rot Euler
}

// Material selects the shader program by registry name.
type Material struct {
	ShaderName string
}

// RenderItem is a mesh drawn once per instance transform.
type RenderItem struct {
	Vertices  []mesh.Vertex
	Material  Material
	Instances []Transform
}

// PostOptions are the parameters of the full-screen post pass.
type PostOptions struct {
	ChromAmt        float32
	BlurAmt         float32
	BlurRadius      float32
	Bokeh           bool
	BokehFocalDepth float32
	BokehFocalWidth float32
	ColorOffset     mgl32.Vec4
	Noise           float32
	Scanline        float32
	ScanlineCount   int32
}
