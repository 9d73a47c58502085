package graphics

import (
	"github.com/go-gl/mathgl/mgl32"

	"contours/internal/scene"
)

// Camera handles the projection matrix and turns a scene camera into a view.
type Camera struct {
	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32
}

func NewCamera(width, height int) *Camera {
	c := &Camera{
		FOV:       45.0,
		NearPlane: 0.1,
		FarPlane:  1000.0,
	}
	c.SetViewport(width, height)
	return c
}

// SetViewport updates the aspect ratio; a zero height (minimised window) is ignored.
func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.AspectRatio = float32(width) / float32(height)
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

// ViewMatrix is the inverse of the camera's world transform. The camera
// looks down -Z; yaw turns around Y, pitch around X, roll around Z.
func ViewMatrix(cam scene.Camera) mgl32.Mat4 {
	r := cam.Rot
	rot := mgl32.HomogRotate3DZ(-r.Roll).
		Mul4(mgl32.HomogRotate3DX(-r.Pitch)).
		Mul4(mgl32.HomogRotate3DY(-r.Yaw))
	return rot.Mul4(mgl32.Translate3D(-cam.Pos[0], -cam.Pos[1], -cam.Pos[2]))
}
