package editor

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contours/internal/scene"
)

func TestLines(t *testing.T) {
	s := &scene.Scene{
		Item:   scene.RenderItem{Material: scene.Material{ShaderName: "contours_col"}},
		Camera: scene.Camera{Pos: mgl32.Vec3{20, 10, 30}, Rot: scene.Euler{Pitch: 0.125}},
		Post:   scene.PostOptions{BlurRadius: 3, Scanline: 0.04},
	}

	lines := Lines(s, 2.5, 60, "")
	require.Len(t, lines, 7)
	assert.Equal(t, "time    2.5s", lines[0])
	assert.Equal(t, "fps     60", lines[1])
	assert.Equal(t, "shader  contours_col", lines[2])
	assert.Equal(t, "blur    3.0", lines[3])
	assert.Equal(t, "scan    0.04", lines[4])
	assert.Equal(t, "camera  20.0 10.0 30.0", lines[5])
	assert.Equal(t, "pitch   0.125", lines[6])

	lines = Lines(s, 0, 0, "renderer.post:1ms")
	assert.Equal(t, "slow    renderer.post:1ms", lines[len(lines)-1])
}

func TestQuadVertices(t *testing.T) {
	v := QuadVertices(10, 20, 100, 50)
	require.Len(t, v, 24)
	// top-left samples the first image row
	assert.Equal(t, []float32{10, 20, 0, 0}, v[0:4])
	assert.Equal(t, []float32{110, 70, 1, 1}, v[8:12])
	assert.Equal(t, []float32{10, 70, 0, 1}, v[20:24])
}
