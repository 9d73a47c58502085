package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contours/internal/config"
	"contours/internal/shaders"
)

func newTestScene(t *testing.T) *Scene {
	t.Helper()
	s, err := New(config.DefaultConfig(), shaders.NewRegistry())
	require.NoError(t, err)
	return s
}

func TestNew_InitialScene(t *testing.T) {
	s := newTestScene(t)

	assert.Equal(t, InitialCameraPos, s.Camera.Pos)
	assert.Equal(t, Euler{}, s.Camera.Rot)
	assert.Equal(t, shaders.Contours, s.Item.Material.ShaderName)
	assert.NotEmpty(t, s.Item.Vertices)
	require.Len(t, s.Item.Instances, InstanceCount)

	assert.True(t, s.Shaders().Has(shaders.Contours))
	assert.True(t, s.Shaders().Has(shaders.ContoursColor))
	assert.False(t, s.ShowEditor)
}

func TestNew_DefaultPostOptions(t *testing.T) {
	s := newTestScene(t)
	want := PostOptions{
		ChromAmt:        1,
		BlurAmt:         2,
		BlurRadius:      6,
		Bokeh:           true,
		BokehFocalDepth: 0.45,
		BokehFocalWidth: 0.4,
		ColorOffset:     mgl32.Vec4{1, 0.8, 1, 1},
		Noise:           0.3,
		Scanline:        0.04,
		ScanlineCount:   200,
	}
	assert.Equal(t, want, s.Post)
}

func TestNew_RegistryConflict(t *testing.T) {
	reg := shaders.NewRegistry()
	require.NoError(t, shaders.RegisterContours(reg))
	_, err := New(config.DefaultConfig(), reg)
	assert.ErrorIs(t, err, shaders.ErrDuplicate)
}

func TestInstanceTransforms_Layout(t *testing.T) {
	ts, err := InstanceTransforms(InstanceCount)
	require.NoError(t, err)

	cases := []struct {
		i    int
		x, y float32
	}{
		{0, 0, 0},
		{1, 0.2, 2},
		{9, 1.8, 18},
		{10, 2, 0},
		{15, 3, 10},
		{199, 39.8, 18},
	}
	for _, c := range cases {
		p := ts[c.i].Pos
		assert.InDelta(t, c.x, p[0], 1e-5, "x of instance %d", c.i)
		assert.InDelta(t, c.y, p[1], 1e-5, "y of instance %d", c.i)
		assert.Zero(t, p[2])
	}
	for _, tr := range ts {
		assert.Equal(t, mgl32.QuatIdent(), tr.Rot)
		assert.Equal(t, mgl32.Vec3{1, 1, 1}, tr.Scale)
	}
}

func TestTransformBuilder_Validation(t *testing.T) {
	_, err := NewTransformBuilder().Rot(0, 0, 0, 2).Build()
	assert.ErrorIs(t, err, ErrInvalidOptions)

	nan := float32(0)
	nan = nan / nan
	_, err = NewTransformBuilder().Pos(nan, 0, 0).Build()
	assert.ErrorIs(t, err, ErrInvalidOptions)

	tr, err := NewTransformBuilder().Build()
	require.NoError(t, err)
	assert.Equal(t, mgl32.QuatIdent(), tr.Rot)
}

func TestPostOptionsBuilder_Validation(t *testing.T) {
	tests := []struct {
		name string
		b    *PostOptionsBuilder
	}{
		{"negative blur", NewPostOptionsBuilder().BlurAmt(-1)},
		{"negative noise", NewPostOptionsBuilder().Noise(-0.1)},
		{"focal depth out of range", NewPostOptionsBuilder().BokehFocalDepth(1.5)},
		{"focal width out of range", NewPostOptionsBuilder().BokehFocalWidth(-0.5)},
		{"zero scanlines", NewPostOptionsBuilder().ScanlineCount(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.b.Build()
			assert.ErrorIs(t, err, ErrInvalidOptions)
		})
	}

	_, err := PostOptionsFromConfig(config.PostEffectConfig{ScanlineCount: 1, ColorOffset: []float32{1, 1}})
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestApply(t *testing.T) {
	s := newTestScene(t)
	before := s.Post

	moved := make([]Transform, len(s.Item.Instances))
	copy(moved, s.Item.Instances)
	moved[3].Pos[2] = 1.5

	d := Delta{
		Camera:     Camera{Pos: mgl32.Vec3{1, 2, 3}, Rot: Euler{Pitch: 0.1}},
		ShaderName: shaders.ContoursColor,
		BlurRadius: 3,
		Scanline:   0,
		Instances:  moved,
		ShowEditor: true,
		HideMouse:  false,
	}
	require.NoError(t, s.Apply(d))

	assert.Equal(t, d.Camera, s.Camera)
	assert.Equal(t, shaders.ContoursColor, s.Item.Material.ShaderName)
	assert.Equal(t, float32(3), s.Post.BlurRadius)
	assert.Zero(t, s.Post.Scanline)
	assert.Equal(t, float32(1.5), s.Item.Instances[3].Pos[2])
	assert.True(t, s.ShowEditor)
	assert.False(t, s.HideMouse)

	// only the two live-tweaked fields move
	before.BlurRadius, before.Scanline = 3, 0
	assert.Equal(t, before, s.Post)

	// the delta owns its slice; later edits do not leak in
	moved[3].Pos[2] = 9
	assert.Equal(t, float32(1.5), s.Item.Instances[3].Pos[2])
}

func TestApply_Rejections(t *testing.T) {
	s := newTestScene(t)

	err := s.Apply(Delta{ShaderName: "unknown", Instances: s.Item.Instances[:1], BlurRadius: 6})
	assert.ErrorIs(t, err, shaders.ErrNotFound)
	assert.ErrorIs(t, err, ErrInstanceMismatch)
	assert.Equal(t, shaders.Contours, s.Item.Material.ShaderName)
	assert.Len(t, s.Item.Instances, InstanceCount)
	assert.Equal(t, float32(6), s.Post.BlurRadius)
}
