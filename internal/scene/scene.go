package scene

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"contours/internal/config"
	"contours/internal/mesh"
	"contours/internal/shaders"
)

const (
	InstanceCount = 200
	GridWidth     = 10
	GridSpacing   = 2
)

// InitialCameraPos is where the camera sits before the first frame.
var InitialCameraPos = mgl32.Vec3{20, 10, 25}

var ErrInstanceMismatch = errors.New("instance count mismatch")

// Scene is the one render item, camera and post-effect record of the demo.
type Scene struct {
	Item       RenderItem
	Camera     Camera
	Post       PostOptions
	ShowEditor bool
	HideMouse  bool

	shaders *shaders.Registry
}

// New registers the contour programs in reg and builds the initial scene.
func New(cfg *config.Config, reg *shaders.Registry) (*Scene, error) {
	if err := shaders.RegisterContours(reg); err != nil {
		return nil, fmt.Errorf("register contour shaders: %w", err)
	}

	transforms, err := InstanceTransforms(InstanceCount)
	if err != nil {
		return nil, err
	}

	post, err := PostOptionsFromConfig(cfg.PostEffect)
	if err != nil {
		return nil, err
	}

	return &Scene{
		Item: RenderItem{
			Vertices:  mesh.DefaultSphere(),
			Material:  Material{ShaderName: shaders.Contours},
			Instances: transforms,
		},
		Camera:    Camera{Pos: InitialCameraPos},
		Post:      post,
		HideMouse: true,
		shaders:   reg,
	}, nil
}

// Must panics when a scene built from constant inputs fails.
func Must(s *Scene, err error) *Scene {
	if err != nil {
		panic(err)
	}
	return s
}

// InstanceTransforms lays out n instances. x advances by GridSpacing every
// GridWidth instances but uses float division, so the columns are spread
// continuously; y repeats every GridWidth instances.
func InstanceTransforms(n int) ([]Transform, error) {
	out := make([]Transform, 0, n)
	for i := 0; i < n; i++ {
		f := float32(i)
		t, err := NewTransformBuilder().
			Pos((f/GridWidth)*GridSpacing, float32(i%GridWidth)*GridSpacing, 0).
			Rot(0, 0, 0, 1).
			Scale(1, 1, 1).
			Build()
		if err != nil {
			return nil, fmt.Errorf("instance %d: %w", i, err)
		}
		out = append(out, t)
	}
	return out, nil
}

// PostOptionsFromConfig builds validated post-effect options.
func PostOptionsFromConfig(pe config.PostEffectConfig) (PostOptions, error) {
	if len(pe.ColorOffset) != 4 {
		return PostOptions{}, fmt.Errorf("%w: color_offset needs 4 components", ErrInvalidOptions)
	}
	c := pe.ColorOffset
	return NewPostOptionsBuilder().
		ChromAmt(pe.ChromAmt).
		BlurAmt(pe.BlurAmt).
		BlurRadius(pe.BlurRadius).
		Bokeh(pe.Bokeh).
		BokehFocalDepth(pe.BokehFocalDepth).
		BokehFocalWidth(pe.BokehFocalWidth).
		ColorOffset(c[0], c[1], c[2], c[3]).
		Noise(pe.Noise).
		Scanline(pe.Scanline).
		ScanlineCount(pe.ScanlineCount).
		Build()
}

// Shaders returns the registry the scene's materials resolve against.
func (s *Scene) Shaders() *shaders.Registry {
	return s.shaders
}

// Delta is what one frame of animation changes.
type Delta struct {
	Camera     Camera
	ShaderName string
	BlurRadius float32
	Scanline   float32
	Instances  []Transform
	ShowEditor bool
	HideMouse  bool
}

// Apply writes d into the scene. Every field is applied; an unknown
// shader name leaves the material as it was and is reported, as is a
// transform list whose length does not match the render item.
func (s *Scene) Apply(d Delta) error {
	var errs []error

	s.Camera = d.Camera
	s.Post.BlurRadius = d.BlurRadius
	s.Post.Scanline = d.Scanline
	s.ShowEditor = d.ShowEditor
	s.HideMouse = d.HideMouse

	if s.shaders != nil && !s.shaders.Has(d.ShaderName) {
		errs = append(errs, fmt.Errorf("%w: %s", shaders.ErrNotFound, d.ShaderName))
	} else {
		s.Item.Material.ShaderName = d.ShaderName
	}

	if len(d.Instances) != len(s.Item.Instances) {
		errs = append(errs, fmt.Errorf("%w: got %d, want %d", ErrInstanceMismatch, len(d.Instances), len(s.Item.Instances)))
	} else {
		copy(s.Item.Instances, d.Instances)
	}

	return errors.Join(errs...)
}
