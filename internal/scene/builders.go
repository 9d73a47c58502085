package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrInvalidOptions = errors.New("invalid options")

// TransformBuilder starts from the identity transform.
type TransformBuilder struct {
	t Transform
}

// NewTransformBuilder starts from the identity transform.
func NewTransformBuilder() *TransformBuilder {
	return &TransformBuilder{t: Transform{
		Rot:   mgl32.QuatIdent(),
		Scale: mgl32.Vec3{1, 1, 1},
	}}
}

// Pos sets the translation.
func (b *TransformBuilder) Pos(x, y, z float32) *TransformBuilder {
	b.t.Pos = mgl32.Vec3{x, y, z}
	return b
}

// Rot takes the rotation as (x, y, z, w).
func (b *TransformBuilder) Rot(x, y, z, w float32) *TransformBuilder {
	b.t.Rot = mgl32.Quat{W: w, V: mgl32.Vec3{x, y, z}}
	return b
}

// Scale sets the per-axis scale.
func (b *TransformBuilder) Scale(x, y, z float32) *TransformBuilder {
	b.t.Scale = mgl32.Vec3{x, y, z}
	return b
}

// Build validates and returns the transform.
func (b *TransformBuilder) Build() (Transform, error) {
	for _, v := range []float32{
		b.t.Pos[0], b.t.Pos[1], b.t.Pos[2],
		b.t.Rot.W, b.t.Rot.V[0], b.t.Rot.V[1], b.t.Rot.V[2],
		b.t.Scale[0], b.t.Scale[1], b.t.Scale[2],
	} {
		if !finite(v) {
			return Transform{}, fmt.Errorf("%w: transform has non-finite component", ErrInvalidOptions)
		}
	}
	if l := b.t.Rot.Len(); math.Abs(float64(l)-1) > 1e-3 {
		return Transform{}, fmt.Errorf("%w: rotation is not a unit quaternion (len %v)", ErrInvalidOptions, l)
	}
	return b.t, nil
}

// PostOptionsBuilder collects post-effect parameters and validates them.
type PostOptionsBuilder struct {
	o PostOptions
}

func NewPostOptionsBuilder() *PostOptionsBuilder {
	return &PostOptionsBuilder{o: PostOptions{
		ColorOffset:   mgl32.Vec4{1, 1, 1, 1},
		ScanlineCount: 1,
	}}
}

func (b *PostOptionsBuilder) ChromAmt(v float32) *PostOptionsBuilder   { b.o.ChromAmt = v; return b }
func (b *PostOptionsBuilder) BlurAmt(v float32) *PostOptionsBuilder    { b.o.BlurAmt = v; return b }
func (b *PostOptionsBuilder) BlurRadius(v float32) *PostOptionsBuilder { b.o.BlurRadius = v; return b }
func (b *PostOptionsBuilder) Bokeh(v bool) *PostOptionsBuilder         { b.o.Bokeh = v; return b }
func (b *PostOptionsBuilder) BokehFocalDepth(v float32) *PostOptionsBuilder {
	b.o.BokehFocalDepth = v
	return b
}
func (b *PostOptionsBuilder) BokehFocalWidth(v float32) *PostOptionsBuilder {
	b.o.BokehFocalWidth = v
	return b
}
func (b *PostOptionsBuilder) ColorOffset(r, g, bl, a float32) *PostOptionsBuilder {
	b.o.ColorOffset = mgl32.Vec4{r, g, bl, a}
	return b
}
func (b *PostOptionsBuilder) Noise(v float32) *PostOptionsBuilder    { b.o.Noise = v; return b }
func (b *PostOptionsBuilder) Scanline(v float32) *PostOptionsBuilder { b.o.Scanline = v; return b }
func (b *PostOptionsBuilder) ScanlineCount(v int32) *PostOptionsBuilder {
	b.o.ScanlineCount = v
	return b
}

func (b *PostOptionsBuilder) Build() (PostOptions, error) {
	o := b.o
	for name, v := range map[string]float32{
		"chrom_amt":   o.ChromAmt,
		"blur_amt":    o.BlurAmt,
		"blur_radius": o.BlurRadius,
		"noise":       o.Noise,
		"scanline":    o.Scanline,
	} {
		if !finite(v) || v < 0 {
			return PostOptions{}, fmt.Errorf("%w: %s must be a non-negative number, got %v", ErrInvalidOptions, name, v)
		}
	}
	if o.BokehFocalDepth < 0 || o.BokehFocalDepth > 1 {
		return PostOptions{}, fmt.Errorf("%w: bokeh_focal_depth must be in [0,1], got %v", ErrInvalidOptions, o.BokehFocalDepth)
	}
	if o.BokehFocalWidth < 0 || o.BokehFocalWidth > 1 {
		return PostOptions{}, fmt.Errorf("%w: bokeh_focal_width must be in [0,1], got %v", ErrInvalidOptions, o.BokehFocalWidth)
	}
	if o.ScanlineCount <= 0 {
		return PostOptions{}, fmt.Errorf("%w: scanline_count must be positive, got %d", ErrInvalidOptions, o.ScanlineCount)
	}
	return o, nil
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
