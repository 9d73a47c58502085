package mesh

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is one corner of a triangle.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

// FloatsPerVertex is the interleaved layout produced by Flatten:
// position(3) normal(3) uv(2).
const FloatsPerVertex = 8

const (
	DefaultRings    = 12
	DefaultSegments = 16
)

// DefaultSphere returns the unit sphere used by the demo.
func DefaultSphere() []Vertex {
	return Sphere(DefaultRings, DefaultSegments)
}

// Sphere builds a unit UV sphere as a flat triangle list (no index buffer),
// so every three vertices form one patch for the tessellation stages.
// The pole rows use a single triangle per segment.
func Sphere(rings, segments int) []Vertex {
	if rings < 2 {
		rings = 2
	}
	if segments < 3 {
		segments = 3
	}

	point := func(ring, seg int) Vertex {
		v := float32(ring) / float32(rings)
		u := float32(seg) / float32(segments)
		theta := v * math32.Pi
		phi := u * 2 * math32.Pi

		n := mgl32.Vec3{
			math32.Sin(theta) * math32.Cos(phi),
			math32.Cos(theta),
			math32.Sin(theta) * math32.Sin(phi),
		}
		return Vertex{Position: n, Normal: n, UV: mgl32.Vec2{u, v}}
	}

	out := make([]Vertex, 0, VertexCount(rings, segments))
	for r := 0; r < rings; r++ {
		for s := 0; s < segments; s++ {
			a := point(r, s)
			b := point(r+1, s)
			c := point(r+1, s+1)
			d := point(r, s+1)

			switch r {
			case 0:
				out = append(out, a, b, c)
			case rings - 1:
				out = append(out, a, b, d)
			default:
				out = append(out, a, b, c, a, c, d)
			}
		}
	}
	return out
}

// VertexCount returns len(Sphere(rings, segments)) for valid arguments.
func VertexCount(rings, segments int) int {
	if rings < 2 {
		rings = 2
	}
	if segments < 3 {
		segments = 3
	}
	return segments*3*2 + (rings-2)*segments*6
}

// Flatten interleaves vertices for a GL array buffer.
func Flatten(vs []Vertex) []float32 {
	out := make([]float32, 0, len(vs)*FloatsPerVertex)
	for _, v := range vs {
		out = append(out,
			v.Position[0], v.Position[1], v.Position[2],
			v.Normal[0], v.Normal[1], v.Normal[2],
			v.UV[0], v.UV[1],
		)
	}
	return out
}
