package shaders

import (
	"embed"
	"fmt"
)

//go:embed glsl/*
var sources embed.FS

// Names of the programs registered by RegisterDefaults.
const (
	Contours      = "contours"
	ContoursColor = "contours_col"
	PostEffect    = "post_effect"
	EditorOverlay = "editor_overlay"
)

// Source returns the embedded GLSL file glsl/<file>.
func Source(file string) (string, error) {
	b, err := sources.ReadFile("glsl/" + file)
	if err != nil {
		return "", fmt.Errorf("shader source %q: %w", file, err)
	}
	return string(b), nil
}

func mustSource(file string) string {
	s, err := Source(file)
	if err != nil {
		panic(err)
	}
	return s
}

// DefaultVertex is the instancing vertex stage shared by the scene programs.
// It outputs world-space positions and leaves projection to later stages.
func DefaultVertex() string { return mustSource("default.vert") }

// ContoursPrograms returns the two contour programs. They share every stage
// except the fragment shader.
func ContoursPrograms() []Program {
	vert := DefaultVertex()
	geom := mustSource("contours.geom")
	tesc := mustSource("contours.tesc")
	tese := mustSource("contours.tese")

	return []Program{
		{
			Name:        Contours,
			Vertex:      vert,
			Fragment:    mustSource("contours.frag"),
			Geometry:    geom,
			TessControl: tesc,
			TessEval:    tese,
		},
		{
			Name:        ContoursColor,
			Vertex:      vert,
			Fragment:    mustSource("contours_col.frag"),
			Geometry:    geom,
			TessControl: tesc,
			TessEval:    tese,
		},
	}
}

// HostPrograms returns the programs used by the host passes.
func HostPrograms() []Program {
	return []Program{
		{Name: PostEffect, Vertex: mustSource("post.vert"), Fragment: mustSource("post.frag")},
		{Name: EditorOverlay, Vertex: mustSource("overlay.vert"), Fragment: mustSource("overlay.frag")},
	}
}

// RegisterContours registers "contours" and "contours_col".
func RegisterContours(r *Registry) error {
	for _, p := range ContoursPrograms() {
		if err := r.Register(p); err != nil {
			return err
		}
	}
	return nil
}

// RegisterHost registers the post-effect and overlay programs.
func RegisterHost(r *Registry) error {
	for _, p := range HostPrograms() {
		if err := r.Register(p); err != nil {
			return err
		}
	}
	return nil
}
