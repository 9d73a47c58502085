package graphics

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"

	"contours/internal/shaders"
)

// Shader is a linked OpenGL program built from a registry entry.
type Shader struct {
	ID          uint32
	Name        string
	Tessellated bool

	uniforms map[string]int32
}

type stage struct {
	kind   uint32
	label  string
	source string
}

// stagesOf lists the stages of p in pipeline order, skipping empty ones.
func stagesOf(p shaders.Program) []stage {
	all := []stage{
		{gl.VERTEX_SHADER, "vertex", p.Vertex},
		{gl.TESS_CONTROL_SHADER, "tess control", p.TessControl},
		{gl.TESS_EVALUATION_SHADER, "tess eval", p.TessEval},
		{gl.GEOMETRY_SHADER, "geometry", p.Geometry},
		{gl.FRAGMENT_SHADER, "fragment", p.Fragment},
	}
	out := all[:0]
	for _, s := range all {
		if s.source != "" {
			out = append(out, s)
		}
	}
	return out
}

// NewShader compiles and links every stage of p.
func NewShader(p shaders.Program) (*Shader, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	program, err := compileProgram(stagesOf(p))
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", p.Name, err)
	}

	return &Shader{
		ID:          program,
		Name:        p.Name,
		Tessellated: p.Tessellated(),
		uniforms:    make(map[string]int32),
	}, nil
}

// Use activates the shader program
func (s *Shader) Use() {
	gl.UseProgram(s.ID)
}

// Delete releases the program.
func (s *Shader) Delete() {
	if s.ID != 0 {
		gl.DeleteProgram(s.ID)
		s.ID = 0
	}
}

func (s *Shader) location(name string) int32 {
	if loc, ok := s.uniforms[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(s.ID, gl.Str(name+"\x00"))
	s.uniforms[name] = loc
	return loc
}

// SetBool sets a boolean uniform
func (s *Shader) SetBool(name string, value bool) {
	var intValue int32
	if value {
		intValue = 1
	}
	gl.Uniform1i(s.location(name), intValue)
}

// SetInt sets an integer uniform
func (s *Shader) SetInt(name string, value int32) {
	gl.Uniform1i(s.location(name), value)
}

// SetFloat sets a float uniform
func (s *Shader) SetFloat(name string, value float32) {
	gl.Uniform1f(s.location(name), value)
}

func (s *Shader) SetVector2(name string, x, y float32) {
	gl.Uniform2f(s.location(name), x, y)
}

func (s *Shader) SetVector3(name string, x, y, z float32) {
	gl.Uniform3f(s.location(name), x, y, z)
}

func (s *Shader) SetVector4(name string, x, y, z, w float32) {
	gl.Uniform4f(s.location(name), x, y, z, w)
}

// SetMatrix4 sets a 4x4 matrix uniform
func (s *Shader) SetMatrix4(name string, value *float32) {
	gl.UniformMatrix4fv(s.location(name), 1, false, value)
}

func compileProgram(stages []stage) (uint32, error) {
	compiled := make([]uint32, 0, len(stages))
	defer func() {
		for _, sh := range compiled {
			gl.DeleteShader(sh)
		}
	}()

	for _, st := range stages {
		sh, err := compileShader(st.source, st.kind)
		if err != nil {
			return 0, fmt.Errorf("%s stage: %w", st.label, err)
		}
		compiled = append(compiled, sh)
	}

	program := gl.CreateProgram()
	for _, sh := range compiled {
		gl.AttachShader(program, sh)
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		return 0, fmt.Errorf("failed to link program: %v", log)
	}
	for _, sh := range compiled {
		gl.DetachShader(program, sh)
	}
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		return 0, fmt.Errorf("failed to compile shader: %v", log)
	}
	return shader, nil
}
