package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshaderplane/scene"
	"github.com/richinsley/goshaderplane/shader"
	xlate "github.com/richinsley/goshaderplane/translator"
	"github.com/richinsley/goshaderplane/uniforms"
	"github.com/rs/zerolog"
)

type scalarSlot struct {
	u   *uniforms.Scalar
	loc int32
}

type colorSlot struct {
	u   *uniforms.Colors
	loc int32
}

// material is the linked plane program and the location of every uniform it
// reads. Locations are resolved once; upload writes the scene's current
// values every frame.
type material struct {
	program uint32
	projLoc int32
	mvLoc   int32
	scalars []scalarSlot
	colors  []colorSlot

	positionLoc uint32
	uvLoc       uint32
}

func newMaterial(s *scene.Scene, log zerolog.Logger) (*material, error) {
	vs, err := xlate.ToGLSL410(s.VertexShader, xlate.Vertex)
	if err != nil {
		return nil, err
	}
	fs, err := xlate.ToGLSL410(s.FragmentShader, xlate.Fragment)
	if err != nil {
		return nil, err
	}

	m := &material{}
	m.program, err = newProgram(vs.Code, fs.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to create plane program: %w", err)
	}
	gl.UseProgram(m.program)

	stages := []*xlate.Translated{vs, fs}
	m.projLoc = uniformLocation(m.program, stages, shader.ProjectionMatrix)
	m.mvLoc = uniformLocation(m.program, stages, shader.ModelViewMatrix)
	if m.projLoc < 0 || m.mvLoc < 0 {
		gl.DeleteProgram(m.program)
		return nil, fmt.Errorf("plane program has no %s/%s", shader.ProjectionMatrix, shader.ModelViewMatrix)
	}

	for _, u := range s.Uniforms.All() {
		name := u.Decl().Name
		loc := uniformLocation(m.program, stages, name)
		if loc < 0 {
			// The GLSL compiler drops uniforms the program never reads.
			log.Warn().Str("uniform", name).Msg("uniform not active in program")
			continue
		}
		switch v := u.(type) {
		case *uniforms.Scalar:
			m.scalars = append(m.scalars, scalarSlot{u: v, loc: loc})
		case *uniforms.Colors:
			m.colors = append(m.colors, colorSlot{u: v, loc: loc})
		}
	}

	m.positionLoc = attribLocation(m.program, vs, "position", shader.AttribPosition)
	m.uvLoc = attribLocation(m.program, vs, "uv", shader.AttribUV)
	gl.UseProgram(0)
	return m, nil
}

// uniformLocation resolves a source uniform name through the translator's
// name map. Arrays are looked up by their first element as a fallback.
func uniformLocation(program uint32, stages []*xlate.Translated, name string) int32 {
	mapped := name
	for _, t := range stages {
		if n, ok := t.MappedName(name); ok {
			mapped = n
			break
		}
		if n, ok := t.MappedName(name + "[0]"); ok {
			mapped = n
			break
		}
	}
	loc := gl.GetUniformLocation(program, gl.Str(mapped+"\x00"))
	if loc < 0 {
		loc = gl.GetUniformLocation(program, gl.Str(mapped+"[0]\x00"))
	}
	return loc
}

func attribLocation(program uint32, vs *xlate.Translated, name string, fallback uint32) uint32 {
	mapped := name
	if n, ok := vs.MappedName(name); ok {
		mapped = n
	}
	if loc := gl.GetAttribLocation(program, gl.Str(mapped+"\x00")); loc >= 0 {
		return uint32(loc)
	}
	return fallback
}

func (m *material) upload(s *scene.Scene) {
	proj := s.Camera.Projection()
	mv := s.ModelView()
	gl.UniformMatrix4fv(m.projLoc, 1, false, &proj[0])
	gl.UniformMatrix4fv(m.mvLoc, 1, false, &mv[0])

	for _, sl := range m.scalars {
		gl.Uniform1f(sl.loc, sl.u.Float32())
	}
	for _, c := range m.colors {
		flat := c.u.Flat()
		gl.Uniform3fv(c.loc, int32(len(flat)/3), &flat[0])
	}
}

func (m *material) destroy() {
	gl.DeleteProgram(m.program)
}
