package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshaderplane/graphics"
	"github.com/richinsley/goshaderplane/scene"
	"github.com/richinsley/goshaderplane/shader"
	"github.com/richinsley/goshaderplane/viewport"
	"github.com/rs/zerolog"
)

var glInitOnce sync.Once

var ErrNotLoaded = errors.New("renderer: no scene loaded")

// Renderer draws a scene into an offscreen target sized by the drawing
// buffer and blits it to the window.
type Renderer struct {
	context     graphics.Context
	log         zerolog.Logger
	quadVAO     uint32
	quadVBO     uint32
	blitProgram uint32
	blitTexLoc  int32

	material  *material
	mesh      *gpuMesh
	offscreen *offscreenTarget
	state     viewport.State

	ClearColor [4]float32
}

// New makes ctx current, loads the GL entry points and builds the blit pass.
func New(ctx graphics.Context, log zerolog.Logger) (*Renderer, error) {
	r := &Renderer{context: ctx, log: log, ClearColor: [4]float32{0, 0, 0, 1}}

	r.context.MakeCurrent()
	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}
	r.log.Info().
		Str("version", gl.GoStr(gl.GetString(gl.VERSION))).
		Str("renderer", gl.GoStr(gl.GetString(gl.RENDERER))).
		Msg("OpenGL initialized")

	r.quadVAO, r.quadVBO = newQuad()
	var err error
	r.blitProgram, err = newProgram(shader.QuadVertexShader(), shader.BlitFragmentShader())
	if err != nil {
		return nil, fmt.Errorf("failed to create blit program: %w", err)
	}
	r.blitTexLoc = gl.GetUniformLocation(r.blitProgram, gl.Str("u_texture\x00"))
	return r, nil
}

// Load translates and links the scene's programs and uploads its mesh.
func (r *Renderer) Load(s *scene.Scene) error {
	m, err := newMaterial(s, r.log)
	if err != nil {
		return err
	}
	if r.material != nil {
		r.material.destroy()
	}
	r.material = m

	if r.mesh != nil {
		r.mesh.destroy()
	}
	r.mesh = uploadMesh(s.Mesh, m.positionLoc, m.uvLoc)
	r.log.Info().Int("vertices", s.Mesh.VertexCount()).Int("indices", len(s.Mesh.Indices)).Msg("scene loaded")
	return nil
}

// SetSize resizes the offscreen target to width×height window units at
// pixelRatio device pixels per unit.
func (r *Renderer) SetSize(width, height int, pixelRatio float64) {
	r.state = viewport.State{Width: width, Height: height, PixelRatio: pixelRatio}
	bw, bh := r.state.DrawingBufferSize()

	var err error
	if r.offscreen == nil {
		r.offscreen, err = newOffscreenTarget(bw, bh)
	} else if r.offscreen.width != bw || r.offscreen.height != bh {
		err = r.offscreen.resize(bw, bh)
	}
	if err != nil {
		r.log.Error().Err(err).Msg("offscreen resize failed")
		return
	}
	r.log.Debug().Int("width", bw).Int("height", bh).Msg("drawing buffer")
}

// DrawingBufferSize is the size of the offscreen target in device pixels.
func (r *Renderer) DrawingBufferSize() (int, int) {
	if r.offscreen == nil {
		return 0, 0
	}
	return r.offscreen.width, r.offscreen.height
}

// Render draws one frame with the scene's current uniforms and camera.
func (r *Renderer) Render(s *scene.Scene) error {
	if r.material == nil || r.mesh == nil || r.offscreen == nil {
		return ErrNotLoaded
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, r.offscreen.fbo)
	gl.Viewport(0, 0, int32(r.offscreen.width), int32(r.offscreen.height))
	gl.Enable(gl.DEPTH_TEST)
	gl.ClearColor(r.ClearColor[0], r.ClearColor[1], r.ClearColor[2], r.ClearColor[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.UseProgram(r.material.program)
	r.material.upload(s)
	r.mesh.draw()
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	r.blit()
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("gl error 0x%x", code)
	}
	return nil
}

func (r *Renderer) blit() {
	fbWidth, fbHeight := r.context.GetFramebufferSize()
	gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))
	gl.Disable(gl.DEPTH_TEST)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.UseProgram(r.blitProgram)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.offscreen.textureID)
	if r.blitTexLoc >= 0 {
		gl.Uniform1i(r.blitTexLoc, 0)
	}
	gl.BindVertexArray(r.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// ReadFrame returns the last rendered frame as tightly packed RGBA rows,
// bottom row first. buf is reused when large enough.
func (r *Renderer) ReadFrame(buf []byte) ([]byte, error) {
	if r.offscreen == nil {
		return nil, ErrNotLoaded
	}
	return r.offscreen.readRGBA(buf), nil
}

func (r *Renderer) Shutdown() {
	if r.material != nil {
		r.material.destroy()
	}
	if r.mesh != nil {
		r.mesh.destroy()
	}
	if r.offscreen != nil {
		r.offscreen.destroy()
	}
	gl.DeleteProgram(r.blitProgram)
	gl.DeleteVertexArrays(1, &r.quadVAO)
	gl.DeleteBuffers(1, &r.quadVBO)
	r.context.Shutdown()
}
