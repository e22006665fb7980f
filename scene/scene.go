package scene

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goshaderplane/camera"
	"github.com/richinsley/goshaderplane/geometry"
	"github.com/richinsley/goshaderplane/palette"
	"github.com/richinsley/goshaderplane/params"
	"github.com/richinsley/goshaderplane/shader"
	"github.com/richinsley/goshaderplane/uniforms"
)

// ScalarBinding ties a scalar parameter to the uniform it drives.
type ScalarBinding struct {
	Param   string
	Uniform string
}

// ScalarBindings lists every scalar parameter that reaches the shader.
var ScalarBindings = []ScalarBinding{
	{params.Elevation, shader.UElevation},
	{params.GeometrySpeed, shader.UGeometrySpeed},
	{params.ColorSpeed, shader.UColorSpeed},
	{params.Incline, shader.UIncline},
	{params.Tilt, shader.UTilt},
	{params.ColorFrequencyX, shader.UColorFrequencyX},
	{params.ColorFrequencyY, shader.UColorFrequencyY},
}

// Config describes the plane and camera.
type Config struct {
	PlaneSize float32
	Segments  int
	PlaneTilt float32 // rotation about X applied to the mesh, radians

	FOV            float32
	Near           float32
	Far            float32
	CameraPosition mgl32.Vec3
	Aspect         float32

	VertexShader   string
	FragmentShader string
}

func DefaultConfig() Config {
	return Config{
		PlaneSize:      2.5,
		Segments:       180,
		PlaneTilt:      float32(math.Pi * -0.1),
		FOV:            75,
		Near:           0.1,
		Far:            100,
		CameraPosition: mgl32.Vec3{0, 0, 0.9},
		Aspect:         1,
		VertexShader:   shader.PlaneVertexShader(),
		FragmentShader: shader.PlaneFragmentShader(),
	}
}

// Scene is the whole object graph: one shaded mesh seen by one camera.
// There are no lights.
type Scene struct {
	Mesh           *geometry.Mesh
	VertexShader   string
	FragmentShader string
	Uniforms       *uniforms.Set
	Camera         *camera.Perspective

	Time    *uniforms.Scalar
	Palette *uniforms.Colors
}

// Compose builds the scene with every uniform initialized from store and pal.
func Compose(cfg Config, store *params.Store, pal palette.Source) (*Scene, error) {
	mesh, err := geometry.NewPlane(cfg.PlaneSize, cfg.PlaneSize, cfg.Segments, cfg.Segments)
	if err != nil {
		return nil, fmt.Errorf("plane geometry: %w", err)
	}
	mesh.RotateX(cfg.PlaneTilt)

	set, err := uniforms.NewSet(shader.Schema())
	if err != nil {
		return nil, fmt.Errorf("uniform schema: %w", err)
	}

	s := &Scene{
		Mesh:           mesh,
		VertexShader:   cfg.VertexShader,
		FragmentShader: cfg.FragmentShader,
		Uniforms:       set,
	}
	if s.Time, err = set.Scalar(shader.UTime); err != nil {
		return nil, err
	}
	s.Time.Set(0)

	for _, b := range ScalarBindings {
		p, err := store.Scalar(b.Param)
		if err != nil {
			return nil, fmt.Errorf("bind %s: %w", b.Uniform, err)
		}
		if err := set.SetFloat(b.Uniform, p.Float()); err != nil {
			return nil, fmt.Errorf("bind %s: %w", b.Param, err)
		}
	}

	if s.Palette, err = set.Colors(shader.UColor); err != nil {
		return nil, err
	}
	colors, err := pal.Palette()
	if err != nil {
		return nil, fmt.Errorf("initial palette: %w", err)
	}
	if err := s.Palette.Set(colors[:]); err != nil {
		return nil, err
	}

	s.Camera = camera.NewPerspective(cfg.FOV, cfg.Aspect, cfg.Near, cfg.Far)
	s.Camera.Position = cfg.CameraPosition
	s.Camera.Target = mgl32.Vec3{}
	return s, nil
}

// ModelView returns the model-view matrix of the mesh. The mesh sits at the
// origin, so this is the camera's view matrix.
func (s *Scene) ModelView() mgl32.Mat4 {
	return s.Camera.View()
}
