// Package session owns one running instance of the plane: its parameters,
// scene, control panel, camera controls, viewport and render loop.
package session

import (
	"context"
	"fmt"

	"github.com/richinsley/goshaderplane/camera"
	"github.com/richinsley/goshaderplane/graphics"
	"github.com/richinsley/goshaderplane/loop"
	"github.com/richinsley/goshaderplane/palette"
	"github.com/richinsley/goshaderplane/panel"
	"github.com/richinsley/goshaderplane/params"
	"github.com/richinsley/goshaderplane/scene"
	"github.com/richinsley/goshaderplane/uniforms"
	"github.com/richinsley/goshaderplane/viewport"
	"github.com/rs/zerolog"
)

// Renderer draws a scene to the host surface.
type Renderer interface {
	// Load uploads the scene's geometry and programs.
	Load(s *scene.Scene) error
	// SetSize sets the output size in window units and the drawing-buffer density.
	SetSize(width, height int, pixelRatio float64)
	// Render draws one frame with the scene's current uniforms and camera.
	Render(s *scene.Scene) error
	Shutdown()
}

// Options configures a session.
type Options struct {
	Scene        scene.Config
	Defaults     params.Defaults
	PaletteMode  string
	PaletteTable palette.Table
	Damping      bool
	Log          zerolog.Logger
}

// DefaultOptions returns the stock configuration.
func DefaultOptions() Options {
	return Options{
		Scene:        scene.DefaultConfig(),
		Defaults:     params.DefaultValues(),
		PaletteMode:  palette.ModeCustom,
		PaletteTable: palette.Builtin(),
		Damping:      true,
		Log:          zerolog.Nop(),
	}
}

type slider struct {
	param string
	cfg   panel.SliderConfig
}

var sliders = []slider{
	{params.Elevation, panel.SliderConfig{Label: "Elevation", Min: 0, Max: 1, Step: 0.01}},
	{params.GeometrySpeed, panel.SliderConfig{Label: "Geometry Speed", Min: 0, Max: 0.5, Step: 0.01}},
	{params.ColorSpeed, panel.SliderConfig{Label: "Color Speed", Min: 0, Max: 0.5, Step: 0.01}},
	{params.Incline, panel.SliderConfig{Label: "Incline", Min: 0, Max: 1, Step: 0.01}},
	{params.Tilt, panel.SliderConfig{Label: "Tilt", Min: -1.5, Max: 1.5, Step: 0.1}},
	{params.ColorFrequencyX, panel.SliderConfig{Label: "Color Frequency X", Min: 0, Max: 1.5, Step: 0.1}},
	{params.ColorFrequencyY, panel.SliderConfig{Label: "Color Frequency Y", Min: 0, Max: 1.5, Step: 0.1}},
}

// Session is the explicit context that replaces ambient scene, camera and
// renderer globals. Everything runs on the host's thread.
type Session struct {
	Store    *params.Store
	Scene    *scene.Scene
	Panel    *panel.Panel
	Controls *camera.Orbit
	Viewport *viewport.Manager
	Loop     *loop.Loop

	host     graphics.Host
	renderer Renderer
	log      zerolog.Logger
	closed   bool
}

// New wires a session. Any configuration error aborts construction.
func New(opts Options, host graphics.Host, r Renderer) (*Session, error) {
	s := &Session{host: host, renderer: r, log: opts.Log}

	store, err := params.NewDefaultStore(opts.Defaults)
	if err != nil {
		return nil, fmt.Errorf("parameters: %w", err)
	}
	s.Store = store
	if err := checkDefaults(store, opts.PaletteTable); err != nil {
		return nil, fmt.Errorf("parameters: %w", err)
	}

	custom, err := palette.NewCustom(store, params.ColorNames)
	if err != nil {
		return nil, err
	}
	indexParam, err := store.Scalar(params.ColorPaletteIndex)
	if err != nil {
		return nil, err
	}
	var src palette.Source
	switch opts.PaletteMode {
	case palette.ModeCustom, "":
		src = custom
	case palette.ModeIndexed:
		if len(opts.PaletteTable) == 0 {
			return nil, fmt.Errorf("palette mode %q needs a non-empty table", opts.PaletteMode)
		}
		src = &palette.Indexed{Table: opts.PaletteTable, Index: indexParam}
	default:
		return nil, fmt.Errorf("unknown palette mode %q", opts.PaletteMode)
	}

	width, height := host.Size()
	s.Viewport = viewport.NewManager(width, height, host.PixelRatio())

	sc := opts.Scene
	sc.Aspect = s.Viewport.State().Aspect()
	s.Scene, err = scene.Compose(sc, store, src)
	if err != nil {
		return nil, fmt.Errorf("compose scene: %w", err)
	}

	s.Controls = camera.NewOrbit(s.Scene.Camera)
	s.Controls.EnableDamping = opts.Damping

	if err := s.buildPanel(opts, src); err != nil {
		return nil, fmt.Errorf("control panel: %w", err)
	}
	if err := s.Panel.Sync(); err != nil {
		return nil, fmt.Errorf("control panel: %w", err)
	}

	if err := r.Load(s.Scene); err != nil {
		return nil, fmt.Errorf("load scene: %w", err)
	}

	s.Viewport.Subscribe(s.applyViewport)
	s.Viewport.Apply()
	host.OnResize(func(w, h int, ratio float64) {
		s.Viewport.Resize(w, h, ratio)
	})
	host.SetPointerHandler(s.Controls)

	s.Loop = loop.New(host, host, s.step)
	s.log.Info().
		Str("palette", opts.PaletteMode).
		Int("vertices", s.Scene.Mesh.VertexCount()).
		Int("widgets", len(s.Panel.Widgets())).
		Msg("session ready")
	return s, nil
}

// checkDefaults rejects startup values that no widget could hold.
func checkDefaults(store *params.Store, table palette.Table) error {
	for _, sl := range sliders {
		p, err := store.Scalar(sl.param)
		if err != nil {
			return err
		}
		if err := params.CheckRange(sl.param, p.Float(), sl.cfg.Min, sl.cfg.Max); err != nil {
			return err
		}
	}
	if len(table) == 0 {
		return nil
	}
	p, err := store.Scalar(params.ColorPaletteIndex)
	if err != nil {
		return err
	}
	if err := params.CheckRange(params.ColorPaletteIndex, p.Float(), 0, float64(len(table)-1)); err != nil {
		return fmt.Errorf("%w: %w", palette.ErrIndexRange, err)
	}
	return nil
}

func (s *Session) buildPanel(opts Options, src palette.Source) error {
	s.Panel = panel.New(s.Store, s.log.With().Str("component", "panel").Logger())
	set := s.Scene.Uniforms

	pushes := make(map[string]*uniforms.Scalar, len(scene.ScalarBindings))
	for _, b := range scene.ScalarBindings {
		u, err := set.Scalar(b.Uniform)
		if err != nil {
			return err
		}
		pushes[b.Param] = u
	}
	for _, sl := range sliders {
		w, err := s.Panel.AddSlider(sl.param, sl.cfg)
		if err != nil {
			return err
		}
		if u, ok := pushes[sl.param]; ok {
			w.OnChange(panel.ScalarPush(u))
		}
	}

	palettePush := panel.PalettePush(src, s.Scene.Palette)
	indexed := opts.PaletteMode == palette.ModeIndexed

	maxIndex := float64(len(opts.PaletteTable) - 1)
	if maxIndex < 0 {
		maxIndex = 0
	}
	idx, err := s.Panel.AddSlider(params.ColorPaletteIndex, panel.SliderConfig{
		Label: "Color Palette", Min: 0, Max: maxIndex, Step: 1,
	})
	if err != nil {
		return err
	}
	if indexed {
		idx.OnChange(palettePush)
	}

	for _, name := range params.ColorNames {
		w, err := s.Panel.AddColor(name, name)
		if err != nil {
			return err
		}
		if !indexed {
			w.OnChange(palettePush)
		}
	}
	return nil
}

func (s *Session) applyViewport(st viewport.State) {
	s.Scene.Camera.SetAspect(st.Aspect())
	s.Controls.ViewportHeight = float32(st.Height)
	s.renderer.SetSize(st.Width, st.Height, st.PixelRatio)
	s.log.Debug().
		Int("width", st.Width).
		Int("height", st.Height).
		Float64("pixelRatio", st.PixelRatio).
		Msg("viewport")
}

// step is one frame: time uniform, camera damping, render.
func (s *Session) step(f loop.Frame) error {
	s.Scene.Time.Set(f.Elapsed)
	s.Controls.Update()
	if err := s.renderer.Render(s.Scene); err != nil {
		return fmt.Errorf("render frame %d: %w", f.Count, err)
	}
	return nil
}

// Running reports whether the render loop has started.
func (s *Session) Running() bool { return s.Loop.Running() }

// Run drives the render loop until the host closes or ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	s.log.Info().Msg("starting render loop")
	err := s.Loop.Run(ctx)
	s.log.Info().Uint64("frames", s.Loop.Frames()).Float64("elapsed", s.Loop.Elapsed()).Msg("render loop stopped")
	return err
}

// Close releases the renderer. It is safe to call more than once.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.renderer.Shutdown()
}
