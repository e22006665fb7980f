package session

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/richinsley/goshaderplane/graphics"
	"github.com/richinsley/goshaderplane/palette"
	"github.com/richinsley/goshaderplane/params"
	"github.com/richinsley/goshaderplane/scene"
	"github.com/richinsley/goshaderplane/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHost struct {
	width, height int
	ratio         float64

	resize  func(int, int, float64)
	pointer graphics.PointerHandler

	now    float64
	tick   float64
	frames int
	budget int
}

func (h *fakeHost) Size() (int, int)                            { return h.width, h.height }
func (h *fakeHost) PixelRatio() float64                         { return h.ratio }
func (h *fakeHost) OnResize(fn func(int, int, float64))         { h.resize = fn }
func (h *fakeHost) SetPointerHandler(p graphics.PointerHandler) { h.pointer = p }
func (h *fakeHost) Now() float64                                { return h.now }

func (h *fakeHost) NextFrame() bool {
	h.frames++
	h.now += h.tick
	return h.frames < h.budget
}

type sizeCall struct {
	width, height int
	ratio         float64
}

type fakeRenderer struct {
	loaded   *scene.Scene
	sizes    []sizeCall
	times    []float64
	shutdown int
	err      error
}

func (r *fakeRenderer) Load(s *scene.Scene) error { r.loaded = s; return nil }
func (r *fakeRenderer) SetSize(w, h int, ratio float64) {
	r.sizes = append(r.sizes, sizeCall{w, h, ratio})
}
func (r *fakeRenderer) Render(s *scene.Scene) error {
	r.times = append(r.times, s.Time.Get())
	return r.err
}
func (r *fakeRenderer) Shutdown() { r.shutdown++ }

func newSession(t *testing.T, opts Options) (*Session, *fakeHost, *fakeRenderer) {
	t.Helper()
	h := &fakeHost{width: 800, height: 600, ratio: 1, tick: 1.0 / 60, budget: 4}
	r := &fakeRenderer{}
	s, err := New(opts, h, r)
	require.NoError(t, err)
	return s, h, r
}

func scalarUniform(t *testing.T, s *Session, name string) float64 {
	t.Helper()
	u, err := s.Scene.Uniforms.Scalar(name)
	require.NoError(t, err)
	return u.Get()
}

func paletteHex(s *Session) []string {
	var out []string
	for _, c := range s.Scene.Palette.Get() {
		out = append(out, c.Hex())
	}
	return out
}

func TestEndToEnd(t *testing.T) {
	s, h, r := newSession(t, DefaultOptions())
	defer s.Close()

	assert.False(t, s.Running())
	assert.Same(t, s.Scene, r.loaded)
	assert.Equal(t, 0.3, scalarUniform(t, s, shader.UElevation))
	assert.Equal(t, []sizeCall{{800, 600, 1}}, r.sizes)
	assert.Equal(t, float32(800.0/600.0), s.Scene.Camera.Aspect)

	require.NoError(t, s.Panel.SetFloat(params.Incline, 0.5))
	assert.Equal(t, 0.5, scalarUniform(t, s, shader.UIncline))

	before := paletteHex(s)
	require.NoError(t, s.Panel.SetHex(params.Color2, "#123456"))
	after := paletteHex(s)
	require.Len(t, after, 5)
	assert.Equal(t, "#123456", after[1])
	assert.Equal(t, before[0], after[0])
	assert.Equal(t, before[2:], after[2:])

	h.resize(1024, 768, 3)
	assert.Equal(t, float32(1024.0/768.0), s.Scene.Camera.Aspect)
	assert.Equal(t, sizeCall{1024, 768, 2}, r.sizes[len(r.sizes)-1])

	require.NoError(t, s.Run(context.Background()))
	assert.True(t, s.Running())
	require.Len(t, r.times, 4)
	assert.Equal(t, 0.0, r.times[0])
	for i := 1; i < len(r.times); i++ {
		assert.GreaterOrEqual(t, r.times[i], r.times[i-1])
	}
}

func TestEverySliderStaysInSync(t *testing.T) {
	s, _, _ := newSession(t, DefaultOptions())
	for _, b := range scene.ScalarBindings {
		w, err := s.Panel.Widget(b.Param)
		require.NoError(t, err)
		min, max, _, ok := w.Param.Range()
		require.True(t, ok)

		for _, v := range []float64{min, max, (min + max) / 3, max + 10, min - 10} {
			require.NoError(t, s.Panel.SetFloat(b.Param, v))
			assert.Equal(t, w.Param.Float(), scalarUniform(t, s, b.Uniform), "%s=%v", b.Param, v)
		}
	}
}

func TestResizeIdempotent(t *testing.T) {
	s, h, r := newSession(t, DefaultOptions())
	h.resize(1024, 768, 2)
	proj := s.Scene.Camera.Projection()
	n := len(r.sizes)

	h.resize(1024, 768, 2)
	h.resize(1024, 768, 2.5)
	assert.Len(t, r.sizes, n)
	assert.Equal(t, proj, s.Scene.Camera.Projection())
}

func TestCustomModeLeavesPaletteIndexDormant(t *testing.T) {
	s, _, _ := newSession(t, DefaultOptions())
	before := paletteHex(s)

	require.NoError(t, s.Panel.SetFloat(params.ColorPaletteIndex, 3))
	assert.Equal(t, before, paletteHex(s))

	w, err := s.Panel.Widget(params.ColorPaletteIndex)
	require.NoError(t, err)
	assert.False(t, w.Wired())
}

func TestIndexedMode(t *testing.T) {
	opts := DefaultOptions()
	opts.PaletteMode = palette.ModeIndexed
	s, _, _ := newSession(t, opts)

	want := opts.PaletteTable[10].Hex()
	assert.Equal(t, want[:], paletteHex(s))

	require.NoError(t, s.Panel.SetFloat(params.ColorPaletteIndex, 2))
	want = opts.PaletteTable[2].Hex()
	assert.Equal(t, want[:], paletteHex(s))

	require.NoError(t, s.Panel.SetFloat(params.ColorPaletteIndex, 1e6))
	last := opts.PaletteTable[len(opts.PaletteTable)-1].Hex()
	assert.Equal(t, last[:], paletteHex(s), "index clamps to the table")

	require.NoError(t, s.Panel.SetHex(params.Color1, "#000000"))
	assert.Equal(t, last[:], paletteHex(s), "colors are dormant in indexed mode")
}

func TestConfigurationErrorsAbort(t *testing.T) {
	h := &fakeHost{width: 800, height: 600, ratio: 1}

	opts := DefaultOptions()
	opts.PaletteMode = "random"
	_, err := New(opts, h, &fakeRenderer{})
	assert.Error(t, err)

	opts = DefaultOptions()
	opts.PaletteMode = palette.ModeIndexed
	opts.PaletteTable = nil
	_, err = New(opts, h, &fakeRenderer{})
	assert.Error(t, err)

	opts = DefaultOptions()
	opts.Defaults.Colors = map[string]string{params.Color1: "oops"}
	_, err = New(opts, h, &fakeRenderer{})
	assert.Error(t, err)

	opts = DefaultOptions()
	opts.PaletteMode = palette.ModeIndexed
	opts.Defaults.Scalars = map[string]float64{params.ColorPaletteIndex: 500}
	_, err = New(opts, h, &fakeRenderer{})
	assert.ErrorIs(t, err, palette.ErrIndexRange)

	for _, bad := range []map[string]float64{
		{params.Elevation: 5},
		{params.Tilt: math.NaN()},
		{params.ColorSpeed: math.Inf(-1)},
		{params.ColorFrequencyY: -0.1},
		{params.ColorPaletteIndex: -1},
	} {
		opts = DefaultOptions()
		opts.Defaults.Scalars = bad
		r := &fakeRenderer{}
		_, err = New(opts, h, r)
		assert.ErrorIs(t, err, params.ErrOutOfRange, "%v", bad)
		assert.Empty(t, r.sizes, "%v", bad)
	}
}

func TestWidgetsSeedUniformsFromDefaults(t *testing.T) {
	opts := DefaultOptions()
	opts.Defaults.Scalars = map[string]float64{params.Elevation: 1, params.Tilt: -1.5}
	opts.Defaults.Colors = map[string]string{params.Color4: "#0a0b0c"}
	s, _, _ := newSession(t, opts)

	for _, b := range scene.ScalarBindings {
		p, err := s.Store.Scalar(b.Param)
		require.NoError(t, err)
		assert.Equal(t, p.Float(), scalarUniform(t, s, b.Uniform), b.Param)
	}
	assert.Equal(t, 1.0, scalarUniform(t, s, shader.UElevation))
	assert.Equal(t, -1.5, scalarUniform(t, s, shader.UTilt))
	assert.Equal(t, []string{"#cda3ff", "#6ec3f4", "#eae2ff", "#0a0b0c", "#c3e4ff"}, paletteHex(s))
}

func TestRenderErrorStopsLoop(t *testing.T) {
	s, _, r := newSession(t, DefaultOptions())
	r.err = errors.New("lost context")
	err := s.Run(context.Background())
	assert.ErrorIs(t, err, r.err)
	assert.Len(t, r.times, 1)
}

func TestPointerDrivesControls(t *testing.T) {
	s, h, _ := newSession(t, DefaultOptions())
	require.NotNil(t, h.pointer)
	start := s.Scene.Camera.Position

	h.pointer.PointerDown(0, 0)
	h.pointer.PointerMove(60, 0)
	h.pointer.PointerUp()
	require.NoError(t, s.Loop.Tick())
	assert.NotEqual(t, start, s.Scene.Camera.Position)
}

func TestCloseOnce(t *testing.T) {
	s, _, r := newSession(t, DefaultOptions())
	s.Close()
	s.Close()
	assert.Equal(t, 1, r.shutdown)
}
