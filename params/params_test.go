package params

import (
	"math"
	"math/rand"
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetFloatClampsAndQuantizes(t *testing.T) {
	p := NewScalar(Elevation, 0.3)
	require.NoError(t, p.Constrain(0, 1, 0.01))

	got, err := p.SetFloat(0.337)
	require.NoError(t, err)
	assert.Equal(t, 0.34, got)

	got, _ = p.SetFloat(5)
	assert.Equal(t, 1.0, got)

	got, _ = p.SetFloat(-3)
	assert.Equal(t, 0.0, got)

	got, _ = p.SetFloat(math.NaN())
	assert.Equal(t, 0.0, got, "NaN keeps the previous value")
}

func TestQuantizeNegativeRange(t *testing.T) {
	p := NewScalar(Tilt, 0)
	require.NoError(t, p.Constrain(-1.5, 1.5, 0.1))

	got, _ := p.SetFloat(0.27)
	assert.Equal(t, 0.3, got)
	got, _ = p.SetFloat(-1.44)
	assert.Equal(t, -1.4, got)
}

func TestEditsStayOnGrid(t *testing.T) {
	ranges := []struct {
		min, max, step float64
	}{
		{0, 1, 0.01},
		{0, 0.5, 0.01},
		{-1.5, 1.5, 0.1},
		{0, 1.5, 0.1},
		{0, 99, 1},
	}
	rng := rand.New(rand.NewSource(1))
	for _, r := range ranges {
		p := NewScalar("x", r.min)
		require.NoError(t, p.Constrain(r.min, r.max, r.step))
		for i := 0; i < 500; i++ {
			in := r.min - 1 + rng.Float64()*(r.max-r.min+2)
			v, err := p.SetFloat(in)
			require.NoError(t, err)
			require.GreaterOrEqual(t, v, r.min)
			require.LessOrEqual(t, v, r.max)
			n := (v - r.min) / r.step
			require.InDelta(t, math.Round(n), n, 1e-9, "value %v off the step grid", v)
		}
	}
}

func TestUnconstrainedScalarKeepsValue(t *testing.T) {
	p := NewScalar("free", 0)
	got, err := p.SetFloat(123.456)
	require.NoError(t, err)
	assert.Equal(t, 123.456, got)
	_, _, _, ok := p.Range()
	assert.False(t, ok)
}

func TestObserversRunOnEveryEdit(t *testing.T) {
	p := NewScalar(Incline, 0.1)
	require.NoError(t, p.Constrain(0, 1, 0.01))

	var seen []float64
	p.Subscribe(func(p *Param) { seen = append(seen, p.Float()) })
	p.SetFloat(0.5)
	p.SetFloat(0.5)
	p.Reset()

	assert.Equal(t, []float64{0.5, 0.5, 0.1}, seen)
}

func TestColorParam(t *testing.T) {
	p, err := NewColor(Color2, "#6ec3f4")
	require.NoError(t, err)
	assert.Equal(t, "#6ec3f4", p.Hex())

	var calls int
	p.Subscribe(func(*Param) { calls++ })
	require.NoError(t, p.SetHex("#112233"))
	assert.Equal(t, "#112233", p.Hex())
	assert.Equal(t, 1, calls)

	assert.Error(t, p.SetHex("not-a-color"))
	assert.Equal(t, 1, calls)

	_, err = p.SetFloat(1)
	assert.ErrorIs(t, err, ErrKindMismatch)
	assert.ErrorIs(t, p.Constrain(0, 1, 1), ErrKindMismatch)

	s := NewScalar("s", 0)
	assert.ErrorIs(t, s.SetColor(colorful.Color{}), ErrKindMismatch)

	_, err = NewColor("bad", "#zz0000")
	assert.Error(t, err)
}

func TestStore(t *testing.T) {
	s, err := NewDefaultStore(Defaults{Scalars: map[string]float64{Elevation: 0.7}})
	require.NoError(t, err)
	assert.Equal(t, 13, s.Len())

	p, err := s.Scalar(Elevation)
	require.NoError(t, err)
	assert.Equal(t, 0.7, p.Float())

	p, err = s.Scalar(ColorSpeed)
	require.NoError(t, err)
	assert.Equal(t, 0.001, p.Float())

	c, err := s.Color(Color1)
	require.NoError(t, err)
	assert.Equal(t, "#cda3ff", c.Hex())

	_, err = s.Lookup("nope")
	assert.ErrorIs(t, err, ErrUnknownParam)
	_, err = s.Color(Elevation)
	assert.ErrorIs(t, err, ErrKindMismatch)
	_, err = s.Scalar(Color1)
	assert.ErrorIs(t, err, ErrKindMismatch)

	assert.ErrorIs(t, s.Add(NewScalar(Tilt, 0)), ErrDuplicateParam)
	assert.Equal(t, ColorPaletteIndex, s.Names()[0])
}

func TestNewDefaultStoreRejectsBadColor(t *testing.T) {
	_, err := NewDefaultStore(Defaults{Colors: map[string]string{Color3: "#12"}})
	assert.Error(t, err)
}

func TestCheckRange(t *testing.T) {
	assert.NoError(t, CheckRange(Tilt, -1.5, -1.5, 1.5))
	assert.NoError(t, CheckRange(Tilt, 1.5, -1.5, 1.5))
	for _, v := range []float64{-1.6, 1.51, math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.ErrorIs(t, CheckRange(Tilt, v, -1.5, 1.5), ErrOutOfRange, "%v", v)
	}
}
