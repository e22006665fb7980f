package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampPixelRatio(t *testing.T) {
	assert.Equal(t, 1.0, ClampPixelRatio(0))
	assert.Equal(t, 1.0, ClampPixelRatio(-2))
	assert.Equal(t, 1.5, ClampPixelRatio(1.5))
	assert.Equal(t, 2.0, ClampPixelRatio(2))
	assert.Equal(t, 2.0, ClampPixelRatio(3))
}

func TestResizeNotifiesOnChange(t *testing.T) {
	m := NewManager(800, 600, 1)
	var got []State
	m.Subscribe(func(s State) { got = append(got, s) })

	assert.True(t, m.Resize(1024, 768, 3))
	want := State{Width: 1024, Height: 768, PixelRatio: 2}
	assert.Equal(t, []State{want}, got)
	assert.Equal(t, want, m.State())
	assert.Equal(t, float32(1024.0/768.0), m.State().Aspect())
	w, h := m.State().DrawingBufferSize()
	assert.Equal(t, 2048, w)
	assert.Equal(t, 1536, h)
}

func TestResizeIdempotent(t *testing.T) {
	m := NewManager(800, 600, 1)
	calls := 0
	m.Subscribe(func(State) { calls++ })

	assert.False(t, m.Resize(800, 600, 1))
	assert.True(t, m.Resize(1024, 768, 2))
	assert.False(t, m.Resize(1024, 768, 2))
	// 4 clamps to the same applied ratio as 2.
	assert.False(t, m.Resize(1024, 768, 4))
	assert.Equal(t, 1, calls)
}

func TestApplyAndAspect(t *testing.T) {
	m := NewManager(0, 0, 1)
	var got State
	m.Subscribe(func(s State) { got = s })
	m.Apply()
	assert.Equal(t, m.State(), got)
	assert.Equal(t, float32(1), got.Aspect())
}
