package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaneCounts(t *testing.T) {
	m, err := NewPlane(2.5, 2.5, 180, 180)
	require.NoError(t, err)
	assert.Equal(t, 181*181, m.VertexCount())
	assert.Len(t, m.UVs, 2*181*181)
	assert.Len(t, m.Normals, 3*181*181)
	assert.Len(t, m.Indices, 180*180*6)
	for _, idx := range m.Indices {
		require.Less(t, int(idx), m.VertexCount())
	}
}

func TestPlaneLayout(t *testing.T) {
	m, err := NewPlane(2, 4, 2, 2)
	require.NoError(t, err)

	// Top-left corner first, uv (0,1).
	assert.Equal(t, float32(-1), m.Position(0).X())
	assert.Equal(t, float32(2), m.Position(0).Y())
	assert.Equal(t, []float32{0, 1}, m.UVs[0:2])

	// Bottom-right corner last, uv (1,0).
	last := m.VertexCount() - 1
	assert.Equal(t, float32(1), m.Position(last).X())
	assert.Equal(t, float32(-2), m.Position(last).Y())
	assert.Equal(t, []float32{1, 0}, m.UVs[2*last:2*last+2])

	assert.Equal(t, []uint32{0, 3, 1, 3, 4, 1}, m.Indices[:6])
}

func TestPlaneRejectsBadArgs(t *testing.T) {
	_, err := NewPlane(1, 1, 0, 1)
	assert.Error(t, err)
	_, err = NewPlane(0, 1, 1, 1)
	assert.Error(t, err)
}

func TestRotateX(t *testing.T) {
	m, err := NewPlane(2, 2, 1, 1)
	require.NoError(t, err)
	angle := float32(math.Pi * -0.1)
	m.RotateX(angle)

	// (x, 1, 0) rotated about X: y' = cos(a), z' = sin(a).
	p := m.Position(0)
	assert.InDelta(t, -1, p.X(), 1e-6)
	assert.InDelta(t, math.Cos(float64(angle)), p.Y(), 1e-6)
	assert.InDelta(t, math.Sin(float64(angle)), p.Z(), 1e-6)

	// Normal (0,0,1) becomes (0, -sin(a), cos(a)).
	assert.InDelta(t, -math.Sin(float64(angle)), m.Normals[1], 1e-6)
	assert.InDelta(t, math.Cos(float64(angle)), m.Normals[2], 1e-6)
}
