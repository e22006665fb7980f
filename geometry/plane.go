package geometry

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is an indexed triangle mesh with interleaved-free attribute arrays.
type Mesh struct {
	Positions []float32 // xyz per vertex
	Normals   []float32 // xyz per vertex
	UVs       []float32 // uv per vertex
	Indices   []uint32
}

// NewPlane builds a width×height plane in the XY plane facing +Z, subdivided into
// widthSegments×heightSegments quads. Vertex order, uv orientation and winding
// follow the usual PlaneGeometry layout: rows top to bottom, uv.y = 1 on top.
func NewPlane(width, height float32, widthSegments, heightSegments int) (*Mesh, error) {
	if widthSegments < 1 || heightSegments < 1 {
		return nil, fmt.Errorf("plane segments must be positive, got %dx%d", widthSegments, heightSegments)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("plane size must be positive, got %vx%v", width, height)
	}

	gridX1 := widthSegments + 1
	gridY1 := heightSegments + 1
	segW := width / float32(widthSegments)
	segH := height / float32(heightSegments)
	halfW, halfH := width/2, height/2

	n := gridX1 * gridY1
	m := &Mesh{
		Positions: make([]float32, 0, 3*n),
		Normals:   make([]float32, 0, 3*n),
		UVs:       make([]float32, 0, 2*n),
		Indices:   make([]uint32, 0, 6*widthSegments*heightSegments),
	}

	for iy := 0; iy < gridY1; iy++ {
		y := float32(iy)*segH - halfH
		for ix := 0; ix < gridX1; ix++ {
			x := float32(ix)*segW - halfW
			m.Positions = append(m.Positions, x, -y, 0)
			m.Normals = append(m.Normals, 0, 0, 1)
			m.UVs = append(m.UVs, float32(ix)/float32(widthSegments), 1-float32(iy)/float32(heightSegments))
		}
	}

	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := uint32(ix + gridX1*iy)
			b := uint32(ix + gridX1*(iy+1))
			c := uint32(ix + 1 + gridX1*(iy+1))
			d := uint32(ix + 1 + gridX1*iy)
			m.Indices = append(m.Indices, a, b, d, b, c, d)
		}
	}
	return m, nil
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Positions) / 3 }

// RotateX rotates positions and normals by angle radians about the X axis.
func (m *Mesh) RotateX(angle float32) {
	m.Transform(mgl32.HomogRotate3DX(angle))
}

// Transform applies t to every position and the rotation part of t to every normal.
func (m *Mesh) Transform(t mgl32.Mat4) {
	normal := t.Mat3().Inv().Transpose()
	for i := 0; i+2 < len(m.Positions); i += 3 {
		p := t.Mul4x1(mgl32.Vec4{m.Positions[i], m.Positions[i+1], m.Positions[i+2], 1})
		m.Positions[i], m.Positions[i+1], m.Positions[i+2] = p[0], p[1], p[2]
	}
	for i := 0; i+2 < len(m.Normals); i += 3 {
		nv := normal.Mul3x1(mgl32.Vec3{m.Normals[i], m.Normals[i+1], m.Normals[i+2]}).Normalize()
		m.Normals[i], m.Normals[i+1], m.Normals[i+2] = nv[0], nv[1], nv[2]
	}
}

// Position returns vertex i's position.
func (m *Mesh) Position(i int) mgl32.Vec3 {
	return mgl32.Vec3{m.Positions[3*i], m.Positions[3*i+1], m.Positions[3*i+2]}
}
