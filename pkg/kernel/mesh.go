package kernel

import "math"

// Unbounded is a DrawRange count that extends to the end of the buffer.
const Unbounded = math.MaxInt

// DrawRange selects a contiguous slice of the index buffer (or of the
// vertex buffer when the mesh is unindexed) that participates in an
// operation. Start and Count are in index (or vertex) units.
type DrawRange struct {
	Start int `json:"start"`
	Count int `json:"count"`
}

// Mesh is a triangle mesh produced for a brush.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
// Indices may be empty, in which case every three consecutive vertices
// form a triangle.
type Mesh struct {
	Vertices  []float32  `json:"vertices"`            // [x0,y0,z0, x1,y1,z1, ...]
	Normals   []float32  `json:"normals"`             // [nx0,ny0,nz0, ...]
	Indices   []uint32   `json:"indices"`             // [i0,i1,i2, ...] triangles
	PartName  string     `json:"partName"`            // which brush this came from
	DrawRange *DrawRange `json:"drawRange,omitempty"` // optional sub-range
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// Indexed reports whether the mesh carries an index buffer.
func (m *Mesh) Indexed() bool {
	return len(m.Indices) > 0
}

// TriangleCount returns the number of triangles the buffers can hold,
// ignoring any draw range.
func (m *Mesh) TriangleCount() int {
	if m.Indexed() {
		return len(m.Indices) / 3
	}
	return m.VertexCount() / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Position returns the coordinates of vertex i.
func (m *Mesh) Position(i int) (x, y, z float32) {
	return m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2]
}
