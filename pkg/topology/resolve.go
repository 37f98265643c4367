package topology

import (
	"fmt"

	"github.com/chazu/seam/pkg/kernel"
)

// Bounds describes which triangles of a mesh an Index visits.
type Bounds struct {
	// Capacity is the number of triangles the buffers can represent,
	// independent of any draw range. It sizes the adjacency table.
	Capacity int
	// Active is the number of triangles actually iterated.
	Active int
	// Offset is the index (or vertex, when unindexed) of the first
	// corner of the first active triangle.
	Offset int
}

// Resolve computes the triangle bounds of m. When useSubRange is set and
// m carries a DrawRange, only the triangles inside that range are active.
func Resolve(m *kernel.Mesh, useSubRange bool) (Bounds, error) {
	if m == nil {
		return Bounds{}, fmt.Errorf("nil mesh: %w", ErrInvalidGeometry)
	}
	if len(m.Vertices)%3 != 0 {
		return Bounds{}, fmt.Errorf("position buffer length %d is not a multiple of 3: %w",
			len(m.Vertices), ErrInvalidGeometry)
	}
	if !m.Indexed() && m.IsEmpty() {
		return Bounds{}, fmt.Errorf("mesh has neither positions nor indices: %w", ErrInvalidGeometry)
	}

	total := m.VertexCount()
	if m.Indexed() {
		total = len(m.Indices)
	}

	b := Bounds{Capacity: total / 3}
	if !useSubRange || m.DrawRange == nil {
		b.Active = b.Capacity
		return b, nil
	}

	r := m.DrawRange
	if r.Start < 0 || r.Count < 0 {
		return Bounds{}, fmt.Errorf("draw range {start: %d, count: %d}: %w",
			r.Start, r.Count, ErrInvalidGeometry)
	}
	b.Offset = r.Start
	if r.Start < total {
		b.Active = min(r.Count/3, (total-r.Start)/3)
	}
	return b, nil
}
