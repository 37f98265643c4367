package topology

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"go.uber.org/zap"

	"github.com/chazu/seam/pkg/kernel"
)

// EdgeID packs a (triangle, edge) pair as triangle*3 + edge.
type EdgeID int

// NoEdge marks a boundary edge in the adjacency table.
const NoEdge EdgeID = -1

// MakeEdgeID returns the EdgeID of edge e of triangle t.
func MakeEdgeID(t, e int) EdgeID {
	return EdgeID(t*3 + e)
}

// Triangle returns the triangle component of id.
func (id EdgeID) Triangle() int { return int(id) / 3 }

// Edge returns the local edge component of id, in [0, 3).
func (id EdgeID) Edge() int { return int(id) % 3 }

// Stats is a snapshot of an Index's counters.
type Stats struct {
	Triangles        int  `json:"triangles"`
	MatchedEdgePairs int  `json:"matchedEdgePairs"`
	BoundaryEdges    int  `json:"boundaryEdges"`
	Closed           bool `json:"closed"`
}

// Option configures an Index.
type Option func(*Index)

// WithHasher sets the hasher used to weld vertices.
func WithHasher(h VertexHasher) Option {
	return func(idx *Index) {
		if h != nil {
			idx.hasher = h
		}
	}
}

// WithTolerance welds vertices with a Quantizer of the given step.
func WithTolerance(tol float64) Option {
	return WithHasher(Quantizer{Tolerance: tol})
}

// WithLogger sets the logger that receives a debug line per rebuild.
func WithLogger(l *zap.Logger) Option {
	return func(idx *Index) {
		if l != nil {
			idx.log = l
		}
	}
}

// Index is an edge adjacency table for a triangle mesh.
//
// table[t*3+e] holds the EdgeID of the edge matched with edge e of
// triangle t, or NoEdge. Matching is symmetric, and after every
// successful Rebuild
//
//	2*MatchedEdgePairs() + BoundaryEdges() == 3*ActiveTriangles()
type Index struct {
	hasher VertexHasher
	log    *zap.Logger

	table    []EdgeID
	active   int
	matched  int
	boundary int

	// Scratch state, cleared rather than reallocated on each rebuild.
	vertexIDs map[HashKey]uint32
	pending   map[uint64]EdgeID
}

// NewIndex returns an empty Index. Queries fail until the first Rebuild.
func NewIndex(opts ...Option) *Index {
	idx := &Index{
		hasher:    Quantizer{Tolerance: DefaultTolerance},
		log:       zap.NewNop(),
		vertexIDs: make(map[HashKey]uint32),
		pending:   make(map[uint64]EdgeID),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Rebuild recomputes adjacency for m, replacing the previous result.
// When useSubRange is set, only triangles inside m.DrawRange take part.
//
// Rebuild validates m before touching the table: on error the previous
// table and counters are left as they were.
func (idx *Index) Rebuild(m *kernel.Mesh, useSubRange bool) error {
	b, err := Resolve(m, useSubRange)
	if err != nil {
		return fmt.Errorf("rebuild: %w", err)
	}
	if err := validateIndices(m, b); err != nil {
		return fmt.Errorf("rebuild: %w", err)
	}

	grew := false
	if need := 3 * b.Capacity; len(idx.table) < need {
		idx.table = make([]EdgeID, need)
		grew = true
	}
	active := idx.table[:3*b.Active]
	for i := range active {
		active[i] = NoEdge
	}

	clear(idx.vertexIDs)
	clear(idx.pending)

	matched, unmatched := 0, 0
	var corners [3]uint32
	for t := 0; t < b.Active; t++ {
		base := b.Offset + 3*t
		for c := range corners {
			corners[c] = idx.intern(m, vertexAt(m, base+c))
		}
		for e := 0; e < 3; e++ {
			from, to := corners[e], corners[(e+1)%3]
			self := MakeEdgeID(t, e)
			reverse := edgeKey(to, from)
			if other, ok := idx.pending[reverse]; ok {
				idx.table[self] = other
				idx.table[other] = self
				delete(idx.pending, reverse)
				matched++
				unmatched--
				continue
			}
			// A third triangle on the same directed edge replaces the
			// pending entry; the replaced edge stays a boundary edge.
			idx.pending[edgeKey(from, to)] = self
			unmatched++
		}
	}

	idx.active = b.Active
	idx.matched = matched
	idx.boundary = unmatched

	idx.log.Debug("adjacency rebuilt",
		zap.String("mesh", m.PartName),
		zap.Int("triangles", b.Active),
		zap.Int("capacity", len(idx.table)/3),
		zap.Bool("grew", grew),
		zap.Int("matched", matched),
		zap.Int("boundary", unmatched),
	)
	return nil
}

// validateIndices checks every index entry the active triangles read.
func validateIndices(m *kernel.Mesh, b Bounds) error {
	if !m.Indexed() {
		return nil
	}
	n := uint32(m.VertexCount())
	for i := b.Offset; i < b.Offset+3*b.Active; i++ {
		if v := m.Indices[i]; v >= n {
			return fmt.Errorf("index buffer entry %d references vertex %d of %d: %w",
				i, v, n, ErrIndexOutOfRange)
		}
	}
	return nil
}

// vertexAt returns the vertex referenced by corner slot i.
func vertexAt(m *kernel.Mesh, i int) int {
	if m.Indexed() {
		return int(m.Indices[i])
	}
	return i
}

// intern returns the dense id of the welded vertex at position v.
func (idx *Index) intern(m *kernel.Mesh, v int) uint32 {
	k := idx.hasher.Hash(m.Position(v))
	id, ok := idx.vertexIDs[k]
	if !ok {
		id = uint32(len(idx.vertexIDs))
		idx.vertexIDs[k] = id
	}
	return id
}

// edgeKey packs a directed edge between two welded vertices.
func edgeKey(from, to uint32) uint64 {
	return uint64(from)<<32 | uint64(to)
}

// Sibling returns the edge matched with edge e of triangle t, or NoEdge
// for a boundary edge.
func (idx *Index) Sibling(t, e int) (EdgeID, error) {
	if t < 0 || t >= idx.active || e < 0 || e > 2 {
		return NoEdge, fmt.Errorf("edge (%d, %d) outside %d active triangles: %w",
			t, e, idx.active, ErrIndexOutOfRange)
	}
	return idx.table[MakeEdgeID(t, e)], nil
}

// SiblingTriangle returns the triangle sharing edge e of triangle t.
// ok is false when the edge is a boundary edge.
func (idx *Index) SiblingTriangle(t, e int) (sibling int, ok bool, err error) {
	id, err := idx.Sibling(t, e)
	if err != nil || id == NoEdge {
		return -1, false, err
	}
	return id.Triangle(), true, nil
}

// SiblingEdge returns the local edge slot, in the sibling triangle, of
// the edge shared with edge e of triangle t.
// ok is false when the edge is a boundary edge.
func (idx *Index) SiblingEdge(t, e int) (edge int, ok bool, err error) {
	id, err := idx.Sibling(t, e)
	if err != nil || id == NoEdge {
		return -1, false, err
	}
	return id.Edge(), true, nil
}

// ActiveTriangles returns the number of triangles in the last rebuild.
func (idx *Index) ActiveTriangles() int { return idx.active }

// MatchedEdgePairs returns the number of matched edge pairs.
func (idx *Index) MatchedEdgePairs() int { return idx.matched }

// BoundaryEdges returns the number of edges without a sibling.
func (idx *Index) BoundaryEdges() int { return idx.boundary }

// Capacity returns how many triangles the table can hold without
// reallocating.
func (idx *Index) Capacity() int { return len(idx.table) / 3 }

// IsClosed reports whether the last rebuild saw at least one triangle
// and no boundary edges.
func (idx *Index) IsClosed() bool {
	return idx.active > 0 && idx.boundary == 0
}

// Stats returns a snapshot of the counters.
func (idx *Index) Stats() Stats {
	return Stats{
		Triangles:        idx.active,
		MatchedEdgePairs: idx.matched,
		BoundaryEdges:    idx.boundary,
		Closed:           idx.IsClosed(),
	}
}

// BoundaryEdgeIDs collects the EdgeIDs of all boundary edges into dst,
// which is cleared first. A nil dst allocates a new bitmap.
func (idx *Index) BoundaryEdgeIDs(dst *roaring.Bitmap) *roaring.Bitmap {
	if dst == nil {
		dst = roaring.New()
	} else {
		dst.Clear()
	}
	for i, id := range idx.table[:3*idx.active] {
		if id == NoEdge {
			dst.Add(uint32(i))
		}
	}
	return dst
}
