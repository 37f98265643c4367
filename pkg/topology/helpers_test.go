package topology

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chazu/seam/pkg/kernel"
)

// triangleMesh is a single isolated triangle.
func triangleMesh() *kernel.Mesh {
	return &kernel.Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Indices:  []uint32{0, 1, 2},
	}
}

// quadMesh is a unit quad split along the 0-2 diagonal.
func quadMesh() *kernel.Mesh {
	return &kernel.Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0},
		Indices:  []uint32{0, 1, 2, 2, 3, 0},
	}
}

// octahedronMesh is a closed, consistently wound octahedron.
func octahedronMesh() *kernel.Mesh {
	return &kernel.Mesh{
		Vertices: []float32{
			1, 0, 0, -1, 0, 0,
			0, 1, 0, 0, -1, 0,
			0, 0, 1, 0, 0, -1,
		},
		Indices: []uint32{
			4, 0, 2, 4, 2, 1, 4, 1, 3, 4, 3, 0,
			5, 2, 0, 5, 1, 2, 5, 3, 1, 5, 0, 3,
		},
	}
}

type vec3 [3]float64

func (a vec3) mid(b vec3) vec3 {
	m := vec3{(a[0] + b[0]) / 2, (a[1] + b[1]) / 2, (a[2] + b[2]) / 2}
	l := math.Sqrt(m[0]*m[0] + m[1]*m[1] + m[2]*m[2])
	return vec3{m[0] / l, m[1] / l, m[2] / l}
}

// sphereSoup subdivides the octahedron levels times and returns an
// unindexed mesh in which every corner is stored separately.
func sphereSoup(levels int) *kernel.Mesh {
	oct := octahedronMesh()
	var tris [][3]vec3
	for i := 0; i < len(oct.Indices); i += 3 {
		var tri [3]vec3
		for c := 0; c < 3; c++ {
			x, y, z := oct.Position(int(oct.Indices[i+c]))
			tri[c] = vec3{float64(x), float64(y), float64(z)}
		}
		tris = append(tris, tri)
	}
	for l := 0; l < levels; l++ {
		next := make([][3]vec3, 0, len(tris)*4)
		for _, t := range tris {
			ab, bc, ca := t[0].mid(t[1]), t[1].mid(t[2]), t[2].mid(t[0])
			next = append(next,
				[3]vec3{t[0], ab, ca},
				[3]vec3{ab, t[1], bc},
				[3]vec3{ca, bc, t[2]},
				[3]vec3{ab, bc, ca},
			)
		}
		tris = next
	}
	m := &kernel.Mesh{Vertices: make([]float32, 0, len(tris)*9)}
	for _, t := range tris {
		for _, v := range t {
			m.Vertices = append(m.Vertices, float32(v[0]), float32(v[1]), float32(v[2]))
		}
	}
	return m
}

// requireConsistent checks the symmetry law and the counter identity.
func requireConsistent(t *testing.T, idx *Index) {
	t.Helper()
	n := idx.ActiveTriangles()
	require.Equal(t, 3*n, 2*idx.MatchedEdgePairs()+idx.BoundaryEdges(), "counter identity")

	linked := 0
	for tri := 0; tri < n; tri++ {
		for e := 0; e < 3; e++ {
			st, ok, err := idx.SiblingTriangle(tri, e)
			require.NoError(t, err)
			if !ok {
				continue
			}
			linked++
			se, ok, err := idx.SiblingEdge(tri, e)
			require.NoError(t, err)
			require.True(t, ok)

			back, ok, err := idx.SiblingTriangle(st, se)
			require.NoError(t, err)
			require.True(t, ok, "sibling of (%d,%d) has no sibling", tri, e)
			require.Equal(t, tri, back)
			backEdge, _, err := idx.SiblingEdge(st, se)
			require.NoError(t, err)
			require.Equal(t, e, backEdge)
		}
	}
	require.Equal(t, 2*idx.MatchedEdgePairs(), linked)
}
