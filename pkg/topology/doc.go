// Package topology builds edge adjacency for indexed (or unindexed)
// triangle meshes. For every triangle edge it records which other
// triangle shares that edge and in which local edge slot, welding
// vertices whose positions agree within a quantization tolerance.
//
// An Index is meant to be created once and rebuilt in place whenever the
// mesh changes, typically once per evaluated frame. Its adjacency table
// only ever grows, so a mesh whose triangle count fluctuates does not
// cause repeated allocation.
//
// Edges are addressed by (triangle, edge) where edge e of triangle t runs
// from corner e to corner (e+1)%3. The pair is packed into an EdgeID as
// t*3+e.
//
// An Index is not safe for concurrent use.
package topology
