package scene

import (
	"fmt"

	"github.com/chazu/seam/pkg/kernel"
)

// Tessellate builds every brush with k and returns one mesh per brush, in
// brush order. Each mesh's PartName is its brush name. The scene is never
// mutated.
func Tessellate(s *Scene, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if s == nil {
		return nil, nil
	}

	meshes := make([]*kernel.Mesh, 0, len(s.Brushes))
	for _, b := range s.Brushes {
		root := s.Get(b.Root)
		if root == nil {
			return nil, fmt.Errorf("tessellate: brush %q: %w", b.Name, ErrMissingNode)
		}
		solid, err := build(s, k, root)
		if err != nil {
			return nil, fmt.Errorf("tessellate: brush %q: %w", b.Name, err)
		}
		mesh, err := k.ToMesh(solid)
		if err != nil {
			return nil, fmt.Errorf("tessellate: ToMesh failed for brush %q: %w", b.Name, err)
		}
		mesh.PartName = b.Name
		if b.Range != nil {
			r := *b.Range
			mesh.DrawRange = &r
		}
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

// build recursively turns a node into a kernel solid.
func build(s *Scene, k kernel.Kernel, n *Node) (kernel.Solid, error) {
	switch n.Kind {
	case NodePrimitive:
		return handlePrimitive(k, n)
	case NodeTransform:
		return handleTransform(s, k, n)
	case NodeBoolean:
		return handleBoolean(s, k, n)
	default:
		return nil, fmt.Errorf("unknown node kind: %v", n.Kind)
	}
}

func handlePrimitive(k kernel.Kernel, n *Node) (kernel.Solid, error) {
	data, ok := n.Data.(PrimitiveData)
	if !ok {
		return nil, fmt.Errorf("primitive node %d has unexpected data type %T", n.ID, n.Data)
	}
	switch data.Shape {
	case PrimBox:
		return k.Box(data.Size.X, data.Size.Y, data.Size.Z), nil
	case PrimSphere:
		return k.Sphere(data.Radius), nil
	case PrimCylinder:
		return k.Cylinder(data.Height, data.Radius), nil
	}
	return nil, fmt.Errorf("primitive node %d has unsupported shape %d", n.ID, data.Shape)
}

// handleTransform unions the children, then rotates and translates.
func handleTransform(s *Scene, k kernel.Kernel, n *Node) (kernel.Solid, error) {
	td, ok := n.Data.(TransformData)
	if !ok {
		return nil, fmt.Errorf("transform node %d has unexpected data type %T", n.ID, n.Data)
	}
	solid, err := fold(s, k, n, k.Union)
	if err != nil {
		return nil, err
	}
	if !td.Rotation.IsZero() {
		solid = k.Rotate(solid, td.Rotation.X, td.Rotation.Y, td.Rotation.Z)
	}
	if !td.Translation.IsZero() {
		solid = k.Translate(solid, td.Translation.X, td.Translation.Y, td.Translation.Z)
	}
	return solid, nil
}

func handleBoolean(s *Scene, k kernel.Kernel, n *Node) (kernel.Solid, error) {
	bd, ok := n.Data.(BooleanData)
	if !ok {
		return nil, fmt.Errorf("boolean node %d has unexpected data type %T", n.ID, n.Data)
	}
	switch bd.Op {
	case OpUnion:
		return fold(s, k, n, k.Union)
	case OpDifference:
		return fold(s, k, n, k.Difference)
	case OpIntersection:
		return fold(s, k, n, k.Intersection)
	}
	return nil, fmt.Errorf("boolean node %d has unsupported op %v", n.ID, bd.Op)
}

// fold builds the children of n and combines them left to right.
func fold(s *Scene, k kernel.Kernel, n *Node, op func(a, b kernel.Solid) kernel.Solid) (kernel.Solid, error) {
	if len(n.Children) == 0 {
		return nil, fmt.Errorf("%s node %d: %w", n.Kind, n.ID, ErrEmptyNode)
	}
	var acc kernel.Solid
	for _, cid := range n.Children {
		child := s.Get(cid)
		if child == nil {
			return nil, fmt.Errorf("%s node %d child %d: %w", n.Kind, n.ID, cid, ErrMissingNode)
		}
		solid, err := build(s, k, child)
		if err != nil {
			return nil, err
		}
		if acc == nil {
			acc = solid
			continue
		}
		acc = op(acc, solid)
	}
	return acc, nil
}
