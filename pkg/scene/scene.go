// Package scene defines brush scenes: named trees of primitives,
// transforms and boolean operations that tessellate to one mesh per brush.
package scene

import (
	"fmt"

	"github.com/chazu/seam/pkg/kernel"
)

// NodeID identifies a node within a Scene.
type NodeID int

// NodeKind enumerates the types of nodes in a scene.
type NodeKind int

const (
	NodePrimitive NodeKind = iota // box, sphere, cylinder
	NodeTransform                 // translation and rotation of children
	NodeBoolean                   // union, difference, intersection
)

func (k NodeKind) String() string {
	switch k {
	case NodePrimitive:
		return "primitive"
	case NodeTransform:
		return "transform"
	case NodeBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// Vec3 is a 3D vector in scene units.
type Vec3 struct {
	X, Y, Z float64
}

// IsZero reports whether all components are zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Node is the fundamental element of a scene.
type Node struct {
	ID       NodeID
	Kind     NodeKind
	Children []NodeID
	Data     NodeData
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData()
}

// PrimitiveKind selects the shape of a primitive node.
type PrimitiveKind int

const (
	PrimBox PrimitiveKind = iota
	PrimSphere
	PrimCylinder
)

// PrimitiveData describes a primitive solid centered on the origin.
// Size is used by boxes, Radius by spheres and cylinders, Height by
// cylinders.
type PrimitiveData struct {
	Shape  PrimitiveKind
	Size   Vec3
	Radius float64
	Height float64
}

// TransformData rotates (Euler degrees, X then Y then Z) and then
// translates its children.
type TransformData struct {
	Translation Vec3
	Rotation    Vec3
}

// BooleanOp selects how a boolean node combines its children.
type BooleanOp int

const (
	OpUnion BooleanOp = iota
	OpDifference
	OpIntersection
)

func (op BooleanOp) String() string {
	switch op {
	case OpUnion:
		return "union"
	case OpDifference:
		return "difference"
	case OpIntersection:
		return "intersection"
	default:
		return "unknown"
	}
}

// BooleanData folds the children left to right with Op.
type BooleanData struct {
	Op BooleanOp
}

func (PrimitiveData) nodeData() {}
func (TransformData) nodeData() {}
func (BooleanData) nodeData()   {}

// Brush is a named root of the scene; each brush tessellates to one mesh.
// A non-nil Range becomes the mesh's draw range.
type Brush struct {
	Name  string
	Root  NodeID
	Range *kernel.DrawRange
}

// Scene holds the nodes and brushes produced by one evaluation.
type Scene struct {
	Nodes   map[NodeID]*Node
	Brushes []Brush
	names   map[string]int
	nextID  NodeID
}

// New creates an empty Scene.
func New() *Scene {
	return &Scene{
		Nodes: make(map[NodeID]*Node),
		names: make(map[string]int),
	}
}

// AddNode assigns n a fresh ID, stores it and returns the ID.
func (s *Scene) AddNode(n *Node) NodeID {
	n.ID = s.nextID
	s.nextID++
	s.Nodes[n.ID] = n
	return n.ID
}

// AddBrush registers root as a brush named name. Brush names are unique.
func (s *Scene) AddBrush(name string, root NodeID) error {
	return s.AddRangedBrush(name, root, nil)
}

// AddRangedBrush is AddBrush with a draw range, in index buffer units,
// attached to the brush's mesh.
func (s *Scene) AddRangedBrush(name string, root NodeID, r *kernel.DrawRange) error {
	if name == "" {
		return fmt.Errorf("brush name must not be empty")
	}
	if _, dup := s.names[name]; dup {
		return fmt.Errorf("brush %q: %w", name, ErrDuplicateBrush)
	}
	if s.Nodes[root] == nil {
		return fmt.Errorf("brush %q root %d: %w", name, root, ErrMissingNode)
	}
	if r != nil && (r.Start < 0 || r.Count < 0) {
		return fmt.Errorf("brush %q range {start: %d, count: %d}: %w", name, r.Start, r.Count, ErrInvalidRange)
	}
	s.names[name] = len(s.Brushes)
	s.Brushes = append(s.Brushes, Brush{Name: name, Root: root, Range: r})
	return nil
}

// Lookup returns the brush with the given name.
func (s *Scene) Lookup(name string) (Brush, bool) {
	i, ok := s.names[name]
	if !ok {
		return Brush{}, false
	}
	return s.Brushes[i], true
}

// Get returns the node with the given ID, or nil.
func (s *Scene) Get(id NodeID) *Node {
	return s.Nodes[id]
}

// Children returns the child nodes of the given node.
func (s *Scene) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c := s.Nodes[cid]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// NodeCount returns the total number of nodes.
func (s *Scene) NodeCount() int {
	return len(s.Nodes)
}
