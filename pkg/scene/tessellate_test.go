package scene_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/chazu/seam/pkg/kernel"
	"github.com/chazu/seam/pkg/kernel/sdfx"
	"github.com/chazu/seam/pkg/scene"
)

// traceSolid records the kernel calls that produced it.
type traceSolid string

func (s traceSolid) BoundingBox() (min, max [3]float64) { return }

// traceKernel builds solids whose value is the expression that made them.
type traceKernel struct{}

func (traceKernel) Box(x, y, z float64) kernel.Solid {
	return traceSolid(fmt.Sprintf("box(%g,%g,%g)", x, y, z))
}
func (traceKernel) Sphere(r float64) kernel.Solid { return traceSolid(fmt.Sprintf("sphere(%g)", r)) }
func (traceKernel) Cylinder(h, r float64) kernel.Solid {
	return traceSolid(fmt.Sprintf("cylinder(%g,%g)", h, r))
}
func (traceKernel) Union(a, b kernel.Solid) kernel.Solid {
	return traceSolid(fmt.Sprintf("union(%s,%s)", a, b))
}
func (traceKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return traceSolid(fmt.Sprintf("difference(%s,%s)", a, b))
}
func (traceKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return traceSolid(fmt.Sprintf("intersection(%s,%s)", a, b))
}
func (traceKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return traceSolid(fmt.Sprintf("translate(%s,%g,%g,%g)", s, x, y, z))
}
func (traceKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return traceSolid(fmt.Sprintf("rotate(%s,%g,%g,%g)", s, x, y, z))
}
func (traceKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	return &kernel.Mesh{}, nil
}

func box(s *scene.Scene, x, y, z float64) scene.NodeID {
	return s.AddNode(&scene.Node{
		Kind: scene.NodePrimitive,
		Data: scene.PrimitiveData{Shape: scene.PrimBox, Size: scene.Vec3{X: x, Y: y, Z: z}},
	})
}

func sphere(s *scene.Scene, r float64) scene.NodeID {
	return s.AddNode(&scene.Node{
		Kind: scene.NodePrimitive,
		Data: scene.PrimitiveData{Shape: scene.PrimSphere, Radius: r},
	})
}

func boolean(s *scene.Scene, op scene.BooleanOp, children ...scene.NodeID) scene.NodeID {
	return s.AddNode(&scene.Node{
		Kind:     scene.NodeBoolean,
		Children: children,
		Data:     scene.BooleanData{Op: op},
	})
}

func TestTessellateNilScene(t *testing.T) {
	meshes, err := scene.Tessellate(nil, traceKernel{})
	if err != nil || meshes != nil {
		t.Fatalf("Tessellate(nil) = %v, %v; want nil, nil", meshes, err)
	}
}

// exprKernel records the expression of every tessellated solid.
type exprKernel struct {
	traceKernel
	exprs []string
}

func (k *exprKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	k.exprs = append(k.exprs, string(s.(traceSolid)))
	return &kernel.Mesh{}, nil
}

func TestTessellateBuildsExpressions(t *testing.T) {
	s := scene.New()
	cutter := s.AddNode(&scene.Node{
		Kind:     scene.NodeTransform,
		Children: []scene.NodeID{sphere(s, 2)},
		Data: scene.TransformData{
			Translation: scene.Vec3{X: 1},
			Rotation:    scene.Vec3{Z: 90},
		},
	})
	diff := boolean(s, scene.OpDifference, box(s, 4, 4, 4), cutter, sphere(s, 1))
	if err := s.AddBrush("cut", diff); err != nil {
		t.Fatal(err)
	}
	if err := s.AddBrush("ball", sphere(s, 3)); err != nil {
		t.Fatal(err)
	}

	k := &exprKernel{}
	meshes, err := scene.Tessellate(s, k)
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	want := []string{
		"difference(difference(box(4,4,4),translate(rotate(sphere(2),0,0,90),1,0,0)),sphere(1))",
		"sphere(3)",
	}
	if !reflect.DeepEqual(k.exprs, want) {
		t.Errorf("expressions = %q, want %q", k.exprs, want)
	}
	if len(meshes) != 2 || meshes[0].PartName != "cut" || meshes[1].PartName != "ball" {
		t.Errorf("unexpected meshes: %+v", meshes)
	}
}

func TestTessellateErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func(s *scene.Scene) scene.NodeID
		want  error
	}{
		{"empty boolean", func(s *scene.Scene) scene.NodeID {
			return boolean(s, scene.OpUnion)
		}, scene.ErrEmptyNode},
		{"missing child", func(s *scene.Scene) scene.NodeID {
			return boolean(s, scene.OpUnion, box(s, 1, 1, 1), scene.NodeID(99))
		}, scene.ErrMissingNode},
		{"empty transform", func(s *scene.Scene) scene.NodeID {
			return s.AddNode(&scene.Node{Kind: scene.NodeTransform, Data: scene.TransformData{}})
		}, scene.ErrEmptyNode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := scene.New()
			if err := s.AddBrush("b", tt.build(s)); err != nil {
				t.Fatal(err)
			}
			_, err := scene.Tessellate(s, traceKernel{})
			if !errors.Is(err, tt.want) {
				t.Errorf("Tessellate error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAddBrush(t *testing.T) {
	s := scene.New()
	id := box(s, 1, 1, 1)

	if err := s.AddBrush("a", id); err != nil {
		t.Fatalf("AddBrush failed: %v", err)
	}
	if err := s.AddBrush("a", id); !errors.Is(err, scene.ErrDuplicateBrush) {
		t.Errorf("duplicate AddBrush error = %v, want ErrDuplicateBrush", err)
	}
	if err := s.AddBrush("b", scene.NodeID(42)); !errors.Is(err, scene.ErrMissingNode) {
		t.Errorf("AddBrush with missing root error = %v, want ErrMissingNode", err)
	}
	if err := s.AddBrush("", id); err == nil {
		t.Error("AddBrush with empty name should fail")
	}
	if b, ok := s.Lookup("a"); !ok || b.Root != id {
		t.Errorf("Lookup(a) = %+v, %v", b, ok)
	}
	if _, ok := s.Lookup("b"); ok {
		t.Error("Lookup(b) should fail")
	}
}

func TestRangedBrush(t *testing.T) {
	s := scene.New()
	id := box(s, 1, 1, 1)

	bad := &kernel.DrawRange{Start: -3, Count: 3}
	if err := s.AddRangedBrush("bad", id, bad); !errors.Is(err, scene.ErrInvalidRange) {
		t.Errorf("AddRangedBrush error = %v, want ErrInvalidRange", err)
	}

	r := &kernel.DrawRange{Start: 3, Count: 6}
	if err := s.AddRangedBrush("ranged", id, r); err != nil {
		t.Fatalf("AddRangedBrush failed: %v", err)
	}
	if err := s.AddBrush("plain", id); err != nil {
		t.Fatal(err)
	}

	meshes, err := scene.Tessellate(s, traceKernel{})
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(meshes))
	}
	if got := meshes[0].DrawRange; got == nil || *got != *r {
		t.Errorf("ranged mesh DrawRange = %+v, want %+v", got, *r)
	}
	if got := meshes[0].DrawRange; got == r {
		t.Error("mesh should carry a copy of the brush range")
	}
	if meshes[1].DrawRange != nil {
		t.Errorf("plain mesh DrawRange = %+v, want nil", *meshes[1].DrawRange)
	}
}

func TestTessellateWithSdfx(t *testing.T) {
	s := scene.New()
	if err := s.AddBrush("shell", boolean(s, scene.OpDifference, box(s, 10, 10, 10), sphere(s, 6))); err != nil {
		t.Fatal(err)
	}

	meshes, err := scene.Tessellate(s, sdfx.New(20))
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(meshes))
	}
	if meshes[0].PartName != "shell" {
		t.Errorf("PartName = %q, want %q", meshes[0].PartName, "shell")
	}
	if meshes[0].TriangleCount() == 0 {
		t.Error("expected triangles")
	}
}
