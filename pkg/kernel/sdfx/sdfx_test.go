package sdfx

import (
	"math"
	"testing"

	"github.com/kbickell/layup/pkg/geom"
)

var unitFootprint = geom.Ring{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}

func TestPrismBoundingBox(t *testing.T) {
	k := New()
	s, err := k.Prism(unitFootprint, 1, 3)
	if err != nil {
		t.Fatalf("Prism failed: %v", err)
	}
	min, max := s.BoundingBox()
	const tol = 1e-6
	if math.Abs(min[2]-1) > tol || math.Abs(max[2]-3) > tol {
		t.Errorf("z range = [%g,%g], want [1,3]", min[2], max[2])
	}
	if math.Abs(min[0]-0) > tol || math.Abs(max[0]-10) > tol {
		t.Errorf("x range = [%g,%g], want [0,10]", min[0], max[0])
	}
}

func TestPrismEmptyZRange(t *testing.T) {
	k := New()
	if _, err := k.Prism(unitFootprint, 2, 2); err == nil {
		t.Error("empty z range should fail")
	}
}

func TestUnionBoundingBox(t *testing.T) {
	k := New()
	a, err := k.Prism(unitFootprint, 0, 1)
	if err != nil {
		t.Fatalf("Prism failed: %v", err)
	}
	b, err := k.Prism(unitFootprint, 1, 2)
	if err != nil {
		t.Fatalf("Prism failed: %v", err)
	}
	u := k.Union(a, b)
	min, max := u.BoundingBox()
	if min[2] > 1e-6 || max[2] < 2-1e-6 {
		t.Errorf("union z range = [%g,%g], want to cover [0,2]", min[2], max[2])
	}
}

func TestToMesh(t *testing.T) {
	k := &Kernel{MeshCells: 48}
	s, err := k.Prism(unitFootprint, 0, 2)
	if err != nil {
		t.Fatalf("Prism failed: %v", err)
	}
	m, err := k.ToMesh(s)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if m.IsEmpty() {
		t.Fatal("mesh should not be empty")
	}
	if m.VertexCount() == 0 || m.TriangleCount() == 0 {
		t.Error("mesh should have vertices and triangles")
	}
	// Every vertex should stay near the prism's bounds (marching cubes
	// samples slightly outside the surface).
	for i := 0; i < m.VertexCount(); i++ {
		x := float64(m.Vertices[i*3])
		y := float64(m.Vertices[i*3+1])
		z := float64(m.Vertices[i*3+2])
		if x < -1 || x > 11 || y < -1 || y > 11 || z < -1 || z > 3 {
			t.Fatalf("vertex %d = (%g,%g,%g) far outside prism", i, x, y, z)
		}
	}
}
