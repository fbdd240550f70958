package tessellate_test

import (
	"testing"

	"github.com/kbickell/layup/pkg/geom"
	"github.com/kbickell/layup/pkg/kernel"
	"github.com/kbickell/layup/pkg/kernel/sdfx"
	"github.com/kbickell/layup/pkg/solid"
	"github.com/kbickell/layup/pkg/tessellate"
)

// newKernel returns a coarse sdfx kernel; tests need topology, not fidelity.
func newKernel() kernel.Kernel {
	return &sdfx.Kernel{MeshCells: 48}
}

func makeSolid(t *testing.T, name, material string, x0, y0, x1, y1, zb, zt float64) *solid.Solid {
	t.Helper()
	ring := geom.Ring{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
	s, err := solid.Extrude(ring, zb, zt)
	if err != nil {
		t.Fatalf("Extrude failed: %v", err)
	}
	s.Name = name
	s.Material = material
	return s
}

func TestSolidsOneMeshEach(t *testing.T) {
	k := newKernel()
	in := []*solid.Solid{
		makeSolid(t, "Metal1", "aluminum", 0, 0, 10, 10, 0, 2),
		makeSolid(t, "Via1", "tungsten", 2, 2, 4, 4, 2, 3),
	}

	meshes, err := tessellate.Solids(in, k)
	if err != nil {
		t.Fatalf("Solids failed: %v", err)
	}
	if len(meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(meshes))
	}
	names := map[string]bool{}
	for _, m := range meshes {
		if m.IsEmpty() {
			t.Errorf("mesh %q should not be empty", m.Name)
		}
		if m.TriangleCount() == 0 {
			t.Errorf("mesh %q should have triangles", m.Name)
		}
		names[m.Name] = true
	}
	if !names["Metal1"] || !names["Via1"] {
		t.Errorf("mesh names = %v", names)
	}
}

func TestMaterialGroupsUnion(t *testing.T) {
	k := newKernel()
	in := []*solid.Solid{
		makeSolid(t, "Metal1", "aluminum", 0, 0, 10, 10, 0, 2),
		makeSolid(t, "Metal2", "aluminum", 0, 0, 10, 10, 2, 4),
		makeSolid(t, "Via1", "tungsten", 2, 2, 4, 4, 4, 5),
	}

	meshes, err := tessellate.MaterialGroups(in, k)
	if err != nil {
		t.Fatalf("MaterialGroups failed: %v", err)
	}
	if len(meshes) != 2 {
		t.Fatalf("expected 2 material meshes, got %d", len(meshes))
	}
	if meshes[0].Name != "aluminum" || meshes[1].Name != "tungsten" {
		t.Errorf("group order = %q, %q", meshes[0].Name, meshes[1].Name)
	}
	for _, m := range meshes {
		if m.IsEmpty() {
			t.Errorf("mesh %q should not be empty", m.Name)
		}
	}
}

func TestEmptyInput(t *testing.T) {
	k := newKernel()
	meshes, err := tessellate.Solids(nil, k)
	if err != nil {
		t.Fatalf("Solids failed: %v", err)
	}
	if len(meshes) != 0 {
		t.Fatalf("expected 0 meshes, got %d", len(meshes))
	}
}
