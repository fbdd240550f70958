// Package tessellate realizes final pipeline solids in a geometry kernel
// and produces triangle meshes: one mesh per solid, or one unioned body per
// material group. The tessellator is read-only and never mutates its input.
package tessellate

import (
	"fmt"

	"github.com/kbickell/layup/pkg/kernel"
	"github.com/kbickell/layup/pkg/solid"
)

// Solids realizes each solid as its own kernel body and tessellates it.
// Mesh names follow the solid names.
func Solids(solids []*solid.Solid, k kernel.Kernel) ([]*kernel.Mesh, error) {
	var meshes []*kernel.Mesh
	for _, s := range solids {
		body, err := k.Prism(s.Footprint, s.ZBottom, s.ZTop)
		if err != nil {
			return nil, fmt.Errorf("tessellate: prism for %q: %w", s.Name, err)
		}
		mesh, err := k.ToMesh(body)
		if err != nil {
			return nil, fmt.Errorf("tessellate: ToMesh failed for %q: %w", s.Name, err)
		}
		mesh.Name = s.Name
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

// MaterialGroups unions all solids of the same material into one kernel
// body and tessellates each group, the way the downstream B-rep writer
// fuses same-material bodies. Group order follows first appearance.
func MaterialGroups(solids []*solid.Solid, k kernel.Kernel) ([]*kernel.Mesh, error) {
	var order []string
	groups := make(map[string]kernel.Solid)

	for _, s := range solids {
		body, err := k.Prism(s.Footprint, s.ZBottom, s.ZTop)
		if err != nil {
			return nil, fmt.Errorf("tessellate: prism for %q: %w", s.Name, err)
		}
		if existing, ok := groups[s.Material]; ok {
			groups[s.Material] = k.Union(existing, body)
		} else {
			groups[s.Material] = body
			order = append(order, s.Material)
		}
	}

	var meshes []*kernel.Mesh
	for _, mat := range order {
		mesh, err := k.ToMesh(groups[mat])
		if err != nil {
			return nil, fmt.Errorf("tessellate: ToMesh failed for material %q: %w", mat, err)
		}
		mesh.Name = mat
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}
