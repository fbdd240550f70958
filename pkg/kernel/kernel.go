// Package kernel defines the abstract geometry kernel interface. The
// pipeline decides which solids to build and union; a kernel implementation
// (sdfx in-process, or an external B-rep service) performs the actual solid
// modeling. The abstraction allows swapping backends without changing the
// rest of the system.
package kernel

import "github.com/kbickell/layup/pkg/geom"

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Prism realizes a straight vertical extrusion of a closed CCW ring
	// between zBottom and zTop.
	Prism(footprint geom.Ring, zBottom, zTop float64) (Solid, error)

	// Union returns the boolean union of two solids.
	Union(a, b Solid) Solid

	// ToMesh tessellates a solid into a triangle mesh.
	ToMesh(s Solid) (*Mesh, error)
}
