// Package solid builds and merges extruded 3D solids. A solid is a straight
// vertical prism over a normalized CCW footprint ring, with explicit
// vertex/face topology suitable for meshing or B-rep construction.
package solid

import (
	"fmt"
	"math"

	"github.com/kbickell/layup/pkg/geom"
)

// Vertex is a 3D coordinate.
type Vertex struct {
	X, Y, Z float64
}

// Face is a list of vertex indices wound CCW when viewed from outside the
// solid (outward normal by the right-hand rule).
type Face []int

// BBox is an axis-aligned 3D bounding box.
type BBox struct {
	XMin, YMin, ZMin float64
	XMax, YMax, ZMax float64
}

// Solid is one extruded prism. For a footprint of N vertices it has exactly
// 2N vertices (bottom ring then top ring) and N+2 faces (bottom, top, N
// quadrilateral sides). Solids are immutable once built; downstream stages
// read them concurrently without synchronization.
type Solid struct {
	Vertices []Vertex
	Faces    []Face

	Footprint geom.Ring // the extruded cross-section, normalized CCW
	BBox      BBox
	BaseArea  float64
	Volume    float64

	Name      string // layer name, or "<material>_continuous" after merging
	LayerName string
	Material  string
	Color     string
	ZBottom   float64
	ZTop      float64
	Merged    bool
}

// Height returns the extrusion height.
func (s *Solid) Height() float64 {
	return s.ZTop - s.ZBottom
}

// volumeEps is the relative tolerance for the volume invariant check.
const volumeEps = 1e-9

// Check verifies the structural invariants every valid solid must satisfy.
func (s *Solid) Check() error {
	n := len(s.Footprint)
	if n < 3 {
		return fmt.Errorf("solid %q: footprint has %d vertices, need at least 3", s.Name, n)
	}
	if s.BaseArea <= 0 {
		return fmt.Errorf("solid %q: base area %g must be positive", s.Name, s.BaseArea)
	}
	if len(s.Vertices) != 2*n {
		return fmt.Errorf("solid %q: %d vertices, want %d", s.Name, len(s.Vertices), 2*n)
	}
	if len(s.Faces) != n+2 {
		return fmt.Errorf("solid %q: %d faces, want %d", s.Name, len(s.Faces), n+2)
	}
	for i, f := range s.Faces[2:] {
		if len(f) != 4 {
			return fmt.Errorf("solid %q: side face %d has %d indices, want 4", s.Name, i, len(f))
		}
	}
	want := s.BaseArea * s.Height()
	if math.Abs(s.Volume-want) > volumeEps*math.Max(1, want) {
		return fmt.Errorf("solid %q: volume %g disagrees with base*height %g", s.Name, s.Volume, want)
	}
	return nil
}
