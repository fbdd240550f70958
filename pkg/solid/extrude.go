package solid

import (
	"errors"
	"fmt"

	"github.com/kbickell/layup/pkg/geom"
	"github.com/kbickell/layup/pkg/layer"
)

// ErrInvalidHeight is returned when z_top does not exceed z_bottom.
var ErrInvalidHeight = errors.New("extrusion height must be positive")

// Extrude lifts a normalized CCW ring into a vertical prism between zBottom
// and zTop. Vertex layout: indices 0..N-1 are the bottom ring at zBottom,
// N..2N-1 the top ring at zTop. Face layout: Faces[0] is the bottom face
// (CCW viewed from below, outward normal -z), Faces[1] the top face (CCW
// viewed from above, outward normal +z), followed by one quadrilateral
// [bottom_i, bottom_i+1, top_i+1, top_i] per ring edge.
func Extrude(ring geom.Ring, zBottom, zTop float64) (*Solid, error) {
	if zTop <= zBottom {
		return nil, fmt.Errorf("%w: z=[%g,%g]", ErrInvalidHeight, zBottom, zTop)
	}
	footprint, err := geom.Normalize(ring, geom.NormalizeOptions{})
	if err != nil {
		return nil, err
	}
	n := len(footprint)

	vertices := make([]Vertex, 0, 2*n)
	for _, p := range footprint {
		vertices = append(vertices, Vertex{X: p.X, Y: p.Y, Z: zBottom})
	}
	for _, p := range footprint {
		vertices = append(vertices, Vertex{X: p.X, Y: p.Y, Z: zTop})
	}

	faces := make([]Face, 0, n+2)

	// Bottom: ring order reversed so the face winds CCW seen from below.
	bottom := make(Face, n)
	bottom[0] = 0
	for i := 1; i < n; i++ {
		bottom[i] = n - i
	}
	faces = append(faces, bottom)

	// Top: ring order as-is, CCW seen from above.
	top := make(Face, n)
	for i := 0; i < n; i++ {
		top[i] = n + i
	}
	faces = append(faces, top)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		faces = append(faces, Face{i, j, n + j, n + i})
	}

	area := footprint.Area()
	bb2 := footprint.BBox()
	s := &Solid{
		Vertices:  vertices,
		Faces:     faces,
		Footprint: footprint,
		BBox: BBox{
			XMin: bb2.XMin, YMin: bb2.YMin, ZMin: zBottom,
			XMax: bb2.XMax, YMax: bb2.YMax, ZMax: zTop,
		},
		BaseArea: area,
		Volume:   area * (zTop - zBottom),
		ZBottom:  zBottom,
		ZTop:     zTop,
	}
	return s, nil
}

// ExtrudeLayer extrudes a footprint over a layer's z-range and tags the
// solid with the layer's identity and material.
func ExtrudeLayer(ring geom.Ring, spec *layer.Spec) (*Solid, error) {
	s, err := Extrude(ring, spec.ZBottom, spec.ZTop)
	if err != nil {
		return nil, err
	}
	s.Name = spec.Name
	s.LayerName = spec.Name
	s.Material = spec.Material
	s.Color = spec.Color
	return s, nil
}
