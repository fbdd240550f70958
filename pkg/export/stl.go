// Package export serializes the final solid set: a triangulated mesh stream
// in binary or ASCII STL, and a JSON interchange description for an external
// B-rep CAD writer.
package export

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/kbickell/layup/pkg/solid"
)

// Triangle is one record of the mesh stream: an outward unit normal and
// three vertices wound by the right-hand rule.
type Triangle struct {
	Normal [3]float64
	V      [3]solid.Vertex
}

// Triangulate fan-triangulates every face of a solid from its first vertex,
// producing N-2 triangles per N-gon. Face windings are already outward, so
// each triangle's winding normal points out of the solid.
func Triangulate(s *solid.Solid) []Triangle {
	var tris []Triangle
	for _, face := range s.Faces {
		for i := 1; i < len(face)-1; i++ {
			t := Triangle{V: [3]solid.Vertex{
				s.Vertices[face[0]],
				s.Vertices[face[i]],
				s.Vertices[face[i+1]],
			}}
			t.Normal = windingNormal(t.V)
			tris = append(tris, t)
		}
	}
	return tris
}

// TriangulateAll concatenates the triangle streams of all solids.
func TriangulateAll(solids []*solid.Solid) []Triangle {
	var tris []Triangle
	for _, s := range solids {
		tris = append(tris, Triangulate(s)...)
	}
	return tris
}

// windingNormal computes the unit normal of a triangle from its winding.
// A degenerate triangle yields the zero normal.
func windingNormal(v [3]solid.Vertex) [3]float64 {
	ux, uy, uz := v[1].X-v[0].X, v[1].Y-v[0].Y, v[1].Z-v[0].Z
	wx, wy, wz := v[2].X-v[0].X, v[2].Y-v[0].Y, v[2].Z-v[0].Z
	nx := uy*wz - uz*wy
	ny := uz*wx - ux*wz
	nz := ux*wy - uy*wx
	length := math.Sqrt(nx*nx + ny*ny + nz*nz)
	if length == 0 {
		return [3]float64{}
	}
	return [3]float64{nx / length, ny / length, nz / length}
}

// stlHeaderSize is the fixed binary STL header length.
const stlHeaderSize = 80

// WriteSTL writes the solids' triangle stream as a binary STL file:
// an 80-byte header, a uint32 triangle count, then 50 bytes per triangle
// (normal, three vertices, attribute count), all little-endian.
func WriteSTL(w io.Writer, solids []*solid.Solid) error {
	tris := TriangulateAll(solids)

	var header [stlHeaderSize]byte
	copy(header[:], "layup solid export")
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("stl: write header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(tris))); err != nil {
		return fmt.Errorf("stl: write count: %w", err)
	}

	bw := bufio.NewWriter(w)
	for _, t := range tris {
		rec := stlRecord(t)
		if err := binary.Write(bw, binary.LittleEndian, &rec); err != nil {
			return fmt.Errorf("stl: write triangle: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("stl: flush: %w", err)
	}
	return nil
}

// binary STL triangle record: 12 floats plus the attribute byte count.
type stlTriangle struct {
	Normal [3]float32
	Verts  [3][3]float32
	Attr   uint16
}

func stlRecord(t Triangle) stlTriangle {
	var rec stlTriangle
	for i := 0; i < 3; i++ {
		rec.Normal[i] = float32(t.Normal[i])
	}
	for i, v := range t.V {
		rec.Verts[i] = [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
	}
	return rec
}

// WriteSTLASCII writes the identical triangle set in the plain-text STL
// encoding.
func WriteSTLASCII(w io.Writer, name string, solids []*solid.Solid) error {
	tris := TriangulateAll(solids)

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "solid %s\n", name)
	for _, t := range tris {
		fmt.Fprintf(bw, "  facet normal %g %g %g\n", t.Normal[0], t.Normal[1], t.Normal[2])
		fmt.Fprintf(bw, "    outer loop\n")
		for _, v := range t.V {
			fmt.Fprintf(bw, "      vertex %g %g %g\n", v.X, v.Y, v.Z)
		}
		fmt.Fprintf(bw, "    endloop\n")
		fmt.Fprintf(bw, "  endfacet\n")
	}
	fmt.Fprintf(bw, "endsolid %s\n", name)
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("stl: flush: %w", err)
	}
	return nil
}
