package export

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/kbickell/layup/pkg/kernel"
)

// WriteMeshSTL writes kernel triangle meshes as a single binary STL file.
// Kernel meshes replicate the facet normal on every corner, so the first
// corner's stored normal is used for each facet record.
func WriteMeshSTL(w io.Writer, meshes []*kernel.Mesh) error {
	var count uint32
	for _, m := range meshes {
		count += uint32(m.TriangleCount())
	}

	var header [stlHeaderSize]byte
	copy(header[:], "layup kernel export")
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("stl: write header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, count); err != nil {
		return fmt.Errorf("stl: write count: %w", err)
	}

	bw := bufio.NewWriter(w)
	for _, m := range meshes {
		for t := 0; t+2 < len(m.Indices); t += 3 {
			var rec stlTriangle
			for c := 0; c < 3; c++ {
				i := m.Indices[t+c]
				rec.Verts[c] = [3]float32{
					m.Vertices[3*i],
					m.Vertices[3*i+1],
					m.Vertices[3*i+2],
				}
			}
			n := m.Indices[t]
			if int(3*n+2) < len(m.Normals) {
				rec.Normal = [3]float32{
					m.Normals[3*n],
					m.Normals[3*n+1],
					m.Normals[3*n+2],
				}
			}
			if err := binary.Write(bw, binary.LittleEndian, &rec); err != nil {
				return fmt.Errorf("stl: write triangle: %w", err)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("stl: flush: %w", err)
	}
	return nil
}
