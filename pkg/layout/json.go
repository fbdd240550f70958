package layout

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kbickell/layup/pkg/geom"
)

// libraryFile is the on-disk JSON layout tree: a map of structure names to
// tagged element records plus the default root structure. It stands in for
// the binary layout reader at the pipeline's edge.
type libraryFile struct {
	Top        string                     `json:"top"`
	Structures map[string][]elementRecord `json:"structures"`
}

// elementRecord is the tagged-union wire form of an Element.
type elementRecord struct {
	Type string `json:"type"` // polygon | wire | ref | aref

	Layer    int          `json:"layer,omitempty"`
	Datatype int          `json:"datatype,omitempty"`
	Vertices [][2]float64 `json:"vertices,omitempty"`
	Width    float64      `json:"width,omitempty"`

	Target string     `json:"target,omitempty"`
	At     [2]float64 `json:"at,omitempty"`
	Origin [2]float64 `json:"origin,omitempty"`
	ColEnd [2]float64 `json:"col_endpoint,omitempty"`
	RowEnd [2]float64 `json:"row_endpoint,omitempty"`
	Cols   int        `json:"col_count,omitempty"`
	Rows   int        `json:"row_count,omitempty"`

	Reflect       bool    `json:"reflect,omitempty"`
	AngleDeg      float64 `json:"angle_deg,omitempty"`
	Magnification float64 `json:"magnification,omitempty"`
}

// LoadLibrary reads a JSON layout tree from disk. It returns the library
// and the file's declared top structure name (may be empty).
func LoadLibrary(path string) (Library, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read layout: %w", err)
	}
	return ParseLibrary(raw)
}

// ParseLibrary parses a JSON layout tree document.
func ParseLibrary(raw []byte) (Library, string, error) {
	var file libraryFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, "", fmt.Errorf("parse layout: %w", err)
	}

	lib := make(Library, len(file.Structures))
	for name, records := range file.Structures {
		elems := make([]Element, 0, len(records))
		for i, rec := range records {
			e, err := rec.toElement()
			if err != nil {
				return nil, "", fmt.Errorf("structure %q element %d: %w", name, i, err)
			}
			elems = append(elems, e)
		}
		lib[name] = elems
	}
	return lib, file.Top, nil
}

func (rec elementRecord) toElement() (Element, error) {
	t := Transform{
		Reflect:       rec.Reflect,
		AngleDeg:      rec.AngleDeg,
		Magnification: rec.Magnification,
	}
	switch rec.Type {
	case "polygon":
		return Polygon{
			Layer:    rec.Layer,
			Datatype: rec.Datatype,
			Vertices: toRing(rec.Vertices),
		}, nil
	case "wire":
		return Wire{
			Layer:    rec.Layer,
			Datatype: rec.Datatype,
			Vertices: toRing(rec.Vertices),
			Width:    rec.Width,
		}, nil
	case "ref":
		return Ref{
			Target:    rec.Target,
			At:        geom.Point{X: rec.At[0], Y: rec.At[1]},
			Transform: t,
		}, nil
	case "aref":
		return ARef{
			Target:    rec.Target,
			Origin:    geom.Point{X: rec.Origin[0], Y: rec.Origin[1]},
			ColEnd:    geom.Point{X: rec.ColEnd[0], Y: rec.ColEnd[1]},
			RowEnd:    geom.Point{X: rec.RowEnd[0], Y: rec.RowEnd[1]},
			Cols:      rec.Cols,
			Rows:      rec.Rows,
			Transform: t,
		}, nil
	default:
		return nil, fmt.Errorf("unknown element type %q", rec.Type)
	}
}

func toRing(pts [][2]float64) geom.Ring {
	out := make(geom.Ring, len(pts))
	for i, p := range pts {
		out[i] = geom.Point{X: p[0], Y: p[1]}
	}
	return out
}
