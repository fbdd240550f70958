// Package layout models the hierarchical 2D layout tree — named structures
// holding polygons, wires, and nested instance references — and flattens it
// into absolute-coordinate polygons.
package layout

import (
	"math"

	"github.com/kbickell/layup/pkg/geom"
)

// Transform is the affine transform attached to a reference instance.
// Application order is fixed: reflect about the local x-axis, rotate about
// the origin, magnify uniformly, then translate to the insertion point.
type Transform struct {
	Reflect       bool    `json:"reflect"`
	AngleDeg      float64 `json:"angle_deg"`
	Magnification float64 `json:"magnification"`
}

// Apply maps a local point through reflect, rotate, and magnify. Translation
// is the caller's job since the insertion point varies per array cell.
// A zero magnification is treated as 1 (unset in the source format).
func (t Transform) Apply(p geom.Point) geom.Point {
	x, y := p.X, p.Y
	if t.Reflect {
		y = -y
	}
	if t.AngleDeg != 0 {
		rad := t.AngleDeg * math.Pi / 180
		sin, cos := math.Sincos(rad)
		x, y = x*cos-y*sin, x*sin+y*cos
	}
	if mag := t.Magnification; mag != 0 && mag != 1 {
		x *= mag
		y *= mag
	}
	return geom.Point{X: x, Y: y}
}

// Element is the closed set of layout tree element variants. The marker
// method restricts implementations to this package so consumers can match
// exhaustively.
type Element interface {
	element()
}

// Polygon is a closed boundary on one layer, in structure-local coordinates.
type Polygon struct {
	Layer    int       `json:"layer"`
	Datatype int       `json:"datatype"`
	Vertices geom.Ring `json:"vertices"`
}

func (Polygon) element() {}

// Wire is an open path with a width, converted to polygons during flattening.
type Wire struct {
	Layer    int          `json:"layer"`
	Datatype int          `json:"datatype"`
	Vertices []geom.Point `json:"vertices"`
	Width    float64      `json:"width"`
}

func (Wire) element() {}

// Ref places one instance of a named structure.
type Ref struct {
	Target    string     `json:"target"`
	At        geom.Point `json:"at"`
	Transform Transform  `json:"transform"`
}

func (Ref) element() {}

// ARef places a regular Cols x Rows grid of instances of a named structure.
// The cell step vectors are (ColEnd-Origin)/Cols and (RowEnd-Origin)/Rows.
type ARef struct {
	Target    string     `json:"target"`
	Origin    geom.Point `json:"origin"`
	ColEnd    geom.Point `json:"col_endpoint"`
	RowEnd    geom.Point `json:"row_endpoint"`
	Cols      int        `json:"col_count"`
	Rows      int        `json:"row_count"`
	Transform Transform  `json:"transform"`
}

func (ARef) element() {}
