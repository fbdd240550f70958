// Package geom provides the 2D primitives shared by every pipeline stage:
// polygon rings, orientation and area computation, rectangle windows, and
// congruence testing between footprints.
package geom

import (
	"errors"
	"math"
)

// ErrDegenerate is returned when a ring collapses below 3 distinct vertices.
var ErrDegenerate = errors.New("degenerate polygon: fewer than 3 distinct vertices")

// ErrInvalidWindow is returned for a window rectangle with inverted extents.
var ErrInvalidWindow = errors.New("invalid window: min exceeds max")

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Ring is a closed polygon boundary. The closing edge from the last vertex
// back to the first is implicit; a ring never stores a duplicate end vertex.
type Ring []Point

// SignedArea computes the shoelace area of the ring. Positive means
// counter-clockwise vertex order.
func (r Ring) SignedArea() float64 {
	if len(r) < 3 {
		return 0
	}
	sum := 0.0
	for i, p := range r {
		q := r[(i+1)%len(r)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}

// Area returns the absolute shoelace area.
func (r Ring) Area() float64 {
	return math.Abs(r.SignedArea())
}

// IsCCW reports whether the ring winds counter-clockwise.
func (r Ring) IsCCW() bool {
	return r.SignedArea() > 0
}

// Reverse returns a copy of the ring with opposite winding.
func (r Ring) Reverse() Ring {
	out := make(Ring, len(r))
	for i, p := range r {
		out[len(r)-1-i] = p
	}
	return out
}

// Clone returns an independent copy of the ring.
func (r Ring) Clone() Ring {
	out := make(Ring, len(r))
	copy(out, r)
	return out
}

// BBox returns the axis-aligned bounding rectangle of the ring.
func (r Ring) BBox() Rect {
	if len(r) == 0 {
		return Rect{}
	}
	bb := Rect{XMin: r[0].X, YMin: r[0].Y, XMax: r[0].X, YMax: r[0].Y}
	for _, p := range r[1:] {
		bb.XMin = math.Min(bb.XMin, p.X)
		bb.YMin = math.Min(bb.YMin, p.Y)
		bb.XMax = math.Max(bb.XMax, p.X)
		bb.YMax = math.Max(bb.YMax, p.Y)
	}
	return bb
}

// Congruent reports whether two rings describe the same footprint within eps.
// Matching tolerates a rotated start index but requires the same cyclic order:
// a reversed-winding ring is not considered congruent. Rings produced by this
// pipeline are always normalized CCW, so reversal cannot occur between two
// valid footprints.
func Congruent(a, b Ring, eps float64) bool {
	n := len(a)
	if n == 0 || n != len(b) {
		return false
	}
	for off := 0; off < n; off++ {
		match := true
		for i := 0; i < n; i++ {
			p, q := a[i], b[(i+off)%n]
			if math.Abs(p.X-q.X) > eps || math.Abs(p.Y-q.Y) > eps {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	XMin, YMin float64
	XMax, YMax float64
}

// Valid reports whether the rectangle has non-inverted extents.
func (rc Rect) Valid() bool {
	return rc.XMin <= rc.XMax && rc.YMin <= rc.YMax
}

// Expand grows the rectangle by margin on all four sides.
func (rc Rect) Expand(margin float64) Rect {
	return Rect{
		XMin: rc.XMin - margin,
		YMin: rc.YMin - margin,
		XMax: rc.XMax + margin,
		YMax: rc.YMax + margin,
	}
}

// Intersects reports whether two rectangles overlap (touching counts).
func (rc Rect) Intersects(o Rect) bool {
	return rc.XMin <= o.XMax && o.XMin <= rc.XMax &&
		rc.YMin <= o.YMax && o.YMin <= rc.YMax
}
