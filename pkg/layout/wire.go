package layout

import (
	"fmt"
	"math"

	clipper "github.com/ctessum/go.clipper"

	"github.com/kbickell/layup/pkg/geom"
)

// clipperScale converts float layout coordinates to the integer grid the
// clipper library operates on. 1e4 keeps four decimal places, well below
// any practical layout tolerance.
const clipperScale = 1e4

// wireToRings converts a wire into equivalent closed polygons. A
// single-segment wire becomes the exact rectangle oriented along the
// segment. Multi-segment wires are offset with miter joins and butt ends,
// one ring per connected component of the offset result.
func wireToRings(w Wire) ([]geom.Ring, error) {
	if w.Width <= 0 {
		return nil, fmt.Errorf("wire width %g: %w", w.Width, geom.ErrDegenerate)
	}
	pts := dedupPoints(w.Vertices)
	if len(pts) < 2 {
		return nil, fmt.Errorf("wire with %d distinct vertices: %w", len(pts), geom.ErrDegenerate)
	}
	if len(pts) == 2 {
		return []geom.Ring{segmentRect(pts[0], pts[1], w.Width)}, nil
	}
	return offsetPolyline(pts, w.Width)
}

// segmentRect builds the rectangle of the given width centered on one
// segment, wound CCW.
func segmentRect(a, b geom.Point, width float64) geom.Ring {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	// Unit normal, scaled to the half-width.
	nx := -dy / length * width / 2
	ny := dx / length * width / 2
	return geom.Ring{
		{X: a.X - nx, Y: a.Y - ny},
		{X: b.X - nx, Y: b.Y - ny},
		{X: b.X + nx, Y: b.Y + ny},
		{X: a.X + nx, Y: a.Y + ny},
	}
}

// offsetPolyline expands an open polyline to its width using the clipper
// offset engine. Join policy is miter with butt ends.
func offsetPolyline(pts []geom.Point, width float64) ([]geom.Ring, error) {
	path := make(clipper.Path, len(pts))
	for i, p := range pts {
		path[i] = clipper.NewIntPoint(
			clipper.CInt(math.Round(p.X*clipperScale)),
			clipper.CInt(math.Round(p.Y*clipperScale)),
		)
	}

	co := clipper.NewClipperOffset()
	co.AddPath(path, clipper.JtMiter, clipper.EtOpenButt)
	solution := co.Execute(width / 2 * clipperScale)
	if len(solution) == 0 {
		return nil, fmt.Errorf("wire offset produced no polygons: %w", geom.ErrDegenerate)
	}

	rings := make([]geom.Ring, 0, len(solution))
	for _, sol := range solution {
		if len(sol) < 3 {
			continue
		}
		ring := make(geom.Ring, len(sol))
		for i, ip := range sol {
			ring[i] = geom.Point{
				X: float64(ip.X) / clipperScale,
				Y: float64(ip.Y) / clipperScale,
			}
		}
		rings = append(rings, ring)
	}
	if len(rings) == 0 {
		return nil, fmt.Errorf("wire offset produced no usable rings: %w", geom.ErrDegenerate)
	}
	return rings, nil
}

func dedupPoints(pts []geom.Point) []geom.Point {
	out := make([]geom.Point, 0, len(pts))
	for _, p := range pts {
		if len(out) > 0 {
			last := out[len(out)-1]
			if math.Abs(last.X-p.X) < 1e-12 && math.Abs(last.Y-p.Y) < 1e-12 {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}
