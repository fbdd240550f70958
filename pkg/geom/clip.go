package geom

// ClipToRect clips a ring against an axis-aligned rectangle using
// Sutherland-Hodgman against the four half-planes in turn. The result may be
// empty or degenerate (fewer than 3 vertices) when the ring lies outside the
// rectangle; callers drop such results.
func ClipToRect(r Ring, rc Rect) Ring {
	out := r.Clone()
	out = clipHalfPlane(out, func(p Point) bool { return p.X >= rc.XMin }, func(a, b Point) Point {
		t := (rc.XMin - a.X) / (b.X - a.X)
		return Point{X: rc.XMin, Y: a.Y + t*(b.Y-a.Y)}
	})
	out = clipHalfPlane(out, func(p Point) bool { return p.X <= rc.XMax }, func(a, b Point) Point {
		t := (rc.XMax - a.X) / (b.X - a.X)
		return Point{X: rc.XMax, Y: a.Y + t*(b.Y-a.Y)}
	})
	out = clipHalfPlane(out, func(p Point) bool { return p.Y >= rc.YMin }, func(a, b Point) Point {
		t := (rc.YMin - a.Y) / (b.Y - a.Y)
		return Point{X: a.X + t*(b.X-a.X), Y: rc.YMin}
	})
	out = clipHalfPlane(out, func(p Point) bool { return p.Y <= rc.YMax }, func(a, b Point) Point {
		t := (rc.YMax - a.Y) / (b.Y - a.Y)
		return Point{X: a.X + t*(b.X-a.X), Y: rc.YMax}
	})
	return out
}

// clipHalfPlane keeps the part of the ring on the inside of one half-plane.
func clipHalfPlane(r Ring, inside func(Point) bool, intersect func(a, b Point) Point) Ring {
	if len(r) == 0 {
		return nil
	}
	out := make(Ring, 0, len(r)+4)
	prev := r[len(r)-1]
	prevIn := inside(prev)
	for _, cur := range r {
		curIn := inside(cur)
		switch {
		case curIn && prevIn:
			out = append(out, cur)
		case curIn && !prevIn:
			out = append(out, intersect(prev, cur), cur)
		case !curIn && prevIn:
			out = append(out, intersect(prev, cur))
		}
		prev, prevIn = cur, curIn
	}
	return out
}
