package geom

import (
	"fmt"
	"math"
)

// NormalizeOptions tunes ring normalization.
type NormalizeOptions struct {
	Tolerance float64 // vertices closer than this collapse into one
	Simplify  bool    // drop vertices collinear with both neighbors
}

// DefaultTolerance is the coordinate tolerance used when none is given.
const DefaultTolerance = 1e-9

// Normalize cleans a raw ring into canonical form: consecutive duplicates
// removed, an explicit closing vertex dropped, winding forced CCW, and
// (optionally) collinear vertices removed. Returns ErrDegenerate when fewer
// than 3 distinct vertices remain.
//
// Normalization is idempotent: normalizing an already-normalized ring
// returns an equal ring.
func Normalize(r Ring, opts NormalizeOptions) (Ring, error) {
	tol := opts.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}

	out := make(Ring, 0, len(r))
	for _, p := range r {
		if len(out) > 0 && dist(out[len(out)-1], p) < tol {
			continue
		}
		out = append(out, p)
	}
	// Drop an explicit closing vertex.
	if len(out) > 1 && dist(out[0], out[len(out)-1]) < tol {
		out = out[:len(out)-1]
	}
	if len(out) < 3 {
		return nil, fmt.Errorf("normalize: %w (%d left)", ErrDegenerate, len(out))
	}

	if out.SignedArea() < 0 {
		out = out.Reverse()
	}

	if opts.Simplify {
		out = dropCollinear(out, tol)
		if len(out) < 3 {
			return nil, fmt.Errorf("normalize: %w after simplification", ErrDegenerate)
		}
	}
	if out.SignedArea() <= 0 {
		return nil, fmt.Errorf("normalize: %w (zero area)", ErrDegenerate)
	}
	return out, nil
}

// dropCollinear removes every vertex whose neighbors span it within tol,
// measured as the perpendicular cross-product distance.
func dropCollinear(r Ring, tol float64) Ring {
	out := make(Ring, 0, len(r))
	n := len(r)
	for i := 0; i < n; i++ {
		prev := r[(i+n-1)%n]
		cur := r[i]
		next := r[(i+1)%n]
		cross := (cur.X-prev.X)*(next.Y-prev.Y) - (cur.Y-prev.Y)*(next.X-prev.X)
		if math.Abs(cross) < tol {
			continue
		}
		out = append(out, cur)
	}
	return out
}

func dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
