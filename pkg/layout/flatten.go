package layout

import (
	"errors"
	"fmt"

	"github.com/kbickell/layup/pkg/geom"
)

// ErrCyclicReference is returned when two structures reference each other,
// directly or through intermediaries.
var ErrCyclicReference = errors.New("cyclic structure reference")

// ErrMaxDepthExceeded is returned when reference nesting exceeds the
// configured recursion limit.
var ErrMaxDepthExceeded = errors.New("reference nesting too deep")

// DefaultMaxDepth caps reference nesting when Options leaves it unset.
const DefaultMaxDepth = 64

// FlatPolygon is one fully resolved polygon in absolute coordinates.
// Output ordering is unspecified; downstream stages must not depend on it.
type FlatPolygon struct {
	Layer    int
	Datatype int
	Ring     geom.Ring
}

// Warning records a per-element condition that skipped the element without
// aborting the flatten.
type Warning struct {
	Structure string
	Message   string
}

func (w Warning) String() string {
	return fmt.Sprintf("structure %q: %s", w.Structure, w.Message)
}

// Options tunes hierarchy flattening.
type Options struct {
	MaxDepth int // 0 means DefaultMaxDepth
}

// Flatten resolves all reference and array indirection below the named root
// structure and returns its polygons in absolute coordinates. Wires are
// converted to equivalent closed polygons. Cycles and over-deep nesting are
// fatal; degenerate individual elements are skipped with a warning.
func Flatten(root string, res Resolver, opts Options) ([]FlatPolygon, []Warning, error) {
	f := &flattener{res: res, maxDepth: opts.MaxDepth}
	if f.maxDepth <= 0 {
		f.maxDepth = DefaultMaxDepth
	}
	polys, err := f.walk(root, make(map[string]bool), 0)
	if err != nil {
		return nil, nil, err
	}
	return polys, f.warnings, nil
}

type flattener struct {
	res      Resolver
	maxDepth int
	warnings []Warning
}

func (f *flattener) warn(structure, format string, args ...any) {
	f.warnings = append(f.warnings, Warning{
		Structure: structure,
		Message:   fmt.Sprintf(format, args...),
	})
}

// walk returns the polygons of one structure in its local coordinates.
// Ancestor transforms are applied by the caller on the way back up, so
// nested references compose innermost-first. onPath is the set of structure
// names on the current recursion path; revisiting one is a cycle.
func (f *flattener) walk(name string, onPath map[string]bool, depth int) ([]FlatPolygon, error) {
	if depth > f.maxDepth {
		return nil, fmt.Errorf("structure %q: %w (limit %d)", name, ErrMaxDepthExceeded, f.maxDepth)
	}
	if onPath[name] {
		return nil, fmt.Errorf("structure %q: %w", name, ErrCyclicReference)
	}
	onPath[name] = true
	defer delete(onPath, name)

	elems, err := f.res.Elements(name)
	if err != nil {
		return nil, err
	}

	var out []FlatPolygon
	for _, e := range elems {
		switch el := e.(type) {
		case Polygon:
			out = append(out, FlatPolygon{
				Layer:    el.Layer,
				Datatype: el.Datatype,
				Ring:     el.Vertices.Clone(),
			})

		case Wire:
			rings, err := wireToRings(el)
			if err != nil {
				f.warn(name, "skipping wire on layer %d/%d: %v", el.Layer, el.Datatype, err)
				continue
			}
			for _, r := range rings {
				out = append(out, FlatPolygon{Layer: el.Layer, Datatype: el.Datatype, Ring: r})
			}

		case Ref:
			sub, err := f.walk(el.Target, onPath, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, place(sub, el.Transform, el.At)...)

		case ARef:
			if el.Cols <= 0 || el.Rows <= 0 {
				f.warn(name, "skipping array of %q with %dx%d cells", el.Target, el.Cols, el.Rows)
				continue
			}
			sub, err := f.walk(el.Target, onPath, depth+1)
			if err != nil {
				return nil, err
			}
			colStep := geom.Point{
				X: (el.ColEnd.X - el.Origin.X) / float64(el.Cols),
				Y: (el.ColEnd.Y - el.Origin.Y) / float64(el.Cols),
			}
			rowStep := geom.Point{
				X: (el.RowEnd.X - el.Origin.X) / float64(el.Rows),
				Y: (el.RowEnd.Y - el.Origin.Y) / float64(el.Rows),
			}
			for j := 0; j < el.Rows; j++ {
				for i := 0; i < el.Cols; i++ {
					at := geom.Point{
						X: el.Origin.X + float64(i)*colStep.X + float64(j)*rowStep.X,
						Y: el.Origin.Y + float64(i)*colStep.Y + float64(j)*rowStep.Y,
					}
					out = append(out, place(sub, el.Transform, at)...)
				}
			}

		default:
			return nil, fmt.Errorf("structure %q: unknown element type %T", name, e)
		}
	}
	return out, nil
}

// place applies one instance transform plus insertion point to every polygon.
func place(polys []FlatPolygon, t Transform, at geom.Point) []FlatPolygon {
	out := make([]FlatPolygon, 0, len(polys))
	for _, fp := range polys {
		ring := make(geom.Ring, len(fp.Ring))
		for i, p := range fp.Ring {
			q := t.Apply(p)
			ring[i] = geom.Point{X: q.X + at.X, Y: q.Y + at.Y}
		}
		out = append(out, FlatPolygon{Layer: fp.Layer, Datatype: fp.Datatype, Ring: ring})
	}
	return out
}
