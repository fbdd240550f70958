// Package window filters polygons and solids against a rectangular region
// of interest. Candidates are indexed in an R-tree and retained when their
// bounding box intersects the margin-expanded window; optionally each
// retained ring is clipped to the window.
package window

import (
	"fmt"
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/kbickell/layup/pkg/geom"
	"github.com/kbickell/layup/pkg/layout"
	"github.com/kbickell/layup/pkg/solid"
)

// Options selects the region of interest.
type Options struct {
	Rect   geom.Rect
	Margin float64 // expands the window on all sides
	Clip   bool    // clip retained rings to the effective window
}

// effective returns the margin-expanded window, validating the raw rect.
func (o Options) effective() (geom.Rect, error) {
	if !o.Rect.Valid() {
		return geom.Rect{}, fmt.Errorf("%w: [%g,%g]x[%g,%g]",
			geom.ErrInvalidWindow, o.Rect.XMin, o.Rect.XMax, o.Rect.YMin, o.Rect.YMax)
	}
	return o.Rect.Expand(o.Margin), nil
}

// rtreeMinExtent pads zero-extent bounding boxes; rtreego rejects
// non-positive rectangle lengths.
const rtreeMinExtent = 1e-12

type entry struct {
	bounds rtreego.Rect
	index  int
}

func (e *entry) Bounds() rtreego.Rect {
	return e.bounds
}

func toRTreeRect(bb geom.Rect) (rtreego.Rect, error) {
	w := bb.XMax - bb.XMin
	h := bb.YMax - bb.YMin
	if w < rtreeMinExtent {
		w = rtreeMinExtent
	}
	if h < rtreeMinExtent {
		h = rtreeMinExtent
	}
	return rtreego.NewRect(rtreego.Point{bb.XMin, bb.YMin}, []float64{w, h})
}

// retained builds an R-tree over the candidate boxes and returns the indices
// whose bounds intersect the effective window.
func retained(boxes []geom.Rect, win geom.Rect) ([]int, error) {
	if len(boxes) == 0 {
		return nil, nil
	}
	tree := rtreego.NewTree(2, 25, 50)
	for i, bb := range boxes {
		r, err := toRTreeRect(bb)
		if err != nil {
			return nil, fmt.Errorf("index polygon %d: %w", i, err)
		}
		tree.Insert(&entry{bounds: r, index: i})
	}
	query, err := toRTreeRect(win)
	if err != nil {
		return nil, fmt.Errorf("index window: %w", err)
	}
	var idx []int
	for _, hit := range tree.SearchIntersect(query) {
		idx = append(idx, hit.(*entry).index)
	}
	sort.Ints(idx) // search order is tree order; keep output deterministic
	return idx, nil
}

// FilterPolygons retains the flat polygons whose bounding boxes intersect
// the effective window, clipping their rings when requested. Polygons whose
// clipped ring degenerates below 3 vertices are dropped.
func FilterPolygons(polys []layout.FlatPolygon, opts Options) ([]layout.FlatPolygon, error) {
	win, err := opts.effective()
	if err != nil {
		return nil, err
	}
	boxes := make([]geom.Rect, len(polys))
	for i, fp := range polys {
		boxes[i] = fp.Ring.BBox()
	}
	idx, err := retained(boxes, win)
	if err != nil {
		return nil, err
	}

	out := make([]layout.FlatPolygon, 0, len(idx))
	for _, i := range idx {
		fp := polys[i]
		if opts.Clip {
			clipped := geom.ClipToRect(fp.Ring, win)
			if len(clipped) < 3 {
				continue
			}
			fp.Ring = clipped
		}
		out = append(out, fp)
	}
	return out, nil
}

// FilterSolids retains the solids whose footprint bounding boxes intersect
// the effective window. With Clip set, each retained footprint is clipped
// and the solid re-extruded over its original z-range with its metadata
// preserved; a footprint that clips away removes the solid.
func FilterSolids(solids []*solid.Solid, opts Options) ([]*solid.Solid, error) {
	win, err := opts.effective()
	if err != nil {
		return nil, err
	}
	boxes := make([]geom.Rect, len(solids))
	for i, s := range solids {
		boxes[i] = geom.Rect{XMin: s.BBox.XMin, YMin: s.BBox.YMin, XMax: s.BBox.XMax, YMax: s.BBox.YMax}
	}
	idx, err := retained(boxes, win)
	if err != nil {
		return nil, err
	}

	out := make([]*solid.Solid, 0, len(idx))
	for _, i := range idx {
		s := solids[i]
		if opts.Clip {
			clipped := geom.ClipToRect(s.Footprint, win)
			if len(clipped) < 3 {
				continue
			}
			re, err := solid.Extrude(clipped, s.ZBottom, s.ZTop)
			if err != nil {
				continue
			}
			re.Name = s.Name
			re.LayerName = s.LayerName
			re.Material = s.Material
			re.Color = s.Color
			re.Merged = s.Merged
			s = re
		}
		out = append(out, s)
	}
	return out, nil
}
