package solid

import (
	"fmt"
	"math"
	"sort"

	"github.com/kbickell/layup/pkg/geom"
)

// MergeOptions tunes continuity detection.
type MergeOptions struct {
	EpsZ  float64 // vertical touching tolerance, 0 means DefaultMergeEps
	EpsXY float64 // footprint coordinate tolerance, 0 means DefaultMergeEps
}

// DefaultMergeEps matches the precision default of the interchange format.
const DefaultMergeEps = 1e-6

// MergeResult is the merger's output: the final solid set plus the counters
// the interchange statistics report.
type MergeResult struct {
	Solids      []*Solid
	InputCount  int
	OutputCount int
	MergedRuns  int
	Warnings    []string
}

// Merge detects maximal runs of vertically touching, congruent-footprint
// solids of identical material and replaces each run of length >= 2 with a
// single solid spanning the run's full z-range. The merged solid is
// re-extruded from the preserved footprint ring of the run's first member —
// never from a unioned 3D body, which historically produced duplicate and
// degenerate vertices. Solids of different material are never merged; runs
// that fail to re-extrude fall back to their unmerged members.
func Merge(solids []*Solid, opts MergeOptions) MergeResult {
	epsZ := opts.EpsZ
	if epsZ <= 0 {
		epsZ = DefaultMergeEps
	}
	epsXY := opts.EpsXY
	if epsXY <= 0 {
		epsXY = DefaultMergeEps
	}

	result := MergeResult{InputCount: len(solids)}

	// Group by exact material string, preserving first-seen group order so
	// output is deterministic.
	var materials []string
	groups := make(map[string][]*Solid)
	for _, s := range solids {
		if _, ok := groups[s.Material]; !ok {
			materials = append(materials, s.Material)
		}
		groups[s.Material] = append(groups[s.Material], s)
	}

	for _, mat := range materials {
		group := groups[mat]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].ZBottom < group[j].ZBottom
		})

		for i := 0; i < len(group); {
			run := []*Solid{group[i]}
			for i+len(run) < len(group) {
				prev := run[len(run)-1]
				next := group[i+len(run)]
				if math.Abs(next.ZBottom-prev.ZTop) > epsZ {
					break
				}
				if !geom.Congruent(prev.Footprint, next.Footprint, epsXY) {
					break
				}
				run = append(run, next)
			}

			if len(run) < 2 {
				result.Solids = append(result.Solids, run[0])
				i++
				continue
			}

			merged, err := mergeRun(run)
			if err != nil {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("material %q: run of %d solids left unmerged: %v", mat, len(run), err))
				result.Solids = append(result.Solids, run...)
			} else {
				result.Solids = append(result.Solids, merged)
				result.MergedRuns++
			}
			i += len(run)
		}
	}

	result.OutputCount = len(result.Solids)
	return result
}

// mergeRun builds the single solid covering a continuous run. The footprint
// of the first member is reused verbatim; z spans the whole run.
func mergeRun(run []*Solid) (*Solid, error) {
	zBottom := run[0].ZBottom
	zTop := run[0].ZTop
	for _, s := range run[1:] {
		zBottom = math.Min(zBottom, s.ZBottom)
		zTop = math.Max(zTop, s.ZTop)
	}

	merged, err := Extrude(run[0].Footprint, zBottom, zTop)
	if err != nil {
		return nil, err
	}
	merged.Name = run[0].Material + "_continuous"
	merged.LayerName = run[0].LayerName
	merged.Material = run[0].Material
	merged.Color = run[0].Color
	merged.Merged = true
	return merged, nil
}
