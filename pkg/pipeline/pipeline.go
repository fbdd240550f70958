// Package pipeline wires the geometry stages end to end: flatten the layout
// hierarchy, window-filter, normalize and extrude per layer, and merge
// vertically continuous solids. The pipeline is a synchronous batch
// transform; each stage fully consumes its predecessor's output. Fatal
// errors abort the batch, per-element conditions accumulate as diagnostics.
package pipeline

import (
	"fmt"

	"github.com/kbickell/layup/pkg/export"
	"github.com/kbickell/layup/pkg/geom"
	"github.com/kbickell/layup/pkg/layer"
	"github.com/kbickell/layup/pkg/layout"
	"github.com/kbickell/layup/pkg/solid"
	"github.com/kbickell/layup/pkg/window"
)

// Warning is one non-fatal finding collected during a run.
type Warning struct {
	Stage   string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s", w.Stage, w.Message)
}

// Diagnostics bundles the non-fatal findings of a successful run so the
// caller can decide strictness.
type Diagnostics struct {
	Warnings []Warning
}

func (d *Diagnostics) warnf(stage, format string, args ...any) {
	d.Warnings = append(d.Warnings, Warning{Stage: stage, Message: fmt.Sprintf(format, args...)})
}

// Config selects the input tree, layer stack, and stage options for a run.
type Config struct {
	Root     string          // root structure name
	Resolver layout.Resolver // structure/element tree provider
	Layers   *layer.Table

	Flatten   layout.Options
	Normalize geom.NormalizeOptions

	// Window is applied to flattened polygons when non-nil.
	Window *window.Options

	// SkipMerge leaves the solid set layer-fragmented.
	SkipMerge bool
	Merge     solid.MergeOptions
}

// Result is the final solid set plus run statistics and diagnostics.
type Result struct {
	Solids      []*solid.Solid
	Stats       export.Statistics
	Diagnostics Diagnostics
}

// Run executes the full pipeline. The returned error is fatal (bad config,
// unresolvable hierarchy); per-element geometry defects are skipped and
// reported in the result's diagnostics instead.
func Run(cfg Config) (*Result, error) {
	if cfg.Layers == nil {
		return nil, fmt.Errorf("pipeline: no layer table")
	}
	if cfg.Resolver == nil {
		return nil, fmt.Errorf("pipeline: no structure resolver")
	}

	res := &Result{}

	polys, flattenWarnings, err := layout.Flatten(cfg.Root, cfg.Resolver, cfg.Flatten)
	if err != nil {
		return nil, err
	}
	for _, w := range flattenWarnings {
		res.Diagnostics.warnf("flatten", "%s", w)
	}

	if cfg.Window != nil {
		polys, err = window.FilterPolygons(polys, *cfg.Window)
		if err != nil {
			return nil, err
		}
	}

	solids := make([]*solid.Solid, 0, len(polys))
	for _, fp := range polys {
		spec := cfg.Layers.Lookup(fp.Layer, fp.Datatype)
		if spec == nil {
			res.Diagnostics.warnf("extrude", "no layer definition for %d/%d, polygon dropped", fp.Layer, fp.Datatype)
			continue
		}
		if !spec.Enabled {
			continue
		}
		ring, err := geom.Normalize(fp.Ring, cfg.Normalize)
		if err != nil {
			res.Diagnostics.warnf("normalize", "layer %s: %v", spec.Name, err)
			continue
		}
		s, err := solid.ExtrudeLayer(ring, spec)
		if err != nil {
			res.Diagnostics.warnf("extrude", "layer %s: %v", spec.Name, err)
			continue
		}
		solids = append(solids, s)
	}

	if cfg.SkipMerge {
		res.Solids = solids
		res.Stats = export.Statistics{InputCount: len(solids), OutputCount: len(solids)}
		return res, nil
	}

	merged := solid.Merge(solids, cfg.Merge)
	for _, w := range merged.Warnings {
		res.Diagnostics.warnf("merge", "%s", w)
	}
	res.Solids = merged.Solids
	res.Stats = export.Statistics{
		InputCount:  merged.InputCount,
		OutputCount: merged.OutputCount,
		MergedRuns:  merged.MergedRuns,
	}
	return res, nil
}
