package pipeline_test

import (
	"testing"

	"github.com/kbickell/layup/pkg/geom"
	"github.com/kbickell/layup/pkg/layer"
	"github.com/kbickell/layup/pkg/layout"
	"github.com/kbickell/layup/pkg/pipeline"
	"github.com/kbickell/layup/pkg/window"
)

func testLayers(t *testing.T) *layer.Table {
	t.Helper()
	table, _, err := layer.Load([]layer.Spec{
		{Layer: 10, Datatype: 0, Name: "Metal1", ZBottom: 0, ZTop: 1, Thickness: 1, Material: "tungsten", Color: "#888", Enabled: true},
		{Layer: 11, Datatype: 0, Name: "Via1", ZBottom: 1, ZTop: 2, Thickness: 1, Material: "tungsten", Color: "#888", Enabled: true},
		{Layer: 12, Datatype: 0, Name: "Ghost", ZBottom: 2, ZTop: 3, Thickness: 1, Material: "oxide", Color: "#fff", Enabled: false},
	})
	if err != nil {
		t.Fatalf("layer.Load failed: %v", err)
	}
	return table
}

func squarePoly(layerNum int) layout.Polygon {
	return layout.Polygon{
		Layer:    layerNum,
		Vertices: geom.Ring{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
	}
}

func TestRunEndToEndMerge(t *testing.T) {
	// Two stacked same-material, same-footprint squares merge into one
	// continuous solid spanning both layers.
	lib := layout.Library{"TOP": {squarePoly(10), squarePoly(11)}}

	res, err := pipeline.Run(pipeline.Config{
		Root:     "TOP",
		Resolver: lib,
		Layers:   testLayers(t),
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(res.Diagnostics.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Diagnostics.Warnings)
	}
	if len(res.Solids) != 1 {
		t.Fatalf("got %d solids, want 1 merged", len(res.Solids))
	}
	s := res.Solids[0]
	if !s.Merged || s.ZBottom != 0 || s.ZTop != 2 {
		t.Errorf("merged solid = %+v", s)
	}
	if s.Name != "tungsten_continuous" {
		t.Errorf("name = %q", s.Name)
	}
	if res.Stats.InputCount != 2 || res.Stats.OutputCount != 1 || res.Stats.MergedRuns != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}
}

func TestRunSkipMerge(t *testing.T) {
	lib := layout.Library{"TOP": {squarePoly(10), squarePoly(11)}}
	res, err := pipeline.Run(pipeline.Config{
		Root:      "TOP",
		Resolver:  lib,
		Layers:    testLayers(t),
		SkipMerge: true,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(res.Solids) != 2 {
		t.Fatalf("got %d solids, want 2 unmerged", len(res.Solids))
	}
}

func TestRunSkipsUndefinedAndDisabledLayers(t *testing.T) {
	lib := layout.Library{"TOP": {
		squarePoly(10),
		squarePoly(12), // disabled layer, silently dropped
		squarePoly(99), // undefined layer, dropped with warning
	}}
	res, err := pipeline.Run(pipeline.Config{Root: "TOP", Resolver: lib, Layers: testLayers(t)})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(res.Solids) != 1 {
		t.Fatalf("got %d solids, want 1", len(res.Solids))
	}
	if len(res.Diagnostics.Warnings) != 1 {
		t.Errorf("got %d warnings, want 1: %v", len(res.Diagnostics.Warnings), res.Diagnostics.Warnings)
	}
}

func TestRunDegeneratePolygonIsRecoverable(t *testing.T) {
	lib := layout.Library{"TOP": {
		squarePoly(10),
		layout.Polygon{Layer: 11, Vertices: geom.Ring{{X: 0, Y: 0}, {X: 5, Y: 0}}},
	}}
	res, err := pipeline.Run(pipeline.Config{Root: "TOP", Resolver: lib, Layers: testLayers(t)})
	if err != nil {
		t.Fatalf("a degenerate polygon must not abort the batch: %v", err)
	}
	if len(res.Solids) != 1 {
		t.Errorf("got %d solids, want 1", len(res.Solids))
	}
	if len(res.Diagnostics.Warnings) != 1 {
		t.Errorf("got %d warnings, want 1: %v", len(res.Diagnostics.Warnings), res.Diagnostics.Warnings)
	}
}

func TestRunWithWindow(t *testing.T) {
	far := layout.Polygon{
		Layer:    10,
		Vertices: geom.Ring{{X: 500, Y: 500}, {X: 501, Y: 500}, {X: 501, Y: 501}, {X: 500, Y: 501}},
	}
	lib := layout.Library{"TOP": {squarePoly(10), far}}
	res, err := pipeline.Run(pipeline.Config{
		Root:     "TOP",
		Resolver: lib,
		Layers:   testLayers(t),
		Window: &window.Options{
			Rect: geom.Rect{XMin: 0, YMin: 0, XMax: 100, YMax: 100},
		},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(res.Solids) != 1 {
		t.Fatalf("got %d solids, want 1 (window drops the far square)", len(res.Solids))
	}
}

func TestRunInvalidWindowFatal(t *testing.T) {
	lib := layout.Library{"TOP": {squarePoly(10)}}
	_, err := pipeline.Run(pipeline.Config{
		Root:     "TOP",
		Resolver: lib,
		Layers:   testLayers(t),
		Window:   &window.Options{Rect: geom.Rect{XMin: 10, XMax: 0}},
	})
	if err == nil {
		t.Fatal("invalid window must abort before processing")
	}
}

func TestRunUnknownStructureFatal(t *testing.T) {
	_, err := pipeline.Run(pipeline.Config{
		Root:     "NOPE",
		Resolver: layout.Library{},
		Layers:   testLayers(t),
	})
	if err == nil {
		t.Fatal("unknown root structure must be fatal")
	}
}
