package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kbickell/layup/pkg/geom"
	"github.com/kbickell/layup/pkg/solid"
)

func TestBuildInterchange(t *testing.T) {
	ring := geom.Ring{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	s, err := solid.Extrude(ring, 1, 3)
	if err != nil {
		t.Fatalf("Extrude failed: %v", err)
	}
	s.LayerName = "Via1"
	s.Material = "tungsten"
	s.Color = "#808080"
	s.Merged = true

	doc := BuildInterchange([]*solid.Solid{s}, "AP203", "um", &Statistics{
		InputCount: 2, OutputCount: 1, MergedRuns: 1,
	})
	if doc.Format != "AP203" || doc.Units != "um" {
		t.Errorf("envelope = %q/%q", doc.Format, doc.Units)
	}
	if len(doc.Solids) != 1 {
		t.Fatalf("got %d records, want 1", len(doc.Solids))
	}

	rec := doc.Solids[0]
	wantPoly := [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	if diff := cmp.Diff(wantPoly, rec.Polygon); diff != "" {
		t.Errorf("polygon mismatch (-want +got):\n%s", diff)
	}
	if rec.ZBottom != 1 || rec.ZTop != 3 {
		t.Errorf("z range = [%g,%g], want [1,3]", rec.ZBottom, rec.ZTop)
	}
	if !rec.Merged || rec.Material != "tungsten" || rec.LayerName != "Via1" {
		t.Errorf("record metadata = %+v", rec)
	}
}

func TestWriteInterchangeRoundTrip(t *testing.T) {
	ring := geom.Ring{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}}
	s, err := solid.Extrude(ring, 0, 1)
	if err != nil {
		t.Fatalf("Extrude failed: %v", err)
	}
	s.LayerName = "Metal1"
	s.Material = "aluminum"

	doc := BuildInterchange([]*solid.Solid{s}, "AP203", "um", nil)
	var buf bytes.Buffer
	if err := WriteInterchange(&buf, doc); err != nil {
		t.Fatalf("WriteInterchange failed: %v", err)
	}

	var decoded Interchange
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if diff := cmp.Diff(doc, &decoded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
