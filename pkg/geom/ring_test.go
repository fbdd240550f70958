package geom

import (
	"math"
	"testing"
)

func square(w, h float64) Ring {
	return Ring{{0, 0}, {w, 0}, {w, h}, {0, h}}
}

func TestSignedArea(t *testing.T) {
	tests := []struct {
		name string
		ring Ring
		want float64
	}{
		{"ccw rectangle", square(10, 5), 50},
		{"cw rectangle", square(10, 5).Reverse(), -50},
		{"triangle", Ring{{0, 0}, {4, 0}, {0, 3}}, 6},
		{"too few vertices", Ring{{0, 0}, {1, 1}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ring.SignedArea(); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("SignedArea() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBBox(t *testing.T) {
	r := Ring{{-2, 1}, {3, -4}, {0, 7}}
	bb := r.BBox()
	want := Rect{XMin: -2, YMin: -4, XMax: 3, YMax: 7}
	if bb != want {
		t.Errorf("BBox() = %+v, want %+v", bb, want)
	}
}

func TestCongruentCyclicOffset(t *testing.T) {
	a := square(10, 5)
	// Same cyclic order, rotated start index.
	b := Ring{{10, 5}, {0, 5}, {0, 0}, {10, 0}}
	if !Congruent(a, b, 1e-9) {
		t.Error("rings rotated in start index should be congruent")
	}
}

func TestCongruentRejectsReversedWinding(t *testing.T) {
	a := square(10, 5)
	if Congruent(a, a.Reverse(), 1e-9) {
		t.Error("reversed-winding ring must not match")
	}
}

func TestCongruentTolerance(t *testing.T) {
	a := square(10, 5)
	b := Ring{{1e-7, 0}, {10, 0}, {10, 5}, {0, 5}}
	if !Congruent(a, b, 1e-6) {
		t.Error("rings within eps should be congruent")
	}
	if Congruent(a, b, 1e-9) {
		t.Error("rings outside eps should not be congruent")
	}
}

func TestCongruentDifferentLength(t *testing.T) {
	if Congruent(square(1, 1), Ring{{0, 0}, {1, 0}, {1, 1}, {0.5, 1}, {0, 1}}, 1e-9) {
		t.Error("rings of different vertex count must not match")
	}
}

func TestRectExpandIntersects(t *testing.T) {
	rc := Rect{XMin: 0, YMin: 0, XMax: 10, YMax: 10}
	if !rc.Expand(5).Intersects(Rect{XMin: 12, YMin: 12, XMax: 14, YMax: 14}) {
		t.Error("expanded window should reach the nearby box")
	}
	if rc.Intersects(Rect{XMin: 11, YMin: 0, XMax: 12, YMax: 1}) {
		t.Error("disjoint boxes should not intersect")
	}
	if !rc.Intersects(Rect{XMin: 10, YMin: 10, XMax: 20, YMax: 20}) {
		t.Error("touching boxes count as intersecting")
	}
	if (Rect{XMin: 5, XMax: 1, YMin: 0, YMax: 1}).Valid() {
		t.Error("inverted rect should be invalid")
	}
}
