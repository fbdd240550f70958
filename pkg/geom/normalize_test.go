package geom

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeForcesCCW(t *testing.T) {
	cw := Ring{{0, 0}, {0, 5}, {10, 5}, {10, 0}}
	got, err := Normalize(cw, NormalizeOptions{})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if !got.IsCCW() {
		t.Error("normalized ring must wind CCW")
	}
	if got.Area() != 50 {
		t.Errorf("area = %v, want 50", got.Area())
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	r := Ring{{0, 0}, {10, 0}, {10, 5}, {0, 5}}
	once, err := Normalize(r, NormalizeOptions{Simplify: true})
	if err != nil {
		t.Fatalf("first Normalize failed: %v", err)
	}
	twice, err := Normalize(once, NormalizeOptions{Simplify: true})
	if err != nil {
		t.Fatalf("second Normalize failed: %v", err)
	}
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("normalization not idempotent (-once +twice):\n%s", diff)
	}
}

func TestNormalizeDropsDuplicatesAndClosingVertex(t *testing.T) {
	r := Ring{{0, 0}, {0, 0}, {10, 0}, {10, 5}, {10, 5}, {0, 5}, {0, 0}}
	got, err := Normalize(r, NormalizeOptions{Tolerance: 1e-9})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(got) != 4 {
		t.Errorf("got %d vertices, want 4", len(got))
	}
}

func TestNormalizeSimplifyCollinear(t *testing.T) {
	r := Ring{{0, 0}, {5, 0}, {10, 0}, {10, 5}, {0, 5}}
	got, err := Normalize(r, NormalizeOptions{Simplify: true})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(got) != 4 {
		t.Errorf("got %d vertices after simplification, want 4", len(got))
	}
}

func TestNormalizeDegenerate(t *testing.T) {
	tests := []struct {
		name string
		ring Ring
	}{
		{"empty", Ring{}},
		{"single point", Ring{{1, 1}}},
		{"two points", Ring{{0, 0}, {1, 0}}},
		{"all duplicates", Ring{{2, 2}, {2, 2}, {2, 2}, {2, 2}}},
		{"zero area", Ring{{0, 0}, {5, 0}, {10, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.ring, NormalizeOptions{})
			if !errors.Is(err, ErrDegenerate) {
				t.Errorf("want ErrDegenerate, got %v", err)
			}
		})
	}
}
