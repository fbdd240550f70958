// Package layer defines the layer stack: the mapping from a layout
// (layer, datatype) pair to a z-range, material, and color. The table is
// built once at load time and read-only afterward, so it is safe to share
// across concurrent pipeline stages.
package layer

import (
	"errors"
	"fmt"
	"math"
)

// ErrEmptyLayerSet is returned when a layer stack contains no layers.
var ErrEmptyLayerSet = errors.New("layer stack is empty")

// ErrRangeOutOfBounds is returned when a layer number or datatype falls
// outside the 0-255 range the layout format allows.
var ErrRangeOutOfBounds = errors.New("layer number or datatype out of range [0,255]")

// ErrBadZRange is returned when a layer's z_top does not exceed its z_bottom.
var ErrBadZRange = errors.New("layer z_top must exceed z_bottom")

// thicknessEps is the tolerance for the thickness consistency check.
const thicknessEps = 1e-9

// Spec describes one layer of the stack. Immutable once loaded.
type Spec struct {
	Layer     int     `yaml:"layer" json:"layer"`
	Datatype  int     `yaml:"datatype" json:"datatype"`
	Name      string  `yaml:"name" json:"name"`
	ZBottom   float64 `yaml:"z_bottom" json:"z_bottom"`
	ZTop      float64 `yaml:"z_top" json:"z_top"`
	Thickness float64 `yaml:"thickness" json:"thickness"`
	Material  string  `yaml:"material" json:"material"`
	Color     string  `yaml:"color" json:"color"`
	Enabled   bool    `yaml:"enabled" json:"enabled"`
}

// Key identifies a layer by its layout (layer, datatype) pair.
type Key struct {
	Layer    int
	Datatype int
}

func (k Key) String() string {
	return fmt.Sprintf("%d/%d", k.Layer, k.Datatype)
}

// Warning is a non-fatal finding produced while building the table.
type Warning struct {
	Key     Key
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("layer %s: %s", w.Key, w.Message)
}

// Table is the validated layer stack with O(1) lookup by (layer, datatype).
type Table struct {
	specs []Spec
	byKey map[Key]*Spec
}

// Load validates the given specs and builds a table. Duplicate keys resolve
// to the last-loaded definition with a warning; a thickness that disagrees
// with z_top-z_bottom also warns but does not fail.
func Load(specs []Spec) (*Table, []Warning, error) {
	if len(specs) == 0 {
		return nil, nil, ErrEmptyLayerSet
	}

	t := &Table{
		specs: make([]Spec, 0, len(specs)),
		byKey: make(map[Key]*Spec, len(specs)),
	}
	var warnings []Warning

	for _, s := range specs {
		if s.Layer < 0 || s.Layer > 255 || s.Datatype < 0 || s.Datatype > 255 {
			return nil, nil, fmt.Errorf("layer %q (%d/%d): %w", s.Name, s.Layer, s.Datatype, ErrRangeOutOfBounds)
		}
		if s.ZTop <= s.ZBottom {
			return nil, nil, fmt.Errorf("layer %q: %w (z=[%g,%g])", s.Name, ErrBadZRange, s.ZBottom, s.ZTop)
		}
		key := Key{Layer: s.Layer, Datatype: s.Datatype}
		if math.Abs(s.Thickness-(s.ZTop-s.ZBottom)) > thicknessEps {
			warnings = append(warnings, Warning{
				Key:     key,
				Message: fmt.Sprintf("thickness %g disagrees with z range %g", s.Thickness, s.ZTop-s.ZBottom),
			})
		}
		if _, dup := t.byKey[key]; dup {
			warnings = append(warnings, Warning{
				Key:     key,
				Message: fmt.Sprintf("duplicate definition, keeping %q", s.Name),
			})
		}
		t.specs = append(t.specs, s)
		t.byKey[key] = &t.specs[len(t.specs)-1]
	}
	return t, warnings, nil
}

// Lookup returns the spec for a (layer, datatype) pair, or nil if the stack
// does not define it.
func (t *Table) Lookup(layer, datatype int) *Spec {
	return t.byKey[Key{Layer: layer, Datatype: datatype}]
}

// Specs returns the layers in load order.
func (t *Table) Specs() []Spec {
	return t.specs
}

// Len returns the number of loaded layer definitions.
func (t *Table) Len() int {
	return len(t.specs)
}
