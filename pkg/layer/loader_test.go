package layer

import "testing"

const stackYAML = `
project: demo-chip
unit: um
layers:
  - layer: 10
    datatype: 0
    name: Metal1
    z_bottom: 0.0
    z_top: 0.5
    thickness: 0.5
    material: aluminum
    color: "#FF0000"
    enabled: true
  - layer: 11
    datatype: 0
    name: Via1
    z_bottom: 0.5
    z_top: 1.0
    thickness: 0.5
    material: tungsten
    color: "#808080"
    enabled: false
`

func TestParseStack(t *testing.T) {
	table, file, warnings, err := ParseStack([]byte(stackYAML))
	if err != nil {
		t.Fatalf("ParseStack failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if file.Project != "demo-chip" || file.Unit != "um" {
		t.Errorf("metadata = %q/%q, want demo-chip/um", file.Project, file.Unit)
	}
	if table.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", table.Len())
	}
	via := table.Lookup(11, 0)
	if via == nil {
		t.Fatal("Lookup(11, 0) returned nil")
	}
	if via.Enabled {
		t.Error("Via1 should be disabled")
	}
}

func TestParseStackMalformed(t *testing.T) {
	if _, _, _, err := ParseStack([]byte("layers: {not a list}")); err == nil {
		t.Error("malformed YAML should fail")
	}
}

func TestParseStackEmpty(t *testing.T) {
	if _, _, _, err := ParseStack([]byte("project: x\nlayers: []\n")); err == nil {
		t.Error("empty layer list should fail")
	}
}
