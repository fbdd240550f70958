package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kbickell/layup/pkg/solid"
)

// Record describes one final solid to the external B-rep CAD writer. The
// footprint is the authoritative cross-section; the writer re-extrudes it
// rather than receiving triangle soup.
type Record struct {
	Polygon   [][2]float64 `json:"polygon"`
	ZBottom   float64      `json:"z_bottom"`
	ZTop      float64      `json:"z_top"`
	LayerName string       `json:"layer_name"`
	Material  string       `json:"material"`
	Color     string       `json:"color"`
	Merged    bool         `json:"merged"`
}

// Statistics summarizes the merge stage for the interchange consumer.
type Statistics struct {
	InputCount  int `json:"input_count"`
	OutputCount int `json:"output_count"`
	MergedRuns  int `json:"merged_runs"`
}

// Interchange is the document the external CAD kernel writer consumes.
type Interchange struct {
	Format     string      `json:"format"`
	Precision  float64     `json:"precision"`
	Units      string      `json:"units"`
	Solids     []Record    `json:"solids"`
	Statistics *Statistics `json:"statistics,omitempty"`
}

// DefaultPrecision is the geometric tolerance advertised to the CAD writer.
const DefaultPrecision = 1e-6

// BuildInterchange assembles the interchange document for the final solid
// set. stats may be nil when no merge stage ran.
func BuildInterchange(solids []*solid.Solid, format, units string, stats *Statistics) *Interchange {
	doc := &Interchange{
		Format:     format,
		Precision:  DefaultPrecision,
		Units:      units,
		Solids:     make([]Record, 0, len(solids)),
		Statistics: stats,
	}
	for _, s := range solids {
		rec := Record{
			Polygon:   make([][2]float64, len(s.Footprint)),
			ZBottom:   s.ZBottom,
			ZTop:      s.ZTop,
			LayerName: s.LayerName,
			Material:  s.Material,
			Color:     s.Color,
			Merged:    s.Merged,
		}
		for i, p := range s.Footprint {
			rec.Polygon[i] = [2]float64{p.X, p.Y}
		}
		doc.Solids = append(doc.Solids, rec)
	}
	return doc
}

// WriteInterchange serializes the document as indented JSON.
func WriteInterchange(w io.Writer, doc *Interchange) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("interchange: %w", err)
	}
	return nil
}
