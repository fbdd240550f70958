package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbickell/layup/pkg/export"
	"github.com/kbickell/layup/pkg/geom"
	"github.com/kbickell/layup/pkg/kernel/sdfx"
	"github.com/kbickell/layup/pkg/layer"
	"github.com/kbickell/layup/pkg/layout"
	"github.com/kbickell/layup/pkg/pipeline"
	"github.com/kbickell/layup/pkg/script"
	"github.com/kbickell/layup/pkg/tessellate"
	"github.com/kbickell/layup/pkg/window"
)

var (
	layersPath string
	topName    string
	windowSpec string
	margin     float64
	clip       bool
	noMerge    bool
	format     string
	outPath    string
	meshCells  int
)

var exportCmd = &cobra.Command{
	Use:   "export <layout.json|layout.lsp>",
	Short: "Flatten, extrude, merge, and export a layout",
	Long: `Run the full pipeline on a layout and write the result. The layout is
either a JSON structure tree or a Lisp layout script (.lsp, .lisp).

Formats:
  stl         binary STL of the prismatic solids (default)
  stl-ascii   plain-text STL of the prismatic solids
  json        JSON interchange document for an external B-rep writer
  kernel-stl  binary STL tessellated from kernel-unioned material groups

Examples:
  layup export --layers stack.yaml chip.json -o chip.stl
  layup export --layers stack.yaml --format json chip.json -o chip.step.json
  layup export --layers stack.yaml --window 0,0,500,500 --clip chip.json -o roi.stl`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&layersPath, "layers", "l", "", "layer stack YAML file (required)")
	exportCmd.Flags().StringVarP(&topName, "top", "t", "", "root structure name (defaults to the layout file's top)")
	exportCmd.Flags().StringVarP(&windowSpec, "window", "w", "", "region of interest as xmin,ymin,xmax,ymax")
	exportCmd.Flags().Float64Var(&margin, "margin", 0, "expand the window on all sides")
	exportCmd.Flags().BoolVar(&clip, "clip", false, "clip retained polygons to the window")
	exportCmd.Flags().BoolVar(&noMerge, "no-merge", false, "keep the solid set layer-fragmented")
	exportCmd.Flags().StringVarP(&format, "format", "f", "stl", "output format: stl, stl-ascii, json, kernel-stl")
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (required)")
	exportCmd.Flags().IntVar(&meshCells, "mesh-cells", 0, "kernel tessellation resolution (kernel-stl only)")
	exportCmd.MarkFlagRequired("layers")
	exportCmd.MarkFlagRequired("out")
}

func runExport(cmd *cobra.Command, args []string) error {
	layoutPath := args[0]

	table, stack, layerWarnings, err := layer.LoadFile(layersPath)
	if err != nil {
		return err
	}
	for _, w := range layerWarnings {
		log.Printf("layer stack: %s", w.Message)
	}

	lib, fileTop, err := loadLayout(layoutPath)
	if err != nil {
		return err
	}
	root := topName
	if root == "" {
		root = fileTop
	}
	if root == "" {
		return fmt.Errorf("no root structure: pass --top or declare one in %s", layoutPath)
	}

	cfg := pipeline.Config{
		Root:      root,
		Resolver:  lib,
		Layers:    table,
		SkipMerge: noMerge,
	}
	if windowSpec != "" {
		rect, err := parseWindow(windowSpec)
		if err != nil {
			return err
		}
		cfg.Window = &window.Options{Rect: rect, Margin: margin, Clip: clip}
	}

	if verbose {
		log.Printf("flattening %q from %s", root, layoutPath)
	}
	res, err := pipeline.Run(cfg)
	if err != nil {
		return err
	}
	for _, w := range res.Diagnostics.Warnings {
		log.Printf("%s", w)
	}
	if verbose {
		log.Printf("solids: %d in, %d out, %d merged runs",
			res.Stats.InputCount, res.Stats.OutputCount, res.Stats.MergedRuns)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	switch format {
	case "stl":
		return export.WriteSTL(out, res.Solids)
	case "stl-ascii":
		name := strings.TrimSuffix(filepath.Base(outPath), filepath.Ext(outPath))
		return export.WriteSTLASCII(out, name, res.Solids)
	case "json":
		doc := export.BuildInterchange(res.Solids, "AP203", stack.Unit, &res.Stats)
		return export.WriteInterchange(out, doc)
	case "kernel-stl":
		k := sdfx.New()
		if meshCells > 0 {
			k.MeshCells = meshCells
		}
		meshes, err := tessellate.MaterialGroups(res.Solids, k)
		if err != nil {
			return err
		}
		return export.WriteMeshSTL(out, meshes)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// loadLayout reads a layout from disk, choosing the reader by extension.
func loadLayout(path string) (layout.Library, string, error) {
	switch filepath.Ext(path) {
	case ".lsp", ".lisp", ".zy":
		res, err := script.NewEngine().EvalFile(path)
		if err != nil {
			return nil, "", err
		}
		return res.Library, res.Top, nil
	default:
		return layout.LoadLibrary(path)
	}
}

// parseWindow parses "xmin,ymin,xmax,ymax".
func parseWindow(s string) (geom.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return geom.Rect{}, fmt.Errorf("window %q: want xmin,ymin,xmax,ymax", s)
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return geom.Rect{}, fmt.Errorf("window %q: %w", s, err)
		}
		vals[i] = v
	}
	return geom.Rect{XMin: vals[0], YMin: vals[1], XMax: vals[2], YMax: vals[3]}, nil
}
