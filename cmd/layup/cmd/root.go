package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "layup",
	Short: "Layout-to-solid geometry pipeline",
	Long: `layup flattens a hierarchical 2D layout into per-layer polygons,
extrudes them into prismatic solids using a layer stack definition, merges
vertically continuous runs of the same material, and exports the result.

Examples:
  layup export --layers stack.yaml chip.json -o chip.stl
  layup export --layers stack.yaml --format json chip.json -o chip.step.json
  layup export --layers stack.yaml --window 0,0,500,500 --clip chip.json -o roi.stl`,
	Version: "0.2.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
