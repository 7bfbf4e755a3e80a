package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

func main() {
	count := flag.Int("count", 3, "Number of layouts to generate")
	seed := flag.Int64("seed", 42, "Base seed for generation")
	minSize := flag.Int("min", 9, "Minimum hull edge length")
	maxSize := flag.Int("max", 21, "Maximum hull edge length")
	prefix := flag.String("prefix", "Generated", "Layout name prefix")
	outDir := flag.String("out", "data/layouts/generated", "Output directory")
	flag.Parse()

	if *minSize < minHullSize || *maxSize < *minSize {
		fmt.Fprintf(os.Stderr, "Error: hull size range must satisfy %d <= min <= max\n", minHullSize)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	gen := NewShipGenerator(*seed, *minSize, *maxSize)

	fmt.Printf("Generating %d layouts (seed: %d)\n", *count, *seed)
	fmt.Printf("Output directory: %s\n\n", *outDir)

	for i := 1; i <= *count; i++ {
		name := fmt.Sprintf("%s%02d", *prefix, i)
		fmt.Printf("Generating %s... ", name)
		raw := gen.Generate(name)
		path := filepath.Join(*outDir, fmt.Sprintf("%s.yaml", name))
		if err := WriteLayoutYAML(raw, path); err != nil {
			fmt.Printf("FAILED: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("OK (%dx%d)\n", len(raw.Grid[0]), len(raw.Grid))
	}

	fmt.Printf("\nSuccessfully generated %d layout(s)\n", *count)
}
