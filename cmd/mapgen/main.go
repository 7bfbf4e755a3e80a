package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/lawnchairsociety/gravshipcrashes/internal/config"
	"github.com/lawnchairsociety/gravshipcrashes/internal/defs"
	"github.com/lawnchairsociety/gravshipcrashes/internal/faction"
	"github.com/lawnchairsociety/gravshipcrashes/internal/layout"
	"github.com/lawnchairsociety/gravshipcrashes/internal/logger"
	"github.com/lawnchairsociety/gravshipcrashes/internal/render"
	"github.com/lawnchairsociety/gravshipcrashes/internal/site"
	"github.com/lawnchairsociety/gravshipcrashes/internal/world"
)

func main() {
	defsPath := flag.String("defs", "data/defs.yaml", "Path to defs YAML file or directory")
	layoutsDir := flag.String("layouts", "data/layouts", "Directory of ship layout YAML files")
	settingsFile := flag.String("settings", "data/settings.yaml", "Path to settings YAML file")
	seed := flag.Int64("seed", 1, "Seed shared by every preview")
	size := flag.Int("size", 80, "Edge length of each preview map")
	outputDir := flag.String("output", "", "Directory for one preview file per layout (empty for stdout)")
	showLegend := flag.Bool("legend", true, "Show legend")
	parallel := flag.Int("parallel", 4, "Maximum previews generated at once")
	flag.Parse()

	logger.Initialize(logger.Config{Level: "WARNING"})
	logger.SetOutput(os.Stderr, "text")

	if err := run(context.Background(), *defsPath, *layoutsDir, *settingsFile, *seed, *size, *outputDir, *showLegend, *parallel); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, defsPath, layoutsDir, settingsFile string, seed int64, size int, outputDir string, showLegend bool, parallel int) error {
	registry, err := loadDefs(defsPath)
	if err != nil {
		return fmt.Errorf("loading defs: %w", err)
	}
	layouts, err := layout.LoadFromDirectory(layoutsDir)
	if err != nil {
		return fmt.Errorf("loading layouts: %w", err)
	}
	if len(layouts) == 0 {
		return layout.ErrNoLayouts
	}
	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	previews := make([]string, len(layouts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, parallel))
	for i, l := range layouts {
		i, l := i, l
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// Settings are mutated by the coordinator, so each preview gets its own copy.
			settings, err := config.LoadConfig(settingsFile)
			if err != nil {
				return fmt.Errorf("loading settings: %w", err)
			}
			previews[i] = preview(registry, l, settings, seed, size, showLegend)
			if outputDir == "" {
				return nil
			}
			path := filepath.Join(outputDir, strings.ToLower(l.Name)+".txt")
			if err := os.WriteFile(path, []byte(previews[i]), 0644); err != nil {
				return fmt.Errorf("writing %s preview: %w", l.Name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if outputDir == "" {
		fmt.Print(strings.Join(previews, "\n"))
	} else {
		fmt.Printf("Wrote %d previews to %s\n", len(previews), outputDir)
	}
	return nil
}

// preview generates one crash site for l on a private registry and session.
func preview(registry *defs.Registry, l *layout.ShipLayout, settings *config.Settings, seed int64, size int, showLegend bool) string {
	layouts := layout.NewRegistry()
	layouts.RegisterProvider(&layout.StaticProvider{Label: l.Name, List: []*layout.ShipLayout{l}})

	session := faction.NewSession(registry, faction.NewManager(), defs.FactionSurvivors, seed)
	coord := site.NewCoordinator(registry, layouts, settings, session)

	s := &world.Site{
		ID:                  1,
		Label:               site.SiteLabel,
		LayoutName:          l.Name,
		StructureDamageSeed: seed,
		ThingDamageSeed:     seed + 1,
		LootSeed:            seed + 2,
		DefenderSeed:        seed + 3,
	}
	m, rep := coord.Generate(s, site.Options{MapSize: size})

	var out strings.Builder
	out.WriteString(fmt.Sprintf("%s (%s)\n", l.DisplayLabel(), l.Name))
	out.WriteString(fmt.Sprintf("Size: %dx%d  Beds: %d  Seats: %d  Defenders: %d\n",
		l.Width, l.Height, l.CountBeds(), l.CountSeats(), len(rep.Defenders)))
	if rep.UsedHull {
		out.WriteString("Layout could not be placed, fallback hull shown\n")
	}
	out.WriteString(strings.Repeat("=", 60) + "\n")
	out.WriteString(render.Map(m, rep.Bounds.ExpandedBy(2)))
	if showLegend {
		out.WriteString("\nLegend:\n")
		out.WriteString(render.Legend(m))
	}
	return out.String()
}

func loadDefs(path string) (*defs.Registry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return defs.LoadFromDirectory(path)
	}
	return defs.LoadFromYAML(path)
}
