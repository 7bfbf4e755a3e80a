package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lawnchairsociety/gravshipcrashes/internal/config"
	"github.com/lawnchairsociety/gravshipcrashes/internal/defs"
	"github.com/lawnchairsociety/gravshipcrashes/internal/layout"
	"github.com/lawnchairsociety/gravshipcrashes/internal/loot"
)

func main() {
	defsPath := flag.String("defs", "data/defs.yaml", "Path to defs YAML file")
	layoutsDir := flag.String("layouts", "data/layouts", "Directory of ship layout YAML files")
	settingsFile := flag.String("settings", "data/settings.yaml", "Path to settings YAML file")
	flag.Parse()

	reg, err := defs.LoadFromYAML(*defsPath)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d things, %d terrains\n", len(reg.Things), len(reg.Terrains))

	if _, ok := reg.Faction(defs.FactionSurvivors); ok {
		fmt.Printf("Found defender faction %s\n", defs.FactionSurvivors)
	} else {
		fmt.Printf("%s NOT FOUND\n", defs.FactionSurvivors)
	}
	if table, ok := loot.FromRegistry(reg, defs.LootTableCrashLoot); ok {
		fmt.Printf("Found loot table %s (%d entries)\n", defs.LootTableCrashLoot, table.Len())
	} else {
		fmt.Printf("%s NOT FOUND\n", defs.LootTableCrashLoot)
	}

	fmt.Println("\n--- Checking ship layouts ---")
	layouts, err := layout.LoadFromDirectory(*layoutsDir)
	if err != nil {
		fmt.Println("Error loading layouts:", err)
		os.Exit(1)
	}
	problems := 0
	for _, l := range layouts {
		fmt.Printf("%-16s %3dx%-3d beds: %d seats: %d engine: %v\n",
			l.Name, l.Width, l.Height, l.CountBeds(), l.CountSeats(), l.HasEngineMarker())
		for _, m := range l.MissingDefs(reg) {
			fmt.Printf("  - missing %s\n", m)
			problems++
		}
	}

	settings, err := config.LoadConfig(*settingsFile)
	if err != nil {
		fmt.Println("Error loading settings:", err)
		os.Exit(1)
	}
	names := make([]string, 0, len(layouts))
	for _, l := range layouts {
		names = append(names, l.Name)
	}
	settings.SynchroniseShips(names)
	fmt.Printf("\n%d of %d layouts allowed\n", len(settings.AllowedShips()), len(layouts))

	if problems > 0 {
		fmt.Printf("%d problems found\n", problems)
		os.Exit(1)
	}
}
