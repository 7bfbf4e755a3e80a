package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/lawnchairsociety/gravshipcrashes/internal/config"
	"github.com/lawnchairsociety/gravshipcrashes/internal/database"
	"github.com/lawnchairsociety/gravshipcrashes/internal/defs"
	"github.com/lawnchairsociety/gravshipcrashes/internal/faction"
	"github.com/lawnchairsociety/gravshipcrashes/internal/gametime"
	"github.com/lawnchairsociety/gravshipcrashes/internal/layout"
	"github.com/lawnchairsociety/gravshipcrashes/internal/logger"
	"github.com/lawnchairsociety/gravshipcrashes/internal/render"
	"github.com/lawnchairsociety/gravshipcrashes/internal/site"
	"github.com/lawnchairsociety/gravshipcrashes/internal/world"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	defsPath := flag.String("defs", "data/defs.yaml", "Path to defs YAML file or directory")
	layoutsDir := flag.String("layouts", "data/layouts", "Directory of ship layout YAML files")
	settingsFile := flag.String("settings", "data/settings.yaml", "Path to settings YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	seed := flag.Int64("seed", 0, "World seed (default: random based on current time)")
	layoutName := flag.String("layout", "", "Force a ship layout by name (debug spawn)")
	tile := flag.Int("tile", -1, "World tile for a debug spawn (-1 to search)")
	mapSize := flag.Int("size", site.DefaultMapSize, "Edge length of the generated site map")
	worldSize := flag.Int("world-size", 61, "Edge length of the world grid")
	rain := flag.Float64("rain", -1, "Rain rate 0-1 (-1 to use the site's biome)")
	days := flag.Int("days", 0, "Days to advance the world after generation")
	persist := flag.Bool("persist", false, "Load and save the world's sites and factions in the database")
	siteID := flag.Int64("site", 0, "Regenerate a stored site by ID instead of creating one (requires -persist)")
	dbFile := flag.String("db", "data/gravship.db", "Path to SQLite database file")
	outputFile := flag.String("output", "", "Output file (empty for stdout)")
	showWorld := flag.Bool("world", false, "Also render the world grid")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// Initialize logger first (before any logging)
	logConfig, _ := logger.LoadConfig(*loggingConfig)
	logger.Initialize(logConfig)
	if *debug {
		logger.SetDebug(true)
	}

	worldSeed := *seed
	if worldSeed == 0 {
		worldSeed = time.Now().UnixNano()
		logger.Info("World seed selected", "seed", worldSeed, "random", true)
	} else {
		logger.Info("World seed selected", "seed", worldSeed, "random", false)
	}

	settings, err := config.LoadConfig(*settingsFile)
	if err != nil {
		logger.Warning("Failed to load settings, using defaults", "path", *settingsFile, "error", err)
	}

	registry, err := loadDefs(*defsPath)
	if err != nil {
		log.Fatalf("Failed to load defs: %v", err)
	}

	layouts := layout.NewRegistry()
	layouts.RegisterProvider(&layout.DirProvider{Label: "data", Dir: *layoutsDir})
	settings.SynchroniseShips(layouts.Names())
	logger.Info("Ship layouts loaded", "count", len(layouts.Names()), "allowed", len(settings.AllowedShips()))

	factions := faction.NewManager()
	var db *database.Database
	if *persist {
		db = openDatabase(*dbFile)
		defer db.Close()
		if loaded, err := db.LoadFactions(); err != nil {
			logger.Warning("Failed to load factions", "error", err)
		} else {
			factions = loaded
		}
	}

	w := world.NewWorld(*worldSize, *worldSize, worldSeed)
	if db != nil {
		n, err := db.LoadSites(w)
		if err != nil {
			log.Fatalf("Failed to load sites: %v", err)
		}
		logger.Info("Stored sites loaded", "count", n)
	}
	session := faction.NewSession(registry, factions, defs.FactionSurvivors, worldSeed)
	coord := site.NewCoordinator(registry, layouts, settings, session)
	coord.SetWorld(w)

	var s *world.Site
	if *siteID != 0 {
		if db == nil {
			log.Fatal("-site requires -persist")
		}
		if s = w.GetSite(*siteID); s == nil {
			log.Fatalf("Site %d not found in the database", *siteID)
		}
		logger.Info("Regenerating stored site", "site", s.ID, "layout", s.LayoutName)
	} else {
		rng := rand.New(rand.NewSource(worldSeed))
		if s, err = createSite(coord, *layoutName, *tile, rng); err != nil {
			log.Fatalf("Failed to create crash site: %v", err)
		}
	}

	m, rep := coord.Generate(s, site.Options{MapSize: *mapSize, RainRate: *rain})

	var out strings.Builder
	out.WriteString(fmt.Sprintf("=== %s ===\n", s))
	out.WriteString(fmt.Sprintf("Layout: %s", displayLayout(rep)))
	out.WriteString(fmt.Sprintf("  Bounds: %s  Rain: %.2f\n", rep.Bounds, m.RainRate))
	out.WriteString(fmt.Sprintf("Engines removed: %d  Structure damaged: %d destroyed: %d  Things damaged: %d destroyed: %d\n",
		rep.EnginesRemoved, rep.Structure.Damaged, rep.Structure.Destroyed, rep.Things.Damaged, rep.Things.Destroyed))
	out.WriteString(fmt.Sprintf("Loot stored: %d dropped: %d lost: %d  Defenders: %d", rep.Loot.Stored, rep.Loot.Dropped, rep.Loot.Lost, len(rep.Defenders)))
	if rep.Faction != nil {
		out.WriteString(fmt.Sprintf(" (%s)", rep.Faction.Name))
	}
	out.WriteString("\n\n")
	out.WriteString(render.Map(m, rep.Bounds.ExpandedBy(3)))
	out.WriteString("\nLegend:\n")
	out.WriteString(render.Legend(m))

	if *showWorld {
		out.WriteString("\nWorld:\n")
		out.WriteString(render.World(w))
	}

	if *days > 0 {
		for _, expired := range w.Tick(gametime.DaysToTicks(*days)) {
			coord.SiteRemoved(expired)
			if db != nil {
				if err := db.DeleteSite(expired.ID); err != nil {
					logger.Warning("Failed to delete expired site", "site", expired.ID, "error", err)
				}
			}
			out.WriteString(fmt.Sprintf("\n%s has timed out.\n", expired))
		}
		out.WriteString(fmt.Sprintf("\n%s\n", w.Clock().GetTimeString()))
	}
	out.WriteString("\nSites:\n")
	out.WriteString(render.SiteList(w))

	if db != nil {
		for _, ws := range w.Sites() {
			if err := db.SaveSite(ws); err != nil {
				logger.Error("Failed to save site", "site", ws.ID, "error", err)
			}
		}
		if err := db.SaveFactions(factions); err != nil {
			logger.Error("Failed to save factions", "error", err)
		}
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(out.String()), 0644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		logger.Info("Site written", "path", *outputFile)
		return
	}
	fmt.Print(out.String())
}

// loadDefs reads a single defs file or every YAML file in a directory.
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

func openDatabase(sqlitePath string) *database.Database {
	cfg, err := database.ConfigFromEnv(sqlitePath)
	if err != nil {
		log.Fatalf("Invalid database configuration: %v", err)
	}
	db, err := database.OpenWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	logger.Info("Database opened", "driver", cfg.Driver)
	return db
}

// createSite fires the crash incident, or performs a debug spawn when a
// layout or tile is forced.
func createSite(coord *site.Coordinator, layoutName string, tile int, rng *rand.Rand) (*world.Site, error) {
	if layoutName == "" && tile < 0 {
		inc := site.NewIncident(coord)
		if !inc.CanFire() {
			return nil, layout.ErrNoLayouts
		}
		letter, err := inc.TryExecute(rng)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(os.Stderr, "%s\n", letter)
		return letter.Site, nil
	}

	s, err := coord.DebugSpawn(tile, rng)
	if err != nil {
		return nil, err
	}
	if layoutName != "" {
		if _, ok := coord.Layouts().Get(layoutName); !ok {
			logger.Warning("Unknown layout requested", "layout", layoutName)
		}
		s.LayoutName = layoutName
	}
	return s, nil
}

func displayLayout(rep site.Report) string {
	if rep.UsedHull {
		return "fallback hull"
	}
	return rep.Layout
}
