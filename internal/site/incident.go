package site

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/lawnchairsociety/gravshipcrashes/internal/gametime"
	"github.com/lawnchairsociety/gravshipcrashes/internal/geom"
	"github.com/lawnchairsociety/gravshipcrashes/internal/layout"
	"github.com/lawnchairsociety/gravshipcrashes/internal/logger"
	"github.com/lawnchairsociety/gravshipcrashes/internal/world"
)

const (
	// SiteLabel is the label given to every crash site.
	SiteLabel = "Crashed Gravship"

	letterText = "A gravship has crashed nearby, spilling survivors and salvage across the landscape."

	minSiteDistance = 6
	maxSiteDistance = 30
)

var (
	incidentTimeoutDays = geom.IntRange{Min: 12, Max: 20}
	debugTimeoutDays    = geom.IntRange{Min: 6, Max: 10}
)

var (
	// ErrNoWorld is returned when a site is requested before a world is attached.
	ErrNoWorld = errors.New("no world attached")
	// ErrDevSpawnDisabled is returned by DebugSpawn when settings turn it off.
	ErrDevSpawnDisabled = errors.New("dev spawn disabled in settings")
)

// Letter is the notification sent when the incident fires.
type Letter struct {
	Label string
	Text  string
	Site  *world.Site
}

func (l *Letter) String() string {
	return fmt.Sprintf("%s: %s", l.Label, l.Text)
}

// Incident is the random event that places a crash site on the world.
type Incident struct {
	coord *Coordinator
}

// NewIncident creates the incident for a coordinator.
func NewIncident(c *Coordinator) *Incident {
	return &Incident{coord: c}
}

// BaseChance is the per-roll chance from settings, never negative.
func (i *Incident) BaseChance() float64 {
	return max(0, i.coord.settings.IncidentBaseChance)
}

// CanFire reports whether any layout is loaded and at least one is allowed.
func (i *Incident) CanFire() bool {
	if !i.coord.layouts.HasContent() {
		return false
	}
	return len(i.coord.layouts.Allowed(i.coord.settings)) > 0
}

// Roll reports whether the incident fires this time.
func (i *Incident) Roll(rng *rand.Rand) bool {
	return i.CanFire() && rng.Float64() < i.BaseChance()
}

// TryExecute creates a crash site 6-30 tiles from home with a 12-20 day timeout.
func (i *Incident) TryExecute(rng *rand.Rand) (*Letter, error) {
	c := i.coord
	if c.world == nil {
		return nil, ErrNoWorld
	}
	l, err := c.layouts.RandomAllowed(c.settings, rng)
	if err != nil {
		return nil, err
	}
	tile, err := c.world.TryFindNewSiteTile(rng, minSiteDistance, maxSiteDistance)
	if err != nil {
		return nil, err
	}

	s := c.createSite(tile, l, incidentTimeoutDays, rng)
	if err := c.world.AddSite(s); err != nil {
		return nil, err
	}

	logger.Info("Crash site incident fired", "site", s.ID, "tile", tile, "layout", l.Name, "timeout_ticks", s.TimeoutTicks)
	return &Letter{Label: SiteLabel, Text: letterText, Site: s}, nil
}

// DebugSpawn places a crash site on tile, or on a found tile when tile is not
// usable, with a short 6-10 day timeout.
func (c *Coordinator) DebugSpawn(tile int, rng *rand.Rand) (*world.Site, error) {
	if !c.settings.DevEnableWorldSpawnButton {
		return nil, ErrDevSpawnDisabled
	}
	if c.world == nil {
		return nil, ErrNoWorld
	}
	l, err := c.layouts.RandomAllowed(c.settings, rng)
	if err != nil {
		return nil, err
	}

	if tile < 0 || !c.world.IsValidTileForNewSite(tile) {
		found, err := c.world.TryFindNewSiteTile(rng, minSiteDistance, maxSiteDistance)
		if err != nil {
			return nil, fmt.Errorf("could not find a valid tile for the crash site: %w", err)
		}
		tile = found
	}

	s := c.createSite(tile, l, debugTimeoutDays, rng)
	if err := c.world.AddSite(s); err != nil {
		return nil, err
	}
	logger.Info("Spawned crashed gravship site", "site", s.ID, "tile", tile, "layout", l.Name)
	return s, nil
}

// createSite builds a labelled site with fresh seeds and a timeout drawn in days.
func (c *Coordinator) createSite(tile int, l *layout.ShipLayout, days geom.IntRange, rng *rand.Rand) *world.Site {
	s := world.NewSite(tile, rng)
	s.Label = SiteLabel
	if l != nil {
		s.LayoutName = l.Name
	}
	s.TimeoutTicks = gametime.DaysToTicks(days.RandomIn(rng))
	return s
}
