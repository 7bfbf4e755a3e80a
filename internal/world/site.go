package world

import (
	"fmt"
	"math/rand"
	"time"
)

// Site is a crash site placed on a world tile. It carries the seeds its map is
// generated from so the same site always produces the same wreck.
type Site struct {
	ID         int64
	Tile       int
	Label      string
	LayoutName string

	StructureDamageSeed int64
	ThingDamageSeed     int64
	LootSeed            int64
	DefenderSeed        int64

	// TimeoutTicks is the remaining lifetime. Zero or less means the site never expires.
	TimeoutTicks int
	CreatedAt    time.Time
}

// NewSite creates a site on tile with freshly rolled seeds.
func NewSite(tile int, rng *rand.Rand) *Site {
	s := &Site{Tile: tile, CreatedAt: time.Now()}
	s.RandomizeSeeds(rng)
	return s
}

// RandomizeSeeds rolls all four generation seeds.
func (s *Site) RandomizeSeeds(rng *rand.Rand) {
	s.StructureDamageSeed = rng.Int63()
	s.ThingDamageSeed = rng.Int63()
	s.LootSeed = rng.Int63()
	s.DefenderSeed = rng.Int63()
}

// HasTimeout reports whether the site will expire on its own.
func (s *Site) HasTimeout() bool {
	return s.TimeoutTicks > 0
}

// String returns the label, ID and tile of the site.
func (s *Site) String() string {
	label := s.Label
	if label == "" {
		label = "site"
	}
	return fmt.Sprintf("%s #%d (tile %d)", label, s.ID, s.Tile)
}
