// Package world holds the world grid, its crash sites and the world clock.
package world

import (
	"errors"
	"math/rand"
	"sort"
	"sync"

	"github.com/lawnchairsociety/gravshipcrashes/internal/gametime"
	"github.com/lawnchairsociety/gravshipcrashes/internal/logger"
)

// ErrNoSiteTile is returned when no tile satisfies the site constraints.
var ErrNoSiteTile = errors.New("no valid tile for a new site")

// ErrInvalidTile is returned for tile IDs outside the world.
var ErrInvalidTile = errors.New("invalid tile")

// Tile is one cell of the world grid.
type Tile struct {
	ID    int
	X, Y  int
	Biome Biome
}

// biomeWeights drives world generation. Order matches the Biome constants.
var biomeWeights = []int{45, 20, 15, 8, 12}

// World is the tile grid crash sites are placed on. It is safe for concurrent use.
type World struct {
	Width, Height int

	tiles  []Tile
	home   int
	sites  map[int64]*Site
	nextID int64
	clock  *gametime.GameClock
	seed   int64
	mu     sync.RWMutex
}

// NewWorld generates a width x height world from seed. The home tile sits at
// the centre and is always temperate land.
func NewWorld(width, height int, seed int64) *World {
	width = max(1, width)
	height = max(1, height)

	rng := rand.New(rand.NewSource(seed))
	w := &World{
		Width:  width,
		Height: height,
		tiles:  make([]Tile, width*height),
		sites:  make(map[int64]*Site),
		nextID: 1,
		clock:  gametime.NewGameClock(),
		seed:   seed,
	}

	total := 0
	for _, wt := range biomeWeights {
		total += wt
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			id := y*width + x
			roll := rng.Intn(total)
			biome := BiomeTemperate
			for i, wt := range biomeWeights {
				if roll < wt {
					biome = Biome(i)
					break
				}
				roll -= wt
			}
			w.tiles[id] = Tile{ID: id, X: x, Y: y, Biome: biome}
		}
	}

	w.home = (height/2)*width + width/2
	w.tiles[w.home].Biome = BiomeTemperate

	logger.Info("World generated", "width", width, "height", height, "seed", seed, "home", w.home)
	return w
}

// Seed returns the world seed
func (w *World) Seed() int64 {
	return w.seed
}

// Clock returns the world clock
func (w *World) Clock() *gametime.GameClock {
	return w.clock
}

// HomeTile returns the player's home tile
func (w *World) HomeTile() int {
	return w.home
}

// TileCount returns the number of tiles in the world
func (w *World) TileCount() int {
	return len(w.tiles)
}

// Tile returns the tile with the given ID.
func (w *World) Tile(id int) (Tile, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if id < 0 || id >= len(w.tiles) {
		return Tile{}, false
	}
	return w.tiles[id], true
}

// SetBiome overrides a tile's biome.
func (w *World) SetBiome(id int, b Biome) error {
	if id < 0 || id >= len(w.tiles) {
		return ErrInvalidTile
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.tiles[id].Biome = b
	return nil
}

// Distance returns the grid distance between two tiles (diagonal moves count one).
func (w *World) Distance(a, b int) int {
	if a < 0 || a >= len(w.tiles) || b < 0 || b >= len(w.tiles) {
		return -1
	}
	ta, tb := w.tiles[a], w.tiles[b]
	return max(abs(ta.X-tb.X), abs(ta.Y-tb.Y))
}

// IsValidTileForNewSite reports whether a site may be placed on tile: in the
// world, passable land, not home and not already occupied.
func (w *World) IsValidTileForNewSite(tile int) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.validLocked(tile)
}

// validLocked is IsValidTileForNewSite without locking. Callers hold w.mu.
func (w *World) validLocked(tile int) bool {
	if tile < 0 || tile >= len(w.tiles) || tile == w.home {
		return false
	}
	if !w.tiles[tile].Biome.IsPassable() {
		return false
	}
	for _, s := range w.sites {
		if s.Tile == tile {
			return false
		}
	}
	return true
}

// TryFindNewSiteTile picks a random valid tile between minDist and maxDist
// tiles from home.
func (w *World) TryFindNewSiteTile(rng *rand.Rand, minDist, maxDist int) (int, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var candidates []int
	for _, t := range w.tiles {
		d := w.Distance(w.home, t.ID)
		if d < minDist || d > maxDist {
			continue
		}
		if w.validLocked(t.ID) {
			candidates = append(candidates, t.ID)
		}
	}
	if len(candidates) == 0 {
		return -1, ErrNoSiteTile
	}
	return candidates[rng.Intn(len(candidates))], nil
}

// AddSite registers a site and assigns it an ID if it has none.
func (w *World) AddSite(s *Site) error {
	if s == nil {
		return errors.New("nil site")
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if s.Tile < 0 || s.Tile >= len(w.tiles) {
		return ErrInvalidTile
	}
	if s.ID == 0 {
		s.ID = w.nextID
	}
	if s.ID >= w.nextID {
		w.nextID = s.ID + 1
	}
	w.sites[s.ID] = s
	logger.Debug("Site added", "site", s.ID, "tile", s.Tile, "timeout", s.TimeoutTicks)
	return nil
}

// RemoveSite removes and returns the site with the given ID.
func (w *World) RemoveSite(id int64) (*Site, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.sites[id]
	if ok {
		delete(w.sites, id)
		logger.Debug("Site removed", "site", id)
	}
	return s, ok
}

// GetSite returns the site with the given ID.
func (w *World) GetSite(id int64) *Site {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.sites[id]
}

// SiteAt returns the site occupying tile, if any.
func (w *World) SiteAt(tile int) *Site {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, s := range w.sites {
		if s.Tile == tile {
			return s
		}
	}
	return nil
}

// Sites returns all sites ordered by ID.
func (w *World) Sites() []*Site {
	w.mu.RLock()
	defer w.mu.RUnlock()

	sites := make([]*Site, 0, len(w.sites))
	for _, s := range w.sites {
		sites = append(sites, s)
	}
	sort.Slice(sites, func(i, j int) bool { return sites[i].ID < sites[j].ID })
	return sites
}

// Tick advances the clock by n ticks, counts down site timeouts and removes
// the sites whose timers ran out. The expired sites are returned in ID order.
func (w *World) Tick(n int) []*Site {
	if n <= 0 {
		return nil
	}
	w.clock.Advance(n)

	w.mu.Lock()
	var expired []*Site
	for id, s := range w.sites {
		if !s.HasTimeout() {
			continue
		}
		s.TimeoutTicks -= n
		if s.TimeoutTicks <= 0 {
			s.TimeoutTicks = 0
			expired = append(expired, s)
			delete(w.sites, id)
		}
	}
	w.mu.Unlock()

	sort.Slice(expired, func(i, j int) bool { return expired[i].ID < expired[j].ID })
	for _, s := range expired {
		logger.Info("Site timed out", "site", s.ID, "tile", s.Tile)
	}
	return expired
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
