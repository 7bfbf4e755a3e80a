// Package faction tracks the factions that exist in a game session and resolves
// the shared hostile faction used by every crash site.
package faction

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/lawnchairsociety/gravshipcrashes/internal/defs"
	"github.com/lawnchairsociety/gravshipcrashes/internal/logger"
)

// ErrNoFactionDef is returned when the configured faction def is not registered.
var ErrNoFactionDef = errors.New("faction def not found")

// Faction is a live faction record.
type Faction struct {
	ID       int64
	DefName  string
	Name     string
	Hostile  bool
	Hidden   bool
	Defeated bool
}

func (f *Faction) String() string {
	if f == nil {
		return "<no faction>"
	}
	return fmt.Sprintf("%s (%s)", f.Name, f.DefName)
}

// Manager owns every faction known to a game session.
type Manager struct {
	mu       sync.RWMutex
	factions []*Faction
	nextID   int64
}

// NewManager creates an empty faction manager.
func NewManager() *Manager {
	return &Manager{nextID: 1}
}

// Add registers a faction, assigning an ID when it has none.
func (m *Manager) Add(f *Faction) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if f.ID == 0 {
		f.ID = m.nextID
	}
	if f.ID >= m.nextID {
		m.nextID = f.ID + 1
	}
	m.factions = append(m.factions, f)
}

// FirstOfDef returns the first non-defeated faction of the given def, or nil.
func (m *Manager) FirstOfDef(defName string) *Faction {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, f := range m.factions {
		if f.DefName == defName && !f.Defeated {
			return f
		}
	}
	return nil
}

// All returns a copy of the faction list.
func (m *Manager) All() []*Faction {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Faction, len(m.factions))
	copy(out, m.factions)
	return out
}

// Generate builds a new faction from a def without registering it.
func Generate(def *defs.FactionDef, rng *rand.Rand) *Faction {
	name := def.Label
	if len(def.NamePool) > 0 {
		name = def.NamePool[rng.Intn(len(def.NamePool))]
	}
	if name == "" {
		name = def.Name
	}
	return &Faction{
		DefName: def.Name,
		Name:    name,
		Hostile: def.Hostile,
		Hidden:  def.Hidden,
	}
}

// Session lazily resolves and caches the hostile faction for one game session.
// Generation code receives it explicitly instead of reaching for a global.
type Session struct {
	registry *defs.Registry
	manager  *Manager
	defName  string
	rng      *rand.Rand
	cached   *Faction
}

// NewSession creates a session resolving factions of defName.
func NewSession(registry *defs.Registry, manager *Manager, defName string, seed int64) *Session {
	if defName == "" {
		defName = defs.FactionSurvivors
	}
	return &Session{
		registry: registry,
		manager:  manager,
		defName:  defName,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Hostile returns the cached hostile faction, resolving or generating it on first
// use and again whenever the cached one has been defeated.
func (s *Session) Hostile() (*Faction, error) {
	if s.cached != nil && !s.cached.Defeated {
		return s.cached, nil
	}

	def, ok := s.registry.Faction(s.defName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoFactionDef, s.defName)
	}

	if f := s.manager.FirstOfDef(def.Name); f != nil {
		s.cached = f
		logger.Debug("Using existing defender faction", "faction", f.Name)
		return f, nil
	}

	f := Generate(def, s.rng)
	f.Hidden = true
	s.manager.Add(f)
	s.cached = f
	logger.Info("Generated defender faction", "faction", f.Name, "def", def.Name)
	return f, nil
}

// Manager returns the faction manager backing the session.
func (s *Session) Manager() *Manager {
	return s.manager
}
