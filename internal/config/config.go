package config

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/gravshipcrashes/internal/geom"
)

// Settings holds the user-configurable values for crash sites.
type Settings struct {
	// IncidentBaseChance is the chance the crash incident fires when rolled.
	IncidentBaseChance float64 `yaml:"incident_base_chance"`

	// StructureDamage is the damage fraction range applied to buildings.
	StructureDamage geom.FloatRange `yaml:"structure_damage"`

	// ThingDamage is the damage fraction range applied to loose things.
	ThingDamage geom.FloatRange `yaml:"thing_damage"`

	// PawnInjurySeverity scales the wounds defenders start with.
	PawnInjurySeverity geom.FloatRange `yaml:"pawn_injury_severity"`

	// MaxDefenders caps the defender headcount. 0 disables defenders.
	MaxDefenders int `yaml:"max_defenders"`

	// DebugLogging turns on debug level logging.
	DebugLogging bool `yaml:"debug_logging"`

	// DevEnableWorldSpawnButton enables the debug spawn action.
	DevEnableWorldSpawnButton bool `yaml:"dev_enable_world_spawn_button"`

	// ShipAllowances maps layout names to whether they may be used.
	// Layouts missing from the map are allowed.
	ShipAllowances map[string]bool `yaml:"ship_allowances"`

	mu sync.Mutex
}

// Limits applied by Clamp.
const (
	minDamage       = 0.0
	maxDamage       = 1.0
	maxDefenderCap  = 50
	defaultDefender = 6
)

// DefaultConfig returns Settings with the shipped defaults.
func DefaultConfig() *Settings {
	return &Settings{
		IncidentBaseChance:        0.04,
		StructureDamage:           geom.FloatRange{Min: 0.15, Max: 0.45},
		ThingDamage:               geom.FloatRange{Min: 0.10, Max: 0.35},
		PawnInjurySeverity:        geom.FloatRange{Min: 0.10, Max: 0.40},
		MaxDefenders:              defaultDefender,
		DebugLogging:              false,
		DevEnableWorldSpawnButton: true,
		ShipAllowances:            make(map[string]bool),
	}
}

// LoadConfig loads settings from a YAML file.
// If the file doesn't exist, returns the defaults. Values are clamped after loading.
func LoadConfig(path string) (*Settings, error) {
	s := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse settings: %w", err)
	}
	if s.ShipAllowances == nil {
		s.ShipAllowances = make(map[string]bool)
	}
	s.Clamp()
	return s, nil
}

// Save writes the settings to a YAML file.
func (s *Settings) Save(path string) error {
	s.mu.Lock()
	data, err := yaml.Marshal(s)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// Clamp forces every value into its valid range. Each range max is raised to at
// least its min.
func (s *Settings) Clamp() {
	s.IncidentBaseChance = geom.Clamp01(s.IncidentBaseChance)
	s.StructureDamage = clampRange(s.StructureDamage)
	s.ThingDamage = clampRange(s.ThingDamage)
	s.PawnInjurySeverity = clampRange(s.PawnInjurySeverity)
	s.MaxDefenders = geom.Clamp(s.MaxDefenders, 0, maxDefenderCap)
}

func clampRange(r geom.FloatRange) geom.FloatRange {
	r.Min = clampFloat(r.Min, minDamage, maxDamage)
	r.Max = clampFloat(r.Max, r.Min, maxDamage)
	return r
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// AllowsShip reports whether a layout may be used. Unknown names are allowed
// and remembered so they show up in the saved file.
func (s *Settings) AllowsShip(name string) bool {
	if name == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ShipAllowances == nil {
		s.ShipAllowances = make(map[string]bool)
	}
	allowed, ok := s.ShipAllowances[name]
	if !ok {
		s.ShipAllowances[name] = true
		return true
	}
	return allowed
}

// SetAllowsShip sets the allowance for one layout.
func (s *Settings) SetAllowsShip(name string, allowed bool) {
	if name == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ShipAllowances == nil {
		s.ShipAllowances = make(map[string]bool)
	}
	s.ShipAllowances[name] = allowed
}

// SetAllShips sets every known allowance at once.
func (s *Settings) SetAllShips(allowed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name := range s.ShipAllowances {
		s.ShipAllowances[name] = allowed
	}
}

// SynchroniseShips adds newly seen layouts as allowed and forgets layouts that
// no longer exist.
func (s *Settings) SynchroniseShips(names []string) {
	if names == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ShipAllowances == nil {
		s.ShipAllowances = make(map[string]bool)
	}
	known := make(map[string]struct{}, len(names))
	for _, name := range names {
		known[name] = struct{}{}
		if _, ok := s.ShipAllowances[name]; !ok {
			s.ShipAllowances[name] = true
		}
	}
	for name := range s.ShipAllowances {
		if _, ok := known[name]; !ok {
			delete(s.ShipAllowances, name)
		}
	}
}

// AllowedShips returns the names of every allowed layout, sorted.
func (s *Settings) AllowedShips() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for name, ok := range s.ShipAllowances {
		if ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
