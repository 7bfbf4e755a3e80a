package defs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Well-known def names the generation passes look up.
const (
	TerrainMetalTile   = "MetalTile"
	TerrainSoil        = "Soil"
	ThingWall          = "Wall"
	ThingPlasteel      = "Plasteel"
	ThingBrokenEngine  = "BrokenGravEngine"
	ThingSlag          = "ChunkSlagSteel"
	ThingFilthFuel     = "Filth_Fuel"
	FactionSurvivors   = "Gravship_Survivors"
	LootTableCrashLoot = "GravshipCrashLoot"
)

// Registry holds every content definition, keyed by def name.
type Registry struct {
	Terrains   map[string]*TerrainDef   `yaml:"terrains"`
	Things     map[string]*ThingDef     `yaml:"things"`
	Factions   map[string]*FactionDef   `yaml:"factions"`
	PawnKinds  map[string]*PawnKindDef  `yaml:"pawn_kinds"`
	LootTables map[string]*LootTableDef `yaml:"loot_tables"`
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		Terrains:   make(map[string]*TerrainDef),
		Things:     make(map[string]*ThingDef),
		Factions:   make(map[string]*FactionDef),
		PawnKinds:  make(map[string]*PawnKindDef),
		LootTables: make(map[string]*LootTableDef),
	}
}

// LoadFromYAML loads a registry from a single YAML file.
func LoadFromYAML(filename string) (*Registry, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read defs file: %w", err)
	}
	return Parse(data)
}

// Parse decodes registry YAML and fills in the def names from the map keys.
func Parse(data []byte) (*Registry, error) {
	reg := NewRegistry()
	if err := yaml.Unmarshal(data, reg); err != nil {
		return nil, fmt.Errorf("failed to parse defs YAML: %w", err)
	}
	reg.normalize()
	return reg, nil
}

// LoadFromDirectory loads and merges every *.yaml file in dir.
func LoadFromDirectory(dir string) (*Registry, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list defs directory: %w", err)
	}
	sort.Strings(files)

	merged := NewRegistry()
	for _, f := range files {
		reg, err := LoadFromYAML(f)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
		merged.Merge(reg)
	}
	return merged, nil
}

// normalize makes sure maps exist and every def knows its own name.
func (r *Registry) normalize() {
	if r.Terrains == nil {
		r.Terrains = make(map[string]*TerrainDef)
	}
	if r.Things == nil {
		r.Things = make(map[string]*ThingDef)
	}
	if r.Factions == nil {
		r.Factions = make(map[string]*FactionDef)
	}
	if r.PawnKinds == nil {
		r.PawnKinds = make(map[string]*PawnKindDef)
	}
	if r.LootTables == nil {
		r.LootTables = make(map[string]*LootTableDef)
	}
	for name, d := range r.Terrains {
		if d == nil {
			d = &TerrainDef{}
			r.Terrains[name] = d
		}
		d.Name = name
	}
	for name, d := range r.Things {
		if d == nil {
			d = &ThingDef{}
			r.Things[name] = d
		}
		d.Name = name
		if d.UseHitPoints && d.MaxHitPoints <= 0 {
			d.MaxHitPoints = 100
		}
	}
	for name, d := range r.Factions {
		if d == nil {
			d = &FactionDef{}
			r.Factions[name] = d
		}
		d.Name = name
	}
	for name, d := range r.PawnKinds {
		if d == nil {
			d = &PawnKindDef{}
			r.PawnKinds[name] = d
		}
		d.Name = name
	}
	for name, d := range r.LootTables {
		if d == nil {
			d = &LootTableDef{}
			r.LootTables[name] = d
		}
		d.Name = name
	}
}

// Merge copies all defs from other into r. Later definitions win.
func (r *Registry) Merge(other *Registry) {
	if other == nil {
		return
	}
	r.normalize()
	for k, v := range other.Terrains {
		r.Terrains[k] = v
	}
	for k, v := range other.Things {
		r.Things[k] = v
	}
	for k, v := range other.Factions {
		r.Factions[k] = v
	}
	for k, v := range other.PawnKinds {
		r.PawnKinds[k] = v
	}
	for k, v := range other.LootTables {
		r.LootTables[k] = v
	}
	r.normalize()
}

// Terrain looks up a terrain def. Misses are reported through ok, never a panic.
func (r *Registry) Terrain(name string) (*TerrainDef, bool) {
	if r == nil || name == "" {
		return nil, false
	}
	d, ok := r.Terrains[name]
	return d, ok && d != nil
}

// Thing looks up a thing def.
func (r *Registry) Thing(name string) (*ThingDef, bool) {
	if r == nil || name == "" {
		return nil, false
	}
	d, ok := r.Things[name]
	return d, ok && d != nil
}

// Faction looks up a faction def.
func (r *Registry) Faction(name string) (*FactionDef, bool) {
	if r == nil || name == "" {
		return nil, false
	}
	d, ok := r.Factions[name]
	return d, ok && d != nil
}

// PawnKind looks up a pawn kind def.
func (r *Registry) PawnKind(name string) (*PawnKindDef, bool) {
	if r == nil || name == "" {
		return nil, false
	}
	d, ok := r.PawnKinds[name]
	return d, ok && d != nil
}

// LootTable looks up a loot table def.
func (r *Registry) LootTable(name string) (*LootTableDef, bool) {
	if r == nil || name == "" {
		return nil, false
	}
	d, ok := r.LootTables[name]
	return d, ok && d != nil
}

// ThingsWhere returns matching thing defs sorted by name so seeded draws are stable.
func (r *Registry) ThingsWhere(match func(*ThingDef) bool) []*ThingDef {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.Things))
	for name := range r.Things {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []*ThingDef
	for _, name := range names {
		d := r.Things[name]
		if d != nil && match(d) {
			out = append(out, d)
		}
	}
	return out
}

// Weapons returns every weapon def at or above the given tech level.
func (r *Registry) Weapons(minTech TechLevel) []*ThingDef {
	return r.ThingsWhere(func(d *ThingDef) bool {
		return d.Weapon != nil && ParseTechLevel(d.Weapon.Tech) >= minTech
	})
}

// Apparel returns every wearable def.
func (r *Registry) Apparel() []*ThingDef {
	return r.ThingsWhere(func(d *ThingDef) bool {
		return d.Apparel != nil
	})
}

// NameContainsAny reports whether a def name contains any of the substrings,
// ignoring case.
func NameContainsAny(name string, substrings ...string) bool {
	lower := strings.ToLower(name)
	for _, s := range substrings {
		if strings.Contains(lower, strings.ToLower(s)) {
			return true
		}
	}
	return false
}
