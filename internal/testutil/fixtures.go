// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lawnchairsociety/gravshipcrashes/internal/defs"
	"github.com/lawnchairsociety/gravshipcrashes/internal/faction"
	"github.com/lawnchairsociety/gravshipcrashes/internal/tilemap"
)

// DefsYAML is a small but complete content set: terrain, structures, furniture,
// storage, weapons, apparel, a defender faction and a crash loot table.
const DefsYAML = `
terrains:
  Soil:
    label: soil
    symbol: "."
  MetalTile:
    label: metal tile
    symbol: "_"
  Water:
    label: water
    water: true
    symbol: "~"

things:
  Plasteel:
    label: plasteel
    category: item
    item_group: resources
    is_stuff: true
    stuff_hp_factor: 2
    use_hit_points: true
    max_hit_points: 100
    market_value: 9
  Steel:
    label: steel
    category: item
    item_group: resources
    is_stuff: true
    stuff_hp_factor: 1
    use_hit_points: true
    max_hit_points: 100
    market_value: 2
  Wall:
    label: wall
    category: building
    use_hit_points: true
    max_hit_points: 300
    holds_roof: true
    impassable: true
    edifice: true
    can_have_faction: true
    symbol: "#"
  Door:
    label: door
    category: building
    use_hit_points: true
    max_hit_points: 160
    holds_roof: true
    edifice: true
    can_have_faction: true
    symbol: "+"
  Bed:
    label: bed
    category: building
    use_hit_points: true
    max_hit_points: 140
    edifice: true
    can_have_faction: true
    symbol: "b"
  DiningChair:
    label: dining chair
    category: building
    use_hit_points: true
    max_hit_points: 100
    edifice: true
    can_have_faction: true
    symbol: "h"
  Shelf:
    label: shelf
    category: building
    use_hit_points: true
    max_hit_points: 100
    edifice: true
    pass_through_only: true
    can_have_faction: true
    symbol: "s"
    storage:
      slots: 3
  ChemfuelGenerator:
    label: chemfuel generator
    category: building
    use_hit_points: true
    max_hit_points: 300
    edifice: true
    impassable: true
    can_have_faction: true
    fuel_capacity: 50
    symbol: "G"
  Lamp:
    label: standing lamp
    category: building
    use_hit_points: true
    max_hit_points: 50
    edifice: true
    can_have_faction: true
    power_consumer: true
    symbol: "l"
  PowerConduit:
    label: power conduit
    category: building
    use_hit_points: true
    max_hit_points: 80
    damage_exempt: true
    can_have_faction: true
    symbol: "c"
  Mortar:
    label: mortar
    category: building
    use_hit_points: true
    max_hit_points: 180
    edifice: true
    impassable: true
    can_have_faction: true
    mortar: true
    symbol: "M"
  ShipGravEngine:
    label: grav engine
    category: building
    use_hit_points: true
    max_hit_points: 500
    edifice: true
    impassable: true
    can_have_faction: true
    symbol: "E"
  BrokenGravEngine:
    label: broken grav engine
    category: building
    use_hit_points: true
    max_hit_points: 800
    edifice: true
    impassable: true
    damage_exempt: true
    can_have_faction: true
    symbol: "X"
  ChunkSlagSteel:
    label: steel slag chunk
    category: item
    item_group: chunks
    use_hit_points: true
    max_hit_points: 100
    symbol: "*"
  Filth_Fuel:
    label: fuel puddle
    category: filth
    symbol: ","
  ComponentSpacer:
    label: advanced component
    category: item
    item_group: manufactured
    use_hit_points: true
    max_hit_points: 70
    market_value: 200
    tech: spacer
  ComponentIndustrial:
    label: component
    category: item
    item_group: manufactured
    use_hit_points: true
    max_hit_points: 70
    market_value: 32
    tech: industrial
  MedicineIndustrial:
    label: medicine
    category: item
    item_group: medicine
    use_hit_points: true
    max_hit_points: 60
    market_value: 18
    tech: industrial
  Gun_AssaultRifle:
    label: assault rifle
    category: item
    item_group: weapons
    use_hit_points: true
    max_hit_points: 100
    market_value: 450
    weapon:
      tech: industrial
  Gun_ChargeRifle:
    label: charge rifle
    category: item
    item_group: weapons
    use_hit_points: true
    max_hit_points: 100
    market_value: 900
    weapon:
      tech: spacer
  MeleeWeapon_Club:
    label: club
    category: item
    item_group: weapons
    use_hit_points: true
    max_hit_points: 100
    market_value: 20
    weapon:
      tech: neolithic
      melee: true
  Apparel_FlakVest:
    label: flak vest
    category: item
    item_group: apparel
    use_hit_points: true
    max_hit_points: 150
    market_value: 160
    apparel:
      layers: [Middle]
      body_groups: [Torso]
      tech: industrial
  Apparel_Parka:
    label: parka
    category: item
    item_group: apparel
    use_hit_points: true
    max_hit_points: 120
    market_value: 90
    apparel:
      layers: [Outer]
      body_groups: [Torso, Arms]
      tech: industrial
  Apparel_SimpleHelmet:
    label: simple helmet
    category: item
    item_group: apparel
    use_hit_points: true
    max_hit_points: 80
    market_value: 35
    apparel:
      layers: [Overhead]
      body_groups: [FullHead]
      tech: medieval
  Apparel_ThrumboHelmet:
    label: heavy helmet
    category: item
    item_group: apparel
    use_hit_points: true
    max_hit_points: 80
    market_value: 60
    apparel:
      layers: [Overhead]
      body_groups: [FullHead]
      body_types: [Hulk]
      tech: industrial

factions:
  Gravship_Survivors:
    label: gravship survivors
    hostile: true
    pawn_kinds: [Gravship_Crew]
    name_pool: [Drifters of the Ardent Star]

pawn_kinds:
  Gravship_Crew:
    label: gravship crew
    min_weapon_tech: industrial
    body_types: [Male, Female, Thin]
    names: [Vance, Ilsa, Orrin, Petra, Kade, Mira, Soren, Tamsin]

loot_tables:
  GravshipCrashLoot:
    label: crash salvage
    entries:
      - thing: ComponentSpacer
        weight: 2
        min_count: 1
        max_count: 2
      - thing: ComponentIndustrial
        weight: 4
        min_count: 2
        max_count: 6
      - thing: MedicineIndustrial
        weight: 3
        min_count: 2
        max_count: 5
      - thing: Gun_ChargeRifle
        weight: 1
`

// Registry parses DefsYAML.
func Registry(t testing.TB) *defs.Registry {
	t.Helper()
	reg, err := defs.Parse([]byte(DefsYAML))
	require.NoError(t, err)
	return reg
}

// Thing looks up a def from reg and builds an unspawned thing.
func Thing(t testing.TB, reg *defs.Registry, def, stuff string) *tilemap.Thing {
	t.Helper()
	d, ok := reg.Thing(def)
	require.True(t, ok, "missing def %s", def)
	var s *defs.ThingDef
	if stuff != "" {
		s, ok = reg.Thing(stuff)
		require.True(t, ok, "missing stuff %s", stuff)
	}
	return tilemap.NewThing(d, s)
}

// Map creates a map covered with soil.
func Map(t testing.TB, reg *defs.Registry, sizeX, sizeZ int) *tilemap.Map {
	t.Helper()
	soil, ok := reg.Terrain(defs.TerrainSoil)
	require.True(t, ok)
	return tilemap.New(sizeX, sizeZ, 0, soil)
}

// Session returns a fresh faction session over reg.
func Session(reg *defs.Registry) *faction.Session {
	return faction.NewSession(reg, faction.NewManager(), defs.FactionSurvivors, 1)
}
