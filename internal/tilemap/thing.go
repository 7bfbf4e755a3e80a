package tilemap

import (
	"fmt"
	"math"

	"github.com/lawnchairsociety/gravshipcrashes/internal/defs"
	"github.com/lawnchairsociety/gravshipcrashes/internal/faction"
	"github.com/lawnchairsociety/gravshipcrashes/internal/geom"
)

// MaxFilthThickness caps how many layers of filth can pile up in one cell.
const MaxFilthThickness = 5

// Thing is a spawned or spawnable object.
type Thing struct {
	ID        int
	Def       *defs.ThingDef
	Stuff     *defs.ThingDef
	Position  geom.IntVec
	Rotation  geom.Rot4
	HitPoints int
	Faction   *faction.Faction
	Fuel      float64
	PowerOn   bool
	// StackCount doubles as filth thickness.
	StackCount int
	Contents   []*Thing
	MannedBy   *Pawn
	Destroyed  bool
	Spawned    bool
}

// NewThing makes an unspawned thing at full health.
func NewThing(def *defs.ThingDef, stuff *defs.ThingDef) *Thing {
	t := &Thing{
		Def:        def,
		Stuff:      stuff,
		StackCount: 1,
	}
	t.HitPoints = t.MaxHitPoints()
	return t
}

// MaxHitPoints returns the def hit points scaled by the stuff factor.
func (t *Thing) MaxHitPoints() int {
	if t.Def == nil || !t.Def.UseHitPoints {
		return 0
	}
	hp := float64(t.Def.MaxHitPoints)
	if t.Stuff != nil && t.Stuff.StuffHPFactor > 0 {
		hp *= t.Stuff.StuffHPFactor
	}
	if hp < 1 {
		hp = 1
	}
	return int(math.Round(hp))
}

// Label returns a human readable name.
func (t *Thing) Label() string {
	if t.Def == nil {
		return "unknown"
	}
	label := t.Def.Label
	if label == "" {
		label = t.Def.Name
	}
	if t.Stuff != nil {
		stuff := t.Stuff.Label
		if stuff == "" {
			stuff = t.Stuff.Name
		}
		return stuff + " " + label
	}
	return label
}

// MarketValue returns the value of the whole stack.
func (t *Thing) MarketValue() float64 {
	if t.Def == nil {
		return 0
	}
	return t.Def.MarketValue * float64(t.StackCount)
}

// SetFaction assigns ownership when the def allows it.
func (t *Thing) SetFaction(f *faction.Faction) bool {
	if t.Def == nil || !t.Def.CanHaveFaction {
		return false
	}
	t.Faction = f
	return true
}

// Refuel adds fuel up to the def capacity.
func (t *Thing) Refuel(amount float64) {
	if t.Def == nil || t.Def.FuelCapacity <= 0 {
		return
	}
	t.Fuel = math.Min(t.Def.FuelCapacity, t.Fuel+amount)
}

// FreeSlots returns how many more items a storage container can hold.
func (t *Thing) FreeSlots() int {
	if t.Def == nil || t.Def.Storage == nil {
		return 0
	}
	free := t.Def.Storage.Slots - len(t.Contents)
	if free < 0 {
		return 0
	}
	return free
}

// Accepts reports whether a storage container takes the item.
func (t *Thing) Accepts(item *Thing) bool {
	if t.Def == nil || t.Def.Storage == nil || item == nil || item.Def == nil {
		return false
	}
	if t.FreeSlots() == 0 {
		return false
	}
	return t.Def.Storage.Accepts(item.Def.ItemGroup)
}

func (t *Thing) String() string {
	return fmt.Sprintf("%s#%d@%s", t.Label(), t.ID, t.Position)
}
