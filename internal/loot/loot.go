// Package loot generates market-value-bounded item sets from weighted tables.
package loot

import (
	"math"
	"math/rand"

	"github.com/lawnchairsociety/gravshipcrashes/internal/defs"
	"github.com/lawnchairsociety/gravshipcrashes/internal/geom"
	"github.com/lawnchairsociety/gravshipcrashes/internal/logger"
	"github.com/lawnchairsociety/gravshipcrashes/internal/tilemap"
)

// maxPicks bounds the draws made for one set.
const maxPicks = 40

// Params bounds one generated set.
type Params struct {
	// Value is the total market value range of the set.
	Value geom.FloatRange
	// Tech is the highest tech level allowed.
	Tech defs.TechLevel
}

// Source produces loot sets.
type Source interface {
	Generate(rng *rand.Rand, p Params) []*tilemap.Thing
}

// SourceFunc adapts a function to Source.
type SourceFunc func(rng *rand.Rand, p Params) []*tilemap.Thing

// Generate calls f.
func (f SourceFunc) Generate(rng *rand.Rand, p Params) []*tilemap.Thing {
	return f(rng, p)
}

type entry struct {
	def      *defs.ThingDef
	weight   float64
	minCount int
	maxCount int
}

// Table is a resolved loot table.
type Table struct {
	Name    string
	entries []entry
}

// NewTable resolves every entry of def against the registry. Entries naming an
// unknown thing, with no weight or with no market value are dropped.
func NewTable(reg *defs.Registry, def *defs.LootTableDef) *Table {
	t := &Table{Name: def.Name}
	for _, e := range def.Entries {
		thing, ok := reg.Thing(e.Thing)
		if !ok {
			logger.Warning("Loot table entry names unknown thing", "table", def.Name, "thing", e.Thing)
			continue
		}
		if e.Weight <= 0 {
			continue
		}
		if thing.MarketValue <= 0 {
			logger.Warning("Loot table entry has no market value", "table", def.Name, "thing", e.Thing)
			continue
		}
		minCount := max(1, e.MinCount)
		maxCount := max(minCount, e.MaxCount)
		t.entries = append(t.entries, entry{def: thing, weight: e.Weight, minCount: minCount, maxCount: maxCount})
	}
	return t
}

// FromRegistry looks up and resolves a named table.
func FromRegistry(reg *defs.Registry, name string) (*Table, bool) {
	def, ok := reg.LootTable(name)
	if !ok {
		return nil, false
	}
	return NewTable(reg, def), true
}

// Len returns the number of usable entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Generate draws entries at or below the tech level until the drawn value
// reaches a target picked from p.Value. The set never exceeds p.Value.Max.
func (t *Table) Generate(rng *rand.Rand, p Params) []*tilemap.Thing {
	candidates := t.allowed(p.Tech)
	if len(candidates) == 0 {
		return nil
	}

	target := p.Value.RandomIn(rng)
	var out []*tilemap.Thing
	total := 0.0

	for picks := 0; picks < maxPicks && total < target; picks++ {
		e := pickWeighted(candidates, rng)
		count := e.minCount + rng.Intn(e.maxCount-e.minCount+1)
		unit := e.def.MarketValue

		if unit > 0 && total+unit*float64(count) > p.Value.Max {
			count = int(math.Floor((p.Value.Max - total) / unit))
			if count < 1 {
				continue
			}
		}

		item := tilemap.NewThing(e.def, nil)
		item.StackCount = count
		out = append(out, item)
		total += unit * float64(count)
	}

	logger.Debug("Loot generated", "table", t.Name, "items", len(out), "value", total, "target", target)
	return out
}

func (t *Table) allowed(tech defs.TechLevel) []entry {
	var out []entry
	for _, e := range t.entries {
		level := e.def.TechLevel()
		if level == defs.TechUndefined || tech == defs.TechUndefined || level <= tech {
			out = append(out, e)
		}
	}
	return out
}

func pickWeighted(entries []entry, rng *rand.Rand) entry {
	total := 0.0
	for _, e := range entries {
		total += e.weight
	}
	roll := rng.Float64() * total
	for _, e := range entries {
		roll -= e.weight
		if roll < 0 {
			return e
		}
	}
	return entries[len(entries)-1]
}
