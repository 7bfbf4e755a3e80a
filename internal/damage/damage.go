// Package damage wears down a freshly placed wreck so it looks crashed.
//
// Both passes build their own *rand.Rand from the given seed: the same seed
// over the same things always gives the same result, and no other random
// stream is touched.
package damage

import (
	"math"
	"math/rand"

	"github.com/lawnchairsociety/gravshipcrashes/internal/geom"
	"github.com/lawnchairsociety/gravshipcrashes/internal/logger"
	"github.com/lawnchairsociety/gravshipcrashes/internal/tilemap"
)

const (
	// structureHitChance is the chance of a follow-up hit on a damaged structure.
	structureHitChance = 0.25
	// structureHitMin is the smallest follow-up hit.
	structureHitMin = 5.0
	// thingDestroyChance is the chance a damaged loose thing is destroyed.
	thingDestroyChance = 0.1
)

// Report summarises one pass.
type Report struct {
	Damaged   int
	Destroyed int
}

// ApplyStructureDamage damages buildings inside area.
func ApplyStructureDamage(m *tilemap.Map, area geom.CellRect, r geom.FloatRange, seed int64) Report {
	var rep Report
	if m == nil {
		return rep
	}
	rng := rand.New(rand.NewSource(seed))

	for _, t := range eligible(m, area, true) {
		fraction := r.RandomIn(rng)
		if rng.Float64() >= fraction {
			continue
		}
		reduce(t, fraction)
		rep.Damaged++

		if rng.Float64() < structureHitChance {
			amount := math.Max(structureHitMin, float64(t.MaxHitPoints())*fraction*0.5)
			if m.TakeDamage(t, amount) {
				rep.Destroyed++
			}
		}
	}

	logger.Debug("Structure damage applied", "damaged", rep.Damaged, "destroyed", rep.Destroyed, "seed", seed)
	return rep
}

// ApplyThingDamage damages every non-building thing inside area.
func ApplyThingDamage(m *tilemap.Map, area geom.CellRect, r geom.FloatRange, seed int64) Report {
	var rep Report
	if m == nil {
		return rep
	}
	rng := rand.New(rand.NewSource(seed))

	for _, t := range eligible(m, area, false) {
		fraction := r.RandomIn(rng)
		if rng.Float64() >= fraction {
			continue
		}
		reduce(t, fraction)
		rep.Damaged++

		if rng.Float64() < thingDestroyChance {
			m.Destroy(t)
			rep.Destroyed++
		}
	}

	logger.Debug("Thing damage applied", "damaged", rep.Damaged, "destroyed", rep.Destroyed, "seed", seed)
	return rep
}

// reduce drops hit points to the undamaged share of the maximum, never below 1.
func reduce(t *tilemap.Thing, fraction float64) {
	maxHP := t.MaxHitPoints()
	hp := int(math.Round(float64(maxHP) * (1 - fraction)))
	t.HitPoints = max(1, min(hp, maxHP))
}

// eligible snapshots the things in area that the pass may touch, in spawn order.
func eligible(m *tilemap.Map, area geom.CellRect, structures bool) []*tilemap.Thing {
	var out []*tilemap.Thing
	for _, t := range m.AllThings() {
		if t.Def == nil || !t.Def.UseHitPoints || t.Def.DamageExempt {
			continue
		}
		if t.Def.IsBuilding() != structures {
			continue
		}
		if !area.Contains(t.Position) {
			continue
		}
		out = append(out, t)
	}
	return out
}
