// Package defenders populates a crash site with the surviving hostile crew.
package defenders

import (
	"math"
	"math/rand"

	"github.com/zyedidia/generic/mapset"

	"github.com/lawnchairsociety/gravshipcrashes/internal/config"
	"github.com/lawnchairsociety/gravshipcrashes/internal/defs"
	"github.com/lawnchairsociety/gravshipcrashes/internal/faction"
	"github.com/lawnchairsociety/gravshipcrashes/internal/geom"
	"github.com/lawnchairsociety/gravshipcrashes/internal/layout"
	"github.com/lawnchairsociety/gravshipcrashes/internal/logger"
	"github.com/lawnchairsociety/gravshipcrashes/internal/tilemap"
)

const (
	// cellsPerDefender sets the area fallback headcount.
	cellsPerDefender = 20
	// maxApparel is how many garments a defender may start with.
	maxApparel = 3
	// fallbackRadius bounds the search once the area runs out of cells.
	fallbackRadius = 10
	// minInjuryFraction keeps every defender at least slightly hurt.
	minInjuryFraction = 0.05
	injuryKind        = "Cut"
)

var (
	woundSeverity = geom.FloatRange{Min: 0.05, Max: 0.2}
	bodyParts     = []string{"Torso", "Left arm", "Right arm", "Left leg", "Right leg", "Head", "Neck"}
)

// Spawner generates, equips and places defenders.
type Spawner struct {
	defs *defs.Registry
	gen  PawnGenerator
}

// New creates a spawner. A nil generator falls back to KindGenerator.
func New(registry *defs.Registry, gen PawnGenerator) *Spawner {
	if gen == nil {
		gen = KindGenerator{}
	}
	return &Spawner{defs: registry, gen: gen}
}

// RawHeadcount derives the crew size from the layout: one per bed, else one per
// seat, else one per 20 cells of layout area (at least one). Matching is a
// case-insensitive substring test on def names and can misfire on odd names.
// Without a layout the area size is used.
func RawHeadcount(l *layout.ShipLayout, area geom.CellRect) int {
	if l != nil {
		if beds := l.CountBeds(); beds > 0 {
			return beds
		}
		if seats := l.CountSeats(); seats > 0 {
			return seats
		}
		return max(1, l.Area()/cellsPerDefender)
	}
	return max(1, area.Area()/cellsPerDefender)
}

// Headcount caps RawHeadcount at maxDefenders.
func Headcount(l *layout.ShipLayout, area geom.CellRect, maxDefenders int) int {
	if maxDefenders <= 0 {
		return 0
	}
	return min(RawHeadcount(l, area), maxDefenders)
}

// Spawn generates the crew for area, spawns them and, when the wreck has
// mortars, mans each one and sets the group to defend the site.
func (s *Spawner) Spawn(m *tilemap.Map, area geom.CellRect, settings *config.Settings, l *layout.ShipLayout, f *faction.Faction, placed []*tilemap.Thing, seed int64) []*tilemap.Pawn {
	if m == nil {
		return nil
	}
	if f == nil {
		logger.Warning("No defender faction, skipping defenders")
		return nil
	}
	if settings == nil {
		settings = config.DefaultConfig()
	}

	kind, ok := s.pawnKind(f)
	if !ok {
		logger.Warning("No pawn kind for defender faction, skipping defenders", "faction", f.DefName)
		return nil
	}

	rng := rand.New(rand.NewSource(seed))
	count := Headcount(l, area, settings.MaxDefenders)
	logger.Debug("Generating defenders", "count", count, "max", settings.MaxDefenders)

	weapons := s.defs.Weapons(defs.TechIndustrial)
	apparel := s.defs.Apparel()

	var pawns []*tilemap.Pawn
	for i := 0; i < count; i++ {
		p, err := s.gen.Generate(Request{
			Kind:                    kind,
			Faction:                 f,
			Tile:                    m.Tile,
			MustBeCapableOfViolence: true,
		}, rng)
		if err != nil || p == nil {
			logger.Warning("Defender generation failed", "error", err)
			continue
		}
		p.Faction = f
		equip(p, weapons, apparel, rng)
		injure(p, settings.PawnInjurySeverity, rng)
		pawns = append(pawns, p)
	}

	s.place(m, area, pawns, rng)

	if len(pawns) > 0 {
		if mortars := unmannedMortars(placed); len(mortars) > 0 {
			manned := manMortars(mortars, pawns)
			lord := &tilemap.Lord{
				Faction: f,
				Duty:    tilemap.DutyDefendPoint,
				Point:   area.CenterCell(),
				Radius:  float64(max(area.Width(), area.Height())) / 2,
			}
			for _, p := range pawns {
				lord.AddPawn(p)
			}
			m.AddLord(lord)
			logger.Debug("Defenders set to defend the wreck", "mortars", len(mortars), "manned", manned)
		}
	}

	logger.Info("Defenders spawned", "count", len(pawns), "faction", f.Name)
	return pawns
}

// pawnKind returns the first resolvable pawn kind of the faction def.
func (s *Spawner) pawnKind(f *faction.Faction) (*defs.PawnKindDef, bool) {
	def, ok := s.defs.Faction(f.DefName)
	if !ok {
		return nil, false
	}
	for _, name := range def.PawnKinds {
		if kind, ok := s.defs.PawnKind(name); ok {
			return kind, true
		}
	}
	return nil, false
}

// equip hands out one weapon and up to maxApparel compatible garments.
func equip(p *tilemap.Pawn, weapons, apparel []*defs.ThingDef, rng *rand.Rand) {
	if len(weapons) > 0 {
		p.Equip(tilemap.NewThing(weapons[rng.Intn(len(weapons))], nil))
	}

	order := rng.Perm(len(apparel))
	for _, i := range order {
		if len(p.Apparel) >= maxApparel {
			break
		}
		def := apparel[i]
		if !p.CanWear(def) {
			continue
		}
		p.Wear(tilemap.NewThing(def, nil))
	}
}

// injure applies 1-3 light wounds scaled by a fraction drawn from severity.
func injure(p *tilemap.Pawn, severity geom.FloatRange, rng *rand.Rand) {
	fraction := math.Max(minInjuryFraction, geom.Clamp01(severity.RandomIn(rng)))
	wounds := 1 + int(math.Round(fraction*2))

	for i := 0; i < wounds; i++ {
		p.AddInjury(tilemap.Injury{
			Kind:     injuryKind,
			BodyPart: bodyParts[rng.Intn(len(bodyParts))],
			Severity: woundSeverity.RandomIn(rng) * fraction,
		})
	}
}

// place spawns each pawn on its own standable area cell, falling back to a
// walkable cell near the area centre once those run out.
func (s *Spawner) place(m *tilemap.Map, area geom.CellRect, pawns []*tilemap.Pawn, rng *rand.Rand) {
	var cells []geom.IntVec
	for _, c := range area.Cells() {
		if m.InBounds(c) && m.Standable(c) {
			cells = append(cells, c)
		}
	}
	rng.Shuffle(len(cells), func(i, j int) { cells[i], cells[j] = cells[j], cells[i] })

	used := mapset.New[geom.IntVec]()
	for _, p := range pawns {
		var cell geom.IntVec
		if len(cells) > 0 {
			cell = cells[len(cells)-1]
			cells = cells[:len(cells)-1]
		} else {
			cell = m.ClosewalkCellNear(area.CenterCell(), fallbackRadius, rng)
		}
		if err := m.SpawnPawn(p, cell); err != nil {
			logger.Warning("Failed to place defender", "pawn", p.Name, "cell", cell, "error", err)
			continue
		}
		used.Put(cell)
	}
	logger.Debug("Defenders placed", "cells", used.Size(), "pawns", len(pawns))
}

func unmannedMortars(placed []*tilemap.Thing) []*tilemap.Thing {
	var out []*tilemap.Thing
	for _, t := range placed {
		if t == nil || t.Destroyed || t.Def == nil || !t.Def.Mortar {
			continue
		}
		if t.MannedBy == nil {
			out = append(out, t)
		}
	}
	return out
}

// manMortars assigns one idle, manipulation-capable pawn to each mortar.
func manMortars(mortars []*tilemap.Thing, pawns []*tilemap.Pawn) int {
	manned := 0
	for _, mortar := range mortars {
		for _, p := range pawns {
			if !p.Idle() || !p.CanManipulate {
				continue
			}
			p.Job = &tilemap.Job{Kind: tilemap.JobManTurret, Target: mortar}
			mortar.MannedBy = p
			manned++
			break
		}
	}
	return manned
}
