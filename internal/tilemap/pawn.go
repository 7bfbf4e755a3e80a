package tilemap

import (
	"strings"

	"github.com/lawnchairsociety/gravshipcrashes/internal/defs"
	"github.com/lawnchairsociety/gravshipcrashes/internal/faction"
	"github.com/lawnchairsociety/gravshipcrashes/internal/geom"
)

// Injury is one wound on a pawn.
type Injury struct {
	Kind     string
	BodyPart string
	Severity float64
}

// JobKind identifies what a pawn is currently doing.
type JobKind string

const (
	JobManTurret JobKind = "man_turret"
)

// Job is a pawn's current assignment.
type Job struct {
	Kind   JobKind
	Target *Thing
}

// DutyKind identifies a squad-level behaviour.
type DutyKind string

const (
	DutyDefendPoint DutyKind = "defend_point"
)

// Lord coordinates a group of pawns under one duty.
type Lord struct {
	Faction *faction.Faction
	Duty    DutyKind
	Point   geom.IntVec
	Radius  float64
	Pawns   []*Pawn
}

// AddPawn attaches a pawn to the lord.
func (l *Lord) AddPawn(p *Pawn) {
	l.Pawns = append(l.Pawns, p)
	p.Lord = l
}

// Pawn is an agent on the map.
type Pawn struct {
	ID                int
	Name              string
	Kind              *defs.PawnKindDef
	Faction           *faction.Faction
	Position          geom.IntVec
	BodyType          string
	CapableOfViolence bool
	CanManipulate     bool
	Weapon            *Thing
	Apparel           []*Thing
	Injuries          []Injury
	Job               *Job
	Lord              *Lord
	Spawned           bool
}

// Idle reports whether the pawn has no job.
func (p *Pawn) Idle() bool {
	return p.Job == nil
}

// CanWear reports whether the pawn can physically wear the garment and it does
// not clash with anything already worn.
func (p *Pawn) CanWear(def *defs.ThingDef) bool {
	if def == nil || def.Apparel == nil {
		return false
	}
	if len(def.Apparel.BodyTypes) > 0 && !containsFold(def.Apparel.BodyTypes, p.BodyType) {
		return false
	}
	for _, worn := range p.Apparel {
		if worn.Def.Apparel == nil {
			continue
		}
		if overlaps(worn.Def.Apparel.Layers, def.Apparel.Layers) &&
			overlaps(worn.Def.Apparel.BodyGroups, def.Apparel.BodyGroups) {
			return false
		}
	}
	return true
}

// Wear puts on a garment if allowed.
func (p *Pawn) Wear(t *Thing) bool {
	if !p.CanWear(t.Def) {
		return false
	}
	p.Apparel = append(p.Apparel, t)
	return true
}

// Equip sets the primary weapon.
func (p *Pawn) Equip(t *Thing) {
	p.Weapon = t
}

// AddInjury applies a wound.
func (p *Pawn) AddInjury(in Injury) {
	p.Injuries = append(p.Injuries, in)
}

func overlaps(a, b []string) bool {
	for _, x := range a {
		if containsFold(b, x) {
			return true
		}
	}
	return false
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
