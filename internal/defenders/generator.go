package defenders

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/lawnchairsociety/gravshipcrashes/internal/defs"
	"github.com/lawnchairsociety/gravshipcrashes/internal/faction"
	"github.com/lawnchairsociety/gravshipcrashes/internal/tilemap"
)

// ErrNoPawnKind is returned when a request carries no pawn kind.
var ErrNoPawnKind = errors.New("no pawn kind")

// defaultBodyType is used for kinds that list no body types.
const defaultBodyType = "Male"

// Request describes one agent to generate.
type Request struct {
	Kind                    *defs.PawnKindDef
	Faction                 *faction.Faction
	Tile                    int
	MustBeCapableOfViolence bool
}

// PawnGenerator produces configured agents.
type PawnGenerator interface {
	Generate(req Request, rng *rand.Rand) (*tilemap.Pawn, error)
}

// KindGenerator builds pawns straight from their pawn kind def.
type KindGenerator struct{}

// Generate rolls name, body type and capabilities from the kind.
func (KindGenerator) Generate(req Request, rng *rand.Rand) (*tilemap.Pawn, error) {
	kind := req.Kind
	if kind == nil {
		return nil, ErrNoPawnKind
	}

	name := kind.Label
	if len(kind.Names) > 0 {
		name = kind.Names[rng.Intn(len(kind.Names))]
	}
	if name == "" {
		name = kind.Name
	}

	body := defaultBodyType
	if len(kind.BodyTypes) > 0 {
		body = kind.BodyTypes[rng.Intn(len(kind.BodyTypes))]
	}

	violent := rng.Float64() >= kind.IncapableOfViolenceChance
	if req.MustBeCapableOfViolence {
		violent = true
	}

	return &tilemap.Pawn{
		Name:              fmt.Sprintf("%s %d", name, 1+rng.Intn(99)),
		Kind:              kind,
		Faction:           req.Faction,
		BodyType:          body,
		CapableOfViolence: violent,
		CanManipulate:     rng.Float64() >= kind.NoManipulationChance,
	}, nil
}
