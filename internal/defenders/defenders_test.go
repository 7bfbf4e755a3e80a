package defenders

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lawnchairsociety/gravshipcrashes/internal/config"
	"github.com/lawnchairsociety/gravshipcrashes/internal/defs"
	"github.com/lawnchairsociety/gravshipcrashes/internal/faction"
	"github.com/lawnchairsociety/gravshipcrashes/internal/geom"
	"github.com/lawnchairsociety/gravshipcrashes/internal/layout"
	"github.com/lawnchairsociety/gravshipcrashes/internal/testutil"
	"github.com/lawnchairsociety/gravshipcrashes/internal/tilemap"
)

// layoutWith builds a one-row layout of the given size holding the named objects.
func layoutWith(width, height int, objects ...string) *layout.ShipLayout {
	row := make([]*layout.Cell, 0, len(objects))
	for _, o := range objects {
		row = append(row, &layout.Cell{Objects: []layout.ObjectEntry{{Def: o}}})
	}
	return &layout.ShipLayout{Name: "Test", Width: width, Height: height, Rows: [][]*layout.Cell{row}, EngineX: -1, EngineZ: -1}
}

func repeat(name string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = name
	}
	return out
}

func TestRawHeadcount(t *testing.T) {
	area := geom.CellRect{MinX: 0, MinZ: 0, MaxX: 9, MaxZ: 9}

	tests := []struct {
		name   string
		layout *layout.ShipLayout
		want   int
	}{
		{"beds win over seats", layoutWith(10, 10, append(repeat("Bed", 3), repeat("PilotSeat", 10)...)...), 3},
		{"case-insensitive beds", layoutWith(10, 10, "DoubleBED", "bedroll"), 2},
		{"seats, chairs and benches", layoutWith(10, 10, "DiningChair", "PilotSeat", "ParkBench", "Lamp"), 3},
		{"area fallback", layoutWith(10, 20, "Wall", "Lamp"), 10},
		{"area fallback floor", layoutWith(3, 3), 1},
		{"no layout uses area", nil, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RawHeadcount(tt.layout, area))
		})
	}
}

func TestHeadcountCap(t *testing.T) {
	l := layoutWith(10, 10, repeat("Bed", 8)...)
	area := geom.CellRect{MaxX: 9, MaxZ: 9}

	assert.Equal(t, 6, Headcount(l, area, 6))
	assert.Equal(t, 8, Headcount(l, area, 20))
	assert.Zero(t, Headcount(l, area, 0))
}

type fixture struct {
	reg     *defs.Registry
	m       *tilemap.Map
	area    geom.CellRect
	faction *faction.Faction
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	reg := testutil.Registry(t)
	f, err := testutil.Session(reg).Hostile()
	require.NoError(t, err)
	return fixture{
		reg:     reg,
		m:       testutil.Map(t, reg, 40, 40),
		area:    geom.CellRect{MinX: 10, MinZ: 10, MaxX: 29, MaxZ: 29},
		faction: f,
	}
}

func TestSpawnEquipsAndPlacesDefenders(t *testing.T) {
	fx := newFixture(t)
	l := layoutWith(10, 10, repeat("Bed", 4)...)

	pawns := New(fx.reg, nil).Spawn(fx.m, fx.area, config.DefaultConfig(), l, fx.faction, nil, 21)

	require.Len(t, pawns, 4)
	seen := map[geom.IntVec]bool{}
	for _, p := range pawns {
		assert.True(t, p.Spawned)
		assert.Equal(t, fx.faction, p.Faction)
		assert.True(t, p.CapableOfViolence)
		assert.True(t, fx.area.Contains(p.Position), "%s outside area", p.Name)
		assert.False(t, seen[p.Position], "two defenders share %s", p.Position)
		seen[p.Position] = true

		require.NotNil(t, p.Weapon)
		assert.GreaterOrEqual(t, p.Weapon.Def.TechLevel(), defs.TechIndustrial)

		assert.LessOrEqual(t, len(p.Apparel), 3)
		for _, a := range p.Apparel {
			assert.NotEqual(t, "Apparel_ThrumboHelmet", a.Def.Name, "body type restriction ignored")
		}

		assert.GreaterOrEqual(t, len(p.Injuries), 1)
		assert.LessOrEqual(t, len(p.Injuries), 3)
		for _, in := range p.Injuries {
			assert.Positive(t, in.Severity)
			assert.LessOrEqual(t, in.Severity, 0.2)
		}
	}
	assert.Len(t, fx.m.Pawns(), 4)
	assert.Empty(t, fx.m.Lords(), "no mortars, no lord")
}

func TestSpawnIsDeterministic(t *testing.T) {
	run := func() []string {
		fx := newFixture(t)
		pawns := New(fx.reg, nil).Spawn(fx.m, fx.area, config.DefaultConfig(), layoutWith(10, 10, "Bed", "Bed"), fx.faction, nil, 5)
		var out []string
		for _, p := range pawns {
			out = append(out, p.Name+"@"+p.Position.String()+"/"+p.Weapon.Def.Name)
		}
		return out
	}
	assert.Equal(t, run(), run())
}

func TestSpawnWithoutFaction(t *testing.T) {
	fx := newFixture(t)
	pawns := New(fx.reg, nil).Spawn(fx.m, fx.area, nil, nil, nil, nil, 1)
	assert.Nil(t, pawns)
	assert.Empty(t, fx.m.Pawns())
}

func TestSpawnCappedBySettings(t *testing.T) {
	fx := newFixture(t)
	settings := config.DefaultConfig()
	settings.MaxDefenders = 2

	pawns := New(fx.reg, nil).Spawn(fx.m, fx.area, settings, layoutWith(10, 10, repeat("Bed", 9)...), fx.faction, nil, 1)
	assert.Len(t, pawns, 2)
}

func TestSpawnFallsBackOutsideBlockedArea(t *testing.T) {
	fx := newFixture(t)
	area := geom.CellRect{MinX: 5, MinZ: 5, MaxX: 7, MaxZ: 7}
	for _, c := range area.Cells() {
		_, err := fx.m.Spawn(testutil.Thing(t, fx.reg, "Wall", ""), c, geom.North)
		require.NoError(t, err)
	}

	pawns := New(fx.reg, nil).Spawn(fx.m, area, nil, nil, fx.faction, nil, 3)

	require.Len(t, pawns, 1)
	assert.True(t, pawns[0].Spawned)
	assert.False(t, area.Contains(pawns[0].Position))
	assert.True(t, fx.m.Standable(pawns[0].Position))
}

func TestSpawnMansMortars(t *testing.T) {
	fx := newFixture(t)
	var placed []*tilemap.Thing
	for _, c := range []geom.IntVec{{X: 12, Z: 12}, {X: 14, Z: 12}} {
		mortar, err := fx.m.Spawn(testutil.Thing(t, fx.reg, "Mortar", ""), c, geom.North)
		require.NoError(t, err)
		placed = append(placed, mortar)
	}
	wall, err := fx.m.Spawn(testutil.Thing(t, fx.reg, "Wall", ""), geom.IntVec{X: 16, Z: 12}, geom.North)
	require.NoError(t, err)
	placed = append(placed, wall)

	pawns := New(fx.reg, nil).Spawn(fx.m, fx.area, nil, layoutWith(10, 10, repeat("Bed", 3)...), fx.faction, placed, 8)
	require.Len(t, pawns, 3)

	crew := map[*tilemap.Pawn]bool{}
	for _, mortar := range placed[:2] {
		require.NotNil(t, mortar.MannedBy)
		assert.False(t, crew[mortar.MannedBy], "one pawn manning two mortars")
		crew[mortar.MannedBy] = true
		assert.Equal(t, tilemap.JobManTurret, mortar.MannedBy.Job.Kind)
		assert.Same(t, mortar, mortar.MannedBy.Job.Target)
	}
	assert.Nil(t, wall.MannedBy)

	lords := fx.m.Lords()
	require.Len(t, lords, 1)
	assert.Equal(t, tilemap.DutyDefendPoint, lords[0].Duty)
	assert.Len(t, lords[0].Pawns, 3)
	assert.Equal(t, fx.area.CenterCell(), lords[0].Point)
	for _, p := range pawns {
		assert.Same(t, lords[0], p.Lord)
	}
}

type flakyGenerator struct {
	calls    int
	requests []Request
}

func (g *flakyGenerator) Generate(req Request, rng *rand.Rand) (*tilemap.Pawn, error) {
	g.calls++
	g.requests = append(g.requests, req)
	if g.calls%2 == 0 {
		return nil, errors.New("generator hiccup")
	}
	return KindGenerator{}.Generate(req, rng)
}

func TestSpawnSkipsFailedGeneration(t *testing.T) {
	fx := newFixture(t)
	gen := &flakyGenerator{}

	pawns := New(fx.reg, gen).Spawn(fx.m, fx.area, nil, layoutWith(10, 10, repeat("Bed", 4)...), fx.faction, nil, 2)

	assert.Equal(t, 4, gen.calls)
	assert.Len(t, pawns, 2)
	for _, req := range gen.requests {
		assert.True(t, req.MustBeCapableOfViolence)
		assert.Equal(t, fx.faction, req.Faction)
		assert.Equal(t, "Gravship_Crew", req.Kind.Name)
	}
}

func TestKindGenerator(t *testing.T) {
	reg := testutil.Registry(t)
	kind, ok := reg.PawnKind("Gravship_Crew")
	require.True(t, ok)

	_, err := KindGenerator{}.Generate(Request{}, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrNoPawnKind)

	pacifist := *kind
	pacifist.IncapableOfViolenceChance = 1
	p, err := KindGenerator{}.Generate(Request{Kind: &pacifist}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.False(t, p.CapableOfViolence)

	p, err = KindGenerator{}.Generate(Request{Kind: &pacifist, MustBeCapableOfViolence: true}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.True(t, p.CapableOfViolence)
	assert.Contains(t, kind.BodyTypes, p.BodyType)

	first := strings.Fields(p.Name)[0]
	assert.Contains(t, kind.Names, first)
}
