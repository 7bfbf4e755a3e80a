package debris

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lawnchairsociety/gravshipcrashes/internal/defs"
	"github.com/lawnchairsociety/gravshipcrashes/internal/geom"
	"github.com/lawnchairsociety/gravshipcrashes/internal/loot"
	"github.com/lawnchairsociety/gravshipcrashes/internal/testutil"
	"github.com/lawnchairsociety/gravshipcrashes/internal/tilemap"
)

func TestMarkerCount(t *testing.T) {
	tests := []struct {
		area int
		want int
	}{
		{0, 6},
		{150, 6},
		{200, 8},
		{400, 16},
		{1000, 40},
		{10000, 40},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MarkerCount(tt.area), "area %d", tt.area)
	}
}

func TestScatterDebrisStaysInArea(t *testing.T) {
	reg := testutil.Registry(t)
	m := testutil.Map(t, reg, 40, 40)
	area := geom.CellRect{MinX: 10, MinZ: 10, MaxX: 29, MaxZ: 29}

	rep := New(reg).ScatterDebris(m, area, 17)

	assert.Equal(t, 16, rep.Markers)
	assert.Positive(t, rep.Filth)
	for _, th := range m.AllThings() {
		assert.Equal(t, defs.ThingFilthFuel, th.Def.Name)
		assert.True(t, area.Contains(th.Position))
		assert.LessOrEqual(t, th.StackCount, tilemap.MaxFilthThickness)
	}
	for _, f := range m.Fires() {
		assert.True(t, area.Contains(f.Position))
		assert.GreaterOrEqual(t, f.Size, 0.05)
		assert.LessOrEqual(t, f.Size, 0.2)
	}
	assert.Len(t, m.Fires(), rep.Fires)
}

func TestScatterDebrisIsDeterministic(t *testing.T) {
	reg := testutil.Registry(t)
	area := geom.CellRect{MinX: 0, MinZ: 0, MaxX: 29, MaxZ: 29}

	run := func() ([]geom.IntVec, ScatterReport) {
		m := testutil.Map(t, reg, 30, 30)
		rep := New(reg).ScatterDebris(m, area, 1234)
		var cells []geom.IntVec
		for _, f := range m.Fires() {
			cells = append(cells, f.Position)
		}
		return cells, rep
	}
	a, repA := run()
	b, repB := run()
	assert.Equal(t, repA, repB)
	assert.Equal(t, a, b)
}

func TestScatterDebrisRainedOut(t *testing.T) {
	reg := testutil.Registry(t)
	m := testutil.Map(t, reg, 40, 40)
	m.RainRate = 1

	rep := New(reg).ScatterDebris(m, geom.CellRect{MinX: 5, MinZ: 5, MaxX: 34, MaxZ: 34}, 5)

	assert.Zero(t, rep.Fires)
	assert.Empty(t, m.Fires())
	assert.Positive(t, rep.Filth)
}

func TestScatterDebrisSkipsBlockedCells(t *testing.T) {
	reg := testutil.Registry(t)
	m := testutil.Map(t, reg, 20, 20)
	area := geom.CellRect{MinX: 2, MinZ: 2, MaxX: 4, MaxZ: 4}
	for _, c := range area.Cells() {
		_, err := m.Spawn(testutil.Thing(t, reg, "Wall", "Steel"), c, geom.North)
		require.NoError(t, err)
	}

	rep := New(reg).ScatterDebris(m, area, 9)
	assert.Equal(t, 6, rep.Markers)
	assert.Zero(t, rep.Filth)
	assert.Zero(t, rep.Fires)
}

func steelSource(t *testing.T, reg *defs.Registry, n int) loot.Source {
	return loot.SourceFunc(func(*rand.Rand, loot.Params) []*tilemap.Thing {
		items := make([]*tilemap.Thing, n)
		for i := range items {
			items[i] = testutil.Thing(t, reg, "Steel", "")
		}
		return items
	})
}

func TestSpawnLootFillsStorageFirst(t *testing.T) {
	reg := testutil.Registry(t)
	m := testutil.Map(t, reg, 40, 40)
	area := geom.CellRect{MinX: 10, MinZ: 10, MaxX: 29, MaxZ: 29}
	shelf, err := m.Spawn(testutil.Thing(t, reg, "Shelf", "Steel"), geom.IntVec{X: 15, Z: 15}, geom.North)
	require.NoError(t, err)

	rep := New(reg).SpawnLoot(m, area, 3, steelSource(t, reg, 5))

	assert.Equal(t, 3, rep.Stored)
	assert.Equal(t, 2, rep.Dropped)
	assert.Zero(t, rep.Lost)
	assert.Len(t, shelf.Contents, 3)
	assert.Zero(t, shelf.FreeSlots())

	onGround := 0
	for _, th := range m.AllThings() {
		if th.Def.Name == "Steel" {
			onGround++
		}
	}
	assert.Equal(t, 2, onGround)
}

func TestSpawnLootRespectsFilters(t *testing.T) {
	reg := testutil.Registry(t)
	shelfDef, ok := reg.Thing("Shelf")
	require.True(t, ok)
	shelfDef.Storage.Accept = []string{"weapons"}

	m := testutil.Map(t, reg, 40, 40)
	area := geom.CellRect{MinX: 10, MinZ: 10, MaxX: 29, MaxZ: 29}
	shelf, err := m.Spawn(testutil.Thing(t, reg, "Shelf", ""), geom.IntVec{X: 12, Z: 12}, geom.North)
	require.NoError(t, err)

	rep := New(reg).SpawnLoot(m, area, 3, steelSource(t, reg, 4))

	assert.Zero(t, rep.Stored)
	assert.Equal(t, 4, rep.Dropped)
	assert.Empty(t, shelf.Contents)
}

func TestSpawnLootIgnoresStorageOutsideArea(t *testing.T) {
	reg := testutil.Registry(t)
	m := testutil.Map(t, reg, 40, 40)
	area := geom.CellRect{MinX: 10, MinZ: 10, MaxX: 19, MaxZ: 19}
	outside, err := m.Spawn(testutil.Thing(t, reg, "Shelf", ""), geom.IntVec{X: 35, Z: 35}, geom.North)
	require.NoError(t, err)

	rep := New(reg).SpawnLoot(m, area, 3, steelSource(t, reg, 2))

	assert.Equal(t, 2, rep.Dropped)
	assert.Empty(t, outside.Contents)
}

func TestSpawnLootOffMapAreaSnapsToCenter(t *testing.T) {
	reg := testutil.Registry(t)
	m := testutil.Map(t, reg, 20, 20)
	area := geom.CellRect{MinX: 100, MinZ: 100, MaxX: 110, MaxZ: 110}

	rep := New(reg).SpawnLoot(m, area, 3, steelSource(t, reg, 1))

	require.Equal(t, 1, rep.Dropped)
	items := m.AllThings()
	require.Len(t, items, 1)
	assert.Equal(t, m.Center(), items[0].Position)
}

func TestSpawnLootFromTable(t *testing.T) {
	reg := testutil.Registry(t)
	table, ok := loot.FromRegistry(reg, defs.LootTableCrashLoot)
	require.True(t, ok)
	m := testutil.Map(t, reg, 40, 40)

	rep := New(reg).SpawnLoot(m, geom.CellRect{MinX: 5, MinZ: 5, MaxX: 34, MaxZ: 34}, 77, table)
	assert.Positive(t, rep.Dropped)
	assert.Equal(t, rep.Dropped, len(m.AllThings()))
}

func TestRemoveGravEngines(t *testing.T) {
	reg := testutil.Registry(t)
	m := testutil.Map(t, reg, 40, 40)
	inside := geom.IntVec{X: 5, Z: 5}
	elsewhere := geom.IntVec{X: 30, Z: 30}
	for _, c := range []geom.IntVec{inside, elsewhere} {
		_, err := m.Spawn(testutil.Thing(t, reg, "ShipGravEngine", ""), c, geom.North)
		require.NoError(t, err)
	}

	removed := New(reg).RemoveGravEngines(m, []geom.IntVec{inside, {X: 6, Z: 6}}, rand.New(rand.NewSource(1)))

	assert.Equal(t, 2, removed)
	for _, c := range []geom.IntVec{inside, elsewhere} {
		things := m.ThingsAt(c)
		require.Len(t, things, 1)
		assert.Equal(t, defs.ThingSlag, things[0].Def.Name)
	}
	assert.Len(t, m.Fires(), 2)
}

func TestRemoveGravEnginesInRain(t *testing.T) {
	reg := testutil.Registry(t)
	m := testutil.Map(t, reg, 20, 20)
	m.RainRate = 0.8
	_, err := m.Spawn(testutil.Thing(t, reg, "ShipGravEngine", ""), geom.IntVec{X: 4, Z: 4}, geom.North)
	require.NoError(t, err)

	assert.Equal(t, 1, New(reg).RemoveGravEngines(m, nil, rand.New(rand.NewSource(1))))
	assert.Empty(t, m.Fires())
	assert.Zero(t, New(reg).RemoveGravEngines(nil, nil, nil))
}
