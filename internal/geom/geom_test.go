package geom

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRot4(t *testing.T) {
	assert.Equal(t, North, NewRot4(0))
	assert.Equal(t, West, NewRot4(-1))
	assert.Equal(t, South, NewRot4(6))
	assert.Equal(t, "east", East.String())
}

func TestCenteredOn(t *testing.T) {
	r := CenteredOn(IntVec{X: 50, Z: 50}, 30, 30)

	assert.Equal(t, CellRect{MinX: 35, MinZ: 35, MaxX: 64, MaxZ: 64}, r)
	assert.Equal(t, 30, r.Width())
	assert.Equal(t, IntVec{X: 50, Z: 50}, r.CenterCell())
}

func TestCellRectEmpty(t *testing.T) {
	r := CellRect{MinX: 3, MinZ: 3, MaxX: 2, MaxZ: 5}

	assert.True(t, r.IsEmpty())
	assert.Zero(t, r.Area())
	assert.Nil(t, r.Cells())
	assert.Nil(t, r.EdgeCells())
	assert.Equal(t, Invalid, r.RandomCell(rand.New(rand.NewSource(1))))
	assert.Equal(t, r, r.ExpandedBy(2))
}

func TestCellRectClipAndExpand(t *testing.T) {
	r := CellRect{MinX: -4, MinZ: 2, MaxX: 5, MaxZ: 12}

	assert.Equal(t, CellRect{MinX: 0, MinZ: 2, MaxX: 5, MaxZ: 9}, r.ClipTo(10, 10))
	assert.Equal(t, CellRect{MinX: -5, MinZ: 1, MaxX: 6, MaxZ: 13}, r.ExpandedBy(1))
}

func TestEdgeCells(t *testing.T) {
	tests := []struct {
		name string
		rect CellRect
		want int
	}{
		{"single", CellRect{MaxX: 0, MaxZ: 0}, 1},
		{"row", CellRect{MaxX: 4, MaxZ: 0}, 5},
		{"column", CellRect{MaxX: 0, MaxZ: 3}, 4},
		{"square", CellRect{MaxX: 29, MaxZ: 29}, 116},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edges := tt.rect.EdgeCells()
			assert.Len(t, edges, tt.want)

			seen := make(map[IntVec]bool)
			for _, c := range edges {
				assert.False(t, seen[c], "duplicate %s", c)
				seen[c] = true
				assert.True(t, tt.rect.IsEdge(c))
			}
		})
	}
}

func TestRandomCellInside(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	r := CellRect{MinX: 2, MinZ: 7, MaxX: 4, MaxZ: 8}
	for i := 0; i < 50; i++ {
		assert.True(t, r.Contains(r.RandomCell(rng)))
	}
}

func TestRanges(t *testing.T) {
	rng := rand.New(rand.NewSource(9))

	assert.Equal(t, 0.4, FloatRange{Min: 0.4, Max: 0.1}.RandomIn(rng))
	assert.Equal(t, 12, IntRange{Min: 12, Max: 12}.RandomIn(rng))

	for i := 0; i < 100; i++ {
		v := IntRange{Min: 12, Max: 20}.RandomIn(rng)
		assert.GreaterOrEqual(t, v, 12)
		assert.LessOrEqual(t, v, 20)

		f := FloatRange{Min: 0.1, Max: 0.5}.RandomIn(rng)
		assert.GreaterOrEqual(t, f, 0.1)
		assert.Less(t, f, 0.5)
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 50, Clamp(99, 0, 50))
	assert.Equal(t, 0, Clamp(-1, 0, 50))
	assert.Equal(t, 1.0, Clamp01(3))
	assert.Equal(t, 0.0, Clamp01(-0.2))
	assert.Equal(t, 0.3, Clamp01(0.3))
}
