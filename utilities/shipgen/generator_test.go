package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lawnchairsociety/gravshipcrashes/internal/layout"
	"github.com/lawnchairsociety/gravshipcrashes/internal/testutil"
)

func TestGenerateBuildsValidLayouts(t *testing.T) {
	gen := NewShipGenerator(7, 7, 15)

	for i := 0; i < 20; i++ {
		raw := gen.Generate("Test")
		l, err := raw.Build()
		require.NoError(t, err)

		assert.GreaterOrEqual(t, l.Width, 7)
		assert.LessOrEqual(t, l.Width, 15)
		assert.GreaterOrEqual(t, l.Height, 7)
		assert.GreaterOrEqual(t, l.CountBeds(), 1)
		assert.Equal(t, 2, l.CountSeats())

		require.True(t, l.HasEngineMarker())
		engine := l.CellAt(l.EngineX, l.EngineZ)
		require.NotNil(t, engine)
		assert.Equal(t, "ShipGravEngine", engine.Objects[0].Def)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := NewShipGenerator(3, 9, 21).Generate("A")
	b := NewShipGenerator(3, 9, 21).Generate("A")
	assert.Equal(t, a.Grid, b.Grid)
}

func TestGeneratedLayoutsOnlyNeedKnownDefs(t *testing.T) {
	reg := testutil.Registry(t)
	l, err := NewShipGenerator(1, 9, 9).Generate("Known").Build()
	require.NoError(t, err)

	// The hull foundation is optional content and falls back to metal tile.
	assert.Equal(t, []string{"terrain Substructure"}, l.MissingDefs(reg))
}

func TestWriteLayoutYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Written.yaml")
	raw := NewShipGenerator(5, 9, 12).Generate("Written")

	require.NoError(t, WriteLayoutYAML(raw, path))

	l, err := layout.LoadFromYAML(path)
	require.NoError(t, err)
	assert.Equal(t, "Written", l.Name)
	assert.Equal(t, raw.Width, l.Width)
	assert.Equal(t, *raw.EngineX, l.EngineX)
	assert.Equal(t, *raw.EngineZ, l.EngineZ)
}
