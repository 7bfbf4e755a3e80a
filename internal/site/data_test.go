package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lawnchairsociety/gravshipcrashes/internal/config"
	"github.com/lawnchairsociety/gravshipcrashes/internal/defs"
	"github.com/lawnchairsociety/gravshipcrashes/internal/faction"
	"github.com/lawnchairsociety/gravshipcrashes/internal/layout"
)

// Shipped content must load and every shipped ship must generate from it.
func TestShippedData(t *testing.T) {
	reg, err := defs.LoadFromYAML("../../data/defs.yaml")
	require.NoError(t, err)

	settings, err := config.LoadConfig("../../data/settings.yaml")
	require.NoError(t, err)

	layouts := layout.NewRegistry()
	layouts.RegisterProvider(&layout.DirProvider{Label: "data", Dir: "../../data/layouts"})
	require.True(t, layouts.HasContent())

	for _, l := range layouts.All() {
		t.Run(l.Name, func(t *testing.T) {
			assert.Empty(t, l.MissingDefs(reg))

			session := faction.NewSession(reg, faction.NewManager(), defs.FactionSurvivors, 1)
			coord := NewCoordinator(reg, layouts, settings, session)
			s := seededSite(l.Name)

			_, rep := coord.Generate(s, Options{})
			assert.False(t, rep.UsedHull)
			assert.Equal(t, l.Name, rep.Layout)
			assert.NotNil(t, rep.Faction)
			if l.HasEngineMarker() {
				assert.Equal(t, 1, rep.EnginesRemoved)
			}
		})
	}
}
