// Package roof marks enclosed interior regions of a map as roofed.
package roof

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/lawnchairsociety/gravshipcrashes/internal/geom"
	"github.com/lawnchairsociety/gravshipcrashes/internal/logger"
	"github.com/lawnchairsociety/gravshipcrashes/internal/tilemap"
)

// Build flood-fills outward from every seed cell and roofs each region that is
// fully enclosed by roof-holding cells. Regions reaching the map edge are left
// open. Existing roofs are never removed. Returns the number of newly roofed cells.
func Build(m *tilemap.Map, seeds []geom.IntVec) int {
	if m == nil || len(seeds) == 0 {
		return 0
	}

	visited := mapset.New[geom.IntVec]()
	roofed := 0
	regions := 0

	for _, seed := range seeds {
		if !m.InBounds(seed) || visited.Has(seed) || m.HoldsRoof(seed) {
			continue
		}

		region, open := fill(m, seed, visited)
		if open {
			continue
		}
		regions++
		for _, c := range region {
			if !m.Roofed(c) {
				m.SetRoof(c, tilemap.RoofConstructed)
				roofed++
			}
		}
	}

	logger.Debug("Roof flood-fill complete", "regions", regions, "roofed", roofed)
	return roofed
}

// fill runs one breadth-first region growth from start. It reports the region
// and whether the region touches the map edge.
func fill(m *tilemap.Map, start geom.IntVec, visited mapset.Set[geom.IntVec]) ([]geom.IntVec, bool) {
	var region []geom.IntVec
	touchesEdge := false

	queue := []geom.IntVec{start}
	visited.Put(start)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		region = append(region, current)

		if m.IsEdge(current) {
			touchesEdge = true
		}

		for _, d := range geom.Cardinals {
			n := current.Add(d)
			if !m.InBounds(n) || visited.Has(n) || m.HoldsRoof(n) {
				continue
			}
			visited.Put(n)
			queue = append(queue, n)
		}
	}

	return region, touchesEdge
}
