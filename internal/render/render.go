// Package render draws generated maps and the world as plain text.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lawnchairsociety/gravshipcrashes/internal/defs"
	"github.com/lawnchairsociety/gravshipcrashes/internal/gametime"
	"github.com/lawnchairsociety/gravshipcrashes/internal/geom"
	"github.com/lawnchairsociety/gravshipcrashes/internal/tilemap"
	"github.com/lawnchairsociety/gravshipcrashes/internal/world"
)

// Cell symbols, in drawing priority order.
const (
	SymbolPawn     = '@'
	SymbolFire     = '^'
	SymbolBuilding = '#'
	SymbolItem     = '!'
	SymbolFilth    = ','
	SymbolRoof     = '.'
	SymbolGround   = ' '
	SymbolHome     = 'H'
	SymbolSite     = 'X'
)

// Map renders rect of m, north at the top. An empty rect renders the whole map.
func Map(m *tilemap.Map, rect geom.CellRect) string {
	if m == nil {
		return ""
	}
	if rect.IsEmpty() {
		rect = m.Rect()
	}
	rect = m.Clip(rect)

	pawns := make(map[geom.IntVec]bool)
	for _, p := range m.Pawns() {
		if p.Spawned {
			pawns[p.Position] = true
		}
	}
	fires := make(map[geom.IntVec]bool)
	for _, f := range m.Fires() {
		fires[f.Position] = true
	}

	var out strings.Builder
	for z := rect.MaxZ; z >= rect.MinZ; z-- {
		for x := rect.MinX; x <= rect.MaxX; x++ {
			c := geom.IntVec{X: x, Z: z}
			switch {
			case pawns[c]:
				out.WriteByte(SymbolPawn)
			case fires[c]:
				out.WriteByte(SymbolFire)
			default:
				out.WriteByte(cellSymbol(m, c))
			}
		}
		out.WriteByte('\n')
	}
	return out.String()
}

// cellSymbol picks the symbol of the most important thing at c, then falls
// back to the roof and terrain.
func cellSymbol(m *tilemap.Map, c geom.IntVec) byte {
	if e := m.Edifice(c); e != nil {
		return thingSymbol(e.Def, SymbolBuilding)
	}

	var item, filth *defs.ThingDef
	for _, t := range m.ThingsAt(c) {
		switch t.Def.Category {
		case defs.CategoryItem:
			if item == nil {
				item = t.Def
			}
		case defs.CategoryFilth:
			filth = t.Def
		}
	}
	if item != nil {
		return thingSymbol(item, SymbolItem)
	}
	if filth != nil {
		return thingSymbol(filth, SymbolFilth)
	}

	if t := m.TerrainAt(c); t != nil && t.Symbol != "" {
		return t.Symbol[0]
	}
	if m.Roofed(c) {
		return SymbolRoof
	}
	return SymbolGround
}

func thingSymbol(def *defs.ThingDef, fallback byte) byte {
	if def != nil && def.Symbol != "" {
		return def.Symbol[0]
	}
	return fallback
}

// Legend lists the symbols used by Map for the defs present on m.
func Legend(m *tilemap.Map) string {
	entries := map[string]string{
		string(SymbolPawn):   "defender",
		string(SymbolFire):   "fire",
		string(SymbolRoof):   "roofed ground",
		string(SymbolGround): "open ground",
	}
	if m != nil {
		for _, t := range m.AllThings() {
			var sym byte
			switch t.Def.Category {
			case defs.CategoryBuilding:
				sym = thingSymbol(t.Def, SymbolBuilding)
			case defs.CategoryFilth:
				sym = thingSymbol(t.Def, SymbolFilth)
			default:
				sym = thingSymbol(t.Def, SymbolItem)
			}
			addLegend(entries, sym, t.Def.Label)
		}
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out strings.Builder
	out.WriteString("Legend:\n")
	for _, k := range keys {
		out.WriteString(fmt.Sprintf("  [%s] %s\n", k, entries[k]))
	}
	return out.String()
}

func addLegend(entries map[string]string, sym byte, label string) {
	key := string(sym)
	existing, ok := entries[key]
	if !ok {
		entries[key] = label
		return
	}
	for _, part := range strings.Split(existing, ", ") {
		if part == label {
			return
		}
	}
	entries[key] = existing + ", " + label
}

// World renders the world grid with home and sites marked, row 0 at the top.
func World(w *world.World) string {
	if w == nil {
		return ""
	}
	sites := make(map[int]bool)
	for _, s := range w.Sites() {
		sites[s.Tile] = true
	}

	var out strings.Builder
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			id := y*w.Width + x
			switch {
			case id == w.HomeTile():
				out.WriteByte(SymbolHome)
			case sites[id]:
				out.WriteByte(SymbolSite)
			default:
				t, _ := w.Tile(id)
				out.WriteByte(t.Biome.Symbol())
			}
		}
		out.WriteByte('\n')
	}
	return out.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

// SiteList describes every site on the world, one per line.
func SiteList(w *world.World) string {
	if w == nil {
		return ""
	}
	var out strings.Builder
	for _, s := range w.Sites() {
		out.WriteString(fmt.Sprintf("  #%-4d %-24s tile %-6d layout %-20s expires in %.1f days\n",
			s.ID, truncate(s.Label, 24), s.Tile, truncate(s.LayoutName, 20), gametime.TicksToDays(s.TimeoutTicks)))
	}
	return out.String()
}
