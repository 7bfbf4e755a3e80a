package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/gravshipcrashes/internal/geom"
)

// ObjectYAML is the file form of an ObjectEntry.
type ObjectYAML struct {
	Def   string `yaml:"def"`
	Stuff string `yaml:"stuff,omitempty"`
	Rot   int    `yaml:"rot,omitempty"`
}

// CellYAML is the file form of a Cell.
type CellYAML struct {
	Foundation string       `yaml:"foundation,omitempty"`
	Floor      string       `yaml:"floor,omitempty"`
	Objects    []ObjectYAML `yaml:"objects,omitempty"`
}

// LayoutYAML is the file form of a ShipLayout.
//
// Cells can be given either as explicit rows (row 0 is the southernmost) or as an
// ASCII grid plus legend, where the first grid line is the northernmost row.
type LayoutYAML struct {
	Name    string               `yaml:"name"`
	Label   string               `yaml:"label"`
	Width   int                  `yaml:"width"`
	Height  int                  `yaml:"height"`
	EngineX *int                 `yaml:"engine_x,omitempty"`
	EngineZ *int                 `yaml:"engine_z,omitempty"`
	Rows    [][]*CellYAML        `yaml:"rows,omitempty"`
	Grid    []string             `yaml:"grid,omitempty"`
	Legend  map[string]*CellYAML `yaml:"legend,omitempty"`
}

// LoadFromYAML reads one layout file.
func LoadFromYAML(filename string) (*ShipLayout, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout file: %w", err)
	}
	l, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if l.Name == "" {
		l.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	return l, nil
}

// Parse decodes a layout document.
func Parse(data []byte) (*ShipLayout, error) {
	var raw LayoutYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse layout YAML: %w", err)
	}
	return raw.Build()
}

// LoadFromDirectory loads every *.yaml layout in dir, sorted by file name.
func LoadFromDirectory(dir string) ([]*ShipLayout, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list layout directory: %w", err)
	}
	sort.Strings(files)

	var layouts []*ShipLayout
	for _, f := range files {
		l, err := LoadFromYAML(f)
		if err != nil {
			return nil, err
		}
		layouts = append(layouts, l)
	}
	return layouts, nil
}

// Build converts the file form into a ShipLayout.
func (raw *LayoutYAML) Build() (*ShipLayout, error) {
	l := &ShipLayout{
		Name:    raw.Name,
		Label:   raw.Label,
		Width:   raw.Width,
		Height:  raw.Height,
		EngineX: -1,
		EngineZ: -1,
	}
	if raw.EngineX != nil && raw.EngineZ != nil {
		l.EngineX = *raw.EngineX
		l.EngineZ = *raw.EngineZ
	}

	switch {
	case len(raw.Grid) > 0:
		rows, err := raw.gridRows()
		if err != nil {
			return nil, err
		}
		l.Rows = rows
	default:
		l.Rows = make([][]*Cell, len(raw.Rows))
		for z, row := range raw.Rows {
			if row == nil {
				continue
			}
			l.Rows[z] = make([]*Cell, len(row))
			for x, c := range row {
				l.Rows[z][x] = c.toCell()
			}
		}
	}

	if l.Height == 0 {
		l.Height = len(l.Rows)
	}
	if l.Width == 0 {
		for _, row := range l.Rows {
			if len(row) > l.Width {
				l.Width = len(row)
			}
		}
	}
	return l, nil
}

func (raw *LayoutYAML) gridRows() ([][]*Cell, error) {
	rows := make([][]*Cell, len(raw.Grid))
	for i, line := range raw.Grid {
		z := len(raw.Grid) - 1 - i
		runes := []rune(line)
		row := make([]*Cell, len(runes))
		for x, r := range runes {
			if r == ' ' || r == '.' {
				continue
			}
			c, ok := raw.Legend[string(r)]
			if !ok {
				return nil, fmt.Errorf("grid symbol %q at line %d has no legend entry", r, i+1)
			}
			row[x] = c.toCell()
		}
		rows[z] = row
	}
	return rows, nil
}

func (c *CellYAML) toCell() *Cell {
	if c == nil {
		return nil
	}
	cell := &Cell{
		Foundation: c.Foundation,
		Floor:      c.Floor,
	}
	for _, o := range c.Objects {
		cell.Objects = append(cell.Objects, ObjectEntry{
			Def:      o.Def,
			Stuff:    o.Stuff,
			Rotation: geom.NewRot4(o.Rot),
		})
	}
	return cell
}
