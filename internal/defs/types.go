package defs

import "strings"

// Category groups thing definitions the way the damage and storage passes see them.
type Category string

const (
	CategoryBuilding Category = "building"
	CategoryItem     Category = "item"
	CategoryFilth    Category = "filth"
	CategoryPlant    Category = "plant"
)

// TechLevel orders equipment by sophistication.
type TechLevel int

const (
	TechUndefined TechLevel = iota
	TechNeolithic
	TechMedieval
	TechIndustrial
	TechSpacer
	TechUltra
)

// ParseTechLevel converts a YAML tech string into a TechLevel.
func ParseTechLevel(s string) TechLevel {
	switch strings.ToLower(s) {
	case "neolithic":
		return TechNeolithic
	case "medieval":
		return TechMedieval
	case "industrial":
		return TechIndustrial
	case "spacer":
		return TechSpacer
	case "ultra":
		return TechUltra
	default:
		return TechUndefined
	}
}

func (t TechLevel) String() string {
	switch t {
	case TechNeolithic:
		return "neolithic"
	case TechMedieval:
		return "medieval"
	case TechIndustrial:
		return "industrial"
	case TechSpacer:
		return "spacer"
	case TechUltra:
		return "ultra"
	default:
		return "undefined"
	}
}

// TerrainDef describes a floor surface.
type TerrainDef struct {
	Name       string `yaml:"-"`
	Label      string `yaml:"label"`
	Impassable bool   `yaml:"impassable,omitempty"`
	Water      bool   `yaml:"water,omitempty"`
	Symbol     string `yaml:"symbol,omitempty"`
}

// WeaponProps marks a thing as an equippable weapon.
type WeaponProps struct {
	Tech  string `yaml:"tech"`
	Melee bool   `yaml:"melee,omitempty"`
}

// ApparelProps marks a thing as wearable.
type ApparelProps struct {
	Layers     []string `yaml:"layers"`
	BodyGroups []string `yaml:"body_groups"`
	// BodyTypes restricts who can physically wear the garment. Empty means anyone.
	BodyTypes []string `yaml:"body_types,omitempty"`
	Tech      string   `yaml:"tech,omitempty"`
}

// StorageProps marks a building as a storage container.
type StorageProps struct {
	Slots  int      `yaml:"slots"`
	Accept []string `yaml:"accept,omitempty"` // item groups; empty accepts everything
}

// Accepts reports whether the container filter allows an item group.
func (s *StorageProps) Accepts(group string) bool {
	if len(s.Accept) == 0 {
		return true
	}
	for _, a := range s.Accept {
		if strings.EqualFold(a, group) {
			return true
		}
	}
	return false
}

// ThingDef describes anything that can be spawned on a map.
type ThingDef struct {
	Name           string        `yaml:"-"`
	Label          string        `yaml:"label"`
	Category       Category      `yaml:"category"`
	ItemGroup      string        `yaml:"item_group,omitempty"`
	UseHitPoints   bool          `yaml:"use_hit_points,omitempty"`
	MaxHitPoints   int           `yaml:"max_hit_points,omitempty"`
	HoldsRoof      bool          `yaml:"holds_roof,omitempty"`
	Impassable     bool          `yaml:"impassable,omitempty"`
	PassThrough    bool          `yaml:"pass_through_only,omitempty"`
	Edifice        bool          `yaml:"edifice,omitempty"`
	CanHaveFaction bool          `yaml:"can_have_faction,omitempty"`
	FuelCapacity   float64       `yaml:"fuel_capacity,omitempty"`
	PowerConsumer  bool          `yaml:"power_consumer,omitempty"`
	DamageExempt   bool          `yaml:"damage_exempt,omitempty"`
	Mortar         bool          `yaml:"mortar,omitempty"`
	IsStuff        bool          `yaml:"is_stuff,omitempty"`
	StuffHPFactor  float64       `yaml:"stuff_hp_factor,omitempty"`
	MarketValue    float64       `yaml:"market_value,omitempty"`
	Tech           string        `yaml:"tech,omitempty"`
	Symbol         string        `yaml:"symbol,omitempty"`
	Weapon         *WeaponProps  `yaml:"weapon,omitempty"`
	Apparel        *ApparelProps `yaml:"apparel,omitempty"`
	Storage        *StorageProps `yaml:"storage,omitempty"`
}

// IsBuilding reports whether the def is a structure.
func (d *ThingDef) IsBuilding() bool {
	return d.Category == CategoryBuilding
}

// TechLevel returns the parsed tech level of the def.
func (d *ThingDef) TechLevel() TechLevel {
	if d.Weapon != nil && d.Weapon.Tech != "" {
		return ParseTechLevel(d.Weapon.Tech)
	}
	if d.Apparel != nil && d.Apparel.Tech != "" {
		return ParseTechLevel(d.Apparel.Tech)
	}
	return ParseTechLevel(d.Tech)
}

// FactionDef describes a faction template.
type FactionDef struct {
	Name      string   `yaml:"-"`
	Label     string   `yaml:"label"`
	Hostile   bool     `yaml:"hostile"`
	Hidden    bool     `yaml:"hidden,omitempty"`
	PawnKinds []string `yaml:"pawn_kinds"`
	NamePool  []string `yaml:"name_pool,omitempty"`
}

// PawnKindDef describes a generated agent archetype.
type PawnKindDef struct {
	Name      string   `yaml:"-"`
	Label     string   `yaml:"label"`
	MinTech   string   `yaml:"min_weapon_tech,omitempty"`
	BodyTypes []string `yaml:"body_types,omitempty"`
	// IncapableOfViolenceChance is the chance a freshly rolled agent refuses violence.
	IncapableOfViolenceChance float64 `yaml:"incapable_of_violence_chance,omitempty"`
	// NoManipulationChance is the chance a freshly rolled agent cannot operate machinery.
	NoManipulationChance float64  `yaml:"no_manipulation_chance,omitempty"`
	Names                []string `yaml:"names,omitempty"`
}

// LootEntry is one weighted option of a loot table.
type LootEntry struct {
	Thing    string  `yaml:"thing"`
	Weight   float64 `yaml:"weight"`
	MinCount int     `yaml:"min_count,omitempty"`
	MaxCount int     `yaml:"max_count,omitempty"`
}

// LootTableDef is a weighted list of things a loot generator may produce.
type LootTableDef struct {
	Name    string      `yaml:"-"`
	Label   string      `yaml:"label,omitempty"`
	Entries []LootEntry `yaml:"entries"`
}
