package world

// Biome represents the terrain category of a world tile
type Biome int

const (
	BiomeTemperate Biome = iota // Temperate forest
	BiomeArid                   // Arid shrubland
	BiomeTundra                 // Tundra
	BiomeMountain               // Impassable mountains
	BiomeOcean                  // Open water
)

// String returns the string representation of a Biome
func (b Biome) String() string {
	switch b {
	case BiomeTemperate:
		return "temperate"
	case BiomeArid:
		return "arid"
	case BiomeTundra:
		return "tundra"
	case BiomeMountain:
		return "mountain"
	case BiomeOcean:
		return "ocean"
	default:
		return "unknown"
	}
}

// IsWater returns true for biomes with no land to crash on
func (b Biome) IsWater() bool {
	return b == BiomeOcean
}

// IsPassable returns true if caravans can reach the tile
func (b Biome) IsPassable() bool {
	return b != BiomeMountain && b != BiomeOcean
}

// RainRate returns the biome's typical rain intensity (0-1)
func (b Biome) RainRate() float64 {
	switch b {
	case BiomeTemperate:
		return 0.3
	case BiomeArid:
		return 0
	case BiomeTundra:
		return 0.1
	case BiomeOcean:
		return 0.8
	default:
		return 0
	}
}

// Symbol returns the single character used on world previews
func (b Biome) Symbol() byte {
	switch b {
	case BiomeTemperate:
		return '"'
	case BiomeArid:
		return ':'
	case BiomeTundra:
		return '*'
	case BiomeMountain:
		return '^'
	case BiomeOcean:
		return '~'
	default:
		return '?'
	}
}

// ParseBiome converts a string to a Biome
func ParseBiome(s string) (Biome, bool) {
	switch s {
	case "temperate":
		return BiomeTemperate, true
	case "arid":
		return BiomeArid, true
	case "tundra":
		return BiomeTundra, true
	case "mountain":
		return BiomeMountain, true
	case "ocean":
		return BiomeOcean, true
	default:
		return BiomeTemperate, false
	}
}
