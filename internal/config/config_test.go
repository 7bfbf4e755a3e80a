package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}

	if cfg.IncidentBaseChance != 0.04 {
		t.Errorf("expected incident chance 0.04, got %v", cfg.IncidentBaseChance)
	}

	if cfg.StructureDamage.Min != 0.15 || cfg.StructureDamage.Max != 0.45 {
		t.Errorf("unexpected structure damage range %+v", cfg.StructureDamage)
	}

	if cfg.MaxDefenders != 6 {
		t.Errorf("expected 6 max defenders, got %d", cfg.MaxDefenders)
	}

	if !cfg.DevEnableWorldSpawnButton {
		t.Error("expected debug spawn to be enabled by default")
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/settings.yaml")

	if err != nil {
		t.Errorf("expected no error for missing file, got %v", err)
	}

	if cfg == nil {
		t.Fatal("expected default config for missing file, got nil")
	}

	if cfg.ThingDamage.Max != 0.35 {
		t.Errorf("expected default thing damage max, got %v", cfg.ThingDamage.Max)
	}
}

func TestLoadConfig_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "settings.yaml")

	content := `
incident_base_chance: 0.2
structure_damage:
  min: 0.3
  max: 0.6
max_defenders: 3
debug_logging: true
ship_allowances:
  Corvette: false
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.IncidentBaseChance != 0.2 {
		t.Errorf("expected 0.2, got %v", cfg.IncidentBaseChance)
	}
	if cfg.StructureDamage.Max != 0.6 {
		t.Errorf("expected structure max 0.6, got %v", cfg.StructureDamage.Max)
	}
	if cfg.ThingDamage.Min != 0.10 {
		t.Errorf("unset keys should keep defaults, got thing min %v", cfg.ThingDamage.Min)
	}
	if cfg.MaxDefenders != 3 {
		t.Errorf("expected 3 defenders, got %d", cfg.MaxDefenders)
	}
	if !cfg.DebugLogging {
		t.Error("expected debug logging on")
	}
	if cfg.AllowsShip("Corvette") {
		t.Error("expected Corvette to be disallowed")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "settings.yaml")

	if err := os.WriteFile(configPath, []byte("structure_damage: [not, a, range"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err == nil {
		t.Error("expected parse error")
	}
	if cfg == nil || cfg.MaxDefenders != 6 {
		t.Error("expected defaults on parse error")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name  string
		apply func(*Settings)
		check func(*Settings) bool
	}{
		{
			name:  "chance above one",
			apply: func(s *Settings) { s.IncidentBaseChance = 4 },
			check: func(s *Settings) bool { return s.IncidentBaseChance == 1 },
		},
		{
			name:  "negative min",
			apply: func(s *Settings) { s.ThingDamage.Min = -0.5 },
			check: func(s *Settings) bool { return s.ThingDamage.Min == 0 },
		},
		{
			name:  "max below min",
			apply: func(s *Settings) { s.StructureDamage.Min = 0.7; s.StructureDamage.Max = 0.2 },
			check: func(s *Settings) bool { return s.StructureDamage.Max == 0.7 },
		},
		{
			name:  "max above one",
			apply: func(s *Settings) { s.PawnInjurySeverity.Max = 3 },
			check: func(s *Settings) bool { return s.PawnInjurySeverity.Max == 1 },
		},
		{
			name:  "negative defenders",
			apply: func(s *Settings) { s.MaxDefenders = -2 },
			check: func(s *Settings) bool { return s.MaxDefenders == 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultConfig()
			tt.apply(s)
			s.Clamp()
			if !tt.check(s) {
				t.Errorf("clamp did not fix %s: %+v", tt.name, s)
			}
		})
	}
}

func TestAllowsShip(t *testing.T) {
	s := DefaultConfig()

	if s.AllowsShip("") {
		t.Error("empty name should never be allowed")
	}
	if !s.AllowsShip("Frigate") {
		t.Error("unknown ship should be allowed")
	}
	if _, ok := s.ShipAllowances["Frigate"]; !ok {
		t.Error("unknown ship should be remembered")
	}

	s.SetAllowsShip("Frigate", false)
	if s.AllowsShip("Frigate") {
		t.Error("expected Frigate disallowed")
	}

	s.SetAllowsShip("Barge", true)
	s.SetAllShips(false)
	if s.AllowsShip("Barge") || s.AllowsShip("Frigate") {
		t.Error("SetAllShips(false) should disallow every known ship")
	}

	s.SetAllShips(true)
	if got := s.AllowedShips(); !reflect.DeepEqual(got, []string{"Barge", "Frigate"}) {
		t.Errorf("unexpected allowed ships %v", got)
	}
}

func TestSynchroniseShips(t *testing.T) {
	s := DefaultConfig()
	s.SetAllowsShip("Old", true)
	s.SetAllowsShip("Kept", false)

	s.SynchroniseShips([]string{"Kept", "New"})

	if _, ok := s.ShipAllowances["Old"]; ok {
		t.Error("Old should be forgotten")
	}
	if s.ShipAllowances["Kept"] {
		t.Error("Kept should keep its disallowed state")
	}
	if !s.ShipAllowances["New"] {
		t.Error("New should be allowed")
	}

	s.SynchroniseShips(nil)
	if len(s.ShipAllowances) != 2 {
		t.Errorf("nil list should be a no-op, got %v", s.ShipAllowances)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	s := DefaultConfig()
	s.MaxDefenders = 9
	s.SetAllowsShip("Corvette", false)
	if err := s.Save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.MaxDefenders != 9 {
		t.Errorf("expected 9 defenders, got %d", loaded.MaxDefenders)
	}
	if loaded.AllowsShip("Corvette") {
		t.Error("expected Corvette to stay disallowed")
	}
}
