package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadServerConfig(t *testing.T) {
	t.Setenv("SERPENT_ADDR", ":9999")
	t.Setenv("SERPENT_DEBUG", "true")
	cfg, err := LoadServerConfig()
	if err != nil {
		t.Fatalf("LoadServerConfig: %v", err)
	}
	if cfg.Addr != ":9999" {
		t.Errorf("addr = %q", cfg.Addr)
	}
	if !cfg.Debug {
		t.Error("debug not set")
	}
	if cfg.DBPath != "serpent.db" {
		t.Errorf("db path default = %q", cfg.DBPath)
	}
	if cfg.ClientDir != "client" {
		t.Errorf("client dir default = %q", cfg.ClientDir)
	}
}

func TestLevelSetValidate(t *testing.T) {
	good := func() *LevelSet {
		return &LevelSet{Levels: []LevelSpec{{Name: "a", Speed: 2, Food: 5, Grain: 1}}}
	}
	if err := good().Validate(); err != nil {
		t.Fatalf("valid set refused: %v", err)
	}

	cases := []struct {
		name string
		warp func(*LevelSet)
		want string
	}{
		{"empty", func(ls *LevelSet) { ls.Levels = nil }, "empty"},
		{"duplicate", func(ls *LevelSet) { ls.Levels = append(ls.Levels, ls.Levels[0]) }, "duplicate"},
		{"speed high", func(ls *LevelSet) { ls.Levels[0].Speed = SpeedMax + 1 }, "speed"},
		{"speed low", func(ls *LevelSet) { ls.Levels[0].Speed = -2 }, "speed"},
		{"no food", func(ls *LevelSet) { ls.Levels[0].Food = 0 }, "edible"},
		{"negative weight", func(ls *LevelSet) { ls.Levels[0].Prey = -1 }, "weight"},
		{"negative pickups", func(ls *LevelSet) { ls.Levels[0].Hazards = -1 }, "pickup"},
		{"bad pattern", func(ls *LevelSet) {
			ls.Levels[0].Obstacles = []ObstacleSpec{{Pattern: "spiral"}}
		}, "pattern"},
		{"half pin", func(ls *LevelSet) {
			ls.Levels[0].Obstacles = []ObstacleSpec{{Pattern: PatternWallH, X: intPtr(3)}}
		}, "coordinate"},
	}
	for _, tc := range cases {
		ls := good()
		tc.warp(ls)
		err := ls.Validate()
		if err == nil {
			t.Errorf("%s: accepted", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: error = %v, want mention of %q", tc.name, err, tc.want)
		}
	}
}

func TestLevelSetValidateDefaults(t *testing.T) {
	ls := &LevelSet{Levels: []LevelSpec{
		{Speed: 2, Food: 5},
		{Speed: 3, Food: 5, Prey: 2},
	}}
	if err := ls.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if ls.Levels[0].Name != "level-1" || ls.Levels[1].Name != "level-2" {
		t.Errorf("names = %q, %q", ls.Levels[0].Name, ls.Levels[1].Name)
	}
	// no class weights at all means plain grain
	if ls.Levels[0].Grain != 1 {
		t.Errorf("grain weight = %d, want 1", ls.Levels[0].Grain)
	}
	if ls.Levels[1].Grain != 0 {
		t.Errorf("weighted level rewritten: grain = %d", ls.Levels[1].Grain)
	}
}

func TestLoadLevelSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "levels.yaml")
	raw := `levels:
  - name: one
    speed: 2
    food: 5
    grain: 1
  - name: two
    speed: 3
    food: 8
    grain: 2
    prey: 1
    obstacles:
      - pattern: wall-h
        span: 4
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ls, err := LoadLevelSet(path)
	if err != nil {
		t.Fatalf("LoadLevelSet: %v", err)
	}
	if len(ls.Levels) != 2 {
		t.Fatalf("levels = %d", len(ls.Levels))
	}
	if ls.Levels[1].Name != "two" || ls.Levels[1].Prey != 1 {
		t.Errorf("level two = %+v", ls.Levels[1])
	}
	if len(ls.Levels[1].Obstacles) != 1 || ls.Levels[1].Obstacles[0].Span != 4 {
		t.Errorf("obstacles = %+v", ls.Levels[1].Obstacles)
	}

	if _, err := LoadLevelSet(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file accepted")
	}
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(bad, []byte("levels: {broken"), 0o644)
	if _, err := LoadLevelSet(bad); err == nil {
		t.Error("broken yaml accepted")
	}
}

func TestDefaultLevels(t *testing.T) {
	ls := DefaultLevels()
	if err := ls.Validate(); err != nil {
		t.Fatalf("built-in levels invalid: %v", err)
	}
	if len(ls.Levels) != 3 {
		t.Errorf("levels = %d, want 3", len(ls.Levels))
	}
	names := []string{"meadow", "thicket", "warren"}
	for i, want := range names {
		if ls.Levels[i].Name != want {
			t.Errorf("level %d = %q, want %q", i, ls.Levels[i].Name, want)
		}
	}
}
