package main

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ServerConfig is read from the environment; main applies flag overrides on
// top of it
type ServerConfig struct {
	Addr      string `env:"SERPENT_ADDR" envDefault:":8080"`
	DBPath    string `env:"SERPENT_DB" envDefault:"serpent.db"`
	ClientDir string `env:"SERPENT_CLIENT_DIR" envDefault:"client"`
	LevelFile string `env:"SERPENT_LEVELS"`
	Debug     bool   `env:"SERPENT_DEBUG"`
}

// LoadServerConfig reads configuration from the environment
func LoadServerConfig() (ServerConfig, error) {
	var cfg ServerConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// NewLogger builds the process logger
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// LevelSet is the ordered level table a run is built from
type LevelSet struct {
	Levels []LevelSpec `yaml:"levels"`
}

// LevelSpec describes one level. Food is the total edible count; the grain,
// prey and predator fields weight how it splits between the classes.
type LevelSpec struct {
	Name      string         `yaml:"name"`
	Speed     int            `yaml:"speed"`
	Length    int            `yaml:"length"`
	Food      int            `yaml:"food"`
	Grain     int            `yaml:"grain"`
	Prey      int            `yaml:"prey"`
	Predator  int            `yaml:"predator"`
	Bonuses   int            `yaml:"bonuses"`
	Hazards   int            `yaml:"hazards"`
	Obstacles []ObstacleSpec `yaml:"obstacles"`
}

// ObstacleSpec describes one obstacle. Omitted coordinates mean a random
// anchor each roll.
type ObstacleSpec struct {
	Pattern string `yaml:"pattern"`
	Span    int    `yaml:"span"`
	X       *int   `yaml:"x"`
	Y       *int   `yaml:"y"`
}

// LoadLevelSet reads and validates a level file
func LoadLevelSet(path string) (*LevelSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("levels: %w", err)
	}
	var ls LevelSet
	if err := yaml.Unmarshal(raw, &ls); err != nil {
		return nil, fmt.Errorf("levels: %w", err)
	}
	if err := ls.Validate(); err != nil {
		return nil, err
	}
	return &ls, nil
}

// Validate checks the set and fills defaults: unnamed levels get positional
// names, and a level with no class weights becomes all grain
func (ls *LevelSet) Validate() error {
	if len(ls.Levels) == 0 {
		return fmt.Errorf("levels: empty set")
	}
	seen := make(map[string]bool, len(ls.Levels))
	for i := range ls.Levels {
		l := &ls.Levels[i]
		if l.Name == "" {
			l.Name = fmt.Sprintf("level-%d", i+1)
		}
		if seen[l.Name] {
			return fmt.Errorf("levels: duplicate name %q", l.Name)
		}
		seen[l.Name] = true
		if l.Speed < SpeedRandom || l.Speed > SpeedMax {
			return fmt.Errorf("levels: %s: speed %d outside [%d, %d]", l.Name, l.Speed, SpeedMin, SpeedMax)
		}
		if l.Food < 1 {
			return fmt.Errorf("levels: %s: needs at least one edible", l.Name)
		}
		if l.Grain < 0 || l.Prey < 0 || l.Predator < 0 {
			return fmt.Errorf("levels: %s: negative class weight", l.Name)
		}
		if l.Grain+l.Prey+l.Predator == 0 {
			l.Grain = 1
		}
		if l.Bonuses < 0 || l.Hazards < 0 {
			return fmt.Errorf("levels: %s: negative pickup count", l.Name)
		}
		for _, o := range l.Obstacles {
			switch o.Pattern {
			case PatternWallH, PatternWallV, PatternCross, PatternBlock:
			default:
				return fmt.Errorf("levels: %s: %w: %q", l.Name, ErrBadPattern, o.Pattern)
			}
			if (o.X == nil) != (o.Y == nil) {
				return fmt.Errorf("levels: %s: obstacle %q pins only one coordinate", l.Name, o.Pattern)
			}
		}
	}
	return nil
}

// DefaultLevels is the built-in three level run used when no level file is
// configured
func DefaultLevels() *LevelSet {
	return &LevelSet{Levels: []LevelSpec{
		{
			Name:    "meadow",
			Speed:   2,
			Food:    10,
			Grain:   1,
			Bonuses: 1,
		},
		{
			Name:     "thicket",
			Speed:    3,
			Food:     14,
			Grain:    3,
			Prey:     1,
			Bonuses:  1,
			Hazards:  1,
			Obstacles: []ObstacleSpec{
				{Pattern: PatternWallH, Span: 6},
				{Pattern: PatternWallV, Span: 6},
			},
		},
		{
			Name:     "warren",
			Speed:    4,
			Food:     18,
			Grain:    3,
			Prey:     2,
			Predator: 1,
			Bonuses:  2,
			Hazards:  2,
			Obstacles: []ObstacleSpec{
				{Pattern: PatternCross, Span: 3},
				{Pattern: PatternBlock, Span: 3},
			},
		},
	}}
}
