package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/bloomsim/internal/garden"
	"github.com/san-kum/bloomsim/internal/sim"
)

const (
	DefaultDays     = 20
	DefaultRuns     = 1000
	DefaultSeed     = 1
	DefaultPreset   = "pairs"
	DefaultLogLevel = "info"
)

var ErrInvalidConfig = errors.New("config: invalid")

// Cell is one initially planted position.
type Cell struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

type Config struct {
	Preset   string `yaml:"preset,omitempty"`
	Days     int    `yaml:"days"`
	Runs     int    `yaml:"runs"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Seed     uint64 `yaml:"seed"`
	Workers  int    `yaml:"workers"`
	LogLevel string `yaml:"log_level"`
	Layout   []Cell `yaml:"layout,omitempty"`
}

func DefaultConfig() *Config {
	cfg := &Config{
		Days:     DefaultDays,
		Runs:     DefaultRuns,
		Seed:     DefaultSeed,
		LogLevel: DefaultLogLevel,
	}
	_ = cfg.ApplyPreset(DefaultPreset)
	return cfg
}

// Load reads a YAML config over the defaults. A file without a layout takes
// field size and layout from its preset (or the default preset); a file with a
// layout must also give the field size.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	cfg.Preset = ""
	cfg.Layout = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if len(cfg.Layout) == 0 {
		preset := cfg.Preset
		if preset == "" {
			preset = DefaultPreset
		}
		if err := cfg.ApplyPreset(preset); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyPreset replaces field size and layout with the named preset.
func (c *Config) ApplyPreset(name string) error {
	l := GetPreset(name)
	if l == nil {
		return fmt.Errorf("%w: unknown preset: %s (available: %v)", ErrInvalidConfig, name, ListPresets())
	}
	c.Preset = name
	c.Width = l.Width
	c.Height = l.Height
	c.Layout = append([]Cell(nil), l.Cells...)
	return nil
}

func (c *Config) Validate() error {
	if c.Days <= 0 {
		return fmt.Errorf("%w: days must be positive, got %d", ErrInvalidConfig, c.Days)
	}
	if c.Runs <= 0 {
		return fmt.Errorf("%w: runs must be positive, got %d", ErrInvalidConfig, c.Runs)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	return validateLayout(c.Width, c.Height, c.Layout)
}

func validateLayout(width, height int, cells []Cell) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: field size must be positive, got %dx%d", ErrInvalidConfig, width, height)
	}
	if len(cells) == 0 {
		return fmt.Errorf("%w: layout is empty", ErrInvalidConfig)
	}

	seen := make(map[Cell]bool, len(cells))
	for _, cell := range cells {
		if cell.X < 0 || cell.X >= width || cell.Y < 0 || cell.Y >= height {
			return fmt.Errorf("%w: cell (%d,%d) outside %dx%d field", ErrInvalidConfig, cell.X, cell.Y, width, height)
		}
		if seen[cell] {
			return fmt.Errorf("%w: cell (%d,%d) planted twice", ErrInvalidConfig, cell.X, cell.Y)
		}
		seen[cell] = true
	}
	return nil
}

func (c *Config) Positions() []garden.Pos {
	out := make([]garden.Pos, len(c.Layout))
	for i, cell := range c.Layout {
		out[i] = garden.Pos{X: cell.X, Y: cell.Y}
	}
	return out
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Days:   c.Days,
		Width:  c.Width,
		Height: c.Height,
		Layout: c.Positions(),
	}
}
