package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/san-kum/esim/internal/kinetic"
	"github.com/san-kum/esim/internal/sim"
	"github.com/san-kum/esim/internal/spawn"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth      = 1000.0
	DefaultHeight     = 1000.0
	DefaultTicks      = 5000
	DefaultMaxAdvance = 1000.0
	DefaultFPS        = 60
	DefaultTheme      = "classic"
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Name          string         `yaml:"name,omitempty"`
	Bounds        kinetic.Bounds `yaml:"bounds"`
	Spawn         spawn.Params   `yaml:"spawn"`
	Seed          int64          `yaml:"seed"`
	Ticks         int            `yaml:"ticks"`
	Duration      float64        `yaml:"duration"`
	MaxAdvance    float64        `yaml:"max_advance"`
	Advance       string         `yaml:"advance"`
	ValidateState bool           `yaml:"validate_state"`
	Record        bool           `yaml:"record"`
	RecordEvery   int            `yaml:"record_every"`
	View          ViewConfig     `yaml:"view"`
}

type ViewConfig struct {
	FPS   int    `yaml:"fps"`
	Theme string `yaml:"theme"`
	Trail int    `yaml:"trail"`
	// Yaw and Pitch orient the camera for 3D boxes, in degrees.
	Yaw   float64 `yaml:"yaw"`
	Pitch float64 `yaml:"pitch"`
}

func DefaultConfig() *Config {
	return &Config{
		Bounds:        kinetic.Bounds{Width: DefaultWidth, Height: DefaultHeight},
		Spawn:         spawn.DefaultParams(),
		Seed:          1,
		Ticks:         DefaultTicks,
		MaxAdvance:    DefaultMaxAdvance,
		Advance:       sim.AdvanceSynchronized.String(),
		ValidateState: true,
		RecordEvery:   1,
		View: ViewConfig{
			FPS:   DefaultFPS,
			Theme: DefaultTheme,
			Trail: 200,
			Yaw:   30,
			Pitch: 20,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Overlay applies a YAML document on top of cfg; keys absent from data keep
// their current values.
func (c *Config) Overlay(data []byte) error {
	return yaml.Unmarshal(data, c)
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

func (c *Config) Validate() error {
	if err := c.Bounds.Validate(); err != nil {
		return err
	}
	if err := c.Spawn.Validate(); err != nil {
		return err
	}
	if !(c.MaxAdvance > 0) || math.IsInf(c.MaxAdvance, 0) {
		return fmt.Errorf("%w: max_advance must be positive, got %g", ErrInvalid, c.MaxAdvance)
	}
	if c.Ticks < 0 || c.Duration < 0 {
		return fmt.Errorf("%w: ticks and duration must not be negative", ErrInvalid)
	}
	if c.Ticks == 0 && c.Duration == 0 {
		return fmt.Errorf("%w: one of ticks or duration must be set", ErrInvalid)
	}
	if _, err := sim.ParseAdvanceMode(c.Advance); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.View.FPS < 0 {
		return fmt.Errorf("%w: fps must not be negative", ErrInvalid)
	}
	return nil
}

// SimConfig converts the run settings to the simulator's form.
func (c *Config) SimConfig() (sim.Config, error) {
	if err := c.Validate(); err != nil {
		return sim.Config{}, err
	}
	mode, _ := sim.ParseAdvanceMode(c.Advance)
	return sim.Config{
		Ticks:         c.Ticks,
		Duration:      c.Duration,
		MaxAdvance:    c.MaxAdvance,
		Mode:          mode,
		Seed:          c.Seed,
		ValidateState: c.ValidateState,
		Record:        c.Record,
		RecordEvery:   c.RecordEvery,
	}, nil
}
