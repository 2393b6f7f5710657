package config

import (
	"sort"

	"github.com/san-kum/esim/internal/kinetic"
	"github.com/san-kum/esim/internal/spawn"
)

func preset(name, desc string, mutate func(*Config)) *Config {
	c := DefaultConfig()
	c.Name = name
	mutate(c)
	descriptions[name] = desc
	return c
}

var descriptions = map[string]string{}

var Presets = map[string]*Config{
	"scatter": preset("scatter", "30 balls scattered over the middle of a 1000x1000 box", func(c *Config) {}),
	"partial": preset("partial", "scatter layout, only event participants advance", func(c *Config) {
		c.Advance = "partial"
	}),
	"grid": preset("grid", "400 balls on a 50px lattice filling the box", func(c *Config) {
		c.Spawn.Layout = spawn.Grid
		c.Spawn.Count = 0
	}),
	"dense": preset("dense", "300 balls with a thin margin", func(c *Config) {
		c.Spawn.Count = 300
		c.Spawn.Margin = 20
		c.Ticks = 20000
	}),
	"cube": preset("cube", "60 balls in a 400 unit cube", func(c *Config) {
		c.Bounds = kinetic.Bounds{Width: 400, Height: 400, Depth: 400}
		c.Spawn.Count = 60
		c.Spawn.Margin = 20
	}),
	"pair": preset("pair", "two equal balls meeting head-on", func(c *Config) {
		c.Bounds = kinetic.Bounds{Width: 300, Height: 100}
		c.Spawn.Layout = spawn.Line
		c.Spawn.Count = 2
		c.Spawn.Speed = 1
		c.Ticks = 20
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Describe(name string) string { return descriptions[name] }
