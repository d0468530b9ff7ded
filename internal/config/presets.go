package config

import (
	"fmt"
	"sort"

	"github.com/joephys/joephys/internal/dynamo"
)

// Presets are scenes layered over DefaultConfig.
var Presets = map[string]func(*Config){
	"default": func(c *Config) {},
	"rain": func(c *Config) {
		c.Spawner.Rate = 40
		c.Spawner.Radius = 8
		c.Spawner.Colour = [4]float64{0.4, 0.6, 1.0, 1.0}
		c.Spawner.InitialImpulse = VecConfig{X: 0, Y: -20000}
		c.Spawner.Position = VecConfig{X: 0, Y: 450}
	},
	"fountain": func(c *Config) {
		c.Spawner.Rate = 15
		c.Spawner.Radius = 12
		c.Spawner.Colour = [4]float64{1.0, 0.8, 0.2, 1.0}
		c.Spawner.InitialImpulse = VecConfig{X: 30000, Y: 600000}
		c.Spawner.Position = VecConfig{X: 0, Y: -430}
	},
	"still": func(c *Config) {
		c.Spawner.Rate = 0
	},
	"legacy": func(c *Config) {
		c.Constraint.LegacyRightWall = true
	},
	"wide": func(c *Config) {
		c.Constraint.Width = 1600
		c.Constraint.Height = 600
		c.Window.Width = 1280
		c.Window.Height = 560
		c.Spawner.Position = VecConfig{X: -700, Y: 200}
	},
}

// GetPreset returns DefaultConfig with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

// LoadPreset is GetPreset with an error naming the available presets.
func LoadPreset(name string) (*Config, error) {
	cfg := GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("%w: %s (available: %v)", dynamo.ErrUnknownPreset, name, ListPresets())
	}
	return cfg, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
