package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/joephys/joephys/internal/dynamo"
	"github.com/joephys/joephys/internal/particles"
)

const (
	DefaultHertz         = 120
	DefaultDuration      = 10.0
	DefaultSnapshotEvery = 12
	DefaultWarnParticles = 5000
	DefaultWindowWidth   = 800
	DefaultWindowHeight  = 800
	DefaultWindowTitle   = "JoePhys! (WASD moves the box, arrows resize it)"
)

type Config struct {
	SimulationHertz int              `yaml:"simulation_hertz" json:"simulation_hertz"`
	Gravity         VecConfig        `yaml:"gravity" json:"gravity"`
	Constraint      ConstraintConfig `yaml:"constraint" json:"constraint"`
	Spawner         SpawnerConfig    `yaml:"spawner" json:"spawner"`
	Run             RunConfig        `yaml:"run" json:"run"`
	Window          WindowConfig     `yaml:"window" json:"window"`
}

type VecConfig struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

func (v VecConfig) Vec() dynamo.Vec2 { return dynamo.V(v.X, v.Y) }

type ConstraintConfig struct {
	Center          VecConfig `yaml:"center" json:"center"`
	Width           float64   `yaml:"width" json:"width"`
	Height          float64   `yaml:"height" json:"height"`
	LegacyRightWall bool      `yaml:"legacy_right_wall" json:"legacy_right_wall"`
}

type SpawnerConfig struct {
	Rate           float64    `yaml:"rate" json:"rate"`
	Radius         float64    `yaml:"radius" json:"radius"`
	Colour         [4]float64 `yaml:"colour,flow" json:"colour"`
	InitialImpulse VecConfig  `yaml:"initial_impulse" json:"initial_impulse"`
	Position       VecConfig  `yaml:"position" json:"position"`
}

type RunConfig struct {
	Duration      float64 `yaml:"duration" json:"duration"`
	Realtime      bool    `yaml:"realtime" json:"realtime"`
	SnapshotEvery int     `yaml:"snapshot_every" json:"snapshot_every"`
	WarnParticles int     `yaml:"warn_particles" json:"warn_particles"`
}

type WindowConfig struct {
	Width  int    `yaml:"width" json:"width"`
	Height int    `yaml:"height" json:"height"`
	Title  string `yaml:"title" json:"title"`
}

func DefaultConfig() *Config {
	s := particles.DefaultSettings()
	return &Config{
		SimulationHertz: DefaultHertz,
		Gravity:         VecConfig{X: s.Gravity.X, Y: s.Gravity.Y},
		Constraint: ConstraintConfig{
			Center: VecConfig{X: s.Constraint.Center.X, Y: s.Constraint.Center.Y},
			Width:  s.Constraint.Width,
			Height: s.Constraint.Height,
		},
		Spawner: SpawnerConfig{
			Rate:           s.Spawn.Rate,
			Radius:         s.Spawn.Radius,
			Colour:         [4]float64{s.Spawn.Colour.R, s.Spawn.Colour.G, s.Spawn.Colour.B, s.Spawn.Colour.A},
			InitialImpulse: VecConfig{X: s.Spawn.InitialImpulse.X, Y: s.Spawn.InitialImpulse.Y},
			Position:       VecConfig{X: s.Spawn.Position.X, Y: s.Spawn.Position.Y},
		},
		Run: RunConfig{
			Duration:      DefaultDuration,
			SnapshotEvery: DefaultSnapshotEvery,
			WarnParticles: DefaultWarnParticles,
		},
		Window: WindowConfig{
			Width:  DefaultWindowWidth,
			Height: DefaultWindowHeight,
			Title:  DefaultWindowTitle,
		},
	}
}

// Load reads a YAML file over the defaults, so omitted keys keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
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

// Validate rejects settings the simulation cannot run with. A spawn rate of
// zero or below is allowed and simply disables spawning.
func (c *Config) Validate() error {
	if c.SimulationHertz <= 0 {
		return fmt.Errorf("%w: got %d", dynamo.ErrInvalidHertz, c.SimulationHertz)
	}
	b := dynamo.Bounds{Center: c.Constraint.Center.Vec(), Width: c.Constraint.Width, Height: c.Constraint.Height}
	if b.Degenerate() {
		return fmt.Errorf("%w: %gx%g", dynamo.ErrDegenerateConstraint, c.Constraint.Width, c.Constraint.Height)
	}
	if _, err := dynamo.Steps(c.Run.Duration, 1/float64(c.SimulationHertz)); err != nil {
		return err
	}
	if c.Run.SnapshotEvery < 0 {
		return fmt.Errorf("snapshot_every must not be negative, got %d", c.Run.SnapshotEvery)
	}
	return nil
}

func (c *Config) Colour() dynamo.Colour {
	k := c.Spawner.Colour
	return dynamo.RGBA(k[0], k[1], k[2], k[3])
}

// Settings converts the file representation to the simulation settings.
func (c *Config) Settings() particles.Settings {
	return particles.Settings{
		Hertz:   c.SimulationHertz,
		Gravity: c.Gravity.Vec(),
		Constraint: dynamo.Bounds{
			Center: c.Constraint.Center.Vec(),
			Width:  c.Constraint.Width,
			Height: c.Constraint.Height,
		},
		LegacyRightWall: c.Constraint.LegacyRightWall,
		Spawn: particles.SpawnSettings{
			Rate:           c.Spawner.Rate,
			Radius:         c.Spawner.Radius,
			Colour:         c.Colour(),
			InitialImpulse: c.Spawner.InitialImpulse.Vec(),
			Position:       c.Spawner.Position.Vec(),
		},
	}
}
