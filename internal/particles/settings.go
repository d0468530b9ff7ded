package particles

import "github.com/joephys/joephys/internal/dynamo"

// Settings configures a Manager and its spawner.
type Settings struct {
	Hertz      int
	Gravity    dynamo.Vec2
	Constraint dynamo.Bounds
	// LegacyRightWall measures right wall penetration against the left wall
	// coordinate, as the first JoePhys release did.
	LegacyRightWall bool
	Spawn           SpawnSettings
}

type SpawnSettings struct {
	Rate           float64
	Radius         float64
	Colour         dynamo.Colour
	InitialImpulse dynamo.Vec2
	Position       dynamo.Vec2
}

// DefaultSettings matches the JoePhys demo scene.
func DefaultSettings() Settings {
	return Settings{
		Hertz:   120,
		Gravity: dynamo.V(0, -800),
		Constraint: dynamo.Bounds{
			Center: dynamo.V(0, 0),
			Width:  1000,
			Height: 1000,
		},
		Spawn: SpawnSettings{
			Rate:           DefaultSpawnRate,
			Radius:         DefaultSpawnRadius,
			Colour:         dynamo.RGBA(0.3, 1.0, 0.3, 1.0),
			InitialImpulse: dynamo.V(200000, 0),
			Position:       dynamo.V(-350, 350),
		},
	}
}
