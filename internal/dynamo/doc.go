// Package dynamo provides the shared primitives of the particle simulator.
//
// The package defines the value types passed between the simulation core,
// its runners and its renderers:
//
//   - [Vec2]: 2D vector in world units
//   - [Colour]: RGBA colour with float channels
//   - [Circle]: render descriptor of a single particle
//   - [Bounds]: axis-aligned rectangle given by center and full extents
//   - [Clock]: monotonic time source in seconds
//
// # Example
//
//	clk := clock.NewMonotonic()
//	mgr, _ := particles.NewManager(particles.DefaultSettings(), clk)
//	for running {
//		mgr.Update()
//		draw(mgr.Circles())
//	}
//
// # Thread Safety
//
// None of the types here carry synchronisation. Values are safe to copy.
package dynamo
