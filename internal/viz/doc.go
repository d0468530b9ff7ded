// Package viz renders the particle simulation in the terminal.
//
// The package implements a live TUI using the Bubble Tea framework:
//
//   - [Model]: steps a [particles.Manager] on every frame and draws it
//   - [Canvas]: Braille-based pixel canvas, 2x4 dots per cell
//   - [Viewport]: world to canvas projection with Y pointing up
//   - Theme selection with 4 built-in color schemes
//
// # Key Bindings
//
//	Space   - Pause/Resume simulation
//	.       - Single step while paused
//	R       - Rebuild the simulation from its configuration
//	T       - Cycle color themes
//	+/-/0   - Raise, lower or stop the spawn rate
//	Arrows  - Move the spawner
//	WASD    - Move the boundary
//	[ ]     - Shrink/grow the boundary
//	?       - Show help overlay
package viz
