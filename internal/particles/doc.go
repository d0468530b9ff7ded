// Package particles implements the simulation core: Verlet particles, a
// time-gated spawner and the manager that advances them inside a
// rectangular boundary.
//
// Velocity is never stored. It is implied by the difference between a
// particle's current and previous positions, so moving a particle during
// constraint resolution also changes the velocity it carries into the next
// step.
//
// A tick is always spawn, then integrate, then constrain:
//
//	mgr, err := particles.NewManager(particles.DefaultSettings(), clock.NewMonotonic())
//	if err != nil {
//		return err
//	}
//	mgr.Update()
//	for _, c := range mgr.Circles() {
//		draw(c)
//	}
//
// # Thread Safety
//
// Manager is NOT safe for concurrent use. Callers must finish Update before
// reading Circles for rendering.
package particles
