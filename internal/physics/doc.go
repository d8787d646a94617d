// Package physics provides the rigid-body world that moves the spheres.
//
// A [World] owns dynamic bodies with ball colliders and advances them one
// fixed timestep per [World.Step]:
//
//   - velocities are integrated from gravity and damping
//   - sphere-sphere contacts are solved with sequential normal impulses,
//     restitution and Coulomb friction
//   - positions and orientations are integrated (semi-implicit Euler)
//   - remaining penetration is pushed out, split by inverse mass
//
// Bodies are addressed by the [Handle] returned from [World.CreateBody];
// handles are dense and follow creation order.
//
//	w := physics.NewWorld(physics.DefaultParams())
//	h, _ := w.CreateBody(mgl64.Vec3{1, 0, 0}, scene.Mass(1), 1)
//	_ = w.ApplyImpulse(h, mgl64.Vec3{-0.1, 0, 0})
//	err := w.Step()
package physics
