// Package dynamo provides the primitives shared by every part of the sphere
// simulation.
//
// The package defines the types that cross package boundaries:
//
//   - [State]: flat x,y,z vector of per-body values
//   - [Snapshot]: committed per-frame view of the scene
//   - [Observer] and [Metric]: consumers of snapshots
//   - [SimulationError]: frame/phase context for a failed frame
//
// # Example
//
//	world := physics.NewWorld(physics.DefaultParams())
//	driver := sim.NewDriver(stepper, bridge, renderer, scheduler)
//	err := driver.Run(ctx)
//
// # Thread Safety
//
// Snapshots are values handed to observers after the frame has been
// committed. Observers must copy anything they keep beyond the call.
package dynamo
