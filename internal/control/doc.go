// Package control turns user input into the impulses that drive the spheres.
//
//   - [Sign]: the single shared direction of the force, +1 while a key is
//     held and -1 otherwise
//   - [RadialImpulse]: applies P·(sign·k) to every body once per step
//   - [KeyTracker]: converts polled key state into press/release events
//
// # Usage
//
//	var sign control.Sign
//	policy := control.NewRadialImpulse(control.DefaultScale)
//	sign.Press()
//	_ = policy.Apply(world, handles, sign.Value())
package control
