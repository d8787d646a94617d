// Package analysis characterizes recorded and live sphere runs.
//
//   - [PowerSpectrum] and [DominantFrequency]: oscillation of a per-frame
//     series such as the mean distance from the origin
//   - [Lyapunov]: finite-time divergence of two scenes that start a small
//     distance apart
//
// A positive exponent means nearby starts drift apart:
//
//	lambda, err := analysis.Lyapunov(ctx, a, b, 600)
//	if lambda > 0 {
//	    // sensitive to initial conditions
//	}
package analysis
