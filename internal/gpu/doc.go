// Package gpu draws the spheres with a single fullscreen fragment shader
// that intersects each view ray against every sphere analytically.
//
// All calls must run on the thread that owns the GL context.
package gpu
