// Package sim drives the per-frame loop. Each frame moves through the
// phases Idle, Stepping, Syncing, Rendering and Scheduled in that order.
package sim
