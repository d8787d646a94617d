// Package stream publishes frames over websocket and accepts key events
// from browser clients.
package stream
