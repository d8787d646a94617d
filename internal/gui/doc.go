// Package gui is the windowed front end. It owns the raylib window and GL
// context and runs the frame driver on the main thread.
package gui
