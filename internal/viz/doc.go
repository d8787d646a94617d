// Package viz is the terminal front end: a braille projection of the
// spheres and a stats panel, driven by bubbletea.
//
// Terminals report key presses but not releases, so a press holds the
// repel sign for a short window that further presses extend.
package viz
