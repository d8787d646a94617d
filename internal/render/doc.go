// Package render moves the committed scene into the fixed-size arrays the
// sphere shader reads.
package render
