// Package storage keeps recorded runs on disk, one directory per run with
// metadata.json and frames.csv.
package storage
