// Package filesystem provides the afero filesystems lbi runs on and
// helpers for the capabilities afero exposes only optionally: lstat,
// symbolic links, and hard links.
//
// Production code uses NewOS; tests use temp directories on NewOS or
// NewMemory, optionally wrapped to inject failures.
package filesystem
