// Package desktopentry renders and parses freedesktop.org desktop entry
// files.
//
// Render is a pure function of an ApplicationRecord and the generator
// options: identical records always produce identical bytes, keys are
// emitted in a fixed order, and the source path never appears in the
// output. Parse reads the [Desktop Entry] group of an existing file so
// its metadata can prefill an install.
package desktopentry
