// Package view turns command results into a format-neutral layout of
// sections, fields, tables and diff lines. The text and terminal renderers
// both draw from it so they always show the same information.
package view
