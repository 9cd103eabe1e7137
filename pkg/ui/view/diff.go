package view

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffOp marks a diff line as kept, added or removed
type DiffOp string

const (
	DiffEqual  DiffOp = " "
	DiffInsert DiffOp = "+"
	DiffDelete DiffOp = "-"
)

// DiffLine is one line of a line-oriented diff
type DiffLine struct {
	Op   DiffOp `json:"op" yaml:"op"`
	Text string `json:"text" yaml:"text"`
}

// Diff compares two versions of a text file
type Diff struct {
	Title string     `json:"title" yaml:"title"`
	Lines []DiffLine `json:"lines" yaml:"lines"`
}

// Changed reports whether any line was added or removed
func (d Diff) Changed() bool {
	for _, l := range d.Lines {
		if l.Op != DiffEqual {
			return true
		}
	}
	return false
}

// NewDiff computes a line diff between before and after
func NewDiff(title, before, after string) Diff {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	d := Diff{Title: title}
	for _, chunk := range diffs {
		op := DiffEqual
		switch chunk.Type {
		case diffmatchpatch.DiffInsert:
			op = DiffInsert
		case diffmatchpatch.DiffDelete:
			op = DiffDelete
		}
		for _, line := range strings.SplitAfter(chunk.Text, "\n") {
			if line == "" {
				continue
			}
			d.Lines = append(d.Lines, DiffLine{Op: op, Text: strings.TrimSuffix(line, "\n")})
		}
	}
	return d
}
