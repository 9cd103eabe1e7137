package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/arthur-debert/lbi/pkg/types"
)

// Field is one labelled value
type Field struct {
	Label string
	Value string
}

// Table is a header row plus data rows
type Table struct {
	Header []string
	Rows   [][]string
}

// Section is one titled block of output
type Section struct {
	Title  string
	Fields []Field
	Table  *Table
	Diff   []DiffLine
	// Notes are short remarks shown after the content
	Notes []string
}

// Outcome is the result of a mutating command on one application
type Outcome struct {
	Action      string                  `json:"action" yaml:"action"`
	Application types.ApplicationRecord `json:"application" yaml:"application"`
	Diff        *Diff                   `json:"diff,omitempty" yaml:"diff,omitempty"`
}

// Build lays out result. It reports false for types it does not know.
func Build(result interface{}) ([]Section, bool) {
	switch v := result.(type) {
	case Outcome:
		return outcome(v), true
	case *Outcome:
		return outcome(*v), true
	case types.ApplicationRecord:
		return []Section{record(v.DisplayName, v)}, true
	case *types.ApplicationRecord:
		return []Section{record(v.DisplayName, *v)}, true
	case types.ApplicationList:
		return []Section{list(v)}, true
	case types.ApplicationStatus:
		return status(v), true
	case types.ReconcileReport:
		return []Section{reconcile(v)}, true
	case Diff:
		return []Section{diff(v)}, true
	}
	return nil, false
}

func outcome(o Outcome) []Section {
	title := fmt.Sprintf("%s %s (%s)", capitalize(o.Action), o.Application.DisplayName, o.Application.ID)
	sections := []Section{record(title, o.Application)}
	if o.Diff != nil {
		sections = append(sections, diff(*o.Diff))
	}
	return sections
}

func record(title string, r types.ApplicationRecord) Section {
	s := Section{Title: title}
	add := func(label, value string) {
		if value != "" {
			s.Fields = append(s.Fields, Field{Label: label, Value: value})
		}
	}
	add("ID", r.ID)
	add("Name", r.DisplayName)
	add("Source", r.SourcePath)
	add("Binary", r.InstalledBinaryPath)
	add("Interpreter", r.Interpreter)
	add("Icon", r.IconPath)
	add("Desktop entry", r.DesktopEntryPath)
	add("Menu entry", r.MenuEntryPath)
	add("Shortcut", r.DesktopShortcutPath)
	add("Categories", strings.Join(r.Categories, ", "))
	add("Terminal", yesNo(r.Terminal))
	add("Accepts files", yesNo(r.AcceptsFileArgs))
	add("Comment", r.Comment)
	add("Generic name", r.GenericName)
	add("Keywords", strings.Join(r.Keywords, ", "))
	add("WM class", r.StartupWMClass)
	add("Installed", timestamp(r.CreatedAt))
	add("Updated", timestamp(r.UpdatedAt))
	return s
}

func list(l types.ApplicationList) Section {
	s := Section{Title: "Installed applications"}
	if len(l.Applications) == 0 {
		s.Notes = append(s.Notes, "No applications installed.")
	} else {
		t := &Table{Header: []string{"ID", "NAME", "CATEGORIES", "BINARY"}}
		for _, r := range l.Applications {
			t.Rows = append(t.Rows, []string{r.ID, r.DisplayName, strings.Join(r.Categories, ", "), r.InstalledBinaryPath})
		}
		s.Table = t
	}
	if l.Snapshot {
		s.Notes = append(s.Notes, snapshotNote)
	}
	return s
}

const snapshotNote = "Another lbi operation is running; showing the last committed state."

func status(st types.ApplicationStatus) []Section {
	artifacts := Section{Title: "Artifacts", Table: &Table{Header: []string{"KIND", "STATE", "PATH"}}}
	for _, a := range st.Artifacts {
		state := "present"
		if !a.Present {
			state = "missing"
		}
		artifacts.Table.Rows = append(artifacts.Table.Rows, []string{string(a.Kind), state, a.Path})
	}
	if st.Snapshot {
		artifacts.Notes = append(artifacts.Notes, snapshotNote)
	}
	return []Section{record(st.Record.DisplayName, st.Record), artifacts}
}

func reconcile(r types.ReconcileReport) Section {
	s := Section{Title: "Reconcile"}
	if r.Empty() {
		s.Notes = []string{"Everything is consistent."}
		return s
	}
	add := func(label string, items []string) {
		if len(items) > 0 {
			s.Fields = append(s.Fields, Field{Label: label, Value: strings.Join(items, ", ")})
		}
	}
	add("Removed records", r.RemovedRecords)
	add("Repaired records", r.RepairedRecords)
	add("Removed orphans", r.RemovedOrphans)
	return s
}

func diff(d Diff) Section {
	s := Section{Title: d.Title, Diff: d.Lines}
	if !d.Changed() {
		s.Notes = []string{"No changes."}
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
