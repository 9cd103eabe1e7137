package types

import (
	"slices"
	"sort"
	"strings"
	"time"
)

// ArtifactKind identifies one of the files an installation owns.
type ArtifactKind string

const (
	ArtifactBinary          ArtifactKind = "binary"
	ArtifactIcon            ArtifactKind = "icon"
	ArtifactDesktopEntry    ArtifactKind = "desktop-entry"
	ArtifactMenuEntry       ArtifactKind = "menu-entry"
	ArtifactDesktopShortcut ArtifactKind = "desktop-shortcut"
)

// ApplicationRecord is the unit of installed state. Every path field is
// owned by the installation except SourcePath.
type ApplicationRecord struct {
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"displayName" yaml:"displayName"`
	SourcePath  string `json:"sourcePath" yaml:"sourcePath"`

	InstalledBinaryPath string `json:"installedBinaryPath" yaml:"installedBinaryPath"`
	IconPath            string `json:"iconPath,omitempty" yaml:"iconPath,omitempty"`
	DesktopEntryPath    string `json:"desktopEntryPath" yaml:"desktopEntryPath"`
	MenuEntryPath       string `json:"menuEntryPath,omitempty" yaml:"menuEntryPath,omitempty"`
	DesktopShortcutPath string `json:"desktopShortcutPath,omitempty" yaml:"desktopShortcutPath,omitempty"`

	Categories      []string `json:"categories" yaml:"categories"`
	Terminal        bool     `json:"terminal" yaml:"terminal"`
	AcceptsFileArgs bool     `json:"acceptsFileArgs" yaml:"acceptsFileArgs"`
	Interpreter     string   `json:"interpreter,omitempty" yaml:"interpreter,omitempty"`

	Comment        string   `json:"comment,omitempty" yaml:"comment,omitempty"`
	GenericName    string   `json:"genericName,omitempty" yaml:"genericName,omitempty"`
	Keywords       []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	StartupWMClass string   `json:"startupWMClass,omitempty" yaml:"startupWMClass,omitempty"`

	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// OwnedPaths returns every non-empty artifact path of the record keyed by
// kind, in the order the artifacts are written during an install.
func (r ApplicationRecord) OwnedPaths() []OwnedPath {
	candidates := []OwnedPath{
		{Kind: ArtifactBinary, Path: r.InstalledBinaryPath},
		{Kind: ArtifactIcon, Path: r.IconPath},
		{Kind: ArtifactDesktopEntry, Path: r.DesktopEntryPath},
		{Kind: ArtifactMenuEntry, Path: r.MenuEntryPath},
		{Kind: ArtifactDesktopShortcut, Path: r.DesktopShortcutPath},
	}
	owned := make([]OwnedPath, 0, len(candidates))
	for _, c := range candidates {
		if c.Path != "" {
			owned = append(owned, c)
		}
	}
	return owned
}

// Clone returns a deep copy of the record.
func (r ApplicationRecord) Clone() ApplicationRecord {
	c := r
	c.Categories = slices.Clone(r.Categories)
	c.Keywords = slices.Clone(r.Keywords)
	return c
}

// OwnedPath pairs an artifact kind with its location on disk.
type OwnedPath struct {
	Kind ArtifactKind `json:"kind" yaml:"kind"`
	Path string       `json:"path" yaml:"path"`
}

// NormalizeCategories trims, deduplicates and sorts category tags. Empty
// tags and any trailing ';' separators are dropped.
func NormalizeCategories(categories []string) []string {
	seen := make(map[string]bool, len(categories))
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		for _, part := range strings.Split(c, ";") {
			part = strings.TrimSpace(part)
			if part == "" || seen[part] {
				continue
			}
			seen[part] = true
			out = append(out, part)
		}
	}
	sort.Strings(out)
	return out
}
