package version

import "fmt"

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/arthur-debert/lbi/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/arthur-debert/lbi/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/arthur-debert/lbi/internal/version.Date={{.Date}}
)

// Info is the build information in serializable form
type Info struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
}

// Get returns the build information
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// String renders the multi-line form printed by "lbi version"
func (i Info) String() string {
	return fmt.Sprintf("lbi version %s\n  commit: %s\n  built:  %s\n", i.Version, i.Commit, i.Date)
}
