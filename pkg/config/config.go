package config

import (
	"time"

	"github.com/arthur-debert/lbi/pkg/desktopentry"
	"github.com/arthur-debert/lbi/pkg/lock"
	"github.com/arthur-debert/lbi/pkg/paths"
)

// Registry selects the registry backing store
type Registry struct {
	Backend string `koanf:"backend" toml:"backend" json:"backend" yaml:"backend"`
}

// Lock holds the retry policy for the whole-registry lock
type Lock struct {
	Retries    int           `koanf:"retries" toml:"retries" json:"retries" yaml:"retries"`
	Backoff    time.Duration `koanf:"backoff" toml:"-" json:"backoff" yaml:"backoff"`
	MaxBackoff time.Duration `koanf:"max_backoff" toml:"-" json:"maxBackoff" yaml:"maxBackoff"`
}

// Menu controls the export of desktop entries to the application menu
type Menu struct {
	Export          bool   `koanf:"export" toml:"export" json:"export" yaml:"export"`
	Dir             string `koanf:"dir" toml:"dir" json:"dir" yaml:"dir"`
	Prefix          string `koanf:"prefix" toml:"prefix" json:"prefix" yaml:"prefix"`
	RefreshDatabase bool   `koanf:"refresh_database" toml:"refresh_database" json:"refreshDatabase" yaml:"refreshDatabase"`
}

// DesktopEntry holds the generator defaults
type DesktopEntry struct {
	GenericIcon       string   `koanf:"generic_icon" toml:"generic_icon" json:"genericIcon" yaml:"genericIcon"`
	DefaultCategories []string `koanf:"default_categories" toml:"default_categories" json:"defaultCategories" yaml:"defaultCategories"`
	StartupNotify     bool     `koanf:"startup_notify" toml:"startup_notify" json:"startupNotify" yaml:"startupNotify"`
}

// Desktop locates the user's Desktop directory for shortcuts
type Desktop struct {
	Dir string `koanf:"dir" toml:"dir" json:"dir" yaml:"dir"`
}

// Config is the effective lbi configuration
type Config struct {
	Root         string       `koanf:"root" toml:"root" json:"root" yaml:"root"`
	Registry     Registry     `koanf:"registry" toml:"registry" json:"registry" yaml:"registry"`
	Lock         Lock         `koanf:"lock" toml:"lock" json:"lock" yaml:"lock"`
	Menu         Menu         `koanf:"menu" toml:"menu" json:"menu" yaml:"menu"`
	DesktopEntry DesktopEntry `koanf:"desktop_entry" toml:"desktop_entry" json:"desktopEntry" yaml:"desktopEntry"`
	Desktop      Desktop      `koanf:"desktop" toml:"desktop" json:"desktop" yaml:"desktop"`

	// Source is the user file that was loaded, empty when none was
	Source string `koanf:"-" toml:"-" json:"source,omitempty" yaml:"source,omitempty"`
}

// LockPolicy converts the lock section into a lock.Policy
func (c *Config) LockPolicy() lock.Policy {
	return lock.Policy{
		Retries:    c.Lock.Retries,
		Backoff:    c.Lock.Backoff,
		MaxBackoff: c.Lock.MaxBackoff,
	}
}

// GeneratorOptions converts the desktop_entry section into generator options
func (c *Config) GeneratorOptions() desktopentry.Options {
	return desktopentry.Options{
		GenericIcon:       c.DesktopEntry.GenericIcon,
		DefaultCategories: append([]string(nil), c.DesktopEntry.DefaultCategories...),
		StartupNotify:     c.DesktopEntry.StartupNotify,
	}
}

// Host returns the host directories exports are written to. The menu
// directory is kept even when export is off so stale exports still get
// swept.
func (c *Config) Host() paths.Host {
	return paths.Host{
		MenuDir:    c.Menu.Dir,
		DesktopDir: c.Desktop.Dir,
		Prefix:     c.Menu.Prefix,
	}
}
