package config

import (
	"bytes"
	"strings"

	"github.com/arthur-debert/lbi/pkg/errors"
	"github.com/pelletier/go-toml/v2"
)

const generatedHeader = `# lbi configuration
# Generated by "lbi genconfig". Lines starting with # are ignored.

`

// lockDocument renders durations the way they are written by hand
type lockDocument struct {
	Retries    int    `toml:"retries"`
	Backoff    string `toml:"backoff"`
	MaxBackoff string `toml:"max_backoff"`
}

type document struct {
	Root         string       `toml:"root"`
	Registry     Registry     `toml:"registry"`
	Lock         lockDocument `toml:"lock"`
	Menu         Menu         `toml:"menu"`
	DesktopEntry DesktopEntry `toml:"desktop_entry"`
	Desktop      Desktop      `toml:"desktop"`
}

// Marshal renders cfg as a TOML config file that Load reads back to the
// same values.
func Marshal(cfg *Config) ([]byte, error) {
	doc := document{
		Root:     cfg.Root,
		Registry: cfg.Registry,
		Lock: lockDocument{
			Retries:    cfg.Lock.Retries,
			Backoff:    cfg.Lock.Backoff.String(),
			MaxBackoff: cfg.Lock.MaxBackoff.String(),
		},
		Menu:         cfg.Menu,
		DesktopEntry: cfg.DesktopEntry,
		Desktop:      cfg.Desktop,
	}
	if doc.DesktopEntry.DefaultCategories == nil {
		doc.DesktopEntry.DefaultCategories = []string{}
	}

	var buf bytes.Buffer
	buf.WriteString(generatedHeader)
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(false)
	if err := enc.Encode(doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode configuration")
	}
	return buf.Bytes(), nil
}

// GenerateConfigContent renders cfg with every value commented out, as a
// starting point for a user file.
func GenerateConfigContent(cfg *Config) (string, error) {
	data, err := Marshal(cfg)
	if err != nil {
		return "", err
	}
	return commentOutConfigValues(string(data)), nil
}

// commentOutConfigValues comments out every assignment line, leaving
// blank lines, comments and section headers alone.
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "", strings.HasPrefix(trimmed, "#"):
			result = append(result, line)
		case strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"):
			result = append(result, line)
		default:
			result = append(result, "# "+line)
		}
	}

	return strings.Join(result, "\n")
}
