package terminal

import (
	_ "embed"

	"github.com/arthur-debert/lbi/pkg/errors"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// ColorDef represents an adaptive color definition in YAML
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef represents a style definition in YAML
type StyleDef struct {
	Bold       bool   `yaml:"bold,omitempty"`
	Italic     bool   `yaml:"italic,omitempty"`
	Foreground string `yaml:"foreground,omitempty"`
	Width      int    `yaml:"width,omitempty"`
}

// StylesConfig represents the complete styles configuration
type StylesConfig struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

//go:embed styles.yaml
var embeddedStyles []byte

// Styles maps semantic names to lipgloss styles
type Styles map[string]lipgloss.Style

// LoadStyles parses a styles definition
func LoadStyles(data []byte) (Styles, error) {
	var cfg StylesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to parse styles")
	}

	colors := make(map[string]lipgloss.AdaptiveColor, len(cfg.Colors))
	for name, def := range cfg.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	styles := make(Styles, len(cfg.Styles))
	for name, def := range cfg.Styles {
		style := lipgloss.NewStyle().Bold(def.Bold).Italic(def.Italic)
		if c, ok := colors[def.Foreground]; ok {
			style = style.Foreground(c)
		}
		if def.Width > 0 {
			style = style.Width(def.Width)
		}
		styles[name] = style
	}
	return styles, nil
}

// DefaultStyles returns the embedded styles. A broken embedded file
// degrades to unstyled output.
func DefaultStyles() Styles {
	styles, err := LoadStyles(embeddedStyles)
	if err != nil {
		return Styles{}
	}
	return styles
}

// Get returns the named style, or a plain one
func (s Styles) Get(name string) lipgloss.Style {
	if style, ok := s[name]; ok {
		return style
	}
	return lipgloss.NewStyle()
}
