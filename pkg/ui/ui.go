// Package ui renders command results. Terminal output is styled with pterm
// and lipgloss, text output is plain, and json and yaml serialize the
// result values as they are.
package ui

import (
	"io"
	"os"

	"github.com/arthur-debert/lbi/pkg/errors"
	"github.com/arthur-debert/lbi/pkg/ui/json"
	"github.com/arthur-debert/lbi/pkg/ui/terminal"
	"github.com/arthur-debert/lbi/pkg/ui/text"
	"github.com/arthur-debert/lbi/pkg/ui/yaml"
)

// Renderer is the common interface for all output renderers.
type Renderer interface {
	// RenderResult renders a command result (records, lists, reports,
	// diffs)
	RenderResult(result interface{}) error

	// RenderError renders an error with its remediation hint
	RenderError(err error) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error
}

// NewRenderer creates a new renderer based on the specified format.
// It automatically detects terminal capabilities when format is Auto.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output)
		}
		return NewRenderer(FormatText, output)
	case FormatTerminal:
		return terminal.New(output), nil
	case FormatText:
		return text.New(output), nil
	case FormatJSON:
		return json.New(output), nil
	case FormatYAML:
		return yaml.New(output), nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format: %v", format)
	}
}
