// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/arthur-debert/lbi/pkg/ui/view"
)

// Renderer provides plain text output without colors or styling
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) *Renderer {
	return &Renderer{output: output}
}

// RenderResult renders any result type as plain text
func (r *Renderer) RenderResult(result interface{}) error {
	sections, ok := view.Build(result)
	if !ok {
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
	for i, s := range sections {
		if i > 0 {
			if _, err := fmt.Fprintln(r.output); err != nil {
				return err
			}
		}
		if err := r.section(s); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) section(s view.Section) error {
	var b strings.Builder
	if s.Title != "" {
		b.WriteString(s.Title + "\n")
	}

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	for _, f := range s.Fields {
		fmt.Fprintf(tw, "  %s:\t%s\n", f.Label, f.Value)
	}
	if s.Table != nil {
		fmt.Fprintf(tw, "%s\n", strings.Join(s.Table.Header, "\t"))
		for _, row := range s.Table.Rows {
			fmt.Fprintf(tw, "%s\n", strings.Join(row, "\t"))
		}
	}
	_ = tw.Flush()

	for _, l := range s.Diff {
		b.WriteString(string(l.Op) + l.Text + "\n")
	}
	for _, n := range s.Notes {
		b.WriteString(n + "\n")
	}

	_, err := io.WriteString(r.output, b.String())
	return err
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	info := view.NewErrorInfo(err)
	out := fmt.Sprintf("Error: %s (%s)\n", info.Message, info.Code)
	if info.Hint != "" {
		out += "Hint: " + info.Hint + "\n"
	}
	_, werr := io.WriteString(r.output, out)
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}
