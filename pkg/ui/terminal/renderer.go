// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/lbi/pkg/ui/view"
	"github.com/pterm/pterm"
)

// Renderer draws view sections with lipgloss styles and pterm tables
type Renderer struct {
	output io.Writer
	styles Styles
}

// New creates a new terminal renderer
func New(w io.Writer) *Renderer {
	return &Renderer{output: w, styles: DefaultStyles()}
}

// RenderResult renders any result type with rich terminal formatting
func (r *Renderer) RenderResult(result interface{}) error {
	sections, ok := view.Build(result)
	if !ok {
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		if err := r.section(&b, s); err != nil {
			return err
		}
	}
	_, err := io.WriteString(r.output, b.String())
	return err
}

func (r *Renderer) section(b *strings.Builder, s view.Section) error {
	if s.Title != "" {
		b.WriteString(r.styles.Get("Title").Render(s.Title) + "\n")
	}
	for _, f := range s.Fields {
		value := r.styles.Get("Value").Render(f.Value)
		if strings.HasPrefix(f.Value, "/") {
			value = r.styles.Get("Path").Render(f.Value)
		}
		b.WriteString("  " + r.styles.Get("Label").Render(f.Label) + value + "\n")
	}
	if s.Table != nil {
		data := pterm.TableData{s.Table.Header}
		for _, row := range s.Table.Rows {
			data = append(data, r.styleRow(row))
		}
		table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return err
		}
		b.WriteString(table + "\n")
	}
	for _, l := range s.Diff {
		line := string(l.Op) + l.Text
		switch l.Op {
		case view.DiffInsert:
			line = r.styles.Get("Insert").Render(line)
		case view.DiffDelete:
			line = r.styles.Get("Delete").Render(line)
		}
		b.WriteString(line + "\n")
	}
	for _, n := range s.Notes {
		b.WriteString(r.styles.Get("Note").Render(n) + "\n")
	}
	return nil
}

// styleRow colors artifact states
func (r *Renderer) styleRow(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		switch cell {
		case "present":
			out[i] = r.styles.Get("Present").Render(cell)
		case "missing":
			out[i] = r.styles.Get("Missing").Render(cell)
		default:
			out[i] = cell
		}
	}
	return out
}

// RenderError renders an error with appropriate formatting
func (r *Renderer) RenderError(err error) error {
	info := view.NewErrorInfo(err)
	out := pterm.Error.Sprintln(info.Message)
	if info.Hint != "" {
		out += r.styles.Get("Hint").Render(info.Hint) + "\n"
	}
	_, werr := io.WriteString(r.output, out)
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := io.WriteString(r.output, pterm.Success.Sprintln(msg))
	return err
}
