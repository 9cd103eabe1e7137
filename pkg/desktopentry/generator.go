package desktopentry

import (
	"strings"

	"github.com/arthur-debert/lbi/pkg/types"
)

// GroupHeader is the main group of a desktop entry
const GroupHeader = "[Desktop Entry]"

// Options holds the configurable parts of generated entries.
type Options struct {
	// GenericIcon is used when a record has no icon.
	GenericIcon string
	// DefaultCategories are used when a record has none.
	DefaultCategories []string
	// StartupNotify emits StartupNotify=true.
	StartupNotify bool
}

// DefaultOptions returns the stock generator options
func DefaultOptions() Options {
	return Options{
		GenericIcon:       "application-x-executable",
		DefaultCategories: []string{"Utility"},
		StartupNotify:     true,
	}
}

// Generator renders desktop entries
type Generator struct {
	opts Options
}

// NewGenerator creates a Generator. Empty option fields fall back to the
// defaults.
func NewGenerator(opts Options) *Generator {
	defaults := DefaultOptions()
	if opts.GenericIcon == "" {
		opts.GenericIcon = defaults.GenericIcon
	}
	if len(opts.DefaultCategories) == 0 {
		opts.DefaultCategories = defaults.DefaultCategories
	}
	return &Generator{opts: opts}
}

// Render produces the desktop entry for rec.
func (g *Generator) Render(rec types.ApplicationRecord) []byte {
	var b strings.Builder
	line := func(key, value string) {
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(value)
		b.WriteByte('\n')
	}

	b.WriteString(GroupHeader)
	b.WriteByte('\n')
	line("Type", "Application")
	line("Name", escapeValue(rec.DisplayName))
	if rec.GenericName != "" {
		line("GenericName", escapeValue(rec.GenericName))
	}
	if rec.Comment != "" {
		line("Comment", escapeValue(rec.Comment))
	}
	line("Exec", escapeValue(Exec(rec)))
	line("TryExec", escapeValue(rec.InstalledBinaryPath))

	icon := rec.IconPath
	if icon == "" {
		icon = g.opts.GenericIcon
	}
	line("Icon", escapeValue(icon))
	line("Terminal", boolValue(rec.Terminal))
	if g.opts.StartupNotify {
		line("StartupNotify", "true")
	}

	categories := types.NormalizeCategories(rec.Categories)
	if len(categories) == 0 {
		categories = types.NormalizeCategories(g.opts.DefaultCategories)
	}
	line("Categories", listValue(categories))

	if len(rec.Keywords) > 0 {
		line("Keywords", listValue(rec.Keywords))
	}
	if rec.StartupWMClass != "" {
		line("StartupWMClass", escapeValue(rec.StartupWMClass))
	}

	return []byte(b.String())
}

// Exec builds the unescaped Exec command line for rec:
// [interpreter ]<binary>[ %F].
func Exec(rec types.ApplicationRecord) string {
	var args []string
	if rec.Interpreter != "" {
		args = append(args, quoteArg(rec.Interpreter))
	}
	args = append(args, quoteArg(rec.InstalledBinaryPath))
	if rec.AcceptsFileArgs {
		args = append(args, "%F")
	}
	return strings.Join(args, " ")
}

// reserved characters force an Exec argument to be quoted
const reserved = " \t\n\"'\\><~|&;$*?#()`"

func quoteArg(arg string) string {
	arg = strings.ReplaceAll(arg, "%", "%%")
	if !strings.ContainsAny(arg, reserved) {
		return arg
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range arg {
		switch r {
		case '"', '`', '$', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

var valueEscaper = strings.NewReplacer(
	`\`, `\\`,
	"\n", `\n`,
	"\t", `\t`,
	"\r", `\r`,
)

func escapeValue(s string) string {
	return valueEscaper.Replace(s)
}

func listValue(items []string) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString(strings.ReplaceAll(escapeValue(item), ";", `\;`))
		b.WriteByte(';')
	}
	return b.String()
}

func boolValue(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
