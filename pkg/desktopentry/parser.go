package desktopentry

import (
	"bufio"
	"io"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/lbi/pkg/errors"
	"github.com/arthur-debert/lbi/pkg/types"
	"github.com/spf13/afero"
)

// Entry holds the unescaped key/value pairs of a [Desktop Entry] group.
type Entry map[string]string

// Parse reads the main group of a desktop entry. Other groups, comments,
// blank lines and localized keys (Name[de]=...) are skipped.
func Parse(r io.Reader) (Entry, error) {
	entry := Entry{}
	inMain := false
	seenMain := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			inMain = line == GroupHeader
			seenMain = seenMain || inMain
			continue
		}
		if !inMain {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" || strings.Contains(key, "[") {
			continue
		}
		entry[key] = unescapeValue(strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrSourceUnreadable, "cannot read desktop entry")
	}
	if !seenMain {
		return nil, errors.New(errors.ErrInvalidInput, "no [Desktop Entry] group found")
	}
	return entry, nil
}

// ParseFile parses the desktop entry at path on fs.
func ParseFile(fs afero.Fs, path string) (Entry, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSourceUnreadable, "cannot open %s", path).
			WithDetail("path", path)
	}
	defer func() { _ = f.Close() }()

	entry, err := Parse(f)
	if err != nil {
		if lbiErr, ok := err.(*errors.LbiError); ok {
			return nil, lbiErr.WithDetail("path", path)
		}
		return nil, err
	}
	return entry, nil
}

// List splits a ';' separated value, honouring "\;" escapes.
func (e Entry) List(key string) []string {
	value := e[key]
	if value == "" {
		return nil
	}
	var items []string
	var cur strings.Builder
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c == '\\' && i+1 < len(value) && value[i+1] == ';' {
			cur.WriteByte(';')
			i++
			continue
		}
		if c == ';' {
			if s := strings.TrimSpace(cur.String()); s != "" {
				items = append(items, s)
			}
			cur.Reset()
			continue
		}
		cur.WriteByte(c)
	}
	if s := strings.TrimSpace(cur.String()); s != "" {
		items = append(items, s)
	}
	return items
}

// Bool reads a boolean key; anything but "true" is false.
func (e Entry) Bool(key string) bool {
	return strings.EqualFold(e[key], "true")
}

// AcceptsFileArgs reports whether Exec carries a file or URL field code.
func (e Entry) AcceptsFileArgs() bool {
	exec := e["Exec"]
	for _, code := range []string{"%f", "%F", "%u", "%U"} {
		if strings.Contains(exec, code) {
			return true
		}
	}
	return false
}

// Prefill copies the entry's metadata into req wherever req leaves a
// field empty. Boolean flags are OR'ed. The icon is only taken when it
// is an absolute path that iconExists accepts.
func (e Entry) Prefill(req *types.InstallRequest, iconExists func(string) bool) {
	setIfEmpty := func(dst *string, key string) {
		if *dst == "" {
			*dst = e[key]
		}
	}
	setIfEmpty(&req.DisplayName, "Name")
	setIfEmpty(&req.Comment, "Comment")
	setIfEmpty(&req.GenericName, "GenericName")
	setIfEmpty(&req.StartupWMClass, "StartupWMClass")

	if len(req.Categories) == 0 {
		req.Categories = e.List("Categories")
	}
	if len(req.Keywords) == 0 {
		req.Keywords = e.List("Keywords")
	}
	req.Terminal = req.Terminal || e.Bool("Terminal")
	req.AcceptsFileArgs = req.AcceptsFileArgs || e.AcceptsFileArgs()

	if req.IconPath == "" {
		if icon := e["Icon"]; filepath.IsAbs(icon) && iconExists != nil && iconExists(icon) {
			req.IconPath = icon
		}
	}
}

func unescapeValue(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 's':
			b.WriteByte(' ')
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		default:
			// keep unknown escapes (e.g. "\;" in lists) intact
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
