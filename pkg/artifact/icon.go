package artifact

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/lbi/pkg/errors"
	"github.com/beevik/etree"
	"github.com/spf13/afero"
)

// ValidateIcon checks an icon before it is copied. SVG files must parse
// as XML with an <svg> root element; other formats are accepted as-is.
func ValidateIcon(fs afero.Fs, path string) error {
	if !strings.EqualFold(filepath.Ext(path), ".svg") {
		return nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrSourceUnreadable, "cannot read icon %s", path).
			WithDetail("path", path)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return errors.Wrapf(err, errors.ErrSourceUnreadable, "icon %s is not valid SVG", path).
			WithDetail("path", path)
	}
	root := doc.Root()
	if root == nil || root.Tag != "svg" {
		return errors.Newf(errors.ErrSourceUnreadable, "icon %s has no <svg> root element", path).
			WithDetail("path", path)
	}
	return nil
}

// IconExt returns the extension an installed icon keeps, lowercased.
func IconExt(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
