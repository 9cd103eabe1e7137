package paths

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/arthur-debert/lbi/pkg/errors"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeID derives an application id from a display name: accents are
// stripped, letters lowercased, and every run of characters outside
// [a-z0-9] becomes a single '-'. Leading and trailing dashes are trimmed.
func NormalizeID(name string) (string, error) {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	dash := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash {
			b.WriteByte('-')
			dash = true
		}
	}

	id := strings.Trim(b.String(), "-")
	if id == "" {
		return "", errors.Newf(errors.ErrInvalidIdentifier, "name %q does not yield a usable id", name).
			WithDetail("name", name)
	}
	return id, nil
}

// DisambiguateID returns the first of base-2, base-3, ... for which taken
// reports false.
func DisambiguateID(base string, taken func(id string) bool) string {
	for n := 2; ; n++ {
		candidate := base + "-" + strconv.Itoa(n)
		if !taken(candidate) {
			return candidate
		}
	}
}
