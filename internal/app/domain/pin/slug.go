package pin

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/tourato/tourato-api/internal/app/models"
)

const slugBaseMaxLen = 200

var slugFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// slugify lowercases, folds diacritics, and collapses everything that is
// not alphanumeric into single hyphens.
func slugify(name string) string {
	folded, _, err := transform.String(slugFolder, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// NewSlug builds the immutable pin slug assigned at creation:
// "<category>-<slugified name>-<5 hex>". The random suffix keeps
// same-named pins unique within a city and category.
func NewSlug(category models.Category, name string) string {
	base := slugify(name)
	if len(base) > slugBaseMaxLen {
		base = base[:slugBaseMaxLen]
	}
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:5]
	return category.SlugPrefix() + "-" + base + "-" + suffix
}
