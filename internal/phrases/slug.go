package phrases

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	maxSlugLength = 60
	slugFallback  = "phrase"
	audioFileExt  = ".mp3"
)

// buildObjectName derives the storage name for one audio artifact:
// <epoch_millis>_<slug>.mp3. The millisecond prefix keeps names unique per
// process; the no-overwrite upload catches the rare same-slug collision.
func buildObjectName(translation string, now time.Time) string {
	return fmt.Sprintf("%d_%s%s", now.UnixMilli(), slugify(translation), audioFileExt)
}

// slugify folds the translation to a filesystem-safe ASCII token: diacritics
// stripped, anything outside [A-Za-z0-9_-] and whitespace dropped, whitespace
// runs collapsed to underscores, bounded length, fixed fallback when nothing
// survives.
func slugify(text string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn))),
		text,
	)
	if err != nil {
		folded = text
	}

	var b strings.Builder
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	slug := strings.Join(strings.Fields(b.String()), "_")
	if len(slug) > maxSlugLength {
		slug = slug[:maxSlugLength]
	}
	if slug == "" {
		slug = slugFallback
	}
	return slug
}
