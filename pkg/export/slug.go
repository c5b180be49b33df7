package export

import (
	"strings"
	"time"
)

// Filename derives the export artifact name from document metadata: the
// snapshot title when present, otherwise the variant id plus the current
// date. Whitespace collapses to single hyphens and characters that are
// unsafe in filenames are stripped. The result always ends in ".pdf".
func Filename(title, variantID string, now time.Time) string {
	base := strings.TrimSpace(title)
	if base == "" {
		base = strings.TrimSpace(variantID) + " " + now.Format("2006-01-02")
	}
	slug := Slug(base)
	if slug == "" {
		slug = "document"
	}
	return slug + ".pdf"
}

// Slug collapses whitespace runs into single hyphens and drops characters
// that are not portable across filesystems.
func Slug(raw string) string {
	var builder strings.Builder
	builder.Grow(len(raw))

	pendingHyphen := false
	for _, r := range raw {
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if builder.Len() > 0 {
				pendingHyphen = true
			}
		case strings.ContainsRune(`/\:*?"<>|`, r):
			// dropped
		default:
			if pendingHyphen {
				builder.WriteByte('-')
				pendingHyphen = false
			}
			builder.WriteRune(r)
		}
	}
	return builder.String()
}
