package transform

import (
	"regexp"
	"strings"
)

var hashtagRe = regexp.MustCompile(`#([A-Za-z0-9_-]{2,})`)

// ExtractHashtags pulls hashtags out of free text: case-folded, deduplicated,
// first-occurrence order preserved.
func ExtractHashtags(text string) []string {
	matches := hashtagRe.FindAllStringSubmatch(text, -1)
	tags := make([]string, 0, len(matches))
	seen := map[string]struct{}{}
	for _, m := range matches {
		tag := strings.ToLower(m[1])
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}
