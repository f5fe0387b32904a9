package domain

import (
	"regexp"
	"slices"
	"strings"
)

var hashtagPattern = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)

// ExtractHashtags returns the normalised hashtag labels found in a tweet
// body: lowercased, deduplicated and sorted lexicographically.
func ExtractHashtags(body string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return nil
	}

	labels := make([]string, 0, len(matches))
	for _, m := range matches {
		labels = append(labels, strings.ToLower(m[1]))
	}
	slices.Sort(labels)
	return slices.Compact(labels)
}
