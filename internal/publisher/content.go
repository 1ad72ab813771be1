package publisher

import "strings"

// AssembleContent appends hashtags to the caption: a blank line after the
// body, each tag '#'-prefixed after stripping any '#' the author already
// typed, space-separated. Empty tags are dropped.
func AssembleContent(body string, hashtags []string) string {
	tags := make([]string, 0, len(hashtags))
	for _, tag := range hashtags {
		tag = strings.TrimSpace(strings.TrimLeft(tag, "#"))
		if tag == "" {
			continue
		}
		tags = append(tags, "#"+tag)
	}

	if len(tags) == 0 {
		return body
	}
	if body == "" {
		return strings.Join(tags, " ")
	}

	return body + "\n\n" + strings.Join(tags, " ")
}
