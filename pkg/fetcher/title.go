package fetcher

import "strings"

const (
	// UnknownTitle is returned when a text carries no title header.
	UnknownTitle = "Unknown Title"

	titlePrefix = "Title:"
)

// ExtractTitle returns the remainder of the first line starting with
// "Title:", trimmed. Only that first line is considered; an empty remainder
// yields UnknownTitle.
func ExtractTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if !strings.HasPrefix(line, titlePrefix) {
			continue
		}
		if title := strings.TrimSpace(strings.TrimPrefix(line, titlePrefix)); title != "" {
			return title
		}
		return UnknownTitle
	}
	return UnknownTitle
}

// ResolveTitle prefers the "Title:" header and falls back to the HTML title.
func ResolveTitle(doc *Document) string {
	title := ExtractTitle(doc.Text)
	if title == UnknownTitle && doc.HTMLTitle != "" {
		return doc.HTMLTitle
	}
	return title
}
