package publisher

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// Telegram limits, in characters.
	maxCaptionLength = 1024
	maxMessageLength = 4096

	captionTemplate = "📰 %s\n\nBatafsil: %s"
	ellipsis        = "…"
	punctuation     = ",.;:!? "
)

// Caption combines title and link into the post text
func Caption(title, link string) string {
	return fmt.Sprintf(captionTemplate, title, link)
}

// fitCaption returns the caption, shortening the title so that the whole
// text fits into limit characters. The link is never shortened.
func fitCaption(title, link string, limit int) string {
	caption := Caption(title, link)

	if utf8.RuneCountInString(caption) <= limit {
		return caption
	}

	room := limit - utf8.RuneCountInString(Caption("", link))

	if room <= 0 {
		return Caption("", link)
	}

	return Caption(truncateAtWordBoundary(title, room), link)
}

// truncateAtWordBoundary cuts text to at most limit characters, ellipsis included
func truncateAtWordBoundary(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}

	if limit <= utf8.RuneCountInString(ellipsis) {
		return ellipsis
	}

	lastWordEnd := 0
	currentCount := 0

	for i, r := range text {
		if currentCount >= limit-1 {
			var truncated string

			if lastWordEnd > 0 {
				// Truncate at the last word boundary
				truncated = text[:lastWordEnd]
			} else {
				// If no word boundary found, just truncate at the limit
				truncated = text[:i]
			}

			// Remove trailing punctuation before adding ellipsis
			truncated = strings.TrimRight(truncated, punctuation)

			return truncated + ellipsis
		}

		if unicode.IsSpace(r) {
			lastWordEnd = i
		}

		currentCount++
	}

	return text
}
