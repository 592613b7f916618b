package entity

import (
	"strings"
	"time"
)

// Entry is a single article item read from a feed source.
type Entry struct {
	Title string
	// Link is the canonical article URL and serves as the entry identifier.
	Link string
}

// Valid reports whether the entry has both a title and a link.
func (e Entry) Valid() bool {
	return strings.TrimSpace(e.Title) != "" && strings.TrimSpace(e.Link) != ""
}

// Post is what gets sent to the channel.
type Post struct {
	Title    string
	Link     string
	ImageURL string
}

// Publication records a post that was published successfully.
type Publication struct {
	Title    string
	Link     string
	ImageURL string
	// Source is the feed URL the entry came from.
	Source      string
	PublishedAt time.Time
}
