package feed

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/nDmitry/rssposter/internal/entity"
)

// Source fetches and parses RSS/Atom feeds
type Source struct {
	parser *gofeed.Parser
}

// NewSource creates a Source that downloads feeds with client
func NewSource(client *http.Client) *Source {
	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = UserAgent

	return &Source{parser: parser}
}

// Fetch returns the feed entries in the order the feed lists them.
// Entries are returned as-is, malformed ones included.
func (s *Source) Fetch(ctx context.Context, feedURL string) ([]entity.Entry, error) {
	parsed, err := s.parser.ParseURLWithContext(feedURL, ctx)

	if err != nil {
		return nil, fmt.Errorf("could not parse feed %s: %w", feedURL, err)
	}

	entries := make([]entity.Entry, 0, len(parsed.Items))

	for _, item := range parsed.Items {
		if item == nil {
			entries = append(entries, entity.Entry{})
			continue
		}

		entries = append(entries, entity.Entry{
			Title: strings.TrimSpace(item.Title),
			Link:  strings.TrimSpace(item.Link),
		})
	}

	return entries, nil
}
