package feed

import (
	"fmt"

	"github.com/gorilla/feeds"
	"github.com/nDmitry/rssposter/internal/entity"
)

// Channel describes the activity feed itself
type Channel struct {
	Title string
	URL   string
}

// Generator renders recent publications as an RSS or Atom feed
type Generator struct{}

// Generate creates a feed from publications and returns it as a byte array
func (g *Generator) Generate(channel Channel, pubs []entity.Publication, params *entity.FeedParams) ([]byte, error) {
	feed := &feeds.Feed{
		Title:       channel.Title,
		Link:        &feeds.Link{Href: channel.URL},
		Description: "Articles recently published to " + channel.Title,
	}

	for _, p := range pubs {
		item := &feeds.Item{
			Id:          p.Link,
			Title:       p.Title,
			Link:        &feeds.Link{Href: p.Link},
			Description: "Source: " + p.Source,
			Created:     p.PublishedAt,
		}

		if p.ImageURL != "" {
			item.Enclosure = &feeds.Enclosure{
				Url:    p.ImageURL,
				Type:   imageTypeFromURL(p.ImageURL),
				Length: "0",
			}
		}

		feed.Items = append(feed.Items, item)

		if feed.Created.IsZero() || p.PublishedAt.After(feed.Created) {
			feed.Created = p.PublishedAt
		}
	}

	var content string
	var err error

	switch params.Format {
	case entity.FormatRSS:
		content, err = feed.ToRss()
	case entity.FormatAtom:
		content, err = feed.ToAtom()
	default:
		return nil, fmt.Errorf("unsupported feed format: %s", params.Format)
	}

	if err != nil {
		return nil, fmt.Errorf("could not marshal activity feed: %w", err)
	}

	return []byte(content), nil
}
