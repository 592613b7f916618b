package scraper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/nDmitry/rssposter/internal/feed"
)

// ImageFinder looks up a representative image of an article page
type ImageFinder struct {
	timeout   time.Duration
	transport http.RoundTripper
}

// NewImageFinder creates an ImageFinder whose page fetches are bounded by timeout
func NewImageFinder(timeout time.Duration) *ImageFinder {
	return &ImageFinder{
		timeout:   timeout,
		transport: feed.Transport(),
	}
}

// Find fetches pageURL and returns the first image found in priority order:
// Open Graph, Twitter Card, then the first image inside <article>.
// It returns an empty string when the page has no image.
func (f *ImageFinder) Find(ctx context.Context, pageURL string) (string, error) {
	var imageURL string

	c := colly.NewCollector(
		colly.UserAgent(feed.UserAgent),
		colly.StdlibContext(ctx),
	)

	c.WithTransport(f.transport)
	c.SetRequestTimeout(f.timeout)

	c.OnHTML("html", func(e *colly.HTMLElement) {
		if found := extractImage(e.DOM); found != "" {
			imageURL = e.Request.AbsoluteURL(found)
		}
	})

	if err := c.Visit(pageURL); err != nil {
		return "", fmt.Errorf("could not visit %s: %w", pageURL, err)
	}

	return imageURL, nil
}
