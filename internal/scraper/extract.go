package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// extractImage returns the image URL of a page following the priority:
// 1. Open Graph image meta tag.
// 2. Twitter Card image meta tag.
// 3. First image inside an <article> element.
// Only the first tag of each kind is considered.
func extractImage(doc *goquery.Selection) string {
	if og := attr(doc.Find(`meta[property="og:image"]`), "content"); og != "" {
		return og
	}

	if twitter := attr(doc.Find(`meta[name="twitter:image"]`), "content"); twitter != "" {
		return twitter
	}

	return attr(doc.Find("article img"), "src")
}

func attr(selection *goquery.Selection, name string) string {
	value, _ := selection.First().Attr(name)
	return strings.TrimSpace(value)
}
