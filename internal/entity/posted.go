package entity

import "slices"

// PostedSet holds the links of entries that have already been published.
type PostedSet map[string]struct{}

func NewPostedSet(links ...string) PostedSet {
	posted := make(PostedSet, len(links))

	for _, link := range links {
		posted.Add(link)
	}

	return posted
}

func (p PostedSet) Has(link string) bool {
	_, ok := p[link]
	return ok
}

// Add inserts the link and reports whether it was not present before.
func (p PostedSet) Add(link string) bool {
	if p.Has(link) {
		return false
	}

	p[link] = struct{}{}

	return true
}

func (p PostedSet) Len() int {
	return len(p)
}

// Sorted returns the links in lexical order.
func (p PostedSet) Sorted() []string {
	links := make([]string, 0, len(p))

	for link := range p {
		links = append(links, link)
	}

	slices.Sort(links)

	return links
}
