package job

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nDmitry/rssposter/internal/entity"
)

// MockFetcher is a mock implementation of the Fetcher interface
type MockFetcher struct {
	FetchFunc func(ctx context.Context, feedURL string) ([]entity.Entry, error)
}

func (m *MockFetcher) Fetch(ctx context.Context, feedURL string) ([]entity.Entry, error) {
	return m.FetchFunc(ctx, feedURL)
}

// feeds returns a MockFetcher serving fixed entries per URL; unknown URLs fail
func feeds(byURL map[string][]entity.Entry) *MockFetcher {
	return &MockFetcher{
		FetchFunc: func(_ context.Context, feedURL string) ([]entity.Entry, error) {
			entries, ok := byURL[feedURL]
			if !ok {
				return nil, errors.New("failed to detect feed type")
			}
			return entries, nil
		},
	}
}

// MockImageFinder is a mock implementation of the ImageFinder interface
type MockImageFinder struct {
	FindFunc func(ctx context.Context, pageURL string) (string, error)
}

func (m *MockImageFinder) Find(ctx context.Context, pageURL string) (string, error) {
	if m.FindFunc == nil {
		return "", nil
	}
	return m.FindFunc(ctx, pageURL)
}

// MockPublisher records published posts and fails for links in Fail
type MockPublisher struct {
	Fail  map[string]bool
	Posts []entity.Post
}

func (m *MockPublisher) Publish(_ context.Context, post entity.Post) error {
	if m.Fail[post.Link] {
		return errors.New("Bad Request: chat not found")
	}
	m.Posts = append(m.Posts, post)
	return nil
}

func (m *MockPublisher) Links() []string {
	links := make([]string, 0, len(m.Posts))
	for _, p := range m.Posts {
		links = append(links, p.Link)
	}
	return links
}

// MockStore records every saved snapshot
type MockStore struct {
	mu        sync.Mutex
	SaveErr   error
	Snapshots [][]string
}

func (m *MockStore) Load(context.Context) entity.PostedSet {
	return entity.NewPostedSet()
}

func (m *MockStore) Save(_ context.Context, posted entity.PostedSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Snapshots = append(m.Snapshots, posted.Sorted())
	return nil
}

func (m *MockStore) Close() error {
	return nil
}

func (m *MockStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.Snapshots)
}

// MockRecorder collects publications
type MockRecorder struct {
	Pubs []entity.Publication
	Runs int
}

func (m *MockRecorder) Record(p entity.Publication) {
	m.Pubs = append(m.Pubs, p)
}

func (m *MockRecorder) MarkRun(time.Time, int) {
	m.Runs++
}

func entries(links ...string) []entity.Entry {
	out := make([]entity.Entry, 0, len(links))
	for _, link := range links {
		out = append(out, entity.Entry{Title: "Title " + link, Link: link})
	}
	return out
}

func noSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}
