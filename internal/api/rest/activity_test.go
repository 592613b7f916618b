package rest_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nDmitry/rssposter/internal/api/rest"
	"github.com/nDmitry/rssposter/internal/entity"
	"github.com/nDmitry/rssposter/internal/feed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockActivity is a mock implementation of the Activity interface
type MockActivity struct {
	RecentFunc func(limit int) []entity.Publication
	StatusFunc func() (time.Time, int)
}

func (m *MockActivity) Recent(limit int) []entity.Publication {
	return m.RecentFunc(limit)
}

func (m *MockActivity) Status() (time.Time, int) {
	return m.StatusFunc()
}

// MockGenerator is a mock implementation of the Generator interface
type MockGenerator struct {
	GenerateFunc func(channel feed.Channel, pubs []entity.Publication, params *entity.FeedParams) ([]byte, error)
}

func (m *MockGenerator) Generate(channel feed.Channel, pubs []entity.Publication, params *entity.FeedParams) ([]byte, error) {
	return m.GenerateFunc(channel, pubs, params)
}

var testChannel = feed.Channel{Title: "@AnimeNewsuz", URL: "https://t.me/AnimeNewsuz"}

func TestActivityHandler_GetFeed(t *testing.T) {
	rssBody := "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<rss version=\"2.0\"><channel><title>@AnimeNewsuz</title></channel></rss>"
	atomBody := "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<feed xmlns=\"http://www.w3.org/2005/Atom\"><title>@AnimeNewsuz</title></feed>"

	pubs := []entity.Publication{
		{Title: "Second", Link: "https://example.com/2", Source: "https://example.com/rss.xml"},
		{Title: "First", Link: "https://example.com/1", Source: "https://example.com/rss.xml"},
	}

	tests := []struct {
		name               string
		url                string
		setupMocks         func(activity *MockActivity, generator *MockGenerator)
		expectedStatusCode int
		expectedHeaders    map[string]string
		expectedBodyPart   string
	}{
		{
			name: "RSS feed with default parameters",
			url:  "/feed",
			setupMocks: func(mockActivity *MockActivity, mockGenerator *MockGenerator) {
				mockActivity.RecentFunc = func(limit int) []entity.Publication {
					assert.Equal(t, entity.FeedLimitDefault, limit)
					return pubs
				}

				mockGenerator.GenerateFunc = func(channel feed.Channel, got []entity.Publication, params *entity.FeedParams) ([]byte, error) {
					assert.Equal(t, testChannel, channel)
					assert.Equal(t, pubs, got)
					assert.Equal(t, entity.FormatRSS, params.Format)
					return []byte(rssBody), nil
				}
			},
			expectedStatusCode: http.StatusOK,
			expectedHeaders: map[string]string{
				"Content-Type":  "application/rss+xml; charset=utf-8",
				"Cache-Control": "no-cache",
			},
			expectedBodyPart: "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<rss",
		},
		{
			name: "Atom feed with a limit",
			url:  "/feed?format=atom&limit=1",
			setupMocks: func(mockActivity *MockActivity, mockGenerator *MockGenerator) {
				mockActivity.RecentFunc = func(limit int) []entity.Publication {
					assert.Equal(t, 1, limit)
					return pubs[:1]
				}

				mockGenerator.GenerateFunc = func(_ feed.Channel, got []entity.Publication, params *entity.FeedParams) ([]byte, error) {
					assert.Len(t, got, 1)
					assert.Equal(t, entity.FormatAtom, params.Format)
					return []byte(atomBody), nil
				}
			},
			expectedStatusCode: http.StatusOK,
			expectedHeaders: map[string]string{
				"Content-Type": "application/atom+xml; charset=utf-8",
			},
			expectedBodyPart: "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<feed",
		},
		{
			name: "Generator error",
			url:  "/feed",
			setupMocks: func(mockActivity *MockActivity, mockGenerator *MockGenerator) {
				mockActivity.RecentFunc = func(_ int) []entity.Publication {
					return nil
				}

				mockGenerator.GenerateFunc = func(_ feed.Channel, _ []entity.Publication, _ *entity.FeedParams) ([]byte, error) {
					return nil, errors.New("generator error")
				}
			},
			expectedStatusCode: http.StatusInternalServerError,
			expectedHeaders: map[string]string{
				"Content-Type": "application/json",
			},
			expectedBodyPart: "generator error",
		},
		{
			name:               "Invalid format",
			url:                "/feed?format=json",
			setupMocks:         func(_ *MockActivity, _ *MockGenerator) {},
			expectedStatusCode: http.StatusBadRequest,
			expectedHeaders: map[string]string{
				"Content-Type": "application/json",
			},
			expectedBodyPart: "format must be rss or atom",
		},
		{
			name:               "Invalid limit",
			url:                "/feed?limit=abc",
			setupMocks:         func(_ *MockActivity, _ *MockGenerator) {},
			expectedStatusCode: http.StatusBadRequest,
			expectedHeaders: map[string]string{
				"Content-Type": "application/json",
			},
			expectedBodyPart: "limit must be a valid integer",
		},
		{
			name:               "Limit out of range",
			url:                "/feed?limit=0",
			setupMocks:         func(_ *MockActivity, _ *MockGenerator) {},
			expectedStatusCode: http.StatusBadRequest,
			expectedHeaders: map[string]string{
				"Content-Type": "application/json",
			},
			expectedBodyPart: "limit must be between 1 and 200",
		},
		{
			name:               "Wrong method",
			url:                "/feed",
			setupMocks:         func(_ *MockActivity, _ *MockGenerator) {},
			expectedStatusCode: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockActivity := &MockActivity{}
			mockGenerator := &MockGenerator{}
			tt.setupMocks(mockActivity, mockGenerator)

			mux := http.NewServeMux()
			rest.NewActivityHandler(mux, mockActivity, mockGenerator, testChannel)

			method := http.MethodGet
			if tt.expectedStatusCode == http.StatusMethodNotAllowed {
				method = http.MethodPost
			}

			req := httptest.NewRequest(method, tt.url, nil)
			rec := httptest.NewRecorder()

			mux.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatusCode, rec.Code)

			for key, value := range tt.expectedHeaders {
				assert.Equal(t, value, rec.Header().Get(key))
			}

			body, err := io.ReadAll(rec.Body)
			require.NoError(t, err)
			assert.Contains(t, string(body), tt.expectedBodyPart)
		})
	}
}

func TestActivityHandler_GetHealth(t *testing.T) {
	lastRun := time.Date(2026, 10, 15, 8, 30, 0, 0, time.UTC)

	tests := []struct {
		name            string
		lastRun         time.Time
		posted          int
		expectedLastRun *time.Time
	}{
		{
			name:            "Before the first run",
			lastRun:         time.Time{},
			posted:          0,
			expectedLastRun: nil,
		},
		{
			name:            "After a run",
			lastRun:         lastRun,
			posted:          42,
			expectedLastRun: &lastRun,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockActivity := &MockActivity{
				StatusFunc: func() (time.Time, int) {
					return tt.lastRun, tt.posted
				},
			}

			mux := http.NewServeMux()
			rest.NewActivityHandler(mux, mockActivity, &MockGenerator{}, testChannel)

			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			rec := httptest.NewRecorder()

			mux.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var resp struct {
				Status  string     `json:"status"`
				Posted  int        `json:"posted"`
				LastRun *time.Time `json:"lastRun"`
			}

			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, "ok", resp.Status)
			assert.Equal(t, tt.posted, resp.Posted)

			if tt.expectedLastRun == nil {
				assert.Nil(t, resp.LastRun)
			} else {
				require.NotNil(t, resp.LastRun)
				assert.True(t, tt.expectedLastRun.Equal(*resp.LastRun))
			}
		})
	}
}
