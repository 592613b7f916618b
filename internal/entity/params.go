package entity

import (
	"fmt"
	"net/http"
	"strconv"
)

const (
	FormatAtom = "atom"
	FormatRSS  = "rss"
)

const (
	FeedLimitDefault = 20
	FeedLimitMax     = 200
)

// FeedParams represents validated request parameters for the activity feed
type FeedParams struct {
	// Format is the feed format, either "atom" or "rss"
	Format string

	// Limit is the maximum number of publications in the feed
	Limit int
}

// NewFeedParamsFromRequest parses and validates request parameters and creates a new FeedParams
func NewFeedParamsFromRequest(r *http.Request) (*FeedParams, error) {
	qp := r.URL.Query()

	format := qp.Get("format")

	if format == "" {
		format = FormatRSS
	} else if format != FormatRSS && format != FormatAtom {
		return nil, fmt.Errorf("format must be %s or %s", FormatRSS, FormatAtom)
	}

	limit := FeedLimitDefault

	if limitStr := qp.Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)

		if err != nil {
			return nil, fmt.Errorf("limit must be a valid integer")
		}

		if limit < 1 || limit > FeedLimitMax {
			return nil, fmt.Errorf("limit must be between 1 and %d", FeedLimitMax)
		}
	}

	return &FeedParams{
		Format: format,
		Limit:  limit,
	}, nil
}
