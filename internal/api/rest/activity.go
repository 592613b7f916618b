package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/nDmitry/rssposter/internal/app"
	"github.com/nDmitry/rssposter/internal/entity"
	"github.com/nDmitry/rssposter/internal/feed"
)

// ActivityHandler serves what the bot has published recently
type ActivityHandler struct {
	activity  Activity
	generator Generator
	channel   feed.Channel
	logger    *slog.Logger
}

type healthResponse struct {
	Status  string     `json:"status"`
	Posted  int        `json:"posted"`
	LastRun *time.Time `json:"lastRun"`
}

// NewActivityHandler creates a new ActivityHandler and sets up routes
func NewActivityHandler(mux *http.ServeMux, a Activity, g Generator, channel feed.Channel) *ActivityHandler {
	handler := &ActivityHandler{
		activity:  a,
		generator: g,
		channel:   channel,
		logger:    app.Logger(),
	}

	mux.HandleFunc("GET /feed", handler.GetFeed)
	mux.HandleFunc("GET /healthz", handler.GetHealth)

	return handler
}

// GetFeed renders recent publications as RSS or Atom
func (h *ActivityHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	params, err := entity.NewFeedParamsFromRequest(r)

	if err != nil {
		h.handleError(w, err, http.StatusBadRequest)
		return
	}

	content, err := h.generator.Generate(h.channel, h.activity.Recent(params.Limit), params)

	if err != nil {
		h.handleError(w, err, http.StatusInternalServerError)
		return
	}

	contentType := "application/rss+xml"
	if params.Format == entity.FormatAtom {
		contentType = "application/atom+xml"
	}

	w.Header().Set("Content-Type", contentType+"; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(content); err != nil {
		h.logger.Error("Failed to write feed response", "error", err)
	}
}

// GetHealth reports the Posted-Set size and the time of the last run
func (h *ActivityHandler) GetHealth(w http.ResponseWriter, _ *http.Request) {
	lastRun, posted := h.activity.Status()

	resp := healthResponse{Status: "ok", Posted: posted}
	if !lastRun.IsZero() {
		utc := lastRun.UTC()
		resp.LastRun = &utc
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// handleError responds with an error message
func (h *ActivityHandler) handleError(w http.ResponseWriter, err error, statusCode int) {
	h.logger.Error("Request error", "error", err, "status", statusCode)
	h.writeJSON(w, statusCode, map[string]string{"error": err.Error()})
}

func (h *ActivityHandler) writeJSON(w http.ResponseWriter, statusCode int, resp any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("Failed to encode a response", "error", err, "response", resp)
	}
}
