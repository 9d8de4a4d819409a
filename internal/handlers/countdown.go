package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nkiryanov/tourfront/internal/countdown"
	"github.com/nkiryanov/tourfront/internal/handlers/render"
)

type CountdownHandler struct {
	tick time.Duration
	now  func() time.Time
}

func NewCountdown() *CountdownHandler {
	return &CountdownHandler{tick: time.Second, now: time.Now}
}

func (h *CountdownHandler) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /countdown", h.remaining)
	mux.HandleFunc("GET /countdown/stream", h.stream)

	return mux
}

func endsAt(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("ends_at"))
	if err != nil {
		render.ServiceError(w, "ends_at must be RFC 3339 timestamp", http.StatusBadRequest)
		return time.Time{}, false
	}
	return end, true
}

func (h *CountdownHandler) remaining(w http.ResponseWriter, r *http.Request) {
	end, ok := endsAt(w, r)
	if !ok {
		return
	}
	render.JSON(w, countdown.Remaining(h.now(), end))
}

// stream sends the breakdown as server-sent events once per second until zero or client disconnect
func (h *CountdownHandler) stream(w http.ResponseWriter, r *http.Request) {
	end, ok := endsAt(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		render.ServiceError(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	timer := countdown.NewTimer(end, countdown.WithTick(h.tick), countdown.WithClock(h.now))
	for b := range timer.Run(r.Context()) {
		data, err := json.Marshal(b)
		if err != nil {
			return
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return
		}
		flusher.Flush()
	}
}
