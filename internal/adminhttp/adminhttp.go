// Package adminhttp exposes a small operator-facing HTTP surface
// (liveness and a debug summary) multiplexed onto the same listener
// as the raw wire protocol. It is additive: no client of the wire
// protocol depends on it.
package adminhttp

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/s21platform/codeu-chat/internal/model"
)

// Source supplies the read-only data the admin surface reports;
// view.View satisfies it.
type Source interface {
	GetCounts() model.Counts
	GetInfo() model.Info
}

// summary is the JSON body of GET /debug/summary.
type summary struct {
	Version       string `json:"version"`
	Users         int    `json:"users"`
	Conversations int    `json:"conversations"`
	Messages      int    `json:"messages"`
}

// NewRouter builds the admin HTTP router over source.
func NewRouter(source Source) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/debug/summary", func(w http.ResponseWriter, r *http.Request) {
		counts := source.GetCounts()
		info := source.GetInfo()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(summary{
			Version:       info.Version.String(),
			Users:         counts.Users,
			Conversations: counts.Conversations,
			Messages:      counts.Messages,
		})
	})

	return r
}
