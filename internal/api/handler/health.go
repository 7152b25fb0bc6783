package handler

import (
	"context"
	"log/slog"
	"net/http"
)

// CacheStats is the view of a cache the health endpoint reports on.
type CacheStats interface {
	Name() string
	Len() int
}

// Pinger checks that the snapshot backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthResponse struct {
	Status  string         `json:"status"`
	Backend string         `json:"backend,omitempty"`
	Caches  map[string]int `json:"caches,omitempty"`
}

// Health returns a handler reporting liveness, backend reachability and the
// entry count of each cache. A nil backend is not checked.
func Health(backend Pinger, caches ...CacheStats) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{Status: "ok"}
		status := http.StatusOK

		if backend != nil {
			resp.Backend = "ok"
			if err := backend.Ping(r.Context()); err != nil {
				slog.Warn("snapshot backend unreachable", slog.String("error", err.Error()))
				resp.Status = "degraded"
				resp.Backend = "unavailable"
				status = http.StatusServiceUnavailable
			}
		}

		if len(caches) > 0 {
			resp.Caches = make(map[string]int, len(caches))
			for _, c := range caches {
				resp.Caches[c.Name()] = c.Len()
			}
		}
		JSON(w, status, resp)
	}
}
