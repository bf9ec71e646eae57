package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

func Readiness(p Pinger, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		type resp struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		}
		out := resp{Status: "ready"}
		code := http.StatusOK
		if p != nil {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			err := p.Ping(ctx)
			cancel()
			if err != nil {
				out = resp{Status: "not_ready", Error: err.Error()}
				code = http.StatusServiceUnavailable
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(out)
	}
}
