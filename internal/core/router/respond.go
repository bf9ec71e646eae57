package router

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/mohammed-shakir/meshcode/pkg/meshcode"
)

func etagFor(body []byte) string {
	return fmt.Sprintf(`"%016x"`, xxhash.Sum64(body))
}

// writeBody sends a 200 with a content hash ETag, or 304 when the client
// already holds the same body.
func writeBody(w http.ResponseWriter, r *http.Request, contentType string, body []byte) {
	etag := etagFor(body)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// etagMatches applies the weak comparison of If-None-Match: any listed tag
// or "*" matches.
func etagMatches(header, etag string) bool {
	for _, tag := range strings.Split(header, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "*" || strings.TrimPrefix(tag, "W/") == etag {
			return true
		}
	}
	return false
}

func (a *api) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		a.writeError(w, r, fmt.Errorf("encode response: %w", err))
		return
	}
	writeBody(w, r, "application/json", append(body, '\n'))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, meshcode.ErrTooManyCells):
		return http.StatusUnprocessableEntity
	case errors.Is(err, meshcode.ErrInvalidLevel),
		errors.Is(err, meshcode.ErrInvalidCode),
		errors.Is(err, meshcode.ErrOutOfConvention),
		isParamError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (a *api) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	msg := err.Error()
	if code >= http.StatusInternalServerError {
		a.log.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "err", err)
		msg = "internal server error"
	} else {
		a.log.LogAttrs(r.Context(), slog.LevelDebug, "request rejected",
			slog.String("path", r.URL.Path), slog.Int("status", code), slog.String("err", msg))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
