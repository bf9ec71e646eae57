package router

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mohammed-shakir/meshcode/internal/core/config"
	"github.com/mohammed-shakir/meshcode/internal/core/model"
	"github.com/mohammed-shakir/meshcode/internal/core/observability"
	"github.com/mohammed-shakir/meshcode/internal/mapper"
)

// Crosswalker maps one mesh cell onto H3 cells.
type Crosswalker interface {
	CellsForMeshCell(code string, res int) (model.Cells, error)
}

// Cache is a read-through cache for encoded responses.
type Cache interface {
	GetOrCompute(ctx context.Context, key string, compute func(context.Context) ([]byte, error)) ([]byte, error)
}

type Deps struct {
	Config config.Config
	Logger *slog.Logger
	Mesh   mapper.Interface
	H3     Crosswalker
	Cache  Cache // optional
}

type api struct {
	cfg   config.Config
	log   *slog.Logger
	mesh  mapper.Interface
	h3    Crosswalker
	cache Cache
}

// Routes returns the /v1 API.
func Routes(d Deps) (http.Handler, error) {
	if d.Mesh == nil {
		return nil, errors.New("router: mesh mapper is required")
	}
	if d.H3 == nil {
		return nil, errors.New("router: h3 crosswalk is required")
	}
	if d.Logger == nil {
		d.Logger = slog.New(slog.DiscardHandler)
	}
	a := &api{cfg: d.Config, log: d.Logger, mesh: d.Mesh, h3: d.H3, cache: d.Cache}

	r := chi.NewRouter()
	r.Get("/encode", observe("/v1/encode", a.encode))
	r.Get("/decode/{code}", observe("/v1/decode/{code}", a.decode))
	r.Get("/cells", observe("/v1/cells", a.cells))
	r.Route("/cells/{code}", func(r chi.Router) {
		r.Get("/bounds", observe("/v1/cells/{code}/bounds", a.bounds))
		r.Get("/parent", observe("/v1/cells/{code}/parent", a.parent))
		r.Get("/children", observe("/v1/cells/{code}/children", a.children))
		r.Get("/geojson", observe("/v1/cells/{code}/geojson", a.geojson))
		r.Get("/h3", observe("/v1/cells/{code}/h3", a.crosswalk))
	})
	return r, nil
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

// records request count and latency under the route pattern
func observe(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		h(sw, r)
		observability.ObserveHTTP(r.Method, route, sw.code, time.Since(start).Seconds())
	}
}
