package router

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mohammed-shakir/meshcode/internal/cache/keys"
	"github.com/mohammed-shakir/meshcode/internal/core/model"
	"github.com/mohammed-shakir/meshcode/internal/core/observability"
	"github.com/mohammed-shakir/meshcode/internal/geojson"
	"github.com/mohammed-shakir/meshcode/pkg/meshcode"
)

type encodeResponse struct {
	Code  string `json:"code"`
	Level int    `json:"level"`
}

type decodeResponse struct {
	Code  string        `json:"code"`
	Level int           `json:"level"`
	Mode  meshcode.Mode `json:"mode"`
	Lat   float64       `json:"lat"`
	Lon   float64       `json:"lon"`
}

type boundsResponse struct {
	Code  string `json:"code"`
	Level int    `json:"level"`
	meshcode.Bounds
}

type parentResponse struct {
	Code   string `json:"code"`
	Parent string `json:"parent"`
	Level  int    `json:"level"`
}

type cellsResponse struct {
	Code  string      `json:"code,omitempty"`
	BBox  string      `json:"bbox,omitempty"`
	Level int         `json:"level"`
	Cells model.Cells `json:"cells"`
}

func cellParam(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "code"))
}

func (a *api) encode(w http.ResponseWriter, r *http.Request) {
	lat, err := queryFloat(r, "lat")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	lon, err := queryFloat(r, "lon")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	level, err := queryInt(r, "level", a.cfg.DefaultLevel)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	code, err := meshcode.Encode(lat, lon, level)
	observability.ObserveMeshOp("encode", err)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, r, encodeResponse{Code: code, Level: level})
}

func (a *api) decode(w http.ResponseWriter, r *http.Request) {
	code := cellParam(r)
	mode, err := meshcode.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		a.writeError(w, r, badParam("%s", err.Error()))
		return
	}

	pt, err := meshcode.DecodeAs(code, mode)
	observability.ObserveMeshOp("decode", err)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	level, _ := meshcode.LevelOf(code)
	a.writeJSON(w, r, decodeResponse{Code: code, Level: level, Mode: mode, Lat: pt.Lat, Lon: pt.Lon})
}

func (a *api) bounds(w http.ResponseWriter, r *http.Request) {
	code := cellParam(r)
	b, err := meshcode.BoundsOf(code)
	observability.ObserveMeshOp("bounds", err)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	level, _ := meshcode.LevelOf(code)
	a.writeJSON(w, r, boundsResponse{Code: code, Level: level, Bounds: b})
}

func (a *api) parent(w http.ResponseWriter, r *http.Request) {
	code := cellParam(r)
	if strings.TrimSpace(r.URL.Query().Get("level")) == "" {
		a.writeError(w, r, badParam("missing required parameter: level"))
		return
	}
	level, err := queryInt(r, "level", 0)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	p, err := a.mesh.ToParent(code, level)
	observability.ObserveMeshOp("parent", err)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, r, parentResponse{Code: code, Parent: p, Level: level})
}

func (a *api) children(w http.ResponseWriter, r *http.Request) {
	code := cellParam(r)
	cur, err := meshcode.LevelOf(code)
	if err != nil {
		observability.ObserveMeshOp("children", err)
		a.writeError(w, r, err)
		return
	}
	level, err := queryInt(r, "level", cur+1)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	kids, err := a.mesh.ToChildren(code, level)
	observability.ObserveMeshOp("children", err)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, r, cellsResponse{Code: code, Level: level, Cells: kids})
}

func (a *api) geojson(w http.ResponseWriter, r *http.Request) {
	f, err := geojson.Feature(cellParam(r))
	observability.ObserveMeshOp("geojson", err)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	body, err := json.Marshal(f)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeBody(w, r, geojson.ContentType, body)
}

func (a *api) cells(w http.ResponseWriter, r *http.Request) {
	rawBBox := strings.TrimSpace(r.URL.Query().Get("bbox"))
	if rawBBox == "" {
		a.writeError(w, r, badParam("missing required parameter: bbox"))
		return
	}
	bb, err := parseBBOX(rawBBox)
	if err != nil {
		a.writeError(w, r, badParam("invalid bbox: %v", err))
		return
	}
	level, err := queryInt(r, "level", a.cfg.DefaultLevel)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" && strings.Contains(r.Header.Get("Accept"), geojson.ContentType) {
		format = "geojson"
	}
	if format != "" && format != "json" && format != "geojson" {
		a.writeError(w, r, badParam("invalid format %q (want json or geojson)", format))
		return
	}

	cells, err := a.mesh.CellsForBBox(bb, level)
	observability.ObserveMeshOp("cells", err)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if cells == nil {
		cells = model.Cells{}
	}

	if format == "geojson" {
		fc, err := geojson.FeatureCollection(cells)
		if err != nil {
			a.writeError(w, r, err)
			return
		}
		body, err := json.Marshal(fc)
		if err != nil {
			a.writeError(w, r, err)
			return
		}
		writeBody(w, r, geojson.ContentType, body)
		return
	}
	a.writeJSON(w, r, cellsResponse{BBox: bb.String(), Level: level, Cells: cells})
}

func (a *api) crosswalk(w http.ResponseWriter, r *http.Request) {
	code := cellParam(r)
	res, err := queryInt(r, "res", a.cfg.H3Res)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if res < 0 || res > 15 {
		a.writeError(w, r, badParam("invalid res %d (must be 0..15)", res))
		return
	}
	// reject bad codes before they reach the cache
	if _, err := meshcode.Decode(code); err != nil {
		observability.ObserveMeshOp("crosswalk", err)
		a.writeError(w, r, err)
		return
	}

	compute := func(context.Context) ([]byte, error) {
		cells, err := a.h3.CellsForMeshCell(code, res)
		if err != nil {
			return nil, err
		}
		body, err := json.Marshal(model.Crosswalk{Code: code, Res: res, Cells: cells})
		if err != nil {
			return nil, err
		}
		return append(body, '\n'), nil
	}

	var body []byte
	if a.cache != nil {
		body, err = a.cache.GetOrCompute(r.Context(), keys.Crosswalk(code, res), compute)
	} else {
		body, err = compute(r.Context())
	}
	observability.ObserveMeshOp("crosswalk", err)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeBody(w, r, "application/json", body)
}
