// Package geojson renders mesh cells as GeoJSON polygons.
package geojson

import (
	"fmt"

	"github.com/twpayne/go-geom"
	geomjson "github.com/twpayne/go-geom/encoding/geojson"

	"github.com/mohammed-shakir/meshcode/pkg/meshcode"
)

const ContentType = "application/geo+json"

// Feature builds the polygon of one cell, ring ordered SW, SE, NE, NW, SW.
func Feature(code string) (*geomjson.Feature, error) {
	b, err := meshcode.BoundsOf(code)
	if err != nil {
		return nil, err
	}
	level, _ := meshcode.LevelOf(code)

	poly, err := geom.NewPolygon(geom.XY).SetCoords([][]geom.Coord{{
		{b.West, b.South},
		{b.East, b.South},
		{b.East, b.North},
		{b.West, b.North},
		{b.West, b.South},
	}})
	if err != nil {
		return nil, fmt.Errorf("cell %s polygon: %w", code, err)
	}

	return &geomjson.Feature{
		ID:       code,
		BBox:     geom.NewBounds(geom.XY).Set(b.West, b.South, b.East, b.North),
		Geometry: poly,
		Properties: map[string]any{
			"code":  code,
			"level": level,
		},
	}, nil
}

func FeatureCollection(codes []string) (*geomjson.FeatureCollection, error) {
	fc := &geomjson.FeatureCollection{Features: make([]*geomjson.Feature, 0, len(codes))}
	bounds := geom.NewBounds(geom.XY)
	for _, c := range codes {
		f, err := Feature(c)
		if err != nil {
			return nil, err
		}
		bounds.Extend(f.Geometry)
		fc.Features = append(fc.Features, f)
	}
	if len(fc.Features) > 0 {
		fc.BBox = bounds
	}
	return fc, nil
}
