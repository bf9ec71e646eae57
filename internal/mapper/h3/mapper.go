package h3mapper

import (
	"fmt"
	"math"
	"sort"

	h3 "github.com/uber/h3-go/v4"

	"github.com/mohammed-shakir/meshcode/internal/core/model"
	"github.com/mohammed-shakir/meshcode/pkg/meshcode"
)

const earthRadiusKm = 6371.0088

// Mapper relates mesh cells to H3 cells. maxCells bounds every polyfill;
// zero disables the bound.
type Mapper struct {
	maxCells int
}

func New(maxCells int) *Mapper { return &Mapper{maxCells: maxCells} }

// CellsForMeshCell returns the H3 cells at res whose centers fall inside the
// mesh cell. A mesh cell smaller than one hexagon maps to the hexagon that
// contains its center.
func (m *Mapper) CellsForMeshCell(code string, res int) (model.Cells, error) {
	if err := validateRes(res); err != nil {
		return nil, err
	}
	b, err := meshcode.BoundsOf(code)
	if err != nil {
		return nil, err
	}
	if m.maxCells > 0 {
		n, err := estimateCells(b, res)
		if err != nil {
			return nil, err
		}
		if n > float64(m.maxCells) {
			return nil, fmt.Errorf("%w: about %.0f H3 cells at res %d exceed limit %d",
				meshcode.ErrTooManyCells, n, res, m.maxCells)
		}
	}

	outer := h3.GeoLoop{
		{Lat: b.South, Lng: b.West},
		{Lat: b.South, Lng: b.East},
		{Lat: b.North, Lng: b.East},
		{Lat: b.North, Lng: b.West},
	}
	cells, err := polyfill(outer, res)
	if err != nil {
		return nil, err
	}
	if m.maxCells > 0 && len(cells) > m.maxCells {
		return nil, fmt.Errorf("%w: %d H3 cells at res %d exceed limit %d",
			meshcode.ErrTooManyCells, len(cells), res, m.maxCells)
	}
	if len(cells) > 0 {
		return cells, nil
	}

	c, err := m.CellForPoint((b.South+b.North)/2, (b.West+b.East)/2, res)
	if err != nil {
		return nil, err
	}
	return model.Cells{c}, nil
}

// CellForPoint returns the H3 cell at res containing the point.
func (m *Mapper) CellForPoint(lat, lon float64, res int) (string, error) {
	if err := validateRes(res); err != nil {
		return "", err
	}
	c, err := h3.LatLngToCell(h3.LatLng{Lat: lat, Lng: lon}, res)
	if err != nil {
		return "", fmt.Errorf("h3 cell for point: %w", err)
	}
	return c.String(), nil
}

// --- helpers ---

func validateRes(res int) error {
	if res < 0 || res > 15 {
		return fmt.Errorf("invalid H3 resolution %d (must be 0..15)", res)
	}
	return nil
}

// estimateCells divides the spherical area of b by the mean hexagon area
// at res.
func estimateCells(b meshcode.Bounds, res int) (float64, error) {
	hex, err := h3.HexagonAreaAvgKm2(res)
	if err != nil {
		return 0, fmt.Errorf("h3 hexagon area: %w", err)
	}
	rad := math.Pi / 180
	area := earthRadiusKm * earthRadiusKm *
		(b.East - b.West) * rad *
		(math.Sin(b.North*rad) - math.Sin(b.South*rad))
	return area / hex, nil
}

// polyfill computes unique cells and returns them sorted for determinism.
func polyfill(outer h3.GeoLoop, res int) (model.Cells, error) {
	indexes, err := h3.PolygonToCells(h3.GeoPolygon{GeoLoop: outer}, res)
	if err != nil {
		return nil, fmt.Errorf("h3 polyfill: %w", err)
	}

	out := make([]string, 0, len(indexes))
	seen := make(map[string]struct{}, len(indexes))
	for _, idx := range indexes {
		s := idx.String()
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out, nil
}
