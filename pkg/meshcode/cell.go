package meshcode

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Bounds is the extent of a cell in decimal degrees.
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// Mode selects which point of a cell DecodeAs returns.
type Mode string

const (
	ModeSouthWest Mode = "sw"
	ModeCenter    Mode = "center"
)

// ParseMode accepts "sw" (also the empty string) and "center".
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeSouthWest:
		return ModeSouthWest, nil
	case ModeCenter:
		return ModeCenter, nil
	default:
		return "", fmt.Errorf("unknown decode mode %q (want sw or center)", s)
	}
}

// Span returns the latitude and longitude extent of a cell at level.
func Span(level int) (lat, lon float64, err error) {
	if err := checkLevel(level); err != nil {
		return 0, 0, err
	}
	units := float64(steps[level-1].span)
	return units / latUnitsPerDegree, units / lonUnitsPerDegree, nil
}

// Center returns the midpoint of the cell named by code.
func Center(code string) (Coordinate, error) {
	b, err := BoundsOf(code)
	if err != nil {
		return Coordinate{}, err
	}
	return Coordinate{Lat: (b.South + b.North) / 2, Lon: (b.West + b.East) / 2}, nil
}

// BoundsOf returns the extent of the cell named by code.
func BoundsOf(code string) (Bounds, error) {
	ny, nx, level, err := decodeUnits(code)
	if err != nil {
		return Bounds{}, err
	}
	span := steps[level-1].span
	sw := cornerOf(ny, nx)
	ne := cornerOf(ny+span, nx+span)
	return Bounds{South: sw.Lat, West: sw.Lon, North: ne.Lat, East: ne.Lon}, nil
}

// DecodeAs decodes code to the point selected by mode.
func DecodeAs(code string, mode Mode) (Coordinate, error) {
	switch mode {
	case ModeSouthWest, "":
		return Decode(code)
	case ModeCenter:
		return Center(code)
	default:
		return Coordinate{}, fmt.Errorf("unknown decode mode %q", mode)
	}
}

// Parent returns the ancestor of code at level. A code is its own parent at
// its own level.
func Parent(code string, level int) (string, error) {
	cur, err := LevelOf(code)
	if err != nil {
		return "", err
	}
	if err := checkLevel(level); err != nil {
		return "", err
	}
	if level > cur {
		return "", fmt.Errorf("%w %d: deeper than code level %d", ErrInvalidLevel, level, cur)
	}
	if _, _, _, err := decodeUnits(code); err != nil {
		return "", err
	}
	return code[:codeLengths[level]], nil
}

// Children returns the sorted codes one level below code.
func Children(code string) ([]string, error) {
	cur, err := LevelOf(code)
	if err != nil {
		return nil, err
	}
	if cur == MaxLevel {
		return nil, fmt.Errorf("%w: %q is already at level %d", ErrInvalidLevel, code, MaxLevel)
	}
	return Descendants(code, cur+1, 0)
}

// Descendants returns the sorted codes at level inside the cell named by
// code. At the code's own level the result is the code itself. limit > 0
// caps the number of cells.
func Descendants(code string, level, limit int) ([]string, error) {
	ny, nx, cur, err := decodeUnits(code)
	if err != nil {
		return nil, err
	}
	if err := checkLevel(level); err != nil {
		return nil, err
	}
	if level < cur {
		return nil, fmt.Errorf("%w %d: shallower than code level %d", ErrInvalidLevel, level, cur)
	}
	span := steps[level-1].span
	per := steps[cur-1].span / span
	if limit > 0 && per*per > limit {
		return nil, fmt.Errorf("%w: %d cells exceed limit %d", ErrTooManyCells, per*per, limit)
	}

	out := make([]string, 0, per*per)
	for i := range per {
		for j := range per {
			out = append(out, encodeUnits(ny+i*span, nx+j*span, level))
		}
	}
	sort.Strings(out)
	return out, nil
}

// CellsInBBox returns the sorted codes at level of every cell that overlaps
// the rectangle. The rectangle is clipped to the mesh domain first; a
// rectangle entirely outside it yields no cells. limit > 0 caps the number
// of cells.
func CellsInBBox(south, west, north, east float64, level, limit int) ([]string, error) {
	if err := checkLevel(level); err != nil {
		return nil, err
	}
	for _, v := range []float64{south, west, north, east} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.New("bbox contains non-finite value")
		}
	}
	if north < south || east < west {
		return nil, errors.New("bbox must satisfy north>=south and east>=west")
	}

	south = math.Max(south, 0)
	west = math.Max(west, lonOrigin)
	north = math.Min(north, maxLatUnits/latUnitsPerDegree)
	east = math.Min(east, 180)
	if north < south || east < west || south*latUnitsPerDegree >= maxLatUnits || (west-lonOrigin)*lonUnitsPerDegree >= maxLonUnits {
		return nil, nil
	}

	span := steps[level-1].span
	y0 := toUnits(south*latUnitsPerDegree, maxLatUnits) / span
	x0 := toUnits((west-lonOrigin)*lonUnitsPerDegree, maxLonUnits) / span
	y1 := upperCell(north*latUnitsPerDegree, maxLatUnits, span, y0)
	x1 := upperCell((east-lonOrigin)*lonUnitsPerDegree, maxLonUnits, span, x0)

	n := (y1 - y0 + 1) * (x1 - x0 + 1)
	if limit > 0 && n > limit {
		return nil, fmt.Errorf("%w: %d cells exceed limit %d", ErrTooManyCells, n, limit)
	}

	out := make([]string, 0, n)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			out = append(out, encodeUnits(y*span, x*span, level))
		}
	}
	sort.Strings(out)
	return out, nil
}

// upperCell is the index of the last cell overlapping a rectangle whose upper
// edge lies at v units. An edge that only touches the next cell excludes it.
func upperCell(v float64, limit, span, lower int) int {
	idx := toUnits(v, limit) / span
	if float64(idx*span) >= v-snapUnits && idx > lower {
		idx--
	}
	return idx
}
