// Package meshcode converts between latitude/longitude and Japanese grid
// square mesh codes (levels 1 through 6: primary, secondary, standard 1km,
// and the 1/2, 1/4, 1/8 sub-meshes).
//
// All functions are pure and safe for concurrent use.
package meshcode

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidLevel    = errors.New("meshcode: invalid level")
	ErrInvalidCode     = errors.New("meshcode: invalid code")
	ErrOutOfConvention = errors.New("meshcode: coordinate outside mesh domain")
	ErrTooManyCells    = errors.New("meshcode: too many cells")
)

const (
	MinLevel = 1
	MaxLevel = 6
)

// Residuals are tracked as integer counts of level-6 cells. A level-1 cell
// is 640 level-6 cells on each axis (8 * 10 * 2 * 2 * 2).
const (
	latUnitsPerDegree = 960.0 // 640 / (2/3)
	lonUnitsPerDegree = 640.0
	lonOrigin         = 100.0

	// Upper bounds of the level-1 fields, in level-6 units.
	maxLatUnits = 100 * 640
	maxLonUnits = 80 * 640

	// Values within snapUnits below a cell edge are treated as on the edge,
	// which absorbs float error in corners produced by Decode.
	snapUnits = 1e-9
)

// step describes how one level subdivides its parent.
type step struct {
	span   int // cell size in level-6 units
	digits int // digits per axis; 0 means one combined quadrant digit
}

var steps = [MaxLevel]step{
	{span: 640, digits: 2},
	{span: 80, digits: 1},
	{span: 8, digits: 1},
	{span: 4},
	{span: 2},
	{span: 1},
}

var codeLengths = [MaxLevel + 1]int{0, 4, 6, 8, 9, 10, 11}

// Coordinate is a point in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func checkLevel(level int) error {
	if level < MinLevel || level > MaxLevel {
		return fmt.Errorf("%w %d (must be %d..%d)", ErrInvalidLevel, level, MinLevel, MaxLevel)
	}
	return nil
}

// InDomain reports whether lat/lon fall inside the area the fixed-width code
// layout can represent.
func InDomain(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return lat >= 0 && lat*1.5 < 100 && lon >= lonOrigin && lon < 180
}

// Encode returns the mesh code of the cell containing (lat, lon) at the
// given level.
func Encode(lat, lon float64, level int) (string, error) {
	if err := checkLevel(level); err != nil {
		return "", err
	}
	if !InDomain(lat, lon) {
		return "", fmt.Errorf("%w: lat=%g lon=%g", ErrOutOfConvention, lat, lon)
	}
	ny := toUnits(lat*latUnitsPerDegree, maxLatUnits)
	nx := toUnits((lon-lonOrigin)*lonUnitsPerDegree, maxLonUnits)
	return encodeUnits(ny, nx, level), nil
}

func toUnits(v float64, limit int) int {
	n := int(math.Floor(v + snapUnits))
	if n >= limit {
		n = limit - 1
	}
	return n
}

// encodeUnits emits the code for the cell containing level-6 cell (ny, nx).
func encodeUnits(ny, nx, level int) string {
	buf := make([]byte, 0, codeLengths[level])
	ry, rx := ny, nx
	for i := range level {
		st := steps[i]
		by, bx := ry/st.span, rx/st.span
		ry, rx = ry%st.span, rx%st.span
		switch st.digits {
		case 2:
			buf = append(buf, byte('0'+by/10), byte('0'+by%10), byte('0'+bx/10), byte('0'+bx%10))
		case 1:
			buf = append(buf, byte('0'+by), byte('0'+bx))
		default:
			buf = append(buf, quadrantFor(by, bx).Digit())
		}
	}
	return string(buf)
}

// Decode returns the southwest corner of the cell named by code.
//
// Besides a bad length, non-digit characters and quadrant digits outside
// 1-4, Decode reports ErrInvalidCode for a level-1 longitude field of 80 or
// more and for level-2 digits 8 or 9. Such codes name no cell of the grid.
func Decode(code string) (Coordinate, error) {
	ny, nx, _, err := decodeUnits(code)
	if err != nil {
		return Coordinate{}, err
	}
	return cornerOf(ny, nx), nil
}

func cornerOf(ny, nx int) Coordinate {
	return Coordinate{
		Lat: float64(ny) / latUnitsPerDegree,
		Lon: lonOrigin + float64(nx)/lonUnitsPerDegree,
	}
}

// decodeUnits validates code and returns its southwest corner in level-6
// units together with its level.
func decodeUnits(code string) (ny, nx, level int, err error) {
	level, err = LevelOf(code)
	if err != nil {
		return 0, 0, 0, err
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return 0, 0, 0, fmt.Errorf("%w %q: non-digit at position %d", ErrInvalidCode, code, i)
		}
	}

	pos := 0
	for i := range level {
		st := steps[i]
		var by, bx int
		switch st.digits {
		case 2:
			by = int(code[pos]-'0')*10 + int(code[pos+1]-'0')
			bx = int(code[pos+2]-'0')*10 + int(code[pos+3]-'0')
			if bx >= maxLonUnits/st.span {
				return 0, 0, 0, fmt.Errorf("%w %q: longitude field %02d out of range", ErrInvalidCode, code, bx)
			}
			pos += 4
		case 1:
			by, bx = int(code[pos]-'0'), int(code[pos+1]-'0')
			if limit := steps[i-1].span / st.span; by >= limit || bx >= limit {
				return 0, 0, 0, fmt.Errorf("%w %q: level %d digit out of range 0..%d", ErrInvalidCode, code, i+1, limit-1)
			}
			pos += 2
		default:
			q, ok := QuadrantFromDigit(code[pos])
			if !ok {
				return 0, 0, 0, fmt.Errorf("%w %q: level %d digit %c not in 1..4", ErrInvalidCode, code, i+1, code[pos])
			}
			by, bx = q.Offsets()
			pos++
		}
		ny += by * st.span
		nx += bx * st.span
	}
	return ny, nx, level, nil
}

// LevelOf maps a code length to its level.
func LevelOf(code string) (int, error) {
	for lv := MinLevel; lv <= MaxLevel; lv++ {
		if len(code) == codeLengths[lv] {
			return lv, nil
		}
	}
	return 0, fmt.Errorf("%w %q: length %d (must be 4, 6, 8, 9, 10 or 11)", ErrInvalidCode, code, len(code))
}

// CodeLength returns the number of digits of a code at level.
func CodeLength(level int) (int, error) {
	if err := checkLevel(level); err != nil {
		return 0, err
	}
	return codeLengths[level], nil
}
