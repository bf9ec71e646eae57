package meshcode

// Quadrant is the position of a level 4-6 cell within its parent.
type Quadrant uint8

const (
	SouthWest Quadrant = iota + 1
	SouthEast
	NorthWest
	NorthEast
)

// indexed by [north][east]
var quadrantByOffsets = [2][2]Quadrant{
	{SouthWest, SouthEast},
	{NorthWest, NorthEast},
}

var quadrantOffsets = [...]struct{ north, east int }{
	SouthWest: {0, 0},
	SouthEast: {0, 1},
	NorthWest: {1, 0},
	NorthEast: {1, 1},
}

var quadrantNames = [...]string{
	SouthWest: "SW",
	SouthEast: "SE",
	NorthWest: "NW",
	NorthEast: "NE",
}

func quadrantFor(north, east int) Quadrant {
	return quadrantByOffsets[north][east]
}

// QuadrantFromDigit parses a level 4-6 code digit.
func QuadrantFromDigit(d byte) (Quadrant, bool) {
	q := Quadrant(d - '0')
	if d < '0' || !q.Valid() {
		return 0, false
	}
	return q, true
}

func (q Quadrant) Valid() bool { return q >= SouthWest && q <= NorthEast }

// Digit is the code digit for q ('1'..'4').
func (q Quadrant) Digit() byte { return byte('0' + q) }

// Offsets returns 1 on each axis where q lies in the upper half of its parent.
func (q Quadrant) Offsets() (north, east int) {
	o := quadrantOffsets[q]
	return o.north, o.east
}

func (q Quadrant) String() string {
	if !q.Valid() {
		return "invalid"
	}
	return quadrantNames[q]
}
