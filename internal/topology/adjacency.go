package topology

// Direction names one of the six (or five, at a pentagonal field) slots
// of an adjacency record.
type Direction uint8

const (
	NW Direction = iota
	W
	SW
	SE
	E
	NE
)

var allDirections = [6]Direction{NW, W, SW, SE, E, NE}

// String renders a direction as its two-or-three letter compass name.
func (d Direction) String() string {
	switch d {
	case NW:
		return "nw"
	case W:
		return "w"
	case SW:
		return "sw"
	case SE:
		return "se"
	case E:
		return "e"
	case NE:
		return "ne"
	default:
		return "?"
	}
}

// Neighbor is one slot of an Adjacency record: present is false only for
// the NE slot of a pentagonal field.
type Neighbor struct {
	Field   Field
	Present bool
}

// Adjacency holds the (up to) six neighbours of a field, keyed by
// direction. For pentagonal fields, NE.Present is false.
type Adjacency struct {
	NW, W, SW, SE, E, NE Neighbor
}

// Get returns the neighbor in the given direction.
func (a Adjacency) Get(d Direction) Neighbor {
	switch d {
	case NW:
		return a.NW
	case W:
		return a.W
	case SW:
		return a.SW
	case SE:
		return a.SE
	case E:
		return a.E
	case NE:
		return a.NE
	default:
		return Neighbor{}
	}
}

// Directions returns all six direction slots, in a fixed order.
func Directions() [6]Direction { return allDirections }

// present wraps a field as a present neighbor.
func present(f Field) Neighbor { return Neighbor{Field: f, Present: true} }

// Neighbors computes the adjacency record for f on a sphere with the
// given divisions, per spec 4.B. divisions must be >= 1.
func Neighbors(f Field, divisions int) Adjacency {
	d := divisions
	switch f.Kind {
	case KindNorth:
		return Adjacency{
			NW: present(Sxy(0, 0, 0)),
			W:  present(Sxy(1, 0, 0)),
			SW: present(Sxy(2, 0, 0)),
			SE: present(Sxy(3, 0, 0)),
			E:  present(Sxy(4, 0, 0)),
		}
	case KindSouth:
		maxX, maxY := 2*d-1, d-1
		return Adjacency{
			NW: present(Sxy(0, maxX, maxY)),
			W:  present(Sxy(1, maxX, maxY)),
			SW: present(Sxy(2, maxX, maxY)),
			SE: present(Sxy(3, maxX, maxY)),
			E:  present(Sxy(4, maxX, maxY)),
		}
	default:
		return sxyNeighbors(f, d)
	}
}

func sxyNeighbors(f Field, d int) Adjacency {
	s, x, y := f.S, f.X, f.Y
	maxX := 2*d - 1
	maxY := d - 1
	nextS := (s + 1) % 5
	prevS := (s + 4) % 5
	pent := y == 0 && (x+1)%d == 0

	var a Adjacency

	// nw
	switch {
	case x > 0:
		a.NW = present(Sxy(s, x-1, y))
	case y == 0:
		a.NW = present(North())
	default:
		a.NW = present(Sxy(prevS, y-1, 0))
	}

	// w
	switch {
	case x == 0:
		a.W = present(Sxy(prevS, y, 0))
	case y == maxY && x > d:
		a.W = present(Sxy(prevS, maxX, x-d))
	case y == maxY:
		a.W = present(Sxy(prevS, x+d-1, 0))
	default:
		a.W = present(Sxy(s, x-1, y+1))
	}

	// sw
	switch {
	case y < maxY:
		a.SW = present(Sxy(s, x, y+1))
	case x == maxX && y == maxY:
		a.SW = present(South())
	case x >= d:
		a.SW = present(Sxy(prevS, maxX, x-d+1))
	default:
		a.SW = present(Sxy(prevS, x+d, 0))
	}

	// se
	switch {
	case pent && x == d-1:
		a.SE = present(Sxy(s, x+1, 0))
	case pent && x == maxX:
		a.SE = present(Sxy(nextS, d, maxY))
	case x == maxX:
		a.SE = present(Sxy(nextS, y+d, maxY))
	default:
		a.SE = present(Sxy(s, x+1, y))
	}

	// e
	switch {
	case pent && x == d-1:
		a.E = present(Sxy(nextS, 0, maxY))
	case pent && x == maxX:
		a.E = present(Sxy(nextS, d-1, maxY))
	case x == maxX:
		a.E = present(Sxy(nextS, y+d-1, maxY))
	case y == 0 && x < d:
		a.E = present(Sxy(nextS, 0, x+1))
	case y == 0:
		a.E = present(Sxy(nextS, x-d+1, maxY))
	default:
		a.E = present(Sxy(s, x+1, y-1))
	}

	// ne
	switch {
	case pent:
		a.NE = Neighbor{}
	case y > 0:
		a.NE = present(Sxy(s, x, y-1))
	case y == 0 && x < d:
		a.NE = present(Sxy(nextS, 0, x))
	default:
		a.NE = present(Sxy(nextS, x-d, maxY))
	}

	return a
}
