package rules

// Point is a single cell on the game grid.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Equal checks if 2 points are the same x,y coordinate
func (p Point) Equal(other Point) bool {
	return p.X == other.X && p.Y == other.Y
}

// Add returns the point offset by the given vector.
func (p Point) Add(v Point) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Wrap reduces the point onto a toroidal grid of the given dimensions.
// Exiting one edge re-enters the opposite edge.
func (p Point) Wrap(width, height int) Point {
	x := p.X % width
	if x < 0 {
		x += width
	}
	y := p.Y % height
	if y < 0 {
		y += height
	}
	return Point{X: x, Y: y}
}

// Direction unit vectors. The zero Point is not a valid direction.
var (
	Up    = Point{X: 0, Y: -1}
	Down  = Point{X: 0, Y: 1}
	Left  = Point{X: -1, Y: 0}
	Right = Point{X: 1, Y: 0}
)

// ParseDirection maps a protocol direction token to its unit vector. The
// second return is false for unknown tokens.
func ParseDirection(token string) (Point, bool) {
	switch token {
	case "up":
		return Up, true
	case "down":
		return Down, true
	case "left":
		return Left, true
	case "right":
		return Right, true
	}
	return Point{}, false
}

// SameAxis reports whether two direction vectors share an axis. A snake
// may never turn onto the axis it is already travelling, which covers the
// instant-reverse case.
func SameAxis(a, b Point) bool {
	return (a.X != 0 && b.X != 0) || (a.Y != 0 && b.Y != 0)
}
