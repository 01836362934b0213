package rules

// Snake is one player's body on the board, head first. Direction is the
// facing applied at the last tick; NextDirection holds at most one
// pending turn, last write wins until the next tick consumes it.
type Snake struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Body          []Point `json:"body"`
	Direction     Point   `json:"direction"`
	NextDirection Point   `json:"-"`
	Score         int     `json:"score"`
	Alive         bool    `json:"alive"`
}

// Head returns the first point in the body.
func (s *Snake) Head() Point {
	return s.Body[0]
}

// Occupies reports whether any body cell sits on the given point.
func (s *Snake) Occupies(p Point) bool {
	for _, b := range s.Body {
		if b.Equal(p) {
			return true
		}
	}
	return false
}

// push adds a new head. The tail is removed separately once eating has
// been resolved, so a snake that ate keeps its full length and grows.
func (s *Snake) push(head Point) {
	s.Body = append([]Point{head}, s.Body...)
}

// popTail drops the last body cell.
func (s *Snake) popTail() {
	s.Body = s.Body[:len(s.Body)-1]
}
