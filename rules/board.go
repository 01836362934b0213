package rules

// Board is the authoritative state of one running game. Snakes are kept
// in join order, which decides spawn slots and winner tie-breaks.
type Board struct {
	Width  int
	Height int
	Food   Point
	Snakes []*Snake
}

// AliveSnakes returns the snakes that are still alive.
func (b *Board) AliveSnakes() []*Snake {
	alive := []*Snake{}
	for _, s := range b.Snakes {
		if s.Alive {
			alive = append(alive, s)
		}
	}
	return alive
}

// Snake returns the snake with the given id, or nil.
func (b *Board) Snake(id string) *Snake {
	for _, s := range b.Snakes {
		if s.ID == id {
			return s
		}
	}
	return nil
}
