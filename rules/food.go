package rules

import "math/rand"

// foodPlacementAttempts bounds the random search for an open cell. On a
// crowded board we place on the last candidate rather than loop forever.
const foodPlacementAttempts = 100

// PlaceFood picks a random cell for food, retrying up to the attempt
// bound whenever the candidate lands on a living snake.
func PlaceFood(board *Board) Point {
	alive := board.AliveSnakes()

	var p Point
	for i := 0; i < foodPlacementAttempts; i++ {
		p = Point{
			X: rand.Intn(board.Width),
			Y: rand.Intn(board.Height),
		}
		if !occupiedByAny(alive, p) {
			return p
		}
	}
	return p
}

func occupiedByAny(snakes []*Snake, p Point) bool {
	for _, s := range snakes {
		if s.Occupies(p) {
			return true
		}
	}
	return false
}
